package ggcanvas

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/flint"
)

func newRenderer(t *testing.T, w, h int) (*flint.Renderer, *Canvas) {
	t.Helper()
	c := New()
	r, err := flint.NewRenderer(c, w, h)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r, c
}

func render(t *testing.T, r *flint.Renderer) {
	t.Helper()
	if _, err := r.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func pixel(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func near(got color.RGBA, want flint.Color) bool {
	d := func(a, b uint8) bool {
		if a > b {
			return a-b <= 3
		}
		return b-a <= 3
	}
	return d(got.R, want.R) && d(got.G, want.G) && d(got.B, want.B) && d(got.A, want.A)
}

func TestRenderFillsBoxes(t *testing.T) {
	r, c := newRenderer(t, 64, 64)
	red := flint.RGB(255, 0, 0)
	n := r.NewNode("red")
	n.SetPosition(10, 10)
	n.SetSize(20, 20)
	n.SetBackgroundColor(red)
	r.Stage().Add(n)
	render(t, r)

	img := c.Image()
	if got := pixel(img, 20, 20); !near(got, red) {
		t.Errorf("inside box = %v, want red", got)
	}
	if got := pixel(img, 50, 50); !near(got, flint.ColorWhite) {
		t.Errorf("outside box = %v, want white", got)
	}
}

func TestPartialRepaintClearsOldPosition(t *testing.T) {
	r, c := newRenderer(t, 100, 64)
	blue := flint.RGB(0, 0, 255)
	n := r.NewNode("blue")
	n.SetPosition(5, 5)
	n.SetSize(20, 20)
	n.SetBackgroundColor(blue)
	r.Stage().Add(n)
	render(t, r)

	n.SetPosition(60, 5)
	render(t, r)

	img := c.Image()
	if got := pixel(img, 15, 15); !near(got, flint.ColorWhite) {
		t.Errorf("old position = %v, want white", got)
	}
	if got := pixel(img, 70, 15); !near(got, blue) {
		t.Errorf("new position = %v, want blue", got)
	}
}

func TestOverflowHiddenClipsChild(t *testing.T) {
	r, c := newRenderer(t, 64, 64)
	green := flint.RGB(0, 200, 0)
	parent := r.NewNode("parent")
	parent.SetSize(20, 20)
	r.Stage().Add(parent)
	child := r.NewNode("child")
	child.SetSize(50, 50)
	child.SetBackgroundColor(green)
	parent.Add(child)
	render(t, r)

	img := c.Image()
	if got := pixel(img, 10, 10); !near(got, green) {
		t.Errorf("inside parent = %v, want green", got)
	}
	if got := pixel(img, 40, 40); !near(got, flint.ColorWhite) {
		t.Errorf("outside parent = %v, want white", got)
	}
}

func TestLoadFontMeasures(t *testing.T) {
	c := New()
	face, err := c.LoadFont(flint.FontKey{Family: "anything", Size: 16})
	if err != nil {
		t.Fatal(err)
	}
	w, h := face.Measure("hello")
	if w <= 0 || h <= 0 {
		t.Errorf("Measure = %v, %v", w, h)
	}
	if a := face.Ascent(); a <= 0 || a > h {
		t.Errorf("Ascent = %v, line height %v", a, h)
	}
}

func TestSavePNG(t *testing.T) {
	r, c := newRenderer(t, 16, 16)
	render(t, r)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := c.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestResize(t *testing.T) {
	r, c := newRenderer(t, 16, 16)
	if err := r.Resize(32, 24); err != nil {
		t.Fatal(err)
	}
	if c.Context().Width() != 32 || c.Context().Height() != 24 {
		t.Errorf("context = %dx%d", c.Context().Width(), c.Context().Height())
	}
	if err := c.Resize(0, 10); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestCrossingRegionsBlendOnce(t *testing.T) {
	r, c := newRenderer(t, 400, 300)
	n := r.NewNode("veil")
	n.SetSize(400, 300)
	n.SetBackgroundColor(flint.RGBA(0, 0, 0, 128))
	r.Stage().Add(n)
	render(t, r)
	p := pixel(c.Image(), 4, 4)
	want := flint.RGBA(p.R, p.G, p.B, p.A)

	r.Tracker().Add(flint.BoundXYWH(0, 0, 400, 16))
	r.Tracker().Add(flint.BoundXYWH(0, 0, 8, 300))
	render(t, r)

	img := c.Image()
	for _, pt := range []image.Point{{4, 4}, {200, 8}, {4, 200}} {
		if got := pixel(img, pt.X, pt.Y); !near(got, want) {
			t.Errorf("pixel %v = %v, want %v", pt, got, want)
		}
	}
}
