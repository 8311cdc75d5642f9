package flint

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "bg.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImageCacheLoad(t *testing.T) {
	path := writeTestPNG(t, 8, 4)
	c := NewImageCache()
	img, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w, h := img.Size(); w != 8 || h != 4 {
		t.Errorf("Size = %dx%d, want 8x4", w, h)
	}
	again, err := c.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again != img || c.Len() != 1 {
		t.Error("second Load should hit the cache")
	}
}

func TestImageCacheErrors(t *testing.T) {
	c := NewImageCache()
	if _, err := c.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Load(bad); err == nil {
		t.Error("expected decode error")
	}
	if c.Len() != 0 {
		t.Error("failed loads should not be cached")
	}
}

func TestImageHandle(t *testing.T) {
	img := NewImage(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if img.Handle() != nil {
		t.Error("new image has a handle")
	}
	img.SetHandle("tex")
	if img.Handle() != "tex" {
		t.Error("handle not stored")
	}
	var none *Image
	if w, h := none.Size(); w != 0 || h != 0 {
		t.Error("nil image should have zero size")
	}
}

func TestBackgroundImageDrawn(t *testing.T) {
	r, c := newTestRenderer(t, 100, 100)
	img, err := r.LoadImage(writeTestPNG(t, 4, 4))
	if err != nil {
		t.Fatal(err)
	}
	n := box(r, "n", 0, 0, 30, 20, ColorTransparent)
	n.SetBackgroundImage(img)
	r.Stage().Add(n)
	mustRender(t, r)

	if c.count("image") != 1 {
		t.Fatalf("image draws = %d, want 1", c.count("image"))
	}
	for _, d := range c.draws {
		if d.kind == "image" && d.rect != (Rect{Width: 30, Height: 20}) {
			t.Errorf("image dst = %+v, want node rect", d.rect)
		}
	}
}
