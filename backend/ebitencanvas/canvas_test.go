package ebitencanvas

import (
	"image"
	"testing"

	"github.com/phanxgames/flint"
)

func TestDeviceRectRoundsOutward(t *testing.T) {
	got := deviceRect(flint.Bound{Left: 1.5, Top: -0.5, Right: 9.2, Bottom: 4})
	if got != image.Rect(1, -1, 10, 4) {
		t.Errorf("deviceRect = %v", got)
	}
}

func TestStrokeQuads(t *testing.T) {
	qs := strokeQuads(flint.Rect{X: 0, Y: 0, Width: 10, Height: 10}, 2)
	top := qs[0]
	if top[0] != (flint.Vec2{X: -1, Y: -1}) || top[2] != (flint.Vec2{X: 11, Y: 1}) {
		t.Errorf("top quad = %v", top)
	}
	right := qs[3]
	if right[0] != (flint.Vec2{X: 9, Y: 1}) || right[2] != (flint.Vec2{X: 11, Y: 9}) {
		t.Errorf("right quad = %v", right)
	}
}

func TestGeoM(t *testing.T) {
	m := flint.Affine{0, 1, -1, 0, 5, 7}
	g := geoM(m)
	x, y := g.Apply(2, 3)
	wx, wy := m.Apply(2, 3)
	if x != wx || y != wy {
		t.Errorf("GeoM.Apply = (%v, %v), want (%v, %v)", x, y, wx, wy)
	}
}

func TestSaveRestoreClips(t *testing.T) {
	c := New()
	if err := c.Resize(100, 100); err != nil {
		t.Fatal(err)
	}
	c.Save()
	c.ClipRect(flint.Rect{X: 10, Y: 10, Width: 20, Height: 20}, flint.ClipIntersect)
	if len(c.cur.clips) != 1 || c.cur.clips[0] != flint.BoundXYWH(10, 10, 20, 20) {
		t.Errorf("clips = %v", c.cur.clips)
	}
	c.Save()
	c.ClipRect(flint.Rect{X: 15, Y: 15, Width: 5, Height: 5}, flint.ClipDifference)
	if len(c.cur.clips) != 4 {
		t.Errorf("difference clips = %v", c.cur.clips)
	}
	c.Restore()
	if len(c.cur.clips) != 1 {
		t.Errorf("Restore did not bring back the outer clip: %v", c.cur.clips)
	}
	c.Restore()
	if c.cur.clips != nil {
		t.Errorf("clips after final Restore = %v, want nil", c.cur.clips)
	}
}

func TestEmptyClipSurvivesSave(t *testing.T) {
	c := New()
	if err := c.Resize(100, 100); err != nil {
		t.Fatal(err)
	}
	c.ClipPath(flint.ClipPath{flint.BoundXYWH(200, 200, 10, 10)})
	c.Save()
	if c.cur.clips == nil || len(c.cur.clips) != 0 {
		t.Errorf("clips = %#v, want empty non-nil", c.cur.clips)
	}
	c.Restore()
	if c.cur.clips == nil {
		t.Error("Restore turned an empty clip into no clip")
	}
}

func TestClipPathUsesDeviceSpace(t *testing.T) {
	c := New()
	if err := c.Resize(100, 100); err != nil {
		t.Fatal(err)
	}
	c.SetTransform(flint.TranslateAffine(50, 50))
	c.ClipPath(flint.ClipPath{flint.BoundXYWH(0, 0, 10, 10)})
	if len(c.cur.clips) != 1 || c.cur.clips[0] != flint.BoundXYWH(0, 0, 10, 10) {
		t.Errorf("clips = %v", c.cur.clips)
	}
}

func TestRendererSmoke(t *testing.T) {
	c := New()
	r, err := flint.NewRenderer(c, 64, 48)
	if err != nil {
		t.Fatal(err)
	}
	n := r.NewNode("box")
	n.SetSize(10, 10)
	n.SetRotation(30)
	n.SetBackgroundColor(flint.RGB(10, 20, 30))
	n.SetBorder(flint.Border{Width: 2, Color: flint.ColorBlack})
	n.SetText("hi", nil, flint.ColorBlack)
	r.Stage().Add(n)
	if ok, err := r.Render(); err != nil || !ok {
		t.Fatalf("Render = %v, %v", ok, err)
	}
	if b := c.Target().Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("target = %v", b)
	}
	if len(c.stack) != 0 {
		t.Errorf("unbalanced Save/Restore: depth %d", len(c.stack))
	}
}

func TestLoadFont(t *testing.T) {
	c := New()
	f, err := c.LoadFont(flint.FontKey{Family: "whatever", Size: 14})
	if err != nil {
		t.Fatal(err)
	}
	if w, h := f.Measure("abc"); w <= 0 || h <= 0 {
		t.Errorf("Measure = %v, %v", w, h)
	}
	if f.Ascent() <= 0 {
		t.Error("Ascent should be positive")
	}
}

func TestClipPathSnapsAndSplits(t *testing.T) {
	c := New()
	if err := c.Resize(100, 100); err != nil {
		t.Fatal(err)
	}
	c.ClipPath(flint.ClipPath{
		{Left: 0, Top: 0, Right: 100, Bottom: 10.5},
		{Left: 0, Top: 10.5, Right: 20.2, Bottom: 60},
		{Left: 0, Top: 0, Right: 8, Bottom: 100},
	})
	for i, a := range c.cur.clips {
		ra := deviceRect(a)
		if a != snapBound(a) {
			t.Errorf("clip %+v is not pixel aligned", a)
		}
		for _, b := range c.cur.clips[i+1:] {
			if !ra.Intersect(deviceRect(b)).Empty() {
				t.Errorf("clip %v overlaps %v", ra, deviceRect(b))
			}
		}
	}
	if !c.cur.clips.Contains(50, 5) || !c.cur.clips.Contains(20.5, 30) || !c.cur.clips.Contains(4, 90) {
		t.Errorf("clips lost area: %v", c.cur.clips)
	}
}
