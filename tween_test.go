package flint

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	r, _ := newTestRenderer(t, 200, 200)
	node := r.NewNode("pos")
	node.SetPosition(10, 20)

	g := TweenPosition(node, 100, 200, 1.0, ease.Linear)

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	x, y := node.Position()
	if math.Abs(x-100) > 0.5 {
		t.Errorf("X = %f, want ~100", x)
	}
	if math.Abs(y-200) > 0.5 {
		t.Errorf("Y = %f, want ~200", y)
	}
}

func TestTweenSizeAndRotation(t *testing.T) {
	r, _ := newTestRenderer(t, 200, 200)
	node := r.NewNode("size")

	TweenSize(node, 40, 30, 0.5, ease.Linear).Update(0.5)
	if w, h := node.Size(); math.Abs(w-40) > 0.01 || math.Abs(h-30) > 0.01 {
		t.Errorf("Size = %v x %v, want 40 x 30", w, h)
	}

	rot := TweenRotation(node, 180, 1.0, nil)
	rot.Update(0.5)
	if math.Abs(node.Rotation()-90) > 0.5 {
		t.Errorf("Rotation = %f at halfway, want ~90 with linear default", node.Rotation())
	}
}

func TestTweenOpacityInterpolates(t *testing.T) {
	r, _ := newTestRenderer(t, 200, 200)
	node := r.NewNode("alpha")

	tw := TweenOpacity(node, 0, 1.0, ease.Linear)

	tw.Update(0.5)
	if tw.Done {
		t.Fatal("should not be done at halfway")
	}
	if got := node.Opacity(); got < 126 || got > 129 {
		t.Errorf("Opacity = %d, want ~128 at halfway", got)
	}

	tw.Update(0.5)
	if !tw.Done {
		t.Fatal("should be done after full duration")
	}
	if node.Opacity() != 0 {
		t.Errorf("Opacity = %d, want 0", node.Opacity())
	}
}

func TestTweenBackgroundAllComponents(t *testing.T) {
	r, _ := newTestRenderer(t, 200, 200)
	node := r.NewNode("color")
	node.SetBackgroundColor(RGBA(255, 0, 0, 255))
	target := RGBA(0, 255, 128, 64)

	g := TweenBackground(node, target, 1.0, ease.Linear)
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if got := node.BackgroundColor(); got != target {
		t.Errorf("BackgroundColor = %+v, want %+v", got, target)
	}
}

func TestTweenGroupDoneFlagTransition(t *testing.T) {
	r, _ := newTestRenderer(t, 200, 200)
	node := r.NewNode("done")
	g := TweenPosition(node, 50, 50, 0.5, ease.Linear)

	if g.Done {
		t.Fatal("should not be Done at start")
	}
	g.Update(0.25)
	if g.Done {
		t.Fatal("should not be Done partway through")
	}
	g.Update(0.25)
	if !g.Done {
		t.Fatal("should be Done after full duration")
	}

	// Update after done is a no-op.
	node.SetPosition(7, 7)
	g.Update(0.1)
	if x, _ := node.Position(); x != 7 {
		t.Errorf("finished group wrote X = %v", x)
	}
}

func TestTweenGroupInvalidatesNode(t *testing.T) {
	r, _ := newTestRenderer(t, 200, 200)
	node := r.NewNode("dirty")
	r.Stage().Add(node)
	mustRender(t, r)

	g := TweenPosition(node, 100, 100, 1.0, ease.Linear)
	g.Update(0.1)

	if !node.transformDirty || !node.paintDirty {
		t.Fatal("expected node to be invalidated after TweenGroup update")
	}
}

func TestTweenGroupReleasedNode(t *testing.T) {
	r, _ := newTestRenderer(t, 200, 200)
	node := r.NewNode("released")
	node.SetPosition(10, 20)

	g := TweenPosition(node, 100, 200, 1.0, ease.Linear)
	node.Release()
	g.Update(0.1)

	if !g.Done {
		t.Fatal("expected Done after released node detected")
	}
	if x, y := node.Position(); x != 10 || y != 20 {
		t.Errorf("position changed to %v,%v on released node", x, y)
	}
}

func TestRendererTickDropsFinishedTweens(t *testing.T) {
	r, _ := newTestRenderer(t, 200, 200)
	a := r.NewNode("a")
	b := r.NewNode("b")
	r.Animate(TweenPosition(a, 10, 0, 0.5, ease.Linear))
	r.Animate(TweenPosition(b, 10, 0, 2, ease.Linear))
	r.Animate(nil)

	r.Tick(0.5)
	if len(r.tweens) != 1 {
		t.Fatalf("live tweens = %d, want 1", len(r.tweens))
	}
	if x, _ := a.Position(); math.Abs(x-10) > 0.01 {
		t.Errorf("a.X = %v, want 10", x)
	}
	r.Tick(1.5)
	if len(r.tweens) != 0 {
		t.Errorf("live tweens = %d, want 0", len(r.tweens))
	}
}
