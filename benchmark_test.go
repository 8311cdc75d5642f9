package flint

import (
	"testing"
)

// setupBenchRenderer creates a renderer with n boxes laid out in a grid of
// 100 columns.
func setupBenchRenderer(b *testing.B, n int) (*Renderer, []*Node) {
	b.Helper()
	r, _ := newTestRenderer(b, 1280, 720)
	nodes := make([]*Node, 0, n)
	for i := 0; i < n; i++ {
		nd := r.NewNode("box")
		nd.SetPosition(float64(i%100)*40, float64(i/100)*40)
		nd.SetSize(32, 32)
		nd.SetBackgroundColor(RGB(uint8(i), 80, 160))
		r.Stage().Add(nd)
		nodes = append(nodes, nd)
	}
	return r, nodes
}

func BenchmarkRender_10000Nodes_Static(b *testing.B) {
	r, _ := setupBenchRenderer(b, 10000)
	mustRender(b, r) // warmup

	b.ReportAllocs()
	for b.Loop() {
		_, _ = r.Render()
	}
}

func BenchmarkRender_10000Nodes_OneMoving(b *testing.B) {
	r, nodes := setupBenchRenderer(b, 10000)
	mustRender(b, r)
	mover := nodes[0]

	b.ReportAllocs()
	i := 0
	for b.Loop() {
		i++
		mover.SetPosition(float64(i%200), 0)
		_, _ = r.Render()
	}
}

func BenchmarkRender_10000Nodes_AllRotating(b *testing.B) {
	r, nodes := setupBenchRenderer(b, 10000)
	mustRender(b, r)

	b.ReportAllocs()
	angle := 0.0
	for b.Loop() {
		angle += 1
		for _, n := range nodes {
			n.SetRotation(angle)
		}
		_, _ = r.Render()
	}
}

func BenchmarkRender_HiddenSubtree(b *testing.B) {
	r, _ := newTestRenderer(b, 1280, 720)
	hidden := r.NewNode("hidden")
	hidden.SetPosition(5000, 5000)
	hidden.SetSize(100, 100)
	r.Stage().Add(hidden)
	for i := 0; i < 10000; i++ {
		hidden.Add(r.NewNode("leaf"))
	}
	mustRender(b, r)

	b.ReportAllocs()
	for b.Loop() {
		r.InvalidateLayout()
		_, _ = r.Render()
	}
}

func BenchmarkRegionMerge_200(b *testing.B) {
	rects := make([]Bound, 200)
	for i := range rects {
		rects[i] = BoundXYWH(float64(i*37%1200), float64(i*53%700), 20, 20)
	}
	rt := NewRegionTracker(DefaultRegionOptions())

	b.ReportAllocs()
	for b.Loop() {
		for _, r := range rects {
			rt.Add(r)
		}
		rt.Update()
	}
}
