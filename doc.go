// Package flint is a retained-mode render tree with incremental
// invalidation, the core of an embeddable UI-scripting runtime.
//
// A host (usually a script) builds a tree of [Node] values under the
// [Renderer]'s stage and mutates their properties. Each frame the renderer
// lays out only what changed, collects the screen areas that need to be
// repainted, merges them into a few clip rectangles, and repaints just the
// nodes touching those rectangles through a [Canvas] backend.
//
// # Quick start
//
//	canvas := ggcanvas.New()
//	r, err := flint.NewRenderer(canvas, 640, 480)
//	if err != nil {
//		return err
//	}
//	box := r.NewNode("box")
//	box.SetPosition(20, 20)
//	box.SetSize(200, 100)
//	box.SetBackgroundColor(flint.RGB(40, 120, 220))
//	r.Stage().Add(box)
//
//	painted, err := r.Render()
//
// Render returns false when nothing changed; the caller should skip
// presenting that frame.
//
// # Invalidation
//
// Nodes cache their global transform and bounds behind dirty flags and
// recompute them on read. Geometry setters schedule a repaint of the area
// the node covered before the change; the layout pass schedules the area it
// covers after. The [RegionTracker] merges pending rectangles greedily while
// the merged box wastes no more than [RegionOptions.MergeSlack] extra area,
// then outsets each by [RegionOptions.Outset].
//
// # Backends
//
// Canvas implementations live in sub-packages: backend/ebitencanvas for a
// window through [Ebitengine], backend/ggcanvas for headless software
// rendering with [gg], and backend/termcanvas for terminals through [tcell].
// Package app drives a renderer from a window or terminal loop and package
// script binds it to a JavaScript runtime ([goja]).
//
// # Threading
//
// A renderer and its nodes are not safe for concurrent use. All mutation,
// layout, and paint must happen on one goroutine.
//
// [Ebitengine]: https://ebitengine.org
// [gg]: https://github.com/gogpu/gg
// [tcell]: https://github.com/gdamore/tcell
// [goja]: https://github.com/dop251/goja
package flint
