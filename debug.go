package flint

import (
	"fmt"
)

// debugLog reports the last frame's stats. Only called in debug mode.
func (r *Renderer) debugLog(laidOut bool) {
	s := r.stats
	Logger().Debug("frame",
		"layout", laidOut,
		"layout_time", s.LayoutTime,
		"paint_time", s.PaintTime,
		"regions", s.Regions,
		"full", s.Regions == 0,
		"painted", s.PaintedNodes,
		"live_nodes", r.liveNodes,
	)
}

// debugCheckReleased panics with a descriptive message when a released node
// is used in a tree operation. Only called in debug mode.
func debugCheckReleased(n *Node, op string) {
	if n.released {
		panic(fmt.Sprintf("flint debug: %s on released node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		Logger().Warn("child count exceeds threshold",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
