package flint

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of a Node simultaneously. Create one via
// the convenience constructors (TweenPosition, TweenSize, TweenRotation,
// TweenOpacity, TweenBackground) and either call Update(dt) each frame or
// hand it to Renderer.Animate. Values are applied through the node's setters,
// so every step invalidates exactly what a manual change would. If the
// target node is released, the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(v [4]float32)
	target *Node
	Done   bool
}

func newTweenGroup(node *Node, from, to []float32, duration float32, fn ease.TweenFunc, apply func([4]float32)) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{count: len(from), target: node, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(from[i], to[i], duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and applies the values to the
// target. If the target node has been released, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsReleased() {
		g.Done = true
		return
	}

	var vals [4]float32
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(vals)
}

// Stop ends the group without applying further values.
func (g *TweenGroup) Stop() { g.Done = true }

// TweenPosition animates the node's position to (toX, toY).
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	x, y := node.Position()
	return newTweenGroup(node,
		[]float32{float32(x), float32(y)}, []float32{float32(toX), float32(toY)},
		duration, fn, func(v [4]float32) {
			node.SetPosition(float64(v[0]), float64(v[1]))
		})
}

// TweenSize animates the node's size to (toW, toH).
func TweenSize(node *Node, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	w, h := node.Size()
	return newTweenGroup(node,
		[]float32{float32(w), float32(h)}, []float32{float32(toW), float32(toH)},
		duration, fn, func(v [4]float32) {
			node.SetSize(float64(v[0]), float64(v[1]))
		})
}

// TweenRotation animates the node's rotation to the given degrees.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node,
		[]float32{float32(node.Rotation())}, []float32{float32(to)},
		duration, fn, func(v [4]float32) {
			node.SetRotation(float64(v[0]))
		})
}

// TweenOpacity animates the node's opacity.
func TweenOpacity(node *Node, to uint8, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node,
		[]float32{float32(node.Opacity())}, []float32{float32(to)},
		duration, fn, func(v [4]float32) {
			node.SetOpacity(clampByte(v[0]))
		})
}

// TweenBackground animates all four components of the background color.
func TweenBackground(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := node.BackgroundColor()
	return newTweenGroup(node,
		[]float32{float32(from.R), float32(from.G), float32(from.B), float32(from.A)},
		[]float32{float32(to.R), float32(to.G), float32(to.B), float32(to.A)},
		duration, fn, func(v [4]float32) {
			node.SetBackgroundColor(Color{clampByte(v[0]), clampByte(v[1]), clampByte(v[2]), clampByte(v[3])})
		})
}

func clampByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
