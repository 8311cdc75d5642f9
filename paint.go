package flint

// updateLayout recomputes clipping and visible bounds top-down. bound is the
// ancestor's visible bound; ancestorDirty is set when an ancestor already
// scheduled its whole visible area, which covers this node's.
//
// A node with no visible area is not descended into.
func (n *Node) updateLayout(bound Bound, ancestorDirty bool) {
	wasShown := !n.clipped
	n.clipped = true
	if n.visible && n.opacity > 0 {
		if vis, ok := bound.Intersect(n.GlobalBounds()); ok {
			n.clipped = false
			n.visibleBounds = vis
			if n.paintDirty && !ancestorDirty {
				n.renderer.tracker.Add(vis)
			}
			dirty := ancestorDirty || n.paintDirty
			for _, child := range n.children {
				child.updateLayout(vis, dirty)
			}
			return
		}
	}
	n.visibleBounds = Bound{}
	if wasShown {
		clipDescendants(n)
	}
}

func clipDescendants(n *Node) {
	for _, child := range n.children {
		child.clipped = true
		child.visibleBounds = Bound{}
		clipDescendants(child)
	}
}

// render paints the node when its own appearance changed or its visible
// bounds overlap the region being repainted, then its children. alpha is the
// accumulated opacity of the ancestors.
func (n *Node) render(c Canvas, tracker *RegionTracker, alpha uint8) {
	if n.clipped {
		n.clearPaintFlags()
		return
	}
	if n.parent == nil && !n.IsStage() {
		panic("flint: painting a detached node")
	}
	drawSelf := n.paintDirty || tracker.IsDirty(n.visibleBounds)
	if !drawSelf && !n.childDirty {
		return
	}
	n.paintDirty = false
	n.childDirty = false

	alpha = mulAlpha(alpha, n.opacity)
	c.Save()
	defer c.Restore()
	c.SetTransform(n.GlobalTransform())
	c.SetAlpha(alpha)

	own := Rect{Width: n.rect.Width, Height: n.rect.Height}
	if drawSelf {
		n.renderer.stats.PaintedNodes++
		n.drawBackground(c, own)
		n.drawBorders(c)
	}
	if n.overflow != OverflowVisible {
		c.ClipRect(own, ClipIntersect)
	}
	if drawSelf && n.text != nil {
		n.drawText(c)
	}
	for _, child := range n.children {
		child.render(c, tracker, alpha)
	}
}

// clearPaintFlags drops pending paint state under a clipped node. Whatever
// makes the node visible again schedules its area anew.
func (n *Node) clearPaintFlags() {
	if !n.paintDirty && !n.childDirty {
		return
	}
	n.paintDirty = false
	n.childDirty = false
	for _, child := range n.children {
		child.clearPaintFlags()
	}
}

func mulAlpha(a, b uint8) uint8 {
	if b == 255 {
		return a
	}
	return uint8((uint16(a)*uint16(b) + 127) / 255)
}

func (n *Node) drawBackground(c Canvas, own Rect) {
	if n.background.A != 0 {
		c.SetStrokeWidth(0)
		c.SetColor(n.background)
		c.DrawRect(own)
	}
	if n.image != nil {
		c.DrawImage(n.image, own)
	}
}

func (n *Node) drawText(c Canvas) {
	f := n.text.font
	if f == nil {
		f = n.renderer.defaultFont
	}
	if f == nil {
		return
	}
	c.SetColor(n.text.color)
	c.DrawText(f, n.text.value, Vec2{})
}

// drawBorders draws a uniform border as a stroked rect inside the node's
// edges, or each edge as a trapezoid whose slanted ends meet the adjacent
// edges.
func (n *Node) drawBorders(c Canvas) {
	w, h := n.rect.Width, n.rect.Height
	switch n.borderMode {
	case borderUniform:
		b := n.border[0]
		c.SetColor(b.Color)
		if b.Width*2 >= w || b.Width*2 >= h {
			c.SetStrokeWidth(0)
			c.DrawRect(Rect{Width: w, Height: h})
			return
		}
		c.SetStrokeWidth(b.Width)
		c.DrawRect(Rect{X: b.Width / 2, Y: b.Width / 2, Width: w - b.Width, Height: h - b.Width})
		c.SetStrokeWidth(0)

	case borderEdges:
		top, right, bottom, left := n.border[EdgeTop], n.border[EdgeRight], n.border[EdgeBottom], n.border[EdgeLeft]
		var pts [4]Vec2
		if top.Width > 0 {
			pts = [4]Vec2{{0, 0}, {w, 0}, {w - right.Width, top.Width}, {left.Width, top.Width}}
			c.SetColor(top.Color)
			c.DrawPolygon(pts[:])
		}
		if right.Width > 0 {
			pts = [4]Vec2{{w, 0}, {w, h}, {w - right.Width, h - bottom.Width}, {w - right.Width, top.Width}}
			c.SetColor(right.Color)
			c.DrawPolygon(pts[:])
		}
		if bottom.Width > 0 {
			pts = [4]Vec2{{w, h}, {0, h}, {left.Width, h - bottom.Width}, {w - right.Width, h - bottom.Width}}
			c.SetColor(bottom.Color)
			c.DrawPolygon(pts[:])
		}
		if left.Width > 0 {
			pts = [4]Vec2{{0, 0}, {0, h}, {left.Width, h - bottom.Width}, {left.Width, top.Width}}
			c.SetColor(left.Color)
			c.DrawPolygon(pts[:])
		}
	}
}

// hitTest appends n and then its matching descendants, so the result runs
// from the root toward the leaves.
func (n *Node) hitTest(x, y float64, out []*Node) []*Node {
	if n.clipped || !n.visibleBounds.Contains(x, y) {
		return out
	}
	out = append(out, n)
	for _, child := range n.children {
		out = child.hitTest(x, y, out)
	}
	return out
}

// drawBounds outlines the global bounds of n and every descendant in device
// space: green for shown nodes, red for clipped ones.
func (n *Node) drawBounds(c Canvas) {
	if n.clipped {
		c.SetColor(RGB(255, 0, 0))
	} else {
		c.SetColor(RGB(0, 255, 0))
	}
	c.DrawRect(n.GlobalBounds().Rect())
	for _, child := range n.children {
		child.drawBounds(c)
	}
}
