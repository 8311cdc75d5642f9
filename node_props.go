package flint

// --- Geometry setters ---
//
// Setting a value equal to the current one is a no-op and leaves every
// dirty flag untouched. The stage ignores position and rotation; its size
// follows Renderer.Resize.

// SetPosition moves the node within its parent's coordinate space.
func (n *Node) SetPosition(x, y float64) {
	if n.IsStage() || (n.rect.X == x && n.rect.Y == y) {
		return
	}
	n.invalidateRegion()
	n.rect.X, n.rect.Y = x, y
	n.geometryChanged()
	n.estimateClipped()
}

// SetSize changes the node's width and height. Negative values are clamped
// to zero.
func (n *Node) SetSize(w, h float64) {
	w, h = max(w, 0), max(h, 0)
	if n.IsStage() || (n.rect.Width == w && n.rect.Height == h) {
		return
	}
	n.invalidateRegion()
	n.rect.Width, n.rect.Height = w, h
	n.geometryChanged()
	n.estimateClipped()
}

// SetRect sets position and size together.
func (n *Node) SetRect(r Rect) {
	n.SetPosition(r.X, r.Y)
	n.SetSize(r.Width, r.Height)
}

// SetRotation rotates the node about its own center, in degrees.
func (n *Node) SetRotation(degrees float64) {
	if n.IsStage() || n.rotation == degrees {
		return
	}
	n.invalidateRegion()
	n.rotation = degrees
	n.geometryChanged()
}

// geometryChanged rebuilds the local transform and invalidates everything
// derived from it.
func (n *Node) geometryChanged() {
	n.localTransform = computeLocalTransform(n.rect, n.rotation)
	markSubtreeTransformDirty(n)
	n.invalidateBounds()
	n.Invalidate()
}

// setStageSize is used by the renderer to follow the surface size.
func (n *Node) setStageSize(w, h float64) {
	n.rect.Width, n.rect.Height = w, h
	n.localTransform = IdentityAffine
	markSubtreeTransformDirty(n)
	n.invalidateBounds()
	n.Invalidate()
}

// SetScroll sets the scroll offset. Children of a node with OverflowScroll
// are translated by the negated offset.
func (n *Node) SetScroll(x, y float64) {
	if n.scroll.X == x && n.scroll.Y == y {
		return
	}
	n.scroll = Vec2{x, y}
	if n.overflow == OverflowScroll {
		n.markChildrenTransformDirty()
		n.Invalidate()
	}
}

func (n *Node) markChildrenTransformDirty() {
	for _, child := range n.children {
		markSubtreeTransformDirty(child)
	}
	n.invalidateBounds()
}

// --- Appearance setters ---

// SetOpacity sets the node's opacity, 0 to 255. Turning a node fully
// transparent or back makes the parent repaint what is behind it.
func (n *Node) SetOpacity(opacity uint8) {
	if n.opacity == opacity || n.IsStage() {
		return
	}
	flips := (n.opacity == 0) != (opacity == 0)
	n.invalidateRegion()
	n.opacity = opacity
	n.Invalidate()
	if flips && n.visible {
		n.invalidateParent()
	}
}

// SetVisible shows or hides the node and its subtree.
func (n *Node) SetVisible(visible bool) {
	if n.visible == visible || n.IsStage() {
		return
	}
	n.invalidateRegion()
	n.visible = visible
	n.Invalidate()
	n.invalidateParent()
}

// SetOverflow sets how children outside the node's rect are treated.
func (n *Node) SetOverflow(o Overflow) {
	if n.overflow == o {
		return
	}
	wasScroll := n.overflow == OverflowScroll
	n.invalidateRegion()
	n.overflow = o
	if wasScroll != (o == OverflowScroll) && n.scroll != (Vec2{}) {
		n.markChildrenTransformDirty()
	}
	n.invalidateBounds()
	n.Invalidate()
}

// SetBackgroundColor sets the fill drawn behind the node's content.
// Transparent disables the fill.
func (n *Node) SetBackgroundColor(c Color) {
	if n.background == c {
		return
	}
	n.background = c
	n.Invalidate()
}

// SetBackgroundImage sets an image stretched over the node's rect, or
// removes it when img is nil.
func (n *Node) SetBackgroundImage(img *Image) {
	if n.image == img {
		return
	}
	n.image = img
	n.Invalidate()
}

// SetBorder sets the same border on all four edges. A width of zero or less
// removes the border.
func (n *Node) SetBorder(b Border) {
	if b.Width <= 0 {
		if n.borderMode == borderNone {
			return
		}
		n.borderMode = borderNone
		n.border = [4]Border{}
	} else {
		if n.borderMode == borderUniform && n.border[0] == b {
			return
		}
		n.borderMode = borderUniform
		n.border = [4]Border{b, b, b, b}
	}
	n.Invalidate()
}

// SetBorderEdge sets the border of a single edge. Edges are drawn as
// trapezoids that meet at the corners.
func (n *Node) SetBorderEdge(edge Edge, b Border) {
	if edge > EdgeLeft {
		panic("flint: invalid border edge")
	}
	if n.borderMode == borderEdges && n.border[edge] == b {
		return
	}
	if n.borderMode == borderNone {
		n.border = [4]Border{}
	}
	n.borderMode = borderEdges
	n.border[edge] = b
	n.Invalidate()
}

// SetText attaches a single line of text drawn at the node's top-left
// corner. An empty string removes it.
func (n *Node) SetText(text string, font *Font, c Color) {
	if text == "" {
		if n.text == nil {
			return
		}
		n.text = nil
		n.Invalidate()
		return
	}
	if n.text != nil && n.text.value == text && n.text.font == font && n.text.color == c {
		return
	}
	n.text = &textContent{value: text, font: font, color: c}
	n.Invalidate()
}

// --- Getters ---

// Position returns the node's position in its parent's space.
func (n *Node) Position() (x, y float64) { return n.rect.X, n.rect.Y }

// Size returns the node's width and height.
func (n *Node) Size() (w, h float64) { return n.rect.Width, n.rect.Height }

// Rect returns the node's rect in its parent's space.
func (n *Node) Rect() Rect { return n.rect }

// Rotation returns the rotation in degrees.
func (n *Node) Rotation() float64 { return n.rotation }

// Scroll returns the scroll offset.
func (n *Node) Scroll() (x, y float64) { return n.scroll.X, n.scroll.Y }

// Opacity returns the node's own opacity.
func (n *Node) Opacity() uint8 { return n.opacity }

// Visible reports whether the node is shown.
func (n *Node) Visible() bool { return n.visible }

// Overflow returns the overflow mode.
func (n *Node) Overflow() Overflow { return n.overflow }

// BackgroundColor returns the background fill.
func (n *Node) BackgroundColor() Color { return n.background }

// BackgroundImage returns the background image, or nil.
func (n *Node) BackgroundImage() *Image { return n.image }

// Border returns the border of an edge. Width is zero when unset.
func (n *Node) Border(edge Edge) Border {
	if n.borderMode == borderNone || edge > EdgeLeft {
		return Border{}
	}
	return n.border[edge]
}

// Text returns the node's text and font, if any.
func (n *Node) Text() (string, *Font) {
	if n.text == nil {
		return "", nil
	}
	return n.text.value, n.text.font
}

// Clipped reports whether the last layout pass found the node contributing
// nothing to the screen.
func (n *Node) Clipped() bool { return n.clipped }

// NeedsPaint reports whether the node's own appearance changed since it was
// last painted.
func (n *Node) NeedsPaint() bool { return n.paintDirty }
