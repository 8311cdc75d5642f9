package flint

// GlobalTransform returns the node's device-space transform, recomputing it
// and its ancestors' only when they are marked dirty.
func (n *Node) GlobalTransform() Affine {
	if n.transformDirty {
		if n.parent != nil {
			n.globalTransform = n.parent.childTransform().Multiply(n.localTransform)
		} else {
			n.globalTransform = n.localTransform
		}
		n.transformDirty = false
	}
	return n.globalTransform
}

// LocalTransform returns the transform from the node's space to its
// parent's space.
func (n *Node) LocalTransform() Affine { return n.localTransform }

// childTransform is the transform children compose with: the global
// transform shifted by the scroll offset for scrolling nodes.
func (n *Node) childTransform() Affine {
	g := n.GlobalTransform()
	if n.overflow == OverflowScroll && n.scroll != (Vec2{}) {
		g = g.Multiply(TranslateAffine(-n.scroll.X, -n.scroll.Y))
	}
	return g
}

// LocalBounds returns the node's bounds in its own coordinate space: its
// rect, extended by every child's transformed bounds when the overflow mode
// is OverflowVisible.
func (n *Node) LocalBounds() Bound {
	if n.boundsDirty {
		b := Bound{Right: n.rect.Width, Bottom: n.rect.Height}
		if n.overflow == OverflowVisible {
			for _, child := range n.children {
				b = b.Union(child.localTransform.TransformBound(child.LocalBounds()))
			}
		}
		n.localBounds = b
		n.boundsDirty = false
		n.globalBoundsDirty = true
	}
	return n.localBounds
}

// GlobalBounds returns the axis-aligned device-space box of the local
// bounds.
func (n *Node) GlobalBounds() Bound {
	if n.globalBoundsDirty || n.boundsDirty || n.transformDirty {
		n.globalBounds = n.GlobalTransform().TransformBound(n.LocalBounds())
		n.globalBoundsDirty = false
	}
	return n.globalBounds
}

// VisibleBounds returns the part of the global bounds left after clipping
// by every ancestor, as of the last layout pass. It is empty for clipped
// nodes.
func (n *Node) VisibleBounds() Bound { return n.visibleBounds }

// LocalToGlobal converts a point from the node's space to device space.
func (n *Node) LocalToGlobal(x, y float64) (float64, float64) {
	return n.GlobalTransform().Apply(x, y)
}

// GlobalToLocal converts a device-space point to the node's space.
func (n *Node) GlobalToLocal(x, y float64) (float64, float64) {
	return n.GlobalTransform().Invert().Apply(x, y)
}
