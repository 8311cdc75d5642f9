package flint

// Node is the single element type of the render tree. Every visual role
// (container, box, image, label) is a Node with optional payloads attached.
//
// A node owns its children; the parent pointer is a back-reference used for
// upward invalidation and reparenting only. Nodes are created with
// Renderer.NewNode and must be used on the renderer's goroutine.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// UserData is an arbitrary value for the host. The renderer never reads it.
	UserData any

	renderer *Renderer
	parent   *Node
	children []*Node

	// Local geometry
	rect     Rect
	rotation float64 // degrees, about the center of rect
	scroll   Vec2

	// Derived geometry, recomputed lazily behind the dirty flags below.
	localTransform  Affine
	globalTransform Affine
	localBounds     Bound // own coordinate space
	globalBounds    Bound // device space
	visibleBounds   Bound // globalBounds clipped by the ancestor chain

	transformDirty    bool // globalTransform is stale
	boundsDirty       bool // localBounds is stale
	globalBoundsDirty bool // globalBounds is stale
	paintDirty        bool // own appearance changed
	childDirty        bool // some descendant is paint-dirty
	clipped           bool // contributes nothing to the screen

	// Appearance
	visible    bool
	opacity    uint8
	overflow   Overflow
	background Color
	image      *Image
	border     [4]Border
	borderMode borderMode
	text       *textContent

	released bool
}

type borderMode uint8

const (
	borderNone borderMode = iota
	borderUniform
	borderEdges
)

type textContent struct {
	value string
	font  *Font
	color Color
}

func newNode(r *Renderer, name string) *Node {
	return &Node{
		ID:                r.nextNodeID(),
		Name:              name,
		renderer:          r,
		localTransform:    IdentityAffine,
		globalTransform:   IdentityAffine,
		transformDirty:    true,
		boundsDirty:       true,
		globalBoundsDirty: true,
		paintDirty:        true,
		clipped:           true,
		visible:           true,
		opacity:           255,
		overflow:          OverflowHidden,
	}
}

// Parent returns the node's parent, or nil for the stage and detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in paint order. The returned slice
// must not be modified.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// ChildAt returns the child at index.
func (n *Node) ChildAt(index int) *Node { return n.children[index] }

// Renderer returns the renderer that created the node.
func (n *Node) Renderer() *Renderer { return n.renderer }

// IsStage reports whether n is its renderer's root node.
func (n *Node) IsStage() bool { return n.renderer.stage == n }

// IsReleased reports whether Release has been called on the node or one of
// its former ancestors.
func (n *Node) IsReleased() bool { return n.released }

// --- Tree mutation ---

// Add appends child to n's children. If child already has a parent it is
// removed from it first, so reparenting is a single operation. The child's
// old region and its new region are both scheduled for repaint.
func (n *Node) Add(child *Node) {
	if child == nil {
		panic("flint: cannot add nil child")
	}
	if child == n || isAncestor(child, n) {
		panic("flint: adding child would create a cycle")
	}
	if child.renderer != n.renderer {
		panic("flint: child belongs to a different renderer")
	}
	if child.IsStage() {
		panic("flint: the stage cannot be added as a child")
	}
	if n.renderer.debug {
		debugCheckReleased(n, "Add")
		debugCheckReleased(child, "Add")
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	child.clipped = n.clipped
	n.children = append(n.children, child)

	markSubtreeTransformDirty(child)
	n.invalidateBounds()
	child.Invalidate()

	if n.renderer.debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// Remove detaches child from n. The area it covered is scheduled for
// repaint and the child is clipped until it is added again. It panics if
// child is not a child of n.
func (n *Node) Remove(child *Node) {
	if child == nil || child.parent != n {
		panic("flint: child's parent is not this node")
	}
	if n.renderer.debug {
		debugCheckReleased(child, "Remove")
	}
	child.invalidateRegion()
	n.removeChildByPtr(child)
	child.parent = nil
	child.clipped = true
	n.invalidateBounds()
	n.renderer.invalidateLayout()
}

// RemoveFromParent detaches n from its parent. It does nothing for detached
// nodes.
func (n *Node) RemoveFromParent() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// RemoveChildren detaches every child of n.
func (n *Node) RemoveChildren() {
	for len(n.children) > 0 {
		n.Remove(n.children[len(n.children)-1])
	}
}

// Release detaches n from its parent and then releases its subtree. Released
// nodes must not be used again. Releasing the stage is not allowed.
func (n *Node) Release() {
	if n.released {
		return
	}
	if n.IsStage() {
		panic("flint: cannot release the stage")
	}
	if n.renderer.debug && n.renderer.painting {
		panic("flint: node released during paint pass")
	}
	if n.parent != nil {
		n.parent.Remove(n)
	}
	n.release()
}

func (n *Node) release() {
	n.clipped = true
	n.released = true
	for _, child := range n.children {
		child.parent = nil
		child.release()
	}
	n.children = nil
	n.image = nil
	n.text = nil
	n.renderer.liveNodes--
}

func isAncestor(candidate, node *Node) bool {
	for p := node.parent; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// --- Invalidation ---

// Invalidate marks n's own appearance as changed. Its ancestors are told
// that a descendant needs painting; propagation stops at the first ancestor
// that already knows.
func (n *Node) Invalidate() {
	n.paintDirty = true
	for p := n.parent; p != nil && !p.childDirty; p = p.parent {
		p.childDirty = true
	}
	n.renderer.invalidateLayout()
}

// InvalidateLayout forces n's bounds to be recomputed and the layout pass to
// run on the next frame.
func (n *Node) InvalidateLayout() {
	n.invalidateBounds()
	n.invalidateRegion()
	n.Invalidate()
}

// invalidateRegion schedules a repaint of the area n covered in the last
// layout pass.
func (n *Node) invalidateRegion() {
	if n.clipped {
		return
	}
	n.renderer.tracker.Add(n.visibleBounds)
	n.renderer.invalidateLayout()
}

// invalidateParent makes the parent repaint the area n leaves behind or
// newly covers.
func (n *Node) invalidateParent() {
	if n.parent != nil {
		n.parent.Invalidate()
	}
}

// invalidateBounds marks n's local bounds stale and walks up to the root,
// stopping at the first ancestor whose bounds are already stale.
func (n *Node) invalidateBounds() {
	n.globalBoundsDirty = true
	for p := n; p != nil && !p.boundsDirty; p = p.parent {
		p.boundsDirty = true
		p.globalBoundsDirty = true
	}
	n.renderer.invalidateLayout()
}

// markSubtreeTransformDirty flags node and all its descendants so their
// global transforms and global bounds are recomputed on the next read. A
// node whose transform is already dirty has an entirely dirty subtree.
func markSubtreeTransformDirty(node *Node) {
	if node.transformDirty {
		return
	}
	node.transformDirty = true
	node.globalBoundsDirty = true
	for _, child := range node.children {
		markSubtreeTransformDirty(child)
	}
}

// estimateClipped guesses the clipped state after a geometry change. The
// next layout pass settles it, but never descends into a clipped parent, so a
// child of one stays clipped here.
func (n *Node) estimateClipped() {
	if n.IsStage() {
		n.clipped = false
		return
	}
	// A zero-sized node still shows children that overflow it.
	sized := n.rect.Width > 0 && n.rect.Height > 0 ||
		n.overflow == OverflowVisible && len(n.children) > 0
	n.clipped = !(n.visible && n.opacity > 0 && n.parent != nil && !n.parent.clipped && sized)
	if n.clipped {
		clipDescendants(n)
	}
}
