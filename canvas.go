package flint

// Canvas is the immediate-mode paint backend the render tree draws into.
//
// All drawing happens under the canvas's current transform, clip, color,
// stroke width, and alpha. Save pushes that whole state; Restore pops it.
// Calls to Save and Restore are always balanced by the renderer.
type Canvas interface {
	FontLoader

	Save()
	Restore()

	// SetTransform replaces the current transform. The renderer always passes
	// a node's full global transform, never a relative one.
	SetTransform(m Affine)

	// ClipPath intersects the current clip with the union of the given
	// device-space rectangles. It ignores the current transform.
	ClipPath(p ClipPath)

	// ClipRect combines the current clip with r, given in user space.
	ClipRect(r Rect, op ClipOp)

	SetColor(c Color)
	SetStrokeWidth(w float64)
	SetAlpha(a uint8)

	// DrawRect fills r when the stroke width is 0 and strokes it otherwise.
	DrawRect(r Rect)
	DrawPolygon(pts []Vec2)
	DrawImage(img *Image, dst Rect)

	// DrawText draws s with its top-left corner at pos.
	DrawText(f *Font, s string, pos Vec2)

	// Resize recreates the backing surface at the given device size.
	Resize(width, height int) error

	// Flush submits all pending drawing. It is called once per painted frame.
	Flush() error
}
