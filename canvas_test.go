package flint

import "errors"

// --- recording canvas ---

type canvasState struct {
	transform Affine
	color     Color
	stroke    float64
	alpha     uint8
	clipRects []Rect
}

type drawCall struct {
	kind      string // "rect", "polygon", "image", "text"
	color     Color
	stroke    float64
	alpha     uint8
	transform Affine
	rect      Rect
	points    []Vec2
	text      string
}

// recordCanvas is a Canvas that records every call. State follows
// Save/Restore so draw calls capture what a real backend would use.
type recordCanvas struct {
	state canvasState
	stack []canvasState

	saves, restores, maxDepth int
	clipPaths                 []ClipPath
	draws                     []drawCall
	flushes                   int
	width, height             int
	fontLoads                 int

	resizeErr, flushErr, fontErr error

	// onDraw runs before every draw call is recorded.
	onDraw func()
}

func newRecordCanvas() *recordCanvas {
	return &recordCanvas{state: canvasState{transform: IdentityAffine, alpha: 255}}
}

// reset forgets recorded calls but keeps the surface size.
func (c *recordCanvas) reset() {
	c.saves, c.restores, c.maxDepth = 0, 0, 0
	c.clipPaths = nil
	c.draws = nil
	c.flushes = 0
}

func (c *recordCanvas) LoadFont(key FontKey) (FontFace, error) {
	c.fontLoads++
	if c.fontErr != nil {
		return nil, c.fontErr
	}
	return fakeFace{size: key.Size}, nil
}

func (c *recordCanvas) Save() {
	c.saves++
	st := c.state
	st.clipRects = append([]Rect(nil), c.state.clipRects...)
	c.stack = append(c.stack, st)
	c.maxDepth = max(c.maxDepth, len(c.stack))
}

func (c *recordCanvas) Restore() {
	if len(c.stack) == 0 {
		panic("recordCanvas: unbalanced Restore")
	}
	c.restores++
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *recordCanvas) SetTransform(m Affine)     { c.state.transform = m }
func (c *recordCanvas) ClipPath(p ClipPath)       { c.clipPaths = append(c.clipPaths, p) }
func (c *recordCanvas) ClipRect(r Rect, _ ClipOp) { c.state.clipRects = append(c.state.clipRects, r) }
func (c *recordCanvas) SetColor(col Color)        { c.state.color = col }
func (c *recordCanvas) SetStrokeWidth(w float64)  { c.state.stroke = w }
func (c *recordCanvas) SetAlpha(a uint8)          { c.state.alpha = a }

func (c *recordCanvas) record(d drawCall) {
	if c.onDraw != nil {
		c.onDraw()
	}
	d.color = c.state.color
	d.stroke = c.state.stroke
	d.alpha = c.state.alpha
	d.transform = c.state.transform
	c.draws = append(c.draws, d)
}

func (c *recordCanvas) DrawRect(r Rect) { c.record(drawCall{kind: "rect", rect: r}) }

func (c *recordCanvas) DrawPolygon(pts []Vec2) {
	c.record(drawCall{kind: "polygon", points: append([]Vec2(nil), pts...)})
}

func (c *recordCanvas) DrawImage(_ *Image, dst Rect) { c.record(drawCall{kind: "image", rect: dst}) }

func (c *recordCanvas) DrawText(_ *Font, s string, pos Vec2) {
	c.record(drawCall{kind: "text", text: s, rect: Rect{X: pos.X, Y: pos.Y}})
}

func (c *recordCanvas) Resize(w, h int) error {
	if c.resizeErr != nil {
		return c.resizeErr
	}
	c.width, c.height = w, h
	return nil
}

func (c *recordCanvas) Flush() error {
	c.flushes++
	return c.flushErr
}

// drewColor reports whether any filled rect used col.
func (c *recordCanvas) drewColor(col Color) bool {
	for _, d := range c.draws {
		if d.kind == "rect" && d.stroke == 0 && d.color == col {
			return true
		}
	}
	return false
}

func (c *recordCanvas) count(kind string) int {
	n := 0
	for _, d := range c.draws {
		if d.kind == kind {
			n++
		}
	}
	return n
}

type fakeFace struct{ size float64 }

func (f fakeFace) Measure(s string) (float64, float64) {
	return float64(len(s)) * f.size / 2, f.size
}

func (f fakeFace) Ascent() float64 { return f.size * 0.8 }

var errFake = errors.New("fake failure")

var _ Canvas = (*recordCanvas)(nil)
