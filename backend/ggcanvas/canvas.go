// Package ggcanvas implements flint.Canvas on the gogpu/gg software
// rasterizer. It needs no window and no GPU, which makes it the backend for
// headless rendering, snapshots, and tests.
package ggcanvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/phanxgames/flint"
)

type state struct {
	color  flint.Color
	stroke float64
	alpha  uint8
	m      flint.Affine
}

// Canvas draws into a gg.Context.
type Canvas struct {
	dc    *gg.Context
	fonts flint.FontFiles

	cur   state
	stack []state

	// first error reported by gg since the last Flush
	err error
}

// New creates a canvas with a 1x1 surface. The renderer resizes it to the
// real size during construction.
func New() *Canvas {
	return &Canvas{
		dc:  gg.NewContext(1, 1),
		cur: state{alpha: 255, m: flint.IdentityAffine},
	}
}

// Context returns the underlying gg context.
func (c *Canvas) Context() *gg.Context { return c.dc }

// Fonts returns the family table used by LoadFont. Register families on it
// before the renderer loads them.
func (c *Canvas) Fonts() *flint.FontFiles { return &c.fonts }

// Image returns a snapshot of the surface.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// SavePNG writes the surface to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("ggcanvas: save %s: %w", path, err)
	}
	flint.Logger().Info("snapshot saved", "path", path)
	return nil
}

// Close releases the gg context.
func (c *Canvas) Close() error { return c.dc.Close() }

func (c *Canvas) Save() {
	c.stack = append(c.stack, c.cur)
	c.dc.Push()
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.dc.Pop()
}

func (c *Canvas) SetTransform(m flint.Affine) {
	c.cur.m = m
	c.dc.SetTransform(toMatrix(m))
}

func toMatrix(m flint.Affine) gg.Matrix {
	return gg.Matrix{
		A: m[0], B: m[2], C: m[4],
		D: m[1], E: m[3], F: m[5],
	}
}

// ClipPath builds one path from the rectangles in device space and
// intersects the clip with it. The rectangles are made disjoint first so the
// union does not depend on the fill rule.
func (c *Canvas) ClipPath(p flint.ClipPath) {
	c.dc.Identity()
	for _, b := range p.Disjoint() {
		c.dc.DrawRectangle(b.Left, b.Top, b.Width(), b.Height())
	}
	c.dc.Clip()
	c.dc.SetTransform(toMatrix(c.cur.m))
}

// ClipRect intersects with r or, for ClipDifference, cuts r out of the clip.
// The cut is a device-sized outer rectangle wound clockwise around r wound
// counter-clockwise, so the nonzero rule leaves a hole.
func (c *Canvas) ClipRect(r flint.Rect, op flint.ClipOp) {
	if op == flint.ClipIntersect {
		if c.cur.m.IsTranslation() {
			c.dc.ClipRect(r.X, r.Y, r.Width, r.Height)
			return
		}
		c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
		c.dc.Clip()
		return
	}
	w, h := float64(c.dc.Width()), float64(c.dc.Height())
	c.dc.Identity()
	c.dc.DrawRectangle(0, 0, w, h)
	c.dc.SetTransform(toMatrix(c.cur.m))
	c.dc.MoveTo(r.X, r.Y)
	c.dc.LineTo(r.X, r.Y+r.Height)
	c.dc.LineTo(r.X+r.Width, r.Y+r.Height)
	c.dc.LineTo(r.X+r.Width, r.Y)
	c.dc.ClosePath()
	c.dc.Clip()
}

func (c *Canvas) SetColor(col flint.Color) { c.cur.color = col }

func (c *Canvas) SetStrokeWidth(w float64) { c.cur.stroke = w }

func (c *Canvas) SetAlpha(a uint8) { c.cur.alpha = a }

// paintColor folds the canvas alpha into the current color.
func (c *Canvas) paintColor() color.Color {
	col := c.cur.color
	col.A = uint8((uint16(col.A)*uint16(c.cur.alpha) + 127) / 255)
	return col
}

func (c *Canvas) DrawRect(r flint.Rect) {
	c.dc.SetColor(c.paintColor())
	c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	if c.cur.stroke > 0 {
		c.dc.SetLineWidth(c.cur.stroke)
		c.keep(c.dc.Stroke())
		return
	}
	c.keep(c.dc.Fill())
}

func (c *Canvas) DrawPolygon(pts []flint.Vec2) {
	if len(pts) < 3 {
		return
	}
	c.dc.SetColor(c.paintColor())
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
	c.keep(c.dc.Fill())
}

func (c *Canvas) DrawImage(img *flint.Image, dst flint.Rect) {
	if img == nil || img.Source() == nil || c.cur.alpha == 0 {
		return
	}
	buf, ok := img.Handle().(*gg.ImageBuf)
	if !ok {
		buf = gg.ImageBufFromImage(img.Source())
		img.SetHandle(buf)
	}
	c.dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:         dst.X,
		Y:         dst.Y,
		DstWidth:  dst.Width,
		DstHeight: dst.Height,
		Opacity:   float64(c.cur.alpha) / 255,
	})
}

// DrawText rasterizes s into a scratch image and draws it as an image so the
// current transform and clip apply to the glyphs.
func (c *Canvas) DrawText(f *flint.Font, s string, pos flint.Vec2) {
	face, ok := f.Face.(*Face)
	if !ok || s == "" || c.cur.alpha == 0 {
		return
	}
	w, h := face.Measure(s)
	iw, ih := int(math.Ceil(w)), int(math.Ceil(h))
	if iw <= 0 || ih <= 0 {
		return
	}
	dst := image.NewRGBA(image.Rect(0, 0, iw, ih))
	text.Draw(dst, s, face.face, 0, face.Ascent(), c.paintColor())
	c.dc.DrawImageEx(gg.ImageBufFromImage(dst), gg.DrawImageOptions{X: pos.X, Y: pos.Y})
}

// Resize reallocates the surface. gg keeps the transform stack.
func (c *Canvas) Resize(width, height int) error {
	if err := c.dc.Resize(width, height); err != nil {
		return fmt.Errorf("ggcanvas: %w", err)
	}
	flint.Logger().Debug("surface resized", "backend", "gg", "width", width, "height", height)
	return nil
}

// Flush reports the first rasterizer error since the previous Flush.
func (c *Canvas) Flush() error {
	err := c.err
	c.err = nil
	return err
}

func (c *Canvas) keep(err error) {
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("ggcanvas: %w", err)
	}
}

// LoadFont parses the family's font data at the requested size.
func (c *Canvas) LoadFont(key flint.FontKey) (flint.FontFace, error) {
	src, err := text.NewFontSource(c.fonts.Lookup(key))
	if err != nil {
		return nil, fmt.Errorf("ggcanvas: parse font %s: %w", key, err)
	}
	return &Face{face: src.Face(key.Size)}, nil
}

// Face is a gg text face.
type Face struct {
	face text.Face
}

func (f *Face) Measure(s string) (width, height float64) {
	if s == "" {
		return 0, f.face.Metrics().LineHeight()
	}
	return text.Measure(s, f.face)
}

func (f *Face) Ascent() float64 { return f.face.Metrics().Ascent }

var _ flint.Canvas = (*Canvas)(nil)
