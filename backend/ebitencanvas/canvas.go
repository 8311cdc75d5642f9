// Package ebitencanvas implements flint.Canvas on an Ebitengine offscreen
// image. The image persists between frames so partial repaints only touch the
// damaged regions; the app package blits it to the window every frame.
package ebitencanvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/phanxgames/flint"
)

type state struct {
	m      flint.Affine
	color  flint.Color
	stroke float64
	alpha  uint8
	// clips is the drawable area in device space. nil means the whole
	// target. It is replaced, never modified in place, so states can share it.
	clips flint.ClipPath
}

// Canvas draws into an offscreen ebiten.Image.
type Canvas struct {
	target *ebiten.Image
	fonts  flint.FontFiles

	cur   state
	stack []state

	verts []ebiten.Vertex
	inds  []uint16
}

// New returns a canvas without a surface. The renderer sizes it on
// construction.
func New() *Canvas {
	return &Canvas{cur: state{m: flint.IdentityAffine, alpha: 255}}
}

// Target returns the offscreen image holding the rendered frame.
func (c *Canvas) Target() *ebiten.Image { return c.target }

// Fonts returns the family table used by LoadFont.
func (c *Canvas) Fonts() *flint.FontFiles { return &c.fonts }

func (c *Canvas) Save() {
	c.stack = append(c.stack, c.cur)
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) SetTransform(m flint.Affine) { c.cur.m = m }

// ClipPath intersects the clip with p. Rectangles are snapped to whole pixels
// and split so that no pixel is drawn twice by one primitive.
func (c *Canvas) ClipPath(p flint.ClipPath) {
	c.cur.clips = c.clipsOrFull().Intersect(snapOut(p).Disjoint())
}

// ClipRect clips to r under the current transform. Rotated rectangles clip to
// their device-space bounding box.
func (c *Canvas) ClipRect(r flint.Rect, op flint.ClipOp) {
	db := snapBound(c.cur.m.TransformBound(r.Bound()))
	if op == flint.ClipDifference {
		c.cur.clips = c.clipsOrFull().Subtract(db)
		return
	}
	c.cur.clips = c.clipsOrFull().Intersect(flint.ClipPath{db})
}

func (c *Canvas) SetColor(col flint.Color) { c.cur.color = col }

func (c *Canvas) SetStrokeWidth(w float64) { c.cur.stroke = w }

func (c *Canvas) SetAlpha(a uint8) { c.cur.alpha = a }

func (c *Canvas) DrawRect(r flint.Rect) {
	if c.cur.stroke <= 0 {
		c.fill(rectPoints(r))
		return
	}
	for _, q := range strokeQuads(r, c.cur.stroke) {
		c.fill(q[:])
	}
}

func (c *Canvas) DrawPolygon(pts []flint.Vec2) {
	if len(pts) >= 3 {
		c.fill(pts)
	}
}

// fill draws a convex polygon as a triangle fan with the current color.
func (c *Canvas) fill(pts []flint.Vec2) {
	col := c.cur.color.WithAlpha(c.cur.alpha)
	if col.A == 0 || c.target == nil {
		return
	}
	r, g, b, a := float32(col.R)/255, float32(col.G)/255, float32(col.B)/255, float32(col.A)/255

	c.verts = c.verts[:0]
	c.inds = c.inds[:0]
	for _, p := range pts {
		x, y := c.cur.m.Apply(p.X, p.Y)
		c.verts = append(c.verts, ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	for i := 1; i+1 < len(pts); i++ {
		c.inds = append(c.inds, 0, uint16(i), uint16(i+1))
	}

	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = !c.cur.m.IsTranslation()
	src := whiteSubImage()
	c.eachClip(func(dst *ebiten.Image) {
		dst.DrawTriangles(c.verts, c.inds, src, &op)
	})
}

func (c *Canvas) DrawImage(img *flint.Image, dst flint.Rect) {
	if img == nil || img.Source() == nil || c.target == nil {
		return
	}
	eimg, ok := img.Handle().(*ebiten.Image)
	if !ok {
		eimg = ebiten.NewImageFromImage(img.Source())
		img.SetHandle(eimg)
	}
	w, h := img.Size()
	if w == 0 || h == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(dst.Width/float64(w), dst.Height/float64(h))
	op.GeoM.Translate(dst.X, dst.Y)
	op.GeoM.Concat(geoM(c.cur.m))
	op.ColorScale.ScaleAlpha(float32(c.cur.alpha) / 255)
	op.Filter = ebiten.FilterLinear
	c.eachClip(func(target *ebiten.Image) {
		target.DrawImage(eimg, &op)
	})
}

func (c *Canvas) DrawText(f *flint.Font, s string, pos flint.Vec2) {
	face, ok := f.Face.(*Face)
	if !ok || s == "" || c.target == nil {
		return
	}
	col := c.cur.color.WithAlpha(c.cur.alpha)
	op := &text.DrawOptions{}
	op.GeoM.Translate(pos.X, pos.Y)
	op.GeoM.Concat(geoM(c.cur.m))
	op.ColorScale.ScaleWithColor(col)
	op.LineSpacing = face.lineHeight
	c.eachClip(func(target *ebiten.Image) {
		text.Draw(target, s, face.face, op)
	})
}

// eachClip calls draw once per clip rectangle with a sub-image of the target.
// Sub-images share the target's coordinate space.
func (c *Canvas) eachClip(draw func(*ebiten.Image)) {
	if c.cur.clips == nil {
		draw(c.target)
		return
	}
	for _, b := range c.cur.clips {
		r := deviceRect(b)
		if r.Empty() {
			continue
		}
		draw(c.target.SubImage(r).(*ebiten.Image))
	}
}

func (c *Canvas) clipsOrFull() flint.ClipPath {
	if c.cur.clips != nil {
		return c.cur.clips
	}
	if c.target == nil {
		return flint.ClipPath{}
	}
	b := c.target.Bounds()
	return flint.ClipPath{flint.BoundXYWH(0, 0, float64(b.Dx()), float64(b.Dy()))}
}

// Resize replaces the offscreen image. Its contents are lost; the renderer
// repaints everything after a resize.
func (c *Canvas) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("ebitencanvas: invalid size %dx%d: %w", width, height, flint.ErrInvalidSize)
	}
	if c.target != nil {
		c.target.Deallocate()
	}
	c.target = ebiten.NewImage(width, height)
	flint.Logger().Debug("surface resized", "backend", "ebiten", "width", width, "height", height)
	return nil
}

// Flush is a no-op; Ebitengine submits draws when the frame ends.
func (c *Canvas) Flush() error { return nil }

// Close releases the offscreen image.
func (c *Canvas) Close() {
	if c.target != nil {
		c.target.Deallocate()
		c.target = nil
	}
}

// LoadFont parses the family's font data as a text/v2 face.
func (c *Canvas) LoadFont(key flint.FontKey) (flint.FontFace, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(c.fonts.Lookup(key)))
	if err != nil {
		return nil, fmt.Errorf("ebitencanvas: parse font %s: %w", key, err)
	}
	face := &text.GoTextFace{Source: src, Size: key.Size}
	m := face.Metrics()
	return &Face{
		face:       face,
		ascent:     m.HAscent,
		lineHeight: m.HAscent + m.HDescent + m.HLineGap,
	}, nil
}

// Face is a text/v2 face with cached metrics.
type Face struct {
	face       *text.GoTextFace
	ascent     float64
	lineHeight float64
}

func (f *Face) Measure(s string) (width, height float64) {
	if s == "" {
		return 0, f.lineHeight
	}
	return text.Measure(s, f.face, f.lineHeight)
}

func (f *Face) Ascent() float64 { return f.ascent }

// geoM converts an affine matrix to ebiten's GeoM.
func geoM(m flint.Affine) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[2])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[3])
	g.SetElement(1, 2, m[5])
	return g
}

var whiteImage *ebiten.Image

// whiteSubImage returns the center pixel of a 3x3 white image, which samples
// without edge bleeding.
func whiteSubImage() *ebiten.Image {
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
	}
	return whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

var _ flint.Canvas = (*Canvas)(nil)
