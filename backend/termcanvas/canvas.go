// Package termcanvas implements flint.Canvas on a tcell terminal screen.
//
// The canvas works in device pixels like every other backend. Each terminal
// cell covers CellWidth x CellHeight pixels and takes the color of whatever is
// painted under its center. Text is laid out one rune per cell.
package termcanvas

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/flint"
)

// Default cell size in device pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

type cell struct {
	bg flint.Color
	fg flint.Color
	ch rune
}

type state struct {
	m      flint.Affine
	color  flint.Color
	stroke float64
	alpha  uint8
	clips  flint.ClipPath
}

// Canvas paints into a shadow buffer of cells and pushes changed cells to the
// screen on Flush.
type Canvas struct {
	screen tcell.Screen

	cols, rows int
	cells      []cell
	changed    []bool

	cur   state
	stack []state
}

// New wraps an initialized screen.
func New(screen tcell.Screen) *Canvas {
	return &Canvas{
		screen: screen,
		cur:    state{m: flint.IdentityAffine, alpha: 255},
	}
}

// Screen returns the wrapped screen.
func (c *Canvas) Screen() tcell.Screen { return c.screen }

// PixelSize converts a screen size in cells to the device size the renderer
// should use.
func PixelSize(cols, rows int) (width, height int) {
	return cols * CellWidth, rows * CellHeight
}

// Cell returns the shadow contents of the cell at (col, row).
func (c *Canvas) Cell(col, row int) (ch rune, fg, bg flint.Color) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0, flint.Color{}, flint.Color{}
	}
	cl := c.cells[row*c.cols+col]
	return cl.ch, cl.fg, cl.bg
}

func (c *Canvas) Save() { c.stack = append(c.stack, c.cur) }

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) SetTransform(m flint.Affine) { c.cur.m = m }

// ClipPath intersects the clip with p. Overlapping rectangles in p are split
// first so each cell is painted at most once per primitive.
func (c *Canvas) ClipPath(p flint.ClipPath) {
	c.cur.clips = c.clipsOrFull().Intersect(p.Disjoint())
}

// ClipRect clips to the device bounding box of r.
func (c *Canvas) ClipRect(r flint.Rect, op flint.ClipOp) {
	db := c.cur.m.TransformBound(r.Bound())
	if op == flint.ClipDifference {
		c.cur.clips = c.clipsOrFull().Subtract(db)
		return
	}
	c.cur.clips = c.clipsOrFull().Intersect(flint.ClipPath{db})
}

func (c *Canvas) clipsOrFull() flint.ClipPath {
	if c.cur.clips != nil {
		return c.cur.clips
	}
	w, h := PixelSize(c.cols, c.rows)
	return flint.ClipPath{flint.BoundXYWH(0, 0, float64(w), float64(h))}
}

func (c *Canvas) SetColor(col flint.Color) { c.cur.color = col }

func (c *Canvas) SetStrokeWidth(w float64) { c.cur.stroke = w }

func (c *Canvas) SetAlpha(a uint8) { c.cur.alpha = a }

func (c *Canvas) DrawRect(r flint.Rect) {
	if c.cur.stroke <= 0 {
		c.fillWhere(func(x, y float64) bool { return r.Contains(x, y) })
		return
	}
	h := c.cur.stroke / 2
	outer := flint.Rect{X: r.X - h, Y: r.Y - h, Width: r.Width + c.cur.stroke, Height: r.Height + c.cur.stroke}
	inner := flint.Rect{X: r.X + h, Y: r.Y + h, Width: r.Width - c.cur.stroke, Height: r.Height - c.cur.stroke}
	c.fillWhere(func(x, y float64) bool {
		return outer.Contains(x, y) && !(inner.Width > 0 && inner.Height > 0 && inner.Contains(x, y))
	})
}

func (c *Canvas) DrawPolygon(pts []flint.Vec2) {
	if len(pts) < 3 {
		return
	}
	c.fillWhere(func(x, y float64) bool { return insideConvex(pts, x, y) })
}

// fillWhere blends the current color into every cell whose center, mapped to
// user space, satisfies inside.
func (c *Canvas) fillWhere(inside func(x, y float64) bool) {
	col := c.cur.color.WithAlpha(c.cur.alpha)
	if col.A == 0 {
		return
	}
	inv := c.cur.m.Invert()
	c.eachCell(func(i int, cx, cy float64) {
		if ux, uy := inv.Apply(cx, cy); inside(ux, uy) {
			cl := &c.cells[i]
			cl.bg = blend(cl.bg, col)
			if col.A == 255 {
				cl.ch = 0
			}
			c.changed[i] = true
		}
	})
}

func (c *Canvas) DrawImage(img *flint.Image, dst flint.Rect) {
	w, h := img.Size()
	if w == 0 || h == 0 || dst.Width <= 0 || dst.Height <= 0 || c.cur.alpha == 0 {
		return
	}
	src := img.Source()
	origin := src.Bounds().Min
	inv := c.cur.m.Invert()
	c.eachCell(func(i int, cx, cy float64) {
		ux, uy := inv.Apply(cx, cy)
		if !dst.Contains(ux, uy) {
			return
		}
		sx := min(int((ux-dst.X)/dst.Width*float64(w)), w-1)
		sy := min(int((uy-dst.Y)/dst.Height*float64(h)), h-1)
		px := color.NRGBAModel.Convert(src.At(origin.X+sx, origin.Y+sy)).(color.NRGBA)
		col := flint.RGBA(px.R, px.G, px.B, px.A).WithAlpha(c.cur.alpha)
		cl := &c.cells[i]
		cl.bg = blend(cl.bg, col)
		c.changed[i] = true
	})
}

// DrawText writes one rune per cell starting at the cell under the vertical
// middle of the first line.
func (c *Canvas) DrawText(f *flint.Font, s string, pos flint.Vec2) {
	if s == "" || c.cur.alpha == 0 {
		return
	}
	col := c.cur.color.WithAlpha(c.cur.alpha)
	clips := c.clipsOrFull()
	x := pos.X + CellWidth/2
	for _, r := range s {
		dx, dy := c.cur.m.Apply(x, pos.Y+CellHeight/2)
		x += CellWidth
		col0, row := int(math.Floor(dx/CellWidth)), int(math.Floor(dy/CellHeight))
		if col0 < 0 || row < 0 || col0 >= c.cols || row >= c.rows {
			continue
		}
		cx, cy := (float64(col0)+0.5)*CellWidth, (float64(row)+0.5)*CellHeight
		if !clips.Contains(cx, cy) {
			continue
		}
		i := row*c.cols + col0
		c.cells[i].ch = r
		c.cells[i].fg = col
		c.changed[i] = true
	}
}

// eachCell calls fn for every cell whose center lies inside the clip.
func (c *Canvas) eachCell(fn func(i int, cx, cy float64)) {
	for _, b := range c.clipsOrFull() {
		c0 := max(int(math.Floor(b.Left/CellWidth)), 0)
		r0 := max(int(math.Floor(b.Top/CellHeight)), 0)
		c1 := min(int(math.Ceil(b.Right/CellWidth)), c.cols)
		r1 := min(int(math.Ceil(b.Bottom/CellHeight)), c.rows)
		for row := r0; row < r1; row++ {
			cy := (float64(row) + 0.5) * CellHeight
			if cy < b.Top || cy >= b.Bottom {
				continue
			}
			for col := c0; col < c1; col++ {
				cx := (float64(col) + 0.5) * CellWidth
				if cx < b.Left || cx >= b.Right {
					continue
				}
				fn(row*c.cols+col, cx, cy)
			}
		}
	}
}

// Resize reallocates the shadow buffer for a device size. Partial cells at
// the right and bottom edges are kept.
func (c *Canvas) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("termcanvas: invalid size %dx%d: %w", width, height, flint.ErrInvalidSize)
	}
	c.cols = (width + CellWidth - 1) / CellWidth
	c.rows = (height + CellHeight - 1) / CellHeight
	c.cells = make([]cell, c.cols*c.rows)
	c.changed = make([]bool, c.cols*c.rows)
	c.screen.Clear()
	flint.Logger().Debug("surface resized", "backend", "terminal", "cols", c.cols, "rows", c.rows)
	return nil
}

// Flush writes changed cells to the screen and shows them.
func (c *Canvas) Flush() error {
	for i, dirty := range c.changed {
		if !dirty {
			continue
		}
		c.changed[i] = false
		cl := c.cells[i]
		style := tcell.StyleDefault.Background(termColor(cl.bg)).Foreground(termColor(cl.fg))
		ch := cl.ch
		if ch == 0 {
			ch = ' '
		}
		c.screen.SetContent(i%c.cols, i/c.cols, ch, nil, style)
	}
	c.screen.Show()
	return nil
}

// LoadFont returns the fixed cell face. Every family and size maps to it.
func (c *Canvas) LoadFont(key flint.FontKey) (flint.FontFace, error) {
	return cellFace{}, nil
}

type cellFace struct{}

func (cellFace) Measure(s string) (width, height float64) {
	n := 0
	for range s {
		n++
	}
	return float64(n * CellWidth), CellHeight
}

func (cellFace) Ascent() float64 { return CellHeight * 0.8 }

func termColor(c flint.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// blend composites src over dst with straight alpha.
func blend(dst, src flint.Color) flint.Color {
	if src.A == 255 {
		return src
	}
	a := uint32(src.A)
	mix := func(d, s uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a) + 127) / 255)
	}
	return flint.Color{
		R: mix(dst.R, src.R),
		G: mix(dst.G, src.G),
		B: mix(dst.B, src.B),
		A: 255,
	}
}

// insideConvex reports whether (x, y) is inside the convex polygon pts,
// regardless of winding.
func insideConvex(pts []flint.Vec2, x, y float64) bool {
	var pos, neg bool
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

var _ flint.Canvas = (*Canvas)(nil)
