// Package app drives a flint.Renderer from a host loop: an Ebitengine window
// or a tcell terminal.
package app

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/flint"
	"github.com/phanxgames/flint/backend/ebitencanvas"
)

// ErrWrongCanvas is returned when a renderer's canvas does not match the loop.
var ErrWrongCanvas = errors.New("app: renderer canvas does not match the host loop")

// RunConfig configures the window.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	// ShowFPS prints FPS and TPS in the top-left corner of the window. The
	// text is drawn on the window only, never into the render tree.
	ShowFPS bool
	// ScreenshotDir receives PNGs queued with Window.Screenshot. Defaults to
	// "screenshots".
	ScreenshotDir string
	// Update runs once per tick before the frame is rendered. A non-nil
	// error ends the loop and is returned from Run.
	Update func(dt float32) error
}

// Window is an ebiten.Game that renders a flint tree.
type Window struct {
	r      *flint.Renderer
	canvas *ebitencanvas.Canvas
	cfg    RunConfig

	screenshots []string
}

// NewWindow binds r to a window. The renderer must draw into an
// ebitencanvas.Canvas.
func NewWindow(r *flint.Renderer, cfg RunConfig) (*Window, error) {
	c, ok := r.Canvas().(*ebitencanvas.Canvas)
	if !ok {
		return nil, fmt.Errorf("window needs *ebitencanvas.Canvas, got %T: %w", r.Canvas(), ErrWrongCanvas)
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	return &Window{r: r, canvas: c, cfg: cfg}, nil
}

// Run opens the window and blocks until it closes.
func Run(r *flint.Renderer, cfg RunConfig) error {
	w, err := NewWindow(r, cfg)
	if err != nil {
		return err
	}
	return w.Run()
}

// Run opens the window and blocks until it closes.
func (w *Window) Run() error {
	width, height := w.cfg.Width, w.cfg.Height
	if width <= 0 || height <= 0 {
		width, height = w.r.Size()
	}
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(w.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(w.cfg.Fullscreen)
	flint.Logger().Info("window opened", "title", w.cfg.Title, "width", width, "height", height)
	return ebiten.RunGame(w)
}

// Screenshot queues a labeled capture of the next drawn frame.
func (w *Window) Screenshot(label string) {
	w.screenshots = append(w.screenshots, label)
}

// Update advances the host callback and animations, then renders the tree into
// the offscreen target.
func (w *Window) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	if w.cfg.Update != nil {
		if err := w.cfg.Update(dt); err != nil {
			return err
		}
	}
	w.r.Tick(dt)
	if _, err := w.r.Render(); err != nil {
		return err
	}
	return nil
}

// Draw blits the offscreen target to the window.
func (w *Window) Draw(screen *ebiten.Image) {
	if t := w.canvas.Target(); t != nil {
		screen.DrawImage(t, nil)
	}
	if w.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	w.flushScreenshots(screen)
}

// Layout resizes the renderer to the window's outside size.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if err := w.r.Resize(outsideWidth, outsideHeight); err != nil {
		flint.Logger().Warn("resize failed", "err", err)
		return w.r.Size()
	}
	return outsideWidth, outsideHeight
}

var _ ebiten.Game = (*Window)(nil)
