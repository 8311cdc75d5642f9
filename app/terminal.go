package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/flint"
	"github.com/phanxgames/flint/backend/termcanvas"
)

// TerminalConfig configures RunTerminal.
type TerminalConfig struct {
	// FPS is the tick rate. Defaults to 30.
	FPS int
	// Update runs once per tick before the frame is rendered. A non-nil
	// error ends the loop and is returned from RunTerminal.
	Update func(dt float32) error
	// OnKey receives key events other than the quit keys.
	OnKey func(ev *tcell.EventKey)
}

// RunTerminal renders r into its terminal screen until ctx is done or the user
// presses Esc or Ctrl-C. The renderer must draw into a termcanvas.Canvas whose
// screen is already initialized; the caller still owns Fini.
func RunTerminal(ctx context.Context, r *flint.Renderer, cfg TerminalConfig) error {
	c, ok := r.Canvas().(*termcanvas.Canvas)
	if !ok {
		return fmt.Errorf("terminal loop needs *termcanvas.Canvas, got %T: %w", r.Canvas(), ErrWrongCanvas)
	}
	screen := c.Screen()
	fps := cfg.FPS
	if fps <= 0 {
		fps = 30
	}
	dt := float32(1.0 / float64(fps))

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	flint.Logger().Info("terminal loop started", "fps", fps)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					flint.Logger().Info("terminal loop stopped")
					return nil
				}
				if cfg.OnKey != nil {
					cfg.OnKey(ev)
				}
			case *tcell.EventResize:
				w, h := termcanvas.PixelSize(ev.Size())
				if err := r.Resize(w, h); err != nil {
					flint.Logger().Warn("resize failed", "err", err)
				}
				screen.Sync()
			}

		case <-ticker.C:
			if cfg.Update != nil {
				if err := cfg.Update(dt); err != nil {
					return err
				}
			}
			r.Tick(dt)
			if _, err := r.Render(); err != nil {
				return err
			}
		}
	}
}
