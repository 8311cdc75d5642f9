// Command flint runs a script against a flint render tree in a window, a
// terminal or a headless software canvas.
//
//	flint -script demo.js
//	flint -backend terminal -script demo.js
//	flint -backend software -script demo.js -frames 60 -out frame.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/flint"
	"github.com/phanxgames/flint/app"
	"github.com/phanxgames/flint/backend/ebitencanvas"
	"github.com/phanxgames/flint/backend/ggcanvas"
	"github.com/phanxgames/flint/backend/termcanvas"
	"github.com/phanxgames/flint/config"
	"github.com/phanxgames/flint/script"
)

const softwareStep = float32(1.0 / 60)

type options struct {
	configPath string
	scriptPath string
	backend    string
	frames     int
	out        string
	debug      bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "flint:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("flint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "TOML config file")
	fs.StringVar(&o.scriptPath, "script", "", "script to run (overrides [script] path)")
	fs.StringVar(&o.backend, "backend", "", "ebiten, terminal or software (overrides [render] backend)")
	fs.IntVar(&o.frames, "frames", 1, "frames to render with the software backend")
	fs.StringVar(&o.out, "out", "flint.png", "PNG written by the software backend")
	fs.BoolVar(&o.debug, "debug", false, "enable debug checks and logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.frames < 1 {
		return options{}, fmt.Errorf("-frames must be at least 1, got %d", o.frames)
	}
	return o, nil
}

// loadConfig merges the config file with command-line overrides.
func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if o.scriptPath != "" {
		cfg.Script.Path = o.scriptPath
	}
	if o.backend != "" {
		cfg.Render.Backend = o.backend
	}
	if o.debug {
		cfg.Render.Debug = true
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	if cfg.Render.Debug && cfg.Render.Backend != config.BackendTerminal {
		flint.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer flint.SetLogger(nil)
	}

	switch cfg.Render.Backend {
	case config.BackendSoftware:
		return runSoftware(cfg, o.frames, o.out)
	case config.BackendTerminal:
		return runTerminal(ctx, cfg)
	default:
		return runWindow(cfg)
	}
}

func newRenderer(cfg config.Config, canvas flint.Canvas, width, height int) (*flint.Renderer, error) {
	opts, err := cfg.RendererOptions()
	if err != nil {
		return nil, err
	}
	r, err := flint.NewRenderer(canvas, width, height, opts...)
	if err != nil {
		return nil, err
	}
	r.SetDebugMode(cfg.Render.Debug)
	return r, nil
}

// newHost creates the script host and runs the configured script, if any.
func newHost(cfg config.Config, r *flint.Renderer) (*script.Host, error) {
	h := script.New(r)
	if cfg.Script.Path == "" {
		return h, nil
	}
	if err := h.RunFile(cfg.Script.Path); err != nil {
		return nil, err
	}
	return h, nil
}

func runSoftware(cfg config.Config, frames int, out string) error {
	canvas := ggcanvas.New()
	defer canvas.Close()
	r, err := newRenderer(cfg, canvas, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer r.Close()
	h, err := newHost(cfg, r)
	if err != nil {
		return err
	}
	for i := range frames {
		if i > 0 {
			if err := h.Tick(softwareStep); err != nil {
				return err
			}
			r.Tick(softwareStep)
		}
		if _, err := r.Render(); err != nil {
			return err
		}
	}
	return canvas.SavePNG(out)
}

func runTerminal(ctx context.Context, cfg config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()

	w, h := termcanvas.PixelSize(screen.Size())
	r, err := newRenderer(cfg, termcanvas.New(screen), w, h)
	if err != nil {
		return err
	}
	defer r.Close()
	host, err := newHost(cfg, r)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	err = app.RunTerminal(ctx, r, app.TerminalConfig{Update: host.Tick})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runWindow(cfg config.Config) error {
	r, err := newRenderer(cfg, ebitencanvas.New(), cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer r.Close()
	h, err := newHost(cfg, r)
	if err != nil {
		return err
	}
	return app.Run(r, app.RunConfig{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		ShowFPS:    cfg.Render.Debug,
		Update:     h.Tick,
	})
}
