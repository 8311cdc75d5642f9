package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/flint"
	"github.com/phanxgames/flint/backend/ggcanvas"
	"github.com/phanxgames/flint/backend/termcanvas"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{64, 32, 0, 128, 10, 20, 30, 255}, 2, 1)
	if got := img.Pix[:4]; got[0] != 127 || got[1] != 63 || got[3] != 128 {
		t.Errorf("half-alpha pixel = %v", got)
	}
	if got := img.Pix[4:8]; got[0] != 10 || got[1] != 20 || got[2] != 30 || got[3] != 255 {
		t.Errorf("opaque pixel = %v", got)
	}
}

func TestNewWindowRejectsOtherCanvas(t *testing.T) {
	r, err := flint.NewRenderer(ggcanvas.New(), 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewWindow(r, RunConfig{}); !errors.Is(err, ErrWrongCanvas) {
		t.Errorf("err = %v, want ErrWrongCanvas", err)
	}
	if err := RunTerminal(context.Background(), r, TerminalConfig{}); !errors.Is(err, ErrWrongCanvas) {
		t.Errorf("terminal err = %v, want ErrWrongCanvas", err)
	}
}

func newTerminal(t *testing.T, cols, rows int) (*flint.Renderer, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	w, h := termcanvas.PixelSize(cols, rows)
	r, err := flint.NewRenderer(termcanvas.New(s), w, h)
	if err != nil {
		t.Fatal(err)
	}
	return r, s
}

func TestRunTerminalQuitsOnEscape(t *testing.T) {
	r, s := newTerminal(t, 10, 4)
	frames := 0
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := RunTerminal(ctx, r, TerminalConfig{
		FPS: 200,
		Update: func(dt float32) error {
			frames++
			if frames == 3 {
				_ = s.PostEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("RunTerminal = %v", err)
	}
	if frames < 3 {
		t.Errorf("frames = %d, want at least 3", frames)
	}
	if r.Stats().Frames < 3 {
		t.Errorf("renderer frames = %d", r.Stats().Frames)
	}
}

func TestRunTerminalResizes(t *testing.T) {
	r, s := newTerminal(t, 10, 4)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.SetSize(20, 6)
	_ = s.PostEvent(tcell.NewEventResize(20, 6))
	_ = s.PostEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if err := RunTerminal(ctx, r, TerminalConfig{FPS: 10}); err != nil {
		t.Fatal(err)
	}
	if w, h := r.Size(); w != 20*termcanvas.CellWidth || h != 6*termcanvas.CellHeight {
		t.Errorf("renderer size = %dx%d", w, h)
	}
}

func TestRunTerminalUpdateError(t *testing.T) {
	r, _ := newTerminal(t, 4, 4)
	boom := errors.New("boom")
	err := RunTerminal(context.Background(), r, TerminalConfig{
		FPS:    100,
		Update: func(float32) error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestRunTerminalContextCancel(t *testing.T) {
	r, _ := newTerminal(t, 4, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := RunTerminal(ctx, r, TerminalConfig{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
