// Package script exposes a flint render tree to JavaScript through goja.
//
// Scripts see a global `stage` element and build trees with
// `createElement(props)`. Timers and `onFrame` callbacks run on the host's
// frame clock, advanced by Host.Tick. A Host is not safe for concurrent use;
// call it from the goroutine that owns the renderer.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/phanxgames/flint"
)

// Option configures a Host.
type Option func(*Host)

// WithOutput sends print() output to w instead of the flint logger.
func WithOutput(w io.Writer) Option {
	return func(h *Host) { h.out = w }
}

// Host runs scripts against a renderer.
type Host struct {
	vm *goja.Runtime
	r  *flint.Renderer

	elements map[*flint.Node]*goja.Object
	nodes    map[*goja.Object]*flint.Node

	timers      *timerQueue
	frames      []frameCallback
	nextFrameID int
	now         time.Duration

	out io.Writer
}

type frameCallback struct {
	id int
	fn goja.Callable
}

// New creates a host bound to r and installs the script globals.
func New(r *flint.Renderer, opts ...Option) *Host {
	h := &Host{
		vm:          goja.New(),
		r:           r,
		elements:    make(map[*flint.Node]*goja.Object),
		nodes:       make(map[*goja.Object]*flint.Node),
		timers:      newTimerQueue(),
		nextFrameID: 1,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.setupGlobals()
	h.setupTimers()
	return h
}

// VM returns the underlying goja runtime.
func (h *Host) VM() *goja.Runtime { return h.vm }

// Renderer returns the renderer the host drives.
func (h *Host) Renderer() *flint.Renderer { return h.r }

// RunString compiles and runs src. name is used in stack traces.
func (h *Host) RunString(name, src string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script %s: panic: %v", name, p)
		}
	}()
	prog, err := goja.Compile(name, src, false)
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	if _, err := h.vm.RunProgram(prog); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	flint.Logger().Debug("script loaded", "name", name)
	return nil
}

// RunFile reads and runs the script at path.
func (h *Host) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return h.RunString(path, string(src))
}

// Tick advances the frame clock by dt seconds, runs every due timer, then
// calls each onFrame callback with dt. Errors from callbacks are collected; one
// failing callback does not stop the others.
func (h *Host) Tick(dt float32) error {
	h.now += time.Duration(float64(dt) * float64(time.Second))

	var errs []error
	for _, t := range h.timers.due(h.now) {
		if !h.timers.live(t.id) {
			continue
		}
		if err := h.call(t.callback, t.args...); err != nil {
			errs = append(errs, fmt.Errorf("timer %d: %w", t.id, err))
		}
		h.timers.fired(t, h.now)
	}

	dtv := h.vm.ToValue(float64(dt))
	for _, f := range slices.Clone(h.frames) {
		if err := h.call(f.fn, dtv); err != nil {
			errs = append(errs, fmt.Errorf("frame callback %d: %w", f.id, err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		flint.Logger().Warn("script callback failed", "err", err)
	}
	return err
}

// Pending returns the number of scheduled timers.
func (h *Host) Pending() int { return h.timers.len() }

// call invokes fn, turning Go panics into errors.
func (h *Host) call(fn goja.Callable, args ...goja.Value) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	_, err = fn(goja.Undefined(), args...)
	return err
}

func (h *Host) setupGlobals() {
	h.vm.Set("print", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		line := strings.Join(parts, " ")
		if h.out != nil {
			fmt.Fprintln(h.out, line)
		} else {
			flint.Logger().Info("script print", "text", line)
		}
		return goja.Undefined()
	})

	h.vm.Set("Color", func(call goja.FunctionCall) goja.Value {
		a := int64(255)
		if len(call.Arguments) > 3 {
			a = call.Argument(3).ToInteger()
		}
		return h.colorValue(flint.RGBA(
			clampByte(call.Argument(0).ToInteger()),
			clampByte(call.Argument(1).ToInteger()),
			clampByte(call.Argument(2).ToInteger()),
			clampByte(a),
		))
	})

	h.vm.Set("stage", h.element(h.r.Stage()))

	h.vm.Set("createElement", func(call goja.FunctionCall) goja.Value {
		name := "element"
		var props *goja.Object
		if arg := call.Argument(0); !goja.IsUndefined(arg) && !goja.IsNull(arg) {
			props = arg.ToObject(h.vm)
			if v := props.Get("name"); v != nil && !goja.IsUndefined(v) {
				name = v.String()
			}
		}
		n := h.r.NewNode(name)
		if props != nil {
			h.guard(func() { h.applyProps(n, props) })
		}
		return h.element(n)
	})

	h.vm.Set("onFrame", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(h.vm.NewTypeError("onFrame: argument is not a function"))
		}
		id := h.nextFrameID
		h.nextFrameID++
		h.frames = append(h.frames, frameCallback{id: id, fn: fn})
		return h.vm.ToValue(id)
	})

	h.vm.Set("offFrame", func(call goja.FunctionCall) goja.Value {
		id := int(call.Argument(0).ToInteger())
		for i, f := range h.frames {
			if f.id == id {
				h.frames = append(h.frames[:i], h.frames[i+1:]...)
				break
			}
		}
		return goja.Undefined()
	})
}

func (h *Host) setupTimers() {
	schedule := func(repeat bool) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			fn, ok := goja.AssertFunction(call.Argument(0))
			if !ok {
				return goja.Undefined()
			}
			delay := max(call.Argument(1).ToInteger(), 0)
			var args []goja.Value
			if len(call.Arguments) > 2 {
				args = call.Arguments[2:]
			}
			d := time.Duration(delay) * time.Millisecond
			var interval time.Duration
			if repeat {
				interval = max(d, time.Millisecond)
			}
			return h.vm.ToValue(h.timers.add(fn, h.now, d, interval, args))
		}
	}
	clearTimer := func(call goja.FunctionCall) goja.Value {
		h.timers.clear(int(call.Argument(0).ToInteger()))
		return goja.Undefined()
	}
	h.vm.Set("setTimeout", schedule(false))
	h.vm.Set("setInterval", schedule(true))
	h.vm.Set("clearTimeout", clearTimer)
	h.vm.Set("clearInterval", clearTimer)
}

// guard runs fn and rethrows a Go panic from the render tree as a script
// exception.
func (h *Host) guard(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			if v, ok := p.(goja.Value); ok {
				panic(v)
			}
			if ex, ok := p.(*goja.Exception); ok {
				panic(ex)
			}
			panic(h.vm.NewGoError(fmt.Errorf("%v", p)))
		}
	}()
	fn()
}

func clampByte(v int64) uint8 {
	return uint8(min(max(v, 0), 255))
}
