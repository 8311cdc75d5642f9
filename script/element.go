package script

import (
	"strings"

	"github.com/dop251/goja"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/flint"
)

// Element returns the script object for n, creating it on first use. The same
// node always maps to the same object.
func (h *Host) Element(n *flint.Node) *goja.Object { return h.element(n) }

// Node returns the node behind a script element, or nil.
func (h *Host) Node(v goja.Value) *flint.Node {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	return h.nodes[obj]
}

func (h *Host) element(n *flint.Node) *goja.Object {
	if obj, ok := h.elements[n]; ok {
		return obj
	}
	vm := h.vm
	obj := vm.NewObject()
	h.elements[n] = obj
	h.nodes[obj] = n

	obj.Set("name", n.Name)
	obj.Set("id", n.ID)

	// method binds fn as a chainable method: it returns the element itself.
	method := func(name string, fn func(call goja.FunctionCall)) {
		obj.Set(name, func(call goja.FunctionCall) goja.Value {
			h.guard(func() { fn(call) })
			return obj
		})
	}
	num := func(call goja.FunctionCall, i int) float64 { return call.Argument(i).ToFloat() }

	method("add", func(call goja.FunctionCall) {
		n.Add(h.mustNode(call.Argument(0), "add"))
	})
	method("remove", func(call goja.FunctionCall) {
		n.Remove(h.mustNode(call.Argument(0), "remove"))
	})
	method("release", func(goja.FunctionCall) {
		h.forget(n)
		n.Release()
	})
	method("setPosition", func(call goja.FunctionCall) { n.SetPosition(num(call, 0), num(call, 1)) })
	method("setSize", func(call goja.FunctionCall) { n.SetSize(num(call, 0), num(call, 1)) })
	method("setRotation", func(call goja.FunctionCall) { n.SetRotation(num(call, 0)) })
	method("setOpacity", func(call goja.FunctionCall) {
		n.SetOpacity(clampByte(call.Argument(0).ToInteger()))
	})
	method("setVisible", func(call goja.FunctionCall) { n.SetVisible(call.Argument(0).ToBoolean()) })
	method("setOverflow", func(call goja.FunctionCall) {
		n.SetOverflow(h.overflow(call.Argument(0)))
	})
	method("setBackgroundColor", func(call goja.FunctionCall) {
		n.SetBackgroundColor(h.toColor(call.Argument(0)))
	})
	method("setBackgroundImage", func(call goja.FunctionCall) {
		arg := call.Argument(0)
		if goja.IsUndefined(arg) || goja.IsNull(arg) {
			n.SetBackgroundImage(nil)
			return
		}
		img, err := h.r.LoadImage(arg.String())
		if err != nil {
			panic(vm.NewGoError(err))
		}
		n.SetBackgroundImage(img)
	})
	method("setBorder", func(call goja.FunctionCall) {
		b := flint.Border{Width: num(call, 0), Color: h.toColor(call.Argument(1))}
		if edge := call.Argument(2); !goja.IsUndefined(edge) {
			n.SetBorderEdge(h.edge(edge), b)
			return
		}
		n.SetBorder(b)
	})
	method("setScroll", func(call goja.FunctionCall) { n.SetScroll(num(call, 0), num(call, 1)) })
	method("setText", func(call goja.FunctionCall) {
		col := flint.ColorBlack
		if c := call.Argument(1); !goja.IsUndefined(c) {
			col = h.toColor(c)
		}
		var font *flint.Font
		if f := call.Argument(2); !goja.IsUndefined(f) && !goja.IsNull(f) {
			font = h.font(f.ToObject(vm))
		}
		n.SetText(call.Argument(0).String(), font, col)
	})
	method("tweenPosition", func(call goja.FunctionCall) {
		h.r.Animate(flint.TweenPosition(n, num(call, 0), num(call, 1), float32(num(call, 2)), easing(call.Argument(3))))
	})
	method("tweenOpacity", func(call goja.FunctionCall) {
		h.r.Animate(flint.TweenOpacity(n, clampByte(call.Argument(0).ToInteger()), float32(num(call, 1)), easing(call.Argument(2))))
	})
	method("tweenRotation", func(call goja.FunctionCall) {
		h.r.Animate(flint.TweenRotation(n, num(call, 0), float32(num(call, 1)), easing(call.Argument(2))))
	})

	obj.Set("parent", func(goja.FunctionCall) goja.Value {
		if p := n.Parent(); p != nil {
			return h.element(p)
		}
		return goja.Null()
	})
	obj.Set("children", func(goja.FunctionCall) goja.Value {
		out := make([]any, 0, n.NumChildren())
		for _, c := range n.Children() {
			out = append(out, h.element(c))
		}
		return vm.NewArray(out...)
	})
	obj.Set("position", func(goja.FunctionCall) goja.Value {
		x, y := n.Position()
		return vm.ToValue(map[string]any{"x": x, "y": y})
	})
	obj.Set("size", func(goja.FunctionCall) goja.Value {
		w, ht := n.Size()
		return vm.ToValue(map[string]any{"width": w, "height": ht})
	})
	obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		x, y := num(call, 0), num(call, 1)
		for _, hit := range h.r.HitTest(x, y) {
			if hit == n {
				return vm.ToValue(true)
			}
		}
		return vm.ToValue(false)
	})
	return obj
}

// forget drops the script objects of n and its subtree.
func (h *Host) forget(n *flint.Node) {
	for _, c := range n.Children() {
		h.forget(c)
	}
	if obj, ok := h.elements[n]; ok {
		delete(h.nodes, obj)
		delete(h.elements, n)
	}
}

func (h *Host) mustNode(v goja.Value, op string) *flint.Node {
	n := h.Node(v)
	if n == nil {
		panic(h.vm.NewTypeError("%s: argument is not an element", op))
	}
	return n
}

// applyProps sets the node properties named in a createElement props object.
func (h *Host) applyProps(n *flint.Node, props *goja.Object) {
	get := func(key string) (goja.Value, bool) {
		v := props.Get(key)
		return v, v != nil && !goja.IsUndefined(v) && !goja.IsNull(v)
	}
	num := func(key string, def float64) float64 {
		if v, ok := get(key); ok {
			return v.ToFloat()
		}
		return def
	}

	x, y := n.Position()
	n.SetPosition(num("x", x), num("y", y))
	w, ht := n.Size()
	n.SetSize(num("width", w), num("height", ht))
	if v, ok := get("rotation"); ok {
		n.SetRotation(v.ToFloat())
	}
	if v, ok := get("opacity"); ok {
		n.SetOpacity(clampByte(v.ToInteger()))
	}
	if v, ok := get("visible"); ok {
		n.SetVisible(v.ToBoolean())
	}
	if v, ok := get("overflow"); ok {
		n.SetOverflow(h.overflow(v))
	}
	if v, ok := get("background"); ok {
		n.SetBackgroundColor(h.toColor(v))
	}
	if v, ok := get("image"); ok {
		img, err := h.r.LoadImage(v.String())
		if err != nil {
			panic(h.vm.NewGoError(err))
		}
		n.SetBackgroundImage(img)
	}
	if v, ok := get("border"); ok {
		b := v.ToObject(h.vm)
		n.SetBorder(flint.Border{Width: b.Get("width").ToFloat(), Color: h.toColor(b.Get("color"))})
	}
	if v, ok := get("text"); ok {
		col := flint.ColorBlack
		if c, ok := get("color"); ok {
			col = h.toColor(c)
		}
		var font *flint.Font
		if f, ok := get("font"); ok {
			font = h.font(f.ToObject(h.vm))
		}
		n.SetText(v.String(), font, col)
	}
	if v, ok := get("parent"); ok {
		h.mustNode(v, "createElement parent").Add(n)
	}
}

func (h *Host) overflow(v goja.Value) flint.Overflow {
	o, ok := flint.ParseOverflow(strings.ToLower(v.String()))
	if !ok {
		panic(h.vm.NewTypeError("unknown overflow %q", v.String()))
	}
	return o
}

func (h *Host) edge(v goja.Value) flint.Edge {
	switch strings.ToLower(v.String()) {
	case "top":
		return flint.EdgeTop
	case "right":
		return flint.EdgeRight
	case "bottom":
		return flint.EdgeBottom
	case "left":
		return flint.EdgeLeft
	}
	panic(h.vm.NewTypeError("unknown edge %q", v.String()))
}

// font resolves {family, size, weight} through the renderer's font cache.
func (h *Host) font(obj *goja.Object) *flint.Font {
	family := flint.DefaultFontFamily
	size := float64(flint.DefaultFontSize)
	weight := flint.FontNormal
	if v := obj.Get("family"); v != nil && !goja.IsUndefined(v) {
		family = v.String()
	}
	if v := obj.Get("size"); v != nil && !goja.IsUndefined(v) {
		size = v.ToFloat()
	}
	if v := obj.Get("weight"); v != nil && !goja.IsUndefined(v) {
		switch strings.ToLower(v.String()) {
		case "bold":
			weight = flint.FontBold
		case "italic":
			weight = flint.FontItalic
		}
	}
	f, err := h.r.Font(family, size, weight)
	if err != nil {
		panic(h.vm.NewGoError(err))
	}
	return f
}

// easing maps an easing name to a gween function. Unknown names and
// undefined fall back to linear.
func easing(v goja.Value) ease.TweenFunc {
	if v == nil || goja.IsUndefined(v) {
		return nil
	}
	switch v.String() {
	case "inQuad":
		return ease.InQuad
	case "outQuad":
		return ease.OutQuad
	case "inOutQuad":
		return ease.InOutQuad
	case "inCubic":
		return ease.InCubic
	case "outCubic":
		return ease.OutCubic
	case "inOutCubic":
		return ease.InOutCubic
	case "outBounce":
		return ease.OutBounce
	case "outElastic":
		return ease.OutElastic
	}
	return nil
}

func (h *Host) colorValue(c flint.Color) goja.Value {
	obj := h.vm.NewObject()
	obj.Set("r", c.R)
	obj.Set("g", c.G)
	obj.Set("b", c.B)
	obj.Set("a", c.A)
	return obj
}

// toColor accepts an {r, g, b, a} object, a 0xAARRGGBB number or a
// "#rrggbb" / "#rrggbbaa" string.
func (h *Host) toColor(v goja.Value) flint.Color {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return flint.ColorTransparent
	}
	switch x := v.Export().(type) {
	case int64:
		return flint.ColorFromARGB(uint32(x))
	case float64:
		return flint.ColorFromARGB(uint32(x))
	case string:
		c, err := flint.ParseHexColor(x)
		if err != nil {
			panic(h.vm.NewTypeError("%v", err))
		}
		return c
	}
	obj := v.ToObject(h.vm)
	a := int64(255)
	if av := obj.Get("a"); av != nil && !goja.IsUndefined(av) {
		a = av.ToInteger()
	}
	component := func(k string) uint8 {
		if cv := obj.Get(k); cv != nil {
			return clampByte(cv.ToInteger())
		}
		return 0
	}
	return flint.RGBA(component("r"), component("g"), component("b"), clampByte(a))
}
