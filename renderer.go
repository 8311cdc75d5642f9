package flint

import (
	"fmt"
	"time"
)

// Option configures a Renderer.
type Option func(*rendererConfig)

type rendererConfig struct {
	region     RegionOptions
	fontFamily string
	fontSize   float64
	clearColor Color
}

// WithRegionOptions sets the damage merge tuning.
func WithRegionOptions(o RegionOptions) Option {
	return func(c *rendererConfig) { c.region = o }
}

// WithDefaultFont sets the font used by text nodes that have none.
func WithDefaultFont(family string, size float64) Option {
	return func(c *rendererConfig) {
		c.fontFamily = family
		c.fontSize = size
	}
}

// WithClearColor sets the stage background. The default is white.
func WithClearColor(col Color) Option {
	return func(c *rendererConfig) { c.clearColor = col }
}

// Stats describes the renderer's recent work. Frame counters accumulate
// over the renderer's lifetime; the rest describe the last painted frame.
type Stats struct {
	Frames        int // Render calls
	SkippedFrames int // Render calls that found nothing to paint
	FullRepaints  int // frames painted without a clip
	LayoutRuns    int // layout passes

	Regions      int // clip rectangles of the last painted frame, 0 when full
	PaintedNodes int // nodes that drew themselves in the last painted frame
	LiveNodes    int // nodes created and not yet released, stage included
	LayoutTime   time.Duration
	PaintTime    time.Duration
}

// Renderer owns the stage, the redraw region tracker, the paint canvas, and
// the font and image caches. It runs one frame per Render call: a layout
// pass when the tree changed, then a paint pass limited to the damaged
// regions.
//
// A Renderer and all of its nodes must be used from a single goroutine.
type Renderer struct {
	canvas  Canvas
	stage   *Node
	tracker *RegionTracker
	fonts   *FontCache
	images  *ImageCache

	defaultFont   *Font
	width, height int

	layoutInvalid bool
	painting      bool
	debug         bool
	showBounds    bool
	closed        bool

	stats     Stats
	nodeID    uint32
	liveNodes int
	tweens    []*TweenGroup
}

// NewRenderer creates a renderer painting into canvas at the given surface
// size. The first Render repaints everything.
func NewRenderer(canvas Canvas, width, height int, opts ...Option) (*Renderer, error) {
	if canvas == nil {
		panic("flint: nil canvas")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new renderer %dx%d: %w", width, height, ErrInvalidSize)
	}
	cfg := rendererConfig{
		region:     DefaultRegionOptions(),
		fontFamily: DefaultFontFamily,
		fontSize:   DefaultFontSize,
		clearColor: ColorWhite,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := canvas.Resize(width, height); err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}

	r := &Renderer{
		canvas:  canvas,
		tracker: NewRegionTracker(cfg.region),
		fonts:   NewFontCache(canvas),
		images:  NewImageCache(),
		width:   width,
		height:  height,
	}
	r.stage = r.NewNode("stage")
	r.stage.clipped = false
	r.stage.background = cfg.clearColor
	r.stage.setStageSize(float64(width), float64(height))

	if f, err := r.fonts.Get(cfg.fontFamily, cfg.fontSize, FontNormal); err != nil {
		Logger().Warn("default font unavailable", "family", cfg.fontFamily, "err", err)
	} else {
		r.defaultFont = f
	}

	r.tracker.InvalidateAll()
	r.layoutInvalid = true
	Logger().Info("surface created", "width", width, "height", height)
	return r, nil
}

// Stage returns the root node. It is always visible and sized to the surface.
func (r *Renderer) Stage() *Node { return r.stage }

// Canvas returns the paint backend.
func (r *Renderer) Canvas() Canvas { return r.canvas }

// Tracker returns the redraw region tracker.
func (r *Renderer) Tracker() *RegionTracker { return r.tracker }

// Size returns the surface size.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// NewNode creates a detached node. Add it to the stage or another node to
// make it visible.
func (r *Renderer) NewNode(name string) *Node {
	r.liveNodes++
	return newNode(r, name)
}

func (r *Renderer) nextNodeID() uint32 {
	r.nodeID++
	return r.nodeID
}

func (r *Renderer) invalidateLayout() {
	r.layoutInvalid = true
}

// InvalidateAll schedules a repaint of the whole surface.
func (r *Renderer) InvalidateAll() {
	r.tracker.InvalidateAll()
	r.layoutInvalid = true
}

// InvalidateLayout forces a layout pass on the next frame.
func (r *Renderer) InvalidateLayout() {
	r.layoutInvalid = true
}

// Render produces one frame. It returns false when nothing changed since the
// last frame; the caller should then skip presenting. A non-nil error comes
// from the canvas flush.
func (r *Renderer) Render() (bool, error) {
	if r.closed {
		return false, nil
	}
	if r.showBounds {
		r.tracker.InvalidateAll()
	}

	start := time.Now()
	laidOut := r.layout()
	layoutTime := time.Since(start)

	changed, clip := r.tracker.Update()
	r.stats.Frames++
	if !changed {
		r.stats.SkippedFrames++
		return false, nil
	}
	if clip == nil {
		r.stats.FullRepaints++
	}
	r.stats.Regions = len(clip)
	r.stats.PaintedNodes = 0

	start = time.Now()
	r.paint(clip)
	r.stats.LayoutTime = layoutTime
	r.stats.PaintTime = time.Since(start)

	if r.debug {
		r.debugLog(laidOut)
	}
	if err := r.canvas.Flush(); err != nil {
		Logger().Warn("canvas flush failed", "err", err)
		return true, fmt.Errorf("flush: %w", err)
	}
	return true, nil
}

// layout runs the layout pass if the tree changed since the last one.
func (r *Renderer) layout() bool {
	if !r.layoutInvalid {
		return false
	}
	r.stage.updateLayout(BoundXYWH(0, 0, float64(r.width), float64(r.height)), false)
	r.layoutInvalid = false
	r.stats.LayoutRuns++
	return true
}

func (r *Renderer) paint(clip ClipPath) {
	r.painting = true
	defer func() { r.painting = false }()

	r.canvas.Save()
	defer r.canvas.Restore()
	r.canvas.SetTransform(IdentityAffine)
	if clip != nil {
		r.canvas.ClipPath(clip)
	}
	r.stage.render(r.canvas, r.tracker, 255)

	if r.showBounds {
		r.canvas.SetTransform(IdentityAffine)
		r.canvas.SetAlpha(255)
		r.canvas.SetStrokeWidth(1)
		r.stage.drawBounds(r.canvas)
		r.canvas.SetStrokeWidth(0)
	}
}

// Resize changes the surface size. Equal sizes are ignored. Any other size
// recreates the canvas surface and repaints everything on the next frame.
func (r *Renderer) Resize(width, height int) error {
	if width == r.width && height == r.height {
		return nil
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize %dx%d: %w", width, height, ErrInvalidSize)
	}
	r.tracker.InvalidateAll()
	if err := r.canvas.Resize(width, height); err != nil {
		return fmt.Errorf("resize surface: %w", err)
	}
	r.width, r.height = width, height
	r.stage.setStageSize(float64(width), float64(height))
	r.layoutInvalid = true
	Logger().Info("surface resized", "width", width, "height", height)
	return nil
}

// HitTest returns every shown node whose visible bounds contain the device
// point (x, y), ordered from the stage toward the leaves. The last element
// is the topmost hit.
func (r *Renderer) HitTest(x, y float64) []*Node {
	r.layout()
	return r.stage.hitTest(x, y, nil)
}

// Font returns a cached font, loading it through the canvas on first use.
func (r *Renderer) Font(family string, size float64, weight FontWeight) (*Font, error) {
	return r.fonts.Get(family, size, weight)
}

// DefaultFont returns the font used for text nodes without one. It is nil
// when the canvas could not load it.
func (r *Renderer) DefaultFont() *Font { return r.defaultFont }

// LoadImage returns a cached image decoded from path.
func (r *Renderer) LoadImage(path string) (*Image, error) {
	return r.images.Load(path)
}

// Animate registers g to be advanced by Tick until it is done.
func (r *Renderer) Animate(g *TweenGroup) {
	if g == nil || g.Done {
		return
	}
	r.tweens = append(r.tweens, g)
}

// Tick advances every registered tween by dt seconds and drops the finished
// ones.
func (r *Renderer) Tick(dt float32) {
	live := r.tweens[:0]
	for _, g := range r.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(r.tweens[len(live):])
	r.tweens = live
}

// SetDebugMode enables or disables debug mode. When enabled, use of released
// nodes and release during a paint pass panic, tree depth and child count
// warnings are logged, and per-frame stats are logged at debug level.
func (r *Renderer) SetDebugMode(enabled bool) {
	r.debug = enabled
}

// SetShowBounds toggles an overlay outlining every node's global bounds.
// While it is on, every frame is a full repaint.
func (r *Renderer) SetShowBounds(show bool) {
	if r.showBounds == show {
		return
	}
	r.showBounds = show
	r.InvalidateAll()
}

// Stats returns a snapshot of the frame statistics.
func (r *Renderer) Stats() Stats {
	s := r.stats
	s.LiveNodes = r.liveNodes
	return s
}

// Close releases every node under the stage and drops the caches. The
// renderer paints nothing afterwards.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	for len(r.stage.children) > 0 {
		r.stage.children[len(r.stage.children)-1].Release()
	}
	r.tweens = nil
	r.fonts.Clear()
	r.images.Clear()
	r.defaultFont = nil
	r.closed = true
	Logger().Info("renderer closed")
}
