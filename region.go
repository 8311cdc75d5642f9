package flint

import (
	"fmt"

	"github.com/tidwall/rtree"
)

// Default merge tuning.
const (
	DefaultMergeSlack = 150 * 150
	DefaultOutset     = 2
)

// RegionOptions tunes how pending damage is coalesced.
type RegionOptions struct {
	// MergeSlack is the extra area two rectangles may waste when they are
	// replaced by their bounding box.
	MergeSlack float64
	// Outset grows every merged rectangle on each side to cover
	// anti-aliased edges.
	Outset float64
}

// DefaultRegionOptions returns the default slack and outset.
func DefaultRegionOptions() RegionOptions {
	return RegionOptions{MergeSlack: DefaultMergeSlack, Outset: DefaultOutset}
}

type regionState uint8

const (
	regionClean regionState = iota
	regionDirty
	regionFull
)

func (s regionState) String() string {
	switch s {
	case regionDirty:
		return "dirty"
	case regionFull:
		return "full"
	default:
		return "clean"
	}
}

// RegionTracker accumulates device-space damage between frames and turns it
// into a small clip path.
//
// IsDirty answers against the output of the most recent Update, which is
// the region the current paint pass is scoped to.
type RegionTracker struct {
	opts  RegionOptions
	state regionState

	pending rtree.RTreeG[struct{}]

	last      rtree.RTreeG[struct{}]
	lastCount int
	lastFull  bool

	scratch []Bound
}

// NewRegionTracker creates a clean tracker. A zero MergeSlack falls back to
// DefaultMergeSlack; use DefaultRegionOptions for the default outset.
func NewRegionTracker(opts RegionOptions) *RegionTracker {
	if opts.MergeSlack <= 0 {
		opts.MergeSlack = DefaultMergeSlack
	}
	if opts.Outset < 0 {
		opts.Outset = 0
	}
	return &RegionTracker{opts: opts}
}

// Options returns the tracker's tuning.
func (t *RegionTracker) Options() RegionOptions { return t.opts }

// Add records a damaged rectangle. It is ignored while a full repaint is
// pending or when b has no area. A rectangle with negative extent is a
// programming error.
func (t *RegionTracker) Add(b Bound) {
	if b.Right < b.Left || b.Bottom < b.Top {
		panic(fmt.Sprintf("flint: negative redraw region %+v", b))
	}
	if t.state == regionFull || b.IsEmpty() {
		return
	}
	t.pending.Insert([2]float64{b.Left, b.Top}, [2]float64{b.Right, b.Bottom}, struct{}{})
	t.state = regionDirty
}

// InvalidateAll discards pending rectangles and schedules a full repaint.
func (t *RegionTracker) InvalidateAll() {
	t.pending = rtree.RTreeG[struct{}]{}
	t.state = regionFull
}

// Full reports whether a full repaint is pending.
func (t *RegionTracker) Full() bool { return t.state == regionFull }

// Pending returns the number of rectangles waiting for the next Update.
func (t *RegionTracker) Pending() int { return t.pending.Len() }

// IsDirty reports whether b must be repainted in the current frame: a full
// repaint is pending or was the last output, or b overlaps a rectangle of
// the last merged clip path. It keeps answering against that path after
// Update has returned the tracker to clean, since the paint pass runs then.
func (t *RegionTracker) IsDirty(b Bound) bool {
	if t.state == regionFull || t.lastFull {
		return true
	}
	if t.lastCount == 0 || b.IsEmpty() {
		return false
	}
	hit := false
	t.last.Search([2]float64{b.Left, b.Top}, [2]float64{b.Right, b.Bottom},
		func(mn, mx [2]float64, _ struct{}) bool {
			if b.Intersects(Bound{Left: mn[0], Top: mn[1], Right: mx[0], Bottom: mx[1]}) {
				hit = true
				return false
			}
			return true
		})
	return hit
}

// Update consumes pending damage. changed is false when nothing needs to be
// painted. A nil clip with changed true means the whole surface must be
// repainted.
func (t *RegionTracker) Update() (changed bool, clip ClipPath) {
	t.resetLast()
	switch t.state {
	case regionClean:
		return false, nil
	case regionFull:
		t.state = regionClean
		t.lastFull = true
		return true, nil
	}

	rects := t.scratch[:0]
	t.pending.Scan(func(mn, mx [2]float64, _ struct{}) bool {
		rects = append(rects, Bound{Left: mn[0], Top: mn[1], Right: mx[0], Bottom: mx[1]})
		return true
	})
	t.pending = rtree.RTreeG[struct{}]{}
	t.state = regionClean

	rects = mergeRegions(rects, t.opts.MergeSlack)
	clip = make(ClipPath, len(rects))
	for i, r := range rects {
		r = r.Outset(t.opts.Outset)
		clip[i] = r
		t.last.Insert([2]float64{r.Left, r.Top}, [2]float64{r.Right, r.Bottom}, struct{}{})
	}
	t.lastCount = len(clip)
	t.scratch = rects[:0]
	return true, clip
}

func (t *RegionTracker) resetLast() {
	if t.lastCount > 0 {
		t.last = rtree.RTreeG[struct{}]{}
	}
	t.lastCount = 0
	t.lastFull = false
}

// mergeRegions greedily replaces pairs of rectangles by their bounding box
// whenever the box wastes no more than slack extra area, restarting the scan
// after every merge. It works in place and returns the shortened slice.
func mergeRegions(rects []Bound, slack float64) []Bound {
	for _, r := range rects {
		if r.IsEmpty() {
			panic(fmt.Sprintf("flint: empty rectangle in region merge %+v", r))
		}
	}
scan:
	for len(rects) > 1 {
		for i := 0; i < len(rects); i++ {
			for j := i + 1; j < len(rects); j++ {
				a, b := rects[i], rects[j]
				m := a.Union(b)
				if m.Area() <= slack+a.Area()+b.Area() {
					rects[i] = m
					last := len(rects) - 1
					rects[j] = rects[last]
					rects = rects[:last]
					continue scan
				}
			}
		}
		break
	}
	return rects
}
