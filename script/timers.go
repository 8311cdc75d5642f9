package script

import (
	"cmp"
	"slices"
	"time"

	"github.com/dop251/goja"
)

type timer struct {
	id       int
	callback goja.Callable
	args     []goja.Value
	due      time.Duration
	interval time.Duration // 0 for setTimeout
}

// timerQueue schedules callbacks against the host's frame clock rather than
// wall time, so a paused host never fires timers.
type timerQueue struct {
	timers map[int]*timer
	nextID int
}

func newTimerQueue() *timerQueue {
	return &timerQueue{timers: make(map[int]*timer), nextID: 1}
}

func (q *timerQueue) add(cb goja.Callable, now, delay, interval time.Duration, args []goja.Value) int {
	id := q.nextID
	q.nextID++
	q.timers[id] = &timer{id: id, callback: cb, args: args, due: now + delay, interval: interval}
	return id
}

func (q *timerQueue) clear(id int) {
	delete(q.timers, id)
}

// due returns the timers due at now, earliest first. Timers scheduled while
// the result is being run wait for the next call.
func (q *timerQueue) due(now time.Duration) []*timer {
	var out []*timer
	for _, t := range q.timers {
		if t.due <= now {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *timer) int {
		if c := cmp.Compare(a.due, b.due); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	return out
}

// fired reschedules an interval or drops a one-shot timer after it ran. An
// interval fires at most once per call to due.
func (q *timerQueue) fired(t *timer, now time.Duration) {
	if !q.live(t.id) {
		return
	}
	if t.interval > 0 {
		t.due += t.interval
		if t.due <= now {
			t.due = now + t.interval
		}
		return
	}
	delete(q.timers, t.id)
}

func (q *timerQueue) live(id int) bool {
	_, ok := q.timers[id]
	return ok
}

func (q *timerQueue) len() int { return len(q.timers) }
