package event

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
)

// Type identifies what happened. Payloads for a type are documented on the
// constant; packages that own the payload type define it.
type Type string

const (
	// InventoryChanged carries an inventory.Snapshot
	InventoryChanged Type = "inventory_changed"

	// CreateItem carries an item.Created
	CreateItem Type = "create_item"

	// HideDragVisual carries a HideDrag
	HideDragVisual Type = "hide_drag_visual"

	// TweenDragVisual carries a Tween
	TweenDragVisual Type = "tween_drag_visual"

	// TargetReplaced carries a Replaced
	TargetReplaced Type = "target_replaced"

	// MapLoaded carries a Loaded
	MapLoaded Type = "map_loaded"

	// MapLoadFailed carries a LoadFailed
	MapLoadFailed Type = "map_load_failed"
)

// Event is a generic event payload.
type Event struct {
	Type Type
	Data any
}

// Queue is a simple FIFO queue.
type Queue struct {
	items []Event
}

// NewQueue returns an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push adds an event.
func (q *Queue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Emit is Push for a type & payload.
func (q *Queue) Emit(t Type, data any) {
	q.Push(Event{Type: t, Data: data})
}

// Len returns the number of queued events
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *Queue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Easing maps linear progress in [0,1] to eased progress.
type Easing string

const (
	EaseLinear       Easing = "linear"
	EaseQuadraticOut Easing = "quadratic_out"
)

// Apply returns the eased value of `t`, clamped to [0,1].
func (e Easing) Apply(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	switch e {
	case EaseQuadraticOut:
		return -t * (t - 2)
	}
	return t
}

// Tween asks the UI to animate the drag visual between two screen
// positions. When done the UI reports back with ID so the placement engine
// can finish up.
type Tween struct {
	ID       uint64
	From     cp.Vector
	To       cp.Vector
	Duration time.Duration
	Easing   Easing
}

// At returns the position of the tween `elapsed` after it started.
func (t Tween) At(elapsed time.Duration) cp.Vector {
	if t.Duration <= 0 {
		return t.To
	}
	p := t.Easing.Apply(float64(elapsed) / float64(t.Duration))
	return cp.Vector{X: t.From.X + (t.To.X-t.From.X)*p, Y: t.From.Y + (t.To.Y-t.From.Y)*p}
}

// HideDrag asks the UI to hide the drag visual. ID is the tween that
// finished, or zero if there was none.
type HideDrag struct {
	ID uint64
}

// Replaced reports that an item took the place of a world entity, which has
// been despawned. Entity is the despawned world.Entity.
type Replaced struct {
	Entity uint64
	Layer  int
	X, Y   int
}

// Loaded reports a map was imported & materialized.
type Loaded struct {
	Path     string
	Entities int
}

// LoadFailed reports a map could not be imported or materialized.
// The world is left empty.
type LoadFailed struct {
	Path string
	Err  error
}
