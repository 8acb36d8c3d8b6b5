// Package place drives dragging items from the inventory onto the world:
// hover feedback, drop validation & the snap back of rejected drops.
package place

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/jakecoffman/cp"

	"github.com/voidshard/tileworld"
	"github.com/voidshard/tileworld/event"
	"github.com/voidshard/tileworld/item"
	"github.com/voidshard/tileworld/world"
)

var (
	// ErrStaleTarget is panicked with when a tracked target has been
	// despawned behind the engine's back.
	ErrStaleTarget = errors.New("place: tracked target no longer exists")

	ErrNoItem      = errors.New("place: no such item in the inventory")
	ErrNoSession   = errors.New("place: no drag in progress")
	ErrDragStarted = errors.New("place: a drag is already in progress")
)

// Camera converts pointer positions to world positions. ok is false when
// the pointer isn't over the world (eg. over a UI panel).
type Camera interface {
	ScreenToWorld(screen cp.Vector) (cp.Vector, bool)
}

// Inventory is what the engine needs from the player's inventory.
type Inventory interface {
	item.Remover
	Item(t item.Type) uint32
}

// Engine runs one drag at a time. It is the only thing that changes the
// world or the inventory during play.
type Engine struct {
	cfg    *tileworld.Config
	world  *world.World
	inv    Inventory
	camera Camera
	events *event.Queue
	log    *log.Logger

	session   *Session
	nextTween uint64
	tweens    map[uint64]bool
}

// New returns an engine acting on `w` & `inv`, reporting to `q`.
func New(cfg *tileworld.Config, w *world.World, inv Inventory, camera Camera, q *event.Queue) *Engine {
	if cfg == nil {
		cfg = tileworld.DefaultConfig()
	}
	return &Engine{
		cfg:    cfg,
		world:  w,
		inv:    inv,
		camera: camera,
		events: q,
		log:    log.New(ioutil.Discard, "", 0),
		tweens: map[uint64]bool{},
	}
}

// SetLogger sets where debug output goes
func (e *Engine) SetLogger(l *log.Logger) {
	e.log = l
}

func (e *Engine) debugf(format string, args ...interface{}) {
	if e.cfg.Debug {
		e.log.Printf(format, args...)
	}
}

// Session returns a copy of the current drag, if there is one.
func (e *Engine) Session() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// PendingTweens returns how many snap back tweens haven't completed.
func (e *Engine) PendingTweens() int {
	return len(e.tweens)
}

// DragStart begins dragging `it`, picked up at screen position `origin`
// with the pointer now at `screen`.
func (e *Engine) DragStart(it item.Type, screen, origin cp.Vector) error {
	if e.session != nil {
		return ErrDragStarted
	}
	if e.inv.Item(it) == 0 {
		return fmt.Errorf("%w: %s", ErrNoItem, it)
	}

	e.session = &Session{Item: it, Current: screen, Origin: origin}
	e.debugf("drag %s started at %v", it, origin)
	return nil
}

// DragMove updates hover feedback for the pointer at `screen`. Objects are
// hit tested before tiles, topmost layer first.
func (e *Engine) DragMove(screen cp.Vector) error {
	if e.session == nil {
		return ErrNoSession
	}
	e.session.Current = screen

	target, ok := e.hitTest(screen)
	if !ok {
		e.clearHighlight()
		return nil
	}

	var valid bool
	switch target.Kind {
	case TargetObject:
		valid = e.session.Item.CanDropOnObject(e.objectType(target))
	case TargetTile:
		valid = e.session.Item.CanDropOnTile()
	}

	e.setHighlight(target, highlightFor(valid))
	return nil
}

// DragEnd drops the item on whatever is tracked. A legal drop places the
// item; an illegal one tweens the drag visual back to where it came from.
// Dropping with nothing tracked just ends the drag.
func (e *Engine) DragEnd(screen cp.Vector) error {
	if e.session == nil {
		return ErrNoSession
	}
	s := e.session
	s.Current = screen
	target := s.Target

	e.clearHighlight()
	e.session = nil

	switch target.Kind {
	case TargetNone:
		e.debugf("drag %s dropped on nothing", s.Item)
		return nil
	case TargetObject:
		o, ok := e.world.Object(target.Entity)
		if !ok {
			panic(fmt.Errorf("%w: object %s", ErrStaleTarget, target.Entity))
		}
		if !s.Item.CanDropOnObject(o.Record.Type()) {
			e.tweenBack(s)
			return nil
		}
		replace := s.Item.DropOnObject(o.Record, e.inv, e.events)
		e.finishDrop(s, target, replace)
	case TargetTile:
		if !s.Item.CanDropOnTile() {
			e.tweenBack(s)
			return nil
		}
		replace := s.Item.DropOnTile(e.inv, e.events)
		e.finishDrop(s, target, replace)
	}
	return nil
}

// TweenCompleted is called by the UI when a snap back tween finishes.
// Unknown ids are ignored.
func (e *Engine) TweenCompleted(id uint64) bool {
	if !e.tweens[id] {
		return false
	}
	delete(e.tweens, id)
	e.events.Emit(event.HideDragVisual, event.HideDrag{ID: id})
	return true
}

// Step applies at most one move then at most one drop, then any finished
// tweens.
func (e *Engine) Step(in StepInput) error {
	if in.Move != nil {
		if err := e.DragMove(*in.Move); err != nil {
			return err
		}
	}
	if in.Drop != nil {
		if err := e.DragEnd(*in.Drop); err != nil {
			return err
		}
	}
	for _, id := range in.TweensDone {
		e.TweenCompleted(id)
	}
	return nil
}

// Reset drops the current drag without touching the world, for when the
// world has been rebuilt underneath it.
func (e *Engine) Reset() {
	e.session = nil
}

func (e *Engine) finishDrop(s *Session, target Target, replace bool) {
	if replace {
		if !e.world.Despawn(target.Entity) {
			panic(fmt.Errorf("%w: %s %s", ErrStaleTarget, target.Kind, target.Entity))
		}
		e.events.Emit(event.TargetReplaced, event.Replaced{
			Entity: uint64(target.Entity),
			Layer:  target.Layer,
			X:      target.Cell.X,
			Y:      target.Cell.Y,
		})
	}
	e.events.Emit(event.HideDragVisual, event.HideDrag{})
	e.debugf("drag %s dropped on %s %s at %s (replace %v)", s.Item, target.Kind, target.Entity, target.Cell, replace)
}

func (e *Engine) tweenBack(s *Session) {
	e.nextTween++
	id := e.nextTween
	e.tweens[id] = true

	e.events.Emit(event.TweenDragVisual, event.Tween{
		ID:       id,
		From:     s.Current,
		To:       s.Origin,
		Duration: e.cfg.Placement.TweenDuration(),
		Easing:   event.EaseQuadraticOut,
	})
	e.debugf("drag %s rejected, tween %d back to %v", s.Item, id, s.Origin)
}

// hitTest finds the entity under the pointer. Any object beats any tile.
func (e *Engine) hitTest(screen cp.Vector) (Target, bool) {
	pos, ok := e.camera.ScreenToWorld(screen)
	if !ok {
		return Target{}, false
	}

	layers := e.world.Layers()
	for _, l := range layers.TopDown(world.ObjectLayerKind) {
		if ent, c, ok := world.HitAt(pos, l); ok {
			return Target{Kind: TargetObject, Entity: ent, Layer: l.Index, Cell: c}, true
		}
	}
	for _, l := range layers.TopDown(world.TileLayerKind) {
		if ent, c, ok := world.HitAt(pos, l); ok {
			return Target{Kind: TargetTile, Entity: ent, Layer: l.Index, Cell: c}, true
		}
	}
	return Target{}, false
}

func (e *Engine) objectType(t Target) tileworld.ObjectType {
	o, ok := e.world.Object(t.Entity)
	if !ok || o.Record == nil {
		panic(fmt.Errorf("%w: object %s", ErrStaleTarget, t.Entity))
	}
	return o.Record.Type()
}

// mustExist panics if `t` is no longer in the world.
func (e *Engine) mustExist(t Target) {
	if !e.world.IsAlive(t.Entity) {
		panic(fmt.Errorf("%w: %s %s", ErrStaleTarget, t.Kind, t.Entity))
	}
}
