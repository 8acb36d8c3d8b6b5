package place

import (
	"github.com/jakecoffman/cp"

	"github.com/voidshard/tileworld/item"
	"github.com/voidshard/tileworld/world"
)

// TargetKind says what a drag is hovering over.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetObject
	TargetTile
)

func (k TargetKind) String() string {
	switch k {
	case TargetObject:
		return "object"
	case TargetTile:
		return "tile"
	}
	return "none"
}

// Target is the hovered entity of a drag. At most one is tracked at a time,
// so a drag can never hold an object & a tile together.
type Target struct {
	Kind   TargetKind
	Entity world.Entity
	Layer  int
	Cell   world.Cell
}

// Session is an in progress item drag.
type Session struct {
	Item   item.Type
	Target Target

	// screen positions
	Current cp.Vector
	Origin  cp.Vector
}

// StepInput is what happened to the drag since the last step.
type StepInput struct {
	Move *cp.Vector
	Drop *cp.Vector

	// TweensDone lists tween ids the UI finished animating
	TweensDone []uint64
}
