// Package item holds the placeable items, which targets they can be dropped
// on & what happens when they are.
package item

import (
	"fmt"

	"github.com/voidshard/tileworld"
	"github.com/voidshard/tileworld/event"
)

// Type is a kind of placeable item. The set is closed.
type Type int

const (
	Harvester Type = iota + 1
	Conveyor
	Crafter
)

var typeNames = map[Type]string{
	Harvester: "Harvester",
	Conveyor:  "Conveyor",
	Crafter:   "Crafter",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType returns the item type with the given name.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown item type %q", s)
}

// Types returns every item type in declaration order.
func Types() []Type {
	return []Type{Harvester, Conveyor, Crafter}
}

// Remover is the part of an inventory dropping an item needs.
type Remover interface {
	RemoveItem(t Type)
}

// Created is the payload of event.CreateItem.
type Created struct {
	Type Type
	Data Data
}

// CanDropOnObject returns if the item can be placed on an object of type `ot`.
func (t Type) CanDropOnObject(ot tileworld.ObjectType) bool {
	switch t {
	case Harvester:
		return ot == tileworld.ObjectResources
	}
	return false
}

// CanDropOnTile returns if the item can be placed on a tile with no object
// on it.
func (t Type) CanDropOnTile() bool {
	switch t {
	case Conveyor, Crafter:
		return true
	}
	return false
}

// DropOnObject places the item on the object holding `record`: it emits
// event.CreateItem with the item's data & removes one item from `inv`.
// The return value says if the item replaces the object.
//
// Panics if the item can't be dropped on the object; callers check
// CanDropOnObject first.
func (t Type) DropOnObject(record tileworld.ObjectRecord, inv Remover, q *event.Queue) bool {
	if record == nil || !t.CanDropOnObject(record.Type()) {
		panic(fmt.Sprintf("item: %s can not be dropped on %v", t, record))
	}

	var (
		data    Data
		replace bool
	)
	switch t {
	case Harvester:
		dep := record.(*tileworld.ResourceDeposit)
		data = &HarvesterData{Resource: dep.Resource, Remaining: dep.Amount, DepositID: dep.ID()}
		replace = true
	}

	q.Emit(event.CreateItem, Created{Type: t, Data: data})
	inv.RemoveItem(t)
	return replace
}

// DropOnTile places the item on an empty tile. Items sit on top of tiles so
// this never replaces the tile & always returns false.
//
// Panics if the item can't be dropped on tiles.
func (t Type) DropOnTile(inv Remover, q *event.Queue) bool {
	if !t.CanDropOnTile() {
		panic(fmt.Sprintf("item: %s can not be dropped on a tile", t))
	}

	var data Data
	switch t {
	case Conveyor:
		data = &ConveyorData{}
	case Crafter:
		data = &CrafterData{}
	}

	q.Emit(event.CreateItem, Created{Type: t, Data: data})
	inv.RemoveItem(t)
	return false
}
