// Package inventory holds the player's resource & item counts.
package inventory

import (
	"fmt"
	"math"

	"github.com/voidshard/tileworld"
	"github.com/voidshard/tileworld/event"
	"github.com/voidshard/tileworld/item"
)

// Snapshot is a copy of the inventory counts, sent with every
// event.InventoryChanged.
type Snapshot struct {
	Resources map[tileworld.ResourceType]uint32
	Items     map[item.Type]uint32
}

var _ item.Remover = (*Inventory)(nil)

// Inventory counts resources & items. Counts never go below zero (or wrap
// above the max); every change emits event.InventoryChanged.
type Inventory struct {
	resources map[tileworld.ResourceType]uint32
	items     map[item.Type]uint32
	events    *event.Queue
}

// New returns an empty inventory reporting changes to `q`.
func New(q *event.Queue) *Inventory {
	return &Inventory{
		resources: map[tileworld.ResourceType]uint32{},
		items:     map[item.Type]uint32{},
		events:    q,
	}
}

// FromConfig returns an inventory seeded with the configured counts.
// Seeding does not emit events.
func FromConfig(cfg tileworld.InventoryConfig, q *event.Queue) (*Inventory, error) {
	inv := New(q)
	for name, n := range cfg.Resources {
		rt, err := tileworld.ParseResourceType(name)
		if err != nil {
			return nil, fmt.Errorf("inventory: %w", err)
		}
		inv.resources[rt] = n
	}
	for name, n := range cfg.Items {
		t, err := item.ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("inventory: %w", err)
		}
		inv.items[t] = n
	}
	return inv, nil
}

// Resource returns the count of `rt`
func (i *Inventory) Resource(rt tileworld.ResourceType) uint32 {
	return i.resources[rt]
}

// Item returns the count of `t`
func (i *Inventory) Item(t item.Type) uint32 {
	return i.items[t]
}

// Snapshot returns a copy of all counts
func (i *Inventory) Snapshot() Snapshot {
	s := Snapshot{
		Resources: make(map[tileworld.ResourceType]uint32, len(i.resources)),
		Items:     make(map[item.Type]uint32, len(i.items)),
	}
	for k, v := range i.resources {
		s.Resources[k] = v
	}
	for k, v := range i.items {
		s.Items[k] = v
	}
	return s
}

// AddResource adds `n` of `rt`
func (i *Inventory) AddResource(rt tileworld.ResourceType, n uint32) {
	i.resources[rt] = saturatingAdd(i.resources[rt], n)
	i.changed()
}

// RemoveResource removes up to `n` of `rt` & returns how many were removed.
func (i *Inventory) RemoveResource(rt tileworld.ResourceType, n uint32) uint32 {
	have := i.resources[rt]
	if n > have {
		n = have
	}
	i.resources[rt] = have - n
	i.changed()
	return n
}

// AddItem adds one `t`
func (i *Inventory) AddItem(t item.Type) {
	i.items[t] = saturatingAdd(i.items[t], 1)
	i.changed()
}

// RemoveItem removes one `t`, if there are any.
func (i *Inventory) RemoveItem(t item.Type) {
	if i.items[t] > 0 {
		i.items[t]--
	}
	i.changed()
}

func (i *Inventory) changed() {
	i.events.Emit(event.InventoryChanged, i.Snapshot())
}

func saturatingAdd(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}
