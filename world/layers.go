package world

import (
	"sort"
)

// LayerKind is the kind of map layer a container was built from.
type LayerKind int

const (
	TileLayerKind LayerKind = iota + 1
	ObjectLayerKind
)

func (k LayerKind) String() string {
	switch k {
	case TileLayerKind:
		return "tiles"
	case ObjectLayerKind:
		return "objects"
	}
	return "unknown"
}

// LayerContainer is the entity standing for one materialized layer.
// It owns the layer's grid.
type LayerContainer struct {
	Entity Entity

	// Index is the layer's position in authoring order
	Index int

	// ID & Name as set in the map editor
	ID   uint32
	Name string

	Kind    LayerKind
	Visible bool

	Grid     *Grid
	Geometry Geometry
}

// LayerStore maps layer index to layer container for one world.
type LayerStore struct {
	layers map[int]*LayerContainer
}

func newLayerStore() *LayerStore {
	return &LayerStore{layers: map[int]*LayerContainer{}}
}

// Get returns the container for layer `index`
func (s *LayerStore) Get(index int) (*LayerContainer, bool) {
	l, ok := s.layers[index]
	return l, ok
}

// Len returns the number of layers
func (s *LayerStore) Len() int {
	return len(s.layers)
}

// All returns every layer, bottom first.
func (s *LayerStore) All() []*LayerContainer {
	out := make([]*LayerContainer, 0, len(s.layers))
	for _, l := range s.layers {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// TopDown returns the layers of `kind`, topmost first. This is hit test order.
func (s *LayerStore) TopDown(kind LayerKind) []*LayerContainer {
	all := s.All()
	out := make([]*LayerContainer, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Kind == kind {
			out = append(out, all[i])
		}
	}
	return out
}

func (s *LayerStore) add(l *LayerContainer) {
	s.layers[l.Index] = l
}

func (s *LayerStore) clear() {
	s.layers = map[int]*LayerContainer{}
}
