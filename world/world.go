package world

import (
	"fmt"
	"sort"

	"github.com/voidshard/tileworld"
)

// Highlight is the drop feedback state of a tile or object.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightValid
	HighlightInvalid
)

func (h Highlight) String() string {
	switch h {
	case HighlightValid:
		return "valid"
	case HighlightInvalid:
		return "invalid"
	}
	return "none"
}

// Sprite is what a renderer needs to draw an entity.
type Sprite struct {
	Tile    tileworld.TileRef
	Texture tileworld.Handle

	// Index selects the tile within Texture, or the handle within a
	// collection tileset
	Index uint32
}

// TileComponent is a materialized map tile.
type TileComponent struct {
	Layer  int
	Cell   Cell
	Sprite Sprite
}

// ObjectComponent is a materialized map object.
type ObjectComponent struct {
	Layer int
	Cell  Cell

	// ID & Name as set in the map editor
	ID   uint32
	Name string

	Visible bool
	Sprite  Sprite

	// Record is owned by the world, changes don't touch the imported map
	Record tileworld.ObjectRecord
}

// ObjectInfo is a read only view of an object for info panels & tools.
type ObjectInfo struct {
	Entity Entity
	Layer  int
	Cell   Cell
	ID     uint32
	Name   string
	Type   tileworld.ObjectType
	Record tileworld.ObjectRecord
}

// World owns every materialized entity: layer containers, tiles & objects.
type World struct {
	entities   entityStore
	layers     *LayerStore
	tiles      *Store[TileComponent]
	objects    *Store[ObjectComponent]
	highlights *Store[Highlight]
}

// New returns an empty world
func New() *World {
	return &World{
		layers:     newLayerStore(),
		tiles:      NewStore[TileComponent](),
		objects:    NewStore[ObjectComponent](),
		highlights: NewStore[Highlight](),
	}
}

// Layers returns the world's layer store
func (w *World) Layers() *LayerStore {
	return w.layers
}

// IsAlive returns if `e` exists in this world
func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// EntityCount returns the number of live entities (layers included)
func (w *World) EntityCount() int {
	return w.entities.live
}

// Tile returns the tile component of `e`
func (w *World) Tile(e Entity) (*TileComponent, bool) {
	return w.tiles.Get(e)
}

// Object returns the object component of `e`
func (w *World) Object(e Entity) (*ObjectComponent, bool) {
	return w.objects.Get(e)
}

// Highlight returns the highlight of `e` (HighlightNone if unset)
func (w *World) Highlight(e Entity) Highlight {
	h, ok := w.highlights.Get(e)
	if !ok {
		return HighlightNone
	}
	return *h
}

// SetHighlight sets the highlight of a tile or object.
func (w *World) SetHighlight(e Entity, h Highlight) error {
	if !w.tiles.Has(e) && !w.objects.Has(e) {
		return fmt.Errorf("entity %s is not a tile or object", e)
	}
	if h == HighlightNone {
		w.highlights.Remove(e)
		return nil
	}
	w.highlights.Set(e, h)
	return nil
}

// Highlighted returns every entity with a highlight set
func (w *World) Highlighted() []Entity {
	out := append([]Entity{}, w.highlights.Entities()...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ObjectAt returns the object on layer `index` at `c`.
func (w *World) ObjectAt(index int, c Cell) (ObjectInfo, bool) {
	l, ok := w.layers.Get(index)
	if !ok || l.Kind != ObjectLayerKind {
		return ObjectInfo{}, false
	}
	e, ok := l.Grid.Get(c)
	if !ok {
		return ObjectInfo{}, false
	}
	return w.objectInfo(e)
}

// Objects returns every object, ordered by layer then row then column.
func (w *World) Objects() []ObjectInfo {
	out := []ObjectInfo{}
	for _, l := range w.layers.All() {
		if l.Kind != ObjectLayerKind {
			continue
		}
		for _, c := range l.Grid.Cells() {
			e, _ := l.Grid.Get(c)
			if info, ok := w.objectInfo(e); ok {
				out = append(out, info)
			}
		}
	}
	return out
}

func (w *World) objectInfo(e Entity) (ObjectInfo, bool) {
	o, ok := w.objects.Get(e)
	if !ok {
		return ObjectInfo{}, false
	}
	info := ObjectInfo{
		Entity: e,
		Layer:  o.Layer,
		Cell:   o.Cell,
		ID:     o.ID,
		Name:   o.Name,
		Record: o.Record,
	}
	if o.Record != nil {
		info.Type = o.Record.Type()
	}
	return info, true
}

// Despawn removes a tile or object from its layer's grid & destroys it.
// Returns false if `e` isn't a live tile or object.
func (w *World) Despawn(e Entity) bool {
	var (
		layer int
		cell  Cell
	)
	if t, ok := w.tiles.Get(e); ok {
		layer, cell = t.Layer, t.Cell
	} else if o, ok := w.objects.Get(e); ok {
		layer, cell = o.Layer, o.Cell
	} else {
		return false
	}

	if l, ok := w.layers.Get(layer); ok {
		l.Grid.remove(cell, e)
	}
	w.tiles.Remove(e)
	w.objects.Remove(e)
	w.highlights.Remove(e)
	return w.entities.destroy(e)
}

// Clear destroys every entity & layer. Returns how many entities went.
func (w *World) Clear() int {
	n := w.entities.live
	for _, l := range w.layers.All() {
		for _, c := range l.Grid.Cells() {
			e, _ := l.Grid.Get(c)
			w.Despawn(e)
		}
		w.entities.destroy(l.Entity)
	}
	w.layers.clear()

	// anything not reachable through a grid (a half built layer)
	for _, e := range append([]Entity{}, w.tiles.Entities()...) {
		w.entities.destroy(e)
	}
	for _, e := range append([]Entity{}, w.objects.Entities()...) {
		w.entities.destroy(e)
	}
	w.tiles.Clear()
	w.objects.Clear()
	w.highlights.Clear()

	return n - w.entities.live
}

func (w *World) addLayer(index int, id uint32, name string, kind LayerKind, visible bool, geom Geometry) *LayerContainer {
	l := &LayerContainer{
		Entity:   w.entities.create(),
		Index:    index,
		ID:       id,
		Name:     name,
		Kind:     kind,
		Visible:  visible,
		Grid:     NewGrid(geom.Width, geom.Height),
		Geometry: geom,
	}
	w.layers.add(l)
	return l
}

func (w *World) spawnTile(l *LayerContainer, c Cell, sprite Sprite) (Entity, error) {
	e := w.entities.create()
	if err := l.Grid.set(c, e); err != nil {
		w.entities.destroy(e)
		return 0, err
	}
	w.tiles.Set(e, TileComponent{Layer: l.Index, Cell: c, Sprite: sprite})
	return e, nil
}

func (w *World) spawnObject(l *LayerContainer, c Cell, o ObjectComponent) (Entity, error) {
	e := w.entities.create()
	if err := l.Grid.set(c, e); err != nil {
		w.entities.destroy(e)
		return 0, err
	}
	o.Layer = l.Index
	o.Cell = c
	w.objects.Set(e, o)
	return e, nil
}
