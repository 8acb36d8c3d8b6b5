package world

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"strings"

	"github.com/voidshard/tileworld"
)

var (
	ErrMissingTile    = errors.New("tile layer has an empty cell")
	ErrMissingTexture = errors.New("no texture for tile")
	ErrFootprint      = errors.New("object does not cover exactly one free cell")
	ErrShape          = errors.New("object is not a valid tile object")
)

// MaterializeError is returned when a map can't be turned into entities.
// Cell is in authoring coordinates (row 0 at the top) so it can be found in
// the map editor. Zero valued fields were not relevant to the failure.
type MaterializeError struct {
	Map    string
	Layer  uint32
	Cell   *Cell
	Object uint32
	Err    error
}

func (e *MaterializeError) Error() string {
	parts := []string{fmt.Sprintf("materialize %s", e.Map)}
	if e.Layer != 0 {
		parts = append(parts, fmt.Sprintf("layer %d", e.Layer))
	}
	if e.Object != 0 {
		parts = append(parts, fmt.Sprintf("object %d", e.Object))
	}
	if e.Cell != nil {
		parts = append(parts, fmt.Sprintf("cell %s", e.Cell))
	}
	parts = append(parts, e.Err.Error())
	return strings.Join(parts, ": ")
}

func (e *MaterializeError) Unwrap() error {
	return e.Err
}

// Materializer builds the entities of a world from an imported map.
type Materializer struct {
	cfg    *tileworld.Config
	loader tileworld.AssetLoader
	log    *log.Logger
}

// NewMaterializer returns a materializer that requests textures from
// `loader`. A nil loader skips textures entirely (tools & tests).
func NewMaterializer(cfg *tileworld.Config, loader tileworld.AssetLoader) *Materializer {
	if cfg == nil {
		cfg = tileworld.DefaultConfig()
	}
	return &Materializer{
		cfg:    cfg,
		loader: loader,
		log:    log.New(ioutil.Discard, "", 0),
	}
}

// SetLogger sets where debug output goes
func (m *Materializer) SetLogger(l *log.Logger) {
	m.log = l
}

func (m *Materializer) debugf(format string, args ...interface{}) {
	if m.cfg.Debug {
		m.log.Printf(format, args...)
	}
}

// Materialize tears down everything in `w` then builds one layer container
// (with its grid) per map layer & one entity per tile / object.
// On error `w` is left empty.
func (m *Materializer) Materialize(w *World, wm *tileworld.WorldMap) error {
	removed := w.Clear()
	m.debugf("materialize %s: tore down %d entities", wm.Name, removed)

	err := m.build(w, wm)
	if err != nil {
		removed = w.Clear()
		m.debugf("materialize %s: failed, rolled back %d entities: %v", wm.Name, removed, err)
		return err
	}

	m.debugf("materialize %s: %d layers, %d entities", wm.Name, w.layers.Len(), w.EntityCount())
	return nil
}

func (m *Materializer) build(w *World, wm *tileworld.WorldMap) error {
	var textures *tileworld.TextureResolver
	if m.loader != nil {
		var err error
		textures, err = tileworld.NewTextureResolver(wm, m.loader, m.cfg.TextureMode)
		if err != nil {
			return &MaterializeError{Map: wm.Name, Err: fmt.Errorf("%w: %v", ErrMissingTexture, err)}
		}
	}

	for _, layer := range wm.Layers {
		geom := Geometry{
			Width:      wm.Width,
			Height:     wm.Height,
			TileWidth:  float64(wm.TileWidth),
			TileHeight: float64(wm.TileHeight),
			Z:          float64(layer.Index()),
		}

		var err error
		switch l := layer.(type) {
		case *tileworld.TileLayer:
			err = m.tileLayer(w, wm, textures, l, geom)
		case *tileworld.ObjectLayer:
			err = m.objectLayer(w, wm, textures, l, geom)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Materializer) tileLayer(w *World, wm *tileworld.WorldMap, textures *tileworld.TextureResolver, tl *tileworld.TileLayer, geom Geometry) error {
	fail := func(x, y int, err error) error {
		return &MaterializeError{Map: wm.Name, Layer: tl.ID, Cell: &Cell{X: x, Y: y}, Err: err}
	}

	if tl.Width != wm.Width || tl.Height != wm.Height || len(tl.Tiles) != tl.Width*tl.Height {
		return &MaterializeError{Map: wm.Name, Layer: tl.ID, Err: fmt.Errorf("%w: layer is %dx%d, map is %dx%d", ErrMissingTile, tl.Width, tl.Height, wm.Width, wm.Height)}
	}

	container := w.addLayer(tl.Index(), tl.ID, tl.Name, TileLayerKind, tl.Visible, geom)

	for y := 0; y < tl.Height; y++ {
		for x := 0; x < tl.Width; x++ {
			ref := tl.At(x, y)
			if ref == nil {
				return fail(x, y, ErrMissingTile)
			}

			sprite, err := spriteFor(textures, ref)
			if err != nil {
				return fail(x, y, err)
			}

			// the editor counts rows from the top, we count from the bottom
			if _, err := w.spawnTile(container, Cell{X: x, Y: tl.Height - 1 - y}, sprite); err != nil {
				return fail(x, y, err)
			}
		}
	}
	return nil
}

func (m *Materializer) objectLayer(w *World, wm *tileworld.WorldMap, textures *tileworld.TextureResolver, ol *tileworld.ObjectLayer, geom Geometry) error {
	container := w.addLayer(ol.Index(), ol.ID, ol.Name, ObjectLayerKind, ol.Visible, geom)

	for _, o := range ol.Objects {
		fail := func(err error) error {
			return &MaterializeError{Map: wm.Name, Layer: ol.ID, Object: o.ID, Err: err}
		}

		if o.Tile == nil || o.Record == nil {
			return fail(ErrShape)
		}
		if o.Width != float64(wm.TileWidth) || o.Height != float64(wm.TileHeight) {
			return fail(fmt.Errorf("%w: object is %vx%v", ErrFootprint, o.Width, o.Height))
		}

		x, y, ok := o.Cell(wm.TileWidth, wm.TileHeight)
		if !ok || x >= wm.Width || y >= wm.Height {
			return fail(fmt.Errorf("%w: position (%v,%v) is not a cell of the map", ErrFootprint, o.X, o.Y))
		}

		sprite, err := spriteFor(textures, o.Tile)
		if err != nil {
			return fail(err)
		}

		_, err = w.spawnObject(container, Cell{X: x, Y: wm.Height - 1 - y}, ObjectComponent{
			ID:      o.ID,
			Name:    o.Name,
			Visible: o.Visible,
			Sprite:  sprite,
			Record:  o.Record.Clone(),
		})
		if err != nil {
			return fail(fmt.Errorf("%w: %v", ErrFootprint, err))
		}
	}
	return nil
}

func spriteFor(textures *tileworld.TextureResolver, ref *tileworld.TileRef) (Sprite, error) {
	sprite := Sprite{Tile: *ref, Index: ref.TileID}
	if textures == nil {
		return sprite, nil
	}

	tex, err := textures.Resolve(ref.Tileset)
	if err != nil {
		return sprite, fmt.Errorf("%w: %v", ErrMissingTexture, err)
	}
	idx, err := textures.TileIndex(ref.Tileset, ref.TileID)
	if err != nil {
		return sprite, fmt.Errorf("%w: %v", ErrMissingTexture, err)
	}

	sprite.Index = idx
	if tex.Collection {
		sprite.Texture = tex.Handles[idx]
	} else {
		sprite.Texture = tex.Handles[0]
	}
	return sprite, nil
}
