package tileworld

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownTileset = errors.New("unknown tileset")
	ErrUnknownTexture = errors.New("tile has no texture")
)

// TextureMode decides how tileset images are handed to the renderer.
// A build supports exactly one mode.
type TextureMode string

const (
	// TextureSingle requires every tileset to be one shared image; tiles
	// are addressed by their id within it.
	TextureSingle TextureMode = "single"

	// TextureCollection also allows tilesets made of one image per tile;
	// tiles in those are addressed by their position in the tileset's list
	// of handles.
	TextureCollection TextureMode = "collection"
)

// Handle is an opaque reference to a texture owned by the asset pipeline.
type Handle uint64

// AssetLoader is the asset pipeline: it starts (or finds) the load of an
// image and returns a handle to it. Decoding happens elsewhere.
type AssetLoader interface {
	Load(path string) Handle
}

// TextureRef is what a renderer needs to draw tiles of one tileset.
type TextureRef struct {
	Tileset string

	// Handles holds exactly one handle for single image tilesets, otherwise
	// one per tile image in ascending tile id order.
	Handles []Handle

	// Collection is set for per-tile image tilesets.
	Collection bool
}

// Single returns the shared handle of a single image tileset.
func (t TextureRef) Single() (Handle, bool) {
	if t.Collection || len(t.Handles) != 1 {
		return 0, false
	}
	return t.Handles[0], true
}

type tileKey struct {
	tileset string
	tile    uint32
}

// TextureResolver maps tilesets (and their tiles) to textures.
type TextureResolver struct {
	textures map[string]TextureRef
	offsets  map[tileKey]uint32
}

// NewTextureResolver asks `loader` for every image the map references.
// The importer has already checked the map against `mode`, we check again in
// case the map was imported with a different config.
func NewTextureResolver(wm *WorldMap, loader AssetLoader, mode TextureMode) (*TextureResolver, error) {
	r := &TextureResolver{
		textures: map[string]TextureRef{},
		offsets:  map[tileKey]uint32{},
	}

	for _, name := range wm.TilesetNames() {
		ts := wm.Tilesets[name]
		if err := checkTextureMode(mode, ts.Image != "", len(ts.TileImages) > 0); err != nil {
			return nil, fmt.Errorf("tileset %q: %w", name, err)
		}

		if ts.Image != "" {
			r.textures[name] = TextureRef{
				Tileset: name,
				Handles: []Handle{loader.Load(ts.Image)},
			}
			continue
		}

		ids := make([]uint32, 0, len(ts.TileImages))
		for id := range ts.TileImages {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		ref := TextureRef{Tileset: name, Collection: true, Handles: make([]Handle, 0, len(ids))}
		for _, id := range ids {
			r.offsets[tileKey{tileset: name, tile: id}] = uint32(len(ref.Handles))
			ref.Handles = append(ref.Handles, loader.Load(ts.TileImages[id]))
		}
		r.textures[name] = ref
	}

	return r, nil
}

// checkTextureMode returns an error if a tileset with the given images
// can't be used in `mode`.
func checkTextureMode(mode TextureMode, hasImage, hasTileImages bool) error {
	switch {
	case hasImage && hasTileImages:
		return fmt.Errorf("%w: tileset has both an image and per tile images", ErrTextureMode)
	case !hasImage && !hasTileImages:
		return fmt.Errorf("%w: tileset has no images", ErrTextureMode)
	case hasTileImages && mode != TextureCollection:
		return fmt.Errorf("%w: image collections need texture mode %q", ErrTextureMode, TextureCollection)
	}
	return nil
}

// Resolve returns the texture of the named tileset.
func (r *TextureResolver) Resolve(tileset string) (TextureRef, error) {
	t, ok := r.textures[tileset]
	if !ok {
		return TextureRef{}, fmt.Errorf("%w %q", ErrUnknownTileset, tileset)
	}
	return t, nil
}

// TileIndex returns the index a renderer uses to pick `tile` out of the
// tileset's texture.
func (r *TextureResolver) TileIndex(tileset string, tile uint32) (uint32, error) {
	t, err := r.Resolve(tileset)
	if err != nil {
		return 0, err
	}
	if !t.Collection {
		return tile, nil
	}
	idx, ok := r.offsets[tileKey{tileset: tileset, tile: tile}]
	if !ok {
		return 0, fmt.Errorf("%w: tileset %q tile %d", ErrUnknownTexture, tileset, tile)
	}
	return idx, nil
}
