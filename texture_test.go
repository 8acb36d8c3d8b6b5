package tileworld

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader hands out handles in load order
type fakeLoader struct {
	loaded []string
}

func (f *fakeLoader) Load(path string) Handle {
	f.loaded = append(f.loaded, path)
	return Handle(len(f.loaded))
}

func TestTextureResolverSingle(t *testing.T) {
	wm, err := testImporter(nil).Import("maps/world.tmx", newFixture().Bytes())
	require.NoError(t, err)

	loader := &fakeLoader{}
	r, err := NewTextureResolver(wm, loader, TextureSingle)
	require.NoError(t, err)

	assert.Equal(t, []string{"maps/terrain.png"}, loader.loaded)

	ref, err := r.Resolve("terrain")
	require.NoError(t, err)
	h, ok := ref.Single()
	assert.True(t, ok)
	assert.Equal(t, Handle(1), h)

	idx, err := r.TileIndex("terrain", 3)
	assert.NoError(t, err)
	assert.Equal(t, uint32(3), idx)

	_, err = r.Resolve("nope")
	assert.True(t, errors.Is(err, ErrUnknownTileset))
}

func TestTextureResolverCollection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TextureMode = TextureCollection

	f := newFixture()
	f.tilesets = []string{imageTileset(1, "terrain", ""), collectionTileset(5, "props")}

	wm, err := NewImporter(cfg, nil).Import("world.tmx", f.Bytes())
	require.NoError(t, err)

	loader := &fakeLoader{}
	r, err := NewTextureResolver(wm, loader, TextureCollection)
	require.NoError(t, err)

	// image tileset first (firstgid order) then the collection by tile id
	assert.Equal(t, []string{"terrain.png", "img/props-0.png", "img/props-5.png"}, loader.loaded)

	ref, err := r.Resolve("props")
	require.NoError(t, err)
	assert.True(t, ref.Collection)
	assert.Equal(t, []Handle{2, 3}, ref.Handles)
	_, ok := ref.Single()
	assert.False(t, ok)

	idx, err := r.TileIndex("props", 0)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), idx)

	idx, err = r.TileIndex("props", 5)
	assert.NoError(t, err)
	assert.Equal(t, uint32(1), idx)

	_, err = r.TileIndex("props", 3)
	assert.True(t, errors.Is(err, ErrUnknownTexture))

	// a single mode build can't use this map
	_, err = NewTextureResolver(wm, &fakeLoader{}, TextureSingle)
	assert.True(t, errors.Is(err, ErrTextureMode))
}
