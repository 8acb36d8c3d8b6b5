package tileworld

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "assets.sqlite")

	a, err := NewArchive(fname)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, fname, a.Filename())

	require.NoError(t, a.Put("maps/world.tmx", []byte("one")))
	require.NoError(t, a.Put("./maps/world.tmx", []byte("two")))
	require.NoError(t, a.Put("tilesets/terrain.tsx", nil))

	rc, err := a.ReadFrom("maps/world.tmx")
	require.NoError(t, err)
	data, err := ioutil.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	rc, err = a.ReadFrom("tilesets/terrain.tsx")
	require.NoError(t, err)
	data, err = ioutil.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "", string(data))

	paths, err := a.Paths()
	require.NoError(t, err)
	assert.Equal(t, []string{"maps/world.tmx", "tilesets/terrain.tsx"}, paths)

	_, err = a.ReadFrom("missing.png")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	mod, err := a.Modified("maps/world.tmx")
	assert.NoError(t, err)
	assert.False(t, mod.IsZero())
}

func TestArchiveReopen(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "assets.sqlite")

	a, err := OpenArchive(fname)
	require.NoError(t, err)
	require.NoError(t, a.Put("a.txt", []byte("hi")))
	require.NoError(t, a.Close())

	a, err = OpenArchive(fname)
	require.NoError(t, err)
	paths, err := a.Paths()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, paths)
	require.NoError(t, a.Close())

	// NewArchive always starts empty
	a, err = NewArchive(fname)
	require.NoError(t, err)
	defer a.Close()
	paths, err = a.Paths()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestImportFromArchive(t *testing.T) {
	tsx := `<tileset name="terrain" tilewidth="32" tileheight="32" tilecount="4" columns="2">
 <image source="terrain.png" width="64" height="64"/>
</tileset>`
	f := newFixture()
	f.tilesets = []string{`<tileset firstgid="1" source="terrain.tsx"/>`}

	a, err := NewArchive(filepath.Join(t.TempDir(), "assets.sqlite"))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Put("world/map.tmx", f.Bytes()))
	require.NoError(t, a.Put("world/terrain.tsx", []byte(tsx)))

	wm, err := testImporter(a).Open("world/map.tmx")
	require.NoError(t, err)
	assert.Equal(t, "world/terrain.png", wm.Tilesets["terrain"].Image)
}
