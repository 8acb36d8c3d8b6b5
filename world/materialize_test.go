package world

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/tileworld"
)

func TestMaterialize(t *testing.T) {
	wm := testMap(4, 3)
	addDeposit(wm, 9, 1, 0, 100)

	w := New()
	err := NewMaterializer(nil, nil).Materialize(w, wm)
	require.NoError(t, err)

	// 2 layers + 12 tiles + 1 object
	assert.Equal(t, 15, w.EntityCount())
	require.Equal(t, 2, w.Layers().Len())

	ground, ok := w.Layers().Get(0)
	require.True(t, ok)
	assert.Equal(t, TileLayerKind, ground.Kind)
	assert.Equal(t, uint32(1), ground.ID)
	assert.Equal(t, 12, ground.Grid.Len())
	assert.Equal(t, 0.0, ground.Geometry.Z)

	objects, ok := w.Layers().Get(1)
	require.True(t, ok)
	assert.Equal(t, ObjectLayerKind, objects.Kind)
	assert.Equal(t, 1, objects.Grid.Len())
	assert.Equal(t, 1.0, objects.Geometry.Z)
}

func TestMaterializeFlipsRows(t *testing.T) {
	wm := testMap(4, 3)
	tl := wm.TileLayers()[0]
	require.NoError(t, tl.Set(0, 0, &tileworld.TileRef{Tileset: "terrain", TileID: 2}))
	addDeposit(wm, 9, 3, 0, 1)

	w := New()
	require.NoError(t, NewMaterializer(nil, nil).Materialize(w, wm))

	ground, _ := w.Layers().Get(0)

	// authoring (0,0) is the top left, world row H-1
	e, ok := ground.Grid.Get(Cell{X: 0, Y: 2})
	require.True(t, ok)
	tile, ok := w.Tile(e)
	require.True(t, ok)
	assert.Equal(t, uint32(2), tile.Sprite.Tile.TileID)
	assert.Equal(t, Cell{X: 0, Y: 2}, tile.Cell)
	assert.Equal(t, 0, tile.Layer)

	// authoring (0,2) is the bottom left, world row 0
	e, _ = ground.Grid.Get(Cell{X: 0, Y: 0})
	tile, _ = w.Tile(e)
	assert.Equal(t, uint32((2*4)%4), tile.Sprite.Tile.TileID)

	info, ok := w.ObjectAt(1, Cell{X: 3, Y: 2})
	require.True(t, ok)
	assert.Equal(t, uint32(9), info.ID)
}

func TestMaterializeOneEntityPerCell(t *testing.T) {
	wm := testMap(5, 5)

	w := New()
	require.NoError(t, NewMaterializer(nil, nil).Materialize(w, wm))

	ground, _ := w.Layers().Get(0)
	seen := map[Entity]bool{}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			e, ok := ground.Grid.Get(Cell{X: x, Y: y})
			require.True(t, ok)
			assert.False(t, seen[e])
			seen[e] = true

			tile, ok := w.Tile(e)
			require.True(t, ok)
			assert.Equal(t, Cell{X: x, Y: y}, tile.Cell)
		}
	}
}

func TestMaterializeIsIdempotent(t *testing.T) {
	wm := testMap(6, 6)
	addDeposit(wm, 1, 2, 2, 50)

	w := New()
	m := NewMaterializer(nil, nil)
	require.NoError(t, m.Materialize(w, wm))

	count := w.EntityCount()
	before := []Entity{}
	for _, l := range w.Layers().All() {
		before = append(before, l.Entity)
		for _, c := range l.Grid.Cells() {
			e, _ := l.Grid.Get(c)
			before = append(before, e)
		}
	}

	require.NoError(t, m.Materialize(w, wm))

	assert.Equal(t, count, w.EntityCount())
	assert.Equal(t, 2, w.Layers().Len())
	for _, e := range before {
		assert.False(t, w.IsAlive(e), "stale entity %s", e)
	}
	assert.Len(t, w.Objects(), 1)
}

func TestMaterializeClonesRecords(t *testing.T) {
	wm := testMap(3, 3)
	addDeposit(wm, 4, 0, 0, 10)

	w := New()
	require.NoError(t, NewMaterializer(nil, nil).Materialize(w, wm))

	info, ok := w.ObjectAt(1, Cell{X: 0, Y: 2})
	require.True(t, ok)
	info.Record.(*tileworld.ResourceDeposit).Take(4)

	original := wm.ObjectLayers()[0].Objects[0].Record.(*tileworld.ResourceDeposit)
	assert.Equal(t, uint32(10), original.Amount)
}

func TestMaterializeTextures(t *testing.T) {
	wm := testMap(2, 2)
	addDeposit(wm, 1, 0, 0, 1)
	loader := &fakeLoader{}

	w := New()
	require.NoError(t, NewMaterializer(nil, loader).Materialize(w, wm))

	assert.Equal(t, []string{"terrain.png"}, loader.loaded)

	info := w.Objects()[0]
	o, ok := w.Object(info.Entity)
	require.True(t, ok)
	assert.Equal(t, tileworld.Handle(1), o.Sprite.Texture)
	assert.Equal(t, uint32(3), o.Sprite.Index)
}

func TestMaterializeFailures(t *testing.T) {
	cases := []struct {
		Name   string
		Mutate func(wm *tileworld.WorldMap)
		Expect error
		Layer  uint32
		Object uint32
		Cell   *Cell
	}{
		{
			Name: "hole",
			Mutate: func(wm *tileworld.WorldMap) {
				wm.TileLayers()[0].Set(2, 1, nil)
			},
			Expect: ErrMissingTile,
			Layer:  1,
			Cell:   &Cell{X: 2, Y: 1},
		},
		{
			Name: "unknown tileset",
			Mutate: func(wm *tileworld.WorldMap) {
				wm.TileLayers()[0].Set(1, 1, &tileworld.TileRef{Tileset: "nope"})
			},
			Expect: ErrMissingTexture,
			Layer:  1,
			Cell:   &Cell{X: 1, Y: 1},
		},
		{
			Name: "object too big",
			Mutate: func(wm *tileworld.WorldMap) {
				addDeposit(wm, 5, 0, 0, 1).Width = 64
			},
			Expect: ErrFootprint,
			Layer:  2,
			Object: 5,
		},
		{
			Name: "object off grid",
			Mutate: func(wm *tileworld.WorldMap) {
				addDeposit(wm, 5, 0, 0, 1).X = 3
			},
			Expect: ErrFootprint,
			Layer:  2,
			Object: 5,
		},
		{
			Name: "object off map",
			Mutate: func(wm *tileworld.WorldMap) {
				addDeposit(wm, 5, 4, 0, 1)
			},
			Expect: ErrFootprint,
			Layer:  2,
			Object: 5,
		},
		{
			Name: "overlapping objects",
			Mutate: func(wm *tileworld.WorldMap) {
				addDeposit(wm, 5, 1, 1, 1)
				addDeposit(wm, 6, 1, 1, 1)
			},
			Expect: ErrFootprint,
			Layer:  2,
			Object: 6,
		},
		{
			Name: "object without record",
			Mutate: func(wm *tileworld.WorldMap) {
				addDeposit(wm, 5, 1, 1, 1).Record = nil
			},
			Expect: ErrShape,
			Layer:  2,
			Object: 5,
		},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			wm := testMap(4, 4)
			addDeposit(wm, 1, 3, 3, 1)
			tt.Mutate(wm)

			w := New()
			err := NewMaterializer(nil, &fakeLoader{}).Materialize(w, wm)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.Expect), err.Error())

			var me *MaterializeError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.Layer, me.Layer)
			assert.Equal(t, tt.Object, me.Object)
			assert.Equal(t, tt.Cell, me.Cell)

			// nothing from the failed pass survives
			assert.Equal(t, 0, w.EntityCount())
			assert.Equal(t, 0, w.Layers().Len())
			assert.Empty(t, w.Objects())
		})
	}
}

func TestMaterializeFailureTearsDownPreviousWorld(t *testing.T) {
	w := New()
	m := NewMaterializer(nil, nil)
	require.NoError(t, m.Materialize(w, testMap(3, 3)))
	require.NotZero(t, w.EntityCount())

	bad := testMap(3, 3)
	bad.TileLayers()[0].Set(0, 0, nil)

	assert.Error(t, m.Materialize(w, bad))
	assert.Equal(t, 0, w.EntityCount())
}

func TestMaterializeImportedMap(t *testing.T) {
	gids := ""
	for i := 0; i < 25*25; i++ {
		if i > 0 {
			gids += ","
		}
		gids += "1"
	}
	doc := `<map orientation="orthogonal" width="25" height="25" tilewidth="32" tileheight="32" infinite="0">
 <tileset firstgid="1" name="terrain" tilewidth="32" tileheight="32" tilecount="4" columns="2">
  <image source="terrain.png" width="64" height="64"/>
 </tileset>
 <layer id="1" name="ground" width="25" height="25"><data encoding="csv">` + gids + `</data></layer>
 <objectgroup id="2" name="things">
  <object id="1" class="Resources" gid="4" x="0" y="0" width="32" height="32">
   <properties>
    <property name="ResourceType" value="Iron"/>
    <property name="Amount" type="int" value="100"/>
   </properties>
  </object>
 </objectgroup>
</map>`

	wm, err := tileworld.NewImporter(nil, nil).Import("world.tmx", []byte(doc))
	require.NoError(t, err)

	w := New()
	require.NoError(t, NewMaterializer(nil, &fakeLoader{}).Materialize(w, wm))

	info, ok := w.ObjectAt(1, Cell{X: 0, Y: 24})
	require.True(t, ok)
	assert.Equal(t, tileworld.ObjectResources, info.Type)
	dep := info.Record.(*tileworld.ResourceDeposit)
	assert.Equal(t, tileworld.ResourceIron, dep.Resource)
	assert.Equal(t, uint32(100), dep.Amount)
}
