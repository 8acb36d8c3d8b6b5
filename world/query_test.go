package world

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func TestCellAt(t *testing.T) {
	geom := Geometry{Width: 4, Height: 2, TileWidth: 32, TileHeight: 32}

	cases := []struct {
		Name   string
		Point  cp.Vector
		Expect Cell
		OK     bool
	}{
		{"bottom left corner", cp.Vector{X: -64, Y: -32}, Cell{0, 0}, true},
		{"bottom left centre", cp.Vector{X: -48, Y: -16}, Cell{0, 0}, true},
		{"origin", cp.Vector{X: 0, Y: 0}, Cell{2, 1}, true},
		{"just below origin", cp.Vector{X: -0.1, Y: -0.1}, Cell{1, 0}, true},
		{"top right inside", cp.Vector{X: 63.9, Y: 31.9}, Cell{3, 1}, true},
		{"right edge", cp.Vector{X: 64, Y: 0}, Cell{}, false},
		{"top edge", cp.Vector{X: 0, Y: 32}, Cell{}, false},
		{"left of grid", cp.Vector{X: -64.1, Y: 0}, Cell{}, false},
		{"below grid", cp.Vector{X: 0, Y: -33}, Cell{}, false},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			c, ok := CellAt(tt.Point, geom)
			assert.Equal(t, tt.OK, ok)
			assert.Equal(t, tt.Expect, c)
		})
	}
}

func TestCellAtRoundTrip(t *testing.T) {
	geom := Geometry{Width: 25, Height: 30, TileWidth: 32, TileHeight: 32, Z: 3}

	for y := 0; y < geom.Height; y++ {
		for x := 0; x < geom.Width; x++ {
			c := Cell{X: x, Y: y}
			got, ok := CellAt(geom.CellCenter(c), geom)
			assert.True(t, ok)
			assert.Equal(t, c, got)
		}
	}
}

func TestGeometryBounds(t *testing.T) {
	geom := Geometry{Width: 25, Height: 25, TileWidth: 32, TileHeight: 32}

	bb := geom.Bounds()
	assert.Equal(t, -400.0, bb.L)
	assert.Equal(t, 400.0, bb.T)
	assert.True(t, bb.ContainsVect(geom.CellCenter(Cell{X: 24, Y: 24})))
	assert.Equal(t, cp.Vector{X: -384, Y: -384}, geom.CellCenter(Cell{}))
}

func TestOccupantAt(t *testing.T) {
	g := NewGrid(3, 3)
	assert.NoError(t, g.set(Cell{1, 2}, Entity(7)))

	e, ok := OccupantAt(g, Cell{1, 2})
	assert.True(t, ok)
	assert.Equal(t, Entity(7), e)

	_, ok = OccupantAt(g, Cell{2, 1})
	assert.False(t, ok)

	_, ok = OccupantAt(nil, Cell{})
	assert.False(t, ok)
}

func TestGrid(t *testing.T) {
	g := NewGrid(2, 2)

	assert.NoError(t, g.set(Cell{1, 1}, Entity(1)))
	assert.NoError(t, g.set(Cell{0, 1}, Entity(2)))
	assert.NoError(t, g.set(Cell{1, 0}, Entity(3)))
	assert.Error(t, g.set(Cell{1, 1}, Entity(4)))
	assert.Error(t, g.set(Cell{2, 0}, Entity(4)))

	assert.Equal(t, []Cell{{1, 0}, {0, 1}, {1, 1}}, g.Cells())

	assert.False(t, g.remove(Cell{1, 1}, Entity(9)))
	assert.True(t, g.remove(Cell{1, 1}, Entity(1)))
	assert.Equal(t, 2, g.Len())
}
