package world

import (
	"github.com/jakecoffman/cp"
)

// CellAt returns the cell of a grid with geometry `geom` under the world
// position `point`. ok is false if the point is outside the grid.
func CellAt(point cp.Vector, geom Geometry) (Cell, bool) {
	if geom.TileWidth <= 0 || geom.TileHeight <= 0 {
		return Cell{}, false
	}

	t := geom.Transform()
	inv := t.Inverse()
	local := inv.Point(point)
	c := geom.cellOf(local)
	if c.X < 0 || c.Y < 0 || c.X >= geom.Width || c.Y >= geom.Height {
		return Cell{}, false
	}
	return c, true
}

// OccupantAt returns the entity occupying `c` in `grid`.
func OccupantAt(grid *Grid, c Cell) (Entity, bool) {
	if grid == nil {
		return 0, false
	}
	return grid.Get(c)
}

// HitAt resolves a world position against a layer: the cell under the point
// and its occupant.
func HitAt(point cp.Vector, layer *LayerContainer) (Entity, Cell, bool) {
	c, ok := CellAt(point, layer.Geometry)
	if !ok {
		return 0, Cell{}, false
	}
	e, ok := OccupantAt(layer.Grid, c)
	return e, c, ok
}
