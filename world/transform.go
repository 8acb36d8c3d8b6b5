package world

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Geometry describes how a layer's grid is placed in world space.
// The grid is centred on the world origin with cell (0,0) at the bottom left,
// and Z orders layers (higher is drawn on top).
type Geometry struct {
	Width  int
	Height int

	TileWidth  float64
	TileHeight float64

	Z float64
}

// Transform maps grid local positions (cell (x,y) centred at
// (x*TileWidth, y*TileHeight)) to world positions.
func (g Geometry) Transform() cp.Transform {
	return cp.NewTransformTranslate(cp.Vector{
		X: -float64(g.Width)*g.TileWidth/2 + g.TileWidth/2,
		Y: -float64(g.Height)*g.TileHeight/2 + g.TileHeight/2,
	})
}

// CellCenter returns the world position of the centre of `c`.
func (g Geometry) CellCenter(c Cell) cp.Vector {
	t := g.Transform()
	return t.Point(cp.Vector{X: float64(c.X) * g.TileWidth, Y: float64(c.Y) * g.TileHeight})
}

// Bounds returns the world space rectangle covered by the grid.
func (g Geometry) Bounds() cp.BB {
	w := float64(g.Width) * g.TileWidth / 2
	h := float64(g.Height) * g.TileHeight / 2
	return cp.BB{L: -w, B: -h, R: w, T: h}
}

// cellOf floor divides a local position into a cell. Not bounds checked.
func (g Geometry) cellOf(local cp.Vector) Cell {
	return Cell{
		X: int(math.Floor((local.X + g.TileWidth/2) / g.TileWidth)),
		Y: int(math.Floor((local.Y + g.TileHeight/2) / g.TileHeight)),
	}
}
