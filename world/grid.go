package world

import (
	"fmt"
	"sort"
)

// Cell is a grid position in world orientation: row 0 is the bottom row.
type Cell struct {
	X int
	Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Grid maps cells of one layer to the entity occupying them.
// A cell is present iff a live entity occupies it. Only the World mutates
// a grid, so removal & despawn always happen together.
type Grid struct {
	width  int
	height int
	cells  map[Cell]Entity
}

// NewGrid returns an empty width x height grid
func NewGrid(width, height int) *Grid {
	return &Grid{width: width, height: height, cells: map[Cell]Entity{}}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds returns if `c` is inside the grid
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// Get returns the occupant of `c`
func (g *Grid) Get(c Cell) (Entity, bool) {
	e, ok := g.cells[c]
	return e, ok
}

// Len returns the number of occupied cells
func (g *Grid) Len() int {
	return len(g.cells)
}

// Cells returns every occupied cell ordered by row then column.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g.cells))
	for c := range g.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y == out[j].Y {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

func (g *Grid) set(c Cell, e Entity) error {
	if !g.InBounds(c) {
		return fmt.Errorf("cell %s is outside the %dx%d grid", c, g.width, g.height)
	}
	if prev, ok := g.cells[c]; ok {
		return fmt.Errorf("cell %s is already occupied by %s", c, prev)
	}
	g.cells[c] = e
	return nil
}

func (g *Grid) remove(c Cell, e Entity) bool {
	if prev, ok := g.cells[c]; !ok || prev != e {
		return false
	}
	delete(g.cells, c)
	return true
}
