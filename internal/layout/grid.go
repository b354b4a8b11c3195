package layout

import "github.com/cory-johannsen/mud-mapgen/internal/world"

// grid tracks which room occupies each lattice cell of one area.
type grid struct {
	cells map[world.Coord]*world.Room
}

func newGrid() *grid {
	return &grid{cells: make(map[world.Coord]*world.Room)}
}

func (g *grid) free(c world.Coord) bool {
	_, taken := g.cells[c]
	return !taken
}

func (g *grid) at(c world.Coord) (*world.Room, bool) {
	r, ok := g.cells[c]
	return r, ok
}

// place puts an unplaced room at c.
func (g *grid) place(r *world.Room, c world.Coord) {
	pos := c
	r.Coords = &pos
	g.cells[c] = r
}

// move relocates a placed room to c, vacating its old cell.
func (g *grid) move(r *world.Room, c world.Coord) {
	if r.Coords != nil && g.cells[*r.Coords] == r {
		delete(g.cells, *r.Coords)
	}
	g.place(r, c)
}

// maxX returns the largest occupied x, or -1 for an empty grid.
func (g *grid) maxX() int {
	hi, first := -1, true
	for c := range g.cells {
		if first || c.X > hi {
			hi, first = c.X, false
		}
	}
	return hi
}
