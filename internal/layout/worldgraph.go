package layout

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/cory-johannsen/mud-mapgen/internal/world"
)

// Point is a cell of the 2-D world overview lattice.
type Point struct {
	X, Y int
}

type neighbor struct {
	area string
	dir  world.Direction
}

// LayoutWorld places every area of w on a 2-D lattice using the cross-area
// links as an undirected graph. The seed is opts.Hub when that area exists,
// otherwise the lowest area ID. Vertical links carry no planar offset and are
// not followed. Areas the walk never reaches are lined up along y = 0, two
// columns apart, right of the placed ones.
//
// Postcondition: Returns a position for every area; no two areas share one.
func LayoutWorld(w *world.World, links []world.Link, opts Options) map[string]Point {
	positions := make(map[string]Point, w.AreaCount())
	ids := w.AreaIDs()
	if len(ids) == 0 {
		return positions
	}

	adjacency := make(map[string][]neighbor)
	for _, l := range links {
		adjacency[l.FromArea] = append(adjacency[l.FromArea], neighbor{area: l.ToArea, dir: l.Direction})
		adjacency[l.ToArea] = append(adjacency[l.ToArea], neighbor{area: l.FromArea, dir: l.Direction.Opposite()})
	}

	seed := ids[0]
	if _, ok := w.Area(opts.Hub); ok {
		seed = opts.Hub
	}

	occupied := make(map[Point]string)
	placed := mapset.New[string]()
	put := func(id string, p Point) {
		positions[id] = p
		occupied[p] = id
		placed.Put(id)
	}
	free := func(p Point) bool {
		_, taken := occupied[p]
		return !taken
	}

	put(seed, Point{})
	queue := []string{seed}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range adjacency[cur] {
			if placed.Has(nb.area) || nb.dir.Vertical() {
				continue
			}
			step := nb.dir.Offset()
			ideal := Point{X: positions[cur].X + step.X, Y: positions[cur].Y + step.Y}
			pos, ok := ideal, free(ideal)
			if !ok {
				pos, ok = spiralSearch(ideal, opts.MaxSpiralRadius, free)
			}
			if !ok {
				continue
			}
			put(nb.area, pos)
			queue = append(queue, nb.area)
		}
	}

	next := positions[seed].X
	for _, p := range positions {
		if p.X > next {
			next = p.X
		}
	}
	next += 2
	for _, area := range w.Areas() {
		if placed.Has(area.ID) {
			continue
		}
		put(area.ID, Point{X: next})
		next += 2
	}
	return positions
}

// spiralSearch looks for the free cell nearest to center, one Chebyshev ring
// at a time out to maxRadius. Within a ring the smallest Euclidean distance wins;
// ties go to the lowest x, then the lowest y.
func spiralSearch(center Point, maxRadius int, free func(Point) bool) (Point, bool) {
	for r := 1; r <= maxRadius; r++ {
		var best Point
		bestDist, found := 0, false
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if abs(dx) != r && abs(dy) != r {
					continue
				}
				p := Point{X: center.X + dx, Y: center.Y + dy}
				if !free(p) {
					continue
				}
				if d := dx*dx + dy*dy; !found || d < bestDist {
					best, bestDist, found = p, d, true
				}
			}
		}
		if found {
			return best, true
		}
	}
	return Point{}, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
