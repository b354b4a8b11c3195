// Package layout assigns lattice coordinates to rooms within an area and to
// areas within the world overview.
package layout

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/cory-johannsen/mud-mapgen/internal/world"
)

// Options bounds the searches performed by the layout passes.
type Options struct {
	// MaxExtension is the largest multiplier tried when stretching an edge
	// past an occupied cell.
	MaxExtension int
	// MaxBlockerShift is how many perpendicular steps a blocker may be pushed.
	MaxBlockerShift int
	// MaxSpineShift is how far an extended room may be pushed off x == 0.
	MaxSpineShift int
	// MaxSpiralRadius is the largest Chebyshev ring searched for a free
	// world-graph cell.
	MaxSpiralRadius int
	// Hub is the area ID that seeds the world-graph layout when present.
	Hub string
}

// DefaultOptions returns the stock search limits.
func DefaultOptions() Options {
	return Options{
		MaxExtension:    20,
		MaxBlockerShift: 10,
		MaxSpineShift:   10,
		MaxSpiralRadius: 19,
		Hub:             "midgaard",
	}
}

// Warp describes an intra-area exit whose endpoints do not sit where its
// direction says they should.
type Warp struct {
	From      int
	To        int
	Direction world.Direction
	Expected  world.Coord
	Actual    world.Coord
}

// Report summarizes one area layout.
type Report struct {
	AreaID       string
	Rooms        int
	Extensions   int
	Relocations  int
	SpineShifts  int
	Disconnected int
	Warps        []Warp
}

// extension records a room placed further than one step from its source
// because the ideal cell was taken.
type extension struct {
	dest  *world.Room
	src   *world.Room
	dir   world.Direction
	ideal world.Coord
}

type engine struct {
	area       *world.Area
	opts       Options
	grid       *grid
	extensions []extension
	resolved   mapset.Set[int]
	report     Report
}

// LayoutArea assigns coordinates to every room of area and recomputes the
// Warped flag of every intra-area exit. Exits leaving the area are ignored
// for placement. Any coordinates from a previous run are discarded.
//
// Postcondition: every room has unique coordinates; an intra-area exit has
// Warped == false iff its delta matches its direction's sign pattern.
func LayoutArea(area *world.Area, opts Options) Report {
	e := &engine{
		area:     area,
		opts:     opts,
		grid:     newGrid(),
		resolved: mapset.New[int](),
		report:   Report{AreaID: area.ID, Rooms: len(area.Rooms)},
	}
	for _, r := range area.Rooms {
		r.Coords = nil
	}
	if len(area.Rooms) == 0 {
		return e.report
	}

	e.placeBFS()
	e.relocateBlockers()
	e.resolveSpine()
	e.placeDisconnected()
	e.recomputeWarps()

	e.report.Extensions = len(e.extensions)
	return e.report
}

// placeBFS walks intra-area exits breadth-first from the lowest vnum,
// placing each newly reached room one step along the exit, or further along
// the same direction when that cell is taken.
func (e *engine) placeBFS() {
	seed := e.area.Rooms[e.area.Vnums()[0]]
	e.grid.place(seed, world.Coord{})

	queue := []*world.Room{seed}
	for len(queue) > 0 {
		src := queue[0]
		queue = queue[1:]

		for _, exit := range src.OrderedExits() {
			dest, ok := e.area.Rooms[exit.To]
			if !ok || dest.Coords != nil {
				continue
			}
			step := exit.Direction.Offset()
			ideal := src.Coords.Add(step)
			if e.grid.free(ideal) {
				e.grid.place(dest, ideal)
				queue = append(queue, dest)
				continue
			}
			for m := 2; m <= e.opts.MaxExtension; m++ {
				pos := src.Coords.Add(step.Scale(m))
				if !e.grid.free(pos) {
					continue
				}
				e.grid.place(dest, pos)
				e.extensions = append(e.extensions, extension{
					dest: dest, src: src, dir: exit.Direction, ideal: ideal,
				})
				queue = append(queue, dest)
				break
			}
		}
	}
}

// relocateBlockers gives an extended room its ideal cell when it has
// strictly fewer intra-area exits than the room occupying that cell, pushing
// the occupant sideways.
func (e *engine) relocateBlockers() {
	for _, ext := range e.extensions {
		if *ext.dest.Coords == ext.ideal {
			e.resolved.Put(ext.dest.Vnum)
			continue
		}
		blocker, occupied := e.grid.at(ext.ideal)
		if !occupied {
			// An earlier relocation vacated the cell.
			e.grid.move(ext.dest, ext.ideal)
			e.resolved.Put(ext.dest.Vnum)
			continue
		}
		if e.area.IntraDegree(ext.dest) >= e.area.IntraDegree(blocker) {
			continue
		}

		shift := world.Coord{Y: 1}
		if ext.dir == world.North || ext.dir == world.South {
			shift = world.Coord{X: 1}
		}
		for k := 1; k <= e.opts.MaxBlockerShift; k++ {
			pos := blocker.Coords.Add(shift.Scale(k))
			if !e.grid.free(pos) {
				continue
			}
			e.grid.move(blocker, pos)
			e.grid.move(ext.dest, ext.ideal)
			e.resolved.Put(ext.dest.Vnum)
			e.report.Relocations++
			break
		}
	}
}

// resolveSpine pushes east/west extended rooms that landed on the x == 0
// spine, away from a source that is off the spine, further along their
// direction. Extensions that relocateBlockers resolved keep their cell.
func (e *engine) resolveSpine() {
	for _, ext := range e.extensions {
		if e.resolved.Has(ext.dest.Vnum) {
			continue
		}
		if ext.dir != world.East && ext.dir != world.West {
			continue
		}
		if ext.dest.Coords.X != 0 || ext.src.Coords.X == 0 {
			continue
		}
		step := ext.dir.Offset()
		for m := 1; m <= e.opts.MaxSpineShift; m++ {
			pos := ext.dest.Coords.Add(step.Scale(m))
			if pos.X == 0 || !e.grid.free(pos) {
				continue
			}
			e.grid.move(ext.dest, pos)
			e.report.SpineShifts++
			break
		}
	}
}

// placeDisconnected lines up rooms the BFS never reached along y = z = 0,
// right of everything already placed, in ascending vnum order.
func (e *engine) placeDisconnected() {
	next := e.grid.maxX() + 1
	for _, vnum := range e.area.Vnums() {
		room := e.area.Rooms[vnum]
		if room.Coords != nil {
			continue
		}
		for !e.grid.free(world.Coord{X: next}) {
			next++
		}
		e.grid.place(room, world.Coord{X: next})
		next++
		e.report.Disconnected++
	}
}

// recomputeWarps clears every exit's Warped flag and sets it again from the
// final coordinates.
func (e *engine) recomputeWarps() {
	for _, vnum := range e.area.Vnums() {
		room := e.area.Rooms[vnum]
		for _, exit := range room.OrderedExits() {
			exit.Warped = false
			dest, ok := e.area.Rooms[exit.To]
			if !ok || room.Coords == nil || dest.Coords == nil {
				continue
			}
			delta := dest.Coords.Sub(*room.Coords)
			if !Warped(exit.Direction, delta) {
				continue
			}
			exit.Warped = true
			e.report.Warps = append(e.report.Warps, Warp{
				From:      room.Vnum,
				To:        dest.Vnum,
				Direction: exit.Direction,
				Expected:  exit.Direction.Offset(),
				Actual:    delta,
			})
		}
	}
}

// Warped reports whether delta disagrees with dir: on an axis the direction
// moves along, delta must share its sign (any magnitude); on every other
// axis delta must be zero.
func Warped(dir world.Direction, delta world.Coord) bool {
	unit := dir.Offset()
	return axisWarped(unit.X, delta.X) ||
		axisWarped(unit.Y, delta.Y) ||
		axisWarped(unit.Z, delta.Z)
}

func axisWarped(unit, delta int) bool {
	if unit == 0 {
		return delta != 0
	}
	return delta*unit <= 0
}
