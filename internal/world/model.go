// Package world provides the area map model: areas, rooms, exits, directions and lattice coordinates.
package world

import (
	"fmt"
	"sort"
)

// Direction is one of the six exit ordinals. The numeric value matches the
// D0..D5 exit markers of the area file format.
type Direction int

// Exit directions in processing order.
const (
	North Direction = iota
	East
	South
	West
	Up
	Down
)

// Directions lists every direction in ordinal order.
var Directions = [...]Direction{North, East, South, West, Up, Down}

var directionNames = [...]string{"north", "east", "south", "west", "up", "down"}

// Valid reports whether d is one of the six ordinals.
func (d Direction) Valid() bool {
	return d >= North && d <= Down
}

// String returns the lowercase direction name.
func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Opposite returns the reverse direction.
//
// Precondition: d must be valid.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Up:
		return Down
	case Down:
		return Up
	default:
		return d
	}
}

// Offset returns the unit lattice step for d: y for north/south, x for
// east/west, z for up/down.
func (d Direction) Offset() Coord {
	switch d {
	case North:
		return Coord{Y: 1}
	case South:
		return Coord{Y: -1}
	case East:
		return Coord{X: 1}
	case West:
		return Coord{X: -1}
	case Up:
		return Coord{Z: 1}
	case Down:
		return Coord{Z: -1}
	default:
		return Coord{}
	}
}

// Vertical reports whether d is up or down.
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}

// ParseDirection resolves a lowercase direction name.
//
// Postcondition: Returns (dir, true) for a known name, or (0, false) otherwise.
func ParseDirection(name string) (Direction, bool) {
	for i, n := range directionNames {
		if n == name {
			return Direction(i), true
		}
	}
	return 0, false
}

// Coord is a point on the 3-D integer lattice.
type Coord struct {
	X, Y, Z int
}

// Add returns c+o.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// Sub returns c-o.
func (c Coord) Sub(o Coord) Coord {
	return Coord{X: c.X - o.X, Y: c.Y - o.Y, Z: c.Z - o.Z}
}

// Scale returns c multiplied by k on every axis.
func (c Coord) Scale(k int) Coord {
	return Coord{X: c.X * k, Y: c.Y * k, Z: c.Z * k}
}

// Array returns the coordinate as [x, y, z].
func (c Coord) Array() [3]int {
	return [3]int{c.X, c.Y, c.Z}
}

// Exit is a directed passage from a room to a destination vnum. The
// destination may live in another area or may not exist at all.
type Exit struct {
	// Direction is the side of the source room the exit leaves from.
	Direction Direction
	// To is the destination room vnum.
	To int
	// LockFlags is the raw lock bit field from the area file.
	LockFlags int
	// Key is the vnum of the key object, or a non-positive value for none.
	Key int
	// IsDoor is true iff LockFlags > 0.
	IsDoor bool
	// OneWay is set by the one-way detector.
	OneWay bool
	// Warped is set by the room layout engine.
	Warped bool
}

// Room is a numbered node of the world.
type Room struct {
	// Vnum is the globally unique room number.
	Vnum int
	// AreaID identifies the owning area.
	AreaID string
	// Name is the display name with color escapes removed.
	Name string
	// Sector is the terrain code from the flag line.
	Sector int
	// RoomFlags is the raw room flag field.
	RoomFlags int
	// Exits holds at most one exit per direction.
	Exits map[Direction]*Exit
	// Coords is the lattice position, nil until laid out.
	Coords *Coord
	// DeadEnd is true iff the room has no exits.
	DeadEnd bool
}

// NewRoom returns an exitless room, which starts out as a dead end.
func NewRoom(vnum int, areaID string) *Room {
	return &Room{
		Vnum:    vnum,
		AreaID:  areaID,
		Exits:   make(map[Direction]*Exit),
		DeadEnd: true,
	}
}

// Exit returns the exit leaving in dir, if any.
//
// Postcondition: Returns (exit, true) if found, or (nil, false) otherwise.
func (r *Room) Exit(dir Direction) (*Exit, bool) {
	e, ok := r.Exits[dir]
	return e, ok
}

// OrderedExits returns the room's exits in direction ordinal order.
func (r *Room) OrderedExits() []*Exit {
	exits := make([]*Exit, 0, len(r.Exits))
	for _, d := range Directions {
		if e, ok := r.Exits[d]; ok {
			exits = append(exits, e)
		}
	}
	return exits
}

// SetExit records e, replacing any exit in the same direction, and keeps
// DeadEnd in step with the exit count.
func (r *Room) SetExit(e *Exit) {
	r.Exits[e.Direction] = e
	r.DeadEnd = false
}

// Area is a named collection of rooms loaded from one source file.
type Area struct {
	// ID is the source filename stem.
	ID string
	// Name is the display name from #AREADATA, or the ID when absent.
	Name string
	// Filename is the manifest entry the area was read from.
	Filename string
	// LowVnum and HighVnum bound the declared vnum range, inclusive.
	LowVnum  int
	HighVnum int
	// Rooms holds every room defined in the file, keyed by vnum.
	Rooms map[int]*Room
}

// NewArea returns an area with an empty room map.
func NewArea(id, filename string) *Area {
	return &Area{
		ID:       id,
		Name:     id,
		Filename: filename,
		Rooms:    make(map[int]*Room),
	}
}

// HasRange reports whether the area declared a usable vnum range.
// Files without #AREADATA leave the range at 0-0, which claims nothing.
func (a *Area) HasRange() bool {
	if a.LowVnum == 0 && a.HighVnum == 0 {
		return false
	}
	return a.HighVnum >= a.LowVnum
}

// InRange reports whether vnum falls inside the declared range.
func (a *Area) InRange(vnum int) bool {
	return a.HasRange() && vnum >= a.LowVnum && vnum <= a.HighVnum
}

// Vnums returns the area's room vnums in ascending order.
func (a *Area) Vnums() []int {
	vnums := make([]int, 0, len(a.Rooms))
	for v := range a.Rooms {
		vnums = append(vnums, v)
	}
	sort.Ints(vnums)
	return vnums
}

// IntraDegree counts the exits of r whose destination is a room of this area.
func (a *Area) IntraDegree(r *Room) int {
	n := 0
	for _, e := range r.Exits {
		if _, ok := a.Rooms[e.To]; ok {
			n++
		}
	}
	return n
}
