package world

import (
	"fmt"
	"sort"
)

// World holds every parsed area for one generator run, in manifest order,
// and indexes rooms across all areas for O(1) lookup by vnum.
type World struct {
	order []string
	areas map[string]*Area
	rooms map[int]*Room
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		areas: make(map[string]*Area),
		rooms: make(map[int]*Room),
	}
}

// Add appends area to the world.
//
// Precondition: area must be non-nil.
// Postcondition: Returns an error if the area ID is already present; otherwise
// the area is added and a (possibly empty) slice of warnings lists rooms whose
// vnum was already claimed by an earlier area. Those rooms are removed from
// area so vnums stay unique world-wide.
func (w *World) Add(area *Area) ([]string, error) {
	if _, exists := w.areas[area.ID]; exists {
		return nil, fmt.Errorf("duplicate area ID: %q", area.ID)
	}

	var warnings []string
	for _, vnum := range area.Vnums() {
		if existing, exists := w.rooms[vnum]; exists {
			warnings = append(warnings, fmt.Sprintf(
				"area %q: room %d already defined in area %q; dropping duplicate",
				area.ID, vnum, existing.AreaID,
			))
			delete(area.Rooms, vnum)
		}
	}
	for vnum, room := range area.Rooms {
		w.rooms[vnum] = room
	}

	w.order = append(w.order, area.ID)
	w.areas[area.ID] = area
	return warnings, nil
}

// Area returns the area with the given ID.
//
// Postcondition: Returns (area, true) if found, or (nil, false) otherwise.
func (w *World) Area(id string) (*Area, bool) {
	a, ok := w.areas[id]
	return a, ok
}

// Areas returns every area in insertion (manifest) order.
//
// Postcondition: Returns a non-nil slice; may be empty.
func (w *World) Areas() []*Area {
	areas := make([]*Area, 0, len(w.order))
	for _, id := range w.order {
		areas = append(areas, w.areas[id])
	}
	return areas
}

// AreaIDs returns the area IDs in lexical order.
func (w *World) AreaIDs() []string {
	ids := append([]string(nil), w.order...)
	sort.Strings(ids)
	return ids
}

// Room returns the room with the given vnum from any area.
//
// Postcondition: Returns (room, true) if found, or (nil, false) otherwise.
func (w *World) Room(vnum int) (*Room, bool) {
	r, ok := w.rooms[vnum]
	return r, ok
}

// AreaForVnum returns the first area, in manifest order, whose declared
// range contains vnum. Ownership by file is not consulted.
//
// Postcondition: Returns (area, true) if some declared range matches, or (nil, false).
func (w *World) AreaForVnum(vnum int) (*Area, bool) {
	for _, id := range w.order {
		if a := w.areas[id]; a.InRange(vnum) {
			return a, true
		}
	}
	return nil, false
}

// RoomCount returns the total number of rooms across all areas.
func (w *World) RoomCount() int {
	return len(w.rooms)
}

// AreaCount returns the number of areas.
func (w *World) AreaCount() int {
	return len(w.order)
}
