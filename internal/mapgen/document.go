package mapgen

import (
	"bytes"
	"encoding/json"

	"github.com/cory-johannsen/mud-mapgen/internal/areafile"
	"github.com/cory-johannsen/mud-mapgen/internal/layout"
	"github.com/cory-johannsen/mud-mapgen/internal/world"
)

// ExitDoc is one exit in areas.json.
type ExitDoc struct {
	To     int  `json:"to"`
	Door   bool `json:"door"`
	OneWay bool `json:"one_way"`
	Warped bool `json:"warped"`
}

// RoomDoc is one room in areas.json.
type RoomDoc struct {
	Vnum       int                `json:"vnum"`
	Name       string             `json:"name"`
	Sector     int                `json:"sector"`
	SectorName string             `json:"sector_name"`
	Exits      map[string]ExitDoc `json:"exits"`
	DeadEnd    bool               `json:"dead_end"`
	Coords     [3]int             `json:"coords"`
}

// AreaDoc is one area in areas.json.
type AreaDoc struct {
	Name      string    `json:"name"`
	Filename  string    `json:"filename"`
	VnumRange [2]int    `json:"vnum_range"`
	RoomCount int       `json:"room_count"`
	Rooms     []RoomDoc `json:"rooms"`
}

// AreasDoc is the areas.json document: an object keyed by area ID whose keys
// keep manifest order.
type AreasDoc struct {
	ids   []string
	areas map[string]AreaDoc
}

// IDs returns the area IDs in document order.
func (d AreasDoc) IDs() []string {
	return d.ids
}

// Area returns the document for id.
func (d AreasDoc) Area(id string) (AreaDoc, bool) {
	a, ok := d.areas[id]
	return a, ok
}

// MarshalJSON writes the areas as one object in manifest order.
func (d AreasDoc) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range d.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.areas[id])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NodeDoc is one area node in world_graph.json.
type NodeDoc struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	RoomCount int    `json:"room_count"`
	VnumRange [2]int `json:"vnum_range"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

// EdgeDoc aggregates every cross-area exit between one pair of areas.
type EdgeDoc struct {
	From            string `json:"from"`
	To              string `json:"to"`
	ConnectionCount int    `json:"connection_count"`
	OneWayCount     int    `json:"one_way_count"`
	Direction       string `json:"direction"`
}

// WorldGraphDoc is the world_graph.json document.
type WorldGraphDoc struct {
	Nodes []NodeDoc `json:"nodes"`
	Edges []EdgeDoc `json:"edges"`
}

// ConflictDoc describes one warped intra-area exit in conflicts.json.
type ConflictDoc struct {
	Area      string `json:"area"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	Direction string `json:"direction"`
	Expected  [3]int `json:"expected"`
	Actual    [3]int `json:"actual"`
}

// BuildAreas renders the given areas in order.
//
// Precondition: every room has been laid out.
func BuildAreas(areas []*world.Area) AreasDoc {
	doc := AreasDoc{areas: make(map[string]AreaDoc, len(areas))}
	for _, a := range areas {
		doc.ids = append(doc.ids, a.ID)
		doc.areas[a.ID] = buildArea(a)
	}
	return doc
}

func buildArea(a *world.Area) AreaDoc {
	rooms := make([]RoomDoc, 0, len(a.Rooms))
	for _, vnum := range a.Vnums() {
		r := a.Rooms[vnum]
		exits := make(map[string]ExitDoc, len(r.Exits))
		for _, e := range r.OrderedExits() {
			exits[e.Direction.String()] = ExitDoc{
				To:     e.To,
				Door:   e.IsDoor,
				OneWay: e.OneWay,
				Warped: e.Warped,
			}
		}
		var coords [3]int
		if r.Coords != nil {
			coords = r.Coords.Array()
		}
		rooms = append(rooms, RoomDoc{
			Vnum:       r.Vnum,
			Name:       r.Name,
			Sector:     r.Sector,
			SectorName: areafile.SectorName(r.Sector),
			Exits:      exits,
			DeadEnd:    r.DeadEnd,
			Coords:     coords,
		})
	}
	return AreaDoc{
		Name:      a.Name,
		Filename:  a.Filename,
		VnumRange: [2]int{a.LowVnum, a.HighVnum},
		RoomCount: len(a.Rooms),
		Rooms:     rooms,
	}
}

// edgeKey identifies an unordered pair of areas.
type edgeKey struct {
	a, b string
}

func keyOf(x, y string) edgeKey {
	if x > y {
		x, y = y, x
	}
	return edgeKey{a: x, b: y}
}

type edgeTally struct {
	doc   EdgeDoc
	votes [len(world.Directions)]int
}

// BuildWorldGraph renders every area of w at its overview position and
// aggregates links per unordered pair of areas. An edge is oriented like
// the first link seen between its pair; links running the other way vote for
// the opposite of their direction. Direction ties go to the lowest ordinal.
func BuildWorldGraph(w *world.World, links []world.Link, positions map[string]layout.Point) WorldGraphDoc {
	doc := WorldGraphDoc{
		Nodes: make([]NodeDoc, 0, w.AreaCount()),
		Edges: []EdgeDoc{},
	}
	for _, a := range w.Areas() {
		p := positions[a.ID]
		doc.Nodes = append(doc.Nodes, NodeDoc{
			ID:        a.ID,
			Name:      a.Name,
			Filename:  a.Filename,
			RoomCount: len(a.Rooms),
			VnumRange: [2]int{a.LowVnum, a.HighVnum},
			X:         p.X,
			Y:         p.Y,
		})
	}

	var order []edgeKey
	tallies := make(map[edgeKey]*edgeTally)
	for _, l := range links {
		k := keyOf(l.FromArea, l.ToArea)
		t, ok := tallies[k]
		if !ok {
			t = &edgeTally{doc: EdgeDoc{From: l.FromArea, To: l.ToArea}}
			tallies[k] = t
			order = append(order, k)
		}
		t.doc.ConnectionCount++
		if l.OneWay {
			t.doc.OneWayCount++
		}
		dir := l.Direction
		if l.FromArea != t.doc.From {
			dir = dir.Opposite()
		}
		t.votes[dir]++
	}
	for _, k := range order {
		t := tallies[k]
		best := world.North
		for _, d := range world.Directions {
			if t.votes[d] > t.votes[best] {
				best = d
			}
		}
		t.doc.Direction = best.String()
		doc.Edges = append(doc.Edges, t.doc)
	}
	return doc
}

// BuildConflicts lists every warp in the given reports, in report order.
func BuildConflicts(reports []layout.Report) []ConflictDoc {
	conflicts := []ConflictDoc{}
	for _, r := range reports {
		for _, w := range r.Warps {
			conflicts = append(conflicts, ConflictDoc{
				Area:      r.AreaID,
				From:      w.From,
				To:        w.To,
				Direction: w.Direction.String(),
				Expected:  w.Expected.Array(),
				Actual:    w.Actual.Array(),
			})
		}
	}
	return conflicts
}
