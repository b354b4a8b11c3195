package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// buildArea makes an area over [low, high] whose rooms are given as
// vnum -> direction -> destination.
func buildArea(id string, low, high int, rooms map[int]map[Direction]int) *Area {
	a := NewArea(id, id+".are")
	a.LowVnum, a.HighVnum = low, high
	for vnum, exits := range rooms {
		r := NewRoom(vnum, id)
		for d, to := range exits {
			r.SetExit(&Exit{Direction: d, To: to})
		}
		a.Rooms[vnum] = r
	}
	return a
}

func newTestWorld(t *testing.T, areas ...*Area) *World {
	t.Helper()
	w := NewWorld()
	for _, a := range areas {
		warnings, err := w.Add(a)
		require.NoError(t, err)
		require.Empty(t, warnings)
	}
	return w
}

func TestWorld_Add_DuplicateArea(t *testing.T) {
	w := NewWorld()
	_, err := w.Add(buildArea("a", 1, 10, map[int]map[Direction]int{1: nil}))
	require.NoError(t, err)
	_, err = w.Add(buildArea("a", 11, 20, map[int]map[Direction]int{11: nil}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate area ID")
}

func TestWorld_Add_DuplicateVnumDropped(t *testing.T) {
	w := NewWorld()
	_, err := w.Add(buildArea("a", 1, 10, map[int]map[Direction]int{1: nil, 2: nil}))
	require.NoError(t, err)

	b := buildArea("b", 1, 10, map[int]map[Direction]int{2: nil, 3: nil})
	warnings, err := w.Add(b)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "room 2")
	assert.NotContains(t, b.Rooms, 2)

	r, ok := w.Room(2)
	require.True(t, ok)
	assert.Equal(t, "a", r.AreaID)
	assert.Equal(t, 3, w.RoomCount())
}

func TestWorld_AreasKeepInsertionOrder(t *testing.T) {
	w := newTestWorld(t,
		buildArea("zeta", 1, 9, nil),
		buildArea("alpha", 10, 19, nil),
	)
	areas := w.Areas()
	require.Len(t, areas, 2)
	assert.Equal(t, "zeta", areas[0].ID)
	assert.Equal(t, "alpha", areas[1].ID)
	assert.Equal(t, []string{"alpha", "zeta"}, w.AreaIDs())
	assert.Equal(t, 2, w.AreaCount())
}

func TestWorld_AreaForVnum(t *testing.T) {
	w := newTestWorld(t,
		buildArea("a", 100, 199, nil),
		buildArea("b", 200, 299, nil),
	)
	a, ok := w.AreaForVnum(250)
	require.True(t, ok)
	assert.Equal(t, "b", a.ID)
	_, ok = w.AreaForVnum(5000)
	assert.False(t, ok)
}

func TestMarkOneWay_Reciprocal(t *testing.T) {
	w := newTestWorld(t, buildArea("a", 1, 10, map[int]map[Direction]int{
		1: {East: 2},
		2: {West: 1},
	}))
	assert.Equal(t, 0, w.MarkOneWay())
	r, _ := w.Room(1)
	assert.False(t, r.Exits[East].OneWay)
}

func TestMarkOneWay_MissingReverse(t *testing.T) {
	// Falling down a chute: no way back up.
	w := newTestWorld(t, buildArea("a", 1, 10, map[int]map[Direction]int{
		1: {Down: 2},
		2: nil,
	}))
	assert.Equal(t, 1, w.MarkOneWay())
	r, _ := w.Room(1)
	assert.True(t, r.Exits[Down].OneWay)
}

func TestMarkOneWay_MismatchedReverse(t *testing.T) {
	w := newTestWorld(t, buildArea("a", 1, 10, map[int]map[Direction]int{
		1: {North: 2},
		2: {South: 3},
		3: nil,
	}))
	w.MarkOneWay()
	r, _ := w.Room(1)
	assert.True(t, r.Exits[North].OneWay)
}

func TestMarkOneWay_UnknownDestination(t *testing.T) {
	w := newTestWorld(t, buildArea("a", 1, 10, map[int]map[Direction]int{
		1: {West: 9999},
	}))
	w.MarkOneWay()
	r, _ := w.Room(1)
	assert.True(t, r.Exits[West].OneWay)
	assert.Empty(t, w.CrossAreaLinks())
}

func TestMarkOneWay_Idempotent(t *testing.T) {
	w := newTestWorld(t, buildArea("a", 1, 10, map[int]map[Direction]int{
		1: {North: 2, East: 3},
		2: {South: 1},
		3: nil,
	}))
	first := w.MarkOneWay()
	second := w.MarkOneWay()
	assert.Equal(t, first, second)
}

func TestCrossAreaLinks_Reciprocal(t *testing.T) {
	w := newTestWorld(t,
		buildArea("alpha", 100, 199, map[int]map[Direction]int{100: {East: 200}}),
		buildArea("beta", 200, 299, map[int]map[Direction]int{200: {West: 100}}),
	)
	w.MarkOneWay()
	links := w.CrossAreaLinks()
	require.Len(t, links, 2)
	assert.Equal(t, Link{
		FromArea: "alpha", FromVnum: 100,
		ToArea: "beta", ToVnum: 200,
		Direction: East, OneWay: false,
	}, links[0])
	assert.Equal(t, "beta", links[1].FromArea)
	assert.Equal(t, West, links[1].Direction)
}

func TestCrossAreaLinks_InRangeIsNotCrossArea(t *testing.T) {
	// Room 150 is inside alpha's range even though no file defines it.
	w := newTestWorld(t,
		buildArea("alpha", 100, 199, map[int]map[Direction]int{100: {North: 150}}),
		buildArea("beta", 200, 299, nil),
	)
	w.MarkOneWay()
	assert.Empty(t, w.CrossAreaLinks())
}

func TestCrossAreaLinks_OneWayCarried(t *testing.T) {
	w := newTestWorld(t,
		buildArea("alpha", 100, 199, map[int]map[Direction]int{100: {Up: 200}}),
		buildArea("beta", 200, 299, map[int]map[Direction]int{200: nil}),
	)
	w.MarkOneWay()
	links := w.CrossAreaLinks()
	require.Len(t, links, 1)
	assert.True(t, links[0].OneWay)
}

// TestPropertyOneWayMatchesDefinition checks the detector against a direct
// restatement of the rule on random single-area worlds.
func TestPropertyOneWayMatchesDefinition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "rooms")
		rooms := make(map[int]map[Direction]int, n)
		for v := 1; v <= n; v++ {
			exits := make(map[Direction]int)
			for _, d := range Directions {
				if rapid.Bool().Draw(t, "has_exit") {
					exits[d] = rapid.IntRange(1, n+2).Draw(t, "to")
				}
			}
			rooms[v] = exits
		}
		w := NewWorld()
		if _, err := w.Add(buildArea("a", 1, n+2, rooms)); err != nil {
			t.Fatal(err)
		}
		w.MarkOneWay()
		for v, exits := range rooms {
			room, _ := w.Room(v)
			for d, to := range exits {
				want := true
				if back, ok := rooms[to]; ok && to <= n {
					if b, ok := back[d.Opposite()]; ok && b == v {
						want = false
					}
				}
				if room.Exits[d].OneWay != want {
					t.Fatalf("room %d %s -> %d: one_way=%v, want %v", v, d, to, room.Exits[d].OneWay, want)
				}
			}
		}
	})
}
