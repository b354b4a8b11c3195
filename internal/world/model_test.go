package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDirection_Opposite(t *testing.T) {
	cases := map[Direction]Direction{
		North: South, South: North,
		East: West, West: East,
		Up: Down, Down: Up,
	}
	for d, want := range cases {
		assert.Equal(t, want, d.Opposite(), "opposite of %s", d)
	}
}

func TestDirection_OffsetsCancel(t *testing.T) {
	for _, d := range Directions {
		sum := d.Offset().Add(d.Opposite().Offset())
		assert.Equal(t, Coord{}, sum, "offset of %s and its opposite", d)
	}
}

func TestDirection_Offsets(t *testing.T) {
	assert.Equal(t, Coord{Y: 1}, North.Offset())
	assert.Equal(t, Coord{X: 1}, East.Offset())
	assert.Equal(t, Coord{Y: -1}, South.Offset())
	assert.Equal(t, Coord{X: -1}, West.Offset())
	assert.Equal(t, Coord{Z: 1}, Up.Offset())
	assert.Equal(t, Coord{Z: -1}, Down.Offset())
}

func TestDirection_StringAndParse(t *testing.T) {
	for _, d := range Directions {
		got, ok := ParseDirection(d.String())
		require.True(t, ok, d.String())
		assert.Equal(t, d, got)
	}
	_, ok := ParseDirection("northeast")
	assert.False(t, ok)
	assert.Equal(t, "direction(9)", Direction(9).String())
	assert.False(t, Direction(-1).Valid())
}

func TestCoord_Arithmetic(t *testing.T) {
	c := Coord{X: 1, Y: -2, Z: 3}
	assert.Equal(t, Coord{X: 2, Y: -4, Z: 6}, c.Scale(2))
	assert.Equal(t, Coord{}, c.Sub(c))
	assert.Equal(t, [3]int{1, -2, 3}, c.Array())
}

func TestRoom_DeadEndTracksExits(t *testing.T) {
	r := NewRoom(1, "a")
	assert.True(t, r.DeadEnd)
	r.SetExit(&Exit{Direction: North, To: 2})
	assert.False(t, r.DeadEnd)
}

func TestRoom_OrderedExits(t *testing.T) {
	r := NewRoom(1, "a")
	r.SetExit(&Exit{Direction: Down, To: 5})
	r.SetExit(&Exit{Direction: North, To: 2})
	r.SetExit(&Exit{Direction: West, To: 4})
	exits := r.OrderedExits()
	require.Len(t, exits, 3)
	assert.Equal(t, []Direction{North, West, Down},
		[]Direction{exits[0].Direction, exits[1].Direction, exits[2].Direction})
}

func TestArea_Range(t *testing.T) {
	a := NewArea("a", "a.are")
	assert.False(t, a.HasRange())
	assert.False(t, a.InRange(0))

	a.LowVnum, a.HighVnum = 100, 199
	assert.True(t, a.InRange(100))
	assert.True(t, a.InRange(199))
	assert.False(t, a.InRange(200))
}

func TestArea_IntraDegree(t *testing.T) {
	a := NewArea("a", "a.are")
	r1 := NewRoom(1, "a")
	r2 := NewRoom(2, "a")
	r1.SetExit(&Exit{Direction: East, To: 2})
	r1.SetExit(&Exit{Direction: North, To: 900})
	a.Rooms[1], a.Rooms[2] = r1, r2
	assert.Equal(t, 1, a.IntraDegree(r1))
	assert.Equal(t, 0, a.IntraDegree(r2))
}

func TestPropertyVnumsAscending(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vnums := rapid.SliceOfDistinct(rapid.IntRange(0, 10000), rapid.ID[int]).Draw(t, "vnums")
		a := NewArea("a", "a.are")
		for _, v := range vnums {
			a.Rooms[v] = NewRoom(v, "a")
		}
		got := a.Vnums()
		if len(got) != len(vnums) {
			t.Fatalf("got %d vnums, want %d", len(got), len(vnums))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1] >= got[i] {
				t.Fatalf("vnums not ascending: %v", got)
			}
		}
	})
}
