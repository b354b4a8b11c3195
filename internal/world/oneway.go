package world

// MarkOneWay sets OneWay on every exit of every room in the world. An exit
// from A in direction D to V is one-way iff V is not a known room, or V has no
// exit in the reverse of D, or that reverse exit does not lead back to A.
// Cross-area exits follow the same rule.
//
// Postcondition: Every exit's OneWay flag is assigned; repeated calls are
// idempotent. Returns the number of one-way exits.
func (w *World) MarkOneWay() int {
	count := 0
	for _, area := range w.Areas() {
		for _, vnum := range area.Vnums() {
			room := area.Rooms[vnum]
			for _, exit := range room.OrderedExits() {
				exit.OneWay = !w.reciprocates(room, exit)
				if exit.OneWay {
					count++
				}
			}
		}
	}
	return count
}

func (w *World) reciprocates(from *Room, exit *Exit) bool {
	dest, ok := w.rooms[exit.To]
	if !ok {
		return false
	}
	back, ok := dest.Exit(exit.Direction.Opposite())
	if !ok {
		return false
	}
	return back.To == from.Vnum
}
