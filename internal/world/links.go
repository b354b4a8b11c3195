package world

// Link records one exit whose destination belongs to a different area's
// declared vnum range.
type Link struct {
	FromArea  string
	FromVnum  int
	ToArea    string
	ToVnum    int
	Direction Direction
	OneWay    bool
}

// CrossAreaLinks enumerates every exit whose destination lies outside the
// source area's declared range and inside some other area's range. Exits to
// vnums no area declares are left out; they stay recorded on the room.
//
// Precondition: MarkOneWay should have run so OneWay is meaningful.
// Postcondition: Returns links ordered by area (manifest order), source vnum
// ascending, then direction ordinal.
func (w *World) CrossAreaLinks() []Link {
	var links []Link
	for _, area := range w.Areas() {
		for _, vnum := range area.Vnums() {
			room := area.Rooms[vnum]
			for _, exit := range room.OrderedExits() {
				if area.InRange(exit.To) {
					continue
				}
				target, ok := w.AreaForVnum(exit.To)
				if !ok || target.ID == area.ID {
					continue
				}
				links = append(links, Link{
					FromArea:  area.ID,
					FromVnum:  room.Vnum,
					ToArea:    target.ID,
					ToVnum:    exit.To,
					Direction: exit.Direction,
					OneWay:    exit.OneWay,
				})
			}
		}
	}
	return links
}
