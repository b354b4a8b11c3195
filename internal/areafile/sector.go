package areafile

var sectorNames = map[int]string{
	0:  "inside",
	1:  "city",
	2:  "field",
	3:  "forest",
	4:  "hills",
	5:  "mountain",
	6:  "water_swim",
	7:  "water_noswim",
	9:  "air",
	10: "desert",
}

// SectorName returns the display name for a sector code, or "unknown".
func SectorName(sector int) string {
	if name, ok := sectorNames[sector]; ok {
		return name
	}
	return "unknown"
}
