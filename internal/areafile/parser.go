// Package areafile reads legacy MUD area files (#AREADATA / #ROOMDATA
// sections) and area manifests into the world model.
package areafile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zyedidia/generic/mapset"
	"golang.org/x/text/encoding/charmap"

	"github.com/cory-johannsen/mud-mapgen/internal/world"
)

// AreaID derives the stable area identifier from a manifest entry: the
// base filename without its extension.
func AreaID(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseFile reads and parses the area file at path.
//
// Precondition: path must name a readable file.
// Postcondition: Returns the parsed Area, or a non-nil error if the file
// cannot be opened or read. Malformed content never produces an error.
func ParseFile(path string) (*world.Area, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening area file %s: %w", path, err)
	}
	defer f.Close()

	area, err := Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("reading area file %s: %w", path, err)
	}
	return area, nil
}

// Parse decodes r as Latin-1 and extracts one area. filename is recorded on
// the area and its stem becomes the area ID.
//
// Postcondition: Returns a non-nil Area unless reading r fails.
func Parse(r io.Reader, filename string) (*world.Area, error) {
	data, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(r))
	if err != nil {
		return nil, err
	}
	return ParseString(string(data), filename), nil
}

// ParseString parses already-decoded area file text.
func ParseString(text, filename string) *world.Area {
	p := &parser{
		lines: newLineReader(text),
		area:  world.NewArea(AreaID(filename), filename),
	}
	p.run()
	return p.area
}

type parser struct {
	lines *lineReader
	area  *world.Area
}

func (p *parser) run() {
	for {
		line, ok := p.lines.next()
		if !ok {
			return
		}
		switch strings.TrimSpace(line) {
		case "#AREADATA":
			p.areaData()
		case "#ROOMDATA", "#ROOMS":
			p.rooms()
		}
	}
}

// areaData consumes the #AREADATA section up to its End line.
func (p *parser) areaData() {
	for {
		line, ok := p.lines.next()
		if !ok {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "End":
			return
		case "Name":
			name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "Name"))
			if strings.HasSuffix(name, "~") {
				name = strings.TrimSuffix(name, "~")
			} else {
				name = name + "\n" + p.lines.tilde()
			}
			if name = strings.TrimSpace(name); name != "" {
				p.area.Name = name
			}
		case "VNUMs":
			if len(fields) < 3 {
				continue
			}
			low, errLow := strconv.Atoi(fields[1])
			high, errHigh := strconv.Atoi(fields[2])
			if errLow == nil && errHigh == nil {
				p.area.LowVnum, p.area.HighVnum = low, high
			}
		}
	}
}

// rooms consumes room blocks until a section terminator. The terminator is
// left unread for the top-level dispatcher.
func (p *parser) rooms() {
	for {
		line, ok := p.lines.peek()
		if !ok || isSectionEnd(line) {
			return
		}
		p.lines.next()
		if vnum, ok := roomOpener(line); ok {
			p.room(vnum)
		}
	}
}

func (p *parser) room(vnum int) {
	room := world.NewRoom(vnum, p.area.ID)
	room.Name = StripColor(p.lines.tilde())
	p.lines.tilde() // description

	if line, ok := p.lines.next(); ok {
		room.RoomFlags, room.Sector = parseFlagLine(line)
	}

	for {
		line, ok := p.lines.peek()
		if !ok || isSectionEnd(line) {
			break
		}
		if _, opener := roomOpener(line); opener {
			break
		}
		p.lines.next()

		token := strings.TrimSpace(line)
		if token == "S" {
			break
		}
		switch {
		case token == "E":
			p.lines.tilde()
			p.lines.tilde()
		case token == "T":
			p.skipTrigger()
		default:
			if dir, ok := exitMarker(token); ok {
				p.exit(room, dir)
			}
		}
	}

	p.area.Rooms[vnum] = room
}

func (p *parser) exit(room *world.Room, dir world.Direction) {
	p.lines.tilde() // description
	p.lines.tilde() // keywords
	line, ok := p.lines.next()
	if !ok {
		return
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return
	}
	dest, err := strconv.Atoi(fields[2])
	if err != nil {
		return
	}
	lock, _ := strconv.Atoi(fields[0])
	key, _ := strconv.Atoi(fields[1])
	room.SetExit(&world.Exit{
		Direction: dir,
		To:        dest,
		LockFlags: lock,
		Key:       key,
		IsDoor:    lock > 0,
	})
}

// skipTrigger discards trigger lines up to the next room extra marker or room boundary.
func (p *parser) skipTrigger() {
	for {
		line, ok := p.lines.peek()
		if !ok || isSectionEnd(line) {
			return
		}
		if _, opener := roomOpener(line); opener {
			return
		}
		token := strings.TrimSpace(line)
		if token == "S" || token == "E" || token == "T" {
			return
		}
		if _, ok := exitMarker(token); ok {
			return
		}
		p.lines.next()
	}
}

// parseFlagLine reads "<area_num> <room_flags> <sector>". Lines with fewer
// than three fields leave both values at zero; a non-numeric field is zero.
func parseFlagLine(line string) (roomFlags, sector int) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0
	}
	roomFlags, _ = strconv.Atoi(fields[1])
	sector, _ = strconv.Atoi(fields[2])
	return roomFlags, sector
}

// sectionHeaders are the column-0 tokens that close a room section. Other
// "#<letter>" lines are color escapes inside text and never end a section.
var sectionHeaders = mapset.Of(
	"#0", "#$",
	"#AREA", "#AREADATA", "#ROOMDATA", "#ROOMS",
	"#RESETS", "#SPECIALS", "#MOBILES", "#MOBDATA", "#OBJECTS", "#OBJDATA",
	"#SHOPS", "#HELPS", "#MOBPROGS",
)

// isSectionEnd reports whether a column-0 line is a whole section header
// token such as #0, #RESETS or #SPECIALS.
func isSectionEnd(line string) bool {
	if len(line) < 2 || line[0] != '#' {
		return false
	}
	return sectionHeaders.Has(strings.TrimSpace(line))
}

// roomOpener parses a "#<vnum>" line.
func roomOpener(line string) (int, bool) {
	token := strings.TrimSpace(line)
	if len(token) < 2 || token[0] != '#' || token == "#0" {
		return 0, false
	}
	for _, c := range token[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	vnum, err := strconv.Atoi(token[1:])
	if err != nil {
		return 0, false
	}
	return vnum, true
}

// exitMarker parses "D0".."D5".
func exitMarker(token string) (world.Direction, bool) {
	if len(token) != 2 || token[0] != 'D' || token[1] < '0' || token[1] > '5' {
		return 0, false
	}
	return world.Direction(token[1] - '0'), true
}

// lineReader walks decoded text one line at a time with one line of lookahead.
type lineReader struct {
	lines []string
	pos   int
}

func newLineReader(text string) *lineReader {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &lineReader{lines: lines}
}

func (lr *lineReader) peek() (string, bool) {
	if lr.pos >= len(lr.lines) {
		return "", false
	}
	return lr.lines[lr.pos], true
}

func (lr *lineReader) next() (string, bool) {
	line, ok := lr.peek()
	if ok {
		lr.pos++
	}
	return line, ok
}

// tilde reads a tilde-terminated string: every line up to and including the
// one ending in '~', joined by newlines, with the '~' removed. Running out of
// input returns what was collected.
func (lr *lineReader) tilde() string {
	var parts []string
	for {
		line, ok := lr.next()
		if !ok {
			break
		}
		trimmed := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmed, "~") {
			parts = append(parts, strings.TrimSuffix(trimmed, "~"))
			break
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}
