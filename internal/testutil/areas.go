// Package testutil provides test helpers for building area-file fixtures on disk.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/cory-johannsen/mud-mapgen/internal/world"
)

// Room describes one room of a generated area file.
type Room struct {
	Vnum   int
	Name   string
	Sector int
	Exits  map[world.Direction]int
	// Doors lists the directions whose exit gets a nonzero lock flag.
	Doors []world.Direction
}

// AreaFile renders an area file with an #AREADATA header and the given rooms
// in ascending vnum order.
//
// Postcondition: Returns text the area-file parser accepts.
func AreaFile(name string, low, high int, rooms ...Room) string {
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Vnum < rooms[j].Vnum })

	var b strings.Builder
	fmt.Fprintf(&b, "#AREADATA\nName %s~\nVNUMs %d %d\nEnd\n\n#ROOMDATA\n", name, low, high)
	for _, r := range rooms {
		fmt.Fprintf(&b, "#%d\n%s~\n~\n0 0 %d\n", r.Vnum, r.Name, r.Sector)
		for _, d := range world.Directions {
			to, ok := r.Exits[d]
			if !ok {
				continue
			}
			lock := 0
			for _, door := range r.Doors {
				if door == d {
					lock = 1
				}
			}
			fmt.Fprintf(&b, "D%d\n~\n~\n%d 0 %d\n", int(d), lock, to)
		}
		b.WriteString("S\n")
	}
	b.WriteString("#0\n\n#$\n")
	return b.String()
}

// WriteAreaDir creates a temporary area directory holding files and an
// area.lst manifest listing manifest in order.
//
// Postcondition: Returns the directory path, or fails the test.
func WriteAreaDir(t *testing.T, manifest []string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}
	list := strings.Join(manifest, "\n") + "\n$\n"
	if err := os.WriteFile(filepath.Join(dir, "area.lst"), []byte(list), 0644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return dir
}
