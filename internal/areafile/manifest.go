package areafile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cory-johannsen/mud-mapgen/internal/world"
)

// ReadManifest returns the area filenames listed in the manifest at path, in
// file order. Blank lines and lines starting with '$' are ignored.
//
// Postcondition: Returns the entries or a non-nil error if the manifest
// cannot be read.
func ReadManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest %s: %w", path, err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "$") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return entries, nil
}

// MatchEntry finds the manifest entry selected by name, which may be either
// the full filename or its stem.
//
// Postcondition: Returns (entry, true) on a match, or ("", false).
func MatchEntry(entries []string, name string) (string, bool) {
	for _, e := range entries {
		if e == name || filepath.Base(e) == name || AreaID(e) == name {
			return e, true
		}
	}
	return "", false
}

// Source loads manifest entries from an area directory.
type Source struct {
	dir string
}

// NewSource constructs a Source rooted at the area directory dir.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Load parses each entry in order and adds it to a fresh World. Files that
// cannot be read, duplicate area IDs and duplicate room vnums are reported
// as warnings and skipped.
//
// Postcondition: Returns a non-nil World and a (possibly empty) slice of warnings.
func (s *Source) Load(entries []string) (*world.World, []string) {
	w := world.NewWorld()
	var warnings []string
	for _, entry := range entries {
		area, err := ParseFile(filepath.Join(s.dir, entry))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping area %q: %v", entry, err))
			continue
		}
		area.Filename = entry
		dupes, err := w.Add(area)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping area %q: %v", entry, err))
			continue
		}
		warnings = append(warnings, dupes...)
	}
	return w, warnings
}
