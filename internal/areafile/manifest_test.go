package areafile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/mud-mapgen/internal/areafile"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestReadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "area.lst")
	writeFile(t, path, "midgaard.are\n\n  school.are  \n$ comment\nhaon.are\n$\n")
	entries, err := areafile.ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"midgaard.are", "school.are", "haon.are"}, entries)
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := areafile.ReadManifest(filepath.Join(t.TempDir(), "area.lst"))
	assert.Error(t, err)
}

func TestMatchEntry(t *testing.T) {
	entries := []string{"midgaard.are", "sub/school.are"}
	e, ok := areafile.MatchEntry(entries, "midgaard")
	assert.True(t, ok)
	assert.Equal(t, "midgaard.are", e)

	e, ok = areafile.MatchEntry(entries, "school.are")
	assert.True(t, ok)
	assert.Equal(t, "sub/school.are", e)

	_, ok = areafile.MatchEntry(entries, "haon")
	assert.False(t, ok)
}

func TestSource_Load_SkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.are"), "#AREADATA\nName A~\nVNUMs 1 9\nEnd\n#ROOMS\n#1\nOne~\n~\n0 0 0\nS\n#0\n")
	writeFile(t, filepath.Join(dir, "b.are"), "#AREADATA\nName B~\nVNUMs 10 19\nEnd\n#ROOMS\n#10\nTen~\n~\n0 0 0\nS\n#1\nDupe~\n~\n0 0 0\nS\n#0\n")

	w, warnings := areafile.NewSource(dir).Load([]string{"a.are", "missing.are", "b.are"})
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "missing.are")
	assert.Contains(t, warnings[1], "room 1")

	require.Equal(t, 2, w.AreaCount())
	assert.Equal(t, 2, w.RoomCount())
	areas := w.Areas()
	assert.Equal(t, "a", areas[0].ID)
	assert.Equal(t, "b", areas[1].ID)
	assert.Equal(t, "b.are", areas[1].Filename)
}
