// Package mapgen drives one map generation run: it loads the manifest areas,
// lays them out and writes the JSON documents consumed by the web map.
package mapgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mud-mapgen/internal/areafile"
	"github.com/cory-johannsen/mud-mapgen/internal/config"
	"github.com/cory-johannsen/mud-mapgen/internal/layout"
	"github.com/cory-johannsen/mud-mapgen/internal/world"
)

// Output filenames written to the output directory.
const (
	AreasFile      = "areas.json"
	WorldGraphFile = "world_graph.json"
	ConflictsFile  = "conflicts.json"
)

var (
	// ErrManifest is returned when the manifest cannot be read.
	ErrManifest = errors.New("reading manifest")
	// ErrUnknownArea is returned when the selected area is not in the manifest.
	ErrUnknownArea = errors.New("area not listed in manifest")
)

type document struct {
	name string
	v    any
}

// Result summarizes a completed run.
type Result struct {
	RunID     string
	Areas     int
	Rooms     int
	OneWay    int
	Links     int
	Warps     int
	Files     []string
	Elapsed   time.Duration
	Selection string
}

// Generator produces the map documents described by its configuration.
type Generator struct {
	cfg    config.Config
	logger *zap.Logger
	source *areafile.Source
}

// New constructs a Generator.
//
// Precondition: cfg must be valid; logger must be non-nil.
// Postcondition: returns a non-nil Generator.
func New(cfg config.Config, logger *zap.Logger) *Generator {
	return &Generator{
		cfg:    cfg,
		logger: logger,
		source: areafile.NewSource(cfg.Paths.AreaDir),
	}
}

// ManifestPath returns the manifest location; a relative manifest is
// resolved against the area directory.
func (g *Generator) ManifestPath() string {
	if filepath.IsAbs(g.cfg.Paths.Manifest) {
		return g.cfg.Paths.Manifest
	}
	return filepath.Join(g.cfg.Paths.AreaDir, g.cfg.Paths.Manifest)
}

// Run performs one generation. Every manifest area is parsed so one-way
// detection sees the whole world; when an area is selected only that area is
// written to areas.json and conflicts.json.
//
// Postcondition: On success the output files exist in the output directory.
// Returns an error wrapping ErrManifest or ErrUnknownArea on setup failure,
// or a wrapped I/O error when an output cannot be written.
func (g *Generator) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.NewString(), Selection: g.cfg.Area}
	logger := g.logger.With(zap.String("run_id", res.RunID))

	manifest := g.ManifestPath()
	entries, err := areafile.ReadManifest(manifest)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	selected := ""
	if g.cfg.Area != "" {
		entry, ok := areafile.MatchEntry(entries, g.cfg.Area)
		if !ok {
			return res, fmt.Errorf("%w: %q in %s", ErrUnknownArea, g.cfg.Area, manifest)
		}
		selected = areafile.AreaID(entry)
	}
	logger.Info("loading areas",
		zap.String("manifest", manifest),
		zap.Int("entries", len(entries)),
	)

	w, warnings := g.source.Load(entries)
	for _, msg := range warnings {
		logger.Warn(msg)
	}
	res.OneWay = w.MarkOneWay()

	opts := LayoutOptions(g.cfg.Layout)
	var (
		written []*world.Area
		reports []layout.Report
	)
	for _, area := range w.Areas() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		report := layout.LayoutArea(area, opts)
		logger.Info("laid out area",
			zap.String("area", report.AreaID),
			zap.Int("rooms", report.Rooms),
			zap.Int("extensions", report.Extensions),
			zap.Int("relocations", report.Relocations),
			zap.Int("spine_shifts", report.SpineShifts),
			zap.Int("disconnected", report.Disconnected),
			zap.Int("warps", len(report.Warps)),
		)
		if selected != "" && area.ID != selected {
			continue
		}
		written = append(written, area)
		reports = append(reports, report)
		res.Warps += len(report.Warps)
	}

	links := w.CrossAreaLinks()
	positions := layout.LayoutWorld(w, links, opts)
	res.Areas = w.AreaCount()
	res.Rooms = w.RoomCount()
	res.Links = len(links)

	docs := []document{
		{AreasFile, BuildAreas(written)},
		{WorldGraphFile, BuildWorldGraph(w, links, positions)},
	}
	if g.cfg.Output.Conflicts {
		docs = append(docs, document{ConflictsFile, BuildConflicts(reports)})
	}

	if err := os.MkdirAll(g.cfg.Paths.OutputDir, 0755); err != nil {
		return res, fmt.Errorf("creating output directory %s: %w", g.cfg.Paths.OutputDir, err)
	}
	for _, d := range docs {
		path := filepath.Join(g.cfg.Paths.OutputDir, d.name)
		if err := writeJSON(path, d.v, g.cfg.Output.Indent); err != nil {
			return res, err
		}
		res.Files = append(res.Files, path)
	}

	res.Elapsed = time.Since(start)
	logger.Info("map generated",
		zap.Int("areas", res.Areas),
		zap.Int("rooms", res.Rooms),
		zap.Int("one_way", res.OneWay),
		zap.Int("links", res.Links),
		zap.Int("warps", res.Warps),
		zap.Strings("files", res.Files),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// LayoutOptions converts the layout configuration.
func LayoutOptions(c config.LayoutConfig) layout.Options {
	return layout.Options{
		MaxExtension:    c.MaxExtension,
		MaxBlockerShift: c.MaxBlockerShift,
		MaxSpineShift:   c.MaxSpineShift,
		MaxSpiralRadius: c.MaxSpiralRadius,
		Hub:             c.Hub,
	}
}

// writeJSON encodes v indented and replaces path with it via a temporary
// file in the same directory.
func writeJSON(path string, v any, indent int) error {
	data, err := json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
