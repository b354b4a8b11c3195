// Package main provides the map generator binary that lays out the area files
// and writes the JSON documents behind the web map.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mud-mapgen/internal/config"
	"github.com/cory-johannsen/mud-mapgen/internal/lifecycle"
	"github.com/cory-johannsen/mud-mapgen/internal/mapgen"
	"github.com/cory-johannsen/mud-mapgen/internal/observability"
	"github.com/cory-johannsen/mud-mapgen/internal/watch"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"area":      "area",
	"output":    "paths.output_dir",
	"area-dir":  "paths.area_dir",
	"manifest":  "paths.manifest",
	"watch":     "watch.enabled",
	"log-level": "logging.level",
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var configPath string

	cmd := &cobra.Command{
		Use:   "mapgen",
		Short: "Generate the area and world map JSON from area files",
		Long: `mapgen parses every area file listed in the manifest, lays rooms out on a
3-D grid and areas on a 2-D overview, and writes areas.json, world_graph.json
and conflicts.json to the output directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	flags.String("area", "", "write only this area (manifest filename or stem) to areas.json")
	flags.String("output", "", "output directory (default web/data)")
	flags.String("area-dir", "", "directory holding the area files (default area)")
	flags.String("manifest", "", "manifest filename, relative to the area directory (default area.lst)")
	flags.Bool("watch", false, "regenerate whenever an area file changes")
	flags.String("log-level", "", "minimum log level: debug, info, warn, error")
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
	return cmd
}

func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	if err := config.ReadFile(v, path); err != nil {
		return config.Config{}, err
	}
	return config.LoadFromViper(v)
}

// run generates once and, in watch mode, keeps regenerating until interrupted.
func run(ctx context.Context, cfg config.Config) error {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	gen := mapgen.New(cfg, logger)
	if _, err := gen.Run(ctx); err != nil {
		return err
	}
	if !cfg.Watch.Enabled {
		return nil
	}

	logger.Info("entering watch mode", zap.String("area_dir", cfg.Paths.AreaDir))
	lc := lifecycle.New(logger)
	lc.Add("watch", watch.New(cfg.Paths.AreaDir, gen.ManifestPath(), cfg.Watch.Debounce, logger,
		func(ctx context.Context) error {
			_, err := gen.Run(ctx)
			return err
		},
	))
	return lc.Run(ctx)
}
