package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/scrylabs/scry/internal/cache"
	"github.com/scrylabs/scry/internal/output"
	"github.com/scrylabs/scry/internal/progress"
	"github.com/scrylabs/scry/internal/remote"
	"github.com/scrylabs/scry/internal/scanner"
	"github.com/scrylabs/scry/pkg/config"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig loads the config named by --config, or searches the standard
// locations. --no-cache overrides the cache section.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// newFormatter builds the output formatter from the global flags.
func newFormatter(c *cli.Context) (*output.Formatter, error) {
	return output.NewFormatter(
		output.ParseFormat(c.String("format")),
		c.String("output"),
		true,
	)
}

// newCache builds the result cache from config; nil when disabled.
func newCache(cfg *config.Config) *cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	cch, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
	if err != nil {
		return nil
	}
	return cch
}

// collectFiles resolves remote references, scans directories, and filters
// single files. The returned cleanup removes any temp checkouts.
func collectFiles(c *cli.Context, cfg *config.Config, paths []string) ([]string, func(), error) {
	var sources []*remote.Source
	cleanup := func() {
		for _, src := range sources {
			src.Cleanup()
		}
	}

	scan := scanner.NewScanner(cfg)
	var files []string

	for _, path := range paths {
		src, err := remote.Parse(path)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if src != nil {
			spinner := progress.NewSpinner("Cloning " + src.URL + "...")
			dir, err := src.Fetch()
			if err != nil {
				spinner.FinishError(err)
				cleanup()
				return nil, nil, err
			}
			spinner.FinishSuccess()
			sources = append(sources, src)
			path = dir
		}

		info, err := os.Stat(path)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("invalid path %s: %w", path, err)
		}

		if info.IsDir() {
			absPath, err := filepath.Abs(path)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("invalid path %s: %w", path, err)
			}
			found, err := scan.ScanDir(absPath)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
			}
			files = append(files, found...)
			continue
		}

		if ok, err := scan.ScanFile(path); err == nil && ok {
			files = append(files, path)
		}
	}

	return files, cleanup, nil
}
