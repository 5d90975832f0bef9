// Package driver implements the six-step generator pass (§4.G),
// grounded on the teacher's Parser.Parse()/NewParser() orchestration
// (bootstrap a native resource once, drive a fixed pipeline, shut down
// cleanly) and on saferwall-pe/cmd/{main,dump,pedumper}.go's
// root-command-plus-Run-func CLI shape.
package driver

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/b0gdan0v-bagi/BagiEngine/cache"
	"github.com/b0gdan0v-bagi/BagiEngine/internal/log"
	"github.com/b0gdan0v-bagi/BagiEngine/internal/xerrors"
	"github.com/b0gdan0v-bagi/BagiEngine/parser"
	"github.com/b0gdan0v-bagi/BagiEngine/render"
	"github.com/b0gdan0v-bagi/BagiEngine/resolver"
)

// Config holds one run's configuration. Parser is a parser.Interface
// rather than a concrete *parser.Parser so driver tests never need a
// native libclang (§8).
type Config struct {
	SourceDirs []string
	// ScanDirs lists extra roots scanned only for factory derivation.
	// When empty, Run defaults it to SourceDirs (§9 item 1), matching
	// original_source/CI/meta_generator/meta_generator.py:148's
	// `scan_dirs = ... if args.scan_dirs else source_dirs`.
	ScanDirs    []string
	IncludeDirs []string
	OutputDir   string
	CacheDir    string
	Force       bool

	Parser parser.Interface
	Log    *log.Logger
}

// Result reports the counts §4.G's exit-code rule and summary line
// depend on.
type Result struct {
	Processed int
	Generated int
	Errored   int
	Pruned    int
}

// Run executes the pass described in §4.G: scan, parse outdated
// files (source trees, then scan-only trees), resolve factory
// families, render per-source and per-family headers, prune, save.
func Run(ctx context.Context, cfg Config) (Result, error) {
	var result Result

	scanDirs := cfg.ScanDirs
	if len(scanDirs) == 0 {
		scanDirs = cfg.SourceDirs
	}

	c := cache.New(cfg.CacheDir, cfg.Log)
	c.Load()

	tried := make(map[string]bool)
	ingested, err := parseOutdated(ctx, c, cfg, cfg.SourceDirs, tried, &result)
	if err != nil {
		return result, err
	}

	scanIngested, err := parseNewlyFound(ctx, c, cfg, scanDirs, tried, &result)
	if err != nil {
		return result, err
	}
	ingested = append(ingested, scanIngested...)

	families := resolver.Resolve(c, cfg.IncludeDirs)
	if collisions := resolver.HasNamespaceCollision(families); cfg.Log != nil {
		for _, collision := range collisions {
			cfg.Log.Warn("factory base name collision across namespaces: " + collision)
		}
	}

	r := render.New()

	for _, path := range ingested {
		classes := c.ClassesIn(path)
		enums := c.EnumsIn(path)
		if len(classes) == 0 && len(enums) == 0 {
			continue
		}
		out, err := r.RenderSource(cfg.OutputDir, path, classes, enums)
		if err != nil {
			result.Errored++
			if cfg.Log != nil {
				cfg.Log.Warn(err.Error())
			}
			continue
		}
		if out != "" {
			result.Generated++
		}
	}

	for _, family := range families {
		if _, err := r.RenderFactory(cfg.OutputDir, family); err != nil {
			result.Errored++
			if cfg.Log != nil {
				cfg.Log.Warn(err.Error())
			}
			continue
		}
		result.Generated++
	}

	present, err := cache.EnumerateAll(append(append([]string{}, cfg.SourceDirs...), scanDirs...), nil)
	if err != nil {
		return result, errors.Wrap(err, "enumerate present files")
	}
	result.Pruned = c.Prune(present)

	if err := c.Save(); err != nil {
		return result, errors.Wrap(&xerrors.IOError{Path: cfg.CacheDir, Err: err}, "save cache")
	}

	if cfg.Log != nil {
		s := c.Stats()
		cfg.Log.Verbose(fmt.Sprintf(
			"cache: %d files, %d classes, %d enums, %d fields, %d methods, %d factory bases",
			s.Files, s.Classes, s.Enums, s.Fields, s.Methods, s.FactoryBases,
		))
	}

	return result, nil
}

// parseOutdated parses and ingests every outdated file under roots,
// honoring ctx cancellation between files (§5: SIGINT stops the
// driver before the next ParseFile call rather than mid-write) and
// recoverable *xerrors.ParseError/*xerrors.IOError per §7 (the file is
// skipped, its previous cache entry retained, the run continues).
// Every path it attempts is recorded in tried.
func parseOutdated(ctx context.Context, c *cache.Cache, cfg Config, roots []string, tried map[string]bool, result *Result) ([]string, error) {
	var outdated []string
	var err error
	if cfg.Force {
		outdated, err = cache.EnumerateAll(roots, nil)
	} else {
		outdated, err = c.EnumerateOutdated(roots, nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, "enumerate outdated files")
	}

	ingested := make([]string, 0, len(outdated))
	for _, path := range outdated {
		if err := ctx.Err(); err != nil {
			return ingested, errors.Wrap(err, "run canceled")
		}

		tried[path] = true
		classes, enums, err := cfg.Parser.ParseFile(path, cfg.IncludeDirs)
		if err != nil {
			result.Errored++
			if cfg.Log != nil {
				cfg.Log.Warn(err.Error())
			}
			continue
		}

		if err := c.Ingest(path, classes, enums); err != nil {
			result.Errored++
			if cfg.Log != nil {
				cfg.Log.Warn(err.Error())
			}
			continue
		}

		result.Processed++
		ingested = append(ingested, path)
		if cfg.Log != nil {
			cfg.Log.Verbose("parsed " + path)
		}
	}

	sort.Strings(ingested)
	return ingested, nil
}

// parseNewlyFound parses and ingests every file under roots that has no
// cache entry yet, independent of Force: scan-dirs exist only to widen
// factory derivation with files the source-dirs pass never covers, so a
// file already seen (even a stale one under --force) is left alone here
// (§9 item 1, original_source/CI/meta_generator/meta_generator.py:249's
// `if str(file_path.resolve()) not in cache.files`), and so is a file
// the source-dirs pass already tried this run (in tried), even if that
// attempt failed.
func parseNewlyFound(ctx context.Context, c *cache.Cache, cfg Config, roots []string, tried map[string]bool, result *Result) ([]string, error) {
	all, err := cache.EnumerateAll(roots, nil)
	if err != nil {
		return nil, errors.Wrap(err, "enumerate scan files")
	}

	var newlyFound []string
	for _, path := range all {
		if !c.Has(path) && !tried[path] {
			newlyFound = append(newlyFound, path)
		}
	}

	ingested := make([]string, 0, len(newlyFound))
	for _, path := range newlyFound {
		if err := ctx.Err(); err != nil {
			return ingested, errors.Wrap(err, "run canceled")
		}

		classes, enums, err := cfg.Parser.ParseFile(path, cfg.IncludeDirs)
		if err != nil {
			result.Errored++
			if cfg.Log != nil {
				cfg.Log.Warn(err.Error())
			}
			continue
		}

		if err := c.Ingest(path, classes, enums); err != nil {
			result.Errored++
			if cfg.Log != nil {
				cfg.Log.Warn(err.Error())
			}
			continue
		}

		result.Processed++
		ingested = append(ingested, path)
		if cfg.Log != nil {
			cfg.Log.Verbose("parsed " + path)
		}
	}

	sort.Strings(ingested)
	return ingested, nil
}
