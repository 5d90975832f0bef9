// Command reflectgen scans C++ headers for reflection markers and
// regenerates their C++ reflection headers, per §4.G/§6, grounded on
// saferwall-pe/cmd/pedumper.go's root-command-plus-flags cobra shape.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/b0gdan0v-bagi/BagiEngine/driver"
	"github.com/b0gdan0v-bagi/BagiEngine/internal/log"
	"github.com/b0gdan0v-bagi/BagiEngine/internal/settings"
	"github.com/b0gdan0v-bagi/BagiEngine/internal/style"
	"github.com/b0gdan0v-bagi/BagiEngine/parser"
)

var (
	sourceDirs   []string
	includeDirs  []string
	scanDirs     []string
	outputDir    string
	cacheDir     string
	settingsPath string
	projectNS    string
	force        bool
	verbose      bool
	quiet        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reflectgen",
		Short: "Incremental C++ reflection metadata generator",
		Long:  "Scans C++ headers for reflection markers and regenerates their reflection headers.",
		RunE:  run,
	}

	rootCmd.Flags().StringArrayVarP(&sourceDirs, "source-dir", "s", nil, "header root to scan and potentially (re)parse (repeatable)")
	rootCmd.Flags().StringArrayVarP(&includeDirs, "include-dir", "I", nil, "AST include search path and include_path base (repeatable)")
	rootCmd.Flags().StringArrayVarP(&scanDirs, "scan-dir", "", nil, "extra header root scanned only for factory derivation (repeatable; defaults to --source-dir)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "destination for generated headers")
	rootCmd.Flags().StringVarP(&cacheDir, "cache-dir", "c", "", "directory containing metadata_cache.json")
	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "JSON file with at minimum a llvm_bin_path string")
	rootCmd.Flags().StringVar(&projectNS, "project-namespace", "", "fixed root namespace qualified_name is computed relative to")
	rootCmd.Flags().BoolVar(&force, "force", false, "treat every discovered file as outdated")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-file lines")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")

	_ = rootCmd.MarkFlagRequired("source-dir")
	_ = rootCmd.MarkFlagRequired("output-dir")
	_ = rootCmd.MarkFlagRequired("cache-dir")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := log.Normal
	switch {
	case quiet:
		level = log.Quiet
	case verbose:
		level = log.Verbose
	}

	logger, err := log.New(level)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bundled := filepath.Join(filepath.Dir(os.Args[0]), "libclang")
	status := settings.DiscoverLibclang(settingsPath, bundled)
	if !status.Found {
		logger.Error(status.Err.Error())
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("using libclang from %s (%s)", status.Path, status.Source))

	p := parser.NewParser(projectNS)
	if err := p.Bootstrap(status.Path); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	result, err := driver.Run(ctx, driver.Config{
		SourceDirs:  sourceDirs,
		ScanDirs:    scanDirs,
		IncludeDirs: includeDirs,
		OutputDir:   outputDir,
		CacheDir:    cacheDir,
		Force:       force,
		Parser:      p,
		Log:         logger,
	})
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	fmt.Println(style.Summary(result.Processed, result.Generated, result.Errored, result.Pruned))

	if result.Errored > 0 {
		os.Exit(1)
	}
	return nil
}
