// Command codeidx-index is the indexer CLI (spec.md §6): parse one or
// more targets with tree-sitter, extract records, and write them to a
// SQLite store, either once or as a daemon that watches for changes.
// Flag layout and the exit-code contract follow the teacher's
// cmd/canopy/main.go (cobra root command, SilenceErrors/SilenceUsage,
// os.Exit(1) on any error); the config-merge step is this repo's own
// addition for spec.md §6's `$HOME/.smconfig` contract.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jward/codeidx/internal/config"
	"github.com/jward/codeidx/internal/filter"
	"github.com/jward/codeidx/internal/indexer"
	"github.com/jward/codeidx/internal/registry"
)

var (
	flagOnce        bool
	flagQuietInit   bool
	flagSilent      bool
	flagVerbose     bool
	flagDebug       bool
	flagExcludeDirs []string
	flagDBFile      string
	flagEcho        string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "codeidx-index <targets...>",
	Short:         "Index source files into a symbol store",
	Long:          "Parses source files with tree-sitter and writes extracted records to a SQLite store, once or continuously.",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runIndex,
}

func init() {
	rootCmd.Flags().BoolVar(&flagOnce, "once", false, "run a single pass and exit (default: daemon mode)")
	rootCmd.Flags().BoolVar(&flagQuietInit, "quiet-init", false, "suppress the initial-pass summary line")
	rootCmd.Flags().BoolVar(&flagSilent, "silent", false, "suppress progress summary lines (per-file errors are still logged)")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "verbose level (prints the same progress lines as the default)")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "print per-file reindex diagnostics")
	rootCmd.Flags().StringArrayVar(&flagExcludeDirs, "exclude-dir", nil, "directory name or glob to exclude (repeatable)")
	rootCmd.Flags().StringVarP(&flagDBFile, "db-file", "f", "code-index.db", "store location")
	rootCmd.Flags().StringVar(&flagEcho, "echo", "", "print this message once, then continue")

	argv := mergeConfigArgs(os.Args[1:])
	rootCmd.SetArgs(argv)
}

// mergeConfigArgs applies $HOME/.smconfig's [ic] section ahead of the raw
// CLI argv, per spec.md §6's "CLI flag suppresses config-file line"
// precedence. A missing or unreadable config file is not fatal here —
// Load already treats a missing file as empty.
func mergeConfigArgs(argv []string) []string {
	path, err := config.ConfigPath()
	if err != nil {
		return argv
	}
	cfg, err := config.Load(path)
	if err != nil {
		return argv
	}
	return cfg.MergeArgs("ic", argv)
}

func verbosity() indexer.Verbosity {
	switch {
	case flagSilent:
		return indexer.Silent
	case flagDebug:
		return indexer.Debug
	case flagVerbose:
		return indexer.Verbose
	case flagQuietInit:
		return indexer.QuietInit
	default:
		return indexer.Normal
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
	filt, err := filter.New(nil, nil, nil)
	if err != nil {
		return err
	}

	opts := indexer.Options{
		Targets:     args,
		DBFile:      flagDBFile,
		ExcludeDirs: flagExcludeDirs,
		Once:        flagOnce,
		Echo:        flagEcho,
		Verbosity:   verbosity(),
	}

	ix, err := indexer.New(opts, filt, registry.Build())
	if err != nil {
		return err
	}
	defer ix.Close()

	return ix.Run()
}
