// Command codeidx-query is the query CLI (spec.md §6): build a
// queryplan.Query from flags, run it against a SQLite store, and render
// results with internal/printer. Flag wiring mirrors the teacher's
// cmd/canopy/query.go (persistent root flags, a resolveDBPath-style store
// locator, JSON-vs-text style output selection collapsed here to the
// printer's own display-mode flags), with per-column filter flags driven
// by the schema registry via StringArrayVarP rather than hardcoded
// per-field flags, per SPEC_FULL.md §5's pflag wiring note. Each flag
// takes one value per occurrence; repeat the flag for several values.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jward/codeidx/internal/config"
	"github.com/jward/codeidx/internal/printer"
	"github.com/jward/codeidx/internal/queryplan"
	"github.com/jward/codeidx/internal/store"
	"github.com/jward/codeidx/schema"
)

var (
	flagDBFile      string
	flagInclude     []string
	flagExclude     []string
	flagFileFilters []string
	flagAnd         int
	flagSameLine    int
	flagDef         bool
	flagUsage       bool
	flagDefFlag     string
	flagLimit       int
	flagLimitPerDir int
	flagBefore      int
	flagAfter       int
	flagContext     int
	flagExpand      bool
	flagColumns     []string
	flagColumnsFile string
	flagVerboseCols bool
	flagFull        bool
	flagCompact     bool
	flagTOC         bool
	flagFilesOnly   bool
	flagDebug       bool

	columnFlagValues = map[string]*[]string{}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "codeidx-query <patterns...>",
	Short:         "Query the symbol store",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runQuery,
}

func init() {
	rootCmd.Flags().StringVarP(&flagDBFile, "db-file", "f", "code-index.db", "store location")

	rootCmd.Flags().StringArrayVarP(&flagInclude, "include", "i", nil, "include only these context tags")
	rootCmd.Flags().StringArrayVarP(&flagExclude, "exclude", "x", nil, "exclude these context tags")
	rootCmd.Flags().StringArrayVar(&flagFileFilters, "file", nil, "file filter (dir/file composition, trailing / expands to wildcard)")

	rootCmd.Flags().IntVar(&flagAnd, "and", 0, "multi-pattern co-occurrence, N lines apart")
	rootCmd.Flags().IntVar(&flagSameLine, "same-line", 0, "multi-pattern co-occurrence, same line")
	rootCmd.Flags().BoolVar(&flagDef, "def", false, "definitions only")
	rootCmd.Flags().BoolVar(&flagUsage, "usage", false, "usages only")
	rootCmd.Flags().StringVarP(&flagDefFlag, "def-flag", "d", "", "definition filter: 1=defs only, 0=usages only")

	rootCmd.Flags().IntVar(&flagLimit, "limit", 0, "cap total rows returned")
	rootCmd.Flags().IntVar(&flagLimitPerDir, "limit-per-file", 0, "cap rows returned per file")

	rootCmd.Flags().IntVarP(&flagBefore, "before", "B", 0, "lines of context before a match")
	rootCmd.Flags().IntVarP(&flagAfter, "after", "A", 0, "lines of context after a match")
	rootCmd.Flags().IntVarP(&flagContext, "context", "C", 0, "lines of context before and after a match")
	rootCmd.Flags().BoolVarP(&flagExpand, "expand", "e", false, "expand full definition via source_location")

	rootCmd.Flags().StringArrayVar(&flagColumns, "columns", nil, "explicit display column list")
	rootCmd.Flags().StringVar(&flagColumnsFile, "columns-file", "", "YAML file naming a display-column preset (overridden by --columns)")
	rootCmd.Flags().BoolVarP(&flagVerboseCols, "verbose", "v", false, "use full column labels")
	rootCmd.Flags().BoolVar(&flagFull, "full", false, "show every extensible column")
	rootCmd.Flags().BoolVar(&flagCompact, "compact", false, "show only symbol/context/line")
	rootCmd.Flags().BoolVar(&flagTOC, "toc", false, "table-of-contents layout")
	rootCmd.Flags().BoolVar(&flagFilesOnly, "files", false, "print only matching file paths")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "print the planned SQL instead of executing it")

	for _, c := range schema.Columns {
		if c.Name == "is_definition" {
			continue
		}
		var vals []string
		columnFlagValues[c.Name] = &vals
		usage := fmt.Sprintf("filter by %s", c.Name)
		// pflag shorthands must be exactly one ASCII character; namespace's
		// registered shorthand ("ns") doesn't fit that, so it's reachable
		// only via its long flag.
		if len(c.ShortFlag) == 1 {
			rootCmd.Flags().StringArrayVarP(&vals, c.LongFlag, c.ShortFlag, nil, usage)
		} else {
			rootCmd.Flags().StringArrayVar(&vals, c.LongFlag, nil, usage)
		}
	}

	argv := mergeConfigArgs(os.Args[1:])
	rootCmd.SetArgs(argv)
}

func mergeConfigArgs(argv []string) []string {
	path, err := config.ConfigPath()
	if err != nil {
		return argv
	}
	cfg, err := config.Load(path)
	if err != nil {
		return argv
	}
	return cfg.MergeArgs("qi", argv)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if len(flagColumns) == 0 && flagColumnsFile != "" {
		cols, err := config.LoadColumnsPreset(flagColumnsFile)
		if err != nil {
			return err
		}
		flagColumns = cols
	}

	q, err := buildQuery(cmd, args)
	if err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}

	plan, err := queryplan.Build(q)
	if err != nil {
		return err
	}

	if flagDebug {
		fmt.Println(plan.Main)
		if plan.Setup != "" {
			fmt.Println(plan.Setup)
		}
		return nil
	}

	st, err := store.Open(flagDBFile)
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := queryplan.Execute(st.DB(), plan)
	if err != nil {
		return err
	}

	p := printer.New(printer.Options{
		Columns:      flagColumns,
		Verbose:      flagVerboseCols,
		Full:         flagFull,
		Compact:      flagCompact,
		Before:       resolveBefore(),
		After:        resolveAfter(),
		Expand:       flagExpand,
		LimitPerFile: flagLimitPerDir,
		Root:         ".",
	}, os.Stdout)

	if len(rows) == 0 {
		return p.PrintZeroResultDiagnostic(st.DB(), args)
	}
	if flagTOC {
		if err := printer.ValidateTOCContext(flagInclude); err != nil {
			return err
		}
		return p.PrintTOC(rows)
	}
	if flagFilesOnly {
		return p.PrintFilesOnly(rows)
	}
	return p.PrintResults(rows)
}

func resolveBefore() int {
	if flagContext > 0 {
		return flagContext
	}
	return flagBefore
}

func resolveAfter() int {
	if flagContext > 0 {
		return flagContext
	}
	return flagAfter
}

// buildQuery assembles a queryplan.Query from every CLI flag, per spec.md
// §6's query flag surface.
func buildQuery(cmd *cobra.Command, patterns []string) (queryplan.Query, error) {
	q := queryplan.Query{
		Patterns:       patterns,
		IncludeContext: flagInclude,
		ExcludeContext: flagExclude,
		FileFilters:    flagFileFilters,
		Limit:          flagLimit,
		LimitPerFile:   flagLimitPerDir,
		Def:            resolveDefFilter(),
	}

	if cmd.Flags().Changed("same-line") {
		q.Range = flagSameLine
	} else if cmd.Flags().Changed("and") {
		q.Range = flagAnd
	}

	q.ColumnFilters = make(map[string][]string)
	for name, vals := range columnFlagValues {
		if len(*vals) > 0 {
			q.ColumnFilters[name] = *vals
		}
	}
	return q, nil
}

func resolveDefFilter() queryplan.DefFilter {
	switch {
	case flagDef, flagDefFlag == "1":
		return queryplan.DefOnly
	case flagUsage, flagDefFlag == "0":
		return queryplan.UsageOnly
	default:
		return queryplan.DefAny
	}
}
