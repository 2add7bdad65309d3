package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kmacleod/gavel/internal/cache"
	"github.com/kmacleod/gavel/internal/config"
	"github.com/kmacleod/gavel/internal/gitsrc"
	"github.com/kmacleod/gavel/internal/logging"
	"github.com/kmacleod/gavel/internal/output"
	"github.com/kmacleod/gavel/internal/review"
	"github.com/kmacleod/gavel/internal/rules"
	"github.com/kmacleod/gavel/internal/source"
)

// Shared review flags
var (
	flagRulePacks    string
	flagCategories   string
	flagFormat       string
	flagOut          string
	flagInclude      string
	flagExclude      string
	flagContextLines int
	flagParallelism  int
	flagAllLines     bool
	flagNoCache      bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagRulePacks, "rules", "", "Rule pack paths, YAML or markdown (comma-separated)")
	cmd.Flags().StringVar(&flagCategories, "categories", "", "Restrict to rule categories (comma-separated)")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, sarif)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagInclude, "paths", "", "Include file path globs (comma-separated)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	cmd.Flags().IntVar(&flagContextLines, "context-lines", 0, "Number of context lines in diff")
	cmd.Flags().IntVar(&flagParallelism, "parallelism", 0, "Maximum concurrent rule evaluations")
	cmd.Flags().BoolVar(&flagAllLines, "all-lines", false, "Match context lines too, not just added lines")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the report cache")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagRulePacks != "" {
		m["rulePacks"] = flagRulePacks
	}
	if flagCategories != "" {
		m["categories"] = flagCategories
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagParallelism > 0 {
		m["maxParallelism"] = fmt.Sprintf("%d", flagParallelism)
	}
	if flagContextLines > 0 {
		m["contextLines"] = fmt.Sprintf("%d", flagContextLines)
	}
	if flagAllLines {
		m["diffOnly"] = "false"
	}
	return m
}

func buildSourceOpts(cfg config.Config) gitsrc.Options {
	opts := gitsrc.Options{
		ContextLines: cfg.ContextLines,
		Include:      cfg.Include,
		Exclude:      cfg.Exclude,
	}
	if flagInclude != "" {
		opts.Include = splitComma(flagInclude)
	}
	if flagExclude != "" {
		opts.Exclude = append(opts.Exclude, splitComma(flagExclude)...)
	}
	return opts
}

func splitComma(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// loadCatalog builds the rule catalog from configured packs, falling back to
// the builtin pack when none are configured.
func loadCatalog(cfg config.Config) (*rules.Catalog, error) {
	if len(cfg.RulePacks) == 0 {
		return rules.BuiltinCatalog()
	}
	return rules.LoadCatalog(cfg.RulePacks...)
}

func parseCategories(names []string) ([]rules.Category, error) {
	var cats []rules.Category
	for _, name := range names {
		c := rules.Category(name)
		if !rules.ValidCategory(c) {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// runReview drives one review invocation: catalog, cache, engine, output.
func runReview(units []*source.Unit, cfg config.Config, diffOnly bool) {
	log := logging.Setup(cfg.LogLevel)

	catalog, err := loadCatalog(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}

	categories, err := parseCategories(cfg.Categories)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}

	opts := review.Options{
		Categories:     categories,
		DiffOnly:       diffOnly,
		MaxParallelism: cfg.MaxParallelism,
	}

	store, err := cache.New(cfg.Cache.Enabled && !flagNoCache, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		store, _ = cache.New(false, "", 0)
	}

	digests := make([]string, len(units))
	for i, u := range units {
		digests[i] = u.Digest()
	}
	key := cache.Key(catalog.Digest(), digests, fmt.Sprintf("%v|%v", categories, diffOnly))

	report, ok := store.Get(key)
	if ok {
		log.Debug().Str("key", key).Msg("report served from cache")
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err = review.Review(ctx, catalog, units, opts)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(os.Stderr, "Review cancelled")
				exitCode = ExitRuntimeError
				return
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
		if err := store.Put(key, report); err != nil {
			log.Warn().Err(err).Msg("failed to store report in cache")
		}
	}

	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	exitCode = verdictExitCode(report.Verdict)
}

func verdictExitCode(v review.Verdict) int {
	switch v {
	case review.VerdictBlocked:
		return ExitBlocked
	case review.VerdictWarned:
		return ExitWarned
	default:
		return ExitClean
	}
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review files or changes against the rule catalog",
}

var reviewFilesCmd = &cobra.Command{
	Use:   "files <path>...",
	Short: "Review whole files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		units, err := gitsrc.Files(args, buildSourceOpts(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		// Whole files have no diff metadata; every line is in scope.
		runReview(units, cfg, false)
		return nil
	},
}

var reviewUnstagedCmd = &cobra.Command{
	Use:   "unstaged",
	Short: "Review unstaged changes (working tree vs index)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		units, err := gitsrc.Unstaged(buildSourceOpts(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(units, cfg, cfg.DiffOnly)
		return nil
	},
}

var reviewStagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "Review staged changes (index vs HEAD)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		units, err := gitsrc.Staged(buildSourceOpts(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(units, cfg, cfg.DiffOnly)
		return nil
	},
}

var flagMergeBase bool

var reviewRangeCmd = &cobra.Command{
	Use:   "range <revRange>",
	Short: "Review a revision range (e.g., origin/main..HEAD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		units, err := gitsrc.Range(args[0], flagMergeBase, buildSourceOpts(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(units, cfg, cfg.DiffOnly)
		return nil
	},
}

var reviewTrackedCmd = &cobra.Command{
	Use:   "tracked",
	Short: "Review all git-tracked files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		units, err := gitsrc.Tracked(buildSourceOpts(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(units, cfg, false)
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(reviewFilesCmd)
	reviewCmd.AddCommand(reviewUnstagedCmd)
	reviewCmd.AddCommand(reviewStagedCmd)
	reviewCmd.AddCommand(reviewRangeCmd)
	reviewCmd.AddCommand(reviewTrackedCmd)

	for _, cmd := range []*cobra.Command{
		reviewFilesCmd,
		reviewUnstagedCmd,
		reviewStagedCmd,
		reviewRangeCmd,
		reviewTrackedCmd,
	} {
		addReviewFlags(cmd)
	}

	reviewRangeCmd.Flags().BoolVar(&flagMergeBase, "merge-base", true, "Use merge base for branch comparisons")
}
