package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/config"
	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/console"
	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/watch"
	"github.com/felixgeelhaar/reqtrace/pkg/application"
	"github.com/felixgeelhaar/reqtrace/pkg/domain/review"
)

// maxProblemExit caps the problem-count exit code so it never collides with
// shell-reserved codes above 125.
const maxProblemExit = 125

var (
	reviewDocsDirs []string
	reviewTestDirs []string
	reviewIgnore   []string
	reviewConfig   string
	reviewWatch    bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Check requirements and tests for consistency problems",
	Long: `Review loads the requirements document and the manual tests document,
discovers annotated automated tests under the test directories, maps
requirement coverage, and reports every problem found. The exit code
equals the number of unignored problems.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveReviewOptions()
		if err != nil {
			return err
		}

		logger := newLogger()
		service := application.NewReviewService(logger)
		reporter := console.NewReporter(cmd.OutOrStdout())

		if reviewWatch {
			return runWatchLoop(cmd.Context(), service, reporter, opts)
		}

		report, err := service.Review(cmd.Context(), opts)
		if err != nil {
			return MapError(err)
		}

		reporter.PrintCoverageSummary(report)
		reporter.PrintProblems(report.Problems)
		reporter.PrintResult(len(report.Problems))

		if n := len(report.Problems); n > 0 {
			return &CLIError{
				Message:  fmt.Sprintf("%d problem(s) found", n),
				ExitCode: min(n, maxProblemExit),
			}
		}
		return nil
	},
}

func init() {
	// Shared by review, render, and dashboard.
	RootCmd.PersistentFlags().StringArrayVar(&reviewDocsDirs, "docs-dir", nil, "directory to search for documents (repeatable)")
	RootCmd.PersistentFlags().StringArrayVar(&reviewTestDirs, "test-dir", nil, "directory to search for automated tests (repeatable)")
	RootCmd.PersistentFlags().StringArrayVarP(&reviewIgnore, "ignore", "i", nil, "problem code to suppress, e.g. DH003 (repeatable)")
	RootCmd.PersistentFlags().StringVarP(&reviewConfig, "config", "c", "", "path to config file (default "+config.FileName+" in the working directory)")
	reviewCmd.Flags().BoolVar(&reviewWatch, "watch", false, "re-run the review whenever a watched source changes")
	RootCmd.AddCommand(reviewCmd)
}

// resolveReviewOptions merges flags with the optional config file. Flags win;
// unset values fall back to the config, then to the working directory.
func resolveReviewOptions() (application.ReviewOptions, error) {
	var opts application.ReviewOptions

	var cfg *config.Config
	var err error
	if reviewConfig != "" {
		cfg, err = config.Load(reviewConfig)
	} else {
		cfg, err = config.LoadDefault(".")
	}
	if err != nil {
		return opts, NewCLIError("invalid config file", "Check the YAML syntax and field names", err)
	}

	docsDirs := reviewDocsDirs
	testDirs := reviewTestDirs
	ignore := reviewIgnore
	if cfg != nil {
		if len(docsDirs) == 0 {
			docsDirs = cfg.DocsDirs
		}
		if len(testDirs) == 0 {
			testDirs = cfg.TestDirs
		}
		if len(ignore) == 0 {
			ignore = cfg.Ignore
		}
	}
	if len(docsDirs) == 0 {
		docsDirs = []string{"."}
	}
	if len(testDirs) == 0 {
		testDirs = []string{"."}
	}

	ignoreSet, err := review.ParseIgnoreSet(ignore)
	if err != nil {
		return opts, NewCLIError("invalid ignore list", "Valid codes are DH001 through DH006", err)
	}

	opts.DocsDirs = docsDirs
	opts.TestDirs = testDirs
	opts.Ignore = ignoreSet
	return opts, nil
}

// runWatchLoop reviews once, then re-reviews after every relevant source
// change until interrupted. Problems never terminate the loop; only load
// setup failures and signals do.
func runWatchLoop(ctx context.Context, service *application.ReviewService, reporter *console.Reporter, opts application.ReviewOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runOnce := func() {
		report, err := service.Review(ctx, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "review failed: %v\n", MapError(err))
			return
		}
		reporter.PrintCoverageSummary(report)
		reporter.PrintProblems(report.Problems)
		reporter.PrintResult(len(report.Problems))
	}

	watcher, err := watch.New(watch.NewSourceFilter(nil), 500*time.Millisecond, func(ev watch.ChangeEvent) {
		fmt.Printf("\nchange detected: %s (%s)\n", ev.Path, ev.ChangeType)
		runOnce()
	})
	if err != nil {
		return NewCLIError("cannot start watcher", "", err)
	}
	for _, root := range append(append([]string{}, opts.DocsDirs...), opts.TestDirs...) {
		if err := watcher.WatchRecursive(root); err != nil {
			return NewCLIError("cannot watch "+root, "Check that the directory exists", err)
		}
	}

	runOnce()
	fmt.Println("\nwatching for changes... (ctrl-c to stop)")
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
