// Package cli wires the command surface. Commands parse flags, merge the
// optional project config, call into the application services, and present
// results; review semantics live entirely below this package.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var verbosity int

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "reqtrace",
	Version: Version,
	Short:   "Review requirements and test documentation for consistency",
	Long: `Reqtrace checks that software documentation hangs together:
every requirement is verified by at least one test, every test points
at requirements that exist, and obsolete requirements carry a reason
and no lingering tests.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging (-v info, -vv debug)")
}

// newLogger builds the logger shared by all commands. Logs go to stderr so
// stdout stays clean for report output.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
