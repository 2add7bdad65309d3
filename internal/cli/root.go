package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Exit codes. The verdict maps directly onto the process exit code so git
// hooks and CI can gate without parsing output.
const (
	ExitClean        = 0
	ExitWarned       = 1
	ExitBlocked      = 2
	ExitUsageError   = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "gavel",
	Short: "Policy-driven code review",
	Long:  "Gavel evaluates declarative review-policy rule packs against files and diffs, producing findings and a block/warn/clean verdict.",
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitClean

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gavel version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "gavel version %s\n", version)
	},
}
