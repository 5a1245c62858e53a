// Package main implements the cellvet CLI tool.
//
// cellvet reports cell tokens that are acquired and never released. Such a
// token leaves its cell borrowed, so the next conflicting access panics far
// from the real mistake.
//
// Usage:
//
//	cellvet check ./...          # Check the current module
//	cellvet check -j 4 pkg/a.go  # Check one file with four workers
//	cellvet version              # Show version information
//
// Configuration is read from the nearest .cellvet.toml above the working
// directory, or from the file named by --config.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kolkov/impcell/imp"
)

var rootCmd = &cobra.Command{
	Use:           "cellvet",
	Short:         "Find unreleased cell tokens",
	Long:          `cellvet checks Go source for cell tokens that are discarded, chained or never released.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := imp.GetInfo()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "cellvet version %s\n", info.Version)
		fmt.Fprintf(out, "  model:       %s\n", info.Model)
		fmt.Fprintf(out, "  concurrency: %s\n", info.Concurrency)
		return nil
	},
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code: 0 when clean, 1
// when findings were reported, 2 on any other error.
func run(args []string) int {
	rootCmd.Version = imp.Version
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errFindings) {
			return 1
		}
		fmt.Fprintf(rootCmd.ErrOrStderr(), "cellvet: %v\n", err)
		return 2
	}
	return 0
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}
