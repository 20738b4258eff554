package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "qa-server",
	Short: "qa-server serves an in-memory question and answer store over HTTP",
	Long: `qa-server keeps questions and their answers in memory, optionally seeded
from JSON files, and exposes them through a small REST API.

Configuration is read from environment variables, optionally loaded from a
.env file with --env-file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
