// Package main is the entry point for the moistureboard CLI.
//
// moistureboard can be run either as a library (SDK) or as a standalone
// binary with YAML configuration. This CLI provides the standalone binary
// approach.
//
// Usage:
//
//	moistureboard serve -c config.yaml    # Start the web dashboard
//	moistureboard watch -c config.yaml    # Watch readings in the terminal
//	moistureboard validate -c config.yaml # Validate configuration
//	moistureboard version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "moistureboard",
	Short: "A live soil moisture dashboard",
	Long: `moistureboard polls a paginated telemetry API for soil moisture readings
and shows the current page with its statistics, either in a web UI with
Server-Sent Events for live updates or directly in the terminal.

Quick start:
  1. Point it at your API: export TELEMETRY_API_URL=http://localhost:8000/api/readings
  2. Run: moistureboard serve
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  poll_interval: 5s
  endpoint:
    url: ${TELEMETRY_API_URL:-http://localhost:8000/api/readings}
    timeout: 10s`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this moistureboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "moistureboard %s\n", version)
		_, _ = fmt.Fprintf(out, "  commit: %s\n", commit)
		_, _ = fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
