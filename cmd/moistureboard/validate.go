package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/moistureboard"
	"github.com/jpalmerr/moistureboard/config"
)

// validateCmd validates a config file without starting anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a moistureboard configuration file without polling or serving.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  moistureboard validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// catches anything the SDK rejects that the file format allows
	if _, err := config.BuildEndpoint(cfg); err != nil {
		return fmt.Errorf("invalid config: endpoint: %w", err)
	}

	title := cfg.Title
	if title == "" {
		title = moistureboard.DefaultTitle + " (default)"
	}

	timeout := "none"
	if d := cfg.Endpoint.Timeout.Duration(); d > 0 {
		timeout = d.String()
	}

	poll := "disabled"
	if d := cfg.PollEvery(); d > 0 {
		poll = d.String()
	}

	state := "enabled"
	if !cfg.IsEnabled() {
		state = "paused"
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Config is valid!\n")
	_, _ = fmt.Fprintf(out, "  Title:         %s\n", title)
	_, _ = fmt.Fprintf(out, "  Port:          %d\n", cfg.Port)
	_, _ = fmt.Fprintf(out, "  Endpoint:      %s\n", cfg.Endpoint.URL)
	_, _ = fmt.Fprintf(out, "  Timeout:       %s\n", timeout)
	_, _ = fmt.Fprintf(out, "  Headers:       %d\n", len(cfg.Endpoint.Headers))
	_, _ = fmt.Fprintf(out, "  Poll interval: %s\n", poll)
	_, _ = fmt.Fprintf(out, "  Start:         %s page, %s per page, %s\n",
		humanize.Ordinal(cfg.InitialPage), humanize.Comma(int64(cfg.InitialLimit)), state)
	_, _ = fmt.Fprintf(out, "  Logging:       %s (%s)\n", cfg.Level(), cfg.LogFormat)

	return nil
}
