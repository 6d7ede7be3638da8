package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/moistureboard"
	"github.com/jpalmerr/moistureboard/config"
	"github.com/jpalmerr/moistureboard/internal/tui"
)

// watchCmd shows the readings in the terminal instead of a browser.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch readings in the terminal",
	Long: `Poll the telemetry API and show the current page of readings and their
statistics in the terminal.

Keys:
  n/p  next/previous page
  +/-  larger/smaller page size (back to page 1)
  r    refresh now
  e    pause/resume polling
  q    quit

Logs are discarded unless --log-file is given, since they would draw over
the screen.

Example:
  moistureboard watch
  moistureboard watch -c config.yaml --log-file watch.log`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("config", "c", "", "path to config file")
	watchCmd.Flags().String("log-file", "", "append logs to this file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		logOut = f
	}
	logger := newLogger(logOut, cfg)

	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("failed to build options: %w", err)
	}
	opts = append(opts, moistureboard.WithLogger(logger))

	monitor, err := moistureboard.NewMonitor(opts...)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	defer monitor.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	title := cfg.Title
	if title == "" {
		title = moistureboard.DefaultTitle
	}

	monitor.Start(ctx)

	program := tea.NewProgram(tui.New(ctx, monitor, title), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI error: %w", err)
	}

	logger.Debug("watch stopped", slog.String("endpoint", cfg.Endpoint.URL))
	return nil
}
