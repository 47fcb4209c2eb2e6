// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jllopis/telos/pkg/audit"
	"github.com/jllopis/telos/pkg/config"
	"github.com/jllopis/telos/pkg/telemetry"
)

// Version information set at build time.
var Version = "dev"

type globalOptions struct {
	configPath string
	profile    string
	sets       []string
	json       bool
	logLevel   string
}

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	opts   globalOptions

	cfg      *config.Config
	logger   *slog.Logger
	metrics  *telemetry.PlanMetrics
	store    audit.Store
	shutdown telemetry.ShutdownFunc
}

// NewApp creates a new CLI application.
func NewApp() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "telos",
		Short: "Hierarchical task network planner",
		Long: `telos decomposes goals into ordered sequences of primitive operators using
hierarchical task network planning over declarative domain documents.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  app.setup,
		PersistentPostRunE: app.teardown,
	}

	flags := app.root.PersistentFlags()
	flags.StringVar(&app.opts.configPath, "config", "", "Path to a telos configuration file (YAML or JSON)")
	flags.StringVar(&app.opts.profile, "profile", "", "Configuration profile overlay (config.<profile>.yaml)")
	flags.StringArrayVar(&app.opts.sets, "set", nil, "Override a configuration key (key=value, repeatable)")
	flags.BoolVar(&app.opts.json, "json", false, "JSON output")
	flags.StringVar(&app.opts.logLevel, "log-level", "", "Log level override: debug, info, warn, error")

	app.root.AddCommand(
		app.newPlanCmd(),
		app.newBatchCmd(),
		app.newValidateCmd(),
		app.newGraphCmd(),
		app.newExplainCmd(),
		app.newAuditCmd(),
		app.newWatchCmd(),
		app.newVersionCmd(),
	)
	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := a.root.ExecuteContext(ctx)
	if err != nil && (a.store != nil || a.shutdown != nil) {
		// PersistentPostRunE does not run when a command fails.
		_ = a.teardown(a.root, nil)
	}
	return err
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// setup loads configuration and builds the shared logger, telemetry and
// audit store before any command runs.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithCLI(a.configArgs())
	if err != nil {
		return NewConfigError(err, a.opts.configPath)
	}
	if a.opts.logLevel != "" {
		cfg.Log.Level = a.opts.logLevel
	}
	a.cfg = cfg
	a.logger = telemetry.NewLogger(a.stderr, cfg.Log.Level, cfg.Log.Format)

	shutdown, err := telemetry.InitWithConfig(cfg.Telemetry.ServiceName, Version, telemetry.FromConfig(cfg.Telemetry))
	if err != nil {
		return NewConfigError(err, a.opts.configPath)
	}
	a.shutdown = shutdown

	metrics, err := telemetry.NewPlanMetrics()
	if err != nil {
		return err
	}
	a.metrics = metrics

	store, err := audit.Open(cmd.Context(), cfg.Audit)
	if err != nil {
		return NewConfigError(err, a.opts.configPath)
	}
	a.store = store
	return nil
}

func (a *App) teardown(cmd *cobra.Command, _ []string) error {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("audit.close.error", slog.String("error", err.Error()))
		}
		a.store = nil
	}
	if a.shutdown != nil {
		ctx := context.Background()
		if cmd != nil && cmd.Context() != nil {
			ctx = context.WithoutCancel(cmd.Context())
		}
		err := a.shutdown(ctx)
		a.shutdown = nil
		return err
	}
	return nil
}

// configArgs re-encodes the global flags in the form config.LoadWithCLI
// parses.
func (a *App) configArgs() []string {
	var args []string
	if a.opts.configPath != "" {
		args = append(args, "--config", a.opts.configPath)
	}
	if a.opts.profile != "" {
		args = append(args, "--profile", a.opts.profile)
	}
	for _, set := range a.opts.sets {
		args = append(args, "--set", set)
	}
	return args
}

// reportError writes err to stderr in the selected format.
func (a *App) reportError(err error) {
	if cliErr, ok := err.(*CLIError); ok {
		cliErr.PrintError(a.stderr, a.opts.json)
		return
	}
	if a.opts.json {
		payload, _ := json.Marshal(map[string]any{"error": map[string]string{"message": err.Error()}})
		fmt.Fprintln(a.stderr, string(payload))
		return
	}
	fmt.Fprintf(a.stderr, "Error: %s\n", err)
}

func (a *App) printJSON(value any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func (a *App) newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(a.stdout, 0, 8, 2, ' ', 0)
}

func writeRow(writer *tabwriter.Writer, cols ...string) {
	for i, col := range cols {
		cols[i] = normalizeCell(col)
	}
	fmt.Fprintln(writer, strings.Join(cols, "\t"))
}

func normalizeCell(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return strings.Join(strings.Fields(value), " ")
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.json {
				return a.printJSON(map[string]string{"version": Version})
			}
			fmt.Fprintf(a.stdout, "telos version %s\n", Version)
			return nil
		},
	}
}
