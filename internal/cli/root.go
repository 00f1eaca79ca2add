// Package cli wires configuration, logging, scanning and rendering behind
// the myfetch command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/myfetch/internal/config"
	"github.com/Dicklesworthstone/myfetch/internal/logging"
	"github.com/Dicklesworthstone/myfetch/internal/report"
	"github.com/Dicklesworthstone/myfetch/internal/scanner"
	"github.com/Dicklesworthstone/myfetch/internal/ui"
)

type options struct {
	configPath  string
	json        bool
	interactive bool
	icons       bool
	noColor     bool
	limit       int
	logFile     string
	logLevel    string
	sections    map[string]*bool
}

// scannerFactory builds the scanner for a run; tests swap in a fixture root.
type scannerFactory func(cfg config.Config, log *slog.Logger) *scanner.Scanner

func defaultScanner(cfg config.Config, log *slog.Logger) *scanner.Scanner {
	return scanner.New(scanner.ExecRunner{Timeout: cfg.CommandTimeout}, log)
}

// NewRootCmd creates the myfetch command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultScanner)
}

func newRootCmd(newScanner scannerFactory) *cobra.Command {
	opts := &options{sections: make(map[string]*bool)}
	cmd := &cobra.Command{
		Use:   "myfetch",
		Short: "Linux system information and diagnostics",
		Long: `myfetch reads /proc, /sys and a few read-only system tools and prints
a summary of the machine, or one detailed section at a time.

Without a section flag the system summary is shown.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, newScanner)
		},
	}

	flags := cmd.Flags()
	var names []string
	for _, s := range ui.Sections {
		if s.Name == "" {
			continue
		}
		opts.sections[s.Name] = flags.Bool(s.Name, false, "Show "+s.Usage)
		names = append(names, s.Name)
	}
	flags.BoolVar(&opts.json, "json", false, "Print a machine-readable JSON report")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Browse sections interactively")
	flags.BoolVar(&opts.icons, "icons", false, "Show Nerd Font icons")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.IntVarP(&opts.limit, "limit", "n", 0, "Number of top processes to list")
	flags.StringVar(&opts.configPath, "config", config.DefaultPath(), "Preference file")
	flags.StringVar(&opts.logFile, "log-file", "", "Write diagnostics to a rotating log file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Diagnostics level (debug, info, warn, error)")

	cmd.MarkFlagsMutuallyExclusive(names...)
	cmd.MarkFlagsMutuallyExclusive("json", "interactive")
	return cmd
}

// applyFlags overlays flags the user actually set onto cfg.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("icons") {
		cfg.Icons = opts.icons
	}
	if flags.Changed("no-color") && opts.noColor {
		cfg.Colors = false
	}
	if flags.Changed("limit") {
		if opts.limit <= 0 {
			return fmt.Errorf("--limit must be positive, got %d", opts.limit)
		}
		cfg.TopLimit = opts.limit
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	return nil
}

func selectedSection(opts *options) ui.Section {
	for _, s := range ui.Sections {
		if p := opts.sections[s.Name]; p != nil && *p {
			return s
		}
	}
	s, _ := ui.Lookup("")
	return s
}

func run(cmd *cobra.Command, opts *options, newScanner scannerFactory) error {
	cfg, cfgErr := config.Load(opts.configPath)
	if err := applyFlags(cmd, opts, &cfg); err != nil {
		return err
	}

	log, closeLog := logging.New(cfg)
	defer closeLog()
	if cfgErr != nil {
		log.Warn("ignoring preference file", "path", opts.configPath, "error", cfgErr)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scan := newScanner(cfg, log)
	rep := report.New(scan, cfg, log)
	f := ui.Formatter{Colors: cfg.Colors, Icons: cfg.Icons}
	out := cmd.OutOrStdout()

	log.Debug("starting", "privileged", scan.IsPrivileged(), "top_limit", cfg.TopLimit, "timeout", cfg.CommandTimeout)

	switch {
	case opts.json:
		return rep.Dump(ctx).WriteJSON(out)
	case opts.interactive:
		return ui.RunViewer(ctx, rep, f)
	}
	return selectedSection(opts).Write(ctx, out, rep, f)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "myfetch:", err)
		}
		os.Exit(1)
	}
}
