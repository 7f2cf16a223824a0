package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/opsrun/internal/analysis"
	"github.com/alexiusacademia/opsrun/internal/config"
	"github.com/alexiusacademia/opsrun/internal/format"
	"github.com/alexiusacademia/opsrun/internal/logging"
	"github.com/alexiusacademia/opsrun/internal/version"
)

var (
	configFile string
	solverPath string
	scratchDir string
	logLevel   string

	cfg    = config.Default()
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "opsrun",
	Short: "OpenSees analysis runner",
	Long: `opsrun - drive the OpenSees structural solver from Go

A CLI tool that generates OpenSees Tcl scripts, runs the solver in a
private scratch workspace and reads its recorder output back.

This tool helps structural engineers:
  - Generate cyclic load paths from peak values
  - Test uniaxial materials under imposed deformation histories
  - Run several material tests concurrently
  - Plot hysteresis loops in the terminal or to image files

Settings are read from .opsrun.yaml (working directory upward, then $HOME)
and OPSRUN_SOLVER, OPSRUN_SCRATCH, OPSRUN_LOG_LEVEL.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintf(out, "  ║   opsrun v%-48s║\n", version.Version)
		fmt.Fprintln(out, "  ║   OpenSees Analysis Runner                                ║")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintln(out, "  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Generates OpenSees scripts, runs the solver and parses")
		fmt.Fprintln(out, "  its results.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Features:")
		fmt.Fprintln(out, "    • Cyclic load paths by rate, step count or peaks only")
		fmt.Fprintln(out, "    • Uniaxial material tests from YAML definitions")
		fmt.Fprintln(out, "    • Steel presets for standard reinforcing bar grades")
		fmt.Fprintln(out, "    • Hysteresis plots (terminal, png, svg, pdf)")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Use 'opsrun --help' to see available commands.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ─────────────────────────────────────────────────────────────")
		fmt.Fprintf(out, "  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Fprintln(out)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: discovered .opsrun.yaml)")
	rootCmd.PersistentFlags().StringVar(&solverPath, "solver", "", "Solver binary, path or name on PATH")
	rootCmd.PersistentFlags().StringVar(&scratchDir, "scratch", "", "Directory for analysis workspaces")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// setup layers flags over the environment, the config file and the
// defaults, then builds the logger and installs format overrides.
func setup(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path, _ = config.Discover(wd)
		}
	} else if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("solver") {
		c.Solver = solverPath
	}
	if flags.Changed("scratch") {
		c.Scratch = scratchDir
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}

	l, err := logging.New(c.LogLevel)
	if err != nil {
		return err
	}
	c.ApplyFormats(format.Global())
	cfg, logger = c, l
	if path != "" {
		logger.Debug("config loaded", zap.String("path", path))
	}
	return nil
}

// newDriver returns a driver configured from the loaded settings.
func newDriver(opts ...analysis.Option) *analysis.Driver {
	base := []analysis.Option{
		analysis.WithSolver(cfg.Solver),
		analysis.WithScratch(cfg.Scratch),
		analysis.WithKeepFiles(cfg.KeepFiles),
		analysis.WithLogger(logger),
	}
	return analysis.NewDriver(append(base, opts...)...)
}
