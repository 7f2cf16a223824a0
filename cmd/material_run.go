package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/opsrun/internal/analysis"
	"github.com/alexiusacademia/opsrun/internal/diagram"
)

var (
	runFiles       []string
	runPeaks       string
	runPolicy      policyFlags
	runKeep        bool
	runEcho        bool
	runJobs        int
	runTimeout     time.Duration
	runShowPlot    bool
	runExportFile  string
	runMetricsFile string
)

var materialRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run uniaxial material tests",
	Long: `Run one uniaxial material test per material file and report each
outcome. Tests run concurrently, at most --jobs at a time, each in its own
scratch workspace.

Exit code contract of the generated script:
  1  converged; results are read
  2  failed to converge; partial results are read and a warning reported
  any other code, or a run cut short by --timeout, is an error

Examples:
  opsrun material run --file gr60.yaml --peaks 0,0.01,-0.01,0.02 --rate 0.0005 --plot
  opsrun material run -f a.yaml -f b.yaml --peaks 0,0.02 --steps 200 --output loops.png`,
	RunE: runMaterialRun,
}

func init() {
	materialCmd.AddCommand(materialRunCmd)

	materialRunCmd.Flags().StringArrayVarP(&runFiles, "file", "f", nil, "Path to material YAML file, repeatable [required]")
	materialRunCmd.Flags().StringVarP(&runPeaks, "peaks", "p", "", "Comma-separated strain peaks [required]")
	materialRunCmd.MarkFlagRequired("file")
	materialRunCmd.MarkFlagRequired("peaks")
	runPolicy.register(materialRunCmd)

	materialRunCmd.Flags().BoolVar(&runKeep, "keep", false, "Keep workspaces after the run")
	materialRunCmd.Flags().BoolVar(&runEcho, "echo", false, "Copy solver output to stderr while it runs")
	materialRunCmd.Flags().IntVarP(&runJobs, "jobs", "j", 4, "Maximum number of concurrent solver runs")
	materialRunCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Kill runs still going after this long (0 = no limit)")

	materialRunCmd.Flags().BoolVar(&runShowPlot, "plot", false, "Show ASCII hysteresis plots")
	materialRunCmd.Flags().StringVarP(&runExportFile, "output", "o", "", "Export hysteresis plot to file (png, svg, pdf)")
	materialRunCmd.Flags().StringVar(&runMetricsFile, "metrics-file", "", "Write run metrics in Prometheus textfile format")
}

// materialRun is the outcome of one material file.
type materialRun struct {
	file   string
	name   string
	result *analysis.Result
	err    error
}

func runMaterialRun(cmd *cobra.Command, args []string) error {
	if runJobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", runJobs)
	}
	peaks, err := strainPeaks(runPeaks)
	if err != nil {
		return err
	}
	policy, err := runPolicy.policy(cmd)
	if err != nil {
		return err
	}

	opts := []analysis.Option{}
	if runKeep {
		opts = append(opts, analysis.WithKeepFiles(true))
	}
	if runEcho {
		opts = append(opts, analysis.WithEcho(cmd.ErrOrStderr()))
	}
	var metrics *analysis.Metrics
	if runMetricsFile != "" {
		metrics = analysis.NewMetrics()
		opts = append(opts, analysis.WithMetrics(metrics))
	}
	driver := newDriver(opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	runs := make([]materialRun, len(runFiles))
	var g errgroup.Group
	g.SetLimit(runJobs)
	for i, file := range runFiles {
		runs[i].file = file
		g.Go(func() error {
			mf, err := analysis.LoadMaterialFile(file)
			if err != nil {
				runs[i].err = err
				return nil
			}
			runs[i].name = mf.Name
			test := analysis.NewUniaxialMaterial(driver, mf.Tag, mf.Materials...)
			runs[i].result, runs[i].err = test.Run(ctx, peaks, policy)
			if runs[i].err != nil {
				logger.Error("material test errored", zap.String("file", file), zap.Error(runs[i].err))
			}
			return nil
		})
	}
	_ = g.Wait()

	out := cmd.OutOrStdout()
	printRuns(cmd, runs)

	if runShowPlot {
		for _, r := range runs {
			if r.result == nil {
				continue
			}
			disp, _ := r.result.Channel(analysis.ChannelDisp)
			force, _ := r.result.Channel(analysis.ChannelForce)
			n := min(len(disp), len(force))
			plot, err := diagram.ASCIIHysteresis(disp[:n], force[:n], 60, 16)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n  %s: stress vs. strain\n\n%s", r.name, plot)
		}
	}

	if runExportFile != "" {
		data := diagram.HysteresisData{Title: "Uniaxial material test", XLabel: "Strain", YLabel: "Stress"}
		for _, r := range runs {
			if r.result == nil {
				continue
			}
			disp, _ := r.result.Channel(analysis.ChannelDisp)
			force, _ := r.result.Channel(analysis.ChannelForce)
			n := min(len(disp), len(force))
			data.Curves = append(data.Curves, diagram.Curve{Label: r.name, X: disp[:n], Y: force[:n]})
		}
		written, err := diagram.ExportHysteresis(data, runExportFile)
		if err != nil {
			return fmt.Errorf("exporting plot: %w", err)
		}
		fmt.Fprintf(out, "\n  ✓ Plot exported to: %s\n", written)
	}

	if metrics != nil {
		if err := metrics.WriteTextfile(runMetricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	var errs []error
	for _, r := range runs {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.file, r.err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d material tests errored: %w", len(errs), len(runs), errors.Join(errs...))
	}
	return nil
}

func printRuns(cmd *cobra.Command, runs []materialRun) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "     UNIAXIAL MATERIAL TESTS")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  File\tMaterial\tStatus\tPoints\tTime")
	for _, r := range runs {
		name := r.name
		if name == "" {
			name = "-"
		}
		if r.result == nil {
			fmt.Fprintf(w, "  %s\t%s\t%s\t-\t-\n", filepath.Base(r.file), name, analysis.Errored)
			continue
		}
		mark := "✓"
		if r.result.Status() != analysis.Succeeded {
			mark = "⚠"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s %s\t%d\t%s\n", filepath.Base(r.file), name,
			r.result.Status(), mark, r.result.Len(), r.result.Duration().Round(time.Millisecond))
	}
	w.Flush()

	var notes []string
	for _, r := range runs {
		switch {
		case r.err != nil:
			notes = append(notes, fmt.Sprintf("%s: %v", filepath.Base(r.file), r.err))
		case r.result != nil:
			notes = append(notes, r.result.Warnings()...)
			if dir := r.result.Dir(); dir != "" {
				notes = append(notes, fmt.Sprintf("%s: files kept in %s", r.name, dir))
			}
		}
	}
	if len(notes) > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, diagram.DrawSummaryBox("NOTES", notes))
	}
	fmt.Fprintln(out, strings.Repeat("─", 63))
}
