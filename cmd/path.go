package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/opsrun/internal/diagram"
	"github.com/alexiusacademia/opsrun/internal/loadpath"
)

var (
	pathPeaks      []string
	pathPolicy     policyFlags
	pathShowPlot   bool
	pathExportFile string
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Generate a cyclic load path from peak values",
	Long: `Interpolate a dense load path through a list of peaks.

The path starts and ends with a hold point repeating the first and last
peak. Between peaks, values are spaced by --rate, or by the single step
size that divides the whole path into --steps parts. Without either,
only the peaks are used.

Repeat --peaks to generate several channels in lockstep; the channel with
the largest change governs the number of points in each segment.

Examples:
  # 0 -> 1 -> -1 in steps of 0.25
  opsrun path --peaks 0,1,-1 --rate 0.25

  # Two channels, about 20 steps in total, with a terminal plot
  opsrun path --peaks 0,1,-1 --peaks 0,2,-2 --steps 20 --plot`,
	RunE: runPath,
}

func init() {
	rootCmd.AddCommand(pathCmd)

	pathCmd.Flags().StringArrayVarP(&pathPeaks, "peaks", "p", nil, "Comma-separated peaks, one flag per channel [required]")
	pathCmd.MarkFlagRequired("peaks")
	pathPolicy.register(pathCmd)

	pathCmd.Flags().BoolVar(&pathShowPlot, "plot", false, "Show an ASCII plot of the path")
	pathCmd.Flags().StringVarP(&pathExportFile, "output", "o", "", "Export the path plot to file (png, svg, pdf)")
}

func runPath(cmd *cobra.Command, args []string) error {
	peaks, err := parsePeaks(pathPeaks)
	if err != nil {
		return err
	}
	policy, err := pathPolicy.policy(cmd)
	if err != nil {
		return err
	}
	path, err := loadpath.Generate(peaks, policy)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "     LOAD PATH")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Policy:   %s\n", policy)
	fmt.Fprintf(out, "  Step:     %g\n", policy.StepSize(peaks))
	fmt.Fprintf(out, "  Points:   %d (%d analysis steps)\n", len(path), len(path)-2)
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"Step"}
	for i := range peaks[0] {
		header = append(header, fmt.Sprintf("Ch %d", i+1))
	}
	fmt.Fprintln(w, strings.Join(header, "\t")+"\t")
	for i, row := range path {
		fields := []string{strconv.Itoa(i)}
		for _, v := range row {
			fields = append(fields, strconv.FormatFloat(v, 'g', 10, 64))
		}
		fmt.Fprintln(w, strings.Join(fields, "\t")+"\t")
	}
	w.Flush()

	if pathShowPlot {
		fmt.Fprintln(out)
		if len(peaks[0]) == 1 {
			fmt.Fprintln(out, diagram.ASCIIPath(column(path, 0), 12, "load path"))
		} else {
			series := make([][]float64, len(peaks[0]))
			for i := range series {
				series[i] = column(path, i)
			}
			fmt.Fprintln(out, diagram.ASCIIChannels(series, 12, "load path"))
		}
	}

	if pathExportFile != "" {
		written, err := diagram.ExportPath(column(path, 0), "Load path", pathExportFile)
		if err != nil {
			return fmt.Errorf("exporting plot: %w", err)
		}
		fmt.Fprintf(out, "\n  ✓ Plot exported to: %s\n", written)
	}
	fmt.Fprintln(out)
	return nil
}
