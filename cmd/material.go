package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/opsrun/internal/loadpath"
)

var materialCmd = &cobra.Command{
	Use:   "material",
	Short: "Uniaxial material tests",
	Long: `Test uniaxial materials under an imposed deformation history.

The material is placed in a one-dimensional truss of unit length and
area, so the imposed displacement reads as strain and the element force
as stress.

Subcommands:
  script  - Print the generated OpenSees script without running it
  run     - Run one test per material file and report the results
  preset  - Print a steel preset for a standard bar grade

Material files are YAML:

  name: A615 Gr60
  tag: 1
  materials:
    - type: Steel02
      tag: 1
      Fy: 415
      E: 200000
      b: 0.01`,
}

func init() {
	rootCmd.AddCommand(materialCmd)
}

// strainPeaks parses a single channel of --peaks for a material test.
func strainPeaks(s string) ([]float64, error) {
	points, err := parsePeaks([]string{s})
	if err != nil {
		return nil, err
	}
	peaks := column(points, 0)
	if len(peaks) == 0 {
		return nil, loadpath.ErrPeaks
	}
	return peaks, nil
}
