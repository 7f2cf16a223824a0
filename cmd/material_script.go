package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/opsrun/internal/analysis"
)

var (
	scriptFile   string
	scriptPeaks  string
	scriptPolicy policyFlags
)

var materialScriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print the script of a uniaxial material test",
	Long: `Print the OpenSees script a material test would run. File paths that
only exist inside a run's workspace are shown as @{name} placeholders.
The solver is not needed.

Examples:
  opsrun material script --file steel.yaml --peaks 0,0.01,-0.01 --rate 0.001`,
	RunE: runMaterialScript,
}

func init() {
	materialCmd.AddCommand(materialScriptCmd)

	materialScriptCmd.Flags().StringVarP(&scriptFile, "file", "f", "", "Path to material YAML file [required]")
	materialScriptCmd.Flags().StringVarP(&scriptPeaks, "peaks", "p", "", "Comma-separated strain peaks [required]")
	materialScriptCmd.MarkFlagRequired("file")
	materialScriptCmd.MarkFlagRequired("peaks")
	scriptPolicy.register(materialScriptCmd)
}

func runMaterialScript(cmd *cobra.Command, args []string) error {
	mf, err := analysis.LoadMaterialFile(scriptFile)
	if err != nil {
		return err
	}
	peaks, err := strainPeaks(scriptPeaks)
	if err != nil {
		return err
	}
	policy, err := scriptPolicy.policy(cmd)
	if err != nil {
		return err
	}

	test := analysis.NewUniaxialMaterial(newDriver(), mf.Tag, mf.Materials...)
	text, err := test.Script(peaks, policy)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
