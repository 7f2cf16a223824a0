package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/opsrun/internal/command"
	"github.com/alexiusacademia/opsrun/internal/preset"
)

var (
	presetGrade string
	presetModel string
	presetTag   int
	presetB     float64
	presetYAML  bool
	presetList  bool
)

var materialPresetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Print a steel material for a standard bar grade",
	Long: `Build a reinforcing steel material (Es = 200000 MPa) for a bar grade.

Grades: 230, 275, 415 and 520 MPa (Grade 33, 40, 60 and 75).
Models: elasticpp, steel01, steel02.

Examples:
  opsrun material preset --grade 415
  opsrun material preset --grade "Grade 60" --model steel01 --b 0.02
  opsrun material preset --grade 415 --yaml > gr60.yaml
  opsrun material preset --list`,
	RunE: runMaterialPreset,
}

func init() {
	materialCmd.AddCommand(materialPresetCmd)

	materialPresetCmd.Flags().StringVarP(&presetGrade, "grade", "g", "415", "Bar grade, by fy in MPa or by name")
	materialPresetCmd.Flags().StringVarP(&presetModel, "model", "m", "steel02", "Material model")
	materialPresetCmd.Flags().IntVar(&presetTag, "tag", 1, "Material tag")
	materialPresetCmd.Flags().Float64Var(&presetB, "b", preset.DefaultHardening, "Strain hardening ratio")
	materialPresetCmd.Flags().BoolVar(&presetYAML, "yaml", false, "Print a material file instead of the command")
	materialPresetCmd.Flags().BoolVar(&presetList, "list", false, "List the available grades")
}

type presetFile struct {
	Name      string           `yaml:"name"`
	Tag       int              `yaml:"tag"`
	Materials []map[string]any `yaml:"materials"`
}

func runMaterialPreset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if presetList {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  Grade\tfy (MPa)\tεy")
		for _, g := range preset.Sorted() {
			fmt.Fprintf(w, "  %s\t%.0f\t%.6f\n", g.Name, g.Fy, g.YieldStrain())
		}
		return w.Flush()
	}

	g, err := preset.Lookup(presetGrade)
	if err != nil {
		return err
	}
	mat, err := preset.Build(presetModel, command.Tag(presetTag), g, presetB)
	if err != nil {
		return err
	}

	if !presetYAML {
		fmt.Fprintln(out, command.Render(mat))
		return nil
	}

	def := map[string]any{"tag": presetTag}
	switch m := mat.(type) {
	case *command.ElasticPP:
		def["type"], def["E"], def["eps_y"] = "ElasticPP", m.E, m.EpsY
	case *command.Steel01:
		def["type"], def["Fy"], def["E"], def["b"] = "Steel01", m.Fy, m.E, m.B
	case *command.Steel02:
		def["type"], def["Fy"], def["E"], def["b"] = "Steel02", m.Fy, m.E, m.B
	default:
		return fmt.Errorf("no file form for %T", mat)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(presetFile{Name: g.Name, Tag: presetTag, Materials: []map[string]any{def}}); err != nil {
		return err
	}
	return enc.Close()
}

