package command

import "github.com/alexiusacademia/opsrun/internal/format"

// Raw is a line of literal script text.
type Raw string

func (r Raw) Args(format.Spec) []string { return []string{string(r)} }

// Line is a free-form command: a name followed by formatted values. It
// covers the one-word declarations (system, numberer, analysis...) that
// need no dedicated type.
type Line struct {
	Base
	Name   string
	Values []any
}

// NewLine builds a Line.
func NewLine(name string, values ...any) *Line {
	return &Line{Name: name, Values: values}
}

func (l Line) Args(spec format.Spec) []string {
	return append([]string{l.Name}, format.Values(spec, l.Values...)...)
}

// Model declares the model builder.
//
//	model basic -ndm $ndm -ndf $ndf
type Model struct {
	Base
	NDM int // number of dimensions
	NDF int // degrees of freedom per node
}

func (m Model) Args(spec format.Spec) []string {
	return append([]string{"model", "basic"}, format.Values(spec, "-ndm", m.NDM, "-ndf", m.NDF)...)
}

// Node declares a node with its coordinates and optional nodal masses.
//
//	node $tag $coords... <-mass $masses...>
type Node struct {
	Base
	Tag    Tag
	Coords []float64
	Mass   []float64
}

func (n Node) Args(spec format.Spec) []string {
	args := append([]string{"node", format.Value(n.Tag, spec)}, format.Values(spec, floats(n.Coords)...)...)
	if len(n.Mass) > 0 {
		args = append(args, "-mass")
		args = append(args, format.Values(spec, floats(n.Mass)...)...)
	}
	return args
}

// Fix restrains the degrees of freedom of a node. Each flag is 1 (fixed)
// or 0 (free).
type Fix struct {
	Base
	Node  Tag
	Flags []int
}

func (f Fix) Args(spec format.Spec) []string {
	args := []string{"fix", format.Value(f.Node, spec)}
	for _, fl := range f.Flags {
		args = append(args, format.Value(fl, spec))
	}
	return args
}

func (f Fix) Validate() error {
	for _, fl := range f.Flags {
		if fl != 0 && fl != 1 {
			return invalid("fix", "restraint flags must be 0 or 1, got %d", fl)
		}
	}
	if len(f.Flags) == 0 {
		return invalid("fix", "no restraint flags")
	}
	return nil
}
