package command

import "github.com/alexiusacademia/opsrun/internal/format"

// Truss is a two-node axial element.
//
//	element truss $eleTag $iNode $jNode $A $matTag <-rho $rho> <-cMass 1> <-doRayleigh 1>
type Truss struct {
	Base
	Tag        Tag
	INode      Tag
	JNode      Tag
	A          float64
	Mat        Tag
	Rho        *float64 // mass per unit length
	CMass      bool     // consistent mass matrix
	DoRayleigh bool
}

func (e Truss) Args(spec format.Spec) []string {
	args := append([]string{"element", "truss"}, format.Values(spec, e.Tag, e.INode, e.JNode, e.A, e.Mat)...)
	if e.Rho != nil {
		args = append(args, "-rho", format.Value(*e.Rho, spec))
	}
	if e.CMass {
		args = append(args, "-cMass", format.Value(1, spec))
	}
	if e.DoRayleigh {
		args = append(args, "-doRayleigh", format.Value(1, spec))
	}
	return args
}

// ElasticBeamColumn2D is an elastic beam-column without shear deformation.
//
//	element elasticBeamColumn $eleTag $iNode $jNode $A $E $Iz $transfTag <-mass $massDens> <-cMass>
type ElasticBeamColumn2D struct {
	Base
	Tag    Tag
	INode  Tag
	JNode  Tag
	A      float64
	E      float64
	Iz     float64
	Transf Tag
	Mass   *float64
	CMass  bool
}

func (e ElasticBeamColumn2D) Args(spec format.Spec) []string {
	args := append([]string{"element", "elasticBeamColumn"},
		format.Values(spec, e.Tag, e.INode, e.JNode, e.A, e.E, e.Iz, e.Transf)...)
	if e.Mass != nil {
		args = append(args, "-mass", format.Value(*e.Mass, spec))
	}
	if e.CMass {
		args = append(args, "-cMass")
	}
	return args
}

// ForceBeamColumn is a force-based beam-column. Its integration rule is
// nested in the command as a braced word and rendered with the element's
// spec.
//
//	element forceBeamColumn $eleTag $iNode $jNode $transfTag {$integration} <-mass $mass> <-iter $maxIter $tol>
type ForceBeamColumn struct {
	Base
	Tag         Tag
	INode       Tag
	JNode       Tag
	Transf      Tag
	Integration Command
	Mass        *float64
	Iterative   bool
	MaxIters    int
	IterTol     float64
}

// NewForceBeamColumn builds a non-iterative element with the solver's
// default iteration limits.
func NewForceBeamColumn(tag, iNode, jNode, transf Tag, integration Command) *ForceBeamColumn {
	return &ForceBeamColumn{
		Tag:         tag,
		INode:       iNode,
		JNode:       jNode,
		Transf:      transf,
		Integration: integration,
		MaxIters:    10,
		IterTol:     1e-12,
	}
}

func (e ForceBeamColumn) Args(spec format.Spec) []string {
	args := append([]string{"element", "forceBeamColumn"}, format.Values(spec, e.Tag, e.INode, e.JNode, e.Transf)...)
	if e.Integration != nil {
		args = append(args, Nested(e.Integration.Args(spec)))
	}
	if e.Mass != nil {
		args = append(args, "-mass", format.Value(*e.Mass, spec))
	}
	if e.Iterative {
		args = append(args, "-iter")
		args = append(args, format.Values(spec, e.MaxIters, e.IterTol)...)
	}
	return args
}

func (e ForceBeamColumn) Validate() error {
	if e.Integration == nil {
		return invalid("forceBeamColumn", "missing integration rule")
	}
	return Validate(e.Integration)
}
