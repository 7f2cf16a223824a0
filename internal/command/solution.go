package command

import (
	"strconv"

	"github.com/alexiusacademia/opsrun/internal/format"
)

// Constraint handlers.
type (
	// Plain supports only fix and equalDOF constraints.
	Plain struct{ Base }
	// Transformation enforces single-point constraints directly.
	Transformation struct{ Base }
	// Penalty enforces constraints with penalty factors.
	Penalty struct {
		Base
		AlphaS float64 // single-point
		AlphaM float64 // multi-point
	}
	// Lagrange enforces constraints with Lagrange multipliers.
	Lagrange struct {
		Base
		AlphaS float64
		AlphaM float64
	}
)

func (Plain) Args(format.Spec) []string          { return []string{"constraints", "Plain"} }
func (Transformation) Args(format.Spec) []string { return []string{"constraints", "Transformation"} }

func (c Penalty) Args(spec format.Spec) []string {
	return append([]string{"constraints", "Penalty"}, format.Values(spec, c.AlphaS, c.AlphaM)...)
}

func (c Lagrange) Args(spec format.Spec) []string {
	return append([]string{"constraints", "Lagrange"}, format.Values(spec, c.AlphaS, c.AlphaM)...)
}

// TestParams are the arguments shared by the norm-based convergence tests.
//
//	test $type $tol $maxIter <$printFlag> <$normType>
type TestParams struct {
	Tolerance float64
	MaxIters  int
	PrintFlag int
	NormType  int // 0 max-norm, 1 1-norm, 2 2-norm...
}

var printFlags = map[string]bool{"0": true, "1": true, "2": true, "4": true, "5": true}

func (p TestParams) args(spec format.Spec, name string) []string {
	return append([]string{"test", name}, format.Values(spec, p.Tolerance, p.MaxIters, p.PrintFlag, p.NormType)...)
}

func (p TestParams) validate(name string) error {
	if _, err := oneOf(name, "print flag", strconv.Itoa(p.PrintFlag), printFlags); err != nil {
		return err
	}
	if p.MaxIters <= 0 {
		return invalid(name, "max iterations must be positive, got %d", p.MaxIters)
	}
	return nil
}

func testParams(tol float64, maxIters int, flags []int) TestParams {
	p := TestParams{Tolerance: tol, MaxIters: maxIters, NormType: 2}
	if len(flags) > 0 {
		p.PrintFlag = flags[0]
	}
	if len(flags) > 1 {
		p.NormType = flags[1]
	}
	return p
}

// Convergence tests.
type (
	// NormUnbalance tests the norm of the right-hand side.
	NormUnbalance struct {
		Base
		TestParams
	}
	// NormDispIncr tests the norm of the solution vector.
	NormDispIncr struct {
		Base
		TestParams
	}
	// EnergyIncr tests the energy increment.
	EnergyIncr struct {
		Base
		TestParams
	}
)

// NewNormUnbalance takes an optional print flag and norm type, in that
// order. The norm type defaults to 2.
func NewNormUnbalance(tol float64, maxIters int, flags ...int) *NormUnbalance {
	return &NormUnbalance{TestParams: testParams(tol, maxIters, flags)}
}

// NewNormDispIncr is like NewNormUnbalance.
func NewNormDispIncr(tol float64, maxIters int, flags ...int) *NormDispIncr {
	return &NormDispIncr{TestParams: testParams(tol, maxIters, flags)}
}

// NewEnergyIncr is like NewNormUnbalance.
func NewEnergyIncr(tol float64, maxIters int, flags ...int) *EnergyIncr {
	return &EnergyIncr{TestParams: testParams(tol, maxIters, flags)}
}

func (t NormUnbalance) Args(spec format.Spec) []string { return t.args(spec, "NormUnbalance") }
func (t NormDispIncr) Args(spec format.Spec) []string  { return t.args(spec, "NormDispIncr") }
func (t EnergyIncr) Args(spec format.Spec) []string    { return t.args(spec, "EnergyIncr") }

func (t NormUnbalance) Validate() error { return t.validate("NormUnbalance") }
func (t NormDispIncr) Validate() error  { return t.validate("NormDispIncr") }
func (t EnergyIncr) Validate() error    { return t.validate("EnergyIncr") }

// Tangent flags accepted by each algorithm. "" is the same as "current".
var (
	linearTangents = map[string]string{
		"":        "",
		"current": "",
		"initial": "-initial",
		"secant":  "-secant",
	}
	newtonTangents = map[string]string{
		"":                   "",
		"current":            "",
		"initial":            "-initial",
		"initialThenCurrent": "-intialThenCurrent", // solver's spelling
		"secant":             "-secant",
		"hall":               "-hall",
	}
	modifiedNewtonTangents = map[string]string{
		"":        "",
		"current": "",
		"initial": "-initial",
		"secant":  "-secant",
		"hall":    "-hall",
	}
)

func algorithm(name, tangent string, table map[string]string) []string {
	args := []string{"algorithm", name}
	if flag := table[tangent]; flag != "" {
		args = append(args, flag)
	}
	return args
}

// Linear solves the system in one iteration.
type Linear struct {
	Base
	Tangent    string
	FactorOnce bool
}

func (a Linear) Args(format.Spec) []string {
	args := algorithm("Linear", a.Tangent, linearTangents)
	if a.FactorOnce {
		args = append(args, "-factorOnce")
	}
	return args
}

func (a Linear) Validate() error {
	_, err := oneOf("Linear", "tangent", a.Tangent, linearTangents)
	return err
}

// Newton is the Newton-Raphson algorithm.
type Newton struct {
	Base
	Tangent string
}

func (a Newton) Args(format.Spec) []string {
	return algorithm("Newton", a.Tangent, newtonTangents)
}

func (a Newton) Validate() error {
	_, err := oneOf("Newton", "tangent", a.Tangent, newtonTangents)
	return err
}

// ModifiedNewton is the modified Newton-Raphson algorithm.
type ModifiedNewton struct {
	Base
	Tangent string
}

func (a ModifiedNewton) Args(format.Spec) []string {
	return algorithm("ModifiedNewton", a.Tangent, modifiedNewtonTangents)
}

func (a ModifiedNewton) Validate() error {
	_, err := oneOf("ModifiedNewton", "tangent", a.Tangent, modifiedNewtonTangents)
	return err
}

// LoadControl is the static load-control integrator.
//
//	integrator LoadControl $lambda <$numIter $minLambda $maxLambda>
//
// NumIters 0 means 1; nil bounds default to Incr.
type LoadControl struct {
	Base
	Incr     float64
	NumIters int
	MinIncr  *float64
	MaxIncr  *float64
}

func (i LoadControl) Args(spec format.Spec) []string {
	lo, hi := bounds(i.Incr, i.MinIncr, i.MaxIncr)
	return append([]string{"integrator", "LoadControl"}, format.Values(spec, i.Incr, iters(i.NumIters), lo, hi)...)
}

// DisplacementControl controls the step by the displacement of one dof.
//
//	integrator DisplacementControl $node $dof $incr <$numIter $dUmin $dUmax>
type DisplacementControl struct {
	Base
	Node     Tag
	DOF      int
	Incr     float64
	NumIters int
	MinIncr  *float64
	MaxIncr  *float64
}

func (i DisplacementControl) Args(spec format.Spec) []string {
	lo, hi := bounds(i.Incr, i.MinIncr, i.MaxIncr)
	return append([]string{"integrator", "DisplacementControl"},
		format.Values(spec, i.Node, i.DOF, i.Incr, iters(i.NumIters), lo, hi)...)
}

func (i DisplacementControl) Validate() error {
	if i.DOF < 1 {
		return invalid("DisplacementControl", "dof must be at least 1, got %d", i.DOF)
	}
	return nil
}

func bounds(incr float64, lo, hi *float64) (float64, float64) {
	l, h := incr, incr
	if lo != nil {
		l = *lo
	}
	if hi != nil {
		h = *hi
	}
	return l, h
}

func iters(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
