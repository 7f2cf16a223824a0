// Package preset builds material commands for standard reinforcing steel.
package preset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexiusacademia/opsrun/internal/command"
)

// NSCP 2015 steel constants

const (
	// Modulus of elasticity for steel (Section 420.2.2)
	Es = 200000.0 // MPa

	// Strain hardening ratio used when none is given
	DefaultHardening = 0.01
)

// Grade is a reinforcing bar grade.
type Grade struct {
	Name string  // e.g. "Grade 60"
	Fy   float64 // specified yield strength, MPa
}

// YieldStrain returns fy / Es.
func (g Grade) YieldStrain() float64 {
	return g.Fy / Es
}

func (g Grade) String() string {
	return fmt.Sprintf("%s (fy = %g MPa)", g.Name, g.Fy)
}

// Grades of deformed bars (PNS 49 / ASTM A615), keyed by fy in MPa.
var Grades = map[int]Grade{
	230: {Name: "Grade 33", Fy: 230},
	275: {Name: "Grade 40", Fy: 275},
	415: {Name: "Grade 60", Fy: 415},
	520: {Name: "Grade 75", Fy: 520},
}

// Models lists the material models a preset can be built as.
var Models = []string{"elasticpp", "steel01", "steel02"}

// Lookup finds a grade by yield strength ("415") or name ("Grade 60",
// "grade60", "60").
func Lookup(s string) (Grade, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if fy, err := strconv.Atoi(key); err == nil {
		if g, ok := Grades[fy]; ok {
			return g, nil
		}
	}
	key = strings.TrimPrefix(key, "grade")
	for _, g := range Grades {
		if strings.TrimPrefix(strings.ToLower(strings.ReplaceAll(g.Name, " ", "")), "grade") == key {
			return g, nil
		}
	}
	return Grade{}, fmt.Errorf("unknown steel grade %q (valid: %s)", s, strings.Join(gradeNames(), ", "))
}

// Sorted returns the grades by increasing yield strength.
func Sorted() []Grade {
	out := make([]Grade, 0, len(Grades))
	for _, g := range Grades {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fy < out[j].Fy })
	return out
}

func gradeNames() []string {
	var names []string
	for _, g := range Sorted() {
		names = append(names, strconv.FormatFloat(g.Fy, 'f', -1, 64))
	}
	return names
}

// Steel01 returns the bilinear model of g with hardening ratio b.
func Steel01(tag command.Tag, g Grade, b float64) (*command.Steel01, error) {
	return command.NewSteel01(tag, g.Fy, Es, b)
}

// Steel02 returns the Menegotto-Pinto model of g with hardening ratio b and
// the default transition parameters.
func Steel02(tag command.Tag, g Grade, b float64) (*command.Steel02, error) {
	return command.NewSteel02(tag, g.Fy, Es, b)
}

// ElasticPP returns the elastic-perfectly plastic model of g.
func ElasticPP(tag command.Tag, g Grade) *command.ElasticPP {
	return &command.ElasticPP{Tag: tag, E: Es, EpsY: g.YieldStrain()}
}

// Build returns g as one of Models. b is ignored by elasticpp.
func Build(model string, tag command.Tag, g Grade, b float64) (command.Command, error) {
	var (
		cmd command.Command
		err error
	)
	switch strings.ToLower(model) {
	case "elasticpp":
		cmd = ElasticPP(tag, g)
	case "steel01":
		cmd, err = Steel01(tag, g, b)
	case "", "steel02":
		cmd, err = Steel02(tag, g, b)
	default:
		err = fmt.Errorf("unknown material model %q (valid: %s)", model, strings.Join(Models, ", "))
	}
	if err != nil {
		return nil, err
	}
	return cmd, nil
}
