package command

import "github.com/alexiusacademia/opsrun/internal/format"

func uniaxial(spec format.Spec, name string, tag Tag, values ...any) []string {
	return append([]string{"uniaxialMaterial", name, format.Value(tag, spec)}, format.Values(spec, values...)...)
}

// Elastic is a linear elastic uniaxial material.
//
//	uniaxialMaterial Elastic $matTag $E <$eta> <$Eneg>
//
// eta is written only when nonzero or when Eneg is given.
type Elastic struct {
	Base
	Tag  Tag      `mapstructure:"tag"`
	E    float64  `mapstructure:"E"`
	Eta  float64  `mapstructure:"eta"`  // damping tangent
	Eneg *float64 `mapstructure:"Eneg"` // compression tangent, defaults to E
}

func (m Elastic) Args(spec format.Spec) []string {
	switch {
	case m.Eneg != nil:
		return uniaxial(spec, "Elastic", m.Tag, m.E, m.Eta, *m.Eneg)
	case m.Eta != 0:
		return uniaxial(spec, "Elastic", m.Tag, m.E, m.Eta)
	}
	return uniaxial(spec, "Elastic", m.Tag, m.E)
}

// ElasticPP is an elastic-perfectly-plastic uniaxial material.
//
//	uniaxialMaterial ElasticPP $matTag $E $epsyP <$epsyN $eps0>
type ElasticPP struct {
	Base
	Tag   Tag      `mapstructure:"tag"`
	E     float64  `mapstructure:"E"`
	EpsY  float64  `mapstructure:"eps_y"`  // yield strain in tension
	EpsYN *float64 `mapstructure:"eps_yN"` // yield strain in compression, defaults to EpsY
	Eps0  float64  `mapstructure:"eps0"`   // initial strain
}

func (m ElasticPP) Args(spec format.Spec) []string {
	epsYN := m.EpsY
	if m.EpsYN != nil {
		epsYN = *m.EpsYN
	}
	switch {
	case m.Eps0 != 0:
		return uniaxial(spec, "ElasticPP", m.Tag, m.E, m.EpsY, epsYN, m.Eps0)
	case m.EpsYN != nil:
		return uniaxial(spec, "ElasticPP", m.Tag, m.E, m.EpsY, epsYN)
	}
	return uniaxial(spec, "ElasticPP", m.Tag, m.E, m.EpsY)
}

// Steel01 is the bilinear steel model with optional isotropic hardening.
//
//	uniaxialMaterial Steel01 $matTag $Fy $E0 $b <$a1 $a2 $a3 $a4>
//
// Iso holds a1..a4 and must be empty or complete.
type Steel01 struct {
	Base
	Tag Tag       `mapstructure:"tag"`
	Fy  float64   `mapstructure:"Fy"`
	E   float64   `mapstructure:"E"`
	B   float64   `mapstructure:"b"` // strain hardening ratio
	Iso []float64 `mapstructure:"iso"`
}

// NewSteel01 builds a Steel01, rejecting an incomplete hardening group.
func NewSteel01(tag Tag, fy, e, b float64, iso ...float64) (*Steel01, error) {
	m := &Steel01{Tag: tag, Fy: fy, E: e, B: b, Iso: iso}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m Steel01) Validate() error {
	return checkIso("Steel01", m.Iso)
}

func (m Steel01) Args(spec format.Spec) []string {
	values := []any{m.Fy, m.E, m.B}
	if len(m.Iso) == 4 {
		values = append(values, floats(m.Iso)...)
	}
	return uniaxial(spec, "Steel01", m.Tag, values...)
}

// Steel02 is the Giuffre-Menegotto-Pinto steel model.
//
//	uniaxialMaterial Steel02 $matTag $Fy $E $b $R0 $cR1 $cR2 <$a1 $a2 $a3 $a4 $sigInit>
type Steel02 struct {
	Base
	Tag       Tag       `mapstructure:"tag"`
	Fy        float64   `mapstructure:"Fy"`
	E         float64   `mapstructure:"E"`
	B         float64   `mapstructure:"b"`
	R0        float64   `mapstructure:"R0"`
	CR1       float64   `mapstructure:"cR1"`
	CR2       float64   `mapstructure:"cR2"`
	Iso       []float64 `mapstructure:"iso"`
	SigmaInit *float64  `mapstructure:"sigma_i"` // initial stress
}

// Default elastic-to-plastic transition parameters of Steel02.
const (
	DefaultR0  = 20
	DefaultCR1 = 0.925
	DefaultCR2 = 0.15
)

// Isotropic hardening values Steel02 writes when only an initial stress is
// given.
var steel02NoHardening = []float64{0, 1, 0, 1}

// NewSteel02 builds a Steel02 with the recommended transition parameters.
func NewSteel02(tag Tag, fy, e, b float64, iso ...float64) (*Steel02, error) {
	m := &Steel02{Tag: tag, Fy: fy, E: e, B: b, R0: DefaultR0, CR1: DefaultCR1, CR2: DefaultCR2, Iso: iso}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m Steel02) Validate() error {
	return checkIso("Steel02", m.Iso)
}

func (m Steel02) Args(spec format.Spec) []string {
	values := []any{m.Fy, m.E, m.B, m.R0, m.CR1, m.CR2}
	switch {
	case m.SigmaInit != nil && len(m.Iso) == 4:
		values = append(append(values, floats(m.Iso)...), *m.SigmaInit)
	case m.SigmaInit != nil:
		values = append(append(values, floats(steel02NoHardening)...), *m.SigmaInit)
	case len(m.Iso) == 4:
		values = append(values, floats(m.Iso)...)
	}
	return uniaxial(spec, "Steel02", m.Tag, values...)
}

// Hardening is the combined linear kinematic and isotropic hardening model.
//
//	uniaxialMaterial Hardening $matTag $E $sigmaY $H_iso $H_kin <$eta>
type Hardening struct {
	Base
	Tag    Tag     `mapstructure:"tag"`
	E      float64 `mapstructure:"E"`
	SigmaY float64 `mapstructure:"sigmaY"`
	HIso   float64 `mapstructure:"H_iso"`
	HKin   float64 `mapstructure:"H_kin"`
	Eta    float64 `mapstructure:"eta"`
}

func (m Hardening) Args(spec format.Spec) []string {
	values := []any{m.E, m.SigmaY, m.HIso, m.HKin}
	if m.Eta != 0 {
		values = append(values, m.Eta)
	}
	return uniaxial(spec, "Hardening", m.Tag, values...)
}

func (m Hardening) Validate() error {
	if m.E <= 0 {
		return invalid("Hardening", "E must be positive")
	}
	return nil
}

func checkIso(command string, iso []float64) error {
	if n := len(iso); n != 0 && n != 4 {
		return invalid(command, "isotropic hardening definition incomplete (expected 4 params, got %d)", n)
	}
	return nil
}
