package command

import "github.com/alexiusacademia/opsrun/internal/format"

// Gauss-type integration rules for force-based elements. Each renders as
// "$name $secTag $N".
type (
	// Lobatto places points at both element ends. Order of accuracy 2N-3.
	Lobatto struct {
		Base
		Section Tag
		Points  int
	}
	// Legendre has no points at the element ends. Order of accuracy 2N-1.
	Legendre struct {
		Base
		Section Tag
		Points  int
	}
	// Radau places a point at one end only. Order of accuracy 2N-2.
	Radau struct {
		Base
		Section Tag
		Points  int
	}
	// NewtonCotes spaces points uniformly, ends included. Order of accuracy N-1.
	NewtonCotes struct {
		Base
		Section Tag
		Points  int
	}
)

func rule(spec format.Spec, name string, section Tag, points int) []string {
	return append([]string{name}, format.Values(spec, section, points)...)
}

func (r Lobatto) Args(spec format.Spec) []string {
	return rule(spec, "Lobatto", r.Section, r.Points)
}
func (r Legendre) Args(spec format.Spec) []string {
	return rule(spec, "Legendre", r.Section, r.Points)
}
func (r Radau) Args(spec format.Spec) []string {
	return rule(spec, "Radau", r.Section, r.Points)
}
func (r NewtonCotes) Args(spec format.Spec) []string {
	return rule(spec, "NewtonCotes", r.Section, r.Points)
}

// FixedLocation integrates at user-given points, each a factor of the
// element length.
//
//	FixedLocation $N $secTag1 ... $secTagN $loc1 ... $locN
type FixedLocation struct {
	Base
	Sections  []Tag
	Locations []float64
}

// NewFixedLocation rejects section and location lists of different length.
func NewFixedLocation(sections []Tag, locations []float64) (*FixedLocation, error) {
	r := &FixedLocation{Sections: sections, Locations: locations}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r FixedLocation) Validate() error {
	if len(r.Sections) != len(r.Locations) {
		return invalid("FixedLocation", "%d sections but %d locations", len(r.Sections), len(r.Locations))
	}
	return nil
}

func (r FixedLocation) Args(spec format.Spec) []string {
	args := []string{"FixedLocation", format.Value(len(r.Sections), spec)}
	args = append(args, format.Values(spec, tags(r.Sections)...)...)
	return append(args, format.Values(spec, floats(r.Locations)...)...)
}
