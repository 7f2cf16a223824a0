package command

import "github.com/alexiusacademia/opsrun/internal/format"

// Elastic2D is an elastic section, optionally with shear deformation.
//
//	section Elastic $secTag $E $A $Iz <$G $alphaY>
type Elastic2D struct {
	Base
	Tag    Tag
	E      float64
	A      float64
	Iz     float64
	G      *float64 // shear modulus
	AlphaY *float64 // shear shape factor
}

func (s Elastic2D) Validate() error {
	if (s.G == nil) != (s.AlphaY == nil) {
		return invalid("section Elastic", "G and alphaY must be given together")
	}
	return nil
}

func (s Elastic2D) Args(spec format.Spec) []string {
	args := append([]string{"section", "Elastic"}, format.Values(spec, s.Tag, s.E, s.A, s.Iz)...)
	if s.G != nil && s.AlphaY != nil {
		args = append(args, format.Values(spec, *s.G, *s.AlphaY)...)
	}
	return args
}

// Fiber is a fiber section. Its fibers, patches and layers render as the
// block body.
//
//	section Fiber $secTag <-GJ $GJ> {
//	    fiber ...
//	    patch ...
//	}
type Fiber struct {
	Base
	Tag      Tag
	GJ       *float64
	Commands []Command
}

// NewFiber returns an empty fiber section.
func NewFiber(tag Tag) *Fiber {
	return &Fiber{Tag: tag}
}

// AddFiber adds a single fiber at (y, z).
func (s *Fiber) AddFiber(y, z, area float64, mat Tag) *Fiber {
	s.Commands = append(s.Commands, FiberPoint{Y: y, Z: z, Area: area, Mat: mat})
	return s
}

// Add appends patches, layers or other body commands.
func (s *Fiber) Add(cmds ...Command) *Fiber {
	s.Commands = append(s.Commands, cmds...)
	return s
}

func (s Fiber) Args(spec format.Spec) []string {
	args := []string{"section", "Fiber", format.Value(s.Tag, spec)}
	if s.GJ != nil {
		args = append(args, "-GJ", format.Value(*s.GJ, spec))
	}
	return args
}

func (s Fiber) Children() []Command { return s.Commands }

// FiberPoint is a single fiber.
//
//	fiber $yLoc $zLoc $A $matTag
type FiberPoint struct {
	Y, Z, Area float64
	Mat        Tag
}

func (f FiberPoint) Args(spec format.Spec) []string {
	return append([]string{"fiber"}, format.Values(spec, f.Y, f.Z, f.Area, f.Mat)...)
}

// PatchRect is a rectangular patch given by two opposite corners.
//
//	patch rect $matTag $numSubdivY $numSubdivZ $yI $zI $yJ $zJ
type PatchRect struct {
	Mat        Tag
	NumY, NumZ int
	YI, ZI     float64
	YJ, ZJ     float64
}

func (p PatchRect) Args(spec format.Spec) []string {
	return append([]string{"patch", "rect"}, format.Values(spec, p.Mat, p.NumY, p.NumZ, p.YI, p.ZI, p.YJ, p.ZJ)...)
}

// PatchQuad is a quadrilateral patch given by its four vertices I, J, K, L
// in counter-clockwise order.
//
//	patch quad $matTag $numSubdivIJ $numSubdivJK $yI $zI $yJ $zJ $yK $zK $yL $zL
type PatchQuad struct {
	Mat          Tag
	NumIJ, NumJK int
	Vertices     [4][2]float64
}

func (p PatchQuad) Args(spec format.Spec) []string {
	args := append([]string{"patch", "quad"}, format.Values(spec, p.Mat, p.NumIJ, p.NumJK)...)
	for _, v := range p.Vertices {
		args = append(args, format.Values(spec, v[0], v[1])...)
	}
	return args
}

// LayerStraight is a straight line of equally spaced bars.
//
//	layer straight $matTag $numFiber $areaFiber $yStart $zStart $yEnd $zEnd
type LayerStraight struct {
	Mat            Tag
	NumFibers      int
	Area           float64
	YStart, ZStart float64
	YEnd, ZEnd     float64
}

func (l LayerStraight) Args(spec format.Spec) []string {
	return append([]string{"layer", "straight"},
		format.Values(spec, l.Mat, l.NumFibers, l.Area, l.YStart, l.ZStart, l.YEnd, l.ZEnd)...)
}
