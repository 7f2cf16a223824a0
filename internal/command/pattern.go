package command

import "github.com/alexiusacademia/opsrun/internal/format"

// PathSeries is a time series read from a data file, one value per step.
//
//	Series -dt $dt -filePath {$path} -factor $cFactor
//
// Without a File the path is written as the placeholder Key.
type PathSeries struct {
	Base
	DT     float64
	File   string
	Key    string
	Factor float64
}

func (s PathSeries) Args(spec format.Spec) []string {
	path := BracePath(s.File)
	if s.File == "" {
		path = Placeholder(s.Key)
	}
	return []string{"Series", "-dt", format.Value(s.DT, spec), "-filePath", path, "-factor", format.Value(s.Factor, spec)}
}

func (s PathSeries) Validate() error {
	if s.File == "" && s.Key == "" {
		return invalid("Series", "no file and no placeholder key")
	}
	if s.DT <= 0 {
		return invalid("Series", "dt must be positive")
	}
	return nil
}

// PlainPattern is a load pattern applying its children scaled by Series.
//
//	pattern Plain $tag {$series} {
//	    sp ...
//	}
type PlainPattern struct {
	Base
	Tag    Tag
	Series Command
	Loads  []Command
}

func (p PlainPattern) Args(spec format.Spec) []string {
	args := []string{"pattern", "Plain", format.Value(p.Tag, spec)}
	if p.Series != nil {
		args = append(args, Nested(p.Series.Args(spec)))
	}
	return args
}

func (p PlainPattern) Children() []Command { return p.Loads }

func (p PlainPattern) Validate() error {
	if p.Series == nil {
		return invalid("pattern Plain", "missing time series")
	}
	return Validate(p.Series)
}

// SP imposes a single-point value on one dof.
//
//	sp $nodeTag $dof $value
type SP struct {
	Node  Tag
	DOF   int
	Value float64
}

func (c SP) Args(spec format.Spec) []string {
	return append([]string{"sp"}, format.Values(spec, c.Node, c.DOF, c.Value)...)
}
