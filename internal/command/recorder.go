package command

import "github.com/alexiusacademia/opsrun/internal/format"

var fileFormats = map[string]bool{"": true, "file": true, "xml": true, "binary": true}

// recordTarget renders the output file of a recorder. Without a File the
// recorder writes a placeholder named Key (or "file") to be filled once the
// workspace exists.
func recordTarget(fileFormat, file, key string) []string {
	if fileFormat == "" {
		fileFormat = "file"
	}
	target := BracePath(file)
	if file == "" {
		if key == "" {
			key = "file"
		}
		target = Placeholder(key)
	}
	return []string{"-" + fileFormat, target}
}

// ElementRecorder records an element response.
//
//	recorder Element -file {$path} -ele $tags... <-precision $n> <-dof $dofs...> $response
type ElementRecorder struct {
	Base
	File       string
	Key        string // placeholder name when File is empty
	FileFormat string // file (default), xml or binary
	Precision  int    // significant digits; 0 keeps the solver default
	Elements   []Tag
	DOFs       []int
	Response   string
}

func (r ElementRecorder) Args(spec format.Spec) []string {
	args := append([]string{"recorder", "Element"}, recordTarget(r.FileFormat, r.File, r.Key)...)
	args = append(args, "-ele")
	args = append(args, format.Values(spec, tags(r.Elements)...)...)
	if r.Precision > 0 {
		args = append(args, "-precision", format.Value(r.Precision, spec))
	}
	if len(r.DOFs) > 0 {
		args = append(args, "-dof")
		for _, d := range r.DOFs {
			args = append(args, format.Value(d, spec))
		}
	}
	return append(args, r.Response)
}

func (r ElementRecorder) Validate() error {
	if _, err := oneOf("recorder Element", "file format", r.FileFormat, fileFormats); err != nil {
		return err
	}
	if len(r.Elements) == 0 {
		return invalid("recorder Element", "no elements")
	}
	if r.Response == "" {
		return invalid("recorder Element", "no response")
	}
	return nil
}

// NodeRecorder records a nodal response (disp, vel, accel, incrDisp,
// reaction...).
//
//	recorder Node -file {$path} <-precision $n> <-timeSeries $ts> <-time> <-node $tags...> <-nodeRange $a $b> <-dof $dofs...> $response
type NodeRecorder struct {
	Base
	File       string
	Key        string
	FileFormat string
	Precision  int
	TimeSeries *Tag
	Time       bool // domain time in the first column
	Nodes      []Tag
	NodeRange  *[2]Tag
	DOFs       []int
	Response   string
}

func (r NodeRecorder) Args(spec format.Spec) []string {
	args := append([]string{"recorder", "Node"}, recordTarget(r.FileFormat, r.File, r.Key)...)
	if r.Precision > 0 {
		args = append(args, "-precision", format.Value(r.Precision, spec))
	}
	if r.TimeSeries != nil {
		args = append(args, "-timeSeries", format.Value(*r.TimeSeries, spec))
	}
	if r.Time {
		args = append(args, "-time")
	}
	if len(r.Nodes) > 0 {
		args = append(args, "-node")
		args = append(args, format.Values(spec, tags(r.Nodes)...)...)
	}
	if r.NodeRange != nil {
		args = append(args, "-nodeRange", format.Value(r.NodeRange[0], spec), format.Value(r.NodeRange[1], spec))
	}
	if len(r.DOFs) > 0 {
		args = append(args, "-dof")
		for _, d := range r.DOFs {
			args = append(args, format.Value(d, spec))
		}
	}
	return append(args, r.Response)
}

func (r NodeRecorder) Validate() error {
	if _, err := oneOf("recorder Node", "file format", r.FileFormat, fileFormats); err != nil {
		return err
	}
	if len(r.Nodes) == 0 && r.NodeRange == nil {
		return invalid("recorder Node", "no nodes")
	}
	if r.Response == "" {
		return invalid("recorder Node", "no response")
	}
	return nil
}
