package analysis

import (
	"context"
	"fmt"

	"github.com/alexiusacademia/opsrun/internal/command"
	"github.com/alexiusacademia/opsrun/internal/loadpath"
)

// Channel names of a uniaxial material result.
const (
	ChannelDisp  = "disp"
	ChannelForce = "force"
	ChannelStiff = "stiff"
)

// UniaxialMaterial tests a uniaxial material under an imposed deformation
// history. The material is placed in a one-dimensional truss of unit length
// and area, so deformation reads as strain and force as stress.
type UniaxialMaterial struct {
	driver    *Driver
	tag       command.Tag
	materials []command.Command
}

// NewUniaxialMaterial tests the material with the given tag. materials must
// define it, along with any material it depends on.
func NewUniaxialMaterial(d *Driver, tag command.Tag, materials ...command.Command) *UniaxialMaterial {
	return &UniaxialMaterial{driver: d, tag: tag, materials: materials}
}

// Job builds the run imposing the path generated from peaks under p.
func (u *UniaxialMaterial) Job(peaks []float64, p loadpath.Policy) (Job, error) {
	path, err := loadpath.Generate1D(peaks, p)
	if err != nil {
		return Job{}, err
	}
	if len(u.materials) == 0 {
		return Job{}, fmt.Errorf("uniaxial material %d: no material definition", u.tag)
	}

	recorder := func(key, response string) command.Command {
		return command.ElementRecorder{
			Key:       key,
			Precision: 10,
			Elements:  []command.Tag{1},
			Response:  response,
		}
	}

	s := command.NewScript(
		command.Model{NDM: 1, NDF: 1},
		command.Node{Tag: 1, Coords: []float64{0}},
		command.Node{Tag: 2, Coords: []float64{1}},
		command.Fix{Node: 1, Flags: []int{1}},
	)
	s.Add(u.materials...)
	s.Add(
		command.Truss{Tag: 1, INode: 1, JNode: 2, A: 1, Mat: u.tag},
		command.PlainPattern{
			Tag:    1,
			Series: command.PathSeries{DT: 1, Key: "pattern", Factor: 1},
			Loads:  []command.Command{command.SP{Node: 2, DOF: 1, Value: 1}},
		},
		recorder("force", "force"),
		recorder("disp", "deformations"),
		recorder("stiff", "stiff"),
		command.NewLine("system", "UmfPack"),
		command.Transformation{},
		command.NewNormDispIncr(1e-8, 10, 0),
		command.Newton{},
		command.NewLine("numberer", "RCM"),
		command.LoadControl{Incr: 1},
		command.NewLine("analysis", "Static"),
	)
	s.Raw(
		fmt.Sprintf("set ok [analyze %d]", len(path)-2),
		fmt.Sprintf("if {$ok != 0} {exit %d}", ExitDiverged),
		fmt.Sprintf("exit %d", ExitConverged),
	)

	return Job{
		Name:   "UniaxialMaterial",
		Script: s,
		Data:   []DataFile{{Key: "pattern", Rows: loadpath.Column(path)}},
		Channels: []Channel{
			{Name: ChannelDisp, Key: "disp", Column: 0, Required: true},
			{Name: ChannelForce, Key: "force", Column: 1, Required: true},
			{Name: ChannelStiff, Key: "stiff", Column: 0},
		},
	}, nil
}

// Script returns the script text with file paths left as placeholders.
func (u *UniaxialMaterial) Script(peaks []float64, p loadpath.Policy) (string, error) {
	job, err := u.Job(peaks, p)
	if err != nil {
		return "", err
	}
	if err := job.Script.Validate(); err != nil {
		return "", err
	}
	return job.Script.Render(command.WithResolver(u.driver.resolver)), nil
}

// Run executes the test once.
func (u *UniaxialMaterial) Run(ctx context.Context, peaks []float64, p loadpath.Policy) (*Result, error) {
	job, err := u.Job(peaks, p)
	if err != nil {
		return nil, err
	}
	return u.driver.Execute(ctx, job)
}
