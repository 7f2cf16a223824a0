// Package analysis runs solver scripts in private workspaces and turns
// their exit codes and recorder files into results.
package analysis

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/alexiusacademia/opsrun/internal/command"
	"github.com/alexiusacademia/opsrun/internal/format"
	"github.com/alexiusacademia/opsrun/internal/loadpath"
	"github.com/alexiusacademia/opsrun/internal/scratch"
	"github.com/alexiusacademia/opsrun/internal/solver"
)

// ScriptKey is the workspace file name of the generated script.
const ScriptKey = "input"

// DataFile is a numeric table written to the workspace before the run. The
// script refers to it with command.Placeholder(Key).
type DataFile struct {
	Key  string
	Rows [][]float64
}

// Channel declares a result file the script records to
// command.Placeholder(Key) and the column of it to keep.
type Channel struct {
	Name     string
	Key      string
	Column   int
	Required bool
}

// Job is one solver run.
type Job struct {
	Name     string // workspace prefix
	Script   *command.Script
	Data     []DataFile
	Channels []Channel
}

// Driver executes jobs. A Driver holds no per-run state and may run jobs
// from several goroutines at once.
type Driver struct {
	solver   string
	scratch  string
	keep     bool
	echo     io.Writer
	logger   *zap.Logger
	metrics  *Metrics
	resolver *format.Resolver
	observe  func(job string, s State)
}

// Option configures a Driver.
type Option func(*Driver)

// WithSolver sets the solver binary, a path or a name on PATH.
func WithSolver(path string) Option {
	return func(d *Driver) { d.solver = path }
}

// WithScratch sets the directory workspaces are created in.
func WithScratch(root string) Option {
	return func(d *Driver) { d.scratch = root }
}

// WithKeepFiles leaves workspaces on disk after each run.
func WithKeepFiles(keep bool) Option {
	return func(d *Driver) { d.keep = keep }
}

// WithEcho copies solver output to w while it runs.
func WithEcho(w io.Writer) Option {
	return func(d *Driver) { d.echo = w }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics records every run in m.
func WithMetrics(m *Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// WithResolver renders scripts against r instead of the global resolver.
func WithResolver(r *format.Resolver) Option {
	return func(d *Driver) { d.resolver = r }
}

// WithObserver calls fn on every state change of every job.
func WithObserver(fn func(job string, s State)) Option {
	return func(d *Driver) { d.observe = fn }
}

// NewDriver returns a driver using solver.DefaultBinary and os.TempDir()
// unless configured otherwise.
func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		solver:   solver.DefaultBinary,
		logger:   zap.NewNop(),
		resolver: format.Global(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute runs job once.
//
// Exit code 1 returns a Succeeded result. Exit code 2 returns a Failed
// result carrying a warning and whatever the recorders wrote. Any other
// code, including a kill when ctx ends, returns an *ExitError and no
// result. A missing solver is reported before anything is written.
//
// The workspace is removed afterwards unless files are kept; failing to
// remove it is logged, never returned.
func (d *Driver) Execute(ctx context.Context, job Job) (result *Result, err error) {
	log := d.logger.With(zap.String("job", job.Name))
	state := StateIdle
	transition := func(s State) {
		state = s
		log.Debug("state", zap.Stringer("state", s))
		if d.observe != nil {
			d.observe(job.Name, s)
		}
	}
	transition(StateIdle)
	defer func() {
		if err != nil && state != StateErrored {
			transition(StateErrored)
		}
	}()

	if job.Script == nil {
		return nil, fmt.Errorf("analysis %s: no script", job.Name)
	}
	if err := job.Script.Validate(); err != nil {
		return nil, fmt.Errorf("analysis %s: %w", job.Name, err)
	}

	runnerOpts := []solver.Option{solver.WithLogger(log)}
	if d.echo != nil {
		runnerOpts = append(runnerOpts, solver.WithEcho(d.echo))
	}
	runner, err := solver.NewRunner(d.solver, runnerOpts...)
	if err != nil {
		return nil, err
	}

	ws, err := scratch.New(d.scratch, job.Name, scratch.WithKeep(d.keep))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			log.Warn("workspace cleanup failed", zap.Error(cerr))
		}
	}()

	scriptPath, text, err := d.assemble(ws, job)
	if err != nil {
		return nil, err
	}
	transition(StateScriptAssembled)

	transition(StateProcessRunning)
	proc, err := runner.Run(ctx, scriptPath)
	if err != nil {
		d.metrics.observe(Errored, 0)
		return nil, err
	}

	status := Classify(proc.ExitCode)
	if proc.Killed {
		status = Errored
	}
	d.metrics.observe(status, proc.Duration)

	if status == Errored {
		transition(StateErrored)
		log.Error("analysis errored", zap.Int("exit_code", proc.ExitCode), zap.Bool("killed", proc.Killed))
		return nil, &ExitError{Code: proc.ExitCode, Killed: proc.Killed, Output: proc.Output}
	}

	res := &Result{
		name:     job.Name,
		status:   status,
		exitCode: proc.ExitCode,
		output:   proc.Output,
		script:   text,
		duration: proc.Duration,
		channels: make(map[string][]float64, len(job.Channels)),
	}
	if d.keep {
		res.dir = ws.Dir()
	}
	if status == Failed {
		msg := fmt.Sprintf("%s: analysis failed to converge (exit code %d)", job.Name, proc.ExitCode)
		res.warnings = append(res.warnings, msg)
		log.Warn("analysis failed to converge", zap.Int("exit_code", proc.ExitCode))
	}

	for _, ch := range job.Channels {
		values, ok, err := readColumn(ws.Path(ch.Key, ".dat"), ch.Column)
		if err != nil {
			return nil, fmt.Errorf("analysis %s: channel %s: %w", job.Name, ch.Name, err)
		}
		if !ok {
			if ch.Required {
				return nil, fmt.Errorf("analysis %s: channel %s: %w", job.Name, ch.Name, ErrMissingResult)
			}
			log.Debug("optional channel empty", zap.String("channel", ch.Name))
			continue
		}
		res.names = append(res.names, ch.Name)
		res.channels[ch.Name] = values
	}

	transition(terminal(status))
	return res, nil
}

// assemble writes the data files and the filled-in script into ws.
func (d *Driver) assemble(ws *scratch.Workspace, job Job) (path, text string, err error) {
	paths := map[string]string{}
	for _, df := range job.Data {
		p := ws.Path(df.Key, ".dat")
		if err := writeTable(p, df.Rows); err != nil {
			return "", "", fmt.Errorf("analysis %s: write %s: %w", job.Name, df.Key, err)
		}
		paths[df.Key] = p
	}
	for _, ch := range job.Channels {
		paths[ch.Key] = ws.Path(ch.Key, ".dat")
	}

	text, err = command.Fill(job.Script.Render(command.WithResolver(d.resolver)), paths)
	if err != nil {
		return "", "", fmt.Errorf("analysis %s: %w", job.Name, err)
	}
	path = ws.Path(ScriptKey, ".tcl")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", "", fmt.Errorf("analysis %s: write script: %w", job.Name, err)
	}
	return path, text, nil
}

func writeTable(path string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := loadpath.WriteTable(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
