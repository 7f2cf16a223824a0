// Package solver resolves and runs the external solver binary.
package solver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBinary is looked up on PATH when no solver path is configured.
const DefaultBinary = "OpenSees"

// ErrNotFound is returned when the solver binary cannot be located or
// executed.
var ErrNotFound = errors.New("solver not found")

// Resolve returns the absolute path of binary, searching PATH for bare
// names. An empty binary means DefaultBinary.
func Resolve(binary string) (string, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrNotFound, binary, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrNotFound, binary, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrNotFound, binary, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, abs)
	}
	return abs, nil
}

// Process is the outcome of one solver run.
type Process struct {
	Args     []string
	ExitCode int    // -1 when the process was killed by a signal
	Output   string // stdout and stderr interleaved as written
	Duration time.Duration
	Killed   bool // the context ended and the process did not exit on its own
}

// Runner runs scripts with one solver binary.
type Runner struct {
	binary    string
	echo      io.Writer
	logger    *zap.Logger
	waitDelay time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithEcho copies solver output to w line by line as it is produced.
func WithEcho(w io.Writer) Option {
	return func(r *Runner) {
		r.echo = w
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithWaitDelay bounds how long Run waits for output to drain after the
// process is killed.
func WithWaitDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.waitDelay = d
	}
}

// NewRunner resolves binary and fails fast when it is missing.
func NewRunner(binary string, opts ...Option) (*Runner, error) {
	path, err := Resolve(binary)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		binary:    path,
		logger:    zap.NewNop(),
		waitDelay: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Binary returns the resolved solver path.
func (r *Runner) Binary() string {
	return r.binary
}

// Run executes "<binary> <script>" in the script's directory and blocks
// until it exits. Output is read line by line while the process runs so a
// chatty solver never stalls on a full pipe.
//
// A non-zero exit status is not an error; callers classify ExitCode. When
// ctx ends first the process is killed and reported with Killed set. A ctx
// that is already done when Run is called is reported the same way; the
// process is never started.
func (r *Runner) Run(ctx context.Context, script string) (*Process, error) {
	cmd := exec.CommandContext(ctx, r.binary, script)
	cmd.Dir = filepath.Dir(script)
	cmd.WaitDelay = r.waitDelay

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	var out strings.Builder
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.stream(pr, &out)
	}()

	log := r.logger.With(zap.String("script", script))
	log.Debug("starting solver", zap.String("binary", r.binary))

	start := time.Now()
	if err := cmd.Start(); err != nil {
		pw.Close()
		<-done
		if ctx.Err() != nil {
			log.Warn("solver not started", zap.Error(ctx.Err()))
			return &Process{Args: cmd.Args, ExitCode: -1, Killed: true}, nil
		}
		return nil, fmt.Errorf("%w: start %s: %w", ErrNotFound, r.binary, err)
	}
	waitErr := cmd.Wait()
	pw.Close()
	<-done

	p := &Process{
		Args:     cmd.Args,
		ExitCode: -1,
		Output:   out.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		p.ExitCode = cmd.ProcessState.ExitCode()
	}
	// A process that exited with a status before ctx ended keeps it.
	p.Killed = ctx.Err() != nil && p.ExitCode == -1

	var exitErr *exec.ExitError
	switch {
	case p.Killed:
		log.Warn("solver killed", zap.Error(ctx.Err()), zap.Duration("duration", p.Duration))
		return p, nil
	case waitErr == nil, errors.As(waitErr, &exitErr), errors.Is(waitErr, exec.ErrWaitDelay):
	default:
		return p, fmt.Errorf("solver: wait: %w", waitErr)
	}

	log.Info("solver exited", zap.Int("exit_code", p.ExitCode), zap.Duration("duration", p.Duration))
	return p, nil
}

func (r *Runner) stream(src *io.PipeReader, out *strings.Builder) {
	br := bufio.NewReader(src)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			out.WriteString(line)
			if r.echo != nil {
				io.WriteString(r.echo, line)
			}
			r.logger.Debug("solver output", zap.String("line", strings.TrimRight(line, "\r\n")))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.logger.Warn("reading solver output", zap.Error(err))
			}
			// Keep the writer side unblocked until it closes.
			_, _ = io.Copy(io.Discard, src)
			return
		}
	}
}
