package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alexiusacademia/opsrun/internal/command"
	"github.com/alexiusacademia/opsrun/internal/format"
	"github.com/alexiusacademia/opsrun/internal/loadpath"
	"github.com/alexiusacademia/opsrun/internal/solver"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const writeResults = `dir=$(dirname "$1")
printf '0\n0.5\n1\n' > "$dir/disp.dat"
printf '1 0\n1 14500\n1 29000\n' > "$dir/force.dat"
`

// fakeSolver writes a shell script standing in for the solver. It gets the
// generated script path as $1 and writes recorder files next to it.
func fakeSolver(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake solver needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "OpenSees")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func rate(t *testing.T, step float64) loadpath.Policy {
	t.Helper()
	p, err := loadpath.Rate(step)
	require.NoError(t, err)
	return p
}

func elastic(d *Driver) *UniaxialMaterial {
	return NewUniaxialMaterial(d, 1, command.Elastic{Tag: 1, E: 29000})
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Succeeded, Classify(1))
	assert.Equal(t, Failed, Classify(2))
	for _, code := range []int{-1, 0, 3, 7, 255} {
		assert.Equal(t, Errored, Classify(code), "exit code %d", code)
	}
}

func TestExitCodeSucceeded(t *testing.T) {
	root := t.TempDir()
	var states []State
	d := NewDriver(
		WithSolver(fakeSolver(t, writeResults+"echo analysis done\nexit 1")),
		WithScratch(root),
		WithResolver(format.NewResolver()),
		WithObserver(func(_ string, s State) { states = append(states, s) }),
	)

	res, err := elastic(d).Run(context.Background(), []float64{0, 1, -1}, rate(t, 0.25))
	require.NoError(t, err)

	assert.Equal(t, Succeeded, res.Status())
	assert.Equal(t, 1, res.ExitCode())
	assert.Empty(t, res.Warnings())
	assert.Equal(t, "analysis done\n", res.Output())
	assert.Equal(t, []string{ChannelDisp, ChannelForce}, res.Names())

	disp, ok := res.Channel(ChannelDisp)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0.5, 1}, disp)
	force, ok := res.Channel(ChannelForce)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 14500, 29000}, force)
	_, ok = res.Channel(ChannelStiff)
	assert.False(t, ok, "empty optional channel is omitted")
	assert.Equal(t, 3, res.Len())

	assert.Contains(t, res.Script(), "set ok [analyze 13]\n")
	assert.NotContains(t, res.Script(), "@{")
	assert.Empty(t, res.Dir())
	assertEmptyDir(t, root)

	assert.Equal(t, []State{StateIdle, StateScriptAssembled, StateProcessRunning, StateSucceeded}, states)
}

func TestExitCodeFailed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	d := NewDriver(
		WithSolver(fakeSolver(t, `dir=$(dirname "$1")
printf '0\n0.25\n' > "$dir/disp.dat"
printf '1 0\n1 7250\n' > "$dir/force.dat"
printf '29000\n29000\n' > "$dir/stiff.dat"
exit 2`)),
		WithScratch(t.TempDir()),
		WithLogger(zap.New(core)),
	)

	res, err := elastic(d).Run(context.Background(), []float64{0, 1}, rate(t, 0.25))
	require.NoError(t, err)

	assert.Equal(t, Failed, res.Status())
	require.Len(t, res.Warnings(), 1)
	assert.Contains(t, res.Warnings()[0], "failed to converge")
	assert.Equal(t, []string{ChannelDisp, ChannelForce, ChannelStiff}, res.Names())
	stiff, _ := res.Channel(ChannelStiff)
	assert.Equal(t, []float64{29000, 29000}, stiff)

	assert.Equal(t, 1, logs.FilterMessage("analysis failed to converge").Len())
}

func TestExitCodeErrored(t *testing.T) {
	root := t.TempDir()
	var states []State
	d := NewDriver(
		WithSolver(fakeSolver(t, writeResults+"echo 'segfault-ish' >&2\nexit 7")),
		WithScratch(root),
		WithObserver(func(_ string, s State) { states = append(states, s) }),
	)

	res, err := elastic(d).Run(context.Background(), []float64{0, 1, -1}, rate(t, 0.25))
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrErrored)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 7, exitErr.Code)
	assert.Contains(t, exitErr.Output, "segfault-ish")
	assert.Contains(t, err.Error(), "exit code: 7")

	assertEmptyDir(t, root)
	assert.Equal(t, StateErrored, states[len(states)-1])
}

func TestKilledIsErrored(t *testing.T) {
	d := NewDriver(
		WithSolver(fakeSolver(t, "exec sleep 30")),
		WithScratch(t.TempDir()),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := elastic(d).Run(ctx, []float64{0, 1}, rate(t, 0.5))
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.True(t, exitErr.Killed)
	assert.ErrorIs(t, err, ErrErrored)
}

func TestContextDoneBeforeStartIsErrored(t *testing.T) {
	root := t.TempDir()
	d := NewDriver(
		WithSolver(fakeSolver(t, writeResults+"exit 1")),
		WithScratch(root),
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := elastic(d).Run(ctx, []float64{0, 1}, rate(t, 0.5))
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.True(t, exitErr.Killed)
	assert.ErrorIs(t, err, ErrErrored)
	assert.NotErrorIs(t, err, solver.ErrNotFound)
	assertEmptyDir(t, root)
}

func TestMissingRequiredResult(t *testing.T) {
	root := t.TempDir()
	d := NewDriver(
		WithSolver(fakeSolver(t, `dir=$(dirname "$1")
printf '0\n1\n' > "$dir/disp.dat"
: > "$dir/force.dat"
exit 1`)),
		WithScratch(root),
	)

	_, err := elastic(d).Run(context.Background(), []float64{0, 1}, rate(t, 0.5))
	assert.ErrorIs(t, err, ErrMissingResult)
	assertEmptyDir(t, root)
}

func TestMalformedResult(t *testing.T) {
	tests := map[string]string{
		"too few columns": `printf '0\n1\n' > "$dir/force.dat"`,
		"not a number":    `printf '1 0\n1 nope\n' > "$dir/force.dat"`,
	}
	for name, force := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewDriver(
				WithSolver(fakeSolver(t, "dir=$(dirname \"$1\")\nprintf '0\\n1\\n' > \"$dir/disp.dat\"\n"+force+"\nexit 1")),
				WithScratch(t.TempDir()),
			)
			_, err := elastic(d).Run(context.Background(), []float64{0, 1}, rate(t, 0.5))
			assert.ErrorIs(t, err, ErrMalformedResult)
		})
	}
}

func TestSolverMissingFailsFast(t *testing.T) {
	root := t.TempDir()
	d := NewDriver(WithSolver(filepath.Join(t.TempDir(), "OpenSees")), WithScratch(root))

	_, err := elastic(d).Run(context.Background(), []float64{0, 1}, rate(t, 0.5))
	assert.ErrorIs(t, err, solver.ErrNotFound)
	assertEmptyDir(t, root)
}

func TestKeepFiles(t *testing.T) {
	d := NewDriver(
		WithSolver(fakeSolver(t, writeResults+"exit 1")),
		WithScratch(t.TempDir()),
		WithKeepFiles(true),
	)

	res, err := elastic(d).Run(context.Background(), []float64{0, 1, -1}, rate(t, 0.25))
	require.NoError(t, err)
	require.NotEmpty(t, res.Dir())

	script, err := os.ReadFile(filepath.Join(res.Dir(), "input.tcl"))
	require.NoError(t, err)
	assert.Equal(t, res.Script(), string(script))

	pattern := filepath.ToSlash(filepath.Join(res.Dir(), "pattern.dat"))
	assert.Contains(t, res.Script(), `{Series -dt 1 -filePath {`+pattern+`} -factor 1}`)

	data, err := os.ReadFile(filepath.Join(res.Dir(), "pattern.dat"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 15)
	assert.Equal(t, []string{"0", "0", "0.25"}, lines[:3])
	assert.Equal(t, []string{"-1", "-1"}, lines[13:])
}

func TestUniaxialMaterialScript(t *testing.T) {
	d := NewDriver(WithResolver(format.NewResolver()))
	got, err := elastic(d).Script([]float64{0, 1, -1}, rate(t, 0.25))
	require.NoError(t, err)

	want := `model basic -ndm 1 -ndf 1
node 1 0
node 2 1
fix 1 1
uniaxialMaterial Elastic 1 29000
element truss 1 1 2 1 1
pattern Plain 1 {Series -dt 1 -filePath @{pattern} -factor 1} {
    sp 2 1 1
}
recorder Element -file @{force} -ele 1 -precision 10 force
recorder Element -file @{disp} -ele 1 -precision 10 deformations
recorder Element -file @{stiff} -ele 1 -precision 10 stiff
system UmfPack
constraints Transformation
test NormDispIncr 1e-08 10 0 2
algorithm Newton
numberer RCM
integrator LoadControl 1 1 1 1
analysis Static
set ok [analyze 13]
if {$ok != 0} {exit 2}
exit 1
`
	assert.Equal(t, want, got)
}

func TestUniaxialMaterialScriptErrors(t *testing.T) {
	d := NewDriver()
	_, err := NewUniaxialMaterial(d, 1).Script([]float64{0, 1}, loadpath.NoSubdivision())
	assert.Error(t, err)

	_, err = elastic(d).Script(nil, loadpath.NoSubdivision())
	assert.ErrorIs(t, err, loadpath.ErrPeaks)

	bad := NewUniaxialMaterial(d, 1, command.Steel01{Tag: 1, Iso: []float64{1, 2}})
	_, err = bad.Script([]float64{0, 1}, loadpath.NoSubdivision())
	assert.ErrorIs(t, err, command.ErrInvalid)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	ok := NewDriver(WithSolver(fakeSolver(t, writeResults+"exit 1")), WithScratch(t.TempDir()), WithMetrics(m))
	bad := NewDriver(WithSolver(fakeSolver(t, "exit 9")), WithScratch(t.TempDir()), WithMetrics(m))

	for i := 0; i < 2; i++ {
		_, err := elastic(ok).Run(context.Background(), []float64{0, 1}, rate(t, 0.5))
		require.NoError(t, err)
	}
	_, err := elastic(bad).Run(context.Background(), []float64{0, 1}, rate(t, 0.5))
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("succeeded")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.runs.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("errored")))

	path := filepath.Join(t.TempDir(), "opsrun.prom")
	require.NoError(t, m.WriteTextfile(path))
	text, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(text), `opsrun_analyses_total{status="succeeded"} 2`)
	assert.Contains(t, string(text), "opsrun_analysis_duration_seconds_count 3")
}

func TestConcurrentRunsUseSeparateWorkspaces(t *testing.T) {
	const n = 16
	d := NewDriver(
		WithSolver(fakeSolver(t, writeResults+"exit 1")),
		WithScratch(t.TempDir()),
		WithKeepFiles(true),
	)
	u := elastic(d)
	p := rate(t, 0.25)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		dirs = map[string]bool{}
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := u.Run(context.Background(), []float64{0, float64(i + 1)}, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("run %d: %w", i, err))
				return
			}
			dirs[res.Dir()] = true
		}(i)
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, dirs, n)
}

func TestLoadMaterialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: A615 Gr60
tag: 2
materials:
  - type: Elastic
    tag: 1
    E: 200000
  - type: Steel02
    tag: 2
    Fy: 415
    E: 200000
    b: 0.01
`), 0o644))

	mf, err := LoadMaterialFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A615 Gr60", mf.Name)
	assert.Equal(t, command.Tag(2), mf.Tag)
	require.Len(t, mf.Materials, 2)
	assert.Equal(t, "uniaxialMaterial Steel02 2 415 200000 0.01 20 0.925 0.15", command.Render(mf.Materials[1]))

	mf, err = ParseMaterialFile("inline", []byte("materials:\n  - {type: Elastic, tag: 1, E: 1}\n"))
	require.NoError(t, err)
	assert.Equal(t, command.Tag(1), mf.Tag)
	assert.Equal(t, "inline", mf.Name)

	_, err = ParseMaterialFile("empty", []byte("name: x\n"))
	assert.Error(t, err)

	_, err = ParseMaterialFile("bad", []byte("materials:\n  - {type: Steel01, tag: 1, Fy: 1, E: 1, b: 0, iso: [1]}\n"))
	assert.True(t, errors.Is(err, command.ErrInvalid))

	_, err = LoadMaterialFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
