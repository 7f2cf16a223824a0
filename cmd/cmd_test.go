package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/opsrun/internal/analysis"
	"github.com/alexiusacademia/opsrun/internal/config"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with an empty config file and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{config.EnvSolver, config.EnvScratch, config.EnvLogLevel} {
		t.Setenv(k, "")
	}
	cfgPath := filepath.Join(t.TempDir(), "opsrun.yaml")
	require.NoError(t, os.WriteFile(cfgPath, nil, 0o644))

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", cfgPath, "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeMaterial(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

const elasticYAML = `name: elastic
materials:
  - type: Elastic
    tag: 1
    E: 29000
`

func TestParsePeaks(t *testing.T) {
	points, err := parsePeaks([]string{"0,1,-1"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0}, {1}, {-1}}, points)

	points, err = parsePeaks([]string{"0, 1", "0,2"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0}, {1, 2}}, points)

	_, err = parsePeaks([]string{"0,1", "0"})
	assert.ErrorContains(t, err, "channel 2 has 1 peaks")

	_, err = parsePeaks([]string{"0,x"})
	assert.ErrorContains(t, err, `"x" is not a number`)

	_, err = parsePeaks(nil)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "opsrun v")
}

func TestPathCommand(t *testing.T) {
	out, err := execute(t, "path", "--peaks", "0,1,-1", "--rate", "0.25")
	require.NoError(t, err)
	assert.Contains(t, out, "rate(0.25)")
	assert.Contains(t, out, "Points:   15 (13 analysis steps)")

	out, err = execute(t, "path", "--peaks", "0,1,-1", "--peaks", "0,2,-2", "--steps", "8", "--plot")
	require.NoError(t, err)
	assert.Contains(t, out, "steps(8)")
	assert.Contains(t, out, "Ch 2")
	assert.Contains(t, out, "load path")

	out, err = execute(t, "path", "--peaks", "0,1")
	require.NoError(t, err)
	assert.Contains(t, out, "Points:   4 (2 analysis steps)")

	_, err = execute(t, "path", "--peaks", "0,1", "--rate=-1")
	assert.Error(t, err)

	_, err = execute(t, "path", "--peaks", "0,1", "--rate", "1", "--steps", "2")
	assert.Error(t, err)
}

func TestMaterialScriptCommand(t *testing.T) {
	file := writeMaterial(t, "elastic.yaml", elasticYAML)
	out, err := execute(t, "material", "script", "--file", file, "--peaks", "0,1,-1", "--rate", "0.25")
	require.NoError(t, err)
	assert.Contains(t, out, "uniaxialMaterial Elastic 1 29000\n")
	assert.Contains(t, out, "-filePath @{pattern}")
	assert.True(t, strings.HasSuffix(out, "set ok [analyze 13]\nif {$ok != 0} {exit 2}\nexit 1\n"))
}

func TestMaterialPresetCommand(t *testing.T) {
	out, err := execute(t, "material", "preset", "--grade", "415")
	require.NoError(t, err)
	assert.Equal(t, "uniaxialMaterial Steel02 1 415 200000 0.01 20 0.925 0.15\n", out)

	out, err = execute(t, "material", "preset", "--grade", "Grade 40", "--model", "steel01", "--tag", "3", "--yaml")
	require.NoError(t, err)
	mf, err := analysis.ParseMaterialFile("preset", []byte(out))
	require.NoError(t, err)
	assert.Equal(t, "Grade 40", mf.Name)
	require.Len(t, mf.Materials, 1)

	out, err = execute(t, "material", "preset", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "Grade 75")

	_, err = execute(t, "material", "preset", "--grade", "999")
	assert.ErrorContains(t, err, "unknown steel grade")
}

func fakeSolver(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake solver needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "OpenSees")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestMaterialRunCommand(t *testing.T) {
	solver := fakeSolver(t, `dir=$(dirname "$1")
printf '0\n0.5\n1\n' > "$dir/disp.dat"
printf '1 0\n1 14500\n1 29000\n' > "$dir/force.dat"
exit 1`)
	a := writeMaterial(t, "a.yaml", elasticYAML)
	b := writeMaterial(t, "b.yaml", strings.Replace(elasticYAML, "name: elastic", "name: other", 1))
	metrics := filepath.Join(t.TempDir(), "opsrun.prom")
	plot := filepath.Join(t.TempDir(), "loops.svg")

	out, err := execute(t, "--solver", solver, "--scratch", t.TempDir(),
		"material", "run", "-f", a, "-f", b, "--peaks", "0,1", "--rate", "0.5",
		"--jobs", "2", "--plot", "--output", plot, "--metrics-file", metrics)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "succeeded ✓"))
	assert.Contains(t, out, "elastic: stress vs. strain")
	assert.Contains(t, out, "Plot exported to: "+plot)

	text, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(text), `opsrun_analyses_total{status="succeeded"} 2`)
}

func TestMaterialRunCommandErrored(t *testing.T) {
	solver := fakeSolver(t, "exit 7")
	file := writeMaterial(t, "a.yaml", elasticYAML)

	out, err := execute(t, "--solver", solver, "--scratch", t.TempDir(),
		"material", "run", "-f", file, "--peaks", "0,1")
	assert.ErrorContains(t, err, "1 of 1 material tests errored")
	assert.ErrorIs(t, err, analysis.ErrErrored)
	assert.Contains(t, out, "errored")
}
