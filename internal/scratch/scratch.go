// Package scratch allocates the private directory each analysis writes its
// script, input tables and recorder output into.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultPrefix names workspaces created without a prefix.
const DefaultPrefix = "opsrun"

// Workspace is a uniquely named directory under a scratch root. Every file
// of one analysis lives inside it, so teardown is a single recursive
// delete.
type Workspace struct {
	dir  string
	keep bool

	once     sync.Once
	closeErr error
	cleanup  runtime.Cleanup
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithKeep leaves the directory on disk when the workspace is closed.
func WithKeep(keep bool) Option {
	return func(w *Workspace) {
		w.keep = keep
	}
}

// New creates <root>/<prefix>_<uuid>. An empty root means os.TempDir().
// The directory is created exclusively; an existing path is an error, never
// shared.
//
// Callers must Close the workspace. A deletable workspace that is garbage
// collected without Close is removed on a best-effort basis.
func New(root, prefix string, opts ...Option) (*Workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if strings.ContainsAny(prefix, `/\`) || prefix == "." || prefix == ".." {
		return nil, fmt.Errorf("scratch: invalid prefix %q", prefix)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scratch: resolve root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("scratch: create root: %w", err)
	}

	dir := filepath.Join(root, prefix+"_"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("scratch: create workspace: %w", err)
	}

	w := &Workspace{dir: dir}
	for _, opt := range opts {
		opt(w)
	}
	if !w.keep {
		w.cleanup = runtime.AddCleanup(w, func(dir string) { _ = os.RemoveAll(dir) }, dir)
	}
	return w, nil
}

// Dir returns the absolute workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Keep reports whether Close leaves the directory in place.
func (w *Workspace) Keep() bool {
	return w.keep
}

// Path returns the path of a file in the workspace, e.g. Path("input", ".tcl").
func (w *Workspace) Path(name, suffix string) string {
	return filepath.Join(w.dir, name+suffix)
}

// Close removes the workspace unless it is kept. It is safe to call more
// than once; later calls return the first result.
func (w *Workspace) Close() error {
	w.once.Do(func() {
		if w.keep {
			return
		}
		w.cleanup.Stop()
		if err := os.RemoveAll(w.dir); err != nil {
			w.closeErr = fmt.Errorf("scratch: remove %s: %w", w.dir, err)
		}
	})
	return w.closeErr
}
