package command

import (
	"os"
	"strings"
)

// Script is an ordered list of commands rendered one per line.
type Script struct {
	items []Command
}

// NewScript returns a script holding cmds.
func NewScript(cmds ...Command) *Script {
	return &Script{items: append([]Command(nil), cmds...)}
}

// Add appends commands to the script.
func (s *Script) Add(cmds ...Command) *Script {
	s.items = append(s.items, cmds...)
	return s
}

// Raw appends lines of literal text.
func (s *Script) Raw(lines ...string) *Script {
	for _, l := range lines {
		s.items = append(s.items, Raw(l))
	}
	return s
}

// Len returns the number of top-level commands.
func (s *Script) Len() int {
	return len(s.items)
}

// Commands returns a copy of the script's commands.
func (s *Script) Commands() []Command {
	return append([]Command(nil), s.items...)
}

// Validate checks every command in order and returns the first failure.
func (s *Script) Validate() error {
	for _, c := range s.items {
		if err := Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// Render renders each command with its own resolved spec. opts apply to
// every command.
func (s *Script) Render(opts ...Option) string {
	lines := make([]string, len(s.items))
	for i, c := range s.items {
		lines[i] = Render(c, opts...)
	}
	return strings.Join(lines, "\n") + "\n"
}

// WriteFile renders the script into path.
func (s *Script) WriteFile(path string, opts ...Option) error {
	return os.WriteFile(path, []byte(s.Render(opts...)), 0o644)
}
