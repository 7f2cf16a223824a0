// Package command models solver commands as typed values that render
// themselves to script text under a resolved format.Spec.
package command

import (
	"reflect"
	"strings"

	"github.com/alexiusacademia/opsrun/internal/format"
)

// Indent is the prefix added per nesting level inside a block.
const Indent = "    "

// Command is a single solver command. Args returns its tokens in order,
// already formatted with spec.
type Command interface {
	Args(spec format.Spec) []string
}

// Block is a container command rendered as
//
//	head {
//	    child
//	}
//
// Children are rendered with the block's resolved spec.
type Block interface {
	Command
	Children() []Command
}

// Formatted is implemented by commands carrying an instance-level spec.
// Embedding Base provides it.
type Formatted interface {
	FormatSpec() format.Spec
}

// Base carries the instance-level format scope of a command.
type Base struct {
	formats format.Spec
}

// SetFormat updates the instance scope and returns the previous one.
func (b *Base) SetFormat(spec format.Spec) format.Spec {
	old := b.formats
	next := old.Clone()
	next.Update(spec)
	b.formats = next
	return old
}

// FormatSpec returns the instance scope. It may be nil.
func (b Base) FormatSpec() format.Spec {
	return b.formats
}

// TypeKey names the type-level scope of c, e.g. "command.Elastic".
func TypeKey(c Command) string {
	t := reflect.TypeOf(c)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.String()
}

// SetTypeFormat updates the type-level scope shared by every command of
// proto's type in the global resolver and returns the previous scope.
func SetTypeFormat(proto Command, spec format.Spec) format.Spec {
	return format.Global().SetTypeSpec(TypeKey(proto), spec)
}

type renderOptions struct {
	resolver *format.Resolver
	call     format.Spec
}

// Option configures a single Render call.
type Option func(*renderOptions)

// WithFormat sets the call-site scope, the highest-precedence one.
func WithFormat(spec format.Spec) Option {
	return func(o *renderOptions) {
		o.call = spec
	}
}

// WithResolver renders against r instead of the global resolver.
func WithResolver(r *format.Resolver) Option {
	return func(o *renderOptions) {
		if r != nil {
			o.resolver = r
		}
	}
}

// Resolve merges every format scope that applies to c.
func Resolve(c Command, opts ...Option) format.Spec {
	o := renderOptions{resolver: format.Global()}
	for _, opt := range opts {
		opt(&o)
	}
	var instance format.Spec
	if f, ok := c.(Formatted); ok {
		instance = f.FormatSpec()
	}
	return o.resolver.Resolve(TypeKey(c), instance, o.call)
}

// Render returns the script text of c.
func Render(c Command, opts ...Option) string {
	var sb strings.Builder
	write(&sb, c, Resolve(c, opts...), "")
	return sb.String()
}

// RenderWith renders c with an already resolved spec.
func RenderWith(c Command, spec format.Spec) string {
	var sb strings.Builder
	write(&sb, c, spec, "")
	return sb.String()
}

func write(sb *strings.Builder, c Command, spec format.Spec, indent string) {
	sb.WriteString(indent)
	sb.WriteString(strings.Join(c.Args(spec), " "))

	b, ok := c.(Block)
	if !ok {
		return
	}
	sb.WriteString(" {")
	for _, child := range b.Children() {
		sb.WriteString("\n")
		write(sb, child, spec, indent+Indent)
	}
	sb.WriteString("\n")
	sb.WriteString(indent)
	sb.WriteString("}")
}

// Tag identifies a solver object (node, material, element...). It formats
// under its own kind so tags can be padded independently of other integers.
type Tag int

// KindTag is the format kind of Tag values. It falls back to format.Int.
const KindTag format.Kind = "tag"

func (Tag) Kind() format.Kind { return KindTag }

func init() {
	format.MustRegisterKind(KindTag, format.Int)
}

func tags(ts []Tag) []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}

func floats(fs []float64) []any {
	out := make([]any, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}
