package trace

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"simple/smallstep-go/pkg/ast"
	"simple/smallstep-go/pkg/interpreter"
	"simple/smallstep-go/pkg/runtime"
)

// Style selects how nodes and environments are rendered.
type Style int

const (
	// Plain renders "stmt, {x: 2}".
	Plain Style = iota
	// Inspect renders values in debugging form: "stmt, {:x=><<2>>}".
	Inspect
)

func (s Style) String() string {
	switch s {
	case Inspect:
		return "inspect"
	default:
		return "plain"
	}
}

// ParseStyle maps a style name to a Style.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "plain":
		return Plain, nil
	case "inspect":
		return Inspect, nil
	default:
		return Plain, fmt.Errorf("unknown trace style %q", name)
	}
}

// Colors holds the formatters for each part of a trace line. A nil
// *Colors renders without escapes.
type Colors struct {
	Statement func(a ...any) string
	Name      func(a ...any) string
	Value     func(a ...any) string
	Punct     func(a ...any) string
	Added     func(a ...any) string
	Removed   func(a ...any) string
}

// NewColors returns the default palette with color forced on.
func NewColors() *Colors {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return &Colors{
		Statement: mk(color.Bold),
		Name:      mk(color.FgCyan),
		Value:     mk(color.FgYellow),
		Punct:     mk(color.Faint),
		Added:     mk(color.FgGreen),
		Removed:   mk(color.FgRed),
	}
}

// ColorsFor returns a palette when w is a terminal and NO_COLOR is unset,
// nil otherwise.
func ColorsFor(w io.Writer) *Colors {
	if color.NoColor {
		return nil
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return NewColors()
	}
	return nil
}

func apply(fn func(a ...any) string, s string) string {
	if fn == nil {
		return s
	}
	return fn(s)
}

func (c *Colors) statement(s string) string {
	if c == nil {
		return s
	}
	return apply(c.Statement, s)
}

func (c *Colors) name(s string) string {
	if c == nil {
		return s
	}
	return apply(c.Name, s)
}

func (c *Colors) value(s string) string {
	if c == nil {
		return s
	}
	return apply(c.Value, s)
}

func (c *Colors) punct(s string) string {
	if c == nil {
		return s
	}
	return apply(c.Punct, s)
}

func (c *Colors) added(s string) string {
	if c == nil {
		return s
	}
	return apply(c.Added, s)
}

func (c *Colors) removed(s string) string {
	if c == nil {
		return s
	}
	return apply(c.Removed, s)
}

// Renderer turns machine states into trace lines.
type Renderer struct {
	Style  Style
	Colors *Colors
}

// Line renders state as "<statement>, <environment>".
func (r Renderer) Line(state interpreter.State) string {
	return r.Colors.statement(state.Statement.String()) +
		r.Colors.punct(",") + " " +
		r.Environment(state.Environment)
}

// Environment renders env in the renderer's style.
func (r Renderer) Environment(env *runtime.Environment) string {
	c := r.Colors
	if env.Len() == 0 {
		return c.punct("{}")
	}
	var b strings.Builder
	b.WriteString(c.punct("{"))
	for i, name := range env.Keys() {
		if i > 0 {
			b.WriteString(c.punct(","))
			b.WriteByte(' ')
		}
		value, _ := env.Get(name)
		switch r.Style {
		case Inspect:
			b.WriteString(c.name(":" + name))
			b.WriteString(c.punct("=>"))
			b.WriteString(c.value(ast.Inspect(value)))
		default:
			b.WriteString(c.name(name))
			b.WriteString(c.punct(":"))
			b.WriteByte(' ')
			b.WriteString(c.value(value.String()))
		}
	}
	b.WriteString(c.punct("}"))
	return b.String()
}

// Printer returns a tracer for interpreter.WithTracer that writes one line
// per state to w.
func Printer(w io.Writer, r Renderer) func(interpreter.State) {
	return func(state interpreter.State) {
		fmt.Fprintln(w, r.Line(state))
	}
}

// Lines renders each state with r.
func Lines(states []interpreter.State, r Renderer) []string {
	out := make([]string, len(states))
	for i, state := range states {
		out[i] = r.Line(state)
	}
	return out
}
