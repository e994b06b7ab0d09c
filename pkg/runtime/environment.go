package runtime

import (
	"fmt"
	"sort"
	"strings"

	"simple/smallstep-go/pkg/ast"
)

// Environment binds variable names to reduced values. It is immutable:
// With returns a new environment and leaves the receiver untouched, so
// every machine state keeps the bindings it was built with.
type Environment struct {
	values map[string]ast.Expression
	order  []string
}

// UndefinedVariableError reports a lookup of a name with no binding.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'", e.Name)
}

// NewEnvironment copies bindings into a fresh environment. A nil map gives
// the empty environment. Keys are ordered by name since a Go map carries no
// insertion order.
func NewEnvironment(bindings map[string]ast.Expression) *Environment {
	env := &Environment{values: make(map[string]ast.Expression, len(bindings))}
	for name, value := range bindings {
		env.values[name] = value
		env.order = append(env.order, name)
	}
	sort.Strings(env.order)
	return env
}

// Get retrieves the value bound to name.
func (e *Environment) Get(name string) (ast.Expression, error) {
	if e != nil {
		if v, ok := e.values[name]; ok {
			return v, nil
		}
	}
	return nil, &UndefinedVariableError{Name: name}
}

// Has reports whether name is bound.
func (e *Environment) Has(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.values[name]
	return ok
}

// With returns a copy of e where name is bound to value. Rebinding an
// existing name keeps its original position in Keys.
func (e *Environment) With(name string, value ast.Expression) *Environment {
	next := &Environment{values: e.Snapshot()}
	if e != nil {
		next.order = append(make([]string, 0, len(e.order)+1), e.order...)
	}
	if _, ok := next.values[name]; !ok {
		next.order = append(next.order, name)
	}
	next.values[name] = value
	return next
}

// Len returns the number of bindings.
func (e *Environment) Len() int {
	if e == nil {
		return 0
	}
	return len(e.values)
}

// Keys returns the bound names in the order they were first bound.
func (e *Environment) Keys() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.order...)
}

// Snapshot returns a copy of the current bindings with room for one more.
func (e *Environment) Snapshot() map[string]ast.Expression {
	out := make(map[string]ast.Expression, e.Len()+1)
	if e == nil {
		return out
	}
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// Equal reports whether both environments bind the same names to
// structurally equal values. Binding order is ignored.
func (e *Environment) Equal(other *Environment) bool {
	if e.Len() != other.Len() {
		return false
	}
	for _, name := range e.Keys() {
		theirs, err := other.Get(name)
		if err != nil {
			return false
		}
		ours, _ := e.Get(name)
		if !ast.Equal(ours, theirs) {
			return false
		}
	}
	return true
}

func (e *Environment) String() string {
	return e.format(func(n ast.Node) string { return n.String() })
}

// format renders the bindings as {name: value, ...} in binding order, using
// render for each value.
func (e *Environment) format(render func(ast.Node) string) string {
	if e.Len() == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range e.order {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(render(e.values[name]))
	}
	b.WriteByte('}')
	return b.String()
}
