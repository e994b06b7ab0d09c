package interpreter

import (
	"iter"

	"simple/smallstep-go/pkg/ast"
	"simple/smallstep-go/pkg/debug"
	"simple/smallstep-go/pkg/runtime"
)

// State is one configuration of the machine: the statement left to run and
// the environment it runs under.
type State struct {
	Statement   ast.Statement
	Environment *runtime.Environment
}

// Terminal reports whether no further step is defined.
func (s State) Terminal() bool {
	return !ast.Reducible(s.Statement)
}

func (s State) String() string {
	return s.Statement.String() + ", " + s.Environment.String()
}

// Option configures a Machine.
type Option func(*Machine)

// WithTracer installs fn to observe every state Run passes through,
// including the final one.
func WithTracer(fn func(State)) Option {
	return func(m *Machine) {
		m.tracer = fn
	}
}

// WithMaxSteps bounds the number of steps; zero or less means unbounded.
func WithMaxSteps(n int) Option {
	return func(m *Machine) {
		m.maxSteps = n
	}
}

// Machine drives a statement to do-nothing one reduction step at a time.
type Machine struct {
	statement   ast.Statement
	environment *runtime.Environment
	steps       int

	tracer   func(State)
	maxSteps int
}

// NewMachine returns a machine positioned at stmt under env. A nil env is
// treated as empty.
func NewMachine(stmt ast.Statement, env *runtime.Environment, opts ...Option) *Machine {
	if env == nil {
		env = runtime.NewEnvironment(nil)
	}
	m := &Machine{statement: stmt, environment: env}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current configuration.
func (m *Machine) State() State {
	return State{Statement: m.statement, Environment: m.environment}
}

// Reducible reports whether Step can advance the machine.
func (m *Machine) Reducible() bool {
	return ast.Reducible(m.statement)
}

// Steps returns how many steps have been taken.
func (m *Machine) Steps() int {
	return m.steps
}

// Step advances the machine by one reduction. On error the machine keeps
// its previous state.
func (m *Machine) Step() error {
	if !m.Reducible() {
		return &IrreducibleError{Node: m.statement}
	}
	if m.maxSteps > 0 && m.steps >= m.maxSteps {
		return ErrStepLimit
	}
	stmt, env, err := ReduceStatement(m.statement, m.environment)
	if err != nil {
		return err
	}
	m.statement, m.environment = stmt, env
	m.steps++
	if debug.Step() {
		debug.Logf("step %d: %s, %s", m.steps, stmt, env)
	}
	return nil
}

// Run steps until the statement is irreducible and returns the final
// state. Each state, the last included, is passed to the tracer. The first
// error ends the run; the returned state is the last one reached.
func (m *Machine) Run() (State, error) {
	for state, err := range m.States() {
		if err != nil {
			return state, err
		}
		if m.tracer != nil {
			m.tracer(state)
		}
	}
	return m.State(), nil
}

// States yields the current state and then every state after it up to and
// including the terminal one. Breaking out of the loop leaves the machine
// at the last yielded state. A failed step is yielded with its error as
// the final pair.
func (m *Machine) States() iter.Seq2[State, error] {
	return func(yield func(State, error) bool) {
		for {
			if !yield(m.State(), nil) {
				return
			}
			if !m.Reducible() {
				return
			}
			if err := m.Step(); err != nil {
				yield(m.State(), err)
				return
			}
		}
	}
}
