package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"simple/smallstep-go/pkg/driver"
	"simple/smallstep-go/pkg/interpreter"
	"simple/smallstep-go/pkg/trace"
)

const (
	historyFile  = ".smallstep_history"
	promptStep   = "step> "
	stepperIntro = "Press Enter to step, :help lists commands."
)

// stepper holds an interactive session over one program.
type stepper struct {
	prog     *driver.Program
	cfg      config
	renderer trace.Renderer
	machine  *interpreter.Machine
}

func newStepper(prog *driver.Program, cfg config, renderer trace.Renderer) *stepper {
	s := &stepper{prog: prog, cfg: cfg, renderer: renderer}
	s.reset()
	return s
}

func (s *stepper) reset() {
	s.machine = interpreter.NewMachine(s.prog.Statement, s.prog.Environment, interpreter.WithMaxSteps(s.cfg.maxSteps))
}

func (s *stepper) printState(w io.Writer) {
	fmt.Fprintf(w, "[%d] %s\n", s.machine.Steps(), s.renderer.Line(s.machine.State()))
	if !s.machine.Reducible() {
		fmt.Fprintln(w, "(terminal)")
	}
}

// handle runs one command line and reports whether the session should end.
func (s *stepper) handle(line string, w io.Writer) bool {
	fields := strings.Fields(line)
	cmd := ""
	if len(fields) > 0 {
		cmd = fields[0]
	}
	switch cmd {
	case "", ":s", ":step":
		if !s.machine.Reducible() {
			fmt.Fprintln(w, "already terminal; :reset to start over")
			return false
		}
		if err := s.machine.Step(); err != nil {
			fmt.Fprintf(w, "runtime error: %v\n", err)
			return false
		}
		s.printState(w)
	case ":r", ":run":
		for state, err := range s.machine.States() {
			if err != nil {
				fmt.Fprintf(w, "runtime error: %v\n", err)
				return false
			}
			fmt.Fprintln(w, s.renderer.Line(state))
		}
		fmt.Fprintf(w, "(terminal after %d steps)\n", s.machine.Steps())
	case ":e", ":env":
		fmt.Fprintln(w, s.renderer.Environment(s.machine.State().Environment))
	case ":p", ":print":
		s.printState(w)
	case ":reset":
		s.reset()
		s.printState(w)
	case ":q", ":quit":
		return true
	case ":h", ":help":
		fmt.Fprintln(w, "  <enter>, :step   take one reduction step")
		fmt.Fprintln(w, "  :run             step until terminal")
		fmt.Fprintln(w, "  :env             show the environment")
		fmt.Fprintln(w, "  :print           show the current state")
		fmt.Fprintln(w, "  :reset           go back to the initial state")
		fmt.Fprintln(w, "  :quit            leave")
	default:
		fmt.Fprintf(w, "unknown command %q (try :help)\n", cmd)
	}
	return false
}

func historyPath() string {
	if p := strings.TrimSpace(os.Getenv("SMALLSTEP_HISTORY")); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func runStepper(args []string, stdout, stderr io.Writer) int {
	cfg, rest, err := parseFlags("step", args, "m:icCh")
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if cfg.help {
		printUsage(stdout)
		return 0
	}
	if len(rest) != 1 {
		fmt.Fprintln(stderr, "smallstep step requires exactly one program file")
		return 1
	}
	prog, err := driver.LoadProgram(rest[0])
	if err != nil {
		fmt.Fprintf(stderr, "failed to load program: %v\n", err)
		return 1
	}

	s := newStepper(prog, cfg, trace.Renderer{Style: cfg.style, Colors: cfg.colorsFor(stdout)})

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	fmt.Fprintln(stdout, stepperIntro)
	s.printState(stdout)
	for {
		line, err := ln.Prompt(promptStep)
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				fmt.Fprintf(stderr, "read error: %v\n", err)
			}
			fmt.Fprintln(stdout)
			break
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			ln.AppendHistory(trimmed)
		}
		if s.handle(line, stdout) {
			break
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return 0
}
