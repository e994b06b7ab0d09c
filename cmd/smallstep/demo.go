package main

import (
	"fmt"
	"io"
	"os"

	"simple/smallstep-go/pkg/ast"
	"simple/smallstep-go/pkg/driver"
	"simple/smallstep-go/pkg/interpreter"
	"simple/smallstep-go/pkg/runtime"
	"simple/smallstep-go/pkg/trace"
)

// demoProgram is x = 1 + 1; y = x + 3.
func demoProgram() *driver.Program {
	return &driver.Program{
		Name:        "demo",
		Description: "x = 1 + 1; y = x + 3",
		Statement: ast.Seq(
			ast.Set("x", ast.Plus(ast.Num(1), ast.Num(1))),
			ast.Set("y", ast.Plus(ast.Var("x"), ast.Num(3))),
		),
		Environment: runtime.NewEnvironment(nil),
	}
}

func runDemo(args []string, stdout, stderr io.Writer) int {
	cfg, rest, err := parseFlags("demo", args, "m:iqcCw:h")
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if cfg.help {
		printUsage(stdout)
		return 0
	}
	if len(rest) > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", rest)
		return 1
	}
	prog := demoProgram()
	if cfg.writePath == "" {
		return execute(prog, cfg, stdout, stderr)
	}
	if err := recordProgram(prog, cfg); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s\n", cfg.writePath)
	return 0
}

// recordProgram runs prog, stores the observed outcome as its expectation
// and writes it to cfg.writePath.
func recordProgram(prog *driver.Program, cfg config) error {
	var states []interpreter.State
	m := interpreter.NewMachine(prog.Statement, prog.Environment,
		interpreter.WithMaxSteps(cfg.maxSteps),
		interpreter.WithTracer(func(s interpreter.State) { states = append(states, s) }),
	)
	final, err := m.Run()
	if err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	steps := m.Steps()
	style := cfg.style
	prog.Expect = &driver.Expectation{
		Trace:       trace.Lines(states, trace.Renderer{Style: style}),
		Style:       &style,
		Environment: final.Environment,
		Steps:       &steps,
	}

	f, err := os.Create(cfg.writePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", cfg.writePath, err)
	}
	if err := driver.WriteProgram(f, prog); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
