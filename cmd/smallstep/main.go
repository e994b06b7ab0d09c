package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"simple/smallstep-go/pkg/driver"
	"simple/smallstep-go/pkg/interpreter"
	"simple/smallstep-go/pkg/trace"
)

const cliToolVersion = "smallstep 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(os.Stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runProgram(args[1:], os.Stdout, os.Stderr)
	case "check":
		return runCheck(args[1:], os.Stdout, os.Stderr)
	case "step":
		return runStepper(args[1:], os.Stdout, os.Stderr)
	case "demo":
		return runDemo(args[1:], os.Stdout, os.Stderr)
	default:
		return runProgram(args, os.Stdout, os.Stderr)
	}
}

func runProgram(args []string, stdout, stderr io.Writer) int {
	cfg, rest, err := parseFlags("run", args, "m:iqcCh")
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if cfg.help {
		printUsage(stdout)
		return 0
	}
	if len(rest) != 1 {
		if len(rest) == 0 {
			fmt.Fprintln(stderr, "smallstep run requires a program file")
		} else {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(rest[1:], " "))
		}
		return 1
	}

	prog, err := driver.LoadProgram(rest[0])
	if err != nil {
		fmt.Fprintf(stderr, "failed to load program: %v\n", err)
		return 1
	}
	return execute(prog, cfg, stdout, stderr)
}

func execute(prog *driver.Program, cfg config, stdout, stderr io.Writer) int {
	renderer := trace.Renderer{Style: cfg.style, Colors: cfg.colorsFor(stdout)}
	opts := []interpreter.Option{interpreter.WithMaxSteps(cfg.maxSteps)}
	if !cfg.quiet {
		opts = append(opts, interpreter.WithTracer(trace.Printer(stdout, renderer)))
	}

	m := interpreter.NewMachine(prog.Statement, prog.Environment, opts...)
	final, err := m.Run()
	if err != nil {
		fmt.Fprintf(stderr, "runtime error: %v\n", err)
		fmt.Fprintf(stderr, "stopped after %d steps at: %s\n", m.Steps(), trace.Renderer{Style: cfg.style}.Line(final))
		return 1
	}
	if cfg.quiet {
		fmt.Fprintln(stdout, renderer.Line(final))
	}
	return 0
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	cfg, rest, err := parseFlags("check", args, "m:ij:cCh")
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if cfg.help {
		printUsage(stdout)
		return 0
	}
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "smallstep check requires program files or directories")
		return 1
	}

	programs, err := driver.LoadPaths(rest)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load programs: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	colors := cfg.colorsFor(stdout)
	outcomes, err := driver.Check(ctx, programs, driver.CheckOptions{
		Parallelism: cfg.parallelism,
		MaxSteps:    cfg.maxSteps,
		Style:       cfg.style,
		Colors:      colors,
	})
	if err != nil {
		fmt.Fprintf(stderr, "check interrupted: %v\n", err)
		return 1
	}

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Passed() {
			fmt.Fprintf(stdout, "ok   %s (%d steps)\n", outcome.Program.Name, outcome.Result.Steps)
			continue
		}
		failed++
		fmt.Fprintf(stdout, "FAIL %s (%s)\n", outcome.Program.Name, outcome.Program.Path)
		for _, problem := range outcome.Problems {
			fmt.Fprintf(stdout, "     %s\n", problem)
		}
		if outcome.Diff != "" {
			fmt.Fprint(stdout, outcome.Diff)
		}
	}
	fmt.Fprintf(stdout, "%d passed, %d failed\n", len(outcomes)-failed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  smallstep run [-q] [-i] [-m steps] <program.yml>")
	fmt.Fprintln(w, "  smallstep <program.yml>")
	fmt.Fprintln(w, "  smallstep check [-j jobs] [-m steps] <program.yml|dir> ...")
	fmt.Fprintln(w, "  smallstep step [-m steps] <program.yml>")
	fmt.Fprintln(w, "  smallstep demo [-w program.yml]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -m N   stop with an error after N steps (default $SMALLSTEP_MAX_STEPS, unbounded)")
	fmt.Fprintln(w, "  -i     render values in inspect form, e.g. {:x=><<2>>}")
	fmt.Fprintln(w, "  -q     print only the final state")
	fmt.Fprintln(w, "  -j N   run at most N programs at once")
	fmt.Fprintln(w, "  -c/-C  force color on/off")
	fmt.Fprintln(w, "  -w F   write the demo program and its recorded trace to F")
}
