package driver

import (
	"context"
	"fmt"
	"strings"

	"simple/smallstep-go/pkg/interpreter"
	"simple/smallstep-go/pkg/trace"
)

// CheckOptions configures Check.
type CheckOptions struct {
	// Parallelism bounds how many programs run at once; <= 0 is unbounded.
	Parallelism int
	// MaxSteps bounds each run; <= 0 is unbounded.
	MaxSteps int
	// Style is the rendering expected traces are written in, unless the
	// program's expectation names its own.
	Style trace.Style
	// Colors is applied to trace diffs only.
	Colors *trace.Colors
}

// Outcome is the verdict for one program.
type Outcome struct {
	Program  *Program
	Result   interpreter.Result
	Problems []string
	Diff     string
}

// Passed reports whether the run matched every expectation.
func (o Outcome) Passed() bool {
	return len(o.Problems) == 0
}

// Check runs programs concurrently and compares each run against its
// expectation. Programs without one only need to finish without error.
func Check(ctx context.Context, programs []*Program, opts CheckOptions) ([]Outcome, error) {
	jobs := make([]interpreter.Job, len(programs))
	for i, prog := range programs {
		jobs[i] = interpreter.Job{
			Name:        prog.Name,
			Statement:   prog.Statement,
			Environment: prog.Environment,
			MaxSteps:    opts.MaxSteps,
		}
	}
	results, err := interpreter.RunAll(ctx, jobs, opts.Parallelism)
	if err != nil {
		return nil, err
	}
	outcomes := make([]Outcome, len(programs))
	for i, prog := range programs {
		outcomes[i] = compare(prog, results[i], opts)
	}
	return outcomes, nil
}

func compare(prog *Program, res interpreter.Result, opts CheckOptions) Outcome {
	out := Outcome{Program: prog, Result: res}
	expect := prog.Expect
	if expect == nil {
		if res.Err != nil {
			out.Problems = append(out.Problems, fmt.Sprintf("runtime error: %v", res.Err))
		}
		return out
	}

	switch {
	case expect.Error != "" && res.Err == nil:
		out.Problems = append(out.Problems, fmt.Sprintf("expected error containing %q, run finished cleanly", expect.Error))
	case expect.Error != "" && !strings.Contains(res.Err.Error(), expect.Error):
		out.Problems = append(out.Problems, fmt.Sprintf("expected error containing %q, got %q", expect.Error, res.Err.Error()))
	case expect.Error == "" && res.Err != nil:
		out.Problems = append(out.Problems, fmt.Sprintf("runtime error: %v", res.Err))
	}

	style := opts.Style
	if expect.Style != nil {
		style = *expect.Style
	}
	if len(expect.Trace) > 0 {
		got := trace.Lines(res.Trace, trace.Renderer{Style: style})
		if diff := trace.Diff(expect.Trace, got, opts.Colors); diff != "" {
			out.Problems = append(out.Problems, "trace mismatch")
			out.Diff = diff
		}
	}
	if expect.Environment != nil && !expect.Environment.Equal(res.Final.Environment) {
		r := trace.Renderer{Style: style}
		out.Problems = append(out.Problems, fmt.Sprintf("final environment %s, want %s",
			r.Environment(res.Final.Environment), r.Environment(expect.Environment)))
	}
	if expect.Steps != nil && *expect.Steps != res.Steps {
		out.Problems = append(out.Problems, fmt.Sprintf("took %d steps, want %d", res.Steps, *expect.Steps))
	}
	return out
}
