package interpreter

import (
	"context"

	"golang.org/x/sync/errgroup"

	"simple/smallstep-go/pkg/ast"
	"simple/smallstep-go/pkg/runtime"
)

// Job is one program for RunAll.
type Job struct {
	Name        string
	Statement   ast.Statement
	Environment *runtime.Environment
	MaxSteps    int
}

// Result records how a Job ended. Err holds the program's own failure;
// it does not stop the other jobs.
type Result struct {
	Name  string
	Trace []State
	Final State
	Steps int
	Err   error
}

// RunAll runs jobs on independent machines, at most limit at a time
// (limit <= 0 means no bound). Results come back in job order. The
// returned error is non-nil only when ctx ends before every job finishes.
func RunAll(ctx context.Context, jobs []Job, limit int) ([]Result, error) {
	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			res, err := runJob(ctx, job)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func runJob(ctx context.Context, job Job) (Result, error) {
	res := Result{Name: job.Name}
	m := NewMachine(job.Statement, job.Environment, WithMaxSteps(job.MaxSteps))
	for state, err := range m.States() {
		if err != nil {
			res.Err = err
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Final, res.Steps = m.State(), m.Steps()
			return res, ctxErr
		}
		res.Trace = append(res.Trace, state)
	}
	res.Final, res.Steps = m.State(), m.Steps()
	return res, nil
}
