package driver

import (
	"context"
	"strings"
	"testing"

	"simple/smallstep-go/pkg/ast"
	"simple/smallstep-go/pkg/runtime"
	"simple/smallstep-go/pkg/trace"
)

func TestCheckFixtures(t *testing.T) {
	programs, err := LoadDir("testdata")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(programs) != 3 {
		t.Fatalf("expected 3 fixtures, got %d", len(programs))
	}
	outcomes, err := Check(context.Background(), programs, CheckOptions{Parallelism: 2})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	for _, out := range outcomes {
		if !out.Passed() {
			t.Fatalf("%s failed: %v\n%s", out.Program.Name, out.Problems, out.Diff)
		}
	}
}

func TestCheckReportsMismatches(t *testing.T) {
	wrongSteps := 1
	prog := &Program{
		Name:        "wrong",
		Statement:   ast.Set("x", ast.Plus(ast.Num(1), ast.Num(1))),
		Environment: runtime.NewEnvironment(nil),
		Expect: &Expectation{
			Trace:       []string{"x = 1 + 1, {}", "x = 3, {}", "do-nothing, {x: 3}"},
			Environment: runtime.NewEnvironment(nil).With("x", ast.Num(3)),
			Steps:       &wrongSteps,
		},
	}
	outcomes, err := Check(context.Background(), []*Program{prog}, CheckOptions{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	out := outcomes[0]
	if out.Passed() {
		t.Fatalf("expected a failure")
	}
	joined := strings.Join(out.Problems, "\n")
	for _, want := range []string{"trace mismatch", "final environment {x: 2}, want {x: 3}", "took 2 steps, want 1"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("problems %q missing %q", joined, want)
		}
	}
	if !strings.Contains(out.Diff, "- x = 3, {}") || !strings.Contains(out.Diff, "+ x = 2, {}") {
		t.Fatalf("diff = %q", out.Diff)
	}
}

func TestCheckErrorExpectations(t *testing.T) {
	failing := ast.Set("y", ast.Var("nope"))
	cases := []struct {
		name   string
		stmt   ast.Statement
		expect *Expectation
		want   string
	}{
		{"unexpected error", failing, &Expectation{}, "runtime error: Undefined variable 'nope'"},
		{"wrong error", failing, &Expectation{Error: "type error"}, `expected error containing "type error"`},
		{"missing error", ast.Nop(), &Expectation{Error: "boom"}, "run finished cleanly"},
		{"no expectation", failing, nil, "runtime error"},
	}
	for _, tc := range cases {
		prog := &Program{Name: tc.name, Statement: tc.stmt, Expect: tc.expect}
		outcomes, err := Check(context.Background(), []*Program{prog}, CheckOptions{})
		if err != nil {
			t.Fatalf("%s: Check: %v", tc.name, err)
		}
		joined := strings.Join(outcomes[0].Problems, "\n")
		if !strings.Contains(joined, tc.want) {
			t.Fatalf("%s: problems %q missing %q", tc.name, joined, tc.want)
		}
	}
}

func TestCheckStepLimit(t *testing.T) {
	prog := &Program{
		Name:      "limited",
		Statement: ast.Seq(ast.Set("a", ast.Num(1)), ast.Set("b", ast.Num(2))),
		Expect:    &Expectation{Error: "step limit"},
	}
	outcomes, err := Check(context.Background(), []*Program{prog}, CheckOptions{MaxSteps: 1})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !outcomes[0].Passed() {
		t.Fatalf("problems: %v", outcomes[0].Problems)
	}
}

func TestCheckUsesExpectationStyle(t *testing.T) {
	style := trace.Inspect
	prog := &Program{
		Name:      "inspect",
		Statement: ast.Set("x", ast.Num(2)),
		Expect: &Expectation{
			Trace: []string{"x = 2, {}", "do-nothing, {:x=><<2>>}"},
			Style: &style,
		},
	}
	outcomes, err := Check(context.Background(), []*Program{prog}, CheckOptions{Style: trace.Plain})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !outcomes[0].Passed() {
		t.Fatalf("problems: %v\n%s", outcomes[0].Problems, outcomes[0].Diff)
	}
}
