package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"simple/smallstep-go/pkg/driver"
	"simple/smallstep-go/pkg/trace"
)

const sequenceYAML = `
name: sequence
program:
  type: Sequence
  first: {type: Assign, name: x, expression: {type: Add, left: {type: Number, value: 1}, right: {type: Number, value: 1}}}
  second: {type: Assign, name: y, expression: {type: Add, left: {type: Variable, name: x}, right: {type: Number, value: 3}}}
`

func writeProgram(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestRunProgramPrintsTrace(t *testing.T) {
	path := writeProgram(t, "seq.yml", sequenceYAML)
	var stdout, stderr strings.Builder
	if code := runProgram([]string{path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	want := strings.Join([]string{
		"x = 1 + 1; y = x + 3, {}",
		"x = 2; y = x + 3, {}",
		"do-nothing; y = x + 3, {x: 2}",
		"y = x + 3, {x: 2}",
		"y = 2 + 3, {x: 2}",
		"y = 5, {x: 2}",
		"do-nothing, {x: 2, y: 5}",
	}, "\n") + "\n"
	if stdout.String() != want {
		t.Fatalf("stdout:\n%s\nwant:\n%s", stdout.String(), want)
	}
}

func TestRunProgramQuietInspect(t *testing.T) {
	path := writeProgram(t, "seq.yml", sequenceYAML)
	var stdout, stderr strings.Builder
	if code := runProgram([]string{"-q", "-i", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	if got := stdout.String(); got != "do-nothing, {:x=><<2>>, :y=><<5>>}\n" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestRunProgramRuntimeError(t *testing.T) {
	path := writeProgram(t, "bad.yml", `
program: {type: Assign, name: y, expression: {type: Variable, name: z}}
`)
	var stdout, stderr strings.Builder
	if code := runProgram([]string{path}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "runtime error: Undefined variable 'z'") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "stopped after 0 steps at: y = z, {}") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRunProgramStepLimit(t *testing.T) {
	path := writeProgram(t, "seq.yml", sequenceYAML)
	var stdout, stderr strings.Builder
	if code := runProgram([]string{"-m", "2", path}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "step limit exceeded") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRunProgramArgumentErrors(t *testing.T) {
	var stdout, stderr strings.Builder
	if code := runProgram(nil, &stdout, &stderr); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "requires a program file") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	stderr.Reset()
	if code := runProgram([]string{"-m", "lots", "x.yml"}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), `invalid -m parameter "lots"`) {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestParseFlags(t *testing.T) {
	t.Setenv("SMALLSTEP_MAX_STEPS", "40")
	cfg, rest, err := parseFlags("check", []string{"-j", "3", "-i", "-C", "a.yml", "b.yml"}, "m:ij:cCh")
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.parallelism != 3 || cfg.style != trace.Inspect || cfg.color != colorOff || cfg.maxSteps != 40 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if strings.Join(rest, ",") != "a.yml,b.yml" {
		t.Fatalf("rest = %v", rest)
	}
	if cfg.colorsFor(os.Stdout) != nil {
		t.Fatalf("-C should disable colors")
	}
}

func TestParseFlagsRejectsBadEnvironment(t *testing.T) {
	t.Setenv("SMALLSTEP_MAX_STEPS", "-5")
	if _, _, err := parseFlags("run", nil, "m:"); err == nil {
		t.Fatalf("expected an error for a negative SMALLSTEP_MAX_STEPS")
	}
}

func TestDemoRecordThenCheck(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "demo.yml")
	var stdout, stderr strings.Builder
	if code := runDemo([]string{"-w", out}, &stdout, &stderr); code != 0 {
		t.Fatalf("demo exit %d, stderr: %s", code, stderr.String())
	}
	prog, err := driver.LoadProgram(out)
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if prog.Expect == nil || len(prog.Expect.Trace) != 7 || *prog.Expect.Steps != 6 {
		t.Fatalf("recorded expectation = %+v", prog.Expect)
	}

	stdout.Reset()
	if code := runCheck([]string{"-C", dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("check exit %d, stdout: %s stderr: %s", code, stdout.String(), stderr.String())
	}
	if !strings.Contains(stdout.String(), "ok   demo (6 steps)") || !strings.Contains(stdout.String(), "1 passed, 0 failed") {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestCheckReportsFailure(t *testing.T) {
	path := writeProgram(t, "wrong.yml", sequenceYAML+`expect:
  environment: {x: 2, y: 6}
`)
	var stdout, stderr strings.Builder
	if code := runCheck([]string{path}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	for _, want := range []string{"FAIL sequence", "final environment {x: 2, y: 5}, want {x: 2, y: 6}", "0 passed, 1 failed"} {
		if !strings.Contains(stdout.String(), want) {
			t.Fatalf("stdout %q missing %q", stdout.String(), want)
		}
	}
}

func TestStepperCommands(t *testing.T) {
	s := newStepper(demoProgram(), config{}, trace.Renderer{})
	var out strings.Builder

	if s.handle("", &out) {
		t.Fatalf("step should not end the session")
	}
	if got := out.String(); got != "[1] x = 2; y = x + 3, {}\n" {
		t.Fatalf("step printed %q", got)
	}

	out.Reset()
	s.handle(":run", &out)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 7 || lines[len(lines)-1] != "(terminal after 6 steps)" {
		t.Fatalf(":run printed %q", out.String())
	}

	out.Reset()
	s.handle(":step", &out)
	if !strings.Contains(out.String(), "already terminal") {
		t.Fatalf(":step at the end printed %q", out.String())
	}

	out.Reset()
	s.handle(":env", &out)
	if out.String() != "{x: 2, y: 5}\n" {
		t.Fatalf(":env printed %q", out.String())
	}

	out.Reset()
	s.handle(":reset", &out)
	if out.String() != "[0] x = 1 + 1; y = x + 3, {}\n" {
		t.Fatalf(":reset printed %q", out.String())
	}

	out.Reset()
	s.handle(":bogus", &out)
	if !strings.Contains(out.String(), `unknown command ":bogus"`) {
		t.Fatalf("unknown command printed %q", out.String())
	}

	if !s.handle(":quit", &out) {
		t.Fatalf(":quit should end the session")
	}
}

func TestHistoryPathOverride(t *testing.T) {
	t.Setenv("SMALLSTEP_HISTORY", "/tmp/custom_history")
	if got := historyPath(); got != "/tmp/custom_history" {
		t.Fatalf("historyPath = %q", got)
	}
}

func TestDemoRecordInspectThenCheck(t *testing.T) {
	out := filepath.Join(t.TempDir(), "demo.yml")
	var stdout, stderr strings.Builder
	if code := runDemo([]string{"-i", "-w", out}, &stdout, &stderr); code != 0 {
		t.Fatalf("demo exit %d, stderr: %s", code, stderr.String())
	}
	prog, err := driver.LoadProgram(out)
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if prog.Expect.Style == nil || *prog.Expect.Style != trace.Inspect {
		t.Fatalf("recorded style = %v", prog.Expect.Style)
	}
	if last := prog.Expect.Trace[len(prog.Expect.Trace)-1]; last != "do-nothing, {:x=><<2>>, :y=><<5>>}" {
		t.Fatalf("last recorded line = %q", last)
	}

	stdout.Reset()
	if code := runCheck([]string{"-C", out}, &stdout, &stderr); code != 0 {
		t.Fatalf("check exit %d, stdout: %s stderr: %s", code, stdout.String(), stderr.String())
	}
	if !strings.Contains(stdout.String(), "1 passed, 0 failed") {
		t.Fatalf("stdout = %q", stdout.String())
	}
}
