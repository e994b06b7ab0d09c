package runtime

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"simple/smallstep-go/pkg/ast"
)

func TestEnvironmentWithLeavesReceiverUntouched(t *testing.T) {
	base := NewEnvironment(nil)
	one := base.With("x", ast.Num(1))
	two := one.With("y", ast.Num(2))
	rebound := two.With("x", ast.Num(10))

	if base.Len() != 0 {
		t.Fatalf("base environment changed: %s", base)
	}
	if one.Has("y") {
		t.Fatalf("extending one leaked y back into it: %s", one)
	}
	x, err := two.Get("x")
	if err != nil {
		t.Fatalf("Get(x): %v", err)
	}
	if !ast.Equal(x, ast.Num(1)) {
		t.Fatalf("rebinding x changed an older environment: x = %s", x)
	}
	x, _ = rebound.Get("x")
	if !ast.Equal(x, ast.Num(10)) {
		t.Fatalf("rebound x = %s, want 10", x)
	}
}

func TestEnvironmentKeysKeepFirstBindingOrder(t *testing.T) {
	env := NewEnvironment(nil).
		With("b", ast.Num(1)).
		With("a", ast.Num(2)).
		With("b", ast.Num(3))
	if diff := cmp.Diff([]string{"b", "a"}, env.Keys()); diff != "" {
		t.Fatalf("Keys mismatch (-want +got):\n%s", diff)
	}
	if got := env.String(); got != "{b: 3, a: 2}" {
		t.Fatalf("String() = %q", got)
	}
}

func TestNewEnvironmentSortsKeys(t *testing.T) {
	env := NewEnvironment(map[string]ast.Expression{
		"z": ast.Num(1),
		"a": ast.Bool(true),
	})
	if diff := cmp.Diff([]string{"a", "z"}, env.Keys()); diff != "" {
		t.Fatalf("Keys mismatch (-want +got):\n%s", diff)
	}
	if got := env.String(); got != "{a: true, z: 1}" {
		t.Fatalf("String() = %q", got)
	}
}

func TestEnvironmentGetUnbound(t *testing.T) {
	_, err := NewEnvironment(nil).Get("missing")
	var undefined *UndefinedVariableError
	if !errors.As(err, &undefined) {
		t.Fatalf("expected UndefinedVariableError, got %v", err)
	}
	if undefined.Name != "missing" {
		t.Fatalf("error names %q", undefined.Name)
	}
	if err.Error() != "Undefined variable 'missing'" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestEnvironmentEmptyAndNil(t *testing.T) {
	if got := NewEnvironment(nil).String(); got != "{}" {
		t.Fatalf("empty env renders %q", got)
	}
	var env *Environment
	if env.Len() != 0 || env.Has("x") {
		t.Fatalf("nil environment should behave as empty")
	}
	next := env.With("x", ast.Num(1))
	if next.Len() != 1 {
		t.Fatalf("With on nil environment should create a binding")
	}
}

func TestEnvironmentEqualIgnoresOrder(t *testing.T) {
	a := NewEnvironment(nil).With("x", ast.Num(1)).With("y", ast.Bool(false))
	b := NewEnvironment(nil).With("y", ast.Bool(false)).With("x", ast.Num(1))
	if !a.Equal(b) {
		t.Fatalf("%s and %s should be equal", a, b)
	}
	if a.Equal(b.With("x", ast.Num(2))) {
		t.Fatalf("different values compared equal")
	}
	if a.Equal(NewEnvironment(nil)) {
		t.Fatalf("different sizes compared equal")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	env := NewEnvironment(nil).With("x", ast.Num(1))
	snap := env.Snapshot()
	snap["y"] = ast.Num(2)
	if env.Has("y") {
		t.Fatalf("mutating a snapshot changed the environment")
	}
}
