package interpreter

import (
	"simple/smallstep-go/pkg/ast"
	"simple/smallstep-go/pkg/debug"
	"simple/smallstep-go/pkg/runtime"
)

// ReduceStatement rewrites stmt by exactly one step and returns the
// successor statement with the environment it runs under. Only a
// completed assignment extends the environment; every other rule hands
// env back as given.
func ReduceStatement(stmt ast.Statement, env *runtime.Environment) (ast.Statement, *runtime.Environment, error) {
	next, nextEnv, err := reduceStatement(stmt, env)
	if err != nil {
		return nil, nil, err
	}
	if debug.Reduce() {
		debug.Logf("reduce %s => %s, %s", ast.Inspect(stmt), ast.Inspect(next), nextEnv)
	}
	return next, nextEnv, nil
}

func reduceStatement(stmt ast.Statement, env *runtime.Environment) (ast.Statement, *runtime.Environment, error) {
	switch n := stmt.(type) {
	case ast.DoNothing, *ast.DoNothing:
		return nil, nil, &IrreducibleError{Node: n}
	case *ast.Assign:
		return reduceAssign(n, env)
	case *ast.If:
		return reduceIf(n, env)
	case *ast.Sequence:
		return reduceSequence(n, env)
	default:
		return nil, nil, &UnsupportedNodeError{Node: stmt}
	}
}

func reduceAssign(n *ast.Assign, env *runtime.Environment) (ast.Statement, *runtime.Environment, error) {
	if ast.Reducible(n.Expression) {
		expr, err := ReduceExpression(n.Expression, env)
		if err != nil {
			return nil, nil, err
		}
		return ast.NewAssign(n.Name, expr), env, nil
	}
	return ast.NewDoNothing(), env.With(n.Name, n.Expression), nil
}

// reduceIf selects a branch but leaves it unreduced; the branch takes its
// first step on the following machine step.
func reduceIf(n *ast.If, env *runtime.Environment) (ast.Statement, *runtime.Environment, error) {
	if ast.Reducible(n.Condition) {
		cond, err := ReduceExpression(n.Condition, env)
		if err != nil {
			return nil, nil, err
		}
		return ast.NewIf(cond, n.Consequence, n.Alternative), env, nil
	}
	cond, ok := n.Condition.(*ast.Boolean)
	if !ok {
		return nil, nil, &TypeError{Node: n, Want: ast.NodeBoolean, Got: n.Condition}
	}
	if cond.Value {
		return n.Consequence, env, nil
	}
	return n.Alternative, env, nil
}

func reduceSequence(n *ast.Sequence, env *runtime.Environment) (ast.Statement, *runtime.Environment, error) {
	if ast.IsDoNothing(n.First) {
		return n.Second, env, nil
	}
	first, nextEnv, err := ReduceStatement(n.First, env)
	if err != nil {
		return nil, nil, err
	}
	return ast.NewSequence(first, n.Second), nextEnv, nil
}
