package interpreter

import (
	"simple/smallstep-go/pkg/ast"
	"simple/smallstep-go/pkg/debug"
	"simple/smallstep-go/pkg/runtime"
)

// ReduceExpression rewrites expr by exactly one step. Binary operators
// reduce their left operand first, then their right, and only compute once
// both are values. The environment is read, never changed.
func ReduceExpression(expr ast.Expression, env *runtime.Environment) (ast.Expression, error) {
	next, err := reduceExpression(expr, env)
	if err != nil {
		return nil, err
	}
	if debug.Reduce() {
		debug.Logf("reduce %s => %s", ast.Inspect(expr), ast.Inspect(next))
	}
	return next, nil
}

func reduceExpression(expr ast.Expression, env *runtime.Environment) (ast.Expression, error) {
	switch n := expr.(type) {
	case *ast.Number, *ast.Boolean:
		return nil, &IrreducibleError{Node: n}
	case *ast.Variable:
		return env.Get(n.Name)
	case *ast.Add:
		left, right, done, err := reduceOperands(n.Left, n.Right, env)
		if err != nil {
			return nil, err
		}
		if !done {
			return ast.NewAdd(left, right), nil
		}
		l, r, err := numberOperands(n, left, right)
		if err != nil {
			return nil, err
		}
		return ast.NewNumber(l + r), nil
	case *ast.Multiply:
		left, right, done, err := reduceOperands(n.Left, n.Right, env)
		if err != nil {
			return nil, err
		}
		if !done {
			return ast.NewMultiply(left, right), nil
		}
		l, r, err := numberOperands(n, left, right)
		if err != nil {
			return nil, err
		}
		return ast.NewNumber(l * r), nil
	case *ast.LessThan:
		left, right, done, err := reduceOperands(n.Left, n.Right, env)
		if err != nil {
			return nil, err
		}
		if !done {
			return ast.NewLessThan(left, right), nil
		}
		l, r, err := numberOperands(n, left, right)
		if err != nil {
			return nil, err
		}
		return ast.NewBoolean(l < r), nil
	default:
		return nil, &UnsupportedNodeError{Node: expr}
	}
}

// reduceOperands steps the leftmost reducible operand. done is true when
// neither operand is reducible and the operator itself should fire.
func reduceOperands(left, right ast.Expression, env *runtime.Environment) (ast.Expression, ast.Expression, bool, error) {
	if ast.Reducible(left) {
		next, err := ReduceExpression(left, env)
		return next, right, false, err
	}
	if ast.Reducible(right) {
		next, err := ReduceExpression(right, env)
		return left, next, false, err
	}
	return left, right, true, nil
}

func numberOperands(node ast.Expression, left, right ast.Expression) (int64, int64, error) {
	l, ok := left.(*ast.Number)
	if !ok {
		return 0, 0, &TypeError{Node: node, Want: ast.NodeNumber, Got: left}
	}
	r, ok := right.(*ast.Number)
	if !ok {
		return 0, 0, &TypeError{Node: node, Want: ast.NodeNumber, Got: right}
	}
	return l.Value, r.Value, nil
}

// Evaluate reduces expr until it reaches a value, returning the value.
func Evaluate(expr ast.Expression, env *runtime.Environment) (ast.Expression, error) {
	for ast.Reducible(expr) {
		next, err := ReduceExpression(expr, env)
		if err != nil {
			return nil, err
		}
		expr = next
	}
	if expr == nil {
		return nil, &UnsupportedNodeError{}
	}
	return expr, nil
}
