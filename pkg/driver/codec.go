package driver

import (
	"fmt"
	"math"
	"strings"

	"simple/smallstep-go/pkg/ast"
)

// DecodeNode builds a tree from its generic map form, as produced by a
// YAML or JSON decoder. Every node carries a "type" key naming its
// ast.NodeType; the remaining keys match the node's fields.
func DecodeNode(node map[string]any) (ast.Node, error) {
	return decodeNode(node, "")
}

// DecodeStatement decodes node and checks that it is a statement.
func DecodeStatement(node map[string]any) (ast.Statement, error) {
	return decodeStatement(node, "")
}

// DecodeExpression decodes node and checks that it is an expression.
func DecodeExpression(node map[string]any) (ast.Expression, error) {
	return decodeExpression(node, "")
}

func decodeNode(node map[string]any, path string) (ast.Node, error) {
	if node == nil {
		return nil, fmt.Errorf("%s: missing node", pathLabel(path))
	}
	typ, _ := node["type"].(string)
	switch ast.NodeType(typ) {
	case ast.NodeNumber:
		val, err := intField(node, "value", path)
		if err != nil {
			return nil, err
		}
		return ast.NewNumber(val), nil
	case ast.NodeBoolean:
		val, ok := node["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("%s: Boolean value must be true or false, got %v", pathLabel(path), node["value"])
		}
		return ast.NewBoolean(val), nil
	case ast.NodeVariable:
		name, err := nameField(node, path)
		if err != nil {
			return nil, err
		}
		return ast.NewVariable(name), nil
	case ast.NodeAdd, ast.NodeMultiply, ast.NodeLessThan:
		left, err := decodeExpression(childMap(node, "left"), join(path, "left"))
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(childMap(node, "right"), join(path, "right"))
		if err != nil {
			return nil, err
		}
		switch ast.NodeType(typ) {
		case ast.NodeAdd:
			return ast.NewAdd(left, right), nil
		case ast.NodeMultiply:
			return ast.NewMultiply(left, right), nil
		default:
			return ast.NewLessThan(left, right), nil
		}
	case ast.NodeDoNothing:
		return ast.NewDoNothing(), nil
	case ast.NodeAssign:
		name, err := nameField(node, path)
		if err != nil {
			return nil, err
		}
		expr, err := decodeExpression(childMap(node, "expression"), join(path, "expression"))
		if err != nil {
			return nil, err
		}
		return ast.NewAssign(name, expr), nil
	case ast.NodeIf:
		cond, err := decodeExpression(childMap(node, "condition"), join(path, "condition"))
		if err != nil {
			return nil, err
		}
		cons, err := decodeStatement(childMap(node, "consequence"), join(path, "consequence"))
		if err != nil {
			return nil, err
		}
		alt, err := decodeStatement(childMap(node, "alternative"), join(path, "alternative"))
		if err != nil {
			return nil, err
		}
		return ast.NewIf(cond, cons, alt), nil
	case ast.NodeSequence:
		first, err := decodeStatement(childMap(node, "first"), join(path, "first"))
		if err != nil {
			return nil, err
		}
		second, err := decodeStatement(childMap(node, "second"), join(path, "second"))
		if err != nil {
			return nil, err
		}
		return ast.NewSequence(first, second), nil
	case "":
		return nil, fmt.Errorf("%s: node missing type", pathLabel(path))
	default:
		return nil, fmt.Errorf("%s: unknown node type %q (expected one of %s)", pathLabel(path), typ, knownTypes())
	}
}

func decodeExpression(node map[string]any, path string) (ast.Expression, error) {
	decoded, err := decodeNode(node, path)
	if err != nil {
		return nil, err
	}
	expr, ok := decoded.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("%s: %s is not an expression", pathLabel(path), decoded.NodeType())
	}
	return expr, nil
}

func decodeStatement(node map[string]any, path string) (ast.Statement, error) {
	decoded, err := decodeNode(node, path)
	if err != nil {
		return nil, err
	}
	stmt, ok := decoded.(ast.Statement)
	if !ok {
		return nil, fmt.Errorf("%s: %s is not a statement", pathLabel(path), decoded.NodeType())
	}
	return stmt, nil
}

// decodeValue accepts either a node map or a scalar shorthand: integers
// become Number and booleans become Boolean.
func decodeValue(raw any, path string) (ast.Expression, error) {
	switch v := raw.(type) {
	case bool:
		return ast.NewBoolean(v), nil
	case map[string]any:
		return decodeExpression(v, path)
	case map[any]any:
		return decodeExpression(stringKeys(v), path)
	default:
		n, err := toInt64(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pathLabel(path), err)
		}
		return ast.NewNumber(n), nil
	}
}

// EncodeNode converts a tree to the generic map form read by DecodeNode.
func EncodeNode(node ast.Node) map[string]any {
	if node == nil {
		return nil
	}
	out := map[string]any{"type": string(node.NodeType())}
	switch n := node.(type) {
	case *ast.Number:
		out["value"] = n.Value
	case *ast.Boolean:
		out["value"] = n.Value
	case *ast.Variable:
		out["name"] = n.Name
	case *ast.Add:
		out["left"], out["right"] = EncodeNode(n.Left), EncodeNode(n.Right)
	case *ast.Multiply:
		out["left"], out["right"] = EncodeNode(n.Left), EncodeNode(n.Right)
	case *ast.LessThan:
		out["left"], out["right"] = EncodeNode(n.Left), EncodeNode(n.Right)
	case *ast.Assign:
		out["name"] = n.Name
		out["expression"] = EncodeNode(n.Expression)
	case *ast.If:
		out["condition"] = EncodeNode(n.Condition)
		out["consequence"] = EncodeNode(n.Consequence)
		out["alternative"] = EncodeNode(n.Alternative)
	case *ast.Sequence:
		out["first"] = EncodeNode(n.First)
		out["second"] = EncodeNode(n.Second)
	}
	return out
}

func childMap(node map[string]any, key string) map[string]any {
	switch v := node[key].(type) {
	case map[string]any:
		return v
	case map[any]any:
		return stringKeys(v)
	default:
		return nil
	}
}

func stringKeys(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = v
	}
	return out
}

func nameField(node map[string]any, path string) (string, error) {
	name, _ := node["name"].(string)
	if name == "" {
		return "", fmt.Errorf("%s: %s requires a name", pathLabel(path), node["type"])
	}
	return name, nil
}

func intField(node map[string]any, key, path string) (int64, error) {
	raw, ok := node[key]
	if !ok {
		return 0, fmt.Errorf("%s: missing %s", pathLabel(path), key)
	}
	n, err := toInt64(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", pathLabel(path), err)
	}
	return n, nil
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d overflows int64", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("value %v is not an integer", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", raw)
	}
}

func knownTypes() string {
	kinds := ast.NodeTypes()
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = string(kind)
	}
	return strings.Join(names, ", ")
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func pathLabel(path string) string {
	if path == "" {
		return "node"
	}
	return path
}
