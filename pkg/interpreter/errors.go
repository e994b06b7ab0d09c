package interpreter

import (
	"errors"
	"fmt"

	"simple/smallstep-go/pkg/ast"
)

// ErrStepLimit is returned once a machine exceeds its configured step bound.
var ErrStepLimit = errors.New("step limit exceeded")

// IrreducibleError reports a reduce request on a node in normal form. It
// signals a bug in the caller rather than in the program being run.
type IrreducibleError struct {
	Node ast.Node
}

func (e *IrreducibleError) Error() string {
	return fmt.Sprintf("%s %s is irreducible", e.Node.NodeType(), ast.Inspect(e.Node))
}

// TypeError reports an operand or condition of the wrong kind at reduction
// time.
type TypeError struct {
	Node ast.Node
	Want ast.NodeType
	Got  ast.Node
}

func (e *TypeError) Error() string {
	got := "nothing"
	if e.Got != nil {
		got = fmt.Sprintf("%s %s", e.Got.NodeType(), ast.Inspect(e.Got))
	}
	return fmt.Sprintf("%s %s expects %s, got %s", e.Node.NodeType(), ast.Inspect(e.Node), e.Want, got)
}

// UnsupportedNodeError reports a node the reduction rules do not know.
type UnsupportedNodeError struct {
	Node ast.Node
}

func (e *UnsupportedNodeError) Error() string {
	if e.Node == nil {
		return "unsupported node: <nil>"
	}
	return fmt.Sprintf("unsupported node type: %s", e.Node.NodeType())
}
