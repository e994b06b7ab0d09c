package ast

import (
	"strconv"
	"strings"
)

func (n *Number) String() string { return strconv.FormatInt(n.Value, 10) }

func (n *Boolean) String() string { return strconv.FormatBool(n.Value) }

func (n *Variable) String() string { return n.Name }

func (n *Add) String() string { return infix(n.Left, "+", n.Right) }

func (n *Multiply) String() string { return infix(n.Left, "*", n.Right) }

func (n *LessThan) String() string { return infix(n.Left, "<", n.Right) }

func (DoNothing) String() string { return "do-nothing" }

func (n *Assign) String() string { return n.Name + " = " + render(n.Expression) }

func (n *If) String() string {
	var b strings.Builder
	b.WriteString("if (")
	b.WriteString(render(n.Condition))
	b.WriteString(") { ")
	b.WriteString(render(n.Consequence))
	b.WriteString(" } else { ")
	b.WriteString(render(n.Alternative))
	b.WriteString(" }")
	return b.String()
}

func (n *Sequence) String() string { return render(n.First) + "; " + render(n.Second) }

// Inspect renders node in its debugging form, <<rendering>>.
func Inspect(node Node) string {
	return "<<" + render(node) + ">>"
}

func infix(left Expression, op string, right Expression) string {
	return render(left) + " " + op + " " + render(right)
}

func render(node Node) string {
	if node == nil {
		return "<nil>"
	}
	return node.String()
}
