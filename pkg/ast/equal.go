package ast

// Equal reports whether a and b are the same tree. Node identity is never
// consulted; two separately built trees with the same shape and data are
// equal.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.NodeType() != b.NodeType() {
		return false
	}
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name == y.Name
	case *Add:
		y, ok := b.(*Add)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Multiply:
		y, ok := b.(*Multiply)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *LessThan:
		y, ok := b.(*LessThan)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case DoNothing, *DoNothing:
		return true
	case *Assign:
		y, ok := b.(*Assign)
		return ok && x.Name == y.Name && Equal(x.Expression, y.Expression)
	case *If:
		y, ok := b.(*If)
		return ok && Equal(x.Condition, y.Condition) &&
			Equal(x.Consequence, y.Consequence) &&
			Equal(x.Alternative, y.Alternative)
	case *Sequence:
		y, ok := b.(*Sequence)
		return ok && Equal(x.First, y.First) && Equal(x.Second, y.Second)
	default:
		return false
	}
}
