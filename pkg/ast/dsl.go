package ast

// Value helpers.

func Num(value int64) *Number {
	return NewNumber(value)
}

func Bool(value bool) *Boolean {
	return NewBoolean(value)
}

// Expression helpers.

func Var(name string) *Variable {
	return NewVariable(name)
}

func Plus(left, right Expression) *Add {
	return NewAdd(left, right)
}

func Times(left, right Expression) *Multiply {
	return NewMultiply(left, right)
}

func Less(left, right Expression) *LessThan {
	return NewLessThan(left, right)
}

// Statement helpers.

func Nop() DoNothing {
	return NewDoNothing()
}

func Set(name string, expression Expression) *Assign {
	return NewAssign(name, expression)
}

func IfElse(condition Expression, consequence, alternative Statement) *If {
	return NewIf(condition, consequence, alternative)
}

// Seq chains statements into right-nested sequences: Seq(a, b, c) is
// a; (b; c). A single statement is returned unchanged and no statements
// yield do-nothing.
func Seq(stmts ...Statement) Statement {
	switch len(stmts) {
	case 0:
		return NewDoNothing()
	case 1:
		return stmts[0]
	}
	return NewSequence(stmts[0], Seq(stmts[1:]...))
}
