package ast

type NodeType string

const (
	NodeNumber    NodeType = "Number"
	NodeBoolean   NodeType = "Boolean"
	NodeVariable  NodeType = "Variable"
	NodeAdd       NodeType = "Add"
	NodeMultiply  NodeType = "Multiply"
	NodeLessThan  NodeType = "LessThan"
	NodeDoNothing NodeType = "DoNothing"
	NodeAssign    NodeType = "Assign"
	NodeIf        NodeType = "If"
	NodeSequence  NodeType = "Sequence"
)

// NodeTypes lists every node kind in declaration order.
func NodeTypes() []NodeType {
	return []NodeType{
		NodeNumber,
		NodeBoolean,
		NodeVariable,
		NodeAdd,
		NodeMultiply,
		NodeLessThan,
		NodeDoNothing,
		NodeAssign,
		NodeIf,
		NodeSequence,
	}
}

type Node interface {
	NodeType() NodeType
	String() string
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Value is an expression in normal form.
type Value interface {
	Expression
	valueNode()
}

type valueMarker struct{}

func (valueMarker) valueNode() {}

// Values

type Number struct {
	nodeImpl
	expressionMarker
	valueMarker

	Value int64 `json:"value"`
}

func NewNumber(value int64) *Number {
	return &Number{nodeImpl: newNodeImpl(NodeNumber), Value: value}
}

type Boolean struct {
	nodeImpl
	expressionMarker
	valueMarker

	Value bool `json:"value"`
}

func NewBoolean(value bool) *Boolean {
	return &Boolean{nodeImpl: newNodeImpl(NodeBoolean), Value: value}
}

// Expressions

type Variable struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewVariable(name string) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

type Add struct {
	nodeImpl
	expressionMarker

	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

func NewAdd(left, right Expression) *Add {
	return &Add{nodeImpl: newNodeImpl(NodeAdd), Left: left, Right: right}
}

type Multiply struct {
	nodeImpl
	expressionMarker

	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

func NewMultiply(left, right Expression) *Multiply {
	return &Multiply{nodeImpl: newNodeImpl(NodeMultiply), Left: left, Right: right}
}

type LessThan struct {
	nodeImpl
	expressionMarker

	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

func NewLessThan(left, right Expression) *LessThan {
	return &LessThan{nodeImpl: newNodeImpl(NodeLessThan), Left: left, Right: right}
}

// Statements

// DoNothing is the terminal statement. It carries no data, so every
// instance compares equal with ==, boxed in a Statement or not.
type DoNothing struct {
	statementMarker
}

func NewDoNothing() DoNothing {
	return DoNothing{}
}

func (DoNothing) NodeType() NodeType { return NodeDoNothing }
func (DoNothing) isNode()            {}

type Assign struct {
	nodeImpl
	statementMarker

	Name       string     `json:"name"`
	Expression Expression `json:"expression"`
}

func NewAssign(name string, expression Expression) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign), Name: name, Expression: expression}
}

type If struct {
	nodeImpl
	statementMarker

	Condition   Expression `json:"condition"`
	Consequence Statement  `json:"consequence"`
	Alternative Statement  `json:"alternative"`
}

func NewIf(condition Expression, consequence, alternative Statement) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf), Condition: condition, Consequence: consequence, Alternative: alternative}
}

type Sequence struct {
	nodeImpl
	statementMarker

	First  Statement `json:"first"`
	Second Statement `json:"second"`
}

func NewSequence(first, second Statement) *Sequence {
	return &Sequence{nodeImpl: newNodeImpl(NodeSequence), First: first, Second: second}
}

// IsDoNothing reports whether stmt is the terminal statement.
func IsDoNothing(stmt Statement) bool {
	if p, ok := stmt.(*DoNothing); ok {
		return p != nil
	}
	return stmt == Statement(DoNothing{})
}

// Reducible reports whether a rewrite step is defined for node.
func Reducible(node Node) bool {
	switch node.(type) {
	case nil, *Number, *Boolean, DoNothing, *DoNothing:
		return false
	default:
		return true
	}
}
