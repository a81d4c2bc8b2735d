// Package ast defines the syntax tree shared by the parser, the type checker
// and the interpreter. Nodes are built once by the parser and only read
// afterwards.
package ast

import "github.com/morph-lang/morph/types"

//go:generate sh -c "cd ../tool && go run . ../ast/nodes.adt ../ast/nodes_gen.go ast"

type FunctionMode int

const (
	Proto FunctionMode = iota
	Solid
)

type BinaryOp int

const (
	Add BinaryOp = iota
	Subtract
	Multiply
	Divide
	Modulo
	Equal
	NotEqual
	Less
	LessEq
	Greater
	GreaterEq
)

type UnaryOp int

const (
	Negate UnaryOp = iota
	Not
)

// Literals. The scalar ones double as Literal for patterns.

type IntegerLiteral int64

type FloatLiteral float64

type StringLiteral string

type BooleanLiteral bool

type ListLiteral struct {
	Elements []Expression
}

type RecordField struct {
	Name  string
	Value Expression
}

type RecordLiteral struct {
	Fields []RecordField
}

// Expressions.

type Identifier struct {
	Name string
	Pos  types.Position
}

type Binary struct {
	Left  Expression
	Op    BinaryOp
	Right Expression
	Pos   types.Position
}

type Unary struct {
	Op   UnaryOp
	Expr Expression
	Pos  types.Position
}

type Call struct {
	Callee    Expression
	Arguments []Expression
	Pos       types.Position
}

// Pipe keeps the source shape of `Left |> Right`; Call is the desugared call
// that evaluation uses.
type Pipe struct {
	Left  Expression
	Right Expression
	Call  *Call
}

type MatchArm struct {
	Pattern Pattern
	Expr    Expression
}

type Match struct {
	Subject Expression
	Arms    []MatchArm
	Pos     types.Position
}

type Block struct {
	Statements []Statement
}

type If struct {
	Condition Expression
	Then      Expression
	Else      Expression // nil when absent
}

type FieldAccess struct {
	Object Expression
	Field  string
	Pos    types.Position
}

type IndexAccess struct {
	Object Expression
	Index  Expression
	Pos    types.Position
}

type Lambda struct {
	Params []Parameter
	Body   Expression
}

type Claim struct {
	Expr Expression
}

// Statements.

type Parameter struct {
	Name string
	Type TypeAnnotation // nil when unannotated
}

type VariableDecl struct {
	Name    string
	Type    TypeAnnotation
	Value   Expression
	Mutable bool
	Pos     types.Position
}

type ExpressionStatement struct {
	Expr Expression
	Pos  types.Position
}

type Return struct {
	Value Expression // nil for a bare return
	Pos   types.Position
}

type For struct {
	Variable string
	Iterable Expression
	Guard    Expression
	Body     []Statement
	Pos      types.Position
}

type Assignment struct {
	Target Expression
	Value  Expression
	Pos    types.Position
}

// Type annotations.

type NamedType struct {
	Name string
}

type GenericType struct {
	Name   string
	Params []TypeAnnotation
}

type FunctionType struct {
	Params  []TypeAnnotation
	Returns TypeAnnotation
}

type GhostString string

type GhostNumber float64

type GhostBoolean bool

type GhostAttribute struct {
	Key   string
	Value GhostValue
}

type GhostType struct {
	Base       TypeAnnotation
	Attributes []GhostAttribute
}

// Patterns.

type WildcardPattern struct{}

type LiteralPattern struct {
	Value Literal
}

type IdentifierPattern struct {
	Name string
}

type RangePattern struct {
	From Pattern
	To   Pattern
}

type TuplePattern struct {
	Elements []Pattern
}

// Declarations.

type FunctionDecl struct {
	Mode    FunctionMode
	Name    string
	Params  []Parameter
	Returns TypeAnnotation
	Body    []Statement
	Pos     types.Position
}

type FieldType struct {
	Name string
	Type TypeAnnotation
}

type AliasDefinition struct {
	Target TypeAnnotation
}

type RecordDefinition struct {
	Fields []FieldType
}

type EnumDefinition struct {
	Variants []string
}

type TypeDecl struct {
	Name       string
	Definition TypeDefinition
	Pos        types.Position
}

type Binding struct {
	Name string
	Expr Expression
	Pos  types.Position
}

type Ensure struct {
	Expr Expression
	Pos  types.Position
}

type SolveBlock struct {
	Name        string
	Params      []Parameter
	Constraints []Constraint
	Return      Expression
	Pos         types.Position
}

type Import struct {
	Module string
	Items  []string // nil imports the whole module
	Pos    types.Position
}

// Module is the unit of compilation.
type Module struct {
	Declarations []Declaration
}

// Functions returns the function declarations in source order.
func (m *Module) Functions() []*FunctionDecl {
	var ret []*FunctionDecl
	for _, decl := range m.Declarations {
		if fn, ok := decl.(*FunctionDecl); ok {
			ret = append(ret, fn)
		}
	}
	return ret
}
