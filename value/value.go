// Package value holds the runtime values produced by the interpreter.
//
// Values are immutable once built: operations that change a List or Record
// produce a new one. This lets environments and closures share values
// without observing each other's updates.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/morph-lang/morph/ast"
)

//go:generate sh -c "cd ../tool && go run . ../value/values.adt ../value/values_gen.go value"

type Integer int64

type Float float64

type String string

type Boolean bool

type List []Value

type Record map[string]Value

type Unit struct{}

// Function is a user-defined function or lambda together with the bindings
// captured where it was created.
type Function struct {
	Name   string
	Params []ast.Parameter

	// Exactly one of Body and Expr is set: declared functions run a
	// statement body, lambdas evaluate a single expression.
	Body []ast.Statement
	Expr ast.Expression

	Closure map[string]Value

	// Solid functions are declared for hardening and cannot be run by the
	// interpreter.
	Solid bool

	// source identifies the declaration for equality.
	source interface{}
}

func NewFunction(decl *ast.FunctionDecl, closure map[string]Value) *Function {
	return &Function{
		Name:    decl.Name,
		Params:  decl.Params,
		Body:    decl.Body,
		Closure: closure,
		Solid:   decl.Mode == ast.Solid,
		source:  decl,
	}
}

func NewLambda(lambda *ast.Lambda, closure map[string]Value) *Function {
	return &Function{
		Name:    "<lambda>",
		Params:  lambda.Params,
		Expr:    lambda.Body,
		Closure: closure,
		source:  lambda,
	}
}

// Builtin is a native function. Implementations may carry state such as an
// output writer.
type Builtin interface {
	Name() string
	Call(args []Value) (Value, error)
}

type BuiltinFunction struct {
	Builtin
}

func (v Integer) String() string {
	return strconv.FormatInt(int64(v), 10)
}

func (v Float) String() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

func (v String) String() string {
	return string(v)
}

func (v Boolean) String() string {
	return strconv.FormatBool(bool(v))
}

func (v List) String() string {
	var elems []string
	for _, e := range v {
		elems = append(elems, Format(e))
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

func (v Record) String() string {
	if len(v) == 0 {
		return "{  }"
	}
	var entries []string
	for _, k := range v.Keys() {
		entries = append(entries, k+": "+Format(v[k]))
	}
	return "{ " + strings.Join(entries, ", ") + " }"
}

// Keys returns the field names in sorted order.
func (v Record) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of v with element i replaced.
func (v List) With(i int, val Value) List {
	ret := make(List, len(v))
	copy(ret, v)
	ret[i] = val
	return ret
}

func (v *Function) String() string {
	return "<function>"
}

func (v *BuiltinFunction) String() string {
	return "<function>"
}

func (v Unit) String() string {
	return "()"
}

// Format renders v the way print shows it.
func Format(v Value) string {
	if v == nil {
		return "()"
	}
	return fmt.Sprint(v)
}

// TypeName is the user-facing name of v's kind.
func TypeName(v Value) string {
	switch v.(type) {
	case Integer:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Boolean:
		return "Bool"
	case List:
		return "List"
	case Record:
		return "Record"
	case *Function, *BuiltinFunction:
		return "Function"
	case Unit:
		return "Unit"
	}
	return fmt.Sprintf("%T", v)
}

// Truthy: false, zero numbers, empty strings, lists and records, and unit
// are falsy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Boolean:
		return bool(v)
	case Integer:
		return v != 0
	case Float:
		return v != 0
	case String:
		return v != ""
	case List:
		return len(v) > 0
	case Record:
		return len(v) > 0
	case *Function, *BuiltinFunction:
		return true
	}
	return false
}

// Equal is structural equality. Values of different kinds are never equal,
// so Integer(1) and Float(1) differ.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Integer:
		b, ok := b.(Integer)
		return ok && a == b
	case Float:
		b, ok := b.(Float)
		return ok && a == b
	case String:
		b, ok := b.(String)
		return ok && a == b
	case Boolean:
		b, ok := b.(Boolean)
		return ok && a == b
	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Record:
		b, ok := b.(Record)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case *Function:
		b, ok := b.(*Function)
		return ok && a.source == b.source
	case *BuiltinFunction:
		b, ok := b.(*BuiltinFunction)
		return ok && a.Name() == b.Name()
	case Unit:
		_, ok := b.(Unit)
		return ok
	}
	return false
}
