package checker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/morph-lang/morph/ast"
)

//go:generate sh -c "cd ../tool && go run . ../checker/types.adt ../checker/types_gen.go checker"

type Int struct{}

type Float struct{}

type String struct{}

type Bool struct{}

type Unit struct{}

type List struct {
	Elem Type
}

type Record struct {
	Fields map[string]Type
}

// Function is the type of a callable. Variadic functions accept any number
// of arguments of any type.
type Function struct {
	Params   []Type
	Returns  Type
	Variadic bool
}

// Generic is an applied type constructor other than List, such as
// Map<String, Int>. Nothing is known about it beyond its name and arguments.
type Generic struct {
	Name   string
	Params []Type
}

// Ghost carries runtime validation attributes on top of Base.
type Ghost struct {
	Base       Type
	Attributes []ast.GhostAttribute
}

// Variable stands for a type that is not known yet, such as an unannotated
// parameter. Variables are compatible with everything.
type Variable struct {
	Name string
}

// Invalid marks an expression whose checking already failed, so that one
// mistake does not cascade into more errors.
type Invalid struct{}

func unwrap(t Type) Type {
	for {
		g, ok := t.(*Ghost)
		if !ok {
			return t
		}
		t = g.Base
	}
}

// permissive reports whether t matches anything.
func permissive(t Type) bool {
	switch t.(type) {
	case *Variable, Invalid:
		return true
	}
	return false
}

// Equal is structural equality. Ghost attributes are not compared.
func Equal(a, b Type) bool {
	a, b = unwrap(a), unwrap(b)

	switch a := a.(type) {
	case *List:
		b, ok := b.(*List)
		return ok && Equal(a.Elem, b.Elem)
	case *Record:
		b, ok := b.(*Record)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for name, at := range a.Fields {
			bt, ok := b.Fields[name]
			if !ok || !Equal(at, bt) {
				return false
			}
		}
		return true
	case *Function:
		b, ok := b.(*Function)
		if !ok || a.Variadic != b.Variadic || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Equal(a.Returns, b.Returns)
	case *Generic:
		b, ok := b.(*Generic)
		if !ok || a.Name != b.Name || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	case *Variable:
		b, ok := b.(*Variable)
		return ok && a.Name == b.Name
	}

	return a == b
}

// compatible reports whether a value of type got may be used where want is
// expected. Int widens to Float; variables and invalid types match anything.
func compatible(got, want Type) bool {
	got, want = unwrap(got), unwrap(want)
	if permissive(got) || permissive(want) {
		return true
	}

	switch w := want.(type) {
	case Float:
		switch got.(type) {
		case Int, Float:
			return true
		}
		return false
	case *List:
		g, ok := got.(*List)
		return ok && compatible(g.Elem, w.Elem)
	case *Record:
		g, ok := got.(*Record)
		if !ok || len(g.Fields) != len(w.Fields) {
			return false
		}
		for name, wt := range w.Fields {
			gt, ok := g.Fields[name]
			if !ok || !compatible(gt, wt) {
				return false
			}
		}
		return true
	case *Function:
		g, ok := got.(*Function)
		if !ok {
			return false
		}
		if g.Variadic || w.Variadic {
			return true
		}
		if len(g.Params) != len(w.Params) {
			return false
		}
		for i := range w.Params {
			if !compatible(w.Params[i], g.Params[i]) {
				return false
			}
		}
		return compatible(g.Returns, w.Returns)
	}

	return Equal(got, want)
}

// TypeString renders t the way it would be written in source.
func TypeString(t Type) string {
	switch t := t.(type) {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Bool:
		return "Bool"
	case Unit:
		return "Unit"
	case *List:
		return "List<" + TypeString(t.Elem) + ">"
	case *Record:
		names := make([]string, 0, len(t.Fields))
		for name := range t.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		var fields []string
		for _, name := range names {
			fields = append(fields, name+": "+TypeString(t.Fields[name]))
		}
		return "{ " + strings.Join(fields, ", ") + " }"
	case *Function:
		if t.Variadic {
			return "(...) => " + TypeString(t.Returns)
		}
		var params []string
		for _, p := range t.Params {
			params = append(params, TypeString(p))
		}
		return "(" + strings.Join(params, ", ") + ") => " + TypeString(t.Returns)
	case *Generic:
		var params []string
		for _, p := range t.Params {
			params = append(params, TypeString(p))
		}
		return t.Name + "<" + strings.Join(params, ", ") + ">"
	case *Ghost:
		return ast.TypeString(&ast.GhostType{
			Base:       &ast.NamedType{Name: TypeString(t.Base)},
			Attributes: t.Attributes,
		})
	case *Variable:
		return "'" + t.Name
	case Invalid:
		return "<invalid>"
	case nil:
		return "<nil>"
	}
	return fmt.Sprintf("%T", t)
}
