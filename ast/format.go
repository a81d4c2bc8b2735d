package ast

import (
	"fmt"
	"strconv"
	"strings"
)

var binaryOps = map[BinaryOp]string{
	Add:       "+",
	Subtract:  "-",
	Multiply:  "*",
	Divide:    "/",
	Modulo:    "%",
	Equal:     "==",
	NotEqual:  "!=",
	Less:      "<",
	LessEq:    "<=",
	Greater:   ">",
	GreaterEq: ">=",
}

func (o BinaryOp) String() string {
	if s, ok := binaryOps[o]; ok {
		return s
	}
	return fmt.Sprintf("BinaryOp(%d)", int(o))
}

func (o UnaryOp) String() string {
	switch o {
	case Negate:
		return "-"
	case Not:
		return "!"
	}
	return fmt.Sprintf("UnaryOp(%d)", int(o))
}

func (m FunctionMode) String() string {
	if m == Solid {
		return "solid"
	}
	return "proto"
}

func ghostValueString(v GhostValue) string {
	switch v := v.(type) {
	case GhostString:
		return strconv.Quote(string(v))
	case GhostNumber:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case GhostBoolean:
		return strconv.FormatBool(bool(v))
	}
	panic("unhandled ghost value")
}

// TypeString renders an annotation back in source syntax. A nil annotation
// renders as the empty string.
func TypeString(t TypeAnnotation) string {
	if t == nil {
		return ""
	}

	switch v := t.(type) {
	case *NamedType:
		return v.Name
	case *GenericType:
		var params []string
		for _, p := range v.Params {
			params = append(params, TypeString(p))
		}
		return fmt.Sprintf("%s<%s>", v.Name, strings.Join(params, ", "))
	case *FunctionType:
		var params []string
		for _, p := range v.Params {
			params = append(params, TypeString(p))
		}
		return fmt.Sprintf("(%s) => %s", strings.Join(params, ", "), TypeString(v.Returns))
	case *GhostType:
		var attrs []string
		for _, a := range v.Attributes {
			attrs = append(attrs, a.Key+": "+ghostValueString(a.Value))
		}
		return fmt.Sprintf("%s<Ghost: %s>", TypeString(v.Base), strings.Join(attrs, ", "))
	}

	panic("unhandled type annotation")
}

// Signature renders a function header, e.g. `proto add(a: Int, b: Int) => Int`.
func (f *FunctionDecl) Signature() string {
	var params []string
	for _, p := range f.Params {
		if p.Type == nil {
			params = append(params, p.Name)
			continue
		}
		params = append(params, p.Name+": "+TypeString(p.Type))
	}
	sig := fmt.Sprintf("%s %s(%s)", f.Mode, f.Name, strings.Join(params, ", "))
	if f.Returns != nil {
		sig += " => " + TypeString(f.Returns)
	}
	return sig
}
