// Package solid lowers the signatures of solid functions to LLVM IR
// declarations. Function bodies are not compiled yet; the declarations and
// the embedded type information are what later stages link against.
package solid

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/morph-lang/morph/ast"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/morph-lang/morph", "solid")

// HardenError reports a solid declaration that cannot be lowered.
type HardenError struct {
	Function string
	Message  string
}

func (e HardenError) Error() string {
	return fmt.Sprintf("cannot harden %s: %s", e.Function, e.Message)
}

type ctx struct {
	names   map[string]types.Type
	aliases map[string]ast.TypeAnnotation
	records map[string]*ast.RecordDefinition
	module  *ir.Module

	// fn is the function being lowered, for error messages.
	fn string
}

func (c *ctx) fail(msg string, fmts ...interface{}) {
	panic(HardenError{Function: c.fn, Message: fmt.Sprintf(msg, fmts...)})
}

// lookup resolves a type name, lowering record and alias declarations the
// first time they are used.
func (c *ctx) lookup(name string) types.Type {
	if t, ok := c.names[name]; ok {
		return t
	}

	if rec, ok := c.records[name]; ok {
		// named before lowering the fields so self references terminate
		st := types.NewStruct()
		c.names[name] = types.NewPointer(st)
		for _, field := range rec.Fields {
			st.Fields = append(st.Fields, c.lower(field.Type))
		}
		c.module.NewTypeDef(name, st)
		return c.names[name]
	}

	if target, ok := c.aliases[name]; ok {
		// guard against alias cycles
		c.names[name] = Opaque
		t := c.lower(target)
		c.names[name] = t
		return t
	}

	c.fail("undefined type %s", name)
	return nil
}

// lower maps a Morph type annotation to its LLVM representation. Ghost
// attributes have no runtime representation and lower to their base.
func (c *ctx) lower(t ast.TypeAnnotation) types.Type {
	switch kind := t.(type) {
	case nil:
		return Opaque
	case *ast.NamedType:
		return c.lookup(kind.Name)
	case *ast.GhostType:
		return c.lower(kind.Base)
	case *ast.GenericType:
		if kind.Name == "List" {
			return c.lookup("List")
		}
		return Opaque
	case *ast.FunctionType:
		var params []types.Type
		for _, p := range kind.Params {
			params = append(params, c.value(p))
		}
		return types.NewPointer(types.NewFunc(c.lower(kind.Returns), params...))
	}

	panic("unhandled")
}

// value lowers a type used as a parameter, where void is not allowed.
func (c *ctx) value(t ast.TypeAnnotation) types.Type {
	ret := c.lower(t)
	if types.IsVoid(ret) {
		c.fail("Unit cannot be used as a parameter type")
	}
	return ret
}

func (c *ctx) declare(fn *ast.FunctionDecl) *ir.Func {
	c.fn = fn.Name

	var ret types.Type = Unit
	if fn.Returns != nil {
		ret = c.lower(fn.Returns)
	}

	var params []*ir.Param
	for _, param := range fn.Params {
		params = append(params, ir.NewParam(param.Name, c.value(param.Type)))
	}

	plog.Debugf("declaring %s", fn.Signature())
	return c.module.NewFunc(fn.Name, ret, params...)
}

// Harden declares every solid function in m in a fresh LLVM module, together
// with the named types they use and a TypeInfo global.
func Harden(m *ast.Module) (mod *ir.Module, err error) {
	defer func() {
		if v := recover(); v != nil {
			if herr, ok := v.(HardenError); ok {
				mod, err = nil, tracerr.Wrap(herr)
			} else {
				panic(v)
			}
		}
	}()

	c := &ctx{
		names: map[string]types.Type{
			"Int":   Int,
			"Float": Float,
			"Bool":  Bool,
			"Unit":  Unit,
		},
		aliases: map[string]ast.TypeAnnotation{},
		records: map[string]*ast.RecordDefinition{},
		module:  ir.NewModule(),
	}
	c.names["String"] = c.module.NewTypeDef("String", newString())
	c.names["List"] = c.module.NewTypeDef("List", newList())

	info := TypeInfo{Functions: map[string]string{}, Types: map[string]string{}}

	for _, decl := range m.Declarations {
		td, ok := decl.(*ast.TypeDecl)
		if !ok {
			continue
		}
		switch def := td.Definition.(type) {
		case *ast.AliasDefinition:
			c.aliases[td.Name] = def.Target
			info.Types[td.Name] = ast.TypeString(def.Target)
		case *ast.RecordDefinition:
			c.records[td.Name] = def
			info.Types[td.Name] = "record"
		case *ast.EnumDefinition:
			c.names[td.Name] = c.names["String"]
			info.Types[td.Name] = "enum"
		}
	}

	for _, fn := range m.Functions() {
		if fn.Mode != ast.Solid {
			continue
		}
		c.declare(fn)
		info.Functions[fn.Name] = fn.Signature()
	}

	if err := registerTypeInfo(info, c.module); err != nil {
		return nil, tracerr.Wrap(err)
	}
	return c.module, nil
}
