// Package checker implements structural type checking for Morph modules.
//
// Checking runs in three passes over a module: type declarations, then
// function signatures, then function bodies and solve blocks. Every error is
// collected so that one run reports all of them.
package checker

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/coreos/pkg/multierror"
	"github.com/morph-lang/morph/ast"
	"github.com/morph-lang/morph/scope"
	"github.com/morph-lang/morph/types"
)

var plog = capnslog.NewPackageLogger("github.com/morph-lang/morph", "checker")

type Checker struct {
	vars  *scope.Scope[Type]
	types *scope.Scope[Type]

	// returns is the declared return type of the function being checked, or
	// nil when it has no annotation.
	returns Type
	pos     types.Position

	errs multierror.Error
}

// New returns a checker whose root scope knows the builtin types and
// functions.
func New() *Checker {
	c := &Checker{
		vars:  scope.New[Type](nil),
		types: scope.New[Type](nil),
	}

	c.types.Define("Int", Int{})
	c.types.Define("Float", Float{})
	c.types.Define("String", String{})
	c.types.Define("Bool", Bool{})
	c.types.Define("Unit", Unit{})

	c.vars.Define("log", &Function{Returns: Unit{}, Variadic: true})
	c.vars.Define("print", &Function{Returns: Unit{}, Variadic: true})
	c.vars.Define("len", &Function{Params: []Type{&Variable{Name: "collection"}}, Returns: Int{}})
	c.vars.Define("push", &Function{Params: []Type{&Variable{Name: "list"}, &Variable{Name: "item"}}, Returns: Unit{}})
	c.vars.Define("range", &Function{Returns: &List{Elem: Int{}}, Variadic: true})

	return c
}

// Check type checks m with a fresh checker.
func Check(m *ast.Module) error {
	return New().Check(m)
}

// Check runs all three passes. It returns nil or a multierror.Error whose
// entries are *TypeError.
func (c *Checker) Check(m *ast.Module) error {
	plog.Debugf("registering types")
	for _, decl := range m.Declarations {
		switch d := decl.(type) {
		case *ast.TypeDecl:
			c.pos = d.Pos
			c.record(c.registerType(d))
		case *ast.Import:
			c.registerImport(d)
		}
	}

	plog.Debugf("registering function signatures")
	for _, fn := range m.Functions() {
		c.pos = fn.Pos
		c.registerFunction(fn)
	}

	plog.Debugf("checking bodies")
	for _, decl := range m.Declarations {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			c.checkFunction(d)
		case *ast.SolveBlock:
			c.checkSolve(d)
		}
	}

	if len(c.errs) == 0 {
		return nil
	}
	plog.Debugf("%d type errors", len(c.errs))
	return c.errs
}

// Errors lists everything found so far.
func (c *Checker) Errors() []*TypeError {
	var ret []*TypeError
	for _, err := range c.errs {
		ret = append(ret, err.(*TypeError))
	}
	return ret
}

func (c *Checker) record(err error) {
	if err == nil {
		return
	}
	plog.Tracef("%s", err)
	c.errs = append(c.errs, err)
}

func (c *Checker) fail(kind ErrorKind, format string, args ...interface{}) *TypeError {
	return &TypeError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: c.pos}
}

func (c *Checker) mismatch(expected, got Type) *TypeError {
	return &TypeError{Kind: Mismatch, Expected: expected, Got: got, Pos: c.pos}
}

func (c *Checker) undefined(kind ErrorKind, name string) *TypeError {
	return &TypeError{Kind: kind, Name: name, Pos: c.pos}
}

// resolve turns an annotation into a Type using the declared types.
func (c *Checker) resolve(t ast.TypeAnnotation) (Type, error) {
	switch a := t.(type) {
	case *ast.NamedType:
		ty, ok := c.types.Lookup(a.Name)
		if !ok {
			return Invalid{}, c.undefined(UndefinedType, a.Name)
		}
		return ty, nil
	case *ast.GenericType:
		var params []Type
		for _, p := range a.Params {
			pt, err := c.resolve(p)
			if err != nil {
				return Invalid{}, err
			}
			params = append(params, pt)
		}
		if a.Name == "List" {
			if len(params) != 1 {
				return Invalid{}, c.fail(Custom, "List requires exactly one type parameter")
			}
			return &List{Elem: params[0]}, nil
		}
		if ty, ok := c.types.Lookup(a.Name); ok {
			return ty, nil
		}
		return &Generic{Name: a.Name, Params: params}, nil
	case *ast.FunctionType:
		fn := &Function{}
		for _, p := range a.Params {
			pt, err := c.resolve(p)
			if err != nil {
				return Invalid{}, err
			}
			fn.Params = append(fn.Params, pt)
		}
		ret, err := c.resolve(a.Returns)
		if err != nil {
			return Invalid{}, err
		}
		fn.Returns = ret
		return fn, nil
	case *ast.GhostType:
		base, err := c.resolve(a.Base)
		if err != nil {
			return Invalid{}, err
		}
		return &Ghost{Base: base, Attributes: a.Attributes}, nil
	}

	panic("unhandled type annotation")
}

func (c *Checker) registerType(d *ast.TypeDecl) error {
	var ty Type

	switch def := d.Definition.(type) {
	case *ast.AliasDefinition:
		t, err := c.resolve(def.Target)
		if err != nil {
			c.types.Define(d.Name, Invalid{})
			return err
		}
		ty = t
	case *ast.RecordDefinition:
		rec := &Record{Fields: map[string]Type{}}
		for _, field := range def.Fields {
			t, err := c.resolve(field.Type)
			if err != nil {
				c.types.Define(d.Name, Invalid{})
				return err
			}
			rec.Fields[field.Name] = t
		}
		ty = rec
	case *ast.EnumDefinition:
		// enums have no variant type yet; values are their names
		ty = String{}
	}

	plog.Tracef("type %s = %s", d.Name, TypeString(ty))
	c.types.Define(d.Name, ty)
	return nil
}

// registerImport binds imported names so uses of them check; nothing is
// loaded.
func (c *Checker) registerImport(d *ast.Import) {
	if d.Items == nil {
		c.vars.Define(d.Module, &Variable{Name: d.Module})
		return
	}
	for _, item := range d.Items {
		c.vars.Define(item, &Variable{Name: item})
	}
}

func (c *Checker) paramType(p ast.Parameter) Type {
	if p.Type == nil {
		return &Variable{Name: "param_" + p.Name}
	}
	t, err := c.resolve(p.Type)
	c.record(err)
	return t
}

func (c *Checker) registerFunction(fn *ast.FunctionDecl) {
	sig := &Function{Returns: Unit{}}
	for _, p := range fn.Params {
		sig.Params = append(sig.Params, c.paramType(p))
	}
	if fn.Returns != nil {
		t, err := c.resolve(fn.Returns)
		c.record(err)
		sig.Returns = t
	}

	plog.Tracef("%s: %s", fn.Name, TypeString(sig))
	c.vars.Define(fn.Name, sig)
}

func (c *Checker) checkFunction(fn *ast.FunctionDecl) {
	plog.Tracef("checking %s", fn.Name)

	outer := c.vars
	c.vars = outer.Child()
	defer func() {
		c.vars = outer
		c.returns = nil
	}()

	c.pos = fn.Pos
	sig, _ := outer.Lookup(fn.Name)
	f, ok := sig.(*Function)
	for i, p := range fn.Params {
		if ok && len(f.Params) == len(fn.Params) {
			c.vars.Define(p.Name, f.Params[i])
		} else {
			c.vars.Define(p.Name, &Variable{Name: "param_" + p.Name})
		}
	}
	if ok && fn.Returns != nil {
		c.returns = f.Returns
	}

	c.checkBody(fn.Body)
}

func (c *Checker) checkSolve(s *ast.SolveBlock) {
	plog.Tracef("checking solve block %s", s.Name)

	outer := c.vars
	c.vars = outer.Child()
	defer func() { c.vars = outer }()

	c.pos = s.Pos
	for _, p := range s.Params {
		c.vars.Define(p.Name, c.paramType(p))
	}

	for _, constraint := range s.Constraints {
		switch con := constraint.(type) {
		case *ast.Binding:
			c.pos = con.Pos
			t, err := c.infer(con.Expr)
			c.record(err)
			c.vars.Define(con.Name, t)
		case *ast.Ensure:
			c.pos = con.Pos
			c.record(c.expectCondition(con.Expr))
		}
	}

	if s.Return != nil {
		_, err := c.infer(s.Return)
		c.record(err)
	}
}

// expectCondition checks that e can decide a branch.
func (c *Checker) expectCondition(e ast.Expression) error {
	t, err := c.infer(e)
	if err != nil {
		return err
	}
	switch unwrap(t).(type) {
	case Bool, *Variable, Invalid:
		return nil
	}
	return c.mismatch(Bool{}, t)
}

// checkBody checks each statement, recording failures and carrying on. The
// result is the type of a trailing expression statement, or Unit.
func (c *Checker) checkBody(stmts []ast.Statement) Type {
	var result Type = Unit{}

	for _, stmt := range stmts {
		t, err := c.checkStatement(stmt)
		c.record(err)
		result = t
	}

	return result
}

func (c *Checker) checkStatement(stmt ast.Statement) (Type, error) {
	switch s := stmt.(type) {
	case *ast.VariableDecl:
		c.pos = s.Pos
		inferred, err := c.infer(s.Value)
		if err != nil {
			c.vars.Define(s.Name, Invalid{})
			return Unit{}, err
		}
		if s.Type == nil {
			c.vars.Define(s.Name, inferred)
			return Unit{}, nil
		}
		annotated, err := c.resolve(s.Type)
		c.vars.Define(s.Name, annotated)
		if err != nil {
			return Unit{}, err
		}
		if !compatible(inferred, annotated) {
			return Unit{}, c.mismatch(annotated, inferred)
		}
		return Unit{}, nil
	case *ast.ExpressionStatement:
		c.pos = s.Pos
		return c.infer(s.Expr)
	case *ast.Return:
		c.pos = s.Pos
		var t Type = Unit{}
		if s.Value != nil {
			var err error
			if t, err = c.infer(s.Value); err != nil {
				return Unit{}, err
			}
		}
		if c.returns != nil && !compatible(t, c.returns) {
			return Unit{}, c.mismatch(c.returns, t)
		}
		return Unit{}, nil
	case *ast.For:
		c.pos = s.Pos
		return Unit{}, c.checkFor(s)
	case *ast.Assignment:
		c.pos = s.Pos
		return Unit{}, c.checkAssignment(s)
	}

	panic("unhandled statement")
}

func (c *Checker) checkFor(s *ast.For) error {
	iter, err := c.infer(s.Iterable)
	if err != nil {
		return err
	}

	var elem Type
	switch it := unwrap(iter).(type) {
	case *List:
		elem = it.Elem
	case *Variable, Invalid:
		elem = &Variable{Name: s.Variable}
	default:
		return c.fail(Custom, "for loop requires a list, got %s", TypeString(iter))
	}

	outer := c.vars
	c.vars = outer.Child()
	defer func() { c.vars = outer }()

	c.vars.Define(s.Variable, elem)
	if s.Guard != nil {
		if err := c.expectCondition(s.Guard); err != nil {
			return err
		}
	}
	c.checkBody(s.Body)
	return nil
}

func (c *Checker) checkAssignment(s *ast.Assignment) error {
	val, err := c.infer(s.Value)
	if err != nil {
		return err
	}

	switch target := s.Target.(type) {
	case *ast.Identifier:
		current, ok := c.vars.Lookup(target.Name)
		if !ok {
			return c.undefined(UndefinedVariable, target.Name)
		}
		if !compatible(val, current) {
			return c.mismatch(current, val)
		}
	case *ast.IndexAccess:
		elem, err := c.infer(target)
		if err != nil {
			return err
		}
		if !compatible(val, elem) {
			return c.mismatch(elem, val)
		}
	case *ast.FieldAccess:
		if _, err := c.infer(target.Object); err != nil {
			return err
		}
	}

	return nil
}
