// Package interpreter executes the draft (proto) stage of Morph modules by
// walking the syntax tree.
package interpreter

import (
	"io"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/morph-lang/morph/ast"
	"github.com/morph-lang/morph/scope"
	"github.com/morph-lang/morph/types"
	"github.com/morph-lang/morph/value"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/morph-lang/morph", "interpreter")

type Interpreter struct {
	globals *scope.Scope[value.Value]
	env     *scope.Scope[value.Value]

	// aliases maps declared type names to their definitions so annotated
	// bindings can find Ghost attributes.
	aliases map[string]ast.TypeAnnotation
	solves  []*ast.SolveBlock

	out io.Writer
	pos types.Position
}

type Option func(*Interpreter)

// WithOutput sends log and print output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// New returns an interpreter with the builtin functions installed in its
// global scope.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		globals: scope.New[value.Value](nil),
		aliases: map[string]ast.TypeAnnotation{},
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(in)
	}

	for _, b := range builtins(in.out) {
		in.globals.Define(b.Name(), &value.BuiltinFunction{Builtin: b})
	}
	in.env = in.globals

	return in
}

// Interpret runs m with a fresh interpreter.
func Interpret(m *ast.Module) (value.Value, error) {
	return New().Interpret(m)
}

// Interpret registers m's declarations, then calls main if there is one and
// otherwise runs every solve block in order, returning the last result.
func (in *Interpreter) Interpret(m *ast.Module) (value.Value, error) {
	in.Load(m)

	if hasMain(m) {
		return in.Call("main")
	}

	var result value.Value = value.Unit{}
	for _, decl := range m.Declarations {
		solve, ok := decl.(*ast.SolveBlock)
		if !ok {
			continue
		}
		v, err := in.solve(solve)
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		result = v
	}
	return result, nil
}

func hasMain(m *ast.Module) bool {
	for _, fn := range m.Functions() {
		if fn.Name == "main" {
			return true
		}
	}
	return false
}

// Load registers m's type and function declarations without running
// anything. Each function captures a snapshot of the globals defined so far.
func (in *Interpreter) Load(m *ast.Module) {
	for _, decl := range m.Declarations {
		switch d := decl.(type) {
		case *ast.TypeDecl:
			if alias, ok := d.Definition.(*ast.AliasDefinition); ok {
				in.aliases[d.Name] = alias.Target
			}
		case *ast.FunctionDecl:
			plog.Tracef("registering %s", d.Signature())
			in.globals.Define(d.Name, value.NewFunction(d, in.globals.Snapshot()))
		case *ast.SolveBlock:
			in.solves = append(in.solves, d)
		}
	}
}

// Call invokes the global function name with args.
func (in *Interpreter) Call(name string, args ...value.Value) (value.Value, error) {
	fn, ok := in.globals.Lookup(name)
	if !ok {
		return nil, tracerr.Wrap(&RuntimeError{Kind: UndefinedFunction, Name: name})
	}

	v, err := in.call(fn, args)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return v, nil
}

// Solve runs the previously loaded solve block called name.
func (in *Interpreter) Solve(name string) (value.Value, error) {
	for _, s := range in.solves {
		if s.Name == name {
			v, err := in.solve(s)
			if err != nil {
				return nil, tracerr.Wrap(err)
			}
			return v, nil
		}
	}
	return nil, tracerr.Wrap(&RuntimeError{Kind: UndefinedFunction, Name: name})
}

// Eval runs stmts directly in the global scope, so their bindings stay
// visible to later calls. A return statement ends the run early.
func (in *Interpreter) Eval(stmts []ast.Statement) (value.Value, error) {
	in.env = in.globals

	var result value.Value = value.Unit{}
	for _, stmt := range stmts {
		v, err := in.exec(stmt)
		if ret, ok := err.(*returnSignal); ok {
			return ret.value, nil
		} else if err != nil {
			return nil, tracerr.Wrap(err)
		}
		result = v
	}
	return result, nil
}

// Globals lists the names defined in the global scope.
func (in *Interpreter) Globals() []string {
	return in.globals.Names()
}

// locate stamps err with the current statement position if it has none.
func (in *Interpreter) locate(err error) error {
	if rerr, ok := err.(*RuntimeError); ok && rerr.Pos.Line == 0 {
		rerr.Pos = in.pos
	}
	return err
}

// returnSignal carries a return value up to the enclosing call.
type returnSignal struct {
	value value.Value
}

func (r *returnSignal) Error() string {
	return "return outside of a function"
}

func (in *Interpreter) call(callee value.Value, args []value.Value) (value.Value, error) {
	switch fn := callee.(type) {
	case *value.BuiltinFunction:
		v, err := fn.Call(args)
		if err != nil {
			return nil, in.locate(err)
		}
		return v, nil
	case *value.Function:
		return in.callFunction(fn, args)
	}

	return nil, in.locate(typeErrorf("%s is not a function", value.TypeName(callee)))
}

// callFunction runs fn in a fresh scope: globals, then the captured
// snapshot, then the parameters.
func (in *Interpreter) callFunction(fn *value.Function, args []value.Value) (value.Value, error) {
	if fn.Solid {
		return nil, in.locate(&RuntimeError{Kind: InvalidOperation, Message: "solid function " + fn.Name + " cannot run in draft mode"})
	}
	if len(fn.Params) != len(args) {
		return nil, in.locate(arity(len(fn.Params), len(args)))
	}

	plog.Tracef("calling %s", fn.Name)

	env := in.globals.Child()
	for name, v := range fn.Closure {
		env.Define(name, v)
	}
	for i, p := range fn.Params {
		env.Define(p.Name, args[i])
	}

	caller, pos := in.env, in.pos
	in.env = env
	defer func() {
		in.env, in.pos = caller, pos
	}()

	if fn.Expr != nil {
		return in.result(in.eval(fn.Expr))
	}

	var result value.Value = value.Unit{}
	for _, stmt := range fn.Body {
		v, err := in.exec(stmt)
		if err != nil {
			return in.result(nil, err)
		}
		result = v
	}
	return result, nil
}

// result converts a return signal into an ordinary result.
func (in *Interpreter) result(v value.Value, err error) (value.Value, error) {
	if ret, ok := err.(*returnSignal); ok {
		return ret.value, nil
	}
	return v, err
}

func (in *Interpreter) solve(s *ast.SolveBlock) (value.Value, error) {
	plog.Debugf("solving %s", s.Name)

	outer := in.env
	in.env = outer.Child()
	defer func() { in.env = outer }()

	// solve blocks cannot be given arguments yet
	for _, p := range s.Params {
		in.env.Define(p.Name, value.Unit{})
	}

	for _, constraint := range s.Constraints {
		switch c := constraint.(type) {
		case *ast.Binding:
			in.pos = c.Pos
			v, err := in.eval(c.Expr)
			if err != nil {
				return nil, err
			}
			in.env.Define(c.Name, v)
		case *ast.Ensure:
			in.pos = c.Pos
			v, err := in.eval(c.Expr)
			if err != nil {
				return nil, err
			}
			if !value.Truthy(v) {
				return nil, in.locate(customf("ensure failed in %s", s.Name))
			}
		}
	}

	if s.Return == nil {
		return value.Unit{}, nil
	}
	return in.eval(s.Return)
}
