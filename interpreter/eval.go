package interpreter

import (
	"math"
	"unicode/utf8"

	"github.com/morph-lang/morph/ast"
	"github.com/morph-lang/morph/checker"
	"github.com/morph-lang/morph/value"
)

// Builtin is the call protocol shared by all native functions.
type Builtin = value.Builtin

func (in *Interpreter) exec(stmt ast.Statement) (value.Value, error) {
	switch s := stmt.(type) {
	case *ast.VariableDecl:
		in.pos = s.Pos
		v, err := in.eval(s.Value)
		if err != nil {
			return nil, err
		}
		if s.Type != nil {
			if err := in.validate(s.Name, v, s.Type); err != nil {
				return nil, err
			}
		}
		in.env.Define(s.Name, v)
		return value.Unit{}, nil
	case *ast.ExpressionStatement:
		in.pos = s.Pos
		return in.eval(s.Expr)
	case *ast.Return:
		in.pos = s.Pos
		var v value.Value = value.Unit{}
		if s.Value != nil {
			var err error
			if v, err = in.eval(s.Value); err != nil {
				return nil, err
			}
		}
		return nil, &returnSignal{value: v}
	case *ast.For:
		in.pos = s.Pos
		return in.loop(s)
	case *ast.Assignment:
		in.pos = s.Pos
		return value.Unit{}, in.assign(s)
	}

	panic("unhandled statement")
}

// validate runs the Ghost checks attached to annotation, directly or through
// a type alias.
func (in *Interpreter) validate(name string, v value.Value, annotation ast.TypeAnnotation) error {
	attrs := checker.GhostAttributes(annotation, in.aliases)
	if len(attrs) == 0 {
		return nil
	}
	if err := checker.ValidateGhost(v, attrs); err != nil {
		rerr := customf("ghost validation failed for %s: %s", name, err)
		rerr.Cause = err
		return in.locate(rerr)
	}
	return nil
}

func (in *Interpreter) loop(s *ast.For) (value.Value, error) {
	iterable, err := in.eval(s.Iterable)
	if err != nil {
		return nil, err
	}
	items, ok := iterable.(value.List)
	if !ok {
		return nil, in.locate(typeErrorf("cannot iterate over %s", value.TypeName(iterable)))
	}

	outer := in.env
	defer func() { in.env = outer }()

	var result value.Value = value.Unit{}
	for _, item := range items {
		in.env = outer.Child()
		in.env.Define(s.Variable, item)

		if s.Guard != nil {
			guard, err := in.eval(s.Guard)
			if err != nil {
				return nil, err
			}
			if !value.Truthy(guard) {
				continue
			}
		}

		for _, stmt := range s.Body {
			if result, err = in.exec(stmt); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

func (in *Interpreter) assign(s *ast.Assignment) error {
	v, err := in.eval(s.Value)
	if err != nil {
		return err
	}

	switch target := s.Target.(type) {
	case *ast.Identifier:
		if !in.env.Assign(target.Name, v) {
			return in.locate(&RuntimeError{Kind: UndefinedVariable, Name: target.Name})
		}
		return nil
	case *ast.FieldAccess:
		// records are not updated in place
		_, err := in.eval(target.Object)
		return err
	case *ast.IndexAccess:
		return in.store(target, v)
	}

	return in.locate(typeErrorf("cannot assign to this expression"))
}

// store writes v into the list element named by target and rebinds the
// updated list all the way up to the root variable.
func (in *Interpreter) store(target *ast.IndexAccess, v value.Value) error {
	obj, err := in.eval(target.Object)
	if err != nil {
		return err
	}
	idx, err := in.eval(target.Index)
	if err != nil {
		return err
	}

	list, ok := obj.(value.List)
	if !ok {
		return in.locate(typeErrorf("cannot assign into %s", value.TypeName(obj)))
	}
	i, err := in.index(idx, len(list))
	if err != nil {
		return err
	}
	updated := list.With(i, v)

	switch parent := target.Object.(type) {
	case *ast.Identifier:
		if !in.env.Assign(parent.Name, updated) {
			return in.locate(&RuntimeError{Kind: UndefinedVariable, Name: parent.Name})
		}
	case *ast.IndexAccess:
		return in.store(parent, updated)
	}
	return nil
}

// index checks that idx is an Int within [0, length).
func (in *Interpreter) index(idx value.Value, length int) (int, error) {
	n, ok := idx.(value.Integer)
	if !ok {
		return 0, in.locate(typeErrorf("index must be Int, got %s", value.TypeName(idx)))
	}
	if n < 0 || int64(n) >= int64(length) {
		return 0, in.locate(&RuntimeError{Kind: IndexOutOfBounds, Index: int64(n), Len: length})
	}
	return int(n), nil
}

func (in *Interpreter) eval(expr ast.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case ast.IntegerLiteral:
		return value.Integer(e), nil
	case ast.FloatLiteral:
		return value.Float(e), nil
	case ast.StringLiteral:
		return value.String(e), nil
	case ast.BooleanLiteral:
		return value.Boolean(e), nil
	case *ast.ListLiteral:
		list := make(value.List, 0, len(e.Elements))
		for _, elem := range e.Elements {
			v, err := in.eval(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case *ast.RecordLiteral:
		rec := make(value.Record, len(e.Fields))
		for _, field := range e.Fields {
			v, err := in.eval(field.Value)
			if err != nil {
				return nil, err
			}
			rec[field.Name] = v
		}
		return rec, nil
	case *ast.Identifier:
		v, ok := in.env.Lookup(e.Name)
		if !ok {
			return nil, in.locate(&RuntimeError{Kind: UndefinedVariable, Name: e.Name, Pos: e.Pos})
		}
		return v, nil
	case *ast.Binary:
		left, err := in.eval(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := in.eval(e.Right)
		if err != nil {
			return nil, err
		}
		v, err := binary(left, e.Op, right)
		if err != nil {
			return nil, in.locate(err)
		}
		return v, nil
	case *ast.Unary:
		v, err := in.eval(e.Expr)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case ast.Negate:
			switch n := v.(type) {
			case value.Integer:
				return -n, nil
			case value.Float:
				return -n, nil
			}
			return nil, in.locate(typeErrorf("cannot negate %s", value.TypeName(v)))
		case ast.Not:
			return value.Boolean(!value.Truthy(v)), nil
		}
	case *ast.Call:
		return in.evalCall(e)
	case *ast.Pipe:
		return in.evalCall(e.Call)
	case *ast.Match:
		return in.evalMatch(e)
	case *ast.Block:
		outer := in.env
		in.env = outer.Child()
		defer func() { in.env = outer }()

		var result value.Value = value.Unit{}
		for _, stmt := range e.Statements {
			v, err := in.exec(stmt)
			if err != nil {
				return nil, err
			}
			result = v
		}
		return result, nil
	case *ast.If:
		cond, err := in.eval(e.Condition)
		if err != nil {
			return nil, err
		}
		if value.Truthy(cond) {
			return in.eval(e.Then)
		}
		if e.Else != nil {
			return in.eval(e.Else)
		}
		return value.Unit{}, nil
	case *ast.FieldAccess:
		obj, err := in.eval(e.Object)
		if err != nil {
			return nil, err
		}
		rec, ok := obj.(value.Record)
		if !ok {
			return nil, in.locate(typeErrorf("cannot access field %s on %s", e.Field, value.TypeName(obj)))
		}
		v, ok := rec[e.Field]
		if !ok {
			return nil, in.locate(customf("field '%s' not found", e.Field))
		}
		return v, nil
	case *ast.IndexAccess:
		obj, err := in.eval(e.Object)
		if err != nil {
			return nil, err
		}
		idx, err := in.eval(e.Index)
		if err != nil {
			return nil, err
		}
		switch o := obj.(type) {
		case value.List:
			i, err := in.index(idx, len(o))
			if err != nil {
				return nil, err
			}
			return o[i], nil
		case value.String:
			runes := []rune(string(o))
			i, err := in.index(idx, utf8.RuneCountInString(string(o)))
			if err != nil {
				return nil, err
			}
			return value.String(runes[i]), nil
		}
		return nil, in.locate(typeErrorf("cannot index %s", value.TypeName(obj)))
	case *ast.Lambda:
		return value.NewLambda(e, in.env.Snapshot()), nil
	case *ast.Claim:
		return in.eval(e.Expr)
	}

	panic("unhandled expression")
}

func (in *Interpreter) evalCall(e *ast.Call) (value.Value, error) {
	if id, ok := e.Callee.(*ast.Identifier); ok {
		if _, ok := in.env.Lookup(id.Name); !ok {
			return nil, in.locate(&RuntimeError{Kind: UndefinedFunction, Name: id.Name, Pos: id.Pos})
		}
	}

	callee, err := in.eval(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		v, err := in.eval(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	return in.call(callee, args)
}

func (in *Interpreter) evalMatch(e *ast.Match) (value.Value, error) {
	subject, err := in.eval(e.Subject)
	if err != nil {
		return nil, err
	}

	for _, arm := range e.Arms {
		ok, err := matches(subject, arm.Pattern)
		if err != nil {
			return nil, in.locate(err)
		}
		if ok {
			return in.eval(arm.Expr)
		}
	}
	return nil, in.locate(customf("no match arm matched %s", value.Format(subject)))
}

// matches reports whether v fits pattern. Identifier patterns accept
// anything without binding the name.
func matches(v value.Value, pattern ast.Pattern) (bool, error) {
	switch p := pattern.(type) {
	case *ast.WildcardPattern, *ast.IdentifierPattern:
		return true, nil
	case *ast.LiteralPattern:
		return value.Equal(v, literal(p.Value)), nil
	case *ast.RangePattern:
		from, ok1 := bound(p.From)
		to, ok2 := bound(p.To)
		if !ok1 || !ok2 {
			return false, customf("range patterns must use integer literals")
		}
		n, ok := v.(value.Integer)
		return ok && n >= from && n <= to, nil
	case *ast.TuplePattern:
		return false, customf("tuple patterns are not supported")
	}
	return false, nil
}

func bound(p ast.Pattern) (value.Integer, bool) {
	lit, ok := p.(*ast.LiteralPattern)
	if !ok {
		return 0, false
	}
	n, ok := lit.Value.(ast.IntegerLiteral)
	return value.Integer(n), ok
}

func literal(lit ast.Literal) value.Value {
	switch l := lit.(type) {
	case ast.IntegerLiteral:
		return value.Integer(l)
	case ast.FloatLiteral:
		return value.Float(l)
	case ast.StringLiteral:
		return value.String(l)
	case ast.BooleanLiteral:
		return value.Boolean(l)
	}
	return value.Unit{}
}

func binary(left value.Value, op ast.BinaryOp, right value.Value) (value.Value, error) {
	switch op {
	case ast.Equal:
		return value.Boolean(value.Equal(left, right)), nil
	case ast.NotEqual:
		return value.Boolean(!value.Equal(left, right)), nil
	case ast.Less, ast.LessEq, ast.Greater, ast.GreaterEq:
		return compare(left, op, right)
	}

	switch l := left.(type) {
	case value.Integer:
		switch r := right.(type) {
		case value.Integer:
			return integers(l, op, r)
		case value.Float:
			return floats(value.Float(l), op, r)
		}
	case value.Float:
		switch r := right.(type) {
		case value.Integer:
			return floats(l, op, value.Float(r))
		case value.Float:
			return floats(l, op, r)
		}
	case value.String:
		if r, ok := right.(value.String); ok && op == ast.Add {
			return l + r, nil
		}
	case value.List:
		if r, ok := right.(value.List); ok && op == ast.Add {
			ret := make(value.List, 0, len(l)+len(r))
			return append(append(ret, l...), r...), nil
		}
	}

	return nil, typeErrorf("cannot apply %s to %s and %s", op, value.TypeName(left), value.TypeName(right))
}

func integers(l value.Integer, op ast.BinaryOp, r value.Integer) (value.Value, error) {
	switch op {
	case ast.Add:
		return l + r, nil
	case ast.Subtract:
		return l - r, nil
	case ast.Multiply:
		return l * r, nil
	case ast.Divide:
		if r == 0 {
			return nil, &RuntimeError{Kind: InvalidOperation, Message: "division by zero"}
		}
		return l / r, nil
	case ast.Modulo:
		if r == 0 {
			return nil, &RuntimeError{Kind: InvalidOperation, Message: "modulo by zero"}
		}
		return l % r, nil
	}
	return nil, typeErrorf("cannot apply %s to Int", op)
}

func floats(l value.Float, op ast.BinaryOp, r value.Float) (value.Value, error) {
	switch op {
	case ast.Add:
		return l + r, nil
	case ast.Subtract:
		return l - r, nil
	case ast.Multiply:
		return l * r, nil
	case ast.Divide:
		if r == 0 {
			return nil, &RuntimeError{Kind: InvalidOperation, Message: "division by zero"}
		}
		return l / r, nil
	case ast.Modulo:
		if r == 0 {
			return nil, &RuntimeError{Kind: InvalidOperation, Message: "modulo by zero"}
		}
		return value.Float(math.Mod(float64(l), float64(r))), nil
	}
	return nil, typeErrorf("cannot apply %s to Float", op)
}

func compare(left value.Value, op ast.BinaryOp, right value.Value) (value.Value, error) {
	var ord int

	switch l := left.(type) {
	case value.Integer, value.Float:
		a, _ := number(l)
		b, ok := number(right)
		if !ok {
			return nil, typeErrorf("cannot compare %s and %s", value.TypeName(left), value.TypeName(right))
		}
		switch {
		case a < b:
			ord = -1
		case a > b:
			ord = 1
		}
	case value.String:
		r, ok := right.(value.String)
		if !ok {
			return nil, typeErrorf("cannot compare %s and %s", value.TypeName(left), value.TypeName(right))
		}
		switch {
		case l < r:
			ord = -1
		case l > r:
			ord = 1
		}
	default:
		return nil, typeErrorf("cannot compare %s and %s", value.TypeName(left), value.TypeName(right))
	}

	switch op {
	case ast.Less:
		return value.Boolean(ord < 0), nil
	case ast.LessEq:
		return value.Boolean(ord <= 0), nil
	case ast.Greater:
		return value.Boolean(ord > 0), nil
	}
	return value.Boolean(ord >= 0), nil
}

func number(v value.Value) (float64, bool) {
	switch n := v.(type) {
	case value.Integer:
		return float64(n), true
	case value.Float:
		return float64(n), true
	}
	return 0, false
}
