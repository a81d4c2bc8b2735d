package checker

import (
	"github.com/morph-lang/morph/ast"
)

// infer computes the type of e. On failure it returns Invalid along with
// the error.
func (c *Checker) infer(e ast.Expression) (Type, error) {
	switch e := e.(type) {
	case ast.IntegerLiteral:
		return Int{}, nil
	case ast.FloatLiteral:
		return Float{}, nil
	case ast.StringLiteral:
		return String{}, nil
	case ast.BooleanLiteral:
		return Bool{}, nil
	case *ast.ListLiteral:
		return c.inferList(e)
	case *ast.RecordLiteral:
		rec := &Record{Fields: map[string]Type{}}
		for _, field := range e.Fields {
			t, err := c.infer(field.Value)
			if err != nil {
				return Invalid{}, err
			}
			rec.Fields[field.Name] = t
		}
		return rec, nil
	case *ast.Identifier:
		t, ok := c.vars.Lookup(e.Name)
		if !ok {
			return Invalid{}, c.undefined(UndefinedVariable, e.Name)
		}
		return t, nil
	case *ast.Binary:
		left, err := c.infer(e.Left)
		if err != nil {
			return Invalid{}, err
		}
		right, err := c.infer(e.Right)
		if err != nil {
			return Invalid{}, err
		}
		return c.binary(left, e.Op, right)
	case *ast.Unary:
		t, err := c.infer(e.Expr)
		if err != nil {
			return Invalid{}, err
		}
		return c.unary(e.Op, t)
	case *ast.Call:
		return c.inferCall(e)
	case *ast.Pipe:
		return c.inferCall(e.Call)
	case *ast.Match:
		return c.inferMatch(e)
	case *ast.Block:
		outer := c.vars
		c.vars = outer.Child()
		defer func() { c.vars = outer }()
		pos := c.pos
		t := c.checkBody(e.Statements)
		c.pos = pos
		return t, nil
	case *ast.If:
		return c.inferIf(e)
	case *ast.FieldAccess:
		obj, err := c.infer(e.Object)
		if err != nil {
			return Invalid{}, err
		}
		switch o := unwrap(obj).(type) {
		case *Record:
			t, ok := o.Fields[e.Field]
			if !ok {
				return Invalid{}, c.fail(Custom, "field '%s' not found in %s", e.Field, TypeString(obj))
			}
			return t, nil
		case *Variable, Invalid:
			return &Variable{Name: e.Field}, nil
		}
		return Invalid{}, c.fail(Custom, "%s is not a record", TypeString(obj))
	case *ast.IndexAccess:
		obj, err := c.infer(e.Object)
		if err != nil {
			return Invalid{}, err
		}
		idx, err := c.infer(e.Index)
		if err != nil {
			return Invalid{}, err
		}
		switch unwrap(idx).(type) {
		case Int, *Variable, Invalid:
		default:
			return Invalid{}, c.mismatch(Int{}, idx)
		}
		switch o := unwrap(obj).(type) {
		case *List:
			return o.Elem, nil
		case String:
			return String{}, nil
		case *Variable, Invalid:
			return &Variable{Name: "elem"}, nil
		}
		return Invalid{}, c.fail(Custom, "%s is not indexable", TypeString(obj))
	case *ast.Lambda:
		return c.inferLambda(e)
	case *ast.Claim:
		return c.infer(e.Expr)
	}

	panic("unhandled expression")
}

// inferList takes the element type from the first element; the rest are
// checked but not unified.
func (c *Checker) inferList(e *ast.ListLiteral) (Type, error) {
	if len(e.Elements) == 0 {
		return &List{Elem: &Variable{Name: "a"}}, nil
	}

	var elem Type
	for i, el := range e.Elements {
		t, err := c.infer(el)
		if err != nil {
			return Invalid{}, err
		}
		if i == 0 {
			elem = t
		}
	}
	return &List{Elem: elem}, nil
}

func (c *Checker) binary(left Type, op ast.BinaryOp, right Type) (Type, error) {
	switch op {
	case ast.Equal, ast.NotEqual, ast.Less, ast.LessEq, ast.Greater, ast.GreaterEq:
		return Bool{}, nil
	}

	l, r := unwrap(left), unwrap(right)
	if _, ok := l.(Invalid); ok {
		return Invalid{}, nil
	}
	if _, ok := r.(Invalid); ok {
		return Invalid{}, nil
	}

	switch l.(type) {
	case Int:
		switch r.(type) {
		case Int, *Variable:
			return Int{}, nil
		case Float:
			return Float{}, nil
		}
	case Float:
		switch r.(type) {
		case Int, Float, *Variable:
			return Float{}, nil
		}
	case String:
		switch r.(type) {
		case String, *Variable:
			if op == ast.Add {
				return String{}, nil
			}
		}
	case *Variable:
		switch r.(type) {
		case Int:
			return Int{}, nil
		case Float:
			return Float{}, nil
		case String:
			if op == ast.Add {
				return String{}, nil
			}
		case *Variable:
			return &Variable{Name: "result"}, nil
		}
	case *List:
		// list concatenation
		if rl, ok := r.(*List); ok && op == ast.Add && compatible(rl, l) {
			return l, nil
		}
	}

	return Invalid{}, c.fail(InvalidOperation, "cannot apply %s to %s and %s", op, TypeString(left), TypeString(right))
}

func (c *Checker) unary(op ast.UnaryOp, t Type) (Type, error) {
	if op == ast.Not {
		return Bool{}, nil
	}

	switch u := unwrap(t).(type) {
	case Int, Float:
		return u, nil
	case *Variable, Invalid:
		return u, nil
	}
	return Invalid{}, c.fail(InvalidOperation, "cannot negate %s", TypeString(t))
}

func (c *Checker) inferCall(e *ast.Call) (Type, error) {
	callee, err := c.infer(e.Callee)
	if err != nil {
		return Invalid{}, err
	}

	var args []Type
	for _, a := range e.Arguments {
		t, err := c.infer(a)
		if err != nil {
			return Invalid{}, err
		}
		args = append(args, t)
	}

	switch fn := unwrap(callee).(type) {
	case *Function:
		if fn.Variadic {
			return fn.Returns, nil
		}
		if len(fn.Params) != len(args) {
			return Invalid{}, &TypeError{
				Kind:          ArityMismatch,
				ExpectedArity: len(fn.Params),
				GotArity:      len(args),
				Pos:           c.pos,
			}
		}
		for i, param := range fn.Params {
			if !compatible(args[i], param) {
				return Invalid{}, c.mismatch(param, args[i])
			}
		}
		return fn.Returns, nil
	case *Variable, Invalid:
		return &Variable{Name: "result"}, nil
	}

	return Invalid{}, c.fail(Custom, "%s is not a function", TypeString(callee))
}

// inferMatch checks every arm; the first arm decides the type.
func (c *Checker) inferMatch(e *ast.Match) (Type, error) {
	if _, err := c.infer(e.Subject); err != nil {
		return Invalid{}, err
	}

	var result Type = Unit{}
	for i, arm := range e.Arms {
		t, err := c.infer(arm.Expr)
		if err != nil {
			return Invalid{}, err
		}
		if i == 0 {
			result = t
		}
	}
	return result, nil
}

func (c *Checker) inferIf(e *ast.If) (Type, error) {
	if err := c.expectCondition(e.Condition); err != nil {
		return Invalid{}, err
	}

	then, err := c.infer(e.Then)
	if err != nil {
		return Invalid{}, err
	}
	if e.Else == nil {
		return then, nil
	}

	els, err := c.infer(e.Else)
	if err != nil {
		return Invalid{}, err
	}
	if permissive(unwrap(then)) || permissive(unwrap(els)) {
		return then, nil
	}
	if !Equal(then, els) {
		return Invalid{}, c.mismatch(then, els)
	}
	return then, nil
}

func (c *Checker) inferLambda(e *ast.Lambda) (Type, error) {
	outer := c.vars
	c.vars = outer.Child()
	defer func() { c.vars = outer }()

	fn := &Function{}
	for _, p := range e.Params {
		t := c.paramType(p)
		c.vars.Define(p.Name, t)
		fn.Params = append(fn.Params, t)
	}

	ret, err := c.infer(e.Body)
	if err != nil {
		return Invalid{}, err
	}
	fn.Returns = ret
	return fn, nil
}
