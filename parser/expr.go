package parser

import (
	"github.com/morph-lang/morph/ast"
	"github.com/morph-lang/morph/errors"
	"github.com/morph-lang/morph/types"
)

func (p *Parser) parseExpression() ast.Expression {
	return p.parsePipe()
}

// parsePipe desugars `a |> f(b)` into f(a, b) and `a |> f` into f(a). A pipe
// may start the next line.
func (p *Parser) parsePipe() ast.Expression {
	left := p.parseEquality()

	for p.c.PeekIs(types.PIPEGREATER) || (p.c.PeekIs(types.NEWLINE) && p.c.PeekPastNewlines().Kind == types.PIPEGREATER) {
		p.c.SkipNewlines()
		op := p.c.LexExpecting(types.PIPEGREATER)
		p.c.SkipNewlines()

		right := p.parseEquality()

		var call *ast.Call
		switch r := right.(type) {
		case *ast.Call:
			call = &ast.Call{
				Callee:    r.Callee,
				Arguments: append([]ast.Expression{left}, r.Arguments...),
				Pos:       r.Pos,
			}
		case *ast.Identifier:
			call = &ast.Call{
				Callee:    r,
				Arguments: []ast.Expression{left},
				Pos:       r.Pos,
			}
		default:
			panic(errors.InvalidPipeTarget{Location: op.Location.From})
		}

		left = &ast.Pipe{Left: left, Right: right, Call: call}
	}

	return left
}

// Operator tables for the binary precedence levels, loosest first.
var (
	equalityOps = map[types.TokenKind]ast.BinaryOp{
		types.EQEQ:   ast.Equal,
		types.BANGEQ: ast.NotEqual,
	}
	comparisonOps = map[types.TokenKind]ast.BinaryOp{
		types.LESS:      ast.Less,
		types.LESSEQ:    ast.LessEq,
		types.GREATER:   ast.Greater,
		types.GREATEREQ: ast.GreaterEq,
	}
	additiveOps = map[types.TokenKind]ast.BinaryOp{
		types.PLUS:  ast.Add,
		types.MINUS: ast.Subtract,
	}
	multiplicativeOps = map[types.TokenKind]ast.BinaryOp{
		types.STAR:    ast.Multiply,
		types.SLASH:   ast.Divide,
		types.PERCENT: ast.Modulo,
	}
)

// parseLevel parses one left-associative binary precedence level whose
// operands are parsed by next.
func (p *Parser) parseLevel(ops map[types.TokenKind]ast.BinaryOp, next func(*Parser) ast.Expression) ast.Expression {
	left := next(p)

	for {
		tok := p.c.Peek()
		op, ok := ops[tok.Kind]
		if !ok {
			return left
		}
		p.c.Lex()
		p.c.SkipNewlines()

		left = &ast.Binary{
			Left:  left,
			Op:    op,
			Right: next(p),
			Pos:   tok.Location.From,
		}
	}
}

func (p *Parser) parseEquality() ast.Expression {
	return p.parseLevel(equalityOps, (*Parser).parseComparison)
}

func (p *Parser) parseComparison() ast.Expression {
	return p.parseLevel(comparisonOps, (*Parser).parseAdditive)
}

func (p *Parser) parseAdditive() ast.Expression {
	return p.parseLevel(additiveOps, (*Parser).parseMultiplicative)
}

func (p *Parser) parseMultiplicative() ast.Expression {
	return p.parseLevel(multiplicativeOps, (*Parser).parseUnary)
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.c.Peek()

	switch tok.Kind {
	case types.BANG:
		p.c.Lex()
		return &ast.Unary{Op: ast.Not, Expr: p.parseUnary(), Pos: tok.Location.From}
	case types.MINUS:
		p.c.Lex()
		return &ast.Unary{Op: ast.Negate, Expr: p.parseUnary(), Pos: tok.Location.From}
	}

	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()

	for {
		tok := p.c.Peek()

		switch tok.Kind {
		case types.LPAREN:
			expr = &ast.Call{
				Callee:    expr,
				Arguments: p.parseArguments(),
				Pos:       tok.Location.From,
			}
		case types.PERIOD:
			p.c.Lex()
			field := p.c.LexExpectingWhat("field name", types.IDENT)
			expr = &ast.FieldAccess{Object: expr, Field: field.Lexeme, Pos: field.Location.From}
		case types.LBRACKET:
			p.c.Lex()
			p.c.SkipNewlines()
			index := p.parseExpression()
			p.c.SkipNewlines()
			p.c.LexExpectingWhat("']' after index", types.RBRACKET)
			expr = &ast.IndexAccess{Object: expr, Index: index, Pos: tok.Location.From}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArguments() []ast.Expression {
	args := []ast.Expression{}

	p.c.LexExpecting(types.LPAREN)
	p.c.SkipNewlines()
	for !p.c.PeekIs(types.RPAREN) {
		args = append(args, p.parseExpression())
		p.c.SkipNewlines()
		if !p.c.Accept(types.COMMA) {
			break
		}
		p.c.SkipNewlines()
	}
	p.c.LexExpectingWhat("')' after arguments", types.RPAREN)

	return args
}

var primaryKinds = []types.TokenKind{
	types.INT, types.FLOAT, types.STRING, types.BOOL, types.IDENT,
	types.LPAREN, types.LBRACKET, types.LBRACE, types.IF, types.MATCH, types.CLAIM,
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.c.Peek()

	switch tok.Kind {
	case types.INT:
		p.c.Lex()
		return ast.IntegerLiteral(tok.Literal.(int64))
	case types.FLOAT:
		p.c.Lex()
		return ast.FloatLiteral(tok.Literal.(float64))
	case types.STRING:
		p.c.Lex()
		return ast.StringLiteral(tok.Literal.(string))
	case types.BOOL:
		p.c.Lex()
		return ast.BooleanLiteral(tok.Literal.(bool))
	case types.IDENT:
		p.c.Lex()
		return &ast.Identifier{Name: tok.Lexeme, Pos: tok.Location.From}
	case types.LPAREN:
		if p.isLambda() {
			return p.parseLambda()
		}
		p.c.Lex()
		p.c.SkipNewlines()
		expr := p.parseExpression()
		p.c.SkipNewlines()
		p.c.LexExpectingWhat("')' after expression", types.RPAREN)
		return expr
	case types.LBRACKET:
		return p.parseList()
	case types.LBRACE:
		return p.parseBrace()
	case types.IF:
		return p.parseIf()
	case types.MATCH:
		return p.parseMatch()
	case types.CLAIM:
		p.c.Lex()
		return &ast.Claim{Expr: p.parseUnary()}
	}

	p.c.LexExpectingWhat("expression", primaryKinds...)
	panic("unreachable")
}

// isLambda looks ahead from an opening parenthesis to its partner and
// reports whether `=>` follows.
func (p *Parser) isLambda() bool {
	depth := 0
	for i := 0; ; i++ {
		switch p.c.PeekN(i).Kind {
		case types.LPAREN:
			depth++
		case types.RPAREN:
			depth--
			if depth == 0 {
				return p.c.PeekN(i+1).Kind == types.FATARROW
			}
		case types.EOF:
			return false
		}
	}
}

func (p *Parser) parseLambda() *ast.Lambda {
	params := p.parseParams()
	p.c.LexExpecting(types.FATARROW)
	p.c.SkipNewlines()

	return &ast.Lambda{Params: params, Body: p.parseExpression()}
}

func (p *Parser) parseList() *ast.ListLiteral {
	list := &ast.ListLiteral{Elements: []ast.Expression{}}

	p.c.LexExpecting(types.LBRACKET)
	p.c.SkipNewlines()
	for !p.c.PeekIs(types.RBRACKET) {
		list.Elements = append(list.Elements, p.parseExpression())
		p.c.SkipNewlines()
		if !p.c.Accept(types.COMMA) {
			break
		}
		p.c.SkipNewlines()
	}
	p.c.LexExpectingWhat("']' after list elements", types.RBRACKET)

	return list
}

// parseBrace decides between a record literal and a block: `{}` and
// `{ name:` start records, anything else is a block.
func (p *Parser) parseBrace() ast.Expression {
	i := 1
	for p.c.PeekN(i).Kind == types.NEWLINE {
		i++
	}
	first, second := p.c.PeekN(i), p.c.PeekN(i+1)

	switch {
	case first.Kind == types.RBRACE:
		p.c.LexExpecting(types.LBRACE)
		p.c.SkipNewlines()
		p.c.LexExpecting(types.RBRACE)
		return &ast.RecordLiteral{}
	case first.Kind == types.IDENT && second.Kind == types.COLON:
		return p.parseRecord()
	}

	return &ast.Block{Statements: p.parseBody()}
}

func (p *Parser) parseRecord() *ast.RecordLiteral {
	rec := &ast.RecordLiteral{}
	seen := map[string]bool{}

	p.c.LexExpecting(types.LBRACE)
	p.c.SkipNewlines()
	for !p.c.PeekIs(types.RBRACE) {
		tok := p.c.LexExpectingWhat("field name", types.IDENT)
		if seen[tok.Lexeme] {
			panic(errors.DuplicateField{Name: tok.Lexeme, Location: tok.Location.From})
		}
		seen[tok.Lexeme] = true

		p.c.LexExpecting(types.COLON)
		p.c.SkipNewlines()
		rec.Fields = append(rec.Fields, ast.RecordField{Name: tok.Lexeme, Value: p.parseExpression()})

		p.c.SkipNewlines()
		if !p.c.Accept(types.COMMA) {
			break
		}
		p.c.SkipNewlines()
	}
	p.c.LexExpectingWhat("'}' after record fields", types.RBRACE)

	return rec
}

func (p *Parser) parseIf() *ast.If {
	p.c.LexExpecting(types.IF)
	expr := &ast.If{Condition: p.parseExpression()}
	expr.Then = &ast.Block{Statements: p.parseBody()}

	if p.c.PeekPastNewlines().Kind == types.ELSE {
		p.c.SkipNewlines()
		p.c.LexExpecting(types.ELSE)
		if p.c.PeekIs(types.IF) {
			expr.Else = p.parseIf()
		} else {
			expr.Else = &ast.Block{Statements: p.parseBody()}
		}
	}

	return expr
}

func (p *Parser) parseMatch() *ast.Match {
	tok := p.c.LexExpecting(types.MATCH)
	match := &ast.Match{Subject: p.parseExpression(), Pos: tok.Location.From}

	p.c.LexExpecting(types.LBRACE)
	for {
		p.c.SkipNewlines()
		if p.c.PeekIs(types.RBRACE) {
			break
		}

		pattern := p.parsePattern()
		p.c.LexExpectingWhat("'=>' after pattern", types.FATARROW)
		p.c.SkipNewlines()
		match.Arms = append(match.Arms, ast.MatchArm{Pattern: pattern, Expr: p.parseExpression()})

		// arms end with a comma, a newline or the closing brace
		broken := p.c.PeekIs(types.NEWLINE)
		p.c.SkipNewlines()
		if !p.c.Accept(types.COMMA) && !broken && !p.c.PeekIs(types.RBRACE) {
			p.c.LexExpectingWhat("',' or '}' after match arm", types.COMMA, types.RBRACE)
		}
	}
	p.c.LexExpecting(types.RBRACE)

	return match
}
