package parser

import (
	"github.com/morph-lang/morph/ast"
	"github.com/morph-lang/morph/errors"
	"github.com/morph-lang/morph/types"
)

// parseType reads a type annotation: `Name`, `Name<A, B>`, `(A, B) => R`,
// optionally followed by `<Ghost: Key: value, ...>`.
func (p *Parser) parseType() ast.TypeAnnotation {
	if p.c.PeekIs(types.LPAREN) {
		return p.parseFunctionType()
	}

	name := p.c.LexExpectingWhat("type name", types.IDENT).Lexeme
	var base ast.TypeAnnotation = &ast.NamedType{Name: name}

	if p.c.PeekIs(types.LESS) && !p.ghostFollows() {
		p.c.Lex()
		generic := &ast.GenericType{Name: name}
		for {
			generic.Params = append(generic.Params, p.parseType())
			if !p.c.Accept(types.COMMA) {
				break
			}
		}
		p.c.LexExpectingWhat("'>' after type parameters", types.GREATER)
		base = generic
	}

	if p.c.PeekIs(types.LESS) && p.ghostFollows() {
		return p.parseGhost(base)
	}

	return base
}

func (p *Parser) ghostFollows() bool {
	tok := p.c.PeekN(1)
	return tok.Kind == types.IDENT && tok.Lexeme == "Ghost" && p.c.PeekN(2).Kind == types.COLON
}

func (p *Parser) parseFunctionType() *ast.FunctionType {
	fn := &ast.FunctionType{}

	p.c.LexExpecting(types.LPAREN)
	for !p.c.PeekIs(types.RPAREN) {
		fn.Params = append(fn.Params, p.parseType())
		if !p.c.Accept(types.COMMA) {
			break
		}
	}
	p.c.LexExpectingWhat("')' after parameter types", types.RPAREN)
	p.c.LexExpectingWhat("'=>' in function type", types.FATARROW)
	fn.Returns = p.parseType()

	return fn
}

func (p *Parser) parseGhost(base ast.TypeAnnotation) *ast.GhostType {
	ghost := &ast.GhostType{Base: base}

	p.c.LexExpecting(types.LESS)
	p.c.LexExpecting(types.IDENT)
	p.c.LexExpecting(types.COLON)
	for {
		key := p.c.LexExpectingWhat("Ghost attribute name", types.IDENT).Lexeme
		p.c.LexExpecting(types.COLON)
		ghost.Attributes = append(ghost.Attributes, ast.GhostAttribute{Key: key, Value: p.parseGhostValue()})
		if !p.c.Accept(types.COMMA) {
			break
		}
	}
	p.c.LexExpectingWhat("'>' after Ghost attributes", types.GREATER)

	return ghost
}

func (p *Parser) parseGhostValue() ast.GhostValue {
	negative := p.c.Accept(types.MINUS)
	tok := p.c.Peek()

	switch {
	case tok.Kind == types.INT:
		p.c.Lex()
		n := float64(tok.Literal.(int64))
		if negative {
			n = -n
		}
		return ast.GhostNumber(n)
	case tok.Kind == types.FLOAT:
		p.c.Lex()
		n := tok.Literal.(float64)
		if negative {
			n = -n
		}
		return ast.GhostNumber(n)
	case negative:
		p.c.LexExpectingWhat("number after '-'", types.INT, types.FLOAT)
	case tok.Kind == types.STRING:
		p.c.Lex()
		return ast.GhostString(tok.Literal.(string))
	case tok.Kind == types.BOOL:
		p.c.Lex()
		return ast.GhostBoolean(tok.Literal.(bool))
	case tok.Kind == types.IDENT:
		p.c.Lex()
		return ast.GhostString(tok.Lexeme)
	}

	p.c.LexExpectingWhat("Ghost attribute value", types.STRING, types.INT, types.FLOAT, types.BOOL, types.IDENT)
	panic("unreachable")
}

// parsePattern reads one match arm pattern.
func (p *Parser) parsePattern() ast.Pattern {
	tok := p.c.Peek()

	switch tok.Kind {
	case types.IDENT:
		p.c.Lex()
		if tok.Lexeme == "_" {
			return &ast.WildcardPattern{}
		}
		return &ast.IdentifierPattern{Name: tok.Lexeme}
	case types.INT, types.MINUS:
		lit := p.parseLiteralPattern()
		if !p.c.Accept(types.DOTDOT) {
			return lit
		}
		if _, ok := lit.Value.(ast.IntegerLiteral); !ok {
			panic(errors.InvalidPattern{Got: tok})
		}
		hi := p.c.Peek()
		if !p.c.PeekIs(types.INT, types.MINUS) {
			panic(errors.InvalidPattern{Got: hi})
		}
		to := p.parseLiteralPattern()
		if _, ok := to.Value.(ast.IntegerLiteral); !ok {
			panic(errors.InvalidPattern{Got: hi})
		}
		return &ast.RangePattern{From: lit, To: to}
	case types.FLOAT, types.STRING, types.BOOL:
		lit := p.parseLiteralPattern()
		if p.c.PeekIs(types.DOTDOT) {
			panic(errors.InvalidPattern{Got: tok})
		}
		return lit
	case types.LPAREN:
		p.c.Lex()
		tuple := &ast.TuplePattern{}
		for !p.c.PeekIs(types.RPAREN) {
			tuple.Elements = append(tuple.Elements, p.parsePattern())
			if !p.c.Accept(types.COMMA) {
				break
			}
		}
		p.c.LexExpectingWhat("')' after tuple pattern", types.RPAREN)
		return tuple
	}

	panic(errors.InvalidPattern{Got: tok})
}

func (p *Parser) parseLiteralPattern() *ast.LiteralPattern {
	negative := p.c.Accept(types.MINUS)
	tok := p.c.Lex()

	switch {
	case tok.Kind == types.INT:
		n := tok.Literal.(int64)
		if negative {
			n = -n
		}
		return &ast.LiteralPattern{Value: ast.IntegerLiteral(n)}
	case tok.Kind == types.FLOAT:
		n := tok.Literal.(float64)
		if negative {
			n = -n
		}
		return &ast.LiteralPattern{Value: ast.FloatLiteral(n)}
	case negative:
	case tok.Kind == types.STRING:
		return &ast.LiteralPattern{Value: ast.StringLiteral(tok.Literal.(string))}
	case tok.Kind == types.BOOL:
		return &ast.LiteralPattern{Value: ast.BooleanLiteral(tok.Literal.(bool))}
	}

	panic(errors.InvalidPattern{Got: tok})
}
