// Package parser turns a token stream into an ast.Module by recursive
// descent. Parsing stops at the first error.
package parser

import (
	"strings"

	"github.com/morph-lang/morph/ast"
	"github.com/morph-lang/morph/errors"
	"github.com/morph-lang/morph/lexer"
	"github.com/morph-lang/morph/types"
	"github.com/ztrue/tracerr"
)

type Parser struct {
	c cursor
}

func NewParser(toks []types.Token) *Parser {
	return &Parser{c: newCursor(toks)}
}

// Parse builds a module from toks.
func Parse(toks []types.Token) (*ast.Module, error) {
	return NewParser(toks).Parse()
}

// ParseString tokenizes and parses source in one step.
func ParseString(source string) (*ast.Module, error) {
	toks, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

func (p *Parser) Parse() (m *ast.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				m = nil
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	m = &ast.Module{}
	for {
		p.c.SkipSeparators()
		if p.c.PeekIs(types.EOF) {
			return m, nil
		}

		m.Declarations = append(m.Declarations, p.parseDeclaration())
	}
}

func (p *Parser) parseDeclaration() ast.Declaration {
	tok := p.c.Peek()

	switch tok.Kind {
	case types.PROTO, types.SOLID:
		return p.parseFunction()
	case types.TYPE:
		return p.parseTypeDecl()
	case types.SOLVE:
		return p.parseSolve()
	case types.IMPORT:
		return p.parseImport()
	}

	panic(errors.ExpectedDeclaration{Got: tok})
}

func (p *Parser) parseFunction() *ast.FunctionDecl {
	tok := p.c.LexExpecting(types.PROTO, types.SOLID)
	fn := &ast.FunctionDecl{Pos: tok.Location.From}
	if tok.Kind == types.SOLID {
		fn.Mode = ast.Solid
	}

	fn.Name = p.c.LexExpectingWhat("function name", types.IDENT).Lexeme
	fn.Params = p.parseParams()

	if p.c.Accept(types.FATARROW) {
		fn.Returns = p.parseType()
	}

	fn.Body = p.parseBody()
	return fn
}

// parseParams reads `(name[: Type], ...)`.
func (p *Parser) parseParams() []ast.Parameter {
	var params []ast.Parameter

	p.c.LexExpecting(types.LPAREN)
	p.c.SkipNewlines()
	for !p.c.PeekIs(types.RPAREN) {
		param := ast.Parameter{
			Name: p.c.LexExpectingWhat("parameter name", types.IDENT).Lexeme,
		}
		if p.c.Accept(types.COLON) {
			param.Type = p.parseType()
		}
		params = append(params, param)

		p.c.SkipNewlines()
		if !p.c.Accept(types.COMMA) {
			break
		}
		p.c.SkipNewlines()
	}
	p.c.LexExpectingWhat("')' after parameters", types.RPAREN)

	return params
}

func (p *Parser) parseTypeDecl() *ast.TypeDecl {
	tok := p.c.LexExpecting(types.TYPE)
	decl := &ast.TypeDecl{Pos: tok.Location.From}

	decl.Name = p.c.LexExpectingWhat("type name", types.IDENT).Lexeme
	p.c.LexExpecting(types.EQUALS)
	p.c.SkipNewlines()

	switch {
	case p.c.PeekIs(types.LBRACE):
		decl.Definition = p.parseRecordDefinition()
	case p.c.PeekIs(types.PIPE):
		decl.Definition = p.parseEnumDefinition()
	case p.c.PeekIs(types.IDENT) && p.c.PeekN(1).Kind == types.PIPE:
		decl.Definition = p.parseEnumDefinition()
	default:
		decl.Definition = &ast.AliasDefinition{Target: p.parseType()}
	}

	return decl
}

func (p *Parser) parseRecordDefinition() *ast.RecordDefinition {
	def := &ast.RecordDefinition{}
	seen := map[string]bool{}

	p.c.LexExpecting(types.LBRACE)
	for {
		p.c.SkipSeparators()
		if p.c.PeekIs(types.RBRACE) {
			break
		}

		tok := p.c.LexExpectingWhat("field name", types.IDENT)
		if seen[tok.Lexeme] {
			panic(errors.DuplicateField{Name: tok.Lexeme, Location: tok.Location.From})
		}
		seen[tok.Lexeme] = true

		p.c.LexExpecting(types.COLON)
		def.Fields = append(def.Fields, ast.FieldType{Name: tok.Lexeme, Type: p.parseType()})

		if !p.c.PeekIs(types.COMMA, types.NEWLINE, types.SEMICOLON, types.RBRACE) {
			p.c.LexExpecting(types.COMMA, types.RBRACE)
		}
		p.c.Accept(types.COMMA)
	}
	p.c.LexExpecting(types.RBRACE)

	return def
}

func (p *Parser) parseEnumDefinition() *ast.EnumDefinition {
	def := &ast.EnumDefinition{}

	p.c.Accept(types.PIPE)
	for {
		def.Variants = append(def.Variants, p.c.LexExpectingWhat("variant name", types.IDENT).Lexeme)
		if p.c.PeekPastNewlines().Kind != types.PIPE {
			break
		}
		p.c.SkipNewlines()
		p.c.LexExpecting(types.PIPE)
		p.c.SkipNewlines()
	}

	return def
}

func (p *Parser) parseSolve() *ast.SolveBlock {
	tok := p.c.LexExpecting(types.SOLVE)
	solve := &ast.SolveBlock{Pos: tok.Location.From}

	solve.Name = p.c.LexExpectingWhat("solve block name", types.IDENT).Lexeme
	if p.c.PeekIs(types.LPAREN) {
		solve.Params = p.parseParams()
	}

	p.c.LexExpecting(types.LBRACE)
	for {
		p.c.SkipSeparators()
		if p.c.PeekIs(types.RBRACE) {
			break
		}

		tok := p.c.LexExpectingWhat("'let', 'ensure' or 'return' in solve block", types.LET, types.ENSURE, types.RETURN)
		switch tok.Kind {
		case types.LET:
			name := p.c.LexExpecting(types.IDENT).Lexeme
			p.c.LexExpecting(types.EQUALS)
			p.c.SkipNewlines()
			solve.Constraints = append(solve.Constraints, &ast.Binding{
				Name: name,
				Expr: p.parseExpression(),
				Pos:  tok.Location.From,
			})
		case types.ENSURE:
			solve.Constraints = append(solve.Constraints, &ast.Ensure{
				Expr: p.parseExpression(),
				Pos:  tok.Location.From,
			})
		case types.RETURN:
			solve.Return = p.parseExpression()
		}

		p.endStatement()
	}
	p.c.LexExpecting(types.RBRACE)

	return solve
}

func (p *Parser) parseImport() *ast.Import {
	tok := p.c.LexExpecting(types.IMPORT)
	imp := &ast.Import{Pos: tok.Location.From}

	path := []string{p.c.LexExpectingWhat("module name", types.IDENT).Lexeme}
	for p.c.Accept(types.COLONCOLON) {
		if p.c.PeekIs(types.LBRACE) {
			imp.Items = p.parseImportItems()
			break
		}
		path = append(path, p.c.LexExpectingWhat("module name", types.IDENT).Lexeme)
	}
	imp.Module = strings.Join(path, "::")

	return imp
}

func (p *Parser) parseImportItems() []string {
	items := []string{}

	p.c.LexExpecting(types.LBRACE)
	p.c.SkipNewlines()
	for !p.c.PeekIs(types.RBRACE) {
		items = append(items, p.c.LexExpectingWhat("imported name", types.IDENT).Lexeme)
		p.c.SkipNewlines()
		if !p.c.Accept(types.COMMA) {
			break
		}
		p.c.SkipNewlines()
	}
	p.c.LexExpecting(types.RBRACE)

	return items
}

// parseBody reads a braced statement sequence.
func (p *Parser) parseBody() []ast.Statement {
	var stmts []ast.Statement

	p.c.LexExpecting(types.LBRACE)
	for {
		p.c.SkipSeparators()
		if p.c.PeekIs(types.RBRACE) {
			break
		}

		stmts = append(stmts, p.parseStatement())
		p.endStatement()
	}
	p.c.LexExpecting(types.RBRACE)

	return stmts
}

// endStatement requires a separator or the closing brace after a statement.
func (p *Parser) endStatement() {
	if !p.c.PeekIs(types.NEWLINE, types.SEMICOLON, types.RBRACE) {
		p.c.LexExpectingWhat("end of statement", types.NEWLINE, types.SEMICOLON, types.RBRACE)
	}
}

func (p *Parser) parseStatement() ast.Statement {
	tok := p.c.Peek()
	at := tok.Location.From

	switch tok.Kind {
	case types.LET, types.VAR:
		p.c.Lex()
		decl := &ast.VariableDecl{Mutable: tok.Kind == types.VAR, Pos: at}
		decl.Name = p.c.LexExpectingWhat("variable name", types.IDENT).Lexeme
		if p.c.Accept(types.COLON) {
			decl.Type = p.parseType()
		}
		p.c.LexExpecting(types.EQUALS)
		p.c.SkipNewlines()
		decl.Value = p.parseExpression()
		return decl
	case types.RETURN:
		p.c.Lex()
		ret := &ast.Return{Pos: at}
		if !p.c.PeekIs(types.NEWLINE, types.SEMICOLON, types.RBRACE, types.EOF) {
			ret.Value = p.parseExpression()
		}
		return ret
	case types.FOR:
		p.c.Lex()
		loop := &ast.For{Pos: at}
		loop.Variable = p.c.LexExpectingWhat("loop variable", types.IDENT).Lexeme
		p.c.LexExpecting(types.IN)
		loop.Iterable = p.parseExpression()
		if p.c.Accept(types.WHERE) {
			loop.Guard = p.parseExpression()
		}
		loop.Body = p.parseBody()
		return loop
	}

	expr := p.parseExpression()
	if p.c.PeekIs(types.EQUALS) {
		eq := p.c.Lex()
		switch expr.(type) {
		case *ast.Identifier, *ast.IndexAccess, *ast.FieldAccess:
		default:
			panic(errors.InvalidAssignmentTarget{Location: eq.Location.From})
		}
		p.c.SkipNewlines()
		return &ast.Assignment{Target: expr, Value: p.parseExpression(), Pos: at}
	}

	return &ast.ExpressionStatement{Expr: expr, Pos: at}
}
