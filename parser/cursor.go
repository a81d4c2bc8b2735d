package parser

import (
	"github.com/morph-lang/morph/errors"
	"github.com/morph-lang/morph/types"
)

// cursor walks a token slice with arbitrary lookahead. Comments are dropped
// when the cursor is built; newlines are kept because they separate
// statements.
type cursor struct {
	toks []types.Token
	pos  int
}

func newCursor(toks []types.Token) cursor {
	var kept []types.Token
	for _, tok := range toks {
		if tok.Kind == types.COMMENT {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 || kept[len(kept)-1].Kind != types.EOF {
		var at types.Position
		if len(kept) > 0 {
			at = kept[len(kept)-1].Location.To
		}
		kept = append(kept, types.Token{Kind: types.EOF, Location: types.SingleCharSpan(at)})
	}
	return cursor{toks: kept}
}

func (c *cursor) Peek() types.Token {
	return c.PeekN(0)
}

// PeekN returns the token n places ahead without consuming anything. Reads
// past the end return EOF.
func (c *cursor) PeekN(n int) types.Token {
	if c.pos+n >= len(c.toks) {
		return c.toks[len(c.toks)-1]
	}
	return c.toks[c.pos+n]
}

func (c *cursor) PeekIs(k ...types.TokenKind) bool {
	tok := c.Peek()
	for _, kind := range k {
		if tok.Kind == kind {
			return true
		}
	}

	return false
}

// PeekPastNewlines reports the first token that is not a newline.
func (c *cursor) PeekPastNewlines() types.Token {
	for i := 0; ; i++ {
		tok := c.PeekN(i)
		if tok.Kind != types.NEWLINE {
			return tok
		}
	}
}

func (c *cursor) Lex() types.Token {
	tok := c.Peek()
	if tok.Kind != types.EOF {
		c.pos++
	}
	return tok
}

func (c *cursor) LexExpecting(k ...types.TokenKind) types.Token {
	return c.lexExpecting("", k...)
}

// LexExpectingWhat is LexExpecting with a description of the construct for
// the error message.
func (c *cursor) LexExpectingWhat(what string, k ...types.TokenKind) types.Token {
	return c.lexExpecting(what, k...)
}

func (c *cursor) lexExpecting(what string, k ...types.TokenKind) types.Token {
	tok := c.Peek()
	for _, kind := range k {
		if tok.Kind == kind {
			return c.Lex()
		}
	}

	panic(errors.ExpectedOneOfKindGotKind{
		Expected: k,
		Got:      tok,
		What:     what,
	})
}

// Accept consumes the next token if it is one of k.
func (c *cursor) Accept(k ...types.TokenKind) bool {
	if c.PeekIs(k...) {
		c.Lex()
		return true
	}
	return false
}

func (c *cursor) SkipNewlines() {
	for c.PeekIs(types.NEWLINE) {
		c.Lex()
	}
}

func (c *cursor) SkipSeparators() {
	for c.PeekIs(types.NEWLINE, types.SEMICOLON) {
		c.Lex()
	}
}
