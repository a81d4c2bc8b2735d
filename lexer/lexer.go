package lexer

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/morph-lang/morph/errors"
	"github.com/morph-lang/morph/types"
	"github.com/ztrue/tracerr"
)

type Lexer struct {
	pos    types.Position
	reader *bufio.Reader
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

// Tokenize scans source into a token stream terminated by EOF.
func Tokenize(source string) ([]types.Token, error) {
	return NewLexer(strings.NewReader(source), "").Tokenize()
}

// Tokenize drains the lexer. The first lexical error aborts the scan.
func (l *Lexer) Tokenize() (toks []types.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			toks = nil
			err = tracerr.Wrap(rerr)
		}
	}()

	for {
		tok := l.Lex()
		toks = append(toks, tok)
		if tok.Kind == types.EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) newline() {
	l.pos.Line++
	l.pos.Column = 0
}

func (l *Lexer) read() (rune, bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		panic(err)
	}
	l.pos.Column++
	return r, true
}

func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	l.pos.Column--
}

func (l *Lexer) peek(n int) []byte {
	byt, err := l.reader.Peek(n)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		panic(err)
	}
	return byt
}

// follows consumes the next byte if it is b.
func (l *Lexer) follows(b byte) bool {
	byt := l.peek(1)
	if len(byt) == 0 || byt[0] != b {
		return false
	}
	l.read()
	return true
}

func (l *Lexer) kinded(t types.TokenKind, lexeme string, from types.Position) types.Token {
	return types.Token{
		Kind:     t,
		Lexeme:   lexeme,
		Location: types.Span{From: from, To: l.pos},
	}
}

func firstChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func otherChar(r rune) bool {
	return firstChar(r) || unicode.IsDigit(r)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

var singles = map[rune]types.TokenKind{
	'(': types.LPAREN,
	')': types.RPAREN,
	'{': types.LBRACE,
	'}': types.RBRACE,
	'[': types.LBRACKET,
	']': types.RBRACKET,
	',': types.COMMA,
	';': types.SEMICOLON,
	'+': types.PLUS,
	'-': types.MINUS,
	'*': types.STAR,
	'%': types.PERCENT,
}

// pairs lists the operators that may be extended by one more character.
var pairs = map[rune]struct {
	single types.TokenKind
	next   map[byte]types.TokenKind
}{
	'=': {types.EQUALS, map[byte]types.TokenKind{'=': types.EQEQ, '>': types.FATARROW}},
	'!': {types.BANG, map[byte]types.TokenKind{'=': types.BANGEQ}},
	'<': {types.LESS, map[byte]types.TokenKind{'=': types.LESSEQ}},
	'>': {types.GREATER, map[byte]types.TokenKind{'=': types.GREATEREQ}},
	'|': {types.PIPE, map[byte]types.TokenKind{'>': types.PIPEGREATER}},
	':': {types.COLON, map[byte]types.TokenKind{':': types.COLONCOLON}},
	'.': {types.PERIOD, map[byte]types.TokenKind{'.': types.DOTDOT}},
}

func (l *Lexer) Lex() types.Token {
	for {
		r, ok := l.read()
		from := l.pos
		if !ok {
			from.Column++
			return types.Token{Kind: types.EOF, Location: types.SingleCharSpan(from)}
		}

		switch r {
		case ' ', '\t', '\r':
			continue
		case '\n':
			tok := l.kinded(types.NEWLINE, "\n", from)
			l.newline()
			return tok
		case '/':
			if l.follows('/') {
				return l.lexComment(from)
			}
			return l.kinded(types.SLASH, "/", from)
		case '"':
			return l.lexString(from)
		}

		if kind, ok := singles[r]; ok {
			return l.kinded(kind, string(r), from)
		}

		if pair, ok := pairs[r]; ok {
			byt := l.peek(1)
			if len(byt) > 0 {
				if kind, ok := pair.next[byt[0]]; ok {
					l.read()
					return l.kinded(kind, string(r)+string(byt[0]), from)
				}
			}
			return l.kinded(pair.single, string(r), from)
		}

		switch {
		case r < unicode.MaxASCII && isDigit(byte(r)):
			return l.lexNumber(r, from)
		case firstChar(r):
			l.backup()
			return l.lexIdent(from)
		}

		panic(errors.UnexpectedCharacter{Char: r, Location: from})
	}
}

func (l *Lexer) lexComment(from types.Position) types.Token {
	var lit strings.Builder
	lit.WriteString("//")

	for {
		byt := l.peek(1)
		if len(byt) == 0 || byt[0] == '\n' {
			return l.kinded(types.COMMENT, lit.String(), from)
		}
		r, _ := l.read()
		lit.WriteRune(r)
	}
}

func (l *Lexer) lexIdent(from types.Position) types.Token {
	var lit strings.Builder

	for {
		r, ok := l.read()
		if !ok {
			break
		}
		if !otherChar(r) {
			l.backup()
			break
		}
		lit.WriteRune(r)
	}

	text := lit.String()
	tok := l.kinded(types.IDENT, text, from)
	switch text {
	case "true", "false":
		tok.Kind = types.BOOL
		tok.Literal = text == "true"
		return tok
	}
	if kind, ok := types.Keywords[text]; ok {
		tok.Kind = kind
		return tok
	}
	tok.Literal = text
	return tok
}

func (l *Lexer) lexString(from types.Position) types.Token {
	var lit strings.Builder

	for {
		r, ok := l.read()
		if !ok {
			panic(errors.UnterminatedString{Location: from})
		}

		switch r {
		case '"':
			text := lit.String()
			tok := l.kinded(types.STRING, `"`+text+`"`, from)
			tok.Literal = text
			return tok
		case '\n':
			l.newline()
		}
		lit.WriteRune(r)
	}
}

func (l *Lexer) digits(into *strings.Builder) {
	for {
		byt := l.peek(1)
		if len(byt) == 0 || !isDigit(byt[0]) {
			return
		}
		r, _ := l.read()
		into.WriteRune(r)
	}
}

func (l *Lexer) lexNumber(first rune, from types.Position) types.Token {
	var runes strings.Builder
	runes.WriteRune(first)
	l.digits(&runes)

	// a dot only starts a fraction when a digit follows it, so 1..5 stays a range
	byt := l.peek(2)
	if len(byt) == 2 && byt[0] == '.' && isDigit(byt[1]) {
		l.read()
		runes.WriteRune('.')
		l.digits(&runes)

		text := runes.String()
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			panic(errors.MalformedNumber{Lexeme: text, Location: from})
		}
		tok := l.kinded(types.FLOAT, text, from)
		tok.Literal = f
		return tok
	}

	text := runes.String()
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		panic(errors.MalformedNumber{Lexeme: text, Location: from})
	}
	tok := l.kinded(types.INT, text, from)
	tok.Literal = n
	return tok
}
