package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	NEWLINE
	COMMENT

	IDENT
	INT
	FLOAT
	STRING
	BOOL

	// keywords
	PROTO
	SOLID
	TYPE
	FLOW
	LET
	VAR
	IF
	ELSE
	MATCH
	FOR
	IN
	RETURN
	CLAIM
	DELEGATE
	SOLVE
	ENSURE
	WHERE
	IMPORT

	// operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	PIPE
	PIPEGREATER
	EQUALS
	EQEQ
	BANG
	BANGEQ
	LESS
	LESSEQ
	GREATER
	GREATEREQ
	FATARROW
	PERIOD
	DOTDOT
	COLON
	COLONCOLON

	// delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
)

var kindNames = map[TokenKind]string{
	EOF:         "EOF",
	ILLEGAL:     "ILLEGAL",
	NEWLINE:     "NEWLINE",
	COMMENT:     "COMMENT",
	IDENT:       "IDENT",
	INT:         "INT",
	FLOAT:       "FLOAT",
	STRING:      "STRING",
	BOOL:        "BOOL",
	PROTO:       "PROTO",
	SOLID:       "SOLID",
	TYPE:        "TYPE",
	FLOW:        "FLOW",
	LET:         "LET",
	VAR:         "VAR",
	IF:          "IF",
	ELSE:        "ELSE",
	MATCH:       "MATCH",
	FOR:         "FOR",
	IN:          "IN",
	RETURN:      "RETURN",
	CLAIM:       "CLAIM",
	DELEGATE:    "DELEGATE",
	SOLVE:       "SOLVE",
	ENSURE:      "ENSURE",
	WHERE:       "WHERE",
	IMPORT:      "IMPORT",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	STAR:        "STAR",
	SLASH:       "SLASH",
	PERCENT:     "PERCENT",
	PIPE:        "PIPE",
	PIPEGREATER: "PIPEGREATER",
	EQUALS:      "EQUALS",
	EQEQ:        "EQEQ",
	BANG:        "BANG",
	BANGEQ:      "BANGEQ",
	LESS:        "LESS",
	LESSEQ:      "LESSEQ",
	GREATER:     "GREATER",
	GREATEREQ:   "GREATEREQ",
	FATARROW:    "FATARROW",
	PERIOD:      "PERIOD",
	DOTDOT:      "DOTDOT",
	COLON:       "COLON",
	COLONCOLON:  "COLONCOLON",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	LBRACE:      "LBRACE",
	RBRACE:      "RBRACE",
	LBRACKET:    "LBRACKET",
	RBRACKET:    "RBRACKET",
	COMMA:       "COMMA",
	SEMICOLON:   "SEMICOLON",
}

func (t TokenKind) String() string {
	if name, ok := kindNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

// Keywords maps reserved words to their token kinds. true and false lex as
// BOOL and are handled separately.
var Keywords = map[string]TokenKind{
	"proto":    PROTO,
	"solid":    SOLID,
	"type":     TYPE,
	"flow":     FLOW,
	"let":      LET,
	"var":      VAR,
	"if":       IF,
	"else":     ELSE,
	"match":    MATCH,
	"for":      FOR,
	"in":       IN,
	"return":   RETURN,
	"claim":    CLAIM,
	"delegate": DELEGATE,
	"solve":    SOLVE,
	"ensure":   ENSURE,
	"where":    WHERE,
	"import":   IMPORT,
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

// Token is one lexeme of source text. Literal holds the decoded payload:
// int64 for INT, float64 for FLOAT, bool for BOOL, and the name or string
// contents (without quotes) for IDENT and STRING.
type Token struct {
	Kind     TokenKind
	Lexeme   string
	Literal  interface{}
	Location Span
}

func (t Token) Line() int {
	return t.Location.From.Line
}

func (t Token) Column() int {
	return t.Location.From.Column
}

func (t Token) String() string {
	return fmt.Sprintf("%s '%s' at %d:%d", t.Kind, t.Lexeme, t.Line(), t.Column())
}
