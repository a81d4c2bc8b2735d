package errors

import (
	"fmt"
	"strings"

	"github.com/morph-lang/morph/types"
)

type UnexpectedCharacter struct {
	Char     rune
	Location types.Position
}

func (e UnexpectedCharacter) Error() string {
	return fmt.Sprintf("unexpected character '%c' at line %d, column %d", e.Char, e.Location.Line, e.Location.Column)
}

type UnterminatedString struct {
	Location types.Position
}

func (e UnterminatedString) Error() string {
	return fmt.Sprintf("unterminated string at line %d, column %d", e.Location.Line, e.Location.Column)
}

type MalformedNumber struct {
	Lexeme   string
	Location types.Position
}

func (e MalformedNumber) Error() string {
	return fmt.Sprintf("malformed number '%s' at line %d, column %d", e.Lexeme, e.Location.Line, e.Location.Column)
}

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.Token
	// What names the construct being parsed, e.g. "')' after arguments".
	What string
}

func (e ExpectedOneOfKindGotKind) Error() string {
	var names []string
	for _, k := range e.Expected {
		names = append(names, k.String())
	}
	expected := strings.Join(names, " or ")
	if e.What != "" {
		expected = e.What
	}
	return fmt.Sprintf("expected %s at line %d, column %d, got %s '%s'", expected, e.Got.Line(), e.Got.Column(), e.Got.Kind, e.Got.Lexeme)
}

type ExpectedDeclaration struct {
	Got types.Token
}

func (e ExpectedDeclaration) Error() string {
	return fmt.Sprintf("unexpected token '%s' at line %d, column %d, expected declaration", e.Got.Lexeme, e.Got.Line(), e.Got.Column())
}

type InvalidPipeTarget struct {
	Location types.Position
}

func (e InvalidPipeTarget) Error() string {
	return fmt.Sprintf("right side of pipe must be callable at line %d, column %d", e.Location.Line, e.Location.Column)
}

type InvalidAssignmentTarget struct {
	Location types.Position
}

func (e InvalidAssignmentTarget) Error() string {
	return fmt.Sprintf("invalid assignment target at line %d, column %d", e.Location.Line, e.Location.Column)
}

type InvalidPattern struct {
	Got types.Token
}

func (e InvalidPattern) Error() string {
	return fmt.Sprintf("unexpected token '%s' in pattern at line %d, column %d", e.Got.Lexeme, e.Got.Line(), e.Got.Column())
}

type DuplicateField struct {
	Name     string
	Location types.Position
}

func (e DuplicateField) Error() string {
	return fmt.Sprintf("field %s specified more than once at line %d, column %d", e.Name, e.Location.Line, e.Location.Column)
}
