package interpreter

import (
	"fmt"

	"github.com/morph-lang/morph/types"
)

type ErrorKind int

const (
	TypeError ErrorKind = iota
	UndefinedVariable
	UndefinedFunction
	ArityMismatch
	IndexOutOfBounds
	InvalidOperation
	Custom
)

var kindNames = map[ErrorKind]string{
	TypeError:         "TypeError",
	UndefinedVariable: "UndefinedVariable",
	UndefinedFunction: "UndefinedFunction",
	ArityMismatch:     "ArityMismatch",
	IndexOutOfBounds:  "IndexOutOfBounds",
	InvalidOperation:  "InvalidOperation",
	Custom:            "Custom",
}

func (k ErrorKind) String() string {
	return kindNames[k]
}

// RuntimeError aborts interpretation. Which payload fields are set depends
// on Kind.
type RuntimeError struct {
	Kind ErrorKind

	// TypeError, InvalidOperation, Custom
	Message string

	// UndefinedVariable, UndefinedFunction
	Name string

	// ArityMismatch
	Expected int
	Got      int

	// IndexOutOfBounds
	Index int64
	Len   int

	// Pos is the start of the statement that failed.
	Pos types.Position

	// Cause is the underlying failure, if any. Ghost validation keeps the
	// checker's *checker.TypeError here.
	Cause error
}

func (e *RuntimeError) describe() string {
	switch e.Kind {
	case TypeError:
		return "type error: " + e.Message
	case UndefinedVariable:
		return "undefined variable: " + e.Name
	case UndefinedFunction:
		return "undefined function: " + e.Name
	case ArityMismatch:
		return fmt.Sprintf("expected %d arguments, got %d", e.Expected, e.Got)
	case IndexOutOfBounds:
		return fmt.Sprintf("index %d out of bounds for length %d", e.Index, e.Len)
	case InvalidOperation:
		return "invalid operation: " + e.Message
	}
	return e.Message
}

func (e *RuntimeError) Error() string {
	if e.Pos.Line == 0 {
		return e.describe()
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.describe())
}

func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

func typeErrorf(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: TypeError, Message: fmt.Sprintf(format, args...)}
}

func customf(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: Custom, Message: fmt.Sprintf(format, args...)}
}

func arity(expected, got int) *RuntimeError {
	return &RuntimeError{Kind: ArityMismatch, Expected: expected, Got: got}
}
