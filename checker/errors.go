package checker

import (
	"fmt"

	"github.com/morph-lang/morph/types"
)

type ErrorKind int

const (
	Mismatch ErrorKind = iota
	UndefinedType
	UndefinedVariable
	ArityMismatch
	InvalidOperation
	GhostValidationFailed
	Custom
)

var kindNames = map[ErrorKind]string{
	Mismatch:              "Mismatch",
	UndefinedType:         "UndefinedType",
	UndefinedVariable:     "UndefinedVariable",
	ArityMismatch:         "ArityMismatch",
	InvalidOperation:      "InvalidOperation",
	GhostValidationFailed: "GhostValidationFailed",
	Custom:                "Custom",
}

func (k ErrorKind) String() string {
	return kindNames[k]
}

// TypeError is one problem found while checking. Which payload fields are
// set depends on Kind.
type TypeError struct {
	Kind ErrorKind

	// Mismatch
	Expected Type
	Got      Type

	// UndefinedType, UndefinedVariable, GhostValidationFailed
	Name string

	// ArityMismatch
	ExpectedArity int
	GotArity      int

	// InvalidOperation, GhostValidationFailed, Custom
	Message string

	// Pos is the start of the statement or declaration being checked. It is
	// the zero Position when no source location applies.
	Pos types.Position
}

func (e *TypeError) describe() string {
	switch e.Kind {
	case Mismatch:
		return fmt.Sprintf("type mismatch: expected %s, got %s", TypeString(e.Expected), TypeString(e.Got))
	case UndefinedType:
		return "undefined type: " + e.Name
	case UndefinedVariable:
		return "undefined variable: " + e.Name
	case ArityMismatch:
		return fmt.Sprintf("expected %d arguments, got %d", e.ExpectedArity, e.GotArity)
	case InvalidOperation:
		return "invalid operation: " + e.Message
	case GhostValidationFailed:
		return fmt.Sprintf("ghost type validation failed for %s: %s", e.Name, e.Message)
	}
	return e.Message
}

func (e *TypeError) Error() string {
	if e.Pos.Line == 0 {
		return e.describe()
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.describe())
}
