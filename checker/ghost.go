package checker

import (
	"fmt"
	"regexp"

	"github.com/morph-lang/morph/ast"
	"github.com/morph-lang/morph/value"
)

// ValidateGhost checks v against Ghost attributes at run time. Regex applies
// to strings, Min and Max to numbers; other keys are ignored.
func ValidateGhost(v value.Value, attrs []ast.GhostAttribute) error {
	for _, attr := range attrs {
		switch attr.Key {
		case "Regex":
			pattern, ok := attr.Value.(ast.GhostString)
			if !ok {
				continue
			}
			s, ok := v.(value.String)
			if !ok {
				continue
			}
			re, err := regexp.Compile(string(pattern))
			if err != nil {
				return ghostFailure("String", "invalid regex pattern: %s", err)
			}
			if !re.MatchString(string(s)) {
				return ghostFailure("String", "value '%s' does not match pattern '%s'", s, pattern)
			}
		case "Min":
			min, ok := attr.Value.(ast.GhostNumber)
			if !ok {
				continue
			}
			switch n := v.(type) {
			case value.Integer:
				if float64(n) < float64(min) {
					return ghostFailure("Int", "value %d is less than minimum %v", n, float64(min))
				}
			case value.Float:
				if float64(n) < float64(min) {
					return ghostFailure("Float", "value %v is less than minimum %v", float64(n), float64(min))
				}
			}
		case "Max":
			max, ok := attr.Value.(ast.GhostNumber)
			if !ok {
				continue
			}
			switch n := v.(type) {
			case value.Integer:
				if float64(n) > float64(max) {
					return ghostFailure("Int", "value %d is greater than maximum %v", n, float64(max))
				}
			case value.Float:
				if float64(n) > float64(max) {
					return ghostFailure("Float", "value %v is greater than maximum %v", float64(n), float64(max))
				}
			}
		}
	}

	return nil
}

func ghostFailure(typeName, format string, args ...interface{}) *TypeError {
	return &TypeError{
		Kind:    GhostValidationFailed,
		Name:    typeName,
		Message: fmt.Sprintf(format, args...),
	}
}

// GhostAttributes collects the Ghost attributes reachable from an
// annotation, following aliases through the given type declarations.
func GhostAttributes(t ast.TypeAnnotation, aliases map[string]ast.TypeAnnotation) []ast.GhostAttribute {
	seen := map[string]bool{}

	for t != nil {
		switch a := t.(type) {
		case *ast.GhostType:
			return append(GhostAttributes(a.Base, aliases), a.Attributes...)
		case *ast.NamedType:
			if seen[a.Name] {
				return nil
			}
			seen[a.Name] = true
			t = aliases[a.Name]
		default:
			return nil
		}
	}

	return nil
}
