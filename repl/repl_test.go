package repl

import (
	"bytes"
	"testing"

	"github.com/morph-lang/morph/value"
)

func TestSessionKeepsState(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(&out)

	steps := []struct {
		input string
		want  value.Value
	}{
		{`proto double(x) { return x * 2 }`, value.Unit{}},
		{`var total = double(3)`, value.Unit{}},
		{`total = total + 1`, value.Unit{}},
		{`total`, value.Integer(7)},
		{"for i in [1, 2] {\n\ttotal = total + i\n}\ntotal", value.Integer(10)},
		{`print(total)`, value.Unit{}},
	}

	for _, step := range steps {
		got, err := s.Eval(step.input)
		if err != nil {
			t.Fatalf("%q: %s", step.input, err)
		}
		if !value.Equal(got, step.want) {
			t.Errorf("%q = %s, want %s", step.input, value.Format(got), value.Format(step.want))
		}
	}

	if out.String() != "10" {
		t.Errorf("output = %q", out.String())
	}

	if _, err := s.Eval(`missing`); err == nil {
		t.Errorf("undefined names should still fail")
	}
}

func TestIncomplete(t *testing.T) {
	for _, source := range []string{
		"proto f() {",
		"let x = [1,",
		"if true {",
		"print(1,",
		`let s = "abc`,
	} {
		_, _, err := parse(source)
		if err == nil || !incomplete(source, err) {
			t.Errorf("%q should be incomplete, got %v", source, err)
		}
	}

	for _, source := range []string{
		"let x = )",
		"proto f() { return ] }",
	} {
		_, _, err := parse(source)
		if err == nil || incomplete(source, err) {
			t.Errorf("%q should be a hard error, got %v", source, err)
		}
	}
}
