package main

import (
	"strings"
	"testing"

	"github.com/alecthomas/participle"
)

func TestGenerateDecls(t *testing.T) {
	parser := participle.MustBuild(&TypeDecls{})

	decls := TypeDecls{}
	err := parser.ParseString(`
type Shape = | Circle | *Square ;
type Color = | Red ;
`, &decls)
	if err != nil {
		t.Fatal(err)
	}

	if len(decls.Declarations) != 2 || len(decls.Declarations[0].Variants) != 2 {
		t.Fatalf("parsed %d declarations", len(decls.Declarations))
	}
	if !decls.Declarations[0].Variants[1].Pointer || decls.Declarations[0].Variants[0].Pointer {
		t.Errorf("pointer markers parsed wrong")
	}

	// gofmt aligns grouped receivers, so compare with whitespace collapsed
	normalize := func(s string) string { return strings.Join(strings.Fields(s), " ") }

	out := normalize(GenerateDecls("shapes", &decls))
	for _, want := range []string{
		"// Code generated by adtgen. DO NOT EDIT.",
		"package shapes",
		"type Shape interface {\n\tis_Shape()\n}",
		"func (v Circle) is_Shape() {}",
		"func (v *Square) is_Shape() {}",
		"func (v Red) is_Color() {}",
	} {
		if !strings.Contains(out, normalize(want)) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}
