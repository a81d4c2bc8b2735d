package checker

import (
	"strings"
	"testing"

	"github.com/coreos/pkg/multierror"
	"github.com/morph-lang/morph/ast"
	"github.com/morph-lang/morph/parser"
)

func check(t *testing.T, source string) []*TypeError {
	t.Helper()

	m, err := parser.ParseString(source)
	if err != nil {
		t.Fatalf("parse: %s", err)
	}

	err = Check(m)
	if err == nil {
		return nil
	}
	merr, ok := err.(multierror.Error)
	if !ok {
		t.Fatalf("Check returned %T, want multierror.Error", err)
	}
	var ret []*TypeError
	for _, e := range merr {
		ret = append(ret, e.(*TypeError))
	}
	return ret
}

func expectClean(t *testing.T, source string) {
	t.Helper()

	if errs := check(t, source); len(errs) > 0 {
		for _, err := range errs {
			t.Errorf("unexpected error: %s", err)
		}
	}
}

func expectKinds(t *testing.T, source string, want ...ErrorKind) []*TypeError {
	t.Helper()

	errs := check(t, source)
	if len(errs) != len(want) {
		t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(want))
	}
	for i, k := range want {
		if errs[i].Kind != k {
			t.Errorf("error %d: got %s (%s), want %s", i, errs[i].Kind, errs[i], k)
		}
	}
	return errs
}

func TestCleanPrograms(t *testing.T) {
	expectClean(t, `proto main() { return 1 + 2 * 3 }`)
	expectClean(t, `proto main() { let items = [1,2,3]; return items[0] + items[1] + items[2] }`)
	expectClean(t, `proto main() { return match 5 { 90..100 => "A", _ => "C" } }`)
	expectClean(t, `
type Point = { x: Int, y: Int }
type Score = Int<Ghost: Min: 0, Max: 100>

proto dist(p: Point) => Int {
	return p.x * p.x + p.y * p.y
}

proto twice(f, x) {
	return f(f(x))
}

proto main() {
	let p: Point = { x: 3, y: 4 }
	let s: Score = 50
	let ratio: Float = 2
	var total = 0
	for i in range(10) where i % 2 == 0 {
		total = total + i
	}
	let name = "morph" + "!"
	let first = name[0]
	let inc = (n) => n + 1
	print(dist(p), s, ratio, total, first, twice(inc, 1))
}
`)
}

func TestBinaryOperatorTable(t *testing.T) {
	c := New()
	tests := []struct {
		left  Type
		op    ast.BinaryOp
		right Type
		want  Type
	}{
		{Int{}, ast.Add, Int{}, Int{}},
		{Float{}, ast.Multiply, Float{}, Float{}},
		{Int{}, ast.Divide, Float{}, Float{}},
		{Float{}, ast.Modulo, Int{}, Float{}},
		{String{}, ast.Add, String{}, String{}},
		{&Variable{Name: "a"}, ast.Add, Int{}, Int{}},
		{Float{}, ast.Subtract, &Variable{Name: "a"}, Float{}},
		{&Variable{Name: "a"}, ast.Add, &Variable{Name: "b"}, &Variable{Name: "result"}},
		{String{}, ast.Less, Int{}, Bool{}},
		{&List{Elem: Int{}}, ast.Equal, Unit{}, Bool{}},
	}

	for _, tt := range tests {
		got, err := c.binary(tt.left, tt.op, tt.right)
		if err != nil {
			t.Errorf("%s %s %s: %s", TypeString(tt.left), tt.op, TypeString(tt.right), err)
			continue
		}
		if !Equal(got, tt.want) {
			t.Errorf("%s %s %s = %s, want %s", TypeString(tt.left), tt.op, TypeString(tt.right), TypeString(got), TypeString(tt.want))
		}
	}

	if _, err := c.binary(String{}, ast.Subtract, String{}); err == nil {
		t.Errorf("String - String should be rejected")
	}
	if _, err := c.binary(Bool{}, ast.Add, Int{}); err == nil {
		t.Errorf("Bool + Int should be rejected")
	}
}

func TestUnary(t *testing.T) {
	expectClean(t, `proto main() { let a = -1; let b = -1.5; let c = !5 }`)
	expectKinds(t, `proto main() { let a = -"x" }`, InvalidOperation)
}

func TestErrorsAccumulate(t *testing.T) {
	errs := expectKinds(t, `
type Broken = Missing

proto f(a: Int, b: Int) => Int {
	return a + b
}

proto main() {
	let x = y
	let s: String = 1
	f(1)
	let bad = "a" - "b"
	print(x)
}

solve check() {
	ensure 1 + 1
}
`, UndefinedType, UndefinedVariable, Mismatch, ArityMismatch, InvalidOperation, Mismatch)

	if errs[0].Name != "Missing" {
		t.Errorf("undefined type name: %s", errs[0].Name)
	}
	if errs[1].Name != "y" || errs[1].Pos.Line != 9 {
		t.Errorf("undefined variable: %s at %s", errs[1].Name, errs[1].Pos)
	}
	if !Equal(errs[2].Expected, String{}) || !Equal(errs[2].Got, Int{}) {
		t.Errorf("mismatch payload: %s", errs[2])
	}
	if errs[3].ExpectedArity != 2 || errs[3].GotArity != 1 {
		t.Errorf("arity payload: %s", errs[3])
	}
	if !strings.Contains(errs[3].Error(), "line 11") {
		t.Errorf("error should carry its line: %s", errs[3])
	}
}

func TestIfBranchesMustAgree(t *testing.T) {
	expectClean(t, `proto main() { let x = if true { 1 } else { 2 } }`)
	expectKinds(t, `proto main() { let x = if true { 1 } else { "two" } }`, Mismatch)
	expectKinds(t, `proto main() { let x = if 1 { 1 } }`, Mismatch)
}

func TestFieldAndIndexAccess(t *testing.T) {
	expectKinds(t, `proto main() { let r = { a: 1 }; let b = r.b }`, Custom)
	expectKinds(t, `proto main() { let n = 5; let b = n.a }`, Custom)
	expectKinds(t, `proto main() { let xs = [1]; let b = xs["0"] }`, Mismatch)
	expectKinds(t, `proto main() { let b = true[0] }`, Custom)
}

func TestForRequiresList(t *testing.T) {
	expectKinds(t, `proto main() { for x in 5 { print(x) } }`, Custom)
}

func TestReturnAnnotation(t *testing.T) {
	expectClean(t, `proto half(n: Int) => Float { return n / 2.0 }`)
	expectKinds(t, `proto name() => String { return 1 }`, Mismatch)
}

func TestUnannotatedParamsAreVariables(t *testing.T) {
	m, err := parser.ParseString(`proto add(a, b) { return a + b }`)
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	if err := c.Check(m); err != nil {
		t.Fatal(err)
	}
	sig, _ := c.vars.Lookup("add")
	fn := sig.(*Function)
	if TypeString(fn.Params[0]) != "'param_a" || !Equal(fn.Returns, Unit{}) {
		t.Errorf("signature: %s", TypeString(fn))
	}
}

func TestEnumsAreStrings(t *testing.T) {
	expectClean(t, `
type Color = Red | Green
proto main() { let c: Color = "Red" }
`)
}

func TestImportsBindNames(t *testing.T) {
	expectClean(t, `
import math::{sqrt}
proto main() { let r = sqrt(4) }
`)
}

func TestUnknownGenericsAreOpaque(t *testing.T) {
	expectClean(t, `
proto pass(m: Map<String, Int>) => Map<String, Int> { return m }
proto xs(l: List<Int>) => List<Int> { return l }
`)

	errs := expectKinds(t, `
proto size(m: Map<String, Int>) => Int { return 0 }
proto main() { let n = size(1) }
`, Mismatch)
	if got := TypeString(errs[0].Expected); got != "Map<String, Int>" {
		t.Errorf("expected type rendered as %q", got)
	}

	expectKinds(t, `proto f(m: Map<String, Missing>) { }`, UndefinedType)

	a := &Generic{Name: "Map", Params: []Type{String{}, Int{}}}
	b := &Generic{Name: "Map", Params: []Type{String{}, Float{}}}
	if Equal(a, b) || !Equal(a, &Generic{Name: "Map", Params: []Type{String{}, Int{}}}) {
		t.Errorf("generic equality must compare arguments")
	}
}
