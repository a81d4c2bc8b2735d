package interpreter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/morph-lang/morph/checker"
	"github.com/morph-lang/morph/parser"
	"github.com/morph-lang/morph/value"
	"github.com/ztrue/tracerr"
)

func run(t *testing.T, source string, opts ...Option) (value.Value, error) {
	t.Helper()

	m, err := parser.ParseString(source)
	if err != nil {
		t.Fatalf("parse: %s", err)
	}
	return New(opts...).Interpret(m)
}

func expectValue(t *testing.T, source string, want value.Value) {
	t.Helper()

	got, err := run(t, source)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !value.Equal(got, want) {
		t.Errorf("got %s, want %s", repr.String(got), repr.String(want))
	}
}

func expectError(t *testing.T, source string, kind ErrorKind) *RuntimeError {
	t.Helper()

	_, err := run(t, source)
	if err == nil {
		t.Fatalf("expected %s, got no error", kind)
	}
	rerr, ok := tracerr.Unwrap(err).(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T: %s", tracerr.Unwrap(err), err)
	}
	if rerr.Kind != kind {
		t.Errorf("got %s (%s), want %s", rerr.Kind, rerr, kind)
	}
	return rerr
}

func TestEndToEnd(t *testing.T) {
	expectValue(t, `
proto add(a: Int, b: Int) => Int {
	return a + b
}

proto main() {
	return add(3, 4)
}
`, value.Integer(7))

	expectValue(t, `
proto main() {
	let items = [1, 2, 3]
	var total = 0
	for item in items {
		total = total + item
	}
	return total
}
`, value.Integer(6))

	expectValue(t, `
proto grade(score: Int) => String {
	return match score {
		90..100 => "A",
		80..89 => "B",
		_ => "C"
	}
}

proto main() {
	return grade(42)
}
`, value.String("C"))
}

func TestPrecedence(t *testing.T) {
	expectValue(t, `proto main() { return 1 + 2 * 3 }`, value.Integer(7))
	expectValue(t, `proto main() { return (1 + 2) * 3 }`, value.Integer(9))
	expectValue(t, `proto main() { return 10 - 4 - 3 }`, value.Integer(3))
	expectValue(t, `proto main() { return 7 / 2 }`, value.Integer(3))
	expectValue(t, `proto main() { return 7 / 2.0 }`, value.Float(3.5))
}

func TestPipeEquivalence(t *testing.T) {
	const decls = `
proto double(x) { return x * 2 }
proto add(a, b) { return a + b }
`
	expectValue(t, decls+`proto main() { return 5 |> double() }`, value.Integer(10))
	expectValue(t, decls+`proto main() { return 5 |> add(1) }`, value.Integer(6))
	expectValue(t, decls+`proto main() { return 5 |> double |> add(1) }`, value.Integer(11))
	expectValue(t, decls+`proto main() { return add(double(5), 1) }`, value.Integer(11))
}

func TestClosureSnapshot(t *testing.T) {
	expectValue(t, `
proto main() {
	var x = 1
	let f = () => x
	x = 2
	return f()
}
`, value.Integer(1))
}

func TestRecursionAndMutualCalls(t *testing.T) {
	expectValue(t, `
proto fact(n) {
	if n <= 1 {
		return 1
	}
	return n * fact(n - 1)
}

proto main() {
	return fact(5)
}
`, value.Integer(120))

	expectValue(t, `
proto main() {
	return later()
}

proto later() {
	return "ok"
}
`, value.String("ok"))
}

func TestEarlyReturn(t *testing.T) {
	expectValue(t, `
proto first(items) {
	for item in items {
		if item > 1 {
			return item
		}
	}
	return -1
}

proto main() {
	return first([1, 5, 9])
}
`, value.Integer(5))
}

func TestLoopScope(t *testing.T) {
	expectError(t, `
proto main() {
	for i in [1, 2] {
		let inner = i
	}
	return inner
}
`, UndefinedVariable)

	expectValue(t, `
proto main() {
	var count = 0
	for i in range(10) where i % 2 == 0 {
		count = count + 1
	}
	return count
}
`, value.Integer(5))

	expectError(t, `proto main() { for x in 5 { print(x) } }`, TypeError)
}

func TestBlockShadowing(t *testing.T) {
	expectValue(t, `
proto main() {
	let x = 1
	let y = {
		let x = 2
		x * 10
	}
	return x + y
}
`, value.Integer(21))
}

func TestDivisionByZero(t *testing.T) {
	for _, source := range []string{
		`proto main() { return 1 / 0 }`,
		`proto main() { return 1 % 0 }`,
		`proto main() { return 1.5 / 0.0 }`,
		`proto main() { return 1.5 % 0 }`,
	} {
		expectError(t, source, InvalidOperation)
	}

	expectValue(t, `proto main() { return 7.5 % 2 }`, value.Float(1.5))
}

func TestIndexOutOfBounds(t *testing.T) {
	for _, idx := range []string{"5", "-1", "3"} {
		err := expectError(t, `proto main() { let xs = [1, 2, 3]; return xs[`+idx+`] }`, IndexOutOfBounds)
		if err.Len != 3 {
			t.Errorf("index %s: Len = %d, want 3", idx, err.Len)
		}
	}

	err := expectError(t, `proto main() { return "héllo"[7] }`, IndexOutOfBounds)
	if err.Index != 7 || err.Len != 5 {
		t.Errorf("string bounds: %s", err)
	}
}

func TestArityMismatch(t *testing.T) {
	err := expectError(t, `
proto add(a, b) { return a + b }
proto main() { return add(1) }
`, ArityMismatch)
	if err.Expected != 2 || err.Got != 1 {
		t.Errorf("arity payload: %s", err)
	}
	if err.Pos.Line != 3 {
		t.Errorf("error position: %s", err.Pos)
	}

	err = expectError(t, `proto main() { return push([1]) }`, ArityMismatch)
	if err.Expected != 2 {
		t.Errorf("push arity: %s", err)
	}
}

func TestUndefinedNames(t *testing.T) {
	err := expectError(t, `proto main() { return missing(1) }`, UndefinedFunction)
	if err.Name != "missing" {
		t.Errorf("name: %s", err.Name)
	}
	expectError(t, `proto main() { return nothing }`, UndefinedVariable)
	expectError(t, `proto main() { nothing = 1 }`, UndefinedVariable)
}

func TestMatchPatterns(t *testing.T) {
	expectValue(t, `proto main() { return match 95 { 90..100 => "A", _ => "C" } }`, value.String("A"))
	expectValue(t, `proto main() { return match 100 { 90..100 => "A", _ => "C" } }`, value.String("A"))
	expectValue(t, `proto main() { return match "b" { "a" => 1, "b" => 2, _ => 3 } }`, value.Integer(2))

	// identifier patterns accept anything but do not bind
	expectError(t, `proto main() { return match 4 { n => n } }`, UndefinedVariable)
	expectValue(t, `proto main() { let n = 1; return match 4 { n => n } }`, value.Integer(1))

	expectError(t, `proto main() { return match 4 { 1 => 1 } }`, Custom)
}

func TestTuplePatternsRejected(t *testing.T) {
	err := expectError(t, `proto main() {
	return match [1, 2] { (1, _) => "one", _ => "other" }
}`, Custom)
	if err.Message != "tuple patterns are not supported" {
		t.Errorf("message = %q", err.Message)
	}
	if err.Pos.Line != 2 {
		t.Errorf("position: %s", err.Pos)
	}

	// arms before the tuple still get their chance
	expectValue(t, `proto main() { return match 3 { 3 => "three", (1, _) => "one" } }`, value.String("three"))
}

func TestSolveBlocks(t *testing.T) {
	expectValue(t, `
solve pick() {
	let a = 3
	let b = a * 2
	ensure b > a
	return b
}
`, value.Integer(6))

	expectValue(t, `
solve first() {
	return 1
}

solve second(x) {
	ensure x == x
	return 2
}
`, value.Integer(2))

	err := expectError(t, `
solve pick() {
	let a = 1
	ensure a > 2
}
`, Custom)
	if err.Pos.Line != 4 {
		t.Errorf("ensure position: %s", err.Pos)
	}

	expectValue(t, `type A = Int`, value.Unit{})
}

func TestGhostValidation(t *testing.T) {
	const decls = `type Score = Int<Ghost: Min: 0, Max: 100>
`
	expectValue(t, decls+`proto main() { let s: Score = 50; return s }`, value.Integer(50))
	err := expectError(t, decls+`proto main() { let s: Score = 101; return s }`, Custom)
	if err.Pos.Line != 2 {
		t.Errorf("ghost failure position: %s", err.Pos)
	}
	var cause *checker.TypeError
	if !errors.As(err, &cause) || cause.Kind != checker.GhostValidationFailed {
		t.Errorf("cause = %#v, want a GhostValidationFailed type error", err.Cause)
	}

	expectError(t, `proto main() { let name: String<Ghost: Regex: "^[a-z]+$"> = "ABC" }`, Custom)
	expectValue(t, `proto main() { let name: String<Ghost: Regex: "^[a-z]+$"> = "abc"; return name }`, value.String("abc"))
}

func TestIndexAssignment(t *testing.T) {
	expectValue(t, `
proto main() {
	var xs = [1, 2, 3]
	let ys = xs
	xs[1] = 20
	return [xs, ys]
}
`, value.List{
		value.List{value.Integer(1), value.Integer(20), value.Integer(3)},
		value.List{value.Integer(1), value.Integer(2), value.Integer(3)},
	})

	expectValue(t, `
proto main() {
	var grid = [[0, 0], [0, 0]]
	grid[1][0] = 7
	return grid[1]
}
`, value.List{value.Integer(7), value.Integer(0)})

	expectError(t, `proto main() { var xs = [1]; xs[4] = 2 }`, IndexOutOfBounds)
	expectError(t, `proto main() { var s = "abc"; s[0] = "x" }`, TypeError)

	// field assignment evaluates the record but leaves it unchanged
	expectValue(t, `
proto main() {
	var p = { x: 1 }
	p.x = 2
	return p.x
}
`, value.Integer(1))
}

func TestValues(t *testing.T) {
	expectValue(t, `proto main() { return [1, 2] + [3] }`, value.List{value.Integer(1), value.Integer(2), value.Integer(3)})
	expectValue(t, `proto main() { return "héllo"[1] }`, value.String("é"))
	expectValue(t, `proto main() { return "ab" + "cd" }`, value.String("abcd"))
	expectValue(t, `proto main() { return { a: 1, b: "x" }.b }`, value.String("x"))
	expectValue(t, `proto main() { return !0 }`, value.Boolean(true))
	expectValue(t, `proto main() { return -(2 + 3) }`, value.Integer(-5))
	expectValue(t, `proto main() { return 1 < 1.5 }`, value.Boolean(true))
	expectValue(t, `proto main() { return "apple" < "banana" }`, value.Boolean(true))
	expectValue(t, `proto main() { return [1, { a: 2 }] == [1, { a: 2 }] }`, value.Boolean(true))
	expectValue(t, `proto main() { return 1 == 1.0 }`, value.Boolean(false))
	expectValue(t, `proto main() { return claim [1] }`, value.List{value.Integer(1)})
	expectValue(t, `proto main() { return if false { 1 } }`, value.Unit{})

	expectError(t, `proto main() { return true < false }`, TypeError)
	expectError(t, `proto main() { return "a" - "b" }`, TypeError)
	expectError(t, `proto main() { return { a: 1 }.b }`, Custom)
	expectError(t, `proto main() { return 5.a }`, TypeError)
}

func TestBuiltins(t *testing.T) {
	var out bytes.Buffer
	_, err := run(t, `
proto main() {
	print("a", 1)
	print("b")
	log([1, 2], { k: true }, 2.5)
	log()
}
`, WithOutput(&out))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "a 1b[1, 2] { k: true } 2.5\n\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	expectValue(t, `proto main() { return len([1, 2, 3]) + len("héllo") }`, value.Integer(8))
	expectValue(t, `proto main() { return range(3) }`, value.List{value.Integer(0), value.Integer(1), value.Integer(2)})
	expectValue(t, `proto main() { return range(2, 4) }`, value.List{value.Integer(2), value.Integer(3)})
	expectValue(t, `proto main() { return range(0, 7, 3) }`, value.List{value.Integer(0), value.Integer(3), value.Integer(6)})
	expectValue(t, `proto main() { return range(5, 1) }`, value.List{})
	expectValue(t, `proto main() { var xs = [1]; push(xs, 2); return xs }`, value.List{value.Integer(1)})

	expectError(t, `proto main() { return range(0, 5, 0) }`, InvalidOperation)
	expectError(t, `proto main() { return range() }`, ArityMismatch)
	expectError(t, `proto main() { return len(5) }`, TypeError)
}

func TestSolidFunctionsDoNotRun(t *testing.T) {
	expectError(t, `
solid add(a: Int, b: Int) => Int {
	return a + b
}

proto main() {
	return add(1, 2)
}
`, InvalidOperation)
}

func TestInstancesAreIndependent(t *testing.T) {
	m, err := parser.ParseString(`proto inc(n) { return n + 1 }`)
	if err != nil {
		t.Fatal(err)
	}

	a := New()
	a.Load(m)
	v, err := a.Call("inc", value.Integer(1))
	if err != nil || !value.Equal(v, value.Integer(2)) {
		t.Fatalf("inc(1) = %v, %v", v, err)
	}

	b := New()
	if _, err := b.Call("inc", value.Integer(1)); err == nil {
		t.Errorf("a fresh interpreter should not see another instance's functions")
	}
}
