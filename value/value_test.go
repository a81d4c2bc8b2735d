package value

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Integer(-3), "-3"},
		{Float(2), "2"},
		{Float(2.5), "2.5"},
		{String("hi"), "hi"},
		{Boolean(true), "true"},
		{List{Integer(1), String("a"), List{}}, "[1, a, []]"},
		{Record{"b": Integer(2), "a": Integer(1)}, "{ a: 1, b: 2 }"},
		{Unit{}, "()"},
		{&Function{}, "<function>"},
	}

	for _, tt := range tests {
		if got := Format(tt.v); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	falsy := []Value{Boolean(false), Integer(0), Float(0), String(""), List{}, Record{}, Unit{}}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("%#v should be falsy", v)
		}
	}

	truthy := []Value{Boolean(true), Integer(-1), Float(0.1), String("x"), List{Unit{}}, Record{"a": Unit{}}, &Function{}}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("%#v should be truthy", v)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal(List{Integer(1), Record{"a": String("x")}}, List{Integer(1), Record{"a": String("x")}}) {
		t.Errorf("nested structures should compare by value")
	}
	if Equal(Integer(1), Float(1)) {
		t.Errorf("different kinds are never equal")
	}
	if Equal(Record{"a": Integer(1)}, Record{"b": Integer(1)}) {
		t.Errorf("records with different keys differ")
	}
	if !Equal(Unit{}, Unit{}) {
		t.Errorf("unit equals unit")
	}
}

func TestWithCopies(t *testing.T) {
	xs := List{Integer(1), Integer(2)}
	ys := xs.With(0, Integer(9))
	if xs[0] != Integer(1) || ys[0] != Integer(9) {
		t.Errorf("List.With must not touch the original: %v %v", xs, ys)
	}
}
