package main

import (
	"testing"

	"github.com/morph-lang/morph/parser"
)

func TestCount(t *testing.T) {
	m, err := parser.ParseString(`
import math::{sqrt}

type Point = { x: Int, y: Int }

solid add(a: Int, b: Int) => Int { return a + b }
proto sub(a, b) { return a - b }
proto main() { return add(1, 2) }

solve pick() { return 1 }
`)
	if err != nil {
		t.Fatal(err)
	}

	got := count(m)
	want := stages{proto: 2, solid: 1, solves: 1, types: 1, imports: 1}
	if got != want {
		t.Errorf("count = %+v, want %+v", got, want)
	}
}
