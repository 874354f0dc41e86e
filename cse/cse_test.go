package cse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rpal-lang/rpal/ast"
	"github.com/rpal-lang/rpal/flatten"
	"github.com/rpal-lang/rpal/standardize"
)

func eval(t *testing.T, src string) (string, string) {
	t.Helper()
	n, err := ast.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	n = standardize.Tree(n)
	table, root, err := flatten.Root(n)
	if err != nil {
		t.Fatalf("flatten %q: %v", src, err)
	}
	var buf bytes.Buffer
	result, err := Run(table, root, WithOutput(&buf))
	if err != nil {
		t.Fatalf("run %q: %v", src, err)
	}
	return result.String(), buf.String()
}

func TestHelloWorld(t *testing.T) {
	_, out := eval(t, `Print 'Hello, World!'`)
	if strings.TrimRight(out, "\n") != "Hello, World!" {
		t.Fatalf("got %q", out)
	}
}

func TestFactorial(t *testing.T) {
	_, out := eval(t, `let rec fact n = n eq 0 -> 1 | n * fact (n-1) in Print (fact 5)`)
	if strings.TrimRight(out, "\n") != "120" {
		t.Fatalf("got %q", out)
	}
}

func TestMaxTuple(t *testing.T) {
	_, out := eval(t, `let max x y = x gr y -> x | y in Print (max 10 5, max 3 8)`)
	if strings.TrimRight(out, "\n") != "(10, 8)" {
		t.Fatalf("got %q", out)
	}
}

func TestConcString(t *testing.T) {
	_, out := eval(t, `let Conc2 x y = Conc x y in Print (Conc2 'Hello' 'World')`)
	if strings.TrimRight(out, "\n") != "HelloWorld" {
		t.Fatalf("got %q", out)
	}
}

func TestTupleOrderAndIndex(t *testing.T) {
	_, out := eval(t, `let t = (1, 'a', true) in Print (Order t, t 2)`)
	if strings.TrimRight(out, "\n") != "(3, a)" {
		t.Fatalf("got %q", out)
	}
}

func TestFibonacci(t *testing.T) {
	_, out := eval(t, `let rec fib n = n le 1 -> n | fib(n-1) + fib(n-2) in Print (fib 10)`)
	if strings.TrimRight(out, "\n") != "55" {
		t.Fatalf("got %q", out)
	}
}

// Lexical scope: inner rebinding never leaks (spec.md §8).
func TestLexicalScope(t *testing.T) {
	result, _ := eval(t, `let x = 1 in let x = 2 in x`)
	if result != "2" {
		t.Fatalf("got %q", result)
	}
	result, _ = eval(t, `let x = (let x = 2 in x) in x`)
	if result != "2" {
		t.Fatalf("got %q", result)
	}
	// The outer x must not be disturbed by a shadowing inner definition
	// that has already gone out of scope.
	result, _ = eval(t, `(let x = 1 in let x = 2 in x), (let x = 1 in x)`)
	if result != "(2, 1)" {
		t.Fatalf("got %q", result)
	}
}

// Curry equivalence: f a b == (f a) b for a two-argument function.
func TestCurryEquivalence(t *testing.T) {
	a, _ := eval(t, `let f x y = x - y in f 10 3`)
	b, _ := eval(t, `let f x y = x - y in (f 10) 3`)
	if a != b || a != "7" {
		t.Fatalf("curry mismatch: f a b = %q, (f a) b = %q", a, b)
	}
}

// Tuple indexing: T i == v_i for every i in 1..n.
func TestTupleIndexing(t *testing.T) {
	result, out := eval(t, `let t = (10, 20, 30) in Print (t 1, t 2, t 3)`)
	if result != "dummy" {
		t.Fatalf("expected Print's dummy result, got %q", result)
	}
	if strings.TrimRight(out, "\n") != "(10, 20, 30)" {
		t.Fatalf("got %q", out)
	}
}

func TestTupleIndexOutOfRange(t *testing.T) {
	n, err := ast.Parse(`let t = (1, 2) in t 5`)
	if err != nil {
		t.Fatal(err)
	}
	n = standardize.Tree(n)
	table, root, err := flatten.Root(n)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(table, root); err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestDivisionByZero(t *testing.T) {
	n, err := ast.Parse(`1 / 0`)
	if err != nil {
		t.Fatal(err)
	}
	n = standardize.Tree(n)
	table, root, err := flatten.Root(n)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(table, root); err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestUnboundIdentifier(t *testing.T) {
	n, err := ast.Parse(`nosuchname`)
	if err != nil {
		t.Fatal(err)
	}
	n = standardize.Tree(n)
	table, root, err := flatten.Root(n)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(table, root); err == nil {
		t.Fatal("expected an unbound identifier error")
	}
}

func TestIsfunctionOnCurriedBuiltin(t *testing.T) {
	result, _ := eval(t, `Isfunction (Conc 'a')`)
	if result != "true" {
		t.Fatalf("expected curried Conc to read as a function, got %q", result)
	}
}

func TestAugBuildsTuple(t *testing.T) {
	result, _ := eval(t, `(1, 2) aug 3`)
	if result != "(1, 2, 3)" {
		t.Fatalf("got %q", result)
	}
}

func TestNegation(t *testing.T) {
	result, _ := eval(t, `-(3 + 4)`)
	if result != "-7" {
		t.Fatalf("got %q", result)
	}
}
