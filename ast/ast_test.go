package ast

import "testing"

func TestArityValidation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected New to panic on wrong arity")
		}
	}()
	New(KLet, Leaf(KIdent, "x"))
}

func TestParseBasicLet(t *testing.T) {
	n, err := Parse(`let x = 1 in x`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n.Kind != KLet {
		t.Fatalf("expected root KLet, got %s", n.Kind)
	}
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	if _, err := Parse(`1 2 )`); err == nil {
		t.Fatal("expected a parse error on trailing garbage")
	}
}

// Fingerprint must be stable across independent parses of the same
// source (spec.md §8's round-trip-parse property).
func TestFingerprintStableAcrossReparse(t *testing.T) {
	src := `let rec fact n = n eq 0 -> 1 | n * fact (n-1) in fact 5`
	a, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatal(err)
	}
	fb, err := Fingerprint(b)
	if err != nil {
		t.Fatal(err)
	}
	if fa != fb {
		t.Fatalf("expected identical fingerprints for two parses of the same source, got %q vs %q", fa, fb)
	}
}

func TestFingerprintDistinguishesTrees(t *testing.T) {
	a, err := Parse(`1 + 2`)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse(`1 + 3`)
	if err != nil {
		t.Fatal(err)
	}
	fa, _ := Fingerprint(a)
	fb, _ := Fingerprint(b)
	if fa == fb {
		t.Fatal("expected distinct fingerprints for structurally different trees")
	}
}
