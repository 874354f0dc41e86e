package runtime

import (
	"testing"

	"github.com/rpal-lang/rpal/value"
)

func TestRootFrame(t *testing.T) {
	a := NewArena()
	root := a.Root()
	if !root.Primordial {
		t.Fatal("frame 0 should be primordial")
	}
	if root.Parent != -1 {
		t.Fatal("frame 0 should have no parent")
	}
}

func TestDefineAndResolveLexicalScope(t *testing.T) {
	a := NewArena()
	a.Root().Define("x", value.Int(1))
	child := a.New(0)
	a.Get(child).Define("x", value.Int(2))

	// Lexical scope: "let x = A in let x = B in x" — the result equals B
	// evaluated in the outer environment; inner rebinding never leaks
	// back to the outer frame (spec.md §8).
	if v, ok := a.Resolve(child, "x"); !ok || v.Int != 2 {
		t.Fatalf("expected inner x=2, got %v", v)
	}
	if v, ok := a.Resolve(0, "x"); !ok || v.Int != 1 {
		t.Fatalf("expected outer x=1 unaffected, got %v", v)
	}
}

func TestResolveWalksAncestors(t *testing.T) {
	a := NewArena()
	a.Root().Define("g", value.Str("global"))
	child := a.New(0)
	grandchild := a.New(child)
	if v, ok := a.Resolve(grandchild, "g"); !ok || v.Str != "global" {
		t.Fatalf("expected to resolve ancestor binding, got %v ok=%v", v, ok)
	}
}

func TestResolveUnbound(t *testing.T) {
	a := NewArena()
	if _, ok := a.Resolve(0, "nope"); ok {
		t.Fatal("expected unbound identifier to fail resolution")
	}
}

func TestFrameIndicesAreDense(t *testing.T) {
	a := NewArena()
	f1 := a.New(0)
	f2 := a.New(f1)
	if f1 != 1 || f2 != 2 {
		t.Fatalf("expected dense indices 1,2; got %d,%d", f1, f2)
	}
	if a.Len() != 3 {
		t.Fatalf("expected 3 frames total, got %d", a.Len())
	}
}
