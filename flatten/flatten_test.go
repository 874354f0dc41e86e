package flatten

import (
	"testing"

	"github.com/rpal-lang/rpal/ast"
	"github.com/rpal-lang/rpal/standardize"
)

func compile(t *testing.T, src string) (*Table, int) {
	t.Helper()
	n, err := ast.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	n = standardize.Tree(n)
	table, root, err := Root(n)
	if err != nil {
		t.Fatalf("flatten %q: %v", src, err)
	}
	return table, root
}

func TestRootDeltaIsZero(t *testing.T) {
	_, root := compile(t, "1")
	if root != 0 {
		t.Fatalf("expected root delta index 0, got %d", root)
	}
}

func TestLambdaAllocatesBodyDelta(t *testing.T) {
	table, root := compile(t, "let x = 1 in x")
	rootDelta := table.Deltas[root]
	var lambda *Elem
	for i := range rootDelta {
		if rootDelta[i].Kind == ELambda {
			lambda = &rootDelta[i]
		}
	}
	if lambda == nil {
		t.Fatal("expected a lambda element in the root delta")
	}
	if lambda.Body == root {
		t.Fatal("lambda body must be a distinct delta from its enclosing one")
	}
	if lambda.Body >= len(table.Deltas) {
		t.Fatalf("lambda body index %d out of range", lambda.Body)
	}
}

func TestConditionalAllocatesTwoArmDeltas(t *testing.T) {
	table, root := compile(t, "1 eq 1 -> 2 | 3")
	rootDelta := table.Deltas[root]
	var beta *Elem
	for i := range rootDelta {
		if rootDelta[i].Kind == EBeta {
			beta = &rootDelta[i]
		}
	}
	if beta == nil {
		t.Fatal("expected a beta element")
	}
	if beta.Then == beta.Else {
		t.Fatal("then/else arms must be distinct deltas")
	}
	thenDelta := table.Deltas[beta.Then]
	if len(thenDelta) != 1 || thenDelta[0].Kind != ELiteral || thenDelta[0].Value.Int != 2 {
		t.Fatalf("unexpected then-arm delta: %+v", thenDelta)
	}
}

func TestTauCarriesArity(t *testing.T) {
	table, root := compile(t, "1, 2, 3")
	rootDelta := table.Deltas[root]
	last := rootDelta[len(rootDelta)-1]
	if last.Kind != ETau || last.N != 3 {
		t.Fatalf("expected trailing tau N=3, got %+v", last)
	}
}

func TestGammaIsPostOrder(t *testing.T) {
	table, root := compile(t, "Print 1")
	rootDelta := table.Deltas[root]
	if len(rootDelta) != 3 {
		t.Fatalf("expected [ident, literal, gamma], got %+v", rootDelta)
	}
	if rootDelta[0].Kind != EIdent || rootDelta[1].Kind != ELiteral || rootDelta[2].Kind != EGamma {
		t.Fatalf("unexpected element order: %+v", rootDelta)
	}
}
