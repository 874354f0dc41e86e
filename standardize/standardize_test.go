package standardize

import (
	"testing"

	"github.com/rpal-lang/rpal/ast"
)

func mustParse(t *testing.T, src string) *ast.Node {
	t.Helper()
	n, err := ast.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return n
}

func TestLetBecomesGammaLambda(t *testing.T) {
	n := mustParse(t, "let x = 1 in x")
	n = Tree(n)
	if n.Kind != ast.KGamma {
		t.Fatalf("expected gamma at root, got %s", n.Kind)
	}
	lambda := n.Children[0]
	if lambda.Kind != ast.KLambda {
		t.Fatalf("expected lambda rator, got %s", lambda.Kind)
	}
	if lambda.Children[0].Kind != ast.KIdent || lambda.Children[0].Lexeme != "x" {
		t.Fatalf("expected binder x, got %v", lambda.Children[0])
	}
	if n.Children[1].Kind != ast.KInt {
		t.Fatalf("expected integer literal rand, got %s", n.Children[1].Kind)
	}
}

func TestWhereIsLetInReverse(t *testing.T) {
	a := Tree(mustParse(t, "let x = 1 in x"))
	b := Tree(mustParse(t, "x where x = 1"))
	if a.Kind != b.Kind || a.Children[0].Kind != b.Children[0].Kind {
		t.Fatalf("let and where did not standardize to the same shape")
	}
}

func TestFunctionFormCurries(t *testing.T) {
	n := Tree(mustParse(t, "let f x y = x in f 1 2"))
	lambda := n.Children[0]
	fnLambda := lambda.Children[1] // the let's body, f 1 2; f's value is the outer gamma's rand
	_ = fnLambda
	// f's definition value is gamma's rand: gamma(lambda(f, body), lambda(x, lambda(y, x)))
	value := n.Children[1]
	if value.Kind != ast.KLambda {
		t.Fatalf("expected function_form to curry into nested lambdas, got %s", value.Kind)
	}
	inner := value.Children[1]
	if inner.Kind != ast.KLambda {
		t.Fatalf("expected two levels of currying, got %s", inner.Kind)
	}
}

func TestRecInsertsYStar(t *testing.T) {
	n := Tree(mustParse(t, "let rec f x = x in f 1"))
	value := n.Children[1] // rhs of the (now-gamma'd) let binding
	if value.Kind != ast.KGamma {
		t.Fatalf("expected rec to rewrite to gamma(Y*, lambda(...)), got %s", value.Kind)
	}
	if value.Children[0].Kind != ast.KYStar {
		t.Fatalf("expected Y* marker, got %s", value.Children[0].Kind)
	}
}

func TestAndProducesTauBinderAndTauValue(t *testing.T) {
	n := Tree(mustParse(t, "let a = 1 and b = 2 in a"))
	binder := n.Children[0].Children[0]
	value := n.Children[1]
	if binder.Kind != ast.KComma {
		t.Fatalf("expected comma tau-binder, got %s", binder.Kind)
	}
	if value.Kind != ast.KTau {
		t.Fatalf("expected tau value, got %s", value.Kind)
	}
	if len(binder.Children) != 2 || len(value.Children) != 2 {
		t.Fatalf("expected arity 2 on both sides of the 'and', got %d/%d", len(binder.Children), len(value.Children))
	}
}

func TestWithinChainsTwoDefinitions(t *testing.T) {
	n := Tree(mustParse(t, "let a = 1 within b = a in b"))
	if n.Kind != ast.KGamma {
		t.Fatalf("expected outer gamma, got %s", n.Kind)
	}
	value := n.Children[1]
	if value.Kind != ast.KGamma {
		t.Fatalf("expected within to rewrite its value to a nested gamma, got %s", value.Kind)
	}
}

func TestAtRewritesToNestedGamma(t *testing.T) {
	n := Tree(mustParse(t, "x @ f y"))
	if n.Kind != ast.KGamma {
		t.Fatalf("expected gamma at root for infix application, got %s", n.Kind)
	}
	inner := n.Children[0]
	if inner.Kind != ast.KGamma {
		t.Fatalf("expected gamma(gamma(f, x), y) shape, got %s", inner.Kind)
	}
}

func TestUnaryMinusLowersToNegGamma(t *testing.T) {
	n := Tree(mustParse(t, "-1"))
	if n.Kind != ast.KGamma {
		t.Fatalf("expected neg to lower to gamma(Neg, E), got %s", n.Kind)
	}
	if n.Children[0].Kind != ast.KIdent || n.Children[0].Lexeme != "Neg" {
		t.Fatalf("expected Neg identifier rator, got %v", n.Children[0])
	}
}

func TestIdempotence(t *testing.T) {
	n := mustParse(t, "let rec fact n = n eq 0 -> 1 | n * fact (n - 1) in Print (fact 5)")
	first := Tree(n)
	dump1 := first.Dump(".")
	second := Tree(first)
	dump2 := second.Dump(".")
	if dump1 != dump2 {
		t.Fatalf("standardizing twice changed the tree:\n%s\nvs\n%s", dump1, dump2)
	}
}
