// Package standardize implements the tree rewriter of spec.md §4.3: a
// post-order pass that normalizes let/where/function_form/fn/within/
// and/rec/@ into the five-node standardized core (lambda, gamma, tau,
// Y*, and the '->' conditional, which survives unchanged).
//
// The pass is grounded on the teacher's termr rewrite-table idiom
// (terex/termr/ast.go: a per-grammar-symbol rewrite function invoked
// bottom-up as the parse forest is walked) generalized from terex's
// homogenous GCons shape to ast.Node's fixed-arity shape, and from
// "rewrite during parse" to "rewrite as an explicit second pass" per
// spec.md §2's three-stage pipeline.
package standardize

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/rpal-lang/rpal/ast"
)

func tracer() tracing.Trace {
	return tracing.Select("rpal.standardize")
}

// negBuiltin names the built-in that unary minus lowers to; see Tree's
// KNeg case. aug is not lowered here and stays an operator node.
const negBuiltin = "Neg"

// Tree standardizes n in place and returns it. Calling Tree on an
// already-standardized tree is a no-op (spec.md §8 "Standardization
// idempotence"): the is_standardized flag set by the first pass makes
// the second pass return immediately.
func Tree(n *ast.Node) *ast.Node {
	if n.IsStandardized() {
		return n
	}
	switch n.Kind {
	case ast.KLet:
		binder, value := standardizeDef(n.Children[0])
		body := Tree(n.Children[1])
		lambda := core(ast.KLambda, binder, body)
		n.Replace(core(ast.KGamma, lambda, value))

	case ast.KWhere:
		body := Tree(n.Children[0])
		binder, value := standardizeDef(n.Children[1])
		lambda := core(ast.KLambda, binder, body)
		n.Replace(core(ast.KGamma, lambda, value))

	case ast.KFn:
		last := len(n.Children) - 1
		body := Tree(n.Children[last])
		n.Replace(curry(n.Children[:last], body))

	case ast.KAt:
		e1 := Tree(n.Children[0])
		name := n.Children[1]
		e2 := Tree(n.Children[2])
		inner := core(ast.KGamma, name, e1)
		n.Replace(core(ast.KGamma, inner, e2))

	case ast.KNeg:
		e := Tree(n.Children[0])
		n.Replace(core(ast.KGamma, ast.Leaf(ast.KIdent, negBuiltin), e))

	default:
		// Already a core shape (or a terminal, or an operator application
		// left for the flattener/CSE machine to treat as a built-in): only
		// its children need standardizing.
		for _, c := range n.Children {
			Tree(c)
		}
	}
	tracer().Debugf("standardized %s", n.Kind)
	n.MarkStandardized()
	return n
}

// core builds a node of one of the five post-standardization shapes and
// marks it standardized immediately: it is freshly constructed in
// canonical form and will never need rewriting again.
func core(kind ast.Kind, children ...*ast.Node) *ast.Node {
	c := ast.New(kind, children...)
	c.MarkStandardized()
	return c
}

// curry turns binders V1..Vn and a (standardized) body into
// lambda(V1, lambda(V2, … lambda(Vn, body))), right-associated.
func curry(binders []*ast.Node, body *ast.Node) *ast.Node {
	result := body
	for i := len(binders) - 1; i >= 0; i-- {
		result = core(ast.KLambda, binders[i], result)
	}
	return result
}

// standardizeDef reduces any definition-shaped node (=, function_form,
// within, and, rec) to a canonical (binder, value) pair, per the rewrite
// table of spec.md §4.3. The binder half is never itself an expression
// (an identifier, an empty binder, or a comma-list of identifiers) and
// so is never passed to Tree; the value half always is.
func standardizeDef(n *ast.Node) (binder, value *ast.Node) {
	switch n.Kind {
	case ast.KDef:
		return n.Children[0], Tree(n.Children[1])

	case ast.KFunctionForm:
		f := n.Children[0]
		vbs := n.Children[1 : len(n.Children)-1]
		body := Tree(n.Children[len(n.Children)-1])
		return f, curry(vbs, body)

	case ast.KWithin:
		b1, v1 := standardizeDef(n.Children[0])
		b2, v2 := standardizeDef(n.Children[1])
		lambda := core(ast.KLambda, b1, v2)
		return b2, core(ast.KGamma, lambda, v1)

	case ast.KAndDef:
		binders := make([]*ast.Node, len(n.Children))
		values := make([]*ast.Node, len(n.Children))
		for i, c := range n.Children {
			b, v := standardizeDef(c)
			binders[i] = b
			values[i] = v
		}
		return core(ast.KComma, binders...), core(ast.KTau, values...)

	case ast.KRec:
		b, v := standardizeDef(n.Children[0])
		lambda := core(ast.KLambda, b, v)
		return b, core(ast.KGamma, ast.Leaf(ast.KYStar, ""), lambda)
	}
	panic("standardize: not a definition node: " + n.Kind.String())
}
