// Package ast implements the AST builder of spec.md §4.1–4.2: a
// recursive-descent parser over a fixed, ~40-node alphabet, producing a
// tree with parent pointers and a per-subtree "standardized" flag.
//
// The node representation here is a purpose-built, fixed-arity tree
// rather than the teacher's homogenous Lisp-cons terex.GCons: spec.md §3
// requires "arity of each internal kind matches [a fixed] table", which a
// homogenous cons-list does not model directly (every terex list node has
// the same shape; arity lives in convention, not in the type). What is
// kept from the teacher is the *idiom*: a small tagged-kind type
// (terex.AtomType → ast.Kind), parent-pointer trees, and post-order
// rewriting dispatch (termr's per-grammar-symbol rewriter table is the
// direct ancestor of standardize.Tree's per-Kind rewrite dispatch).
package ast

import (
	"fmt"
	"strings"
)

// Kind is the label of an AST node. The terminal kinds and the internal
// kinds of spec.md §4.2 are both represented here; which is which is
// determined by IsTerminal.
type Kind int

//go:generate stringer -type Kind

const (
	// --- terminals ---
	KIdent Kind = iota
	KInt
	KStr
	KTrue
	KFalse
	KNil
	KDummy
	KYStar // only ever emitted by the standardizer

	// --- internal, pre-standardization ---
	KLet
	KFn
	KWhere
	KTau
	KAug
	KArrow // '->'
	KOr
	KAmp // '&'
	KNot
	KGr
	KGe
	KLs
	KLe
	KEq
	KNe
	KAdd
	KSub
	KMul
	KDiv
	KPow
	KNeg
	KAt // '@'
	KGamma
	KDef // '='
	KFunctionForm
	KAndDef  // 'and' (simultaneous definitions)
	KWithin
	KRec
	KEmptyBinder // '()'
	KComma       // ',' multi-identifier binder list

	// --- internal, standardized-form only ---
	KLambda
)

// arity describes how many children a Kind must have. A negative value
// means "at least that many" (spec.md §3 invariant (i)).
var arity = map[Kind]int{
	KIdent: 0, KInt: 0, KStr: 0, KTrue: 0, KFalse: 0, KNil: 0, KDummy: 0, KYStar: 0,
	KLet: 2, KFn: -2, KWhere: 2, KTau: -1, KAug: 2, KArrow: 3, KOr: 2, KAmp: 2,
	KNot: 1, KGr: 2, KGe: 2, KLs: 2, KLe: 2, KEq: 2, KNe: 2,
	KAdd: 2, KSub: 2, KMul: 2, KDiv: 2, KPow: 2, KNeg: 1, KAt: 3, KGamma: 2,
	KDef: 2, KFunctionForm: -3, KAndDef: -2, KWithin: 2, KRec: 1,
	KEmptyBinder: 0, KComma: -2, KLambda: 2,
}

// Node is a tree node: a label, an ordered list of children, and a parent
// reference (spec.md §3 "AST Node"). Lexeme carries the verbatim lexeme
// for terminal kinds (identifier name, unparsed digit string, unescaped
// string content).
type Node struct {
	Kind     Kind
	Lexeme   string
	Children []*Node
	Parent   *Node

	// standardized records whether the subtree rooted at this node has
	// already been rewritten by package standardize, making repeated
	// standardization idempotent (spec.md §4.3).
standardized bool
}

// New creates a node with the given children, validating arity against
// the fixed table of spec.md §4.2.
func New(kind Kind, children ...*Node) *Node {
	if want, ok := arity[kind]; ok {
		if want >= 0 && len(children) != want {
			panic(fmt.Sprintf("ast: kind %s requires %d children, got %d", kind, want, len(children)))
		}
		if want < 0 && len(children) < -want {
			panic(fmt.Sprintf("ast: kind %s requires at least %d children, got %d", kind, -want, len(children)))
		}
	}
	n := &Node{Kind: kind, Children: children}
	for _, c := range children {
		c.Parent = n
	}
	return n
}

// Leaf creates a terminal node carrying a lexeme.
func Leaf(kind Kind, lexeme string) *Node {
	return &Node{Kind: kind, Lexeme: lexeme}
}

// IsTerminal reports whether n is a leaf kind (zero children by
// construction, per spec.md §3 invariant (ii)).
func (n *Node) IsTerminal() bool {
	switch n.Kind {
	case KIdent, KInt, KStr, KTrue, KFalse, KNil, KDummy, KYStar:
		return true
	}
	return false
}

// IsStandardized reports the standardization flag of spec.md §3.
func (n *Node) IsStandardized() bool { return n.standardized }

// MarkStandardized sets the standardization flag (used by package
// standardize after it rewrites n's subtree).
func (n *Node) MarkStandardized() { n.standardized = true }

// Replace substitutes n's kind/lexeme/children in place with other's,
// keeping n's own identity (and therefore keeping any existing parent
// pointer into n valid). Used by the standardizer, which rewrites nodes
// in place rather than replacing them in their parent's child slice.
func (n *Node) Replace(other *Node) {
	n.Kind = other.Kind
	n.Lexeme = other.Lexeme
	n.Children = other.Children
	for _, c := range n.Children {
		c.Parent = n
	}
	n.standardized = other.standardized
}

func (n *Node) label() string {
	switch n.Kind {
	case KIdent:
		return fmt.Sprintf("<IDENT:%s>", n.Lexeme)
	case KInt:
		return fmt.Sprintf("<INT:%s>", n.Lexeme)
	case KStr:
		return fmt.Sprintf("<STR:%s>", n.Lexeme)
	case KTrue:
		return "<true>"
	case KFalse:
		return "<false>"
	case KNil:
		return "<nil>"
	case KDummy:
		return "<dummy>"
	case KYStar:
		return "<Y*>"
	}
	return n.Kind.String()
}

// Dump renders n as an indented pre-order listing, one label per line,
// each depth indented by a repeated marker string — the format required
// by the CLI's -ast/-st flags (spec.md §6).
func (n *Node) Dump(marker string) string {
	var b strings.Builder
	n.dump(&b, marker, 0)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, marker string, depth int) {
	b.WriteString(strings.Repeat(marker, depth))
	b.WriteString(n.label())
	b.WriteByte('\n')
	for _, c := range n.Children {
		c.dump(b, marker, depth+1)
	}
}
