// Package flatten implements the control flattener of spec.md §4.4: it
// compiles a standardized tree into a table of linear control sequences
// ("deltas") indexed by a dense integer, pre-expanding lambda bodies and
// conditional arms so the CSE machine never walks the tree directly.
//
// Grounded on the teacher's delta-table idiom in lr/slr and lr/lalr1
// (tables.go builds dense integer-indexed action/goto tables from a
// grammar in one pass, looked up by index at run time rather than
// re-derived); the same shape here, over AST bodies instead of grammar
// productions.
package flatten

import (
	"fmt"
	"strconv"

	"github.com/rpal-lang/rpal/ast"
	"github.com/rpal-lang/rpal/diag"
	"github.com/rpal-lang/rpal/value"
)

// ElemKind classifies one control element (spec.md §3 "Control Element").
type ElemKind int

const (
	EIdent ElemKind = iota
	ELiteral
	ELambda
	EGamma
	EBeta
	ETau
	EBinOp
	EUnOp
)

// Elem is one entry of a delta. Which fields are meaningful depends on
// Kind; see the comment on each field.
type Elem struct {
	Kind ElemKind

	Name string // EIdent

	Value value.Value // ELiteral

	Binder *ast.Node // ELambda: binder-spec, copied verbatim from the tree
	Body   int        // ELambda: delta index of the lambda's compiled body

	Then int // EBeta: delta index of the 'then' arm
	Else int // EBeta: delta index of the 'else' arm

	N int // ETau: tuple arity

	Op ast.Kind // EBinOp / EUnOp: which operator
}

// Table is the flattener's output: an indexed array of deltas. Delta 0 is
// always the whole program body (spec.md §4.4 rule 1).
type Table struct {
	Deltas [][]Elem
}

func (t *Table) alloc() int {
	t.Deltas = append(t.Deltas, nil)
	return len(t.Deltas) - 1
}

// Root compiles a standardized tree into a Table and returns it together
// with the index of the root delta (always 0). An error here means either
// an integer literal that does not fit in an int64, or a node that
// standardize.Tree did not reduce to the core shapes this package knows
// how to flatten — the latter unreachable given a correct parser and
// standardizer, per spec.md §7's "should be unreachable... signals an
// implementation bug".
func Root(tree *ast.Node) (table *Table, root int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if de, ok := r.(*diag.Error); ok {
				err = de
				return
			}
			panic(r)
		}
	}()
	t := &Table{}
	root = t.alloc()
	t.compile(tree, root)
	return t, root, nil
}

func (t *Table) compile(n *ast.Node, deltaIdx int) {
	var out []Elem
	t.emit(n, &out)
	t.Deltas[deltaIdx] = out
}

func (t *Table) emit(n *ast.Node, out *[]Elem) {
	switch n.Kind {
	case ast.KLambda:
		body := t.alloc()
		t.compile(n.Children[1], body)
		*out = append(*out, Elem{Kind: ELambda, Binder: n.Children[0], Body: body})

	case ast.KArrow:
		t.emit(n.Children[0], out) // guard, inline
		then := t.alloc()
		t.compile(n.Children[1], then)
		els := t.alloc()
		t.compile(n.Children[2], els)
		*out = append(*out, Elem{Kind: EBeta, Then: then, Else: els})

	case ast.KTau:
		for _, c := range n.Children {
			t.emit(c, out)
		}
		*out = append(*out, Elem{Kind: ETau, N: len(n.Children)})

	case ast.KGamma:
		t.emit(n.Children[0], out)
		t.emit(n.Children[1], out)
		*out = append(*out, Elem{Kind: EGamma})

	case ast.KIdent:
		*out = append(*out, Elem{Kind: EIdent, Name: n.Lexeme})

	case ast.KInt:
		i, err := strconv.ParseInt(n.Lexeme, 10, 64)
		if err != nil {
			panic(&diag.Error{Kind: diag.Standardization, Message: "malformed integer literal", Offending: n.Lexeme})
		}
		*out = append(*out, Elem{Kind: ELiteral, Value: value.Int(i)})

	case ast.KStr:
		*out = append(*out, Elem{Kind: ELiteral, Value: value.Str(n.Lexeme)})

	case ast.KTrue:
		*out = append(*out, Elem{Kind: ELiteral, Value: value.Bool(true)})

	case ast.KFalse:
		*out = append(*out, Elem{Kind: ELiteral, Value: value.Bool(false)})

	case ast.KNil:
		*out = append(*out, Elem{Kind: ELiteral, Value: value.Nil})

	case ast.KDummy:
		*out = append(*out, Elem{Kind: ELiteral, Value: value.Dummy})

	case ast.KYStar:
		*out = append(*out, Elem{Kind: ELiteral, Value: value.YStar})

	case ast.KNot:
		t.emit(n.Children[0], out)
		*out = append(*out, Elem{Kind: EUnOp, Op: ast.KNot})

	case ast.KOr, ast.KAmp, ast.KGr, ast.KGe, ast.KLs, ast.KLe, ast.KEq, ast.KNe,
		ast.KAdd, ast.KSub, ast.KMul, ast.KDiv, ast.KPow, ast.KAug:
		t.emit(n.Children[0], out)
		t.emit(n.Children[1], out)
		*out = append(*out, Elem{Kind: EBinOp, Op: n.Kind})

	default:
		panic(&diag.Error{
			Kind:    diag.Standardization,
			Message: fmt.Sprintf("unexpected node kind %s in standardized tree", n.Kind),
		})
	}
}
