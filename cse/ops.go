package cse

import (
	"github.com/rpal-lang/rpal/ast"
	"github.com/rpal-lang/rpal/diag"
	"github.com/rpal-lang/rpal/value"
)

// binOp implements spec.md §4.5.2's operator semantics for the binary
// operator markers the flattener emits. Operands are popped rhs-then-lhs
// (rhs was evaluated, and therefore pushed, last).
func (m *machine) binOp(op ast.Kind) {
	rhs := m.stack.popValue()
	lhs := m.stack.popValue()

	switch op {
	case ast.KOr:
		m.stack.pushValue(value.Bool(requireBool(lhs) || requireBool(rhs)))
	case ast.KAmp:
		m.stack.pushValue(value.Bool(requireBool(lhs) && requireBool(rhs)))

	case ast.KGr:
		m.stack.pushValue(value.Bool(compareOrdered(lhs, rhs) > 0))
	case ast.KGe:
		m.stack.pushValue(value.Bool(compareOrdered(lhs, rhs) >= 0))
	case ast.KLs:
		m.stack.pushValue(value.Bool(compareOrdered(lhs, rhs) < 0))
	case ast.KLe:
		m.stack.pushValue(value.Bool(compareOrdered(lhs, rhs) <= 0))

	case ast.KEq:
		m.stack.pushValue(value.Bool(equalValues(lhs, rhs)))
	case ast.KNe:
		m.stack.pushValue(value.Bool(!equalValues(lhs, rhs)))

	case ast.KAdd:
		m.stack.pushValue(value.Int(requireInt(lhs) + requireInt(rhs)))
	case ast.KSub:
		m.stack.pushValue(value.Int(requireInt(lhs) - requireInt(rhs)))
	case ast.KMul:
		m.stack.pushValue(value.Int(requireInt(lhs) * requireInt(rhs)))
	case ast.KDiv:
		divisor := requireInt(rhs)
		if divisor == 0 {
			panic(&diag.Error{Kind: diag.Runtime, Message: "division by zero"})
		}
		m.stack.pushValue(value.Int(requireInt(lhs) / divisor)) // Go truncates toward zero
	case ast.KPow:
		m.stack.pushValue(value.Int(intPow(requireInt(lhs), requireInt(rhs))))

	case ast.KAug:
		if !lhs.IsTuple() {
			panic(&diag.Error{Kind: diag.Runtime, Message: "aug requires a tuple on the left", Offending: lhs.String()})
		}
		augmented := append(append([]value.Value{}, lhs.Tuple...), rhs)
		m.stack.pushValue(value.Tuple(augmented))

	default:
		panic(&diag.Error{Kind: diag.Runtime, Message: "unsupported binary operator " + op.String()})
	}
}

func (m *machine) unOp(op ast.Kind) {
	v := m.stack.popValue()
	switch op {
	case ast.KNot:
		m.stack.pushValue(value.Bool(!requireBool(v)))
	default:
		panic(&diag.Error{Kind: diag.Runtime, Message: "unsupported unary operator " + op.String()})
	}
}

func requireBool(v value.Value) bool {
	if !v.IsTruthValue() {
		panic(&diag.Error{Kind: diag.Runtime, Message: "expected a truth value", Offending: v.String()})
	}
	return v.Bool
}

func requireInt(v value.Value) int64 {
	if !v.IsInteger() {
		panic(&diag.Error{Kind: diag.Runtime, Message: "expected an integer", Offending: v.String()})
	}
	return v.Int
}

// compareOrdered orders two integers or two strings; mismatched or
// unordered kinds are a type error (spec.md §4.5.2 "require both sides
// of matching type").
func compareOrdered(lhs, rhs value.Value) int {
	switch {
	case lhs.IsInteger() && rhs.IsInteger():
		switch {
		case lhs.Int < rhs.Int:
			return -1
		case lhs.Int > rhs.Int:
			return 1
		default:
			return 0
		}
	case lhs.IsString() && rhs.IsString():
		switch {
		case lhs.Str < rhs.Str:
			return -1
		case lhs.Str > rhs.Str:
			return 1
		default:
			return 0
		}
	}
	panic(&diag.Error{Kind: diag.Runtime, Message: "relational operator requires two integers or two strings"})
}

// equalValues implements eq/ne: total across any two values of the same
// kind, false across mismatched kinds (spec.md leaves "mismatched
// type" coercion an open question; this reimplementation fails closed
// for ordering but treats equality as total, matching how Isfunction
// and friends are themselves total predicates).
func equalValues(lhs, rhs value.Value) bool {
	if lhs.Kind != rhs.Kind {
		return false
	}
	switch lhs.Kind {
	case value.IntKind:
		return lhs.Int == rhs.Int
	case value.StringKind:
		return lhs.Str == rhs.Str
	case value.BoolKind:
		return lhs.Bool == rhs.Bool
	case value.NilKind, value.DummyKind, value.YStarKind:
		return true
	case value.TupleKind:
		if len(lhs.Tuple) != len(rhs.Tuple) {
			return false
		}
		for i := range lhs.Tuple {
			if !equalValues(lhs.Tuple[i], rhs.Tuple[i]) {
				return false
			}
		}
		return true
	}
	return false // closures and built-ins have no useful identity to compare
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		panic(&diag.Error{Kind: diag.Runtime, Message: "negative exponent"})
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}
