// Package value implements the tagged value union of spec.md §3: integers,
// strings, truth values, nil (the empty tuple), dummy, tuples, closures,
// built-ins and the Y* fixed-point marker.
//
// The design follows the teacher's terex.Atom: a small Kind tag plus one
// typed payload field per variant, with constructors and type predicates rather than a
// Go interface hierarchy — appropriate here too, since the CSE machine
// needs to type-switch on value kind constantly (gamma dispatch, operator
// semantics) and a closed tagged union makes that a flat switch instead of
// a type assertion chain scattered across call sites.
package value

import "fmt"

// Kind identifies which variant of Value is populated.
type Kind int

//go:generate stringer -type Kind

const (
	NilKind Kind = iota
	IntKind
	StringKind
	BoolKind
	DummyKind
	TupleKind
	ClosureKind
	BuiltinKind
	YStarKind
)

// BinderKind classifies the binder-spec of a lambda (spec.md §3).
type BinderKind int

const (
	// SingleBinder binds one identifier directly.
	SingleBinder BinderKind = iota
	// EmptyBinder is the "()" binder: the argument must be Nil and
	// nothing is bound.
	EmptyBinder
	// TupleBinder destructures a tuple argument into several names.
	TupleBinder
)

// Binder is the binder-spec carried by a closure.
type Binder struct {
	Kind  BinderKind
	Names []string // one name for SingleBinder, k names for TupleBinder, none for EmptyBinder
}

func (b Binder) String() string {
	switch b.Kind {
	case EmptyBinder:
		return "()"
	case TupleBinder:
		return "(" + joinNames(b.Names) + ")"
	default:
		if len(b.Names) == 0 {
			return "()"
		}
		return b.Names[0]
	}
}

func joinNames(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s
}

// Closure is a lambda paired with the frame index it was created in and a
// reference to its compiled body (a delta index, resolved by the flatten
// package's table). Per spec.md §3.
type Closure struct {
	Frame  int
	Binder Binder
	Body   int // delta index
	// YTied marks an "eta-closure" produced by applying Y* to a closure
	// (spec.md §4.5 rule 4, the Y* gamma case). When a YTied closure is
	// itself applied to an argument, the CSE machine rebinds the closure
	// to its own name before proceeding — see cse.applyYTied.
	YTied bool
	// SelfName is the bound variable name the Y-tied closure rebinds
	// itself under, i.e. the X in "rec X = E".
	SelfName string
}

// Builtin is a reference to one of the fixed primitives of spec.md §4.5.1,
// possibly partially applied (curried).
type Builtin struct {
	Name string
	// Bound holds an already-supplied first argument for curried
	// built-ins such as Conc; nil if none has been supplied yet.
	Bound *Value
}

// Value is the tagged union. Zero value is Nil (the empty tuple), matching
// spec.md's statement that nil is "the empty tuple".
type Value struct {
	Kind    Kind
	Int     int64
	Str     string
	Bool    bool
	Tuple   []Value
	Closure *Closure
	Builtin *Builtin
}

// Nil is the empty tuple.
var Nil = Value{Kind: NilKind}

// Dummy is the distinct unit-like marker of the recursion protocol.
var Dummy = Value{Kind: DummyKind}

// YStar is the fixed-point combinator marker, produced only by the `rec`
// standardization rewrite.
var YStar = Value{Kind: YStarKind}

func Int(n int64) Value    { return Value{Kind: IntKind, Int: n} }
func Str(s string) Value   { return Value{Kind: StringKind, Str: s} }
func Bool(b bool) Value    { return Value{Kind: BoolKind, Bool: b} }
func Tuple(vs []Value) Value {
	if len(vs) == 0 {
		return Nil
	}
	return Value{Kind: TupleKind, Tuple: vs}
}

func FromClosure(c *Closure) Value   { return Value{Kind: ClosureKind, Closure: c} }
func FromBuiltin(b *Builtin) Value   { return Value{Kind: BuiltinKind, Builtin: b} }

func (v Value) IsNil() bool      { return v.Kind == NilKind }
func (v Value) IsDummy() bool    { return v.Kind == DummyKind }
func (v Value) IsInteger() bool  { return v.Kind == IntKind }
func (v Value) IsString() bool   { return v.Kind == StringKind }
func (v Value) IsTuple() bool    { return v.Kind == TupleKind || v.Kind == NilKind }
func (v Value) IsTruthValue() bool { return v.Kind == BoolKind }
func (v Value) IsFunction() bool {
	return v.Kind == ClosureKind || v.Kind == BuiltinKind || v.Kind == YStarKind
}

// Arity returns a tuple's arity (0 for Nil, per spec.md §4.5.1 Order).
func (v Value) Arity() int {
	if v.Kind == NilKind {
		return 0
	}
	return len(v.Tuple)
}

// Nth returns the 1-indexed i-th component of a tuple (spec.md §3, §4.5
// rule 4 "Tuple" case).
func (v Value) Nth(i int) (Value, bool) {
	if i < 1 || i > v.Arity() {
		return Value{}, false
	}
	return v.Tuple[i-1], true
}

func (v Value) String() string {
	switch v.Kind {
	case NilKind:
		return "nil"
	case IntKind:
		return fmt.Sprintf("%d", v.Int)
	case StringKind:
		return v.Str
	case BoolKind:
		if v.Bool {
			return "true"
		}
		return "false"
	case DummyKind:
		return "dummy"
	case TupleKind:
		s := "("
		for i, e := range v.Tuple {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	case ClosureKind:
		return fmt.Sprintf("[lambda closure: %s: %d]", v.Closure.Binder, v.Closure.Body)
	case BuiltinKind:
		return fmt.Sprintf("[builtin: %s]", v.Builtin.Name)
	case YStarKind:
		return "[Y*]"
	}
	return "<?value?>"
}
