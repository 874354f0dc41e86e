package cse

import (
	"strconv"

	"github.com/rpal-lang/rpal/diag"
	"github.com/rpal-lang/rpal/runtime"
	"github.com/rpal-lang/rpal/value"
)

// builtinNames are the fixed primitives of spec.md §4.5.1, plus Neg and
// Aug (supplemental named builtins backing the 'neg' and 'aug'
// operators, exposed as ordinary identifiers so Isfunction and partial
// application behave consistently whether a program reaches them via
// operator syntax or by name).
var builtinNames = []string{
	"Print", "Conc", "Stem", "Stern", "Order", "Null",
	"Isinteger", "Isstring", "Istuple", "Isdummy", "Istruthvalue", "Isfunction",
	"ItoS", "Neg", "Aug",
}

func installBuiltins(arena *runtime.Arena) {
	root := arena.Root()
	for _, name := range builtinNames {
		root.Define(name, value.FromBuiltin(&value.Builtin{Name: name}))
	}
}

// applyBuiltin applies a (possibly partially-applied) built-in to one
// more argument, per spec.md §4.5.1. Print is handled by
// (*machine).applyBuiltinValue instead, since it needs access to the
// machine's configured output.
func applyBuiltin(b *value.Builtin, rand value.Value) value.Value {
	switch b.Name {
	case "Conc":
		return conc(b, rand)
	case "Stem":
		return stem(rand)
	case "Stern":
		return stern(rand)
	case "Order":
		if !rand.IsTuple() {
			panic(&diag.Error{Kind: diag.Runtime, Message: "Order requires a tuple", Offending: rand.String()})
		}
		return value.Int(int64(rand.Arity()))
	case "Null":
		return value.Bool(rand.IsNil())
	case "Isinteger":
		return value.Bool(rand.IsInteger())
	case "Isstring":
		return value.Bool(rand.IsString())
	case "Istuple":
		return value.Bool(rand.IsTuple())
	case "Isdummy":
		return value.Bool(rand.IsDummy())
	case "Istruthvalue":
		return value.Bool(rand.IsTruthValue())
	case "Isfunction":
		return value.Bool(rand.IsFunction())
	case "ItoS":
		if !rand.IsInteger() {
			panic(&diag.Error{Kind: diag.Runtime, Message: "ItoS requires an integer", Offending: rand.String()})
		}
		return value.Str(strconv.FormatInt(rand.Int, 10))
	case "Neg":
		if !rand.IsInteger() {
			panic(&diag.Error{Kind: diag.Runtime, Message: "Neg requires an integer", Offending: rand.String()})
		}
		return value.Int(-rand.Int)
	case "Aug":
		return aug(b, rand)
	}
	panic("cse: unknown builtin " + b.Name)
}

func conc(b *value.Builtin, rand value.Value) value.Value {
	if b.Bound == nil {
		bound := rand
		return value.FromBuiltin(&value.Builtin{Name: "Conc", Bound: &bound})
	}
	if !b.Bound.IsString() || !rand.IsString() {
		panic(&diag.Error{Kind: diag.Runtime, Message: "Conc requires two strings"})
	}
	return value.Str(b.Bound.Str + rand.Str)
}

func aug(b *value.Builtin, rand value.Value) value.Value {
	if b.Bound == nil {
		bound := rand
		return value.FromBuiltin(&value.Builtin{Name: "Aug", Bound: &bound})
	}
	if !b.Bound.IsTuple() {
		panic(&diag.Error{Kind: diag.Runtime, Message: "Aug requires a tuple as its first argument", Offending: b.Bound.String()})
	}
	return value.Tuple(append(append([]value.Value{}, b.Bound.Tuple...), rand))
}

func stem(rand value.Value) value.Value {
	if !rand.IsString() || len(rand.Str) == 0 {
		panic(&diag.Error{Kind: diag.Runtime, Message: "Stem requires a non-empty string", Offending: rand.String()})
	}
	r := []rune(rand.Str)
	return value.Str(string(r[0]))
}

func stern(rand value.Value) value.Value {
	if !rand.IsString() || len(rand.Str) == 0 {
		panic(&diag.Error{Kind: diag.Runtime, Message: "Stern requires a non-empty string", Offending: rand.String()})
	}
	r := []rune(rand.Str)
	return value.Str(string(r[1:]))
}
