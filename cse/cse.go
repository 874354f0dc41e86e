// Package cse implements the Control-Stack-Environment machine of
// spec.md §4.5: a stack-based evaluator over the delta table produced by
// package flatten, managing environment frames from package runtime.
//
// Grounded on the teacher's own stack-machine idiom (lr/glr/gss.go and
// lr/earley/earley.go both drive a parse by popping/pushing typed stack
// frames under a dispatch switch on element kind) generalized from
// parsing actions to CSE machine rules. The Control and Stack themselves
// are backed by github.com/emirpasic/gods/stacks/arraystack, the same
// stack collection the teacher uses in lr/slr and lr/lalr1 for parser
// stacks.
//
// Control is modeled as a stack of *callFrame rather than a single flat
// stack of control elements: spec.md §4.5 rule 10 notes "exact placement
// of enter/exit markers is an implementation choice" provided a gamma
// into a closure resumes the caller's frame once the callee's delta is
// exhausted. A stack of call frames, each owning its own cursor into one
// compiled delta, makes that resumption structural instead of requiring
// sentinel markers threaded through a single sequence.
package cse

import (
	"fmt"
	"io"
	"os"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/schuko/tracing"

	"github.com/rpal-lang/rpal/ast"
	"github.com/rpal-lang/rpal/diag"
	"github.com/rpal-lang/rpal/flatten"
	"github.com/rpal-lang/rpal/runtime"
	"github.com/rpal-lang/rpal/value"
)

func tracer() tracing.Trace {
	return tracing.Select("rpal.cse")
}

// callFrame is one entry of Control: a cursor into a single compiled
// delta, plus what to do with the environment once the delta is
// exhausted.
type callFrame struct {
	elems []flatten.Elem
	pos   int

	// hasRestore is true for frames entered via a gamma into a user
	// closure: when this frame's elements run out, the environment must
	// be restored to envToRestore and the matching marker popped from
	// the value stack.
	hasRestore   bool
	envToRestore int

	// onDone runs (if set) once this frame is exhausted and any
	// restore above has completed. Used by the Y* fixed-point protocol
	// to chain "apply the body to itself" into "then apply the result
	// to the real argument" without a second machine invocation.
	onDone func(*machine, *ctrlStack)
}

// ctrlStack is Control (spec.md §3 "Control Element").
type ctrlStack struct {
	s *arraystack.Stack
}

func newCtrlStack() *ctrlStack { return &ctrlStack{s: arraystack.New()} }

func (c *ctrlStack) push(f *callFrame) { c.s.Push(f) }

func (c *ctrlStack) peek() *callFrame {
	v, ok := c.s.Peek()
	if !ok {
		return nil
	}
	return v.(*callFrame)
}

func (c *ctrlStack) pop() *callFrame {
	v, ok := c.s.Pop()
	if !ok {
		return nil
	}
	return v.(*callFrame)
}

// stackItem is one entry of Stack (S): either a value or an environment
// marker recording the frame to restore to once its paired callFrame
// above it is exhausted (spec.md §3 "a stack of values and environment
// markers").
type stackItem struct {
	isMarker bool
	frame    int
	val      value.Value
}

type valStack struct {
	s *arraystack.Stack
}

func newValStack() *valStack { return &valStack{s: arraystack.New()} }

func (v *valStack) pushValue(val value.Value) { v.s.Push(stackItem{val: val}) }
func (v *valStack) pushMarker(frame int)       { v.s.Push(stackItem{isMarker: true, frame: frame}) }

func (v *valStack) pop() stackItem {
	item, ok := v.s.Pop()
	if !ok {
		panic(&diag.Error{Kind: diag.Runtime, Message: "stack underflow"})
	}
	return item.(stackItem)
}

func (v *valStack) popValue() value.Value {
	item := v.pop()
	if item.isMarker {
		panic(&diag.Error{Kind: diag.Runtime, Message: "control exhausted with wrong stack depth"})
	}
	return item.val
}

func (v *valStack) popMarker(want int) {
	item := v.pop()
	if !item.isMarker || item.frame != want {
		panic(&diag.Error{Kind: diag.Runtime, Message: "control exhausted with wrong stack depth"})
	}
}

func (v *valStack) size() int { return v.s.Size() }

// machine holds the mutable state of one run: the environment arena, the
// current environment pointer, the value stack, and the delta table
// being interpreted.
type machine struct {
	table   *flatten.Table
	arena   *runtime.Arena
	env     int
	stack   *valStack
	out     io.Writer
	session bool
}

// Option configures a Run.
type Option func(*machine)

// WithOutput redirects Print's output away from os.Stdout; used by tests.
func WithOutput(w io.Writer) Option {
	return func(m *machine) { m.out = w }
}

// Session is a persistent frame-0 arena reused across repeated Run calls,
// letting top-level bindings from one Run remain visible in the next —
// cmd/rpalrepl's generalization of the batch interpreter to a
// line-oriented front end (one call into the same global frame per line,
// rather than one arena per program run).
type Session struct {
	arena *runtime.Arena
	env   int
}

// NewSession creates a session with the primordial frame's built-ins
// already installed.
func NewSession() *Session {
	a := runtime.NewArena()
	installBuiltins(a)
	return &Session{arena: a, env: 0}
}

// Frame returns the frame index that Define binds new top-level names
// into.
func (s *Session) Frame() int { return s.env }

// Define binds name to v directly in the session's top-level frame,
// without going through a gamma/closure application — how
// cmd/rpalrepl's "name = expr" lines persist a binding across lines.
func (s *Session) Define(name string, v value.Value) {
	s.arena.Get(s.env).Define(name, v)
}

// WithSession runs against s's arena and current frame instead of
// allocating a fresh arena, so bindings made directly into s.Frame()
// between calls are visible to subsequent Run calls.
func WithSession(s *Session) Option {
	return func(m *machine) {
		m.arena = s.arena
		m.env = s.env
		m.session = true
	}
}

// Run interprets the program compiled into table, rooted at root, and
// returns its final value (spec.md §4.5 "Termination").
func Run(table *flatten.Table, root int, opts ...Option) (result value.Value, err error) {
	m := &machine{
		table: table,
		arena: runtime.NewArena(),
		stack: newValStack(),
		out:   os.Stdout,
	}
	for _, opt := range opts {
		opt(m)
	}
	if !m.session {
		installBuiltins(m.arena)
	}

	defer func() {
		if r := recover(); r != nil {
			if de, ok := r.(*diag.Error); ok {
				err = de
				return
			}
			panic(r)
		}
	}()

	ctrl := newCtrlStack()
	ctrl.push(&callFrame{elems: table.Deltas[root]})
	m.run(ctrl)

	if m.stack.size() != 1 {
		panic(&diag.Error{Kind: diag.Runtime, Message: "control exhausted with wrong stack depth"})
	}
	return m.stack.popValue(), nil
}

func (m *machine) run(ctrl *ctrlStack) {
	for {
		top := ctrl.peek()
		if top == nil {
			return
		}
		if top.pos >= len(top.elems) {
			ctrl.pop()
			if top.hasRestore {
				v := m.stack.popValue()
				m.stack.popMarker(top.envToRestore)
				m.stack.pushValue(v)
				m.env = top.envToRestore
			}
			if top.onDone != nil {
				top.onDone(m, ctrl)
			}
			continue
		}
		elem := top.elems[top.pos]
		top.pos++
		m.step(elem, ctrl)
	}
}

func (m *machine) step(elem flatten.Elem, ctrl *ctrlStack) {
	switch elem.Kind {
	case flatten.EIdent:
		v, ok := m.arena.Resolve(m.env, elem.Name)
		if !ok {
			panic(&diag.Error{Kind: diag.Runtime, Message: "unbound identifier", Offending: elem.Name})
		}
		m.stack.pushValue(v)

	case flatten.ELiteral:
		m.stack.pushValue(elem.Value)

	case flatten.ELambda:
		c := &value.Closure{Frame: m.env, Binder: binderFromNode(elem.Binder), Body: elem.Body}
		m.stack.pushValue(value.FromClosure(c))

	case flatten.EGamma:
		// Emission order (flatten.go, case ast.KGamma) evaluates the
		// rator's subtree before the rand's, so the rand — pushed last —
		// is on top.
		rand := m.stack.popValue()
		rator := m.stack.popValue()
		m.apply(rator, rand, ctrl)

	case flatten.EBeta:
		guard := m.stack.popValue()
		if !guard.IsTruthValue() {
			panic(&diag.Error{Kind: diag.Runtime, Message: "conditional guard is not a truth value"})
		}
		target := elem.Else
		if guard.Bool {
			target = elem.Then
		}
		ctrl.push(&callFrame{elems: m.table.Deltas[target]})

	case flatten.ETau:
		vals := make([]value.Value, elem.N)
		for i := elem.N - 1; i >= 0; i-- {
			vals[i] = m.stack.popValue()
		}
		m.stack.pushValue(value.Tuple(vals))

	case flatten.EBinOp:
		m.binOp(elem.Op)

	case flatten.EUnOp:
		m.unOp(elem.Op)

	default:
		panic(fmt.Sprintf("cse: unhandled control element kind %d", elem.Kind))
	}
}

// apply dispatches a gamma (or a synthetic one driven by the Y* protocol)
// on rator's tag, per spec.md §4.5 rule 4.
func (m *machine) apply(rator, rand value.Value, ctrl *ctrlStack) {
	switch rator.Kind {
	case value.ClosureKind:
		m.applyClosure(rator.Closure, rand, ctrl)
	case value.BuiltinKind:
		m.stack.pushValue(m.applyBuiltinValue(rator.Builtin, rand))
	case value.YStarKind:
		m.applyYStar(rand)
	case value.TupleKind, value.NilKind:
		m.applyTupleIndex(rator, rand)
	default:
		panic(&diag.Error{Kind: diag.Runtime, Message: "applied non-function", Offending: rator.String()})
	}
}

func (m *machine) applyClosure(c *value.Closure, rand value.Value, ctrl *ctrlStack) {
	if c.YTied {
		m.applyYTied(c, rand, ctrl)
		return
	}
	newFrame := m.arena.New(c.Frame)
	bindParam(m.arena, newFrame, c.Binder, rand)
	saved := m.env
	m.stack.pushMarker(saved)
	ctrl.push(&callFrame{
		elems:        m.table.Deltas[c.Body],
		hasRestore:   true,
		envToRestore: saved,
	})
	m.env = newFrame
	tracer().Debugf("enter frame %d (from %d)", newFrame, saved)
}

// applyYTied implements spec.md §4.5 rule 4's Y* bullet: rebind the
// closure to its own name, then proceed normally. Concretely, this first
// applies the untied closure to the tied value itself (producing the
// function that the fixed point denotes one unfolding in), then applies
// that result to rand — the "equivalently" phrasing of the same rule.
func (m *machine) applyYTied(tied *value.Closure, rand value.Value, ctrl *ctrlStack) {
	untied := *tied
	untied.YTied = false
	newFrame := m.arena.New(untied.Frame)
	bindParam(m.arena, newFrame, untied.Binder, value.FromClosure(tied))
	saved := m.env
	m.stack.pushMarker(saved)
	ctrl.push(&callFrame{
		elems:        m.table.Deltas[untied.Body],
		hasRestore:   true,
		envToRestore: saved,
		onDone: func(mm *machine, c *ctrlStack) {
			unfolded := mm.stack.popValue()
			mm.apply(unfolded, rand, c)
		},
	})
	m.env = newFrame
}

func (m *machine) applyYStar(rand value.Value) {
	if rand.Kind != value.ClosureKind {
		panic(&diag.Error{Kind: diag.Runtime, Message: "Y* requires a function argument"})
	}
	tied := *rand.Closure
	if tied.Binder.Kind != value.SingleBinder {
		panic(&diag.Error{Kind: diag.Runtime, Message: "recursive definition requires a single bound name"})
	}
	tied.YTied = true
	tied.SelfName = tied.Binder.Names[0]
	m.stack.pushValue(value.FromClosure(&tied))
}

// applyBuiltinValue special-cases Print, which needs the machine's
// configured writer, and otherwise delegates to the pure builtin table.
func (m *machine) applyBuiltinValue(b *value.Builtin, rand value.Value) value.Value {
	if b.Name == "Print" {
		fmt.Fprintln(m.out, rand.String())
		return value.Dummy
	}
	return applyBuiltin(b, rand)
}

func (m *machine) applyTupleIndex(rator, rand value.Value) {
	if !rand.IsInteger() {
		panic(&diag.Error{Kind: diag.Runtime, Message: "tuple index must be an integer"})
	}
	v, ok := rator.Nth(int(rand.Int))
	if !ok {
		panic(&diag.Error{Kind: diag.Runtime, Message: "tuple index out of range", Offending: rand.String()})
	}
	m.stack.pushValue(v)
}

func bindParam(arena *runtime.Arena, frame int, binder value.Binder, rand value.Value) {
	switch binder.Kind {
	case value.SingleBinder:
		arena.Get(frame).Define(binder.Names[0], rand)
	case value.EmptyBinder:
		if !rand.IsNil() {
			panic(&diag.Error{Kind: diag.Runtime, Message: "empty binder applied to a non-nil argument"})
		}
	case value.TupleBinder:
		if rand.Arity() != len(binder.Names) {
			panic(&diag.Error{Kind: diag.Runtime, Message: "tuple binder arity mismatch", Offending: rand.String()})
		}
		for i, name := range binder.Names {
			v, _ := rand.Nth(i + 1)
			arena.Get(frame).Define(name, v)
		}
	}
}

func binderFromNode(n *ast.Node) value.Binder {
	switch n.Kind {
	case ast.KIdent:
		return value.Binder{Kind: value.SingleBinder, Names: []string{n.Lexeme}}
	case ast.KEmptyBinder:
		return value.Binder{Kind: value.EmptyBinder}
	case ast.KComma:
		names := make([]string, len(n.Children))
		for i, c := range n.Children {
			names[i] = c.Lexeme
		}
		return value.Binder{Kind: value.TupleBinder, Names: names}
	}
	panic(fmt.Sprintf("cse: invalid binder node kind %s", n.Kind))
}
