// Package runtime implements the environment-frame arena of spec.md §3: a
// growable, index-addressed vector of frames, each holding a
// name-to-value map and a parent index. Frame 0 is the primordial frame
// and holds the fixed built-ins.
//
// This follows the teacher's runtime package (memframe.go/symtable.go): a
// stack of named scopes, each backed by a map-based symbol table. The RPAL
// CSE machine does not need a *stack* of frames (closures can reference an
// arbitrary ancestor, long after the frame that created them has been
// popped from any call stack), so frames live in an arena instead of a
// push/pop stack — spec.md §9 calls this out explicitly ("allocating
// frames into a growable vector and referring to them by index avoids
// ownership cycles"). The arena is backed by gods' arraylist, exercising
// the same library the teacher uses (for different data, in lr/tables.go)
// for its own growable collections.
package runtime

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/schuko/tracing"

	"github.com/rpal-lang/rpal/value"
)

func tracer() tracing.Trace {
	return tracing.Select("rpal.runtime")
}

// Frame is one scope of name-to-value bindings (spec.md §3 "Environment
// Frame"). Parent is -1 only for frame 0.
type Frame struct {
	Index   int
	Parent  int
	Primordial bool
	bindings map[string]value.Value
}

// Arena owns all frames created during a run, addressed by index in
// creation order starting at 0. Frames are appended, never removed: the
// CSE machine retains every frame for the duration of the run (spec.md §5,
// "a simple retention strategy: keep all frames alive for the duration of
// the run").
type Arena struct {
	frames *arraylist.List
	seq    indexSeq
}

// indexSeq is a fresh-index generator, adapted from the teacher's
// terex/fp.IntSeq/N() infinite-sequence generator: here it allocates
// frame indices instead of an abstract sequence of naturals.
type indexSeq struct {
	next int
}

func (s *indexSeq) take() int {
	n := s.next
	s.next++
	return n
}

// NewArena creates an arena with frame 0 (the primordial frame) already
// allocated, empty of bindings.
func NewArena() *Arena {
	a := &Arena{frames: arraylist.New()}
	root := &Frame{Index: 0, Parent: -1, Primordial: true, bindings: map[string]value.Value{}}
	a.frames.Add(root)
	a.seq.take() // reserve index 0
	return a
}

// Root returns frame 0.
func (a *Arena) Root() *Frame {
	return a.Get(0)
}

// Get returns the frame at index i. Panics on an out-of-range index, which
// would indicate an implementation bug (a dangling frame reference), not a
// user-facing runtime error.
func (a *Arena) Get(i int) *Frame {
	f, found := a.frames.Get(i)
	if !found {
		panic(fmt.Sprintf("runtime: no such frame %d", i))
	}
	return f.(*Frame)
}

// New allocates a fresh child frame of parent, returning its index.
func (a *Arena) New(parent int) int {
	idx := a.seq.take()
	f := &Frame{Index: idx, Parent: parent, bindings: map[string]value.Value{}}
	a.frames.Add(f)
	tracer().Debugf("new frame %d, parent %d", idx, parent)
	return idx
}

// Define binds name to v in frame f, replacing any earlier binding of name
// in f. The CSE machine calls it when a closure is applied; the built-in
// installer and cse.Session.Define also call it on frame 0.
func (f *Frame) Define(name string, v value.Value) {
	f.bindings[name] = v
}

// Resolve walks the parent chain starting at frame f looking for name,
// per spec.md §4.5 rule 1 ("Resolve I by walking the frame chain from the
// current frame").
func (a *Arena) Resolve(from int, name string) (value.Value, bool) {
	f := a.Get(from)
	for {
		if v, ok := f.bindings[name]; ok {
			return v, true
		}
		if f.Parent < 0 {
			return value.Value{}, false
		}
		f = a.Get(f.Parent)
	}
}

// Len returns the number of frames allocated so far (for diagnostics/tests).
func (a *Arena) Len() int {
	return a.frames.Size()
}
