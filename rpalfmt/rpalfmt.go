// Package rpalfmt owns the small set of output-formatting conventions
// shared by the command-line driver: the indented pre-order tree dump
// required by -ast/-st (spec.md §6), the token-stream listing behind the
// supplemental -tokens flag, and the one-line error format of spec.md §7.
//
// Kept deliberately thin and dependency-free: the CLI's plain-text
// contract output is pinned exactly by spec.md §6 and must not pick up
// pterm's color/box styling. pterm is used only by the callers: cmd/rpal
// prints its error line with pterm.Error, and cmd/rpalrepl styles all of
// its interactive output.
package rpalfmt

import (
	"fmt"
	"strings"

	"github.com/rpal-lang/rpal/ast"
	"github.com/rpal-lang/rpal/diag"
	"github.com/rpal-lang/rpal/token"
)

// TreeMarker is the indentation marker used by -ast/-st: one repeated
// character per depth level, the convention spec.md §6 leaves
// implementation-defined.
const TreeMarker = "."

// Tree renders n as the indented pre-order listing spec.md §6 requires.
func Tree(n *ast.Node) string {
	return n.Dump(TreeMarker)
}

// Tokens renders a token stream one lexeme per line, tagged with its
// kind; used by the -tokens flag.
func Tokens(toks []token.Token) string {
	var b strings.Builder
	for _, t := range toks {
		if t.Kind == token.End {
			continue
		}
		fmt.Fprintf(&b, "%s %q\n", t.Kind, t.Lexeme)
	}
	return b.String()
}

// Diagnostic renders err as the single stderr line spec.md §7 requires:
// "a single diagnostic line identifying the kind and, where available,
// the offending lexeme or identifier name."
func Diagnostic(err error) string {
	if de, ok := err.(*diag.Error); ok {
		return de.Error()
	}
	return err.Error()
}
