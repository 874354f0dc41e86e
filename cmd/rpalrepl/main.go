/*
Command rpalrepl is the interactive front end of SPEC_FULL.md §D.2: a
chzyer/readline prompt that parses, standardizes, flattens and runs one
RPAL expression per line against a persistent top-level frame, so that a
binding made on one line stays visible on the next.

	rpal> let square x = x * x in square 5
	25
	rpal> square = fn x. x * x
	rpal> answer = square 6
	rpal> answer + 1
	37

Besides plain expressions, three colon-commands are understood:

	:ast  <expr>   show the parse tree before standardization
	:st   <expr>   show the tree after standardization
	:load <file>   read and evaluate a file's top-level bindings

A line of the form "name = expr" (the text before its first "=" is a
single identifier) binds name directly into the session's frame 0;
bindings made inside a "let" or "where" do not outlive their line. This is the
front end's only extension to RPAL's own grammar, needed because RPAL
itself has no notion of a top-level definition outside "in"/"where".

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"

	"github.com/rpal-lang/rpal/ast"
	"github.com/rpal-lang/rpal/cse"
	"github.com/rpal-lang/rpal/flatten"
	"github.com/rpal-lang/rpal/rpalfmt"
	"github.com/rpal-lang/rpal/standardize"
	"github.com/rpal-lang/rpal/value"
)

func tracer() tracing.Trace {
	return tracing.Select("rpal.repl")
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "trace level [Debug|Info|Error]")
	loadf := flag.String("load", "", "file to evaluate before entering interactive mode")
	flag.Parse()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))
	pterm.Info.Println("Welcome to rpalrepl. Quit with <ctrl>D.")

	repl, err := readline.New("rpal> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()

	intp := &Intp{session: cse.NewSession(), repl: repl}
	if *loadf != "" {
		intp.loadFile(*loadf)
	}
	intp.run()
}

// We use pterm for moderately fancy output, the same prefixes the
// teacher's own trepl configures.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp holds the state carried from one line of input to the next: the
// persistent evaluation session and the readline front end.
type Intp struct {
	session *cse.Session
	repl    *readline.Instance
}

func (intp *Intp) loadFile(filename string) {
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("unable to open %s: %s", filename, err.Error())
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 1
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			intp.eval(line)
		}
		lineno++
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("reading %s: %s", filename, err.Error())
	}
}

func (intp *Intp) run() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF on <ctrl>D
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		intp.eval(line)
	}
	pterm.Println("Good bye!")
}

func (intp *Intp) eval(line string) {
	switch {
	case strings.HasPrefix(line, ":ast "):
		intp.showTree(strings.TrimPrefix(line, ":ast "), false)
		return
	case strings.HasPrefix(line, ":st "):
		intp.showTree(strings.TrimPrefix(line, ":st "), true)
		return
	case strings.HasPrefix(line, ":load "):
		intp.loadFile(strings.TrimSpace(strings.TrimPrefix(line, ":load ")))
		return
	}

	if name, expr, ok := splitTopLevelDef(line); ok {
		val, err := intp.evalExpr(expr)
		if err != nil {
			pterm.Error.Println(rpalfmt.Diagnostic(err))
			return
		}
		intp.session.Define(name, val)
		return
	}

	val, err := intp.evalExpr(line)
	if err != nil {
		pterm.Error.Println(rpalfmt.Diagnostic(err))
		return
	}
	pterm.Info.Println(val.String())
}

func (intp *Intp) evalExpr(src string) (result value.Value, err error) {
	tree, err := ast.Parse(src)
	if err != nil {
		return value.Value{}, err
	}
	std := standardize.Tree(tree)
	table, root, err := flatten.Root(std)
	if err != nil {
		return value.Value{}, err
	}
	v, err := cse.Run(table, root, cse.WithSession(intp.session))
	if err != nil {
		return value.Value{}, err
	}
	return v, nil
}

func (intp *Intp) showTree(src string, standardized bool) {
	tree, err := ast.Parse(src)
	if err != nil {
		pterm.Error.Println(rpalfmt.Diagnostic(err))
		return
	}
	if standardized {
		tree = standardize.Tree(tree)
	}
	root := treeNodeFrom(tree)
	pterm.DefaultTree.WithRoot(root).Render()
}

// splitTopLevelDef recognizes the front end's one grammar extension:
// "name = expr", accepted when the text before the first "=" is a single
// bare identifier and the text after it is non-empty. RPAL's own grammar
// never produces a bare top-level "=", so a genuine RPAL definition always
// has other text (such as "let") before its first "=".
func splitTopLevelDef(line string) (name, expr string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i <= 0 || (i+1 < len(line) && line[i+1] == '=') {
		return "", "", false
	}
	lhs := strings.TrimSpace(line[:i])
	if !isIdent(lhs) {
		return "", "", false
	}
	rhs := strings.TrimSpace(line[i+1:])
	if rhs == "" {
		return "", "", false
	}
	return lhs, rhs, true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// treeNodeFrom renders a parse tree as a pterm.TreeNode, the same
// leveled-list-to-tree conversion the teacher's trepl.go performs for
// TeREx s-expressions, adapted to walk ast.Node's fixed-arity children
// instead of a homogenous cons list.
func treeNodeFrom(n *ast.Node) pterm.TreeNode {
	node := pterm.TreeNode{Text: nodeLabel(n)}
	for _, c := range n.Children {
		node.Children = append(node.Children, treeNodeFrom(c))
	}
	return node
}

func nodeLabel(n *ast.Node) string {
	dumped := n.Dump("")
	if idx := strings.IndexByte(dumped, '\n'); idx >= 0 {
		return dumped[:idx]
	}
	return fmt.Sprintf("%s", dumped)
}
