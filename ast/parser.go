package ast

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/rpal-lang/rpal/diag"
	"github.com/rpal-lang/rpal/lexer"
	"github.com/rpal-lang/rpal/token"
)

func tracer() tracing.Trace {
	return tracing.Select("rpal.ast")
}

// Parser is a recursive-descent parser with one token of lookahead and no
// backtracking, over the grammar of spec.md §4.1. It maintains no explicit
// operand stack; Go's own call stack plays that role, with each
// production building and returning the node it produces.
type Parser struct {
	toks []token.Token
	pos  int
}

// Parse lexes and parses src, returning the root of the (pre-standardized)
// AST, or a *diag.Error on any lexical or syntactic failure.
func Parse(src string) (node *Node, err error) {
	toks, lexErr := lexer.All(src)
	if lexErr != nil {
		return nil, lexErr
	}
	p := &Parser{toks: toks}
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*diag.Error); ok {
				err = pe
				return
			}
			panic(r) // not one of ours — a genuine implementation bug
		}
	}()
	root := p.parseE()
	p.expectEnd()
	return root, nil
}

// --- token-stream helpers ---------------------------------------------------

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) isKeyword(kw string) bool {
	t := p.cur()
	return t.Kind == token.Keyword && t.Lexeme == kw
}

func (p *Parser) isOp(op string) bool {
	t := p.cur()
	return t.Kind == token.Operator && t.Lexeme == op
}

func (p *Parser) isPunct(p2 string) bool {
	t := p.cur()
	return t.Kind == token.Punctuation && t.Lexeme == p2
}

func (p *Parser) fail(expected string) {
	t := p.cur()
	panic(&diag.Error{
		Kind:      diag.Parse,
		Message:   fmt.Sprintf("expected %s, found %s", expected, t.Kind),
		Offending: t.Lexeme,
	})
}

func (p *Parser) expectKeyword(kw string) {
	if !p.isKeyword(kw) {
		p.fail("'" + kw + "'")
	}
	p.advance()
}

func (p *Parser) expectPunct(s string) {
	if !p.isPunct(s) {
		p.fail("'" + s + "'")
	}
	p.advance()
}

func (p *Parser) expectOp(s string) {
	if !p.isOp(s) {
		p.fail("'" + s + "'")
	}
	p.advance()
}

func (p *Parser) expectIdent() string {
	if p.cur().Kind != token.Identifier {
		p.fail("identifier")
	}
	return p.advance().Lexeme
}

func (p *Parser) expectEnd() {
	if p.cur().Kind != token.End {
		p.fail("end of input")
	}
}

func identNodes(names []string) []*Node {
	ns := make([]*Node, len(names))
	for i, n := range names {
		ns[i] = Leaf(KIdent, n)
	}
	return ns
}

// --- E ----------------------------------------------------------------------

// E → 'let' D 'in' E | 'fn' Vb+ '.' E | Ew
func (p *Parser) parseE() *Node {
	switch {
	case p.isKeyword("let"):
		p.advance()
		d := p.parseD()
		p.expectKeyword("in")
		e := p.parseE()
		return New(KLet, d, e)
	case p.isKeyword("fn"):
		p.advance()
		var vbs []*Node
		for p.canStartVb() {
			vbs = append(vbs, p.parseVb())
		}
		if len(vbs) == 0 {
			p.fail("a binder after 'fn'")
		}
		p.expectPunct(".")
		e := p.parseE()
		return New(KFn, append(vbs, e)...)
	default:
		return p.parseEw()
	}
}

// Ew → T ('where' Dr)?
func (p *Parser) parseEw() *Node {
	t := p.parseT()
	if p.isKeyword("where") {
		p.advance()
		dr := p.parseDr()
		return New(KWhere, t, dr)
	}
	return t
}

// T → Ta (',' Ta)+   (→ tau, N≥2)   |   Ta
func (p *Parser) parseT() *Node {
	ta := p.parseTa()
	if p.isPunct(",") {
		elems := []*Node{ta}
		for p.isPunct(",") {
			p.advance()
			elems = append(elems, p.parseTa())
		}
		return New(KTau, elems...)
	}
	return ta
}

// Ta → Ta 'aug' Tc   (left-assoc)   |   Tc
func (p *Parser) parseTa() *Node {
	left := p.parseTc()
	for p.isKeyword("aug") {
		p.advance()
		right := p.parseTc()
		left = New(KAug, left, right)
	}
	return left
}

// Tc → B ('->' Tc '|' Tc)?
func (p *Parser) parseTc() *Node {
	b := p.parseB()
	if p.isOp("->") {
		p.advance()
		then := p.parseTc()
		p.expectPunct("|")
		els := p.parseTc()
		return New(KArrow, b, then, els)
	}
	return b
}

// B → B 'or' Bt   (left-assoc)   |   Bt
func (p *Parser) parseB() *Node {
	left := p.parseBt()
	for p.isKeyword("or") {
		p.advance()
		right := p.parseBt()
		left = New(KOr, left, right)
	}
	return left
}

// Bt → Bt '&' Bs   |   Bs
func (p *Parser) parseBt() *Node {
	left := p.parseBs()
	for p.isOp("&") {
		p.advance()
		right := p.parseBs()
		left = New(KAmp, left, right)
	}
	return left
}

// Bs → 'not' Bp   |   Bp
func (p *Parser) parseBs() *Node {
	if p.isKeyword("not") {
		p.advance()
		return New(KNot, p.parseBp())
	}
	return p.parseBp()
}

// relOpKind maps a relational lexeme (word or symbol form) to its node
// kind. 'eq'/'ne' have no symbolic alternative in the grammar.
func relOpKind(t token.Token) (Kind, bool) {
	if t.Kind == token.Keyword {
		switch t.Lexeme {
		case "gr":
			return KGr, true
		case "ge":
			return KGe, true
		case "ls":
			return KLs, true
		case "le":
			return KLe, true
		case "eq":
			return KEq, true
		case "ne":
			return KNe, true
		}
	}
	if t.Kind == token.Operator {
		switch t.Lexeme {
		case ">":
			return KGr, true
		case ">=":
			return KGe, true
		case "<":
			return KLs, true
		case "<=":
			return KLe, true
		}
	}
	return 0, false
}

// Bp → A (relop A)?
func (p *Parser) parseBp() *Node {
	left := p.parseA()
	if k, ok := relOpKind(p.cur()); ok {
		p.advance()
		right := p.parseA()
		return New(k, left, right)
	}
	return left
}

// A → ('+'|'-')? At ( ('+'|'-') At )*   (left-assoc)
func (p *Parser) parseA() *Node {
	var left *Node
	switch {
	case p.isOp("+"):
		p.advance()
		left = p.parseAt()
	case p.isOp("-"):
		p.advance()
		left = New(KNeg, p.parseAt())
	default:
		left = p.parseAt()
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.advance()
		right := p.parseAt()
		if op.Lexeme == "+" {
			left = New(KAdd, left, right)
		} else {
			left = New(KSub, left, right)
		}
	}
	return left
}

// At → Af ( ('*'|'/') Af )*   (left-assoc)
func (p *Parser) parseAt() *Node {
	left := p.parseAf()
	for p.isOp("*") || p.isOp("/") {
		op := p.advance()
		right := p.parseAf()
		if op.Lexeme == "*" {
			left = New(KMul, left, right)
		} else {
			left = New(KDiv, left, right)
		}
	}
	return left
}

// Af → Ap ('**' Af)?   (right-assoc)
func (p *Parser) parseAf() *Node {
	left := p.parseAp()
	if p.isOp("**") {
		p.advance()
		right := p.parseAf()
		return New(KPow, left, right)
	}
	return left
}

// Ap → R ('@' IDENT R)*   (left-assoc)
func (p *Parser) parseAp() *Node {
	left := p.parseR()
	for p.isPunct("@") {
		p.advance()
		name := p.expectIdent()
		right := p.parseR()
		left = New(KAt, left, Leaf(KIdent, name), right)
	}
	return left
}

func (p *Parser) canStartRn() bool {
	t := p.cur()
	switch t.Kind {
	case token.Identifier, token.Integer, token.String:
		return true
	case token.Keyword:
		return t.Lexeme == "true" || t.Lexeme == "false" || t.Lexeme == "nil" || t.Lexeme == "dummy"
	case token.Punctuation:
		return t.Lexeme == "("
	}
	return false
}

// R → Rn (Rn)*   (function application, left-assoc, highest precedence)
func (p *Parser) parseR() *Node {
	left := p.parseRn()
	for p.canStartRn() {
		right := p.parseRn()
		left = New(KGamma, left, right)
	}
	return left
}

// Rn → IDENT | INT | STRING | 'true' | 'false' | 'nil' | 'dummy' | '(' E ')'
func (p *Parser) parseRn() *Node {
	t := p.cur()
	switch t.Kind {
	case token.Identifier:
		p.advance()
		return Leaf(KIdent, t.Lexeme)
	case token.Integer:
		p.advance()
		return Leaf(KInt, t.Lexeme)
	case token.String:
		p.advance()
		return Leaf(KStr, t.Lexeme)
	case token.Keyword:
		switch t.Lexeme {
		case "true":
			p.advance()
			return Leaf(KTrue, "true")
		case "false":
			p.advance()
			return Leaf(KFalse, "false")
		case "nil":
			p.advance()
			return Leaf(KNil, "nil")
		case "dummy":
			p.advance()
			return Leaf(KDummy, "dummy")
		}
	case token.Punctuation:
		if t.Lexeme == "(" {
			p.advance()
			e := p.parseE()
			p.expectPunct(")")
			return e
		}
	}
	p.fail("an identifier, literal, or parenthesized expression")
	return nil // unreachable
}

// --- D (definitions) ---------------------------------------------------------

// D → Da ('within' D)?
func (p *Parser) parseD() *Node {
	da := p.parseDa()
	if p.isKeyword("within") {
		p.advance()
		d2 := p.parseD()
		return New(KWithin, da, d2)
	}
	return da
}

// Da → Dr ('and' Dr)+   (→ and)   |   Dr
func (p *Parser) parseDa() *Node {
	dr := p.parseDr()
	if p.isKeyword("and") {
		drs := []*Node{dr}
		for p.isKeyword("and") {
			p.advance()
			drs = append(drs, p.parseDr())
		}
		return New(KAndDef, drs...)
	}
	return dr
}

// Dr → 'rec' Db   |   Db
func (p *Parser) parseDr() *Node {
	if p.isKeyword("rec") {
		p.advance()
		return New(KRec, p.parseDb())
	}
	return p.parseDb()
}

// Db → '(' D ')'
//    | IDENT Vb+ '=' E        (→ function_form)
//    | IDENT (',' IDENT)+ '=' E  (→ comma binder)
//    | IDENT '=' E
func (p *Parser) parseDb() *Node {
	if p.isPunct("(") {
		p.advance()
		d := p.parseD()
		p.expectPunct(")")
		return d
	}
	name := p.expectIdent()
	switch {
	case p.isPunct(","):
		names := []string{name}
		for p.isPunct(",") {
			p.advance()
			names = append(names, p.expectIdent())
		}
		p.expectPunct("=")
		e := p.parseE()
		binder := New(KComma, identNodes(names)...)
		return New(KDef, binder, e)
	case p.isPunct("="):
		p.advance()
		e := p.parseE()
		return New(KDef, Leaf(KIdent, name), e)
	default:
		var vbs []*Node
		for p.canStartVb() {
			vbs = append(vbs, p.parseVb())
		}
		if len(vbs) == 0 {
			p.fail("'=', ',', or a binder")
		}
		p.expectPunct("=")
		e := p.parseE()
		children := append([]*Node{Leaf(KIdent, name)}, vbs...)
		children = append(children, e)
		return New(KFunctionForm, children...)
	}
}

func (p *Parser) canStartVb() bool {
	t := p.cur()
	return t.Kind == token.Identifier || (t.Kind == token.Punctuation && t.Lexeme == "(")
}

// Vb → IDENT | '(' ')' | '(' IDENT (',' IDENT)+ ')'
func (p *Parser) parseVb() *Node {
	if p.cur().Kind == token.Identifier {
		return Leaf(KIdent, p.advance().Lexeme)
	}
	p.expectPunct("(")
	if p.isPunct(")") {
		p.advance()
		return New(KEmptyBinder)
	}
	names := []string{p.expectIdent()}
	for p.isPunct(",") {
		p.advance()
		names = append(names, p.expectIdent())
	}
	p.expectPunct(")")
	if len(names) == 1 {
		return Leaf(KIdent, names[0])
	}
	return New(KComma, identNodes(names)...)
}
