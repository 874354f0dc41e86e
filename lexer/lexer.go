// Package lexer implements the regex-driven tokenizer collaborator of
// spec.md §6: it turns RPAL source text into the token stream of §3.
//
// The tokenizer is built on github.com/timtadh/lexmachine, the same
// regex-to-DFA lexer generator the teacher wires up in
// lr/scanner/lexmach/lexmachine.go and uses concretely in
// terex/terexlang/scan.go's Lexer()/initTokens()/makeToken() trio. This
// package follows that same shape: a package-level keyword/literal table,
// a lazily-compiled lexmachine.Lexer, and a thin Scanner wrapping the
// resulting DFA scanner.
package lexer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/rpal-lang/rpal/diag"
	"github.com/rpal-lang/rpal/token"
)

func tracer() tracing.Trace {
	return tracing.Select("rpal.lexer")
}

// keywords are the reserved words of the grammar (spec.md §4.1); an
// identifier-shaped lexeme matching one of these is reclassified as a
// Keyword token instead of an Identifier token.
var keywords = map[string]bool{
	"let": true, "in": true, "fn": true, "where": true, "aug": true,
	"or": true, "not": true, "gr": true, "ge": true, "ls": true, "le": true,
	"eq": true, "ne": true, "true": true, "false": true, "nil": true,
	"dummy": true, "within": true, "and": true, "rec": true,
}

const (
	tokIllegal = iota
	tokIdentOrKeyword
	tokInteger
	tokString
	tokOperator
	tokPunctuation
	tokComment
	tokSpace
)

var (
	once    sync.Once
	compiled *lexmachine.Lexer
	compileErr error
)

func build() (*lexmachine.Lexer, error) {
	lx := lexmachine.NewLexer()

	lx.Add([]byte(`//[^\n]*`), skip)
	lx.Add([]byte(`( |\t|\n|\r)+`), skip)

	lx.Add([]byte(`'([^'\\]|\\.)*'`), makeString)
	lx.Add([]byte(`[0-9]+`), makeSimple(tokInteger))
	lx.Add([]byte(`([A-Za-z])([A-Za-z0-9_])*`), makeIdentOrKeyword)

	// Multi-character operators are matched via the same maximal-munch
	// DFA as single-character ones; lexmachine always prefers the
	// longest match, so "->" wins over "-" and ">=" wins over ">"
	// without any explicit rule ordering.
	for _, op := range []string{"**", "->", ">=", "<=", "+", "-", "*", "/", "<", ">", "&"} {
		lx.Add([]byte(regexpEscape(op)), makeSimple(tokOperator))
	}
	for _, p := range []string{",", "(", ")", ".", "|", "@", "="} {
		lx.Add([]byte(regexpEscape(p)), makeSimple(tokPunctuation))
	}

	if err := lx.Compile(); err != nil {
		return nil, err
	}
	return lx, nil
}

func regexpEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeSimple(kind int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(kind, string(m.Bytes), m), nil
	}
}

func makeIdentOrKeyword(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	return s.Token(tokIdentOrKeyword, string(m.Bytes), m), nil
}

func makeString(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	raw := string(m.Bytes)
	unescaped, err := unescape(raw[1 : len(raw)-1])
	if err != nil {
		return nil, err
	}
	return s.Token(tokString, unescaped, m), nil
}

func unescape(s string) (string, error) {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		i++
		if i >= len(runes) {
			return "", fmt.Errorf("unterminated escape sequence")
		}
		switch runes[i] {
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		case '\\':
			b.WriteRune('\\')
		case '\'':
			b.WriteRune('\'')
		default:
			b.WriteRune(runes[i])
		}
	}
	return b.String(), nil
}

// Scanner produces token.Token values from RPAL source text.
type Scanner struct {
	scanner *lexmachine.Scanner
}

// New creates a Scanner over the given source text.
func New(src string) (*Scanner, error) {
	once.Do(func() {
		compiled, compileErr = build()
	})
	if compileErr != nil {
		return nil, compileErr
	}
	sc, err := compiled.Scanner([]byte(src))
	if err != nil {
		return nil, err
	}
	return &Scanner{scanner: sc}, nil
}

// Next returns the next token.Token, or a token.End token at end of input.
func (s *Scanner) Next() (token.Token, error) {
	tok, err, eof := s.scanner.Next()
	if err != nil {
		if ui, ok := err.(*machines.UnconsumedInput); ok {
			bad := string(ui.Text[:1])
			return token.Token{}, &diag.Error{
				Kind:      diag.Lexical,
				Message:   "unrecognized character",
				Offending: bad,
			}
		}
		return token.Token{}, &diag.Error{Kind: diag.Lexical, Message: err.Error()}
	}
	if eof {
		return token.Token{Kind: token.End}, nil
	}
	lt := tok.(*lexmachine.Token)
	lexeme := string(lt.Lexeme)
	kind := classify(lt.Type, lexeme)
	t := token.Token{
		Kind:   kind,
		Lexeme: lexeme,
		Span:   token.Span{From: lt.StartColumn, To: lt.EndColumn},
	}
	tracer().Debugf("token %v", t)
	return t, nil
}

func classify(lmType int, lexeme string) token.Kind {
	switch lmType {
	case tokIdentOrKeyword:
		if keywords[lexeme] {
			return token.Keyword
		}
		return token.Identifier
	case tokInteger:
		return token.Integer
	case tokString:
		return token.String
	case tokOperator:
		return token.Operator
	case tokPunctuation:
		return token.Punctuation
	}
	return token.Illegal
}

// All tokenizes the entire input and returns the full stream, ending with
// a token.End. Used by the -tokens CLI flag and by the parser, which
// prefers materializing the (small, pedagogic-sized) token stream up
// front over re-invoking the scanner with one token of lookahead logic
// spread across both packages.
func All(src string) ([]token.Token, error) {
	sc, err := New(src)
	if err != nil {
		return nil, err
	}
	var toks []token.Token
	for {
		t, err := sc.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Kind == token.End {
			break
		}
	}
	return toks, nil
}
