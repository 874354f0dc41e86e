package lexer

import (
	"testing"

	"github.com/rpal-lang/rpal/token"
)

func TestBasicTokens(t *testing.T) {
	toks, err := All("let x = 5 in Print x")
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) == 0 {
		t.Fatal("expected tokens")
	}
	if toks[0].Kind != token.Keyword || toks[0].Lexeme != "let" {
		t.Fatalf("expected first token 'let', got %v", toks[0])
	}
	if toks[len(toks)-1].Kind != token.End {
		t.Fatalf("expected stream to end with End token, got %v", toks[len(toks)-1])
	}
}

func TestStringEscapes(t *testing.T) {
	toks, err := All(`Print 'a\'b\nc'`)
	if err != nil {
		t.Fatal(err)
	}
	var str token.Token
	for _, tk := range toks {
		if tk.Kind == token.String {
			str = tk
		}
	}
	if str.Lexeme != "a'b\nc" {
		t.Fatalf("expected unescaped string, got %q", str.Lexeme)
	}
}

func TestCommentsAndWhitespaceSkipped(t *testing.T) {
	toks, err := All("// a comment\nlet  x\t=\n1")
	if err != nil {
		t.Fatal(err)
	}
	for _, tk := range toks {
		if tk.Kind == token.Illegal {
			t.Fatalf("unexpected illegal token: %v", tk)
		}
	}
}

func TestArrowVsMinus(t *testing.T) {
	toks, err := All("x -> y | z - 1")
	if err != nil {
		t.Fatal(err)
	}
	var ops []string
	for _, tk := range toks {
		if tk.Kind == token.Operator {
			ops = append(ops, tk.Lexeme)
		}
	}
	if len(ops) < 2 || ops[0] != "->" {
		t.Fatalf("expected '->' to win maximal munch over '-', got %v", ops)
	}
}

func TestUnrecognizedCharacter(t *testing.T) {
	if _, err := All("let x = 5 in x $"); err == nil {
		t.Fatal("expected lexical error for '$'")
	}
}
