package lexer

import (
	"strings"
	"testing"

	"decaflang/decaf/token"
)

func TestNextToken(t *testing.T) {
	tests := []struct {
		input             string
		expectedTokenType []token.Type
		expectedLiteral   []string
	}{
		{
			"class Main {}",
			[]token.Type{token.CLASS, token.TYPEIDENT, token.LBRACE, token.RBRACE, token.EOF},
			[]string{"class", "Main", "{", "}", ""},
		},
		{
			"x = 1; // one line comment\ny = 2;",
			[]token.Type{token.IDENT, token.ASSIGN, token.INT_LIT, token.SEMI, token.IDENT, token.ASSIGN, token.INT_LIT, token.SEMI, token.EOF},
			[]string{"x", "=", "1", ";", "y", "=", "2", ";", ""},
		},
		{
			`"hello\nworld"`,
			[]token.Type{token.STRING_LIT, token.EOF},
			[]string{"hello\nworld", ""},
		},
		{
			"if x <= 10 then",
			[]token.Type{token.IF, token.IDENT, token.LE, token.INT_LIT, token.IDENT},
			[]string{"if", "x", "<=", "10", "then"},
		},
		{
			"class Counter extends IO { x : int; static int main() { return 0; } }",
			[]token.Type{
				token.CLASS, token.TYPEIDENT, token.EXTENDS, token.TYPEIDENT, token.LBRACE,
				token.IDENT, token.COLON, token.INT, token.SEMI,
				token.STATIC, token.INT, token.IDENT, token.LPAREN, token.RPAREN, token.LBRACE,
				token.RETURN, token.INT_LIT, token.SEMI,
				token.RBRACE, token.RBRACE, token.EOF,
			},
			nil,
		},
		{
			"/* a (* not nested *) comment */ x",
			[]token.Type{token.IDENT, token.EOF},
			[]string{"x", ""},
		},
		{
			"var f = fun(int x) => x + 1;",
			[]token.Type{token.VAR, token.IDENT, token.ASSIGN, token.FUN, token.LPAREN, token.INT, token.IDENT, token.RPAREN, token.ARROW, token.IDENT, token.PLUS, token.INT_LIT, token.SEMI, token.EOF},
			nil,
		},
	}

	for _, tt := range tests {
		l := NewLexer(strings.NewReader(tt.input))
		for i, expectedType := range tt.expectedTokenType {
			tok := l.NextToken()
			if tok.Type != expectedType {
				t.Fatalf("input %q, token %d: expected type %v, got %v (%q)", tt.input, i, expectedType, tok.Type, tok.Literal)
			}
			if tt.expectedLiteral != nil && tok.Literal != tt.expectedLiteral[i] {
				t.Fatalf("input %q, token %d: expected literal %q, got %q", tt.input, i, tt.expectedLiteral[i], tok.Literal)
			}
		}
	}
}

func TestIllegalCharacterReported(t *testing.T) {
	l := NewLexer(strings.NewReader("x = 1 @ 2;"))
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Fatalf("expected an error for illegal '@' character")
	}
}

func TestUnterminatedStringReported(t *testing.T) {
	l := NewLexer(strings.NewReader(`"unterminated`))
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatalf("expected an error for unterminated string literal")
	}
}
