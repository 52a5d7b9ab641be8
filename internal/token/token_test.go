package token

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{PLUS, "+"},
		{PLUS_EQUAL, "+="},
		{ARROW, "=>"},
		{ELSE_IF, "else if"},
		{PRINTLN, "println"},
		{EOF, "EOF"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestKeywordsTable(t *testing.T) {
	for word, kind := range Keywords {
		tok := New(kind, word, nil, 1)
		if tok.Lexeme != word {
			t.Errorf("keyword %q round-tripped to lexeme %q", word, tok.Lexeme)
		}
	}
	if _, ok := Keywords["else if"]; ok {
		t.Error(`"else if" must not be a map entry; it is a two-token scanner lookahead`)
	}
}
