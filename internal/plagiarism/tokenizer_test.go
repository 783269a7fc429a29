package plagiarism

import (
	"strings"
	"testing"

	"github.com/kr/pretty"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: []string{}},
		{name: "delimiters only", text: " ,.;!\t\n ", want: []string{}},
		{name: "plain", text: "the quick brown fox", want: []string{"the", "quick", "brown", "fox"}},
		{name: "punctuation", text: "Hello, world! It's fine.", want: []string{"Hello", "world", "It", "s", "fine"}},
		{name: "collapsed runs", text: "a  --  b\n\n\tc", want: []string{"a", "b", "c"}},
		{name: "typographic marks", text: "“quoted”—dash…end", want: []string{"quoted", "dash", "end"}},
		{name: "case preserved", text: "The the THE", want: []string{"The", "the", "THE"}},
		{name: "non ascii letters", text: "naïve café", want: []string{"naïve", "café"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if diff := pretty.Diff(tt.want, got); len(diff) > 0 {
				t.Errorf("Tokenize(%q) differs:\n%s", tt.text, strings.Join(diff, "\n"))
			}
		})
	}
}

func TestTokenizeProperties(t *testing.T) {
	texts := []string{
		"It was the best of times, it was the worst of times.",
		"  leading and trailing  ",
		"«Bonjour», dit-il — puis rien.",
	}
	for _, text := range texts {
		tokens := Tokenize(text)
		for _, tok := range tokens {
			if tok == "" {
				t.Errorf("empty token in %q", text)
			}
			if strings.IndexFunc(tok, IsDelimiter) >= 0 {
				t.Errorf("token %q from %q contains a delimiter", tok, text)
			}
		}
		again := Tokenize(strings.Join(tokens, " "))
		if diff := pretty.Diff(tokens, again); len(diff) > 0 {
			t.Errorf("tokenize not idempotent for %q:\n%s", text, strings.Join(diff, "\n"))
		}
	}
}

func TestTokenizeNormalizeUnicode(t *testing.T) {
	decomposed := "cafe\u0301 au lait"
	composed := "caf\u00e9 au lait"

	plain := Tokenizer{}
	if plain.Tokenize(decomposed)[0] == plain.Tokenize(composed)[0] {
		t.Fatal("expected decomposed and composed spellings to differ without normalization")
	}

	nfc := Tokenizer{NormalizeUnicode: true}
	if diff := pretty.Diff(nfc.Tokenize(composed), nfc.Tokenize(decomposed)); len(diff) > 0 {
		t.Errorf("normalized tokens differ:\n%s", strings.Join(diff, "\n"))
	}
}
