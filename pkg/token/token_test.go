package token_test

import (
	"testing"

	"github.com/arockenbauer/MeowLang/pkg/token"
)

func TestLookupWordCaseInsensitive(t *testing.T) {
	cases := []struct {
		word string
		want token.Type
	}{
		{"si", token.SI},
		{"SI", token.SI},
		{"Si", token.SI},
		{"essayer", token.ESSAYER},
		{"ESSAYER", token.ESSAYER},
	}

	for _, c := range cases {
		got, ok := token.LookupWord(c.word)
		if !ok {
			t.Fatalf("LookupWord(%q): expected keyword, got none", c.word)
		}
		if got != c.want {
			t.Errorf("LookupWord(%q) = %v, want %v", c.word, got, c.want)
		}
	}
}

func TestLookupWordNotKeyword(t *testing.T) {
	if _, ok := token.LookupWord("compteur"); ok {
		t.Errorf("compteur must not be a keyword, it is a reserved identifier")
	}
	if _, ok := token.LookupWord("monVariable"); ok {
		t.Errorf("ordinary identifiers must not resolve as keywords")
	}
}

func TestIsBooleanLiteral(t *testing.T) {
	if v, ok := token.IsBooleanLiteral("vrai"); !ok || v != true {
		t.Errorf("vrai should be boolean true")
	}
	if v, ok := token.IsBooleanLiteral("FAUX"); !ok || v != false {
		t.Errorf("FAUX should be boolean false")
	}
	if _, ok := token.IsBooleanLiteral("vraiment"); ok {
		t.Errorf("vraiment must not match the vrai literal")
	}
}

func TestTypeString(t *testing.T) {
	if token.SI.String() != "SI" {
		t.Errorf("SI.String() = %q, want SI", token.SI.String())
	}
}

func TestPositionString(t *testing.T) {
	p := token.Position{Line: 3, Column: 7, Offset: 20}
	if p.String() != "3:7" {
		t.Errorf("Position.String() = %q, want 3:7", p.String())
	}
}
