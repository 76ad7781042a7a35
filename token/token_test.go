package token_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mikaelliljedahl/flowlang/token"
)

func TestGetKeyword(t *testing.T) {
	t.Parallel()

	if kind, ok := token.GetKeyword("function"); !ok || kind != token.FUNCTION {
		t.Errorf("function -> %v, %v", kind, ok)
	}
	if kind, ok := token.GetKeyword("Ok"); !ok || kind != token.OK {
		t.Errorf("Ok -> %v, %v", kind, ok)
	}
	if kind, ok := token.GetKeyword("widget"); ok || kind != token.IDENT {
		t.Errorf("widget -> %v, %v", kind, ok)
	}
}

func TestEffectNames(t *testing.T) {
	t.Parallel()

	expected := []string{"Database", "Network", "Logging", "FileSystem", "Memory", "IO"}
	if diff := cmp.Diff(expected, token.EffectNames()); diff != "" {
		t.Errorf("vocabulary mismatch (-want +got):\n%s", diff)
	}

	for _, name := range expected {
		if !token.IsEffectName(name) {
			t.Errorf("%s not recognized as an effect", name)
		}
	}
	if token.IsEffectName("database") {
		t.Errorf("effect names are case-sensitive")
	}
	if token.IsEffectName("function") {
		t.Errorf("non-effect keyword recognized as an effect")
	}
}

func TestTokenPretty(t *testing.T) {
	t.Parallel()

	eof := token.Token{Kind: token.EOF}
	if eof.Pretty() != "end of input" {
		t.Errorf("wrong EOF rendering: %s", eof.Pretty())
	}
	ident := token.Token{Kind: token.IDENT, Lexeme: "x"}
	if ident.Pretty() != "x" {
		t.Errorf("wrong rendering: %s", ident.Pretty())
	}
}

func TestIsEffect(t *testing.T) {
	t.Parallel()

	if !(token.Token{Kind: token.DATABASE}).IsEffect() {
		t.Errorf("DATABASE not an effect token")
	}
	if (token.Token{Kind: token.IDENT}).IsEffect() {
		t.Errorf("IDENT reported as an effect token")
	}
}
