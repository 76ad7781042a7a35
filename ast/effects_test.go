package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mikaelliljedahl/flowlang/ast"
)

func TestEffectSetDeduplicates(t *testing.T) {
	t.Parallel()

	s := ast.NewEffectSet("Database", "Logging", "Database")
	if s.Len() != 2 {
		t.Errorf("expected 2 effects, got %d", s.Len())
	}
	if diff := cmp.Diff([]string{"Database", "Logging"}, s.Names()); diff != "" {
		t.Errorf("order not preserved (-want +got):\n%s", diff)
	}
}

func TestEffectSetContains(t *testing.T) {
	t.Parallel()

	s := ast.NewEffectSet("Network")
	if !s.Contains("Network") {
		t.Errorf("missing added effect")
	}
	if s.Contains("Database") {
		t.Errorf("reports effect that was never added")
	}
}

func TestEffectSetString(t *testing.T) {
	t.Parallel()

	s := ast.NewEffectSet("Database", "IO")
	if s.String() != "[Database, IO]" {
		t.Errorf("wrong rendering: %s", s)
	}
}

func TestNilEffectSet(t *testing.T) {
	t.Parallel()

	var s *ast.EffectSet
	if !s.Empty() {
		t.Errorf("nil set not empty")
	}
	if s.Len() != 0 {
		t.Errorf("nil set has length %d", s.Len())
	}
	if s.Contains("Database") {
		t.Errorf("nil set contains an effect")
	}
	if s.Names() != nil {
		t.Errorf("nil set has names %v", s.Names())
	}
}
