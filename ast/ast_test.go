package ast_test

import (
	"testing"

	"github.com/mikaelliljedahl/flowlang/ast"
	"github.com/mikaelliljedahl/flowlang/token"
)

func tok(kind token.Kind, lexeme string) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: 1, Column: 1}
}

func TestNodeString(t *testing.T) {
	t.Parallel()

	sum := &ast.Arithmetic{
		Left:  &ast.Var{Name: tok(token.IDENT, "a")},
		Op:    tok(token.PLUS, "+"),
		Right: &ast.NumberLit{Token: token.Token{Kind: token.INTEGER, Lexeme: "1", Literal: 1}},
	}
	if sum.String() != "(arith + (var a) (number 1))" {
		t.Errorf("wrong rendering: %s", sum)
	}

	guard := &ast.Guard{
		Token: tok(token.GUARD, "guard"),
		Cond:  &ast.Var{Name: tok(token.IDENT, "ready")},
		Else:  []ast.Node{&ast.Return{Token: tok(token.RETURN, "return")}},
	}
	if guard.String() != "(guard (var ready) (return))" {
		t.Errorf("wrong rendering: %s", guard)
	}
}

func TestUniverse(t *testing.T) {
	t.Parallel()

	expr := &ast.Logical{
		Left:  &ast.Var{Name: tok(token.IDENT, "a")},
		Op:    tok(token.ANDAND, "&&"),
		Right: &ast.Unary{Op: tok(token.BANG, "!"), Operand: &ast.Var{Name: tok(token.IDENT, "b")}},
	}

	universe := ast.Universe(expr)
	if len(universe) != 4 {
		t.Errorf("expected 4 nodes, got %d", len(universe))
	}

	var vars int
	for _, node := range universe {
		if _, ok := node.(*ast.Var); ok {
			vars++
		}
	}
	if vars != 2 {
		t.Errorf("expected 2 vars, got %d", vars)
	}
}

func TestChildren(t *testing.T) {
	t.Parallel()

	call := &ast.Call{
		Name: tok(token.IDENT, "f"),
		Args: []ast.Node{
			&ast.Var{Name: tok(token.IDENT, "x")},
			&ast.NumberLit{Token: token.Token{Kind: token.INTEGER, Lexeme: "2", Literal: 2}},
		},
	}
	if children := ast.Children(call); len(children) != 2 {
		t.Errorf("expected 2 children, got %d", len(children))
	}
}
