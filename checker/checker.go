// Package checker validates effect and purity annotations. Unlike the
// lexer and parser it does not fail fast: diagnostics are collected
// across the whole tree so a user sees every problem in one pass.
package checker

import (
	"fmt"
	"strings"

	"github.com/mikaelliljedahl/flowlang/ast"
	"github.com/mikaelliljedahl/flowlang/diag"
	"github.com/mikaelliljedahl/flowlang/token"
)

type Checker struct {
	diagnostics []diag.Diagnostic
}

func New() *Checker {
	return &Checker{}
}

// Check validates program and returns the collected diagnostics.
func Check(program *ast.Program) []diag.Diagnostic {
	return New().Check(program)
}

func (c *Checker) Check(program *ast.Program) []diag.Diagnostic {
	c.diagnostics = nil
	for _, decl := range program.Decls {
		c.checkDecl(decl)
	}

	return c.diagnostics
}

func (c *Checker) checkDecl(decl ast.Node) {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		c.checkFunc(d)
	case *ast.Module:
		for _, inner := range d.Body {
			c.checkDecl(inner)
		}
	}
}

func (c *Checker) checkFunc(fn *ast.FuncDecl) {
	if fn.Pure && !fn.Effects.Empty() {
		c.report(fn, diag.Diagnostic{
			Severity: diag.SeverityError,
			Code:     diag.CodePureWithEffects,
			Message:  fmt.Sprintf("pure function cannot declare effects %s", fn.Effects),
		})
	}

	for _, name := range fn.Effects.Names() {
		if !token.IsEffectName(name) {
			c.report(fn, diag.Diagnostic{
				Severity: diag.SeverityError,
				Code:     diag.CodeUnknownEffect,
				Message:  fmt.Sprintf("unknown effect `%s`", name),
			})
		}
	}

	c.checkLowerable(fn)
}

// checkLowerable enforces the positional rules the generator relies
// on: match expressions and `?` must sit where a statement-level
// lowering exists (a let binding, a return, or statement position),
// a let bound to a match needs a declared type, every match must
// cover both discriminants, and arms of a value-position match must
// end with an expression or a return. Duplicate case kinds get a
// warning since only the first arm of a kind can run.
func (c *Checker) checkLowerable(fn *ast.FuncDecl) {
	bound := map[ast.Node]bool{}
	c.markBound(fn, fn.Body, bound)

	for _, node := range ast.Universe(fn) {
		switch n := node.(type) {
		case *ast.Match:
			if !bound[n] {
				c.report(fn, diag.Diagnostic{
					Severity: diag.SeverityError,
					Code:     diag.CodeUnboundMatch,
					Message:  "match expression must be bound by a let, returned, or stand alone",
					Span:     span(n.Token),
				})
			}
			c.checkExhaustive(fn, n)
			c.checkDuplicateCases(fn, n)
		case *ast.Propagate:
			if !bound[n] {
				c.report(fn, diag.Diagnostic{
					Severity: diag.SeverityError,
					Code:     diag.CodeUnboundPropagate,
					Message:  "`?` must be bound by a let or stand alone as a statement",
					Span:     span(n.Token),
				})
			}
		}
	}
}

func (c *Checker) markBound(fn *ast.FuncDecl, stmts []ast.Node, bound map[ast.Node]bool) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Let:
			switch init := s.Init.(type) {
			case *ast.Match:
				bound[init] = true
				c.markCases(fn, init, bound)
				c.checkArmValues(fn, init)
				if s.Type == nil {
					c.report(fn, diag.Diagnostic{
						Severity: diag.SeverityError,
						Code:     diag.CodeUntypedMatchLet,
						Message:  fmt.Sprintf("let `%s` bound to a match expression needs a declared type", s.Name.Lexeme),
						Span:     span(s.Name),
					})
				}
			case *ast.Propagate:
				bound[init] = true
			}
		case *ast.Return:
			if match, ok := s.Expr.(*ast.Match); ok {
				bound[match] = true
				c.markCases(fn, match, bound)
				c.checkArmValues(fn, match)
			}
		case *ast.Match:
			bound[s] = true
			c.markCases(fn, s, bound)
		case *ast.Propagate:
			bound[s] = true
		case *ast.If:
			c.markBound(fn, s.Then, bound)
			c.markBound(fn, s.Else, bound)
		case *ast.Guard:
			c.markBound(fn, s.Else, bound)
		}
	}
}

func (c *Checker) markCases(fn *ast.FuncDecl, match *ast.Match, bound map[ast.Node]bool) {
	for _, arm := range match.Cases {
		c.markBound(fn, arm.Body, bound)
	}
}

// checkExhaustive requires every match to cover both discriminants;
// a missing arm would lower to a conditional chain some evaluations
// fall through.
func (c *Checker) checkExhaustive(fn *ast.FuncDecl, match *ast.Match) {
	var hasOk, hasError bool
	for _, arm := range match.Cases {
		switch arm.Pattern.Kind {
		case token.OK:
			hasOk = true
		case token.ERROR:
			hasError = true
		}
	}

	var missing []string
	if !hasOk {
		missing = append(missing, "`Ok`")
	}
	if !hasError {
		missing = append(missing, "`Error`")
	}
	if len(missing) > 0 {
		c.report(fn, diag.Diagnostic{
			Severity: diag.SeverityError,
			Code:     diag.CodeNonExhaustiveMatch,
			Message:  fmt.Sprintf("match does not cover %s", strings.Join(missing, " or ")),
			Span:     span(match.Token),
		})
	}
}

// checkArmValues applies to matches whose value is consumed (a let
// binding or a return): each arm must end with an expression or a
// return statement, otherwise the lowering has nothing to assign.
func (c *Checker) checkArmValues(fn *ast.FuncDecl, match *ast.Match) {
	for _, arm := range match.Cases {
		if len(arm.Body) == 0 {
			c.report(fn, diag.Diagnostic{
				Severity: diag.SeverityError,
				Code:     diag.CodeMatchArmNoValue,
				Message:  fmt.Sprintf("`%s` arm yields no value; end it with an expression or a return", arm.Pattern.Lexeme),
				Span:     span(arm.Pattern),
			})
			continue
		}
		switch last := arm.Body[len(arm.Body)-1].(type) {
		case *ast.Match:
			c.checkArmValues(fn, last)
		case *ast.Return:
			// leaves the function; no value needed
		case *ast.Let, *ast.If, *ast.Guard, *ast.Propagate:
			c.report(fn, diag.Diagnostic{
				Severity: diag.SeverityError,
				Code:     diag.CodeMatchArmNoValue,
				Message:  fmt.Sprintf("`%s` arm yields no value; end it with an expression or a return", arm.Pattern.Lexeme),
				Span:     span(arm.Pattern),
			})
		}
	}
}

func (c *Checker) checkDuplicateCases(fn *ast.FuncDecl, match *ast.Match) {
	seen := map[token.Kind]bool{}
	for _, arm := range match.Cases {
		if seen[arm.Pattern.Kind] {
			c.report(fn, diag.Diagnostic{
				Severity: diag.SeverityWarning,
				Code:     diag.CodeDuplicateMatchCase,
				Message:  fmt.Sprintf("duplicate `%s` case is unreachable", arm.Pattern.Lexeme),
				Span:     span(arm.Pattern),
			})
		}
		seen[arm.Pattern.Kind] = true
	}
}

func (c *Checker) report(fn *ast.FuncDecl, d diag.Diagnostic) {
	d.Stage = diag.StageChecker
	d.Function = fn.Name.Lexeme
	if !d.Span.IsValid() {
		d.Span = span(fn.Name)
	}
	c.diagnostics = append(c.diagnostics, d)
}

func span(t token.Token) diag.Span {
	return diag.Span{Line: t.Line, Column: t.Column}
}
