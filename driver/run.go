// Package driver wires the compilation pipeline together: text →
// tokens → tree → diagnostics → C# text. It is the stable surface the
// CLI, the REPL and editor tooling build on; the stages themselves do
// no I/O.
package driver

import (
	"errors"
	"fmt"

	"github.com/mikaelliljedahl/flowlang/ast"
	"github.com/mikaelliljedahl/flowlang/checker"
	"github.com/mikaelliljedahl/flowlang/codegen"
	"github.com/mikaelliljedahl/flowlang/diag"
	"github.com/mikaelliljedahl/flowlang/lexer"
	"github.com/mikaelliljedahl/flowlang/parser"
)

// ErrDiagnostics marks a compilation aborted by checker errors. The
// unit returned alongside it carries the collected diagnostics.
var ErrDiagnostics = errors.New("compilation failed with diagnostics")

// Compile runs the full pipeline on one compilation unit.
func Compile(source string, opts codegen.Options) (codegen.Unit, error) {
	program, err := Parse(source)
	if err != nil {
		return codegen.Unit{}, err
	}

	diagnostics := checker.Check(program)
	if diag.HasErrors(diagnostics) {
		return codegen.Unit{Diagnostics: diagnostics}, ErrDiagnostics
	}

	unit, err := codegen.New(opts).Generate(program)
	if err != nil {
		return codegen.Unit{}, fmt.Errorf("generate: %w", err)
	}
	unit.Diagnostics = append(diagnostics, unit.Diagnostics...)

	return unit, nil
}

// Check runs the pipeline up to the validator and returns its
// diagnostics. Lex and parse failures surface as the error.
func Check(source string) ([]diag.Diagnostic, error) {
	program, err := Parse(source)
	if err != nil {
		return nil, err
	}

	return checker.Check(program), nil
}

// Parse runs the lexer and parser only. Editor tooling uses this to
// get a tree without generating code.
func Parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}

	program, err := parser.NewParser(tokens).ParseProgram()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return program, nil
}

// Session retains the last successfully parsed tree across edits, so
// a consumer keeps working state while the source is mid-keystroke
// broken.
type Session struct {
	program *ast.Program
}

func NewSession() *Session {
	return &Session{}
}

// Update reparses source. On failure the previous good tree is kept
// and the error returned.
func (s *Session) Update(source string) (*ast.Program, error) {
	program, err := Parse(source)
	if err != nil {
		return s.program, err
	}
	s.program = program

	return program, nil
}

// Program returns the last successfully parsed tree, or nil when no
// parse has succeeded yet.
func (s *Session) Program() *ast.Program {
	return s.program
}
