// Package codegen lowers a validated FlowLang tree to C# source text.
// Well-formed, checked trees always generate; a GenerationError means
// an internal invariant was violated upstream.
package codegen

import (
	"fmt"
	"strings"

	"github.com/mikaelliljedahl/flowlang/ast"
	"github.com/mikaelliljedahl/flowlang/diag"
	"github.com/mikaelliljedahl/flowlang/token"
	"github.com/mikaelliljedahl/flowlang/utils"
)

// Unit is the outcome of one generation run.
type Unit struct {
	Source      string
	Diagnostics []diag.Diagnostic
}

type Options struct {
	// Namespace wraps all generated containers. Defaults to
	// "FlowLang.Generated".
	Namespace string
	// Indent is the indentation width in spaces. Defaults to 4.
	Indent int
}

type GenerationError struct {
	Node    ast.Node
	Message string
}

func (e GenerationError) Error() string {
	if e.Node == nil {
		return "codegen: " + e.Message
	}
	return "codegen: " + utils.MsgAt(e.Node.Base(), e.Message)
}

type Generator struct {
	opts Options
	e    *emitter

	fn    *ast.FuncDecl // function being lowered
	temps int           // per-function temp counter
	first bool          // member separator state
}

func New(opts Options) *Generator {
	if opts.Namespace == "" {
		opts.Namespace = "FlowLang.Generated"
	}
	return &Generator{opts: opts}
}

// Generate lowers program with default options.
func Generate(program *ast.Program) (Unit, error) {
	return New(Options{}).Generate(program)
}

func (g *Generator) Generate(program *ast.Program) (Unit, error) {
	g.e = newEmitter(g.opts.Indent)
	g.first = true

	needResult, needOption := scanCarriers(program)

	g.e.line("using System;")
	g.e.blank()
	g.e.line("namespace %s", g.opts.Namespace)
	g.e.open()

	if needResult {
		g.sep()
		emitResultType(g.e)
	}
	if needOption {
		g.sep()
		emitOptionType(g.e)
	}

	var topLevel []*ast.FuncDecl
	for _, decl := range program.Decls {
		switch d := decl.(type) {
		case *ast.Module:
			if err := g.genModule(d); err != nil {
				return Unit{}, err
			}
		case *ast.FuncDecl:
			topLevel = append(topLevel, d)
		case *ast.Import, *ast.Export:
			// name-resolution only; nothing to emit
		default:
			return Unit{}, GenerationError{Node: decl, Message: "unsupported declaration"}
		}
	}

	if len(topLevel) > 0 {
		g.sep()
		g.e.line("public static class Program")
		g.e.open()
		for i, fn := range topLevel {
			if i > 0 {
				g.e.blank()
			}
			if err := g.genFunc(fn, true); err != nil {
				return Unit{}, err
			}
		}
		g.e.close()
	}

	g.e.close()

	return Unit{Source: g.e.String(), Diagnostics: []diag.Diagnostic{}}, nil
}

// sep writes the blank line between namespace members.
func (g *Generator) sep() {
	if !g.first {
		g.e.blank()
	}
	g.first = false
}

// genModule lowers a module to one public static class; exported
// functions are public, the rest private.
func (g *Generator) genModule(module *ast.Module) error {
	g.sep()
	g.e.line("public static class %s", module.Name.Lexeme)
	g.e.open()
	emitted := 0
	for _, decl := range module.Body {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if emitted > 0 {
				g.e.blank()
			}
			if err := g.genFunc(d, false); err != nil {
				return err
			}
			emitted++
		case *ast.Import, *ast.Export:
			// nothing to emit
		default:
			return GenerationError{Node: decl, Message: "unsupported declaration in module"}
		}
	}
	g.e.close()

	return nil
}

func (g *Generator) genFunc(fn *ast.FuncDecl, topLevel bool) error {
	g.fn = fn
	g.temps = 0

	g.genDoc(fn)

	visibility := "private"
	if topLevel || fn.Exported {
		visibility = "public"
	}

	returnType, err := csType(fn.Return)
	if err != nil {
		return err
	}

	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		paramType, err := csType(param.Type)
		if err != nil {
			return err
		}
		params[i] = paramType + " " + param.Name.Lexeme
	}

	g.e.line("%s static %s %s(%s)", visibility, returnType, fn.Name.Lexeme, strings.Join(params, ", "))
	g.e.open()
	if err := g.genStmts(fn.Body); err != nil {
		return err
	}
	g.e.close()

	return nil
}

// genDoc emits the effect and purity documentation block. This is
// documentation only; it has no behavioral effect.
func (g *Generator) genDoc(fn *ast.FuncDecl) {
	g.e.line("/// <summary>")
	if fn.Spec != nil {
		for _, specLine := range strings.Split(fn.Spec.Text, "\n") {
			g.e.line("/// %s", strings.TrimSpace(specLine))
		}
	}
	switch {
	case fn.Pure:
		g.e.line("/// Pure: no side effects")
	case fn.Effects.Empty():
		g.e.line("/// Effects: none")
	default:
		g.e.line("/// Effects: %s", strings.Join(fn.Effects.Names(), ", "))
	}
	g.e.line("/// </summary>")
}

func (g *Generator) genStmts(stmts []ast.Node) error {
	for _, stmt := range stmts {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genStmt(stmt ast.Node) error {
	switch s := stmt.(type) {
	case *ast.Let:
		return g.genLet(s)
	case *ast.Return:
		return g.genReturn(s)
	case *ast.If:
		return g.genIf(s)
	case *ast.Guard:
		return g.genGuard(s)
	case *ast.Match:
		return g.genMatch(s, sinkDiscard, "")
	case *ast.Propagate:
		return g.genBarePropagate(s)
	case nil:
		return GenerationError{Message: "nil statement"}
	default:
		expr, err := g.genExpr(stmt)
		if err != nil {
			return err
		}
		g.e.line("%s;", expr)
		return nil
	}
}

func (g *Generator) genLet(let *ast.Let) error {
	switch init := let.Init.(type) {
	case *ast.Propagate:
		return g.genPropagateLet(let, init)
	case *ast.Match:
		declaredType, err := csType(let.Type)
		if err != nil {
			return err
		}
		g.e.line("%s %s;", declaredType, let.Name.Lexeme)
		return g.genMatch(init, sinkAssign, let.Name.Lexeme)
	default:
		value, err := g.genExpr(let.Init)
		if err != nil {
			return err
		}
		if let.Type != nil {
			declaredType, err := csType(let.Type)
			if err != nil {
				return err
			}
			g.e.line("%s %s = %s;", declaredType, let.Name.Lexeme, value)
		} else {
			g.e.line("var %s = %s;", let.Name.Lexeme, value)
		}
		return nil
	}
}

// genPropagateLet lowers `let x = f()?`: evaluate, early-return the
// error re-typed to the enclosing function's Result type, then bind
// the success payload.
func (g *Generator) genPropagateLet(let *ast.Let, prop *ast.Propagate) error {
	inner, err := g.genExpr(prop.Expr)
	if err != nil {
		return err
	}
	resultType, err := g.fnResultType(prop)
	if err != nil {
		return err
	}

	tmp := let.Name.Lexeme + "_result"
	g.e.line("var %s = %s;", tmp, inner)
	g.e.line("if (!%s.IsSuccess)", tmp)
	g.e.open()
	g.e.line("return %s.Error(%s.ErrorValue);", resultType, tmp)
	g.e.close()
	if let.Type != nil {
		declaredType, err := csType(let.Type)
		if err != nil {
			return err
		}
		g.e.line("%s %s = %s.Value;", declaredType, let.Name.Lexeme, tmp)
	} else {
		g.e.line("var %s = %s.Value;", let.Name.Lexeme, tmp)
	}

	return nil
}

// genBarePropagate lowers a statement-position `f()?` whose success
// payload is discarded.
func (g *Generator) genBarePropagate(prop *ast.Propagate) error {
	inner, err := g.genExpr(prop.Expr)
	if err != nil {
		return err
	}
	resultType, err := g.fnResultType(prop)
	if err != nil {
		return err
	}

	tmp := g.temp("_result")
	g.e.line("var %s = %s;", tmp, inner)
	g.e.line("if (!%s.IsSuccess)", tmp)
	g.e.open()
	g.e.line("return %s.Error(%s.ErrorValue);", resultType, tmp)
	g.e.close()

	return nil
}

func (g *Generator) genReturn(ret *ast.Return) error {
	if ret.Expr == nil {
		g.e.line("return;")
		return nil
	}
	if match, ok := ret.Expr.(*ast.Match); ok {
		return g.genMatch(match, sinkReturn, "")
	}
	expr, err := g.genExpr(ret.Expr)
	if err != nil {
		return err
	}
	g.e.line("return %s;", expr)

	return nil
}

// genIf lowers structurally 1:1; an else-if chain arrives as a nested
// If inside the else branch and is emitted that way.
func (g *Generator) genIf(ifStmt *ast.If) error {
	cond, err := g.genExpr(ifStmt.Cond)
	if err != nil {
		return err
	}
	g.e.line("if (%s)", cond)
	g.e.open()
	if err := g.genStmts(ifStmt.Then); err != nil {
		return err
	}
	g.e.close()
	if ifStmt.Else != nil {
		g.e.line("else")
		g.e.open()
		if err := g.genStmts(ifStmt.Else); err != nil {
			return err
		}
		g.e.close()
	}

	return nil
}

// genGuard lowers `guard C else { R }` to `if (!(C)) { R }`;
// execution falls through to the statements after the guard.
func (g *Generator) genGuard(guard *ast.Guard) error {
	cond, err := g.genExpr(guard.Cond)
	if err != nil {
		return err
	}
	g.e.line("if (!(%s))", cond)
	g.e.open()
	if err := g.genStmts(guard.Else); err != nil {
		return err
	}
	g.e.close()

	return nil
}

// armSink says what a match arm does with its final expression.
type armSink int

const (
	sinkReturn armSink = iota
	sinkAssign
	sinkDiscard
)

// genMatch lowers a match to a discriminant check per case in source
// order. The last arm of a multi-arm match becomes a plain `else`:
// the checker guarantees both discriminants appear, so any value
// falling past the earlier arms can only satisfy the last one, and
// every path through the chain stays covered.
func (g *Generator) genMatch(match *ast.Match, sink armSink, target string) error {
	scrutinee, err := g.genScrutinee(match)
	if err != nil {
		return err
	}

	for i, arm := range match.Cases {
		cond := scrutinee + ".IsSuccess"
		payload := scrutinee + ".Value"
		if arm.Pattern.Kind == token.ERROR {
			cond = "!" + scrutinee + ".IsSuccess"
			payload = scrutinee + ".ErrorValue"
		}

		switch {
		case i == 0:
			g.e.line("if (%s)", cond)
		case i == len(match.Cases)-1:
			g.e.line("else")
		default:
			g.e.line("else if (%s)", cond)
		}
		g.e.open()
		g.e.line("var %s = %s;", arm.Binding.Lexeme, payload)
		if err := g.genArmBody(arm.Body, sink, target); err != nil {
			return err
		}
		g.e.close()
	}

	return nil
}

func (g *Generator) genScrutinee(match *ast.Match) (string, error) {
	if v, ok := match.Scrutinee.(*ast.Var); ok {
		return v.Name.Lexeme, nil
	}
	expr, err := g.genExpr(match.Scrutinee)
	if err != nil {
		return "", err
	}
	tmp := g.temp("_match")
	g.e.line("var %s = %s;", tmp, expr)

	return tmp, nil
}

func (g *Generator) genArmBody(body []ast.Node, sink armSink, target string) error {
	for i, stmt := range body {
		last := i == len(body)-1
		if last {
			if match, ok := stmt.(*ast.Match); ok {
				return g.genMatch(match, sink, target)
			}
			if isExprNode(stmt) {
				expr, err := g.genExpr(stmt)
				if err != nil {
					return err
				}
				switch sink {
				case sinkReturn:
					g.e.line("return %s;", expr)
				case sinkAssign:
					g.e.line("%s = %s;", target, expr)
				case sinkDiscard:
					g.e.line("%s;", expr)
				}
				return nil
			}
		}
		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}

	return nil
}

func isExprNode(node ast.Node) bool {
	switch node.(type) {
	case *ast.Let, *ast.Return, *ast.If, *ast.Guard, *ast.Propagate:
		return false
	}
	return true
}

func (g *Generator) genExpr(expr ast.Node) (string, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return e.Lexeme, nil
	case *ast.StringLit:
		return csQuote(e.Value()), nil
	case *ast.BoolLit:
		return e.Lexeme, nil
	case *ast.Var:
		return e.Name.Lexeme, nil
	case *ast.Call:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			value, err := g.genExpr(arg)
			if err != nil {
				return "", err
			}
			args[i] = value
		}
		return e.Name.Lexeme + "(" + strings.Join(args, ", ") + ")", nil
	case *ast.Arithmetic:
		return g.genBinary(e.Left, e.Op, e.Right)
	case *ast.Comparison:
		return g.genBinary(e.Left, e.Op, e.Right)
	case *ast.Logical:
		// emitted verbatim; C# && and || short-circuit like the source
		return g.genBinary(e.Left, e.Op, e.Right)
	case *ast.Unary:
		operand, err := g.genOperand(e.Operand)
		if err != nil {
			return "", err
		}
		return e.Op.Lexeme + operand, nil
	case *ast.ResultExpr:
		return g.genResultExpr(e)
	case *ast.StringInterp:
		return g.genInterp(e)
	case *ast.Propagate:
		return "", GenerationError{Node: e, Message: "error propagation must be bound by a let or stand alone"}
	case *ast.Match:
		return "", GenerationError{Node: e, Message: "match expression not in a lowerable position"}
	case nil:
		return "", GenerationError{Message: "nil expression"}
	default:
		return "", GenerationError{Node: expr, Message: "unsupported expression"}
	}
}

func (g *Generator) genBinary(left ast.Node, op token.Token, right ast.Node) (string, error) {
	l, err := g.genOperand(left)
	if err != nil {
		return "", err
	}
	r, err := g.genOperand(right)
	if err != nil {
		return "", err
	}
	return l + " " + op.Lexeme + " " + r, nil
}

// genOperand parenthesizes compound operands so the emitted text keeps
// the tree's grouping regardless of C# precedence.
func (g *Generator) genOperand(expr ast.Node) (string, error) {
	s, err := g.genExpr(expr)
	if err != nil {
		return "", err
	}
	switch expr.(type) {
	case *ast.Arithmetic, *ast.Comparison, *ast.Logical, *ast.Unary:
		return "(" + s + ")", nil
	}
	return s, nil
}

// genResultExpr lowers Ok/Error literals to the static constructors,
// instantiated at the enclosing function's declared Result type.
func (g *Generator) genResultExpr(e *ast.ResultExpr) (string, error) {
	resultType, err := g.fnResultType(e)
	if err != nil {
		return "", err
	}
	value, err := g.genExpr(e.Value)
	if err != nil {
		return "", err
	}
	ctor := "Ok"
	if e.Token.Kind == token.ERROR {
		ctor = "Error"
	}
	return fmt.Sprintf("%s.%s(%s)", resultType, ctor, value), nil
}

// genInterp lowers interpolation to a positional string.Format call
// over the ordered literal and expression parts. Literal braces are
// doubled in the format string so a lone `}` survives .NET composite
// formatting; the plain-string path needs no escaping.
func (g *Generator) genInterp(interp *ast.StringInterp) (string, error) {
	var format, plain strings.Builder
	var args []string
	for _, part := range interp.Parts {
		if lit, ok := part.(*ast.StringLit); ok {
			plain.WriteString(lit.Value())
			format.WriteString(escapeFormatBraces(lit.Value()))
			continue
		}
		value, err := g.genExpr(part)
		if err != nil {
			return "", err
		}
		format.WriteString(fmt.Sprintf("{%d}", len(args)))
		args = append(args, value)
	}
	if len(args) == 0 {
		return csQuote(plain.String()), nil
	}
	return fmt.Sprintf("string.Format(%s, %s)", csQuote(format.String()), strings.Join(args, ", ")), nil
}

// fnResultType returns the enclosing function's return type, which
// must be a Result instantiation.
func (g *Generator) fnResultType(at ast.Node) (string, error) {
	ref, ok := g.fn.Return.(*ast.TypeRef)
	if !ok || ref.Name.Lexeme != "Result" {
		return "", GenerationError{Node: at, Message: fmt.Sprintf("function `%s` must return a Result type here", g.fn.Name.Lexeme)}
	}
	return csType(ref)
}

func (g *Generator) temp(prefix string) string {
	name := fmt.Sprintf("%s%d", prefix, g.temps)
	g.temps++
	return name
}

// scanCarriers reports whether the program references the Result and
// Option carrier types.
func scanCarriers(program *ast.Program) (needResult, needOption bool) {
	for _, node := range ast.Universe(program) {
		switch n := node.(type) {
		case *ast.ResultExpr, *ast.Propagate, *ast.Match:
			needResult = true
		case *ast.TypeRef:
			switch n.Name.Lexeme {
			case "Result":
				needResult = true
			case "Option":
				needOption = true
			}
		}
	}
	return needResult, needOption
}
