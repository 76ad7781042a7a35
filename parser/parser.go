package parser

import (
	"fmt"
	"strings"

	"github.com/mikaelliljedahl/flowlang/ast"
	"github.com/mikaelliljedahl/flowlang/lexer"
	"github.com/mikaelliljedahl/flowlang/token"
	"github.com/mikaelliljedahl/flowlang/utils"
)

type Parser struct {
	tokens  []token.Token
	current int
	err     error
}

func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens, 0, nil}
}

// ParseProgram parses one compilation unit. The first structural error
// aborts parsing; no partial tree is returned.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	p.err = nil
	decls := []ast.Node{}
	for !p.IsAtEnd() && p.err == nil {
		if decl := p.decl(); decl != nil {
			decls = append(decls, decl)
		}
	}
	if p.err != nil {
		return nil, p.err
	}

	program := &ast.Program{Decls: decls}
	resolveExports(program)

	return program, nil
}

// ParseExpr parses a single expression, for tooling and the REPL.
func (p *Parser) ParseExpr() (ast.Node, error) {
	p.err = nil
	node := p.expr()

	return node, p.err
}

// decl = spec? (funcDecl | moduleDecl | importStmt | exportStmt) ;
func (p *Parser) decl() ast.Node {
	var spec *ast.SpecBlock
	if p.match(token.SPEC) {
		tok := p.advance()
		text, _ := tok.Literal.(string)
		spec = &ast.SpecBlock{Token: tok, Text: strings.TrimSpace(text)}
	}

	switch {
	case p.match(token.FUNCTION), p.match(token.PURE):
		return p.funcDecl(spec, false)
	case p.match(token.EXPORT) && !p.matchNth(1, token.LEFTBRACE):
		p.advance()
		return p.funcDecl(spec, true)
	}

	if spec != nil {
		p.recover(unexpectedToken(p.peek(), "function declaration after specification block"))
		return nil
	}

	switch {
	case p.match(token.MODULE):
		return p.moduleDecl()
	case p.match(token.IMPORT):
		return p.importStmt()
	case p.match(token.EXPORT):
		return p.exportStmt()
	default:
		p.recover(unexpectedToken(p.peek(), "`function`", "`pure`", "`module`", "`import`", "`export`"))
		return nil
	}
}

// funcDecl = "pure"? "function" IDENT "(" params ")" ("uses" "[" effects "]")? "->" type block ;
// params = (param ("," param)*)? ;
// param = IDENT ":" type ;
func (p *Parser) funcDecl(spec *ast.SpecBlock, exported bool) ast.Node {
	pure := false
	if p.match(token.PURE) {
		p.advance()
		pure = true
	}
	p.consume(token.FUNCTION)
	name := p.consume(token.IDENT)

	p.consume(token.LEFTPAREN)
	params := []*ast.Param{}
	for !p.match(token.RIGHTPAREN) && p.err == nil {
		if len(params) > 0 {
			p.consume(token.COMMA)
		}
		paramName := p.consume(token.IDENT)
		p.consume(token.COLON)
		paramType := p.typeRef()
		params = append(params, &ast.Param{Name: paramName, Type: paramType})
	}
	p.consume(token.RIGHTPAREN)

	// `pure` and `uses` may both appear here; rejecting the
	// combination is the checker's job, not the grammar's.
	effects := ast.NewEffectSet()
	if p.match(token.USES) {
		p.advance()
		p.consume(token.LEFTBRACKET)
		for !p.match(token.RIGHTBRACKET) && p.err == nil {
			if !effects.Empty() {
				p.consume(token.COMMA)
			}
			tok := p.advance()
			if tok.IsEffect() || tok.Kind == token.IDENT {
				effects.Add(tok.Lexeme)
			} else {
				p.recover(unexpectedToken(tok, "effect name"))
			}
		}
		p.consume(token.RIGHTBRACKET)
	}

	p.consume(token.ARROW)
	returnType := p.typeRef()
	body := p.block()

	return &ast.FuncDecl{
		Name:     name,
		Params:   params,
		Return:   returnType,
		Effects:  effects,
		Pure:     pure,
		Exported: exported,
		Body:     body,
		Spec:     spec,
	}
}

// moduleDecl = "module" IDENT "{" decl* "}" ;
func (p *Parser) moduleDecl() ast.Node {
	p.consume(token.MODULE)
	name := p.consume(token.IDENT)
	p.consume(token.LEFTBRACE)
	body := []ast.Node{}
	for !p.match(token.RIGHTBRACE) && p.err == nil {
		if decl := p.decl(); decl != nil {
			body = append(body, decl)
		}
	}
	p.consume(token.RIGHTBRACE)

	return &ast.Module{Name: name, Body: body}
}

// importStmt = "import" IDENT
//            | "import" "{" IDENT ("," IDENT)* "}" "from" IDENT
//            | "import" "*" "from" IDENT ;
func (p *Parser) importStmt() ast.Node {
	tok := p.consume(token.IMPORT)
	switch {
	case p.match(token.STAR):
		p.advance()
		p.consume(token.FROM)
		module := p.consume(token.IDENT)
		return &ast.Import{Token: tok, Module: module, Wildcard: true}
	case p.match(token.LEFTBRACE):
		p.advance()
		names := []token.Token{}
		for !p.match(token.RIGHTBRACE) && p.err == nil {
			if len(names) > 0 {
				p.consume(token.COMMA)
			}
			names = append(names, p.consume(token.IDENT))
		}
		p.consume(token.RIGHTBRACE)
		p.consume(token.FROM)
		module := p.consume(token.IDENT)
		return &ast.Import{Token: tok, Module: module, Names: names}
	default:
		module := p.consume(token.IDENT)
		return &ast.Import{Token: tok, Module: module}
	}
}

// exportStmt = "export" "{" IDENT ("," IDENT)* "}" ;
func (p *Parser) exportStmt() ast.Node {
	tok := p.consume(token.EXPORT)
	p.consume(token.LEFTBRACE)
	names := []token.Token{}
	for !p.match(token.RIGHTBRACE) && p.err == nil {
		if len(names) > 0 {
			p.consume(token.COMMA)
		}
		names = append(names, p.consume(token.IDENT))
	}
	p.consume(token.RIGHTBRACE)

	return &ast.Export{Token: tok, Names: names}
}

// block = "{" statement* "}" ;
func (p *Parser) block() []ast.Node {
	p.consume(token.LEFTBRACE)
	stmts := []ast.Node{}
	for !p.match(token.RIGHTBRACE) && p.err == nil {
		if stmt := p.statement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RIGHTBRACE)

	return stmts
}

// statement = letStmt | ifStmt | guardStmt | returnStmt | expr ;
func (p *Parser) statement() ast.Node {
	switch {
	case p.match(token.LET):
		return p.letStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.GUARD):
		return p.guardStmt()
	case p.match(token.RETURN):
		return p.returnStmt()
	default:
		return p.expr()
	}
}

// letStmt = "let" IDENT (":" type)? "=" expr ;
func (p *Parser) letStmt() ast.Node {
	p.consume(token.LET)
	name := p.consume(token.IDENT)
	var declaredType ast.Node
	if p.match(token.COLON) {
		p.advance()
		declaredType = p.typeRef()
	}
	p.consume(token.EQUAL)
	init := p.expr()

	return &ast.Let{Name: name, Type: declaredType, Init: init}
}

// ifStmt = "if" expr block ("else" (ifStmt | block))? ;
func (p *Parser) ifStmt() ast.Node {
	tok := p.consume(token.IF)
	cond := p.expr()
	then := p.block()
	var elseBranch []ast.Node
	if p.match(token.ELSE) {
		p.advance()
		if p.match(token.IF) {
			elseBranch = []ast.Node{p.ifStmt()}
		} else {
			elseBranch = p.block()
		}
	}

	return &ast.If{Token: tok, Cond: cond, Then: then, Else: elseBranch}
}

// guardStmt = "guard" expr "else" block ;
func (p *Parser) guardStmt() ast.Node {
	tok := p.consume(token.GUARD)
	cond := p.expr()
	p.consume(token.ELSE)
	elseBody := p.block()

	return &ast.Guard{Token: tok, Cond: cond, Else: elseBody}
}

// returnStmt = "return" expr? ;
func (p *Parser) returnStmt() ast.Node {
	tok := p.consume(token.RETURN)
	var expr ast.Node
	if !p.match(token.RIGHTBRACE) {
		expr = p.expr()
	}

	return &ast.Return{Token: tok, Expr: expr}
}

// expr = or ;
func (p *Parser) expr() ast.Node {
	if p.IsAtEnd() {
		p.recover(unexpectedToken(p.peek(), "expression"))
		return nil
	}

	return p.or()
}

// or = and ("||" and)* ;
func (p *Parser) or() ast.Node {
	expr := p.and()
	for p.match(token.OROR) {
		op := p.advance()
		right := p.and()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}

	return expr
}

// and = equality ("&&" equality)* ;
func (p *Parser) and() ast.Node {
	expr := p.equality()
	for p.match(token.ANDAND) {
		op := p.advance()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}

	return expr
}

// equality = relational (("==" | "!=") relational)* ;
func (p *Parser) equality() ast.Node {
	expr := p.relational()
	for p.match(token.EQUALEQUAL) || p.match(token.BANGEQUAL) {
		op := p.advance()
		right := p.relational()
		expr = &ast.Comparison{Left: expr, Op: op, Right: right}
	}

	return expr
}

// relational = additive (("<" | ">" | "<=" | ">=") additive)* ;
func (p *Parser) relational() ast.Node {
	expr := p.additive()
	for p.match(token.LESS) || p.match(token.GREATER) || p.match(token.LESSEQUAL) || p.match(token.GREATEREQUAL) {
		op := p.advance()
		right := p.additive()
		expr = &ast.Comparison{Left: expr, Op: op, Right: right}
	}

	return expr
}

// additive = multiplicative (("+" | "-") multiplicative)* ;
func (p *Parser) additive() ast.Node {
	expr := p.multiplicative()
	for p.match(token.PLUS) || p.match(token.MINUS) {
		op := p.advance()
		right := p.multiplicative()
		expr = &ast.Arithmetic{Left: expr, Op: op, Right: right}
	}

	return expr
}

// multiplicative = unary (("*" | "/") unary)* ;
func (p *Parser) multiplicative() ast.Node {
	expr := p.unary()
	for p.match(token.STAR) || p.match(token.SLASH) {
		op := p.advance()
		right := p.unary()
		expr = &ast.Arithmetic{Left: expr, Op: op, Right: right}
	}

	return expr
}

// unary = ("!" | "-") unary | postfix ;
func (p *Parser) unary() ast.Node {
	if p.match(token.BANG) || p.match(token.MINUS) {
		op := p.advance()
		operand := p.unary()
		return &ast.Unary{Op: op, Operand: operand}
	}

	return p.postfix()
}

// postfix = primary "?"* ;
// `?` binds tighter than any binary operator and may only follow a
// call or identifier expression.
func (p *Parser) postfix() ast.Node {
	expr := p.primary()
	for p.match(token.QUESTION) {
		tok := p.advance()
		switch expr.(type) {
		case *ast.Call, *ast.Var:
			expr = &ast.Propagate{Expr: expr, Token: tok}
		default:
			p.recover(utils.PosError{Where: tok, Err: PropagationOperandError{}})
			return expr
		}
	}

	return expr
}

// primary = NUMBER | STRING | INTERP | "true" | "false"
//         | "Ok" "(" expr ")" | "Error" "(" expr ")"
//         | matchExpr | IDENT ("." IDENT)? callTail? | "(" expr ")" ;
func (p *Parser) primary() ast.Node {
	if p.match(token.MATCH) {
		return p.matchExpr()
	}

	//exhaustive:ignore
	switch tok := p.advance(); tok.Kind {
	case token.INTEGER, token.FLOAT:
		return &ast.NumberLit{Token: tok}
	case token.STRING:
		return &ast.StringLit{Token: tok}
	case token.TRUE, token.FALSE:
		return &ast.BoolLit{Token: tok}
	case token.INTERP:
		return p.interpolation(tok)
	case token.OK, token.ERROR:
		p.consume(token.LEFTPAREN)
		value := p.expr()
		p.consume(token.RIGHTPAREN)
		return &ast.ResultExpr{Token: tok, Value: value}
	case token.LEFTPAREN:
		expr := p.expr()
		p.consume(token.RIGHTPAREN)
		return expr
	case token.IDENT:
		name := tok
		if p.match(token.DOT) {
			p.advance()
			member := p.consume(token.IDENT)
			name = token.Token{
				Kind:   token.IDENT,
				Lexeme: tok.Lexeme + "." + member.Lexeme,
				Line:   tok.Line,
				Column: tok.Column,
			}
			if !p.match(token.LEFTPAREN) {
				p.recover(unexpectedToken(p.peek(), "`(`"))
				return nil
			}
		}
		if p.match(token.LEFTPAREN) {
			return p.callTail(name)
		}
		return &ast.Var{Name: tok}
	default:
		p.recover(unexpectedToken(tok, "expression"))
		return nil
	}
}

// callTail = "(" (expr ("," expr)*)? ")" ;
func (p *Parser) callTail(name token.Token) ast.Node {
	p.consume(token.LEFTPAREN)
	args := []ast.Node{}
	for !p.match(token.RIGHTPAREN) && p.err == nil {
		if len(args) > 0 {
			p.consume(token.COMMA)
		}
		args = append(args, p.expr())
	}
	p.consume(token.RIGHTPAREN)

	return &ast.Call{Name: name, Args: args}
}

// matchExpr = "match" expr "{" matchCase ("," matchCase)* ","? "}" ;
// matchCase = ("Ok" | "Error") "(" IDENT ")" "->" (block | expr) ;
func (p *Parser) matchExpr() ast.Node {
	tok := p.consume(token.MATCH)
	scrutinee := p.expr()
	p.consume(token.LEFTBRACE)
	cases := []*ast.MatchCase{}
	for !p.match(token.RIGHTBRACE) && p.err == nil {
		pattern := p.advance()
		if pattern.Kind != token.OK && pattern.Kind != token.ERROR {
			p.recover(unexpectedToken(pattern, "`Ok`", "`Error`"))
			break
		}
		p.consume(token.LEFTPAREN)
		binding := p.consume(token.IDENT)
		p.consume(token.RIGHTPAREN)
		p.consume(token.ARROW)
		var body []ast.Node
		if p.match(token.LEFTBRACE) {
			body = p.block()
		} else {
			body = []ast.Node{p.expr()}
		}
		cases = append(cases, &ast.MatchCase{Pattern: pattern, Binding: binding, Body: body})
		if p.match(token.COMMA) {
			p.advance()
		}
	}
	p.consume(token.RIGHTBRACE)

	return &ast.Match{Token: tok, Scrutinee: scrutinee, Cases: cases}
}

// type = IDENT ("<" type ("," type)* ">")? ;
func (p *Parser) typeRef() ast.Node {
	name := p.consume(token.IDENT)
	var args []ast.Node
	if p.match(token.LESS) {
		p.advance()
		args = append(args, p.typeRef())
		for p.match(token.COMMA) && p.err == nil {
			p.advance()
			args = append(args, p.typeRef())
		}
		p.consume(token.GREATER)
	}

	return &ast.TypeRef{Name: name, Args: args}
}

// interpolation splits an INTERP token's template into literal and
// expression parts. Expressions are delimited by braces and re-run
// through the lexer and an expression parser.
func (p *Parser) interpolation(tok token.Token) ast.Node {
	template, _ := tok.Literal.(string)
	parts := []ast.Node{}
	var literal strings.Builder

	flush := func() {
		if literal.Len() == 0 {
			return
		}
		parts = append(parts, &ast.StringLit{Token: token.Token{
			Kind:    token.STRING,
			Lexeme:  literal.String(),
			Literal: literal.String(),
			Line:    tok.Line,
			Column:  tok.Column,
		}})
		literal.Reset()
	}

	rest := template
	for len(rest) > 0 {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			literal.WriteString(rest)
			break
		}
		literal.WriteString(rest[:open])
		rest = rest[open+1:]

		closing := strings.IndexByte(rest, '}')
		if closing < 0 {
			p.recover(utils.PosError{Where: tok, Err: InterpolationError{Message: "unterminated interpolation expression"}})
			return nil
		}
		exprText := strings.TrimSpace(rest[:closing])
		rest = rest[closing+1:]
		if exprText == "" {
			p.recover(utils.PosError{Where: tok, Err: InterpolationError{Message: "empty interpolation expression"}})
			return nil
		}

		flush()
		part, err := parseSubExpr(exprText)
		if err != nil {
			p.recover(utils.PosError{Where: tok, Err: err})
			return nil
		}
		parts = append(parts, part)
	}
	flush()

	return &ast.StringInterp{Token: tok, Parts: parts}
}

func parseSubExpr(source string) (ast.Node, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, fmt.Errorf("in interpolation expression: %w", err)
	}
	sub := NewParser(tokens)
	expr, err := sub.ParseExpr()
	if err != nil {
		return nil, fmt.Errorf("in interpolation expression: %w", err)
	}
	if !sub.IsAtEnd() {
		return nil, fmt.Errorf("in interpolation expression: %w", InterpolationError{Message: "trailing input after expression"})
	}

	return expr, nil
}

// resolveExports marks functions whose names appear in an export list
// of their enclosing scope. Inline `export function` forms were
// already flagged by funcDecl.
func resolveExports(program *ast.Program) {
	markExports(program.Decls)
	for _, decl := range program.Decls {
		if module, ok := decl.(*ast.Module); ok {
			markExports(module.Body)
		}
	}
}

func markExports(decls []ast.Node) {
	exported := map[string]bool{}
	for _, decl := range decls {
		if export, ok := decl.(*ast.Export); ok {
			for _, name := range export.Names {
				exported[name.Lexeme] = true
			}
		}
	}
	for _, decl := range decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && exported[fn.Name.Lexeme] {
			fn.Exported = true
		}
	}
}

// recover records err. Only the first error is kept; parsing of the
// unit stops at the first structural mismatch.
func (p *Parser) recover(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p Parser) peekNth(n int) token.Token {
	return p.tokens[p.current+n]
}

func (p *Parser) advance() token.Token {
	if !p.IsAtEnd() {
		p.current++
	}

	return p.previous()
}

func (p Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p Parser) IsAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p Parser) match(kind token.Kind) bool {
	if p.IsAtEnd() {
		return false
	}

	return p.peek().Kind == kind
}

func (p Parser) matchNth(n int, kind token.Kind) bool {
	if p.current+n >= len(p.tokens) {
		return false
	}
	if p.tokens[p.current+n].Kind == token.EOF {
		return false
	}

	return p.peekNth(n).Kind == kind
}

func (p *Parser) consume(kind token.Kind) token.Token {
	if p.match(kind) {
		return p.advance()
	}

	p.recover(unexpectedToken(p.peek(), kind.String()))

	return p.peek()
}

type UnexpectedTokenError struct {
	Expected []string
}

func (e UnexpectedTokenError) Error() string {
	var msg string
	if len(e.Expected) >= 1 {
		msg = e.Expected[0]
	}

	for _, ex := range e.Expected[1:] {
		msg = msg + ", " + ex
	}

	return "unexpected token: expected " + msg
}

type PropagationOperandError struct{}

func (e PropagationOperandError) Error() string {
	return "`?` may only follow a call or identifier expression"
}

type InterpolationError struct {
	Message string
}

func (e InterpolationError) Error() string {
	return e.Message
}

func unexpectedToken(t token.Token, expected ...string) error {
	return utils.PosError{Where: t, Err: UnexpectedTokenError{Expected: expected}}
}
