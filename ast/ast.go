package ast

import (
	"fmt"
	"strings"

	"github.com/mikaelliljedahl/flowlang/token"
)

// Node is the closed set of FlowLang syntax tree variants. The parser
// is the only producer; the checker and the generator read the tree
// and never mutate it.
type Node interface {
	fmt.Stringer
	Base() token.Token
	// Plate applies the given function to each child node.
	// If f returns an error, f also must return the original argument n.
	Plate(error, func(Node, error) (Node, error)) (Node, error)
}

// Program is the root of one compilation unit.
type Program struct {
	Decls []Node
}

func (p Program) String() string {
	return parenthesize("program", nodes(p.Decls))
}

func (p *Program) Base() token.Token {
	if len(p.Decls) == 0 {
		return token.Token{}
	}
	return p.Decls[0].Base()
}

func (p *Program) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, decl := range p.Decls {
		p.Decls[i], err = f(decl, err)
	}
	return p, err
}

var _ Node = &Program{}

// SpecBlock is the documentation payload of a `/*spec ... spec*/`
// block attached to the function declared immediately after it.
type SpecBlock struct {
	Token token.Token
	Text  string
}

// FuncDecl is a function declaration.
//
// Invariant: Pure implies Effects.Empty(); the checker reports any
// declaration that violates it.
type FuncDecl struct {
	Name     token.Token
	Params   []*Param
	Return   Node
	Effects  *EffectSet
	Pure     bool
	Exported bool
	Body     []Node
	Spec     *SpecBlock
}

func (d FuncDecl) String() string {
	head := "func"
	if d.Pure {
		head = "pure-func"
	}
	parts := []any{d.Name, parenthesize("params", nodes(d.Params))}
	if !d.Effects.Empty() {
		parts = append(parts, parenthesize("uses", strings.Join(d.Effects.Names(), " ")))
	}
	parts = append(parts, d.Return, nodes(d.Body))
	return parenthesize(head, parts...)
}

func (d *FuncDecl) Base() token.Token {
	return d.Name
}

func (d *FuncDecl) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, param := range d.Params {
		var p Node
		p, err = f(param, err)
		d.Params[i] = p.(*Param)
	}
	if d.Return != nil {
		d.Return, err = f(d.Return, err)
	}
	for i, stmt := range d.Body {
		d.Body[i], err = f(stmt, err)
	}
	return d, err
}

var _ Node = &FuncDecl{}

type Param struct {
	Name token.Token
	Type Node
}

func (p Param) String() string {
	return parenthesize("param", p.Name, p.Type)
}

func (p *Param) Base() token.Token {
	return p.Name
}

func (p *Param) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	p.Type, err = f(p.Type, err)
	return p, err
}

var _ Node = &Param{}

// TypeRef is a type reference, possibly generic: `int`,
// `Result<int, string>`, `Option<float>`.
type TypeRef struct {
	Name token.Token
	Args []Node
}

func (t TypeRef) String() string {
	if len(t.Args) == 0 {
		return parenthesize("type", t.Name)
	}
	return parenthesize("type", t.Name, nodes(t.Args))
}

func (t *TypeRef) Base() token.Token {
	return t.Name
}

func (t *TypeRef) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, arg := range t.Args {
		t.Args[i], err = f(arg, err)
	}
	return t, err
}

var _ Node = &TypeRef{}

type Let struct {
	Name token.Token
	Type Node // nil when no declared type
	Init Node
}

func (l Let) String() string {
	if l.Type == nil {
		return parenthesize("let", l.Name, l.Init)
	}
	return parenthesize("let", l.Name, l.Type, l.Init)
}

func (l *Let) Base() token.Token {
	return l.Name
}

func (l *Let) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	if l.Type != nil {
		l.Type, err = f(l.Type, err)
	}
	l.Init, err = f(l.Init, err)
	return l, err
}

var _ Node = &Let{}

type If struct {
	Token token.Token
	Cond  Node
	Then  []Node
	Else  []Node // nil when no else branch
}

func (i If) String() string {
	if i.Else == nil {
		return parenthesize("if", i.Cond, nodes(i.Then))
	}
	return parenthesize("if", i.Cond, nodes(i.Then), nodes(i.Else))
}

func (i *If) Base() token.Token {
	return i.Token
}

func (i *If) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	i.Cond, err = f(i.Cond, err)
	for j, stmt := range i.Then {
		i.Then[j], err = f(stmt, err)
	}
	for j, stmt := range i.Else {
		i.Else[j], err = f(stmt, err)
	}
	return i, err
}

var _ Node = &If{}

// Guard is an early-exit conditional: the else body runs when the
// condition is false, then execution falls through.
type Guard struct {
	Token token.Token
	Cond  Node
	Else  []Node
}

func (g Guard) String() string {
	return parenthesize("guard", g.Cond, nodes(g.Else))
}

func (g *Guard) Base() token.Token {
	return g.Token
}

func (g *Guard) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	g.Cond, err = f(g.Cond, err)
	for i, stmt := range g.Else {
		g.Else[i], err = f(stmt, err)
	}
	return g, err
}

var _ Node = &Guard{}

type Return struct {
	Token token.Token
	Expr  Node // nil for a bare return
}

func (r Return) String() string {
	if r.Expr == nil {
		return parenthesize("return")
	}
	return parenthesize("return", r.Expr)
}

func (r *Return) Base() token.Token {
	return r.Token
}

func (r *Return) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	if r.Expr != nil {
		r.Expr, err = f(r.Expr, err)
	}
	return r, err
}

var _ Node = &Return{}

// Arithmetic, Comparison and Logical are deliberately distinct
// variants: logical operators lower with short-circuit semantics, the
// others do not.
type Arithmetic struct {
	Left  Node
	Op    token.Token
	Right Node
}

func (a Arithmetic) String() string {
	return parenthesize("arith", a.Op, a.Left, a.Right)
}

func (a *Arithmetic) Base() token.Token {
	return a.Op
}

func (a *Arithmetic) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	a.Left, err = f(a.Left, err)
	a.Right, err = f(a.Right, err)
	return a, err
}

var _ Node = &Arithmetic{}

type Comparison struct {
	Left  Node
	Op    token.Token
	Right Node
}

func (c Comparison) String() string {
	return parenthesize("compare", c.Op, c.Left, c.Right)
}

func (c *Comparison) Base() token.Token {
	return c.Op
}

func (c *Comparison) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	c.Left, err = f(c.Left, err)
	c.Right, err = f(c.Right, err)
	return c, err
}

var _ Node = &Comparison{}

type Logical struct {
	Left  Node
	Op    token.Token
	Right Node
}

func (l Logical) String() string {
	return parenthesize("logic", l.Op, l.Left, l.Right)
}

func (l *Logical) Base() token.Token {
	return l.Op
}

func (l *Logical) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	l.Left, err = f(l.Left, err)
	l.Right, err = f(l.Right, err)
	return l, err
}

var _ Node = &Logical{}

type Unary struct {
	Op      token.Token
	Operand Node
}

func (u Unary) String() string {
	return parenthesize("unary", u.Op, u.Operand)
}

func (u *Unary) Base() token.Token {
	return u.Op
}

func (u *Unary) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	u.Operand, err = f(u.Operand, err)
	return u, err
}

var _ Node = &Unary{}

type Var struct {
	Name token.Token
}

func (v Var) String() string {
	return parenthesize("var", v.Name)
}

func (v *Var) Base() token.Token {
	return v.Name
}

func (v *Var) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return v, err
}

var _ Node = &Var{}

// Call is a function call. Calls into a module are qualified; the
// lexeme of Name is then `Module.function`.
type Call struct {
	Name token.Token
	Args []Node
}

func (c Call) String() string {
	return parenthesize("call", c.Name, nodes(c.Args))
}

func (c *Call) Base() token.Token {
	return c.Name
}

func (c *Call) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, arg := range c.Args {
		c.Args[i], err = f(arg, err)
	}
	return c, err
}

var _ Node = &Call{}

// NumberLit carries an int or float64 literal value.
type NumberLit struct {
	token.Token
}

func (n NumberLit) String() string {
	return parenthesize("number", n.Token)
}

func (n *NumberLit) Base() token.Token {
	return n.Token
}

func (n *NumberLit) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return n, err
}

var _ Node = &NumberLit{}

type StringLit struct {
	token.Token
}

// Value returns the unescaped string content.
func (s StringLit) Value() string {
	value, _ := s.Literal.(string)
	return value
}

func (s StringLit) String() string {
	return parenthesize("string", fmt.Sprintf("%q", s.Value()))
}

func (s *StringLit) Base() token.Token {
	return s.Token
}

func (s *StringLit) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return s, err
}

var _ Node = &StringLit{}

type BoolLit struct {
	token.Token
}

func (b BoolLit) Value() bool {
	return b.Kind == token.TRUE
}

func (b BoolLit) String() string {
	return parenthesize("bool", b.Token)
}

func (b *BoolLit) Base() token.Token {
	return b.Token
}

func (b *BoolLit) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return b, err
}

var _ Node = &BoolLit{}

// StringInterp is an interpolated string split into its ordered
// literal (StringLit) and expression parts.
type StringInterp struct {
	Token token.Token
	Parts []Node
}

func (s StringInterp) String() string {
	return parenthesize("interp", nodes(s.Parts))
}

func (s *StringInterp) Base() token.Token {
	return s.Token
}

func (s *StringInterp) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, part := range s.Parts {
		s.Parts[i], err = f(part, err)
	}
	return s, err
}

var _ Node = &StringInterp{}

// ResultExpr is an `Ok(expr)` or `Error(expr)` literal. Token.Kind is
// token.OK or token.ERROR.
type ResultExpr struct {
	Token token.Token
	Value Node
}

func (r ResultExpr) String() string {
	if r.Token.Kind == token.OK {
		return parenthesize("ok", r.Value)
	}
	return parenthesize("error", r.Value)
}

func (r *ResultExpr) Base() token.Token {
	return r.Token
}

func (r *ResultExpr) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	r.Value, err = f(r.Value, err)
	return r, err
}

var _ Node = &ResultExpr{}

// Propagate is the postfix `?` operator.
type Propagate struct {
	Expr  Node
	Token token.Token
}

func (p Propagate) String() string {
	return parenthesize("propagate", p.Expr)
}

func (p *Propagate) Base() token.Token {
	return p.Token
}

func (p *Propagate) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	p.Expr, err = f(p.Expr, err)
	return p, err
}

var _ Node = &Propagate{}

type Match struct {
	Token     token.Token
	Scrutinee Node
	Cases     []*MatchCase
}

func (m Match) String() string {
	return parenthesize("match", m.Scrutinee, nodes(m.Cases))
}

func (m *Match) Base() token.Token {
	return m.Token
}

func (m *Match) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	m.Scrutinee, err = f(m.Scrutinee, err)
	for i, c := range m.Cases {
		var n Node
		n, err = f(c, err)
		m.Cases[i] = n.(*MatchCase)
	}
	return m, err
}

var _ Node = &Match{}

// MatchCase is one `Ok(binding) -> body` or `Error(binding) -> body`
// arm. Pattern.Kind is token.OK or token.ERROR.
type MatchCase struct {
	Pattern token.Token
	Binding token.Token
	Body    []Node
}

func (c MatchCase) String() string {
	head := "case-ok"
	if c.Pattern.Kind == token.ERROR {
		head = "case-error"
	}
	return parenthesize(head, c.Binding, nodes(c.Body))
}

func (c *MatchCase) Base() token.Token {
	return c.Pattern
}

func (c *MatchCase) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, stmt := range c.Body {
		c.Body[i], err = f(stmt, err)
	}
	return c, err
}

var _ Node = &MatchCase{}

type Module struct {
	Name token.Token
	Body []Node
}

func (m Module) String() string {
	return parenthesize("module", m.Name, nodes(m.Body))
}

func (m *Module) Base() token.Token {
	return m.Name
}

func (m *Module) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, decl := range m.Body {
		m.Body[i], err = f(decl, err)
	}
	return m, err
}

var _ Node = &Module{}

type Import struct {
	Token    token.Token
	Module   token.Token
	Names    []token.Token // specific names; empty for a plain import
	Wildcard bool
}

func (i Import) String() string {
	if i.Wildcard {
		return parenthesize("import", "*", i.Module)
	}
	if len(i.Names) == 0 {
		return parenthesize("import", i.Module)
	}
	parts := []any{}
	for _, name := range i.Names {
		parts = append(parts, name)
	}
	parts = append(parts, i.Module)
	return parenthesize("import", parts...)
}

func (i *Import) Base() token.Token {
	return i.Token
}

func (i *Import) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return i, err
}

var _ Node = &Import{}

type Export struct {
	Token token.Token
	Names []token.Token
}

func (e Export) String() string {
	parts := []any{}
	for _, name := range e.Names {
		parts = append(parts, name)
	}
	return parenthesize("export", parts...)
}

func (e *Export) Base() token.Token {
	return e.Token
}

func (e *Export) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return e, err
}

var _ Node = &Export{}

// parenthesize renders a node head and its elements as one
// S-expression. Tokens render as their lexeme, nil nodes are skipped.
func parenthesize(head string, elems ...any) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(head)
	for _, elem := range elems {
		str := render(elem)
		if str == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(str)
	}
	b.WriteString(")")
	return b.String()
}

func render(elem any) string {
	switch e := elem.(type) {
	case nil:
		return ""
	case token.Token:
		return e.Pretty()
	case string:
		return e
	case fmt.Stringer:
		return e.String()
	default:
		return fmt.Sprintf("%v", e)
	}
}

// nodes renders a node slice space-separated, skipping nils.
func nodes[T Node](elems []T) string {
	var b strings.Builder
	for _, elem := range elems {
		var n Node = elem
		if n == nil {
			continue
		}
		if b.Len() != 0 {
			b.WriteString(" ")
		}
		b.WriteString(n.String())
	}
	return b.String()
}

// Traverse visits the tree in depth-first order, children before the
// node itself. If f returns an error, f also must return the original
// argument n.
func Traverse(n Node, f func(Node, error) (Node, error)) (Node, error) {
	n, err := n.Plate(nil, func(n Node, err error) (Node, error) {
		return Traverse(n, f)
	})
	return f(n, err)
}

// Children returns the direct children of n.
func Children(n Node) []Node {
	var children []Node
	_, err := n.Plate(nil, func(n Node, _ error) (Node, error) {
		children = append(children, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return children
}

// Universe returns n and all nodes below it.
func Universe(n Node) []Node {
	var nodes []Node
	_, err := Traverse(n, func(n Node, _ error) (Node, error) {
		nodes = append(nodes, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return nodes
}
