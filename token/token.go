package token

import "fmt"

//go:generate go run golang.org/x/tools/cmd/stringer@v0.13.0 -type=Kind
type Kind int

const (
	EOF Kind = iota

	// Single-character tokens.
	LEFTPAREN
	RIGHTPAREN
	LEFTBRACE
	RIGHTBRACE
	LEFTBRACKET
	RIGHTBRACKET
	COLON
	COMMA
	DOT
	PLUS
	MINUS
	STAR
	SLASH
	BANG
	QUESTION
	EQUAL
	LESS
	GREATER

	// Multi-character operators.
	ARROW
	EQUALEQUAL
	BANGEQUAL
	LESSEQUAL
	GREATEREQUAL
	ANDAND
	OROR

	// Literals and identifiers.
	IDENT
	INTEGER
	FLOAT
	STRING
	INTERP
	SPEC

	// Keywords.
	FUNCTION
	PURE
	RETURN
	IF
	ELSE
	LET
	GUARD
	MATCH
	OK
	ERROR
	TRUE
	FALSE
	MODULE
	IMPORT
	EXPORT
	FROM
	USES

	// Effect names.
	DATABASE
	NETWORK
	LOGGING
	FILESYSTEM
	MEMORY
	IO
)

// Token is one lexeme of FlowLang source. Tokens are immutable once
// produced by the lexer.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("{%v, %q, %d:%d, %v}", t.Kind, t.Lexeme, t.Line, t.Column, t.Literal)
}

func (t Token) Pretty() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return t.Lexeme
}

func (t Token) Base() Token {
	return t
}

// IsEffect reports whether the token names one of the fixed effects.
func (t Token) IsEffect() bool {
	return t.Kind >= DATABASE && t.Kind <= IO
}

var keywords = map[string]Kind{
	"function": FUNCTION,
	"pure":     PURE,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"let":      LET,
	"guard":    GUARD,
	"match":    MATCH,
	"Ok":       OK,
	"Error":    ERROR,
	"true":     TRUE,
	"false":    FALSE,
	"module":   MODULE,
	"import":   IMPORT,
	"export":   EXPORT,
	"from":     FROM,
	"uses":     USES,

	"Database":   DATABASE,
	"Network":    NETWORK,
	"Logging":    LOGGING,
	"FileSystem": FILESYSTEM,
	"Memory":     MEMORY,
	"IO":         IO,
}

// GetKeyword looks up an identifier in the keyword table. Effect names
// are keywords too; the lexer never produces IDENT for them.
func GetKeyword(str string) (Kind, bool) {
	if k, ok := keywords[str]; ok {
		return k, true
	}
	return IDENT, false
}

// effectNames lists the effect vocabulary in its canonical order.
// The slice is never mutated after init.
var effectNames = []string{"Database", "Network", "Logging", "FileSystem", "Memory", "IO"}

// EffectNames returns the fixed effect vocabulary in canonical order.
func EffectNames() []string {
	names := make([]string, len(effectNames))
	copy(names, effectNames)
	return names
}

// IsEffectName reports whether name is a member of the fixed effect
// vocabulary.
func IsEffectName(name string) bool {
	k, ok := keywords[name]
	return ok && k >= DATABASE && k <= IO
}
