package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mikaelliljedahl/flowlang/token"
)

// Lex converts FlowLang source text into a token sequence. The last
// token is always EOF, even for empty input. The first malformed
// construct aborts the scan; later stages never see a partial stream.
func Lex(source string) ([]token.Token, error) {
	lexer := lexer{
		source: source,
		tokens: []token.Token{},
		line:   1,
		column: 1,
	}

	for !lexer.isAtEnd() {
		if err := lexer.scanToken(); err != nil {
			return nil, err
		}
	}

	lexer.tokens = append(lexer.tokens, token.Token{Kind: token.EOF, Lexeme: "", Line: lexer.line, Column: lexer.column})

	return lexer.tokens, nil
}

type lexer struct {
	source string
	tokens []token.Token

	start   int // start of current lexeme
	current int // current position in source
	line    int // line of current position
	column  int // column of current position

	startLine   int // line of current lexeme
	startColumn int // column of current lexeme
}

func (l lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l lexer) peek() rune {
	if l.isAtEnd() {
		return '\x00'
	}
	runeValue, _ := utf8.DecodeRuneInString(l.source[l.current:])

	return runeValue
}

func (l lexer) peekNext() rune {
	_, width := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+width >= len(l.source) {
		return '\x00'
	}
	runeValue, _ := utf8.DecodeRuneInString(l.source[l.current+width:])

	return runeValue
}

func (l *lexer) advance() rune {
	runeValue, width := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += width
	if runeValue == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	return runeValue
}

// match consumes the next rune when it equals expected.
func (l *lexer) match(expected rune) bool {
	if l.peek() != expected {
		return false
	}
	l.advance()

	return true
}

func (l *lexer) addToken(kind token.Kind, literal any) {
	text := l.source[l.start:l.current]
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: text, Literal: literal, Line: l.startLine, Column: l.startColumn})
}

type UnexpectedCharacterError struct {
	Line   int
	Column int
	Char   rune
}

func (e UnexpectedCharacterError) Error() string {
	return fmt.Sprintf("%d:%d: unexpected character %q", e.Line, e.Column, e.Char)
}

type UnterminatedStringError struct {
	Line   int
	Column int
}

func (e UnterminatedStringError) Error() string {
	return fmt.Sprintf("%d:%d: unterminated string", e.Line, e.Column)
}

type UnterminatedCommentError struct {
	Line   int
	Column int
	Spec   bool
}

func (e UnterminatedCommentError) Error() string {
	if e.Spec {
		return fmt.Sprintf("%d:%d: unterminated specification block", e.Line, e.Column)
	}
	return fmt.Sprintf("%d:%d: unterminated block comment", e.Line, e.Column)
}

type InvalidEscapeError struct {
	Line   int
	Column int
	Char   rune
}

func (e InvalidEscapeError) Error() string {
	return fmt.Sprintf("%d:%d: invalid escape sequence \\%c", e.Line, e.Column, e.Char)
}

func (l *lexer) scanToken() error {
	l.start = l.current
	l.startLine = l.line
	l.startColumn = l.column
	char := l.advance()
	switch char {
	case ' ', '\r', '\t', '\n':
		// whitespace; advance already tracked the line counter
		return nil
	case '(':
		l.addToken(token.LEFTPAREN, nil)
	case ')':
		l.addToken(token.RIGHTPAREN, nil)
	case '{':
		l.addToken(token.LEFTBRACE, nil)
	case '}':
		l.addToken(token.RIGHTBRACE, nil)
	case '[':
		l.addToken(token.LEFTBRACKET, nil)
	case ']':
		l.addToken(token.RIGHTBRACKET, nil)
	case ':':
		l.addToken(token.COLON, nil)
	case ',':
		l.addToken(token.COMMA, nil)
	case '.':
		l.addToken(token.DOT, nil)
	case '+':
		l.addToken(token.PLUS, nil)
	case '*':
		l.addToken(token.STAR, nil)
	case '?':
		l.addToken(token.QUESTION, nil)
	case '-':
		if l.match('>') {
			l.addToken(token.ARROW, nil)
		} else {
			l.addToken(token.MINUS, nil)
		}
	case '/':
		switch {
		case l.match('/'):
			l.lineComment()
		case l.match('*'):
			return l.blockComment()
		default:
			l.addToken(token.SLASH, nil)
		}
	case '=':
		if l.match('=') {
			l.addToken(token.EQUALEQUAL, nil)
		} else {
			l.addToken(token.EQUAL, nil)
		}
	case '!':
		if l.match('=') {
			l.addToken(token.BANGEQUAL, nil)
		} else {
			l.addToken(token.BANG, nil)
		}
	case '<':
		if l.match('=') {
			l.addToken(token.LESSEQUAL, nil)
		} else {
			l.addToken(token.LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.addToken(token.GREATEREQUAL, nil)
		} else {
			l.addToken(token.GREATER, nil)
		}
	case '&':
		if l.match('&') {
			l.addToken(token.ANDAND, nil)
		} else {
			return UnexpectedCharacterError{Line: l.startLine, Column: l.startColumn, Char: char}
		}
	case '|':
		if l.match('|') {
			l.addToken(token.OROR, nil)
		} else {
			return UnexpectedCharacterError{Line: l.startLine, Column: l.startColumn, Char: char}
		}
	case '"':
		return l.string(token.STRING)
	case '$':
		if l.match('"') {
			return l.string(token.INTERP)
		}
		return UnexpectedCharacterError{Line: l.startLine, Column: l.startColumn, Char: char}
	default:
		if isDigit(char) {
			return l.number()
		}
		if isAlpha(char) {
			l.identifier()
			return nil
		}
		return UnexpectedCharacterError{Line: l.startLine, Column: l.startColumn, Char: char}
	}

	return nil
}

func (l *lexer) lineComment() {
	for l.peek() != '\n' && !l.isAtEnd() {
		l.advance()
	}
}

// blockComment discards `/* ... */`. The `/*spec ... spec*/` form is
// kept as a single SPEC token whose literal is the block body. The
// marker only counts when the next character cannot continue an
// identifier, so `/*special case*/` stays an ordinary comment.
func (l *lexer) blockComment() error {
	isSpec := l.isSpecBlock()
	if isSpec {
		for i := 0; i < 4; i++ {
			l.advance()
		}
	}

	bodyStart := l.current
	terminator := "*/"
	if isSpec {
		terminator = "spec*/"
	}

	for !strings.HasPrefix(l.source[l.current:], terminator) {
		if l.isAtEnd() {
			return UnterminatedCommentError{Line: l.startLine, Column: l.startColumn, Spec: isSpec}
		}
		l.advance()
	}

	body := l.source[bodyStart:l.current]
	for i := 0; i < len(terminator); i++ {
		l.advance()
	}

	if isSpec {
		l.addToken(token.SPEC, body)
	}

	return nil
}

func (l lexer) isSpecBlock() bool {
	rest := l.source[l.current:]
	if !strings.HasPrefix(rest, "spec") {
		return false
	}
	next, _ := utf8.DecodeRuneInString(rest[len("spec"):])

	return !isAlpha(next) && !isDigit(next)
}

// string scans both plain and interpolated string literals. For INTERP
// tokens the literal is the whole escape-processed template; splitting
// it into literal and expression parts is the parser's job.
func (l *lexer) string(kind token.Kind) error {
	var value strings.Builder
	for l.peek() != '"' && !l.isAtEnd() {
		char := l.advance()
		if char != '\\' {
			value.WriteRune(char)
			continue
		}
		if l.isAtEnd() {
			return UnterminatedStringError{Line: l.startLine, Column: l.startColumn}
		}
		escape := l.advance()
		switch escape {
		case '"':
			value.WriteRune('"')
		case '\\':
			value.WriteRune('\\')
		case 'n':
			value.WriteRune('\n')
		case 't':
			value.WriteRune('\t')
		case 'r':
			value.WriteRune('\r')
		default:
			return InvalidEscapeError{Line: l.line, Column: l.column, Char: escape}
		}
	}

	if l.isAtEnd() {
		return UnterminatedStringError{Line: l.startLine, Column: l.startColumn}
	}
	l.advance() // closing quote

	l.addToken(kind, value.String())

	return nil
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func (l *lexer) number() error {
	for isDigit(l.peek()) {
		l.advance()
	}

	isFloat := false
	if l.peek() == '.' && isDigit(l.peekNext()) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	text := l.source[l.start:l.current]
	if isFloat {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("invalid float literal: %w", err)
		}
		l.addToken(token.FLOAT, value)

		return nil
	}

	value, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("invalid integer literal: %w", err)
	}
	l.addToken(token.INTEGER, value)

	return nil
}

func isAlpha(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func (l *lexer) identifier() {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}

	value := l.source[l.start:l.current]

	if k, ok := token.GetKeyword(value); ok {
		l.addToken(k, nil)
	} else {
		l.addToken(token.IDENT, nil)
	}
}
