package frontend

import (
	"fmt"
	"unicode"
)

type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	// Literals
	INTEGER
	REAL
	CHARACTER
	NAME

	// Keywords
	INT
	FLOAT
	CHAR
	BOOL
	VOID
	IF
	ELSE
	WHILE
	FOR
	BREAK
	CONTINUE
	RETURN
	TRUE
	FALSE

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	AMP    // &
	PIPE   // |
	CARET  // ^
	TILDE  // ~
	SHL    // <<
	SHR    // >>
	EQ     // ==
	NE     // !=
	LT     // <
	LE     // <=
	GT     // >
	GE     // >=
	ANDAND // &&
	OROR   // ||
	NOT    // !
	ASSIGN // =

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
)

var keywords = map[string]TokenType{
	"int":      INT,
	"float":    FLOAT,
	"double":   FLOAT,
	"char":     CHAR,
	"bool":     BOOL,
	"void":     VOID,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"true":     TRUE,
	"false":    FALSE,
}

type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Col    int
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Lexeme)
}

type Lexer struct {
	source []rune
	pos    int
	line   int
	col    int
}

func NewLexer(source string) *Lexer {
	return &Lexer{
		source: []rune(source),
		line:   1,
		col:    1,
	}
}

// Next returns the next token. Errors come back as ILLEGAL tokens whose
// lexeme describes the problem.
func (l *Lexer) Next() Token {
	if msg := l.skipTrivia(); msg != "" {
		return Token{Type: ILLEGAL, Lexeme: msg, Line: l.line, Col: l.col}
	}

	if l.isAtEnd() {
		return Token{Type: EOF, Line: l.line, Col: l.col}
	}

	line, col := l.line, l.col
	tok := func(typ TokenType, lexeme string) Token {
		return Token{Type: typ, Lexeme: lexeme, Line: line, Col: col}
	}

	c := l.peek()
	switch {
	case unicode.IsDigit(c):
		return l.scanNumber()
	case unicode.IsLetter(c) || c == '_':
		return l.scanIdentifier()
	case c == '\'':
		return l.scanChar()
	}

	l.advance()
	switch c {
	case '+':
		return tok(PLUS, "+")
	case '-':
		return tok(MINUS, "-")
	case '*':
		return tok(STAR, "*")
	case '/':
		return tok(SLASH, "/")
	case '%':
		return tok(PERCENT, "%")
	case '^':
		return tok(CARET, "^")
	case '~':
		return tok(TILDE, "~")
	case '(':
		return tok(LPAREN, "(")
	case ')':
		return tok(RPAREN, ")")
	case '{':
		return tok(LBRACE, "{")
	case '}':
		return tok(RBRACE, "}")
	case '[':
		return tok(LBRACKET, "[")
	case ']':
		return tok(RBRACKET, "]")
	case ',':
		return tok(COMMA, ",")
	case ';':
		return tok(SEMICOLON, ";")
	case '&':
		if l.match('&') {
			return tok(ANDAND, "&&")
		}
		return tok(AMP, "&")
	case '|':
		if l.match('|') {
			return tok(OROR, "||")
		}
		return tok(PIPE, "|")
	case '=':
		if l.match('=') {
			return tok(EQ, "==")
		}
		return tok(ASSIGN, "=")
	case '!':
		if l.match('=') {
			return tok(NE, "!=")
		}
		return tok(NOT, "!")
	case '<':
		if l.match('<') {
			return tok(SHL, "<<")
		}
		if l.match('=') {
			return tok(LE, "<=")
		}
		return tok(LT, "<")
	case '>':
		if l.match('>') {
			return tok(SHR, ">>")
		}
		if l.match('=') {
			return tok(GE, ">=")
		}
		return tok(GT, ">")
	}

	return tok(ILLEGAL, fmt.Sprintf("unexpected character %q", c))
}

// skipTrivia skips whitespace and comments. It returns a message for an
// unterminated block comment.
func (l *Lexer) skipTrivia() string {
	for !l.isAtEnd() {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekNext() == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekNext() == '*':
			l.advance()
			l.advance()
			for !(l.peek() == '*' && l.peekNext() == '/') {
				if l.isAtEnd() {
					return "unterminated comment"
				}
				l.advance()
			}
			l.advance()
			l.advance()
		default:
			return ""
		}
	}
	return ""
}

func (l *Lexer) scanNumber() Token {
	line, col := l.line, l.col
	start := l.pos
	typ := INTEGER

	for unicode.IsDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && unicode.IsDigit(l.peekNext()) {
		typ = REAL
		l.advance()
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}

	return Token{Type: typ, Lexeme: string(l.source[start:l.pos]), Line: line, Col: col}
}

func (l *Lexer) scanIdentifier() Token {
	line, col := l.line, l.col
	start := l.pos
	for unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	lexeme := string(l.source[start:l.pos])
	typ := NAME
	if kw, ok := keywords[lexeme]; ok {
		typ = kw
	}
	return Token{Type: typ, Lexeme: lexeme, Line: line, Col: col}
}

var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'0':  0,
	'\\': '\\',
	'\'': '\'',
}

// scanChar reads a character constant; the lexeme holds the decoded rune
func (l *Lexer) scanChar() Token {
	line, col := l.line, l.col
	l.advance() // opening quote

	r := l.advance()
	if r == '\\' {
		esc, ok := escapes[l.advance()]
		if !ok {
			return Token{Type: ILLEGAL, Lexeme: "unknown escape sequence", Line: line, Col: col}
		}
		r = esc
	}
	if r == 0 && l.isAtEnd() || !l.match('\'') {
		return Token{Type: ILLEGAL, Lexeme: "unterminated character constant", Line: line, Col: col}
	}
	return Token{Type: CHARACTER, Lexeme: string(r), Line: line, Col: col}
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	c := l.source[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) match(expected rune) bool {
	if l.peek() != expected || l.isAtEnd() {
		return false
	}
	l.advance()
	return true
}
