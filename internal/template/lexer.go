package template

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType identifies the type of token.
type TokenType int

// Token types. Comments never produce tokens.
const (
	TokenText TokenType = iota // literal output
	TokenExpr                  // {{ expr }}
	TokenStmt                  // {* stmt *}
	TokenEOF
)

var tokenNames = [...]string{
	TokenText: "TEXT",
	TokenExpr: "EXPR",
	TokenStmt: "STMT",
	TokenEOF:  "EOF",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

// delim describes one tag form.
type delim struct {
	open, close string
	kind        TokenType
	comment     bool
	// nested tracks braces so dict literals can contain the closing delimiter
	nested bool
}

var delims = []delim{
	{open: "{{", close: "}}", kind: TokenExpr, nested: true},
	{open: "{*", close: "*}", kind: TokenStmt},
	{open: "{#", close: "#}", comment: true},
}

// trimMarker is "-" followed by a space. "{{- x }}" trims the whitespace
// before the tag and "{{ x -}}" the whitespace after it, as in text/template.
const trimMarker = "-"

// Lexer tokenizes a template string.
type Lexer struct {
	input string
	file  string
	pos   int
	line  int
	col   int

	start Position
	// trimNext drops leading whitespace from the next text token
	trimNext bool
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input, file string) *Lexer {
	return &Lexer{input: input, file: file, line: 1, col: 1}
}

// Tokenize converts the input into a slice of tokens ending with TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for l.pos < len(l.input) {
		d, ok := l.delimAt()
		if !ok {
			tokens = l.appendText(tokens, l.scanText())
			continue
		}

		tok, trimBefore, err := l.scanTag(d)
		if err != nil {
			return nil, err
		}
		if trimBefore {
			tokens = trimTrailingText(tokens)
		}
		if !d.comment {
			tokens = append(tokens, tok)
		}
	}
	return append(tokens, Token{Type: TokenEOF, Pos: l.position()}), nil
}

func (l *Lexer) appendText(tokens []Token, tok Token) []Token {
	if l.trimNext {
		tok.Value = strings.TrimLeftFunc(tok.Value, unicode.IsSpace)
		l.trimNext = false
	}
	if tok.Value == "" {
		return tokens
	}
	return append(tokens, tok)
}

func trimTrailingText(tokens []Token) []Token {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenText {
		return tokens
	}
	last := &tokens[len(tokens)-1]
	last.Value = strings.TrimRightFunc(last.Value, unicode.IsSpace)
	if last.Value == "" {
		return tokens[:len(tokens)-1]
	}
	return tokens
}

func (l *Lexer) delimAt() (delim, bool) {
	for _, d := range delims {
		if strings.HasPrefix(l.input[l.pos:], d.open) {
			return d, true
		}
	}
	return delim{}, false
}

// scanText consumes literal text up to the next tag or EOF.
func (l *Lexer) scanText() Token {
	l.mark()
	begin := l.pos
	for l.pos < len(l.input) {
		if _, ok := l.delimAt(); ok {
			break
		}
		l.advance()
	}
	return Token{Type: TokenText, Value: l.input[begin:l.pos], Pos: l.start}
}

// scanTag consumes one tag and reports whether it asked to trim the text
// before it.
func (l *Lexer) scanTag(d delim) (Token, bool, error) {
	l.mark()
	l.skip(len(d.open))

	trimBefore := l.hasPrefix(trimMarker+" ") || l.hasPrefix(trimMarker+"\t")
	if trimBefore {
		l.skip(len(trimMarker))
	}

	begin := l.pos
	depth := 0
	for l.pos < len(l.input) {
		if depth == 0 && l.hasPrefix(d.close) {
			body := l.input[begin:l.pos]
			l.skip(len(d.close))

			trimmed := strings.TrimRight(body, " \t")
			if strings.HasSuffix(trimmed, " "+trimMarker) || strings.HasSuffix(trimmed, "\t"+trimMarker) {
				body = strings.TrimSuffix(trimmed, trimMarker)
				l.trimNext = true
			}
			return Token{Type: d.kind, Value: strings.TrimSpace(body), Pos: l.start}, trimBefore, nil
		}

		if d.nested {
			switch l.peek() {
			case '{':
				depth++
			case '}':
				if depth > 0 {
					depth--
				}
			}
		}
		l.advance()
	}

	return Token{}, false, NewLexError(l.start, "unclosed "+d.name()+": missing '"+d.close+"'")
}

func (d delim) name() string {
	switch {
	case d.comment:
		return "comment"
	case d.kind == TokenStmt:
		return "statement"
	default:
		return "expression"
	}
}

func (l *Lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// advance moves past one rune, tracking line and column.
func (l *Lexer) advance() {
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// skip moves past n bytes of delimiter text, which never spans lines.
func (l *Lexer) skip(n int) {
	l.pos += n
	l.col += n
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) mark() {
	l.start = l.position()
}

func (l *Lexer) position() Position {
	return Position{File: l.file, Line: l.line, Column: l.col}
}
