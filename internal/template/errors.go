package template

import "fmt"

// Error is a template error tied to a source position.
type Error interface {
	error
	Position() Position
}

type posError struct {
	pos Position
	msg string
}

func (e *posError) Position() Position { return e.pos }

func (e *posError) Error() string {
	return e.pos.String() + ": " + e.msg
}

// LexError is a tag that never closes.
type LexError struct {
	posError
}

// NewLexError creates a new lexer error.
func NewLexError(pos Position, msg string) *LexError {
	return &LexError{posError{pos: pos, msg: msg}}
}

// ParseError is a statement the parser does not understand.
type ParseError struct {
	posError
}

// NewParseError creates a new parser error.
func NewParseError(pos Position, msg string) *ParseError {
	return &ParseError{posError{pos: pos, msg: msg}}
}

// NewParseErrorf creates a new parser error with formatting.
func NewParseErrorf(pos Position, format string, args ...any) *ParseError {
	return NewParseError(pos, fmt.Sprintf(format, args...))
}

// UnmatchedBlockError is a block opener without its closer or the reverse.
type UnmatchedBlockError struct {
	posError
	BlockKind StmtKind
}

var unmatchedMessages = map[StmtKind]string{
	StmtFor:    "unclosed 'for' block (missing 'endfor')",
	StmtIf:     "unclosed 'if' block (missing 'endif')",
	StmtEndFor: "'endfor' without matching 'for'",
	StmtEndIf:  "'endif' without matching 'if'",
	StmtElse:   "'else' without matching 'if'",
	StmtElif:   "'elif' without matching 'if'",
}

// NewUnmatchedBlockError creates a new unmatched block error.
func NewUnmatchedBlockError(pos Position, kind StmtKind) *UnmatchedBlockError {
	msg, ok := unmatchedMessages[kind]
	if !ok {
		msg = "unmatched block: " + kind.String()
	}
	return &UnmatchedBlockError{posError: posError{pos: pos, msg: msg}, BlockKind: kind}
}

// RenderError is a failure while evaluating a parsed template. Cause holds
// the Starlark error, if any.
type RenderError struct {
	posError
	Cause error
}

// NewRenderError creates a new render error.
func NewRenderError(pos Position, msg string) *RenderError {
	return &RenderError{posError: posError{pos: pos, msg: msg}}
}

// NewRenderErrorf creates a new render error with formatting.
func NewRenderErrorf(pos Position, format string, args ...any) *RenderError {
	return NewRenderError(pos, fmt.Sprintf(format, args...))
}

// WrapRenderError wraps cause as a render error at pos.
func WrapRenderError(pos Position, msg string, cause error) *RenderError {
	return &RenderError{posError: posError{pos: pos, msg: msg}, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.posError.Error()
	}
	return fmt.Sprintf("%s: %v", e.posError.Error(), e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
