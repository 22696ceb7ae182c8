// Package template implements the code templates used to emit scene-graph
// declarations.
//
//	{{ expr }}                  evaluates a Starlark expression
//	{* for x in xs: *} {* endfor *}
//	{* if c: *} {* elif d: *} {* else: *} {* endif *}
//	{# comment #}               produces no output
//
// A "-" plus a space just inside any tag ("{{- x }}", "{* endfor -*}")
// trims the whitespace on that side of the tag.
package template

import "fmt"

// Position tracks source location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
}

// String formats the position as file:line:col, or line:col without a file.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is a template AST node.
type Node interface {
	Pos() Position
	node()
}

type nodeBase struct {
	pos Position
}

func (n *nodeBase) Pos() Position { return n.pos }
func (n *nodeBase) node()         {}

// TextNode is literal output text.
type TextNode struct {
	nodeBase
	Text string
}

// ExprNode holds the Starlark source of a {{ expr }} tag.
type ExprNode struct {
	nodeBase
	Expr string
}

// StmtKind identifies a control flow statement.
type StmtKind int

// Statement kinds.
const (
	StmtUnknown StmtKind = iota
	StmtFor              // for x in items:
	StmtEndFor           // endfor
	StmtIf               // if cond:
	StmtElif             // elif cond:
	StmtElse             // else:
	StmtEndIf            // endif
)

var stmtNames = [...]string{
	StmtUnknown: "unknown",
	StmtFor:     "for",
	StmtEndFor:  "endfor",
	StmtIf:      "if",
	StmtElif:    "elif",
	StmtElse:    "else",
	StmtEndIf:   "endif",
}

func (k StmtKind) String() string {
	if k >= 0 && int(k) < len(stmtNames) {
		return stmtNames[k]
	}
	return "unknown"
}

// StmtNode is a single {* stmt *} tag before blocks are assembled.
type StmtNode struct {
	nodeBase
	Kind StmtKind
	// Expr is the condition or the iterated expression
	Expr    string
	VarName string
}

// ForBlock is a for loop with its body.
type ForBlock struct {
	nodeBase
	VarName  string
	IterExpr string
	Body     []Node
}

// IfBlock is an if/elif/else chain.
type IfBlock struct {
	nodeBase
	Condition string
	Body      []Node
	ElseIfs   []Branch
	// Else is nil when there is no else branch
	Else []Node
}

// Branch is one elif branch.
type Branch struct {
	Condition string
	Body      []Node
	pos       Position
}

// Template is a parsed template.
type Template struct {
	Nodes []Node
	File  string
}
