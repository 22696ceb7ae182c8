package template

import (
	"strings"
	"unicode"
)

// ParseString lexes and parses a template.
func ParseString(input, file string) (*Template, error) {
	tokens, err := NewLexer(input, file).Tokenize()
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	nodes, err := p.parseBody(nil)
	if err != nil {
		return nil, err
	}
	return &Template{Nodes: nodes, File: file}, nil
}

type parser struct {
	tokens []Token
	pos    int
}

// parseBody consumes nodes until a statement whose kind is in stop, which is
// left unconsumed. A nil stop reads to EOF.
func (p *parser) parseBody(stop []StmtKind) ([]Node, error) {
	var nodes []Node
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok.Type {
		case TokenEOF:
			return nodes, nil

		case TokenText:
			nodes = append(nodes, &TextNode{nodeBase: nodeBase{pos: tok.Pos}, Text: tok.Value})
			p.pos++

		case TokenExpr:
			nodes = append(nodes, &ExprNode{nodeBase: nodeBase{pos: tok.Pos}, Expr: tok.Value})
			p.pos++

		case TokenStmt:
			stmt, err := parseStatement(tok)
			if err != nil {
				return nil, err
			}
			if containsKind(stop, stmt.Kind) {
				return nodes, nil
			}

			switch stmt.Kind {
			case StmtFor:
				p.pos++
				block, err := p.parseFor(stmt)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, block)
			case StmtIf:
				p.pos++
				block, err := p.parseIf(stmt)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, block)
			default:
				return nil, NewUnmatchedBlockError(stmt.pos, stmt.Kind)
			}

		default:
			return nil, NewParseErrorf(tok.Pos, "unexpected token %s", tok.Type)
		}
	}
	return nodes, nil
}

func (p *parser) parseFor(stmt *StmtNode) (*ForBlock, error) {
	body, err := p.parseBody([]StmtKind{StmtEndFor})
	if err != nil {
		return nil, err
	}
	if !p.consume(StmtEndFor) {
		return nil, NewUnmatchedBlockError(stmt.pos, StmtFor)
	}
	return &ForBlock{
		nodeBase: stmt.nodeBase,
		VarName:  stmt.VarName,
		IterExpr: stmt.Expr,
		Body:     body,
	}, nil
}

func (p *parser) parseIf(stmt *StmtNode) (*IfBlock, error) {
	block := &IfBlock{nodeBase: stmt.nodeBase, Condition: stmt.Expr}
	stops := []StmtKind{StmtElif, StmtElse, StmtEndIf}

	body, err := p.parseBody(stops)
	if err != nil {
		return nil, err
	}
	block.Body = body

	for {
		next := p.peekStmt()
		if next == nil {
			return nil, NewUnmatchedBlockError(stmt.pos, StmtIf)
		}
		p.pos++

		switch next.Kind {
		case StmtElif:
			if block.Else != nil {
				return nil, NewParseError(next.pos, "'elif' after 'else'")
			}
			body, err := p.parseBody(stops)
			if err != nil {
				return nil, err
			}
			block.ElseIfs = append(block.ElseIfs, Branch{Condition: next.Expr, Body: body, pos: next.pos})

		case StmtElse:
			if block.Else != nil {
				return nil, NewParseError(next.pos, "duplicate 'else'")
			}
			body, err := p.parseBody(stops)
			if err != nil {
				return nil, err
			}
			if body == nil {
				body = []Node{}
			}
			block.Else = body

		case StmtEndIf:
			return block, nil
		}
	}
}

// peekStmt returns the statement at the cursor, or nil at EOF.
func (p *parser) peekStmt() *StmtNode {
	if p.pos >= len(p.tokens) || p.tokens[p.pos].Type != TokenStmt {
		return nil
	}
	// Already validated by parseBody.
	stmt, _ := parseStatement(p.tokens[p.pos])
	return stmt
}

func (p *parser) consume(kind StmtKind) bool {
	stmt := p.peekStmt()
	if stmt == nil || stmt.Kind != kind {
		return false
	}
	p.pos++
	return true
}

// parseStatement classifies the content of a {* *} token.
func parseStatement(tok Token) (*StmtNode, error) {
	src := strings.TrimSpace(tok.Value)
	stmt := &StmtNode{nodeBase: nodeBase{pos: tok.Pos}}

	keyword, rest := splitKeyword(src)
	rest = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), ":"))

	switch keyword {
	case "for":
		name, iter, ok := strings.Cut(rest, " in ")
		name = strings.TrimSpace(name)
		iter = strings.TrimSpace(iter)
		if !ok || !isIdent(name) || iter == "" {
			return nil, NewParseErrorf(tok.Pos, "invalid for statement %q (want 'for x in items:')", src)
		}
		stmt.Kind = StmtFor
		stmt.VarName = name
		stmt.Expr = iter
	case "if", "elif":
		if rest == "" {
			return nil, NewParseErrorf(tok.Pos, "%s statement without condition", keyword)
		}
		stmt.Kind = StmtIf
		if keyword == "elif" {
			stmt.Kind = StmtElif
		}
		stmt.Expr = rest
	case "else", "endfor", "endif":
		if rest != "" {
			return nil, NewParseErrorf(tok.Pos, "unexpected text after %s: %q", keyword, rest)
		}
		switch keyword {
		case "else":
			stmt.Kind = StmtElse
		case "endfor":
			stmt.Kind = StmtEndFor
		default:
			stmt.Kind = StmtEndIf
		}
	default:
		return nil, NewParseErrorf(tok.Pos, "unknown statement %q", src)
	}
	return stmt, nil
}

func splitKeyword(src string) (string, string) {
	i := strings.IndexFunc(src, func(r rune) bool { return unicode.IsSpace(r) || r == ':' })
	if i < 0 {
		return src, ""
	}
	return src[:i], src[i:]
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func containsKind(kinds []StmtKind, k StmtKind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}
