package template

import (
	"strings"

	starctx "github.com/jiborobot/pixi-animate-extension/internal/starlark"
	"go.starlark.net/starlark"
)

// RenderString parses input and renders it against ctx.
func RenderString(input, file string, ctx *starctx.ExecutionContext) (string, error) {
	tmpl, err := ParseString(input, file)
	if err != nil {
		return "", err
	}
	return Render(tmpl, ctx)
}

// Render evaluates a parsed template. A Template is immutable once parsed,
// so one instance may be rendered concurrently with different contexts.
func Render(tmpl *Template, ctx *starctx.ExecutionContext) (string, error) {
	r := &renderer{file: tmpl.File, ctx: ctx}
	var buf strings.Builder
	if err := r.renderNodes(&buf, tmpl.Nodes, nil); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type renderer struct {
	file string
	ctx  *starctx.ExecutionContext
}

func (r *renderer) renderNodes(buf *strings.Builder, nodes []Node, locals starlark.StringDict) error {
	for _, n := range nodes {
		if err := r.renderNode(buf, n, locals); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderNode(buf *strings.Builder, n Node, locals starlark.StringDict) error {
	switch node := n.(type) {
	case *TextNode:
		buf.WriteString(node.Text)

	case *ExprNode:
		if node.Expr == "" {
			return NewRenderError(node.Pos(), "empty expression")
		}
		v, err := r.eval(node.Expr, node.Pos(), locals)
		if err != nil {
			return err
		}
		buf.WriteString(starctx.ValueString(v))

	case *ForBlock:
		return r.renderFor(buf, node, locals)

	case *IfBlock:
		return r.renderIf(buf, node, locals)

	default:
		return NewRenderErrorf(n.Pos(), "unexpected node %T", n)
	}
	return nil
}

func (r *renderer) renderFor(buf *strings.Builder, block *ForBlock, locals starlark.StringDict) error {
	v, err := r.eval(block.IterExpr, block.Pos(), locals)
	if err != nil {
		return err
	}
	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return NewRenderErrorf(block.Pos(), "for: %s is not iterable", v.Type())
	}

	// Loop variables shadow outer names only inside the body.
	scope := make(starlark.StringDict, len(locals)+1)
	for k, lv := range locals {
		scope[k] = lv
	}

	iter := iterable.Iterate()
	defer iter.Done()
	var item starlark.Value
	for iter.Next(&item) {
		scope[block.VarName] = item
		if err := r.renderNodes(buf, block.Body, scope); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderIf(buf *strings.Builder, block *IfBlock, locals starlark.StringDict) error {
	ok, err := r.truth(block.Condition, block.Pos(), locals)
	if err != nil {
		return err
	}
	if ok {
		return r.renderNodes(buf, block.Body, locals)
	}

	for _, branch := range block.ElseIfs {
		ok, err := r.truth(branch.Condition, branch.pos, locals)
		if err != nil {
			return err
		}
		if ok {
			return r.renderNodes(buf, branch.Body, locals)
		}
	}

	return r.renderNodes(buf, block.Else, locals)
}

func (r *renderer) truth(expr string, pos Position, locals starlark.StringDict) (bool, error) {
	v, err := r.eval(expr, pos, locals)
	if err != nil {
		return false, err
	}
	return bool(v.Truth()), nil
}

func (r *renderer) eval(expr string, pos Position, locals starlark.StringDict) (starlark.Value, error) {
	v, err := r.ctx.EvalExprWithLocals(expr, r.file, pos.Line, locals)
	if err != nil {
		return nil, WrapRenderError(pos, "evaluate expression", err)
	}
	return v, nil
}
