package starlark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestNewExecutionContext(t *testing.T) {
	ctx, err := NewExecutionContext(map[string]any{"id": "Graphic1", "contents": ""}, true)
	require.NoError(t, err)
	require.NotNil(t, ctx, "NewExecutionContext returned nil")

	globals := ctx.Globals()
	for _, key := range []string{"id", "contents", "compress", "join"} {
		_, ok := globals[key]
		assert.True(t, ok, "global %q not found", key)
	}
	assert.True(t, ctx.Compress)
}

func TestNewExecutionContext_BuiltinConflict(t *testing.T) {
	_, err := NewExecutionContext(map[string]any{"compress": "yes"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicts with builtin")
}

func TestExecutionContext_EvalExpr(t *testing.T) {
	ctx, err := NewExecutionContext(map[string]any{
		"id":    "Graphic1",
		"mask":  "",
		"frame": 3,
	}, false)
	require.NoError(t, err)

	tests := []struct {
		name    string
		expr    string
		want    string
		wantErr bool
	}{
		{name: "simple string", expr: `"hello"`, want: "hello"},
		{name: "data access", expr: `id`, want: "Graphic1"},
		{name: "string concatenation", expr: `"lib." + id`, want: "lib.Graphic1"},
		{name: "conditional expression", expr: `"ac" if compress else "addChild"`, want: "addChild"},
		{name: "empty string is falsy", expr: `"masked" if mask else "plain"`, want: "plain"},
		{name: "arithmetic", expr: `frame + 1`, want: "4"},
		{name: "none", expr: `None`, want: ""},
		{name: "undefined", expr: `nope`, wantErr: true},
		{name: "syntax error", expr: `id +`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ctx.EvalExprString(tt.expr, "test.tmpl", 1)
			if tt.wantErr {
				require.Error(t, err)
				var evalErr *EvalError
				assert.ErrorAs(t, err, &evalErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecutionContext_EvalExprWithLocals(t *testing.T) {
	ctx, err := NewExecutionContext(map[string]any{"x": 1}, false)
	require.NoError(t, err)

	locals := starlark.StringDict{"x": starlark.MakeInt(5), "y": starlark.MakeInt(2)}
	got, err := ctx.EvalExprStringWithLocals("x * y", "test.tmpl", 1, locals)
	require.NoError(t, err)
	assert.Equal(t, "10", got, "locals shadow globals")

	// Globals are left untouched.
	got, err = ctx.EvalExprString("x", "test.tmpl", 1)
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestEvalError_Error(t *testing.T) {
	withLine := &EvalError{File: "container.js", Line: 3, Expr: "x", Message: "undefined: x"}
	assert.Equal(t, `container.js:3: error evaluating "x": undefined: x`, withLine.Error())

	noLine := &EvalError{File: "container.js", Expr: "x", Message: "undefined: x"}
	assert.Equal(t, `container.js: error evaluating "x": undefined: x`, noLine.Error())
}
