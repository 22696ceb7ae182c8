package template

import (
	"testing"

	starctx "github.com/jiborobot/pixi-animate-extension/internal/starlark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) *starctx.ExecutionContext {
	t.Helper()
	ctx, err := starctx.NewExecutionContext(map[string]any{
		"id":       "Graphic1",
		"mask":     "",
		"children": []string{"instance1", "instance2"},
		"matrix":   []float64{10, 20.5},
		"kind":     "shape",
	}, false)
	require.NoError(t, err)
	return ctx
}

func TestRenderer_Expressions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "this.initialize(0);", "this.initialize(0);"},
		{"simple expression", `lib.{{ id }} = {};`, "lib.Graphic1 = {};"},
		{"multiple expressions", `{{ id }}.{{ kind }}`, "Graphic1.shape"},
		{"string concatenation", `{{ "lib." + id }}`, "lib.Graphic1"},
		{"builtin call", `.setTransform({{ join(matrix) }})`, ".setTransform(10, 20.5)"},
		{"quoted", `{{ quote(id) }}`, `"Graphic1"`},
		{"compress global", `{{ "ac" if compress else "addChild" }}`, "addChild"},
		{"integer expression", `{{ 1 + 2 }}`, "3"},
		{"boolean expression", `{{ True }}`, "True"},
		{"none is empty", `[{{ None }}]`, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RenderString(tt.input, "container.tmpl", newTestContext(t))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRenderer_ForLoop(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		containsAll []string
	}{
		{
			name:     "inline loop",
			input:    `{* for x in [1, 2, 3]: *}{{ x }}{* endfor *}`,
			expected: "123",
		},
		{
			name:     "empty loop",
			input:    `before{* for x in []: *}{{ x }}{* endfor *}after`,
			expected: "beforeafter",
		},
		{
			name:     "loop over data",
			input:    `{* for c in children: *}this.addChild({{ c }});{* endfor *}`,
			expected: "this.addChild(instance1);this.addChild(instance2);",
		},
		{
			name: "nested loop",
			input: `{* for i in [0, 1, 2]: *}
{* for j in [0, 1]: *}
({{ i }}, {{ j }})
{* endfor *}
{* endfor *}`,
			containsAll: []string{"(0, 0)", "(0, 1)", "(1, 0)", "(1, 1)", "(2, 0)", "(2, 1)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RenderString(tt.input, "container.tmpl", newTestContext(t))
			require.NoError(t, err)

			if tt.expected != "" {
				assert.Equal(t, tt.expected, result)
			}
			for _, s := range tt.containsAll {
				assert.Contains(t, result, s)
			}
		})
	}
}

func TestRenderer_LoopVariableScope(t *testing.T) {
	// The loop variable shadows the global inside the body only.
	input := `{* for id in ["a", "b"]: *}{{ id }},{* endfor *}{{ id }}`
	result, err := RenderString(input, "container.tmpl", newTestContext(t))
	require.NoError(t, err)
	assert.Equal(t, "a,b,Graphic1", result)
}

func TestRenderer_IfStatement(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"if true", `{* if kind == "shape": *}SHAPE{* endif *}`, "SHAPE"},
		{"if false", `{* if kind == "text": *}TEXT{* endif *}`, ""},
		{"if-else true branch", `{* if kind == "shape": *}SHAPE{* else: *}OTHER{* endif *}`, "SHAPE"},
		{"if-else false branch", `{* if mask: *}.setMask({{ mask }}){* else: *};{* endif *}`, ";"},
		{"if-elif-else", `{* if kind == "text": *}T{* elif kind == "shape": *}S{* else: *}O{* endif *}`, "S"},
		{"nested for-if", `{* for x in [1, 2, 3]: *}{* if x > 1: *}{{ x }}{* endif *}{* endfor *}`, "23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RenderString(tt.input, "container.tmpl", newTestContext(t))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRenderer_TruthyFalsy(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		expected  string
	}{
		{"True", `True`, "yes"},
		{"False", `False`, "no"},
		{"1", `1`, "yes"},
		{"0", `0`, "no"},
		{"empty string", `""`, "no"},
		{"non-empty string", `"hello"`, "yes"},
		{"empty list", `[]`, "no"},
		{"non-empty list", `[1]`, "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `{* if ` + tt.condition + `: *}yes{* else: *}no{* endif *}`
			result, err := RenderString(input, "container.tmpl", newTestContext(t))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRenderer_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"undefined variable", `{{ undefined_variable }}`},
		{"undefined iterator", `{* for x in undefined: *}{{ x }}{* endfor *}`},
		{"undefined condition", `{* if undefined: *}yes{* endif *}`},
		{"non-iterable for", `{* for x in 42: *}{{ x }}{* endfor *}`},
		{"empty expression", `{{ }}`},
		{"parse error", `{* for x in xs: *}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderString(tt.input, "container.tmpl", newTestContext(t))
			require.Error(t, err)
		})
	}
}

func TestRenderer_ErrorWrapsEvalError(t *testing.T) {
	_, err := RenderString("ok\n{{ nope }}", "shape.tmpl", newTestContext(t))
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, 2, renderErr.Position().Line)

	var evalErr *starctx.EvalError
	assert.ErrorAs(t, err, &evalErr)
}

func TestRenderer_ReuseParsedTemplate(t *testing.T) {
	tmpl, err := ParseString(`lib.{{ id }}`, "container.tmpl")
	require.NoError(t, err)

	for _, id := range []string{"A", "B"} {
		ctx, err := starctx.NewExecutionContext(map[string]any{"id": id}, false)
		require.NoError(t, err)
		out, err := Render(tmpl, ctx)
		require.NoError(t, err)
		assert.Equal(t, "lib."+id, out)
	}
}

func TestRenderer_CommentsAndTrim(t *testing.T) {
	input := "{# children #}\n{* for c in children: -*}\n  this.ac({{ c }});\n{*- endfor *}\n"

	result, err := RenderString(input, "container.tmpl", newTestContext(t))
	require.NoError(t, err)
	assert.Equal(t, "\nthis.ac(instance1);this.ac(instance2);\n", result)
}
