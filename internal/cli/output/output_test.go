package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufRenderer(mode Mode) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	return NewRenderer(out, errOut, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		want Mode
	}{
		{"", ModeMarkdown},
		{ModeAuto, ModeMarkdown},
		{ModeText, ModeText},
		{ModeMarkdown, ModeMarkdown},
		{ModeJSON, ModeJSON},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, _, _ := newBufRenderer(tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode(), "a buffer is never a terminal")
		})
	}
}

func TestRenderer_PlainStylesWhenPiped(t *testing.T) {
	r, out, errOut := newBufRenderer(ModeText)

	r.Header(1, "Symbols")
	r.Success("published")
	r.Muted("detail")
	r.StatusLine("intro.yaml", "skipped", "unchanged")
	r.Warning("careful")
	r.Error("broken")

	assert.Equal(t, "Symbols\n✓ published\ndetail\n- intro.yaml  unchanged\n", out.String())
	assert.Equal(t, "! careful\n✗ broken\n", errOut.String())
	assert.NotContains(t, out.String(), "\x1b[", "no escape codes off a terminal")
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newBufRenderer(ModeJSON)
	require.NoError(t, r.JSON(map[string]any{"name": "intro", "symbols": 2}))
	assert.JSONEq(t, `{"name":"intro","symbols":2}`, out.String())
}

func TestRenderer_Table(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newBufRenderer(ModeMarkdown)
		r.Table([]string{"Local", "Kind"}, [][]any{{"instance1", "shape"}})
		assert.Contains(t, strings.ToLower(out.String()), "| local | kind |")
		assert.Contains(t, out.String(), "| instance1 | shape |")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newBufRenderer(ModeText)
		r.Table([]string{"Local", "Kind"}, [][]any{{"instance1", "shape"}})
		assert.Contains(t, strings.ToLower(out.String()), "local")
		assert.Contains(t, out.String(), "instance1")
		assert.Contains(t, out.String(), "┌")
	})
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Sub", FormatHeader(3, "Sub"))
	assert.Equal(t, "# Low", FormatHeader(0, "Low"))
	assert.Equal(t, "- **Symbols**: 3", FormatKeyValue("Symbols", "3"))
	assert.Equal(t, "```js\nvar a = 1;\n```", FormatCodeBlock("js", "var a = 1;\n\n"))
}

func TestStatusIcon(t *testing.T) {
	r, _, _ := newBufRenderer(ModeText)
	s := r.Styles()
	assert.Equal(t, "✓", s.StatusIcon("completed"))
	assert.Equal(t, "✓", s.StatusIcon("success"))
	assert.Equal(t, "-", s.StatusIcon("skipped"))
	assert.Equal(t, "…", s.StatusIcon("running"))
	assert.Equal(t, "✗", s.StatusIcon("failed"))
}

func TestNewRendererWithTTY(t *testing.T) {
	out := new(bytes.Buffer)
	r := NewRendererWithTTY(out, out, true, ModeAuto)
	assert.Equal(t, ModeText, r.EffectiveMode(), "auto resolves to text on a terminal")
	assert.Same(t, out, r.Writer())
}
