package starlark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestGoToStarlark(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantStr string
		wantErr bool
	}{
		{name: "string", input: "hello", wantStr: `"hello"`},
		{name: "int", input: 42, wantStr: "42"},
		{name: "int64", input: int64(123456789), wantStr: "123456789"},
		{name: "float64", input: 3.14, wantStr: "3.14"},
		{name: "bool true", input: true, wantStr: "True"},
		{name: "nil", input: nil, wantStr: "None"},
		{name: "string slice", input: []string{"a", "b", "c"}, wantStr: `["a", "b", "c"]`},
		{name: "empty string slice", input: []string{}, wantStr: "[]"},
		{name: "float slice", input: []float64{1, 0.5}, wantStr: "[1.0, 0.5]"},
		{name: "any slice", input: []any{"x", 1, true}, wantStr: `["x", 1, True]`},
		{
			name:    "map keys sorted",
			input:   map[string]any{"b": 2, "a": "value"},
			wantStr: `{"a": "value", "b": 2}`,
		},
		{
			name:    "list of maps",
			input:   []map[string]any{{"frame": 0}},
			wantStr: `[{"frame": 0}]`,
		},
		{name: "starlark value", input: starlark.String("raw"), wantStr: `"raw"`},
		{name: "unsupported", input: struct{}{}, wantErr: true},
		{name: "unsupported nested", input: []any{struct{}{}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoToStarlark(tt.input)
			if tt.wantErr {
				assert.Error(t, err, "expected error")
				return
			}
			require.NoError(t, err, "unexpected error")
			assert.Equal(t, tt.wantStr, got.String(), "GoToStarlark()")
		})
	}
}

func TestToGo(t *testing.T) {
	tests := []struct {
		name  string
		input starlark.Value
		want  any
	}{
		{name: "string", input: starlark.String("hello"), want: "hello"},
		{name: "int", input: starlark.MakeInt(42), want: int64(42)},
		{name: "float", input: starlark.Float(3.14), want: 3.14},
		{name: "bool", input: starlark.Bool(true), want: true},
		{name: "none", input: starlark.None, want: nil},
		{
			name:  "list",
			input: starlark.NewList([]starlark.Value{starlark.String("a"), starlark.MakeInt(1)}),
			want:  []any{"a", int64(1)},
		},
		{
			name:  "tuple",
			input: starlark.Tuple{starlark.Bool(false)},
			want:  []any{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToGo(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataToStarlark(t *testing.T) {
	globals, err := DataToStarlark(map[string]any{
		"id":       "Graphic1",
		"children": []string{"instance1", "instance2"},
	})
	require.NoError(t, err)

	assert.Equal(t, `"Graphic1"`, globals["id"].String())
	assert.Equal(t, `["instance1", "instance2"]`, globals["children"].String())

	_, err = DataToStarlark(map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `template data "bad"`)
}
