package starlark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
)

var builtinNames = map[string]bool{
	"compress": true,
	"join":     true,
	"quote":    true,
	"num":      true,
	"indent":   true,
}

// IsBuiltin reports whether name is reserved for a predeclared global.
func IsBuiltin(name string) bool {
	return builtinNames[name]
}

// Predeclared returns the builtin globals available to every template:
// compress, join(list, sep=", "), quote(s), num(x) and indent(s, prefix).
func Predeclared(compress bool) starlark.StringDict {
	return starlark.StringDict{
		"compress": starlark.Bool(compress),
		"join":     starlark.NewBuiltin("join", builtinJoin),
		"quote":    starlark.NewBuiltin("quote", builtinQuote),
		"num":      starlark.NewBuiltin("num", builtinNum),
		"indent":   starlark.NewBuiltin("indent", builtinIndent),
	}
}

// builtinJoin joins the text form of each item of an iterable.
func builtinJoin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var items starlark.Iterable
	sep := ", "
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "items", &items, "sep?", &sep); err != nil {
		return nil, err
	}

	var parts []string
	iter := items.Iterate()
	defer iter.Done()
	var v starlark.Value
	for iter.Next(&v) {
		if f, ok := v.(starlark.Float); ok {
			parts = append(parts, FormatNumber(float64(f)))
			continue
		}
		parts = append(parts, ValueString(v))
	}
	return starlark.String(strings.Join(parts, sep)), nil
}

// builtinQuote renders a string as a JavaScript string literal.
func builtinQuote(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &s); err != nil {
		return nil, err
	}
	return starlark.String(QuoteJS(s)), nil
}

// builtinNum renders a number without a redundant trailing ".0".
func builtinNum(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &x); err != nil {
		return nil, err
	}
	switch v := x.(type) {
	case starlark.Int:
		return starlark.String(v.String()), nil
	case starlark.Float:
		return starlark.String(FormatNumber(float64(v))), nil
	default:
		return nil, fmt.Errorf("%s: want int or float, got %s", b.Name(), x.Type())
	}
}

// builtinIndent prefixes every non-blank line of s.
func builtinIndent(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s, prefix string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &s, &prefix); err != nil {
		return nil, err
	}
	return starlark.String(indentLines(s, prefix)), nil
}

// indentLines prefixes every non-blank line of s with prefix.
func indentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// QuoteJS returns s as a double-quoted JavaScript string literal.
func QuoteJS(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// FormatNumber renders f in its shortest exact form ("1", "0.5", "-2.25").
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
