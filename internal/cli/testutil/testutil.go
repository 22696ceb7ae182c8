// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/jiborobot/pixi-animate-extension/internal/cli/output"
)

// SampleDocument is a small valid document with a masked shape, a nested
// symbol and a sound.
const SampleDocument = `name: intro
framerate: 30
stage: stage
assets:
  - id: box
    name: Box
    kind: shape
    paths:
      - kind: fill
        color: "#3388ff"
        d: [m, 0, 0, l, 100, 0, l, 100, 100]
  - id: reveal
    name: Reveal
    kind: shape
    paths:
      - kind: fill
        color: "#000000"
        d: [m, 0, 0, l, 50, 0]
  - id: beep
    kind: sound
    src: sounds/beep.mp3
  - id: badge
    name: Badge
    kind: container
    frames:
      - frame: 0
        commands:
          - {instanceId: b1, assetId: box}
  - id: stage
    name: Stage
    kind: container
    frames:
      - frame: 0
        commands:
          - {instanceId: m1, assetId: reveal, maskInstanceId: s1}
          - {instanceId: s1, assetId: box, transform: {x: 10, y: 20}}
          - {instanceId: c1, assetId: badge}
          - {instanceId: snd, assetId: beep}
      - frame: 6
        commands:
          - {instanceId: m1, assetId: reveal}
`

// SetupTestProject creates a temporary project with a config file and one
// document. It returns the project directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "scenes"), 0o750); err != nil {
		t.Fatalf("failed to create scenes directory: %v", err)
	}

	cfg := `documents:
  - scenes/intro.yaml
out_dir: dist
state_path: .pixi-animate/state.db
`
	if err := os.WriteFile(filepath.Join(tmpDir, "pixi-animate.yaml"), []byte(cfg), 0o600); err != nil {
		t.Fatalf("failed to create pixi-animate.yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "scenes", "intro.yaml"), []byte(SampleDocument), 0o600); err != nil {
		t.Fatalf("failed to create intro.yaml: %v", err)
	}

	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	// Check for balanced code fences
	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	// Check that headers have content
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
