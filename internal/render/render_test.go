package render

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jiborobot/pixi-animate-extension/internal/scene"
	"github.com/jiborobot/pixi-animate-extension/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ scene.Renderer = (*Renderer)(nil)

func TestRenderer_Container(t *testing.T) {
	r := New(Config{})
	out, err := r.Template("container", map[string]any{"id": "Graphic1", "contents": "    var instance1 = x;\n    this.addChild(instance1);"})
	require.NoError(t, err)
	assert.Equal(t, "lib.Graphic1 = Container.extend(function() {\n    Container.call(this);\n    var instance1 = x;\n    this.addChild(instance1);\n});", out)
}

func TestRenderer_Shape(t *testing.T) {
	out, err := New(Config{}).Template("shape", map[string]any{"name": "Shape1"})
	require.NoError(t, err)
	assert.Equal(t, "shapes.Shape1", out)
}

func TestRenderer_Instance(t *testing.T) {
	tests := []struct {
		name     string
		compress bool
		data     map[string]any
		want     string
	}{
		{
			name: "bare",
			data: map[string]any{"local": "instance1", "ctor": "new Graphics()", "transform": []float64(nil), "alpha": 1.0, "mask": ""},
			want: "    var instance1 = new Graphics();\n",
		},
		{
			name: "transform and mask",
			data: map[string]any{"local": "instance1", "ctor": "new lib.Graphic1()", "transform": []float64{10, 20.5}, "alpha": 1.0, "mask": "instance2"},
			want: "    var instance1 = new lib.Graphic1()\n        .setTransform(10, 20.5)\n        .setMask(instance2);\n",
		},
		{
			name:     "compressed with alpha",
			compress: true,
			data:     map[string]any{"local": "instance3", "ctor": "new Text(\"hi\")", "transform": []float64{1, 2}, "alpha": 0.5, "mask": "instance1"},
			want:     "    var instance3 = new Text(\"hi\")\n        .t(1, 2)\n        .a(0.5)\n        .ma(instance1);\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(Config{Compress: tt.compress})
			out, err := r.Template("instance", tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.compress, r.Compress())
		})
	}
}

func TestRenderer_Library(t *testing.T) {
	out, err := New(Config{}).Template("library", map[string]any{
		"namespace":  "lib",
		"stage":      "Stage",
		"symbols":    []string{"lib.A = 1;", "lib.Stage = f(function() {\n    g();\n});"},
		"assets":     `{"Shape1": "stage.shapes.json"}`,
		"sounds":     "",
		"width":      550,
		"height":     400,
		"framerate":  24.0,
		"background": "#ffffff",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "(function(PIXI, lib) {")
	assert.Contains(t, out, "    lib.A = 1;\n\n    lib.Stage = f(function() {\n        g();\n    });\n")
	assert.Contains(t, out, `lib.Stage.meta = { width: 550, height: 400, framerate: 24, background: "#ffffff" };`)
	assert.NotContains(t, out, "sounds")
	assert.Contains(t, out, "})(PIXI, lib = lib || {});")
}

func TestRenderer_ShapesRef(t *testing.T) {
	out, err := New(Config{}).Template("shapes_ref", map[string]any{"name": "Stage", "path": "stage.shapes.json"})
	require.NoError(t, err)
	assert.Equal(t, `"Stage": "stage.shapes.json"`, out)
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	_, err := New(Config{}).Template("nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown template "nope"`)
}

func TestRenderer_BadData(t *testing.T) {
	_, err := New(Config{}).Template("shape", map[string]any{"compress": true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template shape")
}

func TestRenderer_Override(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shape.tmpl"), []byte("cache[{{ quote(name) }}]"), 0o600))

	logger, buf := testutil.NewCaptureLogger()
	r := New(Config{TemplatesDir: dir, Logger: logger})

	out, err := r.Template("shape", map[string]any{"name": "Shape1"})
	require.NoError(t, err)
	assert.Equal(t, `cache["Shape1"]`, out)
	assert.Contains(t, buf.String(), "using template override")

	// Templates missing from the directory fall back to the defaults.
	out, err = r.Template("shapes_ref", map[string]any{"name": "a", "path": "b"})
	require.NoError(t, err)
	assert.Equal(t, `"a": "b"`, out)
}

func TestRenderer_Reset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shape.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o600))
	r := New(Config{TemplatesDir: dir})

	out, err := r.Template("shape", nil)
	require.NoError(t, err)
	assert.Equal(t, "one", out)

	require.NoError(t, os.WriteFile(path, []byte("two"), 0o600))
	out, err = r.Template("shape", nil)
	require.NoError(t, err)
	assert.Equal(t, "one", out, "parsed templates are cached")

	r.Reset()
	out, err = r.Template("shape", nil)
	require.NoError(t, err)
	assert.Equal(t, "two", out)
}

func TestRenderer_OverrideParseError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "container.tmpl"), []byte("{* for x in xs: *}"), 0o600))

	_, err := New(Config{TemplatesDir: dir}).Template("container", map[string]any{"id": "A", "contents": ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container.tmpl")
}

func TestRenderer_Concurrent(t *testing.T) {
	r := New(Config{})
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Template("shape", map[string]any{"name": "S"})
			if err == nil && out != "shapes.S" {
				err = assert.AnError
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"container", "instance", "library", "shape", "shapes_ref"}, Names())

	src, err := Default("shape")
	require.NoError(t, err)
	assert.Equal(t, "shapes.{{ name }}", src)

	_, err = Default("missing")
	assert.Error(t, err)
}

func TestMinify(t *testing.T) {
	out, err := Minify("var instance1 = new Graphics();\nthis.addChild( instance1 );\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "\n\n")
	assert.Contains(t, out, "instance1")
	assert.Less(t, len(out), len("var instance1 = new Graphics();\nthis.addChild( instance1 );\n"))

	_, err = Minify("var = ;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "esbuild errors")
}
