// Package render turns named code templates into JavaScript fragments.
package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	starctx "github.com/jiborobot/pixi-animate-extension/internal/starlark"
	"github.com/jiborobot/pixi-animate-extension/internal/template"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// TemplateExt is the file extension of template files.
const TemplateExt = ".tmpl"

// Config configures a Renderer.
type Config struct {
	// Compress selects short runtime method names and minified output
	Compress bool
	// TemplatesDir holds *.tmpl files that replace the embedded defaults
	TemplatesDir string
	Logger       *slog.Logger
}

// Renderer renders named templates. It is safe for concurrent use.
type Renderer struct {
	compress bool
	dir      string
	logger   *slog.Logger
	pool     *starctx.ThreadPool

	mu    sync.Mutex
	cache map[string]*template.Template
}

// New creates a Renderer.
func New(cfg Config) *Renderer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{
		compress: cfg.Compress,
		dir:      cfg.TemplatesDir,
		logger:   logger,
		pool:     starctx.NewThreadPool(4),
		cache:    make(map[string]*template.Template),
	}
}

// Compress reports whether compressed output is produced.
func (r *Renderer) Compress() bool {
	return r.compress
}

// Template renders the template called name with data as its globals.
func (r *Renderer) Template(name string, data map[string]any) (string, error) {
	tmpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}

	ctx, err := starctx.NewExecutionContext(data, r.compress, starctx.WithThreadPool(r.pool))
	if err != nil {
		return "", fmt.Errorf("template %s: %w", name, err)
	}
	out, err := template.Render(tmpl, ctx)
	if err != nil {
		return "", fmt.Errorf("template %s: %w", name, err)
	}
	return out, nil
}

// Reset drops every parsed template so overrides are read again.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

// lookup returns the parsed template, parsing it on first use.
func (r *Renderer) lookup(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.cache[name]; ok {
		return tmpl, nil
	}

	src, file, err := r.source(name)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.ParseString(src, file)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	r.cache[name] = tmpl
	return tmpl, nil
}

// source reads a template from the override directory, falling back to the
// embedded set.
func (r *Renderer) source(name string) (string, string, error) {
	file := name + TemplateExt
	if r.dir != "" {
		path := filepath.Join(r.dir, file)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			r.logger.Debug("using template override", "template", name, "path", path)
			return string(data), path, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", "", fmt.Errorf("read template %s: %w", path, err)
		}
	}

	data, err := defaultTemplates.ReadFile("templates/" + file)
	if err != nil {
		return "", "", fmt.Errorf("unknown template %q", name)
	}
	return string(data), file, nil
}

// Names lists the embedded template names.
func Names() []string {
	entries, err := fs.ReadDir(defaultTemplates, "templates")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), TemplateExt))
	}
	sort.Strings(names)
	return names
}

// Default returns the source of an embedded template.
func Default(name string) (string, error) {
	data, err := defaultTemplates.ReadFile("templates/" + name + TemplateExt)
	if err != nil {
		return "", fmt.Errorf("unknown template %q", name)
	}
	return string(data), nil
}
