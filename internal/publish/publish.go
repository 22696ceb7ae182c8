// Package publish compiles animation documents into JavaScript libraries.
// It ties the loader, library, renderer and state store together.
package publish

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jiborobot/pixi-animate-extension/internal/loader"
	"github.com/jiborobot/pixi-animate-extension/internal/render"
	"github.com/jiborobot/pixi-animate-extension/internal/state"
	"github.com/jiborobot/pixi-animate-extension/pkg/core"
)

// Config holds publisher configuration.
type Config struct {
	// OutDir receives <name>.js and <name>.shapes.json
	OutDir string
	// TemplatesDir overrides the embedded templates (optional)
	TemplatesDir string
	// StatePath is the SQLite state database; empty keeps state in memory
	StatePath string
	// Compress emits short method names and minified output
	Compress bool
	// Concurrency bounds PublishAll; zero uses the number of CPUs
	Concurrency int
	// Force republishes documents whose content hash is unchanged
	Force bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Publisher publishes documents. It is safe for concurrent use.
type Publisher struct {
	cfg      Config
	logger   *slog.Logger
	store    core.Store
	renderer *render.Renderer

	mu sync.Mutex
	// templates is the digest of the override templates the renderer parsed
	templates string
}

// Result describes the publish of one document.
type Result struct {
	Document   string        `json:"document"`
	Name       string        `json:"name,omitempty"`
	RunID      string        `json:"run_id"`
	Skipped    bool          `json:"skipped"`
	JSPath     string        `json:"js_path,omitempty"`
	ShapesPath string        `json:"shapes_path,omitempty"`
	Symbols    []string      `json:"symbols,omitempty"`
	Bytes      int           `json:"bytes"`
	Duration   time.Duration `json:"duration"`
}

// New opens the state store and prepares the renderer.
func New(cfg Config) (*Publisher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}

	statePath := cfg.StatePath
	if statePath == "" {
		statePath = ":memory:"
	} else if err := os.MkdirAll(filepath.Dir(statePath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	logger.Debug("initializing publisher", "out_dir", cfg.OutDir, "state", statePath, "compress", cfg.Compress)

	store := state.NewSQLiteStore(logger)
	if err := store.Open(statePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state store: %w", err)
	}

	return &Publisher{
		cfg:    cfg,
		logger: logger,
		store:  store,
		renderer: render.New(render.Config{
			Compress:     cfg.Compress,
			TemplatesDir: cfg.TemplatesDir,
			Logger:       logger,
		}),
	}, nil
}

// Close releases the state store.
func (p *Publisher) Close() error {
	return p.store.Close()
}

// Store returns the state store.
func (p *Publisher) Store() core.Store {
	return p.store
}

// Publish compiles the document at path and writes its outputs. Unchanged
// documents are skipped unless Force is set.
func (p *Publisher) Publish(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is a user-supplied document
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	templates, err := p.syncTemplates()
	if err != nil {
		return nil, err
	}
	key := hashKey(path)
	hash := p.contentHash(data, templates)

	run, err := p.store.CreateRun(path)
	if err != nil {
		return nil, err
	}
	result := &Result{Document: path, RunID: run.ID}

	if !p.cfg.Force {
		prev, err := p.store.GetContentHash(key)
		if err != nil {
			p.logger.Warn("content hash lookup failed", "document", path, "error", err)
		}
		if prev == hash && p.outputsExist(path, data, result) {
			result.Skipped = true
			result.Duration = time.Since(start)
			p.logger.Info("document unchanged, skipping", "document", path)
			return result, p.store.CompleteRun(run.ID, core.RunStatusSkipped, "")
		}
	}

	if err := p.publish(ctx, path, data, result); err != nil {
		if cerr := p.store.CompleteRun(run.ID, core.RunStatusFailed, err.Error()); cerr != nil {
			p.logger.Error("failed to record run", "run", run.ID, "error", cerr)
		}
		return nil, err
	}

	if err := p.store.SetContentHash(key, hash); err != nil {
		p.logger.Warn("failed to store content hash", "document", path, "error", err)
	}
	result.Duration = time.Since(start)
	p.logger.Info("published",
		"document", path,
		"js", result.JSPath,
		"symbols", len(result.Symbols),
		"bytes", result.Bytes,
		"duration", result.Duration)
	return result, p.store.CompleteRun(run.ID, core.RunStatusCompleted, "")
}

func (p *Publisher) publish(ctx context.Context, path string, data []byte, result *Result) error {
	doc, err := loader.Parse(data, path)
	if err != nil {
		return err
	}
	doc.SourcePath = path

	out, err := p.Compile(doc)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(p.cfg.OutDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	jsPath, shapesPath := p.outputPaths(doc.Name)
	if err := os.WriteFile(jsPath, []byte(out.JS), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsPath, err)
	}
	if err := os.WriteFile(shapesPath, out.Shapes, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", shapesPath, err)
	}

	result.Name = doc.Name
	result.JSPath = jsPath
	result.ShapesPath = shapesPath
	result.Symbols = out.Symbols
	result.Bytes = len(out.JS)
	return nil
}

// PublishAll publishes paths concurrently, bounded by Concurrency. The first
// failure cancels the documents not yet started. Results keep the order of
// paths.
func (p *Publisher) PublishAll(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i, path := range paths {
		g.Go(func() error {
			res, err := p.Publish(gctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Runs returns the most recent runs.
func (p *Publisher) Runs(limit int) ([]*core.Run, error) {
	return p.store.ListRuns(limit)
}

func (p *Publisher) outputPaths(name string) (js, shapes string) {
	return filepath.Join(p.cfg.OutDir, name+".js"), filepath.Join(p.cfg.OutDir, shapesFile(name))
}

// outputsExist reports whether both outputs of an unchanged document are
// still on disk, filling in result when they are.
func (p *Publisher) outputsExist(path string, data []byte, result *Result) bool {
	doc, err := loader.Parse(data, path)
	if err != nil {
		return false
	}
	jsPath, shapesPath := p.outputPaths(doc.Name)
	for _, out := range []string{jsPath, shapesPath} {
		if _, err := os.Stat(out); err != nil {
			p.logger.Debug("output missing, republishing", "document", path, "output", out)
			return false
		}
	}
	result.Name = doc.Name
	result.JSPath = jsPath
	result.ShapesPath = shapesPath
	return true
}

// syncTemplates digests the override templates and drops the renderer's
// parsed templates when any of them changed since the last publish.
func (p *Publisher) syncTemplates() (string, error) {
	digest, err := templatesDigest(p.cfg.TemplatesDir)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if digest != p.templates {
		p.renderer.Reset()
		p.templates = digest
	}
	return digest, nil
}

// templatesDigest hashes the name and contents of every override template.
func templatesDigest(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*"+render.TemplateExt))
	if err != nil {
		return "", err
	}
	// Glob returns names in lexical order.
	h := sha256.New()
	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // G304: files come from the configured templates dir
		if err != nil {
			return "", fmt.Errorf("read template %s: %w", file, err)
		}
		fmt.Fprintf(h, "%s\x00%d\x00", filepath.Base(file), len(data))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// contentHash covers the document and every setting that changes output.
func (p *Publisher) contentHash(data []byte, templates string) string {
	h := sha256.New()
	h.Write(data)
	fmt.Fprintf(h, "\x00compress=%t\x00out=%s\x00templates=%s", p.cfg.Compress, hashKey(p.cfg.OutDir), templates)
	return hex.EncodeToString(h.Sum(nil)[:8])
}

func hashKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// IsInvalidDocument reports whether err stems from a malformed document.
func IsInvalidDocument(err error) bool {
	return errors.Is(err, loader.ErrInvalidDocument)
}
