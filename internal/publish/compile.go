package publish

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jiborobot/pixi-animate-extension/internal/library"
	"github.com/jiborobot/pixi-animate-extension/internal/render"
	"github.com/jiborobot/pixi-animate-extension/pkg/core"
)

// Output is the generated code of one document.
type Output struct {
	JS string
	// Shapes is the JSON shapes cache written next to the library
	Shapes     []byte
	ShapesFile string
	// Symbols lists the declared containers in declaration order
	Symbols []string
	Stage   string
}

// Compile generates the library for doc without touching the filesystem.
func (p *Publisher) Compile(doc *core.Document) (*Output, error) {
	lib, err := library.New(doc, library.WithLogger(p.logger.With("document", doc.Name)))
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.Name, err)
	}
	symbols, err := lib.Symbols()
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.Name, err)
	}

	out := &Output{ShapesFile: shapesFile(doc.Name)}
	rendered := make([]string, 0, len(symbols))
	for _, s := range symbols {
		code, err := s.Container.Render(p.renderer)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.Name, err)
		}
		rendered = append(rendered, code)
		out.Symbols = append(out.Symbols, s.Container.Name())
	}

	out.Stage = stageName(lib, doc, out.Symbols)

	assets, err := p.assetRefs(lib, doc, out.ShapesFile)
	if err != nil {
		return nil, err
	}

	sounds := ""
	if cues := lib.Sounds(); len(cues) > 0 {
		b, err := json.Marshal(cues)
		if err != nil {
			return nil, fmt.Errorf("encode sounds: %w", err)
		}
		sounds = string(b)
	}

	js, err := p.renderer.Template("library", map[string]any{
		"namespace":  doc.Namespace,
		"stage":      out.Stage,
		"symbols":    rendered,
		"assets":     assets,
		"sounds":     sounds,
		"width":      doc.Width,
		"height":     doc.Height,
		"framerate":  doc.FrameRate,
		"background": doc.Background,
	})
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.Name, err)
	}
	if p.renderer.Compress() {
		if js, err = render.Minify(js); err != nil {
			return nil, fmt.Errorf("document %s: minify: %w", doc.Name, err)
		}
	}
	out.JS = js

	shapes, err := json.MarshalIndent(lib.Shapes(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode shapes: %w", err)
	}
	if p.renderer.Compress() {
		shapes, err = json.Marshal(lib.Shapes())
		if err != nil {
			return nil, fmt.Errorf("encode shapes: %w", err)
		}
	}
	out.Shapes = shapes
	return out, nil
}

// stageName is the declared stage, or else the last declared container.
func stageName(lib *library.Library, doc *core.Document, symbols []string) string {
	if doc.Stage != "" {
		if name, ok := lib.SymbolOf(doc.Stage); ok {
			return name
		}
	}
	if len(symbols) == 0 {
		return ""
	}
	return symbols[len(symbols)-1]
}

// assetRefs renders the JS object mapping asset names to the files the
// runtime loads: the shapes cache plus every bitmap and sound source.
func (p *Publisher) assetRefs(lib *library.Library, doc *core.Document, shapesFile string) (string, error) {
	type ref struct{ name, path string }
	refs := []ref{{doc.Name, shapesFile}}
	for _, kind := range []core.AssetKind{core.AssetBitmap, core.AssetSound} {
		for _, a := range doc.AssetsOfKind(kind) {
			if a.Src == "" {
				continue
			}
			name, _ := lib.SymbolOf(a.ID)
			refs = append(refs, ref{name, a.Src})
		}
	}

	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		s, err := p.renderer.Template("shapes_ref", map[string]any{"name": r.name, "path": r.path})
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "{ " + strings.Join(parts, ", ") + " }", nil
}

func shapesFile(name string) string {
	return name + ".shapes.json"
}
