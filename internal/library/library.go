// Package library resolves document assets into scene instances and symbols.
package library

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jiborobot/pixi-animate-extension/internal/dag"
	"github.com/jiborobot/pixi-animate-extension/internal/scene"
	"github.com/jiborobot/pixi-animate-extension/pkg/core"
)

var (
	// ErrUnknownAsset is returned when a command references a missing asset.
	ErrUnknownAsset = errors.New("unknown asset")
	// ErrDependencyCycle is returned when container symbols nest each other.
	ErrDependencyCycle = errors.New("symbol dependency cycle")
)

// Library indexes the assets of one document and creates their instances.
// It is not safe for concurrent use.
type Library struct {
	doc    *core.Document
	logger *slog.Logger

	assets  map[string]*core.Asset
	symbols map[string]string // asset id -> declared name
	shapes  map[string]*scene.Shape
	// next numbers local names across the whole library
	next int
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger passed on to containers.
func WithLogger(l *slog.Logger) Option {
	return func(lib *Library) {
		if l != nil {
			lib.logger = l
		}
	}
}

// New indexes doc. Shape assets are compiled up front.
func New(doc *core.Document, opts ...Option) (*Library, error) {
	l := &Library{
		doc:     doc,
		logger:  slog.New(slog.DiscardHandler),
		assets:  make(map[string]*core.Asset, len(doc.Assets)),
		symbols: make(map[string]string, len(doc.Assets)),
		shapes:  make(map[string]*scene.Shape),
	}
	for _, opt := range opts {
		opt(l)
	}

	taken := make(map[string]bool)
	for i := range doc.Assets {
		a := &doc.Assets[i]
		if a.ID == "" {
			return nil, fmt.Errorf("asset #%d has no id", i)
		}
		if _, dup := l.assets[a.ID]; dup {
			return nil, fmt.Errorf("duplicate asset id %q", a.ID)
		}
		if !a.Kind.Valid() {
			return nil, fmt.Errorf("asset %q: unknown kind %q", a.ID, a.Kind)
		}
		l.assets[a.ID] = a

		name := uniqueName(SymbolName(a.Name, a.ID), taken)
		taken[name] = true
		l.symbols[a.ID] = name

		if a.Kind == core.AssetShape {
			l.shapes[a.ID] = scene.NewShape(name, a.Paths)
		}
	}
	return l, nil
}

// SymbolOf returns the declared name of an asset.
func (l *Library) SymbolOf(assetID string) (string, bool) {
	name, ok := l.symbols[assetID]
	return name, ok
}

// CreateInstance creates a new instance of an asset for one timeline.
func (l *Library) CreateInstance(assetID, instanceID string) (scene.Instance, error) {
	asset, ok := l.assets[assetID]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownAsset, assetID)
	}
	l.next++
	return &Instance{
		id:     instanceID,
		asset:  asset,
		lib:    l,
		local:  "instance" + strconv.Itoa(l.next),
		symbol: l.symbols[assetID],
	}, nil
}

// Symbol is a built container together with the symbols it nests.
type Symbol struct {
	AssetID   string
	Container *scene.Container
	// DependsOn lists the declared names of every nested container, sorted
	DependsOn []string
}

// Symbols builds every container asset. A container is ordered after the
// containers it places. Each call builds fresh containers and restarts local
// name numbering, so repeated calls yield the same names.
func (l *Library) Symbols() ([]Symbol, error) {
	l.next = 0
	g := dag.NewGraph[*core.Asset]()
	containers := l.doc.AssetsOfKind(core.AssetContainer)
	for _, a := range containers {
		g.AddNode(a.ID, a)
	}
	for _, a := range containers {
		for _, f := range a.Frames {
			for _, cmd := range f.Commands {
				dep, ok := l.assets[cmd.AssetID]
				if !ok || dep.Kind != core.AssetContainer {
					continue
				}
				if err := g.AddEdge(dep.ID, a.ID); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrDependencyCycle, err)
				}
			}
		}
	}

	sorted, err := g.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyCycle, err)
	}

	symbols := make([]Symbol, 0, len(sorted))
	for _, node := range sorted {
		c, err := scene.NewContainer(l, l.symbols[node.ID], node.Data.Frames, scene.WithLogger(l.logger))
		if err != nil {
			return nil, err
		}
		var deps []string
		for _, id := range g.GetUpstreamNodes(node.ID) {
			deps = append(deps, l.symbols[id])
		}
		symbols = append(symbols, Symbol{AssetID: node.ID, Container: c, DependsOn: deps})
	}
	return symbols, nil
}

// Shapes returns the compiled draw opcodes of every shape asset keyed by
// declared name.
func (l *Library) Shapes() map[string][]any {
	out := make(map[string][]any, len(l.shapes))
	for _, s := range l.shapes {
		out[s.Name()] = s.Opcodes()
	}
	return out
}

// SoundCue is the first frame a sound instance appears on in a container.
type SoundCue struct {
	Sound  string `json:"sound"`
	Symbol string `json:"symbol"`
	Frame  int    `json:"frame"`
}

// Sounds lists the sound cues of every container in authoring order.
func (l *Library) Sounds() []SoundCue {
	var cues []SoundCue
	for _, c := range l.doc.AssetsOfKind(core.AssetContainer) {
		seen := make(map[string]bool)
		for _, f := range c.Frames {
			for _, cmd := range f.Commands {
				a, ok := l.assets[cmd.AssetID]
				if !ok || a.Kind != core.AssetSound || seen[cmd.InstanceID] {
					continue
				}
				seen[cmd.InstanceID] = true
				cues = append(cues, SoundCue{Sound: l.symbols[a.ID], Symbol: l.symbols[c.ID], Frame: f.Frame})
			}
		}
	}
	return cues
}

// SymbolName turns an authored name into a JavaScript identifier:
// "my graphic 2" becomes "MyGraphic2". fallback is used when name has no
// letters or digits.
func SymbolName(name, fallback string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 && fallback != "" && fallback != name {
		return SymbolName(fallback, "")
	}

	caser := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if unicode.IsDigit([]rune(out)[0]) {
		out = "_" + out
	}
	return out
}

func uniqueName(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
}
