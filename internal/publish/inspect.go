package publish

import (
	"fmt"

	"github.com/jiborobot/pixi-animate-extension/internal/library"
	"github.com/jiborobot/pixi-animate-extension/internal/loader"
)

// Report summarises how a document's timelines reduce to scene graphs.
type Report struct {
	Document string             `json:"document"`
	Name     string             `json:"name"`
	Symbols  []SymbolReport     `json:"symbols"`
	Shapes   int                `json:"shapes"`
	Sounds   []library.SoundCue `json:"sounds,omitempty"`
}

// SymbolReport describes one container.
type SymbolReport struct {
	Name      string        `json:"name"`
	DependsOn []string      `json:"depends_on,omitempty"`
	Instances int           `json:"instances"`
	Children  []ChildReport `json:"children"`
	Masks     []MaskReport  `json:"masks,omitempty"`
}

// ChildReport is one declared content child.
type ChildReport struct {
	Local    string `json:"local"`
	Instance string `json:"instance"`
	Asset    string `json:"asset"`
	Kind     string `json:"kind"`
	Mask     string `json:"mask,omitempty"`
}

// MaskReport is one mask interval. Duration is nil while open.
type MaskReport struct {
	Mask     string `json:"mask"`
	Target   string `json:"target"`
	Frame    int    `json:"frame"`
	Duration *int   `json:"duration,omitempty"`
}

// Inspect builds the document at path without writing anything.
func (p *Publisher) Inspect(path string) (*Report, error) {
	doc, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	lib, err := library.New(doc, library.WithLogger(p.logger))
	if err != nil {
		return nil, err
	}
	symbols, err := lib.Symbols()
	if err != nil {
		return nil, err
	}

	report := &Report{
		Document: path,
		Name:     doc.Name,
		Shapes:   len(lib.Shapes()),
		Sounds:   lib.Sounds(),
	}
	for _, s := range symbols {
		c := s.Container
		sr := SymbolReport{
			Name:      c.Name(),
			DependsOn: s.DependsOn,
			Instances: len(c.Instances()),
		}
		for _, child := range c.Children() {
			cr := ChildReport{Local: child.LocalName(), Mask: c.MaskFor(child)}
			if inst, ok := child.(*library.Instance); ok {
				cr.Instance = inst.ID()
				cr.Asset = inst.Asset().ID
				cr.Kind = string(inst.Asset().Kind)
			}
			sr.Children = append(sr.Children, cr)
		}
		for _, m := range c.Masks() {
			sr.Masks = append(sr.Masks, MaskReport{
				Mask:     m.Mask.LocalName(),
				Target:   m.Instance.LocalName(),
				Frame:    m.Frame,
				Duration: m.Duration,
			})
		}
		report.Symbols = append(report.Symbols, sr)
	}
	return report, nil
}

// RenderSymbol renders one container of the document at path.
func (p *Publisher) RenderSymbol(path, symbol string) (string, error) {
	doc, err := loader.LoadFile(path)
	if err != nil {
		return "", err
	}
	lib, err := library.New(doc, library.WithLogger(p.logger))
	if err != nil {
		return "", err
	}
	symbols, err := lib.Symbols()
	if err != nil {
		return "", err
	}

	var names []string
	for _, s := range symbols {
		if s.Container.Name() == symbol {
			return s.Container.Render(p.renderer)
		}
		names = append(names, s.Container.Name())
	}
	return "", fmt.Errorf("symbol %q not found (have %v)", symbol, names)
}
