// Package loader reads exported animation documents from YAML or JSON.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jiborobot/pixi-animate-extension/pkg/core"
)

// ErrInvalidDocument is wrapped by every error describing a malformed document.
var ErrInvalidDocument = errors.New("invalid document")

// Document defaults applied when a field is omitted.
const (
	DefaultNamespace = "lib"
	DefaultWidth     = 550
	DefaultHeight    = 400
	DefaultFrameRate = 24.0
	DefaultColor     = "#ffffff"
)

// DocumentError describes why a document was rejected.
type DocumentError struct {
	File string
	// Field locates the offending value, e.g. assets[2].frames[0]
	Field   string
	Message string
}

func (e *DocumentError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

func (e *DocumentError) Unwrap() error { return ErrInvalidDocument }

// documentYAML mirrors the export format. JSON exports decode through the
// same structs since JSON is valid YAML.
type documentYAML struct {
	Name       string      `yaml:"name"`
	Namespace  string      `yaml:"namespace"`
	Width      int         `yaml:"width"`
	Height     int         `yaml:"height"`
	FrameRate  float64     `yaml:"framerate"`
	Background string      `yaml:"background"`
	Stage      string      `yaml:"stage"`
	Assets     []assetYAML `yaml:"assets"`
}

type assetYAML struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	Kind   string      `yaml:"kind"`
	Paths  []pathYAML  `yaml:"paths"`
	Frames []frameYAML `yaml:"frames"`
	Text   string      `yaml:"text"`
	Src    string      `yaml:"src"`
}

type pathYAML struct {
	Kind      string   `yaml:"kind"`
	Color     string   `yaml:"color"`
	Thickness float64  `yaml:"thickness"`
	Alpha     *float64 `yaml:"alpha"`
	D         []any    `yaml:"d"`
}

type frameYAML struct {
	Frame    int           `yaml:"frame"`
	Commands []commandYAML `yaml:"commands"`
}

type commandYAML struct {
	InstanceID     string         `yaml:"instanceId"`
	AssetID        string         `yaml:"assetId"`
	MaskInstanceID string         `yaml:"maskInstanceId"`
	Transform      *transformYAML `yaml:"transform"`
	Visible        *bool          `yaml:"visible"`
}

type transformYAML struct {
	X        float64  `yaml:"x"`
	Y        float64  `yaml:"y"`
	ScaleX   *float64 `yaml:"scaleX"`
	ScaleY   *float64 `yaml:"scaleY"`
	Rotation float64  `yaml:"rotation"`
	SkewX    float64  `yaml:"skewX"`
	SkewY    float64  `yaml:"skewY"`
	Alpha    *float64 `yaml:"alpha"`
}

// LoadFile reads and validates the document at path.
func LoadFile(path string) (*core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	doc.SourcePath = path
	return doc, nil
}

// Parse decodes a document. file names the source in errors and supplies the
// default document name.
func Parse(data []byte, file string) (*core.Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw documentYAML
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DocumentError{File: file, Message: "empty document"}
		}
		return nil, &DocumentError{File: file, Message: err.Error()}
	}

	doc, err := convert(&raw, file)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func convert(raw *documentYAML, file string) (*core.Document, error) {
	doc := &core.Document{
		Name:       raw.Name,
		Namespace:  raw.Namespace,
		Width:      raw.Width,
		Height:     raw.Height,
		FrameRate:  raw.FrameRate,
		Background: raw.Background,
		Stage:      raw.Stage,
		SourcePath: file,
	}
	if doc.Name == "" && file != "" {
		base := filepath.Base(file)
		doc.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if doc.Namespace == "" {
		doc.Namespace = DefaultNamespace
	}
	if doc.Width == 0 {
		doc.Width = DefaultWidth
	}
	if doc.Height == 0 {
		doc.Height = DefaultHeight
	}
	if doc.FrameRate == 0 {
		doc.FrameRate = DefaultFrameRate
	}
	if doc.Background == "" {
		doc.Background = DefaultColor
	}

	doc.Assets = make([]core.Asset, 0, len(raw.Assets))
	for i, a := range raw.Assets {
		asset := core.Asset{
			ID:   a.ID,
			Name: a.Name,
			Kind: core.AssetKind(a.Kind),
			Text: a.Text,
			Src:  a.Src,
		}
		if asset.Name == "" {
			asset.Name = a.ID
		}

		for j, p := range a.Paths {
			d, err := coercePathData(p.D)
			if err != nil {
				return nil, &DocumentError{File: file, Field: fmt.Sprintf("assets[%d].paths[%d].d", i, j), Message: err.Error()}
			}
			asset.Paths = append(asset.Paths, core.Path{
				Kind:      core.PathKind(p.Kind),
				Color:     p.Color,
				Thickness: p.Thickness,
				Alpha:     orDefault(p.Alpha, 1),
				D:         d,
			})
		}

		for _, f := range a.Frames {
			frame := core.Frame{Frame: f.Frame}
			for _, c := range f.Commands {
				frame.Commands = append(frame.Commands, convertCommand(c))
			}
			asset.Frames = append(asset.Frames, frame)
		}
		doc.Assets = append(doc.Assets, asset)
	}
	return doc, nil
}

func convertCommand(c commandYAML) core.Command {
	cmd := core.Command{
		InstanceID:     c.InstanceID,
		AssetID:        c.AssetID,
		MaskInstanceID: c.MaskInstanceID,
		Visible:        c.Visible,
	}
	if c.Transform != nil {
		cmd.Transform = &core.Transform{
			X:        c.Transform.X,
			Y:        c.Transform.Y,
			ScaleX:   orDefault(c.Transform.ScaleX, 1),
			ScaleY:   orDefault(c.Transform.ScaleY, 1),
			Rotation: c.Transform.Rotation,
			SkewX:    c.Transform.SkewX,
			SkewY:    c.Transform.SkewY,
			Alpha:    orDefault(c.Transform.Alpha, 1),
		}
	}
	return cmd
}

// coercePathData normalises path data to strings and float64s.
func coercePathData(d []any) ([]any, error) {
	out := make([]any, len(d))
	for i, v := range d {
		switch n := v.(type) {
		case string:
			out[i] = n
		case int:
			out[i] = float64(n)
		case int64:
			out[i] = float64(n)
		case uint64:
			out[i] = float64(n)
		case float64:
			out[i] = n
		default:
			return nil, fmt.Errorf("item %d: want number or opcode, got %T", i, v)
		}
	}
	return out, nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
