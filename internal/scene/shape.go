package scene

import (
	"math"
	"slices"

	"github.com/jiborobot/pixi-animate-extension/pkg/core"
)

// Draw opcodes emitted by Shape.
const (
	OpClosePath = "cp"
	OpStroke    = "s"
	OpFill      = "f"
)

// Shape is vector path data compiled once into a flat draw-opcode list.
type Shape struct {
	Base
	opcodes []any
}

// NewShape compiles paths into draw opcodes:
//
//	[f color alpha d...] cp [s color thickness alpha d...] cp ...
//
// Numbers inside d are rounded to two decimals; other values pass through.
func NewShape(name string, paths []core.Path) *Shape {
	var ops []any
	for i, p := range paths {
		if i > 0 {
			ops = append(ops, OpClosePath)
		}
		if p.Kind == core.PathStroke {
			ops = append(ops, OpStroke, p.Color, p.Thickness, p.Alpha)
		} else {
			ops = append(ops, OpFill, p.Color, p.Alpha)
		}
		for _, v := range p.D {
			ops = append(ops, roundValue(v))
		}
	}
	return &Shape{Base: Base{name: name}, opcodes: ops}
}

// Opcodes returns a copy of the compiled draw commands.
func (s *Shape) Opcodes() []any {
	return slices.Clone(s.opcodes)
}

// Render references the shape through the shape template.
func (s *Shape) Render(r Renderer) (string, error) {
	return r.Template("shape", map[string]any{"name": s.Name()})
}

// RoundCoord rounds v to two decimals, halves away from zero.
func RoundCoord(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundValue(v any) any {
	switch n := v.(type) {
	case float64:
		return RoundCoord(n)
	case float32:
		return RoundCoord(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return v
	}
}
