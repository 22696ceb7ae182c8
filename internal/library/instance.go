package library

import (
	"fmt"
	"sort"

	"github.com/jiborobot/pixi-animate-extension/internal/scene"
	starctx "github.com/jiborobot/pixi-animate-extension/internal/starlark"
	"github.com/jiborobot/pixi-animate-extension/pkg/core"
)

// Placement is one recorded command of an instance.
type Placement struct {
	Frame   int
	Command core.Command
}

// Instance accumulates the commands addressed to one timeline instance.
type Instance struct {
	id     string
	asset  *core.Asset
	lib    *Library
	local  string
	symbol string

	history  []Placement
	handlers map[scene.MaskEvent][]scene.MaskHandler

	// masking is the target id while the instance acts as a mask
	masking string
	wasMask bool
}

var _ scene.Instance = (*Instance)(nil)

// ID returns the timeline instance id.
func (i *Instance) ID() string { return i.id }

// Asset returns the asset the instance was created from.
func (i *Instance) Asset() *core.Asset { return i.asset }

// LocalName is the variable the instance is declared as.
func (i *Instance) LocalName() string { return i.local }

// History returns the recorded commands in frame order.
func (i *Instance) History() []Placement {
	out := make([]Placement, len(i.history))
	copy(out, i.history)
	return out
}

// OnMask subscribes h to a mask event.
func (i *Instance) OnMask(event scene.MaskEvent, h scene.MaskHandler) {
	if i.handlers == nil {
		i.handlers = make(map[scene.MaskEvent][]scene.MaskHandler)
	}
	i.handlers[event] = append(i.handlers[event], h)
}

func (i *Instance) emit(event scene.MaskEvent, cmd core.Command, frame int) {
	for _, h := range i.handlers[event] {
		h(cmd, frame)
	}
}

// AddToFrame records cmd on frame and signals mask transitions. Starting to
// mask emits MaskAdded; switching targets emits MaskRemoved then MaskAdded;
// a later command without a mask target emits MaskRemoved.
func (i *Instance) AddToFrame(frame int, cmd core.Command) {
	at := sort.Search(len(i.history), func(n int) bool { return i.history[n].Frame > frame })
	i.history = append(i.history, Placement{})
	copy(i.history[at+1:], i.history[at:])
	i.history[at] = Placement{Frame: frame, Command: cmd}

	switch {
	case cmd.MaskInstanceID != "" && cmd.MaskInstanceID != i.masking:
		if i.masking != "" {
			i.emit(scene.MaskRemoved, cmd, frame)
		}
		i.masking = cmd.MaskInstanceID
		i.wasMask = true
		i.emit(scene.MaskAdded, cmd, frame)
	case cmd.MaskInstanceID == "" && i.masking != "":
		i.masking = ""
		i.emit(scene.MaskRemoved, cmd, frame)
	}
}

// SoundOnly reports whether the instance is a sound.
func (i *Instance) SoundOnly() bool {
	return i.asset.Kind == core.AssetSound
}

// IsMask reports whether the instance acted as a mask on any frame.
func (i *Instance) IsMask() bool {
	return i.wasMask
}

// Renderable reports whether the instance becomes a content child. Sounds,
// masks and instances hidden on every frame do not.
func (i *Instance) Renderable() bool {
	if !i.asset.Kind.Displayable() || i.wasMask {
		return false
	}
	for _, p := range i.history {
		if p.Command.IsVisible() {
			return true
		}
	}
	return false
}

// Render declares the instance through the instance template.
func (i *Instance) Render(r scene.Renderer, mask string) (string, error) {
	ctor, err := i.constructor(r)
	if err != nil {
		return "", err
	}

	tr := i.initialTransform()
	var matrix []float64
	placed := tr
	placed.Alpha = 1
	if !placed.IsIdentity() {
		matrix = []float64{
			scene.RoundCoord(tr.X), scene.RoundCoord(tr.Y),
			scene.RoundCoord(tr.ScaleX), scene.RoundCoord(tr.ScaleY),
			scene.RoundCoord(tr.Rotation),
			scene.RoundCoord(tr.SkewX), scene.RoundCoord(tr.SkewY),
		}
	}

	return r.Template("instance", map[string]any{
		"local":     i.local,
		"ctor":      ctor,
		"transform": matrix,
		"alpha":     scene.RoundCoord(tr.Alpha),
		"mask":      mask,
	})
}

func (i *Instance) constructor(r scene.Renderer) (string, error) {
	switch i.asset.Kind {
	case core.AssetShape:
		ref, err := i.lib.shapes[i.asset.ID].Render(r)
		if err != nil {
			return "", err
		}
		method := "drawCommands"
		if r.Compress() {
			method = "d"
		}
		return fmt.Sprintf("new Graphics().%s(%s)", method, ref), nil
	case core.AssetBitmap:
		return fmt.Sprintf("Sprite.from(%s)", starctx.QuoteJS(i.asset.Src)), nil
	case core.AssetText:
		return fmt.Sprintf("new Text(%s)", starctx.QuoteJS(i.asset.Text)), nil
	case core.AssetContainer:
		return fmt.Sprintf("new lib.%s()", i.symbol), nil
	default:
		return "", fmt.Errorf("instance %s: %s assets are not declared", i.id, i.asset.Kind)
	}
}

// initialTransform is the placement on the first recorded frame.
func (i *Instance) initialTransform() core.Transform {
	if len(i.history) == 0 || i.history[0].Command.Transform == nil {
		return core.IdentityTransform()
	}
	return *i.history[0].Command.Transform
}
