// Package scene reduces frame-based timelines into scene-graph declarations.
//
// A Container walks a timeline once, deduplicates the instances its commands
// address, resolves mask intervals and fixes the declaration order of its
// children. Rendering then emits masks first, then content, then a single
// statement adding every declared node to the container.
package scene

import (
	"fmt"

	"github.com/jiborobot/pixi-animate-extension/pkg/core"
)

// Renderer turns named templates into code fragments.
type Renderer interface {
	// Template renders the named template with data as its globals.
	Template(name string, data map[string]any) (string, error)
	// Compress reports whether short runtime method names are emitted.
	Compress() bool
}

// Renderable is anything that produces a code fragment.
type Renderable interface {
	Render(r Renderer) (string, error)
}

// Base holds what every renderable carries. It has no Render method:
// embedding types supply their own.
type Base struct {
	name string
}

// Name returns the declared name.
func (b Base) Name() string { return b.name }

// MaskEvent identifies a mask lifecycle notification.
type MaskEvent int

// Mask lifecycle events.
const (
	MaskAdded MaskEvent = iota
	MaskRemoved
)

func (e MaskEvent) String() string {
	switch e {
	case MaskAdded:
		return "maskAdded"
	case MaskRemoved:
		return "maskRemoved"
	default:
		return fmt.Sprintf("MaskEvent(%d)", int(e))
	}
}

// MaskHandler receives the command that triggered a mask event and its frame.
type MaskHandler func(cmd core.Command, frame int)

// Instance is the stateful accumulation of every command addressed to one
// timeline instance.
type Instance interface {
	// AddToFrame records cmd as the instance's state on frame.
	AddToFrame(frame int, cmd core.Command)
	// Render declares the instance. mask is the local name of the node
	// masking it, or "".
	Render(r Renderer, mask string) (string, error)
	// Renderable reports whether the instance becomes a scene node.
	Renderable() bool
	// SoundOnly reports whether the instance only carries sound timing.
	SoundOnly() bool
	// LocalName is the identifier the instance is declared under.
	LocalName() string
	// OnMask subscribes h to a mask lifecycle event.
	OnMask(event MaskEvent, h MaskHandler)
}

// Library creates instances of its assets.
type Library interface {
	CreateInstance(assetID, instanceID string) (Instance, error)
}
