package scene

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jiborobot/pixi-animate-extension/pkg/core"
)

// statementIndent prefixes statements inside a container body.
const statementIndent = "    "

// Container owns the reconstructed child tree of one timeline.
type Container struct {
	Base

	lib    Library
	logger *slog.Logger

	// instances maps instance ids to the single instance created for them
	instances map[string]Instance
	// created keeps instance ids in creation order
	created []string
	// masks is append-only during construction
	masks []*MaskInterval
	// children is the declaration order of content nodes
	children []Instance
	// addChildren collects local names during a render pass
	addChildren []string
}

// ContainerOption configures a Container.
type ContainerOption func(*Container)

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *slog.Logger) ContainerOption {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewContainer builds the container for frames. Instances are created
// through lib; an asset lib cannot resolve fails the whole construction.
func NewContainer(lib Library, name string, frames []core.Frame, opts ...ContainerOption) (*Container, error) {
	c := &Container{
		Base:      Base{name: name},
		lib:       lib,
		logger:    slog.New(slog.DiscardHandler),
		instances: make(map[string]Instance),
	}
	for _, opt := range opts {
		opt(c)
	}

	children, err := c.buildChildren(frames)
	if err != nil {
		return nil, fmt.Errorf("container %q: %w", name, err)
	}
	c.children = children

	c.logger.Debug("container built",
		"container", name,
		"frames", len(frames),
		"instances", len(c.instances),
		"children", len(c.children),
		"masks", len(c.masks))
	return c, nil
}

// buildChildren walks the timeline once and returns the content children in
// declaration order.
func (c *Container) buildChildren(frames []core.Frame) ([]Instance, error) {
	var candidates []Instance
	seen := make(map[Instance]bool)

	for _, frame := range frames {
		for _, cmd := range frame.Commands {
			inst, ok := c.instances[cmd.InstanceID]
			if !ok {
				created, err := c.lib.CreateInstance(cmd.AssetID, cmd.InstanceID)
				if err != nil {
					return nil, fmt.Errorf("instance %q: %w", cmd.InstanceID, err)
				}
				inst = created
				c.instances[cmd.InstanceID] = inst
				c.created = append(c.created, cmd.InstanceID)
				inst.OnMask(MaskAdded, c.onMaskAdded)
				inst.OnMask(MaskRemoved, c.onMaskRemoved)
			}

			inst.AddToFrame(frame.Frame, cmd)

			// Sound instances keep their commands for timing but are never nodes.
			if !seen[inst] && !inst.SoundOnly() {
				seen[inst] = true
				candidates = append(candidates, inst)
			}
		}
	}

	c.resolveMasks()

	// Renderability depends on the full command history, so it is only
	// checked once every frame has been walked.
	children := make([]Instance, 0, len(candidates))
	for _, inst := range candidates {
		if inst.Renderable() {
			children = append(children, inst)
		}
	}

	// Commands are authored front to back; the runtime wants back-most first.
	// TODO: replace with a depth sort over per-frame command order.
	slices.Reverse(children)
	return children, nil
}

// Render declares the container with its contents.
func (c *Container) Render(r Renderer) (string, error) {
	contents, err := c.Contents(r)
	if err != nil {
		return "", err
	}
	return r.Template("container", map[string]any{
		"id":       c.Name(),
		"contents": contents,
	})
}

// Contents renders masks, then children, then the statement adding every
// declared node. Each call starts a fresh pass.
func (c *Container) Contents(r Renderer) (string, error) {
	c.addChildren = c.addChildren[:0]

	var buf strings.Builder
	for _, m := range c.masks {
		out, err := c.renderInstance(r, m.Mask)
		if err != nil {
			return "", err
		}
		buf.WriteString(out)
	}
	for _, child := range c.children {
		out, err := c.renderInstance(r, child)
		if err != nil {
			return "", err
		}
		buf.WriteString(out)
	}
	buf.WriteString(c.addChildrenStatement(r))
	return buf.String(), nil
}

func (c *Container) renderInstance(r Renderer, inst Instance) (string, error) {
	out, err := inst.Render(r, c.MaskFor(inst))
	if err != nil {
		return "", fmt.Errorf("container %q: render %s: %w", c.Name(), inst.LocalName(), err)
	}
	c.addChildren = append(c.addChildren, inst.LocalName())
	return out, nil
}

func (c *Container) addChildrenStatement(r Renderer) string {
	if len(c.addChildren) == 0 {
		return ""
	}
	fn := "addChild"
	if r.Compress() {
		fn = "ac"
	}
	return fmt.Sprintf("%sthis.%s(%s);", statementIndent, fn, strings.Join(c.addChildren, ", "))
}

// Children returns the content children in declaration order.
func (c *Container) Children() []Instance {
	return slices.Clone(c.children)
}

// Masks returns the recorded mask intervals in the order they were added.
func (c *Container) Masks() []MaskInterval {
	out := make([]MaskInterval, len(c.masks))
	for i, m := range c.masks {
		out[i] = *m
	}
	return out
}

// Instances returns every instance the container created, in creation order.
func (c *Container) Instances() []Instance {
	out := make([]Instance, len(c.created))
	for i, id := range c.created {
		out[i] = c.instances[id]
	}
	return out
}

// Instance returns the instance created for an instance id.
func (c *Container) Instance(id string) (Instance, bool) {
	inst, ok := c.instances[id]
	return inst, ok
}

// AddedChildren returns the local names declared by the last render pass.
func (c *Container) AddedChildren() []string {
	return slices.Clone(c.addChildren)
}
