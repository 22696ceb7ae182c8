package scene

import "github.com/jiborobot/pixi-animate-extension/pkg/core"

// MaskInterval is a span of the timeline during which Mask clips Instance.
type MaskInterval struct {
	// Instance is the masked target
	Instance Instance
	// Mask is the instance doing the clipping
	Mask Instance
	// Frame is the frame the mask was added on
	Frame int
	// Duration is set once the mask is removed; nil means the mask lasts
	// until the end of the timeline
	Duration *int

	targetID string
}

// Open reports whether the interval has no end yet.
func (m *MaskInterval) Open() bool {
	return m.Duration == nil
}

// TargetID returns the instance id of the masked target.
func (m *MaskInterval) TargetID() string {
	return m.targetID
}

// onMaskAdded opens an interval for the mask addressed by cmd. The same
// pair signaled twice records two intervals.
func (c *Container) onMaskAdded(cmd core.Command, frame int) {
	c.masks = append(c.masks, &MaskInterval{
		Instance: c.instances[cmd.MaskInstanceID],
		Mask:     c.instances[cmd.InstanceID],
		Frame:    frame,
		targetID: cmd.MaskInstanceID,
	})
}

// onMaskRemoved closes every interval of the mask addressed by cmd, not
// just the latest one. Unknown masks are ignored.
func (c *Container) onMaskRemoved(cmd core.Command, frame int) {
	mask, ok := c.instances[cmd.InstanceID]
	if !ok {
		return
	}
	for _, m := range c.masks {
		if m.Mask == mask {
			d := frame - m.Frame
			m.Duration = &d
		}
	}
}

// resolveMasks binds intervals whose target was created after its mask.
// Intervals whose target never appears are dropped.
func (c *Container) resolveMasks() {
	kept := c.masks[:0]
	for _, m := range c.masks {
		if m.Instance == nil {
			m.Instance = c.instances[m.targetID]
		}
		if m.Instance == nil {
			c.logger.Warn("mask target never placed, dropping interval",
				"container", c.Name(), "mask", m.Mask.LocalName(), "target", m.targetID, "frame", m.Frame)
			continue
		}
		kept = append(kept, m)
	}
	c.masks = kept
}

// MaskFor returns the local name of the mask of the first interval that
// targets inst, or "". Later intervals for the same target are not used.
func (c *Container) MaskFor(inst Instance) string {
	for _, m := range c.masks {
		if m.Instance == inst {
			return m.Mask.LocalName()
		}
	}
	return ""
}
