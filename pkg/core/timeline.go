package core

// Frame is one keyframe of a timeline: the commands issued at a frame index.
// Frames of a timeline are ordered by ascending Frame.
type Frame struct {
	// Frame is the 0-based frame index
	Frame int
	// Commands are the authoring commands of this frame, front-most first
	Commands []Command
}

// Command places (or keeps) one timeline instance on a frame.
// An InstanceID identifies the same logical instance in every frame it
// appears in and never maps to two different AssetIDs inside one timeline.
type Command struct {
	// InstanceID is the stable identity of the timeline instance
	InstanceID string
	// AssetID references the library asset the instance is built from
	AssetID string
	// MaskInstanceID is set when this instance masks another instance.
	// It holds the InstanceID of the masked target.
	MaskInstanceID string
	// Transform is the placement of the instance on this frame (nil = identity)
	Transform *Transform
	// Visible is false when the instance is hidden on this frame (nil = visible)
	Visible *bool
}

// IsVisible reports whether the command leaves the instance visible.
func (c Command) IsVisible() bool {
	return c.Visible == nil || *c.Visible
}

// IsMask reports whether the command marks its instance as a mask.
func (c Command) IsMask() bool {
	return c.MaskInstanceID != ""
}

// Transform is a 2D placement in the order the runtime's setTransform expects.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	SkewX    float64
	SkewY    float64
	Alpha    float64
}

// IdentityTransform returns the transform of an untouched instance.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1, Alpha: 1}
}

// IsIdentity reports whether t places nothing beyond the identity.
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform()
}

// InstanceIDs returns the distinct instance ids referenced by frames,
// in first-appearance order.
func InstanceIDs(frames []Frame) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, f := range frames {
		for _, cmd := range f.Commands {
			if !seen[cmd.InstanceID] {
				seen[cmd.InstanceID] = true
				ids = append(ids, cmd.InstanceID)
			}
		}
	}
	return ids
}
