package loader

import (
	"fmt"

	"github.com/jiborobot/pixi-animate-extension/pkg/core"
)

// Validate checks the structural rules generation relies on: unique asset
// ids, known kinds, ascending frames, resolvable commands and one asset per
// instance id within a timeline.
func Validate(doc *core.Document) error {
	fail := func(field, format string, args ...any) error {
		return &DocumentError{File: doc.SourcePath, Field: field, Message: fmt.Sprintf(format, args...)}
	}

	kinds := make(map[string]core.AssetKind, len(doc.Assets))
	for i, a := range doc.Assets {
		field := fmt.Sprintf("assets[%d]", i)
		if a.ID == "" {
			return fail(field, "missing id")
		}
		if _, dup := kinds[a.ID]; dup {
			return fail(field, "duplicate asset id %q", a.ID)
		}
		if !a.Kind.Valid() {
			return fail(field, "unknown kind %q", a.Kind)
		}
		kinds[a.ID] = a.Kind

		for j, p := range a.Paths {
			if p.Kind != core.PathFill && p.Kind != core.PathStroke {
				return fail(fmt.Sprintf("%s.paths[%d]", field, j), "unknown path kind %q", p.Kind)
			}
		}
		if len(a.Paths) > 0 && a.Kind != core.AssetShape {
			return fail(field, "%s asset cannot have paths", a.Kind)
		}
		if len(a.Frames) > 0 && a.Kind != core.AssetContainer {
			return fail(field, "%s asset cannot have frames", a.Kind)
		}
	}

	for i, a := range doc.Assets {
		owner := make(map[string]string)
		for j, f := range a.Frames {
			field := fmt.Sprintf("assets[%d].frames[%d]", i, j)
			if f.Frame < 0 {
				return fail(field, "negative frame %d", f.Frame)
			}
			if j > 0 && f.Frame <= a.Frames[j-1].Frame {
				return fail(field, "frame %d does not follow frame %d", f.Frame, a.Frames[j-1].Frame)
			}

			for k, cmd := range f.Commands {
				cmdField := fmt.Sprintf("%s.commands[%d]", field, k)
				if cmd.InstanceID == "" {
					return fail(cmdField, "missing instanceId")
				}
				if cmd.AssetID == "" {
					return fail(cmdField, "missing assetId")
				}
				if _, ok := kinds[cmd.AssetID]; !ok {
					return fail(cmdField, "unknown asset %q", cmd.AssetID)
				}
				if prev, ok := owner[cmd.InstanceID]; ok && prev != cmd.AssetID {
					return fail(cmdField, "instance %q already placed as asset %q", cmd.InstanceID, prev)
				}
				owner[cmd.InstanceID] = cmd.AssetID
				if cmd.MaskInstanceID == cmd.InstanceID {
					return fail(cmdField, "instance %q masks itself", cmd.InstanceID)
				}
			}
		}
	}

	if doc.Stage != "" {
		kind, ok := kinds[doc.Stage]
		if !ok {
			return fail("stage", "unknown asset %q", doc.Stage)
		}
		if kind != core.AssetContainer {
			return fail("stage", "asset %q is a %s, not a container", doc.Stage, kind)
		}
	}
	return nil
}
