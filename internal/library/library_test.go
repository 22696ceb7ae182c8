package library

import (
	"errors"
	"testing"

	"github.com/jiborobot/pixi-animate-extension/internal/render"
	"github.com/jiborobot/pixi-animate-extension/internal/scene"
	"github.com/jiborobot/pixi-animate-extension/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square() []core.Path {
	return []core.Path{{Kind: core.PathFill, Color: "#ff0000", Alpha: 1, D: []any{"m", 0.0, 0.0, "l", 10.0, 0.0}}}
}

func place(instanceID, assetID string) core.Command {
	return core.Command{InstanceID: instanceID, AssetID: assetID}
}

func hidden(instanceID, assetID string) core.Command {
	off := false
	return core.Command{InstanceID: instanceID, AssetID: assetID, Visible: &off}
}

func newLibrary(t *testing.T, assets ...core.Asset) *Library {
	t.Helper()
	lib, err := New(&core.Document{Name: "test", Namespace: "lib", Assets: assets})
	require.NoError(t, err)
	return lib
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		assets []core.Asset
		errMsg string
	}{
		{"missing id", []core.Asset{{Kind: core.AssetShape}}, "has no id"},
		{"duplicate id", []core.Asset{{ID: "a", Kind: core.AssetShape}, {ID: "a", Kind: core.AssetText}}, `duplicate asset id "a"`},
		{"unknown kind", []core.Asset{{ID: "a", Kind: "movie"}}, `unknown kind "movie"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&core.Document{Assets: tt.assets})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSymbolName(t *testing.T) {
	tests := []struct {
		name, fallback, want string
	}{
		{"Stage", "", "Stage"},
		{"my graphic 2", "", "MyGraphic2"},
		{"button_up-state", "", "ButtonUpState"},
		{"already CamelCase", "", "AlreadyCamelCase"},
		{"3 box", "", "_3Box"},
		{"", "shape_7", "Shape7"},
		{"---", "", "_"},
		{"élan vital", "", "ÉlanVital"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SymbolName(tt.name, tt.fallback), "SymbolName(%q, %q)", tt.name, tt.fallback)
	}
}

func TestNew_UniqueSymbolNames(t *testing.T) {
	lib := newLibrary(t,
		core.Asset{ID: "a", Name: "box", Kind: core.AssetShape},
		core.Asset{ID: "b", Name: "Box", Kind: core.AssetShape},
	)
	a, _ := lib.SymbolOf("a")
	b, _ := lib.SymbolOf("b")
	assert.Equal(t, "Box", a)
	assert.Equal(t, "Box_2", b)
}

func TestCreateInstance(t *testing.T) {
	lib := newLibrary(t, core.Asset{ID: "s", Name: "Shape1", Kind: core.AssetShape, Paths: square()})

	first, err := lib.CreateInstance("s", "i1")
	require.NoError(t, err)
	second, err := lib.CreateInstance("s", "i2")
	require.NoError(t, err)
	assert.Equal(t, "instance1", first.LocalName())
	assert.Equal(t, "instance2", second.LocalName())

	_, err = lib.CreateInstance("missing", "i3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAsset))
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestInstance_MaskEvents(t *testing.T) {
	type event struct {
		kind  scene.MaskEvent
		frame int
	}

	tests := []struct {
		name     string
		commands []core.Command
		want     []event
	}{
		{
			name:     "never masks",
			commands: []core.Command{place("m", "s"), place("m", "s")},
		},
		{
			name:     "add then remove",
			commands: []core.Command{{InstanceID: "m", AssetID: "s", MaskInstanceID: "t"}, {InstanceID: "m", AssetID: "s", MaskInstanceID: "t"}, place("m", "s")},
			want:     []event{{scene.MaskAdded, 0}, {scene.MaskRemoved, 2}},
		},
		{
			name:     "retarget",
			commands: []core.Command{{InstanceID: "m", AssetID: "s", MaskInstanceID: "t"}, {InstanceID: "m", AssetID: "s", MaskInstanceID: "u"}},
			want:     []event{{scene.MaskAdded, 0}, {scene.MaskRemoved, 1}, {scene.MaskAdded, 1}},
		},
		{
			name:     "open until the end",
			commands: []core.Command{place("m", "s"), {InstanceID: "m", AssetID: "s", MaskInstanceID: "t"}},
			want:     []event{{scene.MaskAdded, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := newLibrary(t, core.Asset{ID: "s", Kind: core.AssetShape})
			inst, err := lib.CreateInstance("s", "m")
			require.NoError(t, err)

			var got []event
			inst.OnMask(scene.MaskAdded, func(_ core.Command, frame int) { got = append(got, event{scene.MaskAdded, frame}) })
			inst.OnMask(scene.MaskRemoved, func(_ core.Command, frame int) { got = append(got, event{scene.MaskRemoved, frame}) })

			for f, cmd := range tt.commands {
				inst.AddToFrame(f, cmd)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != nil, inst.(*Instance).IsMask())
		})
	}
}

func TestInstance_HistoryFrameOrder(t *testing.T) {
	lib := newLibrary(t, core.Asset{ID: "s", Kind: core.AssetShape})
	inst, err := lib.CreateInstance("s", "i")
	require.NoError(t, err)

	inst.AddToFrame(4, place("i", "s"))
	inst.AddToFrame(1, place("i", "s"))
	inst.AddToFrame(4, hidden("i", "s"))

	h := inst.(*Instance).History()
	require.Len(t, h, 3)
	assert.Equal(t, []int{1, 4, 4}, []int{h[0].Frame, h[1].Frame, h[2].Frame})
	assert.False(t, h[2].Command.IsVisible(), "same-frame commands keep arrival order")
}

func TestInstance_Renderable(t *testing.T) {
	tests := []struct {
		name     string
		kind     core.AssetKind
		commands []core.Command
		want     bool
		sound    bool
	}{
		{"visible shape", core.AssetShape, []core.Command{place("i", "a")}, true, false},
		{"hidden then shown", core.AssetText, []core.Command{hidden("i", "a"), place("i", "a")}, true, false},
		{"always hidden", core.AssetBitmap, []core.Command{hidden("i", "a"), hidden("i", "a")}, false, false},
		{"sound", core.AssetSound, []core.Command{place("i", "a")}, false, true},
		{"mask", core.AssetShape, []core.Command{{InstanceID: "i", AssetID: "a", MaskInstanceID: "x"}}, false, false},
		{"no commands", core.AssetShape, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := newLibrary(t, core.Asset{ID: "a", Kind: tt.kind})
			inst, err := lib.CreateInstance("a", "i")
			require.NoError(t, err)
			for f, cmd := range tt.commands {
				inst.AddToFrame(f, cmd)
			}
			assert.Equal(t, tt.want, inst.Renderable())
			assert.Equal(t, tt.sound, inst.SoundOnly())
		})
	}
}

func TestInstance_Render(t *testing.T) {
	lib := newLibrary(t,
		core.Asset{ID: "s", Name: "Shape1", Kind: core.AssetShape, Paths: square()},
		core.Asset{ID: "b", Name: "logo", Kind: core.AssetBitmap, Src: "images/logo.png"},
		core.Asset{ID: "t", Name: "label", Kind: core.AssetText, Text: `Say "hi"`},
		core.Asset{ID: "c", Name: "walk cycle", Kind: core.AssetContainer},
		core.Asset{ID: "snd", Name: "beep", Kind: core.AssetSound},
	)

	moved := &core.Transform{X: 10.456, Y: 20, ScaleX: 1, ScaleY: 1, Alpha: 0.5}

	tests := []struct {
		name     string
		assetID  string
		compress bool
		cmd      core.Command
		mask     string
		want     string
		wantErr  bool
	}{
		{
			name:    "shape",
			assetID: "s",
			cmd:     place("i", "s"),
			want:    "    var instance1 = new Graphics().drawCommands(shapes.Shape1);\n",
		},
		{
			name:     "shape compressed with mask",
			assetID:  "s",
			compress: true,
			cmd:      place("i", "s"),
			mask:     "instance9",
			want:     "    var instance1 = new Graphics().d(shapes.Shape1)\n        .ma(instance9);\n",
		},
		{
			name:    "bitmap with transform",
			assetID: "b",
			cmd:     core.Command{InstanceID: "i", AssetID: "b", Transform: moved},
			want:    "    var instance1 = Sprite.from(\"images/logo.png\")\n        .setTransform(10.46, 20, 1, 1, 0, 0, 0)\n        .setAlpha(0.5);\n",
		},
		{
			name:    "text",
			assetID: "t",
			cmd:     place("i", "t"),
			want:    "    var instance1 = new Text(\"Say \\\"hi\\\"\");\n",
		},
		{
			name:    "container",
			assetID: "c",
			cmd:     place("i", "c"),
			want:    "    var instance1 = new lib.WalkCycle();\n",
		},
		{
			name:    "sound",
			assetID: "snd",
			cmd:     place("i", "snd"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib.next = 0
			inst, err := lib.CreateInstance(tt.assetID, "i")
			require.NoError(t, err)
			inst.AddToFrame(0, tt.cmd)

			out, err := inst.Render(render.New(render.Config{Compress: tt.compress}), tt.mask)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func maskedStage() []core.Asset {
	return []core.Asset{
		{ID: "shape", Name: "Shape1", Kind: core.AssetShape, Paths: square()},
		{ID: "maskShape", Name: "Mask Shape", Kind: core.AssetShape, Paths: square()},
		{ID: "stage", Name: "Stage", Kind: core.AssetContainer, Frames: []core.Frame{
			{Frame: 0, Commands: []core.Command{
				{InstanceID: "m", AssetID: "maskShape", MaskInstanceID: "t"},
				{InstanceID: "t", AssetID: "shape", Transform: &core.Transform{X: 10, Y: 20, ScaleX: 1, ScaleY: 1, Alpha: 1}},
			}},
			{Frame: 2, Commands: []core.Command{
				place("m", "maskShape"),
				place("t", "shape"),
			}},
		}},
	}
}

func TestSymbols_MaskedStage(t *testing.T) {
	lib := newLibrary(t, maskedStage()...)

	symbols, err := lib.Symbols()
	require.NoError(t, err)
	require.Len(t, symbols, 1)

	stage := symbols[0].Container
	masks := stage.Masks()
	require.Len(t, masks, 1)
	require.NotNil(t, masks[0].Duration)
	assert.Equal(t, 2, *masks[0].Duration)
	assert.Equal(t, "instance2", masks[0].Instance.LocalName())

	tests := []struct {
		compress bool
		want     string
	}{
		{
			compress: false,
			want: "lib.Stage = Container.extend(function() {\n" +
				"    Container.call(this);\n" +
				"    var instance1 = new Graphics().drawCommands(shapes.MaskShape);\n" +
				"    var instance2 = new Graphics().drawCommands(shapes.Shape1)\n" +
				"        .setTransform(10, 20, 1, 1, 0, 0, 0)\n" +
				"        .setMask(instance1);\n" +
				"    this.addChild(instance1, instance2);\n" +
				"});",
		},
		{
			compress: true,
			want: "lib.Stage = Container.extend(function() {\n" +
				"    Container.call(this);\n" +
				"    var instance1 = new Graphics().d(shapes.MaskShape);\n" +
				"    var instance2 = new Graphics().d(shapes.Shape1)\n" +
				"        .t(10, 20, 1, 1, 0, 0, 0)\n" +
				"        .ma(instance1);\n" +
				"    this.ac(instance1, instance2);\n" +
				"});",
		},
	}

	for _, tt := range tests {
		out, err := stage.Render(render.New(render.Config{Compress: tt.compress}))
		require.NoError(t, err)
		assert.Equal(t, tt.want, out)
	}
}

func TestSymbols_DependencyOrder(t *testing.T) {
	lib := newLibrary(t,
		core.Asset{ID: "stage", Name: "Stage", Kind: core.AssetContainer, Frames: []core.Frame{
			{Frame: 0, Commands: []core.Command{place("a", "inner"), place("b", "shape")}},
		}},
		core.Asset{ID: "inner", Name: "Inner", Kind: core.AssetContainer, Frames: []core.Frame{
			{Frame: 0, Commands: []core.Command{place("x", "leaf")}},
		}},
		core.Asset{ID: "leaf", Name: "Leaf", Kind: core.AssetContainer},
		core.Asset{ID: "shape", Name: "Shape1", Kind: core.AssetShape, Paths: square()},
	)

	symbols, err := lib.Symbols()
	require.NoError(t, err)

	var names []string
	for _, s := range symbols {
		names = append(names, s.Container.Name())
	}
	assert.Equal(t, []string{"Leaf", "Inner", "Stage"}, names)
	assert.Equal(t, []string{"Inner", "Leaf"}, symbols[2].DependsOn)
	assert.Empty(t, symbols[0].DependsOn)

	again, err := lib.Symbols()
	require.NoError(t, err)
	assert.Equal(t, symbols[2].Container.Children()[0].LocalName(), again[2].Container.Children()[0].LocalName(),
		"local names restart on every build")
}

func TestSymbols_Errors(t *testing.T) {
	tests := []struct {
		name   string
		assets []core.Asset
		target error
	}{
		{
			name: "cycle",
			assets: []core.Asset{
				{ID: "a", Kind: core.AssetContainer, Frames: []core.Frame{{Commands: []core.Command{place("i", "b")}}}},
				{ID: "b", Kind: core.AssetContainer, Frames: []core.Frame{{Commands: []core.Command{place("j", "a")}}}},
			},
			target: ErrDependencyCycle,
		},
		{
			name: "self reference",
			assets: []core.Asset{
				{ID: "a", Kind: core.AssetContainer, Frames: []core.Frame{{Commands: []core.Command{place("i", "a")}}}},
			},
			target: ErrDependencyCycle,
		},
		{
			name: "unknown asset",
			assets: []core.Asset{
				{ID: "a", Kind: core.AssetContainer, Frames: []core.Frame{{Commands: []core.Command{place("i", "ghost")}}}},
			},
			target: ErrUnknownAsset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLibrary(t, tt.assets...).Symbols()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestShapes(t *testing.T) {
	lib := newLibrary(t, maskedStage()...)
	shapes := lib.Shapes()
	require.Len(t, shapes, 2)
	assert.Equal(t, []any{"f", "#ff0000", 1.0, "m", 0.0, 0.0, "l", 10.0, 0.0}, shapes["Shape1"])
	assert.Contains(t, shapes, "MaskShape")
}

func TestSounds(t *testing.T) {
	lib := newLibrary(t,
		core.Asset{ID: "beep", Name: "beep", Kind: core.AssetSound, Src: "beep.mp3"},
		core.Asset{ID: "stage", Name: "Stage", Kind: core.AssetContainer, Frames: []core.Frame{
			{Frame: 3, Commands: []core.Command{place("s1", "beep")}},
			{Frame: 4, Commands: []core.Command{place("s1", "beep")}},
			{Frame: 9, Commands: []core.Command{place("s2", "beep")}},
		}},
	)

	assert.Equal(t, []SoundCue{
		{Sound: "Beep", Symbol: "Stage", Frame: 3},
		{Sound: "Beep", Symbol: "Stage", Frame: 9},
	}, lib.Sounds())

	symbols, err := lib.Symbols()
	require.NoError(t, err)
	assert.Empty(t, symbols[0].Container.Children(), "sounds are never scene nodes")
	assert.Len(t, symbols[0].Container.Instances(), 2)
}
