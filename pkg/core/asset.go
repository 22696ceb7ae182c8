package core

// AssetKind identifies the variant of a library asset.
type AssetKind string

// Asset kinds understood by the library.
const (
	AssetShape     AssetKind = "shape"
	AssetBitmap    AssetKind = "bitmap"
	AssetText      AssetKind = "text"
	AssetSound     AssetKind = "sound"
	AssetContainer AssetKind = "container"
)

// Valid reports whether k is a known asset kind.
func (k AssetKind) Valid() bool {
	switch k {
	case AssetShape, AssetBitmap, AssetText, AssetSound, AssetContainer:
		return true
	default:
		return false
	}
}

// Displayable reports whether instances of k can become scene nodes.
func (k AssetKind) Displayable() bool {
	return k.Valid() && k != AssetSound
}

// PathKind identifies how a vector path is painted.
type PathKind string

// Path kinds.
const (
	PathStroke PathKind = "stroke"
	PathFill   PathKind = "fill"
)

// Path is one painted vector path of a shape asset.
type Path struct {
	Kind      PathKind
	Color     string
	Thickness float64
	Alpha     float64
	// D is the path data: numeric coordinates interleaved with
	// string sub-opcodes (m, l, c, ...)
	D []any
}

// Asset is a reusable library item.
type Asset struct {
	// ID is the identifier commands reference
	ID string
	// Name is the declared name in generated code
	Name string
	// Kind selects the asset variant
	Kind AssetKind
	// Paths holds the vector data of shape assets
	Paths []Path
	// Frames holds the timeline of container assets
	Frames []Frame
	// Text is the content of text assets
	Text string
	// Src is the file reference of bitmap and sound assets
	Src string
}

// Document is one exported animation file: its library and stage.
type Document struct {
	// Name is the document name, used for output file names
	Name string
	// Namespace is the global the generated library registers into
	Namespace string
	Width     int
	Height    int
	FrameRate float64
	// Background is the stage color (e.g. "#ffffff")
	Background string
	// Stage is the asset id of the root container (optional)
	Stage string
	// Assets are the library items in authoring order
	Assets []Asset
	// SourcePath is the file the document was loaded from
	SourcePath string
}

// Asset returns the asset with the given id.
func (d *Document) Asset(id string) (*Asset, bool) {
	for i := range d.Assets {
		if d.Assets[i].ID == id {
			return &d.Assets[i], true
		}
	}
	return nil, false
}

// AssetsOfKind returns the assets of kind k in authoring order.
func (d *Document) AssetsOfKind(k AssetKind) []*Asset {
	var out []*Asset
	for i := range d.Assets {
		if d.Assets[i].Kind == k {
			out = append(out, &d.Assets[i])
		}
	}
	return out
}
