package types

// CocoObjects holds the per-object columns of a COCO image record. All slices
// have the same length and are ordered like the sample's objects.
type CocoObjects struct {
	BBox     [][4]int `json:"bbox"`
	Area     []int    `json:"area"`
	Category []int    `json:"category"`
	ID       []int    `json:"id"`
}

// CocoImage is one image entry of a COCO-style dataset with absolute
// [x, y, width, height] boxes
type CocoImage struct {
	FileName string      `json:"file_name"`
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	ImageID  int         `json:"image_id"`
	Objects  CocoObjects `json:"objects"`
}

// InternalObject is an absolute [x0, y0, x1, y1] box with its category
type InternalObject struct {
	Box      []int `json:"box"`
	Category int   `json:"category"`
}

// DatabaseObject is an object ready for insertion into a table with a
// postgres box column
type DatabaseObject struct {
	Category string `json:"category"`
	Box      string `json:"box"`
}

// Manifest describes an exported dataset
type Manifest struct {
	ID         string      `json:"id"`
	Categories []string    `json:"categories"`
	Images     []CocoImage `json:"images"`
}

// TileConfig defines the size and encoding of exported tiles
type TileConfig struct {
	Width     int
	Height    int
	Quality   int
	Lossless  bool
	Extension string
}

// ExportOptions contains options for dataset export
type ExportOptions struct {
	OutputDir      string
	Tile           TileConfig
	EmptyPerImage  int
	CategoryFilter []int
	CategoryNames  []string
	Tolerance      int
	CropToFabric   bool
}
