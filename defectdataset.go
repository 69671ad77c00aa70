// Package defectdataset builds training data for fabric defect detection.
//
// It reads shots of fabric samples together with their normalized label
// files, keeps the annotations consistent while shots are cropped and tiled,
// merges noisy duplicate labels and scores predicted annotations against
// ground truth.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		defectdataset "github.com/menta2k/defect-dataset"
//		"github.com/menta2k/defect-dataset/pkg/geometry"
//	)
//
//	func main() {
//		tk := defectdataset.New()
//
//		s, err := tk.LoadSample("a1b2_c0_Ткань_чулок_рибана.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		for _, tile := range s.Dedupe(2).RndDefects(tk.Source(), geometry.Size{Width: 256, Height: 256}) {
//			log.Printf("tile with %d objects", tile.Len())
//		}
//	}
//
// The package consists of these components:
//
// 1. Geometry (pkg/geometry): points, sizes and rects with distance-based overlap
// 2. Annotation (pkg/annotation): labelled boxes, dedupe and detection matching
// 3. Window (pkg/window): random tile placement with an injectable source
// 4. Sample (pkg/sample): an image with its objects and all transformations
// 5. Dataset (pkg/dataset): raw dataset layout, fabric regions and export
// 6. Evaluation (pkg/evaluation): precision and recall over many images
package defectdataset

import (
	"fmt"
	"image"

	"github.com/menta2k/defect-dataset/internal/config"
	"github.com/menta2k/defect-dataset/pkg/annotation"
	"github.com/menta2k/defect-dataset/pkg/dataset"
	"github.com/menta2k/defect-dataset/pkg/geometry"
	"github.com/menta2k/defect-dataset/pkg/processing"
	"github.com/menta2k/defect-dataset/pkg/sample"
	"github.com/menta2k/defect-dataset/pkg/window"
)

// Version of the defect dataset library
const Version = "1.0.0"

// Toolkit provides a high-level interface over a dataset directory
type Toolkit struct {
	config    *config.Config
	processor *processing.Processor
	reader    *dataset.Reader
	crops     *dataset.CropTable
	src       window.Source
}

// New creates a Toolkit with default configuration
func New() *Toolkit {
	cfg := config.Default()
	tk, err := NewWithConfig(cfg)
	if err != nil {
		// the default configuration always validates
		panic(err)
	}
	return tk
}

// NewWithConfig creates a Toolkit from cfg. A non-zero tile seed makes tile
// placement reproducible.
func NewWithConfig(cfg *config.Config) (*Toolkit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	crops := dataset.DefaultCropTable()
	if cfg.Dataset.CropTable != "" {
		t, err := dataset.LoadCropTable(cfg.Dataset.CropTable)
		if err != nil {
			return nil, err
		}
		crops = t
	}

	src := window.Ambient
	if cfg.Tiles.Seed != 0 {
		src = window.Seeded(cfg.Tiles.Seed)
	}

	layout := dataset.Layout{
		Root:   cfg.Dataset.Root,
		Images: cfg.Dataset.ImageFolder,
		Labels: cfg.Dataset.LabelFolder,
	}

	return &Toolkit{
		config:    cfg,
		processor: processing.NewProcessor(),
		reader:    dataset.NewReader(layout),
		crops:     crops,
		src:       src,
	}, nil
}

// Config returns the configuration in use
func (tk *Toolkit) Config() *config.Config {
	return tk.config
}

// Source returns the random source used for tile placement
func (tk *Toolkit) Source() window.Source {
	return tk.src
}

// Reader returns the dataset reader
func (tk *Toolkit) Reader() *dataset.Reader {
	return tk.reader
}

// TileSize returns the configured tile size
func (tk *Toolkit) TileSize() geometry.Size {
	return geometry.Size{Width: tk.config.Tiles.Width, Height: tk.config.Tiles.Height}
}

// LoadSample reads a shot of the dataset by file name
func (tk *Toolkit) LoadSample(filename string) (sample.Sample, error) {
	return tk.reader.Read(filename)
}

// LoadSampleFiles reads an image and a label file from arbitrary paths
func (tk *Toolkit) LoadSampleFiles(imagePath, labelPath string) (sample.Sample, error) {
	frame, err := tk.processor.LoadFrame(imagePath)
	if err != nil {
		return sample.Sample{}, fmt.Errorf("failed to load image: %w", err)
	}
	lines, err := dataset.ReadLines(labelPath)
	if err != nil {
		return sample.Sample{}, err
	}
	objs, _ := dataset.ParseLabels(lines, frame.Size())
	return sample.New(frame, objs), nil
}

// LoadInternal reads an image and its objects from an internal JSON file
func (tk *Toolkit) LoadInternal(imagePath string, data []byte) (sample.Sample, error) {
	frame, err := tk.processor.LoadFrame(imagePath)
	if err != nil {
		return sample.Sample{}, fmt.Errorf("failed to load image: %w", err)
	}
	return sample.FromInternalJSON(frame, data)
}

// NewExporter creates an exporter writing to the configured output directory
func (tk *Toolkit) NewExporter(categoryFilter ...int) *dataset.Exporter {
	opts := tk.config.ExportOptions()
	opts.CategoryFilter = categoryFilter
	return dataset.NewExporter(tk.reader, tk.crops, opts, tk.src)
}

// Overlay renders the objects and the fabric region of a dataset shot
func (tk *Toolkit) Overlay(filename string) (image.Image, error) {
	s, err := tk.LoadSample(filename)
	if err != nil {
		return nil, err
	}
	img, err := processing.ToImage(s.Image())
	if err != nil {
		return nil, err
	}

	var region geometry.Rect
	if info, ok := dataset.ParseShotInfo(filename); ok {
		region, _ = tk.crops.Lookup(info)
	}
	boxes := make([]geometry.Rect, 0, s.Len())
	for _, o := range s.Objects() {
		boxes = append(boxes, o.Box)
	}
	return tk.processor.CreateDebugOverlay(img, boxes, region), nil
}

// SaveImage saves an image using the configured output format
func (tk *Toolkit) SaveImage(img image.Image, path string) error {
	out := tk.config.Output
	return tk.processor.SaveImage(img, path, out.Format, out.Quality, out.Lossless)
}

// Dedupe merges duplicate labels using the configured tolerance
func (tk *Toolkit) Dedupe(s sample.Sample) sample.Sample {
	return s.Dedupe(tk.config.Dedupe.Tolerance)
}

// Categories returns the configured category names, falling back to the
// built-in vocabulary
func (tk *Toolkit) Categories() []string {
	if len(tk.config.Categories) == 0 {
		return annotation.DefaultCategories
	}
	return tk.config.Categories
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
