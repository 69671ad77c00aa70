package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/menta2k/defect-dataset/internal/utils"
	"github.com/menta2k/defect-dataset/pkg/geometry"
	"github.com/menta2k/defect-dataset/pkg/processing"
	"github.com/menta2k/defect-dataset/pkg/sample"
	"github.com/menta2k/defect-dataset/pkg/types"
	"github.com/menta2k/defect-dataset/pkg/window"
)

// Exporter turns raw shots into numbered tiles and collects their COCO
// records. Tiles are written as <image_id>.<ext> into the output directory.
// An Exporter is not safe for concurrent use.
type Exporter struct {
	reader    *Reader
	processor *processing.Processor
	crops     *CropTable
	opts      types.ExportOptions
	src       window.Source

	id      string
	images  *sample.Sequence
	objects *sample.Sequence
	records []types.CocoImage
}

// NewExporter creates an exporter. A nil crops table disables fabric region
// cropping regardless of opts.CropToFabric.
func NewExporter(reader *Reader, crops *CropTable, opts types.ExportOptions, src window.Source) *Exporter {
	if src == nil {
		src = window.Ambient
	}
	return &Exporter{
		reader:    reader,
		processor: processing.NewProcessor(),
		crops:     crops,
		opts:      opts,
		src:       src,
		id:        uuid.NewString(),
		images:    sample.NewSequence(1),
		objects:   sample.NewSequence(1),
		records:   []types.CocoImage{},
	}
}

// Region returns the fabric region of filename, if the table knows it
func (e *Exporter) Region(filename string) (geometry.Rect, bool) {
	if e.crops == nil {
		return geometry.Rect{}, false
	}
	info, ok := ParseShotInfo(filename)
	return utils.Bind(info, ok, e.crops.Lookup)
}

// Prepare reads a shot, crops it to its fabric region and merges duplicate
// labels
func (e *Exporter) Prepare(filename string) (sample.Sample, error) {
	s, err := e.reader.Read(filename)
	if err != nil {
		return sample.Sample{}, err
	}

	if e.opts.CropToFabric {
		if region, ok := e.Region(filename); ok {
			s = s.Crop(region)
		} else {
			log.Printf("%s: no fabric region, keeping full shot", filename)
		}
	}

	return s.Dedupe(e.opts.Tolerance), nil
}

// ExportTiles writes one tile per usable defect of filename plus up to
// EmptyPerImage tiles without defects. It returns the number of tiles written.
// A tile larger than the prepared shot yields no tiles and no error.
func (e *Exporter) ExportTiles(filename string) (int, error) {
	s, err := e.Prepare(filename)
	if err != nil {
		return 0, err
	}

	tileSize := geometry.Size{Width: e.opts.Tile.Width, Height: e.opts.Tile.Height}
	tiles := s.RndDefects(e.src, tileSize, e.opts.CategoryFilter...)
	for i := 0; i < e.opts.EmptyPerImage; i++ {
		t, err := s.RndEmpty(e.src, tileSize)
		if errors.Is(err, sample.ErrTileTooLarge) {
			log.Printf("%s: %v, no empty tiles", filename, err)
			break
		}
		if errors.Is(err, sample.ErrNoEmptyTile) {
			log.Printf("%s: %v", filename, err)
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("%s: %w", filename, err)
		}
		tiles = append(tiles, t)
	}

	for i, t := range tiles {
		if err := e.write(t); err != nil {
			return i, err
		}
	}
	return len(tiles), nil
}

// ExportImage writes the whole prepared shot as a single image
func (e *Exporter) ExportImage(filename string) error {
	s, err := e.Prepare(filename)
	if err != nil {
		return err
	}
	return e.write(s)
}

func (e *Exporter) write(s sample.Sample) error {
	if err := utils.EnsureDir(e.opts.OutputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	img, err := processing.ToImage(s.Image())
	if err != nil {
		return err
	}

	ext := e.opts.Tile.Extension
	if ext == "" {
		ext = "jpg"
	}
	// the id is only taken once the file is on disk
	name := fmt.Sprintf("%d.%s", e.images.Peek(), ext)
	path := filepath.Join(e.opts.OutputDir, name)
	if err := e.processor.SaveImage(img, path, ext, e.opts.Tile.Quality, e.opts.Tile.Lossless); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	e.images.Next()

	rec, err := s.ToCocoJSON(name, e.objects)
	if err != nil {
		return err
	}
	e.records = append(e.records, rec)
	return nil
}

// Manifest returns the records collected so far
func (e *Exporter) Manifest() types.Manifest {
	categories := e.opts.CategoryNames
	if categories == nil {
		categories = []string{}
	}
	return types.Manifest{ID: e.id, Categories: categories, Images: e.records}
}

// WriteManifest writes the manifest as indented JSON
func (e *Exporter) WriteManifest(path string) error {
	data, err := json.MarshalIndent(e.Manifest(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
