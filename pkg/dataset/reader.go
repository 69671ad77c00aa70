package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/menta2k/defect-dataset/internal/utils"
	"github.com/menta2k/defect-dataset/pkg/annotation"
	"github.com/menta2k/defect-dataset/pkg/geometry"
	"github.com/menta2k/defect-dataset/pkg/processing"
	"github.com/menta2k/defect-dataset/pkg/sample"
)

// ErrNoLabels is returned when a shot has no label file
var ErrNoLabels = errors.New("label file not found")

// Layout describes where shots and labels live:
// <Root>/raw/<Images>/<name>.jpg and <Root>/raw/<Labels>/<name>.txt
type Layout struct {
	Root   string
	Images string
	Labels string
}

// DefaultLayout returns the layout with the standard folder names
func DefaultLayout(root string) Layout {
	return Layout{Root: root, Images: "images", Labels: "labels"}
}

// ImagePath returns the path of the shot filename
func (l Layout) ImagePath(filename string) string {
	return filepath.Join(l.Root, "raw", l.Images, filename)
}

// LabelPath returns the path of the label file belonging to filename
func (l Layout) LabelPath(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return filepath.Join(l.Root, "raw", l.Labels, base+".txt")
}

// Reader loads samples from a dataset directory
type Reader struct {
	layout    Layout
	processor *processing.Processor
}

// NewReader creates a reader for layout
func NewReader(layout Layout) *Reader {
	return &Reader{layout: layout, processor: processing.NewProcessor()}
}

// Layout returns the directory layout of the reader
func (r *Reader) Layout() Layout {
	return r.layout
}

// List returns the image file names of the dataset in lexical order
func (r *Reader) List() ([]string, error) {
	dir := filepath.Join(r.layout.Root, "raw", r.layout.Images)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && utils.IsImageFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read loads the shot filename and its labels. Label lines that do not
// parse are logged and skipped.
func (r *Reader) Read(filename string) (sample.Sample, error) {
	frame, err := r.processor.LoadFrame(r.layout.ImagePath(filename))
	if err != nil {
		return sample.Sample{}, fmt.Errorf("failed to load image %s: %w", filename, err)
	}

	labelPath := r.layout.LabelPath(filename)
	lines, err := ReadLines(labelPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sample.Sample{}, fmt.Errorf("%w: %s", ErrNoLabels, labelPath)
		}
		return sample.Sample{}, err
	}

	objs, dropped := ParseLabels(lines, frame.Size())
	if dropped > 0 {
		log.Printf("%s: skipped %d malformed label lines", labelPath, dropped)
	}

	return sample.New(frame, objs), nil
}

// ParseLabels parses label lines against imageSize. Blank lines are ignored
// and other lines that do not parse are counted in dropped.
func ParseLabels(lines []string, imageSize geometry.Size) (objs []annotation.Object, dropped int) {
	objs = make([]annotation.Object, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		o, ok := annotation.Parse(line, imageSize)
		if !ok {
			dropped++
			continue
		}
		objs = append(objs, o)
	}
	return objs, dropped
}
