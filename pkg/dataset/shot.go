// Package dataset reads raw fabric shots with their label files and exports
// them as tiles with a COCO-style manifest.
package dataset

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/menta2k/defect-dataset/pkg/geometry"
)

//go:embed cropboxes.yaml
var cropBoxesYAML []byte

var filenamePattern = regexp.MustCompile(`^.*_c(\d)(?:_Ткань)?_(.*)\.jpg$`)

// ShotInfo is the camera side and fabric type encoded in a shot filename,
// e.g. "f6c50725-127_c0_Ткань_чулок_рибана.jpg"
type ShotInfo struct {
	Side       int
	FabricType string
}

// ParseShotInfo extracts the shot metadata from filename. Names are compared
// in NFC, decomposed names as written by some file systems match too.
func ParseShotInfo(filename string) (ShotInfo, bool) {
	m := filenamePattern.FindStringSubmatch(norm.NFC.String(filename))
	if m == nil {
		return ShotInfo{}, false
	}
	side, err := strconv.Atoi(m[1])
	if err != nil {
		return ShotInfo{}, false
	}
	return ShotInfo{Side: side, FabricType: m[2]}, true
}

// CropTable maps fabric type and side to the fabric region of a shot
type CropTable struct {
	Fabrics map[string]map[int][]int `yaml:"fabrics"`
}

// ParseCropTable decodes a YAML crop table and checks every box
func ParseCropTable(data []byte) (*CropTable, error) {
	var t CropTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse crop table: %w", err)
	}
	fabrics := make(map[string]map[int][]int, len(t.Fabrics))
	for fabric, sides := range t.Fabrics {
		for side, box := range sides {
			if len(box) != 4 {
				return nil, fmt.Errorf("crop table: %s side %d has %d values, want 4", fabric, side, len(box))
			}
		}
		fabrics[norm.NFC.String(fabric)] = sides
	}
	t.Fabrics = fabrics
	return &t, nil
}

// LoadCropTable reads a crop table from a YAML file
func LoadCropTable(path string) (*CropTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read crop table: %w", err)
	}
	return ParseCropTable(data)
}

// DefaultCropTable returns the built-in table of the fabric line cameras
func DefaultCropTable() *CropTable {
	t, err := ParseCropTable(cropBoxesYAML)
	if err != nil {
		panic("failed to parse embedded cropboxes.yaml: " + err.Error())
	}
	return t
}

// Lookup returns the fabric region for shot
func (t *CropTable) Lookup(shot ShotInfo) (geometry.Rect, bool) {
	box, ok := t.Fabrics[shot.FabricType][shot.Side]
	if !ok {
		return geometry.Rect{}, false
	}
	return geometry.NewRect(geometry.Pt(box[0], box[1]), geometry.Pt(box[2], box[3])), true
}

// Len returns the number of (fabric, side) entries
func (t *CropTable) Len() int {
	n := 0
	for _, sides := range t.Fabrics {
		n += len(sides)
	}
	return n
}
