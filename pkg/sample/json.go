package sample

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/menta2k/defect-dataset/pkg/annotation"
	"github.com/menta2k/defect-dataset/pkg/geometry"
	"github.com/menta2k/defect-dataset/pkg/processing"
	"github.com/menta2k/defect-dataset/pkg/types"
)

// ErrMalformedRecord is returned for internal records whose box is not
// four integers
var ErrMalformedRecord = errors.New("malformed record")

// IDSource hands out object identifiers
type IDSource interface {
	Next() int
}

// Sequence is an IDSource counting up from its start value
type Sequence struct {
	next int
}

// NewSequence returns a sequence whose first identifier is start
func NewSequence(start int) *Sequence {
	return &Sequence{next: start}
}

// Peek returns the identifier Next would return without consuming it
func (s *Sequence) Peek() int {
	return s.next
}

// Next returns the next identifier
func (s *Sequence) Next() int {
	id := s.next
	s.next++
	return id
}

// ImageID parses the integer prefix of filename up to the first '.'
func ImageID(filename string) (int, error) {
	prefix, _, _ := strings.Cut(filename, ".")
	id, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("image id from %q: %w", filename, err)
	}
	return id, nil
}

// ToCocoJSON builds the COCO record of the sample. The image id is the
// numeric prefix of filename and every object draws one id from ids.
func (s Sample) ToCocoJSON(filename string, ids IDSource) (types.CocoImage, error) {
	imageID, err := ImageID(filename)
	if err != nil {
		return types.CocoImage{}, err
	}

	size := s.Size()
	objs := types.CocoObjects{
		BBox:     make([][4]int, 0, len(s.objects)),
		Area:     make([]int, 0, len(s.objects)),
		Category: make([]int, 0, len(s.objects)),
		ID:       make([]int, 0, len(s.objects)),
	}
	for _, o := range s.objects {
		objs.BBox = append(objs.BBox, o.Box.ToCocoBounds())
		objs.Area = append(objs.Area, o.Box.Size().Area())
		objs.Category = append(objs.Category, o.Category)
		objs.ID = append(objs.ID, ids.Next())
	}

	return types.CocoImage{
		FileName: filename,
		Width:    size.Width,
		Height:   size.Height,
		ImageID:  imageID,
		Objects:  objs,
	}, nil
}

// ToInternal returns the objects as absolute [x0, y0, x1, y1] records
func (s Sample) ToInternal() []types.InternalObject {
	recs := make([]types.InternalObject, 0, len(s.objects))
	for _, o := range s.objects {
		recs = append(recs, types.InternalObject{
			Box:      []int{o.Box.LT.X, o.Box.LT.Y, o.Box.RB.X, o.Box.RB.Y},
			Category: o.Category,
		})
	}
	return recs
}

// ToInternalJSON encodes the objects as a JSON array of internal records
func (s Sample) ToInternalJSON() ([]byte, error) {
	return json.Marshal(s.ToInternal())
}

// FromInternal builds a sample from internal records
func FromInternal(img processing.Buffer, recs []types.InternalObject) (Sample, error) {
	if img == nil {
		return Sample{}, ErrNoImage
	}
	objs := make([]annotation.Object, 0, len(recs))
	for i, r := range recs {
		if len(r.Box) != 4 {
			return Sample{}, fmt.Errorf("%w: record %d has %d box values", ErrMalformedRecord, i, len(r.Box))
		}
		objs = append(objs, annotation.Object{
			Box:      geometry.NewRect(geometry.Pt(r.Box[0], r.Box[1]), geometry.Pt(r.Box[2], r.Box[3])),
			Category: r.Category,
		})
	}
	return Sample{image: img, objects: objs}, nil
}

// FromInternalJSON decodes a JSON array of internal records
func FromInternalJSON(img processing.Buffer, data []byte) (Sample, error) {
	var recs []types.InternalObject
	if err := json.Unmarshal(data, &recs); err != nil {
		return Sample{}, fmt.Errorf("failed to parse internal json: %w", err)
	}
	return FromInternal(img, recs)
}

// ToDatabaseJSON converts the objects to database records using the
// category names in categories
func (s Sample) ToDatabaseJSON(categories []string) ([]types.DatabaseObject, error) {
	size := s.Size()
	recs := make([]types.DatabaseObject, 0, len(s.objects))
	for _, o := range s.objects {
		rec, err := annotation.ToDatabase(o, size, categories)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
