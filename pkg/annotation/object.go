// Package annotation implements category-tagged boxes and the algorithms that
// operate on collections of them: merge-based deduplication and greedy
// detection matching.
package annotation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/menta2k/defect-dataset/pkg/geometry"
	"github.com/menta2k/defect-dataset/pkg/types"
)

// DefaultTolerance is the merge distance used when none is configured
const DefaultTolerance = 2

// DefaultCategories is the label vocabulary of the fabric dataset, indexed by
// category number
var DefaultCategories = []string{"defect", "hole", "misc", "stripe"}

// ErrUnknownCategory is returned when a category has no name in the vocabulary
var ErrUnknownCategory = errors.New("unknown category")

// Object is an annotated box. Category indexes an external vocabulary and is
// not validated here.
type Object struct {
	Box      geometry.Rect `json:"box"`
	Category int           `json:"category"`
}

// UpdateRect returns a copy of o with fn applied to its box
func (o Object) UpdateRect(fn func(geometry.Rect) geometry.Rect) Object {
	return Object{Box: fn(o.Box), Category: o.Category}
}

// WithBox returns a copy of o with the box replaced
func (o Object) WithBox(box geometry.Rect) Object {
	return Object{Box: box, Category: o.Category}
}

// Merge combines o and other into one object covering both boxes. It fails
// when the categories differ or the boxes are more than tolerance apart.
func (o Object) Merge(other Object, tolerance int) (Object, bool) {
	if o.Category != other.Category {
		return Object{}, false
	}
	if o.Box.Distance(other.Box) > tolerance {
		return Object{}, false
	}
	return Object{Box: o.Box.Union(other.Box), Category: o.Category}, true
}

func (o Object) String() string {
	return fmt.Sprintf("%d:%s", o.Category, o.Box)
}

// Parse reads a "class cx cy w h" label line with normalized coordinates
func Parse(line string, imageSize geometry.Size) (Object, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Object{}, false
	}
	category, err := strconv.Atoi(fields[0])
	if err != nil {
		return Object{}, false
	}
	box, ok := geometry.ParseRelative(line, imageSize)
	if !ok {
		return Object{}, false
	}
	return Object{Box: box, Category: category}, true
}

// FromCoco rebuilds the objects of a COCO image record. Boxes are
// [x, y, width, height] with x, y the top-left corner.
func FromCoco(img types.CocoImage) []Object {
	objs := make([]Object, 0, len(img.Objects.BBox))
	for i, b := range img.Objects.BBox {
		category := 0
		if i < len(img.Objects.Category) {
			category = img.Objects.Category[i]
		}
		objs = append(objs, Object{
			Box:      geometry.FromSize(geometry.Pt(b[0], b[1]), geometry.Size{Width: b[2], Height: b[3]}),
			Category: category,
		})
	}
	return objs
}

// ToDatabase converts o to a record with a named category and a normalized
// postgres box literal
func ToDatabase(o Object, imageSize geometry.Size, categories []string) (types.DatabaseObject, error) {
	if o.Category < 0 || o.Category >= len(categories) {
		return types.DatabaseObject{}, fmt.Errorf("%w: %d", ErrUnknownCategory, o.Category)
	}
	return types.DatabaseObject{
		Category: categories[o.Category],
		Box:      o.Box.ToPostgresBox(imageSize),
	}, nil
}
