// Package sample combines an image with its annotations and implements the
// transformations used to build training tiles: crops that keep annotations
// consistent, random empty and defect tiles, deduplication and scoring.
//
// A Sample is a value. Every operation returns a new Sample and leaves the
// receiver untouched.
package sample

import (
	"errors"
	"fmt"
	"slices"

	"github.com/menta2k/defect-dataset/internal/utils"
	"github.com/menta2k/defect-dataset/pkg/annotation"
	"github.com/menta2k/defect-dataset/pkg/geometry"
	"github.com/menta2k/defect-dataset/pkg/processing"
	"github.com/menta2k/defect-dataset/pkg/window"
)

var (
	// ErrNoEmptyTile is returned when no trial found a tile free of objects
	ErrNoEmptyTile = errors.New("no empty tile found")
	// ErrTileTooLarge is returned when the tile does not fit in the image
	ErrTileTooLarge = errors.New("tile larger than image")
	// ErrNoImage is returned when a sample would be built without a buffer
	ErrNoImage = errors.New("sample has no image")
)

// Sample is an image with an ordered list of objects. Objects may lie partly
// or fully outside the image until the sample is cropped.
type Sample struct {
	image   processing.Buffer
	objects []annotation.Object
}

// New returns a sample over img. The objects slice is copied. img must not
// be nil.
func New(img processing.Buffer, objects []annotation.Object) Sample {
	objs := make([]annotation.Object, len(objects))
	copy(objs, objects)
	return Sample{image: img, objects: objs}
}

// Image returns the pixel buffer
func (s Sample) Image() processing.Buffer {
	return s.image
}

// Size returns the image size
func (s Sample) Size() geometry.Size {
	return s.image.Size()
}

// Objects returns a copy of the objects in order
func (s Sample) Objects() []annotation.Object {
	objs := make([]annotation.Object, len(s.objects))
	copy(objs, s.objects)
	return objs
}

// Len returns the number of objects
func (s Sample) Len() int {
	return len(s.objects)
}

// WithObjects returns a sample over the same image with objects replaced
func (s Sample) WithObjects(objects []annotation.Object) Sample {
	return New(s.image, objects)
}

// Crop cuts box out of the image. Every object is moved into the coordinates
// of the crop and clipped to it; objects that end up outside or too small
// are dropped.
func (s Sample) Crop(box geometry.Rect) Sample {
	size := box.Size()
	objs := utils.Choose(s.objects, func(o annotation.Object) (annotation.Object, bool) {
		r, ok := o.Box.Sub(box.LT).AdjustToBoundaries(size)
		return o.WithBox(r), ok
	})
	return Sample{image: s.image.Crop(box), objects: objs}
}

// RndEmpty returns a random tile of the image that overlaps none of the
// objects. It gives up after window.DefaultTrials attempts.
func (s Sample) RndEmpty(src window.Source, tile geometry.Size) (Sample, error) {
	size := s.Size()
	if !tile.Fits(size) {
		return Sample{}, fmt.Errorf("%w: %v in %v", ErrTileTooLarge, tile, size)
	}

	boxes := utils.Map(s.objects, func(o annotation.Object) geometry.Rect { return o.Box })
	p := window.Empty(src, size, tile, boxes, window.DefaultTrials)
	if !p.Placed {
		return Sample{}, fmt.Errorf("%w after %d trials", ErrNoEmptyTile, p.Trials)
	}

	return New(s.image.Crop(p.Rect), nil), nil
}

// RndDefects returns one tile per object, placed at random so that it lies
// inside the image and fully contains the object. Objects that cannot be
// covered by a tile are skipped. When categories are given only objects of
// those categories are used. Tiles are returned in object order.
func (s Sample) RndDefects(src window.Source, tile geometry.Size, categories ...int) []Sample {
	size := s.Size()
	objs := s.objects
	if len(categories) > 0 {
		objs = utils.Filter(objs, func(o annotation.Object) bool { return slices.Contains(categories, o.Category) })
	}

	return utils.Choose(objs, func(o annotation.Object) (Sample, bool) {
		r, ok := window.Containing(src, size, o.Box, tile)
		if !ok {
			return Sample{}, false
		}
		return s.Crop(r), true
	})
}

// Dedupe merges objects of the same category that are at most tolerance
// apart. See annotation.Dedupe for the merge order.
func (s Sample) Dedupe(tolerance int) Sample {
	return Sample{image: s.image, objects: annotation.Dedupe(s.objects, tolerance)}
}

// CountFalse scores the sample's objects as predictions against truth and
// returns (false negatives, false positives)
func (s Sample) CountFalse(truth []annotation.Object) (int, int) {
	return annotation.CountFalse(s.objects, truth)
}

// DisplayRects returns the image with every object outlined
func (s Sample) DisplayRects() processing.Buffer {
	boxes := utils.Map(s.objects, func(o annotation.Object) geometry.Rect { return o.Box })
	return s.image.DrawRects(boxes, processing.ObjectColor)
}
