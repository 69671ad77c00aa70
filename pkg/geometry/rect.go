package geometry

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// MinSize is the smallest width or height (exclusive) a rect may keep after
// being clipped to a canvas
const MinSize = 2

// relativeFields is the number of fields in a normalized label line:
// class cx cy w h
const relativeFields = 5

// maxCoord bounds parsed absolute coordinates so that sums of corners in
// Distance cannot overflow
const maxCoord = 1 << 31

// Rect is an axis-aligned box given by its top-left and bottom-right corners.
// Rects built with NewRect, FromSize or FromCoco satisfy LT.X <= RB.X and
// LT.Y <= RB.Y.
type Rect struct {
	LT Point `json:"lt"`
	RB Point `json:"rb"`
}

// NewRect returns the rect spanned by two arbitrary corner points
func NewRect(p1, p2 Point) Rect {
	return Rect{
		LT: Point{min(p1.X, p2.X), min(p1.Y, p2.Y)},
		RB: Point{max(p1.X, p2.X), max(p1.Y, p2.Y)},
	}
}

// FromSize returns the rect with top-left corner lt and the given size
func FromSize(lt Point, size Size) Rect {
	return Rect{LT: lt, RB: Point{lt.X + size.Width, lt.Y + size.Height}}
}

// FromCoco builds a rect from a center point and a size
func FromCoco(center Point, size Size) Rect {
	x := center.X - size.Width/2
	y := center.Y - size.Height/2
	return NewRect(Point{x, y}, Point{x + size.Width, y + size.Height})
}

// RT is the top-right corner
func (r Rect) RT() Point {
	return Point{r.RB.X, r.LT.Y}
}

// LB is the bottom-left corner
func (r Rect) LB() Point {
	return Point{r.LT.X, r.RB.Y}
}

// Size returns the width and height of r
func (r Rect) Size() Size {
	return Size{r.RB.X - r.LT.X, r.RB.Y - r.LT.Y}
}

// Center returns the center of r, which may fall between pixels
func (r Rect) Center() (float64, float64) {
	return float64(r.LT.X+r.RB.X) / 2, float64(r.LT.Y+r.RB.Y) / 2
}

// Distance returns the gap between r and other along the axis where they are
// furthest apart. Zero or negative means the rects touch or overlap.
//
// It is max(|dcx| - (w1+w2)/2, |dcy| - (h1+h2)/2). The computation runs on
// doubled coordinates, where both terms are even for integer corners, so the
// result is exact.
func (r Rect) Distance(other Rect) int {
	s1, s2 := r.Size(), other.Size()
	dx := abs((r.LT.X+r.RB.X)-(other.LT.X+other.RB.X)) - (s1.Width + s2.Width)
	dy := abs((r.LT.Y+r.RB.Y)-(other.LT.Y+other.RB.Y)) - (s1.Height + s2.Height)
	return max(dx, dy) / 2
}

// Overlaps reports whether r and other touch or overlap. Crossing rects,
// where neither holds a corner of the other, overlap too.
func (r Rect) Overlaps(other Rect) bool {
	return r.Distance(other) <= 0
}

// Contain reports whether p lies inside r, bounds included
func (r Rect) Contain(p Point) bool {
	return r.Distance(Rect{p, p}) <= 0
}

// Union returns the smallest rect covering both r and other
func (r Rect) Union(other Rect) Rect {
	return Rect{
		LT: Point{min(r.LT.X, other.LT.X), min(r.LT.Y, other.LT.Y)},
		RB: Point{max(r.RB.X, other.RB.X), max(r.RB.Y, other.RB.Y)},
	}
}

// Add translates r by p
func (r Rect) Add(p Point) Rect {
	return Rect{r.LT.Add(p), r.RB.Add(p)}
}

// Sub translates r by -p
func (r Rect) Sub(p Point) Rect {
	return Rect{r.LT.Sub(p), r.RB.Sub(p)}
}

// AdjustToBoundaries clips r to a canvas of the given size. It fails when r
// lies outside the canvas or when the clipped box is MinSize pixels or less
// on either axis.
func (r Rect) AdjustToBoundaries(size Size) (Rect, bool) {
	if !r.Overlaps(FromSize(Point{}, size)) {
		return Rect{}, false
	}

	clipped := Rect{
		LT: Point{max(0, r.LT.X), max(0, r.LT.Y)},
		RB: Point{min(r.RB.X, size.Width), min(r.RB.Y, size.Height)},
	}
	s := clipped.Size()
	if s.Width <= MinSize || s.Height <= MinSize {
		return Rect{}, false
	}

	return clipped, true
}

// ParseRelative parses a "class cx cy w h" line whose last four fields are
// normalized to [0,1] and converts it to absolute pixels for imageSize.
// Coordinates are truncated toward zero.
func ParseRelative(line string, imageSize Size) (Rect, bool) {
	fields := strings.Fields(line)
	if len(fields) != relativeFields {
		return Rect{}, false
	}

	var v [relativeFields]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Rect{}, false
		}
		v[i] = n
	}

	cx, cy, wNorm, hNorm := v[1], v[2], v[3], v[4]
	wAbs := wNorm * float64(imageSize.Width)
	hAbs := hNorm * float64(imageSize.Height)
	xAbs := cx*float64(imageSize.Width) - wAbs/2
	yAbs := cy*float64(imageSize.Height) - hAbs/2
	for _, c := range []float64{xAbs, yAbs, wAbs, hAbs} {
		if math.Abs(c) > maxCoord {
			return Rect{}, false
		}
	}
	x, y := int(xAbs), int(yAbs)
	w, h := int(wAbs), int(hAbs)

	return Rect{LT: Point{x, y}, RB: Point{x + w, y + h}}, true
}

// ToCocoBounds returns the absolute [x, y, width, height] of r
func (r Rect) ToCocoBounds() [4]int {
	s := r.Size()
	return [4]int{r.LT.X, r.LT.Y, s.Width, s.Height}
}

// ToPostgresBox renders r as a postgres box literal "(x0,y0),(x1,y1)" with
// coordinates divided by the image size and clamped to [0,1]
func (r Rect) ToPostgresBox(imageSize Size) string {
	w, h := float64(imageSize.Width), float64(imageSize.Height)
	return fmt.Sprintf("(%s,%s),(%s,%s)",
		formatUnit(float64(r.LT.X)/w), formatUnit(float64(r.LT.Y)/h),
		formatUnit(float64(r.RB.X)/w), formatUnit(float64(r.RB.Y)/h))
}

// ImageRect converts r to an image.Rectangle
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(r.LT.X, r.LT.Y, r.RB.X, r.RB.Y)
}

// FromImageRect converts an image.Rectangle to a Rect
func FromImageRect(r image.Rectangle) Rect {
	return NewRect(Point{r.Min.X, r.Min.Y}, Point{r.Max.X, r.Max.Y})
}

func (r Rect) String() string {
	return r.LT.String() + "-" + r.RB.String()
}

func formatUnit(v float64) string {
	return strconv.FormatFloat(clamp(v, 0, 1), 'f', -1, 64)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
