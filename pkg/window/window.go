// Package window places fixed-size tiles inside an image, either around a
// given box or away from a set of obstacles.
package window

import (
	"math/rand/v2"

	"github.com/menta2k/defect-dataset/pkg/geometry"
)

// DefaultTrials is the number of random placements tried by Empty
const DefaultTrials = 10

// Source yields uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type ambient struct{}

func (ambient) IntN(n int) int { return rand.IntN(n) }

// Ambient draws from the process-wide generator
var Ambient Source = ambient{}

// Seeded returns a deterministic source for the given seed
func Seeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Offset picks a window start on one axis such that a window of winLen lies
// inside [0, imageLen] and covers [objPos, objPos+objLen]. The feasible
// starts are max(0, objPos+objLen-winLen) through min(imageLen-winLen, objPos)
// inclusive. It fails when that range is empty.
func Offset(src Source, imageLen, objPos, objLen, winLen int) (int, bool) {
	start := max(0, objPos+objLen-winLen)
	end := min(imageLen-winLen, objPos)
	if start > end {
		return 0, false
	}
	return start + src.IntN(end-start+1), true
}

// Containing places a win-sized window inside an image of imageSize so that it
// fully covers box. Each axis is drawn independently.
func Containing(src Source, imageSize geometry.Size, box geometry.Rect, win geometry.Size) (geometry.Rect, bool) {
	size := box.Size()
	x, ok := Offset(src, imageSize.Width, box.LT.X, size.Width, win.Width)
	if !ok {
		return geometry.Rect{}, false
	}
	y, ok := Offset(src, imageSize.Height, box.LT.Y, size.Height, win.Height)
	if !ok {
		return geometry.Rect{}, false
	}
	return geometry.FromSize(geometry.Pt(x, y), win), true
}

// Placement is the outcome of a bounded search. Placed is false when every
// trial was rejected.
type Placement struct {
	Rect   geometry.Rect
	Placed bool
	Trials int
}

// Empty tries up to trials uniformly random tile positions fully inside the
// image and returns the first one that overlaps none of the obstacles.
// A tile larger than the image is never placed.
func Empty(src Source, imageSize geometry.Size, tile geometry.Size, obstacles []geometry.Rect, trials int) Placement {
	if !tile.Fits(imageSize) {
		return Placement{}
	}

	for i := 1; i <= trials; i++ {
		lt := geometry.Pt(
			src.IntN(imageSize.Width-tile.Width+1),
			src.IntN(imageSize.Height-tile.Height+1),
		)
		candidate := geometry.FromSize(lt, tile)
		if !overlapsAny(candidate, obstacles) {
			return Placement{Rect: candidate, Placed: true, Trials: i}
		}
	}

	return Placement{Trials: trials}
}

func overlapsAny(r geometry.Rect, obstacles []geometry.Rect) bool {
	for _, o := range obstacles {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}
