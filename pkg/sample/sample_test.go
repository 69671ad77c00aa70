package sample

import (
	"errors"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/defect-dataset/pkg/annotation"
	"github.com/menta2k/defect-dataset/pkg/geometry"
	"github.com/menta2k/defect-dataset/pkg/processing"
	"github.com/menta2k/defect-dataset/pkg/window"
)

func obj(x0, y0, x1, y1, category int) annotation.Object {
	return annotation.Object{Box: geometry.NewRect(geometry.Pt(x0, y0), geometry.Pt(x1, y1)), Category: category}
}

func createTestSample(width, height int, objects ...annotation.Object) Sample {
	img := processing.Blank(geometry.Size{Width: width, Height: height}, color.NRGBA{64, 64, 64, 255})
	return New(img, objects)
}

func TestNewCopiesObjects(t *testing.T) {
	objs := []annotation.Object{obj(0, 0, 5, 5, 0)}
	s := createTestSample(10, 10, objs...)
	objs[0] = obj(1, 1, 2, 2, 1)

	assert.Equal(t, obj(0, 0, 5, 5, 0), s.Objects()[0])

	got := s.Objects()
	got[0] = obj(1, 1, 2, 2, 1)
	assert.Equal(t, obj(0, 0, 5, 5, 0), s.Objects()[0])
}

func TestCrop(t *testing.T) {
	s := createTestSample(100, 100,
		obj(10, 10, 20, 20, 0),
		obj(50, 50, 60, 60, 1),
		obj(28, 28, 40, 40, 2),
		obj(33, 10, 40, 20, 3),
	)

	c := s.Crop(geometry.NewRect(geometry.Pt(5, 5), geometry.Pt(35, 35)))

	assert.Equal(t, geometry.Size{Width: 30, Height: 30}, c.Size())
	want := []annotation.Object{
		obj(5, 5, 15, 15, 0),
		obj(23, 23, 30, 30, 2),
	}
	if diff := cmp.Diff(want, c.Objects()); diff != "" {
		t.Errorf("Crop objects mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 4, s.Len(), "receiver must not change")
	assert.Equal(t, geometry.Size{Width: 100, Height: 100}, s.Size())
}

func TestCropKeepsObjectsInsideImage(t *testing.T) {
	s := createTestSample(100, 100, obj(-20, -20, 30, 30, 0), obj(90, 90, 130, 130, 0))
	c := s.Crop(geometry.NewRect(geometry.Pt(0, 0), geometry.Pt(100, 100)))

	require.Equal(t, 2, c.Len())
	for _, o := range c.Objects() {
		assert.True(t, o.Box.LT.X >= 0 && o.Box.LT.Y >= 0)
		assert.True(t, o.Box.RB.X <= 100 && o.Box.RB.Y <= 100)
	}
}

func TestRndEmpty(t *testing.T) {
	src := window.Seeded(5)
	s := createTestSample(100, 100, obj(0, 0, 50, 100, 0))
	tile := geometry.Size{Width: 20, Height: 20}

	placed := 0
	for i := 0; i < 50; i++ {
		e, err := s.RndEmpty(src, tile)
		if err != nil {
			require.ErrorIs(t, err, ErrNoEmptyTile)
			continue
		}
		placed++
		assert.Equal(t, tile, e.Size())
		assert.Zero(t, e.Len())
	}
	assert.NotZero(t, placed)
	assert.Equal(t, 1, s.Len())
}

func TestRndEmptyExhausted(t *testing.T) {
	s := createTestSample(100, 100, obj(0, 0, 100, 100, 0))
	_, err := s.RndEmpty(window.Seeded(1), geometry.Size{Width: 10, Height: 10})
	assert.True(t, errors.Is(err, ErrNoEmptyTile))
}

func TestRndEmptyTileTooLarge(t *testing.T) {
	s := createTestSample(10, 10)
	_, err := s.RndEmpty(window.Seeded(1), geometry.Size{Width: 20, Height: 5})
	assert.ErrorIs(t, err, ErrTileTooLarge)
}

func TestRndDefects(t *testing.T) {
	s := createTestSample(200, 200,
		obj(10, 10, 30, 30, 0),
		obj(100, 100, 190, 190, 1), // larger than the tile
		obj(150, 20, 170, 40, 2),
	)
	tile := geometry.Size{Width: 64, Height: 64}
	src := window.Seeded(11)

	for i := 0; i < 100; i++ {
		tiles := s.RndDefects(src, tile)
		require.Len(t, tiles, 2)

		for j, want := range []annotation.Object{obj(10, 10, 30, 30, 0), obj(150, 20, 170, 40, 2)} {
			tl := tiles[j]
			require.Equal(t, tile, tl.Size())
			require.Equal(t, 1, tl.Len())
			got := tl.Objects()[0]
			require.Equal(t, want.Category, got.Category)
			require.Equal(t, want.Box.Size(), got.Box.Size(), "object must be fully inside the tile")
		}
	}
}

func TestRndDefectsCategoryFilter(t *testing.T) {
	s := createTestSample(200, 200,
		obj(10, 10, 30, 30, 0),
		obj(150, 20, 170, 40, 2),
	)
	tiles := s.RndDefects(window.Seeded(3), geometry.Size{Width: 64, Height: 64}, 2)
	require.Len(t, tiles, 1)
	assert.Equal(t, 2, tiles[0].Objects()[0].Category)

	tiles = s.RndDefects(window.Seeded(3), geometry.Size{Width: 64, Height: 64}, 5)
	assert.Empty(t, tiles)
}

func TestDedupe(t *testing.T) {
	s := createTestSample(10, 10, obj(0, 0, 3, 3, 0), obj(2, 2, 5, 5, 0), obj(4, 4, 6, 8, 0))
	d := s.Dedupe(2)

	if diff := cmp.Diff([]annotation.Object{obj(0, 0, 6, 8, 0)}, d.Objects()); diff != "" {
		t.Errorf("Dedupe mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, s.Len())

	disjoint := createTestSample(20, 20, obj(0, 0, 3, 3, 0), obj(10, 10, 13, 13, 0))
	if diff := cmp.Diff(disjoint.Objects(), disjoint.Dedupe(2).Objects()); diff != "" {
		t.Errorf("disjoint objects changed (-want +got):\n%s", diff)
	}
}

func TestCountFalse(t *testing.T) {
	truth := []annotation.Object{
		obj(14, 6, 25, 17, 0),
		obj(45, 12, 61, 26, 0),
		obj(19, 57, 28, 67, 0),
	}
	predicted := createTestSample(100, 100,
		obj(9, 9, 20, 20, 0),
		obj(41, 9, 64, 29, 0),
		obj(51, 40, 66, 53, 0),
		obj(15, 31, 26, 40, 0),
	)

	fn, fp := predicted.CountFalse(truth)
	assert.Equal(t, 1, fn)
	assert.Equal(t, 2, fp)
}

func TestDisplayRects(t *testing.T) {
	s := createTestSample(40, 30, obj(5, 5, 20, 20, 0))
	out := s.DisplayRects()
	assert.Equal(t, s.Size(), out.Size())

	f, ok := out.(*processing.Frame)
	require.True(t, ok)
	got := color.NRGBAModel.Convert(f.Image().At(5, 10)).(color.NRGBA)
	assert.Equal(t, processing.ObjectColor, got)
}

func BenchmarkDedupe(b *testing.B) {
	objs := make([]annotation.Object, 0, 200)
	for i := 0; i < 200; i++ {
		x := (i * 37) % 1000
		y := (i * 53) % 1000
		objs = append(objs, obj(x, y, x+20, y+20, i%4))
	}
	s := createTestSample(1100, 1100, objs...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Dedupe(annotation.DefaultTolerance)
	}
}
