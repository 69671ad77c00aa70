package processing

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/menta2k/defect-dataset/pkg/geometry"
)

// Padding fills the parts of a crop that fall outside the source image
var Padding = color.NRGBA{0, 0, 0, 255}

// Buffer is the pixel data of a sample. Implementations never modify the
// receiver; Crop and DrawRects return new buffers.
type Buffer interface {
	Size() geometry.Size
	Crop(box geometry.Rect) Buffer
	DrawRects(rects []geometry.Rect, c color.NRGBA) Buffer
}

// Frame is a Buffer backed by an image whose bounds start at the origin
type Frame struct {
	img image.Image
}

// FromImage wraps img. Images whose bounds do not start at the origin are
// copied so that pixel (0,0) is the top-left corner.
func FromImage(img image.Image) *Frame {
	if img.Bounds().Min != (image.Point{}) {
		return &Frame{img: imaging.Clone(img)}
	}
	return &Frame{img: img}
}

// Blank returns a frame of the given size filled with c
func Blank(size geometry.Size, c color.Color) *Frame {
	return &Frame{img: imaging.New(size.Width, size.Height, c)}
}

// Image returns the underlying image
func (f *Frame) Image() image.Image {
	return f.img
}

func (f *Frame) Size() geometry.Size {
	b := f.img.Bounds()
	return geometry.Size{Width: b.Dx(), Height: b.Dy()}
}

// Crop returns the pixels of box. Parts of box outside the image are filled
// with Padding, so the result always has box's size.
func (f *Frame) Crop(box geometry.Rect) Buffer {
	want := box.ImageRect()
	inter := want.Intersect(f.img.Bounds())
	if inter == want {
		return &Frame{img: imaging.Crop(f.img, want)}
	}

	size := box.Size()
	dst := imaging.New(size.Width, size.Height, Padding)
	if inter.Empty() {
		return &Frame{img: dst}
	}
	part := imaging.Crop(f.img, inter)
	offset := inter.Min.Sub(want.Min)
	return &Frame{img: imaging.Paste(dst, part, offset)}
}

// DrawRects returns a copy of the frame with every rect outlined in c
func (f *Frame) DrawRects(rects []geometry.Rect, c color.NRGBA) Buffer {
	nrgba := imaging.Clone(f.img)
	stroke := strokeWidth(nrgba)
	for _, r := range rects {
		drawBox(nrgba, r, c, stroke)
	}
	return &Frame{img: nrgba}
}

// ToImage returns the pixels of b as an image
func ToImage(b Buffer) (image.Image, error) {
	f, ok := b.(*Frame)
	if !ok {
		return nil, fmt.Errorf("unsupported buffer type %T", b)
	}
	return f.img, nil
}
