package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"domrep/internal/colormap"
)

var ErrShape = errors.New("invalid array shape")

// MaxPixels caps the pixel count of any image produced here, after scaling.
const MaxPixels = 1 << 26

// checkSize rejects a w x h image scaled by factor whose pixel count would
// exceed MaxPixels, without overflowing on the way.
func checkSize(w, h, factor int) error {
	if factor < 1 {
		factor = 1
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrShape, h, w)
	}
	if w > MaxPixels/factor || h > MaxPixels/factor || w*factor > MaxPixels/(h*factor) {
		return fmt.Errorf("%w: %dx%d scaled by %d exceeds %d pixels", ErrShape, h, w, factor, MaxPixels)
	}
	return nil
}

// Array is a row-major block of pixel values. Single-channel data is
// coloured through a colormap; three or four channels are read as RGB(A)
// in [0,1].
type Array struct {
	Data     []float64
	Rows     int
	Cols     int
	Channels int
	// Limits pins the value range mapped onto the colormap. Nil scales to the data.
	Limits *Limits
}

type Limits struct {
	Min float64
	Max float64
}

// FromMatrix copies a rectangular matrix into a single-channel Array.
func FromMatrix(m [][]float64) (Array, error) {
	if len(m) == 0 || len(m[0]) == 0 {
		return Array{}, fmt.Errorf("%w: empty matrix", ErrShape)
	}
	cols := len(m[0])
	data := make([]float64, 0, len(m)*cols)
	for i, row := range m {
		if len(row) != cols {
			return Array{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return Array{Data: data, Rows: len(m), Cols: cols, Channels: 1}, nil
}

func (a Array) channels() int {
	if a.Channels == 0 {
		return 1
	}
	return a.Channels
}

func (a Array) Validate() error {
	if err := checkSize(a.Cols, a.Rows, 1); err != nil {
		return err
	}
	switch c := a.channels(); c {
	case 1, 3, 4:
	default:
		return fmt.Errorf("%w: %d channels", ErrShape, c)
	}
	if want := a.Rows * a.Cols * a.channels(); len(a.Data) != want {
		return fmt.Errorf("%w: %d values for %dx%dx%d", ErrShape, len(a.Data), a.Rows, a.Cols, a.channels())
	}
	if a.Limits != nil && !(a.Limits.Max >= a.Limits.Min) {
		return fmt.Errorf("%w: limits [%g, %g]", ErrShape, a.Limits.Min, a.Limits.Max)
	}
	return nil
}

// ToImage converts a to an image, upscaling by an integer factor with
// nearest-neighbour sampling so small arrays stay crisp.
func ToImage(a Array, cmap colormap.Name, scale int) (image.Image, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := checkSize(a.Cols, a.Rows, scale); err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, a.Cols, a.Rows))
	if a.channels() == 1 {
		lo, hi := a.bounds()
		for y := 0; y < a.Rows; y++ {
			for x := 0; x < a.Cols; x++ {
				v := a.Data[y*a.Cols+x]
				if math.IsNaN(v) {
					img.SetNRGBA(x, y, color.NRGBA{})
					continue
				}
				t := 0.0
				if hi > lo {
					t = (v - lo) / (hi - lo)
				}
				img.SetNRGBA(x, y, colormap.At(cmap, t))
			}
		}
	} else {
		c := a.channels()
		for y := 0; y < a.Rows; y++ {
			for x := 0; x < a.Cols; x++ {
				px := a.Data[(y*a.Cols+x)*c:]
				col := color.NRGBA{R: unit(px[0]), G: unit(px[1]), B: unit(px[2]), A: 0xff}
				if c == 4 {
					col.A = unit(px[3])
				}
				img.SetNRGBA(x, y, col)
			}
		}
	}
	return Scale(img, scale)
}

// Scale upscales img by factor; factors below 2 return img unchanged. The
// result may not exceed MaxPixels.
func Scale(img image.Image, factor int) (image.Image, error) {
	if factor < 2 {
		return img, nil
	}
	b := img.Bounds()
	if err := checkSize(b.Dx(), b.Dy(), factor); err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}

func (a Array) bounds() (float64, float64) {
	if a.Limits != nil {
		return a.Limits.Min, a.Limits.Max
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range a.Data {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

func unit(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(v * 0xff))
}
