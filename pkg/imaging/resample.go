package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

var interpolations = map[string]resize.InterpolationFunction{
	"nearest":  resize.NearestNeighbor,
	"bilinear": resize.Bilinear,
	"bicubic":  resize.Bicubic,
	"mitchell": resize.MitchellNetravali,
	"lanczos2": resize.Lanczos2,
	"lanczos3": resize.Lanczos3,
}

// ParseInterpolation maps a kernel name to its resampling function
func ParseInterpolation(name string) (resize.InterpolationFunction, error) {
	fn, ok := interpolations[name]
	if !ok {
		return resize.Bilinear, fmt.Errorf("unknown interpolation %q", name)
	}
	return fn, nil
}

// FitWithin scales ow x oh by the largest factor that keeps both sides inside
// w x h. Sides are rounded and never drop below one pixel.
func FitWithin(ow, oh, w, h int) (int, int) {
	if ow <= 0 || oh <= 0 {
		return w, h
	}
	scale := math.Min(float64(w)/float64(ow), float64(h)/float64(oh))
	nw := int(math.Round(scale * float64(ow)))
	nh := int(math.Round(scale * float64(oh)))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// NewRaster allocates a w x h image with the same pixel layout as like.
// Layouts the encoders cannot round-trip cleanly (paletted, YCbCr, custom
// types) get non-premultiplied RGBA.
func NewRaster(like image.Image, w, h int) draw.Image {
	r := image.Rect(0, 0, w, h)
	switch like.(type) {
	case *image.RGBA:
		return image.NewRGBA(r)
	case *image.RGBA64:
		return image.NewRGBA64(r)
	case *image.NRGBA64:
		return image.NewNRGBA64(r)
	case *image.Gray:
		return image.NewGray(r)
	case *image.Gray16:
		return image.NewGray16(r)
	default:
		return image.NewNRGBA(r)
	}
}

// Resample scales src to exactly w x h and copies the result into a raster
// of the source's pixel layout
func Resample(src image.Image, w, h int, interp resize.InterpolationFunction) image.Image {
	scaled := resize.Resize(uint(w), uint(h), src, interp)

	dst := NewRaster(src, w, h)
	draw.Draw(dst, dst.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	return dst
}
