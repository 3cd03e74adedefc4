package imaging

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
)

// Decoder fully decodes an image stream
type Decoder interface {
	Decode(r io.Reader) (image.Image, Format, error)
}

// StdDecoder decodes PNG and JPEG with the standard codecs
type StdDecoder struct{}

// NewStdDecoder creates a decoder for PNG and JPEG
func NewStdDecoder() *StdDecoder {
	return &StdDecoder{}
}

// Decode sniffs the stream and decodes every pixel. Truncated or malformed
// data surfaces as an error.
func (d *StdDecoder) Decode(r io.Reader) (image.Image, Format, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(HeadSize)

	var (
		img image.Image
		err error
	)
	format := GuessType(head)
	switch format {
	case FormatJPEG:
		img, err = jpeg.Decode(br)
	case FormatPNG:
		img, err = png.Decode(br)
	default:
		return nil, FormatNone, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", format, err)
	}

	return img, format, nil
}

// EncodeOptions controls encoder output
type EncodeOptions struct {
	// Quality is the JPEG quality, 1-100
	Quality int
	// PNGCompression is one of default, speed, best, none
	PNGCompression string
}

// DefaultEncodeOptions mirrors the codecs' own defaults
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Quality: jpeg.DefaultQuality, PNGCompression: "default"}
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format, opts EncodeOptions) error {
	switch format {
	case FormatJPEG:
		q := opts.Quality
		if q < 1 || q > 100 {
			q = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case FormatPNG:
		enc := &png.Encoder{CompressionLevel: pngCompressionLevel(opts.PNGCompression)}
		return enc.Encode(w, img)
	}
	return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}

func pngCompressionLevel(name string) png.CompressionLevel {
	switch name {
	case "speed":
		return png.BestSpeed
	case "best":
		return png.BestCompression
	case "none":
		return png.NoCompression
	default:
		return png.DefaultCompression
	}
}
