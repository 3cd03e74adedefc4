package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/sdejongh/imgsweep/internal/platform"
)

var (
	// ErrNoFormat is returned for a file name without an extension to pick an encoder from
	ErrNoFormat = errors.New("no image format found")
	// ErrUnsupportedFormat is returned for extensions other than png, jpg and jpeg
	ErrUnsupportedFormat = errors.New("invalid or unsupported image format")
)

// Format names an encoder
type Format string

const (
	FormatNone Format = ""
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// Extensions lists the lower-case file extensions the tools act on
var Extensions = []string{"png", "jpg", "jpeg"}

// Magic numbers at the start of supported files
const (
	sigJPEG = "\xff\xd8\xff"
	sigPNG  = "\211PNG\r\n\032\n"
)

// HeadSize is how many leading bytes GuessType needs
const HeadSize = 8

// IsImageExt reports whether ext (without dot, any case) is a catalogued extension
func IsImageExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FormatFromExt maps an extension to the encoder that writes it
func FormatFromExt(ext string) (Format, error) {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	}
	return FormatNone, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
}

// FormatFromPath picks the encoder from the text after the last '.' of the file name
func FormatFromPath(path string) (Format, error) {
	ext, ok := platform.Ext(path)
	if !ok {
		return FormatNone, fmt.Errorf("%s: %w", path, ErrNoFormat)
	}
	return FormatFromExt(ext)
}

// GuessType sniffs the format from the leading bytes of a file
func GuessType(head []byte) Format {
	if bytes.HasPrefix(head, []byte(sigJPEG)) {
		return FormatJPEG
	}
	if bytes.HasPrefix(head, []byte(sigPNG)) {
		return FormatPNG
	}
	return FormatNone
}
