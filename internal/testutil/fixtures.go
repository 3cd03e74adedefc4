// Package testutil builds image trees on disk for tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Tree is a generated directory of good and corrupt images
type Tree struct {
	Root string
	// Good and Bad hold absolute paths of decodable and truncated images
	Good []string
	Bad  []string
	// Other holds files that are not catalogued
	Other []string
}

// Images returns every catalogued path, sorted
func (tr Tree) Images() []string {
	all := append(append([]string{}, tr.Good...), tr.Bad...)
	sort.Strings(all)
	return all
}

// SampleTree writes six decodable images and three truncated JPEGs named
// "bad (n).JPG" across nested folders, plus files without an image extension
// and a directory whose name ends in ".jpg".
func SampleTree(t testing.TB) Tree {
	t.Helper()
	root := t.TempDir()
	tr := Tree{Root: root}

	good := []struct {
		rel  string
		w, h int
	}{
		{"a.jpg", 64, 48},
		{"b.PNG", 40, 30},
		{filepath.Join("nested", "c.jpeg"), 48, 64},
		{filepath.Join("nested", "deeper", "d.png"), 30, 30},
		{filepath.Join("other", "e.jpg"), 80, 20},
		{filepath.Join("dir.jpg", "f.png"), 16, 12},
	}
	for _, g := range good {
		path := filepath.Join(root, g.rel)
		if filepath.Ext(g.rel) == ".png" || filepath.Ext(g.rel) == ".PNG" {
			WritePNG(t, path, g.w, g.h)
		} else {
			WriteJPEG(t, path, g.w, g.h)
		}
		tr.Good = append(tr.Good, path)
	}

	for _, rel := range []string{
		filepath.Join("nested", "bad (1).JPG"),
		filepath.Join("nested", "deeper", "bad (2).JPG"),
		filepath.Join("other", "bad (3).JPG"),
	} {
		path := filepath.Join(root, rel)
		WriteTruncatedJPEG(t, path)
		tr.Bad = append(tr.Bad, path)
	}

	for _, rel := range []string{"notes.txt", "README", filepath.Join("nested", "trailing.")} {
		path := filepath.Join(root, rel)
		WriteFile(t, path, []byte("not an image"))
		tr.Other = append(tr.Other, path)
	}

	return tr
}

// Gradient returns an RGBA image with a colour ramp
func Gradient(w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), 100, 255})
		}
	}
	return m
}

// JPEGBytes encodes a w x h gradient as JPEG
func JPEGBytes(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Gradient(w, h), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// WriteJPEG writes a w x h JPEG
func WriteJPEG(t testing.TB, path string, w, h int) {
	t.Helper()
	WriteFile(t, path, JPEGBytes(t, w, h))
}

// WritePNG writes a w x h PNG
func WritePNG(t testing.TB, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, Gradient(w, h)); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	WriteFile(t, path, buf.Bytes())
}

// WriteTruncatedJPEG writes the first half of a valid JPEG
func WriteTruncatedJPEG(t testing.TB, path string) {
	t.Helper()
	data := JPEGBytes(t, 64, 64)
	WriteFile(t, path, data[:len(data)/2])
}

// WriteFile writes data, creating parent directories
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// Dimensions decodes the file at path and returns its size
func Dimensions(t testing.TB, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}
