package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestExt(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"photo.jpg", "jpg", true},
		{"bad (1).JPG", "JPG", true},
		{"archive.tar.png", "png", true},
		{"README", "", false},
		{"trailing.", "", false},
		{".", "", false},
		{".png", "png", true},
		{filepath.Join("dir.jpg", "noext"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Ext(tt.name)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Ext(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsCrossDevice(t *testing.T) {
	linkErr := &os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.EXDEV}
	if !IsCrossDevice(linkErr) {
		t.Error("IsCrossDevice() should detect EXDEV inside *os.LinkError")
	}
	if !IsCrossDevice(fmt.Errorf("move: %w", linkErr)) {
		t.Error("IsCrossDevice() should see through wrapping")
	}
	if IsCrossDevice(os.ErrNotExist) {
		t.Error("IsCrossDevice() should be false for other errors")
	}
}

func TestSamePath(t *testing.T) {
	dir := t.TempDir()
	if !SamePath(dir, filepath.Join(dir, "sub", "..")) {
		t.Error("SamePath() should treat cleaned paths as equal")
	}
	if SamePath(dir, filepath.Join(dir, "sub")) {
		t.Error("SamePath() should differ for different paths")
	}
}

func TestValidatePath(t *testing.T) {
	if err := ValidatePath(""); err == nil {
		t.Error("ValidatePath(\"\") should fail")
	}
	if err := ValidatePath(t.TempDir()); err != nil {
		t.Errorf("ValidatePath() error = %v", err)
	}
}
