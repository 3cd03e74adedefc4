package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/sdejongh/imgsweep/internal/testutil"
	"github.com/sdejongh/imgsweep/pkg/storage"
)

func paths(t *testing.T, root string, opts Options) []string {
	t.Helper()
	images, err := ListImages(context.Background(), storage.NewLocal(), root, opts)
	if err != nil {
		t.Fatalf("ListImages() error = %v", err)
	}
	out := make([]string, 0, len(images))
	for _, img := range images {
		out = append(out, img.Path)
	}
	sort.Strings(out)
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListImages(t *testing.T) {
	tree := testutil.SampleTree(t)

	t.Run("FindsNineImages", func(t *testing.T) {
		got := paths(t, tree.Root, Options{})
		if !equal(got, tree.Images()) {
			t.Errorf("ListImages() =\n%v\nwant\n%v", got, tree.Images())
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		first := paths(t, tree.Root, Options{})
		second := paths(t, tree.Root, Options{})
		if !equal(first, second) {
			t.Error("two scans of an unchanged tree differ")
		}
	})

	t.Run("Fields", func(t *testing.T) {
		images, _ := ListImages(context.Background(), storage.NewLocal(), tree.Root, Options{})
		for _, img := range images {
			if img.Name != filepath.Base(img.Path) {
				t.Errorf("Name = %s for %s", img.Name, img.Path)
			}
			if filepath.Join(tree.Root, img.RelativePath) != img.Path {
				t.Errorf("RelativePath = %s for %s", img.RelativePath, img.Path)
			}
			if img.Ext != "jpg" && img.Ext != "jpeg" && img.Ext != "png" {
				t.Errorf("Ext = %s, want lower-case image extension", img.Ext)
			}
			if img.Size <= 0 {
				t.Errorf("Size = %d for %s", img.Size, img.Path)
			}
		}
	})
}

func TestListImagesDirectoryNamedLikeImage(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "album.jpg"), 0755); err != nil {
		t.Fatal(err)
	}

	if got := paths(t, root, Options{}); len(got) != 0 {
		t.Errorf("a directory must never be catalogued, got %v", got)
	}
}

func TestListImagesSubdirectoriesFirst(t *testing.T) {
	root := t.TempDir()
	testutil.WritePNG(t, filepath.Join(root, "sub", "inner.png"), 4, 4)

	images, err := ListImages(context.Background(), storage.NewLocal(), root, Options{})
	if err != nil {
		t.Fatalf("ListImages() error = %v", err)
	}
	if len(images) != 1 || images[0].RelativePath != filepath.Join("sub", "inner.png") {
		t.Errorf("ListImages() = %+v", images)
	}
}

func TestListImagesEmptyAndNoImages(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "notes.txt"), []byte("x"))
	testutil.WriteFile(t, filepath.Join(root, "noext"), []byte("x"))

	if got := paths(t, root, Options{}); len(got) != 0 {
		t.Errorf("ListImages() = %v, want none", got)
	}
}

func TestListImagesUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	tree := testutil.SampleTree(t)
	locked := filepath.Join(tree.Root, "nested")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(locked, 0755)

	got := paths(t, tree.Root, Options{})
	for _, p := range got {
		if filepath.Dir(p) == locked {
			t.Errorf("image under unreadable directory listed: %s", p)
		}
	}
	// a.jpg, b.PNG, other/e.jpg, other/bad (3).JPG, dir.jpg/f.png
	if len(got) != 5 {
		t.Errorf("ListImages() found %d images, want 5: %v", len(got), got)
	}
}

func TestListImagesSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	testutil.WritePNG(t, filepath.Join(outside, "linked.png"), 4, 4)
	testutil.WritePNG(t, filepath.Join(root, "real.png"), 4, 4)

	if err := os.Symlink(outside, filepath.Join(root, "loop.jpg")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(root, filepath.Join(root, "self")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "linked.png"), filepath.Join(root, "alias.png")); err != nil {
		t.Fatal(err)
	}

	got := paths(t, root, Options{})
	want := []string{filepath.Join(root, "alias.png"), filepath.Join(root, "real.png")}
	if !equal(got, want) {
		t.Errorf("ListImages() = %v, want %v", got, want)
	}
}

func TestListImagesExclude(t *testing.T) {
	tree := testutil.SampleTree(t)

	tests := []struct {
		name    string
		exclude []string
		want    int
	}{
		{"Directory", []string{"nested/"}, 5},
		{"BaseNameGlob", []string{"bad *"}, 6},
		{"AnyDepth", []string{"**/deeper"}, 7},
		{"PathGlob", []string{"other/*"}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paths(t, tree.Root, Options{Exclude: tt.exclude})
			if len(got) != tt.want {
				t.Errorf("ListImages(exclude=%v) found %d, want %d: %v", tt.exclude, len(got), tt.want, got)
			}
		})
	}
}

func TestListImagesCancelled(t *testing.T) {
	tree := testutil.SampleTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ListImages(ctx, storage.NewLocal(), tree.Root, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ListImages() error = %v, want context.Canceled", err)
	}
}

func TestValidatePatterns(t *testing.T) {
	if err := ValidatePatterns([]string{"*.tmp", "thumbs/", "**/x/*"}); err != nil {
		t.Errorf("ValidatePatterns() error = %v", err)
	}
	if err := ValidatePatterns([]string{"[bad"}); err == nil {
		t.Error("ValidatePatterns() should reject a malformed glob")
	}
}
