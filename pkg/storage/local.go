package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sdejongh/imgsweep/internal/platform"
)

// Local is a filesystem-based storage backend
type Local struct {
	// rename is swapped in tests to simulate cross-device moves
	rename func(oldpath, newpath string) error
}

// NewLocal creates a new local filesystem backend
func NewLocal() *Local {
	return &Local{rename: os.Rename}
}

// ReadDir lists the direct children of path without sorting them
func (l *Local) ReadDir(ctx context.Context, path string) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	defer dir.Close()

	// os.ReadDir sorts by name; reading from the handle keeps listing order
	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		fi := FileInfo{
			Path:      filepath.Join(path, entry.Name()),
			Name:      entry.Name(),
			IsDir:     entry.IsDir(),
			IsSymlink: entry.Type()&fs.ModeSymlink != 0,
		}

		// The entry may vanish between listing and Info; keep what we have
		if info, err := entry.Info(); err == nil {
			fi.Size = info.Size()
			fi.ModTime = info.ModTime()
			fi.Permissions = uint32(info.Mode().Perm())
		}

		files = append(files, fi)
	}

	return files, nil
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &FileInfo{
		Path:        path,
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		Permissions: uint32(info.Mode().Perm()),
	}, nil
}

// Exists checks if a file or directory exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Remove deletes a single file
func (l *Local) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}

// Move renames src to dst, copying across filesystems when rename cannot
func (l *Local) Move(ctx context.Context, src, dst string, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !overwrite {
		exists, err := l.Exists(ctx, dst)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s: %w", dst, ErrDestinationExists)
		}
	}

	err := l.rename(src, dst)
	if err == nil {
		return nil
	}
	if !platform.IsCrossDevice(err) {
		return fmt.Errorf("failed to move file: %w", err)
	}

	if err := copyVerified(src, dst); err != nil {
		return fmt.Errorf("failed to move file across devices: %w", err)
	}

	if err := os.Remove(src); err != nil {
		return fmt.Errorf("copied to %s but failed to remove source: %w", dst, err)
	}

	return nil
}

// WriteAtomic writes to a temporary sibling of path and renames it into place.
// The permissions of an existing file are kept.
func (l *Local) WriteAtomic(ctx context.Context, path string, write func(w io.Writer) error) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	// Remove the temporary file on any failure path
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	cw := &countingWriter{w: tmp}
	if err := write(cw); err != nil {
		return 0, err
	}

	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return 0, fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := l.rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("failed to replace file: %w", err)
	}

	committed = true
	return cw.n, nil
}

// MkdirAll creates a directory and all necessary parents
func (l *Local) MkdirAll(ctx context.Context, path string) error {
	err := os.MkdirAll(path, 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
