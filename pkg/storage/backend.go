package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrDestinationExists is returned by Move when the target name is taken and
// overwriting was not requested
var ErrDestinationExists = errors.New("destination file already exists")

// FileInfo represents metadata about a file
type FileInfo struct {
	Path        string
	Name        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	IsSymlink   bool
	Permissions uint32
}

// Backend defines the interface for storage operations.
// Paths are used as given; the backend does not anchor them to a root.
type Backend interface {
	// ReadDir returns the direct children of a directory in the order the
	// underlying listing produces them. Symlinks are reported, not followed.
	ReadDir(ctx context.Context, path string) ([]FileInfo, error)

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns file metadata, following symlinks
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Remove deletes a single file
	Remove(ctx context.Context, path string) error

	// Move relocates src to dst. Without overwrite an existing dst fails with
	// ErrDestinationExists. Moves across filesystems fall back to a verified copy.
	Move(ctx context.Context, src, dst string, overwrite bool) error

	// WriteAtomic replaces path with whatever write produces, through a
	// temporary file in the same directory. Returns the bytes written.
	WriteAtomic(ctx context.Context, path string, write func(w io.Writer) error) (int64, error)

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Close releases any resources held by the backend
	Close() error
}
