package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// rotatingFile is a zapcore.WriteSyncer that renames the log to path.1,
// path.2, ... once it grows past maxSize bytes.
type rotatingFile struct {
	path       string
	maxSize    int64
	maxBackups int

	mu          sync.Mutex
	file        *os.File
	currentSize int64
}

func openRotatingFile(path string, maxSize int64, maxBackups int) (*rotatingFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &rotatingFile{
		path:        path,
		maxSize:     maxSize,
		maxBackups:  maxBackups,
		file:        file,
		currentSize: info.Size(),
	}, nil
}

// Write appends p, rotating first when the size limit has been reached
func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, os.ErrClosed
	}

	var rotateErr error
	if r.maxSize > 0 && r.currentSize >= r.maxSize {
		rotateErr = r.rotate()
		if r.file == nil {
			return 0, rotateErr
		}
	}

	n, err := r.file.Write(p)
	r.currentSize += int64(n)
	if err != nil {
		return n, err
	}
	return n, rotateErr
}

func (r *rotatingFile) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	return r.file.Sync()
}

func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotate must be called with mu held. When the live log cannot be moved
// aside it is reopened for append, so no entries are lost, and the error is
// returned.
func (r *rotatingFile) rotate() error {
	var errs []error
	keep := func(err error) {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	keep(r.file.Close())

	// Shift existing backups up by one, dropping the oldest
	var moveErr error
	if r.maxBackups > 0 {
		keep(os.Remove(fmt.Sprintf("%s.%d", r.path, r.maxBackups)))
		for i := r.maxBackups - 1; i >= 1; i-- {
			keep(os.Rename(fmt.Sprintf("%s.%d", r.path, i), fmt.Sprintf("%s.%d", r.path, i+1)))
		}
		moveErr = os.Rename(r.path, r.path+".1")
	} else {
		moveErr = os.Remove(r.path)
	}
	keep(moveErr)

	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if moveErr != nil && !errors.Is(moveErr, fs.ErrNotExist) {
		flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	file, err := os.OpenFile(r.path, flag, 0644)
	if err != nil {
		r.file = nil
		errs = append(errs, err)
		return fmt.Errorf("failed to reopen log file: %w", errors.Join(errs...))
	}

	r.file = file
	r.currentSize = 0
	if len(errs) > 0 {
		return fmt.Errorf("failed to rotate log file: %w", errors.Join(errs...))
	}
	return nil
}
