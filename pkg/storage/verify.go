package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const copyBufferSize = 64 * 1024

// copyVerified copies src next to dst, checks the SHA-256 of the copy
// against the source and renames it to dst. Mode and modification time are
// carried over. dst is only touched once the copy is known to be intact.
func copyVerified(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	srcHasher := sha256.New()
	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(io.MultiWriter(tmp, srcHasher), in, buf); err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync copy: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close copy: %w", err)
	}

	copyHash, err := hashFile(tmpName)
	if err != nil {
		return err
	}
	srcHash := hex.EncodeToString(srcHasher.Sum(nil))
	if copyHash != srcHash {
		return fmt.Errorf("checksum mismatch after copy: source %s, copy %s", srcHash, copyHash)
	}

	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Chtimes(tmpName, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("failed to rename copy: %w", err)
	}

	committed = true
	return nil
}

// hashFile computes the SHA-256 of a file
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
