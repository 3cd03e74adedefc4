package models

import (
	"time"
)

// ImageFile is a handle to an image file found by a catalog scan.
// Only the path is authoritative; the other fields are a snapshot taken when
// the file was listed.
type ImageFile struct {
	// Path is the scan root joined with the entry names leading to the file
	Path string

	// RelativePath is the path relative to the scan root
	RelativePath string

	// Name is the base file name
	Name string

	// Ext is the lower-cased extension without the leading dot ("jpg", "png")
	Ext string

	// Size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time
}

// Classification tells which session collection an image belongs to
type Classification string

const (
	// ClassPending is an image not yet classified, or one that decoded fine
	ClassPending Classification = "pending"
	// ClassCorrupt is an image that failed a full decode
	ClassCorrupt Classification = "corrupt"
	// ClassLikelyCorrupt is reserved for a visual heuristic classifier
	ClassLikelyCorrupt Classification = "likely_corrupt"
)

// Action represents what was done with a file
type Action string

const (
	// ActionDelete removes the file
	ActionDelete Action = "delete"
	// ActionMove relocates the file into another folder
	ActionMove Action = "move"
	// ActionResize rewrites the file at a new resolution
	ActionResize Action = "resize"
	// ActionSkip leaves the file untouched
	ActionSkip Action = "skip"
)

// FileResult records the outcome of one file operation
type FileResult struct {
	File           ImageFile
	Classification Classification
	Action         Action

	// Dest is the final path for moved files
	Dest string

	// Width and Height are the output dimensions for resized files
	Width  int
	Height int

	// BytesWritten is the size of the rewritten file for resized files
	BytesWritten int64

	Err      error
	Duration time.Duration
}

// OK reports whether the operation succeeded
func (r FileResult) OK() bool {
	return r.Err == nil
}
