package models

import (
	"time"
)

// DisposalMode defines what the remove tool does with corrupt images
type DisposalMode string

const (
	// DisposePrompt asks the user on the terminal
	DisposePrompt DisposalMode = "prompt"
	// DisposeDelete deletes corrupt images without asking
	DisposeDelete DisposalMode = "delete"
	// DisposeMove moves corrupt images into a folder without asking
	DisposeMove DisposalMode = "move"
	// DisposeNone only classifies and reports
	DisposeNone DisposalMode = "none"
)

// CollisionPolicy defines what a move does when the destination name is taken
type CollisionPolicy string

const (
	// CollisionFail refuses to replace an existing file
	CollisionFail CollisionPolicy = "fail"
	// CollisionOverwrite replaces the existing file (last write wins)
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionRename picks a free "name (n).ext" variant
	CollisionRename CollisionPolicy = "rename"
)

// ParseCollisionPolicy validates a collision policy name
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch p := CollisionPolicy(s); p {
	case CollisionFail, CollisionOverwrite, CollisionRename:
		return p, nil
	}
	return "", &ConfigError{Field: "on-collision", Message: "must be 'fail', 'overwrite' or 'rename', got '" + s + "'"}
}

// RemoveOperation describes one run of the remove tool
type RemoveOperation struct {
	ID              string
	Folder          string
	Mode            DisposalMode
	MoveDest        string
	OnCollision     CollisionPolicy
	ContinueOnError bool
	Exclude         []string
	DryRun          bool
	CreatedAt       time.Time
}

// Validate checks if the operation is runnable
func (op *RemoveOperation) Validate() error {
	if op.Folder == "" {
		return &ConfigError{Field: "folder", Message: "no folder supplied"}
	}
	if op.Mode == DisposeMove && op.MoveDest == "" {
		return &ConfigError{Field: "move", Message: "move destination is required"}
	}
	if _, err := ParseCollisionPolicy(string(op.OnCollision)); err != nil {
		return err
	}
	return nil
}

// CompressOperation describes one run of the compress tool
type CompressOperation struct {
	ID     string
	Folder string

	// Width and Height are the requested target size, 0 when unset
	Width  int
	Height int

	PreserveAspect  bool
	ChainDimensions bool
	Quality         int
	Interpolation   string
	Exclude         []string
	DryRun          bool
	CreatedAt       time.Time
}

// Resizing reports whether a target size was requested
func (op *CompressOperation) Resizing() bool {
	return op.Width != 0 || op.Height != 0
}

// Validate checks if the operation is runnable
func (op *CompressOperation) Validate() error {
	if op.Folder == "" {
		return &ConfigError{Field: "folder", Message: "no folder supplied"}
	}
	if op.Width < 0 || op.Height < 0 {
		return &ConfigError{Field: "size", Message: "width and height must be positive"}
	}
	if op.Resizing() && (op.Width == 0 || op.Height == 0) {
		return &ConfigError{Field: "size", Message: "both a width and height must be specified for resizing"}
	}
	if op.Quality < 1 || op.Quality > 100 {
		return &ConfigError{Field: "quality", Message: "must be between 1 and 100"}
	}
	return nil
}
