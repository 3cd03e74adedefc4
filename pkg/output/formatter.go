package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/imgsweep/pkg/models"
)

// Event types carried by ProgressUpdate
const (
	// EventClassified follows each decode attempt
	EventClassified = "classified"
	// EventCorrupt names an image that failed to decode
	EventCorrupt = "corrupt"
	// EventFileComplete follows a successful delete, move or resize
	EventFileComplete = "file_complete"
	// EventFileError follows a failed delete, move or resize
	EventFileError = "file_error"
)

// ProgressUpdate represents a progress notification during a run
type ProgressUpdate struct {
	Type           string
	FilePath       string
	Action         models.Action
	Classification models.Classification
	Dest           string
	Width          int
	Height         int
	BytesWritten   int64
	CurrentFile    int
	TotalFiles     int
	Error          error
}

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON and progress bar formatters
type Formatter interface {
	// Start initializes the formatter for a run over totalImages images
	Start(writer io.Writer, tool models.Tool, totalImages int) error

	// Progress reports progress during the run
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays summary
	Complete(report *models.Report) error

	// Error reports an error during the run
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter for an output format name. A human format
// becomes a progress bar when progress is requested.
func New(format string, progress bool) (Formatter, error) {
	switch format {
	case "json":
		return NewJSONFormatter(), nil
	case "human", "":
		if progress {
			return NewProgressFormatter(), nil
		}
		return NewHumanFormatter(), nil
	}
	return nil, &models.ConfigError{Field: "output", Message: fmt.Sprintf("unknown output format %q", format)}
}
