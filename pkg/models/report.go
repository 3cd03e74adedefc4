package models

import (
	"time"
)

// Tool names the command that produced a report
type Tool string

const (
	ToolRemove   Tool = "remove"
	ToolCompress Tool = "compress"
)

// Report represents the results of a remove or compress run
type Report struct {
	// Operation details
	SessionID string
	Tool      Tool
	Folder    string
	DryRun    bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Per-file outcomes, in processing order
	Files []FileResult

	// Errors encountered
	Errors []FileError

	// Overall status
	Status Status
}

// Statistics holds run metrics
type Statistics struct {
	ImagesFound         int
	ImagesValid         int
	ImagesCorrupt       int
	ImagesLikelyCorrupt int

	FilesDeleted      int
	FilesDeleteFailed int // swallowed, counted for visibility only
	FilesMoved        int
	FilesResized      int
	FilesSkipped      int
	FilesErrored      int

	BytesBefore int64
	BytesAfter  int64
}

// Status represents the overall result
type Status string

const (
	// StatusSuccess indicates all operations completed successfully
	StatusSuccess Status = "success"
	// StatusPartial indicates some operations failed
	StatusPartial Status = "partial"
	// StatusFailed indicates the run failed
	StatusFailed Status = "failed"
	// StatusCancelled indicates the run was interrupted
	StatusCancelled Status = "cancelled"
)

// FileError represents an error on a single file
type FileError struct {
	FilePath  string
	Operation Action
	Error     string
	Timestamp time.Time
}

// NewReport starts a report for a run
func NewReport(sessionID string, tool Tool, folder string, dryRun bool) *Report {
	return &Report{
		SessionID: sessionID,
		Tool:      tool,
		Folder:    folder,
		DryRun:    dryRun,
		StartTime: time.Now(),
	}
}

// Record appends a file outcome and updates the counters
func (r *Report) Record(res FileResult) {
	r.Files = append(r.Files, res)

	if res.Err != nil {
		// Failed deletes are best effort and never make the run partial
		if res.Action == ActionDelete {
			r.Stats.FilesDeleteFailed++
			return
		}
		r.Stats.FilesErrored++
		r.Errors = append(r.Errors, FileError{
			FilePath:  res.File.Path,
			Operation: res.Action,
			Error:     res.Err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	switch res.Action {
	case ActionDelete:
		r.Stats.FilesDeleted++
	case ActionMove:
		r.Stats.FilesMoved++
	case ActionResize:
		r.Stats.FilesResized++
		r.Stats.BytesBefore += res.File.Size
		r.Stats.BytesAfter += res.BytesWritten
	case ActionSkip:
		r.Stats.FilesSkipped++
	}
}

// Finish stamps the end time and derives the status
func (r *Report) Finish(cancelled bool) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	succeeded := r.Stats.FilesDeleted + r.Stats.FilesMoved + r.Stats.FilesResized

	switch {
	case cancelled:
		r.Status = StatusCancelled
	case r.Stats.FilesErrored == 0:
		r.Status = StatusSuccess
	case succeeded == 0:
		r.Status = StatusFailed
	default:
		r.Status = StatusPartial
	}
}

// ExitCode returns the appropriate exit code for the status
func (s Status) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
