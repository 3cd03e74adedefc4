// Package dispose deletes or relocates classified images.
package dispose

import (
	"context"
	"errors"
	"time"

	"github.com/sdejongh/imgsweep/pkg/models"
)

// Strategy disposes of a batch of files
type Strategy interface {
	// Name returns the strategy name used in logs and reports
	Name() string

	// Dispose processes files in order and reports what happened to each
	Dispose(ctx context.Context, files []models.ImageFile) Outcome
}

// Outcome collects per-file results of a Dispose call
type Outcome struct {
	Results []models.FileResult

	// Err is a failure that prevented the batch from starting (bad destination)
	// or the context error when the batch was interrupted
	Err error

	// Stopped is set when a file failure ended the batch early
	Stopped bool
}

// Disposed returns the files that were successfully handled
func (o Outcome) Disposed() []models.ImageFile {
	var files []models.ImageFile
	for _, r := range o.Results {
		if r.OK() {
			files = append(files, r.File)
		}
	}
	return files
}

// Succeeded counts successful results
func (o Outcome) Succeeded() int {
	n := 0
	for _, r := range o.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed counts failed results
func (o Outcome) Failed() int {
	return len(o.Results) - o.Succeeded()
}

// FileErrors joins the per-file errors, nil when every file succeeded
func (o Outcome) FileErrors() error {
	var errs []error
	for _, r := range o.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// Cancelled reports whether the batch stopped on context cancellation
func (o Outcome) Cancelled() bool {
	return errors.Is(o.Err, context.Canceled) || errors.Is(o.Err, context.DeadlineExceeded)
}

func result(file models.ImageFile, action models.Action, dest string, start time.Time, err error) models.FileResult {
	return models.FileResult{
		File:     file,
		Action:   action,
		Dest:     dest,
		Err:      err,
		Duration: time.Since(start),
	}
}
