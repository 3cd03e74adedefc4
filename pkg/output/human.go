package output

import (
	"fmt"
	"io"
	"time"

	"github.com/sdejongh/imgsweep/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer      io.Writer
	tool        models.Tool
	totalImages int
	startTime   time.Time
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, tool models.Tool, totalImages int) error {
	f.writer = writer
	f.tool = tool
	f.totalImages = totalImages
	f.startTime = time.Now()

	if writer != nil {
		fmt.Fprintf(writer, "Found %d images\n", totalImages)
	}

	return nil
}

// Progress reports per-file outcomes
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case EventCorrupt:
		fmt.Fprintf(f.writer, "Corrupt: %s\n", update.FilePath)

	case EventFileComplete:
		switch update.Action {
		case models.ActionDelete:
			fmt.Fprintf(f.writer, "✓ deleted %s\n", update.FilePath)
		case models.ActionMove:
			fmt.Fprintf(f.writer, "✓ moved %s -> %s\n", update.FilePath, update.Dest)
		case models.ActionResize:
			fmt.Fprintf(f.writer, "[%d/%d] ✓ %s (%dx%d, %s)\n",
				update.CurrentFile, update.TotalFiles, update.FilePath,
				update.Width, update.Height, formatBytes(update.BytesWritten))
		case models.ActionSkip:
			fmt.Fprintf(f.writer, "[%d/%d] - %s would become %dx%d\n",
				update.CurrentFile, update.TotalFiles, update.FilePath,
				update.Width, update.Height)
		}

	case EventFileError:
		fmt.Fprintf(f.writer, "✗ %s %s: %v\n", update.Action, update.FilePath, update.Error)
	}

	return nil
}

// Complete finalizes output and displays summary
func (f *HumanFormatter) Complete(report *models.Report) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	writeSummary(f.writer, report)
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		fmt.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// writeSummary prints the end-of-run statistics shared by the text formatters
func writeSummary(w io.Writer, report *models.Report) {
	title := "Remove"
	if report.Tool == models.ToolCompress {
		title = "Compress"
	}
	if report.DryRun {
		title += " (dry run)"
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "%s completed in %s\n", title, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Images:\n")
	fmt.Fprintf(w, "    Found:            %d\n", report.Stats.ImagesFound)

	if report.Tool == models.ToolCompress {
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "  Operations:\n")
		fmt.Fprintf(w, "    Resized:          %d\n", report.Stats.FilesResized)
		fmt.Fprintf(w, "    Skipped:          %d\n", report.Stats.FilesSkipped)
		fmt.Fprintf(w, "    Errored:          %d\n", report.Stats.FilesErrored)
		if report.Stats.FilesResized > 0 {
			fmt.Fprintf(w, "\n")
			fmt.Fprintf(w, "  Data:\n")
			fmt.Fprintf(w, "    Before:           %s\n", formatBytes(report.Stats.BytesBefore))
			fmt.Fprintf(w, "    After:            %s\n", formatBytes(report.Stats.BytesAfter))
		}
	} else {
		fmt.Fprintf(w, "    Valid:            %d\n", report.Stats.ImagesValid)
		fmt.Fprintf(w, "    Corrupt:          %d\n", report.Stats.ImagesCorrupt)
		if report.Stats.ImagesLikelyCorrupt > 0 {
			fmt.Fprintf(w, "    Likely corrupt:   %d\n", report.Stats.ImagesLikelyCorrupt)
		}
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "  Operations:\n")
		fmt.Fprintf(w, "    Deleted:          %d\n", report.Stats.FilesDeleted)
		fmt.Fprintf(w, "    Delete failures:  %d\n", report.Stats.FilesDeleteFailed)
		fmt.Fprintf(w, "    Moved:            %d\n", report.Stats.FilesMoved)
		fmt.Fprintf(w, "    Errored:          %d\n", report.Stats.FilesErrored)
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Status: %s\n", report.Status)

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, err := range report.Errors {
			fmt.Fprintf(w, "  %s: %s\n", err.FilePath, err.Error)
		}
	}
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
