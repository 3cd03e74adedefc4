package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/imgsweep/pkg/models"
)

const progressTemplate = `{{string . "phase"}} {{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{string . "file"}}`

// getUpdateInterval returns the progress refresh interval based on OS
// Windows terminals have higher latency with ANSI sequences
func getUpdateInterval() time.Duration {
	if runtime.GOOS == "windows" {
		return 300 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// ProgressFormatter draws a progress bar over the per-file phase of a run:
// classification for remove, resizing for compress
type ProgressFormatter struct {
	mu sync.Mutex

	writer    io.Writer
	tool      models.Tool
	bar       *pb.ProgressBar
	termWidth int
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// Start initializes the formatter and starts the bar
func (f *ProgressFormatter) Start(writer io.Writer, tool models.Tool, totalImages int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.tool = tool

	// Detect terminal width to prevent line wrapping issues
	if file, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			f.termWidth = width
		}
	}
	// Default to 100 if we couldn't detect (pipe, redirect, etc.)
	if f.termWidth == 0 {
		f.termWidth = 100
	}

	phase := "Checking"
	if tool == models.ToolCompress {
		phase = "Resizing"
	}

	fmt.Fprintf(writer, "Found %d images\n", totalImages)

	f.bar = pb.New(totalImages)
	f.bar.SetTemplateString(progressTemplate)
	f.bar.SetWriter(writer)
	f.bar.SetWidth(f.termWidth)
	f.bar.SetRefreshRate(getUpdateInterval())
	f.bar.Set("phase", phase)
	f.bar.Start()

	return nil
}

// Progress advances the bar once per image of the tracked phase
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		return nil
	}

	switch update.Type {
	case EventClassified:
		if f.tool == models.ToolRemove {
			f.bar.Set("file", filepath.Base(update.FilePath))
			f.bar.SetCurrent(int64(update.CurrentFile))
		}

	case EventFileComplete, EventFileError:
		if f.tool == models.ToolCompress {
			f.bar.Set("file", filepath.Base(update.FilePath))
			f.bar.SetCurrent(int64(update.CurrentFile))
		}
	}

	return nil
}

// Complete stops the bar and displays the summary
func (f *ProgressFormatter) Complete(report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishBar()
	if f.writer == nil {
		f.writer = io.Discard
	}

	writeSummary(f.writer, report)
	return nil
}

// Error stops the bar and reports an error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishBar()
	if f.writer != nil {
		fmt.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

// finishBar must be called with mu held
func (f *ProgressFormatter) finishBar() {
	if f.bar == nil {
		return
	}
	f.bar.Set("file", "")
	f.bar.Finish()
	f.bar = nil
}
