package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/imgsweep/pkg/models"
)

// JSONFormatter writes the final report as a single JSON document for
// automation and scripting. Errors raised before completion are written as
// one-line {"error": ...} objects.
type JSONFormatter struct {
	writer      io.Writer
	tool        models.Tool
	totalImages int
	startTime   time.Time
}

// JSONReportData represents the final report data
type JSONReportData struct {
	SessionID  string          `json:"session_id"`
	Tool       string          `json:"tool"`
	Folder     string          `json:"folder"`
	DryRun     bool            `json:"dry_run"`
	Status     string          `json:"status"`
	ExitCode   int             `json:"exit_code"`
	Duration   string          `json:"duration"`
	DurationMs int64           `json:"duration_ms"`
	Stats      JSONStatsData   `json:"stats"`
	Files      []JSONFileData  `json:"files,omitempty"`
	Errors     []JSONErrorData `json:"errors,omitempty"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	ImagesFound         int   `json:"images_found"`
	ImagesValid         int   `json:"images_valid"`
	ImagesCorrupt       int   `json:"images_corrupt"`
	ImagesLikelyCorrupt int   `json:"images_likely_corrupt"`
	FilesDeleted        int   `json:"files_deleted"`
	FilesDeleteFailed   int   `json:"files_delete_failed"`
	FilesMoved          int   `json:"files_moved"`
	FilesResized        int   `json:"files_resized"`
	FilesSkipped        int   `json:"files_skipped"`
	FilesErrored        int   `json:"files_errored"`
	BytesBefore         int64 `json:"bytes_before,omitempty"`
	BytesAfter          int64 `json:"bytes_after,omitempty"`
}

// JSONFileData represents one file outcome
type JSONFileData struct {
	Path           string `json:"path"`
	Classification string `json:"classification,omitempty"`
	Action         string `json:"action"`
	Dest           string `json:"dest,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	BytesWritten   int64  `json:"bytes_written,omitempty"`
	Error          string `json:"error,omitempty"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	Path      string `json:"path"`
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, tool models.Tool, totalImages int) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.tool = tool
	f.totalImages = totalImages
	f.startTime = time.Now()
	return nil
}

// Progress is silent so stdout stays a single parseable document
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the report as indented JSON
func (f *JSONFormatter) Complete(report *models.Report) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewJSONReport(report))
}

// NewJSONReport converts a report to its JSON shape
func NewJSONReport(report *models.Report) JSONReportData {
	data := JSONReportData{
		SessionID:  report.SessionID,
		Tool:       string(report.Tool),
		Folder:     report.Folder,
		DryRun:     report.DryRun,
		Status:     string(report.Status),
		ExitCode:   report.Status.ExitCode(),
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			ImagesFound:         report.Stats.ImagesFound,
			ImagesValid:         report.Stats.ImagesValid,
			ImagesCorrupt:       report.Stats.ImagesCorrupt,
			ImagesLikelyCorrupt: report.Stats.ImagesLikelyCorrupt,
			FilesDeleted:        report.Stats.FilesDeleted,
			FilesDeleteFailed:   report.Stats.FilesDeleteFailed,
			FilesMoved:          report.Stats.FilesMoved,
			FilesResized:        report.Stats.FilesResized,
			FilesSkipped:        report.Stats.FilesSkipped,
			FilesErrored:        report.Stats.FilesErrored,
			BytesBefore:         report.Stats.BytesBefore,
			BytesAfter:          report.Stats.BytesAfter,
		},
	}

	for _, res := range report.Files {
		fd := JSONFileData{
			Path:           res.File.Path,
			Classification: string(res.Classification),
			Action:         string(res.Action),
			Dest:           res.Dest,
			Width:          res.Width,
			Height:         res.Height,
			BytesWritten:   res.BytesWritten,
		}
		if res.Err != nil {
			fd.Error = res.Err.Error()
		}
		data.Files = append(data.Files, fd)
	}

	for _, e := range report.Errors {
		data.Errors = append(data.Errors, JSONErrorData{
			Path:      e.FilePath,
			Operation: string(e.Operation),
			Error:     e.Error,
		})
	}

	return data
}

// Error writes an error object
func (f *JSONFormatter) Error(err error) error {
	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	return json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
