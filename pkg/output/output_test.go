package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdejongh/imgsweep/pkg/models"
)

func sampleRemoveReport() *models.Report {
	r := models.NewReport("sess-1", models.ToolRemove, "/photos", false)
	r.Stats.ImagesFound = 9
	r.Stats.ImagesValid = 6
	r.Stats.ImagesCorrupt = 3
	r.Record(models.FileResult{
		File:           models.ImageFile{Path: "/photos/bad (1).JPG", Size: 2048},
		Classification: models.ClassCorrupt,
		Action:         models.ActionMove,
		Dest:           "/trash/bad (1).JPG",
	})
	r.Record(models.FileResult{
		File:           models.ImageFile{Path: "/photos/bad (2).JPG"},
		Classification: models.ClassCorrupt,
		Action:         models.ActionMove,
		Err:            errors.New("destination file already exists"),
	})
	r.Record(models.FileResult{
		File:           models.ImageFile{Path: "/photos/bad (3).JPG"},
		Classification: models.ClassCorrupt,
		Action:         models.ActionSkip,
	})
	r.Finish(false)
	return r
}

func TestNew(t *testing.T) {
	tests := []struct {
		format   string
		progress bool
		want     string
	}{
		{"human", false, "human"},
		{"human", true, "progress"},
		{"", false, "human"},
		{"json", true, "json"},
	}
	for _, tt := range tests {
		f, err := New(tt.format, tt.progress)
		if err != nil {
			t.Fatalf("New(%q) error = %v", tt.format, err)
		}
		if f.Name() != tt.want {
			t.Errorf("New(%q, %v).Name() = %s, want %s", tt.format, tt.progress, f.Name(), tt.want)
		}
	}

	if _, err := New("xml", false); !models.IsConfigError(err) {
		t.Errorf("New(xml) error = %v, want ConfigError", err)
	}
}

func TestHumanFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter()
	f.Start(&buf, models.ToolRemove, 9)
	f.Progress(ProgressUpdate{Type: EventCorrupt, FilePath: "/photos/bad (1).JPG"})
	f.Progress(ProgressUpdate{Type: EventFileComplete, Action: models.ActionMove, FilePath: "/photos/bad (1).JPG", Dest: "/trash/bad (1).JPG"})
	f.Progress(ProgressUpdate{Type: EventFileError, Action: models.ActionMove, FilePath: "/photos/bad (2).JPG", Error: errors.New("exists")})
	f.Complete(sampleRemoveReport())

	out := buf.String()
	for _, want := range []string{
		"Found 9 images",
		"Corrupt: /photos/bad (1).JPG",
		"moved /photos/bad (1).JPG -> /trash/bad (1).JPG",
		"/photos/bad (2).JPG: exists",
		"Corrupt:          3",
		"Moved:            1",
		"Status: partial",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHumanFormatterCompressSummary(t *testing.T) {
	r := models.NewReport("s", models.ToolCompress, "/photos", false)
	r.Stats.ImagesFound = 1
	r.Record(models.FileResult{
		File:         models.ImageFile{Path: "/photos/a.jpg", Size: 4096},
		Action:       models.ActionResize,
		Width:        800,
		Height:       480,
		BytesWritten: 1024,
	})
	r.Finish(false)

	var buf bytes.Buffer
	f := NewHumanFormatter()
	f.Start(&buf, models.ToolCompress, 1)
	f.Complete(r)

	out := buf.String()
	for _, want := range []string{"Compress completed", "Resized:          1", "Before:           4.0 KiB", "After:            1.0 KiB", "Status: success"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()
	f.Start(&buf, models.ToolRemove, 9)
	f.Progress(ProgressUpdate{Type: EventCorrupt, FilePath: "x"})
	if buf.Len() != 0 {
		t.Fatalf("Progress() must not write, got %q", buf.String())
	}
	if err := f.Complete(sampleRemoveReport()); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	var data JSONReportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if data.SessionID != "sess-1" || data.Status != "partial" || data.ExitCode != 1 {
		t.Errorf("report = %+v", data)
	}
	if data.Stats.ImagesCorrupt != 3 || data.Stats.FilesMoved != 1 || data.Stats.FilesErrored != 1 {
		t.Errorf("stats = %+v", data.Stats)
	}
	if len(data.Files) != 3 || len(data.Errors) != 1 {
		t.Errorf("files=%d errors=%d, want 3/1", len(data.Files), len(data.Errors))
	}
}

func TestProgressFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewProgressFormatter()
	if err := f.Start(&buf, models.ToolRemove, 3); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for i := 1; i <= 3; i++ {
		f.Progress(ProgressUpdate{Type: EventClassified, FilePath: "/p/x.jpg", CurrentFile: i, TotalFiles: 3})
	}
	if err := f.Complete(sampleRemoveReport()); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Found 3 images") || !strings.Contains(out, "Status: partial") {
		t.Errorf("unexpected output:\n%s", out)
	}

	// Calling Error after Complete must not panic on the finished bar
	f.Error(errors.New("late"))
}

func TestWriteCorruptReport(t *testing.T) {
	dir := t.TempDir()
	report := sampleRemoveReport()

	t.Run("Human", func(t *testing.T) {
		path := filepath.Join(dir, "report.txt")
		if err := WriteCorruptReport(report, path, "human"); err != nil {
			t.Fatalf("WriteCorruptReport() error = %v", err)
		}
		data, _ := os.ReadFile(path)
		out := string(data)
		for _, want := range []string{
			"Corrupt (3 files)",
			"moved to /trash/bad (1).JPG",
			"move failed: destination file already exists",
			"Outcome: kept",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("report missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "report.json")
		if err := WriteCorruptReport(report, path, "json"); err != nil {
			t.Fatalf("WriteCorruptReport() error = %v", err)
		}
		data, _ := os.ReadFile(path)
		var parsed struct {
			TotalCount int `json:"total_count"`
			Files      []struct {
				Path    string `json:"path"`
				Outcome string `json:"outcome"`
			} `json:"files"`
		}
		if err := json.Unmarshal(data, &parsed); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if parsed.TotalCount != 3 || parsed.Files[0].Outcome != "moved to /trash/bad (1).JPG" {
			t.Errorf("parsed = %+v", parsed)
		}
	})

	t.Run("NothingCorrupt", func(t *testing.T) {
		path := filepath.Join(dir, "empty.txt")
		empty := models.NewReport("s", models.ToolRemove, "/p", false)
		if err := WriteCorruptReport(empty, path, "human"); err != nil {
			t.Fatalf("WriteCorruptReport() error = %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("no file should be written when nothing is corrupt")
		}
	})
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
