package models

import (
	"errors"
	"fmt"
	"testing"
)

// ============== Operation Tests ==============

func TestRemoveOperationValidate(t *testing.T) {
	t.Run("ValidOperation", func(t *testing.T) {
		op := &RemoveOperation{
			Folder:      "/photos",
			Mode:        DisposeDelete,
			OnCollision: CollisionFail,
		}
		if err := op.Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})

	t.Run("EmptyFolder", func(t *testing.T) {
		op := &RemoveOperation{Mode: DisposeDelete, OnCollision: CollisionFail}
		err := op.Validate()
		if err == nil {
			t.Fatal("Validate() should fail for empty folder")
		}
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("error should be *ConfigError, got %T", err)
		}
		if ce.Field != "folder" {
			t.Errorf("Field = %s, want folder", ce.Field)
		}
	})

	t.Run("MoveWithoutDest", func(t *testing.T) {
		op := &RemoveOperation{Folder: "/photos", Mode: DisposeMove, OnCollision: CollisionFail}
		if err := op.Validate(); err == nil {
			t.Error("Validate() should fail for move without destination")
		}
	})

	t.Run("UnknownCollisionPolicy", func(t *testing.T) {
		op := &RemoveOperation{Folder: "/photos", Mode: DisposeDelete, OnCollision: "merge"}
		if err := op.Validate(); err == nil {
			t.Error("Validate() should fail for unknown collision policy")
		}
	})
}

func TestCompressOperationValidate(t *testing.T) {
	tests := []struct {
		name    string
		op      CompressOperation
		wantErr bool
	}{
		{"NoResize", CompressOperation{Folder: "/p", Quality: 75}, false},
		{"BothDimensions", CompressOperation{Folder: "/p", Width: 800, Height: 480, Quality: 75}, false},
		{"WidthOnly", CompressOperation{Folder: "/p", Width: 800, Quality: 75}, true},
		{"HeightOnly", CompressOperation{Folder: "/p", Height: 480, Quality: 75}, true},
		{"Negative", CompressOperation{Folder: "/p", Width: -1, Height: 480, Quality: 75}, true},
		{"NoFolder", CompressOperation{Width: 800, Height: 480, Quality: 75}, true},
		{"QualityTooLow", CompressOperation{Folder: "/p", Quality: 0}, true},
		{"QualityTooHigh", CompressOperation{Folder: "/p", Quality: 101}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsConfigError(err) {
				t.Errorf("error should be a ConfigError, got %T", err)
			}
		})
	}
}

func TestCompressOperationResizing(t *testing.T) {
	if (&CompressOperation{}).Resizing() {
		t.Error("Resizing() should be false without dimensions")
	}
	if !(&CompressOperation{Width: 10}).Resizing() {
		t.Error("Resizing() should be true when width is given")
	}
}

func TestParseCollisionPolicy(t *testing.T) {
	for _, s := range []string{"fail", "overwrite", "rename"} {
		t.Run(s, func(t *testing.T) {
			p, err := ParseCollisionPolicy(s)
			if err != nil {
				t.Fatalf("ParseCollisionPolicy(%q) error = %v", s, err)
			}
			if string(p) != s {
				t.Errorf("ParseCollisionPolicy(%q) = %s", s, p)
			}
		})
	}

	if _, err := ParseCollisionPolicy(""); err == nil {
		t.Error("ParseCollisionPolicy(\"\") should fail")
	}
}

// ============== Error Tests ==============

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "folder", Message: "not a directory"}
	if err.Error() != "folder: not a directory" {
		t.Errorf("Error() = %s", err.Error())
	}

	wrapped := fmt.Errorf("open session: %w", err)
	if !IsConfigError(wrapped) {
		t.Error("IsConfigError() should see through wrapping")
	}
	if IsConfigError(errors.New("plain")) {
		t.Error("IsConfigError() should be false for plain errors")
	}

	bare := &ConfigError{Message: "specified directory is empty"}
	if bare.Error() != "specified directory is empty" {
		t.Errorf("Error() = %s", bare.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "resize.quality", Message: "must be between 1 and 100"}
	expected := "resize.quality: must be between 1 and 100"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

// ============== Report Tests ==============

func TestReportRecord(t *testing.T) {
	r := NewReport("id", ToolRemove, "/photos", false)

	r.Record(FileResult{File: ImageFile{Path: "/photos/a.jpg"}, Action: ActionMove})
	r.Record(FileResult{File: ImageFile{Path: "/photos/b.jpg"}, Action: ActionDelete})
	r.Record(FileResult{File: ImageFile{Path: "/photos/c.jpg"}, Action: ActionDelete, Err: errors.New("busy")})
	r.Record(FileResult{File: ImageFile{Path: "/photos/d.jpg"}, Action: ActionMove, Err: errors.New("exists")})

	if r.Stats.FilesMoved != 1 {
		t.Errorf("FilesMoved = %d, want 1", r.Stats.FilesMoved)
	}
	if r.Stats.FilesDeleted != 1 {
		t.Errorf("FilesDeleted = %d, want 1", r.Stats.FilesDeleted)
	}
	if r.Stats.FilesDeleteFailed != 1 {
		t.Errorf("FilesDeleteFailed = %d, want 1", r.Stats.FilesDeleteFailed)
	}
	if r.Stats.FilesErrored != 1 {
		t.Errorf("FilesErrored = %d, want 1", r.Stats.FilesErrored)
	}
	if len(r.Errors) != 1 || r.Errors[0].FilePath != "/photos/d.jpg" {
		t.Errorf("Errors = %+v, want only d.jpg", r.Errors)
	}
	if len(r.Files) != 4 {
		t.Errorf("Files length = %d, want 4", len(r.Files))
	}
}

func TestReportResizeBytes(t *testing.T) {
	r := NewReport("id", ToolCompress, "/photos", false)
	r.Record(FileResult{
		File:         ImageFile{Path: "/photos/a.jpg", Size: 1000},
		Action:       ActionResize,
		BytesWritten: 400,
	})

	if r.Stats.BytesBefore != 1000 || r.Stats.BytesAfter != 400 {
		t.Errorf("bytes = %d -> %d, want 1000 -> 400", r.Stats.BytesBefore, r.Stats.BytesAfter)
	}
}

func TestReportFinish(t *testing.T) {
	tests := []struct {
		name      string
		results   []FileResult
		cancelled bool
		want      Status
	}{
		{"Empty", nil, false, StatusSuccess},
		{"AllOK", []FileResult{{Action: ActionMove}}, false, StatusSuccess},
		{"DeleteFailuresIgnored", []FileResult{{Action: ActionDelete, Err: errors.New("x")}}, false, StatusSuccess},
		{"Partial", []FileResult{{Action: ActionMove}, {Action: ActionMove, Err: errors.New("x")}}, false, StatusPartial},
		{"Failed", []FileResult{{Action: ActionResize, Err: errors.New("x")}}, false, StatusFailed},
		{"Cancelled", []FileResult{{Action: ActionMove}}, true, StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport("id", ToolRemove, "/p", false)
			for _, res := range tt.results {
				r.Record(res)
			}
			r.Finish(tt.cancelled)
			if r.Status != tt.want {
				t.Errorf("Status = %s, want %s", r.Status, tt.want)
			}
			if r.EndTime.Before(r.StartTime) {
				t.Error("EndTime should not be before StartTime")
			}
		})
	}
}

func TestStatusExitCode(t *testing.T) {
	tests := []struct {
		status Status
		want   int
	}{
		{StatusSuccess, 0},
		{StatusPartial, 1},
		{StatusFailed, 2},
		{StatusCancelled, 3},
		{Status("bogus"), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
