package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/imgsweep/pkg/models"
)

// WriteCorruptReport writes the list of corrupt images and what was done
// with each to a file. Format can be "human" or "json". Nothing is written
// when no image was found corrupt.
func WriteCorruptReport(report *models.Report, path string, format string) error {
	files := corruptFiles(report)
	if len(files) == 0 {
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		err = writeCorruptJSON(report, files, file)
	default: // "human"
		err = writeCorruptHuman(report, files, file)
	}
	if err != nil {
		return err
	}

	return file.Close()
}

// corruptFiles returns the report entries for corrupt and likely-corrupt images
func corruptFiles(report *models.Report) []models.FileResult {
	var files []models.FileResult
	for _, res := range report.Files {
		if res.Classification == models.ClassCorrupt || res.Classification == models.ClassLikelyCorrupt {
			files = append(files, res)
		}
	}
	return files
}

func disposition(res models.FileResult) string {
	switch {
	case res.Err != nil:
		return fmt.Sprintf("%s failed: %v", res.Action, res.Err)
	case res.Action == models.ActionDelete:
		return "deleted"
	case res.Action == models.ActionMove:
		return "moved to " + res.Dest
	default:
		return "kept"
	}
}

// writeCorruptHuman writes the list in human-readable format
func writeCorruptHuman(report *models.Report, files []models.FileResult, w io.Writer) error {
	fmt.Fprintf(w, "Corrupt Images Report\n")
	fmt.Fprintf(w, "=====================\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Session: %s\n", report.SessionID)
	fmt.Fprintf(w, "Folder: %s\n", report.Folder)
	fmt.Fprintf(w, "Dry Run: %v\n\n", report.DryRun)

	byClass := make(map[models.Classification][]models.FileResult)
	for _, res := range files {
		byClass[res.Classification] = append(byClass[res.Classification], res)
	}

	labels := []struct {
		class models.Classification
		label string
	}{
		{models.ClassCorrupt, "Corrupt"},
		{models.ClassLikelyCorrupt, "Likely Corrupt"},
	}

	for _, l := range labels {
		list := byClass[l.class]
		if len(list) == 0 {
			continue
		}

		header := fmt.Sprintf("%s (%d files)", l.label, len(list))
		fmt.Fprintf(w, "%s\n", header)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(header)))

		for _, res := range list {
			fmt.Fprintf(w, "  %s\n", res.File.Path)
			fmt.Fprintf(w, "    Size:    %s\n", formatBytes(res.File.Size))
			fmt.Fprintf(w, "    Outcome: %s\n", disposition(res))
		}
		fmt.Fprintf(w, "\n")
	}

	return nil
}

// writeCorruptJSON writes the list in JSON format
func writeCorruptJSON(report *models.Report, files []models.FileResult, w io.Writer) error {
	type entry struct {
		Path           string `json:"path"`
		Size           int64  `json:"size"`
		Classification string `json:"classification"`
		Outcome        string `json:"outcome"`
	}

	entries := make([]entry, 0, len(files))
	for _, res := range files {
		entries = append(entries, entry{
			Path:           res.File.Path,
			Size:           res.File.Size,
			Classification: string(res.Classification),
			Outcome:        disposition(res),
		})
	}

	output := struct {
		Generated  string  `json:"generated"`
		SessionID  string  `json:"session_id"`
		Folder     string  `json:"folder"`
		DryRun     bool    `json:"dry_run"`
		TotalCount int     `json:"total_count"`
		Files      []entry `json:"files"`
	}{
		Generated:  time.Now().Format(time.RFC3339),
		SessionID:  report.SessionID,
		Folder:     report.Folder,
		DryRun:     report.DryRun,
		TotalCount: len(entries),
		Files:      entries,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
