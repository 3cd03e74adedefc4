package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sdejongh/imgsweep/internal/platform"
	"github.com/sdejongh/imgsweep/pkg/config"
	"github.com/sdejongh/imgsweep/pkg/logging"
	"github.com/sdejongh/imgsweep/pkg/models"
	"github.com/sdejongh/imgsweep/pkg/output"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Log file rotation limits
const (
	logMaxSize    = 10 * 1024 * 1024 // 10 MB
	logMaxBackups = 5
)

// validateRemoveFlags validates the remove command flags
func validateRemoveFlags() error {
	if removeFlags.Folder == "" {
		return &models.ConfigError{Field: "folder", Message: "no folder supplied, run with -h to see help"}
	}
	if err := platform.ValidatePath(removeFlags.Folder); err != nil {
		return &models.ConfigError{Field: "folder", Message: err.Error()}
	}

	if removeFlags.Move != "" {
		if err := platform.ValidatePath(removeFlags.Move); err != nil {
			return &models.ConfigError{Field: "move", Message: err.Error()}
		}
		// Moved files would land back where they were found
		if platform.SamePath(removeFlags.Move, removeFlags.Folder) {
			return &models.ConfigError{Field: "move", Message: "move destination cannot be the folder being checked"}
		}
	}

	validReportFormats := map[string]bool{
		"human": true,
		"json":  true,
	}
	if !validReportFormats[removeFlags.ReportFormat] {
		return &models.ConfigError{
			Field:   "report-format",
			Message: fmt.Sprintf("invalid report format: %s (valid: human, json)", removeFlags.ReportFormat),
		}
	}

	if removeFlags.OnCollision != "" {
		if _, err := models.ParseCollisionPolicy(removeFlags.OnCollision); err != nil {
			return err
		}
	}

	return nil
}

// validateCompressFlags validates the compress command flags
func validateCompressFlags() error {
	if compressFlags.Folder == "" {
		return &models.ConfigError{Field: "folder", Message: "no folder supplied, run with --help to see help"}
	}
	if err := platform.ValidatePath(compressFlags.Folder); err != nil {
		return &models.ConfigError{Field: "folder", Message: err.Error()}
	}
	return nil
}

// loadConfig loads configuration from file or returns default, with
// environment overrides applied
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(globalFlags.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// applyGlobalFlagsToConfig overrides config values with global flags
func applyGlobalFlagsToConfig(cfg *config.Config) {
	// Output format
	if globalFlags.Output != "" {
		cfg.Output.Format = globalFlags.Output
	}

	// Logging
	if globalFlags.LogFile != "" {
		cfg.Logging.File = globalFlags.LogFile
	}
	if globalFlags.LogFormat != "" {
		cfg.Logging.Format = globalFlags.LogFormat
	}
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// applyRemoveFlagsToConfig overrides config values with remove flags
func applyRemoveFlagsToConfig(cmd *cobra.Command, cfg *config.Config) {
	if len(removeFlags.Exclude) > 0 {
		cfg.Scan.Exclude = removeFlags.Exclude
	}
	if removeFlags.OnCollision != "" {
		cfg.Remove.OnCollision = models.CollisionPolicy(removeFlags.OnCollision)
	}
	if cmd.Flags().Changed("continue-on-error") {
		cfg.Remove.ContinueOnError = removeFlags.ContinueOnError
	}
}

// applyCompressFlagsToConfig overrides config values with compress flags
func applyCompressFlagsToConfig(cmd *cobra.Command, cfg *config.Config) {
	if len(compressFlags.Exclude) > 0 {
		cfg.Scan.Exclude = compressFlags.Exclude
	}
	if cmd.Flags().Changed("quality") {
		cfg.Resize.Quality = compressFlags.Quality
	}
	if compressFlags.Interpolation != "" {
		cfg.Resize.Interpolation = compressFlags.Interpolation
	}
	if cmd.Flags().Changed("chain-dimensions") {
		cfg.Resize.ChainDimensions = compressFlags.ChainDimensions
	}
}

// createRemoveOperation creates a remove operation from configuration.
// Delete wins when both --delete and --move are given.
func createRemoveOperation(cfg *config.Config) (*models.RemoveOperation, error) {
	mode := models.DisposePrompt
	switch {
	case removeFlags.DryRun:
		mode = models.DisposeNone
	case removeFlags.Delete:
		mode = models.DisposeDelete
	case removeFlags.Move != "":
		mode = models.DisposeMove
	}

	operation := &models.RemoveOperation{
		ID:              uuid.New().String(),
		Folder:          removeFlags.Folder,
		Mode:            mode,
		MoveDest:        removeFlags.Move,
		OnCollision:     cfg.Remove.OnCollision,
		ContinueOnError: cfg.Remove.ContinueOnError,
		Exclude:         cfg.Scan.Exclude,
		DryRun:          removeFlags.DryRun,
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

// createCompressOperation creates a compress operation from configuration
func createCompressOperation(cfg *config.Config) (*models.CompressOperation, error) {
	operation := &models.CompressOperation{
		ID:              uuid.New().String(),
		Folder:          compressFlags.Folder,
		Width:           compressFlags.Width,
		Height:          compressFlags.Height,
		PreserveAspect:  !compressFlags.IgnoreAspect,
		ChainDimensions: cfg.Resize.ChainDimensions,
		Quality:         cfg.Resize.Quality,
		Interpolation:   cfg.Resize.Interpolation,
		Exclude:         cfg.Scan.Exclude,
		DryRun:          compressFlags.DryRun,
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

// createLogger creates a logger based on configuration. Without a log file
// it logs to stderr in verbose mode and nowhere otherwise.
func createLogger(cfg *config.Config, stderr io.Writer) (logging.Logger, error) {
	if cfg.Logging.File == "" && !globalFlags.Verbose {
		return logging.NewNullLogger(), nil
	}

	return logging.New(logging.Config{
		Path:       cfg.Logging.File,
		Format:     logging.ParseFormat(cfg.Logging.Format),
		Level:      logging.ParseLevel(cfg.Logging.Level),
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackups,
		Writer:     stderr,
	})
}

// createFormatter picks the output formatter. The progress bar is only
// used when out is a terminal and nothing will prompt on it.
func createFormatter(cfg *config.Config, out io.Writer, interactive bool) (output.Formatter, error) {
	progress := cfg.Output.Progress && !interactive && isTerminal(out)
	return output.New(cfg.Output.Format, progress)
}

// isTerminal reports whether v is a file attached to a terminal
func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
