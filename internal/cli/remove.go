package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sdejongh/imgsweep/pkg/classify"
	"github.com/sdejongh/imgsweep/pkg/dispose"
	"github.com/sdejongh/imgsweep/pkg/logging"
	"github.com/sdejongh/imgsweep/pkg/models"
	"github.com/sdejongh/imgsweep/pkg/output"
	"github.com/sdejongh/imgsweep/pkg/session"
	"github.com/sdejongh/imgsweep/pkg/storage"
	"github.com/spf13/cobra"
)

// RemoveFlags holds remove command flags
type RemoveFlags struct {
	Folder          string
	Delete          bool
	Move            string
	OnCollision     string
	ContinueOnError bool
	Exclude         []string
	Report          string
	ReportFormat    string
	DryRun          bool
	PromptStdin     bool
}

var removeFlags RemoveFlags

// NewRemoveCommand creates the remove command
func NewRemoveCommand() *cobra.Command {
	removeFlags = RemoveFlags{}

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Find and dispose of corrupt images",
		Long: `Decode every PNG and JPEG image under a folder and collect the ones that
fail. Corrupt images are deleted (-d), moved into another folder (-m), or
handled interactively when neither is given.`,
		Example: `  imgsweep remove -f ~/Pictures -d
  imgsweep remove -f ~/Pictures -m ~/Pictures/broken --on-collision rename`,
		Args: cobra.NoArgs,
		RunE: runRemove,
	}

	cmd.Flags().StringVarP(&removeFlags.Folder, "folder", "f", "", "folder to look for images in (required)")
	cmd.Flags().BoolVarP(&removeFlags.Delete, "delete", "d", false, "automatically delete all corrupt images")
	cmd.Flags().StringVarP(&removeFlags.Move, "move", "m", "", "folder to automatically move corrupt images to")
	cmd.Flags().StringVar(&removeFlags.OnCollision, "on-collision", "", "when a moved file's name is taken: fail, overwrite, rename")
	cmd.Flags().BoolVar(&removeFlags.ContinueOnError, "continue-on-error", false, "keep moving after a failed move")
	cmd.Flags().StringSliceVar(&removeFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVar(&removeFlags.Report, "report", "", "write the corrupt images report to file")
	cmd.Flags().StringVar(&removeFlags.ReportFormat, "report-format", "human", "corrupt images report format: human, json")
	cmd.Flags().BoolVar(&removeFlags.DryRun, "dry-run", false, "classify and report only, don't dispose")
	cmd.Flags().BoolVar(&removeFlags.PromptStdin, "prompt-stdin", false, "read prompt answers from stdin even when it is not a terminal")

	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Validate flags
	if err := validateRemoveFlags(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override config with command-line flags
	applyGlobalFlagsToConfig(cfg)
	applyRemoveFlagsToConfig(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create remove operation
	operation, err := createRemoveOperation(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interactive := operation.Mode == models.DisposePrompt

	var ask *prompter
	if interactive {
		promptOut := out
		if cfg.Output.Format == "json" {
			promptOut = cmd.ErrOrStderr()
		}
		if ask, err = newPrompter(cmd.InOrStdin(), promptOut, removeFlags.PromptStdin); err != nil {
			return err
		}
		defer ask.close()
	}

	formatter, err := createFormatter(cfg, out, interactive)
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	backend := storage.NewLocal()
	defer backend.Close()

	sess, err := session.Open(ctx, backend, operation.Folder, session.Options{
		Exclude:   operation.Exclude,
		Logger:    logger,
		Formatter: formatter,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	r := &remover{
		sess:      sess,
		op:        operation,
		ask:       ask,
		logger:    logger,
		report:    models.NewReport(sess.ID, models.ToolRemove, operation.Folder, operation.DryRun),
		say:       out,
		formatter: formatter,
		recorded:  make(map[string]bool),
	}
	// The progress bar owns stdout until Complete
	if cfg.Output.Quiet || formatter.Name() != "human" {
		r.say = io.Discard
	}

	var formatterOut io.Writer = out
	if cfg.Output.Quiet && cfg.Output.Format != "json" {
		formatterOut = nil
	}
	r.report.Stats.ImagesFound = len(sess.Pending())
	if err := formatter.Start(formatterOut, models.ToolRemove, r.report.Stats.ImagesFound); err != nil {
		return err
	}

	if err := r.run(ctx); err != nil {
		// JSON consumers read errors from stdout; main prints the rest to stderr
		if cfg.Output.Format == "json" {
			_ = formatter.Error(err)
		}
		return err
	}

	return r.finish(ctx)
}

// remover drives one remove run over an open session and keeps its report
type remover struct {
	sess      *session.Session
	op        *models.RemoveOperation
	ask       *prompter
	logger    logging.Logger
	report    *models.Report
	say       io.Writer
	formatter output.Formatter

	// paths that already have a disposal result in the report
	recorded map[string]bool
}

func (r *remover) run(ctx context.Context) error {
	corrupt, err := r.sess.FindCorrupt(ctx)
	r.report.Stats.ImagesCorrupt = len(corrupt)
	if err != nil {
		// Cancelled; finish reports the partial classification
		r.report.Stats.ImagesValid = len(r.sess.Pending())
		return nil
	}

	if err := r.sess.FindLikelyCorrupt(ctx); err != nil && !errors.Is(err, classify.ErrNotImplemented) {
		return err
	}

	r.report.Stats.ImagesLikelyCorrupt = len(r.sess.LikelyCorrupt())
	r.report.Stats.ImagesValid = len(r.sess.Pending())

	fmt.Fprintf(r.say, "imgsweep found %d corrupt images.\n", len(corrupt))

	if r.remaining() == 0 {
		return nil
	}

	moveOpts := dispose.MoveOptions{
		OnCollision:     r.op.OnCollision,
		ContinueOnError: r.op.ContinueOnError,
	}

	switch r.op.Mode {
	case models.DisposeNone:
		r.logger.Info(ctx, "Dry run, corrupt images left in place", logging.Fields{"corrupt": r.remaining()})

	case models.DisposeDelete:
		r.record(r.sess.DeleteAll(ctx))
		fmt.Fprintln(r.say, "Removed.")

	case models.DisposeMove:
		results, err := r.sess.MoveAll(ctx, r.op.MoveDest, moveOpts)
		if models.IsConfigError(err) {
			return err
		}
		r.record(results)
		if err == nil {
			fmt.Fprintf(r.say, "Moved to %s.\n", r.op.MoveDest)
		}

	case models.DisposePrompt:
		r.prompt(ctx, moveOpts)
	}

	return nil
}

// prompt asks whether to delete, then where to move. A move that fails is
// reported and the question asked again for the images still left.
func (r *remover) prompt(ctx context.Context, moveOpts dispose.MoveOptions) {
	if r.ask.confirmDelete(ctx) {
		r.record(r.sess.DeleteAll(ctx))
		fmt.Fprintln(r.ask.out, "Removed.")
		return
	}

	for r.remaining() > 0 && ctx.Err() == nil {
		dest, ok := r.ask.moveFolder(ctx)
		if !ok {
			return
		}

		results, err := r.sess.MoveAll(ctx, dest, moveOpts)
		r.record(results)
		if err == nil {
			fmt.Fprintf(r.ask.out, "Moved to %s.\n", dest)
			return
		}

		r.logger.Warn(ctx, "Move failed", logging.Fields{"dest": dest, "error": err.Error()})
		fmt.Fprintln(r.ask.out, "Could not move images to given folder.")
	}
}

// remaining counts corrupt and likely-corrupt images not yet disposed of
func (r *remover) remaining() int {
	return len(r.sess.Corrupt()) + len(r.sess.LikelyCorrupt())
}

// record adds disposal results to the report. A file retried after a failed
// move keeps only its latest result.
func (r *remover) record(results []models.FileResult) {
	for _, res := range results {
		if r.recorded[res.File.Path] {
			r.dropResult(res.File.Path)
		}
		r.recorded[res.File.Path] = true
		r.report.Record(res)
	}
}

// dropResult removes an earlier failed result for path from the report
func (r *remover) dropResult(path string) {
	files := r.report.Files[:0]
	for _, res := range r.report.Files {
		if res.File.Path == path {
			continue
		}
		files = append(files, res)
	}
	r.report.Files = files

	errs := r.report.Errors[:0]
	for _, fe := range r.report.Errors {
		if fe.FilePath == path {
			r.report.Stats.FilesErrored--
			continue
		}
		errs = append(errs, fe)
	}
	r.report.Errors = errs
}

// finish records the images left in place, prints the summary and writes
// the corrupt images report
func (r *remover) finish(ctx context.Context) error {
	left := []struct {
		files []models.ImageFile
		class models.Classification
	}{
		{r.sess.Corrupt(), models.ClassCorrupt},
		{r.sess.LikelyCorrupt(), models.ClassLikelyCorrupt},
	}
	for _, batch := range left {
		for _, img := range batch.files {
			if r.recorded[img.Path] {
				continue
			}
			r.report.Record(models.FileResult{
				File:           img,
				Classification: batch.class,
				Action:         models.ActionSkip,
			})
		}
	}

	r.report.Finish(ctx.Err() != nil)

	if err := r.formatter.Complete(r.report); err != nil {
		return err
	}

	if removeFlags.Report != "" {
		if err := output.WriteCorruptReport(r.report, removeFlags.Report, removeFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write corrupt images report: %w", err)
		}
	}

	if code := r.report.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code, Status: string(r.report.Status)}
	}
	return nil
}
