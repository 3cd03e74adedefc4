package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sdejongh/imgsweep/pkg/imaging"
	"github.com/sdejongh/imgsweep/pkg/logging"
	"github.com/sdejongh/imgsweep/pkg/models"
	"github.com/sdejongh/imgsweep/pkg/resize"
	"github.com/sdejongh/imgsweep/pkg/session"
	"github.com/sdejongh/imgsweep/pkg/storage"
	"github.com/spf13/cobra"
)

// CompressFlags holds compress command flags
type CompressFlags struct {
	Folder          string
	Width           int
	Height          int
	IgnoreAspect    bool
	Quality         int
	Interpolation   string
	ChainDimensions bool
	DryRun          bool
	Exclude         []string
}

var compressFlags CompressFlags

// NewCompressCommand creates the compress command.
// -h is the height here, so help is only reachable as --help.
// -a takes an explicit true or false.
func NewCompressCommand() *cobra.Command {
	compressFlags = CompressFlags{}

	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Resize images in place",
		Long: `Rewrite every PNG and JPEG image under a folder at a new resolution.
By default the aspect ratio is kept and width and height are maximums;
with -a true images are stretched to exactly width x height.`,
		Example: `  imgsweep compress -f ~/Pictures -w 800 -h 480
  imgsweep compress -f ~/Pictures -w 800 -h 480 -a true --quality 85`,
		Args: cobra.NoArgs,
		RunE: runCompress,
	}

	// Registered before height so cobra does not claim -h for help
	cmd.Flags().Bool("help", false, "help for compress")
	cmd.Flags().StringVarP(&compressFlags.Folder, "folder", "f", "", "folder to look for images in (required)")
	cmd.Flags().IntVarP(&compressFlags.Width, "width", "w", 0, "new (max) width of images")
	cmd.Flags().IntVarP(&compressFlags.Height, "height", "h", 0, "new (max) height of images")
	cmd.Flags().BoolVarP(&compressFlags.IgnoreAspect, "ignore-aspect", "a", false, "true to ignore the aspect ratio and resize to exactly width x height")
	cmd.Flags().Lookup("ignore-aspect").NoOptDefVal = ""
	cmd.Flags().IntVar(&compressFlags.Quality, "quality", 0, "JPEG quality 1-100 (default from config)")
	cmd.Flags().StringVar(&compressFlags.Interpolation, "interpolation", "", "resampling: nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3")
	cmd.Flags().BoolVar(&compressFlags.ChainDimensions, "chain-dimensions", false, "use each fitted size as the bounds for the next image")
	cmd.Flags().BoolVar(&compressFlags.DryRun, "dry-run", false, "compute new sizes without writing")
	cmd.Flags().StringSliceVar(&compressFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")

	return cmd
}

func runCompress(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Validate flags
	if err := validateCompressFlags(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override config with command-line flags
	applyGlobalFlagsToConfig(cfg)
	applyCompressFlagsToConfig(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create compress operation
	operation, err := createCompressOperation(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	formatter, err := createFormatter(cfg, out, false)
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

	report := models.NewReport(sess.ID, models.ToolCompress, operation.Folder, operation.DryRun)
	report.Stats.ImagesFound = len(sess.Pending())

	var formatterOut io.Writer = out
	if cfg.Output.Quiet && cfg.Output.Format != "json" {
		formatterOut = nil
	}
	if err := formatter.Start(formatterOut, models.ToolCompress, report.Stats.ImagesFound); err != nil {
		return err
	}

	if operation.Resizing() {
		encode := imaging.DefaultEncodeOptions()
		encode.Quality = operation.Quality
		encode.PNGCompression = cfg.Resize.PNGCompression

		results, err := sess.Resize(ctx, resize.Target{
			Width:          operation.Width,
			Height:         operation.Height,
			PreserveAspect: operation.PreserveAspect,
		}, resize.Options{
			Encode:          encode,
			Interpolation:   operation.Interpolation,
			ChainDimensions: operation.ChainDimensions,
			DryRun:          operation.DryRun,
		})
		for _, res := range results {
			report.Record(res)
		}
		if err != nil && ctx.Err() == nil {
			if cfg.Output.Format == "json" {
				_ = formatter.Error(err)
			}
			return err
		}
	} else {
		logger.Info(ctx, "No size given, nothing to resize", logging.Fields{"images": report.Stats.ImagesFound})
	}

	report.Finish(ctx.Err() != nil)

	if err := formatter.Complete(report); err != nil {
		return err
	}

	if code := report.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code, Status: string(report.Status)}
	}
	return nil
}
