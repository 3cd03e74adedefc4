package session

import (
	"context"

	"github.com/sdejongh/imgsweep/pkg/logging"
	"github.com/sdejongh/imgsweep/pkg/models"
	"github.com/sdejongh/imgsweep/pkg/output"
	"github.com/sdejongh/imgsweep/pkg/resize"
)

// Resize rewrites every pending image in place at the target size.
// Per-image failures are in the results; the error is a configuration
// problem or the context's.
func (s *Session) Resize(ctx context.Context, target resize.Target, opts resize.Options) ([]models.FileResult, error) {
	if opts.Logger == nil {
		opts.Logger = s.logger
	}

	r, err := resize.New(s.backend, s.decoder, opts)
	if err != nil {
		return nil, err
	}

	r.OnProgress(func(done, total int, res models.FileResult) {
		update := output.ProgressUpdate{
			Type:         output.EventFileComplete,
			FilePath:     res.File.Path,
			Action:       res.Action,
			Width:        res.Width,
			Height:       res.Height,
			BytesWritten: res.BytesWritten,
			CurrentFile:  done,
			TotalFiles:   total,
		}
		if res.Err != nil {
			update.Type = output.EventFileError
			update.Error = res.Err
		}
		s.progress(update)
	})

	out := r.ResizeInPlace(ctx, s.pending, target)

	s.logger.Info(ctx, "Resize finished", logging.Fields{
		"processed": len(out.Results),
		"width":     target.Width,
		"height":    target.Height,
		"aspect":    target.PreserveAspect,
		"dry_run":   opts.DryRun,
	})

	return out.Results, out.Err
}
