package session

import (
	"context"
	"errors"

	"github.com/sdejongh/imgsweep/pkg/classify"
	"github.com/sdejongh/imgsweep/pkg/dispose"
	"github.com/sdejongh/imgsweep/pkg/logging"
	"github.com/sdejongh/imgsweep/pkg/models"
	"github.com/sdejongh/imgsweep/pkg/output"
)

// FindCorrupt decodes every pending image and moves the ones that fail into
// the corrupt collection. It returns the newly found corrupt images. The
// only error is the context's.
func (s *Session) FindCorrupt(ctx context.Context) ([]models.ImageFile, error) {
	c := classify.New(s.backend, s.decoder, s.logger)
	c.OnProgress(func(done, total int, path string) {
		s.progress(output.ProgressUpdate{
			Type:        output.EventClassified,
			FilePath:    path,
			CurrentFile: done,
			TotalFiles:  total,
		})
	})

	still, corrupt, err := c.Classify(ctx, s.pending)
	s.pending = still
	s.corrupt = append(s.corrupt, corrupt...)

	for _, img := range corrupt {
		s.progress(output.ProgressUpdate{
			Type:           output.EventCorrupt,
			FilePath:       img.Path,
			Classification: models.ClassCorrupt,
		})
	}

	s.logger.Info(ctx, "Classification finished", logging.Fields{
		"corrupt": len(corrupt),
		"valid":   len(still),
	})

	return corrupt, err
}

// FindLikelyCorrupt runs the visual heuristic over pending images. It is not
// implemented and always returns classify.ErrNotImplemented.
func (s *Session) FindLikelyCorrupt(ctx context.Context) error {
	c := classify.New(s.backend, s.decoder, s.logger)
	still, likely, err := c.ClassifyLikelyCorrupt(ctx, s.pending)
	s.pending = still
	s.likelyCorrupt = append(s.likelyCorrupt, likely...)
	return err
}

// DeleteAll deletes the corrupt images, then the likely-corrupt ones.
// Failures are swallowed: the returned results record them but the files
// simply stay in their collection.
func (s *Session) DeleteAll(ctx context.Context) []models.FileResult {
	return s.disposeAll(ctx, dispose.NewDelete(s.backend, s.logger))
}

// MoveAll moves the corrupt images, then the likely-corrupt ones, into dest.
// It returns a *models.ConfigError without moving anything when dest exists
// and is not a directory. Otherwise it stops at the first failed move unless
// opts.ContinueOnError is set, and returns the move errors.
func (s *Session) MoveAll(ctx context.Context, dest string, opts dispose.MoveOptions) ([]models.FileResult, error) {
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	strategy := dispose.NewMove(s.backend, dest, opts)
	if err := strategy.Prepare(ctx); err != nil {
		return nil, err
	}

	results := s.disposeAll(ctx, strategy)

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return results, errors.Join(errs...)
}

// disposeAll applies strategy to corrupt then likely-corrupt images and
// drops the disposed files from their collections. A move batch that
// stopped on an error does not go on to the second collection.
func (s *Session) disposeAll(ctx context.Context, strategy dispose.Strategy) []models.FileResult {
	var results []models.FileResult

	batches := []struct {
		files *[]models.ImageFile
		class models.Classification
	}{
		{&s.corrupt, models.ClassCorrupt},
		{&s.likelyCorrupt, models.ClassLikelyCorrupt},
	}

	for _, batch := range batches {
		if len(*batch.files) == 0 {
			continue
		}

		out := strategy.Dispose(ctx, *batch.files)
		*batch.files = without(*batch.files, out.Disposed())

		for i := range out.Results {
			out.Results[i].Classification = batch.class
			s.reportResult(out.Results[i], len(results)+i+1)
		}
		results = append(results, out.Results...)

		s.logger.Info(ctx, "Disposal finished", logging.Fields{
			"strategy":       strategy.Name(),
			"classification": string(batch.class),
			"disposed":       out.Succeeded(),
			"failed":         out.Failed(),
		})

		if out.Err != nil || out.Stopped {
			break
		}
	}

	return results
}

func (s *Session) reportResult(res models.FileResult, n int) {
	update := output.ProgressUpdate{
		Type:           output.EventFileComplete,
		FilePath:       res.File.Path,
		Action:         res.Action,
		Dest:           res.Dest,
		Classification: res.Classification,
		CurrentFile:    n,
	}
	if res.Err != nil {
		update.Type = output.EventFileError
		update.Error = res.Err
	}
	s.progress(update)
}
