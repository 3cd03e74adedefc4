// Package resize rewrites images in place at a new resolution.
package resize

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	nfnt "github.com/nfnt/resize"

	"github.com/sdejongh/imgsweep/pkg/imaging"
	"github.com/sdejongh/imgsweep/pkg/logging"
	"github.com/sdejongh/imgsweep/pkg/models"
	"github.com/sdejongh/imgsweep/pkg/storage"
)

// Target is the requested output size
type Target struct {
	Width  int
	Height int

	// PreserveAspect fits the image inside Width x Height instead of
	// stretching it to exactly that size
	PreserveAspect bool
}

// Options configures a Resizer
type Options struct {
	Encode        imaging.EncodeOptions
	Interpolation string

	// ChainDimensions feeds each aspect-fitted size back in as the bounds
	// for the next image
	ChainDimensions bool

	// DryRun computes output sizes without writing anything
	DryRun bool

	Logger logging.Logger
}

// ProgressFunc is called with each image's result as soon as it is processed
type ProgressFunc func(done, total int, res models.FileResult)

// Outcome collects per-image results
type Outcome struct {
	Results []models.FileResult

	// Err is set when the batch was interrupted by the context
	Err error
}

// Resizer decodes, resamples and re-encodes images one at a time
type Resizer struct {
	backend    storage.Backend
	decoder    imaging.Decoder
	interp     nfnt.InterpolationFunction
	opts       Options
	logger     logging.Logger
	onProgress ProgressFunc
}

// New creates a resizer. A nil decoder selects the standard PNG/JPEG codecs.
func New(backend storage.Backend, decoder imaging.Decoder, opts Options) (*Resizer, error) {
	if opts.Interpolation == "" {
		opts.Interpolation = "bilinear"
	}
	interp, err := imaging.ParseInterpolation(opts.Interpolation)
	if err != nil {
		return nil, &models.ConfigError{Field: "interpolation", Message: err.Error()}
	}
	if decoder == nil {
		decoder = imaging.NewStdDecoder()
	}

	return &Resizer{
		backend: backend,
		decoder: decoder,
		interp:  interp,
		opts:    opts,
		logger:  logging.OrNull(opts.Logger),
	}, nil
}

// OnProgress registers a callback invoked once per image
func (r *Resizer) OnProgress(fn ProgressFunc) {
	r.onProgress = fn
}

// ResizeInPlace rewrites every image at the target size in the format its
// extension names. A failing image is recorded and the batch moves on.
func (r *Resizer) ResizeInPlace(ctx context.Context, images []models.ImageFile, target Target) Outcome {
	var out Outcome
	bounds := target

	for i, img := range images {
		if err := ctx.Err(); err != nil {
			out.Err = err
			return out
		}

		start := time.Now()
		res := models.FileResult{File: img, Action: models.ActionResize}

		w, h, written, err := r.resizeOne(ctx, img, bounds)
		res.Width, res.Height, res.BytesWritten = w, h, written
		res.Err = err
		if r.opts.DryRun && err == nil {
			res.Action = models.ActionSkip
		}
		res.Duration = time.Since(start)
		out.Results = append(out.Results, res)

		if err != nil {
			r.logger.Error(ctx, "Could not resize image", err, logging.Fields{"path": img.Path})
		} else {
			r.logger.Info(ctx, "Resized", logging.Fields{
				"path":    img.Path,
				"width":   w,
				"height":  h,
				"dry_run": r.opts.DryRun,
			})
			if r.opts.ChainDimensions && target.PreserveAspect {
				bounds.Width, bounds.Height = w, h
			}
		}

		if r.onProgress != nil {
			r.onProgress(i+1, len(images), res)
		}
	}

	return out
}

func (r *Resizer) resizeOne(ctx context.Context, img models.ImageFile, target Target) (int, int, int64, error) {
	format, err := imaging.FormatFromPath(img.Path)
	if err != nil {
		return 0, 0, 0, err
	}

	src, err := r.decode(ctx, img.Path)
	if err != nil {
		return 0, 0, 0, err
	}

	w, h := target.Width, target.Height
	if target.PreserveAspect {
		b := src.Bounds()
		w, h = imaging.FitWithin(b.Dx(), b.Dy(), target.Width, target.Height)
	}

	if r.opts.DryRun {
		return w, h, 0, nil
	}

	dst := imaging.Resample(src, w, h, r.interp)
	written, err := r.backend.WriteAtomic(ctx, img.Path, func(wr io.Writer) error {
		return imaging.Encode(wr, dst, format, r.opts.Encode)
	})
	if err != nil {
		return w, h, 0, fmt.Errorf("failed to write %s: %w", img.Path, err)
	}

	return w, h, written, nil
}

func (r *Resizer) decode(ctx context.Context, path string) (image.Image, error) {
	f, err := r.backend.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := r.decoder.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if m == nil || m.Bounds().Empty() {
		return nil, fmt.Errorf("failed to decode %s: no image", path)
	}
	return m, nil
}
