// Package classify decides which catalogued images are corrupt.
package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sdejongh/imgsweep/pkg/imaging"
	"github.com/sdejongh/imgsweep/pkg/logging"
	"github.com/sdejongh/imgsweep/pkg/models"
	"github.com/sdejongh/imgsweep/pkg/storage"
)

// ErrNotImplemented is returned by the likely-corrupt heuristic, which does not exist yet
var ErrNotImplemented = errors.New("likely-corrupt detection is not implemented")

// ProgressFunc is called after each file is classified
type ProgressFunc func(done, total int, path string)

// Classifier sorts images into decodable and corrupt by fully decoding each one
type Classifier struct {
	backend    storage.Backend
	decoder    imaging.Decoder
	logger     logging.Logger
	onProgress ProgressFunc
}

// New creates a classifier. A nil decoder selects the standard PNG/JPEG codecs.
func New(backend storage.Backend, decoder imaging.Decoder, logger logging.Logger) *Classifier {
	if decoder == nil {
		decoder = imaging.NewStdDecoder()
	}
	return &Classifier{
		backend: backend,
		decoder: decoder,
		logger:  logging.OrNull(logger),
	}
}

// OnProgress registers a callback invoked once per classified file
func (c *Classifier) OnProgress(fn ProgressFunc) {
	c.onProgress = fn
}

// Classify partitions pending into images that decode and images that do not.
// Both slices keep the input order. Decode and read failures are what mark an
// image corrupt, so they are logged rather than returned; the only error is
// the context's, in which case the unvisited tail stays in still.
func (c *Classifier) Classify(ctx context.Context, pending []models.ImageFile) (still, corrupt []models.ImageFile, err error) {
	still = make([]models.ImageFile, 0, len(pending))

	for i, img := range pending {
		if err := ctx.Err(); err != nil {
			still = append(still, pending[i:]...)
			return still, corrupt, err
		}

		if reason := c.check(ctx, img); reason != nil {
			c.logger.Info(ctx, "Corrupt image", logging.Fields{
				"path":   img.Path,
				"reason": reason.Error(),
			})
			corrupt = append(corrupt, img)
		} else {
			still = append(still, img)
		}

		if c.onProgress != nil {
			c.onProgress(i+1, len(pending), img.Path)
		}
	}

	return still, corrupt, nil
}

// ClassifyLikelyCorrupt is the hook for a visual heuristic (grey bands,
// partially rendered images). It changes nothing.
func (c *Classifier) ClassifyLikelyCorrupt(ctx context.Context, pending []models.ImageFile) (still, likely []models.ImageFile, err error) {
	return pending, nil, ErrNotImplemented
}

// check returns why img cannot be used, or nil when it decodes fully
func (c *Classifier) check(ctx context.Context, img models.ImageFile) error {
	r, err := c.backend.Open(ctx, img.Path)
	if err != nil {
		return err
	}
	defer r.Close()

	m, format, err := c.decoder.Decode(r)
	if err != nil {
		c.logger.Debug(ctx, "Decode failed", logging.Fields{
			"path":    img.Path,
			"content": string(format),
			"error":   err.Error(),
		})
		return err
	}
	if m == nil {
		return errors.New("decoder returned no image")
	}
	if b := m.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("image has empty bounds %v", b)
	}

	return nil
}
