package dispose

import (
	"context"
	"time"

	"github.com/sdejongh/imgsweep/pkg/logging"
	"github.com/sdejongh/imgsweep/pkg/models"
	"github.com/sdejongh/imgsweep/pkg/storage"
)

// DeleteStrategy removes files. It is best effort: a file that cannot be
// removed is logged and recorded, and the batch carries on.
type DeleteStrategy struct {
	backend storage.Backend
	logger  logging.Logger
}

// NewDelete creates a delete strategy
func NewDelete(backend storage.Backend, logger logging.Logger) *DeleteStrategy {
	return &DeleteStrategy{backend: backend, logger: logging.OrNull(logger)}
}

// Name returns the strategy name
func (s *DeleteStrategy) Name() string {
	return "delete"
}

// Dispose deletes every file, ignoring individual failures
func (s *DeleteStrategy) Dispose(ctx context.Context, files []models.ImageFile) Outcome {
	var out Outcome

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			out.Err = err
			return out
		}

		start := time.Now()
		err := s.backend.Remove(ctx, file.Path)
		if err != nil {
			s.logger.Warn(ctx, "Could not delete file", logging.Fields{
				"path":  file.Path,
				"error": err.Error(),
			})
		} else {
			s.logger.Info(ctx, "Deleted", logging.Fields{"path": file.Path})
		}

		out.Results = append(out.Results, result(file, models.ActionDelete, "", start, err))
	}

	return out
}
