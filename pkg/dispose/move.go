package dispose

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sdejongh/imgsweep/pkg/logging"
	"github.com/sdejongh/imgsweep/pkg/models"
	"github.com/sdejongh/imgsweep/pkg/storage"
)

// maxRenameAttempts bounds the search for a free "name (n).ext"
const maxRenameAttempts = 10000

// MoveOptions configures a move strategy
type MoveOptions struct {
	OnCollision     models.CollisionPolicy
	ContinueOnError bool
	Logger          logging.Logger
}

// MoveStrategy relocates files into a destination folder, keeping base names
type MoveStrategy struct {
	backend         storage.Backend
	dest            string
	onCollision     models.CollisionPolicy
	continueOnError bool
	logger          logging.Logger
	prepared        bool
}

// NewMove creates a move strategy targeting dest
func NewMove(backend storage.Backend, dest string, opts MoveOptions) *MoveStrategy {
	policy := opts.OnCollision
	if policy == "" {
		policy = models.CollisionFail
	}
	return &MoveStrategy{
		backend:         backend,
		dest:            dest,
		onCollision:     policy,
		continueOnError: opts.ContinueOnError,
		logger:          logging.OrNull(opts.Logger),
	}
}

// Name returns the strategy name
func (s *MoveStrategy) Name() string {
	return "move"
}

// Dest returns the destination folder
func (s *MoveStrategy) Dest() string {
	return s.dest
}

// Prepare makes sure the destination is a directory, creating it and its
// parents when absent. A destination that exists as a file is a
// configuration error.
func (s *MoveStrategy) Prepare(ctx context.Context) error {
	if s.prepared {
		return nil
	}

	info, err := s.backend.Stat(ctx, s.dest)
	switch {
	case err == nil && !info.IsDir:
		return &models.ConfigError{
			Field:   "move",
			Message: fmt.Sprintf("specified path %s is not a directory", s.dest),
		}
	case err == nil:
		// already a directory
	case errors.Is(err, os.ErrNotExist):
		if err := s.backend.MkdirAll(ctx, s.dest); err != nil {
			return &models.ConfigError{
				Field:   "move",
				Message: fmt.Sprintf("cannot create %s: %v", s.dest, err),
			}
		}
	default:
		return fmt.Errorf("failed to check move destination: %w", err)
	}

	s.prepared = true
	return nil
}

// Dispose moves files in order. The first failure ends the batch unless
// ContinueOnError was set; files after it are left where they are.
func (s *MoveStrategy) Dispose(ctx context.Context, files []models.ImageFile) Outcome {
	var out Outcome

	if err := s.Prepare(ctx); err != nil {
		out.Err = err
		return out
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			out.Err = err
			return out
		}

		start := time.Now()
		target, err := s.moveOne(ctx, file)
		out.Results = append(out.Results, result(file, models.ActionMove, target, start, err))

		if err != nil {
			s.logger.Error(ctx, "Could not move file", err, logging.Fields{
				"path": file.Path,
				"dest": target,
			})
			if !s.continueOnError {
				out.Stopped = true
				return out
			}
			continue
		}

		s.logger.Info(ctx, "Moved", logging.Fields{"path": file.Path, "dest": target})
	}

	return out
}

func (s *MoveStrategy) moveOne(ctx context.Context, file models.ImageFile) (string, error) {
	name := file.Name
	if name == "" {
		name = filepath.Base(file.Path)
	}
	target := filepath.Join(s.dest, name)

	switch s.onCollision {
	case models.CollisionOverwrite:
		return target, s.backend.Move(ctx, file.Path, target, true)
	case models.CollisionRename:
		free, err := freeName(ctx, s.backend, target)
		if err != nil {
			return target, err
		}
		return free, s.backend.Move(ctx, file.Path, free, false)
	default:
		return target, s.backend.Move(ctx, file.Path, target, false)
	}
}

// freeName returns target, or the first "base (n).ext" variant that does not exist
func freeName(ctx context.Context, backend storage.Backend, target string) (string, error) {
	exists, err := backend.Exists(ctx, target)
	if err != nil || !exists {
		return target, err
	}

	dir, name := filepath.Split(target)
	base, ext := name, ""
	if idx := strings.LastIndexByte(name, '.'); idx > 0 {
		base, ext = name[:idx], name[idx:]
	}

	for n := 1; n <= maxRenameAttempts; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, ext))
		exists, err := backend.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no free name for %s after %d attempts", target, maxRenameAttempts)
}
