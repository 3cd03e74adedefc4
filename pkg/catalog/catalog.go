// Package catalog finds the image files under a directory tree.
package catalog

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sdejongh/imgsweep/internal/platform"
	"github.com/sdejongh/imgsweep/pkg/imaging"
	"github.com/sdejongh/imgsweep/pkg/logging"
	"github.com/sdejongh/imgsweep/pkg/models"
	"github.com/sdejongh/imgsweep/pkg/storage"
)

// Options configures a catalog scan
type Options struct {
	// Exclude holds glob patterns matched against paths relative to the root
	Exclude []string
	Logger  logging.Logger
}

// ListImages walks root depth-first and returns every non-directory entry
// whose extension is png, jpg or jpeg (any case). Subdirectories are expanded
// in place, so their images precede the entries listed after them. Order
// within a directory is the backend's listing order.
//
// Directories that cannot be listed are skipped with a warning. Symlinks to
// directories are never descended. The only error returned is the context's.
func ListImages(ctx context.Context, backend storage.Backend, root string, opts Options) ([]models.ImageFile, error) {
	s := &scanner{
		backend: backend,
		exclude: opts.Exclude,
		logger:  logging.OrNull(opts.Logger),
		images:  make([]models.ImageFile, 0, 64),
	}

	if err := s.walk(ctx, root, ""); err != nil {
		return nil, err
	}

	return s.images, nil
}

type scanner struct {
	backend storage.Backend
	exclude []string
	logger  logging.Logger
	images  []models.ImageFile
}

func (s *scanner) walk(ctx context.Context, dir, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := s.backend.ReadDir(ctx, dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.logger.Warn(ctx, "Skipping unreadable directory", logging.Fields{
			"path":  dir,
			"error": err.Error(),
		})
		return nil
	}

	for _, entry := range entries {
		entryRel := entry.Name
		if rel != "" {
			entryRel = filepath.Join(rel, entry.Name)
		}

		if shouldExclude(entryRel, s.exclude) {
			s.logger.Debug(ctx, "Excluded", logging.Fields{"path": entry.Path})
			continue
		}

		if entry.IsDir {
			if err := s.walk(ctx, entry.Path, entryRel); err != nil {
				return err
			}
			continue
		}

		if entry.IsSymlink && s.linksToDir(ctx, entry.Path) {
			continue
		}

		ext, ok := platform.Ext(entry.Name)
		if !ok || !imaging.IsImageExt(ext) {
			continue
		}

		s.images = append(s.images, models.ImageFile{
			Path:         entry.Path,
			RelativePath: entryRel,
			Name:         entry.Name,
			Ext:          strings.ToLower(ext),
			Size:         entry.Size,
			ModTime:      entry.ModTime,
		})
	}

	return nil
}

// linksToDir reports whether a symlink resolves to a directory. Dangling
// links are kept as candidates; they will fail to decode.
func (s *scanner) linksToDir(ctx context.Context, path string) bool {
	info, err := s.backend.Stat(ctx, path)
	return err == nil && info.IsDir
}
