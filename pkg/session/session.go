// Package session binds a root directory to the images found under it and
// runs the remove and compress tools over them.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/sdejongh/imgsweep/internal/platform"
	"github.com/sdejongh/imgsweep/pkg/catalog"
	"github.com/sdejongh/imgsweep/pkg/imaging"
	"github.com/sdejongh/imgsweep/pkg/logging"
	"github.com/sdejongh/imgsweep/pkg/models"
	"github.com/sdejongh/imgsweep/pkg/output"
	"github.com/sdejongh/imgsweep/pkg/storage"
)

// Options configures a session
type Options struct {
	// Exclude holds glob patterns matched against paths relative to the root
	Exclude []string

	// Decoder overrides the standard PNG/JPEG decoder
	Decoder imaging.Decoder

	Logger    logging.Logger
	Formatter output.Formatter
}

// Session holds the images catalogued under one root and the collections
// they move through. Images only ever leave pending; a path is in at most one
// collection. The tree is scanned once, when the session is opened.
// A Session is not safe for concurrent use.
type Session struct {
	ID string

	root      string
	backend   storage.Backend
	decoder   imaging.Decoder
	logger    logging.Logger
	formatter output.Formatter

	pending       []models.ImageFile
	corrupt       []models.ImageFile
	likelyCorrupt []models.ImageFile
}

// Open validates root and catalogues the images under it.
//
// It fails with models.ErrFolderNotFound when root does not exist, and with a
// *models.ConfigError when root is not a directory, cannot be listed, or is
// empty.
func Open(ctx context.Context, backend storage.Backend, root string, opts Options) (*Session, error) {
	root = platform.NormalizePath(root)

	info, err := backend.Stat(ctx, root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", root, models.ErrFolderNotFound)
		}
		return nil, &models.ConfigError{Message: fmt.Sprintf("cannot access %s: %v", root, err)}
	}
	if !info.IsDir {
		return nil, &models.ConfigError{Message: fmt.Sprintf("specified path %s is not a directory", root)}
	}

	entries, err := backend.ReadDir(ctx, root)
	if err != nil {
		return nil, &models.ConfigError{Message: fmt.Sprintf("cannot list %s: %v", root, err)}
	}
	if len(entries) == 0 {
		return nil, &models.ConfigError{Message: fmt.Sprintf("specified directory %s is empty", root)}
	}

	if err := catalog.ValidatePatterns(opts.Exclude); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	logger := logging.OrNull(opts.Logger).WithFields(logging.Fields{"session": id})

	images, err := catalog.ListImages(ctx, backend, root, catalog.Options{
		Exclude: opts.Exclude,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	decoder := opts.Decoder
	if decoder == nil {
		decoder = imaging.NewStdDecoder()
	}

	logger.Info(ctx, "Session opened", logging.Fields{
		"root":   root,
		"images": len(images),
	})

	return &Session{
		ID:        id,
		root:      root,
		backend:   backend,
		decoder:   decoder,
		logger:    logger,
		formatter: opts.Formatter,
		pending:   images,
	}, nil
}

// Root returns the directory the session was opened on
func (s *Session) Root() string {
	return s.root
}

// Pending returns the images not classified as corrupt
func (s *Session) Pending() []models.ImageFile {
	return clone(s.pending)
}

// Corrupt returns the images that failed to decode and were not disposed of
func (s *Session) Corrupt() []models.ImageFile {
	return clone(s.corrupt)
}

// LikelyCorrupt returns the images flagged by the likely-corrupt heuristic
func (s *Session) LikelyCorrupt() []models.ImageFile {
	return clone(s.likelyCorrupt)
}

// Close releases the session's logger fields
func (s *Session) Close() error {
	return s.logger.Close()
}

func (s *Session) progress(update output.ProgressUpdate) {
	if s.formatter == nil {
		return
	}
	if err := s.formatter.Progress(update); err != nil {
		s.logger.Debug(context.Background(), "Formatter progress failed", logging.Fields{"error": err.Error()})
	}
}

func clone(files []models.ImageFile) []models.ImageFile {
	if files == nil {
		return nil
	}
	return append([]models.ImageFile(nil), files...)
}

// without returns files minus any whose path is in drop, keeping order
func without(files, drop []models.ImageFile) []models.ImageFile {
	if len(drop) == 0 {
		return files
	}
	gone := make(map[string]struct{}, len(drop))
	for _, f := range drop {
		gone[f.Path] = struct{}{}
	}
	kept := files[:0:0]
	for _, f := range files {
		if _, ok := gone[f.Path]; !ok {
			kept = append(kept, f)
		}
	}
	return kept
}
