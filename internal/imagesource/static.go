package imagesource

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Zachkp/memory-wall/internal/gallery"
)

// DefaultURLPrefix is where the site serves the static art directory.
const DefaultURLPrefix = "/art"

// Static lists images from a JSON file on disk, normally art/images.json.
type Static struct {
	Path      string
	URLPrefix string
	logger    *slog.Logger
}

// NewStatic creates a Static source. An empty prefix means DefaultURLPrefix.
func NewStatic(path, urlPrefix string, logger *slog.Logger) *Static {
	if urlPrefix == "" {
		urlPrefix = DefaultURLPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Static{
		Path:      path,
		URLPrefix: urlPrefix,
		logger:    logger,
	}
}

// Images reads the listing file.
func (s *Static) Images(ctx context.Context) ([]gallery.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image listing: %w", err)
	}
	defer f.Close()

	s.logger.Debug("reading image listing", "path", s.Path)

	filenames, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return toImages(filenames, s.URL), nil
}

// URL returns the display URL for filename.
func (s *Static) URL(filename string) string {
	return joinURL(s.URLPrefix, filename)
}
