// Package gallery holds the Memory Wall image list and the paginated,
// selectable view derived from it.
package gallery

import (
	"context"
	"log/slog"
	"sync"
)

// PageSize is the number of images shown on one page of the wall.
const PageSize = 10

// Image is one displayable artwork.
type Image struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Source produces the display images for the wall.
type Source interface {
	Images(ctx context.Context) ([]Image, error)
}

// Gallery is the process-wide image list. It is fetched once and is
// read-only afterwards.
type Gallery struct {
	source Source
	logger *slog.Logger

	once sync.Once
	done chan struct{}

	mu      sync.RWMutex
	images  []Image
	loading bool
}

// New creates a Gallery in the loading state. Call Load to fetch the images.
func New(source Source, logger *slog.Logger) *Gallery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gallery{
		source:  source,
		logger:  logger,
		done:    make(chan struct{}),
		loading: true,
	}
}

// Load reads the image list from the source. Only the first call does any
// work. Any failure is logged and leaves the gallery empty; there is no retry.
func (g *Gallery) Load(ctx context.Context) {
	g.once.Do(func() {
		defer close(g.done)

		images, err := g.source.Images(ctx)
		if err != nil {
			g.logger.Error("failed to load images", "error", err)
			images = nil
		}

		g.mu.Lock()
		g.images = images
		g.loading = false
		g.mu.Unlock()

		g.logger.Info("gallery loaded", "images", len(images))
	})
}

// Done is closed once Load has finished.
func (g *Gallery) Done() <-chan struct{} {
	return g.done
}

// Loading reports whether the initial fetch is still in flight.
func (g *Gallery) Loading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading
}

// Len returns the number of loaded images.
func (g *Gallery) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.images)
}

// State returns a fresh view of the gallery on page 1 with nothing selected.
func (g *Gallery) State() *State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return NewState(g.images, g.loading)
}
