package imagesource

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Zachkp/memory-wall/internal/gallery"
)

// API lists images from a remote server. The listing lives at
// {BaseURL}/images and the files are served from {BaseURL}/uploads.
type API struct {
	BaseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewAPI creates an API source. A nil client means http.DefaultClient.
func NewAPI(baseURL string, client *http.Client, logger *slog.Logger) *API {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		BaseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// Images fetches the listing once.
func (a *API) Images(ctx context.Context) ([]gallery.Image, error) {
	endpoint := joinURL(a.BaseURL, "images")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	a.logger.Debug("fetching image listing", "url", endpoint)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch images: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch images: %s returned %s", endpoint, resp.Status)
	}

	filenames, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	return toImages(filenames, a.URL), nil
}

// URL returns the display URL for filename.
func (a *API) URL(filename string) string {
	return joinURL(joinURL(a.BaseURL, "uploads"), filename)
}
