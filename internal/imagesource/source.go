// Package imagesource reads the artwork listing for the gallery, either from
// a remote image API or from a static JSON file.
package imagesource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Zachkp/memory-wall/internal/gallery"
)

// ErrMalformedPayload is returned when the listing parses as JSON but is not
// an array.
var ErrMalformedPayload = errors.New("invalid image data")

// Kind selects the image source implementation.
type Kind string

const (
	KindAPI    Kind = "api"
	KindStatic Kind = "static"
)

// Config describes which source to build.
type Config struct {
	Kind       Kind
	BaseURL    string // api: server root, images listed at {BaseURL}/images
	StaticPath string // static: JSON listing on disk
	URLPrefix  string // static: prefix for display URLs
	Client     *http.Client
}

// New creates the gallery source for cfg.
func New(cfg Config, logger *slog.Logger) (gallery.Source, error) {
	switch cfg.Kind {
	case KindAPI:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("base URL is required for the %s image source", cfg.Kind)
		}
		return NewAPI(cfg.BaseURL, cfg.Client, logger), nil

	case KindStatic:
		if cfg.StaticPath == "" {
			return nil, fmt.Errorf("static path is required for the %s image source", cfg.Kind)
		}
		return NewStatic(cfg.StaticPath, cfg.URLPrefix, logger), nil

	default:
		return nil, fmt.Errorf("unknown image source: %q", cfg.Kind)
	}
}

// entry accepts either a bare filename or an object with a filename field.
type entry struct {
	Filename string `json:"filename"`
}

func (e *entry) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		e.Filename = name
		return nil
	}

	type plain entry
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		// Numbers, nulls and arrays carry no filename.
		e.Filename = ""
		return nil
	}
	*e = entry(obj)
	return nil
}

// Decode reads a JSON listing and returns the filenames in response order.
// Entries without a filename are skipped.
func Decode(r io.Reader) ([]string, error) {
	dec := json.NewDecoder(r)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse image listing: %w", err)
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after image listing")
		}
		return nil, fmt.Errorf("failed to parse image listing: %w", err)
	}

	if !isArray(raw) {
		return nil, ErrMalformedPayload
	}

	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse image listing: %w", err)
	}

	filenames := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Filename)
		if name == "" {
			continue
		}
		filenames = append(filenames, name)
	}
	return filenames, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

// joinURL builds {base}/{filename} without doubling the slash.
func joinURL(base, filename string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(filename, "/")
}

func toImages(filenames []string, url func(string) string) []gallery.Image {
	images := make([]gallery.Image, len(filenames))
	for i, name := range filenames {
		images[i] = gallery.Image{Filename: name, URL: url(name)}
	}
	return images
}
