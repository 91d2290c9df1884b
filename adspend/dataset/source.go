package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrUnexpectedStatus is returned when a remote dataset responds with a non 2xx status
var ErrUnexpectedStatus = errors.New("unexpected status code fetching dataset")

const maxDocumentSize = 64 << 20

// Source provides the raw bytes of a dataset document
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// FileSource reads the dataset from a local file
type FileSource struct {
	path string
}

// NewFileSource constructs a source backed by a local file
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the whole file
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("error reading dataset file: %w", err)
	}
	return raw, nil
}

// Name returns the path of the file
func (s *FileSource) Name() string { return s.path }

// Path returns the file being read, used by the file watcher
func (s *FileSource) Path() string { return s.path }

// HTTPSource downloads the dataset from an http(s) url
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource constructs a source that GETs url with the supplied timeout
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{url: url, client: &http.Client{Timeout: timeout}}
}

// Fetch performs the request and returns the body
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building dataset request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("error reading dataset response: %w", err)
	}
	return raw, nil
}

// Name returns the url
func (s *HTTPSource) Name() string { return s.url }

// NewSource picks the source implementation based on the location's scheme
func NewSource(location string, timeout time.Duration) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, timeout)
	}
	return NewFileSource(strings.TrimPrefix(location, "file://"))
}

var _ Source = (*FileSource)(nil)
var _ Source = (*HTTPSource)(nil)
