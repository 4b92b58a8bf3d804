package dataset

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Source returns the raw bytes of a named CSV file.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// HTTPSource reads files relative to a base URL.
type HTTPSource struct {
	client *resty.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration, retries int) *HTTPSource {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(timeout)
	client.SetRetryCount(retries)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.SetHeader("Accept", "text/csv, text/plain")
	return &HTTPSource{client: client}
}

func (s *HTTPSource) Read(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get("/" + name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", name, resp.StatusCode())
	}
	return resp.Body(), nil
}

// FSSource reads files from a filesystem, usually a local data directory.
type FSSource struct {
	fsys fs.FS
}

func NewDirSource(dir string) *FSSource {
	return &FSSource{fsys: os.DirFS(dir)}
}

func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

func (s *FSSource) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}
