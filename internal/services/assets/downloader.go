// Package assets downloads park images to local disk.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/parkguide/internal/interfaces"
)

// DownloadError reports the first image that could not be saved
type DownloadError struct {
	URL  string
	Path string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s to %s: %v", e.URL, e.Path, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Downloader fetches images sequentially and writes the exact response bytes
type Downloader struct {
	dir        string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

var _ interfaces.AssetDownloader = (*Downloader)(nil)

// Option configures the Downloader
type Option func(*Downloader)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(d *Downloader) {
		d.httpClient = httpClient
	}
}

func WithUserAgent(userAgent string) Option {
	return func(d *Downloader) {
		d.userAgent = userAgent
	}
}

// WithLimiter shares the API client's rate limiter
func WithLimiter(limiter *rate.Limiter) Option {
	return func(d *Downloader) {
		d.limiter = limiter
	}
}

func WithLogger(logger arbor.ILogger) Option {
	return func(d *Downloader) {
		d.logger = logger
	}
}

// NewDownloader creates a downloader writing into dir
func NewDownloader(dir string, opts ...Option) *Downloader {
	d := &Downloader{
		dir:        dir,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = arbor.NewNoOpLogger()
	}
	return d
}

// Download saves urls in order as {dir}/{name}_{index}.jpg and returns the written
// paths. Existing files are truncated. The first failure stops the download.
func (d *Downloader) Download(ctx context.Context, urls []string, name string) ([]string, error) {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory %s: %w", d.dir, err)
	}

	paths := make([]string, 0, len(urls))
	for i, u := range urls {
		path := ImagePath(d.dir, name, i)
		if err := d.fetch(ctx, u, path); err != nil {
			return paths, &DownloadError{URL: u, Path: path, Err: err}
		}
		paths = append(paths, path)
	}

	d.logger.Debug().
		Str("park", name).
		Int("images", len(paths)).
		Msg("Park images downloaded")
	return paths, nil
}

func (d *Downloader) fetch(ctx context.Context, url, path string) error {
	if strings.TrimSpace(url) == "" {
		return errors.New("empty image url")
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	// Peek at the head of the body for sniffing while the whole body goes to disk
	head := &headBuffer{limit: 3072}
	_, copyErr := io.Copy(out, io.TeeReader(resp.Body, head))
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("failed to write file: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	mtype := mimetype.Detect(head.buf)
	if !strings.HasPrefix(mtype.String(), "image/") {
		d.logger.Warn().
			Str("url", url).
			Str("path", path).
			Str("content_type", mtype.String()).
			Msg("Downloaded file is not an image")
	}
	return nil
}

// headBuffer keeps the first limit bytes written to it
type headBuffer struct {
	buf   []byte
	limit int
}

func (h *headBuffer) Write(p []byte) (int, error) {
	if room := h.limit - len(h.buf); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		h.buf = append(h.buf, p[:room]...)
	}
	return len(p), nil
}
