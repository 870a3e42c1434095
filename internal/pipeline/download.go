package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrDownloadFailed is returned when an artifact fetch gets a non-success
// HTTP status.
var ErrDownloadFailed = errors.New("pipeline: download failed")

// Downloader fetches artifacts over HTTP and writes them to disk.
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a Downloader. A nil client gets a default with a
// generous timeout; demo videos can be tens of megabytes.
func NewDownloader(c *http.Client) *Downloader {
	if c == nil {
		c = &http.Client{Timeout: 10 * time.Minute}
	}
	return &Downloader{httpClient: c}
}

// Download fetches url and writes the body to destPath, replacing any
// existing file. The write goes through a temp file in the destination
// directory and a rename, so destPath only ever holds a fully written
// artifact. Returns the number of bytes written.
func (d *Downloader) Download(ctx context.Context, url, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("pipeline: create download request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("pipeline: download request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %d %s", ErrDownloadFailed, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+"_*")
	if err != nil {
		return 0, fmt.Errorf("pipeline: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("pipeline: write artifact: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("pipeline: close artifact: %w", err)
	}

	if err := os.Rename(tmpName, destPath); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("pipeline: place artifact: %w", err)
	}

	return n, nil
}
