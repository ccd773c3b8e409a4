package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"WpJekyllExport/internal/ports"
)

// HTTPDownloader saves remote files to disk.
type HTTPDownloader struct {
	client *http.Client
}

var _ ports.Downloader = (*HTTPDownloader)(nil)

// New wires an HTTP client; a nil client gets a 30s timeout default.
func New(client *http.Client) *HTTPDownloader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPDownloader{client: client}
}

// Download fetches url into the file at dest. No retries are performed.
func (d *HTTPDownloader) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "wpjekyllexport/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: %s", url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return nil
}
