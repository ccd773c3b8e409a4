package ports

import "context"

// ImageScanner extracts embedded image source URLs from an HTML fragment,
// in document order.
type ImageScanner interface {
	ImageSources(body string) ([]string, error)
}

// Downloader fetches a remote URL into a local file.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}
