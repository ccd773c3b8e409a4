package jekyll

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"WpJekyllExport/internal/convert"
	"WpJekyllExport/internal/domain"
	"WpJekyllExport/internal/ports"
	"WpJekyllExport/internal/resolve"
)

// frontMatterDateFormat is the Jekyll-style date scalar. The rendered value
// does not match any implicit YAML timestamp form, so yaml.v3 emits it as a
// plain unquoted string.
const frontMatterDateFormat = "2006-01-02 15:04:05 -0700"

// Writer emits resolved items as front-matter files and downloads their
// embedded images. One writer serves one export document.
type Writer struct {
	blogDir    string
	base       *url.URL
	dateFormat string
	converter  convert.Converter
	downloads  bool
	downloader ports.Downloader
	registry   *resolve.AttachmentRegistry
	logger     *slog.Logger
}

// Config wires everything a writer needs for one export.
type Config struct {
	BlogDir    string
	BaseLink   string
	DateFormat string
	Converter  convert.Converter
	Downloads  bool
	Downloader ports.Downloader
	Registry   *resolve.AttachmentRegistry
	Logger     *slog.Logger
}

// NewWriter builds an emitter for one export document.
func NewWriter(cfg Config) *Writer {
	base, err := url.Parse(cfg.BaseLink)
	if err != nil {
		base = nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		blogDir:    cfg.BlogDir,
		base:       base,
		dateFormat: cfg.DateFormat,
		converter:  cfg.Converter,
		downloads:  cfg.Downloads,
		downloader: cfg.Downloader,
		registry:   cfg.Registry,
		logger:     logger,
	}
}

// Write serializes the item's front matter, taxonomy block, and converted
// body to its resolved path. A body conversion failure is logged and leaves
// a front-matter-only file; only the file write itself is an error.
func (w *Writer) Write(item *domain.Item, taxonomies map[string][]string) error {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	head, err := yaml.Marshal(w.frontMatter(item))
	if err != nil {
		return fmt.Errorf("marshal front matter for %q: %w", item.Title, err)
	}
	buf.Write(head)

	if len(taxonomies) > 0 {
		block, err := yaml.Marshal(taxonomies)
		if err != nil {
			return fmt.Errorf("marshal taxonomies for %q: %w", item.Title, err)
		}
		buf.Write(block)
	}

	buf.WriteString("---\n\n")

	body, err := w.converter.Convert(item.Body)
	if err != nil {
		w.logger.Error("parse error on item body", "title", item.Title, "error", err)
	} else {
		buf.WriteString(body)
	}

	if err := os.WriteFile(item.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", item.Path, err)
	}
	return nil
}

// DownloadImages fetches every discovered image source into
// images/<item-uid>/, resolving filenames through the attachment registry.
// Failed downloads are logged and skipped.
func (w *Writer) DownloadImages(ctx context.Context, item *domain.Item) {
	if !w.downloads || w.downloader == nil {
		return
	}

	for _, src := range item.ImageSources {
		target, err := w.attachmentPath(item.UID, src)
		if err != nil {
			w.logger.Warn("cannot place attachment", "source", src, "error", err)
			continue
		}
		remote := w.resolveURL(src)
		if err := w.downloader.Download(ctx, remote, target); err != nil {
			w.logger.Warn("unable to download image", "source", remote, "target", target, "error", err)
		}
	}
}

func (w *Writer) attachmentPath(dir, src string) (string, error) {
	name := w.registry.Filename(dir, src)
	targetDir := filepath.Join(w.blogDir, "images", dir)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", targetDir, err)
	}
	return filepath.Join(targetDir, name), nil
}

func (w *Writer) resolveURL(src string) string {
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil || w.base == nil {
		return src
	}
	return w.base.ResolveReference(ref).String()
}

func (w *Writer) frontMatter(item *domain.Item) map[string]any {
	meta := map[string]any{
		"title":        item.Title,
		"permalink":    permalink(item.Link),
		"author":       item.Author,
		"date":         w.itemDate(item).Format(frontMatterDateFormat),
		"slug":         item.Slug,
		"wordpress_id": w.wordpressID(item),
		"comments":     item.CommentsEnabled,
	}
	if item.Excerpt != "" {
		meta["excerpt"] = item.Excerpt
	}
	if item.Status != domain.StatusPublish {
		meta["published"] = false
	}

	switch item.Type {
	case domain.TypePost:
		meta["layout"] = "post"
	case domain.TypePage:
		meta["layout"] = "page"
	case domain.TypeAttachment:
		meta["layout"] = "post"
		meta["attachment_url"] = item.AttachmentURL
		// An inherited attachment follows its parent; assume published.
		if item.Status == domain.StatusInherit {
			delete(meta, "published")
		}
	}
	return meta
}

func (w *Writer) itemDate(item *domain.Item) time.Time {
	t, err := time.Parse(w.dateFormat, item.Date)
	if err != nil {
		w.logger.Warn("wrong date in item", "title", item.Title)
		return time.Now().UTC()
	}
	return t.UTC()
}

func (w *Writer) wordpressID(item *domain.Item) int {
	id, err := strconv.Atoi(item.WpID)
	if err != nil {
		w.logger.Warn("non-numeric wp_id", "title", item.Title, "wp_id", item.WpID)
		return 0
	}
	return id
}

// permalink rewrites query-style permalinks (?p=N) to archives/N and keeps
// only the path component.
func permalink(link string) string {
	rewritten := strings.ReplaceAll(link, "?p=", "archives/")
	u, err := url.Parse(rewritten)
	if err != nil {
		return rewritten
	}
	return u.Path
}
