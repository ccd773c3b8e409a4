package jekyll

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"WpJekyllExport/internal/convert"
	"WpJekyllExport/internal/domain"
	"WpJekyllExport/internal/resolve"
)

const dateFmt = "2006-01-02 15:04:05"

type failingConverter struct{}

func (failingConverter) Name() string { return "broken" }
func (failingConverter) Convert(string) (string, error) {
	return "", errors.New("conversion failed")
}

type recordingDownloader struct {
	calls []string
}

func (d *recordingDownloader) Download(_ context.Context, url, dest string) error {
	d.calls = append(d.calls, url)
	return os.WriteFile(dest, []byte("data"), 0o644)
}

func newWriter(t *testing.T, converter convert.Converter) (*Writer, string) {
	t.Helper()
	blogDir := t.TempDir()
	w := NewWriter(Config{
		BlogDir:    blogDir,
		BaseLink:   "https://example.com",
		DateFormat: dateFmt,
		Converter:  converter,
		Registry:   resolve.NewAttachmentRegistry(),
	})
	return w, blogDir
}

func postItem(blogDir string) *domain.Item {
	return &domain.Item{
		WpID:            "1",
		Type:            domain.TypePost,
		Status:          domain.StatusPublish,
		Title:           "Hello World",
		Link:            "https://example.com/?p=1",
		Slug:            "hello-world",
		Author:          "alice",
		Date:            "2020-01-02 03:04:05",
		Body:            "<p>Hi there</p>",
		CommentsEnabled: true,
		UID:             "2020-01-02-hello-world",
		Path:            filepath.Join(blogDir, "2020-01-02-hello-world.html"),
	}
}

func TestWriteFrontMatter(t *testing.T) {
	t.Parallel()

	w, blogDir := newWriter(t, convert.HTML{})
	item := postItem(blogDir)

	if err := w.Write(item, map[string][]string{"categories": {"News"}}); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	raw, err := os.ReadFile(item.Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(raw)

	if !strings.HasPrefix(out, "---\n") {
		t.Fatalf("missing opening fence:\n%s", out)
	}
	for _, want := range []string{
		"title: Hello World\n",
		"permalink: /archives/1\n",
		"author: alice\n",
		"date: 2020-01-02 03:04:05 +0000\n",
		"slug: hello-world\n",
		"wordpress_id: 1\n",
		"comments: true\n",
		"layout: post\n",
		"- News\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "---\n\n<p>Hi there</p>") {
		t.Fatalf("body not appended after closing fence:\n%s", out)
	}
	if strings.Contains(out, "published:") {
		t.Fatalf("published flag emitted for published item:\n%s", out)
	}
	if strings.Contains(out, "excerpt:") {
		t.Fatalf("empty excerpt emitted:\n%s", out)
	}
}

func TestWriteUnpublishedAndExcerpt(t *testing.T) {
	t.Parallel()

	w, blogDir := newWriter(t, convert.HTML{})
	item := postItem(blogDir)
	item.Status = "draft"
	item.Excerpt = "teaser"

	if err := w.Write(item, nil); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	raw, _ := os.ReadFile(item.Path)
	out := string(raw)
	if !strings.Contains(out, "published: false\n") {
		t.Fatalf("missing published flag:\n%s", out)
	}
	if !strings.Contains(out, "excerpt: teaser\n") {
		t.Fatalf("missing excerpt:\n%s", out)
	}
}

func TestWriteInheritedAttachmentIsPublished(t *testing.T) {
	t.Parallel()

	w, blogDir := newWriter(t, convert.HTML{})
	item := postItem(blogDir)
	item.Type = domain.TypeAttachment
	item.Status = domain.StatusInherit
	item.AttachmentURL = "/files/report.pdf"

	if err := w.Write(item, nil); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	raw, _ := os.ReadFile(item.Path)
	out := string(raw)
	if strings.Contains(out, "published:") {
		t.Fatalf("inherited attachment should omit published flag:\n%s", out)
	}
	if !strings.Contains(out, "attachment_url: /files/report.pdf\n") {
		t.Fatalf("missing attachment_url:\n%s", out)
	}
	if !strings.Contains(out, "layout: post\n") {
		t.Fatalf("attachments use the post layout:\n%s", out)
	}
}

func TestWriteBodyConversionFailureKeepsFrontMatter(t *testing.T) {
	t.Parallel()

	w, blogDir := newWriter(t, failingConverter{})
	item := postItem(blogDir)

	if err := w.Write(item, nil); err != nil {
		t.Fatalf("Write should isolate conversion failures, got: %v", err)
	}

	raw, err := os.ReadFile(item.Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(raw)
	if !strings.HasSuffix(out, "---\n\n") {
		t.Fatalf("expected front-matter-only file:\n%s", out)
	}
	if !strings.Contains(out, "title: Hello World\n") {
		t.Fatalf("front matter missing:\n%s", out)
	}
}

func TestDownloadImagesResolvesAgainstBaseLink(t *testing.T) {
	t.Parallel()

	downloader := &recordingDownloader{}
	blogDir := t.TempDir()
	w := NewWriter(Config{
		BlogDir:    blogDir,
		BaseLink:   "https://example.com",
		DateFormat: dateFmt,
		Converter:  convert.HTML{},
		Downloads:  true,
		Downloader: downloader,
		Registry:   resolve.NewAttachmentRegistry(),
	})

	item := postItem(blogDir)
	item.ImageSources = []string{"/wp-content/pic.png", "https://cdn.example.org/logo.gif"}

	w.DownloadImages(context.Background(), item)

	if len(downloader.calls) != 2 {
		t.Fatalf("expected 2 downloads, got %v", downloader.calls)
	}
	if downloader.calls[0] != "https://example.com/wp-content/pic.png" {
		t.Fatalf("relative source not joined: %q", downloader.calls[0])
	}
	if downloader.calls[1] != "https://cdn.example.org/logo.gif" {
		t.Fatalf("absolute source rewritten: %q", downloader.calls[1])
	}

	target := filepath.Join(blogDir, "images", item.UID, "pic.png")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
}

func TestPermalinkRewrite(t *testing.T) {
	t.Parallel()

	if got := permalink("https://example.com/?p=42"); got != "/archives/42" {
		t.Fatalf("permalink = %q", got)
	}
	if got := permalink("https://example.com/about/"); got != "/about/" {
		t.Fatalf("permalink = %q", got)
	}
}
