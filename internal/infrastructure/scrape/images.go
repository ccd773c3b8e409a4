package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"WpJekyllExport/internal/ports"
)

// ImageScanner discovers img tags in item bodies with goquery.
type ImageScanner struct{}

var _ ports.ImageScanner = (*ImageScanner)(nil)

// New builds a stateless scanner.
func New() *ImageScanner {
	return &ImageScanner{}
}

// ImageSources returns every img src value in document order.
func (s *ImageScanner) ImageSources(body string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse body html: %w", err)
	}

	var sources []string
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok {
			sources = append(sources, src)
		}
	})
	return sources, nil
}
