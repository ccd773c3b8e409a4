package wxr

import (
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"WpJekyllExport/internal/domain"
)

// Result is the normalized output of parsing one export document.
type Result struct {
	Header domain.Export
	Items  []*domain.Item
}

// Parser turns export XML documents into normalized items. Date layout and
// taxonomy filters come from configuration.
type Parser struct {
	dateFormat  string
	taxFilter   map[string]struct{}
	entryFilter map[string]string
	logger      *slog.Logger
}

// NewParser builds a parser. taxFilter holds category domains to drop
// wholesale; entryFilter maps a domain to one entry text that is also
// dropped.
func NewParser(dateFormat string, taxFilter map[string]struct{}, entryFilter map[string]string, logger *slog.Logger) *Parser {
	if taxFilter == nil {
		taxFilter = map[string]struct{}{}
	}
	if entryFilter == nil {
		entryFilter = map[string]string{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		dateFormat:  dateFormat,
		taxFilter:   taxFilter,
		entryFilter: entryFilter,
		logger:      logger,
	}
}

// Parse reads one export document and produces its header and items in
// document order. A document without a channel element is a format error.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	doc, err := parseDocument(r)
	if err != nil {
		return nil, err
	}

	channel := elem{doc: doc, n: doc.channel}
	header := domain.Export{
		Title:       channel.Field("title").Or(NoContent),
		Link:        channel.Field("link").Or(NoContent),
		Description: channel.Field("description").Or(NoContent),
	}

	itemName := doc.resolve("item")
	var items []*domain.Item
	for _, n := range doc.channel.childrenNamed(itemName) {
		items = append(items, p.parseItem(elem{doc: doc, n: n}))
	}

	return &Result{Header: header, Items: items}, nil
}

func (p *Parser) parseItem(e elem) *domain.Item {
	item := &domain.Item{
		WpID:            e.Field("wp:post_id").Or(NoContent),
		Parent:          e.Field("wp:post_parent").Or(domain.ParentNone),
		Type:            e.Field("wp:post_type").Or(NoContent),
		Status:          e.Field("wp:status").Or(NoContent),
		Title:           e.Field("title").Or(NoContent),
		Link:            e.Field("link").Or(NoContent),
		Slug:            e.Field("wp:post_name").OrEmpty(),
		Author:          e.Field("dc:creator").Or(NoContent),
		Body:            e.Field("content:encoded").OrEmpty(),
		Excerpt:         e.Field("excerpt:encoded").OrEmpty(),
		CommentsEnabled: e.Field("wp:comment_status").Or(NoContent) == "open",
		Taxonomies:      p.collectTaxonomies(e),
	}
	item.Date = p.normalizeDate(e, item.Title)

	if item.Type == domain.TypeAttachment {
		item.AttachmentURL = attachmentPath(e.Field("wp:attachment_url").Or(NoContent))
	}

	return item
}

// normalizeDate returns the GMT date when it parses against the configured
// layout; otherwise the local date is interpreted in the process timezone
// and shifted to UTC. When both fail the raw GMT value is kept and the
// emitter falls back to the current time.
func (p *Parser) normalizeDate(e elem, title string) string {
	gmt := e.Field("wp:post_date_gmt").Or(NoContent)
	if _, err := time.Parse(p.dateFormat, gmt); err == nil {
		return gmt
	}

	local := e.Field("wp:post_date").Or(NoContent)
	t, err := time.ParseInLocation(p.dateFormat, local, time.Local)
	if err != nil {
		p.logger.Warn("unparseable item date", "title", title, "post_date_gmt", gmt, "post_date", local)
		return gmt
	}
	return t.UTC().Format(p.dateFormat)
}

// collectTaxonomies gathers category elements bearing a domain attribute,
// grouped by domain with duplicates preserved.
func (p *Parser) collectTaxonomies(e elem) map[string][]string {
	taxonomies := map[string][]string{}
	for _, cat := range e.n.childrenNamed(e.doc.resolve("category")) {
		dom, ok := cat.attr("domain")
		if !ok {
			continue
		}
		entry := strings.TrimSpace(cat.text.String())
		if _, filtered := p.taxFilter[dom]; filtered {
			continue
		}
		if v, ok := p.entryFilter[dom]; ok && v == entry {
			continue
		}
		taxonomies[dom] = append(taxonomies[dom], entry)
	}
	return taxonomies
}

// attachmentPath keeps only the path component of an attachment URL; the
// site domain is assumed fixed so path-relative links are wanted.
func attachmentPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}
