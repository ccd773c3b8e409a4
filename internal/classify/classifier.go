package classify

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"WpJekyllExport/internal/config"
	"WpJekyllExport/internal/domain"
	"WpJekyllExport/internal/ports"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Classifier decides which items survive and enriches the ones that do:
// body substitutions, attachment link prefixes, discovered image sources,
// and taxonomy remapping.
type Classifier struct {
	fieldFilter    map[string]string
	rules          []rule
	attachmentLink string
	nameMapping    map[string]string
	images         ports.ImageScanner
	logger         *slog.Logger
}

// New compiles the configured body substitution rules and wires the image
// scanner collaborator.
func New(cfg config.Config, images ports.ImageScanner, logger *slog.Logger) (*Classifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rules := make([]rule, 0, len(cfg.BodyReplace))
	for _, r := range cfg.BodyReplace {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile body_replace pattern %q: %w", r.Pattern, err)
		}
		rules = append(rules, rule{pattern: re, replacement: r.Replacement})
	}

	return &Classifier{
		fieldFilter:    cfg.ItemFieldFilter,
		rules:          rules,
		attachmentLink: cfg.AttachmentURLFormat,
		nameMapping:    cfg.Taxonomies.NameMapping,
		images:         images,
		logger:         logger,
	}, nil
}

// Skip reports whether the item matches any configured field filter. The
// first match short-circuits; a skipped item produces no output and no
// downloads.
func (c *Classifier) Skip(item *domain.Item) bool {
	for field, forbidden := range c.fieldFilter {
		if fieldValue(item, field) == forbidden {
			return true
		}
	}
	return false
}

// Enrich applies the body substitutions, prepends the rendered attachment
// link for attachment items, and records discovered image sources.
func (c *Classifier) Enrich(item *domain.Item) {
	item.Body = c.substitute(item.Body)

	if item.Type == domain.TypeAttachment && c.attachmentLink != "" {
		prefix := strings.NewReplacer(
			"{title}", item.Title,
			"{attachment_url}", item.AttachmentURL,
		).Replace(c.attachmentLink)
		item.Body = c.substitute(prefix) + item.Body
	}

	sources, err := c.images.ImageSources(item.Body)
	if err != nil {
		c.logger.Warn("could not parse item html", "title", item.Title, "error", err)
		sources = nil
	}
	item.ImageSources = sources
}

// MapTaxonomies remaps the item's taxonomy domains through the configured
// name mapping (identity when unmapped) and deduplicates entries per output
// name, preserving first-seen order.
func (c *Classifier) MapTaxonomies(item *domain.Item) map[string][]string {
	domains := make([]string, 0, len(item.Taxonomies))
	for dom := range item.Taxonomies {
		domains = append(domains, dom)
	}
	sort.Strings(domains)

	out := map[string][]string{}
	for _, dom := range domains {
		name := dom
		if mapped, ok := c.nameMapping[dom]; ok {
			name = mapped
		}
		for _, entry := range item.Taxonomies[dom] {
			if contains(out[name], entry) {
				continue
			}
			out[name] = append(out[name], entry)
		}
	}
	return out
}

func (c *Classifier) substitute(body string) string {
	for _, r := range c.rules {
		body = r.pattern.ReplaceAllString(body, r.replacement)
	}
	return body
}

func fieldValue(item *domain.Item, field string) string {
	switch field {
	case "wp_id":
		return item.WpID
	case "parent":
		return item.Parent
	case "type":
		return item.Type
	case "status":
		return item.Status
	case "title":
		return item.Title
	case "link":
		return item.Link
	case "slug":
		return item.Slug
	case "author":
		return item.Author
	case "date":
		return item.Date
	case "body":
		return item.Body
	case "excerpt":
		return item.Excerpt
	case "comments":
		return strconv.FormatBool(item.CommentsEnabled)
	default:
		return ""
	}
}

func contains(values []string, v string) bool {
	for _, have := range values {
		if have == v {
			return true
		}
	}
	return false
}
