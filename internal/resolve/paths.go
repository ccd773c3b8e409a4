package resolve

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"WpJekyllExport/internal/domain"
)

// Identifier cache namespaces, one per structural role. Parent-chain
// lookups share the pages namespace so a page's directory name always
// matches its own resolved identifier.
const (
	nsPosts       = "posts"
	nsPages       = "pages"
	nsAttachments = "attachments"
)

var (
	blogNameScheme = regexp.MustCompile(`^https?`)
	blogNameStrip  = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

// BlogDir derives the per-export output directory from the export's link:
// <buildDir>/jekyll/<sanitized-link>.
func BlogDir(buildDir, link string) string {
	name := blogNameScheme.ReplaceAllString(link, "")
	name = blogNameStrip.ReplaceAllString(name, "")
	return filepath.Join(buildDir, "jekyll", name)
}

// Paths resolves items to identifiers and output file locations under one
// export's blog directory, creating directories on demand.
type Paths struct {
	blogDir    string
	ext        string
	uids       *UIDTable
	typeFilter map[string]struct{}
	logger     *slog.Logger
}

// NewPaths builds a resolver for one export. ext is the output file
// extension (the configured target format).
func NewPaths(blogDir, ext string, uids *UIDTable, typeFilter map[string]struct{}, logger *slog.Logger) *Paths {
	if typeFilter == nil {
		typeFilter = map[string]struct{}{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Paths{
		blogDir:    blogDir,
		ext:        ext,
		uids:       uids,
		typeFilter: typeFilter,
		logger:     logger,
	}
}

// Resolve assigns the item's identifier and output path. The boolean is
// false when the item's type is filtered or unknown; such items produce no
// output. all must contain every item of the export so parent chains can
// be walked.
func (p *Paths) Resolve(item *domain.Item, all []*domain.Item) (bool, error) {
	if _, filtered := p.typeFilter[item.Type]; filtered {
		return false, nil
	}

	switch item.Type {
	case domain.TypePost:
		item.UID = p.uids.UID(item, true, nsPosts)
		return true, p.place(item, "_posts", false)
	case domain.TypeAttachment:
		item.UID = p.uids.UID(item, true, nsAttachments)
		return true, p.place(item, filepath.Join("_drafts", "attachments"), false)
	case domain.TypePage:
		item.UID = p.uids.UID(item, false, nsPages)
		return true, p.place(item, p.parentPrefix(item, all), true)
	default:
		p.logger.Warn("unknown item type", "type", item.Type, "title", item.Title)
		return false, nil
	}
}

// parentPrefix walks the parent chain and returns the ancestor directory
// prefix in root-to-leaf order. A missing parent breaks the walk, keeping
// whatever prefix was accumulated.
func (p *Paths) parentPrefix(item *domain.Item, all []*domain.Item) string {
	prefix := ""
	seen := map[string]struct{}{item.WpID: {}}
	cur := item
	for cur.Parent != domain.ParentNone {
		parent := findByID(all, cur.Parent)
		if parent == nil {
			break
		}
		if _, cyclic := seen[parent.WpID]; cyclic {
			p.logger.Warn("parent cycle in page hierarchy", "title", item.Title)
			break
		}
		seen[parent.WpID] = struct{}{}
		prefix = filepath.Join(p.uids.UID(parent, false, nsPages), prefix)
		cur = parent
	}
	return prefix
}

func (p *Paths) place(item *domain.Item, dir string, asDir bool) error {
	fullDir := filepath.Join(p.blogDir, dir)
	if asDir {
		fullDir = filepath.Join(fullDir, item.UID)
	}
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", fullDir, err)
	}
	if asDir {
		item.Path = filepath.Join(fullDir, "index."+p.ext)
	} else {
		item.Path = filepath.Join(fullDir, item.UID+"."+p.ext)
	}
	return nil
}

func findByID(all []*domain.Item, wpID string) *domain.Item {
	for _, candidate := range all {
		if candidate.WpID == wpID {
			return candidate
		}
	}
	return nil
}
