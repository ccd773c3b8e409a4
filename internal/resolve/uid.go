package resolve

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"WpJekyllExport/internal/domain"
)

var slugStrip = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type uidNamespace struct {
	byID  map[string]string // wp_id -> uid
	taken map[string]string // uid -> owning wp_id
}

// UIDTable assigns stable, collision-free identifiers to items, partitioned
// by namespace. Resolving the same wp_id twice within a namespace returns
// the cached identifier. Safe for concurrent use.
type UIDTable struct {
	mu         sync.Mutex
	namespaces map[string]*uidNamespace
	dateFormat string
	idPrefix   bool
	logger     *slog.Logger
}

// NewUIDTable builds an empty table. idPrefix additionally prefixes
// date-prefixed identifiers with the numeric export id.
func NewUIDTable(dateFormat string, idPrefix bool, logger *slog.Logger) *UIDTable {
	if logger == nil {
		logger = slog.Default()
	}
	return &UIDTable{
		namespaces: map[string]*uidNamespace{},
		dateFormat: dateFormat,
		idPrefix:   idPrefix,
		logger:     logger,
	}
}

// UID returns the identifier for item within namespace, computing and
// registering it on first use. Collisions with identifiers already owned by
// other items get a numeric suffix, recorded under the current item's id.
func (t *UIDTable) UID(item *domain.Item, datePrefix bool, namespace string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ns := t.namespace(namespace)
	if uid, ok := ns.byID[item.WpID]; ok {
		return uid
	}

	var b strings.Builder
	if datePrefix {
		day, err := time.Parse(t.dateFormat, item.Date)
		if err != nil {
			day = time.Now().UTC()
			t.logger.Warn("wrong date in item", "title", item.Title)
		}
		b.WriteString(day.Format("2006-01-02"))
		b.WriteString("-")
		if t.idPrefix {
			b.WriteString(item.WpID)
			b.WriteString("-")
		}
	}
	b.WriteString(slugify(item))
	base := b.String()

	uid := base
	for n := 2; ; n++ {
		owner, exists := ns.taken[uid]
		if !exists || owner == item.WpID {
			break
		}
		uid = fmt.Sprintf("%s_%d", base, n)
	}

	ns.byID[item.WpID] = uid
	ns.taken[uid] = item.WpID
	return uid
}

func (t *UIDTable) namespace(name string) *uidNamespace {
	ns, ok := t.namespaces[name]
	if !ok {
		ns = &uidNamespace{byID: map[string]string{}, taken: map[string]string{}}
		t.namespaces[name] = ns
	}
	return ns
}

// slugify prefers the item's slug, falls back to its title, then to
// "untitled"; whitespace becomes underscores and anything outside
// [A-Za-z0-9_-] is stripped.
func slugify(item *domain.Item) string {
	s := item.Slug
	if s == "" {
		s = item.Title
	}
	if s == "" {
		s = "untitled"
	}
	s = strings.ReplaceAll(s, " ", "_")
	return slugStrip.ReplaceAllString(s, "")
}
