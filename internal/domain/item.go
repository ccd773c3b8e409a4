package domain

// Export holds the channel-level header of one export document.
type Export struct {
	Title       string
	Link        string
	Description string
}

// ParentNone is the sentinel wp_id marking an item without a parent.
const ParentNone = "0"

// Item types with dedicated output handling.
const (
	TypePost       = "post"
	TypePage       = "page"
	TypeAttachment = "attachment"
)

// Item statuses relevant to the published flag.
const (
	StatusPublish = "publish"
	StatusInherit = "inherit"
)

// Item is one content unit from an export document. The identity and
// content fields are set by the parser; the remaining fields are filled
// in by the classifier and resolver stages.
type Item struct {
	WpID   string
	Parent string

	Type   string
	Status string

	Title           string
	Link            string
	Slug            string
	Author          string
	Date            string
	Body            string
	Excerpt         string
	CommentsEnabled bool

	// Taxonomies maps raw taxonomy domains to their entries as found in
	// the export, duplicates preserved. Remapping to output names and
	// deduplication happen at emit time.
	Taxonomies map[string][]string

	ImageSources  []string
	AttachmentURL string

	UID  string
	Path string
}
