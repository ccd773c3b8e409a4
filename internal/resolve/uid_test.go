package resolve

import (
	"strings"
	"testing"

	"WpJekyllExport/internal/domain"
)

const dateFmt = "2006-01-02 15:04:05"

func post(id, slug, title string) *domain.Item {
	return &domain.Item{
		WpID:  id,
		Slug:  slug,
		Title: title,
		Date:  "2020-01-02 03:04:05",
	}
}

func TestUIDDatePrefix(t *testing.T) {
	t.Parallel()

	table := NewUIDTable(dateFmt, false, nil)
	uid := table.UID(post("1", "hello-world", "Hello World"), true, "posts")

	if uid != "2020-01-02-hello-world" {
		t.Fatalf("unexpected uid: %q", uid)
	}
}

func TestUIDWpIDPrefix(t *testing.T) {
	t.Parallel()

	table := NewUIDTable(dateFmt, true, nil)
	uid := table.UID(post("7", "hello", "Hello"), true, "posts")

	if uid != "2020-01-02-7-hello" {
		t.Fatalf("unexpected uid: %q", uid)
	}
}

func TestUIDSlugFallbacks(t *testing.T) {
	t.Parallel()

	table := NewUIDTable(dateFmt, false, nil)

	if uid := table.UID(post("1", "", "My Page! (v2)"), false, "pages"); uid != "My_Page_v2" {
		t.Fatalf("title fallback produced %q", uid)
	}
	if uid := table.UID(post("2", "", ""), false, "pages"); uid != "untitled" {
		t.Fatalf("untitled fallback produced %q", uid)
	}
}

func TestUIDCollisionSuffix(t *testing.T) {
	t.Parallel()

	table := NewUIDTable(dateFmt, false, nil)

	first := table.UID(post("1", "about", "About"), false, "pages")
	second := table.UID(post("2", "about", "About"), false, "pages")
	third := table.UID(post("3", "about", "About"), false, "pages")

	if first != "about" || second != "about_2" || third != "about_3" {
		t.Fatalf("unexpected uids: %q %q %q", first, second, third)
	}

	// The suffixed uid must be recorded under the colliding item's own id.
	if again := table.UID(post("2", "about", "About"), false, "pages"); again != "about_2" {
		t.Fatalf("re-resolution returned %q", again)
	}
}

func TestUIDIdempotent(t *testing.T) {
	t.Parallel()

	table := NewUIDTable(dateFmt, false, nil)
	item := post("1", "stable", "Stable")

	first := table.UID(item, true, "posts")
	second := table.UID(item, true, "posts")

	if first != second {
		t.Fatalf("uids differ: %q vs %q", first, second)
	}
}

func TestUIDNamespacesAreIndependent(t *testing.T) {
	t.Parallel()

	table := NewUIDTable(dateFmt, false, nil)

	a := table.UID(post("1", "same", "Same"), false, "pages")
	b := table.UID(post("2", "same", "Same"), false, "nested")

	if a != "same" || b != "same" {
		t.Fatalf("namespaces should not collide: %q %q", a, b)
	}
}

func TestUIDBadDateFallsBackToToday(t *testing.T) {
	t.Parallel()

	table := NewUIDTable(dateFmt, false, nil)
	item := &domain.Item{WpID: "1", Slug: "broken", Date: "not a date"}

	uid := table.UID(item, true, "posts")
	if !strings.HasSuffix(uid, "-broken") {
		t.Fatalf("unexpected uid: %q", uid)
	}
}
