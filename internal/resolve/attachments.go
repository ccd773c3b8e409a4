package resolve

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
)

// AttachmentRegistry assigns local filenames to attachment source URLs,
// partitioned by target directory. Each URL gets exactly one filename; two
// distinct URLs in the same directory never share one. Safe for concurrent
// use.
type AttachmentRegistry struct {
	mu   sync.Mutex
	dirs map[string]map[string]string // dir -> source url -> filename
}

// NewAttachmentRegistry builds an empty registry.
func NewAttachmentRegistry() *AttachmentRegistry {
	return &AttachmentRegistry{dirs: map[string]map[string]string{}}
}

// Filename returns the filename assigned to src within dir, choosing a
// suffixed variant when the base name is already taken by a different URL.
func (r *AttachmentRegistry) Filename(dir, src string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	files, ok := r.dirs[dir]
	if !ok {
		files = map[string]string{}
		r.dirs[dir] = files
	}

	if name, ok := files[src]; ok {
		return name
	}

	root, ext := splitName(src)
	name := root + ext
	for infix := 1; taken(files, name); infix++ {
		name = fmt.Sprintf("%s-%d%s", root, infix, ext)
	}

	files[src] = name
	return name
}

func splitName(src string) (root, ext string) {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}
	base := ""
	if p != "" {
		base = path.Base(p)
	}
	if base == "." || base == "/" {
		base = ""
	}
	ext = path.Ext(base)
	root = strings.TrimSuffix(base, ext)
	if root == "" {
		root = "1"
	}
	return root, ext
}

func taken(files map[string]string, name string) bool {
	for _, have := range files {
		if have == name {
			return true
		}
	}
	return false
}
