package crawl

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/html22text/core/href"
)

// IsDocFile reports whether the file name has an HTML document extension.
func IsDocFile(name string) bool {
	return href.HasDocExt(filepath.ToSlash(name))
}

// ResolveDocLink resolves a document link found in the document at current
// (a slash-separated path relative to the site root). It returns the target
// as a clean root-relative path, or false when the link is not a relative
// document link or climbs out of the root.
func ResolveDocLink(current, link string) (string, bool) {
	if !href.IsDoc(link) {
		return "", false
	}
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	if unescaped, err := url.PathUnescape(link); err == nil {
		link = unescaped
	}
	link = strings.ReplaceAll(link, `\`, "/")

	target := path.Join(path.Dir(current), link)
	if target == ".." || strings.HasPrefix(target, "../") {
		return "", false
	}
	return target, true
}

// NormalizeDocPath turns a caller-supplied entry path into the
// slash-separated, root-relative form used for deduplication.
func NormalizeDocPath(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	return strings.TrimPrefix(p, "/")
}

// isHidden reports whether a directory name should be skipped by WalkDocs.
func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}
