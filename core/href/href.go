// Package href classifies and rewrites link targets found in HTML documents.
// Relative links to other HTML documents are moved to the output extension so
// that intra-site references keep working after conversion; asset links are
// made absolute against a base URL. Everything here is string manipulation:
// no network access happens.
package href

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// docExtensions are the extensions of documents that get converted alongside
// the current one.
var docExtensions = map[string]bool{
	".html": true,
	".htm":  true,
}

// schemeRegex matches a URL scheme. Single letters are left out so that
// Windows drive letters ("C:") are not mistaken for schemes.
var schemeRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]+:`)

// IsAbsoluteURL reports whether href carries a scheme or is a
// network-path reference ("//host/...").
func IsAbsoluteURL(href string) bool {
	return schemeRegex.MatchString(href) || strings.HasPrefix(href, "//")
}

// IsAbsolutePath reports whether href is an absolute filesystem path.
func IsAbsolutePath(href string) bool {
	if strings.HasPrefix(href, "/") || strings.HasPrefix(href, `\`) {
		return true
	}
	// C:\dir or C:/dir
	return len(href) >= 3 && isLetter(href[0]) && href[1] == ':' && (href[2] == '/' || href[2] == '\\')
}

// IsDoc reports whether href is a relative link to an HTML document:
// no scheme, not an absolute path, and a .html or .htm extension
// (case-insensitive). Query and fragment do not count towards the extension.
func IsDoc(href string) bool {
	if IsAbsoluteURL(href) || IsAbsolutePath(href) {
		return false
	}
	p, _ := splitSuffix(href)
	return HasDocExt(p)
}

// HasDocExt reports whether the last element of the slash-separated path p
// is a name with a .html or .htm extension. A bare ".html" has no name in
// front of the extension and does not count.
func HasDocExt(p string) bool {
	base := p[strings.LastIndex(p, "/")+1:]
	ext := path.Ext(base)
	return ext != base && docExtensions[strings.ToLower(ext)]
}

// RelTextHref moves a relative document link to the extension ext (with or
// without a leading dot), keeping its directory, query and fragment. Every
// other href is returned unchanged.
func RelTextHref(href, ext string) string {
	if strings.HasPrefix(href, "#") || !IsDoc(href) {
		return href
	}

	p, suffix := splitSuffix(href)
	p = strings.TrimSuffix(p, path.Ext(p)) + "." + strings.TrimPrefix(ext, ".")
	return IRIToURI(p + suffix)
}

// AbsAssetHref resolves href against baseURL. Absolute URLs and absolute
// paths are only normalized. With an empty base the href stays relative.
func AbsAssetHref(href, baseURL string) string {
	if IsAbsoluteURL(href) || IsAbsolutePath(href) || baseURL == "" {
		return IRIToURI(href)
	}

	ref, err := url.Parse(IRIToURI(href))
	if err != nil {
		return IRIToURI(href)
	}
	base, err := url.Parse(IRIToURI(baseURL))
	if err != nil {
		return IRIToURI(href)
	}

	if base.Scheme == "" && base.Host == "" && !strings.HasPrefix(base.Path, "/") {
		return resolveRelative(base, ref)
	}
	return IRIToURI(base.ResolveReference(ref).String())
}

// resolveRelative joins ref onto a base that is itself a relative path.
// url.ResolveReference would root the result at "/".
func resolveRelative(base, ref *url.URL) string {
	if ref.Path == "" {
		out := *base
		if ref.RawQuery != "" {
			out.RawQuery = ref.RawQuery
		}
		out.Fragment = ref.Fragment
		return IRIToURI(out.String())
	}

	dir := base.Path[:strings.LastIndex(base.Path, "/")+1]
	joined := path.Clean(dir + ref.Path)
	if strings.HasSuffix(ref.Path, "/") && joined != "/" {
		joined += "/"
	}
	// Segments climbing above the relative root are dropped.
	for strings.HasPrefix(joined, "../") {
		joined = strings.TrimPrefix(joined, "../")
	}

	out := url.URL{Path: joined, RawQuery: ref.RawQuery, Fragment: ref.Fragment}
	return IRIToURI(out.String())
}

// splitSuffix splits href into its path and the "?query#fragment" tail.
func splitSuffix(href string) (p, suffix string) {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		return href[:i], href[i:]
	}
	return href, ""
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
