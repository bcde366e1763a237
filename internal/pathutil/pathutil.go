// Package pathutil holds the path math shared by the page graph resolver and the
// search index builder: resolving a link against the document that contains it,
// deciding which links are local markdown documents, and detecting paths that
// escape the source root.
package pathutil

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var markdownExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".mdown":    {},
	".mkd":      {},
}

// IsMarkdownFile reports whether name carries one of the recognised markdown extensions.
func IsMarkdownFile(name string) bool {
	_, ok := markdownExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// IsExternal reports whether a link destination points outside the local file graph:
// anything with a URL scheme (http:, mailto:, data:, ...), protocol-relative
// destinations and pure in-page anchors.
func IsExternal(dest string) bool {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "//") {
		return true
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	// Single-letter schemes are Windows drive letters, not URLs.
	return len(u.Scheme) > 1
}

// StripFragment removes any #fragment and ?query suffix from a link destination.
func StripFragment(dest string) string {
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		return dest[:i]
	}
	return dest
}

// IsLocalMarkdownLink reports whether dest refers to a local markdown document.
func IsLocalMarkdownLink(dest string) bool {
	if IsExternal(dest) {
		return false
	}
	target := StripFragment(strings.TrimSpace(dest))
	return target != "" && IsMarkdownFile(target)
}

// ResolveLink resolves a link destination found in fromFile into an absolute, cleaned
// path. Relative destinations are resolved against fromFile's own directory, so a
// document outside the source root can reach further outside documents. Destinations
// starting with "/" are site-absolute and resolve against root.
//
// ok is false for destinations that are not local markdown documents.
func ResolveLink(root, fromFile, dest string) (resolved string, ok bool) {
	if !IsLocalMarkdownLink(dest) {
		return "", false
	}
	target := StripFragment(strings.TrimSpace(dest))
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	target = filepath.FromSlash(target)

	var joined string
	if strings.HasPrefix(target, string(filepath.Separator)) {
		joined = filepath.Join(root, target)
	} else {
		joined = filepath.Join(filepath.Dir(fromFile), target)
	}
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", false
	}
	return abs, true
}

// Key normalizes an absolute path into the deduplication key used by visited sets
// and index identifiers. Names are NFC-normalized so a file written with decomposed
// accents (as macOS reports them) and its composed spelling collapse to one document.
func Key(absPath string) string {
	return norm.NFC.String(filepath.Clean(absPath))
}

// IsOutsideRoot reports whether p lies outside root. Both are cleaned before comparison.
func IsOutsideRoot(root, p string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(p))
	if err != nil {
		return true
	}
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// RootRelative returns p relative to root using forward slashes. Root-escaping paths
// keep their leading "../" segments so they stay unique per physical document.
func RootRelative(root, p string) string {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(p))
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
