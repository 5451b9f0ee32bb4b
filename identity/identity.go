// Package identity implements the tree's slug/path/url algebra.
//
// Every function here is pure: no I/O, no allocation beyond the returned
// value. The store and dispatcher packages build on top of these rules but
// never duplicate them.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PathSlug is an ancestor step: the parent's url and this node's slug under it.
type PathSlug struct {
	Path string
	Slug string
}

// Root is the sentinel ancestor of every node: empty path, empty slug.
var Root = PathSlug{}

// URL derives a node's url from its parent path and its own slug.
//
//	path == ""   -> "/"
//	path == "/"  -> "/" + slug
//	else         -> path + "/" + slug
func URL(path, slug string) string {
	switch {
	case path == "":
		return "/"
	case path == "/":
		return "/" + slug
	default:
		return path + "/" + slug
	}
}

// Decompose splits a url into its parent path and trailing slug.
//
//	"/" -> ("", "")
func Decompose(url string) (path, slug string) {
	if url == "/" {
		return "", ""
	}

	trimmed := strings.TrimSuffix(url, "/")
	idx := strings.LastIndexByte(trimmed, '/')
	if idx <= 0 {
		return "/", trimmed[idx+1:]
	}
	return trimmed[:idx], trimmed[idx+1:]
}

// Parents returns the ordered ancestor chain of url, from the immediate
// parent up to the root sentinel. Parents("/") returns just the root
// sentinel.
//
// Decompose(url) yields (parentURL, ownSlug) — the first component is the
// *parent's* url, not the parent's own (path, slug) pair. Each step here
// re-decomposes that parent url to recover its identity before climbing
// further, so the chain never includes the node's own address.
func Parents(url string) []PathSlug {
	if url == "/" {
		return []PathSlug{Root}
	}

	parentURL, _ := Decompose(url)
	var chain []PathSlug
	for {
		if parentURL == "/" {
			chain = append(chain, Root)
			break
		}
		path, slug := Decompose(parentURL)
		chain = append(chain, PathSlug{Path: path, Slug: slug})
		parentURL = path
	}
	return chain
}

// Slugify deterministically derives a URL-safe identifier from source:
// NFKD-fold, lowercase, strip combining marks, replace runs of
// non-alphanumeric characters with a single hyphen, and trim leading and
// trailing hyphens.
func Slugify(source string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		source,
	)
	if err != nil {
		folded = source
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastWasHyphen := true // suppress leading hyphens
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasHyphen = false
		default:
			if !lastWasHyphen {
				b.WriteByte('-')
				lastWasHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
