package treemux

import "strings"

// canonicalPath trims a trailing slash (the tree's urls never carry one,
// identity.URL never appends one) while leaving the root path "/" alone.
func canonicalPath(path string) string {
	if path == "/" || path == "" {
		return "/"
	}
	return strings.TrimSuffix(path, "/")
}

// splitFactory detects a trailing "/new/<childKind>" segment pair — the
// literal suffix spec.md's factory routes always end in — and strips it,
// returning the parent path a factory's node must resolve to exactly
// (tolerance 0, ground: spec.md §4.3.4/§4.5's "remove and factories" rule).
// A root-level "/new/<c>" strips to parent path "/".
func splitFactory(path string) (parentPath, childKind string, ok bool) {
	trimmed := canonicalPath(path)
	idx := strings.LastIndex(trimmed, "/new/")
	if idx < 0 {
		return "", "", false
	}
	childKind = trimmed[idx+len("/new/"):]
	if childKind == "" {
		return "", "", false
	}
	parentPath = trimmed[:idx]
	if parentPath == "" {
		parentPath = "/"
	}
	return parentPath, childKind, true
}
