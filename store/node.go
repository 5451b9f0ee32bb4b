package store

import "github.com/treerest/treerest/identity"

// Base is embedded (inline) by every domain node type. It carries the
// fields every stored entity has per spec.md §3: id, type, path, slug.
//
// This is the Go-native redesign of spec.md §9's "dynamic-typed
// reconstruction": instead of Python rebuilding an instance by dispatching
// on doc["type"], a Node here is a Go interface implemented by every
// concrete domain struct, and the store reconstructs the right concrete
// type via a per-Store constructor registry keyed by the same type name.
type Base struct {
	ID   string `bson:"_id,omitempty" json:"id,omitempty"`
	Type string `bson:"type" json:"type"`
	Path string `bson:"path" json:"path"`
	Slug string `bson:"slug" json:"slug"`
}

// GetBase returns the embedded Base, satisfying Node.
func (b *Base) GetBase() *Base { return b }

// URL returns the node's derived url (spec.md §3).
func (b *Base) URL() string {
	return identity.URL(b.Path, b.Slug)
}

// Node is implemented by every domain entity type (via embedding Base).
type Node interface {
	GetBase() *Base
}

// Sluger is optionally implemented by a node type to override the default
// slug-source derivation (join of the registry's SlugerFields). Needed when
// the slug doesn't come from a plain string field, e.g. composed from two
// fields or normalized beyond simple concatenation.
type Sluger interface {
	// SlugerSource returns the string that identity.Slugify will turn into
	// the node's slug, given the current field values overridden by patch
	// (patch keys are Go field names).
	SlugerSource(patch map[string]any) string
}
