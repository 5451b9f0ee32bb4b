package store

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/treerest/treerest/identity"
)

// Query addresses documents by any combination of id, url, path, slug, type,
// and arbitrary equality filters, per spec.md §4.3.
type Query struct {
	ID   string
	URL  string
	Path *string // distinguishes "unset" from "" (root path)
	Slug string
	// Type overrides the type filter the Store would otherwise inject from
	// the operation's typeName argument.
	Type  string
	Extra bson.M
	Sort  bson.D
}

// filter builds the BSON equality filter for the query, injecting typeName
// unless the caller overrode it via Query.Type.
func (q Query) filter(typeName string) bson.M {
	filter := bson.M{}
	for k, v := range q.Extra {
		filter[k] = v
	}

	if q.URL != "" {
		path, slug := identity.Decompose(q.URL)
		filter["path"] = path
		if q.URL != "/" {
			filter["slug"] = slug
		}
	}
	if q.Path != nil {
		filter["path"] = *q.Path
	}
	if q.Slug != "" {
		filter["slug"] = q.Slug
	}
	if q.ID != "" {
		filter["_id"] = q.ID
	}

	switch {
	case q.Type != "":
		filter["type"] = q.Type
	case typeName != "":
		filter["type"] = typeName
	}

	return filter
}
