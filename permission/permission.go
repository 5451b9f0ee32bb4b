// Package permission supplies the one concrete implementation of the
// Permission collaborator spec.md §6 otherwise treats as external: a rule
// stored like any other tree node, queryable by (context, name), exposing
// Allows(actor, node) -> bool. treemux.Dispatcher only depends on the
// narrower treemux.PermissionChecker/PermissionRule interfaces it declares;
// this package is what satisfies them for real.
package permission

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/treerest/treerest/envelope"
	"github.com/treerest/treerest/introspect"
	"github.com/treerest/treerest/store"
	"github.com/treerest/treerest/treemux"
)

// Rule is a stored Permission record, addressed by (Context, Name) rather
// than by tree path — it never appears in any parent's child-list field.
type Rule struct {
	store.Base `bson:",inline"`
	Context    string `bson:"context" json:"context"`
	Name       string `bson:"name" json:"name"`
	// Allow selects the evaluation strategy:
	//   "anonymous" admits every actor, including the unresolved zero Actor.
	//   "actor"     requires any resolved (non-zero) actor.
	//   "owner"     additionally requires actor to match the addressed
	//               node's OwnerID, when node implements Owned.
	Allow string `bson:"allow" json:"allow"`
}

// Owned is implemented by a domain node type whose "owner" rule needs to
// compare the resolved actor against a specific field rather than accept
// any authenticated one.
type Owned interface {
	OwnerID() string
}

// Allows evaluates r against actor and node, satisfying
// treemux.PermissionRule.
func (r *Rule) Allows(actor introspect.Actor, node store.Node) bool {
	switch r.Allow {
	case "anonymous":
		return true
	case "actor":
		return actor != ""
	case "owner":
		owned, ok := node.(Owned)
		return ok && actor != "" && string(actor) == owned.OwnerID()
	default:
		return false
	}
}

// Store is the subset of *store.Store a Checker depends on.
type Store interface {
	GetOne(ctx context.Context, typeName string, q store.Query) (store.Node, error)
}

// Checker adapts a Store of Rule documents to treemux.PermissionChecker.
// Register "Permission" with both the schema.Registry and the store's type
// constructors before using one.
type Checker struct {
	store Store
}

// NewChecker builds a Checker backed by s.
func NewChecker(s Store) *Checker {
	return &Checker{store: s}
}

// Lookup finds the Rule keyed by (contextType, name), satisfying
// treemux.PermissionChecker. A missing rule is reported as (nil, false,
// nil), not an error — the dispatcher treats "no rule" and "rule denies"
// identically, both as 401.
func (c *Checker) Lookup(ctx context.Context, contextType, name string) (treemux.PermissionRule, bool, error) {
	raw, err := c.store.GetOne(ctx, "Permission", store.Query{
		Extra: bson.M{"context": contextType, "name": name},
	})
	if err != nil {
		if errors.Is(err, envelope.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	rule, ok := raw.(*Rule)
	if !ok {
		return nil, false, nil
	}
	return rule, true, nil
}
