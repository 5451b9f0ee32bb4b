package treemux

import (
	"context"

	"github.com/treerest/treerest/envelope"
	"github.com/treerest/treerest/introspect"
	"github.com/treerest/treerest/store"
)

// PermissionChecker is the out-of-scope collaborator spec.md §6 names: a
// rule store queryable by (context, name), each match exposing
// Allows(actor, node) -> bool. It is assumed, not implemented, by this
// package — see the permission package for a concrete store-backed one.
//
// A nil PermissionChecker on Config disables the authorization gate
// entirely: every request dispatches unchecked, the same as before this
// gate existed. Wiring one in turns the gate on for every route the
// Dispatcher serves.
type PermissionChecker interface {
	Lookup(ctx context.Context, contextType, name string) (PermissionRule, bool, error)
}

// PermissionRule is one matched Permission record.
type PermissionRule interface {
	Allows(actor introspect.Actor, node store.Node) bool
}

// authorize implements spec.md §4.6 step 3: load the Permission record
// keyed by (context=node.type, name=member), substituting "call" for
// "index", and deny with envelope.ErrUnauthorized unless a rule matches and
// its Allows(actor, node) returns true.
func (d *Dispatcher) authorize(ctx context.Context, node store.Node, name string, actor introspect.Actor) error {
	if d.permissions == nil {
		return nil
	}
	if name == "index" {
		name = "call"
	}
	rule, ok, err := d.permissions.Lookup(ctx, node.GetBase().Type, name)
	if err != nil {
		return err
	}
	if !ok || !rule.Allows(actor, node) {
		return envelope.ErrUnauthorized
	}
	return nil
}
