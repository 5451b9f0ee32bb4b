package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/treerest/treerest/envelope"
	"github.com/treerest/treerest/identity"
	"github.com/treerest/treerest/schema"
)

// probe is a throwaway Node used to resolve ancestors/children for a
// (path, slug, type) triple that doesn't correspond to a live struct value,
// e.g. a node's address before an in-flight rename is applied.
type probe struct{ Base }

// applyPatch sets every named Go field on node to its patch value, by
// reflection. Patch keys are Go field names, matching Query/Sluger
// conventions elsewhere in this package.
func applyPatch(node Node, patch map[string]any) {
	v := reflect.ValueOf(node)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	for name, val := range patch {
		fv := v.FieldByName(name)
		if !fv.IsValid() || !fv.CanSet() {
			continue
		}
		rv := reflect.ValueOf(val)
		if rv.IsValid() && rv.Type().AssignableTo(fv.Type()) {
			fv.Set(rv)
		}
	}
}

func touchesAny(patch map[string]any, fields []string) bool {
	for _, f := range fields {
		if _, ok := patch[f]; ok {
			return true
		}
	}
	return false
}

// bsonKey resolves the bson document key for node's Go field fieldName,
// honoring its bson struct tag. Falls back to the lowercased field name,
// matching the official driver's default when no tag is present.
func bsonKey(node Node, fieldName string) string {
	t := reflect.TypeOf(node)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	f, ok := t.FieldByName(fieldName)
	if !ok {
		return strings.ToLower(fieldName)
	}
	tag := f.Tag.Get("bson")
	if tag == "" || tag == "-" {
		return strings.ToLower(fieldName)
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(fieldName)
	}
	return name
}

// Update applies patch (keyed by Go field names) to node and persists it.
// When patch touches a sluger field, the slug is re-derived and, if the
// resulting url differs from the current one, every descendant's path and
// the parent's child-list field are rewritten in the same batched write
// (spec.md §4.3.1). This collapses the Python original's recursive
// self.update(parent, ...) call into one transaction.
func (s *Store) Update(ctx context.Context, node Node, patch map[string]any) error {
	base := node.GetBase()
	desc, ok := s.registry.Lookup(base.Type)
	if !ok {
		return fmt.Errorf("store: type %q not registered", base.Type)
	}

	oldPath, oldSlug := base.Path, base.Slug
	oldURL := base.URL()

	applyPatch(node, patch)

	if touchesAny(patch, desc.SlugerFields) || patch["Slug"] != nil {
		if slugOverride, ok := patch["Slug"].(string); ok && slugOverride != "" {
			base.Slug = identity.Slugify(slugOverride)
		} else {
			base.Slug = identity.Slugify(slugerSource(node, desc, patch))
		}
	}
	if p, ok := patch["Path"].(string); ok {
		base.Path = p
	}

	newURL := base.URL()

	if newURL == oldURL {
		return s.backend.BulkWrite(ctx, []WriteOp{{
			Kind: OpUpdateByID,
			ID:   base.ID,
			Set:  selfSet(node),
		}})
	}

	oldProbe := &probe{Base: Base{Type: base.Type, Path: oldPath, Slug: oldSlug}}
	parent, err := s.parent(ctx, oldProbe)
	if err != nil {
		return err
	}

	descendants, err := s.backend.FindByPathPrefix(ctx, oldURL)
	if err != nil {
		return err
	}

	ops := []WriteOp{{
		Kind: OpUpdateByID,
		ID:   base.ID,
		Set:  selfSet(node),
	}}

	for _, raw := range descendants {
		childID, _ := raw["_id"].(string)
		childPath, _ := raw["path"].(string)
		if !strings.HasPrefix(childPath, oldURL) {
			continue
		}
		rewritten := newURL + strings.TrimPrefix(childPath, oldURL)
		ops = append(ops, WriteOp{
			Kind: OpUpdateByID,
			ID:   childID,
			Set:  bson.M{"path": rewritten},
		})
	}

	if parent != nil {
		if set, ok := s.parentListRewrite(parent, base.Type, oldSlug, base.Slug); ok {
			ops = append(ops, WriteOp{
				Kind: OpUpdateByID,
				ID:   parent.GetBase().ID,
				Set:  set,
			})
		}
	}

	return s.backend.BulkWrite(ctx, ops)
}

// selfSet builds the bson.M of every persisted field on node, for a full
// document replace-by-set.
func selfSet(node Node) bson.M {
	data, err := bson.Marshal(node)
	if err != nil {
		return bson.M{}
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return bson.M{}
	}
	delete(doc, "_id")
	return doc
}

// parentListRewrite finds every child field on parent whose ChildType
// matches childType and replaces oldSlug with newSlug in its ordered list
// (spec.md §4.3.1 step 4). A type may legitimately expose more than one
// field for the same child type (e.g. "members" and "admins" both holding
// User slugs); every matching field that currently contains oldSlug is
// rewritten.
func (s *Store) parentListRewrite(parent Node, childType, oldSlug, newSlug string) (bson.M, bool) {
	pdesc, ok := s.registry.Lookup(parent.GetBase().Type)
	if !ok {
		return nil, false
	}
	set := bson.M{}
	for fieldName, cf := range pdesc.ChildFields {
		if cf.ChildType != childType || cf.Index != schema.BySlug {
			continue
		}
		values := fieldStringSlice(parent, fieldName)
		changed := false
		for i, v := range values {
			if v == oldSlug {
				values[i] = newSlug
				changed = true
			}
		}
		if changed {
			setFieldStringSlice(parent, fieldName, values)
			set[bsonKey(parent, fieldName)] = values
		}
	}
	if len(set) == 0 {
		return nil, false
	}
	return set, true
}

// Delete removes node and every descendant, then removes it from its
// parent's child-list field, in one batched write (spec.md §4.3.3).
func (s *Store) Delete(ctx context.Context, node Node) error {
	base := node.GetBase()
	url := base.URL()

	parent, err := s.parent(ctx, node)
	if err != nil {
		return err
	}

	ops := []WriteOp{
		{Kind: OpDeleteByID, ID: base.ID},
		{Kind: OpDeleteByPathPrefix, PathPrefix: url},
	}

	if parent != nil {
		pdesc, ok := s.registry.Lookup(parent.GetBase().Type)
		if ok {
			set := bson.M{}
			for fieldName, cf := range pdesc.ChildFields {
				if cf.ChildType != base.Type {
					continue
				}
				values := fieldStringSlice(parent, fieldName)
				out := values[:0:0]
				removed := false
				for _, v := range values {
					if v == base.Slug || v == base.ID {
						removed = true
						continue
					}
					out = append(out, v)
				}
				if removed {
					setFieldStringSlice(parent, fieldName, out)
					set[bsonKey(parent, fieldName)] = out
				}
			}
			if len(set) > 0 {
				ops = append(ops, WriteOp{Kind: OpUpdateByID, ID: parent.GetBase().ID, Set: set})
			}
		}
	}

	return s.backend.BulkWrite(ctx, ops)
}

// CreateChild inserts child under parent's fieldName child-list field,
// assigning the child's id client-side so the insert and the parent
// list-append can be expressed as one batched write. Returns
// envelope.ErrChildAmbiguity when parent's type declares more than one
// child field for child's type and fieldName is empty.
func (s *Store) CreateChild(ctx context.Context, parent Node, fieldName string, child Node) error {
	pdesc, ok := s.registry.Lookup(parent.GetBase().Type)
	if !ok {
		return fmt.Errorf("store: type %q not registered", parent.GetBase().Type)
	}

	cbase := child.GetBase()
	if cbase.Type == "" {
		cbase.Type = typeNameOf(child)
	}

	if fieldName == "" {
		var candidates []string
		for fn, cf := range pdesc.ChildFields {
			if cf.ChildType == cbase.Type {
				candidates = append(candidates, fn)
			}
		}
		switch len(candidates) {
		case 0:
			return fmt.Errorf("store: %q has no child field for type %q", pdesc.TypeName, cbase.Type)
		case 1:
			fieldName = candidates[0]
		default:
			sort.Strings(candidates)
			return envelope.Wrap(envelope.KindChildAmbiguity,
				fmt.Sprintf("ambiguous child field for type %q: candidates %s", cbase.Type, strings.Join(candidates, ", ")),
				envelope.ErrChildAmbiguity)
		}
	}

	cf, ok := pdesc.ChildFields[fieldName]
	if !ok {
		return fmt.Errorf("store: %q has no child field %q", pdesc.TypeName, fieldName)
	}

	cbase.Path = parent.GetBase().URL()
	if cbase.ID == "" {
		cbase.ID = newObjectID()
	}
	if cbase.Slug == "" {
		desc, ok := s.registry.Lookup(cbase.Type)
		if ok {
			cbase.Slug = identity.Slugify(slugerSource(child, desc, nil))
		}
	}

	indexValue := cbase.Slug
	if cf.Index == schema.ByID {
		indexValue = cbase.ID
	}

	values := fieldStringSlice(parent, fieldName)
	values = append(values, indexValue)
	setFieldStringSlice(parent, fieldName, values)

	ops := []WriteOp{
		{Kind: OpInsert, Doc: child},
		{Kind: OpUpdateByID, ID: parent.GetBase().ID, Set: bson.M{bsonKey(parent, fieldName): values}},
	}

	if err := s.backend.BulkWrite(ctx, ops); err != nil {
		if mongo.IsDuplicateKeyError(err) || errors.Is(err, ErrDuplicate) {
			return envelope.Wrap(envelope.KindDuplicateKey, "duplicate key", err)
		}
		return err
	}
	return nil
}

func newObjectID() string {
	return bson.NewObjectID().Hex()
}
