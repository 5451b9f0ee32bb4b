// Package store implements the persistence layer (C3): recursive retrieval,
// ancestor/children queries, and the transactional rewrites required when a
// node is renamed, moved, or deleted, per spec.md §4.3.
package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/treerest/treerest/envelope"
	"github.com/treerest/treerest/identity"
	"github.com/treerest/treerest/schema"
)

// Store is the entry point for every persistence operation in spec.md §4.3.
type Store struct {
	backend  Backend
	registry *schema.Registry

	mu   sync.RWMutex
	ctor map[string]func() Node
}

// New creates a Store backed by backend, resolving per-type metadata through
// registry.
func New(backend Backend, registry *schema.Registry) *Store {
	return &Store{
		backend:  backend,
		registry: registry,
		ctor:     make(map[string]func() Node),
	}
}

// RegisterType associates a type name with a constructor for its concrete Go
// struct, so the store can reconstruct the right type from a raw document
// (spec.md §9's "tagged variant" redesign of dynamic-typed reconstruction).
func (s *Store) RegisterType(typeName string, ctor func() Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctor[typeName] = ctor
}

func (s *Store) constructorFor(typeName string) (func() Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctor, ok := s.ctor[typeName]
	if !ok {
		return nil, fmt.Errorf("store: no constructor registered for type %q", typeName)
	}
	return ctor, nil
}

func (s *Store) decode(raw bson.M) (Node, error) {
	typeName, _ := raw["type"].(string)
	ctor, err := s.constructorFor(typeName)
	if err != nil {
		return nil, err
	}
	node := ctor()

	data, err := bson.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("store: marshal doc: %w", err)
	}
	if err := bson.Unmarshal(data, node); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", typeName, err)
	}
	return node, nil
}

// GetOne returns the unique matching node, or envelope.ErrNotFound.
func (s *Store) GetOne(ctx context.Context, typeName string, q Query) (Node, error) {
	raw, err := s.backend.FindOne(ctx, q.filter(typeName), q.Sort)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, envelope.ErrNotFound
	}
	return s.decode(raw)
}

// GetMany returns every matching node, ordered per q.Sort.
func (s *Store) GetMany(ctx context.Context, typeName string, q Query) ([]Node, error) {
	docs, err := s.backend.Find(ctx, q.filter(typeName), q.Sort)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(docs))
	for _, raw := range docs {
		n, err := s.decode(raw)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Create inserts node, assigning its id. Fails with envelope.ErrDuplicateKey
// when (path, slug) collides.
func (s *Store) Create(ctx context.Context, node Node) error {
	base := node.GetBase()
	if base.Type == "" {
		base.Type = typeNameOf(node)
	}
	if base.ID == "" {
		base.ID = bson.NewObjectID().Hex()
	}
	if base.Slug == "" {
		desc, ok := s.registry.Lookup(base.Type)
		if ok {
			base.Slug = identity.Slugify(slugerSource(node, desc, nil))
		}
	}

	if err := s.backend.BulkWrite(ctx, []WriteOp{{Kind: OpInsert, Doc: node}}); err != nil {
		if mongo.IsDuplicateKeyError(err) || errors.Is(err, ErrDuplicate) {
			return envelope.Wrap(envelope.KindDuplicateKey, "duplicate key", err)
		}
		return err
	}
	return nil
}

func typeNameOf(node Node) string {
	t := reflect.TypeOf(node)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// slugerSource returns the slug-source string for node, applying patch
// overrides (Go field names) and consulting the Sluger interface when
// implemented.
func slugerSource(node Node, desc *schema.Descriptor, patch map[string]any) string {
	if sl, ok := node.(Sluger); ok {
		return sl.SlugerSource(patch)
	}

	v := reflect.ValueOf(node)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	parts := make([]string, 0, len(desc.SlugerFields))
	for _, f := range desc.SlugerFields {
		if val, ok := patch[f]; ok {
			parts = append(parts, fmt.Sprint(val))
			continue
		}
		fv := v.FieldByName(f)
		if fv.IsValid() {
			parts = append(parts, fmt.Sprint(fv.Interface()))
		}
	}
	return strings.Join(parts, " ")
}

// Ancestors returns either the immediate parent (parentOnly) or the full
// ancestor chain root-first, per spec.md §4.3.
func (s *Store) Ancestors(ctx context.Context, node Node, parentOnly bool) ([]Node, error) {
	base := node.GetBase()
	url := base.URL()
	if url == "/" {
		return nil, nil
	}

	chain := identity.Parents(url)
	or := make(bson.A, 0, len(chain))
	for _, ps := range chain {
		if ps == identity.Root {
			continue
		}
		or = append(or, bson.M{"path": ps.Path, "slug": ps.Slug})
	}
	or = append(or, bson.M{"path": ""})

	filter := bson.M{"$or": or}

	if parentOnly {
		// Deepest path first: the immediate parent is the longest-path match.
		raw, err := s.backend.FindOne(ctx, filter, bson.D{{Key: "path", Value: -1}})
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, nil
		}
		n, err := s.decode(raw)
		if err != nil {
			return nil, err
		}
		return []Node{n}, nil
	}

	// Shallowest path first: the full chain is returned root-first.
	docs, err := s.backend.Find(ctx, filter, bson.D{{Key: "path", Value: 1}})
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(docs))
	for _, raw := range docs {
		n, err := s.decode(raw)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// parent returns the immediate parent, or nil if node is the root.
func (s *Store) parent(ctx context.Context, node Node) (Node, error) {
	ancestors, err := s.Ancestors(ctx, node, true)
	if err != nil || len(ancestors) == 0 {
		return nil, err
	}
	return ancestors[0], nil
}

// Children resolves every child-list field declared on node's type,
// returning child nodes keyed by field name, ordered to match the parent's
// declared order unless sort is given (spec.md §4.3).
func (s *Store) Children(ctx context.Context, node Node, sort map[string]mongo.Pipeline, extra map[string]bson.M) (map[string][]Node, error) {
	base := node.GetBase()
	desc, ok := s.registry.Lookup(base.Type)
	if !ok {
		return nil, fmt.Errorf("store: type %q not registered", base.Type)
	}

	results := make(map[string][]Node, len(desc.ChildFields))
	for fieldName, cf := range desc.ChildFields {
		indexes := fieldStringSlice(node, fieldName)

		var match bson.M
		var indexerExpr string
		if cf.Index == schema.ByID {
			match = bson.M{"_id": bson.M{"$in": toAnySlice(indexes)}}
			indexerExpr = "$_id"
		} else {
			match = bson.M{"type": cf.ChildType, "path": base.URL()}
			indexerExpr = "$slug"
		}
		if extraMatch, ok := extra[cf.ChildType]; ok {
			for k, v := range extraMatch {
				match[k] = v
			}
		}

		var pipeline mongo.Pipeline
		if custom, ok := sort[cf.ChildType]; ok {
			pipeline = append(mongo.Pipeline{{{Key: "$match", Value: match}}}, custom...)
		} else {
			pipeline = mongo.Pipeline{
				{{Key: "$match", Value: match}},
				{{Key: "$addFields", Value: bson.M{"__order": bson.M{"$indexOfArray": bson.A{toAnySlice(indexes), indexerExpr}}}}},
				{{Key: "$sort", Value: bson.M{"__order": 1}}},
			}
		}

		docs, err := s.backend.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, err
		}

		children := make([]Node, 0, len(docs))
		for _, raw := range docs {
			delete(raw, "__order")
			n, err := s.decode(raw)
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		}
		results[fieldName] = children
	}
	return results, nil
}

// GetPath resolves url to a node, walking toward root up to tolerance
// additional steps when the exact url doesn't match (spec.md §4.3.4).
func (s *Store) GetPath(ctx context.Context, rootTypeName, url string, tolerance int) (Node, error) {
	if url == "/" {
		return s.GetOne(ctx, rootTypeName, Query{Path: strPtr("")})
	}

	cur := url
	for steps := 0; ; steps++ {
		raw, err := s.backend.FindOne(ctx, Query{URL: cur}.filter(""), nil)
		if err != nil {
			return nil, err
		}
		if raw != nil {
			return s.decode(raw)
		}

		if steps >= tolerance {
			break
		}

		parentPath, _ := identity.Decompose(cur)
		if parentPath == "/" {
			return s.GetOne(ctx, rootTypeName, Query{Path: strPtr("")})
		}
		if parentPath == cur {
			break
		}
		cur = parentPath
	}

	return nil, envelope.Wrap(envelope.KindNotFound, fmt.Sprintf("%s not found", url), nil)
}

func strPtr(s string) *string { return &s }

func fieldStringSlice(node Node, fieldName string) []string {
	v := reflect.ValueOf(node)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	fv := v.FieldByName(fieldName)
	if !fv.IsValid() || fv.Kind() != reflect.Slice {
		return nil
	}
	out := make([]string, fv.Len())
	for i := range out {
		out[i] = fmt.Sprint(fv.Index(i).Interface())
	}
	return out
}

func setFieldStringSlice(node Node, fieldName string, values []string) {
	v := reflect.ValueOf(node)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	fv := v.FieldByName(fieldName)
	if !fv.IsValid() || !fv.CanSet() {
		return
	}
	fv.Set(reflect.ValueOf(values))
}

func toAnySlice(s []string) bson.A {
	a := make(bson.A, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
