// Package schema implements the node schema registry (C2): per-type field
// metadata, child-list fields, and the composition chain, memoized the
// first time each type is registered.
//
// Go has no multiple inheritance, so the composition chain that spec.md
// describes as "assembled from a sequence of feature bases" is recorded
// explicitly by the type's author via WithFeatures, rather than derived from
// an embedding graph — embedding order in Go doesn't reliably mirror Python's
// MRO, and guessing at it would produce an x-features list nobody asked for.
package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// IndexMode says whether a child-list field stores child slugs or child ids.
type IndexMode int

const (
	BySlug IndexMode = iota
	ByID
)

func (m IndexMode) String() string {
	if m == ByID {
		return "by-id"
	}
	return "by-slug"
}

// ChildField describes one child-list field declared on a parent type.
type ChildField struct {
	FieldName string
	ChildType string
	Index     IndexMode
}

// Descriptor is the memoized per-type metadata the registry computes once.
type Descriptor struct {
	TypeName     string
	GoType       reflect.Type
	Features     []string
	SlugerFields []string
	ChildFields  map[string]ChildField
	Recursive    bool
}

// Registry caches Descriptors per registered type name.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]*Descriptor
	byGoTyp map[reflect.Type]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]*Descriptor),
		byGoTyp: make(map[reflect.Type]*Descriptor),
	}
}

// Option configures a Descriptor at registration time.
type Option func(*Descriptor)

// WithFeatures records the ordered composition chain exposed as x-features.
func WithFeatures(features ...string) Option {
	return func(d *Descriptor) { d.Features = append(d.Features, features...) }
}

// WithSlugerFields overrides the slug-source tuple auto-detected from the
// `tree:"slug"` struct tag. Use this when the source fields aren't plain
// struct fields (e.g. derived from two fields joined together).
func WithSlugerFields(fields ...string) Option {
	return func(d *Descriptor) { d.SlugerFields = fields }
}

// WithRecursive marks a type as self-referential: it declares a child-list
// field whose ChildType is itself. Root types that are recursive get the
// non-root URL templates too (spec.md §4.5).
func WithRecursive() Option {
	return func(d *Descriptor) { d.Recursive = true }
}

// Register computes and caches a Descriptor for the Go type of zero. Field
// tags recognized:
//
//	`tree:"slug"`                     marks a sluger-source field
//	`tree:"child,type=Task,by=slug"`  declares a child-list field
//	`tree:"child,type=Task,by=id"`    same, id-indexed
//
// Registering the same type name twice returns the cached Descriptor
// unchanged; Options passed on the second call are ignored.
func (r *Registry) Register(typeName string, zero any, opts ...Option) *Descriptor {
	t := reflect.TypeOf(zero)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.byName[typeName]; ok {
		return d
	}

	d := &Descriptor{
		TypeName:    typeName,
		GoType:      t,
		ChildFields: make(map[string]ChildField),
	}

	scanFields(t, d)

	for _, opt := range opts {
		opt(d)
	}

	if len(d.SlugerFields) == 0 {
		d.SlugerFields = []string{"Name"}
	}

	for _, cf := range d.ChildFields {
		if cf.ChildType == typeName {
			d.Recursive = true
		}
	}

	r.byName[typeName] = d
	r.byGoTyp[t] = d
	return d
}

// Lookup returns the Descriptor for a registered type name.
func (r *Registry) Lookup(typeName string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[typeName]
	return d, ok
}

// LookupGoType returns the Descriptor for a registered Go type.
func (r *Registry) LookupGoType(t reflect.Type) (*Descriptor, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byGoTyp[t]
	return d, ok
}

// TypeNames returns every registered type name, in registration order is not
// guaranteed (map iteration).
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}

func scanFields(t reflect.Type, d *Descriptor) {
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("tree")
		if tag == "" {
			continue
		}

		parts := strings.Split(tag, ",")
		switch parts[0] {
		case "slug":
			d.SlugerFields = append(d.SlugerFields, field.Name)

		case "child":
			cf := ChildField{FieldName: field.Name}
			for _, part := range parts[1:] {
				key, value, _ := strings.Cut(part, "=")
				switch key {
				case "type":
					cf.ChildType = value
				case "by":
					if value == "id" {
						cf.Index = ByID
					} else {
						cf.Index = BySlug
					}
				}
			}
			if cf.ChildType == "" {
				panic(fmt.Sprintf("schema: field %s.%s declares a child without type=", t.Name(), field.Name))
			}
			d.ChildFields[field.Name] = cf
		}
	}
}
