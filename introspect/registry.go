package introspect

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/treerest/treerest/schema"
)

// Entry is one handler's routing metadata, the per-handler unit of the
// spec.md §4.5 table.
type Entry struct {
	Verb        Verb         `json:"verb"`
	URLs        []string     `json:"urls"`
	Actor       bool         `json:"actor,omitempty"`
	Consumes    string       `json:"consumes,omitempty"`
	Produces    []string     `json:"produces"`
	Description string       `json:"description,omitempty"`
	CanCrash    []CrashEntry `json:"can_crash,omitempty"`
}

// CrashEntry is one declared recoverable-error response.
type CrashEntry struct {
	Returns     string `json:"returns"`
	Code        int    `json:"code"`
	Description string `json:"description,omitempty"`
}

// TypeEntry is one type's contribution to the Table: its handlers keyed by
// name, and its factory set (the union of its declared child types).
type TypeEntry struct {
	Handlers  map[string]Entry `json:"handlers"`
	Factories []string         `json:"factories,omitempty"`
}

// Table is the startup-built route table of spec.md §4.5: type name to
// handler metadata. It is read-only after Build returns (spec.md §5).
type Table map[string]TypeEntry

// Descriptable is satisfied by Builder[T] for any T; NewRegistry collects
// builders of differing T through this type-erased view.
type Descriptable interface {
	descriptor() *descriptor
}

// Registry collects handler descriptors and compiles them into a Table.
type Registry struct {
	schema *schema.Registry
	byType map[string]*descriptor
}

// NewRegistry builds a Registry from every builder's accumulated
// descriptor. schemaReg supplies the child-field graph Build walks.
func NewRegistry(schemaReg *schema.Registry, builders ...Descriptable) *Registry {
	r := &Registry{schema: schemaReg, byType: make(map[string]*descriptor, len(builders))}
	for _, b := range builders {
		d := b.descriptor()
		r.byType[d.typeName] = d
	}
	return r
}

// Build walks root's child-field graph breadth-first (deduping by type,
// ground: original_source's ysanic.py `_introspect`), producing the route
// table of spec.md §4.5. Build is a pure function of the registrations and
// the schema registry's descriptors: calling it twice on the same Registry
// yields a byte-equal (encoding/json-marshaled) Table (property P5).
func (r *Registry) Build(root reflect.Type) (Table, error) {
	for root.Kind() == reflect.Pointer {
		root = root.Elem()
	}
	rootName := root.Name()

	table := make(Table)
	visited := map[string]bool{rootName: true}
	queue := []string{rootName}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		sdesc, ok := r.schema.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("introspect: type %q has no schema.Registry descriptor", name)
		}
		isRoot := name == rootName
		recursive := sdesc.Recursive

		entries := make(map[string]Entry)
		if d, ok := r.byType[name]; ok {
			for _, h := range d.handlers {
				entries[h.name] = buildEntry(h, isRoot, recursive)
			}
		}

		table[name] = TypeEntry{
			Handlers:  entries,
			Factories: factoriesOf(sdesc),
		}

		for _, childName := range sortedChildTypeNames(sdesc) {
			if !visited[childName] {
				visited[childName] = true
				queue = append(queue, childName)
			}
		}
	}

	if _, ok := table[rootName]; !ok {
		return nil, fmt.Errorf("introspect: root type %q not visited", rootName)
	}
	return table, nil
}

func buildEntry(h *handler, isRoot, recursive bool) Entry {
	e := Entry{
		Verb:        h.verb,
		URLs:        urlsForHandler(h, isRoot, recursive),
		Actor:       h.actor,
		Produces:    []string{typeName(h.produces)},
		Description: h.description,
	}
	if h.consumes != nil {
		e.Consumes = typeName(h.consumes)
	}
	for _, c := range h.canCrash {
		e.CanCrash = append(e.CanCrash, CrashEntry{
			Returns:     typeName(reflect.TypeOf(c.Returns)),
			Code:        c.Code,
			Description: c.Description,
		})
	}
	return e
}

// urlsForHandler applies spec.md §4.5's root-vs-non-root template rule:
// templates without {Type_Path} are emitted only for the root type;
// templates with {Type_Path} are emitted for non-root types, and
// additionally for the root type when it declares itself recursive.
func urlsForHandler(h *handler, isRoot, recursive bool) []string {
	var rootOnly, withType []string
	switch h.kind {
	case kindIndex, kindRemove:
		rootOnly = []string{"/"}
		withType = []string{"/{Type_Path}/"}
	case kindCreate:
		rootOnly = []string{"/new/" + h.childKind}
		withType = []string{"/{Type_Path}/new/" + h.childKind}
	case kindAuth:
		rootOnly = []string{"/auth"}
		withType = []string{"/{Type_Path}/auth"}
	default: // kindNamed
		rootOnly = []string{"/" + h.name}
		withType = []string{"/{Type_Path}/" + h.name}
	}

	var urls []string
	if isRoot {
		urls = append(urls, rootOnly...)
	}
	if !isRoot || recursive {
		urls = append(urls, withType...)
	}
	return urls
}

// factoriesOf returns the sorted, deduplicated union of a type's declared
// child types (spec.md §4.5).
func factoriesOf(sdesc *schema.Descriptor) []string {
	seen := make(map[string]bool, len(sdesc.ChildFields))
	names := make([]string, 0, len(sdesc.ChildFields))
	for _, cf := range sdesc.ChildFields {
		if !seen[cf.ChildType] {
			seen[cf.ChildType] = true
			names = append(names, cf.ChildType)
		}
	}
	sort.Strings(names)
	return names
}

// sortedChildTypeNames returns a type's distinct child types in a
// deterministic order (sorted by declaring field name, then deduped),
// keeping Build's BFS order independent of Go's randomized map iteration —
// required for P5.
func sortedChildTypeNames(sdesc *schema.Descriptor) []string {
	fieldNames := make([]string, 0, len(sdesc.ChildFields))
	for fn := range sdesc.ChildFields {
		fieldNames = append(fieldNames, fn)
	}
	sort.Strings(fieldNames)

	seen := make(map[string]bool, len(fieldNames))
	names := make([]string, 0, len(fieldNames))
	for _, fn := range fieldNames {
		ct := sdesc.ChildFields[fn].ChildType
		if !seen[ct] {
			seen[ct] = true
			names = append(names, ct)
		}
	}
	return names
}

// typeName derefs pointers and slices to a bare type name, prefixing "[]"
// once per slice level so list-producing handlers are distinguishable in
// the table (e.g. Index returning []*Task reports "[]Task").
func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	prefix := ""
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
		if t.Kind() == reflect.Slice {
			prefix += "[]"
		}
		t = t.Elem()
	}
	return prefix + t.Name()
}
