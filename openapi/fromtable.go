package openapi

import (
	"encoding/json"
	"net/http"
	"reflect"
	"sort"

	"github.com/treerest/treerest/introspect"
	"github.com/treerest/treerest/mux"
)

// SpecFromTable projects an introspect.Table into an OpenAPI Document —
// spec.md §4.8's "pure projection of the introspection result", reusing
// this package's existing schema generation and path-template parsing
// unchanged. It never drives live HTTP routing: treemux.Dispatcher resolves
// every request at runtime against store.GetPath instead (see DESIGN.md's
// C6 redesign note). SpecFromTable builds one throwaway *mux.Router
// carrying a literal named route per Table URL template purely so
// Spec.Build's walk — written for the teacher's static-route style — has
// something to walk.
//
// The operationId convention is "<Type>/<handler>", with "Root" substituted
// for the tree's root type name, per spec.md §4.8; each operation is tagged
// with its owning type so the generated document groups by tree type the
// same way the table itself does.
func SpecFromTable(docInfo Info, rootType string, reg *introspect.Registry, table introspect.Table) *Document {
	spec := NewSpec(docInfo)
	r := mux.NewRouter()

	typeNames := make([]string, 0, len(table))
	for t := range table {
		typeNames = append(typeNames, t)
	}
	sort.Strings(typeNames)

	for _, typeName := range typeNames {
		entry := table[typeName]
		handlerNames := make([]string, 0, len(entry.Handlers))
		for n := range entry.Handlers {
			handlerNames = append(handlerNames, n)
		}
		sort.Strings(handlerNames)

		for _, name := range handlerNames {
			h := entry.Handlers[name]
			opID := operationID(rootType, typeName, name)
			hInfo, hasInfo := reg.Lookup(typeName, name)

			for _, url := range h.URLs {
				route := r.Methods(string(h.Verb)).Path(url).Name(opID)
				b := spec.Route(route).OperationID(opID).Tags(typeName)
				if h.Description != "" {
					b.Description(h.Description)
				}
				if hasInfo && hInfo.Consumes != nil {
					b.Request(zeroValue(hInfo.Consumes))
				}
				if hasInfo && hInfo.Produces != nil {
					b.Response(200, zeroValue(hInfo.Produces))
				}
				for _, c := range h.CanCrash {
					b.ResponseDescription(c.Code, c.Description)
				}
			}
		}
	}

	return spec.Build(r)
}

// ServeDocument returns a handler serving a precomputed Document as JSON.
// Unlike Spec.Handle's lazily-built registerJSON, doc here is already final
// — SpecFromTable builds it once at startup from the introspection table,
// not from the live treemux.Dispatcher's four catch-all routes, which carry
// no per-operation route names for Spec.Build to walk.
func ServeDocument(doc *Document) http.HandlerFunc {
	data, err := json.MarshalIndent(doc, "", "  ")
	return func(w http.ResponseWriter, _ *http.Request) {
		if err != nil {
			http.Error(w, "failed to serialize OpenAPI spec as JSON", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// operationID builds the "<Type>/<handler>" convention spec.md §4.8 names,
// substituting "Root" for rootType.
func operationID(rootType, typeName, name string) string {
	label := typeName
	if typeName == rootType {
		label = "Root"
	}
	return label + "/" + name
}

// zeroValue returns a zero instance of t (dereferencing one level of
// pointer) for the schema generator to reflect over.
func zeroValue(t reflect.Type) any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return reflect.New(t).Elem().Interface()
}
