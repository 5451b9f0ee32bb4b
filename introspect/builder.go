package introspect

import "reflect"

// Builder registers handlers for node type T via a fluent chain, mirroring
// the shape of the teacher's openapi.OperationBuilder (operation.go): every
// method returns the receiver so calls compose into one declaration.
//
//	introspect.Describe[Group]().
//	    Index(group.Index).
//	    Handler("stats", introspect.GET, group.Stats).
//	    Create("task", group.CreateTask).
//	    Auth(group.Auth).
//	    Remove(group.Remove).
//	    CanCrash(introspect.Crash{Err: ErrQuotaExceeded, Returns: QuotaError{}, Code: 422})
//
// fn parameters are accepted as `any` rather than a generic handler type:
// Go forbids a method from introducing type parameters beyond those already
// bound on its receiver, so the concrete consume/produce types a handler
// declares (its third parameter, its first return value) are recovered by
// reflecting on the one committed function value passed in — not by
// scanning a type's method set the way the source's runtime introspection
// does. Describe[T] fixes every handler's receiver parameter to *T.
type Builder[T any] struct {
	d        *descriptor
	nodeType reflect.Type
}

// Describe starts a handler registration chain for node type T. The type
// name used throughout the built Table is T's bare Go type name, which must
// match the name T was registered under in the schema.Registry.
func Describe[T any]() *Builder[T] {
	var zero T
	nodeType := reflect.TypeOf(&zero)
	return &Builder[T]{
		d:        newDescriptor(nodeType.Elem().Name()),
		nodeType: nodeType,
	}
}

func (b *Builder[T]) add(name string, kind handlerKind, verb Verb, fn any, childKind string) *Builder[T] {
	actor, consumes, produces := inspectFunc(b.nodeType, fn)
	b.d.handlers = append(b.d.handlers, &handler{
		name:      name,
		kind:      kind,
		verb:      verb,
		actor:     actor,
		consumes:  consumes,
		produces:  produces,
		childKind: childKind,
		fn:        reflect.ValueOf(fn),
	})
	return b
}

// Index registers the type's GET index handler (urls "/" and/or
// "/{Type_Path}/" per spec.md §4.5).
func (b *Builder[T]) Index(fn any) *Builder[T] {
	return b.add("index", kindIndex, GET, fn, "")
}

// Handler registers a named handler under the given verb. GET handlers with
// no consume parameter route at "/{name}"; PUT handlers with a consume
// parameter do too — the verb is the caller's choice, matching spec.md
// §4.5's two "other" rows.
func (b *Builder[T]) Handler(name string, verb Verb, fn any) *Builder[T] {
	return b.add(name, kindNamed, verb, fn, "")
}

// Create registers a factory handler minting a new childKind child, routed
// at POST "/new/<childKind>".
func (b *Builder[T]) Create(childKind string, fn any) *Builder[T] {
	return b.add("create_"+childKind, kindCreate, POST, fn, childKind)
}

// Auth registers the type's credential-exchange handler at POST "/auth".
func (b *Builder[T]) Auth(fn any) *Builder[T] {
	return b.add("auth", kindAuth, POST, fn, "")
}

// Remove registers the type's DELETE handler.
func (b *Builder[T]) Remove(fn any) *Builder[T] {
	return b.add("remove", kindRemove, DELETE, fn, "")
}

// Description attaches a human-readable description to the most recently
// registered handler, surfaced by the OpenAPI projector (C8).
func (b *Builder[T]) Description(text string) *Builder[T] {
	if len(b.d.handlers) > 0 {
		b.d.handlers[len(b.d.handlers)-1].description = text
	}
	return b
}

// CanCrash attaches a recoverable-error response to the most recently
// registered handler. Call it immediately after the handler it describes.
func (b *Builder[T]) CanCrash(c Crash) *Builder[T] {
	if len(b.d.handlers) > 0 {
		last := b.d.handlers[len(b.d.handlers)-1]
		last.canCrash = append(last.canCrash, c)
	}
	return b
}

// descriptor type-erases the builder so NewRegistry can collect Builder[T]
// values of differing T into one slice.
func (b *Builder[T]) descriptor() *descriptor { return b.d }
