// Package introspect implements the startup introspection engine (C5).
//
// spec.md §9 redesigns the source's runtime method-scanning ("methods whose
// first parameter is request") into something a static language can express
// without reflecting over a type's method set: domain model authors call a
// fluent builder — Describe[T]().Index(...).Handler(...).Create(...) — to
// register handlers explicitly, mirroring the teacher's own
// openapi.OperationBuilder fluent API almost exactly. Registry.Build then
// walks the registered descriptors through the schema.Registry's child-field
// graph to produce the route table spec.md §4.5 describes.
package introspect

import (
	"context"
	"reflect"
)

// Verb is the HTTP verb a handler is dispatched under.
type Verb string

const (
	GET    Verb = "GET"
	POST   Verb = "POST"
	PUT    Verb = "PUT"
	DELETE Verb = "DELETE"
)

// Actor is the marker parameter type a handler declares, before any body
// parameter, to receive the authenticated actor's user id. Its presence in a
// handler's signature is how the builder detects the "actor" tag of spec.md
// §4.5 — it carries no behavior of its own, it exists to be type-matched.
type Actor string

// Crash describes one recoverable error a handler declares via CanCrash: if
// the handler's error return satisfies errors.Is(err, Err), the dispatcher
// converts it to Returns at Code instead of falling through to a 500
// (spec.md §4.5, §7).
type Crash struct {
	Err         error
	Returns     any
	Code        int
	Description string
}

var (
	ctxType   = reflect.TypeFor[context.Context]()
	errType   = reflect.TypeFor[error]()
	actorType = reflect.TypeFor[Actor]()
)
