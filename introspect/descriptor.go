package introspect

import (
	"fmt"
	"reflect"
)

type handlerKind int

const (
	kindIndex handlerKind = iota
	kindNamed
	kindCreate
	kindAuth
	kindRemove
)

// handler is one registered entry in a descriptor's chain, in the order
// Describe's builder methods were called.
type handler struct {
	name        string
	kind        handlerKind
	verb        Verb
	actor       bool
	consumes    reflect.Type // nil when the handler declares no body
	produces    reflect.Type
	childKind   string // set for kindCreate: the "<c>" in create_<c>
	description string
	canCrash    []Crash
	fn          reflect.Value // the registered function, for Registry.Invoke
}

// descriptor is the type-erased, per-type registration a Builder[T] builds
// up. Registry.Build walks a map of these keyed by type name.
type descriptor struct {
	typeName string
	handlers []*handler
}

func newDescriptor(typeName string) *descriptor {
	return &descriptor{typeName: typeName}
}

// inspectFunc validates fn's signature against the contract every handler
// must satisfy — func(context.Context, *T, [Actor], [body]) (result, error),
// with Actor always preceding the body parameter when both are present — and
// extracts the actor flag, the concrete consume type (if any), and the
// concrete produce type. Panics at registration time on a malformed
// signature, the same way schema.Registry.Register panics on a malformed
// struct tag: both are startup-only programming errors, never a runtime path.
func inspectFunc(nodeType reflect.Type, fn any) (actor bool, consumes, produces reflect.Type) {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		panic("introspect: handler must be a function, got " + describeAny(fn))
	}
	if t.NumIn() < 2 || t.In(0) != ctxType || t.In(1) != nodeType {
		panic(fmt.Sprintf("introspect: handler must begin with (context.Context, %s), got %s", nodeType, t))
	}
	if t.NumOut() != 2 || t.Out(1) != errType {
		panic(fmt.Sprintf("introspect: handler must return (result, error), got %s", t))
	}
	if t.NumIn() > 4 {
		panic(fmt.Sprintf("introspect: handler declares too many parameters: %s", t))
	}
	produces = t.Out(0)

	i := 2
	if i < t.NumIn() && t.In(i) == actorType {
		actor = true
		i++
	}
	if i < t.NumIn() {
		if t.In(i) == actorType {
			panic(fmt.Sprintf("introspect: Actor must precede the body parameter: %s", t))
		}
		consumes = t.In(i)
		i++
	}
	if i != t.NumIn() {
		panic(fmt.Sprintf("introspect: handler declares more than one body parameter: %s", t))
	}
	return actor, consumes, produces
}

func describeAny(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
