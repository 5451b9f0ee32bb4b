package introspect

import (
	"context"
	"fmt"
	"reflect"
)

// HandlerInfo is the dispatch-time shape of a registered handler: enough for
// treemux.Dispatcher to decide how to decode a request body and route a
// response before ever calling Invoke.
type HandlerInfo struct {
	Verb     Verb
	Actor    bool
	Consumes reflect.Type // nil when the handler declares no body
	Produces reflect.Type
	CanCrash []Crash
}

// Lookup returns the dispatch shape of typeName's handler named name.
func (r *Registry) Lookup(typeName, name string) (HandlerInfo, bool) {
	d, ok := r.byType[typeName]
	if !ok {
		return HandlerInfo{}, false
	}
	for _, h := range d.handlers {
		if h.name == name {
			return HandlerInfo{
				Verb:     h.verb,
				Actor:    h.actor,
				Consumes: h.consumes,
				Produces: h.produces,
				CanCrash: h.canCrash,
			}, true
		}
	}
	return HandlerInfo{}, false
}

// Invoke calls typeName's handler named name with node as its receiver
// parameter, actor as the optional Actor parameter (ignored if the handler
// declares none), and body as the optional consume-type parameter (ignored
// if the handler declares none). node and body must already hold the
// concrete types the handler's signature requires — Lookup's Consumes field
// tells the caller what to decode a request body into.
func (r *Registry) Invoke(ctx context.Context, typeName, name string, node any, actor Actor, body any) (any, error) {
	d, ok := r.byType[typeName]
	if !ok {
		return nil, fmt.Errorf("introspect: type %q has no registered handlers", typeName)
	}
	for _, h := range d.handlers {
		if h.name == name {
			return h.invoke(ctx, node, actor, body)
		}
	}
	return nil, fmt.Errorf("introspect: type %q has no handler %q", typeName, name)
}

func (h *handler) invoke(ctx context.Context, node any, actor Actor, body any) (any, error) {
	args := make([]reflect.Value, 0, 4)
	args = append(args, reflect.ValueOf(ctx), reflect.ValueOf(node))
	if h.actor {
		args = append(args, reflect.ValueOf(actor))
	}
	if h.consumes != nil {
		args = append(args, reflect.ValueOf(body))
	}

	out := h.fn.Call(args)
	result := out[0].Interface()
	err, _ := out[1].Interface().(error)
	return result, err
}
