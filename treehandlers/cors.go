package treehandlers

import (
	"github.com/treerest/treerest/mux"
	"github.com/treerest/treerest/muxhandlers"
)

// PermissiveCORS wires the teacher's muxhandlers.CORSMiddleware with the
// wide-open policy spec.md §6 mandates for every route: any origin, the
// dispatcher's four verbs plus preflight, and the two headers every request
// needs (Authorization for the bearer token, Content-Type for the JSON
// body). r is the router the middleware is installed on — CORSMiddleware
// needs it to answer preflight method discovery and to intercept the
// router's MethodNotAllowedHandler for OPTIONS requests that would
// otherwise 405.
func PermissiveCORS(r *mux.Router) (mux.MiddlewareFunc, error) {
	return muxhandlers.CORSMiddleware(r, muxhandlers.CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})
}
