package treehandlers

import (
	"net/http"

	"github.com/treerest/treerest/mux"
	"github.com/treerest/treerest/muxhandlers"
)

// RequestID tags every request with an X-Request-ID header, generating a
// fresh UUIDv4 unless the caller already sent one. A thin wrapper over the
// teacher's muxhandlers.RequestIDMiddleware — nothing about the dispatcher's
// envelope shape changes this middleware's behaviour, so it's reused as-is
// rather than forked.
func RequestID() mux.MiddlewareFunc {
	return muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{
		TrustIncoming: true,
	})
}

// RequestIDFromContext returns the id RequestID attached to the request
// context, or "" if the middleware never ran.
func RequestIDFromContext(r *http.Request) string {
	return muxhandlers.RequestIDFromContext(r.Context())
}
