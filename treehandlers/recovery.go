// Package treehandlers adapts the teacher's muxhandlers middleware into the
// envelope-shaped behaviour spec.md §4.6/§4.7 requires: a panic becomes a
// 500 envelope body (not a bare http.Error), preflight responses carry
// permissive CORS headers, and every response is tagged with a request id.
package treehandlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/treerest/treerest/envelope"
	"github.com/treerest/treerest/mux"
	"github.com/treerest/treerest/muxhandlers"
)

// RecoveryConfig configures RecoveryMiddleware.
type RecoveryConfig struct {
	// Logger receives one Error-level entry per recovered panic. Nil disables
	// logging without disabling recovery.
	Logger *zap.Logger

	// Debug includes the recovered value's string form in the envelope
	// message when true (spec.md §4.6 step 6: "traceback when DEBUG").
	Debug bool
}

// RecoveryMiddleware recovers from a downstream panic and writes a 500
// envelope.Body instead of letting the panic reach net/http's own recovery
// (which would close the connection with no body at all). Same
// defer/recover shape as the teacher's muxhandlers.RecoveryMiddleware, but
// writes the dispatcher's envelope instead of a bare http.Error, since every
// response on this router must be envelope-shaped per spec.md §4.7.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				if cfg.Logger != nil {
					cfg.Logger.Error("panic recovered",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("request_id", muxhandlers.RequestIDFromContext(r.Context())),
						zap.Any("panic", recovered),
					)
				}

				var body envelope.Body
				if cfg.Debug {
					body = envelope.ErrorDetail(http.StatusInternalServerError, message(recovered))
				} else {
					body = envelope.ErrorMessage(http.StatusInternalServerError, "internal server error")
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func message(recovered any) string {
	if err, ok := recovered.(error); ok {
		return err.Error()
	}
	if s, ok := recovered.(string); ok {
		return s
	}
	return "panic"
}
