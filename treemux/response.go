package treemux

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/treerest/treerest/envelope"
)

func (d *Dispatcher) writeResult(w http.ResponseWriter, r *http.Request, start time.Time, status int, result any) {
	d.write(w, r, start, envelope.OkResult(status, result))
}

func (d *Dispatcher) writeOK(w http.ResponseWriter, r *http.Request, start time.Time, status int) {
	d.write(w, r, start, envelope.Ok(status))
}

func (d *Dispatcher) writeError(w http.ResponseWriter, r *http.Request, start time.Time, err error) {
	status := envelope.KindOf(err).HTTPStatus()
	if status >= http.StatusInternalServerError && d.logger != nil {
		d.logger.Error("dispatch error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	d.write(w, r, start, envelope.ErrorMessage(status, err.Error()))
}

func (d *Dispatcher) write(w http.ResponseWriter, r *http.Request, start time.Time, body envelope.Body) {
	body = body.WithTiming(start)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Code)
	_ = json.NewEncoder(w).Encode(body)
}
