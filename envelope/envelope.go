// Package envelope implements the uniform JSON response wrapper and the
// error taxonomy of spec.md §4.7 and §7.
package envelope

import (
	"encoding/json"
	"time"
)

// Body is the uniform shape of every response: ok, code, and either result
// or message, plus the two timing fields appended to every body.
type Body struct {
	OK          bool    `json:"ok"`
	Code        int     `json:"code"`
	Result      any     `json:"result,omitempty"`
	Message     any     `json:"message,omitempty"`
	PrefCounter float64 `json:"pref_counter"`
	ProcessTime float64 `json:"process_time"`
}

// Ok builds a success envelope with no result payload (e.g. a 204-shaped
// success or a bare acknowledgement).
func Ok(code int) Body {
	return Body{OK: true, Code: code}
}

// OkResult builds a success envelope wrapping a single result value (a Node
// converted via its plain-dict projection, or any other handler return).
func OkResult(code int, result any) Body {
	return Body{OK: true, Code: code, Result: result}
}

// OkListResult builds a success envelope wrapping a list result.
func OkListResult(code int, result any) Body {
	return Body{OK: true, Code: code, Result: result}
}

// ErrorMessage builds a failure envelope.
func ErrorMessage(code int, message string) Body {
	return Body{OK: false, Code: code, Message: message}
}

// ErrorDetail builds a failure envelope with a structured message, used when
// DEBUG exposes a traceback (a slice of strings) instead of a single string.
func ErrorDetail(code int, message any) Body {
	return Body{OK: false, Code: code, Message: message}
}

// WithTiming appends the pref_counter/process_time fields measured between
// start and now. Named to mirror the source's @timed decorator: pref_counter
// is wall-clock (Python's perf_counter), process_time is handler CPU time —
// approximated here as wall-clock too, since per-goroutine CPU accounting
// isn't exposed by the runtime; see DESIGN.md.
func (b Body) WithTiming(start time.Time) Body {
	elapsed := time.Since(start).Seconds()
	b.PrefCounter = elapsed
	b.ProcessTime = elapsed
	return b
}

// MarshalJSON is implemented explicitly only to document the wire shape;
// the default struct marshaling already produces it.
var _ json.Marshaler = Body{}

func (b Body) MarshalJSON() ([]byte, error) {
	type alias Body
	return json.Marshal(alias(b))
}
