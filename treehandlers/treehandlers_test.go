package treehandlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treerest/treerest/envelope"
	"github.com/treerest/treerest/mux"
	"github.com/treerest/treerest/treehandlers"
)

func TestRecoveryMiddlewareWritesEnvelopeBody(t *testing.T) {
	r := mux.NewRouter()
	r.Use(treehandlers.RecoveryMiddleware(treehandlers.RecoveryConfig{Debug: true}))
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body envelope.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Equal(t, "kaboom", body.Message)
}

func TestRecoveryMiddlewareHidesMessageWithoutDebug(t *testing.T) {
	r := mux.NewRouter()
	r.Use(treehandlers.RecoveryMiddleware(treehandlers.RecoveryConfig{Debug: false}))
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("sensitive internals")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body envelope.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Message)
}

func TestRequestIDSetsHeaderWhenAbsent(t *testing.T) {
	r := mux.NewRouter()
	r.Use(treehandlers.RequestID())
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestPermissiveCORSAllowsAnyOrigin(t *testing.T) {
	r := mux.NewRouter()
	mw, err := treehandlers.PermissiveCORS(r)
	require.NoError(t, err)
	r.Use(mw)
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
