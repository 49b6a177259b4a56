// Package apptest builds App instances backed by a fake catalog API for tests
package apptest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/novelreader/internal/app"
	"github.com/briangreenhill/novelreader/internal/config"
	"github.com/briangreenhill/novelreader/store"
)

// Routes maps API paths (e.g. "/home") to canned handlers
type Routes map[string]http.HandlerFunc

// New starts a server for routes and returns an App pointed at it, with a
// file store in a temporary directory
func New(t *testing.T, routes Routes) *app.App {
	t.Helper()

	mux := http.NewServeMux()
	for p, h := range routes {
		mux.HandleFunc(p, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	a, err := app.NewWithStore(cfg, zerolog.Nop(), st)
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	return a
}

// OK responds with a successful envelope around data
func OK(data any) http.HandlerFunc {
	return JSON(http.StatusOK, map[string]any{"success": true, "data": data})
}

// JSON responds with v encoded as JSON
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Fail responds with an unsuccessful envelope
func Fail(msg string) http.HandlerFunc {
	return JSON(http.StatusOK, map[string]any{"success": false, "message": msg})
}
