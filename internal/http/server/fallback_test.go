package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fallbackMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("DELETE /items/{id}", func(w http.ResponseWriter, r *http.Request) {})
	mux.Handle("/", Fallback(mux, func(w http.ResponseWriter, status int, msg string) {
		w.WriteHeader(status)
		w.Write([]byte(msg))
	}))
	return mux
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		code   int
		body   string
		allow  string
	}{
		{"unknown path", http.MethodGet, "/nowhere", http.StatusNotFound, "Not Found", ""},
		{"unknown nested path", http.MethodPost, "/items/1/extra", http.StatusNotFound, "Not Found", ""},
		{"wrong method", http.MethodPut, "/items/1", http.StatusMethodNotAllowed, "Method Not Allowed", "GET, HEAD, DELETE"},
		{"wrong method on root", http.MethodPost, "/", http.StatusMethodNotAllowed, "Method Not Allowed", "GET, HEAD"},
		{"matched route untouched", http.MethodDelete, "/items/1", http.StatusOK, "", ""},
	}

	mux := fallbackMux()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
			assert.Equal(t, tt.allow, rec.Header().Get("Allow"))
		})
	}
}
