package server

import (
	"net/http"
	"strings"
)

var probeMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// Fallback answers requests no other route on mux matched, once it is
// registered on mux as "/". It tells an unknown path (404) from a known
// path called with the wrong method (405 plus an Allow header) and lets
// write render the body in the service's error envelope.
func Fallback(mux *http.ServeMux, write func(w http.ResponseWriter, status int, msg string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, m := range probeMethods {
			if m == r.Method {
				continue
			}
			probe := r.Clone(r.Context())
			probe.Method = m
			if _, pattern := mux.Handler(probe); pattern != "" && pattern != "/" {
				allowed = append(allowed, m)
			}
		}

		if len(allowed) == 0 {
			write(w, http.StatusNotFound, "Not Found")
			return
		}
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		write(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}
