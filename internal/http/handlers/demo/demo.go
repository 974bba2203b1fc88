// Package demo serves the minimal demo service: two static pages and a
// POST /submit that validates and echoes a list of items.
package demo

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/resource-api/internal/http/server"
	"github.com/aanand-mishra/resource-api/internal/types"
	"github.com/aanand-mishra/resource-api/internal/utils/request"
	"github.com/aanand-mishra/resource-api/internal/utils/response"
	"github.com/aanand-mishra/resource-api/internal/validate"
)

// SubmitResponse is the body of a successful POST /submit.
type SubmitResponse struct {
	Message string       `json:"message"`
	Data    []types.Item `json:"data"`
}

// Register adds the demo routes to mux.
func Register(mux *http.ServeMux, v *validate.Validator) {
	mux.HandleFunc("GET /{$}", Root)
	mux.HandleFunc("GET /about", About)
	mux.HandleFunc("POST /submit", Submit(v))
	mux.Handle("/", server.Fallback(mux, func(w http.ResponseWriter, status int, msg string) {
		response.WriteJSON(w, status, response.Detail{Detail: msg})
	}))
}

// Root handles GET /.
func Root(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, response.Message{Message: "Hello! Welcome to the demo service"})
}

// About handles GET /about.
func About(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, response.Message{Message: "About Page"})
}

// Submit handles POST /submit. Every item is checked; a single bad item
// rejects the whole batch with one error per field, e.g. "[1].age".
func Submit(v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var items []types.Item
		if err := request.DecodeJSON(r, &items); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.Detail{Detail: err.Error()})
			return
		}
		if err := v.Items(items); err != nil {
			if !response.WriteValidation(w, err, true) {
				response.WriteInternalDetail(w, err)
			}
			return
		}
		if items == nil {
			items = []types.Item{}
		}

		slog.Info("items received", slog.Int("count", len(items)))
		response.WriteJSON(w, http.StatusOK, SubmitResponse{Message: "Data received", Data: items})
	}
}
