package user

import (
	"net/http"

	"github.com/aanand-mishra/resource-api/internal/utils/response"
)

// Index handles GET /.
func Index(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the user service",
		"endpoints": []string{
			"/users [GET, POST, OPTIONS]",
			"/users/{user_id} [GET, PUT, PATCH, DELETE]",
			"/upload [POST]",
			"/concurrent-demo [GET]",
			"/health [GET, HEAD]",
			"/error/bad-request [GET]",
			"/error/not-found [GET]",
			"/metrics [GET]",
		},
	})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// HealthHead handles HEAD /health: headers only.
func HealthHead(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
}

// BadRequestDemo handles GET /error/bad-request.
func BadRequestDemo(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusBadRequest, response.GeneralError("This is a sample bad request error"))
}

// NotFoundDemo handles GET /error/not-found.
func NotFoundDemo(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusNotFound, response.GeneralError("Resource not found"))
}
