package user

import (
	"net/http"
	"time"

	"github.com/aanand-mishra/resource-api/internal/http/server"
	"github.com/aanand-mishra/resource-api/internal/storage"
	"github.com/aanand-mishra/resource-api/internal/upload"
	"github.com/aanand-mishra/resource-api/internal/utils/response"
	"github.com/aanand-mishra/resource-api/internal/validate"
)

// Deps are the collaborators shared by the user service handlers.
type Deps struct {
	Store        storage.UserStore
	Validator    *validate.Validator
	Tasks        Submitter
	Saver        *upload.Saver
	WelcomeDelay time.Duration
	TimeUnit     time.Duration
	Now          func() time.Time
}

// Register adds every user service route to mux.
func Register(mux *http.ServeMux, d Deps) {
	now := d.Now
	if now == nil {
		now = time.Now
	}

	mux.HandleFunc("GET /{$}", Index)
	mux.HandleFunc("GET /health", Health)
	mux.HandleFunc("HEAD /health", HealthHead)

	mux.HandleFunc("OPTIONS /users", Options)
	mux.HandleFunc("POST /users", Create(d.Store, d.Validator, d.Tasks, d.WelcomeDelay, now))
	mux.HandleFunc("GET /users", List(d.Store, d.Validator))
	mux.HandleFunc("GET /users/{id}", GetByID(d.Store))
	mux.HandleFunc("PUT /users/{id}", Replace(d.Store, d.Validator))
	mux.HandleFunc("PATCH /users/{id}", Patch(d.Store, d.Validator))
	mux.HandleFunc("DELETE /users/{id}", Delete(d.Store))

	mux.HandleFunc("POST /upload", Upload(d.Saver))
	mux.HandleFunc("GET /concurrent-demo", ConcurrentDemo(d.TimeUnit))

	mux.HandleFunc("GET /error/bad-request", BadRequestDemo)
	mux.HandleFunc("GET /error/not-found", NotFoundDemo)

	mux.Handle("/", server.Fallback(mux, func(w http.ResponseWriter, status int, msg string) {
		response.WriteJSON(w, status, response.GeneralError(msg))
	}))
}
