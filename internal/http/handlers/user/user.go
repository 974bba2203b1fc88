// Package user contains the HTTP handlers of the in-memory user service.
//
// Handlers are factories: each receives its dependencies once at start-up
// and returns the http.HandlerFunc that serves every request.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/resource-api/internal/storage"
	"github.com/aanand-mishra/resource-api/internal/types"
	"github.com/aanand-mishra/resource-api/internal/utils/request"
	"github.com/aanand-mishra/resource-api/internal/utils/response"
	"github.com/aanand-mishra/resource-api/internal/validate"
	"github.com/aanand-mishra/resource-api/internal/worker"
)

// Submitter queues fire-and-forget work. *worker.Pool implements it.
type Submitter interface {
	Submit(name string, fn worker.Func) (string, error)
}

// Allowed is the Allow header sent by OPTIONS /users.
const Allowed = "GET,POST,PUT,PATCH,DELETE,OPTIONS"

// Create handles POST /users.
//
// Responses: 201 with the user, 400 bad JSON, 409 duplicate email,
// 422 failed validation.
func Create(store storage.UserStore, v *validate.Validator, tasks Submitter, welcomeDelay time.Duration, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.UserInput
		if err := request.DecodeJSON(r, &in); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err.Error()))
			return
		}
		if err := v.Struct(in); err != nil {
			writeError(w, err, 0)
			return
		}

		created, err := store.Create(in, now())
		if err != nil {
			writeError(w, err, 0)
			return
		}
		slog.Info("user created", slog.Int64("id", created.ID))

		// The response never waits for, or depends on, the notification.
		if _, err := tasks.Submit("welcome-email", welcomeEmail(created.Email, welcomeDelay)); err != nil {
			slog.Warn("welcome email not queued",
				slog.Int64("id", created.ID),
				slog.String("error", err.Error()))
		}

		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// List handles GET /users.
func List(store storage.UserStore, v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := request.NewQuery(r)
		def := types.DefaultUserQuery()
		query := types.UserQuery{
			Page:   q.Int("page", def.Page),
			Limit:  q.Int("limit", def.Limit),
			Q:      q.String("q", ""),
			MinAge: q.OptionalInt("min_age"),
			MaxAge: q.OptionalInt("max_age"),
			SortBy: q.String("sort_by", def.SortBy),
			Order:  q.String("order", def.Order),
		}
		if err := q.Err(); err != nil {
			writeError(w, err, 0)
			return
		}
		if err := v.Struct(query); err != nil {
			writeError(w, err, 0)
			return
		}

		response.WriteJSON(w, http.StatusOK, store.List(query))
	}
}

// GetByID handles GET /users/{id}?include_addresses=bool.
func GetByID(store storage.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			writeError(w, err, 0)
			return
		}
		q := request.NewQuery(r)
		includeAddresses := q.Bool("include_addresses", true)
		if err := q.Err(); err != nil {
			writeError(w, err, id)
			return
		}

		u, err := store.Get(id)
		if err != nil {
			writeError(w, err, id)
			return
		}
		if !includeAddresses {
			u.Addresses = []types.Address{}
		}
		response.WriteJSON(w, http.StatusOK, u)
	}
}

// Replace handles PUT /users/{id}: every field is overwritten.
func Replace(store storage.UserStore, v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			writeError(w, err, 0)
			return
		}

		var in types.UserInput
		if err := request.DecodeJSON(r, &in); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err.Error()))
			return
		}
		if err := v.Struct(in); err != nil {
			writeError(w, err, id)
			return
		}

		updated, err := store.Replace(id, in)
		if err != nil {
			writeError(w, err, id)
			return
		}
		slog.Info("user replaced", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Patch handles PATCH /users/{id}: only the supplied fields change.
func Patch(store storage.UserStore, v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			writeError(w, err, 0)
			return
		}

		var changes types.UserPatch
		if err := request.DecodeJSON(r, &changes); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err.Error()))
			return
		}
		if err := v.UserPatch(changes); err != nil {
			writeError(w, err, id)
			return
		}

		updated, err := store.Patch(id, changes)
		if err != nil {
			writeError(w, err, id)
			return
		}
		slog.Info("user patched", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /users/{id}.
func Delete(store storage.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			writeError(w, err, 0)
			return
		}

		if err := store.Delete(id); err != nil {
			writeError(w, err, id)
			return
		}
		slog.Info("user deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message{Message: fmt.Sprintf("User %d deleted", id)})
	}
}

// Options handles OPTIONS /users.
func Options(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", Allowed)
	response.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// writeError maps validation, storage and unexpected errors to responses.
// id is only used in the not-found message.
func writeError(w http.ResponseWriter, err error, id int64) {
	if response.WriteValidation(w, err, false) {
		return
	}

	var conflict *storage.ConflictError
	switch {
	case errors.As(err, &conflict):
		response.WriteJSON(w, http.StatusConflict,
			response.ConflictError("Email already exists: "+conflict.Email))
	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound,
			response.GeneralError(fmt.Sprintf("User %d not found", id)))
	default:
		response.WriteInternal(w, err)
	}
}

func welcomeEmail(email string, delay time.Duration) worker.Func {
	return func(ctx context.Context) error {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return fmt.Errorf("welcome email to %s: %w", email, ctx.Err())
		}
		slog.Info("welcome email sent", slog.String("email", email))
		return nil
	}
}
