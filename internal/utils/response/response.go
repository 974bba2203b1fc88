// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
//
// Two error envelopes exist because the services answer differently:
//
//	user service:            { "error": true, "detail": ... }
//	student and demo service: { "detail": ... }
//
// detail is either a message string or a list of field errors.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/resource-api/internal/validate"
)

// InternalMessage is the only text a client sees for unexpected failures.
const InternalMessage = "Internal server error"

// Error is the user service error envelope.
type Error struct {
	Error   bool   `json:"error"`
	Detail  any    `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
}

// Detail is the student and demo service error envelope.
type Detail struct {
	Detail any `json:"detail"`
}

// Message is a body carrying only a human-readable message.
type Message struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError builds the user service envelope around a message.
func GeneralError(msg string) Error {
	return Error{Error: true, Detail: msg}
}

// ConflictError builds the envelope used for duplicate emails, which
// carries "message" instead of "detail".
func ConflictError(msg string) Error {
	return Error{Error: true, Message: msg}
}

// ValidationError builds the user service envelope around field errors.
func ValidationError(errs validate.Errors) Error {
	return Error{Error: true, Detail: errs}
}

// WriteInternal logs err and sends a generic 500 in the user service shape.
func WriteInternal(w http.ResponseWriter, err error) {
	slog.Error("internal error", slog.String("error", err.Error()))
	WriteJSON(w, http.StatusInternalServerError, GeneralError(InternalMessage))
}

// WriteValidation answers 422 when err is a validate.Errors and reports
// whether it did. detailOnly selects the { "detail": ... } envelope.
func WriteValidation(w http.ResponseWriter, err error, detailOnly bool) bool {
	var errs validate.Errors
	if !errors.As(err, &errs) {
		return false
	}
	if detailOnly {
		WriteJSON(w, http.StatusUnprocessableEntity, Detail{Detail: errs})
	} else {
		WriteJSON(w, http.StatusUnprocessableEntity, ValidationError(errs))
	}
	return true
}

// WriteInternalDetail is WriteInternal for the { "detail": ... } services.
func WriteInternalDetail(w http.ResponseWriter, err error) {
	slog.Error("internal error", slog.String("error", err.Error()))
	WriteJSON(w, http.StatusInternalServerError, Detail{Detail: InternalMessage})
}
