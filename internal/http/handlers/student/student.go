// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN
// ────────────────────────────────────────────────────────────
// Every handler is built once at start-up from its dependencies (the
// storage and the validator) and the returned closure serves every
// request:
//
//	mux.HandleFunc("POST /Student", student.New(store, v))
//
// Each request that touches the database runs inside exactly one
// store.Transact call. Returning an error from the callback rolls the
// transaction back; returning nil commits it.
package student

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/resource-api/internal/http/server"
	"github.com/aanand-mishra/resource-api/internal/storage"
	"github.com/aanand-mishra/resource-api/internal/types"
	"github.com/aanand-mishra/resource-api/internal/utils/request"
	"github.com/aanand-mishra/resource-api/internal/utils/response"
	"github.com/aanand-mishra/resource-api/internal/validate"
)

// Welcome is the body of GET /.
const Welcome = "Message: Welcome to the Student API!"

// Register adds every student route to mux. The update route is lower-case
// while the others are capitalised; existing clients depend on both.
func Register(mux *http.ServeMux, store storage.StudentStorage, v *validate.Validator) {
	mux.HandleFunc("GET /{$}", Root)
	mux.HandleFunc("POST /Student", New(store, v))
	mux.HandleFunc("GET /Student", GetList(store))
	mux.HandleFunc("GET /Student/{id}", GetByID(store))
	mux.HandleFunc("PUT /student/{id}", Update(store, v))
	mux.HandleFunc("DELETE /Student/{id}", Delete(store))
	mux.Handle("/", server.Fallback(mux, writeDetail))
}

// Root handles GET /.
func Root(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, Welcome)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /Student
// Creates a new student from the JSON request body.
//
// Success response (201 Created): the stored row, id included.
//
// Error responses:
//
//	400 Bad Request          empty body or malformed JSON
//	422 Unprocessable Entity failed validation
//	500 Internal             database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.StudentStorage, v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var student types.Student
		if !decodeStudent(w, r, v, &student) {
			return
		}
		student.ID = 0

		err := store.Transact(r.Context(), func(repo storage.StudentRepository) error {
			return repo.CreateStudent(r.Context(), &student)
		})
		if err != nil {
			writeError(w, err, 0)
			return
		}

		slog.Info("student created", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /Student/{id}
//
// Error responses:
//
//	404 Not Found            no student with that id
//	422 Unprocessable Entity id is not a positive integer
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			writeError(w, err, 0)
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		var student types.Student
		err = store.Transact(r.Context(), func(repo storage.StudentRepository) error {
			student, err = repo.GetStudentByID(r.Context(), id)
			return err
		})
		if err != nil {
			writeError(w, err, id)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /Student. The array is ordered by id and is []
// (not null) when the table is empty.
func GetList(store storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		var students []types.Student
		err := store.Transact(r.Context(), func(repo storage.StudentRepository) error {
			var err error
			students, err = repo.ListStudents(r.Context())
			return err
		})
		if err != nil {
			writeError(w, err, 0)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /student/{id}
// Replaces ALL fields of an existing student.
//
// Success response (202 Accepted), a JSON string:
//
//	"Student with the id 1 is updated successfully"
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.StudentStorage, v *validate.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			writeError(w, err, 0)
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		var student types.Student
		if !decodeStudent(w, r, v, &student) {
			return
		}

		err = store.Transact(r.Context(), func(repo storage.StudentRepository) error {
			return repo.UpdateStudentByID(r.Context(), id, student)
		})
		if err != nil {
			writeError(w, err, id)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusAccepted,
			fmt.Sprintf("Student with the id %d is updated successfully", id))
	}
}

// Delete handles DELETE /Student/{id}: 204 with no body, 404 when absent.
func Delete(store storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			writeError(w, err, 0)
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		err = store.Transact(r.Context(), func(repo storage.StudentRepository) error {
			return repo.DeleteStudentByID(r.Context(), id)
		})
		if err != nil {
			writeError(w, err, id)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

// decodeStudent reads and validates the body. It writes the error response
// itself and reports whether the handler may continue.
func decodeStudent(w http.ResponseWriter, r *http.Request, v *validate.Validator, student *types.Student) bool {
	if err := request.DecodeJSON(r, student); err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.Detail{Detail: err.Error()})
		return false
	}
	if err := v.Struct(*student); err != nil {
		writeError(w, err, 0)
		return false
	}
	return true
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	response.WriteJSON(w, status, response.Detail{Detail: msg})
}

func writeError(w http.ResponseWriter, err error, id int64) {
	if response.WriteValidation(w, err, true) {
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound,
			response.Detail{Detail: fmt.Sprintf("Student with the id %d is not available", id)})
		return
	}
	response.WriteInternalDetail(w, err)
}
