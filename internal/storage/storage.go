// Package storage defines the contracts the HTTP handlers depend on.
// Handlers never know which backend they talk to: the user service gets
// an in-memory store, the student service a relational one.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aanand-mishra/resource-api/internal/types"
)

var (
	// ErrNotFound indicates that the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")
)

// ConflictError reports the email that is already taken.
// It matches ErrConflict with errors.Is.
type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("email already exists: %s", e.Email)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// UserStore holds users for the lifetime of the process.
// Implementations must make every method atomic.
type UserStore interface {
	Create(in types.UserInput, now time.Time) (types.User, error)
	List(q types.UserQuery) types.UserPage
	Get(id int64) (types.User, error)
	Replace(id int64, in types.UserInput) (types.User, error)
	Patch(id int64, p types.UserPatch) (types.User, error)
	Delete(id int64) error
}

// StudentRepository is the per-request handle on the students table.
// It is only valid inside the Transact callback that produced it.
type StudentRepository interface {
	// CreateStudent inserts s and sets s.ID to the generated key.
	CreateStudent(ctx context.Context, s *types.Student) error

	// ListStudents returns every row ordered by id; never nil.
	ListStudents(ctx context.Context) ([]types.Student, error)

	// GetStudentByID returns ErrNotFound when no row matches.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// UpdateStudentByID overwrites every column; ErrNotFound when absent.
	UpdateStudentByID(ctx context.Context, id int64, s types.Student) error

	// DeleteStudentByID removes the row; ErrNotFound when absent.
	DeleteStudentByID(ctx context.Context, id int64) error
}

// StudentStorage hands out one transactional repository per call.
//
// Transact commits when fn returns nil and rolls back when it returns an
// error or panics. The underlying handle is released on every path.
type StudentStorage interface {
	Transact(ctx context.Context, fn func(repo StudentRepository) error) error
	Close() error
}
