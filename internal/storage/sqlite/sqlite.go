// Package sqlite provides a SQLite-backed implementation of the
// storage.StudentStorage interface using Go's standard database/sql package.
//
// Every request runs inside one *sql.Tx. The transaction is the "session"
// of the request: it is opened by Transact, handed to the handler through
// the storage.StudentRepository interface, and committed or rolled back
// before Transact returns.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/resource-api/internal/storage"
	"github.com/aanand-mishra/resource-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.StudentStorage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

var _ storage.StudentStorage = (*SQLite)(nil)

// New opens the SQLite database at path, creates the students table if it
// does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	// _txlock=immediate takes the write lock at BEGIN, so the
	// read-check-then-write handlers never hit a lock upgrade deadlock.
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent, safe to run on every start.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			name    TEXT NOT NULL,
			email   TEXT NOT NULL,
			phone   TEXT NOT NULL,
			dob     TEXT NOT NULL,
			gender  TEXT NOT NULL,
			course  TEXT NOT NULL,
			college TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Transact opens a transaction, runs fn against it and then commits or
// rolls back.
//
// The deferred function is the guaranteed-cleanup path: whatever fn does
// (returns nil, returns an error, panics) the transaction is finished and
// its connection goes back to the pool.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Transact(ctx context.Context, fn func(repo storage.StudentRepository) error) (err error) {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Transact: begin: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("Transact: commit: %w", cerr)
		}
	}()

	return fn(&repo{tx: tx})
}

// repo implements storage.StudentRepository on top of one *sql.Tx.
type repo struct {
	tx *sql.Tx
}

// CreateStudent inserts a new row into the students table.
// The ? placeholders keep user input out of the SQL text.
func (r *repo) CreateStudent(ctx context.Context, s *types.Student) error {
	result, err := r.tx.ExecContext(ctx,
		"INSERT INTO students (name, email, phone, dob, gender, course, college) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.Name, s.Email, s.Phone, s.DoB, s.Gender, s.Course, s.College,
	)
	if err != nil {
		return fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	s.ID = lastID
	return nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (r *repo) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	row := r.tx.QueryRowContext(ctx,
		"SELECT id, name, email, phone, dob, gender, course, college FROM students WHERE id = ? LIMIT 1",
		id,
	)

	student, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, storage.ErrNotFound
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}
	return student, nil
}

// ListStudents returns all student rows as a slice, never nil, so the
// handler encodes [] rather than null.
func (r *repo) ListStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := r.tx.QueryContext(ctx,
		"SELECT id, name, email, phone, dob, gender, course, college FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("ListStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("ListStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListStudents: rows iteration: %w", err)
	}
	return students, nil
}

// UpdateStudentByID replaces every column of an existing student.
func (r *repo) UpdateStudentByID(ctx context.Context, id int64, s types.Student) error {
	result, err := r.tx.ExecContext(ctx,
		"UPDATE students SET name = ?, email = ?, phone = ?, dob = ?, gender = ?, course = ?, college = ? WHERE id = ?",
		s.Name, s.Email, s.Phone, s.DoB, s.Gender, s.Course, s.College, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}
	return expectOneRow(result, "UpdateStudentByID")
}

// DeleteStudentByID removes a student row by primary key.
func (r *repo) DeleteStudentByID(ctx context.Context, id int64) error {
	result, err := r.tx.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}
	return expectOneRow(result, "DeleteStudentByID")
}

type scanner interface {
	Scan(dest ...any) error
}

// scanStudent reads columns in SELECT order.
func scanStudent(row scanner) (types.Student, error) {
	var s types.Student
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.DoB, &s.Gender, &s.Course, &s.College)
	return s, err
}

func expectOneRow(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
