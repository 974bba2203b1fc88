// Package gormdb implements storage.StudentStorage with gorm, over either
// PostgreSQL or SQLite. Each Transact call is one gorm transaction.
package gormdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aanand-mishra/resource-api/internal/storage"
	"github.com/aanand-mishra/resource-api/internal/types"
)

// Store wraps the *gorm.DB connection pool.
type Store struct {
	db *gorm.DB
}

var _ storage.StudentStorage = (*Store)(nil)

// OpenPostgres connects with a libpq-style or URL DSN.
func OpenPostgres(dsn string) (*Store, error) {
	return open(postgres.Open(dsn))
}

// OpenSQLite opens (and creates) the database file at path.
func OpenSQLite(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("gormdb: create dir: %w", err)
		}
	}
	return open(sqlite.Open(path + "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"))
}

func open(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("gormdb: open: %w", err)
	}

	if err := db.AutoMigrate(&types.Student{}); err != nil {
		return nil, fmt.Errorf("gormdb: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying *sql.DB.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transact runs fn inside db.Transaction, which commits on nil, rolls back
// on error and rolls back then re-panics on panic.
func (s *Store) Transact(ctx context.Context, fn func(repo storage.StudentRepository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repo{tx: tx})
	})
}

type repo struct {
	tx *gorm.DB
}

func (r *repo) CreateStudent(ctx context.Context, s *types.Student) error {
	s.ID = 0
	if err := r.tx.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("CreateStudent: %w", err)
	}
	return nil
}

func (r *repo) ListStudents(ctx context.Context) ([]types.Student, error) {
	students := make([]types.Student, 0)
	if err := r.tx.WithContext(ctx).Order("id").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("ListStudents: %w", err)
	}
	return students, nil
}

func (r *repo) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var student types.Student
	err := r.tx.WithContext(ctx).First(&student, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.Student{}, storage.ErrNotFound
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: %w", err)
	}
	return student, nil
}

// UpdateStudentByID uses a column map so empty strings are written too;
// gorm's struct Updates would skip zero values.
func (r *repo) UpdateStudentByID(ctx context.Context, id int64, s types.Student) error {
	result := r.tx.WithContext(ctx).Model(&types.Student{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":    s.Name,
			"email":   s.Email,
			"phone":   s.Phone,
			"dob":     s.DoB,
			"gender":  s.Gender,
			"course":  s.Course,
			"college": s.College,
		})
	if result.Error != nil {
		return fmt.Errorf("UpdateStudentByID: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteStudentByID(ctx context.Context, id int64) error {
	result := r.tx.WithContext(ctx).Delete(&types.Student{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("DeleteStudentByID: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
