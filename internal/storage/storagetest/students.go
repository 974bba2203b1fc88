// Package storagetest holds the behaviour every storage.StudentStorage
// backend must show. Backends call RunStudentStorage from their own tests.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/resource-api/internal/storage"
	"github.com/aanand-mishra/resource-api/internal/types"
)

// Student returns a valid student; name makes rows distinguishable.
func Student(name string) types.Student {
	return types.Student{
		Name:    name,
		Email:   name + "@college.in",
		Phone:   "+919876543210",
		DoB:     "2002-04-17",
		Gender:  "Female",
		Course:  "B.Tech",
		College: "PESU",
	}
}

var errAbort = errors.New("abort")

// RunStudentStorage exercises newStore's backend. newStore must return an
// empty store that is closed by the caller's cleanup.
func RunStudentStorage(t *testing.T, newStore func(t *testing.T) storage.StudentStorage) {
	ctx := context.Background()

	create := func(t *testing.T, s storage.StudentStorage, st types.Student) types.Student {
		t.Helper()
		require.NoError(t, s.Transact(ctx, func(repo storage.StudentRepository) error {
			return repo.CreateStudent(ctx, &st)
		}))
		return st
	}

	t.Run("create assigns ids and get returns the row", func(t *testing.T) {
		s := newStore(t)
		a := create(t, s, Student("asha"))
		b := create(t, s, Student("bala"))
		assert.Greater(t, a.ID, int64(0))
		assert.Greater(t, b.ID, a.ID)

		var got types.Student
		require.NoError(t, s.Transact(ctx, func(repo storage.StudentRepository) error {
			var err error
			got, err = repo.GetStudentByID(ctx, a.ID)
			return err
		}))
		assert.Equal(t, a, got)
	})

	t.Run("list is empty, not nil, then ordered by id", func(t *testing.T) {
		s := newStore(t)
		var list []types.Student
		require.NoError(t, s.Transact(ctx, func(repo storage.StudentRepository) error {
			var err error
			list, err = repo.ListStudents(ctx)
			return err
		}))
		require.NotNil(t, list)
		assert.Empty(t, list)

		a := create(t, s, Student("asha"))
		b := create(t, s, Student("bala"))
		require.NoError(t, s.Transact(ctx, func(repo storage.StudentRepository) error {
			var err error
			list, err = repo.ListStudents(ctx)
			return err
		}))
		assert.Equal(t, []types.Student{a, b}, list)
	})

	t.Run("update overwrites every column", func(t *testing.T) {
		s := newStore(t)
		a := create(t, s, Student("asha"))

		changed := Student("chitra")
		changed.Gender = "Other"
		require.NoError(t, s.Transact(ctx, func(repo storage.StudentRepository) error {
			return repo.UpdateStudentByID(ctx, a.ID, changed)
		}))

		// identical values still count as a match
		require.NoError(t, s.Transact(ctx, func(repo storage.StudentRepository) error {
			return repo.UpdateStudentByID(ctx, a.ID, changed)
		}))

		var got types.Student
		require.NoError(t, s.Transact(ctx, func(repo storage.StudentRepository) error {
			var err error
			got, err = repo.GetStudentByID(ctx, a.ID)
			return err
		}))
		changed.ID = a.ID
		assert.Equal(t, changed, got)
	})

	t.Run("missing rows report ErrNotFound", func(t *testing.T) {
		s := newStore(t)
		err := s.Transact(ctx, func(repo storage.StudentRepository) error {
			_, err := repo.GetStudentByID(ctx, 404)
			return err
		})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = s.Transact(ctx, func(repo storage.StudentRepository) error {
			return repo.UpdateStudentByID(ctx, 404, Student("x"))
		})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = s.Transact(ctx, func(repo storage.StudentRepository) error {
			return repo.DeleteStudentByID(ctx, 404)
		})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		s := newStore(t)
		a := create(t, s, Student("asha"))

		require.NoError(t, s.Transact(ctx, func(repo storage.StudentRepository) error {
			return repo.DeleteStudentByID(ctx, a.ID)
		}))
		err := s.Transact(ctx, func(repo storage.StudentRepository) error {
			_, err := repo.GetStudentByID(ctx, a.ID)
			return err
		})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("error rolls the transaction back", func(t *testing.T) {
		s := newStore(t)
		err := s.Transact(ctx, func(repo storage.StudentRepository) error {
			st := Student("ghost")
			if err := repo.CreateStudent(ctx, &st); err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		assertEmpty(t, s)
	})

	t.Run("panic rolls back and propagates", func(t *testing.T) {
		s := newStore(t)
		assert.Panics(t, func() {
			_ = s.Transact(ctx, func(repo storage.StudentRepository) error {
				st := Student("ghost")
				if err := repo.CreateStudent(ctx, &st); err != nil {
					return err
				}
				panic("boom")
			})
		})

		assertEmpty(t, s)
	})
}

func assertEmpty(t *testing.T, s storage.StudentStorage) {
	t.Helper()
	ctx := context.Background()
	var list []types.Student
	require.NoError(t, s.Transact(ctx, func(repo storage.StudentRepository) error {
		var err error
		list, err = repo.ListStudents(ctx)
		return err
	}))
	assert.Empty(t, list)
}
