// Package memory keeps users in process memory, guarded by one lock.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/aanand-mishra/resource-api/internal/storage"
	"github.com/aanand-mishra/resource-api/internal/types"
)

// UserStore is a concurrency-safe, ordered, in-memory repository for users.
// Insertion order is kept because List sorts stably on top of it.
type UserStore struct {
	mu     sync.RWMutex
	users  []types.User
	nextID int64
}

var _ storage.UserStore = (*UserStore)(nil)

// NewUserStore constructs an empty store whose first id is 1.
func NewUserStore() *UserStore {
	return &UserStore{nextID: 1}
}

// Create checks the email and appends the user in one critical section.
func (s *UserStore) Create(in types.UserInput, now time.Time) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(in.Email, 0) {
		return types.User{}, &storage.ConflictError{Email: in.Email}
	}

	u := types.User{
		ID:        s.nextID,
		CreatedAt: now.UTC(),
	}
	applyInput(&u, in)
	s.nextID++

	s.users = append(s.users, u)
	return u.Clone(), nil
}

// List filters, sorts and paginates a snapshot of the store.
func (s *UserStore) List(q types.UserQuery) types.UserPage {
	s.mu.RLock()
	snapshot := make([]types.User, len(s.users))
	copy(snapshot, s.users)
	s.mu.RUnlock()

	items := filterUsers(snapshot, q)
	sortUsers(items, q.SortBy, q.Order)

	page := make([]types.User, 0, q.Limit)
	for _, u := range paginate(items, q.Page, q.Limit) {
		page = append(page, u.Clone())
	}

	return types.UserPage{
		Total: len(items),
		Page:  q.Page,
		Limit: q.Limit,
		Items: page,
	}
}

// Get retrieves a user by id.
func (s *UserStore) Get(id int64) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.User{}, storage.ErrNotFound
	}
	return s.users[i].Clone(), nil
}

// Replace overwrites every field except id and created_at.
func (s *UserStore) Replace(id int64, in types.UserInput) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.User{}, storage.ErrNotFound
	}
	if s.emailTaken(in.Email, id) {
		return types.User{}, &storage.ConflictError{Email: in.Email}
	}

	applyInput(&s.users[i], in)
	return s.users[i].Clone(), nil
}

// Patch applies only the fields present in the change-set.
func (s *UserStore) Patch(id int64, p types.UserPatch) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.User{}, storage.ErrNotFound
	}
	if p.Email.Present() && s.emailTaken(p.Email.Value, id) {
		return types.User{}, &storage.ConflictError{Email: p.Email.Value}
	}

	u := &s.users[i]
	if p.Name.Present() {
		u.Name = p.Name.Value
	}
	if p.Email.Present() {
		u.Email = p.Email.Value
	}
	if p.Age.Present() {
		u.Age = p.Age.Value
	}
	if p.Bio.Set {
		if p.Bio.Null {
			u.Bio = nil
		} else {
			bio := p.Bio.Value
			u.Bio = &bio
		}
	}
	if p.Addresses.Set {
		u.Addresses = copyAddresses(p.Addresses.Value)
	}
	return u.Clone(), nil
}

// Delete removes a user; its id is never handed out again.
func (s *UserStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return storage.ErrNotFound
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return nil
}

// Len returns the number of live users.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// indexOf must be called with the lock held.
func (s *UserStore) indexOf(id int64) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

// emailTaken must be called with the lock held. exceptID skips the user
// being updated; 0 checks everyone.
func (s *UserStore) emailTaken(email string, exceptID int64) bool {
	for i := range s.users {
		if s.users[i].ID != exceptID && strings.EqualFold(s.users[i].Email, email) {
			return true
		}
	}
	return false
}

func applyInput(u *types.User, in types.UserInput) {
	u.Name = in.Name
	u.Email = in.Email
	if in.Age != nil {
		u.Age = *in.Age
	}
	u.Bio = nil
	if in.Bio != nil {
		bio := *in.Bio
		u.Bio = &bio
	}
	u.Addresses = copyAddresses(in.Addresses)
}

func copyAddresses(in []types.Address) []types.Address {
	out := make([]types.Address, len(in))
	copy(out, in)
	return out
}
