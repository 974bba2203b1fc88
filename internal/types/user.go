// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and validation can all import types without
// depending on each other.
package types

import "time"

// Address is owned by a User and is not addressable on its own.
type Address struct {
	City    string `json:"city"    validate:"required,min=2,max=50"`
	Country string `json:"country" validate:"required,min=2,max=50"`
}

// UserInput is the body of POST /users and PUT /users/{id}.
type UserInput struct {
	Name      string    `json:"name"      validate:"required,min=3,max=50"`
	Email     string    `json:"email"     validate:"required,email"`
	Age       *int      `json:"age"       validate:"required,gte=13,lte=120"`
	Bio       *string   `json:"bio"       validate:"omitempty,max=200"`
	Addresses []Address `json:"addresses" validate:"dive"`
}

// UserPatch is the change-set accepted by PATCH /users/{id}.
// Only fields with Set == true are applied.
type UserPatch struct {
	Name      Optional[string]    `json:"name"`
	Email     Optional[string]    `json:"email"`
	Age       Optional[int]       `json:"age"`
	Bio       Optional[string]    `json:"bio"`
	Addresses Optional[[]Address] `json:"addresses"`
}

// Empty reports whether the change-set carries no field at all.
func (p UserPatch) Empty() bool {
	return !p.Name.Set && !p.Email.Set && !p.Age.Set && !p.Bio.Set && !p.Addresses.Set
}

// User is the stored entity returned by every user endpoint.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Bio       *string   `json:"bio"`
	Addresses []Address `json:"addresses"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers never share the store's slices.
func (u User) Clone() User {
	c := u
	if u.Bio != nil {
		bio := *u.Bio
		c.Bio = &bio
	}
	c.Addresses = make([]Address, len(u.Addresses))
	copy(c.Addresses, u.Addresses)
	return c
}

// Sort keys and orders accepted by GET /users.
const (
	SortByID   = "id"
	SortByName = "name"
	SortByAge  = "age"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// UserQuery carries the parsed query string of GET /users.
type UserQuery struct {
	Page   int    `json:"page"     validate:"gte=1"`
	Limit  int    `json:"limit"    validate:"gte=1,lte=100"`
	Q      string `json:"q"        validate:"omitempty,min=2"`
	MinAge *int   `json:"min_age"  validate:"omitempty,gte=0"`
	MaxAge *int   `json:"max_age"  validate:"omitempty,gte=0"`
	SortBy string `json:"sort_by"  validate:"oneof=id name age"`
	Order  string `json:"order"    validate:"oneof=asc desc"`
}

// DefaultUserQuery returns the query used when no parameters are given.
func DefaultUserQuery() UserQuery {
	return UserQuery{Page: 1, Limit: 10, SortBy: SortByID, Order: OrderAsc}
}

// UserPage is one pagination window of GET /users.
type UserPage struct {
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Items []User `json:"items"`
}
