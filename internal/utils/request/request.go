// Package request decodes the parts of an incoming request that every
// handler needs: JSON bodies, path ids and typed query parameters.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/aanand-mishra/resource-api/internal/validate"
)

// ErrEmptyBody means the client sent no body at all.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// PathID parses the {name} path segment as a positive integer.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, validate.Errors{{Field: name, Message: "must be a positive integer"}}
	}
	return id, nil
}

// Query collects typed query parameters and their parse errors, so a
// handler can read several values and report them all at once.
type Query struct {
	values map[string][]string
	errs   validate.Errors
}

// NewQuery wraps r's query string.
func NewQuery(r *http.Request) *Query {
	return &Query{values: r.URL.Query()}
}

// String returns the parameter or def when absent.
func (q *Query) String(name, def string) string {
	if v, ok := q.values[name]; ok && len(v) > 0 {
		return v[0]
	}
	return def
}

// Int returns the parameter as an int, def when absent.
func (q *Query) Int(name string, def int) int {
	raw, ok := q.values[name]
	if !ok || len(raw) == 0 {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw[0]))
	if err != nil {
		q.errs = append(q.errs, validate.FieldError{Field: name, Message: "must be an integer"})
		return def
	}
	return n
}

// OptionalInt returns nil when the parameter is absent.
func (q *Query) OptionalInt(name string) *int {
	if _, ok := q.values[name]; !ok {
		return nil
	}
	before := len(q.errs)
	n := q.Int(name, 0)
	if len(q.errs) > before {
		return nil
	}
	return &n
}

// Bool accepts the usual spellings: true/false, 1/0, yes/no, on/off.
func (q *Query) Bool(name string, def bool) bool {
	raw, ok := q.values[name]
	if !ok || len(raw) == 0 {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw[0])) {
	case "true", "1", "yes", "on", "t", "y":
		return true
	case "false", "0", "no", "off", "f", "n":
		return false
	}
	q.errs = append(q.errs, validate.FieldError{Field: name, Message: "must be a boolean"})
	return def
}

// Err returns the collected parse errors, or nil.
func (q *Query) Err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return q.errs
}
