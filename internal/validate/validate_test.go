package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/resource-api/internal/types"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New("91")
	require.NoError(t, err)
	return v
}

func fields(t *testing.T, err error) []string {
	t.Helper()
	var errs Errors
	require.ErrorAs(t, err, &errs)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestStruct_ValidUserInput(t *testing.T) {
	v := newValidator(t)
	in := types.UserInput{
		Name:      "Ann Lee",
		Email:     "Ann@x.com",
		Age:       ptr(30),
		Addresses: []types.Address{{City: "Pune", Country: "India"}},
	}
	assert.NoError(t, v.Struct(in))
}

func TestStruct_UserInputRanges(t *testing.T) {
	v := newValidator(t)
	bio := strings.Repeat("b", 201)
	in := types.UserInput{
		Name:      "Al",
		Email:     "not-an-email",
		Age:       ptr(12),
		Bio:       &bio,
		Addresses: []types.Address{{City: "X", Country: "India"}},
	}

	got := fields(t, v.Struct(in))
	assert.ElementsMatch(t, []string{"name", "email", "age", "bio", "addresses[0].city"}, got)
}

func TestStruct_AgeBoundsInclusive(t *testing.T) {
	v := newValidator(t)
	for _, age := range []int{13, 120} {
		in := types.UserInput{Name: "Ann", Email: "a@b.co", Age: &age}
		assert.NoError(t, v.Struct(in), "age %d", age)
	}
	in := types.UserInput{Name: "Ann", Email: "a@b.co", Age: ptr(121)}
	assert.Equal(t, []string{"age"}, fields(t, v.Struct(in)))
}

func TestStruct_MissingAgeIsRequired(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(types.UserInput{Name: "Ann", Email: "a@b.co"})

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, Errors{{Field: "age", Message: "field required"}}, errs)

	err = v.Struct(types.UserInput{Name: "Ann", Email: "a@b.co", Age: ptr(0)})
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, Errors{{Field: "age", Message: "must be greater than or equal to 13"}}, errs)
}

func TestStruct_Student(t *testing.T) {
	v := newValidator(t)
	s := types.Student{
		Name:    "Ravi",
		Email:   "ravi@college.in",
		Phone:   "+919876543210",
		DoB:     "2001-13-45",
		Gender:  "Male",
		Course:  "CSE",
		College: "RVCE",
	}
	assert.NoError(t, v.Struct(s), "date of birth is only pattern-checked")

	s.Phone = "+1555"
	s.Gender = "male"
	s.DoB = "01/02/2001"
	assert.ElementsMatch(t, []string{"phone", "gender", "DoB"}, fields(t, v.Struct(s)))
}

func TestNew_PhoneCountryCodeIsConfigurable(t *testing.T) {
	v, err := New("44")
	require.NoError(t, err)

	s := types.Student{
		Name: "Ann", Email: "ann@uni.ac.uk", Phone: "+447700900123",
		DoB: "2000-01-01", Gender: "Female", Course: "Maths", College: "UCL",
	}
	assert.NoError(t, v.Struct(s))

	s.Phone = "+919876543210"
	assert.Equal(t, []string{"phone"}, fields(t, v.Struct(s)))
}

func TestStruct_UserQuery(t *testing.T) {
	v := newValidator(t)
	q := types.DefaultUserQuery()
	assert.NoError(t, v.Struct(q))

	q.Page = 0
	q.Limit = 101
	q.Q = "a"
	q.SortBy = "email"
	q.Order = "up"
	assert.ElementsMatch(t, []string{"page", "limit", "q", "sort_by", "order"}, fields(t, v.Struct(q)))
}

func TestUserPatch(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.UserPatch(types.UserPatch{}))
	assert.NoError(t, v.UserPatch(types.UserPatch{
		Bio:       types.Null[string](),
		Addresses: types.Null[[]types.Address](),
	}))

	err := v.UserPatch(types.UserPatch{
		Name:      types.Null[string](),
		Email:     types.Some("bad"),
		Age:       types.Some(200),
		Addresses: types.Some([]types.Address{{City: "Pune", Country: "I"}}),
	})
	assert.ElementsMatch(t, []string{"name", "email", "age", "addresses[0].country"}, fields(t, err))
}

func TestItems_IndexesFieldPaths(t *testing.T) {
	v := newValidator(t)
	name := "abhi"
	zero := 0

	items := []types.Item{
		{Name: &name, Age: &zero, ID: &zero},
		{Name: &name, ID: &zero},
	}
	err := v.Items(items)
	assert.Equal(t, []string{"[1].age"}, fields(t, err))

	assert.NoError(t, v.Items(items[:1]))
	assert.NoError(t, v.Items(nil))
}

func TestErrors_Error(t *testing.T) {
	e := Errors{{Field: "name", Message: "field required"}, {Field: "age", Message: "must be at most 1"}}
	assert.Equal(t, "name: field required, age: must be at most 1", e.Error())
}

func ptr[T any](v T) *T { return &v }
