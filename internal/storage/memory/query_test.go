package memory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/resource-api/internal/types"
)

func seed(t *testing.T) *UserStore {
	t.Helper()
	s := NewUserStore()
	for _, in := range []types.UserInput{
		input("Ann Lee", "Ann@x.com", 30),
		input("bob", "bob@annex.org", 22),
		input("Cid", "cid@x.com", 30),
		input("Dee", "dee@x.com", 65),
		input("Eve", "eve@x.com", 17),
	} {
		mustCreate(t, s, in)
	}
	return s
}

func ids(users []types.User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func query(mod func(*types.UserQuery)) types.UserQuery {
	q := types.DefaultUserQuery()
	if mod != nil {
		mod(&q)
	}
	return q
}

func TestList_Defaults(t *testing.T) {
	page := seed(t).List(query(nil))
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(page.Items))
}

func TestList_SearchMatchesNameOrEmail(t *testing.T) {
	page := seed(t).List(query(func(q *types.UserQuery) { q.Q = "ANN" }))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, []int64{1, 2}, ids(page.Items))
}

func TestList_AgeBounds(t *testing.T) {
	lo, hi := 18, 30
	page := seed(t).List(query(func(q *types.UserQuery) {
		q.MinAge = &lo
		q.MaxAge = &hi
	}))
	assert.Equal(t, []int64{1, 2, 3}, ids(page.Items))
}

func TestList_SortIsStableBothWays(t *testing.T) {
	s := seed(t)

	asc := s.List(query(func(q *types.UserQuery) { q.SortBy = types.SortByAge }))
	assert.Equal(t, []int64{5, 2, 1, 3, 4}, ids(asc.Items))

	desc := s.List(query(func(q *types.UserQuery) {
		q.SortBy = types.SortByAge
		q.Order = types.OrderDesc
	}))
	assert.Equal(t, []int64{4, 1, 3, 2, 5}, ids(desc.Items), "ties keep insertion order")

	byName := s.List(query(func(q *types.UserQuery) { q.SortBy = types.SortByName }))
	// byte-wise: upper case sorts before lower case
	assert.Equal(t, []int64{1, 3, 4, 5, 2}, ids(byName.Items))
}

func TestList_TotalIndependentOfWindow(t *testing.T) {
	s := seed(t)
	for page := 1; page <= 4; page++ {
		got := s.List(query(func(q *types.UserQuery) {
			q.Page = page
			q.Limit = 2
		}))
		assert.Equal(t, 5, got.Total, "page %d", page)
	}

	second := s.List(query(func(q *types.UserQuery) { q.Page, q.Limit = 2, 2 }))
	assert.Equal(t, []int64{3, 4}, ids(second.Items))

	last := s.List(query(func(q *types.UserQuery) { q.Page, q.Limit = 3, 2 }))
	assert.Equal(t, []int64{5}, ids(last.Items))
}

func TestList_PageBeyondEndIsEmpty(t *testing.T) {
	page := seed(t).List(query(func(q *types.UserQuery) { q.Page = 9 }))
	assert.Equal(t, 5, page.Total)
	require.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestList_HugePageDoesNotWrapAround(t *testing.T) {
	s := seed(t)
	for _, q := range []struct{ page, limit int }{
		{4611686018427387905, 4},
		{math.MaxInt, 1},
		{math.MaxInt, 100},
		{2, math.MaxInt},
	} {
		page := s.List(query(func(uq *types.UserQuery) { uq.Page, uq.Limit = q.page, q.limit }))
		assert.Equal(t, 5, page.Total)
		assert.Empty(t, page.Items, "page=%d limit=%d", q.page, q.limit)
	}
}

func TestList_DoesNotReorderStore(t *testing.T) {
	s := seed(t)
	s.List(query(func(q *types.UserQuery) { q.SortBy, q.Order = types.SortByAge, types.OrderDesc }))
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(s.List(query(nil)).Items))
}
