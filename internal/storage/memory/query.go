package memory

import (
	"sort"
	"strings"

	"github.com/aanand-mishra/resource-api/internal/types"
)

func filterUsers(users []types.User, q types.UserQuery) []types.User {
	needle := strings.ToLower(q.Q)

	out := users[:0]
	for _, u := range users {
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		if q.MinAge != nil && u.Age < *q.MinAge {
			continue
		}
		if q.MaxAge != nil && u.Age > *q.MaxAge {
			continue
		}
		out = append(out, u)
	}
	return out
}

// sortUsers is stable in both directions: users with equal keys keep their
// insertion order even when sorting descending.
func sortUsers(users []types.User, sortBy, order string) {
	less := func(a, b types.User) bool { return a.ID < b.ID }
	switch sortBy {
	case types.SortByName:
		less = func(a, b types.User) bool { return a.Name < b.Name }
	case types.SortByAge:
		less = func(a, b types.User) bool { return a.Age < b.Age }
	}

	if order == types.OrderDesc {
		sort.SliceStable(users, func(i, j int) bool { return less(users[j], users[i]) })
		return
	}
	sort.SliceStable(users, func(i, j int) bool { return less(users[i], users[j]) })
}

// paginate returns the window for page. A page past the end, however
// large, yields nil.
func paginate(users []types.User, page, limit int) []types.User {
	if len(users) == 0 || page < 1 || limit < 1 || page-1 > (len(users)-1)/limit {
		return nil
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(users) {
		end = len(users)
	}
	return users[start:end]
}
