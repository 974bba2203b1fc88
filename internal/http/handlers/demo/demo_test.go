package demo

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/resource-api/internal/validate"
)

func serve(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	v, err := validate.New("91")
	require.NoError(t, err)
	mux := http.NewServeMux()
	Register(mux, v)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestStaticPages(t *testing.T) {
	rec := serve(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello! Welcome to the demo service"}`, rec.Body.String())

	rec = serve(t, http.MethodGet, "/about", "")
	assert.JSONEq(t, `{"message":"About Page"}`, rec.Body.String())

	rec = serve(t, http.MethodGet, "/contact", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())

	rec = serve(t, http.MethodGet, "/submit", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want string
	}{
		{
			name: "valid items echoed",
			body: `[{"name":"a","age":0,"id":1,"usn":"1PE20"},{"name":"b","age":3,"id":2}]`,
			code: http.StatusOK,
			want: `{"message":"Data received","data":[{"name":"a","age":0,"id":1,"usn":"1PE20"},{"name":"b","age":3,"id":2,"usn":null}]}`,
		},
		{
			name: "empty list",
			body: `[]`,
			code: http.StatusOK,
			want: `{"message":"Data received","data":[]}`,
		},
		{
			name: "missing field reported with index",
			body: `[{"name":"a","age":1,"id":1},{"name":"b","id":2}]`,
			code: http.StatusUnprocessableEntity,
			want: `{"detail":[{"field":"[1].age","message":"field required"}]}`,
		},
		{
			name: "not an array",
			body: `{"name":"a"}`,
			code: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, http.MethodPost, "/submit", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.want != "" {
				assert.JSONEq(t, tt.want, rec.Body.String())
			}
		})
	}
}
