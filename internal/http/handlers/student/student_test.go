package student

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/resource-api/internal/storage/sqlite"
	"github.com/aanand-mishra/resource-api/internal/storage/storagetest"
	"github.com/aanand-mishra/resource-api/internal/types"
	"github.com/aanand-mishra/resource-api/internal/validate"
)

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "students.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	v, err := validate.New("91")
	require.NoError(t, err)

	mux := http.NewServeMux()
	Register(mux, store, v)
	return mux
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func TestRoot(t *testing.T) {
	rec := do(t, newHandler(t), http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Message: Welcome to the Student API!"`, rec.Body.String())
}

func TestUnmatchedRoutes(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodGet, "/students", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())

	rec = do(t, h, http.MethodPatch, "/Student/1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"detail":"Method Not Allowed"}`, rec.Body.String())
}

func TestStudentLifecycle(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodGet, "/Student", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/Student", storagetest.Student("asha"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created types.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "2002-04-17", created.DoB)
	assert.Contains(t, rec.Body.String(), `"DoB"`)

	do(t, h, http.MethodPost, "/Student", storagetest.Student("bala"))

	rec = do(t, h, http.MethodGet, "/Student", nil)
	var all []types.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 2)
	assert.Equal(t, "asha", all[0].Name)
	assert.Equal(t, "bala", all[1].Name)

	changed := storagetest.Student("asha")
	changed.Course = "M.Tech"
	rec = do(t, h, http.MethodPut, "/student/1", changed)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.JSONEq(t, `"Student with the id 1 is updated successfully"`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/Student/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got types.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "M.Tech", got.Course)
	assert.Equal(t, int64(1), got.ID)

	rec = do(t, h, http.MethodDelete, "/Student/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/Student/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Student with the id 1 is not available"}`, rec.Body.String())
}

func TestMissingStudent(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodPut, "/student/7", storagetest.Student("asha"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Student with the id 7 is not available"}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/Student/7", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidation(t *testing.T) {
	h := newHandler(t)

	bad := storagetest.Student("asha")
	bad.Phone = "+14155550100"
	bad.Gender = "X"
	bad.DoB = "17/04/2002"
	rec := do(t, h, http.MethodPost, "/Student", bad)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Detail []validate.FieldError `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	fields := make([]string, 0, len(body.Detail))
	for _, fe := range body.Detail {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"phone", "gender", "DoB"}, fields)

	rec = do(t, h, http.MethodGet, "/Student/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/Student", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/Student", nil)
	assert.JSONEq(t, `[]`, rec.Body.String(), "rejected input is never stored")
}
