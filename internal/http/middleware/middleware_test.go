package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ok/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	mux.HandleFunc("GET /boom", func(w http.ResponseWriter, r *http.Request) {
		panic("secret internals")
	})
	return Wrap(mux, Options{
		Service:        "mwtest",
		AllowedOrigins: []string{"*"},
		OnPanic: func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("generic"))
		},
	})
}

func TestWrap_RecoversPanicsWithoutLeakingDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	testHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "generic", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestWrap_CountsRequestsByRoutePattern(t *testing.T) {
	h := testHandler()
	counter := httpRequestsTotal.WithLabelValues("mwtest", "GET", "GET /ok/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/ok/1", "/ok/2"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestWrap_CountsPanickingRequests(t *testing.T) {
	h := testHandler()
	counter := httpRequestsTotal.WithLabelValues("mwtest", "GET", "GET /boom", "500")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestWrap_AnswersCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/ok/1", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")

	rec := httptest.NewRecorder()
	testHandler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
