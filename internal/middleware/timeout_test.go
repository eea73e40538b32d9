package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taste-tribe/pkg/apierror"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("slow handler gets a json 503", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})

		rec := httptest.NewRecorder()
		Timeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, apierror.CodeRequestTimeout, decodeErrorCode(t, rec))
	})

	t.Run("fast handler keeps its headers", func(t *testing.T) {
		fast := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("done"))
		})

		rec := httptest.NewRecorder()
		Timeout(time.Second)(fast).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "done", rec.Body.String())
	})
}
