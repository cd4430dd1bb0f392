package presence

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(tracker *Tracker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(tracker).RegisterRoutes(r)
	return r
}

func TestReadWithoutRedisReportsOffline(t *testing.T) {
	r := newTestRouter(NewTracker(nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/online/u1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body["online"])
}

func TestWritesWithoutRedisAreUnavailable(t *testing.T) {
	r := newTestRouter(NewTracker(nil))

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, "/user/online/u1", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, method)
	}
}
