package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItsFelix5/flavor-adventure/internal/token"
)

type fakeStore struct {
	regs map[string]*Registration
}

func newFakeStore() *fakeStore {
	return &fakeStore{regs: map[string]*Registration{}}
}

func (f *fakeStore) Upsert(_ context.Context, subject, mapURL string) error {
	f.regs[subject] = &Registration{Subject: subject, MapURL: mapURL}
	return nil
}

func (f *fakeStore) Get(_ context.Context, subject string) (*Registration, error) {
	return f.regs[subject], nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *token.Manager, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := token.NewManager("test-secret")
	store := newFakeStore()

	r := gin.New()
	NewHandler(tokens, store).RegisterRoutes(r)
	return r, tokens, store
}

func postRegister(t *testing.T, r *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/map/register", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterHappyPath(t *testing.T) {
	r, tokens, store := newTestRouter(t)

	authToken, err := tokens.Issue(token.Claims{Identifier: "a@b.com", ProviderSubject: "U12345"})
	require.NoError(t, err)

	w := postRegister(t, r, map[string]string{
		"mapUrl":    "https://orpheus.github.io/world/map.tmj",
		"authToken": authToken,
	})

	require.Equal(t, http.StatusOK, w.Code)
	reg := store.regs["U12345"]
	require.NotNil(t, reg)
	assert.Equal(t, "orpheus.github.io/world/map.tmj", reg.MapURL, "scheme is stripped")
}

func TestRegisterRejectsInvalidToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := postRegister(t, r, map[string]string{
		"mapUrl":    "orpheus.github.io/world/map.tmj",
		"authToken": "garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRequiresProviderSubject(t *testing.T) {
	r, tokens, _ := newTestRouter(t)

	authToken, err := tokens.Issue(token.Claims{Identifier: "a@b.com"})
	require.NoError(t, err)

	w := postRegister(t, r, map[string]string{
		"mapUrl":    "orpheus.github.io/world/map.tmj",
		"authToken": authToken,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterRejectsUntrustedHost(t *testing.T) {
	r, tokens, _ := newTestRouter(t)

	authToken, err := tokens.Issue(token.Claims{Identifier: "a@b.com", ProviderSubject: "U12345"})
	require.NoError(t, err)

	for _, bad := range []string{
		"evil.example.com/map.tmj",
		"orpheus.github.io.evil.com/map.tmj",
		"orpheus.github.io/readme.md",
		"map.tmj",
	} {
		w := postRegister(t, r, map[string]string{"mapUrl": bad, "authToken": authToken})
		assert.Equal(t, http.StatusBadRequest, w.Code, "url %q", bad)
	}
}

func TestLookup(t *testing.T) {
	r, _, store := newTestRouter(t)
	store.regs["U12345"] = &Registration{Subject: "U12345", MapURL: "orpheus.github.io/world/map.tmj", IsApproved: true}

	req := httptest.NewRequest(http.MethodGet, "/map/registry/U12345", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "orpheus.github.io/world/map.tmj", body["mapUrl"])
	assert.Equal(t, true, body["isApproved"])

	req = httptest.NewRequest(http.MethodGet, "/map/registry/UNKNOWN", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
