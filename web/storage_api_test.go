package web

import (
	"net/http"
	"testing"

	"github.com/harperreed/fomo/config"
	"github.com/harperreed/fomo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageRoundTrip(t *testing.T) {
	s := newTestServer(t, config.AuthNone)

	body := map[string]interface{}{
		"data": map[string]interface{}{
			"tasks":    []map[string]interface{}{{"id": "t1", "text": "a"}},
			"projects": []interface{}{},
			"dreams":   []interface{}{},
			"people":   []interface{}{},
		},
	}
	w := do(t, s, http.MethodPost, "/api/storage?userId=userA", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, s, http.MethodGet, "/api/storage?userId=userA", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ds models.Dataset
	decode(t, w, &ds)
	require.Len(t, ds.Tasks, 1)
	assert.Equal(t, "a", ds.Tasks[0]["text"])

	w = do(t, s, http.MethodGet, "/api/storage?userId=userB", nil)
	decode(t, w, &ds)
	assert.Empty(t, ds.Tasks)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodDelete, "/api/storage?userId=userA", nil).Code)
	decode(t, do(t, s, http.MethodGet, "/api/storage?userId=userA", nil), &ds)
	assert.Empty(t, ds.Tasks)
}

func TestStorageEmptyDocument(t *testing.T) {
	s := newTestServer(t, config.AuthNone)

	w := do(t, s, http.MethodGet, "/api/storage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tasks":[],"projects":[],"dreams":[],"people":[]}`, w.Body.String())

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/storage?userId=u1", map[string]interface{}{}).Code)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/storage?userId=u1", nil).Code)
	w = do(t, s, http.MethodGet, "/api/storage?userId=u1", nil)
	assert.JSONEq(t, `{"tasks":[],"projects":[],"dreams":[],"people":[]}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/storage", `{"data": 42}`).Code)
}

func TestStorageMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, config.AuthNone)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		w := do(t, s, method, "/api/storage", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, POST, DELETE", w.Header().Get("Allow"))
		assert.Equal(t, "Method "+method+" not allowed", w.Body.String())
	}
}

func TestStorageNamespaceGate(t *testing.T) {
	s := newTestServer(t, config.AuthMockCookie)

	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/api/storage?userId=alice", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, s, http.MethodGet, "/api/storage?userId=alice", nil, withCookie("mallory")).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/storage?userId=alice", nil, withCookie("alice")).Code)

	body := map[string]interface{}{"data": map[string]interface{}{"dreams": []map[string]string{{"text": "fly"}}}}
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/storage", body, withCookie("alice")).Code)

	var ds models.Dataset
	decode(t, do(t, s, http.MethodGet, "/api/storage?userId=alice", nil, withCookie("alice")), &ds)
	require.Len(t, ds.Dreams, 1)
}
