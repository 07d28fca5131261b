package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/harperreed/fomo/charm"
	"github.com/harperreed/fomo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorageServer keeps datasets in memory the way the real handler does.
type fakeStorageServer struct {
	mu       sync.Mutex
	docs     map[string][]byte
	lastAuth string
}

func (f *fakeStorageServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAuth = r.Header.Get("Authorization")
	ns := models.Namespace(r.URL.Query().Get("userId"))

	switch r.Method {
	case http.MethodGet:
		raw, ok := f.docs[ns]
		if !ok {
			raw, _ = models.EncodeDataset(nil, false)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		_ = json.Unmarshal(body, &envelope)
		f.docs[ns] = envelope.Data
	case http.MethodDelete:
		delete(f.docs, ns)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestRemoteBackendRoundTrip(t *testing.T) {
	fake := &fakeStorageServer{docs: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	r := NewRemoteBackend(srv.URL+"/", "tok")
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "a b", sampleDataset("remote")))
	assert.Contains(t, fake.docs, "a b")
	assert.Equal(t, "Bearer tok", fake.lastAuth)

	ds, err := r.Load(ctx, "a b")
	require.NoError(t, err)
	assert.Equal(t, "remote", ds.Tasks[0]["text"])

	require.NoError(t, r.Clear(ctx, "a b"))
	ds, err = r.Load(ctx, "a b")
	require.NoError(t, err)
	assert.Empty(t, ds.Tasks)
}

func TestRemoteBackendStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRemoteBackend(srv.URL, "").Load(context.Background(), "u1")
	var statusErr *ErrRemoteStatus
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
}

func TestRemoteFallsBackToKV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	local := NewKVBackend(charm.NewTestClient(t))
	s := New(NewFallbackBackend(NewRemoteBackend(srv.URL, ""), local, nil), nil)
	ctx := context.Background()

	s.SaveData(ctx, sampleDataset("offline"), "u1")
	assert.Equal(t, "offline", s.LoadData(ctx, "u1").Tasks[0]["text"])

	s.ClearData(ctx, "u1")
	_, err := local.Load(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoteUnreachableFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	local := NewKVBackend(charm.NewTestClient(t))
	require.NoError(t, local.Save(context.Background(), "u1", sampleDataset("cached")))

	f := NewFallbackBackend(NewRemoteBackend(url, ""), local, nil)
	ds, err := f.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "cached", ds.Tasks[0]["text"])
}
