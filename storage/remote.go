// ABOUTME: Remote storage tier talking to a fomo server's /api/storage endpoint
// ABOUTME: Sends a bearer token when one is configured
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/harperreed/fomo/models"
	"golang.org/x/oauth2"
)

// StoragePath is the server route the remote tier calls.
const StoragePath = "/api/storage"

// ErrRemoteStatus wraps a non-2xx response.
type ErrRemoteStatus struct {
	Method string
	Status int
}

func (e *ErrRemoteStatus) Error() string {
	return fmt.Sprintf("remote %s returned %d", e.Method, e.Status)
}

type RemoteBackend struct {
	baseURL string
	client  *http.Client
}

// NewRemoteBackend returns a tier talking to baseURL. A non-empty token is
// sent as an Authorization bearer header.
func NewRemoteBackend(baseURL, token string) *RemoteBackend {
	client := &http.Client{Timeout: 15 * time.Second}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		client = oauth2.NewClient(context.Background(), src)
		client.Timeout = 15 * time.Second
	}
	return &RemoteBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (r *RemoteBackend) endpoint(namespace string) string {
	return r.baseURL + StoragePath + "?userId=" + url.QueryEscape(models.Namespace(namespace))
}

func (r *RemoteBackend) do(ctx context.Context, method, namespace string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.endpoint(namespace), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remote %s: read body: %w", method, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ErrRemoteStatus{Method: method, Status: resp.StatusCode}
	}
	return raw, nil
}

func (r *RemoteBackend) Load(ctx context.Context, namespace string) (*models.Dataset, error) {
	raw, err := r.do(ctx, http.MethodGet, namespace, nil)
	if err != nil {
		return nil, err
	}
	return models.DecodeDataset(raw)
}

func (r *RemoteBackend) Save(ctx context.Context, namespace string, ds *models.Dataset) error {
	if ds == nil {
		ds = models.NewDataset()
	}
	ds.Normalize()
	body, err := json.Marshal(struct {
		Data *models.Dataset `json:"data"`
	}{Data: ds})
	if err != nil {
		return err
	}
	_, err = r.do(ctx, http.MethodPost, namespace, bytes.NewReader(body))
	return err
}

func (r *RemoteBackend) Clear(ctx context.Context, namespace string) error {
	_, err := r.do(ctx, http.MethodDelete, namespace, nil)
	return err
}
