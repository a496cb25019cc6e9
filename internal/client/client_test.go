package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nlpengine/internal/apikeys"
	"nlpengine/internal/config"
	"nlpengine/internal/db"
	"nlpengine/internal/keytester"
	"nlpengine/internal/model"
	"nlpengine/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbService, err := db.NewService(config.DatabaseConfig{Type: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tester := keytester.New(dbService, config.KeyTesterConfig{Timeout: "1s"}, log)

	router := gin.New()
	apikeys.SetupRoutes(router, dbService, tester, log)
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		tester.Close()
	})
	return srv
}

func keyRequest(name string) model.APIKeyRequest {
	return model.APIKeyRequest{
		Name:        name,
		Key:         "sk_test_0123456789abcdef",
		Domain:      "example.com",
		Service:     "analytics",
		Permissions: []string{"read"},
	}
}

func TestCRUDRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	keys, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	created, err := c.Create(ctx, keyRequest("Analytics"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, created.Status)

	keys, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, created.ID, keys[0].ID)

	req := keyRequest("Renamed")
	req.Permissions = []string{"read", "write"}
	updated, err := c.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	keys, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "Renamed", keys[0].Name)
	assert.Equal(t, model.Permissions{"read", "write"}, keys[0].Permissions)

	result, err := c.Test(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.NoError(t, c.Delete(ctx, created.ID))
	keys, err = c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestServerErrorMessage(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)

	_, err := c.Create(context.Background(), model.APIKeyRequest{Name: "x", Key: "y", Domain: "not a domain"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, `Invalid domain format: "not a domain"`, apiErr.Message)

	err = c.Delete(context.Background(), "missing")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "API key not found", apiErr.Message)
}

func TestFallbackMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.List(ctx)
	assert.EqualError(t, err, "Failed to fetch API keys")
	_, err = c.Create(ctx, keyRequest("a"))
	assert.EqualError(t, err, "Failed to add API key")
	_, err = c.Update(ctx, "id", keyRequest("a"))
	assert.EqualError(t, err, "Failed to update API key")
	err = c.Delete(ctx, "id")
	assert.EqualError(t, err, "Failed to delete API key")
	_, err = c.Test(ctx, "id")
	assert.EqualError(t, err, "Failed to test API key")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, WithTimeout(50*time.Millisecond))
	start := time.Now()
	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to fetch API keys")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL).List(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestKeyStoreRefreshesAfterMutations(t *testing.T) {
	srv := newTestServer(t)
	var snapshots []view.Snapshot[[]model.APIKey]
	store := NewKeyStore(New(srv.URL), func(s view.Snapshot[[]model.APIKey]) {
		snapshots = append(snapshots, s)
	})
	ctx := context.Background()

	_, err := store.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, store.Keys())

	first, err := store.Add(ctx, keyRequest("first"))
	require.NoError(t, err)
	second, err := store.Add(ctx, keyRequest("second"))
	require.NoError(t, err)
	require.Len(t, store.Keys(), 2)

	_, err = store.Update(ctx, first.ID, keyRequest("first renamed"))
	require.NoError(t, err)
	assert.Equal(t, "first renamed", store.Keys()[0].Name)

	result, err := store.Test(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.NoError(t, store.Delete(ctx, first.ID))
	keys := store.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, second.ID, keys[0].ID)

	assert.Len(t, snapshots, 6)
	assert.False(t, store.Snapshot().Loading)
}

func TestKeyStoreKeepsListOnFailedMutation(t *testing.T) {
	srv := newTestServer(t)
	store := NewKeyStore(New(srv.URL), nil)
	ctx := context.Background()

	_, err := store.Add(ctx, keyRequest("kept"))
	require.NoError(t, err)

	_, err = store.Add(ctx, model.APIKeyRequest{Name: "bad"})
	require.Error(t, err)
	require.Len(t, store.Keys(), 1)
	assert.Equal(t, "kept", store.Keys()[0].Name)
}
