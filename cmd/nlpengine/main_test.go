package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"nlpengine/internal/client"
	"nlpengine/internal/config"
	"nlpengine/internal/db"
	"nlpengine/internal/keytester"
	"nlpengine/internal/mockapi"
	"nlpengine/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomRecovery_Panic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logBuf bytes.Buffer
	testLogger := slog.New(slog.NewJSONHandler(&logBuf, nil))

	router := gin.New()
	router.Use(customRecovery(testLogger))
	router.GET("/", func(c *gin.Context) {
		panic("test panic")
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, logBuf.String(), "Panic recovered")
	assert.Contains(t, logBuf.String(), "test panic")
}

func TestCustomRecovery_AbortHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logBuf bytes.Buffer
	testLogger := slog.New(slog.NewJSONHandler(&logBuf, nil))

	router := gin.New()
	router.Use(customRecovery(testLogger))
	router.GET("/", func(c *gin.Context) {
		panic(http.ErrAbortHandler)
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Contains(t, logBuf.String(), "Client connection aborted")
	assert.NotContains(t, logBuf.String(), "Panic recovered")
}

// newTestRouter wires the full router onto an in-memory database.
func newTestRouter(t *testing.T) (*gin.Engine, db.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbService, err := db.NewService(config.DatabaseConfig{Type: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tester := keytester.New(dbService, config.KeyTesterConfig{Timeout: "1s"}, log)
	t.Cleanup(tester.Close)

	gen := mockapi.New(mockapi.WithSeed(7), mockapi.WithLatencyScale(0))
	return newRouter(log, dbService, gen, tester), dbService
}

func TestRouter(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("healthz", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "go_goroutines")
	})

	t.Run("mock stubs", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/keywords", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		var keywords []mockapi.Keyword
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &keywords))
		assert.Len(t, keywords, 15)
	})

	t.Run("api keys", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/api-keys", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	t.Run("seeded output is reproducible", func(t *testing.T) {
		first, err := run(t, "generate", "keywords", "--seed", "42")
		require.NoError(t, err)
		second, err := run(t, "generate", "keywords", "--seed", "42")
		require.NoError(t, err)
		assert.Equal(t, first, second)

		var keywords []mockapi.Keyword
		require.NoError(t, json.Unmarshal([]byte(first), &keywords))
		assert.Len(t, keywords, 15)
	})

	t.Run("arguments reach the stub", func(t *testing.T) {
		out, err := run(t, "generate", "serp", "--seed", "1", "--arg", "keyword=seo tools,device=mobile")
		require.NoError(t, err)

		var analysis mockapi.SERPAnalysis
		require.NoError(t, json.Unmarshal([]byte(out), &analysis))
		assert.Equal(t, "seo tools", analysis.Keyword)
		assert.Equal(t, "mobile", analysis.Device)
		assert.Equal(t, "United States", analysis.Location)
	})

	t.Run("content keywords are split on commas", func(t *testing.T) {
		out, err := run(t, "generate", "generate-content", "--seed", "3",
			"--arg", "topic=Remote Work", "--arg", "tone=10")
		require.NoError(t, err)
		assert.Contains(t, out, "Remote Work")
	})

	t.Run("bad integer argument", func(t *testing.T) {
		_, err := run(t, "generate", "generate-content", "--arg", "tone=loud")
		assert.ErrorContains(t, err, "argument tone")
	})

	t.Run("unknown stub", func(t *testing.T) {
		_, err := run(t, "generate", "weather")
		assert.Error(t, err)
	})
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "sk_test_...cdef", maskKey("sk_test_0123456789abcdef"))
	assert.Equal(t, "abc...abc", maskKey("abc"))
}

func TestKeysCommands(t *testing.T) {
	router, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()
	server := "--server=" + srv.URL

	out, err := run(t, "keys", "list", server)
	require.NoError(t, err)
	assert.Contains(t, out, "No API keys found")

	out, err = run(t, "keys", "add", server,
		"--name", "Analytics", "--key", "sk_test_0123456789abcdef", "--domain", "example.com",
		"--permission", "read", "--permission", "write")
	require.NoError(t, err)
	assert.Contains(t, out, `API key "Analytics" has been added successfully`)

	keys, err := client.New(srv.URL).List(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	id := keys[0].ID
	assert.Equal(t, "analytics", keys[0].Service)
	assert.Equal(t, model.Permissions{"read", "write"}, keys[0].Permissions)

	out, err = run(t, "keys", "list", server)
	require.NoError(t, err)
	assert.Contains(t, out, "Analytics API")
	assert.Contains(t, out, "sk_test_...cdef")
	assert.NotContains(t, out, "sk_test_0123456789abcdef")
	assert.Contains(t, out, "Never")

	out, err = run(t, "keys", "list", server, "--show-keys")
	require.NoError(t, err)
	assert.Contains(t, out, "sk_test_0123456789abcdef")

	out, err = run(t, "keys", "update", id, server, "--name", "Renamed", "--status", "revoked")
	require.NoError(t, err)
	assert.Contains(t, out, `API key "Renamed" has been updated successfully`)

	keys, err = client.New(srv.URL).List(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "Renamed", keys[0].Name)
	assert.Equal(t, "example.com", keys[0].Domain)
	assert.Equal(t, model.StatusRevoked, keys[0].Status)
	assert.Equal(t, model.Permissions{"read", "write"}, keys[0].Permissions)

	out, err = run(t, "keys", "test", id, server)
	assert.ErrorIs(t, err, errKeyTestFailed)
	assert.Contains(t, out, "API key has been revoked")

	out, err = run(t, "keys", "delete", id, server)
	require.NoError(t, err)
	assert.Contains(t, out, "API key has been deleted successfully")

	_, err = run(t, "keys", "delete", id, server)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "API key not found", apiErr.Message)
}

func TestKeysAddValidation(t *testing.T) {
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	// No server is contacted when the form is invalid.
	root.SetArgs([]string{"keys", "add", "--server=http://127.0.0.1:1", "--domain", "not a domain", "--permission", "root"})
	err := root.Execute()
	require.Error(t, err)

	stderr := errOut.String()
	assert.Contains(t, stderr, "name: Name is required")
	assert.Contains(t, stderr, "key: API key is required")
	assert.Contains(t, stderr, "domain: Invalid domain format")
	assert.Contains(t, stderr, "permissions: Permissions must be a subset")
}

func TestKeysUpdateUnknownID(t *testing.T) {
	router, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	_, err := run(t, "keys", "update", "missing", "--server="+srv.URL, "--name", "x")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestGracefulShutdown(t *testing.T) {
	latency := 0.0
	cfg := &config.Config{
		Port:      0,
		Database:  config.DatabaseConfig{Type: "sqlite", DSN: "file::memory:"},
		Mock:      config.MockConfig{LatencyScale: &latency},
		Scheduler: config.SchedulerConfig{ExpirySchedule: "@daily"},
		KeyTester: config.KeyTesterConfig{Timeout: "1s"},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbService, err := db.NewService(cfg.Database)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	serverExited := make(chan error, 1)
	go func() {
		serverExited <- setupAndRunServer(ctx, cfg, log, dbService)
	}()

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-serverExited:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second): // 5s shutdown timeout + 1s buffer
		t.Fatal("server did not shut down gracefully within the timeout")
	}
}

func TestSetupAndRunServer_InvalidSchedule(t *testing.T) {
	cfg := &config.Config{
		Scheduler: config.SchedulerConfig{ExpirySchedule: "not a schedule"},
		KeyTester: config.KeyTesterConfig{Timeout: "1s"},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbService, err := db.NewService(config.DatabaseConfig{Type: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)

	err = setupAndRunServer(context.Background(), cfg, log, dbService)
	assert.Error(t, err)
}

func TestServeCommand_BadConfig(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	require.NoError(t, os.WriteFile(path, []byte("port: [not a number"), 0644))

	_, err := run(t, "serve", "--config", path)
	assert.ErrorContains(t, err, "failed to parse config file")
}
