package keytester

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"nlpengine/internal/config"
	"nlpengine/internal/db"
	"nlpengine/internal/metrics"
	"nlpengine/internal/model"
	"nlpengine/internal/validation"
)

// HTTPClient defines the interface for making HTTP requests.
// This allows for mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// usage is a successful test waiting to be written back as lastUsed.
type usage struct {
	id string
	at time.Time
}

// Tester checks stored API keys on demand.
type Tester struct {
	db            db.Service
	logger        *slog.Logger
	httpClient    HTTPClient
	services      map[string]config.ServiceConfig
	now           func() time.Time
	updateQueue   chan usage
	wg            sync.WaitGroup
	mu            sync.RWMutex
	closed        bool
	syncDBUpdates bool // For testing purposes
}

// New creates a Tester and starts its lastUsed writer. Call Close to stop it.
func New(dbService db.Service, cfg config.KeyTesterConfig, logger *slog.Logger) *Tester {
	t := &Tester{
		db:     dbService,
		logger: logger.With("component", "keytester"),
		httpClient: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		services:    cfg.Services,
		now:         time.Now,
		updateQueue: make(chan usage, 100),
	}

	t.wg.Add(1)
	go t.usageUpdater()

	return t
}

// usageUpdater persists lastUsed for keys that passed a test.
func (t *Tester) usageUpdater() {
	defer t.wg.Done()
	for u := range t.updateQueue {
		t.touch(u)
	}
	t.logger.Info("Usage updater worker stopped.")
}

func (t *Tester) touch(u usage) {
	if err := t.db.TouchAPIKey(u.id, u.at); err != nil {
		t.logger.Warn("Failed to record key usage", "key_id", u.id, "error", err)
	}
}

// Close stops the background writer after draining queued updates.
func (t *Tester) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.updateQueue)
	t.mu.Unlock()

	t.wg.Wait()
	t.logger.Info("Key tester shutdown complete.")
}

// Test checks the key with the given id. Only storage failures are returned
// as errors; a key that fails its checks yields an unsuccessful result.
func (t *Tester) Test(ctx context.Context, id string) (*model.TestResult, error) {
	key, err := t.db.GetAPIKey(id)
	if err != nil {
		return nil, err
	}

	result := t.check(ctx, key)
	outcome := "success"
	if !result.Success {
		outcome = "failure"
	}
	metrics.APIKeyTests.WithLabelValues(outcome).Inc()

	if result.Success {
		t.logger.Info("API key test succeeded", "key_id", id, "service", key.Service)
		t.recordUsage(usage{id: id, at: t.now()})
	} else {
		t.logger.Warn("API key test failed", "key_id", id, "service", key.Service, "reason", result.Message)
	}
	return result, nil
}

func (t *Tester) check(ctx context.Context, key *model.APIKey) *model.TestResult {
	switch {
	case key.Status == model.StatusRevoked:
		return &model.TestResult{Success: false, Message: "API key has been revoked"}
	case key.Status == model.StatusExpired, key.ExpiresAt != nil && !key.ExpiresAt.After(t.now()):
		return &model.TestResult{Success: false, Message: "API key has expired"}
	case !validation.ValidateAPIKey(key.Key):
		return &model.TestResult{Success: false, Message: "API key format is invalid"}
	}

	svc, ok := t.services[key.Service]
	if !ok || svc.TestURL == "" {
		return &model.TestResult{Success: true, Message: "API key is valid"}
	}
	if err := t.probe(ctx, svc.TestURL, key.Key); err != nil {
		return &model.TestResult{Success: false, Message: fmt.Sprintf("API key was rejected by %s: %v", key.Service, err)}
	}
	return &model.TestResult{Success: true, Message: fmt.Sprintf("API key is valid for %s", key.Service)}
}

func (t *Tester) recordUsage(u usage) {
	if t.syncDBUpdates {
		t.touch(u)
		return
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.updateQueue <- u:
	default:
		t.logger.Error("Failed to queue key usage update: queue is full")
	}
}

// probe sends a cheap authenticated GET to the service with the key as a Bearer token.
func (t *Tester) probe(ctx context.Context, testURL, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, testURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create test request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("test request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("test request returned non-200 status: %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
