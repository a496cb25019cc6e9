package client

import (
	"context"
	"fmt"

	"nlpengine/internal/model"
	"nlpengine/internal/view"
)

// KeyStore holds the current set of API keys and refreshes it after every
// mutation made through it.
type KeyStore struct {
	client *Client
	loader *view.Loader[[]model.APIKey]
}

func NewKeyStore(c *Client, onChange func(view.Snapshot[[]model.APIKey])) *KeyStore {
	return &KeyStore{
		client: c,
		loader: view.NewLoader(onChange),
	}
}

// Refresh reloads the key list.
func (s *KeyStore) Refresh(ctx context.Context) ([]model.APIKey, error) {
	return s.loader.Load(ctx, s.client.List)
}

// Keys returns the last loaded key list.
func (s *KeyStore) Keys() []model.APIKey {
	return s.loader.Snapshot().Data
}

func (s *KeyStore) Snapshot() view.Snapshot[[]model.APIKey] {
	return s.loader.Snapshot()
}

func (s *KeyStore) Add(ctx context.Context, req model.APIKeyRequest) (*model.APIKey, error) {
	key, err := s.client.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return key, s.refreshAfter(ctx, "add")
}

func (s *KeyStore) Update(ctx context.Context, id string, req model.APIKeyRequest) (*model.APIKey, error) {
	key, err := s.client.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return key, s.refreshAfter(ctx, "update")
}

func (s *KeyStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		return err
	}
	return s.refreshAfter(ctx, "delete")
}

// Test checks a key, then reloads the list since a passing test updates lastUsed.
func (s *KeyStore) Test(ctx context.Context, id string) (*model.TestResult, error) {
	result, err := s.client.Test(ctx, id)
	if err != nil {
		return nil, err
	}
	return result, s.refreshAfter(ctx, "test")
}

func (s *KeyStore) refreshAfter(ctx context.Context, op string) error {
	if _, err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("%s succeeded but refreshing the key list failed: %w", op, err)
	}
	return nil
}
