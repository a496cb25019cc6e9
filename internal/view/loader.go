// Package view models the local state a dashboard view keeps while it loads
// data: the latest result, whether a load is in flight and the last error.
package view

import (
	"context"
	"sync"
)

// Snapshot is a consistent copy of a Loader's state.
type Snapshot[T any] struct {
	Data    T
	Loading bool
	Err     error
	// Loaded reports whether any load has completed successfully.
	Loaded bool
}

// Loader runs loads for a single view. Starting a new load cancels the one
// in flight, and only the most recently started load may commit its result.
type Loader[T any] struct {
	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	state   Snapshot[T]
	onStore func(Snapshot[T])
}

// NewLoader returns an empty Loader. onStore, if not nil, is called with the
// new state after every committed load.
func NewLoader[T any](onStore func(Snapshot[T])) *Loader[T] {
	return &Loader[T]{onStore: onStore}
}

// Load runs fn and commits its result unless another Load started meanwhile.
// It returns fn's result; callers whose load was superseded get
// context.Canceled if fn honoured the cancellation.
func (l *Loader[T]) Load(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.state.Loading = true
	l.mu.Unlock()

	data, err := fn(ctx)

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return data, err
	}
	l.cancel = nil
	l.state.Loading = false
	l.state.Err = err
	if err == nil {
		l.state.Data = data
		l.state.Loaded = true
	}
	snap := l.state
	l.mu.Unlock()

	if l.onStore != nil {
		l.onStore(snap)
	}
	return data, err
}

// Snapshot returns the current state.
func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Cancel aborts the load in flight, if any. Its result will not be committed.
func (l *Loader[T]) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
		l.gen++
		l.state.Loading = false
	}
}
