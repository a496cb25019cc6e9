package mockapi

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC)

func newTestGenerator(seed uint64) *Generator {
	return New(
		WithSeed(seed),
		WithClock(func() time.Time { return fixedNow }),
		WithLatencyScale(0),
	)
}

func TestSameSeedSameOutput(t *testing.T) {
	ctx := context.Background()
	a, b := newTestGenerator(42), newTestGenerator(42)

	auditA, err := a.AuditWebsite(ctx, "https://example.com")
	require.NoError(t, err)
	auditB, err := b.AuditWebsite(ctx, "https://example.com")
	require.NoError(t, err)
	if diff := cmp.Diff(auditA, auditB); diff != "" {
		t.Errorf("audit mismatch (-a +b):\n%s", diff)
	}

	serpA, err := a.AnalyzeSERP(ctx, "local seo", "Canada", "mobile")
	require.NoError(t, err)
	serpB, err := b.AnalyzeSERP(ctx, "local seo", "Canada", "mobile")
	require.NoError(t, err)
	if diff := cmp.Diff(serpA, serpB); diff != "" {
		t.Errorf("serp mismatch (-a +b):\n%s", diff)
	}

	kwA, err := a.Keywords(ctx)
	require.NoError(t, err)
	kwB, err := b.Keywords(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(kwA, kwB); diff != "" {
		t.Errorf("keywords mismatch (-a +b):\n%s", diff)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	ctx := context.Background()
	a, err := newTestGenerator(1).Transactions(ctx)
	require.NoError(t, err)
	b, err := newTestGenerator(2).Transactions(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestWaitHonoursCancellation(t *testing.T) {
	g := New(WithSeed(7))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	report, err := g.AuditWebsite(ctx, "https://example.com")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitDeadline(t *testing.T) {
	g := New(WithSeed(7), WithLatencyScale(0.01))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	// 4s scaled to 40ms outlasts the 5ms deadline.
	_, err := g.AuditWebsite(ctx, "https://example.com")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitScaled(t *testing.T) {
	g := New(WithSeed(7), WithLatencyScale(0.01))
	start := time.Now()
	_, err := g.RecentActivity(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 8*time.Millisecond)
}

func TestHex(t *testing.T) {
	g := newTestGenerator(3)
	h := g.hex(64)
	assert.Len(t, h, 66)
	assert.Regexp(t, `^0x[0-9a-f]{64}$`, h)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "search-engine-optimization", slug("search engine optimization"))
	assert.Equal(t, "a-b", slug("a \t  b"))
	assert.Equal(t, "plain", slug("plain"))
}

func TestConcurrentUse(t *testing.T) {
	g := newTestGenerator(11)
	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 20 {
				_, _ = g.Keywords(context.Background())
			}
		}()
	}
	for range 8 {
		<-done
	}
}
