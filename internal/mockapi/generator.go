// Package mockapi fabricates the responses behind every dashboard feature:
// keyword tracking, site audits, SERP analysis, content generation and
// blockchain verification. Each operation waits a simulated network latency
// and then builds its result from an injected random source, so a fixed seed
// reproduces the exact same output.
package mockapi

import (
	"context"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Generator produces mock responses. It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
	scale float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes the generator deterministic.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand injects a caller-owned random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithClock overrides the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLatencyScale multiplies every simulated delay. Zero disables them.
func WithLatencyScale(scale float64) Option {
	return func(g *Generator) { g.scale = scale }
}

// New returns a Generator seeded from the runtime unless an option says otherwise.
func New(opts ...Option) *Generator {
	g := &Generator{
		now:   time.Now,
		scale: 1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// wait simulates the network round trip of a stub.
func (g *Generator) wait(ctx context.Context, d time.Duration) error {
	d = time.Duration(float64(d) * g.scale)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Generator) float() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}

// chance reports whether a uniform draw lands above threshold, so
// chance(0.2) succeeds about 80% of the time.
func (g *Generator) chance(threshold float64) bool {
	return g.float() > threshold
}

func (g *Generator) pick(items []string) string {
	return items[g.intn(len(items))]
}

const hexDigits = "0123456789abcdef"

// hex returns "0x" followed by n random lowercase hex digits.
func (g *Generator) hex(n int) string {
	var b strings.Builder
	b.Grow(n + 2)
	b.WriteString("0x")
	g.mu.Lock()
	for range n {
		b.WriteByte(hexDigits[g.rng.IntN(16)])
	}
	g.mu.Unlock()
	return b.String()
}

// timestamp returns the clock reading at millisecond precision in UTC.
func (g *Generator) timestamp() time.Time {
	return g.now().UTC().Truncate(time.Millisecond)
}

const day = 24 * time.Hour

var whitespace = regexp.MustCompile(`\s+`)

// slug replaces runs of whitespace with a single dash.
func slug(s string) string {
	return whitespace.ReplaceAllString(s, "-")
}
