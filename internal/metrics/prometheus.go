package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StubDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nlpengine_stub_duration_seconds",
			Help:    "Mock stub duration in seconds, simulated latency included",
			Buckets: []float64{0.1, 0.5, 1, 2, 3, 4, 5},
		},
		[]string{"stub"},
	)

	StubCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlpengine_stub_calls_total",
			Help: "Total mock stub calls by outcome",
		},
		[]string{"stub", "outcome"},
	)

	APIKeyOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlpengine_api_key_operations_total",
			Help: "Total API key operations",
		},
		[]string{"operation", "status"},
	)

	APIKeyTests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlpengine_api_key_tests_total",
			Help: "Total API key tests by result",
		},
		[]string{"result"},
	)

	ExpiredKeys = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nlpengine_api_keys_expired_total",
			Help: "Total API keys moved to expired by the scheduler",
		},
	)
)

var initOnce sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(StubDuration)
		prometheus.MustRegister(StubCalls)
		prometheus.MustRegister(APIKeyOperations)
		prometheus.MustRegister(APIKeyTests)
		prometheus.MustRegister(ExpiredKeys)
	})
}

// Outcome labels a finished stub call.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// ObserveStub records one call of stub that started at start.
func ObserveStub(stub string, start time.Time, err error) {
	StubDuration.WithLabelValues(stub).Observe(time.Since(start).Seconds())
	StubCalls.WithLabelValues(stub, Outcome(err)).Inc()
}

func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
