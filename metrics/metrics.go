package metrics

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WebhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_requests_total",
		Help: "Provider webhook calls by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	CacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "balance_cache_events_total",
		Help: "Balance cache hits, misses and invalidations.",
	}, []string{"event"})

	DegradedMatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bet_degraded_matches_total",
		Help: "Credits settled via the most-recent-active-bet fallback.",
	})
)

type HealthFunc func(ctx context.Context) error

// StartServer exposes /metrics and /healthz on a sidecar listener, separate
// from the public Fiber app.
func StartServer(port string, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := healthFn(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("unhealthy: %v", err)))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("⚠️  metrics server: %v", err)
		}
	}()

	return srv
}
