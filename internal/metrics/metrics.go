package metrics

import (
	"errors"
	"time"

	"github.com/orgball2608/insta-profile-viewer/internal/instagram"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "igviewer_profile_fetches_total",
		Help: "Total profile fetches by outcome",
	}, []string{"outcome"})
	FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "igviewer_profile_fetch_duration_seconds",
		Help:    "Profile fetch duration in seconds",
		Buckets: prometheus.DefBuckets,
	})
	StaleResults = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "igviewer_stale_fetch_results_total",
		Help: "Fetch completions discarded because a newer request superseded them",
	})
)

func init() {
	prometheus.MustRegister(FetchTotal, FetchDuration, StaleResults)
}

// ObserveFetch records the duration and outcome of one profile fetch.
func ObserveFetch(start time.Time, err error) {
	FetchDuration.Observe(time.Since(start).Seconds())
	FetchTotal.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	var transportErr *instagram.TransportError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, instagram.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, instagram.ErrInvalidUsername):
		return "invalid_username"
	case errors.Is(err, instagram.ErrMalformedResponse):
		return "malformed"
	case errors.As(err, &transportErr):
		return "transport"
	default:
		return "other"
	}
}
