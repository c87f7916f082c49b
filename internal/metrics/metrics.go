package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type Registry struct {
	reg *prometheus.Registry

	SearchesTotal  prometheus.Counter
	SearchFailures prometheus.Counter
	SearchDuration prometheus.Histogram

	ProviderRetries      prometheus.Counter
	RateFallbacks        prometheus.Counter
	MetadataMisses       prometheus.Counter
	HistoryWriteFailures prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	searches := prometheus.NewCounter(prometheus.CounterOpts{Name: "gameprice_searches_total"})
	failures := prometheus.NewCounter(prometheus.CounterOpts{Name: "gameprice_search_failures_total"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gameprice_search_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})
	retries := prometheus.NewCounter(prometheus.CounterOpts{Name: "gameprice_provider_retries_total"})
	rateFallbacks := prometheus.NewCounter(prometheus.CounterOpts{Name: "gameprice_rate_fallbacks_total"})
	metadataMisses := prometheus.NewCounter(prometheus.CounterOpts{Name: "gameprice_metadata_misses_total"})
	historyFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "gameprice_history_write_failures_total"})

	r.MustRegister(searches, failures, duration, retries, rateFallbacks, metadataMisses, historyFailures)

	return &Registry{
		reg:                  r,
		SearchesTotal:        searches,
		SearchFailures:       failures,
		SearchDuration:       duration,
		ProviderRetries:      retries,
		RateFallbacks:        rateFallbacks,
		MetadataMisses:       metadataMisses,
		HistoryWriteFailures: historyFailures,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

var Module = fx.Provide(NewRegistry)
