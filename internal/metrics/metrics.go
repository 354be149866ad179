// Package metrics exposes the Prometheus instruments shared by the HTTP
// layer and the export worker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "financas_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "financas_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	LedgerMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "financas_ledger_transactions_total",
		Help: "Committed ledger mutations by kind and action.",
	}, []string{"kind", "action"})

	LedgerRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "financas_ledger_rejections_total",
		Help: "Ledger mutations rejected by a business rule.",
	}, []string{"kind"})

	ExportedRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "financas_exported_rows_total",
		Help: "Ledger rows appended to the export sheet.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
