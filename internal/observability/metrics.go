package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jralmeda/pcxscraper/logger"
)

var (
	// PagesFetched counts successfully fetched pages (listing and detail)
	PagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_pages_fetched_total",
			Help: "Total pages fetched successfully",
		},
	)

	// FetchFailures counts failed page fetches
	FetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_fetch_failures_total",
			Help: "Total page fetches that failed",
		},
	)

	// RecordsMerged counts records that completed the merge step
	RecordsMerged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_records_merged_total",
			Help: "Total product records merged into the dataset",
		},
	)
)

// Start registers the counters and serves /metrics on the given port
func Start(port string) {
	prometheus.MustRegister(PagesFetched, FetchFailures, RecordsMerged)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			logger.Error("Metrics listener stopped: %v", err)
		}
	}()
}
