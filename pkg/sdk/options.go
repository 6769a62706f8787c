package sitesearch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	solrURL          string
	timeout          time.Duration
	maxRetries       int
	readinessTimeout time.Duration
	httpClient       *http.Client
	exportPageSize   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSolr sets the Solr core base URL, e.g. http://localhost:8983/solr/site_search.
func WithSolr(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.solrURL = url
	})
}

// WithTimeout sets the per-request engine timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithMaxRetries sets how often a failed engine request is retried. Default: 0.
func WithMaxRetries(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxRetries = n
	})
}

// WithReadinessTimeout bounds the wait for the engine in New. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithHTTPClient replaces the HTTP client used for engine requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithExportPageSize sets the rows fetched per export page. Default: 10000.
func WithExportPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.exportPageSize = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
