// Package solr implements engine.Store over the Solr HTTP API.
package solr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sitesearch/internal/engine"
	"github.com/kailas-cloud/sitesearch/internal/metrics"
)

// Compile-time check: Client implements engine.Store.
var _ engine.Store = (*Client)(nil)

const (
	selectPath = "/select"
	pingPath   = "/admin/ping"
	formType   = "application/x-www-form-urlencoded; charset=UTF-8"
)

// Config holds connection parameters for a Solr core.
type Config struct {
	// URL is the core base URL, e.g. http://solr:8983/solr/site_search.
	URL        string
	Timeout    time.Duration
	MaxRetries int
	Logger     *zap.Logger
	HTTPClient *http.Client
}

// Client issues select queries against one Solr core.
type Client struct {
	baseURL    string
	http       *http.Client
	maxRetries int
	logger     *zap.Logger
}

// NewClient creates a Solr client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("solr url is required")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		http:       hc,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
	}, nil
}

// Select runs one query. Network failures and 5xx responses are retried with
// exponential backoff; other failures are returned at once.
func (c *Client) Select(ctx context.Context, method engine.Method, params *engine.Params) (*engine.Response, error) {
	if !params.Has("wt") {
		params = params.Clone().Add("wt", "json")
	}
	start := time.Now()

	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		b, err := c.do(ctx, method, params)
		if err != nil {
			c.logger.Debug("solr select failed",
				zap.String("method", string(method)),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		body = b
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)), //nolint:gosec // non-negative
		ctx,
	)
	err := backoff.Retry(op, policy)
	metrics.ObserveEngineRequest(string(method), err, time.Since(start))
	if err != nil {
		return nil, err
	}

	resp, err := engine.ParseResponse(body)
	if err != nil {
		return nil, &engine.Error{Op: "select", Err: err}
	}
	return resp, nil
}

// do performs a single HTTP exchange and classifies failures for the retry loop.
func (c *Client) do(ctx context.Context, method engine.Method, params *engine.Params) ([]byte, error) {
	req, err := c.newRequest(ctx, method, params)
	if err != nil {
		return nil, backoff.Permanent(&engine.Error{Op: "select", Err: err})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(&engine.Error{Op: "select", Err: fmt.Errorf("%w: %w", engine.ErrRequestFailed, ctx.Err())})
		}
		return nil, &engine.Error{Op: "select", Err: fmt.Errorf("%w: %w", engine.ErrRequestFailed, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &engine.Error{Op: "select", Err: fmt.Errorf("%w: read body: %w", engine.ErrRequestFailed, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := &engine.Error{
			Op:     "select",
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%w: %s", engine.ErrRequestFailed, errorMessage(body)),
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, e
		}
		return nil, backoff.Permanent(e)
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method engine.Method, params *engine.Params) (*http.Request, error) {
	encoded := params.Encode()
	switch method {
	case engine.MethodGet:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+selectPath+"?"+encoded, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		return req, nil
	case engine.MethodPost:
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+selectPath, strings.NewReader(encoded))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", formType)
		return req, nil
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}
}

// errorMessage extracts error.msg from a Solr error body, falling back to the raw text.
func errorMessage(body []byte) string {
	if resp, err := engine.ParseResponse(body); err == nil && resp.Error != nil && resp.Error.Msg != "" {
		return resp.Error.Msg
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return msg
}

// Ping checks that the core answers its ping handler.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pingPath+"?wt=json", http.NoBody)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping: status %d", resp.StatusCode)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// WaitForReady polls Ping with backoff until the core responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = timeout
	if err := backoff.Retry(func() error { return c.Ping(ctx) }, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("timeout waiting for solr: %w", err)
	}
	return nil
}
