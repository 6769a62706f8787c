package sitesearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
	"github.com/kailas-cloud/sitesearch/internal/engine"
	"github.com/kailas-cloud/sitesearch/internal/engine/solr"
	metadatarepo "github.com/kailas-cloud/sitesearch/internal/repository/metadata"
	searchrepo "github.com/kailas-cloud/sitesearch/internal/repository/search"
	exportuc "github.com/kailas-cloud/sitesearch/internal/usecase/export"
	healthuc "github.com/kailas-cloud/sitesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/sitesearch/internal/usecase/search"
)

const (
	defaultTimeout          = 30 * time.Second
	defaultReadinessTimeout = 10 * time.Second
)

// Internal interfaces, replaced by mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (*result.Response, error)
	FieldCounts(ctx context.Context, req *request.Request) (map[string]int, error)
	Categories(ctx context.Context, project string) (*result.Catalog, error)
	Metadata(ctx context.Context, req *request.Request) (*metadata.Metadata, error)
}

type exportUseCase interface {
	Export(ctx context.Context, req *request.Request, meta *metadata.Metadata, w io.Writer) error
}

// Client is the sitesearch SDK entry point.
type Client struct {
	store     engine.Store
	searchSvc searchUseCase
	exportSvc exportUseCase
	healthSvc healthUseCase
	track     *tracker
}

// New creates a Client and waits for the engine to answer.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeout:          defaultTimeout,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.solrURL == "" {
		return nil, errors.New("sitesearch: solr URL required (use WithSolr)")
	}

	store, err := solr.NewClient(solr.Config{
		URL:        cfg.solrURL,
		Timeout:    cfg.timeout,
		MaxRetries: cfg.maxRetries,
		HTTPClient: cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("sitesearch: create solr client: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("sitesearch: engine not ready: %w", err)
	}

	track, err := newTracker(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, track), nil
}

func wireClient(store engine.Store, cfg *clientConfig, track *tracker) *Client {
	loader := metadatarepo.New(store)
	repo := searchrepo.New(store, cfg.exportPageSize)

	return &Client{
		store:     store,
		searchSvc: searchuc.New(repo, loader),
		exportSvc: exportuc.New(repo),
		healthSvc: healthuc.New(store, loader),
		track:     track,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks engine connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	defer c.track.begin(callPing)(&err)

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs a paginated search. Pagination is required.
func (c *Client) Search(ctx context.Context, r SearchRequest) (resp *Response, err error) {
	defer c.track.begin(callSearch)(&err)

	req, err := r.toRequest(request.SearchOptions)
	if err != nil {
		return nil, err
	}
	return c.searchSvc.Search(ctx, &req)
}

// FieldCounts counts matches per field of the filtered document type.
// A document type filter is required; field filters are not allowed.
func (c *Client) FieldCounts(ctx context.Context, r SearchRequest) (counts map[string]int, err error) {
	defer c.track.begin(callFieldCounts)(&err)

	req, err := r.toRequest(request.FieldCountsOptions)
	if err != nil {
		return nil, err
	}
	return c.searchSvc.FieldCounts(ctx, &req)
}

// Categories lists categories and document types. An empty project lists
// every searchable field.
func (c *Client) Categories(ctx context.Context, project string) (catalog *Catalog, err error) {
	defer c.track.begin(callCategories)(&err)

	return c.searchSvc.Categories(ctx, project)
}

// Export writes a primaryKey, score and project line to w for every match.
// A document type filter is required; pagination is not allowed.
func (c *Client) Export(ctx context.Context, r SearchRequest, w io.Writer) (err error) {
	defer c.track.begin(callExport)(&err)

	req, err := r.toRequest(request.StreamOptions)
	if err != nil {
		return err
	}
	meta, err := c.searchSvc.Metadata(ctx, &req)
	if err != nil {
		return err
	}
	return c.exportSvc.Export(ctx, &req, meta, w)
}
