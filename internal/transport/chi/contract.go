package chi

import (
	"context"
	"io"

	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/sitesearch/internal/usecase/health"
)

// SearchService runs searches and serves the categories listing.
type SearchService interface {
	Search(ctx context.Context, req *request.Request) (*result.Response, error)
	FieldCounts(ctx context.Context, req *request.Request) (map[string]int, error)
	Categories(ctx context.Context, project string) (*result.Catalog, error)
	Metadata(ctx context.Context, req *request.Request) (*metadata.Metadata, error)
}

// Exporter streams every match of a request.
type Exporter interface {
	Export(ctx context.Context, req *request.Request, meta *metadata.Metadata, w io.Writer) error
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
