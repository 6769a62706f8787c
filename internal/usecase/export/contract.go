package export

import (
	"context"

	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/engine"
)

// Pager fetches one cursor page of matching record identifiers.
type Pager interface {
	ExportPage(ctx context.Context, req *request.Request, meta *metadata.Metadata, cursor string) (*engine.Response, error)
}
