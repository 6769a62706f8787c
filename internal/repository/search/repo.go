// Package search renders planned round trips into engine queries and runs them.
package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/trip"
	"github.com/kailas-cloud/sitesearch/internal/engine"
)

// DefaultExportPageSize is the number of records fetched per export page.
const DefaultExportPageSize = 10000

// Repo implements usecase/search.Repository and usecase/export.Pager.
type Repo struct {
	engine         engine.Searcher
	exportPageSize int
}

// New creates a search repository. A non-positive page size selects the default.
func New(s engine.Searcher, exportPageSize int) *Repo {
	if exportPageSize <= 0 {
		exportPageSize = DefaultExportPageSize
	}
	return &Repo{engine: s, exportPageSize: exportPageSize}
}

// Search runs one planned round trip.
func (r *Repo) Search(
	ctx context.Context, req *request.Request, meta *metadata.Metadata, t trip.Trip,
) (*engine.Response, error) {
	resp, err := r.engine.Select(ctx, engine.MethodPost, SearchParams(req, meta, t))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", t.Kind, err)
	}
	return resp, nil
}

// ExportPage fetches one cursor page of matching record identifiers.
func (r *Repo) ExportPage(
	ctx context.Context, req *request.Request, meta *metadata.Metadata, cursor string,
) (*engine.Response, error) {
	resp, err := r.engine.Select(ctx, engine.MethodPost, ExportParams(req, meta, cursor, r.exportPageSize))
	if err != nil {
		return nil, fmt.Errorf("export page: %w", err)
	}
	return resp, nil
}
