package search

import (
	"context"

	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/trip"
	"github.com/kailas-cloud/sitesearch/internal/engine"
)

// Repository runs planned round trips against the engine.
type Repository interface {
	Search(ctx context.Context, req *request.Request, meta *metadata.Metadata, t trip.Trip) (*engine.Response, error)
}

// MetadataLoader builds fresh site metadata for one request.
type MetadataLoader interface {
	Load(ctx context.Context) (*metadata.Metadata, error)
}
