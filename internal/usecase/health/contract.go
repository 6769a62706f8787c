package health

import (
	"context"

	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
)

// EnginePinger checks search engine availability.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// MetadataLoader loads site metadata; a failure means searches cannot run.
type MetadataLoader interface {
	Load(ctx context.Context) (*metadata.Metadata, error)
}
