package sitesearch

import (
	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/engine"
)

// Sentinel errors re-exported from the internal layers.
// Use errors.Is() to check.
var (
	ErrInvalidRequest      = domain.ErrInvalidRequest
	ErrMetadataUnavailable = domain.ErrMetadataUnavailable
	ErrEngineRequestFailed = engine.ErrRequestFailed
	ErrEngineBadResponse   = engine.ErrBadResponse
)
