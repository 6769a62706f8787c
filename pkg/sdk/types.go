package sitesearch

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
)

// SearchRequest mirrors the JSON request body of the HTTP API.
type SearchRequest struct {
	SearchText                  string              `json:"searchText"`
	Pagination                  *Pagination         `json:"pagination,omitempty"`
	RestrictToProject           string              `json:"restrictToProject,omitempty"`
	RestrictMetadataToOrganisms []string            `json:"restrictMetadataToOrganisms,omitempty"`
	RestrictSearchToOrganisms   []string            `json:"restrictSearchToOrganisms,omitempty"`
	DocumentTypeFilter          *DocumentTypeFilter `json:"documentTypeFilter,omitempty"`
}

// Pagination selects a result window.
type Pagination struct {
	Offset     int `json:"offset"`
	NumRecords int `json:"numRecords"`
}

// DocumentTypeFilter restricts a search to one document type and optionally
// to some of its fields.
type DocumentTypeFilter struct {
	DocumentType      string   `json:"documentType"`
	FoundOnlyInFields []string `json:"foundOnlyInFields,omitempty"`
}

// Result types shared with the HTTP API.
type (
	Response      = result.Response
	SearchResults = result.SearchResults
	Document      = result.Document
	DocumentType  = result.DocumentType
	Field         = result.Field
	Category      = result.Category
	Catalog       = result.Catalog
)

// toRequest validates r with the same rules as the matching HTTP endpoint.
func (r SearchRequest) toRequest(opts request.Options) (request.Request, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return request.Request{}, fmt.Errorf("encode request: %w", err)
	}
	return request.FromJSON(body, opts)
}
