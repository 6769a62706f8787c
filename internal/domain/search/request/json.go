package request

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/validator"
)

// Options declares which request properties an endpoint requires or forbids.
type Options struct {
	RequirePagination    bool
	RequireDocTypeFilter bool
	DisallowFieldFilters bool
}

// Endpoint options.
var (
	SearchOptions      = Options{RequirePagination: true}
	FieldCountsOptions = Options{RequireDocTypeFilter: true, DisallowFieldFilters: true}
	StreamOptions      = Options{RequireDocTypeFilter: true}
)

type paginationJSON struct {
	Offset     *int `json:"offset" validate:"required,gte=0"`
	NumRecords *int `json:"numRecords" validate:"required,gte=0"`
}

type docTypeFilterJSON struct {
	DocumentType      string   `json:"documentType" validate:"required"`
	FoundOnlyInFields []string `json:"foundOnlyInFields" validate:"omitempty,dive,required"`
}

type searchRequestJSON struct {
	SearchText                  *string            `json:"searchText" validate:"required"`
	Pagination                  *paginationJSON    `json:"pagination"`
	RestrictToProject           *string            `json:"restrictToProject"`
	RestrictMetadataToOrganisms []string           `json:"restrictMetadataToOrganisms" validate:"omitempty,dive,required"`
	RestrictSearchToOrganisms   []string           `json:"restrictSearchToOrganisms" validate:"omitempty,dive,required"`
	DocumentTypeFilter          *docTypeFilterJSON `json:"documentTypeFilter"`
}

// FromJSON parses and validates an inbound request body.
func FromJSON(body []byte, opts Options) (Request, error) {
	var in searchRequestJSON
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&in); err != nil {
		return Request{}, domain.InvalidRequest("malformed request body: %v", err)
	}
	if err := validator.Struct(in); err != nil {
		return Request{}, domain.InvalidRequest("%v", err)
	}
	return fromJSON(&in, opts)
}

func fromJSON(in *searchRequestJSON, opts Options) (Request, error) {
	r := Request{searchText: TranslateSearchText(*in.SearchText)}

	if opts.RequirePagination {
		if in.Pagination == nil {
			return Request{}, domain.InvalidRequest("'pagination' is required")
		}
		p, err := NewPagination(*in.Pagination.Offset, *in.Pagination.NumRecords)
		if err != nil {
			return Request{}, err
		}
		if p.NumRecords() > MaxNumRecords {
			return Request{}, domain.InvalidRequest("numRecords must be <= %d", MaxNumRecords)
		}
		r.pagination = &p
	} else if in.Pagination != nil {
		return Request{}, domain.InvalidRequest("pagination property is not allowed")
	}

	if in.RestrictToProject != nil && strings.TrimSpace(*in.RestrictToProject) != "" {
		r.project = strings.TrimSpace(*in.RestrictToProject)
		r.hasProject = true
	}

	r.metadataOrgs = presentOrNil(in.RestrictMetadataToOrganisms)
	r.searchOrgs = presentOrNil(in.RestrictSearchToOrganisms)
	if !isSubset(r.searchOrgs, r.metadataOrgs) {
		return Request{}, domain.InvalidRequest("All organisms in search must exist in organism metadata list")
	}
	// search orgs are already a subset; a filter is in effect unless the sets are equal
	r.orgFilter = !isSubset(r.metadataOrgs, r.searchOrgs)

	if in.DocumentTypeFilter != nil {
		f, err := NewDocTypeFilter(in.DocumentTypeFilter.DocumentType, in.DocumentTypeFilter.FoundOnlyInFields)
		if err != nil {
			return Request{}, err
		}
		r.filter = &f
	}
	if r.filter == nil && opts.RequireDocTypeFilter {
		return Request{}, domain.InvalidRequest(
			"'documentTypeFilter' and contained 'documentType' properties are required at this endpoint.")
	}
	if r.filter != nil && r.filter.HasFields() && opts.DisallowFieldFilters {
		return Request{}, domain.InvalidRequest(
			"Field filters ('foundOnlyInFields' property) are not allowed at this endpoint.")
	}
	return r, nil
}

// presentOrNil maps an empty list to "no restriction".
func presentOrNil(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}
