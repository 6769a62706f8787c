package request

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/sitesearch/internal/domain"
)

// Search parameter limits.
const (
	// MaxNumRecords caps the page size of interactive searches.
	MaxNumRecords     = 50
	DefaultNumRecords = 20
)

// specialChars have meaning in the engine's query syntax and are escaped in user text.
const specialChars = `+-&|!(){}[]^~?:\/`

// Pagination is a validated result window.
type Pagination struct {
	offset     int
	numRecords int
}

// NewPagination validates a result window.
func NewPagination(offset, numRecords int) (Pagination, error) {
	if offset < 0 {
		return Pagination{}, domain.InvalidRequest("offset cannot be less than 0")
	}
	if numRecords < 0 {
		return Pagination{}, domain.InvalidRequest("numRecords cannot be less than 0")
	}
	return Pagination{offset: offset, numRecords: numRecords}, nil
}

// Offset returns the first row to return.
func (p Pagination) Offset() int { return p.offset }

// NumRecords returns the number of rows to return.
func (p Pagination) NumRecords() int { return p.numRecords }

// DocTypeFilter restricts a search to one document type and optionally to a
// subset of its fields.
type DocTypeFilter struct {
	docType string
	fields  []string
}

// NewDocTypeFilter creates a filter. An empty field list means no narrowing.
func NewDocTypeFilter(docType string, fields []string) (DocTypeFilter, error) {
	docType = strings.TrimSpace(docType)
	if docType == "" {
		return DocTypeFilter{}, domain.InvalidRequest("'documentType' is required")
	}
	if len(fields) == 0 {
		fields = nil
	}
	return DocTypeFilter{docType: docType, fields: slices.Clone(fields)}, nil
}

// DocType returns the document type id.
func (f DocTypeFilter) DocType() string { return f.docType }

// Fields returns the "found only in fields" narrowing, nil when absent.
func (f DocTypeFilter) Fields() []string { return f.fields }

// HasFields reports whether field narrowing is present.
func (f DocTypeFilter) HasFields() bool { return f.fields != nil }

// Request is a validated, normalized search request. It is never mutated
// after construction.
type Request struct {
	searchText   string
	pagination   *Pagination
	project      string
	hasProject   bool
	metadataOrgs []string
	searchOrgs   []string
	orgFilter    bool
	filter       *DocTypeFilter
}

// New builds a request from the scalar parameters of the simple GET form.
// docType and project are optional (nil = absent).
func New(searchText string, offset, numRecords int, docType, project *string) (Request, error) {
	p, err := NewPagination(offset, numRecords)
	if err != nil {
		return Request{}, err
	}
	if p.NumRecords() > MaxNumRecords {
		return Request{}, domain.InvalidRequest("numRecords must be <= %d", MaxNumRecords)
	}
	r := Request{
		searchText: TranslateSearchText(searchText),
		pagination: &p,
	}
	if project != nil && strings.TrimSpace(*project) != "" {
		r.project = strings.TrimSpace(*project)
		r.hasProject = true
	}
	if docType != nil {
		f, err := NewDocTypeFilter(*docType, nil)
		if err != nil {
			return Request{}, err
		}
		r.filter = &f
	}
	return r, nil
}

// SearchText returns the escaped search text.
func (r *Request) SearchText() string { return r.searchText }

// Pagination returns the requested window, if any.
func (r *Request) Pagination() (Pagination, bool) {
	if r.pagination == nil {
		return Pagination{}, false
	}
	return *r.pagination, true
}

// Project returns the project restriction, if any.
func (r *Request) Project() (string, bool) { return r.project, r.hasProject }

// MetadataOrganisms returns the organisms eligible for facet counts; nil means unrestricted.
func (r *Request) MetadataOrganisms() []string { return r.metadataOrgs }

// SearchOrganisms returns the organisms results are restricted to; nil means unrestricted.
func (r *Request) SearchOrganisms() []string { return r.searchOrgs }

// DocTypeFilter returns the document type filter, if any.
func (r *Request) DocTypeFilter() (DocTypeFilter, bool) {
	if r.filter == nil {
		return DocTypeFilter{}, false
	}
	return *r.filter, true
}

// HasOrganismFilter reports whether the search-scope organisms strictly narrow
// the metadata-scope organisms.
func (r *Request) HasOrganismFilter() bool { return r.orgFilter }

// HasDocTypeFilter reports whether a document type filter is present.
func (r *Request) HasDocTypeFilter() bool { return r.filter != nil }

// HasDocTypeFilterAndFields reports whether the document type filter narrows fields.
func (r *Request) HasDocTypeFilterAndFields() bool {
	return r.filter != nil && r.filter.HasFields()
}

// TranslateSearchText trims the raw text and escapes characters with special
// meaning to the query parser.
func TranslateSearchText(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		if strings.ContainsRune(specialChars, c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// isSubset treats a nil list on either side as unrestricted.
func isSubset(subset, superset []string) bool {
	if subset == nil || superset == nil {
		return true
	}
	for _, v := range subset {
		if !slices.Contains(superset, v) {
			return false
		}
	}
	return true
}
