package metadata

import (
	"maps"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

// Facets is the facet output of one engine round trip.
type Facets struct {
	// Fields maps a facet field to its buckets in engine order.
	Fields map[string][]domain.FacetBucket
	// Queries maps a facet query key to its count.
	Queries map[string]int
}

// Overlay is a copy of the facet counts written so far.
type Overlay struct {
	DocTypeCounts  map[string]int
	OrganismCounts map[string]int
	FieldCounts    map[string]int
	FieldDocType   string
}

// ApplyDocTypeCounts records a count for every known document type; types
// missing from the facet get zero. Writes replace earlier values.
func (m *Metadata) ApplyDocTypeCounts(f Facets) {
	counts := make(map[string]int, len(m.order))
	for _, id := range m.order {
		counts[id] = 0
	}
	for _, b := range f.Fields[domain.DocumentTypeField] {
		if _, known := m.docTypes[b.Value]; known {
			counts[b.Value] = b.Count
		}
	}
	m.docTypeCounts = counts
}

// SetOrganismCounts records organism counts. With a scope, exactly the scoped
// organisms are recorded (zero when absent from the facet); without one,
// every organism in the facet is.
func (m *Metadata) SetOrganismCounts(scope []string, f Facets) {
	buckets := f.Fields[domain.OrganismField]
	counts := make(map[string]int)
	if scope == nil {
		for _, b := range buckets {
			counts[b.Value] = b.Count
		}
		m.organismCounts = counts
		return
	}
	for _, org := range scope {
		counts[org] = 0
	}
	for _, b := range buckets {
		if _, inScope := counts[b.Value]; inScope {
			counts[b.Value] = b.Count
		}
	}
	m.organismCounts = counts
}

// SetFieldCounts records per-field match counts of the filtered document
// type, keyed by field name. Fields without a facet value get zero.
func (m *Metadata) SetFieldCounts(filter request.DocTypeFilter, f Facets) {
	declared := m.fields[filter.DocType()]
	counts := make(map[string]int, len(declared))
	for _, field := range declared {
		counts[field.Name()] = f.Queries[field.Name()]
	}
	m.fieldCounts = counts
	m.fieldCountType = filter.DocType()
}

// DocTypeCount returns the facet count of a document type once counts are applied.
func (m *Metadata) DocTypeCount(id string) (int, bool) {
	if m.docTypeCounts == nil {
		return 0, false
	}
	n, ok := m.docTypeCounts[id]
	return n, ok
}

// OrganismCounts returns the organism counts, nil until set.
func (m *Metadata) OrganismCounts() map[string]int { return m.organismCounts }

// FieldCounts returns the field counts and the document type they belong to.
func (m *Metadata) FieldCounts() (map[string]int, string, bool) {
	return m.fieldCounts, m.fieldCountType, m.fieldCounts != nil
}

// Overlay returns a snapshot of all facet overlays.
func (m *Metadata) Overlay() Overlay {
	return Overlay{
		DocTypeCounts:  maps.Clone(m.docTypeCounts),
		OrganismCounts: maps.Clone(m.organismCounts),
		FieldCounts:    maps.Clone(m.fieldCounts),
		FieldDocType:   m.fieldCountType,
	}
}
