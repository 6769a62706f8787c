// Package trip describes engine round trips planned for one search.
package trip

// Kind names the purpose of a round trip.
type Kind string

// Round trip kinds.
const (
	Primary        Kind = "primary"
	OrganismFacets Kind = "organism_facets"
	FieldFacets    Kind = "field_facets"
)

// Trip is one planned round trip.
type Trip struct {
	Kind Kind
	// OmitResults requests facets only: zero rows, no highlighting.
	OmitResults bool
	// Organisms is rendered as the organism filter; nil renders none.
	Organisms []string
	// ApplyFieldsFilter narrows the searched fields to the request's field filter.
	ApplyFieldsFilter bool
	// FieldFacets adds one facet query per searched field.
	FieldFacets bool
}
