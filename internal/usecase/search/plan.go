package search

import (
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/trip"
)

// Plan decides the round trips a search needs. The primary trip is always
// first and carries every filter. Facet-only trips follow when the primary
// trip's facets would be skewed by the request's own narrowing:
//   - an effective organism filter hides the counts of the other metadata
//     organisms, so a second trip filters by the metadata organisms instead;
//   - a field narrowing hides the counts of the other fields, so a trip
//     without the narrowing collects the field facets.
//
// A document type filter without narrowing collects field facets on the
// primary trip and needs no extra trip.
func Plan(req *request.Request) []trip.Trip {
	trips := []trip.Trip{{
		Kind:              trip.Primary,
		Organisms:         req.SearchOrganisms(),
		ApplyFieldsFilter: true,
		FieldFacets:       req.HasDocTypeFilter() && !req.HasDocTypeFilterAndFields(),
	}}
	if req.HasOrganismFilter() {
		trips = append(trips, trip.Trip{
			Kind:              trip.OrganismFacets,
			OmitResults:       true,
			Organisms:         req.MetadataOrganisms(),
			ApplyFieldsFilter: true,
		})
	}
	if req.HasDocTypeFilterAndFields() {
		trips = append(trips, fieldCountsTrip(req))
	}
	return trips
}

// fieldCountsTrip collects per-field facets over every declared field of the
// filtered type.
func fieldCountsTrip(req *request.Request) trip.Trip {
	return trip.Trip{
		Kind:        trip.FieldFacets,
		OmitResults: true,
		Organisms:   req.SearchOrganisms(),
		FieldFacets: true,
	}
}
