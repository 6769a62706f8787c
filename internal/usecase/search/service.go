// Package search plans and executes searches and shapes their results.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/trip"
	"github.com/kailas-cloud/sitesearch/internal/engine"
	"github.com/kailas-cloud/sitesearch/internal/logger"
	"github.com/kailas-cloud/sitesearch/internal/metrics"
)

// Service handles synchronous searches, field-count searches and the
// categories listing.
type Service struct {
	repo   Repository
	loader MetadataLoader
}

// New creates a search service.
func New(repo Repository, loader MetadataLoader) *Service {
	return &Service{repo: repo, loader: loader}
}

// Search loads metadata, runs the planned trips and formats the merged result.
// Facet-only trips run concurrently with the primary trip; metadata is only
// written once every trip has succeeded.
func (s *Service) Search(ctx context.Context, req *request.Request) (*result.Response, error) {
	meta, err := s.loadFor(ctx, req)
	if err != nil {
		return nil, err
	}

	trips := Plan(req)
	responses, err := s.run(ctx, req, meta, trips)
	if err != nil {
		return nil, err
	}
	merge(meta, req, trips, responses)

	project, hasProject := req.Project()
	return Format(meta, responses[0], project, hasProject), nil
}

// FieldCounts returns, for the filtered document type, the number of matches
// in each of its declared fields.
func (s *Service) FieldCounts(ctx context.Context, req *request.Request) (map[string]int, error) {
	filter, ok := req.DocTypeFilter()
	if !ok {
		return nil, domain.InvalidRequest("'documentTypeFilter' and contained 'documentType' properties are required at this endpoint.")
	}
	meta, err := s.loadFor(ctx, req)
	if err != nil {
		return nil, err
	}

	trips := []trip.Trip{fieldCountsTrip(req)}
	responses, err := s.run(ctx, req, meta, trips)
	if err != nil {
		return nil, err
	}
	meta.SetFieldCounts(filter, facetsOf(responses[0]))
	counts, _, _ := meta.FieldCounts()
	return counts, nil
}

// Categories lists categories and document types, with searchable fields
// restricted to the project when one is given.
func (s *Service) Categories(ctx context.Context, project string) (*result.Catalog, error) {
	meta, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	return FormatCatalog(meta, project, project != ""), nil
}

// Metadata loads metadata and checks the request against it.
func (s *Service) Metadata(ctx context.Context, req *request.Request) (*metadata.Metadata, error) {
	return s.loadFor(ctx, req)
}

func (s *Service) loadFor(ctx context.Context, req *request.Request) (*metadata.Metadata, error) {
	meta, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	if err = meta.Validate(req); err != nil {
		return nil, err
	}
	return meta, nil
}

// run executes trips concurrently. Responses keep the order of trips.
func (s *Service) run(
	ctx context.Context, req *request.Request, meta *metadata.Metadata, trips []trip.Trip,
) ([]*engine.Response, error) {
	log := logger.FromContext(ctx)
	responses := make([]*engine.Response, len(trips))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range trips {
		g.Go(func() error {
			start := time.Now()
			resp, err := s.repo.Search(gctx, req, meta, t)
			metrics.SearchTripsTotal.WithLabelValues(string(t.Kind)).Inc()
			if err != nil {
				log.Warn("search trip failed", zap.String("trip", string(t.Kind)), zap.Error(err))
				return err
			}
			log.Debug("search trip",
				zap.String("trip", string(t.Kind)),
				zap.Int("num_found", resp.Result.NumFound),
				zap.Int("docs", len(resp.Documents())),
				zap.Duration("duration", time.Since(start)),
			)
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// merge writes facet counts trip by trip. Later trips override the primary
// trip's counts for the facet they were issued for.
func merge(meta *metadata.Metadata, req *request.Request, trips []trip.Trip, responses []*engine.Response) {
	filter, hasFilter := req.DocTypeFilter()
	for i, t := range trips {
		f := facetsOf(responses[i])
		switch t.Kind {
		case trip.Primary:
			meta.ApplyDocTypeCounts(f)
			meta.SetOrganismCounts(req.MetadataOrganisms(), f)
			if hasFilter && t.FieldFacets {
				meta.SetFieldCounts(filter, f)
			}
		case trip.OrganismFacets:
			meta.SetOrganismCounts(req.MetadataOrganisms(), f)
		case trip.FieldFacets:
			if hasFilter {
				meta.SetFieldCounts(filter, f)
			}
		}
	}
}

func facetsOf(resp *engine.Response) metadata.Facets {
	fields := make(map[string][]domain.FacetBucket, len(resp.FacetCounts.Fields))
	for name, list := range resp.FacetCounts.Fields {
		fields[name] = list
	}
	return metadata.Facets{Fields: fields, Queries: resp.FacetCounts.Queries}
}
