package search

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/trip"
	"github.com/kailas-cloud/sitesearch/internal/engine"
	reposearch "github.com/kailas-cloud/sitesearch/internal/repository/search"
)

// --- Mocks ---

const (
	testCategories = `[
		{"name":"Genes","documentTypes":[{"id":"gene","displayName":"Gene","displayNamePlural":"Genes","hasOrganismField":true}]},
		{"name":"Other","documentTypes":[{"id":"pathway","displayName":"Pathway"}]}
	]`
	testFields = `[
		{"document-type":"gene","fields":[
			{"name":"name","displayName":"Name","isSummary":true,"highlight":true},
			{"name":"description","boost":0.5,"isSummary":true},
			{"name":"notes","includeProjects":["PlasmoDB"]}
		]}
	]`
)

type mockLoader struct {
	err   error
	calls int
}

func (m *mockLoader) Load(_ context.Context) (*metadata.Metadata, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	meta, err := metadata.FromCategories([]byte(testCategories))
	if err != nil {
		return nil, err
	}
	if err = meta.AddFieldData([]byte(testFields)); err != nil {
		return nil, err
	}
	return meta, nil
}

// mockRepo renders each trip through the real builder and answers per trip kind.
type mockRepo struct {
	mu        sync.Mutex
	trips     []trip.Trip
	params    map[trip.Kind]*engine.Params
	responses map[trip.Kind]string
	errs      map[trip.Kind]error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		params:    map[trip.Kind]*engine.Params{},
		responses: map[trip.Kind]string{},
		errs:      map[trip.Kind]error{},
	}
}

func (m *mockRepo) Search(
	_ context.Context, req *request.Request, meta *metadata.Metadata, t trip.Trip,
) (*engine.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = append(m.trips, t)
	m.params[t.Kind] = reposearch.SearchParams(req, meta, t)
	if err := m.errs[t.Kind]; err != nil {
		return nil, err
	}
	body, ok := m.responses[t.Kind]
	if !ok {
		body = `{}`
	}
	return engine.ParseResponse([]byte(body))
}

func (m *mockRepo) tripCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trips)
}

const primaryResponse = `{
	"response":{"numFound":42,"docs":[
		{"id":"gene_PF3D7_1","document-type":"gene","primaryKey":["PF3D7_1","PlasmoDB"],
		 "wdkPrimaryKeyString":"PF3D7_1","hyperlinkName":"PF3D7_1","organism":["Pf"],
		 "project":"PlasmoDB","score":3.5,"name":"kinase A","description":"a kinase"}
	]},
	"facet_counts":{
		"facet_fields":{"document-type":["gene",40,"pathway",2],"organismsForFilter":["Pf",40]},
		"facet_queries":{"name":12,"description":30}
	},
	"highlighting":{"gene_PF3D7_1":{"name":["<em>kinase</em> A"],"description":["a <em>kinase</em>"]}}
}`

func newTestService() (*Service, *mockRepo, *mockLoader) {
	repo := newMockRepo()
	repo.responses[trip.Primary] = primaryResponse
	loader := &mockLoader{}
	return New(repo, loader), repo, loader
}

// --- Search ---

func TestSearch_DocTypeFilterWithoutFieldsIsOneTrip(t *testing.T) {
	svc, repo, loader := newTestService()
	req := mustRequest(t, `{"searchText":"kinase","pagination":{"offset":0,"numRecords":10},
		"documentTypeFilter":{"documentType":"gene"}}`)

	res, err := svc.Search(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, 1, repo.tripCount())
	assert.Equal(t, map[string]int{"name": 12, "description": 30, "notes": 0}, res.FieldCounts)
	assert.Equal(t, 42, res.SearchResults.TotalCount)
}

func TestSearch_OrganismFilterAddsFacetOnlyTrip(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.responses[trip.OrganismFacets] = `{"facet_counts":{"facet_fields":{"organismsForFilter":["Pf",40,"Pv",9]}}}`
	req := mustRequest(t, `{"searchText":"kinase","pagination":{"offset":0,"numRecords":10},
		"restrictMetadataToOrganisms":["Pf","Pv","Py"],"restrictSearchToOrganisms":["Pf"]}`)

	res, err := svc.Search(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, 2, repo.tripCount())
	p := repo.params[trip.OrganismFacets]
	require.NotNil(t, p)
	assert.Equal(t, []string{"0"}, queryValues(p)["rows"])
	assert.False(t, p.Has("hl"))
	assert.Contains(t, queryValues(p)["fq"], `-(organismsForFilter:[* TO *] AND -organismsForFilter:("Pf" OR "Pv" OR "Py"))`)
	assert.Equal(t, map[string]int{"Pf": 40, "Pv": 9, "Py": 0}, res.OrganismCounts)
	assert.Nil(t, res.FieldCounts)
}

func TestSearch_FieldNarrowingAddsFacetOnlyTrip(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.responses[trip.FieldFacets] = `{"facet_counts":{"facet_queries":{"name":7,"description":3}}}`
	req := mustRequest(t, `{"searchText":"kinase","pagination":{"offset":0,"numRecords":10},
		"documentTypeFilter":{"documentType":"gene","foundOnlyInFields":["name"]}}`)

	res, err := svc.Search(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, 2, repo.tripCount())
	primary := repo.params[trip.Primary]
	qf, _ := primary.First("qf")
	assert.Equal(t, "name", qf)
	assert.Empty(t, queryValues(primary)["facet.query"])

	p := repo.params[trip.FieldFacets]
	assert.Equal(t, []string{"0"}, queryValues(p)["rows"])
	qf, _ = p.First("qf")
	assert.Equal(t, "name description^0.50 notes", qf, "narrowing removed")
	assert.Len(t, queryValues(p)["facet.query"], 3)
	assert.Equal(t, map[string]int{"name": 7, "description": 3, "notes": 0}, res.FieldCounts)
}

func TestSearch_AllTrips(t *testing.T) {
	svc, repo, _ := newTestService()
	req := mustRequest(t, `{"searchText":"kinase","pagination":{"offset":0,"numRecords":10},
		"restrictMetadataToOrganisms":["Pf","Pv"],"restrictSearchToOrganisms":["Pf"],
		"documentTypeFilter":{"documentType":"gene","foundOnlyInFields":["name"]}}`)

	_, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.tripCount())
}

func TestSearch_InvalidAgainstMetadata(t *testing.T) {
	tests := map[string]string{
		"unknown type":     `{"documentType":"protein"}`,
		"undeclared field": `{"documentType":"gene","foundOnlyInFields":["sequence"]}`,
	}
	for name, filter := range tests {
		t.Run(name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			req := mustRequest(t, `{"searchText":"x","pagination":{"offset":0,"numRecords":1},"documentTypeFilter":`+filter+`}`)

			_, err := svc.Search(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
			assert.Zero(t, repo.tripCount())
		})
	}
}

func TestSearch_NarrowingToFieldOutsideProject(t *testing.T) {
	svc, repo, _ := newTestService()
	req := mustRequest(t, `{"searchText":"*","pagination":{"offset":0,"numRecords":1},
		"restrictToProject":"ToxoDB",
		"documentTypeFilter":{"documentType":"gene","foundOnlyInFields":["notes"]}}`)

	_, err := svc.Search(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Contains(t, err.Error(), `not searchable in project "ToxoDB"`)
	assert.Zero(t, repo.tripCount())
}

func TestSearch_MetadataUnavailable(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockLoader{err: domain.ErrMetadataUnavailable})
	req := mustRequest(t, `{"searchText":"x","pagination":{"offset":0,"numRecords":1}}`)

	_, err := svc.Search(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrMetadataUnavailable)
	assert.Zero(t, repo.tripCount())
}

func TestSearch_FacetTripFailureFailsRequest(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.errs[trip.OrganismFacets] = &engine.Error{Op: "select", Status: 500, Err: engine.ErrRequestFailed}
	req := mustRequest(t, `{"searchText":"x","pagination":{"offset":0,"numRecords":1},
		"restrictMetadataToOrganisms":["Pf","Pv"],"restrictSearchToOrganisms":["Pf"]}`)

	res, err := svc.Search(context.Background(), req)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, engine.ErrRequestFailed)
}

// --- FieldCounts ---

func TestFieldCounts(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.responses[trip.FieldFacets] = `{"facet_counts":{"facet_queries":{"name":4,"notes":1}}}`
	r, err := request.FromJSON([]byte(`{"searchText":"kinase","restrictToProject":"PlasmoDB",
		"documentTypeFilter":{"documentType":"gene"}}`), request.FieldCountsOptions)
	require.NoError(t, err)

	counts, err := svc.FieldCounts(context.Background(), &r)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"name": 4, "description": 0, "notes": 1}, counts)
	require.Equal(t, 1, repo.tripCount())
	p := repo.params[trip.FieldFacets]
	assert.Equal(t, []string{"0"}, queryValues(p)["rows"])
	assert.Len(t, queryValues(p)["facet.query"], 3)
}

func TestFieldCounts_RequiresDocTypeFilter(t *testing.T) {
	svc, repo, loader := newTestService()
	r, err := request.FromJSON([]byte(`{"searchText":"kinase"}`), request.Options{})
	require.NoError(t, err)

	_, err = svc.FieldCounts(context.Background(), &r)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Zero(t, loader.calls)
	assert.Zero(t, repo.tripCount())
}

// --- Categories ---

func TestCategories(t *testing.T) {
	svc, repo, _ := newTestService()

	cat, err := svc.Categories(context.Background(), "ToxoDB")
	require.NoError(t, err)

	assert.Zero(t, repo.tripCount())
	require.Len(t, cat.Categories, 2)
	assert.Equal(t, []string{"gene"}, cat.Categories[0].DocumentTypes)
	require.Len(t, cat.DocumentTypes, 2)
	assert.Nil(t, cat.DocumentTypes[0].Count)
	assert.Len(t, cat.DocumentTypes[0].SearchFields, 2, "notes is PlasmoDB only")
}

func TestCategories_LoaderError(t *testing.T) {
	svc := New(newMockRepo(), &mockLoader{err: errors.New("boom")})
	_, err := svc.Categories(context.Background(), "")
	assert.Error(t, err)
}

// queryValues decodes the rendered query, keeping per-name value order.
func queryValues(p *engine.Params) url.Values {
	v, _ := url.ParseQuery(p.Encode())
	return v
}
