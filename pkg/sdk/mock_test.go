package sitesearch

import (
	"context"
	"io"

	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/sitesearch/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn      func(ctx context.Context, req *request.Request) (*result.Response, error)
	fieldCountsFn func(ctx context.Context, req *request.Request) (map[string]int, error)
	categoriesFn  func(ctx context.Context, project string) (*result.Catalog, error)
	metadataFn    func(ctx context.Context, req *request.Request) (*metadata.Metadata, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (*result.Response, error) {
	return m.searchFn(ctx, req)
}

func (m *mockSearchUC) FieldCounts(ctx context.Context, req *request.Request) (map[string]int, error) {
	return m.fieldCountsFn(ctx, req)
}

func (m *mockSearchUC) Categories(ctx context.Context, project string) (*result.Catalog, error) {
	return m.categoriesFn(ctx, project)
}

func (m *mockSearchUC) Metadata(ctx context.Context, req *request.Request) (*metadata.Metadata, error) {
	return m.metadataFn(ctx, req)
}

// --- exportUseCase mock ---

type mockExportUC struct {
	exportFn func(ctx context.Context, req *request.Request, meta *metadata.Metadata, w io.Writer) error
}

func (m *mockExportUC) Export(ctx context.Context, req *request.Request, meta *metadata.Metadata, w io.Writer) error {
	return m.exportFn(ctx, req, meta, w)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

func newMockClient(s *mockSearchUC, e *mockExportUC) *Client {
	return &Client{searchSvc: s, exportSvc: e, healthSvc: &mockHealthUC{}}
}
