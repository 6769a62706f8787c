package search

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/engine"
)

const (
	testCategories = `[
		{"name":"Genes","documentTypes":[{"id":"gene"}]},
		{"name":"Other","documentTypes":[{"id":"pathway"},{"id":"dataset"}]}
	]`
	testFields = `[
		{"document-type":"gene","fields":[
			{"name":"name"},
			{"name":"description","boost":0.5}
		]},
		{"document-type":"pathway","fields":[
			{"name":"name","boost":3},
			{"name":"enzymes","includeProjects":["PlasmoDB"]}
		]}
	]`
)

func testMeta(t *testing.T) *metadata.Metadata {
	t.Helper()
	m, err := metadata.FromCategories([]byte(testCategories))
	require.NoError(t, err)
	require.NoError(t, m.AddFieldData([]byte(testFields)))
	return m
}

func mustJSON(t *testing.T, body string, opts request.Options) *request.Request {
	t.Helper()
	r, err := request.FromJSON([]byte(body), opts)
	require.NoError(t, err)
	return &r
}

// fakeEngine records queries and returns a canned response.
type fakeEngine struct {
	methods []engine.Method
	params  []*engine.Params
	resp    *engine.Response
	err     error
}

func (f *fakeEngine) Select(_ context.Context, method engine.Method, p *engine.Params) (*engine.Response, error) {
	f.methods = append(f.methods, method)
	f.params = append(f.params, p)
	if f.err != nil {
		return nil, f.err
	}
	if f.resp == nil {
		return &engine.Response{}, nil
	}
	return f.resp, nil
}

// queryValues decodes the rendered query, keeping per-name value order.
func queryValues(p *engine.Params) url.Values {
	v, _ := url.ParseQuery(p.Encode())
	return v
}
