package cli

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/engine"
	"github.com/kailas-cloud/sitesearch/internal/version"
)

const (
	categoriesBody = `{"response":{"numFound":1,"docs":[{"json-blob":[
		{"name":"Genes","documentTypes":[{"id":"gene","displayName":"Gene","displayNamePlural":"Genes","hasOrganismField":true}]}
	]}]}}`
	fieldsBody = `{"response":{"numFound":1,"docs":[{"json-blob":[
		{"document-type":"gene","fields":[{"name":"name","isSummary":true},{"name":"description","boost":0.5}]}
	]}]}}`
	exportFirstPage = `{"response":{"numFound":2,"docs":[
		{"primaryKey":["PF3D7_0100100","PF3D7_0100100.1"],"score":2.5,"project":"PlasmoDB"},
		{"primaryKey":["TGME49_1"],"score":1,"project":"ToxoDB"}
	]},"nextCursorMark":"AoE"}`
	exportLastPage = `{"response":{"numFound":2,"docs":[]},"nextCursorMark":"AoE"}`
)

// fakeStore answers metadata lookups by fq and export pages by cursor.
type fakeStore struct {
	pingErr error
	closed  bool
	selects int
}

func (f *fakeStore) Select(_ context.Context, _ engine.Method, p *engine.Params) (*engine.Response, error) {
	f.selects++
	if cursor, ok := p.First("cursorMark"); ok {
		if cursor == "*" {
			return engine.ParseResponse([]byte(exportFirstPage))
		}
		return engine.ParseResponse([]byte(exportLastPage))
	}
	fqs := queryValues(p)["fq"]
	switch {
	case len(fqs) == 1 && fqs[0] == "document-type:(document-categories)":
		return engine.ParseResponse([]byte(categoriesBody))
	case len(fqs) == 1 && fqs[0] == "document-type:(document-fields)":
		return engine.ParseResponse([]byte(fieldsBody))
	}
	return nil, errors.New("unexpected query: " + p.String())
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }
func (f *fakeStore) Close()                     { f.closed = true }
func (f *fakeStore) WaitForReady(context.Context, time.Duration) error {
	return nil
}

func run(t *testing.T, store engine.Store, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(&rootOptions{store: store})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, nil, "", "version")
	require.NoError(t, err)
	assert.Equal(t, version.BuildStatus(), out)
}

func TestCategories(t *testing.T) {
	store := &fakeStore{}
	out, err := run(t, store, "", "categories", "--project", "PlasmoDB")
	require.NoError(t, err)

	assert.Contains(t, out, `"Genes"`)
	assert.Contains(t, out, `"gene"`)
	assert.True(t, store.closed)
}

func TestPlan(t *testing.T) {
	body := `{"searchText":"kinase","pagination":{"offset":0,"numRecords":10},
		"restrictMetadataToOrganisms":["a","b"],"restrictSearchToOrganisms":["a"]}`
	store := &fakeStore{}

	out, err := run(t, store, body, "plan")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "primary\tq=kinase"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "organism_facets\t"), lines[1])
	assert.Equal(t, 2, store.selects, "plan only loads metadata")
}

func TestPlan_UnknownDocType(t *testing.T) {
	body := `{"searchText":"x","pagination":{"offset":0,"numRecords":1},"documentTypeFilter":{"documentType":"nope"}}`

	_, err := run(t, &fakeStore{}, body, "plan")
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestExport(t *testing.T) {
	body := `{"searchText":"*","documentTypeFilter":{"documentType":"gene"}}`

	out, err := run(t, &fakeStore{}, body, "export")
	require.NoError(t, err)

	assert.Equal(t,
		`["PF3D7_0100100","PF3D7_0100100.1"]`+"\t2.5\tPlasmoDB\n"+
			`["TGME49_1"]`+"\t1\tToxoDB\n",
		out)
}

func TestExport_RequiresDocTypeFilter(t *testing.T) {
	store := &fakeStore{}
	_, err := run(t, store, `{"searchText":"*"}`, "export")

	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Zero(t, store.selects)
}

func TestPing(t *testing.T) {
	out, err := run(t, &fakeStore{}, "", "ping")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	_, err = run(t, &fakeStore{pingErr: errors.New("down")}, "", "ping")
	require.EqualError(t, err, "down")
}

func TestConnect_RequiresSolrURL(t *testing.T) {
	cmd := New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"ping"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--solr-url")
}

// queryValues decodes the rendered query, keeping per-name value order.
func queryValues(p *engine.Params) url.Values {
	v, _ := url.ParseQuery(p.Encode())
	return v
}
