package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/sitesearch/internal/domain"
)

func TestFromJSON_Full(t *testing.T) {
	r, err := FromJSON([]byte(`{
		"searchText": " cyto:c ",
		"pagination": {"offset": 5, "numRecords": 50},
		"restrictToProject": "PlasmoDB",
		"restrictMetadataToOrganisms": ["Pf", "Pv", "Py"],
		"restrictSearchToOrganisms": ["Pf"],
		"documentTypeFilter": {"documentType": "gene", "foundOnlyInFields": ["name", "description"]}
	}`), SearchOptions)
	require.NoError(t, err)

	assert.Equal(t, `cyto\:c`, r.SearchText())
	p, ok := r.Pagination()
	require.True(t, ok)
	assert.Equal(t, 5, p.Offset())
	assert.Equal(t, 50, p.NumRecords())
	project, ok := r.Project()
	assert.True(t, ok)
	assert.Equal(t, "PlasmoDB", project)
	assert.Equal(t, []string{"Pf", "Pv", "Py"}, r.MetadataOrganisms())
	assert.Equal(t, []string{"Pf"}, r.SearchOrganisms())
	assert.True(t, r.HasOrganismFilter())
	assert.True(t, r.HasDocTypeFilterAndFields())
	f, _ := r.DocTypeFilter()
	assert.Equal(t, []string{"name", "description"}, f.Fields())
}

func TestFromJSON_OrganismFilterEffect(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"none", `{"searchText":"x"}`, false},
		{"equal sets", `{"searchText":"x","restrictMetadataToOrganisms":["a","b"],"restrictSearchToOrganisms":["b","a"]}`, false},
		{"strict subset", `{"searchText":"x","restrictMetadataToOrganisms":["a","b"],"restrictSearchToOrganisms":["a"]}`, true},
		{"search only", `{"searchText":"x","restrictSearchToOrganisms":["a"]}`, false},
		{"metadata only", `{"searchText":"x","restrictMetadataToOrganisms":["a"]}`, false},
		{"empty lists are absent", `{"searchText":"x","restrictMetadataToOrganisms":[],"restrictSearchToOrganisms":[]}`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := FromJSON([]byte(tc.body), Options{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, r.HasOrganismFilter())
		})
	}
}

func TestFromJSON_Rules(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		opts    Options
		wantMsg string
	}{
		{
			name:    "malformed",
			body:    `{"searchText":`,
			wantMsg: "malformed request body",
		},
		{
			name:    "missing search text",
			body:    `{}`,
			wantMsg: "searchText",
		},
		{
			name:    "pagination required",
			body:    `{"searchText":"x"}`,
			opts:    SearchOptions,
			wantMsg: "'pagination' is required",
		},
		{
			name:    "pagination incomplete",
			body:    `{"searchText":"x","pagination":{"offset":0}}`,
			opts:    SearchOptions,
			wantMsg: "numRecords",
		},
		{
			name:    "page too large",
			body:    `{"searchText":"x","pagination":{"offset":0,"numRecords":51}}`,
			opts:    SearchOptions,
			wantMsg: "numRecords must be <= 50",
		},
		{
			name:    "negative offset",
			body:    `{"searchText":"x","pagination":{"offset":-1,"numRecords":5}}`,
			opts:    SearchOptions,
			wantMsg: "offset",
		},
		{
			name:    "pagination forbidden",
			body:    `{"searchText":"x","pagination":{"offset":0,"numRecords":5},"documentTypeFilter":{"documentType":"gene"}}`,
			opts:    StreamOptions,
			wantMsg: "pagination property is not allowed",
		},
		{
			name:    "organism superset violation",
			body:    `{"searchText":"x","restrictMetadataToOrganisms":["a"],"restrictSearchToOrganisms":["a","b"]}`,
			wantMsg: "All organisms in search must exist in organism metadata list",
		},
		{
			name:    "doc type filter required",
			body:    `{"searchText":"x"}`,
			opts:    StreamOptions,
			wantMsg: "'documentTypeFilter' and contained 'documentType' properties are required at this endpoint.",
		},
		{
			name:    "doc type missing inside filter",
			body:    `{"searchText":"x","documentTypeFilter":{}}`,
			wantMsg: "documentType",
		},
		{
			name:    "field filters forbidden",
			body:    `{"searchText":"x","documentTypeFilter":{"documentType":"gene","foundOnlyInFields":["name"]}}`,
			opts:    FieldCountsOptions,
			wantMsg: "Field filters ('foundOnlyInFields' property) are not allowed at this endpoint.",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tc.body), tc.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
			assert.Contains(t, domain.RuleMessage(err), tc.wantMsg)
		})
	}
}

func TestFromJSON_FieldCountsAcceptsPlainFilter(t *testing.T) {
	r, err := FromJSON([]byte(`{"searchText":"x","documentTypeFilter":{"documentType":"gene","foundOnlyInFields":[]}}`),
		FieldCountsOptions)
	require.NoError(t, err)
	assert.True(t, r.HasDocTypeFilter())
	assert.False(t, r.HasDocTypeFilterAndFields())
	_, ok := r.Pagination()
	assert.False(t, ok)
}
