package search

import (
	"encoding/json"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
	"github.com/kailas-cloud/sitesearch/internal/engine"
)

// Format shapes the primary response and the merged metadata into the client result.
func Format(meta *metadata.Metadata, primary *engine.Response, project string, hasProject bool) *result.Response {
	docs := make([]result.Document, 0, len(primary.Documents()))
	for _, d := range primary.Documents() {
		docs = append(docs, formatDocument(meta, d, primary.Highlighting))
	}

	out := &result.Response{
		SearchResults: result.SearchResults{
			TotalCount: primary.Result.NumFound,
			Documents:  docs,
		},
		OrganismCounts: meta.OrganismCounts(),
		DocumentTypes:  formatDocumentTypes(meta, project, hasProject),
		Categories:     formatCategories(meta),
	}
	if out.OrganismCounts == nil {
		out.OrganismCounts = map[string]int{}
	}
	if counts, _, ok := meta.FieldCounts(); ok {
		out.FieldCounts = counts
	}
	return out
}

// FormatCatalog lists categories and document types without counts.
func FormatCatalog(meta *metadata.Metadata, project string, hasProject bool) *result.Catalog {
	return &result.Catalog{
		Categories:    formatCategories(meta),
		DocumentTypes: formatDocumentTypes(meta, project, hasProject),
	}
}

func formatDocument(meta *metadata.Metadata, d engine.Document, hl map[string]map[string][]string) result.Document {
	docType, _ := d.String(domain.DocumentTypeField)
	pk, _ := d.Strings(domain.PrimaryKeyField)
	wdk, _ := d.String(domain.WdkPrimaryKeyField)
	link, _ := d.String(domain.HyperlinkNameField)
	orgs, _ := d.Strings(domain.OrganismDisplayField)
	project, _ := d.String(domain.ProjectField)
	score, _ := d.Float(domain.ScoreField)
	id, _ := d.String(domain.IDField)
	snippets := hl[id]

	out := result.Document{
		DocumentType:        docType,
		PrimaryKey:          pk,
		WdkPrimaryKeyString: wdk,
		HyperlinkName:       link,
		Organism:            orgs,
		Project:             project,
		Score:               score,
		SummaryFieldData:    map[string]json.RawMessage{},
		FoundInFields:       map[string][]string{},
	}
	for _, f := range meta.Fields(docType) {
		if s := snippets[f.Name()]; len(s) > 0 {
			out.FoundInFields[f.Name()] = s
		}
		if !f.IsSummary() {
			continue
		}
		// highlighted summary fields show the first snippet in place of the stored value
		if s := snippets[f.Name()]; f.Highlight() && len(s) > 0 {
			raw, err := json.Marshal(s[0])
			if err == nil {
				out.SummaryFieldData[f.Name()] = raw
				continue
			}
		}
		if raw, ok := d.Raw(f.Name()); ok {
			out.SummaryFieldData[f.Name()] = raw
		}
	}
	return out
}

func formatDocumentTypes(meta *metadata.Metadata, project string, hasProject bool) []result.DocumentType {
	types := meta.DocumentTypes()
	out := make([]result.DocumentType, 0, len(types))
	for _, t := range types {
		dt := result.DocumentType{
			ID:                t.ID(),
			DisplayName:       t.DisplayName(),
			DisplayNamePlural: t.DisplayNamePlural(),
			HasOrganismField:  t.HasOrganismField(),
			IsWdkRecordType:   t.IsWdkRecordType(),
			SummaryFields:     []result.Field{},
			SearchFields:      []result.Field{},
		}
		if n, ok := meta.DocTypeCount(t.ID()); ok {
			dt.Count = &n
		}
		for _, f := range meta.ProjectFields(t.ID(), project, hasProject) {
			rf := result.Field{
				Name:        f.Name(),
				DisplayName: f.DisplayName(),
				IsSubtitle:  f.IsSubtitle(),
				Boost:       f.Boost(),
			}
			dt.SearchFields = append(dt.SearchFields, rf)
			if f.IsSummary() {
				dt.SummaryFields = append(dt.SummaryFields, rf)
			}
		}
		out = append(out, dt)
	}
	return out
}

func formatCategories(meta *metadata.Metadata) []result.Category {
	cats := meta.Categories()
	out := make([]result.Category, 0, len(cats))
	for _, c := range cats {
		ids := make([]string, 0, len(c.DocumentTypes()))
		for _, t := range c.DocumentTypes() {
			ids = append(ids, t.ID())
		}
		out = append(out, result.Category{Name: c.Name(), DocumentTypes: ids})
	}
	return out
}
