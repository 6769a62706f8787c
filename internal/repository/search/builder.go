package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/trip"
	"github.com/kailas-cloud/sitesearch/internal/engine"
)

// Fixed query settings.
const (
	QueryParser    = "edismax"
	SortOrder      = "score desc, " + domain.IDField + " asc"
	searchFields   = "* " + domain.ScoreField
	exportFields   = domain.PrimaryKeyField + " " + domain.ScoreField + " " + domain.ProjectField
	unlimitedFacet = "-1"
)

// SearchParams renders a search round trip. A request without pagination is
// rendered facet-only.
func SearchParams(req *request.Request, meta *metadata.Metadata, t trip.Trip) *engine.Params {
	fields, unrestricted := meta.SearchFields(req, t.ApplyFieldsFilter)
	text := req.SearchText()

	start, rows := 0, 0
	p, hasPage := req.Pagination()
	omit := t.OmitResults || !hasPage
	if !omit {
		start, rows = p.Offset(), p.NumRecords()
	}

	params := engine.NewParams().
		Add("q", QueryText(text, fields, unrestricted))
	params.AddIf(len(fields) > 0, "qf", QueryFields(fields))
	params.Add("defType", QueryParser).
		Add("start", strconv.Itoa(start)).
		Add("rows", strconv.Itoa(rows)).
		Add("fl", searchFields).
		Add("sort", SortOrder)
	addFilters(params, req, t.Organisms)

	params.Add("facet", "true").
		Add("facet.limit", unlimitedFacet).
		Add("facet.field", domain.DocumentTypeField).
		Add("facet.field", domain.OrganismField)
	if t.FieldFacets {
		for _, f := range fields {
			params.Add("facet.query", FieldFacetQuery(f.Name(), text))
		}
	}

	if !omit {
		params.Add("hl", "true").
			Add("hl.fl", "*").
			Add("hl.method", "unified")
	}
	return params
}

// ExportParams renders one page of a cursor export. The search-scope organism
// filter and the field narrowing are always applied.
func ExportParams(req *request.Request, meta *metadata.Metadata, cursor string, pageSize int) *engine.Params {
	fields, unrestricted := meta.SearchFields(req, true)
	params := engine.NewParams().
		Add("q", QueryText(req.SearchText(), fields, unrestricted))
	params.AddIf(len(fields) > 0, "qf", QueryFields(fields))
	params.Add("defType", QueryParser).
		Add("rows", strconv.Itoa(pageSize)).
		Add("fl", exportFields).
		Add("sort", SortOrder).
		Add("cursorMark", cursor).
		Add("echoParams", "none")
	addFilters(params, req, req.SearchOrganisms())
	return params
}

// QueryFields renders the qf value: "name" for unit boost, "name^0.50" otherwise.
func QueryFields(fields []metadata.DocumentField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f.Boost() == 1 {
			parts[i] = f.Name()
			continue
		}
		parts[i] = fmt.Sprintf("%s^%.2f", f.Name(), f.Boost())
	}
	return strings.Join(parts, " ")
}

// QueryText renders q. The universal match becomes a match-all query when the
// search is unrestricted and an existence clause per field otherwise.
func QueryText(text string, fields []metadata.DocumentField, unrestricted bool) string {
	if text != domain.UniversalMatch {
		return text
	}
	if unrestricted || len(fields) == 0 {
		return domain.UniversalMatchAllDocs
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Name() + ":*"
	}
	return strings.Join(parts, " ")
}

// FieldFacetQuery renders a facet query counting matches of text in one field,
// keyed by the field name.
func FieldFacetQuery(field, text string) string {
	return "{!key=" + field + "}" + field + ":(" + text + ")"
}

// ReservedFilter excludes one internal document type.
func ReservedFilter(docType string) string {
	return "-(" + domain.DocumentTypeField + ":(" + docType + "))"
}

// ProjectFilter keeps documents of the project and documents without one.
func ProjectFilter(project string) string {
	return bypassOnAbsence(domain.ProjectField, project)
}

// DocTypeFilter keeps documents of one type.
func DocTypeFilter(docType string) string {
	return domain.DocumentTypeField + ":(" + docType + ")"
}

// OrganismFilter keeps documents of the organisms and documents without any.
func OrganismFilter(organisms []string) string {
	quoted := make([]string, len(organisms))
	for i, org := range organisms {
		quoted[i] = quotePhrase(org)
	}
	return bypassOnAbsence(domain.OrganismField, strings.Join(quoted, " OR "))
}

var phraseEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quotePhrase wraps v in double quotes, escaping only backslash and quote.
func quotePhrase(v string) string {
	return `"` + phraseEscaper.Replace(v) + `"`
}

// bypassOnAbsence renders -(f:[* TO *] AND -f:(cond)): documents lacking the
// field pass, documents having it must match.
func bypassOnAbsence(field, cond string) string {
	return "-(" + field + ":[* TO *] AND -" + field + ":(" + cond + "))"
}

func addFilters(params *engine.Params, req *request.Request, organisms []string) {
	for _, t := range domain.ReservedDocTypes {
		params.Add("fq", ReservedFilter(t))
	}
	if project, ok := req.Project(); ok {
		params.Add("fq", ProjectFilter(project))
	}
	if f, ok := req.DocTypeFilter(); ok {
		params.Add("fq", DocTypeFilter(f.DocType()))
	}
	if organisms != nil {
		params.Add("fq", OrganismFilter(organisms))
	}
}
