package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

// Metadata is the site model for one request: categories, document types and
// their fields, plus facet-count overlays written while the request runs.
// It is owned by a single request flow and never shared.
type Metadata struct {
	categories []*Category
	docTypes   map[string]DocumentType
	order      []string // document type ids in category display order
	fields     map[string][]DocumentField

	docTypeCounts  map[string]int
	organismCounts map[string]int
	fieldCounts    map[string]int
	fieldCountType string
}

type categoryJSON struct {
	Name          string        `json:"name"`
	DocumentTypes []docTypeJSON `json:"documentTypes"`
}

type docTypeJSON struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	DisplayNamePlural string `json:"displayNamePlural"`
	HasOrganismField  bool   `json:"hasOrganismField"`
	IsWdkRecordType   bool   `json:"isWdkRecordType"`
}

type docTypeFieldsJSON struct {
	DocumentType string      `json:"document-type"`
	Fields       []fieldJSON `json:"fields"`
}

type fieldJSON struct {
	Name            string   `json:"name"`
	DisplayName     string   `json:"displayName"`
	Boost           *float64 `json:"boost"`
	IsSummary       bool     `json:"isSummary"`
	IsSubtitle      bool     `json:"isSubtitle"`
	Highlight       bool     `json:"highlight"`
	IncludeProjects []string `json:"includeProjects"`
}

// FromCategories builds metadata from the categories document blob.
func FromCategories(blob []byte) (*Metadata, error) {
	var cats []categoryJSON
	if err := json.Unmarshal(blob, &cats); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}
	m := &Metadata{
		docTypes: make(map[string]DocumentType),
		fields:   make(map[string][]DocumentField),
	}
	for _, c := range cats {
		if c.Name == "" {
			return nil, errors.New("category without a name")
		}
		cat := NewCategory(c.Name)
		types := make([]DocumentType, 0, len(c.DocumentTypes))
		for _, dt := range c.DocumentTypes {
			if dt.ID == "" {
				return nil, fmt.Errorf("category %q has a document type without an id", c.Name)
			}
			if _, dup := m.docTypes[dt.ID]; dup {
				return nil, fmt.Errorf("document type %q declared twice", dt.ID)
			}
			t := NewDocumentType(dt.ID, c.Name, dt.DisplayName, dt.DisplayNamePlural,
				dt.HasOrganismField, dt.IsWdkRecordType)
			m.docTypes[dt.ID] = t
			m.order = append(m.order, dt.ID)
			types = append(types, t)
		}
		cat.AddDocumentTypes(types)
		m.categories = append(m.categories, cat)
	}
	return m, nil
}

// AddFieldData attaches the fields document blob. Every document type it names
// must already be known from the categories document.
func (m *Metadata) AddFieldData(blob []byte) error {
	var entries []docTypeFieldsJSON
	if err := json.Unmarshal(blob, &entries); err != nil {
		return fmt.Errorf("parse fields: %w", err)
	}
	for _, e := range entries {
		if _, ok := m.docTypes[e.DocumentType]; !ok {
			return fmt.Errorf("fields declared for unknown document type %q", e.DocumentType)
		}
		fields := make([]DocumentField, 0, len(e.Fields))
		for _, fj := range e.Fields {
			if slices.ContainsFunc(fields, func(f DocumentField) bool { return f.Name() == fj.Name }) {
				return fmt.Errorf("field %q declared twice for document type %q", fj.Name, e.DocumentType)
			}
			f, err := NewDocumentField(e.DocumentType, fj.Name, FieldOptions{
				DisplayName:     fj.DisplayName,
				Boost:           fj.Boost,
				IsSummary:       fj.IsSummary,
				IsSubtitle:      fj.IsSubtitle,
				Highlight:       fj.Highlight,
				IncludeProjects: fj.IncludeProjects,
			})
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}
		m.fields[e.DocumentType] = append(m.fields[e.DocumentType], fields...)
	}
	return nil
}

// Categories returns the categories in display order.
func (m *Metadata) Categories() []*Category { return m.categories }

// DocumentTypes returns all document types in category display order.
func (m *Metadata) DocumentTypes() []DocumentType {
	out := make([]DocumentType, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.docTypes[id])
	}
	return out
}

// DocumentType looks up a document type by id.
func (m *Metadata) DocumentType(id string) (DocumentType, bool) {
	t, ok := m.docTypes[id]
	return t, ok
}

// Fields returns the declared fields of a document type in declaration order.
func (m *Metadata) Fields(docType string) []DocumentField { return m.fields[docType] }

// ProjectFields returns the fields of a document type searchable in the
// project, or all of them when no project is given.
func (m *Metadata) ProjectFields(docType, project string, hasProject bool) []DocumentField {
	all := m.fields[docType]
	if !hasProject {
		return all
	}
	out := make([]DocumentField, 0, len(all))
	for _, f := range all {
		if f.InProject(project) {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks the request's document type filter against the model.
// Narrowing fields must also be searchable in the requested project.
func (m *Metadata) Validate(req *request.Request) error {
	filter, ok := req.DocTypeFilter()
	if !ok {
		return nil
	}
	if _, known := m.docTypes[filter.DocType()]; !known {
		return domain.InvalidRequest("unknown document type %q", filter.DocType())
	}
	project, hasProject := req.Project()
	declared := m.fields[filter.DocType()]
	for _, name := range filter.Fields() {
		i := slices.IndexFunc(declared, func(f DocumentField) bool { return f.Name() == name })
		if i < 0 {
			return domain.InvalidRequest("field %q is not a field of document type %q", name, filter.DocType())
		}
		if hasProject && !declared[i].InProject(project) {
			return domain.InvalidRequest("field %q of document type %q is not searchable in project %q",
				name, filter.DocType(), project)
		}
	}
	return nil
}

// SearchFields selects the fields a search runs against. Without a document
// type filter it is the union of every type's fields (first declaration wins)
// and the search is unrestricted. With a filter it is that type's fields,
// narrowed to "found only in fields" when applyFieldsFilter is set. A type
// with no declared fields falls back to an unrestricted search over all
// fields.
func (m *Metadata) SearchFields(req *request.Request, applyFieldsFilter bool) (fields []DocumentField, unrestricted bool) {
	project, hasProject := req.Project()
	filter, ok := req.DocTypeFilter()
	if !ok {
		seen := make(map[string]bool)
		for _, id := range m.order {
			for _, f := range m.ProjectFields(id, project, hasProject) {
				if seen[f.Name()] {
					continue
				}
				seen[f.Name()] = true
				fields = append(fields, f)
			}
		}
		return fields, true
	}

	declared := m.ProjectFields(filter.DocType(), project, hasProject)
	if len(declared) == 0 {
		return nil, true
	}
	if !applyFieldsFilter || !filter.HasFields() {
		return declared, false
	}
	narrowed := make([]DocumentField, 0, len(filter.Fields()))
	for _, f := range declared {
		if slices.Contains(filter.Fields(), f.Name()) {
			narrowed = append(narrowed, f)
		}
	}
	return narrowed, false
}
