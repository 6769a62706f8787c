// Package metadata models the site's document categories, document types and
// per-type searchable fields, plus the facet-count overlays of one request.
package metadata

import (
	"fmt"
	"slices"
)

// DefaultBoost is the relevance weight of a field that declares none.
const DefaultBoost = 1.0

// DocumentType is a kind of searchable record. Immutable.
type DocumentType struct {
	id                string
	category          string
	displayName       string
	displayNamePlural string
	hasOrganismField  bool
	isWdkRecordType   bool
}

// NewDocumentType creates a document type owned by the named category.
func NewDocumentType(
	id, category, displayName, displayNamePlural string,
	hasOrganismField, isWdkRecordType bool,
) DocumentType {
	return DocumentType{
		id:                id,
		category:          category,
		displayName:       displayName,
		displayNamePlural: displayNamePlural,
		hasOrganismField:  hasOrganismField,
		isWdkRecordType:   isWdkRecordType,
	}
}

func (t DocumentType) ID() string                { return t.id }
func (t DocumentType) Category() string          { return t.category }
func (t DocumentType) DisplayName() string       { return t.displayName }
func (t DocumentType) DisplayNamePlural() string { return t.displayNamePlural }
func (t DocumentType) HasOrganismField() bool    { return t.hasOrganismField }
func (t DocumentType) IsWdkRecordType() bool     { return t.isWdkRecordType }

// Category groups document types for display. Populated once, read-only after.
type Category struct {
	name     string
	docTypes []DocumentType
}

// NewCategory creates an empty category.
func NewCategory(name string) *Category {
	return &Category{name: name}
}

// Name returns the category name.
func (c *Category) Name() string { return c.name }

// AddDocumentTypes appends document types in display order.
func (c *Category) AddDocumentTypes(types []DocumentType) {
	c.docTypes = append(c.docTypes, types...)
}

// DocumentTypes returns the category's document types in display order.
func (c *Category) DocumentTypes() []DocumentType { return c.docTypes }

// DocumentField is a searchable field of one document type.
type DocumentField struct {
	name            string
	docType         string
	displayName     string
	boost           float64
	isSummary       bool
	isSubtitle      bool
	highlight       bool
	includeProjects []string
}

// FieldOptions holds the optional attributes of a field.
type FieldOptions struct {
	DisplayName     string
	Boost           *float64
	IsSummary       bool
	IsSubtitle      bool
	Highlight       bool
	IncludeProjects []string
}

// NewDocumentField validates and creates a field. Boost defaults to 1.0 and must be positive.
func NewDocumentField(docType, name string, opts FieldOptions) (DocumentField, error) {
	if name == "" {
		return DocumentField{}, fmt.Errorf("field of document type %q has no name", docType)
	}
	boost := DefaultBoost
	if opts.Boost != nil {
		boost = *opts.Boost
	}
	if boost <= 0 {
		return DocumentField{}, fmt.Errorf("field %q of document type %q: boost must be > 0, got %v", name, docType, boost)
	}
	displayName := opts.DisplayName
	if displayName == "" {
		displayName = name
	}
	return DocumentField{
		name:            name,
		docType:         docType,
		displayName:     displayName,
		boost:           boost,
		isSummary:       opts.IsSummary,
		isSubtitle:      opts.IsSubtitle,
		highlight:       opts.Highlight,
		includeProjects: slices.Clone(opts.IncludeProjects),
	}, nil
}

func (f DocumentField) Name() string        { return f.name }
func (f DocumentField) DocType() string     { return f.docType }
func (f DocumentField) DisplayName() string { return f.displayName }
func (f DocumentField) Boost() float64      { return f.boost }
func (f DocumentField) IsSummary() bool     { return f.isSummary }
func (f DocumentField) IsSubtitle() bool    { return f.isSubtitle }
func (f DocumentField) Highlight() bool     { return f.highlight }

// InProject reports whether the field is searchable in the project.
// Fields without an include list belong to every project.
func (f DocumentField) InProject(project string) bool {
	return len(f.includeProjects) == 0 || slices.Contains(f.includeProjects, project)
}
