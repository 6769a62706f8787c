// Package result holds the JSON shapes returned to search clients.
package result

import "encoding/json"

// Response is the synchronous search result.
type Response struct {
	SearchResults  SearchResults  `json:"searchResults"`
	OrganismCounts map[string]int `json:"organismCounts"`
	DocumentTypes  []DocumentType `json:"documentTypes"`
	Categories     []Category     `json:"categories"`
	// FieldCounts is present only when the search is filtered by document type.
	FieldCounts map[string]int `json:"fieldCounts,omitempty"`
}

// SearchResults is the requested page of matches.
type SearchResults struct {
	TotalCount int        `json:"totalCount"`
	Documents  []Document `json:"documents"`
}

// Document is one matched record.
type Document struct {
	DocumentType        string   `json:"documentType"`
	PrimaryKey          []string `json:"primaryKey"`
	WdkPrimaryKeyString string   `json:"wdkPrimaryKeyString,omitempty"`
	HyperlinkName       string   `json:"hyperlinkName,omitempty"`
	Organism            []string `json:"organism,omitempty"`
	Project             string   `json:"project,omitempty"`
	Score               float64  `json:"score"`
	// SummaryFieldData holds the values of the type's summary fields.
	SummaryFieldData map[string]json.RawMessage `json:"summaryFieldData"`
	// FoundInFields maps each matched field to its highlighted snippets.
	FoundInFields map[string][]string `json:"foundInFields"`
}

// DocumentType describes a document type and, in search results, its match count.
type DocumentType struct {
	ID                string  `json:"id"`
	DisplayName       string  `json:"displayName"`
	DisplayNamePlural string  `json:"displayNamePlural"`
	Count             *int    `json:"count,omitempty"`
	HasOrganismField  bool    `json:"hasOrganismField"`
	IsWdkRecordType   bool    `json:"isWdkRecordType"`
	SummaryFields     []Field `json:"summaryFields"`
	SearchFields      []Field `json:"searchFields"`
}

// Field describes one searchable field.
type Field struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	IsSubtitle  bool    `json:"isSubtitle"`
	Boost       float64 `json:"boost"`
}

// Category lists document type ids in display order.
type Category struct {
	Name          string   `json:"name"`
	DocumentTypes []string `json:"documentTypes"`
}

// Catalog is the categories and document types listing.
type Catalog struct {
	Categories    []Category     `json:"categories"`
	DocumentTypes []DocumentType `json:"documentTypes"`
}
