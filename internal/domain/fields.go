package domain

// Engine document fields with fixed meaning.
const (
	DocumentTypeField     = "document-type"
	OrganismField         = "organismsForFilter"
	OrganismDisplayField  = "organism"
	ProjectField          = "project"
	IDField               = "id"
	PrimaryKeyField       = "primaryKey"
	ScoreField            = "score"
	WdkPrimaryKeyField    = "wdkPrimaryKeyString"
	HyperlinkNameField    = "hyperlinkName"
	JSONBlobField         = "json-blob"
	UniversalMatch        = "*"
	UniversalMatchAllDocs = "*:*"
)

// Reserved document types. Documents of these types hold site metadata and
// are never returned to users.
const (
	CategoriesMetaDocType = "document-categories"
	FieldsMetaDocType     = "document-fields"
	BatchMetaDocType      = "batch-meta"
)

// ReservedDocTypes lists the internal document types in exclusion order.
var ReservedDocTypes = []string{CategoriesMetaDocType, FieldsMetaDocType, BatchMetaDocType}
