// Package metadata loads the site model from the engine's metadata documents.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	dommeta "github.com/kailas-cloud/sitesearch/internal/domain/metadata"
	"github.com/kailas-cloud/sitesearch/internal/engine"
)

// Loader fetches categories and fields and assembles a fresh Metadata per call.
type Loader struct {
	engine engine.Searcher
}

// New creates a metadata loader.
func New(s engine.Searcher) *Loader {
	return &Loader{engine: s}
}

// Load issues the categories lookup, then the fields lookup. Any unusable
// answer fails with domain.ErrMetadataUnavailable; engine errors pass through.
func (l *Loader) Load(ctx context.Context) (*dommeta.Metadata, error) {
	blob, err := l.lookup(ctx, domain.CategoriesMetaDocType)
	if err != nil {
		return nil, err
	}
	meta, err := dommeta.FromCategories(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMetadataUnavailable, err)
	}

	blob, err = l.lookup(ctx, domain.FieldsMetaDocType)
	if err != nil {
		return nil, err
	}
	if err = meta.AddFieldData(blob); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMetadataUnavailable, err)
	}
	return meta, nil
}

// LookupParams renders the request for one metadata document.
func LookupParams(docType string) *engine.Params {
	return engine.NewParams().
		Add("q", domain.UniversalMatch).
		Add("fq", domain.DocumentTypeField+":("+docType+")").
		Add("fl", domain.JSONBlobField+":[json]").
		Add("wt", "json")
}

func (l *Loader) lookup(ctx context.Context, docType string) ([]byte, error) {
	resp, err := l.engine.Select(ctx, engine.MethodGet, LookupParams(docType))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", docType, err)
	}
	docs := resp.Documents()
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no %s document", domain.ErrMetadataUnavailable, docType)
	}
	blob, ok := docs[0].Raw(domain.JSONBlobField)
	if !ok || len(blob) == 0 || string(blob) == "null" {
		return nil, fmt.Errorf("%w: %s document has no %s", domain.ErrMetadataUnavailable, docType, domain.JSONBlobField)
	}
	return unwrapBlob(blob), nil
}

// unwrapBlob accepts the blob either as embedded JSON or as a JSON string holding JSON.
func unwrapBlob(blob []byte) []byte {
	if blob[0] != '"' {
		return blob
	}
	var s string
	if json.Unmarshal(blob, &s) != nil {
		return blob
	}
	return []byte(s)
}
