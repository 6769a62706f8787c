package engine

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/sitesearch/internal/domain"
)

// Document is one returned record with its fields left as raw JSON.
type Document map[string]json.RawMessage

// String returns a string field. A multi-valued field yields its first value.
func (d Document) String(field string) (string, bool) {
	raw, ok := d[field]
	if !ok {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, true
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return list[0], true
	}
	return "", false
}

// Strings returns a multi-valued string field. A single value yields a one-element list.
func (d Document) Strings(field string) ([]string, bool) {
	raw, ok := d[field]
	if !ok {
		return nil, false
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list, true
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return []string{s}, true
	}
	return nil, false
}

// Float returns a numeric field.
func (d Document) Float(field string) (float64, bool) {
	raw, ok := d[field]
	if !ok {
		return 0, false
	}
	var f float64
	if json.Unmarshal(raw, &f) != nil {
		return 0, false
	}
	return f, true
}

// Raw returns the field's JSON text.
func (d Document) Raw(field string) (json.RawMessage, bool) {
	raw, ok := d[field]
	return raw, ok
}

// ResponseHeader is the engine's response header.
type ResponseHeader struct {
	Status int `json:"status"`
	QTime  int `json:"QTime"`
}

// Result is the matched document window.
type Result struct {
	NumFound int        `json:"numFound"`
	Start    int        `json:"start"`
	MaxScore float64    `json:"maxScore"`
	Docs     []Document `json:"docs"`
}

// FacetCounts holds facet field buckets and facet query counts.
type FacetCounts struct {
	Queries map[string]int       `json:"facet_queries"`
	Fields  map[string]FacetList `json:"facet_fields"`
}

// FacetList is a facet field's buckets. The engine sends them as a flat
// [value, count, value, count, ...] array.
type FacetList []domain.FacetBucket

// UnmarshalJSON decodes the flat value/count array.
func (l *FacetList) UnmarshalJSON(data []byte) error {
	var flat []json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("facet list: %w", err)
	}
	if len(flat)%2 != 0 {
		return fmt.Errorf("facet list: odd number of elements (%d)", len(flat))
	}
	out := make(FacetList, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		var b domain.FacetBucket
		if err := json.Unmarshal(flat[i], &b.Value); err != nil {
			return fmt.Errorf("facet value %d: %w", i/2, err)
		}
		if err := json.Unmarshal(flat[i+1], &b.Count); err != nil {
			return fmt.Errorf("facet count %d: %w", i/2, err)
		}
		out = append(out, b)
	}
	*l = out
	return nil
}

// ErrorBody is the engine's error payload.
type ErrorBody struct {
	Msg  string `json:"msg"`
	Code int    `json:"code"`
}

// Response is a parsed engine response.
type Response struct {
	Header         ResponseHeader                 `json:"responseHeader"`
	Result         Result                         `json:"response"`
	FacetCounts    FacetCounts                    `json:"facet_counts"`
	Highlighting   map[string]map[string][]string `json:"highlighting"`
	NextCursorMark *string                        `json:"nextCursorMark"`
	Error          *ErrorBody                     `json:"error"`
}

// Documents returns the matched documents.
func (r *Response) Documents() []Document { return r.Result.Docs }

// NextCursor returns the cursor for the following page, if the engine sent one.
func (r *Response) NextCursor() (string, bool) {
	if r.NextCursorMark == nil {
		return "", false
	}
	return *r.NextCursorMark, true
}

// ParseResponse decodes an engine response body.
func ParseResponse(body []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return &r, nil
}
