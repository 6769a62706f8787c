package chi

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

// SearchParams are the query parameters of GET /.
type SearchParams struct {
	SearchText *string `form:"searchText,omitempty" json:"searchText,omitempty"`
	Offset     *int    `form:"offset,omitempty" json:"offset,omitempty"`
	NumRecords *int    `form:"numRecords,omitempty" json:"numRecords,omitempty"`
	ProjectID  *string `form:"projectId,omitempty" json:"projectId,omitempty"`
	DocType    *string `form:"docType,omitempty" json:"docType,omitempty"`
}

// CategoriesParams are the query parameters of GET /categories-metadata.
type CategoriesParams struct {
	ProjectID *string `form:"projectId,omitempty" json:"projectId,omitempty"`
}

// InvalidParamFormatError reports a query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var params SearchParams
	q := r.URL.Query()
	bindings := []struct {
		name string
		dest any
	}{
		{"searchText", &params.SearchText},
		{"offset", &params.Offset},
		{"numRecords", &params.NumRecords},
		{"projectId", &params.ProjectID},
		{"docType", &params.DocType},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return SearchParams{}, &InvalidParamFormatError{ParamName: b.name, Err: err}
		}
	}
	return params, nil
}

func bindCategoriesParams(r *http.Request) (CategoriesParams, error) {
	var params CategoriesParams
	if err := runtime.BindQueryParameter("form", true, false, "projectId", r.URL.Query(), &params.ProjectID); err != nil {
		return CategoriesParams{}, &InvalidParamFormatError{ParamName: "projectId", Err: err}
	}
	return params, nil
}

// toRequest applies the GET form defaults: text "*", offset 0, 20 records.
func (p SearchParams) toRequest() (request.Request, error) {
	text := "*"
	if p.SearchText != nil {
		text = *p.SearchText
	}
	offset := 0
	if p.Offset != nil {
		offset = *p.Offset
	}
	numRecords := request.DefaultNumRecords
	if p.NumRecords != nil {
		numRecords = *p.NumRecords
	}
	return request.New(text, offset, numRecords, p.DocType, p.ProjectID)
}
