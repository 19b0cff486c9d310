// Package openapi reflects the books API into an OpenAPI 3 document served by
// the Swagger UI page.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/mrlokans/library/internal/auth"
	apihttp "github.com/mrlokans/library/internal/http"
)

const (
	Title       = "IO Library API"
	Description = "API for managing a library of books."
	Version     = "1.0.0"

	booksTag         = "Books"
	booksTagDesc     = "Operations related to managing books"
	securitySchemeID = "APIKeyHeader"
)

// Info locates the API for the document's server entry.
type Info struct {
	Host string
	Port int
}

// ServerURL is the base URL every documented path is relative to.
func (i Info) ServerURL() string {
	return fmt.Sprintf("http://%s:%d/api", i.Host, i.Port)
}

type operation struct {
	method    string
	path      string
	id        string
	summary   string
	request   any
	responses []response
}

// response with a nil body documents an empty response.
type response struct {
	status int
	body   any
}

func bookOperations() []operation {
	errBody := new(apihttp.ErrorResponse)
	return []operation{
		{
			method:  http.MethodGet,
			path:    "/books",
			id:      "listBooks",
			summary: "Get a list of all books",
			responses: []response{
				{http.StatusOK, new([]apihttp.BookResponse)},
				{http.StatusUnauthorized, errBody},
			},
		},
		{
			method:  http.MethodGet,
			path:    "/books/{id}",
			id:      "getBook",
			summary: "Get a specific book by ID",
			request: new(apihttp.BookPathParams),
			responses: []response{
				{http.StatusOK, new(apihttp.BookResponse)},
				{http.StatusUnauthorized, errBody},
				{http.StatusNotFound, errBody},
			},
		},
		{
			method:  http.MethodPost,
			path:    "/books",
			id:      "addBook",
			summary: "Add a new book",
			request: new(apihttp.CreateBookRequest),
			responses: []response{
				{http.StatusCreated, new(apihttp.CreatedResponse)},
				{http.StatusBadRequest, errBody},
				{http.StatusUnauthorized, errBody},
				{http.StatusConflict, errBody},
			},
		},
		{
			method:  http.MethodPut,
			path:    "/books/{id}",
			id:      "updateBook",
			summary: "Update an existing book",
			request: new(apihttp.UpdateBookRequest),
			responses: []response{
				{http.StatusOK, new(apihttp.SuccessResponse)},
				{http.StatusBadRequest, errBody},
				{http.StatusUnauthorized, errBody},
				{http.StatusNotFound, errBody},
				{http.StatusConflict, errBody},
			},
		},
		{
			method:  http.MethodDelete,
			path:    "/books/{id}",
			id:      "deleteBook",
			summary: "Delete a book by ID",
			request: new(apihttp.BookPathParams),
			responses: []response{
				{http.StatusNoContent, nil},
				{http.StatusUnauthorized, errBody},
				{http.StatusNotFound, errBody},
			},
		},
	}
}

// Build returns the indented JSON document for the books API.
func Build(info Info) ([]byte, error) {
	reflector := openapi3.NewReflector()

	spec := reflector.SpecEns()
	spec.Info.
		WithTitle(Title).
		WithDescription(Description).
		WithVersion(Version)
	spec.Servers = []openapi3.Server{{URL: info.ServerURL()}}

	tagDesc := booksTagDesc
	spec.Tags = []openapi3.Tag{{Name: booksTag, Description: &tagDesc}}

	spec.SetAPIKeySecurity(securitySchemeID, auth.APIKeyHeader, openapi.InHeader,
		"Shared API key required by every books endpoint")

	for _, op := range bookOperations() {
		oc, err := reflector.NewOperationContext(op.method, op.path)
		if err != nil {
			return nil, fmt.Errorf("failed to create operation %s: %w", op.id, err)
		}

		oc.SetID(op.id)
		oc.SetSummary(op.summary)
		oc.SetTags(booksTag)
		oc.AddSecurity(securitySchemeID)

		if op.request != nil {
			oc.AddReqStructure(op.request)
		}
		for _, resp := range op.responses {
			oc.AddRespStructure(resp.body, openapi.WithHTTPStatus(resp.status))
		}

		if err := reflector.AddOperation(oc); err != nil {
			return nil, fmt.Errorf("failed to add operation %s: %w", op.id, err)
		}
	}

	document, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}
	return document, nil
}
