package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type document struct {
	Info struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Version     string `json:"version"`
	} `json:"info"`
	Servers []struct {
		URL string `json:"url"`
	} `json:"servers"`
	Tags []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"tags"`
	Paths      map[string]map[string]docOperation `json:"paths"`
	Components struct {
		SecuritySchemes map[string]struct {
			Type string `json:"type"`
			Name string `json:"name"`
			In   string `json:"in"`
		} `json:"securitySchemes"`
	} `json:"components"`
}

type docOperation struct {
	Tags      []string                    `json:"tags"`
	Security  []map[string][]string       `json:"security"`
	Responses map[string]json.RawMessage  `json:"responses"`
	Params    []struct{ Name, In string } `json:"parameters"`
}

func buildDocument(t *testing.T) document {
	t.Helper()
	raw, err := Build(Info{Host: "203.0.113.7", Port: 8080})
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestBuild_Metadata(t *testing.T) {
	doc := buildDocument(t)

	assert.Equal(t, "IO Library API", doc.Info.Title)
	assert.Equal(t, "API for managing a library of books.", doc.Info.Description)
	assert.Equal(t, "1.0.0", doc.Info.Version)

	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "http://203.0.113.7:8080/api", doc.Servers[0].URL)

	require.Len(t, doc.Tags, 1)
	assert.Equal(t, "Books", doc.Tags[0].Name)
	assert.Equal(t, "Operations related to managing books", doc.Tags[0].Description)

	scheme, ok := doc.Components.SecuritySchemes["APIKeyHeader"]
	require.True(t, ok)
	assert.Equal(t, "apiKey", scheme.Type)
	assert.Equal(t, "X-API-Key", scheme.Name)
	assert.Equal(t, "header", scheme.In)
}

func TestBuild_Operations(t *testing.T) {
	doc := buildDocument(t)

	expected := map[string]map[string][]string{
		"/books":      {"get": {"200", "401"}, "post": {"201", "400", "401", "409"}},
		"/books/{id}": {"get": {"200", "401", "404"}, "put": {"200", "400", "401", "404", "409"}, "delete": {"204", "401", "404"}},
	}

	require.Len(t, doc.Paths, len(expected))
	for path, methods := range expected {
		require.Contains(t, doc.Paths, path)
		assert.Len(t, doc.Paths[path], len(methods), path)

		for method, statuses := range methods {
			op, ok := doc.Paths[path][method]
			require.True(t, ok, "%s %s", method, path)

			assert.Equal(t, []string{"Books"}, op.Tags)
			require.Len(t, op.Security, 1)
			assert.Contains(t, op.Security[0], "APIKeyHeader")

			for _, status := range statuses {
				assert.Contains(t, op.Responses, status, "%s %s", method, path)
			}

			if path == "/books/{id}" {
				require.NotEmpty(t, op.Params, "%s %s", method, path)
				assert.Equal(t, "id", op.Params[0].Name)
				assert.Equal(t, "path", op.Params[0].In)
			}
		}
	}
}

func TestInfo_ServerURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:80/api", Info{Host: "127.0.0.1", Port: 80}.ServerURL())
}
