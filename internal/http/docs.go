package http

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	docsTitle   = "IO Library API"
	docsPath    = "/apidocs"
	openAPIPath = "/apidocs/openapi.json"
)

// DocsController serves the landing page and the interactive API docs.
type DocsController struct {
	document []byte
	version  string
}

func NewDocsController(document []byte, version string) *DocsController {
	return &DocsController{
		document: document,
		version:  version,
	}
}

func (d *DocsController) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{
		"Title":   docsTitle,
		"Version": d.version,
		"DocsURL": docsPath,
	})
}

func (d *DocsController) SwaggerUI(c *gin.Context) {
	c.HTML(http.StatusOK, "apidocs", gin.H{
		"Title":   docsTitle,
		"SpecURL": openAPIPath,
	})
}

func (d *DocsController) Document(c *gin.Context) {
	if len(d.document) == 0 {
		respondNotFound(c, "API document")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", d.document)
}
