package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger())
	router.Use(Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware(cfg.ConnectOrigins...))

	// Pre-flight runs before auth and for unmatched paths too
	router.Use(auth.PreflightMiddleware())
	router.Use(auth.CORSMiddleware())

	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Middleware())
	}

	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	health := NewHealthController(cfg.HealthChecker, cfg.Version)
	docs := NewDocsController(cfg.OpenAPIDoc, cfg.Version)
	booksController := NewBooksController(cfg.BookStore, cfg.Auditor)

	// Public endpoints
	router.GET("/", docs.Index)
	router.GET("/health", health.Status)
	router.GET("/apidocs", docs.SwaggerUI)
	router.GET("/apidocs/openapi.json", docs.Document)
	router.GET("/api", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})

	// Books API endpoints
	api := router.Group("/api", auth.APIKeyMiddleware(cfg.APIKey, cfg.AuthFailures))
	api.GET("/books", booksController.ListBooks)
	api.POST("/books", booksController.AddBook)
	api.GET("/books/:id", booksController.GetBook)
	api.PUT("/books/:id", booksController.UpdateBook)
	api.DELETE("/books/:id", booksController.DeleteBook)

	return router
}
