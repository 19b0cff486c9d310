package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupCORSRouter() *gin.Engine {
	router := gin.New()
	router.Use(PreflightMiddleware(), CORSMiddleware())
	api := router.Group("/api", APIKeyMiddleware("s3cret", nil))
	api.GET("/books", func(c *gin.Context) {
		c.JSON(http.StatusOK, []string{})
	})
	return router
}

func assertCORSHeaders(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	expected := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type, Authorization, X-API-Key",
		"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
	}
	for header, want := range expected {
		if got := rr.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestPreflightMiddleware_AnyPathWithoutKey(t *testing.T) {
	router := setupCORSRouter()

	for _, path := range []string{"/api/books", "/api/books/17", "/api/whatever", "/"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set("Origin", "https://example.org")
			req.Header.Set("Access-Control-Request-Method", "PUT")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusNoContent {
				t.Errorf("Expected status 204, got %d", rr.Code)
			}
			if rr.Body.Len() != 0 {
				t.Errorf("Expected empty body, got %q", rr.Body.String())
			}
			assertCORSHeaders(t, rr)
		})
	}
}

func TestCORSMiddleware_RegularResponses(t *testing.T) {
	router := setupCORSRouter()

	t.Run("authorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.Header.Set(APIKeyHeader, "s3cret")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rr.Code)
		}
		assertCORSHeaders(t, rr)
	})

	t.Run("unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rr.Code)
		}
		assertCORSHeaders(t, rr)
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware("http://203.0.113.7:80"))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	csp := rr.Header().Get("Content-Security-Policy")
	for _, fragment := range []string{
		"script-src 'self' 'unsafe-inline' https://unpkg.com",
		"style-src 'self' 'unsafe-inline' https://unpkg.com",
		"connect-src 'self' http://203.0.113.7:80",
		"frame-ancestors 'none'",
	} {
		if !strings.Contains(csp, fragment) {
			t.Errorf("CSP %q is missing %q", csp, fragment)
		}
	}
}
