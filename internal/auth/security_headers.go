package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// swaggerAssetsOrigin serves the Swagger UI bundle used by /apidocs.
const swaggerAssetsOrigin = "https://unpkg.com"

// SecurityHeadersMiddleware adds security headers to all responses.
// connectOrigins extends connect-src so Swagger UI can call the API through
// the advertised docs host.
func SecurityHeadersMiddleware(connectOrigins ...string) gin.HandlerFunc {
	connectSrc := strings.Join(append([]string{"'self'"}, connectOrigins...), " ")

	csp := "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' " + swaggerAssetsOrigin + "; " +
		"style-src 'self' 'unsafe-inline' " + swaggerAssetsOrigin + "; " +
		"img-src 'self' data: https:; " +
		"font-src 'self' data:; " +
		"connect-src " + connectSrc + "; " +
		"frame-ancestors 'none'"

	return func(c *gin.Context) {
		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", csp)

		c.Next()
	}
}
