package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowOrigin  = "*"
	corsAllowHeaders = "Content-Type, Authorization, X-API-Key"
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
)

func setCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", corsAllowOrigin)
	c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
	c.Header("Access-Control-Allow-Methods", corsAllowMethods)
}

// CORSMiddleware adds the CORS headers to every response.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		setCORSHeaders(c)
		c.Next()
	}
}

// PreflightMiddleware answers every OPTIONS request with 204 and an empty
// body. Register it globally so it also runs for unmatched paths.
func PreflightMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}
		setCORSHeaders(c)
		c.AbortWithStatus(http.StatusNoContent)
	}
}
