package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// APIKeyHeader is the request header carrying the shared secret.
const APIKeyHeader = "X-API-Key"

// FailureRecorder is notified about every rejected request.
type FailureRecorder interface {
	LogAuthFailure(ipAddr, userAgent string)
}

// ValidKey reports whether provided matches secret. Empty keys never match.
func ValidKey(provided, secret string) bool {
	if provided == "" || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
}

// APIKeyMiddleware aborts with 401 unless the request carries the configured
// key. recorder may be nil.
func APIKeyMiddleware(secret string, recorder FailureRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ValidKey(c.GetHeader(APIKeyHeader), secret) {
			c.Next()
			return
		}

		log.Warn().
			Str("request_id", c.GetString("request_id")).
			Str("ip", c.ClientIP()).
			Str("path", c.Request.URL.Path).
			Msg("rejected request with invalid API key")

		if recorder != nil {
			recorder.LogAuthFailure(c.ClientIP(), c.Request.UserAgent())
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid API key",
		})
	}
}
