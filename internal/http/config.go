package http

import "github.com/mrlokans/library/internal/auth"

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	BookStore     BookStore
	Auditor       BookAuditor
	HealthChecker HealthChecker

	// Authentication
	APIKey       string
	AuthFailures auth.FailureRecorder

	// Optional per-client limiter, nil disables it
	RateLimiter *auth.RateLimiter

	// Documentation
	OpenAPIDoc     []byte
	ConnectOrigins []string

	// Application info
	Version string
}
