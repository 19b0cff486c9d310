// Package auth guards the catalog API.
//
// Every /api request must carry the shared secret in the X-API-Key header:
//
//	API_KEY=change-me
//	curl -H "X-API-Key: change-me" http://localhost/api/books
//
// CORS pre-flight (OPTIONS) requests are answered before the key is checked,
// so browsers can negotiate from any origin.
//
// # Usage
//
//	router.Use(auth.PreflightMiddleware(), auth.CORSMiddleware())
//	api := router.Group("/api", auth.APIKeyMiddleware(cfg.APIKey, auditService))
package auth
