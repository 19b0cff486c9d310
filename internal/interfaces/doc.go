// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Book persistence used by the books controller (internal/http/stores.go)
//   - HealthChecker: Database ping for /health (internal/http/stores.go)
//
// ## Audit Interfaces
//
//   - BookAuditor: Records catalog mutations (internal/http/stores.go)
//   - FailureRecorder: Records rejected API keys (internal/auth/middleware.go)
//   - AuditEventCleaner: Prunes old audit events (internal/tasks/cleanup_audit.go)
//
// ## Background Work Interfaces
//
//   - TaskEnqueuer: Persists tasks for the workers (internal/scheduler/audit_cleanup.go)
//
// ## External Service Interfaces
//
//   - Lookuper: Public IP discovery for the docs host (internal/publicip/publicip.go)
//
// # Adding a New Resource
//
//  1. Add the gorm model to internal/entities and to AutoMigrate in
//     internal/database/database.go
//
//  2. Create sub-package internal/database/<resource>/ with a Repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the store interface next to its controller in internal/http and
//     register the routes on the /api group in router.go
//
//  4. Add the operations to internal/openapi
//
//  5. Add a compile-time check to checks.go:
//
//     var _ http.AuthorStore = (*authors.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
