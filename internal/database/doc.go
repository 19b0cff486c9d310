// Package database opens the catalog's gorm connection and hosts its
// domain-specific repositories.
//
//	database/
//	├── database.go   # URI parsing, connection setup, migrations, health ping
//	├── books/        # Book CRUD with isbn uniqueness
//	└── audit/        # Audit event persistence and retention
//
// The connection is chosen by a scheme-prefixed URI so the same value can
// point at a local SQLite file or a PostgreSQL server:
//
//	db, err := database.NewDatabase("sqlite:///library.db", logger.Warn)
//	booksRepo := books.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
package database
