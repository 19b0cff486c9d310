package http

import (
	"context"

	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
)

// BookStore provides persistence for the books resource.
type BookStore interface {
	ListAll(ctx context.Context) ([]entities.Book, error)
	GetByID(ctx context.Context, id uint) (*entities.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*entities.Book, error)
	Insert(ctx context.Context, book *entities.Book) error
	Update(ctx context.Context, id uint, changes books.Changes) (*entities.Book, error)
	Delete(ctx context.Context, id uint) error
}

// BookAuditor records catalog mutations.
type BookAuditor interface {
	LogBookChange(eventType entities.AuditEventType, bookID uint, title string, err error)
}

// HealthChecker reports whether the database answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
