// Package books provides database operations for the book catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByID(ctx, 123)
package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

var (
	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when another book already owns the isbn.
	ErrDuplicateISBN = errors.New("isbn already exists")
)

// Changes lists the fields of a partial update. Nil fields are left untouched.
type Changes struct {
	Title       *string
	Author      *string
	ISBN        *string
	PublishDate *time.Time
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every book ordered by id.
func (r *Repository) ListAll(ctx context.Context) ([]entities.Book, error) {
	books := make([]entities.Book, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// GetByID retrieves a book by its primary key.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book %d: %w", id, err)
	}
	return &book, nil
}

// FindByISBN returns the book with the given isbn, or nil when there is none.
func (r *Repository) FindByISBN(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find book by isbn: %w", err)
	}
	return &book, nil
}

// Insert persists a new book and fills in its id and timestamps.
func (r *Repository) Insert(ctx context.Context, book *entities.Book) error {
	err := r.db.WithContext(ctx).Create(book).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateISBN
	}
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

// Update applies changes to the book with the given id and returns the
// stored result.
func (r *Repository) Update(ctx context.Context, id uint, changes Changes) (*entities.Book, error) {
	var book entities.Book

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&book, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if changes.ISBN != nil && *changes.ISBN != book.ISBN {
			var count int64
			if err := tx.Model(&entities.Book{}).
				Where("isbn = ? AND id <> ?", *changes.ISBN, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateISBN
			}
			book.ISBN = *changes.ISBN
		}
		if changes.Title != nil {
			book.Title = *changes.Title
		}
		if changes.Author != nil {
			book.Author = *changes.Author
		}
		if changes.PublishDate != nil {
			book.PublishDate = *changes.PublishDate
		}

		return tx.Save(&book).Error
	})

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateISBN):
		return nil, err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, ErrDuplicateISBN
	case err != nil:
		return nil, fmt.Errorf("failed to update book %d: %w", id, err)
	}
	return &book, nil
}

// Delete removes the book with the given id.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
