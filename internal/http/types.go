package http

import (
	"time"

	"github.com/mrlokans/library/internal/entities"
)

// BookResponse is the JSON shape of a stored book.
type BookResponse struct {
	ID          uint      `json:"id" example:"1"`
	Title       string    `json:"title" example:"Unique Test Book"`
	Author      string    `json:"author" example:"Author Name"`
	ISBN        string    `json:"isbn" pattern:"^\\d{13}$" example:"9876543210987"`
	PublishDate string    `json:"publish_date" format:"date" example:"2024-01-01"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toBookResponse(book entities.Book) BookResponse {
	return BookResponse{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		PublishDate: book.PublishDate.Format(entities.DateLayout),
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}
}

func toBookResponses(list []entities.Book) []BookResponse {
	out := make([]BookResponse, 0, len(list))
	for _, book := range list {
		out = append(out, toBookResponse(book))
	}
	return out
}

// BookPathParams addresses a single book.
type BookPathParams struct {
	ID uint `path:"id" minimum:"1" description:"ID of the book"`
}

// CreateBookRequest documents the body of POST /books.
type CreateBookRequest struct {
	Title       string `json:"title" required:"true" description:"The title of the book"`
	Author      string `json:"author" required:"true" description:"The author of the book"`
	ISBN        string `json:"isbn" required:"true" pattern:"^\\d{13}$" description:"The ISBN of the book, exactly 13 digits"`
	PublishDate string `json:"publish_date" required:"true" format:"date" description:"The publication date in YYYY-MM-DD format"`
}

// UpdateBookRequest documents the body of PUT /books/{id}. Every field is optional.
type UpdateBookRequest struct {
	BookPathParams
	Title       *string `json:"title,omitempty" description:"The updated title of the book"`
	Author      *string `json:"author,omitempty" description:"The updated author of the book"`
	ISBN        *string `json:"isbn,omitempty" pattern:"^\\d{13}$" description:"The updated ISBN, exactly 13 digits"`
	PublishDate *string `json:"publish_date,omitempty" format:"date" description:"The updated publication date in YYYY-MM-DD format"`
}

// CreatedResponse is returned by POST /books.
type CreatedResponse struct {
	Message string `json:"message" example:"Book added successfully"`
	ID      uint   `json:"id" description:"ID of the newly created book"`
}
