package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/validate"
)

const (
	bookResource       = "Book"
	invalidJSONMessage = "Invalid JSON payload"
	duplicateISBN      = "ISBN already exists. Please provide a unique ISBN."
)

type BooksController struct {
	store   BookStore
	auditor BookAuditor
}

// NewBooksController wires the books resource. auditor may be nil.
func NewBooksController(store BookStore, auditor BookAuditor) *BooksController {
	return &BooksController{
		store:   store,
		auditor: auditor,
	}
}

func (controller *BooksController) ListBooks(c *gin.Context) {
	list, err := controller.store.ListAll(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, toBookResponses(list))
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id", bookResource)
	if !ok {
		return
	}

	book, err := controller.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, books.ErrNotFound) {
		respondNotFound(c, bookResource)
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, toBookResponse(*book))
}

func (controller *BooksController) AddBook(c *gin.Context) {
	var payload validate.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, invalidJSONMessage)
		return
	}

	if err := validate.ISBN(deref(payload.ISBN)); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	existing, err := controller.store.FindByISBN(ctx, *payload.ISBN)
	if err != nil {
		respondInternalError(c, err, "find book by isbn")
		return
	}
	if existing != nil {
		respondConflict(c, duplicateISBN)
		return
	}

	if err := validate.BookPayload(payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	publishDate, err := validate.ParseDate(*payload.PublishDate)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book := &entities.Book{
		Title:       *payload.Title,
		Author:      *payload.Author,
		ISBN:        *payload.ISBN,
		PublishDate: publishDate,
	}
	if err := controller.store.Insert(ctx, book); err != nil {
		if errors.Is(err, books.ErrDuplicateISBN) {
			respondConflict(c, duplicateISBN)
			return
		}
		controller.audit(entities.AuditEventCreate, 0, book.Title, err)
		respondInternalError(c, err, "insert book")
		return
	}

	controller.audit(entities.AuditEventCreate, book.ID, book.Title, nil)
	respondCreated(c, CreatedResponse{Message: "Book added successfully", ID: book.ID})
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id", bookResource)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if _, err := controller.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, bookResource)
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	var payload validate.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, invalidJSONMessage)
		return
	}

	if err := validate.PartialPayload(payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	changes := books.Changes{
		Title:  payload.Title,
		Author: payload.Author,
		ISBN:   payload.ISBN,
	}
	if payload.PublishDate != nil {
		publishDate, err := validate.ParseDate(*payload.PublishDate)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		changes.PublishDate = &publishDate
	}

	book, err := controller.store.Update(ctx, id, changes)
	switch {
	case errors.Is(err, books.ErrNotFound):
		respondNotFound(c, bookResource)
		return
	case errors.Is(err, books.ErrDuplicateISBN):
		respondConflict(c, duplicateISBN)
		return
	case err != nil:
		controller.audit(entities.AuditEventUpdate, id, deref(payload.Title), err)
		respondInternalError(c, err, "update book")
		return
	}

	controller.audit(entities.AuditEventUpdate, book.ID, book.Title, nil)
	respondSuccess(c, "Book updated successfully")
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id", bookResource)
	if !ok {
		return
	}

	err := controller.store.Delete(c.Request.Context(), id)
	if errors.Is(err, books.ErrNotFound) {
		respondNotFound(c, bookResource)
		return
	}
	if err != nil {
		controller.audit(entities.AuditEventDelete, id, bookLabel(id), err)
		respondInternalError(c, err, "delete book")
		return
	}

	controller.audit(entities.AuditEventDelete, id, bookLabel(id), nil)
	c.Status(http.StatusNoContent)
}

func (controller *BooksController) audit(eventType entities.AuditEventType, id uint, title string, err error) {
	if controller.auditor == nil {
		return
	}
	controller.auditor.LogBookChange(eventType, id, strings.TrimSpace(title), err)
}

func bookLabel(id uint) string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
