// Package validate holds the payload checks applied to book writes before
// they reach the repository. Every function here is pure.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/library/internal/entities"
)

var (
	ErrMissingField  = errors.New("missing field")
	ErrInvalidFormat = errors.New("invalid format")
)

const (
	isbnFormatMessage = "Invalid ISBN format. ISBN must be 13 digits."
	dateFormatMessage = "Invalid date format for publish_date. Use YYYY-MM-DD."
)

var isbnPattern = regexp.MustCompile(`^\d{13}$`)

// Error describes the first failing field of a payload.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func missingField(field string) *Error {
	return &Error{Kind: ErrMissingField, Field: field, Message: "Missing field: " + field}
}

func invalidFormat(field, message string) *Error {
	return &Error{Kind: ErrInvalidFormat, Field: field, Message: message}
}

// Payload is the client-supplied body of a book write. A nil field was either
// absent or explicitly null.
type Payload struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	ISBN        *string `json:"isbn"`
	PublishDate *string `json:"publish_date"`
}

// ISBN fails with ErrInvalidFormat unless isbn is exactly 13 ASCII digits.
func ISBN(isbn string) error {
	if err := validation.Validate(isbn, validation.Required, validation.Match(isbnPattern)); err != nil {
		return invalidFormat("isbn", isbnFormatMessage)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD publish date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(entities.DateLayout, s)
	if err != nil {
		return time.Time{}, invalidFormat("publish_date", dateFormatMessage)
	}
	return t, nil
}

// BookPayload checks a book draft. Fields are checked in a fixed order and
// the first failure is returned: presence of title, author, isbn and
// publish_date, then the isbn format, then the date format.
func BookPayload(p Payload) error {
	required := []struct {
		name  string
		value *string
	}{
		{"title", p.Title},
		{"author", p.Author},
		{"isbn", p.ISBN},
		{"publish_date", p.PublishDate},
	}
	for _, f := range required {
		if err := present(f.name, f.value); err != nil {
			return err
		}
	}

	if err := ISBN(*p.ISBN); err != nil {
		return err
	}
	return dateFormat(*p.PublishDate)
}

// PartialPayload checks only the fields supplied in an update.
func PartialPayload(p Payload) error {
	if p.ISBN != nil {
		if err := ISBN(*p.ISBN); err != nil {
			return err
		}
	}
	if p.Title != nil {
		if err := present("title", p.Title); err != nil {
			return err
		}
	}
	if p.Author != nil {
		if err := present("author", p.Author); err != nil {
			return err
		}
	}
	if p.PublishDate != nil {
		return dateFormat(*p.PublishDate)
	}
	return nil
}

func present(field string, value *string) error {
	var v string
	if value != nil {
		v = strings.TrimSpace(*value)
	}
	if err := validation.Validate(v, validation.Required); err != nil {
		return missingField(field)
	}
	return nil
}

func dateFormat(s string) error {
	if err := validation.Validate(s, validation.Required, validation.Date(entities.DateLayout)); err != nil {
		return invalidFormat("publish_date", dateFormatMessage)
	}
	return nil
}
