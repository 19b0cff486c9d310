package entities

import "time"

// DateLayout is the wire and storage format of Book.PublishDate.
const DateLayout = "2006-01-02"

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Author      string    `gorm:"not null" json:"author"`
	ISBN        string    `gorm:"size:13;not null;uniqueIndex" json:"isbn"`
	PublishDate time.Time `gorm:"type:date;not null" json:"publish_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}
