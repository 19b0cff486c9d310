package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// GetRecentEvents retrieves audit events since a specific time, most recent first.
// An empty eventType matches every type.
func (r *Repository) GetRecentEvents(ctx context.Context, since time.Time, eventType entities.AuditEventType) ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	query := r.db.WithContext(ctx).Where("created_at > ?", since).Order("created_at DESC")
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}
	err := query.Find(&events).Error
	return events, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
