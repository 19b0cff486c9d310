package audit

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo)

	return svc, db
}

func TestService_RecentEvents(t *testing.T) {
	svc, db := setupTestService(t)

	events := []*entities.AuditEvent{
		{EventType: entities.AuditEventCreate, Action: "book_create", Status: entities.AuditStatusSuccess, CreatedAt: time.Now().Add(-2 * time.Hour)},
		{EventType: entities.AuditEventAuth, Action: "api_key_rejected", Status: entities.AuditStatusFailed, CreatedAt: time.Now().Add(-time.Hour)},
		{EventType: entities.AuditEventDelete, Action: "book_delete", Status: entities.AuditStatusSuccess, CreatedAt: time.Now().Add(-72 * time.Hour)},
	}
	for _, event := range events {
		require.NoError(t, db.Create(event).Error)
	}

	since := time.Now().Add(-24 * time.Hour)

	all, err := svc.RecentEvents(context.Background(), since, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "api_key_rejected", all[0].Action)
	assert.Equal(t, "book_create", all[1].Action)

	auth, err := svc.RecentEvents(context.Background(), since, entities.AuditEventAuth)
	require.NoError(t, err)
	require.Len(t, auth, 1)
	assert.Equal(t, "api_key_rejected", auth[0].Action)
}

func TestService_LogBookChange(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful create", func(t *testing.T) {
		svc.LogBookChange(entities.AuditEventCreate, 42, "The Great Gatsby", nil)
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ?", "book_create").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "Created book: The Great Gatsby", event.Description)
		assert.Equal(t, "book", event.EntityType)
		require.NotNil(t, event.EntityID)
		assert.Equal(t, uint(42), *event.EntityID)
	})

	t.Run("failed update", func(t *testing.T) {
		svc.LogBookChange(entities.AuditEventUpdate, 7, "Ulysses", errors.New("disk I/O error"))
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ?", "book_update").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Contains(t, event.ErrorMsg, "disk I/O error")
	})

	t.Run("long title keeps description within column", func(t *testing.T) {
		svc.LogBookChange(entities.AuditEventCreate, 43, strings.Repeat("t", 600), nil)
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("entity_id = ?", 43).First(&event).Error
		require.NoError(t, err)
		assert.Len(t, event.Description, 500)
		assert.True(t, strings.HasPrefix(event.Description, "Created book: ttt"))
	})

	t.Run("unknown id leaves entity empty", func(t *testing.T) {
		svc.LogBookChange(entities.AuditEventDelete, 0, "", errors.New("boom"))
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ?", "book_delete").First(&event).Error
		require.NoError(t, err)
		assert.Nil(t, event.EntityID)
	})
}

func TestService_LogAuthFailure(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogAuthFailure("10.0.0.1", strings.Repeat("a", 600))
	svc.Wait()

	var event entities.AuditEvent
	err := db.Where("action = ?", "api_key_rejected").First(&event).Error
	require.NoError(t, err)
	assert.Equal(t, entities.AuditEventAuth, event.EventType)
	assert.Equal(t, entities.AuditStatusFailed, event.Status)
	assert.Equal(t, "10.0.0.1", event.IPAddress)
	assert.Len(t, event.UserAgent, 500)
}

func TestService_LogAuthFailure_OncePerWindow(t *testing.T) {
	svc, db := setupTestService(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		svc.LogAuthFailure("10.0.0.1", "curl/8.0")
	}
	svc.LogAuthFailure("10.0.0.2", "curl/8.0")
	svc.Wait()

	var count int64
	require.NoError(t, db.Model(&entities.AuditEvent{}).Where("ip_address = ?", "10.0.0.1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&entities.AuditEvent{}).Where("ip_address = ?", "10.0.0.2").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	now = now.Add(authFailureWindow)
	svc.LogAuthFailure("10.0.0.1", "curl/8.0")
	svc.Wait()

	require.NoError(t, db.Model(&entities.AuditEvent{}).Where("ip_address = ?", "10.0.0.1").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestService_PruneAuthFailures(t *testing.T) {
	svc, _ := setupTestService(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	svc.authFailures["10.0.0.1"] = &failureRecord{lastSeen: now.Add(-2 * authFailureWindow)}
	svc.authFailures["10.0.0.2"] = &failureRecord{lastSeen: now}

	svc.pruneAuthFailures(now)

	assert.NotContains(t, svc.authFailures, "10.0.0.1")
	assert.Contains(t, svc.authFailures, "10.0.0.2")
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)

	oldEvent := &entities.AuditEvent{
		EventType: entities.AuditEventCreate,
		Action:    "old",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(oldEvent).Error)

	newEvent := &entities.AuditEvent{
		EventType: entities.AuditEventDelete,
		Action:    "new",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(newEvent).Error)

	// Delete events older than 24 hours
	deleted, err := svc.DeleteOldEvents(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.AuditEvent
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Action)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))

	// "é" is two bytes; a cut inside it backs up to the rune start
	cut := truncate("abcdefééé", 10)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "abcdef...", cut)
	assert.LessOrEqual(t, len(cut), 10)
}
