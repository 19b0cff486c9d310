package audit

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

const (
	asyncWriteTimeout = 5 * time.Second
	maxColumnLen      = 500

	// One rejection row per client IP per authFailureWindow.
	authFailureWindow = time.Minute
	// Tracked IPs before idle ones are pruned.
	authFailureMaxTracked = 4096
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup

	mu           sync.Mutex
	authFailures map[string]*failureRecord
	now          func() time.Time
}

type failureRecord struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{
		repo:         repo,
		authFailures: make(map[string]*failureRecord),
		now:          time.Now,
	}
}

// RecentEvents lists events newer than since, most recent first. An empty
// eventType matches every type.
func (s *Service) RecentEvents(ctx context.Context, since time.Time, eventType entities.AuditEventType) ([]entities.AuditEvent, error) {
	return s.repo.GetRecentEvents(ctx, since, eventType)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), asyncWriteTimeout)
		defer cancel()
		if err := s.repo.LogEvent(ctx, event); err != nil {
			log.Error().Err(err).Str("action", event.Action).Msg("failed to log audit event")
		}
	}()
}

// Wait blocks until every pending async write has finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogBookChange records a create, update or delete of a catalog book.
func (s *Service) LogBookChange(eventType entities.AuditEventType, bookID uint, title string, err error) {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      "book_" + string(eventType),
		Description: truncate(fmt.Sprintf("%s book: %s", verbs[eventType], title), maxColumnLen),
		EntityType:  "book",
		Status:      entities.AuditStatusSuccess,
	}
	if bookID != 0 {
		event.EntityID = &bookID
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxColumnLen)
	}

	s.LogAsync(event)
}

// LogAuthFailure records a request rejected for a missing or wrong API key.
// Repeated rejections from one IP are recorded once per minute.
func (s *Service) LogAuthFailure(ipAddr, userAgent string) {
	if !s.allowAuthFailure(ipAddr) {
		return
	}

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventAuth,
		Action:      "api_key_rejected",
		Description: "Rejected request with invalid API key",
		IPAddress:   ipAddr,
		UserAgent:   truncate(userAgent, maxColumnLen),
		Status:      entities.AuditStatusFailed,
	}

	s.LogAsync(event)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

var verbs = map[entities.AuditEventType]string{
	entities.AuditEventCreate: "Created",
	entities.AuditEventUpdate: "Updated",
	entities.AuditEventDelete: "Deleted",
}

func (s *Service) allowAuthFailure(ipAddr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	record, ok := s.authFailures[ipAddr]
	if !ok {
		if len(s.authFailures) >= authFailureMaxTracked {
			s.pruneAuthFailures(now)
		}
		record = &failureRecord{limiter: rate.NewLimiter(rate.Every(authFailureWindow), 1)}
		s.authFailures[ipAddr] = record
	}
	record.lastSeen = now
	return record.limiter.AllowN(now, 1)
}

// pruneAuthFailures drops IPs idle for a full window. Caller holds s.mu.
func (s *Service) pruneAuthFailures(now time.Time) {
	for ip, record := range s.authFailures {
		if now.Sub(record.lastSeen) >= authFailureWindow {
			delete(s.authFailures, ip)
		}
	}
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
