package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/taskdesk/pkg/domain"
	"github.com/google/uuid"
)

// AuditService appends hash-chained events for assistant calls.
type AuditService struct {
	repo domain.AuditRepository
	mu   sync.Mutex
	now  func() time.Time
}

// Compile-time check that AuditService implements AuditLogger
var _ domain.AuditLogger = (*AuditService)(nil)

func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

func (s *AuditService) Log(action string, actor string, metadata map[string]interface{}) error {
	// Concurrent requests share one chain; read-then-append must not interleave.
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.repo.LoadEvents()
	if err != nil {
		return fmt.Errorf("load audit trail: %w", err)
	}
	prevHash := ""
	if len(events) > 0 {
		prevHash = events[len(events)-1].Hash
	}

	event := domain.Event{
		ID:        uuid.New().String(),
		Timestamp: s.now(),
		Action:    action,
		Actor:     actor,
		Metadata:  metadata,
		PrevHash:  prevHash,
	}
	event.Hash = event.CalculateHash()

	return s.repo.RecordEvent(event)
}

func (s *AuditService) GetTimeline() ([]domain.Event, error) {
	return s.repo.LoadEvents()
}

func (s *AuditService) VerifyIntegrity() ([]string, error) {
	events, err := s.repo.LoadEvents()
	if err != nil {
		return nil, err
	}

	var violations []string
	lastHash := ""

	for i, e := range events {
		if e.PrevHash != lastHash {
			violations = append(violations, fmt.Sprintf("Event %d (%s): PrevHash mismatch. Audit trail broken.", i, e.ID))
		}

		if e.Hash != e.CalculateHash() {
			violations = append(violations, fmt.Sprintf("Event %d (%s): Content hash mismatch. Possible tampering.", i, e.ID))
		}

		lastHash = e.Hash
	}

	return violations, nil
}

// Summarize aggregates call counts and token usage over the trail.
func (s *AuditService) Summarize() (domain.UsageStats, error) {
	events, err := s.repo.LoadEvents()
	if err != nil {
		return domain.UsageStats{}, err
	}

	stats := domain.UsageStats{ByAction: make(map[string]int)}
	for _, e := range events {
		stats.TotalCalls++
		stats.ByAction[e.Action]++
		switch e.Actor {
		case ActorOracle:
			stats.OracleCalls++
		case ActorFallback:
			stats.FallbackCalls++
		}
		stats.InputTokens += metadataInt(e.Metadata, "input_tokens")
		stats.OutputTokens += metadataInt(e.Metadata, "output_tokens")
		if e.Timestamp.After(stats.LastCallAt) {
			stats.LastCallAt = e.Timestamp
		}
	}
	return stats, nil
}

// metadataInt reads a numeric metadata value. JSON round-trips turn ints into float64.
func metadataInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
