package state

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
)

// Session is one slot-filling conversation. Fields behind mu are only
// touched by MemoryStore; callers read through Snapshot.
// Invariant: len(answers) == nextIndex, complete iff nextIndex == len(slots).
type Session struct {
	id          string
	serviceType contractx.ServiceType
	slots       []contractx.SlotDefinition
	createdAt   time.Time

	mu        sync.Mutex
	answers   contractx.Answers
	nextIndex int
	complete  bool
	touchedAt time.Time

	ended  atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc
}

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	ID          string                `json:"id"`
	ServiceType contractx.ServiceType `json:"service_type"`
	Answers     contractx.Answers     `json:"answers"`
	NextIndex   int                   `json:"next_index"`
	Total       int                   `json:"total"`
	IsComplete  bool                  `json:"is_complete"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func (s Snapshot) Progress() string {
	return progress(s.NextIndex, s.Total)
}

func newSession(id string, serviceType contractx.ServiceType, slots []contractx.SlotDefinition, now time.Time) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:          id,
		serviceType: serviceType,
		slots:       slots,
		createdAt:   now.UTC(),
		touchedAt:   now.UTC(),
		answers:     make(contractx.Answers, 0, len(slots)),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) ServiceType() contractx.ServiceType {
	return s.serviceType
}

// Context is cancelled as soon as the session leaves the store.
func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Ended() bool {
	return s.ended.Load()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:          s.id,
		ServiceType: s.serviceType,
		Answers:     append(contractx.Answers(nil), s.answers...),
		NextIndex:   s.nextIndex,
		Total:       len(s.slots),
		IsComplete:  s.complete,
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.touchedAt,
	}
}

func (s *Session) currentSlotLocked() (contractx.SlotDefinition, error) {
	if s.complete || s.nextIndex >= len(s.slots) {
		return contractx.SlotDefinition{}, fmt.Errorf("%w: %s", contractx.ErrSessionComplete, s.id)
	}
	return s.slots[s.nextIndex], nil
}

func (s *Session) recordLocked(key, value string, now time.Time) {
	s.answers = append(s.answers, contractx.Answer{Key: key, Value: value})
	s.nextIndex++
	s.touchedAt = now.UTC()
	if s.nextIndex == len(s.slots) {
		s.complete = true
	}
}

// end is idempotent and does not take mu.
func (s *Session) end() {
	if s.ended.CompareAndSwap(false, true) {
		s.cancel()
	}
}

// expired reports whether the session sat idle longer than ttl. Completed
// sessions never expire; their fulfillment owns the teardown.
func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.complete && now.Sub(s.touchedAt) > ttl
}

func progress(answered, total int) string {
	return fmt.Sprintf("%d/%d", answered, total)
}
