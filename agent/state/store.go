package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
	slotx "github.com/tanpawarit/Chative-Booking-Engine/agent/slot"
)

// Store owns the live sessions. Calls on different ids never block each
// other; calls on one id are serialized.
type Store interface {
	Start(sessionID string, serviceType contractx.ServiceType) (string, error)
	CurrentSlot(sessionID string) (contractx.SlotDefinition, error)
	Answer(sessionID string, raw string) (AnswerOutcome, error)
	Status(sessionID string) Status
	End(sessionID string)
	Release(s *Session) bool
}

// AnswerOutcome is returned by Answer. On a validation error Prompt still
// holds the unchanged current prompt.
type AnswerOutcome struct {
	Prompt    string
	Progress  string
	Completed bool
	// Set when Completed.
	Session     *Session
	ServiceType contractx.ServiceType
	Answers     contractx.Answers
}

type Status struct {
	Exists        bool                  `json:"exists"`
	ServiceType   contractx.ServiceType `json:"service_type,omitempty"`
	IsComplete    bool                  `json:"is_complete,omitempty"`
	Progress      string                `json:"progress,omitempty"`
	CurrentPrompt string                `json:"current_prompt,omitempty"`
}

// StoreOption customizes MemoryStore.
type StoreOption func(*MemoryStore)

// WithTTL expires sessions idle longer than ttl. Zero disables expiry.
func WithTTL(ttl time.Duration) StoreOption {
	return func(m *MemoryStore) {
		if ttl >= 0 {
			m.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) StoreOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

var _ Store = (*MemoryStore)(nil)

type MemoryStore struct {
	registry contractx.SlotRegistry
	sessions *xsync.MapOf[string, *Session]
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(registry contractx.SlotRegistry, opts ...StoreOption) *MemoryStore {
	if registry == nil {
		registry = slotx.NewRegistry()
	}
	m := &MemoryStore{
		registry: registry,
		sessions: xsync.NewMapOf[string, *Session](),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (m *MemoryStore) Start(sessionID string, serviceType contractx.ServiceType) (string, error) {
	id, err := normalizeID(sessionID)
	if err != nil {
		return "", err
	}
	defs, err := m.registry.DefinitionsFor(serviceType)
	if err != nil {
		return "", err
	}
	if len(defs) == 0 {
		return "", fmt.Errorf("%w: %q has no slots", contractx.ErrUnknownServiceType, serviceType)
	}

	// An expired session with the same id must not block a fresh start.
	m.lookup(id)

	sess := newSession(id, serviceType, defs, m.now())
	if _, loaded := m.sessions.LoadOrStore(id, sess); loaded {
		sess.end()
		return "", fmt.Errorf("%w: %s", contractx.ErrDuplicateSession, id)
	}
	return defs[0].Prompt, nil
}

func (m *MemoryStore) CurrentSlot(sessionID string) (contractx.SlotDefinition, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return contractx.SlotDefinition{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.Ended() {
		return contractx.SlotDefinition{}, fmt.Errorf("%w: %s", contractx.ErrSessionNotFound, sess.id)
	}
	return sess.currentSlotLocked()
}

func (m *MemoryStore) Answer(sessionID string, raw string) (AnswerOutcome, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return AnswerOutcome{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Ended() {
		return AnswerOutcome{}, fmt.Errorf("%w: %s", contractx.ErrSessionNotFound, sess.id)
	}
	def, err := sess.currentSlotLocked()
	if err != nil {
		return AnswerOutcome{}, err
	}

	value, err := slotx.Validate(def, raw)
	if err != nil {
		return AnswerOutcome{
			Prompt:   def.Prompt,
			Progress: progress(sess.nextIndex, len(sess.slots)),
		}, err
	}

	sess.recordLocked(def.Key, value, m.now())
	out := AnswerOutcome{
		Progress: progress(sess.nextIndex, len(sess.slots)),
	}
	if sess.complete {
		out.Completed = true
		out.Session = sess
		out.ServiceType = sess.serviceType
		out.Answers = append(contractx.Answers(nil), sess.answers...)
		return out, nil
	}
	out.Prompt = sess.slots[sess.nextIndex].Prompt
	return out, nil
}

// Status never fails; unknown ids report Exists=false.
func (m *MemoryStore) Status(sessionID string) Status {
	id, err := normalizeID(sessionID)
	if err != nil {
		return Status{}
	}
	sess, ok := m.lookup(id)
	if !ok {
		return Status{}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.Ended() {
		return Status{}
	}
	st := Status{
		Exists:      true,
		ServiceType: sess.serviceType,
		IsComplete:  sess.complete,
		Progress:    progress(sess.nextIndex, len(sess.slots)),
	}
	if !sess.complete {
		st.CurrentPrompt = sess.slots[sess.nextIndex].Prompt
	}
	return st
}

// End removes the session immediately, cancelling its context. Unknown ids
// are ignored.
func (m *MemoryStore) End(sessionID string) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return
	}
	if sess, ok := m.sessions.LoadAndDelete(id); ok {
		sess.end()
	}
}

// Release removes s only if it is still the live session for its id.
// It reports false when s was already ended or replaced.
func (m *MemoryStore) Release(s *Session) bool {
	if s == nil {
		return false
	}
	released := false
	m.sessions.Compute(s.id, func(old *Session, loaded bool) (*Session, bool) {
		if !loaded {
			return old, true
		}
		if old != s {
			return old, false
		}
		released = true
		return old, true
	})
	s.end()
	return released
}

func (m *MemoryStore) Len() int {
	return m.sessions.Size()
}

// Sweep drops every expired session and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	removed := 0
	now := m.now()
	m.sessions.Range(func(id string, sess *Session) bool {
		if sess.expired(now, m.ttl) && m.Release(sess) {
			removed++
		}
		return true
	})
	return removed
}

func (m *MemoryStore) get(sessionID string) (*Session, error) {
	id, err := normalizeID(sessionID)
	if err != nil {
		return nil, err
	}
	sess, ok := m.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", contractx.ErrSessionNotFound, id)
	}
	return sess, nil
}

// lookup performs lazy expiry.
func (m *MemoryStore) lookup(id string) (*Session, bool) {
	sess, ok := m.sessions.Load(id)
	if !ok {
		return nil, false
	}
	if m.ttl > 0 && sess.expired(m.now(), m.ttl) {
		m.Release(sess)
		return nil, false
	}
	return sess, true
}

func normalizeID(sessionID string) (string, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return "", contractx.ErrInvalidSession
	}
	return id, nil
}
