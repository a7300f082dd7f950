package booking

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Record is created only after a successful fulfillment. Only Status and
// UpdatedAt ever change, and only away from PENDING.
type Record struct {
	ID          string                `json:"id"`
	SessionID   string                `json:"session_id"`
	ServiceType contractx.ServiceType `json:"service_type"`
	Status      Status                `json:"status"`
	Details     map[string]string     `json:"details"`
	Reference   string                `json:"booking_reference"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

type Ledger interface {
	Create(sessionID string, serviceType contractx.ServiceType, reference string, answers contractx.Answers) (Record, error)
	Get(id string) (Record, error)
	List() []Record
	Confirm(id string) (Record, error)
	Cancel(id string) (Record, error)
}

var _ Ledger = (*MemoryLedger)(nil)

// MemoryLedger keeps bookings for the life of the process.
type MemoryLedger struct {
	records *xsync.MapOf[string, Record]
	now     func() time.Time
	newID   func() string
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		records: xsync.NewMapOf[string, Record](),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

func (l *MemoryLedger) Create(sessionID string, serviceType contractx.ServiceType, reference string, answers contractx.Answers) (Record, error) {
	if !serviceType.Valid() {
		return Record{}, fmt.Errorf("%w: %q", contractx.ErrUnknownServiceType, serviceType)
	}
	if strings.TrimSpace(reference) == "" {
		return Record{}, fmt.Errorf("%w: booking reference is empty", contractx.ErrFulfillment)
	}
	now := l.now().UTC()
	rec := Record{
		ID:          l.newID(),
		SessionID:   sessionID,
		ServiceType: serviceType,
		Status:      StatusPending,
		Details:     answers.Map(),
		Reference:   reference,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	l.records.Store(rec.ID, rec)
	return cloneRecord(rec), nil
}

func (l *MemoryLedger) Get(id string) (Record, error) {
	rec, ok := l.records.Load(strings.TrimSpace(id))
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", contractx.ErrBookingNotFound, id)
	}
	return cloneRecord(rec), nil
}

// List returns bookings oldest first.
func (l *MemoryLedger) List() []Record {
	out := make([]Record, 0, l.records.Size())
	l.records.Range(func(_ string, rec Record) bool {
		out = append(out, cloneRecord(rec))
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (l *MemoryLedger) Confirm(id string) (Record, error) {
	return l.transition(id, StatusConfirmed)
}

func (l *MemoryLedger) Cancel(id string) (Record, error) {
	return l.transition(id, StatusCancelled)
}

func (l *MemoryLedger) transition(id string, to Status) (Record, error) {
	id = strings.TrimSpace(id)
	var (
		out Record
		err error
	)
	l.records.Compute(id, func(rec Record, loaded bool) (Record, bool) {
		if !loaded {
			err = fmt.Errorf("%w: %s", contractx.ErrBookingNotFound, id)
			return rec, true
		}
		if rec.Status != StatusPending {
			err = fmt.Errorf("%w: %s -> %s", contractx.ErrInvalidTransition, rec.Status, to)
			return rec, false
		}
		rec.Status = to
		rec.UpdatedAt = l.now().UTC()
		out = rec
		return rec, false
	})
	if err != nil {
		return Record{}, err
	}
	return cloneRecord(out), nil
}

func cloneRecord(rec Record) Record {
	details := make(map[string]string, len(rec.Details))
	for k, v := range rec.Details {
		details[k] = v
	}
	rec.Details = details
	return rec
}
