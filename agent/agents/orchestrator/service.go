package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	bookingx "github.com/tanpawarit/Chative-Booking-Engine/agent/booking"
	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
	nodex "github.com/tanpawarit/Chative-Booking-Engine/agent/nodes"
	slotx "github.com/tanpawarit/Chative-Booking-Engine/agent/slot"
	statex "github.com/tanpawarit/Chative-Booking-Engine/agent/state"
)

type Config struct {
	// FulfillmentTimeout bounds a single fulfillment call. Zero means no
	// deadline beyond the caller's context.
	FulfillmentTimeout time.Duration
}

type OutcomeKind string

const (
	OutcomeNextPrompt       OutcomeKind = "next_prompt"
	OutcomeCompleted        OutcomeKind = "completed"
	OutcomeValidationFailed OutcomeKind = "validation_failed"
	OutcomeCancelled        OutcomeKind = "cancelled"
)

type StartResult struct {
	SessionID   string                `json:"session_id"`
	ServiceType contractx.ServiceType `json:"service_type"`
	Prompt      string                `json:"prompt"`
	Progress    string                `json:"progress"`
}

// AnswerResult is one of four shapes selected by Kind:
//   - next_prompt: Prompt, Progress
//   - validation_failed: ValidationError, Prompt (the unchanged question), Progress
//   - completed: Message, Success, Reference, BookingID
//   - cancelled: nothing else; the session was cancelled during fulfillment
type AnswerResult struct {
	Kind            OutcomeKind `json:"kind"`
	Prompt          string      `json:"prompt,omitempty"`
	Progress        string      `json:"progress,omitempty"`
	ValidationError string      `json:"validation_error,omitempty"`
	Message         string      `json:"message,omitempty"`
	Success         bool        `json:"success,omitempty"`
	Reference       string      `json:"booking_reference,omitempty"`
	BookingID       string      `json:"booking_id,omitempty"`
}

type Orchestrator struct {
	store     statex.Store
	fulfiller contractx.Fulfiller
	composer  contractx.Composer
	ledger    bookingx.Ledger

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	fulfillmentTimeout time.Duration

	now   func() time.Time
	newID func() string
}

func New(
	store statex.Store,
	fulfiller contractx.Fulfiller,
	composer contractx.Composer,
	ledger bookingx.Ledger,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if fulfiller == nil {
		return nil, errors.New("fulfiller is required")
	}
	if composer == nil {
		return nil, errors.New("message composer is required")
	}
	if ledger == nil {
		ledger = bookingx.NewMemoryLedger()
	}

	o := &Orchestrator{
		store:              store,
		fulfiller:          fulfiller,
		composer:           composer,
		ledger:             ledger,
		fulfillmentTimeout: cfg.FulfillmentTimeout,
		now:                time.Now,
		newID:              func() string { return uuid.New().String() },
	}

	graphRunner, err := o.compileCompletionGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// StartBooking opens a session. A blank sessionID gets a generated one.
func (o *Orchestrator) StartBooking(sessionID string, serviceLabel string) (StartResult, error) {
	serviceType, err := contractx.ParseServiceType(serviceLabel)
	if err != nil {
		return StartResult{}, err
	}

	id := strings.TrimSpace(sessionID)
	if id == "" {
		id = o.newID()
	}

	prompt, err := o.store.Start(id, serviceType)
	if err != nil {
		return StartResult{}, err
	}

	st := o.store.Status(id)
	log.Info().Str("session_id", id).Str("service", string(serviceType)).Msg("booking session started")
	return StartResult{
		SessionID:   id,
		ServiceType: serviceType,
		Prompt:      prompt,
		Progress:    st.Progress,
	}, nil
}

// SubmitAnswer feeds one raw answer to the session. Validation failures are
// an outcome, not an error; lookup failures (unknown, completed or blank
// id) are returned as errors.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, sessionID string, raw string) (AnswerResult, error) {
	out, err := o.store.Answer(sessionID, raw)
	if err != nil {
		var vErr *contractx.ValidationError
		if errors.As(err, &vErr) {
			return AnswerResult{
				Kind:            OutcomeValidationFailed,
				ValidationError: vErr.Reason,
				Prompt:          out.Prompt,
				Progress:        out.Progress,
			}, nil
		}
		return AnswerResult{}, err
	}

	if !out.Completed {
		return AnswerResult{
			Kind:     OutcomeNextPrompt,
			Prompt:   out.Prompt,
			Progress: out.Progress,
		}, nil
	}

	final, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		Session:     out.Session,
		ServiceType: out.ServiceType,
		Answers:     out.Answers,
	})
	if err != nil {
		// The pipeline itself broke; still tear down and answer the user.
		o.store.Release(out.Session)
		log.Error().Err(err).Str("session_id", out.Session.ID()).Msg("completion pipeline failed")
		failed := contractx.FailedResult("%v", err)
		return AnswerResult{
			Kind:    OutcomeCompleted,
			Message: o.composer.Compose(out.ServiceType, failed),
		}, nil
	}

	if final.Discarded {
		return AnswerResult{Kind: OutcomeCancelled}, nil
	}

	log.Info().
		Str("session_id", out.Session.ID()).
		Str("service", string(out.ServiceType)).
		Bool("success", final.Result.Success).
		Str("reference", final.Result.Reference).
		Dur("elapsed", o.now().Sub(final.Started)).
		Msg("booking session completed")
	return AnswerResult{
		Kind:      OutcomeCompleted,
		Message:   final.Message,
		Success:   final.Result.Success,
		Reference: final.Result.Reference,
		BookingID: final.BookingID,
	}, nil
}

// GetStatus never fails; unknown ids report Exists=false.
func (o *Orchestrator) GetStatus(sessionID string) statex.Status {
	return o.store.Status(sessionID)
}

// Cancel ends the session immediately, aborting any in-flight fulfillment.
func (o *Orchestrator) Cancel(sessionID string) {
	o.store.End(sessionID)
	log.Info().Str("session_id", sessionID).Msg("booking session cancelled")
}

func (o *Orchestrator) Services() []contractx.ServiceType {
	return slotx.Services()
}

func (o *Orchestrator) Bookings() []bookingx.Record {
	return o.ledger.List()
}

func (o *Orchestrator) Booking(id string) (bookingx.Record, error) {
	return o.ledger.Get(id)
}

func (o *Orchestrator) ConfirmBooking(id string) (bookingx.Record, error) {
	rec, err := o.ledger.Confirm(id)
	if err != nil {
		return bookingx.Record{}, err
	}
	log.Info().Str("booking_id", rec.ID).Str("reference", rec.Reference).Msg("booking confirmed")
	return rec, nil
}

func (o *Orchestrator) CancelBooking(id string) (bookingx.Record, error) {
	rec, err := o.ledger.Cancel(id)
	if err != nil {
		return bookingx.Record{}, err
	}
	log.Info().Str("booking_id", rec.ID).Str("reference", rec.Reference).Msg("booking cancelled")
	return rec, nil
}
