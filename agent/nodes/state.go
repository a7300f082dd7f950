package orchestratornode

import (
	"errors"
	"time"

	bookingx "github.com/tanpawarit/Chative-Booking-Engine/agent/booking"
	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
	statex "github.com/tanpawarit/Chative-Booking-Engine/agent/state"
)

var (
	ErrNilGraphState = errors.New("graph state is nil")
	ErrNoSession     = errors.New("completed session is missing")
)

// GraphInput is a session that just received its last answer.
type GraphInput struct {
	Session     *statex.Session
	ServiceType contractx.ServiceType
	Answers     contractx.Answers
}

type GraphOutput struct {
	Message   string
	Result    contractx.FulfillmentResult
	BookingID string
	// Started is when the completion pipeline began.
	Started time.Time
	// Discarded is set when the session was cancelled while fulfillment ran.
	Discarded bool
}

type GraphState struct {
	Session     *statex.Session
	ServiceType contractx.ServiceType
	Answers     contractx.Answers
	Started     time.Time

	Result    contractx.FulfillmentResult
	Discarded bool
	Booking   *bookingx.Record
	Message   string
}
