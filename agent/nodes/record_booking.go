package orchestratornode

import (
	"github.com/rs/zerolog/log"
	bookingx "github.com/tanpawarit/Chative-Booking-Engine/agent/booking"
)

func RecordBooking(in *GraphState, ledger bookingx.Ledger) (*GraphState, error) {
	if in == nil {
		return nil, ErrNilGraphState
	}
	if in.Discarded || !in.Result.Success || ledger == nil {
		return in, nil
	}

	rec, err := ledger.Create(in.Session.ID(), in.ServiceType, in.Result.Reference, in.Answers)
	if err != nil {
		// The user still gets the offer; only bookkeeping is lost.
		log.Warn().Err(err).Str("session_id", in.Session.ID()).Msg("record booking failed")
		return in, nil
	}
	in.Booking = &rec
	return in, nil
}
