package orchestratornode

import (
	"github.com/rs/zerolog/log"
	statex "github.com/tanpawarit/Chative-Booking-Engine/agent/state"
)

// ReleaseSession tears the session down. A session that was cancelled
// meanwhile marks the state as discarded.
func ReleaseSession(in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, ErrNilGraphState
	}
	if !store.Release(in.Session) {
		in.Discarded = true
		log.Info().
			Str("session_id", in.Session.ID()).
			Str("service", string(in.ServiceType)).
			Bool("success", in.Result.Success).
			Msg("session cancelled during fulfillment, result discarded")
	}
	return in, nil
}
