package orchestratornode

import (
	"fmt"
	"time"

	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
)

func ValidateCompletion(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	if in.Session == nil {
		return nil, ErrNoSession
	}
	if !in.ServiceType.Valid() {
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnknownServiceType, in.ServiceType)
	}
	if len(in.Answers) == 0 {
		return nil, fmt.Errorf("%w: session %s has no answers", contractx.ErrSessionNotFound, in.Session.ID())
	}
	return &GraphState{
		Session:     in.Session,
		ServiceType: in.ServiceType,
		Answers:     in.Answers,
		Started:     nowFn().UTC(),
	}, nil
}
