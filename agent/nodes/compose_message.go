package orchestratornode

import (
	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
)

func ComposeMessage(in *GraphState, composer contractx.Composer) (*GraphState, error) {
	if in == nil {
		return nil, ErrNilGraphState
	}
	if in.Discarded {
		return in, nil
	}
	in.Message = composer.Compose(in.ServiceType, in.Result)
	return in, nil
}
