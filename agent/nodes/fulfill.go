package orchestratornode

import (
	"context"
	"time"

	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
)

// Fulfill runs the fulfiller under a deadline that also fires when the
// session is ended.
func Fulfill(
	ctx context.Context,
	in *GraphState,
	fulfiller contractx.Fulfiller,
	timeout time.Duration,
) (*GraphState, error) {
	if in == nil {
		return nil, ErrNilGraphState
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
		defer cancelTimeout()
	}
	stop := context.AfterFunc(in.Session.Context(), cancel)
	defer stop()

	in.Result = fulfiller.Fulfill(runCtx, in.ServiceType, in.Answers)
	return in, nil
}
