package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, ErrNilGraphState
	}

	out := GraphOutput{
		Result:    in.Result,
		Started:   in.Started,
		Discarded: in.Discarded,
	}
	if in.Booking != nil {
		out.BookingID = in.Booking.ID
	}
	if in.Discarded {
		return out, nil
	}

	out.Message = strings.TrimSpace(in.Message)
	if out.Message == "" {
		return GraphOutput{}, fmt.Errorf("%w: composer returned empty message", contractx.ErrFulfillment)
	}
	return out, nil
}
