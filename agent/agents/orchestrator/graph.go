package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/Chative-Booking-Engine/agent/nodes"
)

// compileCompletionGraph wires the steps that run once a session has every
// slot: fulfillment, teardown, bookkeeping and the user-facing message.
func (o *Orchestrator) compileCompletionGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_completion",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateCompletion(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_completion: %w", err)
	}

	if err := graph.AddLambdaNode("fulfill",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Fulfill(ctx, in, o.fulfiller, o.fulfillmentTimeout)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node fulfill: %w", err)
	}

	if err := graph.AddLambdaNode("release_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ReleaseSession(in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node release_session: %w", err)
	}

	if err := graph.AddLambdaNode("record_booking",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RecordBooking(in, o.ledger)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_booking: %w", err)
	}

	if err := graph.AddLambdaNode("compose_message",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ComposeMessage(in, o.composer)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compose_message: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_completion"},
		{"validate_completion", "fulfill"},
		{"fulfill", "release_session"},
		{"release_session", "record_booking"},
		{"record_booking", "compose_message"},
		{"compose_message", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.complete_booking"))
	if err != nil {
		return nil, fmt.Errorf("compile completion graph: %w", err)
	}
	return runner, nil
}
