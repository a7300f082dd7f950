package contract

import "context"

// Fulfiller turns a completed slot set into a result. It reports every
// failure inside the result and never returns an error.
type Fulfiller interface {
	Fulfill(ctx context.Context, serviceType ServiceType, answers Answers) FulfillmentResult
}

type Composer interface {
	Compose(serviceType ServiceType, result FulfillmentResult) string
}

type SlotRegistry interface {
	DefinitionsFor(serviceType ServiceType) ([]SlotDefinition, error)
}
