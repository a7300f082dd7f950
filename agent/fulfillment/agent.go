package fulfillment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
)

const DefaultDelay = 500 * time.Millisecond

// Config is loaded with the ENGINE prefix.
type Config struct {
	FulfillmentDelay   time.Duration `split_words:"true" default:"500ms"`
	FulfillmentTimeout time.Duration `split_words:"true" default:"10s"`
}

type handler func(a *Agent, answers contractx.Answers) (any, error)

var _ contractx.Fulfiller = (*Agent)(nil)

// Agent simulates the external booking providers.
type Agent struct {
	catalog  Catalog
	delay    time.Duration
	now      func() time.Time
	handlers map[contractx.ServiceType]handler
}

type Option func(*Agent)

func WithDelay(d time.Duration) Option {
	return func(a *Agent) {
		if d >= 0 {
			a.delay = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Agent) {
		if now != nil {
			a.now = now
		}
	}
}

func WithCatalog(c Catalog) Option {
	return func(a *Agent) {
		a.catalog = c
	}
}

func New(opts ...Option) *Agent {
	a := &Agent{
		catalog: DefaultCatalog(),
		delay:   DefaultDelay,
		now:     time.Now,
		handlers: map[contractx.ServiceType]handler{
			contractx.ServiceTravel:     (*Agent).travel,
			contractx.ServiceCab:        (*Agent).cab,
			contractx.ServiceHotel:      (*Agent).hotel,
			contractx.ServiceRestaurant: (*Agent).restaurant,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Fulfill waits for the simulated latency, then runs the service handler.
// Cancellation of ctx, handler errors and handler panics all come back as
// a failed result.
func (a *Agent) Fulfill(ctx context.Context, serviceType contractx.ServiceType, answers contractx.Answers) (res contractx.FulfillmentResult) {
	if err := a.wait(ctx); err != nil {
		return contractx.FailedResult("%s request interrupted: %v", serviceType, err)
	}

	h, ok := a.handlers[serviceType]
	if !ok {
		return contractx.FailedResult("Unknown service type: %s", serviceType)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("service", string(serviceType)).Interface("panic", r).Msg("fulfillment handler panicked")
			res = contractx.FailedResult("Failed to process %s request: %v", serviceType, r)
		}
	}()

	data, err := h(a, answers)
	if err != nil {
		return contractx.FailedResult("Failed to process %s request: %v", serviceType, err)
	}
	return contractx.FulfillmentResult{
		Success:   true,
		Reference: a.reference(serviceType),
		Data:      data,
	}
}

func (a *Agent) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// reference is <prefix>_<unix millis>.
func (a *Agent) reference(serviceType contractx.ServiceType) string {
	return fmt.Sprintf("%s_%d", serviceType.ReferencePrefix(), a.now().UnixMilli())
}

func required(answers contractx.Answers, keys ...string) ([]string, error) {
	out := make([]string, len(keys))
	var missing []string
	for i, k := range keys {
		v, ok := answers.Get(k)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, k)
			continue
		}
		out[i] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return out, nil
}
