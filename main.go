package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	orchestratoragent "github.com/tanpawarit/Chative-Booking-Engine/agent/agents/orchestrator"
	bookingx "github.com/tanpawarit/Chative-Booking-Engine/agent/booking"
	fulfillmentx "github.com/tanpawarit/Chative-Booking-Engine/agent/fulfillment"
	messagex "github.com/tanpawarit/Chative-Booking-Engine/agent/message"
	slotx "github.com/tanpawarit/Chative-Booking-Engine/agent/slot"
	statex "github.com/tanpawarit/Chative-Booking-Engine/agent/state"
	configx "github.com/tanpawarit/Chative-Booking-Engine/pkg/config"
	httpserverx "github.com/tanpawarit/Chative-Booking-Engine/pkg/httpserver"
	_ "github.com/tanpawarit/Chative-Booking-Engine/pkg/logger/autoload"
)

type AppConfig struct {
	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"0s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")
	engineCfg := configx.MustNew[fulfillmentx.Config]("ENGINE")
	httpCfg := configx.MustNew[httpserverx.Config]("HTTP")

	store := statex.NewMemoryStore(slotx.NewRegistry(), statex.WithTTL(appCfg.SessionTTL))
	fulfiller := fulfillmentx.New(fulfillmentx.WithDelay(engineCfg.FulfillmentDelay))

	engine, err := orchestratoragent.New(
		store,
		fulfiller,
		messagex.MustNew(),
		bookingx.NewMemoryLedger(),
		orchestratoragent.Config{FulfillmentTimeout: engineCfg.FulfillmentTimeout},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build orchestrator")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appCfg.SessionTTL > 0 {
		go sweepSessions(ctx, store, appCfg.SessionTTL)
	}

	srv := httpserverx.New(*httpCfg, engine)
	go func() {
		<-ctx.Done()
		log.Info().Msg("graceful shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown http server")
		}
	}()

	if err := srv.Listen(); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}

// sweepSessions drops idle sessions so abandoned conversations do not pile
// up between lookups.
func sweepSessions(ctx context.Context, store *statex.MemoryStore, ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				log.Debug().Int("removed", n).Msg("expired sessions swept")
			}
		}
	}
}
