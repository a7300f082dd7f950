package httpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

type Server struct {
	app  *fiber.App
	port int
}

func New(cfg Config, engine Engine) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "chative-booking-engine",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestLogger)
	app.Use(RateLimit(cfg.RateLimit, cfg.RateBurst))

	hdl := NewHandler(engine)
	app.Get("/health", hdl.HealthCheck)

	v1 := app.Group("/v1")
	{
		v1.Get("/services", hdl.ListServices)

		v1.Post("/sessions", hdl.StartSession)
		v1.Get("/sessions/:id", hdl.GetSession)
		v1.Delete("/sessions/:id", hdl.CancelSession)
		v1.Post("/sessions/:id/answers", hdl.SubmitAnswer)

		v1.Get("/bookings", hdl.ListBookings)
		v1.Get("/bookings/:id", hdl.GetBooking)
		v1.Post("/bookings/:id/confirm", hdl.ConfirmBooking)
		v1.Post("/bookings/:id/cancel", hdl.CancelBooking)
	}

	return &Server{app: app, port: cfg.Port}
}

func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks until the server stops.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Info().Str("addr", addr).Msg("http server listening")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("http request")
	return err
}
