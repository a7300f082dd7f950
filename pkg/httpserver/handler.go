package httpserver

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	orchestratoragent "github.com/tanpawarit/Chative-Booking-Engine/agent/agents/orchestrator"
	bookingx "github.com/tanpawarit/Chative-Booking-Engine/agent/booking"
	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
	statex "github.com/tanpawarit/Chative-Booking-Engine/agent/state"
)

// Engine is the booking surface served over HTTP.
type Engine interface {
	StartBooking(sessionID string, serviceLabel string) (orchestratoragent.StartResult, error)
	SubmitAnswer(ctx context.Context, sessionID string, raw string) (orchestratoragent.AnswerResult, error)
	GetStatus(sessionID string) statex.Status
	Cancel(sessionID string)
	Services() []contractx.ServiceType
	Bookings() []bookingx.Record
	Booking(id string) (bookingx.Record, error)
	ConfirmBooking(id string) (bookingx.Record, error)
	CancelBooking(id string) (bookingx.Record, error)
}

type Handler struct {
	engine    Engine
	validator Validator
}

func NewHandler(engine Engine) *Handler {
	return &Handler{
		engine:    engine,
		validator: NewValidator(),
	}
}

func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success})
}

func (h *Handler) ListServices(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: h.engine.Services()})
}

func (h *Handler) StartSession(c *fiber.Ctx) error {
	var request StartSessionRequest
	if err := c.BodyParser(&request); err != nil {
		log.Warn().Err(err).Msg("start session: bad body")
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	request.normalize()
	if err := h.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest.withMessage(validationMessages(err)...)})
	}

	res, err := h.engine.StartBooking(request.SessionID, request.Service)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ResponseBody{Status: Created, Data: res})
}

func (h *Handler) SubmitAnswer(c *fiber.Ctx) error {
	var request AnswerRequest
	if err := c.BodyParser(&request); err != nil {
		log.Warn().Err(err).Msg("submit answer: bad body")
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := h.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest.withMessage(validationMessages(err)...)})
	}

	res, err := h.engine.SubmitAnswer(c.UserContext(), c.Params("id"), *request.Text)
	if err != nil {
		return writeError(c, err)
	}
	if res.Kind == orchestratoragent.OutcomeValidationFailed {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ResponseBody{
			Status: Unprocessable.withMessage(res.ValidationError),
			Data:   res,
		})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: res})
}

// GetSession always answers 200; unknown ids report exists=false.
func (h *Handler) GetSession(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: h.engine.GetStatus(c.Params("id"))})
}

func (h *Handler) CancelSession(c *fiber.Ctx) error {
	h.engine.Cancel(c.Params("id"))
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success})
}

func (h *Handler) ListBookings(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: h.engine.Bookings()})
}

func (h *Handler) GetBooking(c *fiber.Ctx) error {
	rec, err := h.engine.Booking(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: rec})
}

func (h *Handler) ConfirmBooking(c *fiber.Ctx) error {
	rec, err := h.engine.ConfirmBooking(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: rec})
}

func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	rec, err := h.engine.CancelBooking(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: rec})
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status.Code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", c.Path()).Int("status", status.Code).Msg("request rejected")
	}
	return c.Status(status.Code).JSON(ResponseBody{Status: status.withMessage(err.Error())})
}

func statusFor(err error) Status {
	var vErr *contractx.ValidationError
	switch {
	case errors.As(err, &vErr):
		return Unprocessable
	case errors.Is(err, contractx.ErrUnknownServiceType), errors.Is(err, contractx.ErrInvalidSession):
		return BadRequest
	case errors.Is(err, contractx.ErrSessionNotFound), errors.Is(err, contractx.ErrBookingNotFound):
		return NotFound
	case errors.Is(err, contractx.ErrDuplicateSession),
		errors.Is(err, contractx.ErrSessionComplete),
		errors.Is(err, contractx.ErrInvalidTransition):
		return Conflict
	default:
		return InternalServerError
	}
}
