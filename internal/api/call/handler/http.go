package callHandler

import (
	bookingService "BistroGolang/internal/api/booking/service"
	callService "BistroGolang/internal/api/call/service"
	"BistroGolang/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CallHandler struct {
	log        *logrus.Logger
	validator  *validator.Validate
	middleware middleware.Middleware
	callFlow   callService.ICallFlowService
	bookings   bookingService.IBookingService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cf callService.ICallFlowService,
	bs bookingService.IBookingService,
) *CallHandler {
	return &CallHandler{
		log:        log,
		validator:  validate,
		middleware: middleware,
		callFlow:   cf,
		bookings:   bs,
	}
}

// Start registers the telephony webhooks at the root router. Providers post
// here directly, so the paths stay outside the versioned API group.
func (h *CallHandler) Start(srv fiber.Router) {
	webhooks := srv.Group("/webhooks")

	webhooks.Post("/voice", h.VoiceWebhook)
	webhooks.Post("/process-recording", h.RecordingWebhook)
	webhooks.Post("/recording-status", h.RecordingStatusWebhook)
	webhooks.Post("/call-status", h.CallStatusWebhook)
}

// StartAPI registers the dashboard facing call endpoints on the versioned
// API group.
func (h *CallHandler) StartAPI(srv fiber.Router) {
	calls := srv.Group("/calls")
	calls.Get("/", h.ListActiveCalls)
}
