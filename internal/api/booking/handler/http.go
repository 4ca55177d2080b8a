package bookingHandler

import (
	bookingService "BistroGolang/internal/api/booking/service"
	"BistroGolang/internal/middleware"
	"BistroGolang/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	bookingService bookingService.IBookingService
	utils          utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	bs bookingService.IBookingService,
	utilsPkg utils.IUtils,
) *BookingHandler {
	return &BookingHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		bookingService: bs,
		utils:          utilsPkg,
	}
}

func (h *BookingHandler) Start(srv fiber.Router) {
	bookings := srv.Group("/bookings")

	bookings.Post("/", h.CreateBooking)
	bookings.Post("/voice", h.CreateBookingFromAudio)
	bookings.Get("/", h.ListBookings)
	bookings.Get("/:id", h.GetBooking)

	// Status changes are staff-only.
	bookings.Patch("/:id", h.middleware.NewTokenMiddleware, h.UpdateBooking)
}
