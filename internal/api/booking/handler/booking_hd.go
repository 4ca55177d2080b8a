package bookingHandler

import (
	"errors"
	"io"
	"strconv"
	"time"

	"BistroGolang/internal/api/booking"
	contextPkg "BistroGolang/pkg/context"
	"BistroGolang/pkg/handlerUtil"
	"BistroGolang/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *BookingHandler) CreateBooking(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing create booking request")

	var req booking.CreateBookingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	created, err := h.bookingService.CreateFromText(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_booking")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, booking.BookingResponse{
			Booking: created,
			Message: "Booking request created",
		})
	}
}

func (h *BookingHandler) CreateBookingFromAudio(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	// Transcription can take a while, this budget is wider than the JSON
	// endpoints.
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing voice booking request")

	audioFile, err := ctx.FormFile("audio")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("audio file is required"), ctx.Path())
	}

	if err := h.utils.ValidateAudioFile(audioFile); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	src, err := audioFile.Open()
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_booking_from_audio")
	}
	defer src.Close()

	audioData, err := io.ReadAll(src)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_booking_from_audio")
	}

	created, transcription, err := h.bookingService.CreateFromAudio(
		c, audioData, audioFile.Header.Get("Content-Type"), ctx.FormValue("phone"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_booking_from_audio")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, fiber.Map{
			"booking":       created,
			"transcription": transcription,
		})
	}
}

func (h *BookingHandler) ListBookings(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing list bookings request")

	var query booking.ListBookingsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	bookings, err := h.bookingService.ListBookings(c, query)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_bookings")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, booking.ListBookingsResponse{
			Bookings: bookings,
			Total:    len(bookings),
		})
	}
}

func (h *BookingHandler) GetBooking(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil || id < 1 {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("booking id must be a positive integer"), ctx.Path())
	}

	found, err := h.bookingService.GetBooking(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_booking")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, booking.BookingResponse{Booking: found})
	}
}

func (h *BookingHandler) UpdateBooking(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing update booking request")

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil || id < 1 {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("booking id must be a positive integer"), ctx.Path())
	}

	var req booking.UpdateBookingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	updated, err := h.bookingService.UpdateBooking(c, id, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_booking")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, booking.BookingResponse{
			Booking: updated,
			Message: "Booking updated",
		})
	}
}
