package callHandler

import (
	"time"

	"BistroGolang/internal/api/booking"
	"BistroGolang/internal/api/call"
	contextPkg "BistroGolang/pkg/context"
	"BistroGolang/pkg/handlerUtil"
	"BistroGolang/pkg/log"
	"BistroGolang/pkg/twiml"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const twimlContentType = "text/xml; charset=utf-8"

// sendTwiML always answers 200 with a spoken response. Webhook errors must
// never surface as HTTP failures or the provider plays its own error
// message to the caller.
func (h *CallHandler) sendTwiML(ctx *fiber.Ctx, doc string) error {
	ctx.Set(fiber.HeaderContentType, twimlContentType)
	return ctx.Status(fiber.StatusOK).SendString(doc)
}

func (h *CallHandler) sendFallback(ctx *fiber.Ctx) error {
	doc, err := twiml.New().
		Say("We're sorry, an application error has occurred. Goodbye.").
		Hangup().
		Render()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).SendString("internal error")
	}
	return h.sendTwiML(ctx, doc)
}

func (h *CallHandler) VoiceWebhook(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	var req call.VoiceWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Malformed voice webhook")
		return h.sendFallback(ctx)
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"call_id":    req.CallSid,
	}).Debug("Processing voice webhook")

	doc, err := h.callFlow.HandleCallStart(c, req)
	if err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"call_id":    req.CallSid,
			"error":      err.Error(),
		}).Error("Voice webhook failed")
		return h.sendFallback(ctx)
	}

	return h.sendTwiML(ctx, doc)
}

func (h *CallHandler) RecordingWebhook(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	// Transcription plus interpretation can take a while, the budget here
	// is deliberately wider than the other webhooks.
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 45*time.Second)
	defer cancel()

	var req call.RecordingWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Malformed recording webhook")
		return h.sendFallback(ctx)
	}

	h.log.WithFields(log.Fields{
		"request_id":    requestID,
		"call_id":       req.CallSid,
		"has_recording": req.RecordingUrl != "",
	}).Debug("Processing recording webhook")

	doc, err := h.callFlow.HandleRecording(c, req)
	if err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"call_id":    req.CallSid,
			"error":      err.Error(),
		}).Error("Recording webhook failed")
		return h.sendFallback(ctx)
	}

	return h.sendTwiML(ctx, doc)
}

func (h *CallHandler) RecordingStatusWebhook(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	var req call.RecordingStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.SendStatus(fiber.StatusOK)
	}

	if err := h.callFlow.HandleRecordingStatus(c, req); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"call_id":    req.CallSid,
			"error":      err.Error(),
		}).Warn("Recording status webhook failed")
	}

	return ctx.SendStatus(fiber.StatusOK)
}

func (h *CallHandler) CallStatusWebhook(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	var req call.StatusWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.SendStatus(fiber.StatusOK)
	}

	if err := h.callFlow.HandleCallStatus(c, req); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"call_id":    req.CallSid,
			"error":      err.Error(),
		}).Warn("Call status webhook failed")
	}

	return ctx.SendStatus(fiber.StatusOK)
}

func (h *CallHandler) ListActiveCalls(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing list active calls request")

	calls := h.callFlow.ListActiveCalls(c)

	bookings, err := h.bookings.ListBookings(c, booking.ListBookingsQuery{})
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_active_calls")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, call.ActiveCallsResponse{
			Calls:         calls,
			Total:         len(calls),
			TotalBookings: len(bookings),
		})
	}
}
