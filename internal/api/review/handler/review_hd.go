package reviewHandler

import (
	"errors"
	"time"

	"BistroGolang/internal/api/review"
	reviewService "BistroGolang/internal/api/review/service"
	"BistroGolang/internal/middleware"
	contextPkg "BistroGolang/pkg/context"
	"BistroGolang/pkg/handlerUtil"
	jwtPkg "BistroGolang/pkg/jwt"
	"BistroGolang/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type ReviewHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	reviewService reviewService.IReviewService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	rs reviewService.IReviewService,
) *ReviewHandler {
	return &ReviewHandler{
		log:           log,
		validator:     validate,
		middleware:    middleware,
		reviewService: rs,
	}
}

func (h *ReviewHandler) Start(srv fiber.Router) {
	reviews := srv.Group("/reviews")

	reviews.Get("/", h.ListReviews)
	reviews.Post("/", h.IngestReview)

	// Drafting replies is staff-only.
	reviews.Post("/:id/reply", h.middleware.NewTokenMiddleware, h.GenerateReply)
}

func (h *ReviewHandler) ListReviews(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	reviews, err := h.reviewService.ListReviews(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_reviews")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, review.ListReviewsResponse{
			Reviews: reviews,
			Total:   len(reviews),
		})
	}
}

func (h *ReviewHandler) IngestReview(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing ingest review request")

	var req review.IngestReviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	created, err := h.reviewService.IngestReview(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "ingest_review")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, review.ReviewResponse{Review: created})
	}
}

func (h *ReviewHandler) GenerateReply(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	// Reply drafting may call the model, so the budget is wider here.
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("review id is required"), ctx.Path())
	}

	user, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "access token invalid or expired")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"review_id":  id,
		"username":   user.Username,
	}).Info("Drafting review reply")

	updated, err := h.reviewService.GenerateReply(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "generate_review_reply")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, review.ReviewResponse{
			Review:  updated,
			Message: "Reply drafted",
		})
	}
}
