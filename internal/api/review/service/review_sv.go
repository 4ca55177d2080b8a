package reviewService

import (
	"context"
	"fmt"

	"BistroGolang/internal/api/review"
	reviewRepository "BistroGolang/internal/api/review/repository"
	"BistroGolang/internal/entity"
	contextPkg "BistroGolang/pkg/context"
	"BistroGolang/pkg/gemini"

	"github.com/sirupsen/logrus"
)

type IReviewService interface {
	IngestReview(ctx context.Context, req review.IngestReviewRequest) (entity.Review, error)
	ListReviews(ctx context.Context) ([]entity.Review, error)
	GenerateReply(ctx context.Context, id string) (entity.Review, error)
}

type reviewService struct {
	log        *logrus.Logger
	reviewRepo reviewRepository.Repository
	gemini     gemini.IGemini
}

func New(log *logrus.Logger, reviewRepo reviewRepository.Repository, geminiClient gemini.IGemini) IReviewService {
	return &reviewService{
		log:        log,
		reviewRepo: reviewRepo,
		gemini:     geminiClient,
	}
}

func (s *reviewService) IngestReview(ctx context.Context, req review.IngestReviewRequest) (entity.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return entity.Review{}, review.ErrInvalidRating
	}

	return s.reviewRepo.Add(ctx, entity.Review{
		AuthorName: req.AuthorName,
		Rating:     req.Rating,
		Text:       req.Text,
		Time:       req.Time,
	})
}

func (s *reviewService) ListReviews(ctx context.Context) ([]entity.Review, error) {
	return s.reviewRepo.List(ctx)
}

// GenerateReply drafts a manager reply and stores it on the review. The
// model is optional, when it is missing or failing a rating based template
// is used instead.
func (s *reviewService) GenerateReply(ctx context.Context, id string) (entity.Review, error) {
	requestID := contextPkg.GetRequestID(ctx)

	rev, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return entity.Review{}, err
	}
	if rev.Reply != "" {
		return entity.Review{}, review.ErrAlreadyReplied
	}

	reply, err := s.gemini.GenerateReviewReply(ctx, rev.AuthorName, rev.Rating, rev.Text)
	if err != nil || reply == "" {
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"review_id":  id,
				"error":      err.Error(),
			}).Warn("Model reply generation failed, using template reply")
		}
		reply = templateReply(rev)
	}

	return s.reviewRepo.SetReply(ctx, id, reply)
}

func templateReply(rev entity.Review) string {
	name := rev.AuthorName
	if name == "" {
		name = "there"
	}

	switch {
	case rev.Rating >= 4:
		return fmt.Sprintf("Thank you so much, %s! We're thrilled you enjoyed your visit and hope to welcome you back soon.", name)
	case rev.Rating == 3:
		return fmt.Sprintf("Thanks for the feedback, %s. We're glad you came by and we'd love to hear how we can make your next visit even better.", name)
	default:
		return fmt.Sprintf("We're sorry your experience fell short, %s. Please reach out to us directly so we can make things right.", name)
	}
}
