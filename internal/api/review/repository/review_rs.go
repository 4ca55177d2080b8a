package reviewRepository

import (
	"context"
	"time"

	"BistroGolang/database/jsonstore"
	"BistroGolang/internal/api/review"
	"BistroGolang/internal/entity"
	contextPkg "BistroGolang/pkg/context"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type Repository interface {
	Add(ctx context.Context, r entity.Review) (entity.Review, error)
	GetByID(ctx context.Context, id string) (entity.Review, error)
	List(ctx context.Context) ([]entity.Review, error)
	SetReply(ctx context.Context, id, reply string) (entity.Review, error)
}

type repository struct {
	store *jsonstore.Store
	log   *logrus.Logger
	now   func() time.Time
}

func New(store *jsonstore.Store, log *logrus.Logger) Repository {
	return &repository{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

func (r *repository) Add(ctx context.Context, rev entity.Review) (entity.Review, error) {
	requestID := contextPkg.GetRequestID(ctx)

	err := r.store.Update(func(doc *jsonstore.Document) error {
		if rev.ID == "" {
			rev.ID = ulid.Make().String()
		}
		if rev.Time == "" {
			rev.Time = r.now().UTC().Format(time.RFC3339)
		}
		doc.Reviews = append(doc.Reviews, rev)
		return nil
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to persist review")
		return entity.Review{}, err
	}

	return rev, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (entity.Review, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var found *entity.Review
	err := r.store.View(func(doc *jsonstore.Document) error {
		for i := range doc.Reviews {
			if doc.Reviews[i].ID == id {
				rev := doc.Reviews[i]
				found = &rev
				return nil
			}
		}
		return review.ErrReviewNotFound
	})
	if err != nil {
		if err != review.ErrReviewNotFound {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to read review")
		}
		return entity.Review{}, err
	}

	return *found, nil
}

func (r *repository) List(ctx context.Context) ([]entity.Review, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var out []entity.Review
	err := r.store.View(func(doc *jsonstore.Document) error {
		out = append(out, doc.Reviews...)
		return nil
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to list reviews")
		return nil, err
	}

	return out, nil
}

func (r *repository) SetReply(ctx context.Context, id, reply string) (entity.Review, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var updated entity.Review
	err := r.store.Update(func(doc *jsonstore.Document) error {
		for i := range doc.Reviews {
			if doc.Reviews[i].ID != id {
				continue
			}
			if doc.Reviews[i].Reply != "" {
				return review.ErrAlreadyReplied
			}
			doc.Reviews[i].Reply = reply
			doc.Reviews[i].RepliedAt = r.now().UTC().Format(time.RFC3339)
			updated = doc.Reviews[i]
			return nil
		}
		return review.ErrReviewNotFound
	})
	if err != nil {
		if err != review.ErrReviewNotFound && err != review.ErrAlreadyReplied {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"review_id":  id,
				"error":      err.Error(),
			}).Error("Failed to store review reply")
		}
		return entity.Review{}, err
	}

	return updated, nil
}
