package authRepository

import (
	"context"
	"strings"
	"time"

	"BistroGolang/database/jsonstore"
	"BistroGolang/internal/api/auth"
	"BistroGolang/internal/entity"
	contextPkg "BistroGolang/pkg/context"

	"github.com/sirupsen/logrus"
)

type Repository interface {
	CreateUser(ctx context.Context, user entity.User) (entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)
	GetUserByID(ctx context.Context, id int) (entity.User, error)
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

func (r *repository) CreateUser(ctx context.Context, user entity.User) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)

	err := r.store.Update(func(doc *jsonstore.Document) error {
		maxID := 0
		for _, existing := range doc.Users {
			if strings.EqualFold(existing.Email, user.Email) {
				return auth.ErrEmailAlreadyExists
			}
			if strings.EqualFold(existing.Username, user.Username) {
				return auth.ErrUsernameAlreadyExists
			}
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}

		user.ID = maxID + 1
		user.CreatedAt = r.now().UTC()
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		if err != auth.ErrEmailAlreadyExists && err != auth.ErrUsernameAlreadyExists {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to persist new user")
		}
		return entity.User{}, err
	}

	return user, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var found *entity.User
	err := r.store.View(func(doc *jsonstore.Document) error {
		for i := range doc.Users {
			if strings.EqualFold(doc.Users[i].Email, email) {
				u := doc.Users[i]
				found = &u
				return nil
			}
		}
		return auth.ErrUserNotFound
	})
	if err != nil {
		if err != auth.ErrUserNotFound {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to read user by email")
		}
		return entity.User{}, err
	}

	return *found, nil
}

func (r *repository) GetUserByID(ctx context.Context, id int) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var found *entity.User
	err := r.store.View(func(doc *jsonstore.Document) error {
		for i := range doc.Users {
			if doc.Users[i].ID == id {
				u := doc.Users[i]
				found = &u
				return nil
			}
		}
		return auth.ErrUserNotFound
	})
	if err != nil {
		if err != auth.ErrUserNotFound {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to read user by id")
		}
		return entity.User{}, err
	}

	return *found, nil
}
