package authService

import (
	"context"
	"strconv"
	"time"

	"BistroGolang/internal/api/auth"
	authRepository "BistroGolang/internal/api/auth/repository"
	"BistroGolang/internal/entity"
	"BistroGolang/pkg/bcrypt"
	contextPkg "BistroGolang/pkg/context"
	jwtPkg "BistroGolang/pkg/jwt"

	"github.com/sirupsen/logrus"
)

const accessTokenTTL = 24 * time.Hour

type IAuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (entity.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
}

type authService struct {
	log      *logrus.Logger
	userRepo authRepository.Repository
	bcrypt   bcrypt.IBcrypt
}

func New(log *logrus.Logger, userRepo authRepository.Repository, bcryptUtils bcrypt.IBcrypt) IAuthService {
	return &authService{
		log:      log,
		userRepo: userRepo,
		bcrypt:   bcryptUtils,
	}
}

func (s *authService) Register(ctx context.Context, req auth.RegisterRequest) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)

	hashed, err := s.bcrypt.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return entity.User{}, err
	}

	user, err := s.userRepo.CreateUser(ctx, entity.User{
		Email:    req.Email,
		Username: req.Username,
		Password: hashed,
	})
	if err != nil {
		return entity.User{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	}).Info("User registered")

	return user, nil
}

func (s *authService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if err == auth.ErrUserNotFound {
			return auth.LoginResponse{}, auth.ErrInvalidEmailOrPassword
		}
		return auth.LoginResponse{}, err
	}

	if err := s.bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    user.ID,
		}).Warn("Login attempt with wrong password")
		return auth.LoginResponse{}, auth.ErrInvalidEmailOrPassword
	}

	token, expiresAt, err := jwtPkg.Sign(map[string]interface{}{
		"id":       strconv.Itoa(user.ID),
		"email":    user.Email,
		"username": user.Username,
	}, accessTokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign access token")
		return auth.LoginResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	}).Info("User logged in")

	return auth.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        auth.NewUserResponse(user),
	}, nil
}
