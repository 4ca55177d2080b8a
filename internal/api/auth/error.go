package auth

import (
	"BistroGolang/pkg/response"
	"net/http"
)

var (
	ErrEmailAlreadyExists     = response.NewError(http.StatusConflict, "email already exists")
	ErrUsernameAlreadyExists  = response.NewError(http.StatusConflict, "username already exists")
	ErrUserNotFound           = response.NewError(http.StatusNotFound, "user not found")
	ErrInvalidEmailOrPassword = response.NewError(http.StatusBadRequest, "email or password is wrong")
	ErrInvalidToken           = response.NewError(http.StatusUnauthorized, "invalid token")
)
