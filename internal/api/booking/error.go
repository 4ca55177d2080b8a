package booking

import (
	"BistroGolang/pkg/response"
	"net/http"
)

var (
	ErrBookingNotFound         = response.NewError(http.StatusNotFound, "booking not found")
	ErrMissingBookingText      = response.NewError(http.StatusBadRequest, "booking text is required")
	ErrInvalidStatus           = response.NewError(http.StatusBadRequest, "invalid booking status")
	ErrInvalidStatusTransition = response.NewError(http.StatusConflict, "booking status transition not allowed")
	ErrInvalidPartySize        = response.NewError(http.StatusBadRequest, "party size must be between 1 and 50")
)
