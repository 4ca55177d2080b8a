package review

import (
	"BistroGolang/pkg/response"
	"net/http"
)

var (
	ErrReviewNotFound = response.NewError(http.StatusNotFound, "review not found")
	ErrInvalidRating  = response.NewError(http.StatusBadRequest, "rating must be between 1 and 5")
	ErrAlreadyReplied = response.NewError(http.StatusConflict, "review already has a reply")
)
