package call

import (
	"BistroGolang/pkg/response"
	"net/http"
)

var (
	ErrCallNotFound       = response.NewError(http.StatusNotFound, "call session not found")
	ErrMissingCallSid     = response.NewError(http.StatusBadRequest, "CallSid is required")
	ErrRecordingFetch     = response.NewError(http.StatusBadGateway, "failed to fetch call recording")
	ErrTranscriptionDown  = response.NewError(http.StatusBadGateway, "transcription service unavailable")
	ErrTooManyAttempts    = response.NewError(http.StatusConflict, "attempt limit reached for this call")
	ErrCallAlreadyStarted = response.NewError(http.StatusConflict, "call session already exists")
)
