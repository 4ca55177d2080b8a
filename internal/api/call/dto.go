package call

import "BistroGolang/internal/entity"

// Twilio style webhooks arrive as application/x-www-form-urlencoded bodies.

type VoiceWebhookRequest struct {
	CallSid string `form:"CallSid" validate:"required"`
	From    string `form:"From"`
	To      string `form:"To"`
}

type RecordingWebhookRequest struct {
	CallSid      string `form:"CallSid" validate:"required"`
	From         string `form:"From"`
	RecordingUrl string `form:"RecordingUrl"`
	RecordingSid string `form:"RecordingSid"`
}

type RecordingStatusRequest struct {
	CallSid         string `form:"CallSid" validate:"required"`
	RecordingSid    string `form:"RecordingSid"`
	RecordingStatus string `form:"RecordingStatus"`
	RecordingUrl    string `form:"RecordingUrl"`
}

type StatusWebhookRequest struct {
	CallSid    string `form:"CallSid" validate:"required"`
	CallStatus string `form:"CallStatus"`
}

type ActiveCallsResponse struct {
	Calls         []entity.CallSession `json:"calls"`
	Total         int                  `json:"total"`
	TotalBookings int                  `json:"total_bookings"`
}
