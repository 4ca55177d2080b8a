package entity

import "time"

type CallStatus string

const (
	CallStatusGreeting          CallStatus = "greeting"
	CallStatusAwaitingRecording CallStatus = "awaiting_recording"
	CallStatusProcessing        CallStatus = "processing"
	CallStatusConfirmed         CallStatus = "confirmed"
	CallStatusNeedMoreInfo      CallStatus = "need_more_info"
	CallStatusError             CallStatus = "error"
	CallStatusEnded             CallStatus = "ended"
)

type ConversationAction string

const (
	ActionGreeting       ConversationAction = "greeting"
	ActionConversation   ConversationAction = "conversation"
	ActionNeedMoreInfo   ConversationAction = "need_more_info"
	ActionNeedRepeat     ConversationAction = "need_repeat"
	ActionBookingCreated ConversationAction = "booking_created"
	ActionError          ConversationAction = "error"
)

// ConversationResult is the transient outcome of interpreting one recording.
// It is kept on the session for the dashboard but never persisted.
type ConversationResult struct {
	Success       bool               `json:"success"`
	Transcription string             `json:"transcription"`
	AIResponse    string             `json:"ai_response"`
	Booking       *Booking           `json:"booking,omitempty"`
	Action        ConversationAction `json:"action"`
}

type CallSession struct {
	CallID      string              `json:"call_id"`
	CallerPhone string              `json:"caller_phone"`
	StartedAt   time.Time           `json:"started_at"`
	Status      CallStatus          `json:"status"`
	Attempts    int                 `json:"attempts"`
	LastResult  *ConversationResult `json:"last_result,omitempty"`
}
