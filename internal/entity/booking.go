package entity

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo enforces pending -> confirmed|cancelled. A booking never
// leaves a terminal status.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	return s == BookingStatusPending && (next == BookingStatusConfirmed || next == BookingStatusCancelled)
}

type BookingSource string

const (
	BookingSourcePhoneCall BookingSource = "phone_call"
	BookingSourceAPI       BookingSource = "api"
	BookingSourceWeb       BookingSource = "web"
)

type Booking struct {
	ID           int           `json:"id"`
	CreatedAt    time.Time     `json:"created_at"`
	CustomerName string        `json:"customer_name,omitempty"`
	PhoneNumber  string        `json:"phone_number,omitempty"`
	PartySize    int           `json:"party_size"`
	Date         string        `json:"date,omitempty"`
	StartTime    string        `json:"start_time,omitempty"`
	EndTime      string        `json:"end_time,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Status       BookingStatus `json:"status"`
	Source       BookingSource `json:"source"`
	CallID       string        `json:"call_id,omitempty"`
}
