package booking

import "BistroGolang/internal/entity"

type CreateBookingRequest struct {
	Text   string `json:"text" validate:"required,min=3"`
	Phone  string `json:"phone" validate:"omitempty,min=7,max=20"`
	Email  string `json:"email" validate:"omitempty,email"`
	Source string `json:"source" validate:"omitempty,oneof=api web phone_call"`
}

type UpdateBookingRequest struct {
	Status       *string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	CustomerName *string `json:"customer_name" validate:"omitempty,max=100"`
	PartySize    *int    `json:"party_size" validate:"omitempty,min=1,max=50"`
	Date         *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime    *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime      *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Notes        *string `json:"notes" validate:"omitempty,max=500"`
}

type ListBookingsQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	Search string `query:"q" validate:"omitempty,max=200"`
}

type BookingResponse struct {
	Booking entity.Booking `json:"booking"`
	Message string         `json:"message,omitempty"`
}

type ListBookingsResponse struct {
	Bookings []entity.Booking `json:"bookings"`
	Total    int              `json:"total"`
}
