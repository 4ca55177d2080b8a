package nlp

// BookingFields carries whatever could be read out of one utterance. Zero
// values mean "not heard"; the caller decides the defaults.
type BookingFields struct {
	CustomerName string `json:"customer_name,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	PartySize    int    `json:"party_size,omitempty"`
	Date         string `json:"date,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Extractor is the pluggable best-effort entity extractor. Implementations
// must be deterministic and must not invent values absent from the input.
type Extractor interface {
	HasBookingIntent(text string) bool
	Extract(text string) BookingFields
}
