package nlp

import (
	"testing"
	"time"
)

func fixedExtractor() *BookingExtractor {
	e := NewBookingExtractor()
	e.now = func() time.Time {
		return time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	}
	return e
}

func TestHasBookingIntent(t *testing.T) {
	e := fixedExtractor()

	cases := []struct {
		text string
		want bool
	}{
		{"I'd like to book a table", true},
		{"Can I make a reservation for tonight", true},
		{"reserve something for us", true},
		{"table for two please", true},
		{"hello there", false},
		{"what are your opening hours", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := e.HasBookingIntent(tc.text); got != tc.want {
			t.Fatalf("HasBookingIntent(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestExtractFullRequest(t *testing.T) {
	e := fixedExtractor()

	fields := e.Extract("I'd like a table for 4 tonight at 7, name's John")

	if fields.PartySize != 4 {
		t.Fatalf("party size = %d, want 4", fields.PartySize)
	}
	if fields.CustomerName != "John" {
		t.Fatalf("customer name = %q, want John", fields.CustomerName)
	}
	if fields.Date != "2025-03-10" {
		t.Fatalf("date = %q, want 2025-03-10", fields.Date)
	}
	// "tonight at 7" is dinner time, not breakfast.
	if fields.StartTime != "19:00" {
		t.Fatalf("start time = %q, want 19:00", fields.StartTime)
	}
	if fields.EndTime != "21:00" {
		t.Fatalf("end time = %q, want 21:00", fields.EndTime)
	}
}

func TestExtractTimeRangeTomorrow(t *testing.T) {
	e := fixedExtractor()

	fields := e.Extract("book a table for 2 people tomorrow from noon to 3 pm")

	if fields.PartySize != 2 {
		t.Fatalf("party size = %d, want 2", fields.PartySize)
	}
	if fields.Date != "2025-03-11" {
		t.Fatalf("date = %q, want 2025-03-11", fields.Date)
	}
	if fields.StartTime != "12:00" {
		t.Fatalf("start time = %q, want 12:00", fields.StartTime)
	}
	if fields.EndTime != "15:00" {
		t.Fatalf("end time = %q, want 15:00", fields.EndTime)
	}
}

func TestExtractNameAfterFor(t *testing.T) {
	e := fixedExtractor()

	fields := e.Extract("reserve a table for John tomorrow evening, party of 3, my number is +1 212 555 0199")

	if fields.CustomerName != "John" {
		t.Fatalf("customer name = %q, want John", fields.CustomerName)
	}
	if fields.PartySize != 3 {
		t.Fatalf("party size = %d, want 3", fields.PartySize)
	}
	if fields.PhoneNumber != "+1 212 555 0199" {
		t.Fatalf("phone = %q", fields.PhoneNumber)
	}
	if fields.StartTime != "19:00" {
		t.Fatalf("start time = %q, want 19:00", fields.StartTime)
	}
}

func TestExtractDoesNotMistakePartySizeForTime(t *testing.T) {
	e := fixedExtractor()

	fields := e.Extract("table for 6 people please")

	if fields.PartySize != 6 {
		t.Fatalf("party size = %d, want 6", fields.PartySize)
	}
	if fields.StartTime != "" {
		t.Fatalf("start time = %q, want empty", fields.StartTime)
	}
}

func TestExtractMeridiemClock(t *testing.T) {
	e := fixedExtractor()

	fields := e.Extract("booking for 2 people 8:30 pm")

	if fields.StartTime != "20:30" {
		t.Fatalf("start time = %q, want 20:30", fields.StartTime)
	}
	if fields.EndTime != "22:30" {
		t.Fatalf("end time = %q, want 22:30", fields.EndTime)
	}
}

func TestExtractEmptyAndTextOnly(t *testing.T) {
	e := fixedExtractor()

	fields := e.Extract("")
	if fields.PartySize != 0 || fields.CustomerName != "" || fields.StartTime != "" {
		t.Fatalf("expected zero fields, got %+v", fields)
	}

	fields = e.Extract("do you serve vegan food")
	if fields.PartySize != 0 || fields.StartTime != "" {
		t.Fatalf("expected zero fields, got %+v", fields)
	}
	if fields.Notes != "do you serve vegan food" {
		t.Fatalf("notes = %q", fields.Notes)
	}
}

func TestExtractPhoneRequiresEnoughDigits(t *testing.T) {
	e := fixedExtractor()

	if got := e.Extract("my number is 12 34").PhoneNumber; got != "" {
		t.Fatalf("phone = %q, want empty", got)
	}
	if got := e.Extract("call me on 555-123-4567").PhoneNumber; got != "555-123-4567" {
		t.Fatalf("phone = %q, want 555-123-4567", got)
	}
}
