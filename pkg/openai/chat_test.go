package openai

import "testing"

func TestParseBookingMarkerWithFields(t *testing.T) {
	content := `Lovely, a table for four tomorrow at seven. BOOKING_DATA: {"customer_name":"John Smith","party_size":4,"start_time":"19:00"}`

	reply, fields := parseBookingMarker(content)

	if reply != "Lovely, a table for four tomorrow at seven." {
		t.Fatalf("reply = %q", reply)
	}
	if fields == nil {
		t.Fatal("expected fields, got nil")
	}
	if fields.CustomerName != "John Smith" {
		t.Fatalf("customer name = %q", fields.CustomerName)
	}
	if fields.PartySize != 4 {
		t.Fatalf("party size = %d", fields.PartySize)
	}
	if fields.StartTime != "19:00" {
		t.Fatalf("start time = %q", fields.StartTime)
	}
}

func TestParseBookingMarkerAbsent(t *testing.T) {
	reply, fields := parseBookingMarker("  How many people will be joining you?  ")

	if reply != "How many people will be joining you?" {
		t.Fatalf("reply = %q", reply)
	}
	if fields != nil {
		t.Fatalf("expected nil fields, got %+v", fields)
	}
}

func TestParseBookingMarkerMalformedJSON(t *testing.T) {
	reply, fields := parseBookingMarker(`Got it. BOOKING_DATA: {"party_size": four}`)

	if reply != "Got it." {
		t.Fatalf("reply = %q", reply)
	}
	if fields != nil {
		t.Fatalf("malformed block must be dropped, got %+v", fields)
	}
}

func TestParseBookingMarkerWithoutBlock(t *testing.T) {
	reply, fields := parseBookingMarker("See you soon. BOOKING_DATA:")

	if reply != "See you soon." {
		t.Fatalf("reply = %q", reply)
	}
	if fields != nil {
		t.Fatalf("expected nil fields, got %+v", fields)
	}
}

func TestParseBookingMarkerClampsNegativePartySize(t *testing.T) {
	_, fields := parseBookingMarker(`Sure. BOOKING_DATA: {"party_size":-2}`)

	if fields == nil {
		t.Fatal("expected fields, got nil")
	}
	if fields.PartySize != 0 {
		t.Fatalf("party size = %d, want 0", fields.PartySize)
	}
}
