package callService

import (
	"context"
	"errors"
	"strings"
	"testing"

	"BistroGolang/internal/api/booking"
	"BistroGolang/internal/entity"
	"BistroGolang/pkg/nlp"

	"github.com/sirupsen/logrus"
)

type fakeExtractor struct {
	intent bool
	fields nlp.BookingFields
}

func (f *fakeExtractor) HasBookingIntent(text string) bool { return f.intent }
func (f *fakeExtractor) Extract(text string) nlp.BookingFields {
	return f.fields
}

type fakeAssistant struct {
	configured bool
	reply      string
	fields     *nlp.BookingFields
	err        error
}

func (f *fakeAssistant) InterpretBooking(ctx context.Context, utterance string) (string, *nlp.BookingFields, error) {
	return f.reply, f.fields, f.err
}

func (f *fakeAssistant) Configured() bool { return f.configured }

type fakeBookingService struct {
	created    entity.Booking
	createErr  error
	lastFields nlp.BookingFields
	lastSource entity.BookingSource
	calls      int
}

func (f *fakeBookingService) CreateFromText(ctx context.Context, req booking.CreateBookingRequest) (entity.Booking, error) {
	return f.created, f.createErr
}

func (f *fakeBookingService) CreateFromAudio(ctx context.Context, audioData []byte, contentType, phone string) (entity.Booking, string, error) {
	return f.created, "", f.createErr
}

func (f *fakeBookingService) CreateFromFields(ctx context.Context, fields nlp.BookingFields, rawText string, source entity.BookingSource, callID string) (entity.Booking, error) {
	f.calls++
	f.lastFields = fields
	f.lastSource = source
	return f.created, f.createErr
}

func (f *fakeBookingService) GetBooking(ctx context.Context, id int) (entity.Booking, error) {
	return f.created, nil
}

func (f *fakeBookingService) ListBookings(ctx context.Context, query booking.ListBookingsQuery) ([]entity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingService) UpdateBooking(ctx context.Context, id int, req booking.UpdateBookingRequest) (entity.Booking, error) {
	return f.created, nil
}

func newTestInterpreter(extractor *fakeExtractor, assistant *fakeAssistant, bookings *fakeBookingService, requireName bool) *interpreter {
	return &interpreter{
		log:         logrus.New(),
		extractor:   extractor,
		assistant:   assistant,
		bookings:    bookings,
		requireName: requireName,
	}
}

func TestInterpretEmptyTranscription(t *testing.T) {
	bookings := &fakeBookingService{}
	i := newTestInterpreter(&fakeExtractor{}, &fakeAssistant{}, bookings, false)

	result := i.Interpret(context.Background(), entity.CallSession{CallID: "CA1"}, "   ")

	if result.Action != entity.ActionNeedRepeat {
		t.Fatalf("action = %q, want %q", result.Action, entity.ActionNeedRepeat)
	}
	if bookings.calls != 0 {
		t.Fatal("booking service called for empty transcription")
	}
}

func TestInterpretNoBookingIntent(t *testing.T) {
	bookings := &fakeBookingService{}
	i := newTestInterpreter(&fakeExtractor{intent: false}, &fakeAssistant{}, bookings, false)

	result := i.Interpret(context.Background(), entity.CallSession{CallID: "CA1"}, "what are your opening hours")

	if result.Action != entity.ActionConversation {
		t.Fatalf("action = %q, want %q", result.Action, entity.ActionConversation)
	}
	if bookings.calls != 0 {
		t.Fatal("booking service called without intent")
	}
}

func TestInterpretCreatesBooking(t *testing.T) {
	bookings := &fakeBookingService{created: entity.Booking{ID: 42}}
	extractor := &fakeExtractor{intent: true, fields: nlp.BookingFields{PartySize: 4, Date: "2025-03-10"}}
	i := newTestInterpreter(extractor, &fakeAssistant{}, bookings, false)

	session := entity.CallSession{CallID: "CA1", CallerPhone: "+15550001"}
	result := i.Interpret(context.Background(), session, "table for four on march tenth")

	if result.Action != entity.ActionBookingCreated {
		t.Fatalf("action = %q, want %q", result.Action, entity.ActionBookingCreated)
	}
	if result.Booking == nil || result.Booking.ID != 42 {
		t.Fatalf("booking = %+v", result.Booking)
	}
	if !strings.Contains(result.AIResponse, "42") {
		t.Fatalf("reply should mention the booking id: %q", result.AIResponse)
	}
	if bookings.lastSource != entity.BookingSourcePhoneCall {
		t.Fatalf("source = %q", bookings.lastSource)
	}
	if bookings.lastFields.PhoneNumber != "+15550001" {
		t.Fatalf("phone fallback = %q, want caller phone", bookings.lastFields.PhoneNumber)
	}
}

func TestInterpretAssistantRefinesFields(t *testing.T) {
	bookings := &fakeBookingService{created: entity.Booking{ID: 1}}
	extractor := &fakeExtractor{intent: true, fields: nlp.BookingFields{PartySize: 2, Date: "2025-03-10"}}
	assistant := &fakeAssistant{
		configured: true,
		reply:      "Your table for three is noted.",
		fields:     &nlp.BookingFields{CustomerName: "Maria", PartySize: 3},
	}
	i := newTestInterpreter(extractor, assistant, bookings, false)

	result := i.Interpret(context.Background(), entity.CallSession{CallID: "CA1"}, "book a table")

	if bookings.lastFields.CustomerName != "Maria" || bookings.lastFields.PartySize != 3 {
		t.Fatalf("assistant fields not merged: %+v", bookings.lastFields)
	}
	if bookings.lastFields.Date != "2025-03-10" {
		t.Fatalf("extracted date lost in merge: %+v", bookings.lastFields)
	}
	if !strings.HasPrefix(result.AIResponse, "Your table for three is noted.") {
		t.Fatalf("assistant reply lost: %q", result.AIResponse)
	}
}

func TestInterpretConfirmationCarriesBookingID(t *testing.T) {
	bookings := &fakeBookingService{created: entity.Booking{ID: 57}}
	extractor := &fakeExtractor{intent: true, fields: nlp.BookingFields{PartySize: 2}}
	assistant := &fakeAssistant{configured: true, reply: "All set, see you soon!"}
	i := newTestInterpreter(extractor, assistant, bookings, false)

	result := i.Interpret(context.Background(), entity.CallSession{CallID: "CA1"}, "book a table for two")

	if result.Action != entity.ActionBookingCreated {
		t.Fatalf("action = %q", result.Action)
	}
	if !strings.Contains(result.AIResponse, "57") {
		t.Fatalf("spoken confirmation must carry the booking id: %q", result.AIResponse)
	}
	if !strings.Contains(result.AIResponse, "All set, see you soon!") {
		t.Fatalf("assistant phrasing dropped: %q", result.AIResponse)
	}

	// A reply that already names the id is spoken untouched.
	assistant.reply = "Done, your booking id is 57."
	result = i.Interpret(context.Background(), entity.CallSession{CallID: "CA2"}, "book a table for two")
	if result.AIResponse != "Done, your booking id is 57." {
		t.Fatalf("reply = %q, want the assistant text unchanged", result.AIResponse)
	}
}

func TestInterpretAssistantFailureFallsBack(t *testing.T) {
	bookings := &fakeBookingService{created: entity.Booking{ID: 5}}
	extractor := &fakeExtractor{intent: true, fields: nlp.BookingFields{PartySize: 2}}
	assistant := &fakeAssistant{configured: true, err: errors.New("rate limited")}
	i := newTestInterpreter(extractor, assistant, bookings, false)

	result := i.Interpret(context.Background(), entity.CallSession{CallID: "CA1"}, "book a table for two")

	if result.Action != entity.ActionBookingCreated {
		t.Fatalf("action = %q, assistant failure should not block booking", result.Action)
	}
	if bookings.lastFields.PartySize != 2 {
		t.Fatalf("fields = %+v", bookings.lastFields)
	}
}

func TestInterpretRequireNameAsks(t *testing.T) {
	bookings := &fakeBookingService{}
	extractor := &fakeExtractor{intent: true, fields: nlp.BookingFields{PartySize: 2}}
	i := newTestInterpreter(extractor, &fakeAssistant{}, bookings, true)

	result := i.Interpret(context.Background(), entity.CallSession{CallID: "CA1"}, "table for two tonight")

	if result.Action != entity.ActionNeedMoreInfo {
		t.Fatalf("action = %q, want %q", result.Action, entity.ActionNeedMoreInfo)
	}
	if bookings.calls != 0 {
		t.Fatal("booking created without a name while names are required")
	}
}

func TestInterpretBookingFailure(t *testing.T) {
	bookings := &fakeBookingService{createErr: errors.New("store unavailable")}
	extractor := &fakeExtractor{intent: true, fields: nlp.BookingFields{PartySize: 2}}
	i := newTestInterpreter(extractor, &fakeAssistant{}, bookings, false)

	result := i.Interpret(context.Background(), entity.CallSession{CallID: "CA1"}, "book a table for two")

	if result.Action != entity.ActionError {
		t.Fatalf("action = %q, want %q", result.Action, entity.ActionError)
	}
	if result.Success {
		t.Fatal("failed interpretation reported success")
	}
}
