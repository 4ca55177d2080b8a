package bookingService

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"BistroGolang/database/jsonstore"
	"BistroGolang/internal/api/booking"
	bookingRepository "BistroGolang/internal/api/booking/repository"
	"BistroGolang/internal/entity"
	"BistroGolang/pkg/nlp"
	"BistroGolang/pkg/utils"
	"BistroGolang/pkg/websocket"

	"github.com/sirupsen/logrus"
)

type stubCalendar struct{}

func (stubCalendar) SyncBooking(ctx context.Context, booking entity.Booking) error {
	return errors.New("calendar unavailable")
}
func (stubCalendar) Configured() bool { return false }

type stubMailer struct{}

func (stubMailer) SendBookingConfirmation(toEmail string, bookingID int, summary string) error {
	return nil
}
func (stubMailer) Configured() bool { return false }

type stubServiceTranscriber struct {
	text string
	err  error
}

func (s *stubServiceTranscriber) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	return s.text, s.err
}
func (s *stubServiceTranscriber) Configured() bool { return true }

func newTestService(t *testing.T) IBookingService {
	t.Helper()
	t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "db.json"))

	log := logrus.New()
	store, err := jsonstore.New(log)
	if err != nil {
		t.Fatalf("jsonstore.New: %v", err)
	}
	repo := bookingRepository.New(store, log)

	return New(log, repo, nlp.NewBookingExtractor(), stubCalendar{}, stubMailer{},
		websocket.NewHub(log), utils.New(), &stubServiceTranscriber{})
}

func TestCreateFromTextExtractsFields(t *testing.T) {
	svc := newTestService(t)

	b, err := svc.CreateFromText(context.Background(), booking.CreateBookingRequest{
		Text:  "I'd like to book a table for 4 people tonight at 7, name's John",
		Phone: "+1 (212) 555-0199",
	})
	if err != nil {
		t.Fatalf("CreateFromText: %v", err)
	}

	if b.PartySize != 4 {
		t.Fatalf("party size = %d, want 4", b.PartySize)
	}
	if b.CustomerName != "John" {
		t.Fatalf("customer name = %q", b.CustomerName)
	}
	if b.PhoneNumber != "+12125550199" {
		t.Fatalf("phone = %q, want normalized digits", b.PhoneNumber)
	}
	if b.Status != entity.BookingStatusPending {
		t.Fatalf("status = %q", b.Status)
	}
	if b.Source != entity.BookingSourceAPI {
		t.Fatalf("source = %q", b.Source)
	}
}

func TestCreateFromTextDefaultsPartySize(t *testing.T) {
	svc := newTestService(t)

	b, err := svc.CreateFromText(context.Background(), booking.CreateBookingRequest{
		Text: "I want to make a reservation please",
	})
	if err != nil {
		t.Fatalf("CreateFromText: %v", err)
	}

	if b.PartySize != 1 {
		t.Fatalf("party size = %d, want default 1", b.PartySize)
	}
}

func TestCreateFromTextRejectsEmpty(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CreateFromText(context.Background(), booking.CreateBookingRequest{Text: "   "}); !errors.Is(err, booking.ErrMissingBookingText) {
		t.Fatalf("err = %v, want ErrMissingBookingText", err)
	}
}

func TestCreateFromAudioRoutesThroughText(t *testing.T) {
	t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "db.json"))

	log := logrus.New()
	store, err := jsonstore.New(log)
	if err != nil {
		t.Fatalf("jsonstore.New: %v", err)
	}
	repo := bookingRepository.New(store, log)
	svc := New(log, repo, nlp.NewBookingExtractor(), stubCalendar{}, stubMailer{},
		websocket.NewHub(log), utils.New(),
		&stubServiceTranscriber{text: "book a table for 2 people"})

	b, transcription, err := svc.CreateFromAudio(context.Background(), []byte("audio"), "audio/wav", "+15550001")
	if err != nil {
		t.Fatalf("CreateFromAudio: %v", err)
	}

	if transcription != "book a table for 2 people" {
		t.Fatalf("transcription = %q", transcription)
	}
	if b.PartySize != 2 {
		t.Fatalf("party size = %d, want 2", b.PartySize)
	}
	if b.Source != entity.BookingSourceWeb {
		t.Fatalf("source = %q, want web", b.Source)
	}
}

func TestUpdateBookingRejectsReverseTransition(t *testing.T) {
	svc := newTestService(t)

	b, err := svc.CreateFromText(context.Background(), booking.CreateBookingRequest{
		Text: "reserve a table for 2",
	})
	if err != nil {
		t.Fatalf("CreateFromText: %v", err)
	}

	confirmed := string(entity.BookingStatusConfirmed)
	if _, err := svc.UpdateBooking(context.Background(), b.ID, booking.UpdateBookingRequest{Status: &confirmed}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	pending := string(entity.BookingStatusPending)
	_, err = svc.UpdateBooking(context.Background(), b.ID, booking.UpdateBookingRequest{Status: &pending})
	if !errors.Is(err, booking.ErrInvalidStatusTransition) {
		t.Fatalf("err = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestListBookingsInvalidStatus(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.ListBookings(context.Background(), booking.ListBookingsQuery{Status: "archived"}); !errors.Is(err, booking.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}
