package bookingService

import (
	"context"
	"fmt"
	"strings"
	"time"

	"BistroGolang/internal/api/booking"
	"BistroGolang/internal/entity"
	contextPkg "BistroGolang/pkg/context"
	"BistroGolang/pkg/nlp"
	"BistroGolang/pkg/websocket"

	"github.com/sirupsen/logrus"
)

const calendarSyncTimeout = 15 * time.Second

func (s *bookingService) CreateFromText(ctx context.Context, req booking.CreateBookingRequest) (entity.Booking, error) {
	requestID := contextPkg.GetRequestID(ctx)

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return entity.Booking{}, booking.ErrMissingBookingText
	}

	fields := s.extractor.Extract(text)
	if req.Phone != "" {
		fields.PhoneNumber = req.Phone
	}

	source := entity.BookingSourceAPI
	if req.Source != "" {
		source = entity.BookingSource(req.Source)
	}

	b, err := s.createBooking(ctx, fields, text, source, "")
	if err != nil {
		return entity.Booking{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"booking_id": b.ID,
		"source":     b.Source,
	}).Info("Booking created from text")

	if req.Email != "" {
		go s.sendConfirmation(b, req.Email)
	}

	return b, nil
}

// CreateFromAudio transcribes an uploaded clip and routes the text through
// the normal creation path. The transcription is returned so the client can
// show what was understood.
func (s *bookingService) CreateFromAudio(ctx context.Context, audioData []byte, contentType, phone string) (entity.Booking, string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	transcription, err := s.transcriber.Transcribe(ctx, audioData, contentType)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to transcribe uploaded audio")
		return entity.Booking{}, "", err
	}

	text := strings.TrimSpace(transcription)
	if text == "" {
		return entity.Booking{}, "", booking.ErrMissingBookingText
	}

	b, err := s.CreateFromText(ctx, booking.CreateBookingRequest{
		Text:   text,
		Phone:  phone,
		Source: string(entity.BookingSourceWeb),
	})
	if err != nil {
		return entity.Booking{}, "", err
	}

	return b, text, nil
}

// CreateFromFields is the call flow entry point. Fields arrive already
// extracted from a transcription, so no second parse happens here.
func (s *bookingService) CreateFromFields(ctx context.Context, fields nlp.BookingFields, rawText string, source entity.BookingSource, callID string) (entity.Booking, error) {
	requestID := contextPkg.GetRequestID(ctx)

	b, err := s.createBooking(ctx, fields, rawText, source, callID)
	if err != nil {
		return entity.Booking{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"booking_id": b.ID,
		"call_id":    callID,
	}).Info("Booking created from call")

	return b, nil
}

func (s *bookingService) createBooking(ctx context.Context, fields nlp.BookingFields, rawText string, source entity.BookingSource, callID string) (entity.Booking, error) {
	if fields.PartySize < 0 || fields.PartySize > 50 {
		return entity.Booking{}, booking.ErrInvalidPartySize
	}
	if fields.PartySize == 0 {
		fields.PartySize = 1
	}

	b := entity.Booking{
		CustomerName: fields.CustomerName,
		PhoneNumber:  s.utils.NormalizePhoneNumber(fields.PhoneNumber),
		PartySize:    fields.PartySize,
		Date:         fields.Date,
		StartTime:    fields.StartTime,
		EndTime:      fields.EndTime,
		Notes:        rawText,
		Status:       entity.BookingStatusPending,
		Source:       source,
		CallID:       callID,
	}

	created, err := s.bookingRepo.Add(ctx, b)
	if err != nil {
		return entity.Booking{}, err
	}

	s.hub.Broadcast(websocket.EventBookingCreated, created)

	// Calendar sync runs off the request path. A confirmed calendar event
	// promotes the booking to confirmed; any failure leaves it pending for
	// staff follow-up.
	go s.syncCalendar(created)

	return created, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int) (entity.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) ListBookings(ctx context.Context, query booking.ListBookingsQuery) ([]entity.Booking, error) {
	if query.Search != "" {
		return s.bookingRepo.Search(ctx, query.Search)
	}
	if query.Status != "" {
		status := entity.BookingStatus(query.Status)
		if !status.Valid() {
			return nil, booking.ErrInvalidStatus
		}
		return s.bookingRepo.ListByStatus(ctx, status)
	}
	return s.bookingRepo.List(ctx)
}

func (s *bookingService) UpdateBooking(ctx context.Context, id int, req booking.UpdateBookingRequest) (entity.Booking, error) {
	requestID := contextPkg.GetRequestID(ctx)

	updated, err := s.bookingRepo.Update(ctx, id, func(b *entity.Booking) error {
		if req.Status != nil {
			next := entity.BookingStatus(*req.Status)
			if !next.Valid() {
				return booking.ErrInvalidStatus
			}
			if !b.Status.CanTransitionTo(next) {
				return booking.ErrInvalidStatusTransition
			}
			b.Status = next
		}
		if req.CustomerName != nil {
			b.CustomerName = *req.CustomerName
		}
		if req.PartySize != nil {
			if *req.PartySize < 1 || *req.PartySize > 50 {
				return booking.ErrInvalidPartySize
			}
			b.PartySize = *req.PartySize
		}
		if req.Date != nil {
			b.Date = *req.Date
		}
		if req.StartTime != nil {
			b.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			b.EndTime = *req.EndTime
		}
		if req.Notes != nil {
			b.Notes = *req.Notes
		}
		return nil
	})
	if err != nil {
		return entity.Booking{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"booking_id": updated.ID,
		"status":     updated.Status,
	}).Info("Booking updated")

	s.hub.Broadcast(websocket.EventBookingUpdated, updated)

	return updated, nil
}

func (s *bookingService) syncCalendar(b entity.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), calendarSyncTimeout)
	defer cancel()

	if err := s.calendar.SyncBooking(ctx, b); err != nil {
		s.log.WithFields(logrus.Fields{
			"booking_id": b.ID,
			"error":      err.Error(),
		}).Warn("Calendar sync failed, booking stays pending")
		return
	}

	confirmed, err := s.bookingRepo.Update(ctx, b.ID, func(stored *entity.Booking) error {
		if !stored.Status.CanTransitionTo(entity.BookingStatusConfirmed) {
			return nil
		}
		stored.Status = entity.BookingStatusConfirmed
		return nil
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"booking_id": b.ID,
			"error":      err.Error(),
		}).Warn("Failed to mark booking confirmed after calendar sync")
		return
	}

	s.hub.Broadcast(websocket.EventBookingUpdated, confirmed)
}

func (s *bookingService) sendConfirmation(b entity.Booking, email string) {
	summary := fmt.Sprintf("party of %d on %s at %s", b.PartySize, b.Date, b.StartTime)
	if b.Date == "" {
		summary = "your reservation request"
	}

	if err := s.mailer.SendBookingConfirmation(email, b.ID, summary); err != nil {
		s.log.WithFields(logrus.Fields{
			"booking_id": b.ID,
			"error":      err.Error(),
		}).Warn("Failed to send booking confirmation email")
	}
}
