package bookingService

import (
	"context"

	"BistroGolang/internal/api/booking"
	bookingRepository "BistroGolang/internal/api/booking/repository"
	"BistroGolang/internal/entity"
	"BistroGolang/pkg/audio"
	"BistroGolang/pkg/calendar"
	"BistroGolang/pkg/nlp"
	"BistroGolang/pkg/smtp"
	"BistroGolang/pkg/utils"
	"BistroGolang/pkg/websocket"

	"github.com/sirupsen/logrus"
)

type IBookingService interface {
	CreateFromText(ctx context.Context, req booking.CreateBookingRequest) (entity.Booking, error)
	CreateFromAudio(ctx context.Context, audioData []byte, contentType, phone string) (entity.Booking, string, error)
	CreateFromFields(ctx context.Context, fields nlp.BookingFields, rawText string, source entity.BookingSource, callID string) (entity.Booking, error)
	GetBooking(ctx context.Context, id int) (entity.Booking, error)
	ListBookings(ctx context.Context, query booking.ListBookingsQuery) ([]entity.Booking, error)
	UpdateBooking(ctx context.Context, id int, req booking.UpdateBookingRequest) (entity.Booking, error)
}

type bookingService struct {
	log         *logrus.Logger
	bookingRepo bookingRepository.Repository
	extractor   nlp.Extractor
	calendar    calendar.ItfCalendar
	mailer      smtp.ItfSmtp
	hub         *websocket.Hub
	utils       utils.IUtils
	transcriber audio.ITranscriber
}

func New(
	log *logrus.Logger,
	bookingRepo bookingRepository.Repository,
	extractor nlp.Extractor,
	cal calendar.ItfCalendar,
	mailer smtp.ItfSmtp,
	hub *websocket.Hub,
	utilsPkg utils.IUtils,
	transcriber audio.ITranscriber,
) IBookingService {
	return &bookingService{
		log:         log,
		bookingRepo: bookingRepo,
		extractor:   extractor,
		calendar:    cal,
		mailer:      mailer,
		hub:         hub,
		utils:       utilsPkg,
		transcriber: transcriber,
	}
}
