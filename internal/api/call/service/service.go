package callService

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	bookingService "BistroGolang/internal/api/booking/service"
	"BistroGolang/internal/api/call"
	callRepository "BistroGolang/internal/api/call/repository"
	"BistroGolang/internal/entity"
	"BistroGolang/pkg/audio"
	"BistroGolang/pkg/nlp"
	chatAssistant "BistroGolang/pkg/openai"
	"BistroGolang/pkg/s3"
	"BistroGolang/pkg/websocket"

	"github.com/sirupsen/logrus"
)

const (
	maxAttempts          = 3
	recordingFetchLimit  = 10 * 1024 * 1024
	recordingFetchWindow = 10 * time.Second
)

type ICallFlowService interface {
	HandleCallStart(ctx context.Context, req call.VoiceWebhookRequest) (string, error)
	HandleRecording(ctx context.Context, req call.RecordingWebhookRequest) (string, error)
	HandleRecordingStatus(ctx context.Context, req call.RecordingStatusRequest) error
	HandleCallStatus(ctx context.Context, req call.StatusWebhookRequest) error
	ListActiveCalls(ctx context.Context) []entity.CallSession
}

type IInterpreter interface {
	Interpret(ctx context.Context, session entity.CallSession, transcription string) entity.ConversationResult
}

type callFlowService struct {
	log         *logrus.Logger
	sessions    callRepository.SessionStore
	transcriber audio.ITranscriber
	interpreter IInterpreter
	s3Client    s3.ItfS3
	hub         *websocket.Hub
	httpClient  *http.Client

	providerSid   string
	providerToken string
}

func NewCallFlow(
	log *logrus.Logger,
	sessions callRepository.SessionStore,
	transcriber audio.ITranscriber,
	interpreter IInterpreter,
	s3Client s3.ItfS3,
	hub *websocket.Hub,
) ICallFlowService {
	return &callFlowService{
		log:           log,
		sessions:      sessions,
		transcriber:   transcriber,
		interpreter:   interpreter,
		s3Client:      s3Client,
		hub:           hub,
		httpClient:    &http.Client{Timeout: recordingFetchWindow},
		providerSid:   os.Getenv("TWILIO_ACCOUNT_SID"),
		providerToken: os.Getenv("TWILIO_AUTH_TOKEN"),
	}
}

type interpreter struct {
	log         *logrus.Logger
	extractor   nlp.Extractor
	assistant   chatAssistant.IChatAssistant
	bookings    bookingService.IBookingService
	requireName bool
}

func NewInterpreter(
	log *logrus.Logger,
	extractor nlp.Extractor,
	assistant chatAssistant.IChatAssistant,
	bookings bookingService.IBookingService,
) IInterpreter {
	requireName := false
	if parsed, err := strconv.ParseBool(os.Getenv("BOOKING_REQUIRE_NAME")); err == nil {
		requireName = parsed
	}

	return &interpreter{
		log:         log,
		extractor:   extractor,
		assistant:   assistant,
		bookings:    bookings,
		requireName: requireName,
	}
}
