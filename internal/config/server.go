package config

import (
	"fmt"
	"os"
	"time"

	"BistroGolang/database/jsonstore"
	authHandler "BistroGolang/internal/api/auth/handler"
	authRepository "BistroGolang/internal/api/auth/repository"
	authService "BistroGolang/internal/api/auth/service"
	bookingHandler "BistroGolang/internal/api/booking/handler"
	bookingRepository "BistroGolang/internal/api/booking/repository"
	bookingService "BistroGolang/internal/api/booking/service"
	callHandler "BistroGolang/internal/api/call/handler"
	callRepository "BistroGolang/internal/api/call/repository"
	callService "BistroGolang/internal/api/call/service"
	reviewHandler "BistroGolang/internal/api/review/handler"
	reviewRepository "BistroGolang/internal/api/review/repository"
	reviewService "BistroGolang/internal/api/review/service"
	"BistroGolang/internal/middleware"
	"BistroGolang/pkg/audio"
	"BistroGolang/pkg/bcrypt"
	"BistroGolang/pkg/calendar"
	"BistroGolang/pkg/gemini"
	"BistroGolang/pkg/nlp"
	chatAssistant "BistroGolang/pkg/openai"
	"BistroGolang/pkg/s3"
	"BistroGolang/pkg/smtp"
	"BistroGolang/pkg/utils"
	websocketPkg "BistroGolang/pkg/websocket"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	store         *jsonstore.Store
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	utils         utils.IUtils
	bcryptUtils   bcrypt.IBcrypt
	handlers      []handler
	transcriber   audio.ITranscriber
	chatAssistant chatAssistant.IChatAssistant
	geminiClient  gemini.IGemini
	s3Client      s3.ItfS3
	calendar      calendar.ItfCalendar
	smtpMailer    smtp.ItfSmtp
	hub           *websocketPkg.Hub

	callHandlers *callHandler.CallHandler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.store == nil {
		return nil, fmt.Errorf("document store is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithStore() ServerOption {
	return func(s *Server) error {
		store, err := jsonstore.New(s.log)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to open document store: %v", err)
			}
			return fmt.Errorf("failed to open document store: %w", err)
		}
		s.store = store
		return nil
	}
}

func WithTranscriber() ServerOption {
	return func(s *Server) error {
		s.transcriber = audio.NewTranscriptionService()
		return nil
	}
}

func WithChatAssistant() ServerOption {
	return func(s *Server) error {
		s.chatAssistant = chatAssistant.NewChatAssistant()
		return nil
	}
}

func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		client, err := gemini.NewGeminiClient()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithCalendar() ServerOption {
	return func(s *Server) error {
		s.calendar = calendar.New()
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithWebsocketHub() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before the websocket hub")
		}
		s.hub = websocketPkg.NewHub(s.log)
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	extractor := nlp.NewBookingExtractor()

	// Auth Domain
	authRepo := authRepository.New(s.store, s.log)
	authServices := authService.New(s.log, authRepo, s.bcryptUtils)
	authHandlers := authHandler.New(s.log, s.validator, s.middleware, authServices)

	// Booking Domain
	bookingRepo := bookingRepository.New(s.store, s.log)
	bookingServices := bookingService.New(s.log, bookingRepo, extractor, s.calendar, s.smtpMailer, s.hub, s.utils, s.transcriber)
	bookingHandlers := bookingHandler.New(s.log, s.validator, s.middleware, bookingServices, s.utils)

	// Call Domain
	sessionStore := callRepository.NewSessionStore(s.log)
	interpreter := callService.NewInterpreter(s.log, extractor, s.chatAssistant, bookingServices)
	callFlow := callService.NewCallFlow(s.log, sessionStore, s.transcriber, interpreter, s.s3Client, s.hub)
	s.callHandlers = callHandler.New(s.log, s.validator, s.middleware, callFlow, bookingServices)

	// Review Domain
	reviewRepo := reviewRepository.New(s.store, s.log)
	reviewServices := reviewService.New(s.log, reviewRepo, s.geminiClient)
	reviewHandlers := reviewHandler.New(s.log, s.validator, s.middleware, reviewServices)

	s.setupHealthCheck()
	s.setupDashboardSocket()
	s.handlers = append(s.handlers, authHandlers, bookingHandlers, reviewHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	// Telephony providers retry aggressively on errors, only the JSON API
	// sits behind the per-IP limiter.
	router := s.engine.Group("/api/v1", s.middleware.NewRateLimiter)
	for _, h := range s.handlers {
		h.Start(router)
	}

	// Telephony webhooks live at the root, the dashboard call listing on
	// the versioned group.
	s.callHandlers.Start(s.engine)
	s.callHandlers.StartAPI(router)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status":                   "ok",
			"transcription_configured": s.transcriber != nil && s.transcriber.Configured(),
			"telephony_configured":     os.Getenv("TWILIO_ACCOUNT_SID") != "" && os.Getenv("TWILIO_AUTH_TOKEN") != "",
			"phone_number":             os.Getenv("TWILIO_PHONE_NUMBER"),
			"timestamp":                time.Now().UTC().Format(time.RFC3339),
		})
	})
}

func (s *Server) setupDashboardSocket() {
	s.engine.Use("/ws/dashboard", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.engine.Get("/ws/dashboard", websocket.New(func(conn *websocket.Conn) {
		s.hub.Serve(conn)
	}))
}
