package main

import (
	"os"
	"os/signal"
	"syscall"

	"BistroGolang/internal/config"
	"BistroGolang/pkg/log"
	"BistroGolang/pkg/smtp"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	smtpMailer := smtp.New()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithStore(),
		config.WithMiddleware(),
		config.WithWebsocketHub(),
		config.WithTranscriber(),
		config.WithChatAssistant(),
		config.WithGeminiClient(),
		config.WithS3Client(),
		config.WithCalendar(),
		config.WithSMTPMailer(smtpMailer),
		config.WithBcryptUtils(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
}
