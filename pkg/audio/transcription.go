package audio

import (
	"bytes"
	"context"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ITranscriber turns a recorded audio buffer into text. An empty string is a
// valid result and means the service heard nothing usable; only transport or
// API failures return an error.
type ITranscriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
	Configured() bool
}

type transcriptionService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	apiKey  string
}

func NewTranscriptionService() ITranscriber {
	apiKey := os.Getenv("TRANSCRIPTION_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("TRANSCRIPTION_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	model := os.Getenv("TRANSCRIPTION_MODEL")
	if model == "" {
		model = openai.Whisper1
	}

	timeout := 15 * time.Second
	if raw := os.Getenv("TRANSCRIPTION_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}

	return &transcriptionService{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		apiKey:  apiKey,
	}
}

func (t *transcriptionService) Configured() bool {
	return t.apiKey != ""
}

func (t *transcriptionService) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	filename := "recording.wav"
	if contentType == "audio/mpeg" || contentType == "audio/mp3" {
		filename = "recording.mp3"
	}

	req := openai.AudioRequest{
		Model:    t.model,
		Reader:   bytes.NewReader(audio),
		FilePath: filename,
		Language: "en",
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}
