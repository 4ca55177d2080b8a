package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"BistroGolang/pkg/nlp"

	"github.com/sashabaranov/go-openai"
)

// IChatAssistant refines a transcribed utterance: it produces a short spoken
// reply and, when the model heard concrete reservation details, a structured
// field block. The assistant is optional; callers must work without it.
type IChatAssistant interface {
	InterpretBooking(ctx context.Context, utterance string) (string, *nlp.BookingFields, error)
	Configured() bool
}

const bookingMarker = "BOOKING_DATA:"

type chatAssistant struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	apiKey  string
}

func NewChatAssistant() IChatAssistant {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_CHAT_MODEL")

	if model == "" {
		model = openai.GPT4
	}

	timeout := 20 * time.Second
	if raw := os.Getenv("OPENAI_CHAT_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &chatAssistant{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		apiKey:  apiKey,
	}
}

func (c *chatAssistant) Configured() bool {
	return c.apiKey != ""
}

func (c *chatAssistant) InterpretBooking(ctx context.Context, utterance string) (string, *nlp.BookingFields, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	systemPrompt := `You are the phone assistant of a restaurant taking table reservations.

Rules:
- Reply in 1-2 short spoken sentences, no markdown.
- If the caller stated reservation details, append one line at the end:
  BOOKING_DATA: {"customer_name":"...","phone_number":"...","party_size":4,"date":"YYYY-MM-DD","start_time":"HH:MM","end_time":"HH:MM","notes":"..."}
- Use null or omit fields the caller did not state. Never invent details.
- For times use 24-hour HH:MM. For dates use YYYY-MM-DD.

Example input: "table for 4 tomorrow at 7 pm, name is John Smith"
Example output: Lovely, a table for four tomorrow at seven. BOOKING_DATA: {"customer_name":"John Smith","party_size":4,"start_time":"19:00"}`

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: utterance,
		},
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: 0.3,
			MaxTokens:   200,
		},
	)

	if err != nil {
		return "", nil, fmt.Errorf("chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil, fmt.Errorf("no response from chat completion")
	}

	reply, fields := parseBookingMarker(resp.Choices[0].Message.Content)
	return reply, fields, nil
}

var jsonBlockPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// parseBookingMarker splits the model output into the speakable reply and the
// optional labelled JSON block. The block is untrusted: malformed JSON is
// dropped, not an error, and the marker never reaches the caller's ears.
func parseBookingMarker(content string) (string, *nlp.BookingFields) {
	idx := strings.Index(content, bookingMarker)
	if idx < 0 {
		return strings.TrimSpace(content), nil
	}

	reply := strings.TrimSpace(content[:idx])
	tail := content[idx+len(bookingMarker):]

	raw := jsonBlockPattern.FindString(tail)
	if raw == "" {
		return reply, nil
	}

	var fields nlp.BookingFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return reply, nil
	}

	if fields.PartySize < 0 {
		fields.PartySize = 0
	}

	return reply, &fields
}
