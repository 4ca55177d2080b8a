package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type IGemini interface {
	GenerateReviewReply(ctx context.Context, authorName string, rating int, reviewText string) (string, error)
}

type geminiClient struct {
	apiKey    string
	modelName string
	client    *genai.Client
}

func NewGeminiClient() (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = "gemini-pro"
	}

	// Without a key the client still constructs, replies then fall back to
	// the template path.
	if apiKey == "" {
		return &geminiClient{modelName: modelName}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		apiKey:    apiKey,
		modelName: modelName,
		client:    client,
	}, nil
}

func (g *geminiClient) GenerateReviewReply(ctx context.Context, authorName string, rating int, reviewText string) (string, error) {
	if g.client == nil {
		return "", errors.New("gemini client not configured")
	}

	model := g.client.GenerativeModel(g.modelName)

	prompt := fmt.Sprintf(`Write a short, warm reply from a restaurant manager to this customer review.
Keep it under 3 sentences, address the reviewer by name, thank them, and if the rating is low apologize and offer to make it right. Plain text only.

Reviewer: %s
Rating: %d/5
Review: %s`, authorName, rating, reviewText)

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini API")
	}

	response := res.Candidates[0].Content.Parts[0]
	text, ok := response.(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from Gemini API")
	}

	return string(text), nil
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
