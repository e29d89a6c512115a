package service

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// GeminiLLM talks to Gemini through its OpenAI-compatible endpoint, which
// accepts a plain API key instead of cloud credentials.
type GeminiLLM struct {
	client      *openai.Client
	model       string
	temperature float64
}

// NewGeminiLLM builds a client for baseURL authenticated with apiKey.
func NewGeminiLLM(apiKey, baseURL, model string, temperature float32) *GeminiLLM {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)

	return &GeminiLLM{
		client:      client,
		model:       model,
		temperature: float64(temperature),
	}
}

// GenerateResponse sends prompt as a single user message.
func (g *GeminiLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, prompt)
}

// SendMessage starts a new conversation whose only message is message.
func (g *GeminiLLM) SendMessage(ctx context.Context, message string) (string, error) {
	return g.complete(ctx, message)
}

func (g *GeminiLLM) complete(ctx context.Context, content string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.F(g.model),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(content),
		}),
		Temperature: openai.F(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}
