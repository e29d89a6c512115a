package service

import "context"

// LLM is the "send prompt, get text or error" capability every model backend
// provides. Implementations are configured once at startup and hold no
// per-request state, so one value is shared by all concurrent requests.
type LLM interface {
	// GenerateResponse runs a single-shot completion for prompt.
	GenerateResponse(ctx context.Context, prompt string) (string, error)

	// SendMessage sends message as the first turn of a brand-new conversation
	// and returns the model's reply. No model-side history is carried over.
	SendMessage(ctx context.Context, message string) (string, error)
}
