package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/JexSrs/go-ollama"
)

const ollamaSystemMessage = "You are an expert software engineer and code mentor."

// OllamaLLM runs prompts against a local Ollama server.
type OllamaLLM struct {
	client *ollama.Ollama
	model  string
}

// NewOllamaLLM creates a client for the Ollama server at host.
func NewOllamaLLM(host, model string) (*OllamaLLM, error) {
	ollamaURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaLLM{
		client: ollama.New(*ollamaURL),
		model:  model,
	}, nil
}

// GenerateResponse runs prompt through Ollama's generate API.
func (o *OllamaLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	// The client has no context support; at least skip work for dead requests.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := o.client.Generate(
		o.client.Generate.WithModel(o.model),
		o.client.Generate.WithSystem(ollamaSystemMessage),
		o.client.Generate.WithPrompt(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	if !res.Done {
		return "", fmt.Errorf("ollama request did not complete")
	}
	if res.Response == "" {
		return "", fmt.Errorf("empty response from ollama")
	}
	return res.Response, nil
}

// SendMessage is a one-shot generate call; generate requests carry no history.
func (o *OllamaLLM) SendMessage(ctx context.Context, message string) (string, error) {
	return o.GenerateResponse(ctx, message)
}
