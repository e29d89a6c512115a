package service

import "context"

const dummyAnalysis = `{
    "summary": "<placeholder summary>",
    "explanation": "<placeholder explanation>",
    "quality_analysis": {
        "complexity": "Low",
        "readability_score": "5",
        "suggestions": []
    },
    "key_components": []
}`

type dummyLLM struct{}

func (d dummyLLM) GenerateResponse(context.Context, string) (string, error) {
	return dummyAnalysis, nil
}

func (d dummyLLM) SendMessage(context.Context, string) (string, error) {
	return "<placeholder answer>", nil
}

// NewDummyLLM returns an LLM that answers without any network call.
func NewDummyLLM() LLM {
	return dummyLLM{}
}
