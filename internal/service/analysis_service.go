package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ahmednasr/code-analyzer/server/internal/logging"
	"github.com/ahmednasr/code-analyzer/server/internal/models"
)

// ChatErrorPrefix starts every chat reply produced for a failed model call.
const ChatErrorPrefix = "Error getting response: "

const fence = "```"

const analysisPromptTemplate = `You are an expert software engineer and code mentor.
Analyze the following source code from a file named "%s".

Please provide the output in the following JSON format ONLY (no markdown backticks around the json):
{
    "summary": "A brief 2-3 sentence summary of what this code does.",
    "explanation": "A simple, beginner-friendly explanation of the main functions, classes, and logic flow.",
    "quality_analysis": {
        "complexity": "Low/Medium/High",
        "readability_score": "1-10",
        "suggestions": ["List of specific suggestions to improve the code", "Another suggestion"]
    },
    "key_components": [
        {"name": "function_or_class_name", "description": "What it does"}
    ]
}

Here is the code:

%s
`

const chatPromptTemplate = `Context: The user is asking questions about the following code:

%s

---
Chat History:
%s

User Question: %s

Answer the user's question simply and clearly, referencing the code where necessary.
`

// AnalysisService turns code into model prompts and model replies into text.
// Model failures come back as text, never as errors.
type AnalysisService interface {
	// Analyze returns the model's (fence-stripped) analysis text, or
	// {"error": "..."} when the call failed.
	Analyze(ctx context.Context, content, filename string) string

	// Chat answers question about codeContext given the caller's history,
	// or returns "Error getting response: ..." when the call failed.
	Chat(ctx context.Context, history []models.ChatTurn, question, codeContext string) string
}

type analysisService struct {
	llm LLM
	log *logrus.Entry
}

// NewAnalysisService wires the model backend.
func NewAnalysisService(llm LLM) AnalysisService {
	return &analysisService{
		llm: llm,
		log: logging.Component("analysis"),
	}
}

func (s *analysisService) Analyze(ctx context.Context, content, filename string) string {
	prompt := BuildAnalysisPrompt(content, filename)
	s.log.WithFields(logrus.Fields{
		"filename":     filename,
		"prompt_bytes": len(prompt),
	}).Debug("Sending analysis prompt")

	text, err := s.llm.GenerateResponse(ctx, prompt)
	if err != nil {
		s.log.WithError(err).WithField("filename", filename).Error("Analysis call failed")
		return errorPayload("Failed to analyze code: " + err.Error())
	}

	return StripCodeFences(text)
}

func (s *analysisService) Chat(ctx context.Context, history []models.ChatTurn, question, codeContext string) string {
	prompt := BuildChatPrompt(history, question, codeContext)
	s.log.WithFields(logrus.Fields{
		"history_turns": len(history),
		"prompt_bytes":  len(prompt),
	}).Debug("Sending chat prompt")

	reply, err := s.llm.SendMessage(ctx, prompt)
	if err != nil {
		s.log.WithError(err).Error("Chat call failed")
		return ChatErrorPrefix + err.Error()
	}
	return reply
}

// BuildAnalysisPrompt embeds filename and content verbatim in the analysis instructions.
func BuildAnalysisPrompt(content, filename string) string {
	return fmt.Sprintf(analysisPromptTemplate, filename, content)
}

// BuildChatPrompt serialises the caller's history next to the code and the new question.
func BuildChatPrompt(history []models.ChatTurn, question, codeContext string) string {
	return fmt.Sprintf(chatPromptTemplate, codeContext, formatHistory(history), question)
}

func formatHistory(history []models.ChatTurn) string {
	if len(history) == 0 {
		return "(no previous messages)"
	}

	var sb strings.Builder
	for i, turn := range history {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(turn.Parts, "\n"))
	}
	return sb.String()
}

// StripCodeFences removes a leading ``` marker (with an optional language tag)
// and a trailing ``` marker. Anything else is left alone.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, fence) {
		text = stripLanguageTag(text[len(fence):])
	}
	if strings.HasSuffix(text, fence) {
		text = text[:len(text)-len(fence)]
	}
	return strings.TrimSpace(text)
}

// stripLanguageTag drops a tag like "json" or "c++" when it is followed by a
// line break, the start of a JSON value, or nothing.
func stripLanguageTag(text string) string {
	end := 0
	for end < len(text) && isTagChar(text[end]) {
		end++
	}
	if end == 0 {
		return text
	}

	rest := strings.TrimLeft(text[end:], " \t")
	if rest == "" || rest[0] == '\n' || rest[0] == '\r' || rest[0] == '{' || rest[0] == '[' {
		return rest
	}
	return text
}

func isTagChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '-' || c == '+' || c == '#' || c == '.'
}

func errorPayload(msg string) string {
	b, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		return `{"error": "Failed to analyze code"}`
	}
	return string(b)
}
