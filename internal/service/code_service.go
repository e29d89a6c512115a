package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ahmednasr/code-analyzer/server/internal/logging"
	"github.com/ahmednasr/code-analyzer/server/internal/models"
)

// InputError is a client input problem. Its message is safe to show to the caller.
type InputError struct {
	msg string
}

func (e *InputError) Error() string { return e.msg }

// Client input errors returned by CodeService.Analyze before any model call.
var (
	ErrNoInput      = &InputError{"Either file or code_text must be provided."}
	ErrNotText      = &InputError{"File must be a text file (UTF-8)."}
	ErrEmptyContent = &InputError{"Code content is empty."}
)

// ---- Repository contract ---------------------------------------------------

// EventRepository persists request events. It never sees code or results.
type EventRepository interface {
	Insert(ctx context.Context, e models.AnalysisEvent) error
}

// ---- Service interface + implementation ------------------------------------

// CodeService is the caller-facing gateway: it validates input, delegates to
// AnalysisService and reshapes whatever comes back into a stable result.
type CodeService interface {
	// Analyze fails only with an *InputError; every model outcome is rendered
	// into a well-formed AnalysisResult.
	Analyze(ctx context.Context, in models.AnalysisInput) (models.AnalysisResult, error)

	// Chat forwards a chat turn unchanged; empty question or context is allowed.
	Chat(ctx context.Context, req models.ChatRequest) models.ChatResponse
}

type codeService struct {
	analysis AnalysisService
	events   EventRepository
	log      *logrus.Entry
}

// NewCodeService creates a new instance of CodeService. events may be nil, in
// which case nothing is recorded.
func NewCodeService(analysis AnalysisService, events EventRepository) CodeService {
	return &codeService{
		analysis: analysis,
		events:   events,
		log:      logging.Component("gateway"),
	}
}

// Analyze validates the input, runs the analysis and decodes the reply.
func (s *codeService) Analyze(ctx context.Context, in models.AnalysisInput) (models.AnalysisResult, error) {
	req, err := ResolveInput(in)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	start := time.Now()
	text := s.analysis.Analyze(ctx, req.Content, req.Filename)
	outcome := DecodeAnalysis(text)

	s.log.WithFields(logrus.Fields{
		"filename": req.Filename,
		"bytes":    len(req.Content),
		"outcome":  outcome.Kind.String(),
	}).Info("Analysis finished")

	s.record(ctx, models.AnalysisEvent{
		Kind:         models.EventAnalyze,
		Filename:     req.Filename,
		ContentBytes: len(req.Content),
		Outcome:      outcome.Kind.String(),
		DurationMS:   time.Since(start).Milliseconds(),
	})

	return outcome.Render(), nil
}

// Chat is pure delegation to the analysis service.
func (s *codeService) Chat(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	start := time.Now()
	reply := s.analysis.Chat(ctx, req.History, req.Question, req.CodeContext)

	outcome := "ok"
	if strings.HasPrefix(reply, ChatErrorPrefix) {
		outcome = "error"
	}
	s.record(ctx, models.AnalysisEvent{
		Kind:         models.EventChat,
		ContentBytes: len(req.CodeContext),
		HistoryTurns: len(req.History),
		Outcome:      outcome,
		DurationMS:   time.Since(start).Milliseconds(),
	})

	return models.ChatResponse{Response: reply}
}

// record stores e; failures are logged and otherwise ignored.
func (s *codeService) record(ctx context.Context, e models.AnalysisEvent) {
	if s.events == nil {
		return
	}
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	if err := s.events.Insert(ctx, e); err != nil {
		s.log.WithError(err).WithField("kind", e.Kind).Warn("Failed to record event")
	}
}

// ResolveInput picks the code to analyse. An uploaded file takes precedence
// over code_text; raw text defaults to the "snippet" filename.
func ResolveInput(in models.AnalysisInput) (models.AnalysisRequest, error) {
	var content string
	switch {
	case in.HasFile:
		if !utf8.Valid(in.File) {
			return models.AnalysisRequest{}, ErrNotText
		}
		content = string(in.File)
	case in.CodeText != "":
		content = in.CodeText
	default:
		return models.AnalysisRequest{}, ErrNoInput
	}

	if strings.TrimSpace(content) == "" {
		return models.AnalysisRequest{}, ErrEmptyContent
	}

	filename := in.Filename
	if filename == "" {
		filename = models.DefaultFilename
	}
	return models.AnalysisRequest{Content: content, Filename: filename}, nil
}

// ---- Decoding --------------------------------------------------------------

// OutcomeKind says how the analysis text was interpreted.
type OutcomeKind int

const (
	// OutcomeParsed means the text decoded into an AnalysisResult.
	OutcomeParsed OutcomeKind = iota
	// OutcomeRawFallback means the text was not the requested JSON.
	OutcomeRawFallback
	// OutcomeUpstreamError means the text is the {"error": ...} payload of a failed call.
	OutcomeUpstreamError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeParsed:
		return "parsed"
	case OutcomeRawFallback:
		return "raw_fallback"
	case OutcomeUpstreamError:
		return "upstream_error"
	}
	return "unknown"
}

// Outcome is the decoded analysis text.
type Outcome struct {
	Kind   OutcomeKind
	Result models.AnalysisResult // OutcomeParsed
	Raw    string                // OutcomeRawFallback
	Err    string                // OutcomeUpstreamError
}

// DecodeAnalysis tries to read text as an AnalysisResult. It never fails:
// anything that is not a JSON object becomes a raw fallback.
func DecodeAnalysis(text string) Outcome {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return Outcome{Kind: OutcomeRawFallback, Raw: text}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return Outcome{Kind: OutcomeRawFallback, Raw: text}
	}

	if result.Error != "" && result.Summary == "" {
		return Outcome{Kind: OutcomeUpstreamError, Err: result.Error}
	}
	return Outcome{Kind: OutcomeParsed, Result: result}
}

// Render turns any outcome into the caller-facing result shape.
func (o Outcome) Render() models.AnalysisResult {
	switch o.Kind {
	case OutcomeParsed:
		r := o.Result
		r.Normalize()
		return r
	case OutcomeUpstreamError:
		r := placeholderResult(models.FailedSummary, o.Err)
		r.Error = o.Err
		return r
	default:
		return FallbackResult(o.Raw)
	}
}

// FallbackResult wraps model output that was not valid JSON.
func FallbackResult(raw string) models.AnalysisResult {
	return placeholderResult(models.RawFormatSummary, raw)
}

func placeholderResult(summary, explanation string) models.AnalysisResult {
	return models.AnalysisResult{
		Summary:     summary,
		Explanation: explanation,
		QualityAnalysis: models.QualityAnalysis{
			Complexity:       models.UnknownComplexity,
			ReadabilityScore: models.UnknownReadability,
			Suggestions:      []string{},
		},
		KeyComponents: []models.KeyComponent{},
	}
}
