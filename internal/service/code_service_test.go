package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmednasr/code-analyzer/server/internal/models"
)

const validAnalysis = `{
	"summary": "Adds numbers.",
	"explanation": "add returns a+b.",
	"quality_analysis": {"complexity": "Low", "readability_score": "9", "suggestions": ["Add docs"]},
	"key_components": [{"name": "add", "description": "Adds two ints"}]
}`

func TestResolveInput(t *testing.T) {
	tests := []struct {
		name     string
		in       models.AnalysisInput
		wantErr  error
		wantText string
		wantName string
	}{
		{name: "nothing supplied", in: models.AnalysisInput{}, wantErr: ErrNoInput},
		{name: "empty code_text", in: models.AnalysisInput{CodeText: ""}, wantErr: ErrNoInput},
		{name: "whitespace code_text", in: models.AnalysisInput{CodeText: "  \n\t "}, wantErr: ErrEmptyContent},
		{name: "empty file", in: models.AnalysisInput{HasFile: true, Filename: "a.go"}, wantErr: ErrEmptyContent},
		{name: "binary file", in: models.AnalysisInput{HasFile: true, File: []byte{0xff, 0xfe, 0x00, 0x81}, Filename: "a.bin"}, wantErr: ErrNotText},
		{name: "raw text defaults filename", in: models.AnalysisInput{CodeText: "x := 1"}, wantText: "x := 1", wantName: "snippet"},
		{name: "raw text with filename", in: models.AnalysisInput{CodeText: "x := 1", Filename: "x.go"}, wantText: "x := 1", wantName: "x.go"},
		{name: "file", in: models.AnalysisInput{HasFile: true, File: []byte("package main"), Filename: "main.go"}, wantText: "package main", wantName: "main.go"},
		{
			name:     "file wins over code_text",
			in:       models.AnalysisInput{HasFile: true, File: []byte("from file"), Filename: "f.txt", CodeText: "from text"},
			wantText: "from file",
			wantName: "f.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ResolveInput(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, req.Content)
			assert.Equal(t, tt.wantName, req.Filename)
		})
	}
}

func TestInputErrorMessagesDiffer(t *testing.T) {
	assert.NotEqual(t, ErrNotText.Error(), ErrEmptyContent.Error())
	assert.NotEqual(t, ErrNoInput.Error(), ErrEmptyContent.Error())
}

func TestCodeServiceAnalyze_InvalidInputMakesNoCalls(t *testing.T) {
	inputs := []models.AnalysisInput{
		{},
		{CodeText: ""},
		{CodeText: "   "},
		{HasFile: true, File: []byte{0xc3, 0x28}},
	}

	for i, in := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			llm := new(MockLLM)
			svc := NewCodeService(NewAnalysisService(llm), nil)

			_, err := svc.Analyze(context.Background(), in)

			var inputErr *InputError
			assert.ErrorAs(t, err, &inputErr)
			llm.AssertNotCalled(t, "GenerateResponse", mock.Anything, mock.Anything)
		})
	}
}

func TestCodeServiceAnalyze_Parsed(t *testing.T) {
	analysis := new(MockAnalysisService)
	analysis.On("Analyze", mock.Anything, "func add() {}", "snippet").Return(validAnalysis)

	result, err := NewCodeService(analysis, nil).Analyze(context.Background(), models.AnalysisInput{CodeText: "func add() {}"})

	require.NoError(t, err)
	assert.Equal(t, "Adds numbers.", result.Summary)
	assert.Equal(t, "Low", result.QualityAnalysis.Complexity)
	assert.Equal(t, models.Score("9"), result.QualityAnalysis.ReadabilityScore)
	assert.Equal(t, []string{"Add docs"}, result.QualityAnalysis.Suggestions)
	assert.Equal(t, []models.KeyComponent{{Name: "add", Description: "Adds two ints"}}, result.KeyComponents)
	assert.Empty(t, result.Error)
}

func TestCodeServiceAnalyze_RawFallback(t *testing.T) {
	raw := "Sure! This code adds two numbers. It looks fine."
	analysis := new(MockAnalysisService)
	analysis.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return(raw)

	result, err := NewCodeService(analysis, nil).Analyze(context.Background(), models.AnalysisInput{CodeText: "x"})

	require.NoError(t, err)
	assert.Equal(t, models.RawFormatSummary, result.Summary)
	assert.Equal(t, raw, result.Explanation)
	assert.Equal(t, "Unknown", result.QualityAnalysis.Complexity)
	assert.Equal(t, models.Score("N/A"), result.QualityAnalysis.ReadabilityScore)
	assert.NotNil(t, result.QualityAnalysis.Suggestions)
	assert.Empty(t, result.QualityAnalysis.Suggestions)
	assert.NotNil(t, result.KeyComponents)
	assert.Empty(t, result.KeyComponents)
}

func TestCodeServiceAnalyze_FencedOutputIsDecoded(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateResponse", mock.Anything, mock.Anything).Return("```json\n"+validAnalysis+"\n```", nil)

	result, err := NewCodeService(NewAnalysisService(llm), nil).Analyze(context.Background(), models.AnalysisInput{CodeText: "x"})

	require.NoError(t, err)
	assert.Equal(t, "Adds numbers.", result.Summary)
	assert.Len(t, result.KeyComponents, 1)
}

func TestCodeServiceAnalyze_UpstreamErrorKeepsShape(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateResponse", mock.Anything, mock.Anything).Return("", errors.New("permission denied"))

	result, err := NewCodeService(NewAnalysisService(llm), nil).Analyze(context.Background(), models.AnalysisInput{CodeText: "x"})

	require.NoError(t, err)
	assert.Equal(t, "Failed to analyze code: permission denied", result.Error)
	assert.Equal(t, models.FailedSummary, result.Summary)
	assert.Equal(t, "Unknown", result.QualityAnalysis.Complexity)
	assert.NotNil(t, result.KeyComponents)
}

func TestDecodeAnalysis(t *testing.T) {
	tests := []struct {
		name string
		text string
		want OutcomeKind
	}{
		{"object", validAnalysis, OutcomeParsed},
		{"empty object", "{}", OutcomeParsed},
		{"numeric score", `{"summary":"s","quality_analysis":{"readability_score":7}}`, OutcomeParsed},
		{"error payload", `{"error":"boom"}`, OutcomeUpstreamError},
		{"prose", "hello", OutcomeRawFallback},
		{"null", "null", OutcomeRawFallback},
		{"array", "[1,2]", OutcomeRawFallback},
		{"truncated", `{"summary": "s"`, OutcomeRawFallback},
		{"trailing prose", `{"summary": "s"} hope this helps`, OutcomeRawFallback},
		{"wrong field type", `{"key_components": "none"}`, OutcomeRawFallback},
		{"empty", "", OutcomeRawFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := DecodeAnalysis(tt.text)
			assert.Equal(t, tt.want, outcome.Kind)

			result := outcome.Render()
			assert.NotNil(t, result.KeyComponents)
			assert.NotNil(t, result.QualityAnalysis.Suggestions)
			if tt.want == OutcomeRawFallback {
				assert.Equal(t, tt.text, result.Explanation)
				assert.Equal(t, "Unknown", result.QualityAnalysis.Complexity)
				assert.Empty(t, result.KeyComponents)
			}
		})
	}
}

func TestDecodeAnalysis_NumericScoreBecomesText(t *testing.T) {
	result := DecodeAnalysis(`{"quality_analysis":{"readability_score":7}}`).Render()
	assert.Equal(t, models.Score("7"), result.QualityAnalysis.ReadabilityScore)
}

func TestCodeServiceChat(t *testing.T) {
	analysis := new(MockAnalysisService)
	analysis.On("Chat", mock.Anything, []models.ChatTurn(nil), "Why?", "code").Return("Because.")

	resp := NewCodeService(analysis, nil).Chat(context.Background(), models.ChatRequest{Question: "Why?", CodeContext: "code"})

	assert.Equal(t, models.ChatResponse{Response: "Because."}, resp)
}

func TestCodeServiceChat_EmptyFieldsPassThrough(t *testing.T) {
	analysis := new(MockAnalysisService)
	analysis.On("Chat", mock.Anything, mock.Anything, "", "").Return("Ask me something.")

	resp := NewCodeService(analysis, nil).Chat(context.Background(), models.ChatRequest{})

	assert.Equal(t, "Ask me something.", resp.Response)
	analysis.AssertExpectations(t)
}

func TestCodeServiceChat_ErrorText(t *testing.T) {
	llm := new(MockLLM)
	llm.On("SendMessage", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	resp := NewCodeService(NewAnalysisService(llm), nil).Chat(context.Background(), models.ChatRequest{
		History:     []models.ChatTurn{},
		Question:    "What does it do?",
		CodeContext: "print(1)",
	})

	assert.True(t, strings.HasPrefix(resp.Response, "Error getting response:"))
}

func TestCodeServiceRecordsEvents(t *testing.T) {
	analysis := new(MockAnalysisService)
	analysis.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return("not json")
	analysis.On("Chat", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(ChatErrorPrefix + "x")

	events := new(MockEventRepository)
	events.On("Insert", mock.Anything, mock.MatchedBy(func(e models.AnalysisEvent) bool {
		return e.Kind == models.EventAnalyze && e.Outcome == "raw_fallback" &&
			e.Filename == "a.go" && e.ContentBytes == 4 && e.ID != "" && !e.CreatedAt.IsZero()
	})).Return(nil).Once()
	events.On("Insert", mock.Anything, mock.MatchedBy(func(e models.AnalysisEvent) bool {
		return e.Kind == models.EventChat && e.Outcome == "error" && e.HistoryTurns == 1
	})).Return(errors.New("mongo down")).Once()

	svc := NewCodeService(analysis, events)
	_, err := svc.Analyze(context.Background(), models.AnalysisInput{HasFile: true, File: []byte("code"), Filename: "a.go"})
	require.NoError(t, err)

	resp := svc.Chat(context.Background(), models.ChatRequest{
		History: []models.ChatTurn{{Role: models.RoleUser, Parts: []string{"hi"}}},
	})
	assert.Equal(t, ChatErrorPrefix+"x", resp.Response, "event log failures must not change the reply")

	events.AssertExpectations(t)
}

// echoLLM answers with the filename found in the prompt, so concurrent
// requests can be matched to their results.
type echoLLM struct{}

func (echoLLM) GenerateResponse(_ context.Context, prompt string) (string, error) {
	const marker = `a file named "`
	start := strings.Index(prompt, marker) + len(marker)
	end := strings.Index(prompt[start:], `"`)
	name := prompt[start : start+end]
	return fmt.Sprintf(`{"summary": %q, "explanation": "", "quality_analysis": {}, "key_components": []}`, name), nil
}

func (echoLLM) SendMessage(context.Context, string) (string, error) {
	return "", nil
}

func TestCodeServiceAnalyze_ConcurrentRequestsAreIsolated(t *testing.T) {
	svc := NewCodeService(NewAnalysisService(echoLLM{}), nil)

	const n = 64
	summaries := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := svc.Analyze(context.Background(), models.AnalysisInput{
				HasFile:  true,
				File:     []byte(fmt.Sprintf("var x = %d", i)),
				Filename: fmt.Sprintf("file-%d.js", i),
			})
			summaries[i], errs[i] = result.Summary, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("file-%d.js", i), summaries[i])
	}
}
