package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ahmednasr/code-analyzer/server/internal/models"
)

type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) SendMessage(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, content, filename string) string {
	args := m.Called(ctx, content, filename)
	return args.String(0)
}

func (m *MockAnalysisService) Chat(ctx context.Context, history []models.ChatTurn, question, codeContext string) string {
	args := m.Called(ctx, history, question, codeContext)
	return args.String(0)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Insert(ctx context.Context, e models.AnalysisEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
