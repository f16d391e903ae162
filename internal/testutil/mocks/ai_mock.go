package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pvieira/flashdeck/internal/ai"
)

// MockGrader is a mock implementation of ai.Grader
type MockGrader struct {
	mock.Mock
}

func (m *MockGrader) GradeAnswer(ctx context.Context, question, expectedAnswer, userAnswer string, history []ai.Message) (*ai.GradeResult, error) {
	args := m.Called(ctx, question, expectedAnswer, userAnswer, history)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.GradeResult), args.Error(1)
}

// MockGenerator is a mock implementation of ai.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateCards(ctx context.Context, topic, material string, maxCards int) ([]ai.DraftCard, error) {
	args := m.Called(ctx, topic, material, maxCards)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ai.DraftCard), args.Error(1)
}
