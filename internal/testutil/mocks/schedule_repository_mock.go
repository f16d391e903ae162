package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pvieira/flashdeck/internal/models"
)

// MockScheduleRepository is a mock implementation of repository.ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Get(ctx context.Context, cardID int64) (*models.ScheduleState, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduleState), args.Error(1)
}

func (m *MockScheduleRepository) UpsertWithReview(ctx context.Context, state models.ScheduleState, review models.Review) (*models.ScheduleState, *models.Review, error) {
	args := m.Called(ctx, state, review)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.ScheduleState), args.Get(1).(*models.Review), args.Error(2)
}

func (m *MockScheduleRepository) ReviewsForCard(ctx context.Context, cardID int64, limit int) ([]models.Review, error) {
	args := m.Called(ctx, cardID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}
