package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pvieira/flashdeck/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) GetOwned(ctx context.Context, userID, cardID int64) (*models.CardWithSchedule, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardWithSchedule), args.Error(1)
}

func (m *MockCardRepository) ListByDeck(ctx context.Context, deckID int64, filter models.CardFilter) ([]models.Card, error) {
	args := m.Called(ctx, deckID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) CountByDeck(ctx context.Context, deckID int64, filter models.CardFilter) (int, error) {
	args := m.Called(ctx, deckID, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	args := m.Called(ctx, card)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) Update(ctx context.Context, card models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardRepository) ListDue(ctx context.Context, deckID int64, now time.Time, limit int) ([]models.CardWithSchedule, error) {
	args := m.Called(ctx, deckID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CardWithSchedule), args.Error(1)
}

func (m *MockCardRepository) ListUnscheduled(ctx context.Context, deckID int64, limit int) ([]models.Card, error) {
	args := m.Called(ctx, deckID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) CountDue(ctx context.Context, deckID int64, now time.Time) (int, error) {
	args := m.Called(ctx, deckID, now)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) CountUnscheduled(ctx context.Context, deckID int64) (int, error) {
	args := m.Called(ctx, deckID)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) NextDueAfter(ctx context.Context, deckID int64, now time.Time) (*time.Time, error) {
	args := m.Called(ctx, deckID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}
