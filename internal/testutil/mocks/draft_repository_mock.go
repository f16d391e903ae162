package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pvieira/flashdeck/internal/models"
)

// MockDraftRepository is a mock implementation of repository.DraftRepository
type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) InsertBatch(ctx context.Context, drafts []models.Draft) ([]int64, error) {
	args := m.Called(ctx, drafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockDraftRepository) GetOwned(ctx context.Context, userID, draftID int64) (*models.Draft, error) {
	args := m.Called(ctx, userID, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draft), args.Error(1)
}

func (m *MockDraftRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Draft, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Draft), args.Error(1)
}

func (m *MockDraftRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDraftRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
