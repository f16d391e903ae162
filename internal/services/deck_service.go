package services

import (
	"context"
	"strings"

	"github.com/pvieira/flashdeck/internal/errors"
	"github.com/pvieira/flashdeck/internal/logger"
	"github.com/pvieira/flashdeck/internal/models"
	"github.com/pvieira/flashdeck/internal/repository"
)

// DeckService handles deck CRUD with per-user ownership.
type DeckService interface {
	GetDeck(ctx context.Context, userID, deckID int64) (*models.Deck, error)
	ListDecks(ctx context.Context, userID int64) ([]models.Deck, error)
	CreateDeck(ctx context.Context, userID int64, title, description string) (*models.Deck, error)
	UpdateDeck(ctx context.Context, userID, deckID int64, title, description string) (*models.Deck, error)
	DeleteDeck(ctx context.Context, userID, deckID int64) error
}

type deckService struct {
	decks repository.DeckRepository
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository) DeckService {
	return &deckService{decks: decks}
}

func (s *deckService) GetDeck(ctx context.Context, userID, deckID int64) (*models.Deck, error) {
	deck, err := s.decks.GetOwned(ctx, userID, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context, userID int64) ([]models.Deck, error) {
	decks, err := s.decks.List(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) CreateDeck(ctx context.Context, userID int64, title, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("title", "cannot be empty")
	}

	id, err := s.decks.Insert(ctx, models.Deck{
		UserID:      userID,
		Title:       title,
		Description: description,
	})
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewInternalError(err)
	}

	deck, err := s.decks.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Info("deck created: id=%d, title=%s", id, title)
	return deck, nil
}

func (s *deckService) UpdateDeck(ctx context.Context, userID, deckID int64, title, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("title", "cannot be empty")
	}

	deck, err := s.decks.GetOwned(ctx, userID, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	deck.Title = title
	deck.Description = description
	if err := s.decks.Update(ctx, *deck); err != nil {
		log.Error("failed to update deck: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return s.decks.GetOwned(ctx, userID, deckID)
}

func (s *deckService) DeleteDeck(ctx context.Context, userID, deckID int64) error {
	log := logger.FromContext(ctx)

	deck, err := s.decks.GetOwned(ctx, userID, deckID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if deck == nil {
		return errors.NewNotFoundError("deck", deckID)
	}

	if err := s.decks.Delete(ctx, userID, deckID); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("deck deleted: id=%d", deckID)
	return nil
}
