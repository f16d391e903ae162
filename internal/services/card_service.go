package services

import (
	"context"
	"strings"

	"github.com/pvieira/flashdeck/internal/errors"
	"github.com/pvieira/flashdeck/internal/logger"
	"github.com/pvieira/flashdeck/internal/models"
	"github.com/pvieira/flashdeck/internal/repository"
)

// CardList is a page of cards with the unfiltered total.
type CardList struct {
	Cards []models.Card `json:"cards"`
	Total int           `json:"total"`
}

// CardService handles card CRUD within a user's decks.
type CardService interface {
	GetCard(ctx context.Context, userID, cardID int64) (*models.CardWithSchedule, error)
	ListCards(ctx context.Context, userID, deckID int64, filter models.CardFilter) (*CardList, error)
	CreateCard(ctx context.Context, userID, deckID int64, question, answer string) (*models.Card, error)
	UpdateCard(ctx context.Context, userID, cardID int64, question, answer string) (*models.Card, error)
	DeleteCard(ctx context.Context, userID, cardID int64) error
}

type cardService struct {
	decks repository.DeckRepository
	cards repository.CardRepository
}

// NewCardService creates a new CardService
func NewCardService(decks repository.DeckRepository, cards repository.CardRepository) CardService {
	return &cardService{decks: decks, cards: cards}
}

func (s *cardService) GetCard(ctx context.Context, userID, cardID int64) (*models.CardWithSchedule, error) {
	card, err := s.cards.GetOwned(ctx, userID, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, userID, deckID int64, filter models.CardFilter) (*CardList, error) {
	deck, err := s.decks.GetOwned(ctx, userID, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	cards, err := s.cards.ListByDeck(ctx, deckID, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	total, err := s.cards.CountByDeck(ctx, deckID, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &CardList{Cards: cards, Total: total}, nil
}

func (s *cardService) CreateCard(ctx context.Context, userID, deckID int64, question, answer string) (*models.Card, error) {
	log := logger.FromContext(ctx)

	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return nil, errors.NewValidationError("question", "cannot be empty")
	}
	if answer == "" {
		return nil, errors.NewValidationError("answer", "cannot be empty")
	}

	deck, err := s.decks.GetOwned(ctx, userID, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	id, err := s.cards.Insert(ctx, models.Card{
		DeckID:   deckID,
		Question: question,
		Answer:   answer,
	})
	if err != nil {
		log.Error("failed to create card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	created, err := s.cards.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Info("card created: id=%d, deck_id=%d", id, deckID)
	return &created.Card, nil
}

func (s *cardService) UpdateCard(ctx context.Context, userID, cardID int64, question, answer string) (*models.Card, error) {
	log := logger.FromContext(ctx)

	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return nil, errors.NewValidationError("question", "cannot be empty")
	}
	if answer == "" {
		return nil, errors.NewValidationError("answer", "cannot be empty")
	}

	card, err := s.cards.GetOwned(ctx, userID, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	card.Question = question
	card.Answer = answer
	if err := s.cards.Update(ctx, card.Card); err != nil {
		log.Error("failed to update card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	updated, err := s.cards.GetOwned(ctx, userID, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &updated.Card, nil
}

func (s *cardService) DeleteCard(ctx context.Context, userID, cardID int64) error {
	log := logger.FromContext(ctx)

	card, err := s.cards.GetOwned(ctx, userID, cardID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if card == nil {
		return errors.NewNotFoundError("card", cardID)
	}

	if err := s.cards.Delete(ctx, cardID); err != nil {
		log.Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("card deleted: id=%d", cardID)
	return nil
}
