package services

import (
	"context"
	"strings"
	"time"

	"github.com/pvieira/flashdeck/internal/ai"
	"github.com/pvieira/flashdeck/internal/errors"
	"github.com/pvieira/flashdeck/internal/logger"
	"github.com/pvieira/flashdeck/internal/models"
	"github.com/pvieira/flashdeck/internal/repository"
)

// maxSourceTextLen caps pasted document text to keep prompts bounded.
const maxSourceTextLen = 100_000

// GenerationService turns pasted document text into draft cards via the LLM
// generator. Drafts expire and must be committed to become real cards.
type GenerationService interface {
	GenerateDrafts(ctx context.Context, userID, deckID int64, sourceName, text string, maxCards int) ([]models.Draft, error)
	ListDrafts(ctx context.Context, userID, deckID int64) ([]models.Draft, error)
	CommitDraft(ctx context.Context, userID, draftID int64) (*models.Card, error)
	DiscardDraft(ctx context.Context, userID, draftID int64) error
}

type generationService struct {
	decks     repository.DeckRepository
	cards     repository.CardRepository
	drafts    repository.DraftRepository
	generator ai.Generator
	maxCards  int
	draftTTL  time.Duration
}

// NewGenerationService creates a new GenerationService
func NewGenerationService(decks repository.DeckRepository, cards repository.CardRepository, drafts repository.DraftRepository, generator ai.Generator, maxCards int, draftTTL time.Duration) GenerationService {
	return &generationService{
		decks:     decks,
		cards:     cards,
		drafts:    drafts,
		generator: generator,
		maxCards:  maxCards,
		draftTTL:  draftTTL,
	}
}

func (s *generationService) GenerateDrafts(ctx context.Context, userID, deckID int64, sourceName, text string, maxCards int) ([]models.Draft, error) {
	log := logger.FromContext(ctx)
	log.Debug("generating drafts: deck_id=%d, source=%s", deckID, sourceName)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NewValidationError("text", "cannot be empty")
	}
	if len(text) > maxSourceTextLen {
		return nil, errors.NewValidationError("text", "exceeds maximum length")
	}
	if maxCards <= 0 || maxCards > s.maxCards {
		maxCards = s.maxCards
	}

	deck, err := s.decks.GetOwned(ctx, userID, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	generated, err := s.generator.GenerateCards(ctx, deck.Title, text, maxCards)
	if err != nil {
		return nil, err
	}
	if len(generated) == 0 {
		log.Info("generator produced no cards: deck_id=%d", deckID)
		return []models.Draft{}, nil
	}

	now := time.Now()
	expires := now.Add(s.draftTTL)
	drafts := make([]models.Draft, 0, len(generated))
	for _, c := range generated {
		drafts = append(drafts, models.Draft{
			DeckID:     deckID,
			UserID:     userID,
			Question:   c.Question,
			Answer:     c.Answer,
			SourceName: sourceName,
			ExpiresAt:  expires,
		})
	}

	ids, err := s.drafts.InsertBatch(ctx, drafts)
	if err != nil {
		log.Error("failed to store drafts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	for i := range drafts {
		drafts[i].ID = ids[i]
		drafts[i].CreatedAt = now
	}

	log.Info("generated %d drafts: deck_id=%d, expires=%s", len(drafts), deckID, expires.Format(time.RFC3339))
	return drafts, nil
}

func (s *generationService) ListDrafts(ctx context.Context, userID, deckID int64) ([]models.Draft, error) {
	deck, err := s.decks.GetOwned(ctx, userID, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	drafts, err := s.drafts.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return drafts, nil
}

func (s *generationService) CommitDraft(ctx context.Context, userID, draftID int64) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("committing draft: id=%d", draftID)

	draft, err := s.drafts.GetOwned(ctx, userID, draftID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if draft == nil {
		return nil, errors.NewNotFoundError("draft", draftID)
	}

	id, err := s.cards.Insert(ctx, models.Card{
		DeckID:   draft.DeckID,
		Question: draft.Question,
		Answer:   draft.Answer,
	})
	if err != nil {
		log.Error("failed to create card from draft: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if err := s.drafts.Delete(ctx, draftID); err != nil {
		// The card exists; a lingering draft will be caught by a retry or
		// the expiry sweep.
		log.Warn("failed to delete committed draft %d: %v", draftID, err)
	}

	card, err := s.cards.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Info("draft committed: draft_id=%d, card_id=%d", draftID, id)
	return &card.Card, nil
}

func (s *generationService) DiscardDraft(ctx context.Context, userID, draftID int64) error {
	log := logger.FromContext(ctx)

	draft, err := s.drafts.GetOwned(ctx, userID, draftID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if draft == nil {
		return errors.NewNotFoundError("draft", draftID)
	}

	if err := s.drafts.Delete(ctx, draftID); err != nil {
		log.Error("failed to discard draft: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("draft discarded: id=%d", draftID)
	return nil
}
