package repository

import (
	"context"
	"time"

	"github.com/pvieira/flashdeck/internal/models"
)

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Upsert(ctx context.Context, username string) (*models.User, error)
}

// DeckRepository handles deck data access
type DeckRepository interface {
	GetOwned(ctx context.Context, userID, deckID int64) (*models.Deck, error)
	List(ctx context.Context, userID int64) ([]models.Deck, error)
	Insert(ctx context.Context, deck models.Deck) (int64, error)
	Update(ctx context.Context, deck models.Deck) error
	Delete(ctx context.Context, userID, deckID int64) error
}

// CardRepository handles card data access, including the due-set queries
// behind study sessions
type CardRepository interface {
	GetOwned(ctx context.Context, userID, cardID int64) (*models.CardWithSchedule, error)
	ListByDeck(ctx context.Context, deckID int64, filter models.CardFilter) ([]models.Card, error)
	CountByDeck(ctx context.Context, deckID int64, filter models.CardFilter) (int, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	Update(ctx context.Context, card models.Card) error
	Delete(ctx context.Context, id int64) error

	// ListDue returns scheduled cards with due_at <= now, soonest-overdue first.
	ListDue(ctx context.Context, deckID int64, now time.Time, limit int) ([]models.CardWithSchedule, error)
	// ListUnscheduled returns never-reviewed cards, oldest-added first.
	ListUnscheduled(ctx context.Context, deckID int64, limit int) ([]models.Card, error)
	CountDue(ctx context.Context, deckID int64, now time.Time) (int, error)
	CountUnscheduled(ctx context.Context, deckID int64) (int, error)
	// NextDueAfter returns the soonest due_at strictly after now, or nil.
	NextDueAfter(ctx context.Context, deckID int64, now time.Time) (*time.Time, error)
}

// ScheduleRepository handles scheduling state and review history
type ScheduleRepository interface {
	Get(ctx context.Context, cardID int64) (*models.ScheduleState, error)
	// UpsertWithReview persists the schedule-state upsert and the review
	// insert in a single transaction.
	UpsertWithReview(ctx context.Context, state models.ScheduleState, review models.Review) (*models.ScheduleState, *models.Review, error)
	ReviewsForCard(ctx context.Context, cardID int64, limit int) ([]models.Review, error)
}

// DraftRepository handles generated draft cards
type DraftRepository interface {
	InsertBatch(ctx context.Context, drafts []models.Draft) ([]int64, error)
	GetOwned(ctx context.Context, userID, draftID int64) (*models.Draft, error)
	ListByDeck(ctx context.Context, deckID int64) ([]models.Draft, error)
	Delete(ctx context.Context, id int64) error
	// DeleteExpired removes drafts whose expiry is at or before the cutoff,
	// returning the number deleted.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
