package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pvieira/flashdeck/internal/logger"
	"github.com/pvieira/flashdeck/internal/models"
	"github.com/pvieira/flashdeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) GetOwned(ctx context.Context, userID, deckID int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d, user_id=%d", deckID, userID)

	var d models.Deck
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, description, created_at, updated_at
FROM decks
WHERE id = ? AND user_id = ?
`, deckID, userID).Scan(&d.ID, &d.UserID, &d.Title, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", deckID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) List(ctx context.Context, userID int64) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, description, created_at, updated_at
FROM decks
WHERE user_id = ?
ORDER BY created_at ASC
`, userID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Insert(ctx context.Context, deck models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: user_id=%d, title=%s", deck.UserID, deck.Title)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO decks (user_id, title, description)
VALUES (?, ?, ?)
`, deck.UserID, deck.Title, deck.Description)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get deck id: %v", err)
		return 0, err
	}
	log.Debug("deck inserted: id=%d", id)
	return id, nil
}

func (r *deckRepository) Update(ctx context.Context, deck models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%d", deck.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE decks
SET title = ?, description = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND user_id = ?
`, deck.Title, deck.Description, deck.ID, deck.UserID)
	if err != nil {
		log.Error("failed to update deck: %v", err)
	}
	return err
}

func (r *deckRepository) Delete(ctx context.Context, userID, deckID int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d, user_id=%d", deckID, userID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ? AND user_id = ?`, deckID, userID)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
	}
	return err
}
