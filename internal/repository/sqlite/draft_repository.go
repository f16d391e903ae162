package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pvieira/flashdeck/internal/logger"
	"github.com/pvieira/flashdeck/internal/models"
	"github.com/pvieira/flashdeck/internal/repository"
)

type draftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a new DraftRepository implementation
func NewDraftRepository(db *sql.DB) repository.DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) InsertBatch(ctx context.Context, drafts []models.Draft) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("draft_repo")
	log.Debug("inserting %d drafts", len(drafts))

	var ids []int64
	err := tx(ctx, r.db, func(t *sql.Tx) error {
		stmt, err := t.PrepareContext(ctx, `
INSERT INTO drafts (deck_id, user_id, question, answer, source_name, expires_at)
VALUES (?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, d := range drafts {
			res, err := stmt.ExecContext(ctx, d.DeckID, d.UserID, d.Question, d.Answer, d.SourceName, d.ExpiresAt)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert drafts: %v", err)
		return nil, err
	}
	log.Debug("%d drafts inserted", len(ids))
	return ids, nil
}

func (r *draftRepository) GetOwned(ctx context.Context, userID, draftID int64) (*models.Draft, error) {
	log := logger.FromContext(ctx).WithPrefix("draft_repo")
	log.Debug("getting draft: id=%d, user_id=%d", draftID, userID)

	var d models.Draft
	err := r.db.QueryRowContext(ctx, `
SELECT id, deck_id, user_id, question, answer, source_name, created_at, expires_at
FROM drafts
WHERE id = ? AND user_id = ?
`, draftID, userID).Scan(&d.ID, &d.DeckID, &d.UserID, &d.Question, &d.Answer, &d.SourceName, &d.CreatedAt, &d.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("draft not found: id=%d", draftID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get draft: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *draftRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Draft, error) {
	log := logger.FromContext(ctx).WithPrefix("draft_repo")
	log.Debug("listing drafts: deck_id=%d", deckID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, deck_id, user_id, question, answer, source_name, created_at, expires_at
FROM drafts
WHERE deck_id = ?
ORDER BY created_at ASC
`, deckID)
	if err != nil {
		log.Error("failed to list drafts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var drafts []models.Draft
	for rows.Next() {
		var d models.Draft
		if err := rows.Scan(&d.ID, &d.DeckID, &d.UserID, &d.Question, &d.Answer, &d.SourceName, &d.CreatedAt, &d.ExpiresAt); err != nil {
			log.Error("failed to scan draft row: %v", err)
			return nil, err
		}
		drafts = append(drafts, d)
	}
	log.Debug("found %d drafts", len(drafts))
	return drafts, rows.Err()
}

func (r *draftRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("draft_repo")
	log.Debug("deleting draft: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete draft: %v", err)
	}
	return err
}

func (r *draftRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("draft_repo")
	log.Debug("deleting drafts expired before %s", cutoff)

	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE expires_at <= ?`, cutoff)
	if err != nil {
		log.Error("failed to delete expired drafts: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info("deleted %d expired drafts", n)
	}
	return n, nil
}
