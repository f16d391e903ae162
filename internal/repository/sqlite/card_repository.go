package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pvieira/flashdeck/internal/logger"
	"github.com/pvieira/flashdeck/internal/models"
	"github.com/pvieira/flashdeck/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) GetOwned(ctx context.Context, userID, cardID int64) (*models.CardWithSchedule, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d, user_id=%d", cardID, userID)

	var cs models.CardWithSchedule
	var ns nullableSchedule
	dest := append([]any{&cs.ID, &cs.DeckID, &cs.Question, &cs.Answer, &cs.CreatedAt, &cs.UpdatedAt}, ns.targets()...)
	err := r.db.QueryRowContext(ctx, `
SELECT c.id, c.deck_id, c.question, c.answer, c.created_at, c.updated_at,
       `+scheduleColumns+`
FROM cards c
JOIN decks d ON d.id = c.deck_id
LEFT JOIN schedule_states s ON s.card_id = c.id
WHERE c.id = ? AND d.user_id = ?
`, cardID, userID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	cs.ScheduleState = ns.toModel()
	return &cs, nil
}

func (r *cardRepository) ListByDeck(ctx context.Context, deckID int64, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: deck_id=%d, search=%q", deckID, filter.Search)

	query := sqlBuilder.Select("id", "deck_id", "question", "answer", "created_at", "updated_at").
		From("cards").
		Where(squirrel.Eq{"deck_id": deckID}).
		OrderBy("created_at ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"question": pattern},
			squirrel.Like{"answer": pattern},
		})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build card query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &c.CreatedAt, &c.UpdatedAt); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) CountByDeck(ctx context.Context, deckID int64, filter models.CardFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query := sqlBuilder.Select("COUNT(*)").
		From("cards").
		Where(squirrel.Eq{"deck_id": deckID})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"question": pattern},
			squirrel.Like{"answer": pattern},
		})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build card count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count cards: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *cardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d", card.DeckID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO cards (deck_id, question, answer)
VALUES (?, ?, ?)
`, card.DeckID, card.Question, card.Answer)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get card id: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) Update(ctx context.Context, card models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%d", card.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE cards
SET question = ?, answer = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, card.Question, card.Answer, card.ID)
	if err != nil {
		log.Error("failed to update card: %v", err)
	}
	return err
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
	}
	return err
}

func (r *cardRepository) ListDue(ctx context.Context, deckID int64, now time.Time, limit int) ([]models.CardWithSchedule, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching due cards: deck_id=%d, limit=%d", deckID, limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.deck_id, c.question, c.answer, c.created_at, c.updated_at,
       `+scheduleColumns+`
FROM cards c
JOIN schedule_states s ON s.card_id = c.id
WHERE c.deck_id = ? AND s.due_at <= ?
ORDER BY s.due_at ASC
LIMIT ?
`, deckID, now, limit)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.CardWithSchedule
	for rows.Next() {
		var cs models.CardWithSchedule
		var ns nullableSchedule
		dest := append([]any{&cs.ID, &cs.DeckID, &cs.Question, &cs.Answer, &cs.CreatedAt, &cs.UpdatedAt}, ns.targets()...)
		if err := rows.Scan(dest...); err != nil {
			log.Error("failed to scan due card row: %v", err)
			return nil, err
		}
		cs.ScheduleState = ns.toModel()
		cards = append(cards, cs)
	}
	log.Debug("found %d due cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) ListUnscheduled(ctx context.Context, deckID int64, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching unscheduled cards: deck_id=%d, limit=%d", deckID, limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.deck_id, c.question, c.answer, c.created_at, c.updated_at
FROM cards c
LEFT JOIN schedule_states s ON s.card_id = c.id
WHERE c.deck_id = ? AND s.card_id IS NULL
ORDER BY c.created_at ASC
LIMIT ?
`, deckID, limit)
	if err != nil {
		log.Error("failed to query unscheduled cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &c.CreatedAt, &c.UpdatedAt); err != nil {
			log.Error("failed to scan unscheduled card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d unscheduled cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) CountDue(ctx context.Context, deckID int64, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM cards c
JOIN schedule_states s ON s.card_id = c.id
WHERE c.deck_id = ? AND s.due_at <= ?
`, deckID, now).Scan(&count)
	return count, err
}

func (r *cardRepository) CountUnscheduled(ctx context.Context, deckID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM cards c
LEFT JOIN schedule_states s ON s.card_id = c.id
WHERE c.deck_id = ? AND s.card_id IS NULL
`, deckID).Scan(&count)
	return count, err
}

func (r *cardRepository) NextDueAfter(ctx context.Context, deckID int64, now time.Time) (*time.Time, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	var next sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT MIN(s.due_at)
FROM cards c
JOIN schedule_states s ON s.card_id = c.id
WHERE c.deck_id = ? AND s.due_at > ?
`, deckID, now).Scan(&next)
	if err != nil {
		log.Error("failed to query next due instant: %v", err)
		return nil, err
	}
	if !next.Valid {
		return nil, nil
	}
	t := next.Time
	return &t, nil
}
