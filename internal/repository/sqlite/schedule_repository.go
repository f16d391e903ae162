package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pvieira/flashdeck/internal/logger"
	"github.com/pvieira/flashdeck/internal/models"
	"github.com/pvieira/flashdeck/internal/repository"
	"github.com/pvieira/flashdeck/internal/srs"
)

type scheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new ScheduleRepository implementation
func NewScheduleRepository(db *sql.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Get(ctx context.Context, cardID int64) (*models.ScheduleState, error) {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("getting schedule state: card_id=%d", cardID)

	var ns nullableSchedule
	err := r.db.QueryRowContext(ctx, `
SELECT `+scheduleColumns+`
FROM schedule_states s
WHERE s.card_id = ?
`, cardID).Scan(ns.targets()...)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no schedule state yet: card_id=%d", cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get schedule state: %v", err)
		return nil, err
	}
	return ns.toModel(), nil
}

// UpsertWithReview commits the schedule-state upsert and the review-history
// insert as one atomic unit. A failure of either leaves no partial write.
func (r *scheduleRepository) UpsertWithReview(ctx context.Context, state models.ScheduleState, review models.Review) (*models.ScheduleState, *models.Review, error) {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("upserting schedule state with review: card_id=%d, rating=%s", state.CardID, review.Rating)

	err := tx(ctx, r.db, func(t *sql.Tx) error {
		_, err := t.ExecContext(ctx, `
INSERT INTO schedule_states (
    card_id, due_at, last_reviewed_at, interval_minutes, repetitions, ease_factor,
    fsrs_state, fsrs_stability, fsrs_difficulty, fsrs_elapsed_days,
    fsrs_scheduled_days, fsrs_learning_steps, fsrs_lapses, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(card_id) DO UPDATE SET
    due_at = excluded.due_at,
    last_reviewed_at = excluded.last_reviewed_at,
    interval_minutes = excluded.interval_minutes,
    repetitions = excluded.repetitions,
    ease_factor = excluded.ease_factor,
    fsrs_state = excluded.fsrs_state,
    fsrs_stability = excluded.fsrs_stability,
    fsrs_difficulty = excluded.fsrs_difficulty,
    fsrs_elapsed_days = excluded.fsrs_elapsed_days,
    fsrs_scheduled_days = excluded.fsrs_scheduled_days,
    fsrs_learning_steps = excluded.fsrs_learning_steps,
    fsrs_lapses = excluded.fsrs_lapses,
    updated_at = excluded.updated_at
`, state.CardID, state.DueAt, nullTime(state.LastReviewedAt), state.IntervalMinutes,
			state.Repetitions, state.EaseFactor, state.FSRSState, state.FSRSStability,
			state.FSRSDifficulty, state.FSRSElapsedDays, state.FSRSScheduled,
			state.FSRSSteps, state.FSRSLapses, state.UpdatedAt)
		if err != nil {
			return err
		}

		res, err := t.ExecContext(ctx, `
INSERT INTO reviews (
    user_id, deck_id, card_id, rating, previous_due_at, scheduled_due_at,
    previous_interval, next_interval, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, review.UserID, review.DeckID, review.CardID, string(review.Rating),
			nullTime(review.PreviousDueAt), review.ScheduledDueAt,
			review.PreviousInterval, review.NextInterval, review.CreatedAt)
		if err != nil {
			return err
		}
		review.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		log.Error("failed to persist review: %v", err)
		return nil, nil, err
	}

	log.Debug("review persisted: review_id=%d, next_due=%s", review.ID, state.DueAt)
	return &state, &review, nil
}

func (r *scheduleRepository) ReviewsForCard(ctx context.Context, cardID int64, limit int) ([]models.Review, error) {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("listing reviews: card_id=%d, limit=%d", cardID, limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, deck_id, card_id, rating, previous_due_at, scheduled_due_at,
       previous_interval, next_interval, created_at
FROM reviews
WHERE card_id = ?
ORDER BY created_at DESC
LIMIT ?
`, cardID, limit)
	if err != nil {
		log.Error("failed to list reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		var rating string
		var prevDue sql.NullTime
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.DeckID, &rv.CardID, &rating,
			&prevDue, &rv.ScheduledDueAt, &rv.PreviousInterval, &rv.NextInterval, &rv.CreatedAt); err != nil {
			log.Error("failed to scan review row: %v", err)
			return nil, err
		}
		rv.Rating = srs.Rating(rating)
		if prevDue.Valid {
			t := prevDue.Time
			rv.PreviousDueAt = &t
		}
		reviews = append(reviews, rv)
	}
	log.Debug("found %d reviews", len(reviews))
	return reviews, rows.Err()
}
