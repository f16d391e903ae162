package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pvieira/flashdeck/internal/logger"
	"github.com/pvieira/flashdeck/internal/models"
)

// Helper functions shared across repository implementations

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

// nullableSchedule collects the scan targets for a LEFT JOINed
// schedule_states row and converts them once all are populated.
type nullableSchedule struct {
	cardID         sql.NullInt64
	dueAt          sql.NullTime
	lastReviewedAt sql.NullTime
	intervalMins   sql.NullInt64
	repetitions    sql.NullInt64
	easeFactor     sql.NullFloat64
	state          sql.NullInt64
	stability      sql.NullFloat64
	difficulty     sql.NullFloat64
	elapsedDays    sql.NullInt64
	scheduledDays  sql.NullInt64
	learningSteps  sql.NullInt64
	lapses         sql.NullInt64
	updatedAt      sql.NullTime
}

func (n *nullableSchedule) targets() []any {
	return []any{
		&n.cardID, &n.dueAt, &n.lastReviewedAt, &n.intervalMins, &n.repetitions,
		&n.easeFactor, &n.state, &n.stability, &n.difficulty, &n.elapsedDays,
		&n.scheduledDays, &n.learningSteps, &n.lapses, &n.updatedAt,
	}
}

func (n *nullableSchedule) toModel() *models.ScheduleState {
	if !n.cardID.Valid {
		return nil
	}
	s := &models.ScheduleState{
		CardID:          n.cardID.Int64,
		DueAt:           n.dueAt.Time,
		IntervalMinutes: int(n.intervalMins.Int64),
		Repetitions:     int(n.repetitions.Int64),
		EaseFactor:      n.easeFactor.Float64,
		FSRSState:       int(n.state.Int64),
		FSRSStability:   n.stability.Float64,
		FSRSDifficulty:  n.difficulty.Float64,
		FSRSElapsedDays: int(n.elapsedDays.Int64),
		FSRSScheduled:   int(n.scheduledDays.Int64),
		FSRSSteps:       int(n.learningSteps.Int64),
		FSRSLapses:      int(n.lapses.Int64),
		UpdatedAt:       n.updatedAt.Time,
	}
	if n.lastReviewedAt.Valid {
		t := n.lastReviewedAt.Time
		s.LastReviewedAt = &t
	}
	return s
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

const scheduleColumns = `s.card_id, s.due_at, s.last_reviewed_at, s.interval_minutes, s.repetitions,
       s.ease_factor, s.fsrs_state, s.fsrs_stability, s.fsrs_difficulty, s.fsrs_elapsed_days,
       s.fsrs_scheduled_days, s.fsrs_learning_steps, s.fsrs_lapses, s.updated_at`
