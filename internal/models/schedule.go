package models

import (
	"time"

	"github.com/pvieira/flashdeck/internal/srs"
)

// ScheduleState is a card's durable scheduling state, one row per card,
// created lazily on the first review.
type ScheduleState struct {
	CardID          int64      `json:"card_id"`
	DueAt           time.Time  `json:"due_at"`
	LastReviewedAt  *time.Time `json:"last_reviewed_at"`
	IntervalMinutes int        `json:"interval_minutes"`
	Repetitions     int        `json:"repetitions"`
	EaseFactor      float64    `json:"ease_factor"`
	FSRSState       int        `json:"fsrs_state"`
	FSRSStability   float64    `json:"fsrs_stability"`
	FSRSDifficulty  float64    `json:"fsrs_difficulty"`
	FSRSElapsedDays int        `json:"fsrs_elapsed_days"`
	FSRSScheduled   int        `json:"fsrs_scheduled_days"`
	FSRSSteps       int        `json:"fsrs_learning_steps"`
	FSRSLapses      int        `json:"fsrs_lapses"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Snapshot converts the persisted row into the scheduler's input shape.
func (s *ScheduleState) Snapshot() *srs.Snapshot {
	if s == nil {
		return nil
	}
	return &srs.Snapshot{
		DueAt:           s.DueAt,
		LastReviewedAt:  s.LastReviewedAt,
		IntervalMinutes: s.IntervalMinutes,
		Repetitions:     s.Repetitions,
		State:           s.FSRSState,
		Stability:       s.FSRSStability,
		Difficulty:      s.FSRSDifficulty,
		ElapsedDays:     s.FSRSElapsedDays,
		ScheduledDays:   s.FSRSScheduled,
		LearningSteps:   s.FSRSSteps,
		Lapses:          s.FSRSLapses,
	}
}

// Review is one immutable review-history record. Rows are only ever
// inserted, in the same transaction as the ScheduleState upsert.
type Review struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	DeckID           int64      `json:"deck_id"`
	CardID           int64      `json:"card_id"`
	Rating           srs.Rating `json:"rating"`
	PreviousDueAt    *time.Time `json:"previous_due_at"`
	ScheduledDueAt   time.Time  `json:"scheduled_due_at"`
	PreviousInterval int        `json:"previous_interval"`
	NextInterval     int        `json:"next_interval"`
	CreatedAt        time.Time  `json:"created_at"`
}

// StudySession is the due-now view of a deck.
type StudySession struct {
	Deck        Deck               `json:"deck"`
	DueNowCount int                `json:"due_now_count"`
	NextDueAt   *time.Time         `json:"next_due_at"`
	Cards       []CardWithSchedule `json:"cards"`
}

// ReviewResult is the outcome of applying one review event.
type ReviewResult struct {
	CardID        int64         `json:"card_id"`
	Rating        srs.Rating    `json:"rating"`
	ScheduleState ScheduleState `json:"schedule_state"`
	Review        Review        `json:"review"`
}

// GradedReview is a ReviewResult produced by the AI study mode, carrying the
// grading collaborator's output alongside the scheduling outcome.
type GradedReview struct {
	ReviewResult
	Score          int    `json:"score"`
	Feedback       string `json:"feedback"`
	IdealAnswer    string `json:"ideal_answer"`
	AssistantReply string `json:"assistant_reply"`
}
