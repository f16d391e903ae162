package services

import (
	"context"
	"time"

	"github.com/pvieira/flashdeck/internal/ai"
	"github.com/pvieira/flashdeck/internal/errors"
	"github.com/pvieira/flashdeck/internal/logger"
	"github.com/pvieira/flashdeck/internal/models"
	"github.com/pvieira/flashdeck/internal/repository"
	"github.com/pvieira/flashdeck/internal/srs"
)

const (
	defaultSessionLimit = 20
	maxSessionLimit     = 100

	defaultHistoryLimit = 50
)

// StudyService drives both study modes: self-graded reviews and AI-graded
// free-text answers. Both converge on the same scheduling path.
type StudyService interface {
	GetSession(ctx context.Context, userID, deckID int64, limit int, now time.Time) (*models.StudySession, error)
	ReviewCard(ctx context.Context, userID, cardID int64, rating srs.Rating, now time.Time) (*models.ReviewResult, error)
	GradeAnswer(ctx context.Context, userID, cardID int64, answer string, history []ai.Message, now time.Time) (*models.GradedReview, error)
	ReviewHistory(ctx context.Context, userID, cardID int64, limit int) ([]models.Review, error)
}

type studyService struct {
	decks     repository.DeckRepository
	cards     repository.CardRepository
	schedules repository.ScheduleRepository
	grader    ai.Grader
	scheduler *srs.Scheduler
}

// NewStudyService creates a new StudyService
func NewStudyService(decks repository.DeckRepository, cards repository.CardRepository, schedules repository.ScheduleRepository, grader ai.Grader) StudyService {
	return &studyService{
		decks:     decks,
		cards:     cards,
		schedules: schedules,
		grader:    grader,
		scheduler: srs.NewScheduler(),
	}
}

func (s *studyService) GetSession(ctx context.Context, userID, deckID int64, limit int, now time.Time) (*models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("building study session: deck_id=%d, limit=%d", deckID, limit)

	if limit == 0 {
		limit = defaultSessionLimit
	}
	if limit < 1 || limit > maxSessionLimit {
		return nil, errors.NewValidationError("limit", "must be between 1 and 100")
	}

	deck, err := s.decks.GetOwned(ctx, userID, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	// Due cards first, most-overdue leading; never-scheduled cards fill the
	// remainder in creation order.
	due, err := s.cards.ListDue(ctx, deckID, now, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	session := &models.StudySession{Deck: *deck, Cards: due}
	seen := make(map[int64]bool, len(due))
	for _, c := range due {
		seen[c.ID] = true
	}

	if remaining := limit - len(session.Cards); remaining > 0 {
		unscheduled, err := s.cards.ListUnscheduled(ctx, deckID, remaining)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		for _, c := range unscheduled {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			session.Cards = append(session.Cards, models.CardWithSchedule{Card: c})
		}
	}

	// The due-now count ignores the session cap: cards whose schedule has
	// come due plus cards that were never scheduled at all.
	dueCount, err := s.cards.CountDue(ctx, deckID, now)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	newCount, err := s.cards.CountUnscheduled(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	session.DueNowCount = dueCount + newCount
	session.NextDueAt, err = s.cards.NextDueAfter(ctx, deckID, now)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	log.Debug("session built: %d cards, %d due now", len(session.Cards), session.DueNowCount)
	return session, nil
}

func (s *studyService) ReviewCard(ctx context.Context, userID, cardID int64, rating srs.Rating, now time.Time) (*models.ReviewResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing card: card_id=%d, rating=%s", cardID, rating)

	card, err := s.cards.GetOwned(ctx, userID, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	return s.applyReview(ctx, userID, card, rating, now)
}

func (s *studyService) GradeAnswer(ctx context.Context, userID, cardID int64, answer string, history []ai.Message, now time.Time) (*models.GradedReview, error) {
	log := logger.FromContext(ctx)
	log.Debug("grading answer: card_id=%d", cardID)

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

	// Grade before touching any scheduling state, so a grader failure
	// leaves the card exactly as it was.
	grade, err := s.grader.GradeAnswer(ctx, card.Question, card.Answer, answer, history)
	if err != nil {
		return nil, err
	}

	rating := srs.RatingFromScore(grade.Score)
	log.Debug("answer scored %d, rating %s", grade.Score, rating)

	result, err := s.applyReview(ctx, userID, card, rating, now)
	if err != nil {
		return nil, err
	}

	return &models.GradedReview{
		ReviewResult:   *result,
		Score:          grade.Score,
		Feedback:       grade.Feedback,
		IdealAnswer:    grade.IdealAnswer,
		AssistantReply: grade.AssistantReply,
	}, nil
}

// ReviewHistory returns the card's review rows, newest first.
func (s *studyService) ReviewHistory(ctx context.Context, userID, cardID int64, limit int) ([]models.Review, error) {
	log := logger.FromContext(ctx)
	log.Debug("fetching review history: card_id=%d, limit=%d", cardID, limit)

	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	card, err := s.cards.GetOwned(ctx, userID, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	reviews, err := s.schedules.ReviewsForCard(ctx, card.ID, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return reviews, nil
}

// applyReview runs the scheduler against the card's reconstructed memory
// state and persists the outcome atomically: one schedule-state upsert plus
// one immutable review row.
func (s *studyService) applyReview(ctx context.Context, userID int64, card *models.CardWithSchedule, rating srs.Rating, now time.Time) (*models.ReviewResult, error) {
	log := logger.FromContext(ctx)

	prev := card.ScheduleState
	cur := srs.Reconstruct(prev.Snapshot(), now)
	next := s.scheduler.Next(cur, now, rating)

	intervalMinutes := srs.IntervalMinutes(now, next.Due)
	reviewedAt := now

	state := models.ScheduleState{
		CardID:          card.ID,
		DueAt:           next.Due,
		LastReviewedAt:  &reviewedAt,
		IntervalMinutes: intervalMinutes,
		Repetitions:     next.Reps,
		EaseFactor:      srs.EaseFactor(next.Difficulty),
		FSRSState:       int(next.State),
		FSRSStability:   next.Stability,
		FSRSDifficulty:  next.Difficulty,
		FSRSElapsedDays: next.ElapsedDays,
		FSRSScheduled:   next.ScheduledDays,
		FSRSSteps:       next.LearningSteps,
		FSRSLapses:      next.Lapses,
		UpdatedAt:       now,
	}

	review := models.Review{
		UserID:         userID,
		DeckID:         card.DeckID,
		CardID:         card.ID,
		Rating:         rating,
		ScheduledDueAt: next.Due,
		NextInterval:   intervalMinutes,
		CreatedAt:      now,
	}
	if prev != nil {
		d := prev.DueAt
		review.PreviousDueAt = &d
		review.PreviousInterval = prev.IntervalMinutes
	}

	savedState, savedReview, err := s.schedules.UpsertWithReview(ctx, state, review)
	if err != nil {
		log.Error("failed to persist review: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("card reviewed: card_id=%d, rating=%s, next_due=%s, interval=%dm",
		card.ID, rating, savedState.DueAt.Format(time.RFC3339), savedState.IntervalMinutes)

	return &models.ReviewResult{
		CardID:        card.ID,
		Rating:        rating,
		ScheduleState: *savedState,
		Review:        *savedReview,
	}, nil
}
