package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pvieira/flashdeck/internal/ai"
	apperrors "github.com/pvieira/flashdeck/internal/errors"
	"github.com/pvieira/flashdeck/internal/models"
	"github.com/pvieira/flashdeck/internal/services"
	"github.com/pvieira/flashdeck/internal/srs"
	"github.com/pvieira/flashdeck/internal/testutil/mocks"
)

type studyFixture struct {
	decks     *mocks.MockDeckRepository
	cards     *mocks.MockCardRepository
	schedules *mocks.MockScheduleRepository
	grader    *mocks.MockGrader
	svc       services.StudyService

	capturedState  models.ScheduleState
	capturedReview models.Review
}

func newStudyFixture() *studyFixture {
	f := &studyFixture{
		decks:     new(mocks.MockDeckRepository),
		cards:     new(mocks.MockCardRepository),
		schedules: new(mocks.MockScheduleRepository),
		grader:    new(mocks.MockGrader),
	}
	f.svc = services.NewStudyService(f.decks, f.cards, f.schedules, f.grader)
	return f
}

// expectPersist wires UpsertWithReview to echo its inputs, capturing them
// for assertions.
func (f *studyFixture) expectPersist() {
	f.schedules.On("UpsertWithReview", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			f.capturedState = args.Get(1).(models.ScheduleState)
			f.capturedReview = args.Get(2).(models.Review)
			f.capturedReview.ID = 1
		}).
		Return(&f.capturedState, &f.capturedReview, nil)
}

func newCard(cardID, deckID int64) *models.CardWithSchedule {
	return &models.CardWithSchedule{
		Card: models.Card{ID: cardID, DeckID: deckID, Question: "Capital of France?", Answer: "Paris"},
	}
}

func TestReviewCardFirstReview(t *testing.T) {
	f := newStudyFixture()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	f.cards.On("GetOwned", mock.Anything, int64(1), int64(10)).Return(newCard(10, 5), nil)
	f.expectPersist()

	result, err := f.svc.ReviewCard(context.Background(), 1, 10, srs.RatingGood, now)
	require.NoError(t, err)
	require.NotNil(t, result)

	state := result.ScheduleState
	assert.Equal(t, int64(10), state.CardID)
	assert.Equal(t, 1, state.Repetitions)
	assert.Equal(t, int(srs.StateLearning), state.FSRSState)
	assert.True(t, state.DueAt.After(now))
	assert.GreaterOrEqual(t, state.IntervalMinutes, 1)
	assert.GreaterOrEqual(t, state.EaseFactor, 1.3)
	require.NotNil(t, state.LastReviewedAt)
	assert.Equal(t, now, *state.LastReviewedAt)

	review := result.Review
	assert.Equal(t, srs.RatingGood, review.Rating)
	assert.Nil(t, review.PreviousDueAt)
	assert.Equal(t, 0, review.PreviousInterval)
	assert.Equal(t, state.DueAt, review.ScheduledDueAt)
	assert.Equal(t, state.IntervalMinutes, review.NextInterval)
}

func TestReviewCardAgainAfterGood(t *testing.T) {
	f := newStudyFixture()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// First pass: GOOD on a fresh card.
	f.cards.On("GetOwned", mock.Anything, int64(1), int64(10)).Return(newCard(10, 5), nil).Once()
	f.expectPersist()

	first, err := f.svc.ReviewCard(context.Background(), 1, 10, srs.RatingGood, now)
	require.NoError(t, err)
	firstState := first.ScheduleState

	// Second pass: AGAIN ten minutes later, with the stored state attached.
	later := now.Add(10 * time.Minute)
	card := newCard(10, 5)
	card.ScheduleState = &firstState
	f.cards.On("GetOwned", mock.Anything, int64(1), int64(10)).Return(card, nil).Once()

	second, err := f.svc.ReviewCard(context.Background(), 1, 10, srs.RatingAgain, later)
	require.NoError(t, err)

	state := second.ScheduleState
	assert.Equal(t, 2, state.Repetitions)
	assert.True(t, state.DueAt.After(later))

	review := second.Review
	require.NotNil(t, review.PreviousDueAt)
	assert.Equal(t, firstState.DueAt, *review.PreviousDueAt)
	assert.Equal(t, firstState.IntervalMinutes, review.PreviousInterval)
}

func TestReviewCardNotOwned(t *testing.T) {
	f := newStudyFixture()

	f.cards.On("GetOwned", mock.Anything, int64(1), int64(99)).Return(nil, nil)

	_, err := f.svc.ReviewCard(context.Background(), 1, 99, srs.RatingGood, time.Now())
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	f.schedules.AssertNotCalled(t, "UpsertWithReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestGradeAnswerConvergesWithDirectReview(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Path one: direct EASY review.
	direct := newStudyFixture()
	direct.cards.On("GetOwned", mock.Anything, int64(1), int64(10)).Return(newCard(10, 5), nil)
	direct.expectPersist()
	directResult, err := direct.svc.ReviewCard(context.Background(), 1, 10, srs.RatingEasy, now)
	require.NoError(t, err)

	// Path two: AI-graded answer scoring 90, which maps to EASY.
	graded := newStudyFixture()
	graded.cards.On("GetOwned", mock.Anything, int64(1), int64(10)).Return(newCard(10, 5), nil)
	graded.grader.On("GradeAnswer", mock.Anything, "Capital of France?", "Paris", "paris", mock.Anything).
		Return(&ai.GradeResult{Score: 90, Feedback: "Right.", IdealAnswer: "Paris"}, nil)
	graded.expectPersist()
	gradedResult, err := graded.svc.GradeAnswer(context.Background(), 1, 10, "paris", nil, now)
	require.NoError(t, err)

	assert.Equal(t, srs.RatingEasy, gradedResult.Rating)
	assert.Equal(t, 90, gradedResult.Score)
	assert.Equal(t, directResult.ScheduleState, gradedResult.ScheduleState)
}

func TestGradeAnswerFailureMutatesNothing(t *testing.T) {
	f := newStudyFixture()

	f.cards.On("GetOwned", mock.Anything, int64(1), int64(10)).Return(newCard(10, 5), nil)
	f.grader.On("GradeAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewUpstreamError("grader", fmt.Errorf("timeout")))

	_, err := f.svc.GradeAnswer(context.Background(), 1, 10, "paris", nil, time.Now())
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUpstream, appErr.Code)
	f.schedules.AssertNotCalled(t, "UpsertWithReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestGradeAnswerEmptyAnswer(t *testing.T) {
	f := newStudyFixture()

	_, err := f.svc.GradeAnswer(context.Background(), 1, 10, "", nil, time.Now())
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	f.cards.AssertNotCalled(t, "GetOwned", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSessionMergesDueAndUnscheduled(t *testing.T) {
	f := newStudyFixture()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	nextDue := now.Add(45 * time.Minute)

	deck := &models.Deck{ID: 5, UserID: 1, Title: "Geography"}
	dueState := models.ScheduleState{CardID: 11, DueAt: now.Add(-time.Hour)}
	due := []models.CardWithSchedule{
		{Card: models.Card{ID: 11, DeckID: 5}, ScheduleState: &dueState},
	}
	unscheduled := []models.Card{
		{ID: 12, DeckID: 5},
		{ID: 13, DeckID: 5},
	}

	f.decks.On("GetOwned", mock.Anything, int64(1), int64(5)).Return(deck, nil)
	f.cards.On("ListDue", mock.Anything, int64(5), now, 3).Return(due, nil)
	f.cards.On("ListUnscheduled", mock.Anything, int64(5), 2).Return(unscheduled, nil)
	f.cards.On("CountDue", mock.Anything, int64(5), now).Return(7, nil)
	f.cards.On("CountUnscheduled", mock.Anything, int64(5)).Return(4, nil)
	f.cards.On("NextDueAfter", mock.Anything, int64(5), now).Return(&nextDue, nil)

	session, err := f.svc.GetSession(context.Background(), 1, 5, 3, now)
	require.NoError(t, err)

	assert.Equal(t, *deck, session.Deck)
	require.Len(t, session.Cards, 3)
	assert.Equal(t, int64(11), session.Cards[0].ID)
	assert.Equal(t, int64(12), session.Cards[1].ID)
	assert.Equal(t, int64(13), session.Cards[2].ID)
	assert.NotNil(t, session.Cards[0].ScheduleState)
	assert.Nil(t, session.Cards[1].ScheduleState)

	// Count is scheduled-due plus never-scheduled, ignoring the cap; next due
	// is the soonest strictly-future instant.
	assert.Equal(t, 11, session.DueNowCount)
	require.NotNil(t, session.NextDueAt)
	assert.Equal(t, nextDue, *session.NextDueAt)
}

func TestGetSessionNeverScheduledCountsAsDueNow(t *testing.T) {
	f := newStudyFixture()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// A fresh deck: two cards, neither ever reviewed. Both count as due now
	// even though no schedule row exists yet.
	deck := &models.Deck{ID: 5, UserID: 1, Title: "Geography"}
	unscheduled := []models.Card{
		{ID: 11, DeckID: 5},
		{ID: 12, DeckID: 5},
	}

	f.decks.On("GetOwned", mock.Anything, int64(1), int64(5)).Return(deck, nil)
	f.cards.On("ListDue", mock.Anything, int64(5), now, 20).Return([]models.CardWithSchedule{}, nil)
	f.cards.On("ListUnscheduled", mock.Anything, int64(5), 20).Return(unscheduled, nil)
	f.cards.On("CountDue", mock.Anything, int64(5), now).Return(0, nil)
	f.cards.On("CountUnscheduled", mock.Anything, int64(5)).Return(2, nil)
	f.cards.On("NextDueAfter", mock.Anything, int64(5), now).Return(nil, nil)

	session, err := f.svc.GetSession(context.Background(), 1, 5, 20, now)
	require.NoError(t, err)

	assert.Equal(t, 2, session.DueNowCount)
	assert.Len(t, session.Cards, 2)
	assert.Nil(t, session.NextDueAt)
}

func TestGetSessionDueFillsLimit(t *testing.T) {
	f := newStudyFixture()
	now := time.Now()

	deck := &models.Deck{ID: 5, UserID: 1}
	due := make([]models.CardWithSchedule, 2)
	for i := range due {
		state := models.ScheduleState{CardID: int64(20 + i), DueAt: now.Add(-time.Minute)}
		due[i] = models.CardWithSchedule{Card: models.Card{ID: int64(20 + i), DeckID: 5}, ScheduleState: &state}
	}

	f.decks.On("GetOwned", mock.Anything, int64(1), int64(5)).Return(deck, nil)
	f.cards.On("ListDue", mock.Anything, int64(5), now, 2).Return(due, nil)
	f.cards.On("CountDue", mock.Anything, int64(5), now).Return(2, nil)
	f.cards.On("CountUnscheduled", mock.Anything, int64(5)).Return(0, nil)
	f.cards.On("NextDueAfter", mock.Anything, int64(5), now).Return(nil, nil)

	session, err := f.svc.GetSession(context.Background(), 1, 5, 2, now)
	require.NoError(t, err)
	assert.Len(t, session.Cards, 2)
	assert.Nil(t, session.NextDueAt)

	// The limit was satisfied by due cards alone.
	f.cards.AssertNotCalled(t, "ListUnscheduled", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSessionLimitValidation(t *testing.T) {
	f := newStudyFixture()
	now := time.Now()

	for _, limit := range []int{-1, 101} {
		_, err := f.svc.GetSession(context.Background(), 1, 5, limit, now)
		require.Error(t, err, "limit %d", limit)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	}
}

func TestGetSessionDefaultLimit(t *testing.T) {
	f := newStudyFixture()
	now := time.Now()

	deck := &models.Deck{ID: 5, UserID: 1}
	f.decks.On("GetOwned", mock.Anything, int64(1), int64(5)).Return(deck, nil)
	f.cards.On("ListDue", mock.Anything, int64(5), now, 20).Return([]models.CardWithSchedule{}, nil)
	f.cards.On("ListUnscheduled", mock.Anything, int64(5), 20).Return([]models.Card{}, nil)
	f.cards.On("CountDue", mock.Anything, int64(5), now).Return(0, nil)
	f.cards.On("CountUnscheduled", mock.Anything, int64(5)).Return(0, nil)
	f.cards.On("NextDueAfter", mock.Anything, int64(5), now).Return(nil, nil)

	session, err := f.svc.GetSession(context.Background(), 1, 5, 0, now)
	require.NoError(t, err)
	assert.Empty(t, session.Cards)
	assert.Equal(t, 0, session.DueNowCount)
}

func TestReviewHistory(t *testing.T) {
	f := newStudyFixture()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	reviews := []models.Review{
		{ID: 2, CardID: 10, Rating: srs.RatingAgain, CreatedAt: now},
		{ID: 1, CardID: 10, Rating: srs.RatingGood, CreatedAt: now.Add(-time.Hour)},
	}
	f.cards.On("GetOwned", mock.Anything, int64(1), int64(10)).Return(newCard(10, 5), nil)
	f.schedules.On("ReviewsForCard", mock.Anything, int64(10), 2).Return(reviews, nil)

	got, err := f.svc.ReviewHistory(context.Background(), 1, 10, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, srs.RatingAgain, got[0].Rating)
	assert.Equal(t, srs.RatingGood, got[1].Rating)
}

func TestReviewHistoryDefaultLimit(t *testing.T) {
	f := newStudyFixture()

	f.cards.On("GetOwned", mock.Anything, int64(1), int64(10)).Return(newCard(10, 5), nil)
	f.schedules.On("ReviewsForCard", mock.Anything, int64(10), 50).Return([]models.Review{}, nil)

	got, err := f.svc.ReviewHistory(context.Background(), 1, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReviewHistoryNotOwned(t *testing.T) {
	f := newStudyFixture()

	f.cards.On("GetOwned", mock.Anything, int64(1), int64(99)).Return(nil, nil)

	_, err := f.svc.ReviewHistory(context.Background(), 1, 99, 10)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	f.schedules.AssertNotCalled(t, "ReviewsForCard", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSessionDeckNotOwned(t *testing.T) {
	f := newStudyFixture()

	f.decks.On("GetOwned", mock.Anything, int64(1), int64(5)).Return(nil, nil)

	_, err := f.svc.GetSession(context.Background(), 1, 5, 10, time.Now())
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}
