package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pvieira/flashdeck/internal/api"
	"github.com/pvieira/flashdeck/internal/models"
	"github.com/pvieira/flashdeck/internal/services"
	"github.com/pvieira/flashdeck/internal/testutil/mocks"
)

type apiFixture struct {
	users     *mocks.MockUserRepository
	decks     *mocks.MockDeckRepository
	cards     *mocks.MockCardRepository
	schedules *mocks.MockScheduleRepository
	drafts    *mocks.MockDraftRepository
	grader    *mocks.MockGrader
	generator *mocks.MockGenerator
	handler   http.Handler
}

func newAPIFixture() *apiFixture {
	f := &apiFixture{
		users:     new(mocks.MockUserRepository),
		decks:     new(mocks.MockDeckRepository),
		cards:     new(mocks.MockCardRepository),
		schedules: new(mocks.MockScheduleRepository),
		drafts:    new(mocks.MockDraftRepository),
		grader:    new(mocks.MockGrader),
		generator: new(mocks.MockGenerator),
	}
	server := api.NewServer(
		services.NewUserService(f.users),
		services.NewDeckService(f.decks),
		services.NewCardService(f.decks, f.cards),
		services.NewStudyService(f.decks, f.cards, f.schedules, f.grader),
		services.NewGenerationService(f.decks, f.cards, f.drafts, f.generator, 20, 72*time.Hour),
	)
	f.handler = server.Routes()
	return f
}

// do performs a request as user 1, whose cookie lookup is stubbed.
func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	f.users.On("Get", mock.Anything, int64(1)).
		Return(&models.User{ID: 1, Username: "tester"}, nil).Maybe()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.AddCookie(&http.Cookie{Name: "user_id", Value: "1"})
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequiresActiveUser(t *testing.T) {
	f := newAPIFixture()

	req := httptest.NewRequest(http.MethodGet, "/decks", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NO_ACTIVE_USER", body["error"]["code"])
}

func TestStudySessionHandler(t *testing.T) {
	f := newAPIFixture()

	deck := &models.Deck{ID: 5, UserID: 1, Title: "Geography"}
	state := models.ScheduleState{CardID: 11, DueAt: time.Now().Add(-time.Hour)}
	due := []models.CardWithSchedule{
		{Card: models.Card{ID: 11, DeckID: 5, Question: "Q", Answer: "A"}, ScheduleState: &state},
	}

	f.decks.On("GetOwned", mock.Anything, int64(1), int64(5)).Return(deck, nil)
	f.cards.On("ListDue", mock.Anything, int64(5), mock.Anything, 2).Return(due, nil)
	f.cards.On("ListUnscheduled", mock.Anything, int64(5), 1).Return([]models.Card{}, nil)
	f.cards.On("CountDue", mock.Anything, int64(5), mock.Anything).Return(1, nil)
	f.cards.On("CountUnscheduled", mock.Anything, int64(5)).Return(0, nil)
	f.cards.On("NextDueAfter", mock.Anything, int64(5), mock.Anything).Return(nil, nil)

	rec := f.do(t, http.MethodGet, "/study/decks/5/session?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var session models.StudySession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, int64(5), session.Deck.ID)
	assert.Equal(t, 1, session.DueNowCount)
	assert.Nil(t, session.NextDueAt)
	require.Len(t, session.Cards, 1)
	assert.Equal(t, int64(11), session.Cards[0].ID)
	assert.NotNil(t, session.Cards[0].ScheduleState)
}

func TestStudySessionInvalidLimit(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodGet, "/study/decks/5/session?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body["error"]["code"])
}

func TestReviewHandler(t *testing.T) {
	f := newAPIFixture()

	card := &models.CardWithSchedule{
		Card: models.Card{ID: 10, DeckID: 5, Question: "Q", Answer: "A"},
	}
	f.cards.On("GetOwned", mock.Anything, int64(1), int64(10)).Return(card, nil)
	f.schedules.On("UpsertWithReview", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.ScheduleState{CardID: 10, Repetitions: 1}, &models.Review{ID: 1, CardID: 10}, nil)

	rec := f.do(t, http.MethodPost, "/study/review", `{"card_id": 10, "rating": "GOOD"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ReviewResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(10), result.CardID)
	assert.Equal(t, 1, result.ScheduleState.Repetitions)
}

func TestReviewHistoryHandler(t *testing.T) {
	f := newAPIFixture()

	card := &models.CardWithSchedule{
		Card: models.Card{ID: 10, DeckID: 5, Question: "Q", Answer: "A"},
	}
	reviews := []models.Review{
		{ID: 2, CardID: 10, Rating: "AGAIN"},
		{ID: 1, CardID: 10, Rating: "GOOD"},
	}
	f.cards.On("GetOwned", mock.Anything, int64(1), int64(10)).Return(card, nil)
	f.schedules.On("ReviewsForCard", mock.Anything, int64(10), 2).Return(reviews, nil)

	rec := f.do(t, http.MethodGet, "/cards/10/reviews?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Reviews []models.Review `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Reviews, 2)
	assert.Equal(t, int64(2), body.Reviews[0].ID)
}

func TestReviewHandlerRejectsBadRating(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/study/review", `{"card_id": 10, "rating": "good enough"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.schedules.AssertNotCalled(t, "UpsertWithReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewHandlerNotFound(t *testing.T) {
	f := newAPIFixture()

	f.cards.On("GetOwned", mock.Anything, int64(1), int64(99)).Return(nil, nil)

	rec := f.do(t, http.MethodPost, "/study/review", `{"card_id": 99, "rating": "GOOD"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["error"]["code"])
}
