package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pvieira/flashdeck/internal/ai"
	"github.com/pvieira/flashdeck/internal/errors"
	"github.com/pvieira/flashdeck/internal/srs"
)

func (s *Server) handleStudySession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			handleError(w, r, errors.NewValidationError("limit", "must be an integer"))
			return
		}
	}

	session, err := s.Study.GetSession(r.Context(), user.ID, deckID, limit, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleReviewHistory(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	cardID, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			handleError(w, r, errors.NewValidationError("limit", "must be an integer"))
			return
		}
	}

	reviews, err := s.Study.ReviewHistory(r.Context(), user.ID, cardID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"reviews": reviews})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req struct {
		CardID int64  `json:"card_id"`
		Rating string `json:"rating"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.CardID < 1 {
		handleError(w, r, errors.NewValidationError("card_id", "must be a positive integer"))
		return
	}
	rating, ok := srs.ParseRating(req.Rating)
	if !ok {
		handleError(w, r, errors.NewValidationError("rating", "must be one of AGAIN, HARD, GOOD, EASY"))
		return
	}

	result, err := s.Study.ReviewCard(r.Context(), user.ID, req.CardID, rating, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req struct {
		CardID  int64        `json:"card_id"`
		Answer  string       `json:"answer"`
		History []ai.Message `json:"history"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.CardID < 1 {
		handleError(w, r, errors.NewValidationError("card_id", "must be a positive integer"))
		return
	}

	graded, err := s.Study.GradeAnswer(r.Context(), user.ID, req.CardID, req.Answer, req.History, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, graded)
}
