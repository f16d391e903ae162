package api

import (
	"net/http"
	"strconv"

	"github.com/pvieira/flashdeck/internal/models"
)

type cardRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := models.CardFilter{Search: q.Get("search")}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}

	list, err := s.Cards.ListCards(r.Context(), user.ID, deckID, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	cardID, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.GetCard(r.Context(), user.ID, cardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.CreateCard(r.Context(), user.ID, deckID, req.Question, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	cardID, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.UpdateCard(r.Context(), user.ID, cardID, req.Question, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	cardID, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Cards.DeleteCard(r.Context(), user.ID, cardID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}
