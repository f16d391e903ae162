package api

import (
	"net/http"
)

type deckRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	decks, err := s.Decks.ListDecks(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.GetDeck(r.Context(), user.ID, deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req deckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.CreateDeck(r.Context(), user.ID, req.Title, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, deck)
}

func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req deckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.UpdateDeck(r.Context(), user.ID, deckID, req.Title, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Decks.DeleteDeck(r.Context(), user.ID, deckID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}
