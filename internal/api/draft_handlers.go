package api

import (
	"net/http"
)

func (s *Server) handleGenerateDrafts(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req struct {
		SourceName string `json:"source_name"`
		Text       string `json:"text"`
		MaxCards   int    `json:"max_cards"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	drafts, err := s.Generation.GenerateDrafts(r.Context(), user.ID, deckID, req.SourceName, req.Text, req.MaxCards)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, map[string]any{"drafts": drafts})
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	drafts, err := s.Generation.ListDrafts(r.Context(), user.ID, deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"drafts": drafts})
}

func (s *Server) handleCommitDraft(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	draftID, err := idParam(r, "draftID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Generation.CommitDraft(r.Context(), user.ID, draftID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	draftID, err := idParam(r, "draftID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Generation.DiscardDraft(r.Context(), user.ID, draftID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}
