package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.userMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Get("/users", s.handleListUsers)
	r.Post("/users", s.handleSelectUser)

	r.Get("/decks", s.handleListDecks)
	r.Post("/decks", s.handleCreateDeck)
	r.Get("/decks/{deckID}", s.handleGetDeck)
	r.Put("/decks/{deckID}", s.handleUpdateDeck)
	r.Delete("/decks/{deckID}", s.handleDeleteDeck)

	r.Get("/decks/{deckID}/cards", s.handleListCards)
	r.Post("/decks/{deckID}/cards", s.handleCreateCard)
	r.Get("/cards/{cardID}", s.handleGetCard)
	r.Put("/cards/{cardID}", s.handleUpdateCard)
	r.Delete("/cards/{cardID}", s.handleDeleteCard)

	r.Get("/cards/{cardID}/reviews", s.handleReviewHistory)

	r.Get("/study/decks/{deckID}/session", s.handleStudySession)
	r.Post("/study/review", s.handleReview)
	r.Post("/study/answer", s.handleAnswer)

	r.Post("/decks/{deckID}/generate", s.handleGenerateDrafts)
	r.Get("/decks/{deckID}/drafts", s.handleListDrafts)
	r.Post("/drafts/{draftID}/commit", s.handleCommitDraft)
	r.Delete("/drafts/{draftID}", s.handleDiscardDraft)

	return r
}
