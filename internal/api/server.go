package api

import (
	"github.com/pvieira/flashdeck/internal/services"
)

// Server holds the service dependencies for the HTTP layer.
type Server struct {
	Users      services.UserService
	Decks      services.DeckService
	Cards      services.CardService
	Study      services.StudyService
	Generation services.GenerationService
}

// NewServer creates a new Server
func NewServer(users services.UserService, decks services.DeckService, cards services.CardService, study services.StudyService, generation services.GenerationService) *Server {
	return &Server{
		Users:      users,
		Decks:      decks,
		Cards:      cards,
		Study:      study,
		Generation: generation,
	}
}
