package models

import "time"

// Card is a single question/answer flashcard.
type Card struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardWithSchedule pairs a card with its scheduling state, nil if the card
// has never been reviewed.
type CardWithSchedule struct {
	Card
	ScheduleState *ScheduleState `json:"schedule_state"`
}

// CardFilter narrows card listings.
type CardFilter struct {
	Search string
	Limit  int
	Offset int
}

// Draft is an LLM-generated card candidate awaiting review. Drafts expire
// and are swept by the janitor; committing one creates a real Card.
type Draft struct {
	ID         int64     `json:"id"`
	DeckID     int64     `json:"deck_id"`
	UserID     int64     `json:"user_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	SourceName string    `json:"source_name"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
