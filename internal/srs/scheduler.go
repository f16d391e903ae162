package srs

import (
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs"
)

// Scheduler computes the next memory state for a card given a rating at a
// wall-clock instant. It wraps the FSRS forgetting-curve model with default
// parameters; the library applies no fuzz, so identical inputs always
// produce identical outputs.
type Scheduler struct {
	params fsrs.Parameters
}

// NewScheduler creates a Scheduler with the model's default parameters.
func NewScheduler() *Scheduler {
	return &Scheduler{params: fsrs.DefaultParam()}
}

// Next applies a rating to the current memory state at the given instant and
// returns the resulting state, including the next due instant. It is a pure
// function with no failure modes for valid typed input.
func (s *Scheduler) Next(cur MemoryState, now time.Time, rating Rating) MemoryState {
	info := s.params.Repeat(cur.toFSRS(), now)[rating.toFSRS()]
	next := fromFSRS(info.Card)
	next.LearningSteps = nextLearningSteps(cur, next)
	return next
}

// nextLearningSteps maintains the step counter inside the Learning and
// Relearning phases, which the underlying model does not track: entering a
// short-term phase starts at step one, staying in it advances, and
// graduating out resets to zero.
func nextLearningSteps(cur, next MemoryState) int {
	switch next.State {
	case StateLearning, StateRelearning:
		if cur.State == next.State {
			return cur.LearningSteps + 1
		}
		return 1
	default:
		return 0
	}
}
