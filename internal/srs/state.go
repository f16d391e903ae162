package srs

import (
	"math"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs"
)

// State is the coarse memory-model phase of a card.
type State int

const (
	StateNew State = iota
	StateLearning
	StateReview
	StateRelearning
)

// StateFromInt decodes a persisted coarse state, falling back to New for
// out-of-range values.
func StateFromInt(v int) State {
	if v < int(StateNew) || v > int(StateRelearning) {
		return StateNew
	}
	return State(v)
}

func (s State) String() string {
	switch s {
	case StateLearning:
		return "learning"
	case StateReview:
		return "review"
	case StateRelearning:
		return "relearning"
	default:
		return "new"
	}
}

// MemoryState is a card's full memory-model state as of its last update.
type MemoryState struct {
	Due           time.Time
	Stability     float64
	Difficulty    float64
	ElapsedDays   int
	ScheduledDays int
	Reps          int
	Lapses        int
	LearningSteps int
	State         State
	LastReview    time.Time // zero if never reviewed
}

func (m MemoryState) toFSRS() fsrs.Card {
	return fsrs.Card{
		Due:           m.Due,
		Stability:     m.Stability,
		Difficulty:    m.Difficulty,
		ElapsedDays:   uint64(maxInt(m.ElapsedDays, 0)),
		ScheduledDays: uint64(maxInt(m.ScheduledDays, 0)),
		Reps:          uint64(maxInt(m.Reps, 0)),
		Lapses:        uint64(maxInt(m.Lapses, 0)),
		State:         fsrs.State(m.State),
		LastReview:    m.LastReview,
	}
}

func fromFSRS(c fsrs.Card) MemoryState {
	return MemoryState{
		Due:           c.Due,
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		ElapsedDays:   int(c.ElapsedDays),
		ScheduledDays: int(c.ScheduledDays),
		Reps:          int(c.Reps),
		Lapses:        int(c.Lapses),
		State:         StateFromInt(int(c.State)),
		LastReview:    c.LastReview,
	}
}

// Snapshot is a card's scheduling state as loaded from storage. A nil
// snapshot means the card has never been reviewed.
type Snapshot struct {
	DueAt           time.Time
	LastReviewedAt  *time.Time
	IntervalMinutes int
	Repetitions     int
	State           int
	Stability       float64
	Difficulty      float64
	ElapsedDays     int
	ScheduledDays   int
	LearningSteps   int
	Lapses          int
}

// Shape classifies how much model state a snapshot carries.
type Shape int

const (
	// ShapeUninitialized: no snapshot, never reviewed.
	ShapeUninitialized Shape = iota
	// ShapeLegacyPartial: predates full model storage; only due date,
	// interval and repetition count are trustworthy.
	ShapeLegacyPartial
	// ShapeFull: complete memory-model state, used as-is.
	ShapeFull
)

// Classify decodes the snapshot's shape once, at load time. A record holds
// full model state only when both stability and difficulty are positive.
func Classify(snap *Snapshot) Shape {
	switch {
	case snap == nil:
		return ShapeUninitialized
	case snap.Stability > 0 && snap.Difficulty > 0:
		return ShapeFull
	default:
		return ShapeLegacyPartial
	}
}

const (
	// neutralDifficulty is the model midpoint on its 1-10 difficulty scale,
	// assigned when reconstructing legacy records.
	neutralDifficulty = 5.0
	// minLegacyStability is the conservative floor for stability inferred
	// from a legacy interval.
	minLegacyStability = 0.1
)

// Reconstruct produces a usable memory state from persisted scheduling state.
// Legacy records that predate full model storage get a conservative estimate:
// stability from the stored interval, neutral difficulty, and zero lapses
// (lapse history is unrecoverable from the legacy shape; this is a known
// lossy migration).
func Reconstruct(snap *Snapshot, now time.Time) MemoryState {
	switch Classify(snap) {
	case ShapeFull:
		m := MemoryState{
			Due:           snap.DueAt,
			Stability:     snap.Stability,
			Difficulty:    snap.Difficulty,
			ElapsedDays:   snap.ElapsedDays,
			ScheduledDays: snap.ScheduledDays,
			Reps:          snap.Repetitions,
			Lapses:        snap.Lapses,
			LearningSteps: snap.LearningSteps,
			State:         StateFromInt(snap.State),
		}
		if snap.LastReviewedAt != nil {
			m.LastReview = *snap.LastReviewedAt
		}
		return m

	case ShapeLegacyPartial:
		state := StateNew
		if snap.Repetitions > 0 {
			state = StateReview
		}
		scheduledDays := int(math.Round(float64(snap.IntervalMinutes) / (24 * 60)))
		stability := math.Max(minLegacyStability, float64(scheduledDays))
		m := MemoryState{
			Due:           snap.DueAt,
			Stability:     stability,
			Difficulty:    neutralDifficulty,
			ElapsedDays:   0,
			ScheduledDays: scheduledDays,
			Reps:          snap.Repetitions,
			Lapses:        0,
			State:         state,
		}
		if snap.LastReviewedAt != nil {
			m.LastReview = *snap.LastReviewedAt
		} else {
			// No review anchor survived; treat the reconstruction instant
			// as the last review so elapsed time starts at zero.
			m.LastReview = now
		}
		return m

	default:
		return MemoryState{State: StateNew, Due: now}
	}
}

// EaseFactor derives the legacy-compatible display metric from the model
// difficulty. It is not consumed by the scheduler.
func EaseFactor(difficulty float64) float64 {
	ef := math.Round(((11-difficulty)/4)*1000) / 1000
	return math.Max(1.3, ef)
}

// IntervalMinutes computes the whole-minute gap between a review and its
// scheduled due instant, floored at one minute.
func IntervalMinutes(reviewedAt, due time.Time) int {
	m := int(math.Round(due.Sub(reviewedAt).Minutes()))
	if m < 1 {
		return 1
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
