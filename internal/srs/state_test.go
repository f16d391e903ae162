package srs_test

import (
	"testing"
	"time"

	"github.com/pvieira/flashdeck/internal/srs"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		snap     *srs.Snapshot
		expected srs.Shape
	}{
		{"nil snapshot", nil, srs.ShapeUninitialized},
		{"zero stability and difficulty", &srs.Snapshot{Repetitions: 2, IntervalMinutes: 60}, srs.ShapeLegacyPartial},
		{"stability without difficulty", &srs.Snapshot{Stability: 3.2}, srs.ShapeLegacyPartial},
		{"difficulty without stability", &srs.Snapshot{Difficulty: 5.1}, srs.ShapeLegacyPartial},
		{"full model state", &srs.Snapshot{Stability: 3.2, Difficulty: 5.1}, srs.ShapeFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, srs.Classify(tt.snap))
		})
	}
}

func TestReconstruct_Uninitialized(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	m := srs.Reconstruct(nil, now)

	assert.Equal(t, srs.StateNew, m.State)
	assert.Equal(t, now, m.Due)
	assert.Zero(t, m.Stability)
	assert.Zero(t, m.Reps)
	assert.True(t, m.LastReview.IsZero())
}

func TestReconstruct_FullStateIsIdentity(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(72 * time.Hour)
	last := now.Add(-24 * time.Hour)
	snap := &srs.Snapshot{
		DueAt:           due,
		LastReviewedAt:  &last,
		IntervalMinutes: 4320,
		Repetitions:     7,
		State:           int(srs.StateReview),
		Stability:       12.5,
		Difficulty:      6.3,
		ElapsedDays:     1,
		ScheduledDays:   3,
		LearningSteps:   0,
		Lapses:          2,
	}

	m := srs.Reconstruct(snap, now)

	assert.Equal(t, due, m.Due)
	assert.Equal(t, last, m.LastReview)
	assert.Equal(t, 12.5, m.Stability)
	assert.Equal(t, 6.3, m.Difficulty)
	assert.Equal(t, 1, m.ElapsedDays)
	assert.Equal(t, 3, m.ScheduledDays)
	assert.Equal(t, 7, m.Reps)
	assert.Equal(t, 2, m.Lapses)
	assert.Equal(t, srs.StateReview, m.State)
}

func TestReconstruct_FullStateDefensiveDecode(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := &srs.Snapshot{
		State:      99, // out of range
		Stability:  4.0,
		Difficulty: 5.0,
	}

	m := srs.Reconstruct(snap, now)

	assert.Equal(t, srs.StateNew, m.State, "unknown persisted state should decode to New")
}

func TestReconstruct_LegacyPartial(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(time.Hour)
	last := now.Add(-3 * 24 * time.Hour)
	snap := &srs.Snapshot{
		DueAt:           due,
		LastReviewedAt:  &last,
		IntervalMinutes: 3 * 24 * 60,
		Repetitions:     4,
		Lapses:          5, // not trustworthy on the legacy shape
	}

	m := srs.Reconstruct(snap, now)

	assert.Equal(t, srs.StateReview, m.State, "repeated legacy cards reconstruct as Review")
	assert.Equal(t, 3, m.ScheduledDays)
	assert.Equal(t, 3.0, m.Stability)
	assert.Equal(t, 5.0, m.Difficulty, "legacy difficulty is the model midpoint")
	assert.Equal(t, 0, m.ElapsedDays)
	assert.Equal(t, 4, m.Reps)
	assert.Equal(t, 0, m.Lapses, "lapse history is unrecoverable from the legacy shape")
	assert.Equal(t, due, m.Due)
	assert.Equal(t, last, m.LastReview)
}

func TestReconstruct_LegacySubDayInterval(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := &srs.Snapshot{
		DueAt:           now.Add(10 * time.Minute),
		IntervalMinutes: 10,
		Repetitions:     1,
	}

	m := srs.Reconstruct(snap, now)

	assert.Equal(t, 0, m.ScheduledDays)
	assert.Equal(t, 0.1, m.Stability, "stability floors at 0.1 when the interval rounds to zero days")
	assert.Equal(t, now, m.LastReview, "missing review anchor falls back to now")
}

func TestReconstruct_LegacyNeverRepeated(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := &srs.Snapshot{DueAt: now, IntervalMinutes: 1}

	m := srs.Reconstruct(snap, now)

	assert.Equal(t, srs.StateNew, m.State)
}

func TestEaseFactor(t *testing.T) {
	tests := []struct {
		difficulty float64
		expected   float64
	}{
		{1, 2.5},
		{5, 1.5},
		{10, 1.3}, // (11-10)/4 = 0.25, floored at 1.3
		{4.123, 1.719},
		{11, 1.3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, srs.EaseFactor(tt.difficulty), "difficulty=%v", tt.difficulty)
	}
}

func TestIntervalMinutes(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, srs.IntervalMinutes(now, now.Add(10*time.Minute)))
	assert.Equal(t, 2, srs.IntervalMinutes(now, now.Add(90*time.Second)))
	assert.Equal(t, 1, srs.IntervalMinutes(now, now), "interval floors at one minute")
	assert.Equal(t, 1, srs.IntervalMinutes(now, now.Add(-time.Hour)), "past due instants still floor at one minute")
	assert.Equal(t, 24*60, srs.IntervalMinutes(now, now.Add(24*time.Hour)))
}
