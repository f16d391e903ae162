package srs

import (
	fsrs "github.com/open-spaced-repetition/go-fsrs"
)

// Rating is the qualitative self-assessment of recall for a single review.
// It is the scheduler's only mutation input besides time.
type Rating string

const (
	RatingAgain Rating = "AGAIN"
	RatingHard  Rating = "HARD"
	RatingGood  Rating = "GOOD"
	RatingEasy  Rating = "EASY"
)

// ParseRating validates a wire-format rating string.
func ParseRating(s string) (Rating, bool) {
	switch Rating(s) {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return Rating(s), true
	}
	return "", false
}

func (r Rating) toFSRS() fsrs.Rating {
	switch r {
	case RatingAgain:
		return fsrs.Again
	case RatingHard:
		return fsrs.Hard
	case RatingEasy:
		return fsrs.Easy
	default:
		return fsrs.Good
	}
}

// RatingFromScore maps a 0-100 correctness score from free-text grading
// onto a rating. Both study modes converge onto the same scheduling path
// through this mapping.
func RatingFromScore(score int) Rating {
	switch {
	case score < 40:
		return RatingAgain
	case score < 60:
		return RatingHard
	case score < 85:
		return RatingGood
	default:
		return RatingEasy
	}
}
