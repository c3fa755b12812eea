// Package result turns a completion result into what the result screen shows.
package result

import "github.com/mcoot/circle-go/internal/model"

// Summary is the display-ready projection of a model.Result
type Summary struct {
	Victory        bool
	SolvedCount    int
	TotalQuestions int
	Status         model.ContestStatus

	RatingBefore int
	RatingAfter  int
	RatingDelta  int

	LevelBefore int
	LevelAfter  int
	LevelDelta  int

	TitleChanged  bool
	NewTitle      string
	TraitsChanged bool
	NewTraits     []string
}

// LeveledUp reports whether the level went up
func (s Summary) LeveledUp() bool {
	return s.LevelDelta > 0
}

// Headline is the one-line verdict for the result screen
func (s Summary) Headline() string {
	if s.Victory {
		return "Monster Defeated"
	}
	return "Battle Complete"
}

// Project derives the summary. A missing ratingAfter counts as no change.
func Project(r model.Result) Summary {
	ratingAfter := r.RatingBefore
	if r.RatingAfter != nil {
		ratingAfter = *r.RatingAfter
	}

	s := Summary{
		Victory:        r.SolvedCount == r.TotalQuestions,
		SolvedCount:    r.SolvedCount,
		TotalQuestions: r.TotalQuestions,
		Status:         r.Status,
		RatingBefore:   r.RatingBefore,
		RatingAfter:    ratingAfter,
		RatingDelta:    ratingAfter - r.RatingBefore,
		LevelBefore:    r.LevelBefore,
		LevelAfter:     r.LevelAfter,
		LevelDelta:     r.LevelAfter - r.LevelBefore,
		TraitsChanged:  len(r.NewTraits) > 0,
	}

	if r.NewTitle != nil {
		s.TitleChanged = true
		s.NewTitle = *r.NewTitle
	}
	if s.TraitsChanged {
		s.NewTraits = append([]string(nil), r.NewTraits...)
	}

	return s
}

// FromPayload extracts a Result handed over through navigation. The second
// return is false when the payload carries no result.
func FromPayload(payload any) (model.Result, bool) {
	switch v := payload.(type) {
	case model.Result:
		return v, true
	case *model.Result:
		if v != nil {
			return *v, true
		}
	}
	return model.Result{}, false
}
