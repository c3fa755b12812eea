package model

import "time"

// ContestID uniquely identifies a contest on the server
type ContestID int64

// ContestStatus is the server-side lifecycle status of a contest
type ContestStatus string

const (
	ContestStatusActive     ContestStatus = "active"
	ContestStatusInProgress ContestStatus = "in_progress" // older servers
	ContestStatusCompleted  ContestStatus = "completed"
	ContestStatusAbandoned  ContestStatus = "abandoned"
)

// Question solve states as reported in Contest.QuestionStates
const (
	Unsolved = 0
	Solved   = 1
)

// DefaultQuestionCount is used when the server omits totalQuestions
const DefaultQuestionCount = 4

// Question is a single problem in a contest. Immutable for the contest's lifetime.
type Question struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Source         string   `json:"source"`
	URL            string   `json:"url,omitempty"`
	InternalRating int      `json:"internal_rating"`
	Topic          string   `json:"topic,omitempty"`
	Tags           []string `json:"tags"`
}

// Contest is a generated bundle of questions and its solve progress
type Contest struct {
	ID             ContestID      `json:"contestId"`
	UserID         int64          `json:"userId,omitempty"`
	Title          string         `json:"title"`
	Status         ContestStatus  `json:"status"`
	Questions      []Question     `json:"questions"`
	QuestionStates map[string]int `json:"questionStates"`
	SolvedCount    int            `json:"solvedCount"`
	TotalQuestions int            `json:"totalQuestions"`
	RatingBefore   int            `json:"ratingBefore"`
	RatingAfter    *int           `json:"ratingAfter"`
	CreatedAt      *time.Time     `json:"createdAt,omitempty"`
	CompletedAt    *time.Time     `json:"completedAt,omitempty"`
}

// InProgress reports whether the contest has not yet been completed or abandoned
func (c *Contest) InProgress() bool {
	return c.Status == ContestStatusActive || c.Status == ContestStatusInProgress || c.Status == ""
}

// IsSolved reports whether the question with the given ID is marked solved
func (c *Contest) IsSolved(questionID string) bool {
	return c.QuestionStates[questionID] == Solved
}

// CountSolved counts the 1-valued entries in QuestionStates
func (c *Contest) CountSolved() int {
	n := 0
	for _, v := range c.QuestionStates {
		if v == Solved {
			n++
		}
	}
	return n
}

// Total returns TotalQuestions, falling back to the default contest size
func (c *Contest) Total() int {
	if c.TotalQuestions > 0 {
		return c.TotalQuestions
	}
	return DefaultQuestionCount
}

// Progress returns the solved fraction as a percentage in [0, 100]
func (c *Contest) Progress() float64 {
	return float64(c.SolvedCount) / float64(c.Total()) * 100
}

// Question returns the question with the given ID, or nil if not found
func (c *Contest) Question(questionID string) *Question {
	for i := range c.Questions {
		if c.Questions[i].ID == questionID {
			return &c.Questions[i]
		}
	}
	return nil
}

// IsVictory reports whether every question was solved in a completed contest
func (c *Contest) IsVictory() bool {
	return c.Status == ContestStatusCompleted && c.SolvedCount == c.TotalQuestions
}

// Clone returns a deep copy of the contest
func (c *Contest) Clone() *Contest {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Questions = make([]Question, len(c.Questions))
	for i, q := range c.Questions {
		q.Tags = append([]string(nil), q.Tags...)
		cp.Questions[i] = q
	}
	cp.QuestionStates = make(map[string]int, len(c.QuestionStates))
	for k, v := range c.QuestionStates {
		cp.QuestionStates[k] = v
	}
	if c.RatingAfter != nil {
		ra := *c.RatingAfter
		cp.RatingAfter = &ra
	}
	return &cp
}

// QuestionLabel returns the letter label ("A", "B", ...) for a question index
func QuestionLabel(index int) string {
	if index < 0 || index >= 26 {
		return "?"
	}
	return string(rune('A' + index))
}
