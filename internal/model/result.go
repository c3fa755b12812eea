package model

// Result is the terminal snapshot returned when a contest is completed
type Result struct {
	ContestID      ContestID     `json:"contestId"`
	Status         ContestStatus `json:"status"`
	SolvedCount    int           `json:"solvedCount"`
	TotalQuestions int           `json:"totalQuestions"`
	RatingBefore   int           `json:"ratingBefore"`
	RatingAfter    *int          `json:"ratingAfter"`
	RatingChange   int           `json:"ratingChange"`
	LevelBefore    int           `json:"levelBefore"`
	LevelAfter     int           `json:"levelAfter"`
	NewTitle       *string       `json:"newTitle"`
	NewTraits      []string      `json:"newTraits"`
}

// MarkSolvedResult is the server's answer to a mark-solved request
type MarkSolvedResult struct {
	QuestionID     string   `json:"questionId"`
	Solved         bool     `json:"solved"`
	SolvedCount    int      `json:"solvedCount"`
	TotalQuestions int      `json:"totalQuestions"`
	TagsUpdated    []string `json:"tagsUpdated"`
}

// History is the list of finished contests for the current user
type History struct {
	Contests           []Contest `json:"history"`
	Total              int       `json:"total"`
	TotalSolved        int       `json:"totalSolved"`
	SuccessfulContests int       `json:"successfulContests"`
}

// ContestList is every contest the user has started, in any status
type ContestList struct {
	Contests []Contest `json:"contests"`
	Total    int       `json:"total"`
}

// Victories counts completed contests where every question was solved
func (h *History) Victories() int {
	n := 0
	for i := range h.Contests {
		if h.Contests[i].IsVictory() {
			n++
		}
	}
	return n
}

// Credentials are sent to the register and login endpoints
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
