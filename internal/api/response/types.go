package response

import (
	"time"

	"github.com/mcoot/circle-go/internal/model"
)

// User is returned when an account is created
type User struct {
	ID                  int64     `json:"id"`
	Username            string    `json:"username"`
	Rating              int       `json:"rating"`
	TotalProblemsSolved int       `json:"total_problems_solved"`
	CreatedAt           time.Time `json:"created_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:                  u.ID,
		Username:            u.Username,
		Rating:              u.Rating,
		TotalProblemsSolved: u.TotalQuestionsSolved,
		CreatedAt:           u.CreatedAt,
	}
}

// Token is the response for login
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Message is a bare acknowledgement
type Message struct {
	Message string `json:"message"`
}

// Abandon is the response after abandoning a contest
type Abandon struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ContestID model.ContestID `json:"contestId"`
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}
