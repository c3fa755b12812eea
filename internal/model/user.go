package model

import "time"

// User is an account held by the simulator. Clients only ever see the
// Identity derived from it.
type User struct {
	ID                   int64          `json:"id"`
	Username             string         `json:"username"`
	PasswordHash         string         `json:"password_hash"`
	Rating               int            `json:"rating"`
	TopicSolves          map[string]int `json:"topic_solves"`
	TotalQuestionsSolved int            `json:"total_questions_solved"`
	ActiveContestID      *ContestID     `json:"active_contest_id,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// Session maps an access token to a user
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
