package storage

import (
	"context"

	"github.com/mcoot/circle-go/internal/model"
)

// Storage defines the interface for simulator persistence
type Storage interface {
	// User operations
	NextUserID(ctx context.Context) (int64, error)
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Contest operations
	NextContestID(ctx context.Context) (model.ContestID, error)
	SaveContest(ctx context.Context, contest *model.Contest) error
	GetContest(ctx context.Context, id model.ContestID) (*model.Contest, error)
	// GetContestsForUser returns the user's contests, newest first
	GetContestsForUser(ctx context.Context, userID int64) ([]*model.Contest, error)
}
