package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcoot/circle-go/internal/model"
)

// Register creates an account; the service also starts a session for it
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.Post(ctx, "/api/auth/createUser", model.Credentials{Username: username, Password: password}, nil)
}

// Login starts a session for an existing account
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.Post(ctx, "/api/auth/login", model.Credentials{Username: username, Password: password}, nil)
}

// Logout ends the current session
func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, "/api/auth/logout", nil, nil)
}

// Profile fetches the authenticated user's identity
func (c *Client) Profile(ctx context.Context) (*model.Identity, error) {
	var identity model.Identity
	if err := c.Get(ctx, "/api/contests/profile", &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// GenerateContest asks the service to generate a new contest
func (c *Client) GenerateContest(ctx context.Context) (*model.Contest, error) {
	var contest model.Contest
	if err := c.Get(ctx, "/api/contests/generate", &contest); err != nil {
		return nil, err
	}
	return &contest, nil
}

// ActiveContest fetches the in-progress contest. A 404 or an empty body is
// reported as model.ErrNoActiveContest.
func (c *Client) ActiveContest(ctx context.Context) (*model.Contest, error) {
	var contest *model.Contest
	if err := c.Get(ctx, "/api/contests/active", &contest); err != nil {
		if StatusCode(err) == http.StatusNotFound {
			return nil, errors.Join(model.ErrNoActiveContest, err)
		}
		return nil, err
	}
	if contest == nil {
		return nil, model.ErrNoActiveContest
	}
	return contest, nil
}

// MarkSolved marks a question of the active contest as solved
func (c *Client) MarkSolved(ctx context.Context, questionID string) (*model.MarkSolvedResult, error) {
	req := map[string]string{"questionId": questionID}
	var result model.MarkSolvedResult
	if err := c.Post(ctx, "/api/contests/mark-solved", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CompleteContest finishes the active contest and returns the scored result
func (c *Client) CompleteContest(ctx context.Context) (*model.Result, error) {
	var result model.Result
	if err := c.Post(ctx, "/api/contests/complete", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AbandonContest gives up the active contest
func (c *Client) AbandonContest(ctx context.Context) error {
	return c.Post(ctx, "/api/contests/abandon", nil, nil)
}

// History lists the user's finished contests
func (c *Client) History(ctx context.Context) (*model.History, error) {
	var history model.History
	if err := c.Get(ctx, "/api/contests/history", &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Contests lists every contest the user has started, newest first
func (c *Client) Contests(ctx context.Context) (*model.ContestList, error) {
	var list model.ContestList
	if err := c.Get(ctx, "/api/contests/", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Contest fetches a single contest owned by the user
func (c *Client) Contest(ctx context.Context, id model.ContestID) (*model.Contest, error) {
	var contest model.Contest
	if err := c.Get(ctx, fmt.Sprintf("/api/contests/%d", id), &contest); err != nil {
		return nil, err
	}
	return &contest, nil
}

// Health checks that the service is reachable
func (c *Client) Health(ctx context.Context) error {
	return c.Get(ctx, "/api/health", nil)
}
