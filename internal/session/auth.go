package session

import (
	"context"
	"fmt"
)

// AuthAPI is the slice of the service API used by the auth flows
type AuthAPI interface {
	ProfileAPI
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
}

// AuthErrorFallback is shown when a failed login or register carries no detail
const AuthErrorFallback = "An error occurred"

// Authenticator runs the login, register and logout flows against a Store
type Authenticator struct {
	api   AuthAPI
	store *Store
}

// NewAuthenticator creates an Authenticator
func NewAuthenticator(api AuthAPI, store *Store) *Authenticator {
	return &Authenticator{api: api, store: store}
}

// Login signs in and re-runs the auth check so the store reflects the
// new session
func (a *Authenticator) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}
	if err := a.api.Login(ctx, username, password); err != nil {
		return err
	}
	a.store.CheckAuth(ctx)
	return nil
}

// Register creates an account, which also signs it in
func (a *Authenticator) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}
	if err := a.api.Register(ctx, username, password); err != nil {
		return err
	}
	a.store.CheckAuth(ctx)
	return nil
}

// Logout ends the session. The identity is cleared even if the request fails.
func (a *Authenticator) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.store.Clear()
	return err
}
