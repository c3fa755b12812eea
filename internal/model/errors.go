package model

import "errors"

// Common errors used across the client and the simulator
var (
	// Session errors
	ErrUnauthenticated = errors.New("not authenticated")

	// Contest errors
	ErrNoActiveContest = errors.New("no active contest")
	ErrNotActive       = errors.New("contest is not active")
	ErrMarkInFlight    = errors.New("a mark-solved request is already in flight")
	ErrBusy            = errors.New("another request is already in flight")
	ErrNotConfirmed    = errors.New("action was not confirmed")
	ErrClosed          = errors.New("view has been closed")

	// Simulator errors
	ErrUserNotFound         = errors.New("user not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrContestNotFound      = errors.New("contest not found")
	ErrContestAlreadyActive = errors.New("an active contest already exists")
	ErrQuestionNotFound     = errors.New("question not found in contest")
	ErrAlreadySolved        = errors.New("question already marked as solved")
	ErrCatalogNotLoaded     = errors.New("problem catalog not loaded")
	ErrNoEligibleProblems   = errors.New("no problems available for rating")
)
