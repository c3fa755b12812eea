package contest

import (
	"context"
	"sync"

	"github.com/mcoot/circle-go/internal/model"
)

// fakeAPI is a scriptable contest API. Nil funcs fall back to defaults.
type fakeAPI struct {
	mu sync.Mutex

	activeFn   func(ctx context.Context) (*model.Contest, error)
	generateFn func(ctx context.Context) (*model.Contest, error)
	markFn     func(ctx context.Context, questionID string) (*model.MarkSolvedResult, error)
	completeFn func(ctx context.Context) (*model.Result, error)
	abandonFn  func(ctx context.Context) error
	historyFn  func(ctx context.Context) (*model.History, error)

	activeCalls   int
	generateCalls int
	markCalls     []string
	completeCalls int
	abandonCalls  int
}

func (f *fakeAPI) ActiveContest(ctx context.Context) (*model.Contest, error) {
	f.mu.Lock()
	f.activeCalls++
	fn := f.activeFn
	f.mu.Unlock()
	if fn == nil {
		return nil, model.ErrNoActiveContest
	}
	return fn(ctx)
}

func (f *fakeAPI) GenerateContest(ctx context.Context) (*model.Contest, error) {
	f.mu.Lock()
	f.generateCalls++
	fn := f.generateFn
	f.mu.Unlock()
	if fn == nil {
		return newContest(), nil
	}
	return fn(ctx)
}

func (f *fakeAPI) MarkSolved(ctx context.Context, questionID string) (*model.MarkSolvedResult, error) {
	f.mu.Lock()
	f.markCalls = append(f.markCalls, questionID)
	fn := f.markFn
	f.mu.Unlock()
	if fn == nil {
		return &model.MarkSolvedResult{QuestionID: questionID, Solved: true, SolvedCount: 1}, nil
	}
	return fn(ctx, questionID)
}

func (f *fakeAPI) CompleteContest(ctx context.Context) (*model.Result, error) {
	f.mu.Lock()
	f.completeCalls++
	fn := f.completeFn
	f.mu.Unlock()
	if fn == nil {
		return &model.Result{Status: model.ContestStatusCompleted}, nil
	}
	return fn(ctx)
}

func (f *fakeAPI) AbandonContest(ctx context.Context) error {
	f.mu.Lock()
	f.abandonCalls++
	fn := f.abandonFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (f *fakeAPI) History(ctx context.Context) (*model.History, error) {
	f.mu.Lock()
	fn := f.historyFn
	f.mu.Unlock()
	if fn == nil {
		return &model.History{}, nil
	}
	return fn(ctx)
}

func (f *fakeAPI) markCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.markCalls)
}

// fakeIdentity counts refreshes
type fakeIdentity struct {
	mu        sync.Mutex
	refreshes int
	identity  *model.Identity
}

func (f *fakeIdentity) Refresh(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
}

func (f *fakeIdentity) Identity() *model.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.identity.Clone()
}

func (f *fakeIdentity) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

// notices records notifications
type notices struct {
	mu       sync.Mutex
	messages []string
}

func (n *notices) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *notices) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func newContest() *model.Contest {
	return &model.Contest{
		ID:     7,
		Title:  "The Binary Hydra",
		Status: model.ContestStatusActive,
		Questions: []model.Question{
			{ID: "Q1", Name: "Two Sum", Source: "codeforces", InternalRating: 31, Tags: []string{"arrays"}},
			{ID: "Q2", Name: "Paths", Source: "codeforces", InternalRating: 33, Tags: []string{"graphs"}},
			{ID: "Q3", Name: "Knapsack", Source: "atcoder", InternalRating: 35, Tags: []string{"dp"}},
			{ID: "Q4", Name: "Segments", Source: "atcoder", InternalRating: 38, Tags: []string{"trees"}},
		},
		QuestionStates: map[string]int{},
		SolvedCount:    0,
		TotalQuestions: 4,
		RatingBefore:   30,
	}
}
