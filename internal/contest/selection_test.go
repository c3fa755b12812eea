package contest

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/circle-go/internal/apiclient"
	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/route"
	"github.com/mcoot/circle-go/internal/testutil"
)

type SelectionSuite struct {
	suite.Suite
	api       *fakeAPI
	identity  *fakeIdentity
	nav       *route.Recorder
	notices   *notices
	selection *Selection
	ctx       context.Context
}

func TestSelectionSuite(t *testing.T) {
	suite.Run(t, new(SelectionSuite))
}

func (s *SelectionSuite) SetupTest() {
	s.api = &fakeAPI{}
	s.identity = &fakeIdentity{}
	s.nav = &route.Recorder{}
	s.notices = &notices{}
	s.selection = NewSelection(SelectionConfig{
		API:       s.api,
		Identity:  s.identity,
		Navigator: s.nav,
		Notifier:  s.notices,
		Logger:    testutil.NopLogger(),
	})
	s.ctx = context.Background()
}

func (s *SelectionSuite) TestResumesActiveContestWithoutGenerating() {
	s.api.activeFn = func(context.Context) (*model.Contest, error) { return newContest(), nil }

	s.Require().NoError(s.selection.GenerateOrResume(s.ctx))

	s.Equal(0, s.api.generateCalls)
	s.Equal(0, s.identity.refreshCount())
	last, ok := s.nav.Last()
	s.Require().True(ok)
	s.Equal(route.Fight, last.To)
}

func (s *SelectionSuite) TestGeneratesWhenNoActiveContest() {
	s.Require().NoError(s.selection.GenerateOrResume(s.ctx))

	s.Equal(1, s.api.activeCalls)
	s.Equal(1, s.api.generateCalls)
	s.Equal(1, s.identity.refreshCount())
	last, _ := s.nav.Last()
	s.Equal(route.Fight, last.To)
}

func (s *SelectionSuite) TestGeneratesWhenActiveLookupFails() {
	s.api.activeFn = func(context.Context) (*model.Contest, error) {
		return nil, errors.New("connection reset")
	}

	s.Require().NoError(s.selection.GenerateOrResume(s.ctx))
	s.Equal(1, s.api.generateCalls)
}

func (s *SelectionSuite) TestGenerateFailureNotifiesWithoutNavigating() {
	s.api.generateFn = func(context.Context) (*model.Contest, error) {
		return nil, &apiclient.APIError{StatusCode: http.StatusBadRequest, Detail: "Not enough problems for your rating"}
	}

	s.Error(s.selection.GenerateOrResume(s.ctx))

	s.Empty(s.nav.Visits)
	s.Equal(0, s.identity.refreshCount())
	s.Equal([]string{"Not enough problems for your rating"}, s.notices.all())
}

func (s *SelectionSuite) TestGenerateFailureWithoutDetailUsesFallback() {
	s.api.generateFn = func(context.Context) (*model.Contest, error) {
		return nil, &apiclient.APIError{StatusCode: http.StatusInternalServerError}
	}

	s.Error(s.selection.GenerateOrResume(s.ctx))
	s.Equal([]string{GenerateFailed}, s.notices.all())
}

func (s *SelectionSuite) TestOverlappingGenerateIsRejected() {
	entered := make(chan struct{})
	release := make(chan struct{})
	s.api.generateFn = func(context.Context) (*model.Contest, error) {
		close(entered)
		<-release
		return newContest(), nil
	}

	done := make(chan error, 1)
	go func() { done <- s.selection.GenerateOrResume(s.ctx) }()
	<-entered

	s.ErrorIs(s.selection.GenerateOrResume(s.ctx), model.ErrBusy)

	close(release)
	s.NoError(<-done)
	s.Equal(1, s.api.generateCalls)
}

func (s *SelectionSuite) TestDashboardCombinesIdentityAndHistory() {
	s.identity.identity = &model.Identity{
		Username:             "alice",
		Rating:               42,
		Level:                5,
		TotalQuestionsSolved: 9,
		Traits:               []string{"graphs", "dp"},
	}
	s.api.historyFn = func(context.Context) (*model.History, error) {
		return &model.History{Contests: []model.Contest{
			{ID: 1, Status: model.ContestStatusCompleted, SolvedCount: 4, TotalQuestions: 4},
			{ID: 2, Status: model.ContestStatusCompleted, SolvedCount: 2, TotalQuestions: 4},
			{ID: 3, Status: model.ContestStatusAbandoned, SolvedCount: 4, TotalQuestions: 4},
		}}, nil
	}

	d, err := s.selection.Dashboard(s.ctx)
	s.Require().NoError(err)

	s.Equal(1, s.identity.refreshCount())
	s.Equal("alice", d.Identity.Username)
	s.Equal(3, d.Contests)
	s.Equal(1, d.Victories)
	s.Equal(9, d.Solved)
	s.Equal(2, d.Traits)
	s.Len(d.History, 3)
}

func (s *SelectionSuite) TestDashboardToleratesHistoryFailure() {
	s.identity.identity = &model.Identity{Username: "alice"}
	s.api.historyFn = func(context.Context) (*model.History, error) {
		return nil, errors.New("boom")
	}

	d, err := s.selection.Dashboard(s.ctx)
	s.Require().NoError(err)
	s.Equal("alice", d.Identity.Username)
	s.Equal(0, d.Contests)
	s.Empty(d.History)
}
