package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/circle-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:           1,
		Username:     "alice",
		PasswordHash: "hash",
		Rating:       30,
		CreatedAt:    time.Now(),
	}

	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, err := s.storage.GetUser(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal(30, retrieved.Rating)

	byName, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(1), byName.ID)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, 42)
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.storage.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestUserIsCopied() {
	user := &model.User{ID: 1, Username: "alice", TopicSolves: map[string]int{"dp": 1}}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	user.TopicSolves["dp"] = 99
	retrieved, _ := s.storage.GetUser(s.ctx, 1)
	s.Equal(1, retrieved.TopicSolves["dp"])

	retrieved.TopicSolves["dp"] = 50
	again, _ := s.storage.GetUser(s.ctx, 1)
	s.Equal(1, again.TopicSolves["dp"])
}

func (s *StorageSuite) TestNextUserIDIncrements() {
	first, err := s.storage.NextUserID(s.ctx)
	s.Require().NoError(err)
	second, err := s.storage.NextUserID(s.ctx)
	s.Require().NoError(err)
	s.Equal(first+1, second)
}

// Session tests

func (s *StorageSuite) TestSessionLifecycle() {
	session := &model.Session{Token: "tok", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "tok")
	s.Require().NoError(err)
	s.Equal(int64(1), retrieved.UserID)

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "tok"))
	_, err = s.storage.GetSession(s.ctx, "tok")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Contest tests

func (s *StorageSuite) TestSaveAndGetContest() {
	contest := &model.Contest{
		ID:             1,
		UserID:         7,
		Status:         model.ContestStatusActive,
		Questions:      []model.Question{{ID: "Q1", Name: "Two Sum"}},
		QuestionStates: map[string]int{"Q1": 0},
		TotalQuestions: 1,
	}
	s.Require().NoError(s.storage.SaveContest(s.ctx, contest))

	retrieved, err := s.storage.GetContest(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("Two Sum", retrieved.Questions[0].Name)

	retrieved.QuestionStates["Q1"] = 1
	again, _ := s.storage.GetContest(s.ctx, 1)
	s.Equal(0, again.QuestionStates["Q1"])
}

func (s *StorageSuite) TestGetContestNotFound() {
	_, err := s.storage.GetContest(s.ctx, 99)
	s.ErrorIs(err, model.ErrContestNotFound)
}

func (s *StorageSuite) TestGetContestsForUserNewestFirst() {
	for _, id := range []model.ContestID{1, 2, 3} {
		s.Require().NoError(s.storage.SaveContest(s.ctx, &model.Contest{ID: id, UserID: 7}))
	}
	s.Require().NoError(s.storage.SaveContest(s.ctx, &model.Contest{ID: 4, UserID: 8}))
	// Re-saving must not duplicate the index entry
	s.Require().NoError(s.storage.SaveContest(s.ctx, &model.Contest{ID: 2, UserID: 7, Title: "updated"}))

	contests, err := s.storage.GetContestsForUser(s.ctx, 7)
	s.Require().NoError(err)
	s.Require().Len(contests, 3)
	s.Equal(model.ContestID(3), contests[0].ID)
	s.Equal(model.ContestID(2), contests[1].ID)
	s.Equal("updated", contests[1].Title)
	s.Equal(model.ContestID(1), contests[2].ID)
}

func (s *StorageSuite) TestGetContestsForUserEmpty() {
	contests, err := s.storage.GetContestsForUser(s.ctx, 7)
	s.Require().NoError(err)
	s.Empty(contests)
}
