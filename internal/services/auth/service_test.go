package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/circle-go/internal/dependencies/mocks"
	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/storage/memory"
	"github.com/mcoot/circle-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, Config{
		SessionDuration: 24 * time.Hour,
		BcryptCost:      bcrypt.MinCost,
	}, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	session, user, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal(user.ID, session.UserID)
	s.Equal(30, user.Rating)
	s.Equal("alice", user.Username)
}

func (s *ServiceSuite) TestRegisterHashesPassword() {
	_, _, _ = s.service.Register(s.ctx, "alice", "password123")

	user, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(user.PasswordHash)
	s.NotEqual("password123", user.PasswordHash)
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_, _, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	_, _, err = s.service.Register(s.ctx, "alice", "other")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestRegisterAssignsDistinctIDs() {
	_, a, _ := s.service.Register(s.ctx, "alice", "pw")
	_, b, _ := s.service.Register(s.ctx, "bob", "pw")
	s.NotEqual(a.ID, b.ID)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	_, user, _ := s.service.Register(s.ctx, "alice", "password123")

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	s.Equal(user.ID, session.UserID)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, _, _ = s.service.Register(s.ctx, "alice", "password123")

	_, err := s.service.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "pw")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Session tests

func (s *ServiceSuite) TestValidateSession() {
	session, _, _ := s.service.Register(s.ctx, "alice", "pw")

	validated, err := s.service.ValidateSession(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(session.UserID, validated.UserID)
}

func (s *ServiceSuite) TestValidateSessionUnknownToken() {
	_, err := s.service.ValidateSession(s.ctx, "nope")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSessionExpires() {
	session, _, _ := s.service.Register(s.ctx, "alice", "pw")

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.storage.GetSession(s.ctx, session.Token)
	s.ErrorIs(err, model.ErrSessionNotFound, "expired sessions are removed")
}

func (s *ServiceSuite) TestLogoutInvalidatesSession() {
	session, _, _ := s.service.Register(s.ctx, "alice", "pw")

	s.Require().NoError(s.service.Logout(s.ctx, session.Token))

	_, err := s.service.ValidateSession(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestLogoutWithoutToken() {
	s.NoError(s.service.Logout(s.ctx, ""))
}

func (s *ServiceSuite) TestDefaultsApplied() {
	svc := New(s.storage, s.clock, Config{}, testutil.NopLogger())
	s.Equal(DefaultConfig().SessionDuration, svc.SessionDuration())
}
