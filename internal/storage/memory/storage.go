package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied in and out so callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	users         map[int64]*model.User
	usernameIndex map[string]int64
	sessions      map[string]*model.Session
	contests      map[model.ContestID]*model.Contest
	userContests  map[int64][]model.ContestID

	lastUserID    int64
	lastContestID model.ContestID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[int64]*model.User),
		usernameIndex: make(map[string]int64),
		sessions:      make(map[string]*model.Session),
		contests:      make(map[model.ContestID]*model.Contest),
		userContests:  make(map[int64][]model.ContestID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) NextUserID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUserID++
	return s.lastUserID, nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = cloneUser(user)
	s.usernameIndex[user.Username] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.Token] = &cp
	return nil
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Contest operations

func (s *Storage) NextContestID(ctx context.Context) (model.ContestID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastContestID++
	return s.lastContestID, nil
}

func (s *Storage) SaveContest(ctx context.Context, contest *model.Contest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.contests[contest.ID]; !exists {
		s.userContests[contest.UserID] = append(s.userContests[contest.UserID], contest.ID)
	}
	s.contests[contest.ID] = contest.Clone()
	return nil
}

func (s *Storage) GetContest(ctx context.Context, id model.ContestID) (*model.Contest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contest, ok := s.contests[id]
	if !ok {
		return nil, model.ErrContestNotFound
	}
	return contest.Clone(), nil
}

func (s *Storage) GetContestsForUser(ctx context.Context, userID int64) ([]*model.Contest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.userContests[userID]
	contests := make([]*model.Contest, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.contests[id]; ok {
			contests = append(contests, c.Clone())
		}
	}
	sort.Slice(contests, func(i, j int) bool {
		return contests[i].ID > contests[j].ID
	})
	return contests, nil
}

func cloneUser(u *model.User) *model.User {
	cp := *u
	if u.TopicSolves != nil {
		cp.TopicSolves = make(map[string]int, len(u.TopicSolves))
		for k, v := range u.TopicSolves {
			cp.TopicSolves[k] = v
		}
	}
	if u.ActiveContestID != nil {
		id := *u.ActiveContestID
		cp.ActiveContestID = &id
	}
	return &cp
}
