package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) NextUserID(ctx context.Context) (int64, error) {
	return s.client.Incr(ctx, sequenceKey("user")).Result()
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(user.Username), user.ID, 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id int64) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	// Look up user ID from username index
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, id)
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.Token), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

// Contest operations

func (s *Storage) NextContestID(ctx context.Context) (model.ContestID, error) {
	id, err := s.client.Incr(ctx, sequenceKey("contest")).Result()
	if err != nil {
		return 0, err
	}
	return model.ContestID(id), nil
}

func (s *Storage) SaveContest(ctx context.Context, contest *model.Contest) error {
	data, err := json.Marshal(contest)
	if err != nil {
		return err
	}

	// The user index is a sorted set scored by contest ID so history
	// comes back newest first.
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, contestKey(contest.ID), data, 0)
	pipe.ZAdd(ctx, userContestsIndexKey(contest.UserID), redis.Z{
		Score:  float64(contest.ID),
		Member: strconv.FormatInt(int64(contest.ID), 10),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetContest(ctx context.Context, id model.ContestID) (*model.Contest, error) {
	data, err := s.client.Get(ctx, contestKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrContestNotFound
		}
		return nil, err
	}

	var contest model.Contest
	if err := json.Unmarshal(data, &contest); err != nil {
		return nil, err
	}
	return &contest, nil
}

func (s *Storage) GetContestsForUser(ctx context.Context, userID int64) ([]*model.Contest, error) {
	members, err := s.client.ZRevRange(ctx, userContestsIndexKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(members) == 0 {
		return []*model.Contest{}, nil
	}

	keys := make([]string, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue // Skip invalid index entries
		}
		keys = append(keys, contestKey(model.ContestID(id)))
	}
	if len(keys) == 0 {
		return []*model.Contest{}, nil
	}

	// Fetch all contests in one round trip using MGET
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	contests := make([]*model.Contest, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var contest model.Contest
		if err := json.Unmarshal([]byte(str), &contest); err != nil {
			continue // Skip invalid data
		}
		contests = append(contests, &contest)
	}

	return contests, nil
}
