package redis

import (
	"fmt"

	"github.com/mcoot/circle-go/internal/model"
)

// Key prefix for all simulator data
const keyPrefix = "circle"

// userKey returns the Redis key for a User
func userKey(id int64) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// sessionKey returns the Redis key for a Session
func sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}

// contestKey returns the Redis key for a Contest
func contestKey(id model.ContestID) string {
	return fmt.Sprintf("%s:contest:%d", keyPrefix, id)
}

// userContestsIndexKey returns the Redis key for the sorted set of a user's contests
func userContestsIndexKey(userID int64) string {
	return fmt.Sprintf("%s:idx:user_contests:%d", keyPrefix, userID)
}

// sequenceKey returns the Redis key for an ID counter
func sequenceKey(name string) string {
	return fmt.Sprintf("%s:seq:%s", keyPrefix, name)
}
