// Package auth resolves session tokens to trusted user ids. Sessions are
// written to Redis by the (external) auth service; the ledger only reads them
// and rejects requests it cannot resolve.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var ErrNoSession = errors.New("no session for token")

type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func key(token string) string { return "session:" + token }

// UserID returns the user id a token resolves to, or ErrNoSession.
func (s *SessionStore) UserID(ctx context.Context, token string) (int64, error) {
	v, err := s.rdb.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, fmt.Errorf("session lookup: %w", err)
	}

	userID, err := strconv.ParseInt(v, 10, 64)
	if err != nil || userID <= 0 {
		// A malformed session value is treated as absent, not as an outage.
		return 0, ErrNoSession
	}
	return userID, nil
}
