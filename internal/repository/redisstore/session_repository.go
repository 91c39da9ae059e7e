// Package redisstore keeps customer sessions in Redis so they survive restarts
// and are shared between instances.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/molinerisit/wa-bot-sheets/pkg/store"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "sess:"

type SessionRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ store.SessionStore = (*SessionRepository)(nil)

// NewSessionRepository stores sessions as JSON under "<prefix><user_id>".
func NewSessionRepository(client *redis.Client, prefix string, ttl time.Duration) *SessionRepository {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &SessionRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *SessionRepository) key(userID string) string {
	return r.prefix + userID
}

// Get returns the stored session or a fresh default one when the key is absent.
func (r *SessionRepository) Get(ctx context.Context, userID string) (*store.Session, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.NewSession(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get: %v", store.ErrUnavailable, err)
	}

	var session store.Session
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("redisstore: unmarshal session: %w", err)
	}
	return &session, nil
}

// Save overwrites the session and resets its TTL.
func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redisstore: marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(session.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: redis delete: %v", store.ErrUnavailable, err)
	}
	return nil
}
