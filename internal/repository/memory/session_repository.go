package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/molinerisit/wa-bot-sheets/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ store.SessionStore = (*SessionRepository)(nil)

// NewSessionRepository keeps sessions in process memory. Entries expire after
// ttl of inactivity and expired items are purged every 10 minutes.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

// Sessions are stored serialized so callers never share state with the cache.
func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("memory: marshal session: %w", err)
	}
	r.cache.Set(session.UserID, data, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (*store.Session, error) {
	x, found := r.cache.Get(userID)
	if !found {
		return store.NewSession(userID), nil
	}

	var session store.Session
	if err := json.Unmarshal(x.([]byte), &session); err != nil {
		return nil, fmt.Errorf("memory: unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) Clear(ctx context.Context, userID string) error {
	r.cache.Delete(userID)
	return nil
}
