package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/config"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/repository"
)

// SessionStore carries the durable side effects of the session
// lifecycle. The hub talks to this interface rather than to Redis
// directly, so the finish pipeline can be observed in isolation.
type SessionStore interface {
	AppendHistory(ctx context.Context, candidateID int, entry model.HistoryEntry) error
	EnqueueAttempt(ctx context.Context, record *repository.AttemptRecord) error
	SetActiveSession(ctx context.Context, candidateID int, sessionID uuid.UUID, ttl time.Duration) error
	ClearActiveSession(ctx context.Context, candidateID int) error
}

// RedisSessionStore is the production SessionStore: history entries go
// through the history service, attempts onto the persistence queue the
// result worker drains, and the resume pointer into a keyed string.
type RedisSessionStore struct {
	history *HistoryService
	rdb     *redis.Client
}

// NewRedisSessionStore creates a new RedisSessionStore.
func NewRedisSessionStore(history *HistoryService, rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{history: history, rdb: rdb}
}

func (s *RedisSessionStore) AppendHistory(ctx context.Context, candidateID int, entry model.HistoryEntry) error {
	return s.history.Append(ctx, candidateID, entry)
}

func (s *RedisSessionStore) EnqueueAttempt(ctx context.Context, record *repository.AttemptRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	return s.rdb.RPush(ctx, config.WorkerKey.PersistAttemptsQueue, raw).Err()
}

func (s *RedisSessionStore) SetActiveSession(ctx context.Context, candidateID int, sessionID uuid.UUID, ttl time.Duration) error {
	return s.rdb.Set(ctx, config.CacheKey.CandidateActiveSessionKey(candidateID), sessionID.String(), ttl).Err()
}

func (s *RedisSessionStore) ClearActiveSession(ctx context.Context, candidateID int) error {
	return s.rdb.Del(ctx, config.CacheKey.CandidateActiveSessionKey(candidateID)).Err()
}
