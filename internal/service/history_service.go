package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/config"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
)

// HistoryService keeps the per-candidate attempt history: an
// append-only, newest-first Redis list capped at the configured limit.
// Entries are write-once; the only mutation besides append is a bulk
// clear.
type HistoryService struct {
	rdb   *redis.Client
	limit int
	log   zerolog.Logger
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(rdb *redis.Client, limit int, log zerolog.Logger) *HistoryService {
	return &HistoryService{
		rdb:   rdb,
		limit: limit,
		log:   log.With().Str("component", "history_service").Logger(),
	}
}

// Append pushes an entry and trims the list to the cap, atomically via
// a pipeline so a crash never leaves an overlong list.
func (s *HistoryService) Append(ctx context.Context, candidateID int, entry model.HistoryEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	key := config.CacheKey.CandidateHistoryKey(candidateID)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, int64(s.limit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// List returns the candidate's history, newest first.
func (s *HistoryService) List(ctx context.Context, candidateID int) ([]model.HistoryEntry, error) {
	key := config.CacheKey.CandidateHistoryKey(candidateID)
	raws, err := s.rdb.LRange(ctx, key, 0, int64(s.limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	entries := make([]model.HistoryEntry, 0, len(raws))
	for _, raw := range raws {
		var e model.HistoryEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			// A corrupt entry is skipped, not fatal to the whole list.
			s.log.Warn().Err(err).Int("candidate_id", candidateID).Msg("Skipping corrupt history entry")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Clear deletes one candidate's entire history.
func (s *HistoryService) Clear(ctx context.Context, candidateID int) error {
	return s.rdb.Del(ctx, config.CacheKey.CandidateHistoryKey(candidateID)).Err()
}

// ClearAll deletes every candidate's history. Admin-only maintenance
// operation; SCAN keeps it safe on a busy instance.
func (s *HistoryService) ClearAll(ctx context.Context) (int, error) {
	var cleared int
	iter := s.rdb.Scan(ctx, 0, "candidate:*:history", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return cleared, err
		}
		cleared++
	}
	return cleared, iter.Err()
}
