package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CandidateLoginKey returns the cache key holding a candidate's active JWT id.
func (r *CacheKeyStruct) CandidateLoginKey(candidateID int) string {
	return fmt.Sprintf("login:candidate:%d", candidateID)
}

// CandidateHistoryKey returns the key of a candidate's attempt-history list.
func (r *CacheKeyStruct) CandidateHistoryKey(candidateID int) string {
	return fmt.Sprintf("candidate:%d:history", candidateID)
}

// CandidateActiveSessionKey returns the key mapping a candidate to their
// live session id, used to resume after a page reload.
func (r *CacheKeyStruct) CandidateActiveSessionKey(candidateID int) string {
	return fmt.Sprintf("candidate:%d:active_session", candidateID)
}

var CacheKey = NewCacheKeyStruct()
