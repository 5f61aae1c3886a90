package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"project-tracker/internal/cache"
	"project-tracker/internal/domain"
)

// SessionStore persists the raw widget state of one render session so that
// repeated renders with the same session key address the same answers, the
// contract the FieldRenderer collaborator requires across passes and
// redraws.
type SessionStore interface {
	// Merge writes raw answer values into the session, leaving other
	// answers untouched, and refreshes the session TTL.
	Merge(ctx context.Context, sessionKey string, values map[string]interface{}) error

	// Load returns the session's raw answers. A session that was never
	// written is an empty set, not an error.
	Load(ctx context.Context, sessionKey string) (domain.AnswerSet, error)

	// Clear discards the session after a successful submit.
	Clear(ctx context.Context, sessionKey string) error
}

type cacheSessionStore struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSessionStore creates a SessionStore over the cache port. Each session
// is one hash keyed by session key, one field per question_id, values
// JSON-encoded so multiselect slices survive the round trip.
func NewSessionStore(c domain.Cache, ttl time.Duration) SessionStore {
	return &cacheSessionStore{cache: c, ttl: ttl}
}

func sessionCacheKey(sessionKey string) string {
	return cache.GenerateCacheKey("form", "session", sessionKey)
}

func (s *cacheSessionStore) Merge(ctx context.Context, sessionKey string, values map[string]interface{}) error {
	key := sessionCacheKey(sessionKey)
	for qid, val := range values {
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("failed to encode answer for %s: %w", qid, err)
		}
		if err := s.cache.HSet(ctx, key, qid, string(encoded)); err != nil {
			return fmt.Errorf("failed to store answer for %s: %w", qid, err)
		}
	}
	if s.ttl > 0 {
		if err := s.cache.Expire(ctx, key, s.ttl); err != nil {
			return fmt.Errorf("failed to refresh session ttl: %w", err)
		}
	}
	return nil
}

func (s *cacheSessionStore) Load(ctx context.Context, sessionKey string) (domain.AnswerSet, error) {
	fields, err := s.cache.HGetAll(ctx, sessionCacheKey(sessionKey))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return domain.AnswerSet{}, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	answers := make(domain.AnswerSet, len(fields))
	for qid, encoded := range fields {
		var val interface{}
		if err := json.Unmarshal([]byte(encoded), &val); err != nil {
			// A corrupt field falls back to its raw string rather than
			// poisoning the whole session.
			answers[qid] = encoded
			continue
		}
		answers[qid] = normalizeDecoded(val)
	}
	return answers, nil
}

func (s *cacheSessionStore) Clear(ctx context.Context, sessionKey string) error {
	return s.cache.Delete(ctx, sessionCacheKey(sessionKey))
}

// normalizeDecoded converts JSON-decoded values to the shapes the engine
// works with: []interface{} of strings becomes []string so multiselect
// answers normalize and validate like native slices.
func normalizeDecoded(val interface{}) interface{} {
	items, ok := val.([]interface{})
	if !ok {
		return val
	}
	strs := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return val
		}
		strs = append(strs, s)
	}
	return strs
}
