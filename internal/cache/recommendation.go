package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// GlobalSubject is the reserved cache subject for lists that are not
// scoped to a user (global trending, popular fallback).
const GlobalSubject = "global"

// List types cached by the discovery engine
const (
	ListPersonalized     = "personalized"
	ListTrending         = "trending"
	ListNetworkTrending  = "network_trending"
	ListPeopleYouMayKnow = "people_you_may_know"
	ListPopular          = "popular"
)

// RecommendationCache is a TTL JSON cache for ranked discovery lists,
// keyed by (subject, list type). It fails open: any store error is logged
// and reported to the caller as a plain miss, never an error. Lists are
// ephemeral and cache-resident only; losing the backend just means
// recomputation on the next request.
type RecommendationCache struct {
	store Store
}

// NewRecommendationCache creates a cache over the given store
func NewRecommendationCache(store Store) *RecommendationCache {
	return &RecommendationCache{store: store}
}

func listKey(subject, listType string) string {
	return fmt.Sprintf("rec:%s:%s", subject, listType)
}

// GetList reads a cached list and truncates it to limit. ok is false on
// miss, expiry, decode failure, or any backend error.
func GetList[T any](ctx context.Context, c *RecommendationCache, subject, listType string, limit int) (list []T, ok bool) {
	raw, err := c.store.Get(ctx, listKey(subject, listType))
	if err != nil {
		if err != ErrNotFound {
			log.Printf("⚠️ [CACHE] Read failed for %s/%s: %v (treating as miss)", subject, listType, err)
		}
		return nil, false
	}

	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("⚠️ [CACHE] Corrupt entry for %s/%s: %v (treating as miss)", subject, listType, err)
		return nil, false
	}

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, true
}

// SetList stores a list under (subject, listType) with the given TTL.
// Failures are logged and swallowed.
func SetList[T any](ctx context.Context, c *RecommendationCache, subject, listType string, list []T, ttl time.Duration) {
	raw, err := json.Marshal(list)
	if err != nil {
		log.Printf("⚠️ [CACHE] Marshal failed for %s/%s: %v", subject, listType, err)
		return
	}

	if err := c.store.Set(ctx, listKey(subject, listType), string(raw), ttl); err != nil {
		log.Printf("⚠️ [CACHE] Write failed for %s/%s: %v", subject, listType, err)
	}
}

// Invalidate removes cached lists for a subject. With list types given it
// deletes exactly those entries; without, it pattern-deletes every list
// type for the subject.
func (c *RecommendationCache) Invalidate(ctx context.Context, subject string, listTypes ...string) {
	if len(listTypes) == 0 {
		pattern := fmt.Sprintf("rec:%s:*", subject)
		if err := c.store.DeleteByPattern(ctx, pattern); err != nil {
			log.Printf("⚠️ [CACHE] Pattern invalidation failed for %s: %v", subject, err)
		}
		return
	}

	keys := make([]string, 0, len(listTypes))
	for _, lt := range listTypes {
		keys = append(keys, listKey(subject, lt))
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		log.Printf("⚠️ [CACHE] Invalidation failed for %s: %v", subject, err)
	}
}
