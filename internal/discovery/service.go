package discovery

import (
	"context"
	"log"
	"time"

	"lyricverse/internal/cache"
	"lyricverse/internal/experiments"
	"lyricverse/internal/models"
	"lyricverse/internal/scoring"
	"lyricverse/internal/store"
)

// List size limits. Every surface caps at MaxLimit server-side no matter
// what the caller asks for.
const (
	MaxLimit     = 50
	DefaultLimit = 20
)

// Staleness budgets per list type. Cache writes are eventually consistent
// with these as hard ceilings; discovery trades freshness for them
// deliberately.
const (
	TTLPersonalized     = 3 * time.Hour
	TTLTrending         = 30 * time.Minute
	TTLNetworkTrending  = time.Hour
	TTLPeopleYouMayKnow = 24 * time.Hour
	TTLPopular          = 30 * time.Minute
)

// topSimilarUsers bounds how many co-interactors collaborative filtering
// considers.
const topSimilarUsers = 10

// Service is the discovery orchestrator: it composes the scoring engine,
// experiment assignment, and the recommendation cache with read-only
// store access to produce ranked lists. Each request is a stateless
// compute pipeline; the cache is a side-channel optimization, and every
// internal fault degrades to a popular/random list instead of an error.
type Service struct {
	content      store.ContentStore
	interactions store.InteractionStore
	connections  store.ConnectionStore
	users        store.UserStore

	cache       *cache.RecommendationCache
	experiments *experiments.Assigner
	weights     scoring.Weights

	now func() time.Time
}

// Config bundles the collaborators a Service needs
type Config struct {
	Content      store.ContentStore
	Interactions store.InteractionStore
	Connections  store.ConnectionStore
	Users        store.UserStore
	Cache        *cache.RecommendationCache
	Experiments  *experiments.Assigner
	Weights      scoring.Weights

	// Now is the clock; defaults to time.Now. Tests inject a fixed clock.
	Now func() time.Time
}

// NewService creates the discovery orchestrator
func NewService(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		content:      cfg.Content,
		interactions: cfg.Interactions,
		connections:  cfg.Connections,
		users:        cfg.Users,
		cache:        cfg.Cache,
		experiments:  cfg.Experiments,
		weights:      cfg.Weights,
		now:          now,
	}
}

// capLimit applies the server-side limit policy
func capLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// PopularContent returns the popularity-ranked global list. It is the
// terminal fallback of every recommendation chain, cached under the
// global subject.
func (s *Service) PopularContent(ctx context.Context, limit int) []models.ContentSummary {
	limit = capLimit(limit)

	if cached, ok := cache.GetList[models.ContentSummary](ctx, s.cache, cache.GlobalSubject, cache.ListPopular, limit); ok {
		cacheHits.WithLabelValues(cache.ListPopular).Inc()
		return cached
	}
	cacheMisses.WithLabelValues(cache.ListPopular).Inc()

	items, err := s.content.MostPopular(ctx, MaxLimit)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Popular content query failed: %v", err)
		return []models.ContentSummary{}
	}

	list := summarize(items)
	cache.SetList(ctx, s.cache, cache.GlobalSubject, cache.ListPopular, list, TTLPopular)

	return truncate(list, limit)
}

func summarize(items []models.Content) []models.ContentSummary {
	out := make([]models.ContentSummary, 0, len(items))
	for i := range items {
		out = append(out, items[i].Summary())
	}
	return out
}

func truncate[T any](list []T, limit int) []T {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}
