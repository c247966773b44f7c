package discovery

import (
	"context"
	"log"
	"sort"

	"lyricverse/internal/cache"
	"lyricverse/internal/models"
)

// TrendingContent returns the global trending list: content with a
// positive trending score, sorted descending. Backed by the 30-minute
// cache the trending job invalidates after each recompute.
func (s *Service) TrendingContent(ctx context.Context, limit int) []models.ContentSummary {
	limit = capLimit(limit)

	if cached, ok := cache.GetList[models.ContentSummary](ctx, s.cache, cache.GlobalSubject, cache.ListTrending, limit); ok {
		cacheHits.WithLabelValues(cache.ListTrending).Inc()
		return cached
	}
	cacheMisses.WithLabelValues(cache.ListTrending).Inc()

	items, err := s.content.Trending(ctx, 0, MaxLimit)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Trending query failed: %v", err)
		return []models.ContentSummary{}
	}

	list := summarize(items)
	cache.SetList(ctx, s.cache, cache.GlobalSubject, cache.ListTrending, list, TTLTrending)

	return truncate(list, limit)
}

// NetworkTrending returns trending content restricted to the user's
// direct connections' creations, padded with global trending when the
// network alone cannot fill the list. De-duplicated by content id.
func (s *Service) NetworkTrending(ctx context.Context, userID string, limit int) []models.ContentSummary {
	limit = capLimit(limit)

	if cached, ok := cache.GetList[models.ContentSummary](ctx, s.cache, userID, cache.ListNetworkTrending, limit); ok {
		cacheHits.WithLabelValues(cache.ListNetworkTrending).Inc()
		return cached
	}
	cacheMisses.WithLabelValues(cache.ListNetworkTrending).Inc()

	// Cache at MaxLimit so the entry serves any later request size
	list := s.networkTrending(ctx, userID, MaxLimit)
	cache.SetList(ctx, s.cache, userID, cache.ListNetworkTrending, list, TTLNetworkTrending)
	return truncate(list, limit)
}

func (s *Service) networkTrending(ctx context.Context, userID string, limit int) []models.ContentSummary {
	connections, err := s.connections.ConnectionsOf(ctx, userID)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Connection lookup failed for %s: %v", userID, err)
		return s.TrendingContent(ctx, limit)
	}

	var network []models.Content
	if len(connections) > 0 {
		network, err = s.content.ByCreators(ctx, connections)
		if err != nil {
			log.Printf("❌ [DISCOVERY] Network content lookup failed for %s: %v", userID, err)
			return s.TrendingContent(ctx, limit)
		}
	}

	// Only positively trending network content qualifies
	trending := network[:0]
	for _, c := range network {
		if c.TrendingScore > 0 {
			trending = append(trending, c)
		}
	}
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].TrendingScore > trending[j].TrendingScore
	})

	out := summarize(truncate(trending, limit))
	seen := make(map[string]bool, len(out))
	for _, c := range out {
		seen[c.ID] = true
	}

	// Pad shortfall with global trending
	if len(out) < limit {
		for _, c := range s.TrendingContent(ctx, limit) {
			if len(out) == limit {
				break
			}
			if seen[c.ID] {
				continue
			}
			out = append(out, c)
			seen[c.ID] = true
		}
	}

	return out
}
