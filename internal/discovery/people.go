package discovery

import (
	"context"
	"log"
	"sort"

	"lyricverse/internal/cache"
	"lyricverse/internal/models"
	"lyricverse/internal/store"
)

// PeopleYouMayKnow returns connection suggestions for a user, cached for
// 24 hours. Strategy chain: 2nd-degree graph traversal scored by mutual
// connections, then interest-tag overlap, then random sample. Every
// strategy excludes the caller and anyone already connected to them.
func (s *Service) PeopleYouMayKnow(ctx context.Context, userID string, limit int) []models.UserSuggestion {
	limit = capLimit(limit)

	if cached, ok := cache.GetList[models.UserSuggestion](ctx, s.cache, userID, cache.ListPeopleYouMayKnow, limit); ok {
		cacheHits.WithLabelValues(cache.ListPeopleYouMayKnow).Inc()
		return cached
	}
	cacheMisses.WithLabelValues(cache.ListPeopleYouMayKnow).Inc()

	// Cache at MaxLimit so the entry serves any later request size
	list := s.peopleYouMayKnow(ctx, userID, MaxLimit)
	s.attachInfluenceTiers(ctx, list)
	cache.SetList(ctx, s.cache, userID, cache.ListPeopleYouMayKnow, list, TTLPeopleYouMayKnow)
	return truncate(list, limit)
}

func (s *Service) peopleYouMayKnow(ctx context.Context, userID string, limit int) []models.UserSuggestion {
	direct, err := s.connections.ConnectionsOf(ctx, userID)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Connection lookup failed for %s: %v", userID, err)
		direct = nil
	}

	excluded := make(map[string]bool, len(direct)+1)
	excluded[userID] = true
	for _, id := range direct {
		excluded[id] = true
	}
	excludeIDs := make([]string, 0, len(excluded))
	for id := range excluded {
		excludeIDs = append(excludeIDs, id)
	}

	// 1st choice: friends-of-friends scored by how many mutual
	// connections lead to them
	if suggestions := s.secondDegree(ctx, direct, excluded, limit); len(suggestions) > 0 {
		return suggestions
	}

	// 2nd choice: interest-tag overlap
	if suggestions := s.byInterests(ctx, userID, excluded, excludeIDs, limit); len(suggestions) > 0 {
		return suggestions
	}

	// Last resort: unscored random sample with the same exclusions
	return s.randomSample(ctx, excludeIDs, excluded, limit)
}

// attachInfluenceTiers annotates suggestions with the static
// connection-count tier of each suggested user. Lookup failures leave the
// tier empty rather than dropping the suggestion.
func (s *Service) attachInfluenceTiers(ctx context.Context, suggestions []models.UserSuggestion) {
	for i := range suggestions {
		connections, err := s.connections.ConnectionsOf(ctx, suggestions[i].UserID)
		if err != nil {
			continue
		}
		suggestions[i].InfluenceTier = store.InfluenceTier(len(connections))
	}
}

func (s *Service) secondDegree(ctx context.Context, direct []string, excluded map[string]bool, limit int) []models.UserSuggestion {
	mutual := map[string]int{}
	for _, friend := range direct {
		theirs, err := s.connections.ConnectionsOf(ctx, friend)
		if err != nil {
			log.Printf("❌ [DISCOVERY] 2nd-degree lookup failed via %s: %v", friend, err)
			continue
		}
		for _, candidate := range theirs {
			if !excluded[candidate] {
				mutual[candidate]++
			}
		}
	}
	if len(mutual) == 0 {
		return nil
	}

	ids := make([]string, 0, len(mutual))
	for id := range mutual {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if mutual[ids[i]] != mutual[ids[j]] {
			return mutual[ids[i]] > mutual[ids[j]]
		}
		return ids[i] < ids[j]
	})
	ids = truncate(ids, limit)

	users, err := s.users.ByIDs(ctx, ids)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Suggestion user lookup failed: %v", err)
		return nil
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].UserID] = &users[i]
	}

	now := s.now()
	out := make([]models.UserSuggestion, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, models.UserSuggestion{
			UserID:      u.UserID,
			DisplayName: u.DisplayName,
			Score:       float64(mutual[id]),
			Reason:      "mutual_connections",
			SuggestedAt: now,
		})
	}
	return out
}

func (s *Service) byInterests(ctx context.Context, userID string, excluded map[string]bool, excludeIDs []string, limit int) []models.UserSuggestion {
	me, err := s.users.ByID(ctx, userID)
	if err != nil {
		log.Printf("❌ [DISCOVERY] User lookup failed for %s: %v", userID, err)
		return nil
	}
	if len(me.InterestTags) == 0 {
		return nil
	}

	candidates, err := s.users.ByInterestTags(ctx, me.InterestTags, excludeIDs, MaxLimit)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Interest match failed for %s: %v", userID, err)
		return nil
	}

	myTags := make(map[string]bool, len(me.InterestTags))
	for _, tag := range me.InterestTags {
		myTags[tag] = true
	}

	now := s.now()
	out := make([]models.UserSuggestion, 0, len(candidates))
	for _, u := range candidates {
		if excluded[u.UserID] {
			continue
		}
		overlap := 0
		for _, tag := range u.InterestTags {
			if myTags[tag] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		out = append(out, models.UserSuggestion{
			UserID:      u.UserID,
			DisplayName: u.DisplayName,
			Score:       float64(overlap),
			Reason:      "shared_interests",
			SuggestedAt: now,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})
	return truncate(out, limit)
}

func (s *Service) randomSample(ctx context.Context, excludeIDs []string, excluded map[string]bool, limit int) []models.UserSuggestion {
	sample, err := s.users.Random(ctx, limit, excludeIDs)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Random sample failed: %v", err)
		return []models.UserSuggestion{}
	}

	now := s.now()
	out := make([]models.UserSuggestion, 0, len(sample))
	for _, u := range sample {
		if excluded[u.UserID] {
			continue
		}
		out = append(out, models.UserSuggestion{
			UserID:      u.UserID,
			DisplayName: u.DisplayName,
			Score:       0,
			Reason:      "discover",
			SuggestedAt: now,
		})
	}
	return truncate(out, limit)
}
