package discovery

import (
	"context"
	"log"
	"sort"

	"lyricverse/internal/cache"
	"lyricverse/internal/experiments"
	"lyricverse/internal/models"
)

// Position-score ramps for hybrid merging: each source list contributes a
// linearly decreasing score across its positions.
const (
	collabTopScore  = 1.0
	contentTopScore = 0.9
	positionFloor   = 0.3
)

// scored pairs a content summary with its rank score and the strategies
// that produced it.
type scored struct {
	item    models.ContentSummary
	score   float64
	sources []string
}

// PersonalizedRecommendations returns the user's ranked feed. The serving
// algorithm is picked per-user by the recommendation experiment; any data
// failure inside an algorithm branch degrades to the popular fallback,
// never to an error.
func (s *Service) PersonalizedRecommendations(ctx context.Context, userID string, limit int) []models.ContentSummary {
	limit = capLimit(limit)

	if cached, ok := cache.GetList[models.ContentSummary](ctx, s.cache, userID, cache.ListPersonalized, limit); ok {
		cacheHits.WithLabelValues(cache.ListPersonalized).Inc()
		return cached
	}
	cacheMisses.WithLabelValues(cache.ListPersonalized).Inc()

	variant := s.experiments.Variant(userID, experiments.ExperimentRecommendationAlgorithm)
	recommendationRequests.WithLabelValues(variant).Inc()

	// Always build the full-size list so the cached entry can serve any
	// later request up to MaxLimit, whatever limit the first caller asked for.
	var list []models.ContentSummary
	switch variant {
	case experiments.VariantCollaborative:
		list = s.collaborative(ctx, userID, MaxLimit)
	case experiments.VariantContentBased:
		list = s.contentBased(ctx, userID, MaxLimit)
	default:
		list = s.hybrid(ctx, userID, MaxLimit)
	}

	cache.SetList(ctx, s.cache, userID, cache.ListPersonalized, list, TTLPersonalized)
	return truncate(list, limit)
}

// collaborative runs collaborative filtering with the popular fallback
func (s *Service) collaborative(ctx context.Context, userID string, limit int) []models.ContentSummary {
	candidates, ok := s.collaborativeCandidates(ctx, userID)
	if !ok || len(candidates) == 0 {
		return s.PopularContent(ctx, limit)
	}
	return s.resolve(ctx, candidates, limit)
}

// contentBased runs content-feature matching with the popular fallback
func (s *Service) contentBased(ctx context.Context, userID string, limit int) []models.ContentSummary {
	candidates, ok := s.contentBasedCandidates(ctx, userID)
	if !ok || len(candidates) == 0 {
		return s.PopularContent(ctx, limit)
	}
	return truncate(candidates, limit)
}

// hybrid merges both strategies by position score, then tops up any
// shortfall from the popular list. The result never contains duplicate
// content ids and its length is min(limit, unique candidates available).
func (s *Service) hybrid(ctx context.Context, userID string, limit int) []models.ContentSummary {
	collabIDs, okCollab := s.collaborativeCandidates(ctx, userID)
	collab := []models.ContentSummary{}
	if okCollab {
		collab = s.resolve(ctx, collabIDs, limit)
	}

	contentMatched, okContent := s.contentBasedCandidates(ctx, userID)
	if !okContent {
		contentMatched = nil
	}
	contentMatched = truncate(contentMatched, limit)

	if len(collab) == 0 && len(contentMatched) == 0 {
		return s.PopularContent(ctx, limit)
	}

	merged := map[string]*scored{}
	accumulate := func(list []models.ContentSummary, top float64, source string) {
		for i, item := range list {
			score := positionScore(top, i, len(list))
			if existing, ok := merged[item.ID]; ok {
				existing.score += score
				existing.sources = append(existing.sources, source)
				continue
			}
			merged[item.ID] = &scored{item: item, score: score, sources: []string{source}}
		}
	}
	accumulate(collab, collabTopScore, "collaborative")
	accumulate(contentMatched, contentTopScore, "content")

	ranked := make([]*scored, 0, len(merged))
	for _, sc := range merged {
		ranked = append(ranked, sc)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]models.ContentSummary, 0, limit)
	seen := make(map[string]bool, limit)
	for _, sc := range ranked {
		if len(out) == limit {
			break
		}
		out = append(out, sc.item)
		seen[sc.item.ID] = true
	}

	// Top up a shortfall from popular content, excluding duplicates
	if len(out) < limit {
		for _, item := range s.PopularContent(ctx, limit) {
			if len(out) == limit {
				break
			}
			if seen[item.ID] {
				continue
			}
			out = append(out, item)
			seen[item.ID] = true
		}
	}

	return out
}

// positionScore maps a list position to a linearly decreasing score from
// top down to positionFloor at the last position.
func positionScore(top float64, index, length int) float64 {
	if length <= 1 {
		return top
	}
	return top - (top-positionFloor)*float64(index)/float64(length-1)
}

// collaborativeCandidates finds content ids co-touched by the user's most
// similar co-interactors, ranked by co-occurrence. ok is false when the
// branch should fall back (empty history or a data error).
func (s *Service) collaborativeCandidates(ctx context.Context, userID string) ([]string, bool) {
	mine, err := s.interactions.ByUser(ctx, userID)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Interaction lookup failed for %s: %v", userID, err)
		return nil, false
	}
	if len(mine) == 0 {
		return nil, false
	}

	seen := make(map[string]bool, len(mine))
	touchedIDs := make([]string, 0, len(mine))
	for _, in := range mine {
		if !seen[in.ContentID] {
			seen[in.ContentID] = true
			touchedIDs = append(touchedIDs, in.ContentID)
		}
	}

	coInteractors, err := s.interactions.UsersByContent(ctx, touchedIDs)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Co-interactor lookup failed for %s: %v", userID, err)
		return nil, false
	}

	// Similarity = number of my touched items the other user also touched
	similarity := map[string]int{}
	for _, users := range coInteractors {
		for _, other := range users {
			if other != userID {
				similarity[other]++
			}
		}
	}
	if len(similarity) == 0 {
		return nil, false
	}

	similar := make([]string, 0, len(similarity))
	for other := range similarity {
		similar = append(similar, other)
	}
	sort.Slice(similar, func(i, j int) bool {
		if similarity[similar[i]] != similarity[similar[j]] {
			return similarity[similar[i]] > similarity[similar[j]]
		}
		return similar[i] < similar[j]
	})
	similar = truncate(similar, topSimilarUsers)

	// Rank the similar users' other content by co-occurrence frequency,
	// excluding what I've already seen
	frequency := map[string]int{}
	for _, other := range similar {
		theirs, err := s.interactions.ByUser(ctx, other)
		if err != nil {
			log.Printf("❌ [DISCOVERY] Interaction lookup failed for similar user %s: %v", other, err)
			return nil, false
		}
		counted := map[string]bool{}
		for _, in := range theirs {
			if seen[in.ContentID] || counted[in.ContentID] {
				continue
			}
			counted[in.ContentID] = true
			frequency[in.ContentID]++
		}
	}

	candidates := make([]string, 0, len(frequency))
	for id := range frequency {
		candidates = append(candidates, id)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if frequency[candidates[i]] != frequency[candidates[j]] {
			return frequency[candidates[i]] > frequency[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})

	return candidates, true
}

// contentBasedCandidates scores unseen content by overlap with the
// weighted feature profile of the user's interacted content. ok is false
// when the branch should fall back.
func (s *Service) contentBasedCandidates(ctx context.Context, userID string) ([]models.ContentSummary, bool) {
	mine, err := s.interactions.ByUser(ctx, userID)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Interaction lookup failed for %s: %v", userID, err)
		return nil, false
	}
	if len(mine) == 0 {
		return nil, false
	}

	seen := make(map[string]bool, len(mine))
	touchedIDs := make([]string, 0, len(mine))
	for _, in := range mine {
		if !seen[in.ContentID] {
			seen[in.ContentID] = true
			touchedIDs = append(touchedIDs, in.ContentID)
		}
	}

	touched, err := s.content.ByIDs(ctx, touchedIDs)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Touched-content lookup failed for %s: %v", userID, err)
		return nil, false
	}

	// Weighted feature profile: how often each tag, category, creator,
	// and content type appears in what the user engaged with
	tags := map[string]float64{}
	categories := map[string]float64{}
	creators := map[string]float64{}
	types := map[models.ContentType]float64{}
	for _, c := range touched {
		for _, tag := range c.Tags {
			tags[tag]++
		}
		if c.Category != "" {
			categories[c.Category]++
		}
		creators[c.CreatorID]++
		types[c.ContentType]++
	}

	all, err := s.content.All(ctx)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Candidate scan failed for %s: %v", userID, err)
		return nil, false
	}

	ranked := make([]*scored, 0, len(all))
	for i := range all {
		c := &all[i]
		id := c.ID.Hex()
		if seen[id] {
			continue
		}

		var score float64
		for _, tag := range c.Tags {
			score += tags[tag]
		}
		score += categories[c.Category]
		score += creators[c.CreatorID] * 2 // creator affinity counts double
		score += types[c.ContentType]

		if score > 0 {
			ranked = append(ranked, &scored{item: c.Summary(), score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].item.ID < ranked[j].item.ID
	})

	out := make([]models.ContentSummary, 0, len(ranked))
	for _, sc := range ranked {
		out = append(out, sc.item)
	}
	return out, true
}

// resolve loads content documents for ranked ids, preserving rank order
func (s *Service) resolve(ctx context.Context, ids []string, limit int) []models.ContentSummary {
	ids = truncate(ids, limit)
	items, err := s.content.ByIDs(ctx, ids)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Content resolve failed: %v", err)
		return []models.ContentSummary{}
	}

	byID := make(map[string]*models.Content, len(items))
	for i := range items {
		byID[items[i].ID.Hex()] = &items[i]
	}

	out := make([]models.ContentSummary, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c.Summary())
		}
	}
	return out
}
