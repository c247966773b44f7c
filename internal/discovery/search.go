package discovery

import (
	"context"
	"log"
	"sort"

	"lyricverse/internal/models"
)

// Social re-ranking weights for externally supplied search results
const (
	connectionBoost   = 1.5
	popularityWeight  = 0.3
	socialRatioWeight = 0.5
)

// EnhanceSearchResults re-ranks an externally supplied search result list
// with social signals: results authored by the user's connections are
// boosted, and popularity plus network-interaction-ratio terms are added
// before re-sorting. Pure re-ranking with no caching or persistence; on any
// store failure the affected signal simply contributes nothing.
func (s *Service) EnhanceSearchResults(ctx context.Context, userID string, results []models.SearchResult, query string) []models.SearchResult {
	if len(results) == 0 {
		return results
	}

	log.Printf("🔍 [DISCOVERY] Re-ranking %d search results for query %q", len(results), query)

	connections, err := s.connections.ConnectionsOf(ctx, userID)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Connection lookup failed for search enhancement (%s): %v", userID, err)
		connections = nil
	}
	connected := make(map[string]bool, len(connections))
	for _, id := range connections {
		connected[id] = true
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}

	popularity := map[string]float64{}
	if items, err := s.content.ByIDs(ctx, ids); err != nil {
		log.Printf("❌ [DISCOVERY] Popularity lookup failed for search enhancement: %v", err)
	} else {
		for _, c := range items {
			popularity[c.ID.Hex()] = c.PopularityScore
		}
	}

	// Fraction of the user's network that touched each result
	socialRatio := map[string]float64{}
	if len(connected) > 0 {
		if interactors, err := s.interactions.UsersByContent(ctx, ids); err != nil {
			log.Printf("❌ [DISCOVERY] Interaction lookup failed for search enhancement: %v", err)
		} else {
			for id, users := range interactors {
				count := 0
				for _, u := range users {
					if connected[u] {
						count++
					}
				}
				socialRatio[id] = float64(count) / float64(len(connected))
			}
		}
	}

	enhanced := make([]models.SearchResult, len(results))
	copy(enhanced, results)
	for i := range enhanced {
		r := &enhanced[i]
		score := r.Score
		if connected[r.CreatorID] {
			score *= connectionBoost
		}
		score += popularity[r.ID] / 100 * popularityWeight
		score += socialRatio[r.ID] * socialRatioWeight
		r.SocialScore = score
	}

	sort.SliceStable(enhanced, func(i, j int) bool {
		return enhanced[i].SocialScore > enhanced[j].SocialScore
	})
	return enhanced
}
