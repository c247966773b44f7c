package models

// SearchResult is an externally supplied search hit passed through the
// social re-ranking step. The engine never produces these itself; it only
// re-orders what the search collaborator returns.
type SearchResult struct {
	ID          string   `json:"id"`
	CreatorID   string   `json:"creator_id"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags,omitempty"`
	Score       float64  `json:"score"`
	SocialScore float64  `json:"social_score,omitempty"`
}
