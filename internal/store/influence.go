package store

// InfluenceTier buckets a user by accepted-connection count. This is a
// deliberate static heuristic, not community detection: the product has
// always shipped these fixed tiers and downstream consumers key off the
// tier names. Do not replace with a clustering algorithm.
func InfluenceTier(connectionCount int) string {
	switch {
	case connectionCount >= 500:
		return "influencer"
	case connectionCount >= 100:
		return "connector"
	case connectionCount >= 20:
		return "active"
	default:
		return "casual"
	}
}
