package store

import (
	"context"
	"time"

	"lyricverse/internal/models"
)

// The discovery engine is storage-agnostic: it talks to these
// intention-revealing repository interfaces, never to a query builder.
// Mongo implementations live in this package; tests use in-memory fakes.

// ContentStore reads content items and lets the scheduled jobs write the
// two engine-owned score fields.
type ContentStore interface {
	ByID(ctx context.Context, id string) (*models.Content, error)
	ByIDs(ctx context.Context, ids []string) ([]models.Content, error)
	All(ctx context.Context) ([]models.Content, error)
	ByCreators(ctx context.Context, creatorIDs []string) ([]models.Content, error)
	// Trending returns content with trendingScore above minScore, sorted
	// descending by trendingScore. limit <= 0 means no limit.
	Trending(ctx context.Context, minScore float64, limit int) ([]models.Content, error)
	// MostPopular returns content sorted descending by popularityScore.
	MostPopular(ctx context.Context, limit int) ([]models.Content, error)
	// Score updates are idempotent set-to-computed-value writes;
	// overlapping job runs at worst repeat them.
	UpdateTrendingScore(ctx context.Context, id string, score float64) error
	UpdatePopularityScore(ctx context.Context, id string, score float64) error
}

// InteractionStore reads the append-only interaction log.
type InteractionStore interface {
	ByUser(ctx context.Context, userID string) ([]models.Interaction, error)
	ByContent(ctx context.Context, contentID string) ([]models.Interaction, error)
	ByContentSince(ctx context.Context, contentID string, since time.Time) ([]models.Interaction, error)
	// ContentIDsSince returns the distinct content ids touched since the
	// given instant, the candidate set for a trending recompute.
	ContentIDsSince(ctx context.Context, since time.Time) ([]string, error)
	// UsersByContent returns, per content id, the users who interacted
	// with it (co-interactors for collaborative filtering).
	UsersByContent(ctx context.Context, contentIDs []string) (map[string][]string, error)
}

// ConnectionStore traverses the accepted social graph.
type ConnectionStore interface {
	// ConnectionsOf returns the user ids connected to userID by an
	// accepted edge, regardless of which side initiated.
	ConnectionsOf(ctx context.Context, userID string) ([]string, error)
}

// UserStore reads user identity and interest tags.
type UserStore interface {
	ByID(ctx context.Context, userID string) (*models.User, error)
	ByIDs(ctx context.Context, userIDs []string) ([]models.User, error)
	// ByInterestTags returns users sharing at least one of the given tags,
	// excluding excludeIDs.
	ByInterestTags(ctx context.Context, tags []string, excludeIDs []string, limit int) ([]models.User, error)
	// Random returns an unscored sample excluding excludeIDs.
	Random(ctx context.Context, limit int, excludeIDs []string) ([]models.User, error)
}
