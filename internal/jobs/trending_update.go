package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"lyricverse/internal/cache"
	"lyricverse/internal/models"
	"lyricverse/internal/scoring"
)

// Job names used for registration and RunNow
const (
	JobTrendingUpdate   = "trending_update"
	JobPopularityUpdate = "popularity_update"
)

// trendingContent is the slice of ContentStore the trending job needs
type trendingContent interface {
	Trending(ctx context.Context, minScore float64, limit int) ([]models.Content, error)
	UpdateTrendingScore(ctx context.Context, id string, score float64) error
}

// recentInteractions is the slice of InteractionStore the trending job needs
type recentInteractions interface {
	ContentIDsSince(ctx context.Context, since time.Time) ([]string, error)
	ByContentSince(ctx context.Context, contentID string, since time.Time) ([]models.Interaction, error)
}

// TrendingUpdateJob recomputes trendingScore for all content with
// interactions in the trailing 24h window, zeroes out content that fell
// out of the window, and invalidates the global trending cache.
type TrendingUpdateJob struct {
	content      trendingContent
	interactions recentInteractions
	cache        *cache.RecommendationCache
	weights      scoring.Weights
	interval     time.Duration
	now          func() time.Time
	lastRun      time.Time
}

// NewTrendingUpdateJob creates the trending recompute job.
// interval: how often to run (default 30 minutes).
func NewTrendingUpdateJob(content trendingContent, interactions recentInteractions, c *cache.RecommendationCache, weights scoring.Weights, interval time.Duration) *TrendingUpdateJob {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &TrendingUpdateJob{
		content:      content,
		interactions: interactions,
		cache:        c,
		weights:      weights,
		interval:     interval,
		now:          time.Now,
	}
}

// Run recomputes trending scores for one pass. Per-item failures are
// logged and skipped; only a failure to enumerate candidates aborts.
func (j *TrendingUpdateJob) Run(ctx context.Context) error {
	j.lastRun = time.Now()
	now := j.now()
	since := now.Add(-scoring.TrendingWindow)

	active, err := j.interactions.ContentIDsSince(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to enumerate recently touched content: %w", err)
	}

	updated := 0
	failed := 0
	activeSet := make(map[string]bool, len(active))
	for _, id := range active {
		activeSet[id] = true

		recent, err := j.interactions.ByContentSince(ctx, id, since)
		if err != nil {
			log.Printf("⚠️ [TRENDING-UPDATE] Failed to load interactions for %s: %v", id, err)
			failed++
			continue
		}

		score := scoring.TrendingScore(recent, now, j.weights)
		if err := j.content.UpdateTrendingScore(ctx, id, score); err != nil {
			log.Printf("⚠️ [TRENDING-UPDATE] Failed to update %s: %v", id, err)
			failed++
			continue
		}
		updated++
	}

	// Content still carrying a positive score without recent interactions
	// has fallen out of the window: decay it to 0
	zeroed := 0
	stale, err := j.content.Trending(ctx, 0, 0)
	if err != nil {
		log.Printf("⚠️ [TRENDING-UPDATE] Failed to list previously trending content: %v", err)
	} else {
		for _, c := range stale {
			id := c.ID.Hex()
			if activeSet[id] {
				continue
			}
			if err := j.content.UpdateTrendingScore(ctx, id, 0); err != nil {
				log.Printf("⚠️ [TRENDING-UPDATE] Failed to zero %s: %v", id, err)
				failed++
				continue
			}
			zeroed++
		}
	}

	// Stale global list must not outlive a recompute
	j.cache.Invalidate(ctx, cache.GlobalSubject, cache.ListTrending)

	log.Printf("📊 [TRENDING-UPDATE] Run complete: %d updated, %d zeroed, %d failed", updated, zeroed, failed)
	return nil
}

// GetNextRunTime returns when this job should next execute
func (j *TrendingUpdateJob) GetNextRunTime() time.Time {
	if j.lastRun.IsZero() {
		// First run shortly after startup
		return time.Now().Add(time.Minute)
	}
	return j.lastRun.Add(j.interval)
}
