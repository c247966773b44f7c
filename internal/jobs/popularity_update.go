package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"lyricverse/internal/models"
	"lyricverse/internal/scoring"
)

// popularityContent is the slice of ContentStore the popularity job needs
type popularityContent interface {
	All(ctx context.Context) ([]models.Content, error)
	UpdatePopularityScore(ctx context.Context, id string, score float64) error
}

// contentInteractions is the slice of InteractionStore the popularity job needs
type contentInteractions interface {
	ByContent(ctx context.Context, contentID string) ([]models.Interaction, error)
}

// PopularityUpdateJob recomputes popularityScore for the full catalog via
// the scoring engine. Runs are idempotent; an overlapping run just
// repeats the same set-to-computed-value writes.
type PopularityUpdateJob struct {
	content      popularityContent
	interactions contentInteractions
	weights      scoring.Weights
	interval     time.Duration
	now          func() time.Time
	lastRun      time.Time
}

// NewPopularityUpdateJob creates the popularity recompute job.
// interval: how often to run (default 3 hours).
func NewPopularityUpdateJob(content popularityContent, interactions contentInteractions, weights scoring.Weights, interval time.Duration) *PopularityUpdateJob {
	if interval <= 0 {
		interval = 3 * time.Hour
	}
	return &PopularityUpdateJob{
		content:      content,
		interactions: interactions,
		weights:      weights,
		interval:     interval,
		now:          time.Now,
	}
}

// Run recomputes popularity for one pass over the catalog
func (j *PopularityUpdateJob) Run(ctx context.Context) error {
	j.lastRun = time.Now()
	now := j.now()

	catalog, err := j.content.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load content catalog: %w", err)
	}

	updated := 0
	failed := 0
	for i := range catalog {
		c := &catalog[i]
		id := c.ID.Hex()

		interactions, err := j.interactions.ByContent(ctx, id)
		if err != nil {
			log.Printf("⚠️ [POPULARITY-UPDATE] Failed to load interactions for %s: %v", id, err)
			failed++
			continue
		}

		score := scoring.PopularityScore(c, interactions, now, j.weights, scoring.Options{})
		if err := j.content.UpdatePopularityScore(ctx, id, score); err != nil {
			log.Printf("⚠️ [POPULARITY-UPDATE] Failed to update %s: %v", id, err)
			failed++
			continue
		}
		updated++
	}

	log.Printf("📊 [POPULARITY-UPDATE] Run complete: %d of %d updated, %d failed", updated, len(catalog), failed)
	return nil
}

// GetNextRunTime returns when this job should next execute
func (j *PopularityUpdateJob) GetNextRunTime() time.Time {
	if j.lastRun.IsZero() {
		// First run shortly after startup, staggered past the trending job
		return time.Now().Add(2 * time.Minute)
	}
	return j.lastRun.Add(j.interval)
}
