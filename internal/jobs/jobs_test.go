package jobs

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lyricverse/internal/cache"
	"lyricverse/internal/models"
	"lyricverse/internal/scoring"
)

var jobNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

// jobContentStore implements the content slices both jobs consume
type jobContentStore struct {
	items map[string]*models.Content
}

func newJobContentStore(items ...*models.Content) *jobContentStore {
	m := map[string]*models.Content{}
	for _, c := range items {
		m[c.ID.Hex()] = c
	}
	return &jobContentStore{items: m}
}

func (s *jobContentStore) All(context.Context) ([]models.Content, error) {
	var out []models.Content
	for _, c := range s.items {
		out = append(out, *c)
	}
	return out, nil
}

func (s *jobContentStore) Trending(_ context.Context, minScore float64, _ int) ([]models.Content, error) {
	var out []models.Content
	for _, c := range s.items {
		if c.TrendingScore > minScore {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *jobContentStore) UpdateTrendingScore(_ context.Context, id string, score float64) error {
	s.items[id].TrendingScore = score
	return nil
}

func (s *jobContentStore) UpdatePopularityScore(_ context.Context, id string, score float64) error {
	s.items[id].PopularityScore = score
	return nil
}

// jobInteractionStore implements the interaction slices both jobs consume
type jobInteractionStore struct {
	items []models.Interaction
}

func (s *jobInteractionStore) ContentIDsSince(_ context.Context, since time.Time) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, in := range s.items {
		if !in.CreatedAt.Before(since) && !seen[in.ContentID] {
			seen[in.ContentID] = true
			out = append(out, in.ContentID)
		}
	}
	return out, nil
}

func (s *jobInteractionStore) ByContentSince(_ context.Context, contentID string, since time.Time) ([]models.Interaction, error) {
	var out []models.Interaction
	for _, in := range s.items {
		if in.ContentID == contentID && !in.CreatedAt.Before(since) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (s *jobInteractionStore) ByContent(_ context.Context, contentID string) ([]models.Interaction, error) {
	var out []models.Interaction
	for _, in := range s.items {
		if in.ContentID == contentID {
			out = append(out, in)
		}
	}
	return out, nil
}

func jobContent(trending float64) *models.Content {
	return &models.Content{
		ID:            primitive.NewObjectID(),
		CreatorID:     "creator-1",
		Title:         "item",
		ContentType:   models.ContentTypeLyricSnippet,
		TrendingScore: trending,
		CreatedAt:     jobNow.Add(-72 * time.Hour),
	}
}

func TestTrendingUpdateJob_ScoresRecentAndZeroesStale(t *testing.T) {
	hot := jobContent(0)
	stale := jobContent(42) // trending from a previous window, no recent interactions
	content := newJobContentStore(hot, stale)

	interactions := &jobInteractionStore{items: []models.Interaction{
		{UserID: "u1", ContentID: hot.ID.Hex(), Type: models.InteractionLike, CreatedAt: jobNow.Add(-time.Hour)},
		{UserID: "u2", ContentID: hot.ID.Hex(), Type: models.InteractionShare, CreatedAt: jobNow.Add(-2 * time.Hour)},
		// Outside the 24h window: must not count
		{UserID: "u3", ContentID: stale.ID.Hex(), Type: models.InteractionLike, CreatedAt: jobNow.Add(-30 * time.Hour)},
	}}

	store := cache.NewMemory()
	recCache := cache.NewRecommendationCache(store)
	cache.SetList(context.Background(), recCache, cache.GlobalSubject, cache.ListTrending, []string{"stale"}, time.Hour)

	job := NewTrendingUpdateJob(content, interactions, recCache, scoring.DefaultWeights(), 30*time.Minute)
	job.now = func() time.Time { return jobNow }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if hot.TrendingScore <= 0 {
		t.Errorf("Expected positive trending score for recently touched content, got %f", hot.TrendingScore)
	}
	if stale.TrendingScore != 0 {
		t.Errorf("Expected stale content zeroed, got %f", stale.TrendingScore)
	}
	if _, ok := cache.GetList[string](context.Background(), recCache, cache.GlobalSubject, cache.ListTrending, 10); ok {
		t.Error("Expected global trending cache invalidated after recompute")
	}
}

func TestTrendingUpdateJob_IdempotentReruns(t *testing.T) {
	hot := jobContent(0)
	content := newJobContentStore(hot)
	interactions := &jobInteractionStore{items: []models.Interaction{
		{UserID: "u1", ContentID: hot.ID.Hex(), Type: models.InteractionLike, CreatedAt: jobNow.Add(-time.Hour)},
	}}

	job := NewTrendingUpdateJob(content, interactions, cache.NewRecommendationCache(cache.NewMemory()), scoring.DefaultWeights(), 30*time.Minute)
	job.now = func() time.Time { return jobNow }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	first := hot.TrendingScore

	// A double-run (overlapping schedule) must converge to the same value
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if hot.TrendingScore != first {
		t.Errorf("Rerun changed score from %f to %f", first, hot.TrendingScore)
	}
}

func TestPopularityUpdateJob_RecomputesCatalog(t *testing.T) {
	liked := jobContent(0)
	ignored := jobContent(0)
	content := newJobContentStore(liked, ignored)

	interactions := &jobInteractionStore{items: []models.Interaction{
		{UserID: "u1", ContentID: liked.ID.Hex(), Type: models.InteractionLike, CreatedAt: jobNow.Add(-time.Hour)},
		{UserID: "u2", ContentID: liked.ID.Hex(), Type: models.InteractionComment, CreatedAt: jobNow.Add(-time.Hour)},
	}}

	job := NewPopularityUpdateJob(content, interactions, scoring.DefaultWeights(), 3*time.Hour)
	job.now = func() time.Time { return jobNow }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if liked.PopularityScore <= 0 {
		t.Errorf("Expected positive popularity for liked content, got %f", liked.PopularityScore)
	}
	if ignored.PopularityScore != 0 {
		t.Errorf("Expected 0 popularity for untouched content, got %f", ignored.PopularityScore)
	}
	if liked.PopularityScore > 100 {
		t.Errorf("Popularity exceeded bound: %f", liked.PopularityScore)
	}
}

func TestScheduler_RunNow(t *testing.T) {
	hot := jobContent(0)
	content := newJobContentStore(hot)
	interactions := &jobInteractionStore{items: []models.Interaction{
		{UserID: "u1", ContentID: hot.ID.Hex(), Type: models.InteractionSave, CreatedAt: jobNow.Add(-time.Hour)},
	}}

	job := NewTrendingUpdateJob(content, interactions, cache.NewRecommendationCache(cache.NewMemory()), scoring.DefaultWeights(), 30*time.Minute)
	job.now = func() time.Time { return jobNow }

	s := NewScheduler()
	s.Register(JobTrendingUpdate, job)

	if err := s.RunNow(JobTrendingUpdate); err != nil {
		t.Fatalf("RunNow failed: %v", err)
	}
	if hot.TrendingScore <= 0 {
		t.Errorf("Expected job to run synchronously and update the score, got %f", hot.TrendingScore)
	}

	// Unknown jobs are a logged no-op, not an error
	if err := s.RunNow("does_not_exist"); err != nil {
		t.Errorf("Expected nil for unknown job, got %v", err)
	}
}
