package scoring

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lyricverse/internal/models"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func testContent(age time.Duration) *models.Content {
	return &models.Content{
		ID:          primitive.NewObjectID(),
		CreatorID:   "creator-1",
		Title:       "test",
		ContentType: models.ContentTypeLyricSnippet,
		CreatedAt:   testNow.Add(-age),
	}
}

func interactions(at time.Time, counts map[models.InteractionType]int) []models.Interaction {
	var out []models.Interaction
	for typ, n := range counts {
		for i := 0; i < n; i++ {
			out = append(out, models.Interaction{
				UserID:    "user",
				ContentID: "content",
				Type:      typ,
				CreatedAt: at,
			})
		}
	}
	return out
}

func TestPopularityScore_EmptyInput(t *testing.T) {
	w := DefaultWeights()

	if got := PopularityScore(nil, nil, testNow, w, Options{}); got != 0 {
		t.Errorf("Expected 0 for nil content, got %f", got)
	}
	if got := PopularityScore(testContent(0), nil, testNow, w, Options{}); got != 0 {
		t.Errorf("Expected 0 for no interactions, got %f", got)
	}
}

func TestPopularityScore_Bounds(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		name   string
		counts map[models.InteractionType]int
	}{
		{"single view", map[models.InteractionType]int{models.InteractionView: 1}},
		{"moderate", map[models.InteractionType]int{models.InteractionLike: 50, models.InteractionView: 500}},
		{"viral", map[models.InteractionType]int{
			models.InteractionLike:    100000,
			models.InteractionComment: 50000,
			models.InteractionShare:   30000,
			models.InteractionView:    1000000,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := PopularityScore(testContent(0), interactions(testNow, tt.counts), testNow, w, Options{})
			if score < 0 || score > 100 {
				t.Errorf("Score %f out of [0,100]", score)
			}
		})
	}
}

func TestPopularityScore_MonotoneInEngagement(t *testing.T) {
	w := DefaultWeights()
	content := testContent(24 * time.Hour)

	prev := 0.0
	for likes := 1; likes <= 1000; likes *= 10 {
		counts := map[models.InteractionType]int{
			models.InteractionView: 100,
			models.InteractionLike: likes,
		}
		score := PopularityScore(content, interactions(testNow, counts), testNow, w, Options{})
		if score < prev {
			t.Errorf("Score decreased from %f to %f when likes grew to %d", prev, score, likes)
		}
		prev = score
	}
}

func TestPopularityScore_AgeDecay(t *testing.T) {
	w := DefaultWeights()
	counts := map[models.InteractionType]int{
		models.InteractionLike:    10,
		models.InteractionComment: 2,
	}

	fresh := PopularityScore(testContent(0), interactions(testNow, counts), testNow, w, Options{})
	aged := PopularityScore(testContent(30*24*time.Hour), interactions(testNow, counts), testNow, w, Options{})

	if fresh <= aged {
		t.Errorf("Expected fresh content (%f) to outscore 30-day-old content (%f)", fresh, aged)
	}
}

func TestPopularityScore_IgnoreAge(t *testing.T) {
	w := DefaultWeights()
	counts := map[models.InteractionType]int{models.InteractionLike: 25}

	fresh := PopularityScore(testContent(0), interactions(testNow, counts), testNow, w, Options{IgnoreAge: true})
	aged := PopularityScore(testContent(60*24*time.Hour), interactions(testNow, counts), testNow, w, Options{IgnoreAge: true})

	if fresh != aged {
		t.Errorf("IgnoreAge should equalize scores, got %f vs %f", fresh, aged)
	}
}

func TestQualityScore_Range(t *testing.T) {
	tests := []struct {
		name   string
		counts map[models.InteractionType]int
	}{
		{"views only", map[models.InteractionType]int{models.InteractionView: 100}},
		{"balanced", map[models.InteractionType]int{
			models.InteractionView: 100,
			models.InteractionLike: 20,
			models.InteractionSave: 5,
		}},
		{"no views", map[models.InteractionType]int{
			models.InteractionLike:  50,
			models.InteractionShare: 50,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QualityScore(testContent(0), interactions(testNow, tt.counts))
			if q < 0 || q > 1 {
				t.Errorf("Quality %f out of [0,1]", q)
			}
		})
	}
}

func TestTrendingScore_DecaysOverTime(t *testing.T) {
	w := DefaultWeights()
	fixed := interactions(testNow, map[models.InteractionType]int{
		models.InteractionLike:  10,
		models.InteractionShare: 3,
	})

	prev := TrendingScore(fixed, testNow, w)
	if prev <= 0 {
		t.Fatalf("Expected positive initial trending score, got %f", prev)
	}

	for _, advance := range []time.Duration{6 * time.Hour, 12 * time.Hour, 23 * time.Hour} {
		score := TrendingScore(fixed, testNow.Add(advance), w)
		if score >= prev {
			t.Errorf("Score %f at +%v should be below %f", score, advance, prev)
		}
		prev = score
	}

	if score := TrendingScore(fixed, testNow.Add(25*time.Hour), w); score != 0 {
		t.Errorf("Expected 0 past the 24h window, got %f", score)
	}
}

func TestTrendingScore_IgnoresFutureInteractions(t *testing.T) {
	w := DefaultWeights()
	future := interactions(testNow.Add(time.Hour), map[models.InteractionType]int{
		models.InteractionLike: 5,
	})

	if score := TrendingScore(future, testNow, w); score != 0 {
		t.Errorf("Expected 0 for future-dated interactions, got %f", score)
	}
}
