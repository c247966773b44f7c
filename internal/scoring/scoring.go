package scoring

import (
	"math"
	"time"

	"lyricverse/internal/models"
)

// Weights holds the scoring algorithm configuration. All scoring is driven
// by an explicit weight table so alternative weightings can be injected
// without code changes.
type Weights struct {
	View    float64 // Default: 0.1
	Like    float64 // Default: 1.0
	Comment float64 // Default: 2.0
	Share   float64 // Default: 3.0
	Save    float64 // Default: 2.5

	QualityWeight float64 // Default: 0.5
	AgeWeight     float64 // Default: 1.0
}

// DefaultWeights returns the default scoring weight table
func DefaultWeights() Weights {
	return Weights{
		View:    0.1,
		Like:    1.0,
		Comment: 2.0,
		Share:   3.0,
		Save:    2.5,

		QualityWeight: 0.5,
		AgeWeight:     1.0,
	}
}

// weightFor returns the configured weight for an interaction type.
// Unknown types contribute nothing.
func (w Weights) weightFor(t models.InteractionType) float64 {
	switch t {
	case models.InteractionView:
		return w.View
	case models.InteractionLike:
		return w.Like
	case models.InteractionComment:
		return w.Comment
	case models.InteractionShare:
		return w.Share
	case models.InteractionSave:
		return w.Save
	default:
		return 0
	}
}

// Options adjusts a single PopularityScore computation.
type Options struct {
	IgnoreAge bool
}

// TrendingWindow is the trailing window inside which interactions count
// toward the trending score. Interactions older than this contribute 0.
const TrendingWindow = 24 * time.Hour

// PopularityScore computes the longer-horizon engagement score for a
// content item, normalized to [0,100].
//
// Pipeline: type-weighted interaction sum -> log10(1+sum)*10 compression
// -> quality multiplier (1 + quality*QualityWeight) -> age decay
// 1/(1 + AgeWeight*ageDays/30) unless opts.IgnoreAge -> clamp to [0,100].
//
// Pure and deterministic; nil/empty interactions score 0.
func PopularityScore(content *models.Content, interactions []models.Interaction, now time.Time, w Weights, opts Options) float64 {
	if content == nil || len(interactions) == 0 {
		return 0
	}

	var sum float64
	for _, in := range interactions {
		sum += w.weightFor(in.Type)
	}
	if sum <= 0 {
		return 0
	}

	// Log compression keeps viral outliers from saturating the scale
	score := math.Log10(1+sum) * 10

	quality := QualityScore(content, interactions)
	score *= 1 + quality*w.QualityWeight

	if !opts.IgnoreAge {
		ageDays := now.Sub(content.CreatedAt).Hours() / 24.0
		if ageDays < 0 {
			ageDays = 0
		}
		score /= 1 + w.AgeWeight*ageDays/30.0
	}

	return clamp(score, 0, 100)
}

// QualityScore computes an engagement-ratio composite in [0,1]: how much of
// the viewing audience went on to like/comment/share/save. Views are floored
// at 1 so ratio math never divides by zero.
func QualityScore(content *models.Content, interactions []models.Interaction) float64 {
	if content == nil || len(interactions) == 0 {
		return 0
	}

	counts := map[models.InteractionType]float64{}
	for _, in := range interactions {
		counts[in.Type]++
	}

	views := math.Max(1, counts[models.InteractionView])

	// Engagement ratios weighted by how deliberate each action is
	raw := counts[models.InteractionLike]/views*0.3 +
		counts[models.InteractionComment]/views*0.3 +
		counts[models.InteractionShare]/views*0.25 +
		counts[models.InteractionSave]/views*0.15

	// Log compression: raw=1 maps exactly to 1, lower ratios compress smoothly
	return clamp(math.Log10(1+raw*9), 0, 1)
}

// TrendingScore computes the rolling, time-decayed measure of very recent
// engagement. Each interaction inside TrendingWindow contributes its type
// weight scaled by a linear decay from 1 (just now) to 0 (window edge);
// anything older contributes nothing. Result is >= 0 and strictly decreases
// as now moves forward past a fixed interaction set.
func TrendingScore(interactions []models.Interaction, now time.Time, w Weights) float64 {
	var score float64
	for _, in := range interactions {
		age := now.Sub(in.CreatedAt)
		if age < 0 || age >= TrendingWindow {
			continue
		}
		decay := 1 - age.Seconds()/TrendingWindow.Seconds()
		score += w.weightFor(in.Type) * decay
	}
	return score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
