package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentType identifies what kind of post a content item is
type ContentType string

const (
	ContentTypeLyricSnippet ContentType = "lyric_snippet"
	ContentTypeSongCover    ContentType = "song_cover"
	ContentTypeCommentary   ContentType = "commentary"
	ContentTypePlaylist     ContentType = "playlist"
)

// Content represents a unit of material eligible for recommendation.
// PopularityScore and TrendingScore are owned by the discovery engine's
// scheduled jobs; nothing else writes them.
type Content struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatorID       string             `bson:"creatorId" json:"creator_id"`
	Title           string             `bson:"title" json:"title"`
	Tags            []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Category        string             `bson:"category,omitempty" json:"category,omitempty"`
	ContentType     ContentType        `bson:"contentType" json:"content_type"`
	PopularityScore float64            `bson:"popularityScore" json:"popularity_score"` // [0,100]
	TrendingScore   float64            `bson:"trendingScore" json:"trending_score"`     // >= 0
	CreatedAt       time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updated_at"`
}

// ContentSummary is the wire shape returned by discovery endpoints.
type ContentSummary struct {
	ID              string      `json:"id"`
	CreatorID       string      `json:"creator_id"`
	Title           string      `json:"title"`
	Tags            []string    `json:"tags,omitempty"`
	Category        string      `json:"category,omitempty"`
	ContentType     ContentType `json:"content_type"`
	PopularityScore float64     `json:"popularity_score"`
	TrendingScore   float64     `json:"trending_score"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Summary converts a Content document into its API representation.
func (c *Content) Summary() ContentSummary {
	return ContentSummary{
		ID:              c.ID.Hex(),
		CreatorID:       c.CreatorID,
		Title:           c.Title,
		Tags:            c.Tags,
		Category:        c.Category,
		ContentType:     c.ContentType,
		PopularityScore: c.PopularityScore,
		TrendingScore:   c.TrendingScore,
		CreatedAt:       c.CreatedAt,
	}
}
