package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the slice of the account record the discovery engine reads.
// Account CRUD, credentials, and profile management live in the account
// service; this engine only needs identity and interest tags.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"userId" json:"user_id"`
	DisplayName  string             `bson:"displayName" json:"display_name"`
	InterestTags []string           `bson:"interestTags,omitempty" json:"interest_tags,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
}

// UserSuggestion is a "people you may know" entry with its match score.
// Score semantics depend on the strategy that produced it (mutual-connection
// count, interest overlap, or 0 for random fill).
type UserSuggestion struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Score       float64   `json:"score"`
	Reason      string    `json:"reason"`
	// InfluenceTier is the suggested user's static connection-count
	// bucket (casual/active/connector/influencer).
	InfluenceTier string    `json:"influence_tier,omitempty"`
	SuggestedAt   time.Time `json:"suggested_at"`
}
