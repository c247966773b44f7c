package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InteractionType is a user action against a content item
type InteractionType string

const (
	InteractionView    InteractionType = "view"
	InteractionLike    InteractionType = "like"
	InteractionComment InteractionType = "comment"
	InteractionShare   InteractionType = "share"
	InteractionSave    InteractionType = "save"
)

// Interaction is an immutable, append-only record of a user action.
// Produced by collaborators outside the discovery engine; read-only here.
type Interaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"user_id"`
	ContentID string             `bson:"contentId" json:"content_id"`
	Type      InteractionType    `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}
