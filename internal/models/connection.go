package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConnectionStatus is the lifecycle state of a social edge
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionBlocked  ConnectionStatus = "blocked"
)

// Connection is a social edge between two users. Direction is irrelevant
// for graph traversal; either endpoint counts as "connected to" the other.
type Connection struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"userId" json:"user_id"`
	FriendID   string             `bson:"friendId" json:"friend_id"`
	Status     ConnectionStatus   `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
	AcceptedAt *time.Time         `bson:"acceptedAt,omitempty" json:"accepted_at,omitempty"`
}

// Other returns the endpoint that is not userID.
func (c *Connection) Other(userID string) string {
	if c.UserID == userID {
		return c.FriendID
	}
	return c.UserID
}
