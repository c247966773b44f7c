package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"lyricverse/internal/database"
	"lyricverse/internal/models"
)

// MongoConnectionStore implements ConnectionStore on the connections
// collection.
type MongoConnectionStore struct {
	collection *mongo.Collection
}

// NewMongoConnectionStore creates a connection store over the given database
func NewMongoConnectionStore(db *database.MongoDB) *MongoConnectionStore {
	return &MongoConnectionStore{collection: db.Collection(database.CollectionConnections)}
}

func (s *MongoConnectionStore) ConnectionsOf(ctx context.Context, userID string) ([]string, error) {
	// Accepted edges count from either endpoint
	filter := bson.M{
		"status": models.ConnectionAccepted,
		"$or": bson.A{
			bson.M{"userId": userID},
			bson.M{"friendId": userID},
		},
	}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections of %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var edges []models.Connection
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, fmt.Errorf("failed to decode connections: %w", err)
	}

	seen := make(map[string]bool, len(edges))
	out := make([]string, 0, len(edges))
	for _, edge := range edges {
		other := edge.Other(userID)
		if other == userID || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out, nil
}
