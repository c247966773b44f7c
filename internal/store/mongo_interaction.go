package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"lyricverse/internal/database"
	"lyricverse/internal/models"
)

// MongoInteractionStore implements InteractionStore on the interactions
// collection. Interactions are append-only; this store never writes.
type MongoInteractionStore struct {
	collection *mongo.Collection
}

// NewMongoInteractionStore creates an interaction store over the given database
func NewMongoInteractionStore(db *database.MongoDB) *MongoInteractionStore {
	return &MongoInteractionStore{collection: db.Collection(database.CollectionInteractions)}
}

func (s *MongoInteractionStore) ByUser(ctx context.Context, userID string) ([]models.Interaction, error) {
	return s.find(ctx, bson.M{"userId": userID})
}

func (s *MongoInteractionStore) ByContent(ctx context.Context, contentID string) ([]models.Interaction, error) {
	return s.find(ctx, bson.M{"contentId": contentID})
}

func (s *MongoInteractionStore) ByContentSince(ctx context.Context, contentID string, since time.Time) ([]models.Interaction, error) {
	return s.find(ctx, bson.M{
		"contentId": contentID,
		"createdAt": bson.M{"$gte": since},
	})
}

func (s *MongoInteractionStore) ContentIDsSince(ctx context.Context, since time.Time) ([]string, error) {
	raw, err := s.collection.Distinct(ctx, "contentId", bson.M{"createdAt": bson.M{"$gte": since}})
	if err != nil {
		return nil, fmt.Errorf("failed to list recently touched content: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *MongoInteractionStore) UsersByContent(ctx context.Context, contentIDs []string) (map[string][]string, error) {
	if len(contentIDs) == 0 {
		return map[string][]string{}, nil
	}

	// Group interacting users per content id server-side
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"contentId": bson.M{"$in": contentIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$contentId",
			"users": bson.M{"$addToSet": "$userId"},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate co-interactors: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ContentID string   `bson:"_id"`
		Users     []string `bson:"users"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode co-interactors: %w", err)
	}

	out := make(map[string][]string, len(rows))
	for _, row := range rows {
		out[row.ContentID] = row.Users
	}
	return out, nil
}

func (s *MongoInteractionStore) find(ctx context.Context, filter bson.M) ([]models.Interaction, error) {
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Interaction
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode interactions: %w", err)
	}
	return out, nil
}
