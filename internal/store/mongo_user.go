package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"lyricverse/internal/database"
	"lyricverse/internal/models"
)

// MongoUserStore implements UserStore on the users collection
type MongoUserStore struct {
	collection *mongo.Collection
}

// NewMongoUserStore creates a user store over the given database
func NewMongoUserStore(db *database.MongoDB) *MongoUserStore {
	return &MongoUserStore{collection: db.Collection(database.CollectionUsers)}
}

func (s *MongoUserStore) ByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return &user, nil
}

func (s *MongoUserStore) ByIDs(ctx context.Context, userIDs []string) ([]models.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"userId": bson.M{"$in": userIDs}})
}

func (s *MongoUserStore) ByInterestTags(ctx context.Context, tags []string, excludeIDs []string, limit int) ([]models.User, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	filter := bson.M{"interestTags": bson.M{"$in": tags}}
	if len(excludeIDs) > 0 {
		filter["userId"] = bson.M{"$nin": excludeIDs}
	}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by interest: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.User
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MongoUserStore) Random(ctx context.Context, limit int, excludeIDs []string) ([]models.User, error) {
	match := bson.M{}
	if len(excludeIDs) > 0 {
		match["userId"] = bson.M{"$nin": excludeIDs}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sample", Value: bson.M{"size": limit}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sample users: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.User
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode sampled users: %w", err)
	}
	return out, nil
}

func (s *MongoUserStore) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.User
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return out, nil
}
