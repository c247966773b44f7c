package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lyricverse/internal/database"
	"lyricverse/internal/models"
)

// MongoContentStore implements ContentStore on the content collection
type MongoContentStore struct {
	collection *mongo.Collection
}

// NewMongoContentStore creates a content store over the given database
func NewMongoContentStore(db *database.MongoDB) *MongoContentStore {
	return &MongoContentStore{collection: db.Collection(database.CollectionContent)}
}

func (s *MongoContentStore) ByID(ctx context.Context, id string) (*models.Content, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid content id %q: %w", id, err)
	}

	var content models.Content
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&content); err != nil {
		return nil, fmt.Errorf("failed to find content %s: %w", id, err)
	}
	return &content, nil
}

func (s *MongoContentStore) ByIDs(ctx context.Context, ids []string) ([]models.Content, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue // skip malformed ids rather than failing the batch
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, nil
	}

	return s.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

func (s *MongoContentStore) All(ctx context.Context) ([]models.Content, error) {
	return s.find(ctx, bson.M{}, nil)
}

func (s *MongoContentStore) ByCreators(ctx context.Context, creatorIDs []string) ([]models.Content, error) {
	if len(creatorIDs) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"creatorId": bson.M{"$in": creatorIDs}}, nil)
}

func (s *MongoContentStore) Trending(ctx context.Context, minScore float64, limit int) ([]models.Content, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "trendingScore", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return s.find(ctx, bson.M{"trendingScore": bson.M{"$gt": minScore}}, opts)
}

func (s *MongoContentStore) MostPopular(ctx context.Context, limit int) ([]models.Content, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "popularityScore", Value: -1}}).
		SetLimit(int64(limit))
	return s.find(ctx, bson.M{}, opts)
}

func (s *MongoContentStore) UpdateTrendingScore(ctx context.Context, id string, score float64) error {
	return s.setField(ctx, id, "trendingScore", score)
}

func (s *MongoContentStore) UpdatePopularityScore(ctx context.Context, id string, score float64) error {
	return s.setField(ctx, id, "popularityScore", score)
}

func (s *MongoContentStore) setField(ctx context.Context, id, field string, score float64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid content id %q: %w", id, err)
	}

	_, err = s.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			field:       score,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update %s for content %s: %w", field, id, err)
	}
	return nil
}

func (s *MongoContentStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Content, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = s.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Content
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	return out, nil
}
